package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todocrm/internal/model"
	"github.com/idilsaglam/todocrm/internal/ui"
)

// dispatcher receives the editor's Add or Update.
type dispatcher interface {
	SetAction(action model.TaskAction)
}

const (
	fieldTitle = iota
	fieldDescription
)

// editor adds a new task or edits the title and description of an
// existing one.
type editor struct {
	vm       dispatcher
	task     model.ToDoTask
	existing bool
	inputs   []textinput.Model
	focus    int
	err      string
}

func newEditor(vm dispatcher, task model.ToDoTask, existing bool) *editor {
	title := textinput.New()
	title.Prompt = "Title       > "
	title.Placeholder = "Enter the Title"
	title.CharLimit = 200
	title.SetValue(task.Title)
	title.CursorEnd()
	title.Focus()

	desc := textinput.New()
	desc.Prompt = "Description > "
	desc.Placeholder = "Enter the Description"
	desc.CharLimit = 1000
	desc.SetValue(task.Description)

	return &editor{vm: vm, task: task, existing: existing, inputs: []textinput.Model{title, desc}}
}

func (e *editor) Init() tea.Cmd { return textinput.Blink }

func (e *editor) Update(msg tea.Msg) (screen, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return e, pop
		case "tab", "shift+tab", "up", "down":
			e.inputs[e.focus].Blur()
			e.focus = 1 - e.focus
			e.inputs[e.focus].Focus()
			return e, textinput.Blink
		case "enter":
			if e.focus == fieldTitle {
				e.inputs[fieldTitle].Blur()
				e.focus = fieldDescription
				e.inputs[fieldDescription].Focus()
				return e, textinput.Blink
			}
			return e, e.save()
		case "ctrl+s":
			return e, e.save()
		}
	}

	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	return e, cmd
}

func (e *editor) save() tea.Cmd {
	title := strings.TrimSpace(e.inputs[fieldTitle].Value())
	if title == "" {
		e.err = "Title cannot be empty"
		return nil
	}
	task := e.task
	task.Title = title
	task.Description = strings.TrimSpace(e.inputs[fieldDescription].Value())

	if e.existing {
		e.vm.SetAction(model.Update(task))
	} else {
		e.vm.SetAction(model.Add(task))
	}
	return pop
}

func (e *editor) View(width, height int) string {
	s := ui.S()
	heading := "New task"
	if e.existing {
		heading = "Edit task"
	}
	lines := []string{
		s.Title.Render(heading),
		"",
		e.inputs[fieldTitle].View(),
		e.inputs[fieldDescription].View(),
	}
	if e.err != "" {
		lines = append(lines, "", s.Error.Render(e.err))
	}
	action := "add"
	if e.existing {
		action = "update"
	}
	lines = append(lines, "", s.Help.Render("enter "+action+" • tab switch • esc back"))

	box := ui.Frame(strings.Join(lines, "\n"), min(width, 72), true)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
