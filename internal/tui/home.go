package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todocrm/internal/model"
	"github.com/idilsaglam/todocrm/internal/state"
	"github.com/idilsaglam/todocrm/internal/ui"
	"github.com/idilsaglam/todocrm/internal/viewmodel"
)

const (
	panelActive = iota
	panelCompleted
)

// taskItem adapts a task to bubbles/list.Item
type taskItem struct{ task model.ToDoTask }

func (i taskItem) FilterValue() string { return i.task.Title }

// taskDelegate renders one task per line: checkbox, star, title.
type taskDelegate struct{}

func (d taskDelegate) Height() int                               { return 1 }
func (d taskDelegate) Spacing() int                              { return 0 }
func (d taskDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(taskItem)
	t, s := ui.Current(), ui.S()

	box := s.Muted.Render(t.BoxUnchecked)
	text := it.task.Title
	if it.task.Completed {
		box = s.Success.Render(t.BoxChecked)
		text = s.Done.Render(text)
	}
	star := " "
	if it.task.Favorite {
		star = s.Favorite.Render(t.SymFavorite)
	}
	line := fmt.Sprintf("%s %s %s", box, star, text)
	if it.task.Description != "" {
		line += "  " + s.Muted.Render(firstLine(it.task.Description))
	}

	prefix := "  "
	if index == m.Index() {
		prefix = s.Selected.Render("> ")
	}
	fmt.Fprint(w, prefix+line)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "…"
	}
	return s
}

var homeKeys = []key.Binding{
	key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
	key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
	key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done")),
	key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch")),
	key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "customers")),
	key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
}

type home struct {
	deps    *Deps
	vm      *viewmodel.Home
	user    string
	lists   [2]list.Model
	focus   int
	confirm *model.ToDoTask
	spinner spinner.Model
}

func newHome(deps *Deps, user string) *home {
	h := &home{
		deps:    deps,
		vm:      viewmodel.NewHome(deps.Tasks, deps.StartupDelay, deps.Log),
		user:    user,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(ui.S().Accent)),
	}
	h.lists[panelActive] = newTaskList("Active Tasks")
	h.lists[panelCompleted] = newTaskList("Completed Tasks")
	return h
}

func newTaskList(title string) list.Model {
	l := list.New(nil, taskDelegate{}, 0, 0)
	l.Title = title
	l.Styles.Title = ui.S().Title
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)
	l.Styles.PaginationStyle = ui.S().Help
	// the screen owns quitting
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	return l
}

func (h *home) Close() { h.vm.Close() }

func (h *home) Init() tea.Cmd {
	return tea.Batch(h.spinner.Tick, waitFor(h.vm.Changes()))
}

// sync copies the view-model snapshots into the lists.
func (h *home) sync() {
	for i, st := range []viewmodel.Tasks{h.vm.ActiveTasks(), h.vm.CompletedTasks()} {
		if !st.IsSuccess() {
			continue
		}
		tasks := st.Data()
		items := make([]list.Item, 0, len(tasks))
		for _, t := range tasks {
			items = append(items, taskItem{t})
		}
		h.lists[i].SetItems(items)
	}
}

func (h *home) selected() (model.ToDoTask, bool) {
	it, ok := h.lists[h.focus].SelectedItem().(taskItem)
	return it.task, ok
}

func (h *home) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		if msg.src != h.vm.Changes() {
			return h, nil
		}
		h.sync()
		return h, waitFor(h.vm.Changes())
	case spinner.TickMsg:
		var cmd tea.Cmd
		h.spinner, cmd = h.spinner.Update(msg)
		return h, cmd
	case tea.KeyMsg:
		if h.confirm != nil {
			switch msg.String() {
			case "y", "enter":
				h.vm.SetAction(model.Delete(*h.confirm))
				h.confirm = nil
			case "n", "esc":
				h.confirm = nil
			}
			return h, nil
		}

		switch msg.String() {
		case "q", "esc":
			return h, quit
		case "tab", "shift+tab":
			h.focus = 1 - h.focus
			return h, nil
		case "n":
			return h, push(newEditor(h.vm, model.ToDoTask{}, false))
		case "enter":
			if t, ok := h.selected(); ok {
				return h, push(newEditor(h.vm, t, true))
			}
			return h, nil
		case "f":
			if t, ok := h.selected(); ok && h.focus == panelActive {
				h.vm.SetAction(model.SetFavorite(t, !t.Favorite))
			}
			return h, nil
		case " ":
			if t, ok := h.selected(); ok {
				h.vm.SetAction(model.SetCompleted(t, !t.Completed))
			}
			return h, nil
		case "d":
			if t, ok := h.selected(); ok && h.focus == panelCompleted {
				h.confirm = &t
			}
			return h, nil
		case "c":
			return h, push(newCustomers(h.deps))
		}
	}

	var cmd tea.Cmd
	h.lists[h.focus], cmd = h.lists[h.focus].Update(msg)
	return h, cmd
}

func confirmText(t model.ToDoTask) string {
	return fmt.Sprintf("Are you sure you want to remove '%s' task?", t.Title)
}

func (h *home) View(width, height int) string {
	s := ui.S()
	if h.confirm != nil {
		box := s.Dialog.Render(confirmText(*h.confirm) + "\n\n" + s.Help.Render("y yes • n no"))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
	}

	header := s.Title.Render("To-Do")
	if h.user != "" {
		header += "  " + s.Muted.Render("signed in as ") + s.Accent.Render(h.user)
	}
	if n := h.vm.Notice(); n != "" {
		header += "\n" + s.Error.Render(n)
	}
	help := helpLine(homeKeys)

	bodyHeight := height - lipgloss.Height(header) - lipgloss.Height(help) - 1
	states := []viewmodel.Tasks{h.vm.ActiveTasks(), h.vm.CompletedTasks()}

	var body string
	if width >= 80 {
		pw := width / 2
		left := h.panel(panelActive, states[panelActive], pw, bodyHeight)
		right := h.panel(panelCompleted, states[panelCompleted], width-pw, bodyHeight)
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	} else {
		ph := bodyHeight / 2
		top := h.panel(panelActive, states[panelActive], width, ph)
		bottom := h.panel(panelCompleted, states[panelCompleted], width, bodyHeight-ph)
		body = lipgloss.JoinVertical(lipgloss.Left, top, bottom)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, help)
}

// panel renders one task list inside a frame of the given outer size.
func (h *home) panel(i int, st viewmodel.Tasks, width, height int) string {
	s := ui.S()
	innerW, innerH := max(width-4, 10), max(height-2, 3)
	l := &h.lists[i]
	l.SetSize(innerW, innerH)

	inner := state.Display(st,
		func() string { return s.Title.Render(l.Title) + "\n\n" + h.spinner.View() + " Loading..." },
		func(msg string) string { return s.Title.Render(l.Title) + "\n\n" + s.Error.Render(msg) },
		func(tasks []model.ToDoTask) string {
			if len(tasks) == 0 {
				return s.Title.Render(l.Title) + "\n\n" + s.Muted.Render("No tasks")
			}
			return l.View()
		},
	)
	inner = lipgloss.NewStyle().Height(innerH).MaxHeight(innerH).Render(inner)
	return ui.Frame(inner, width, i == h.focus)
}

func helpLine(keys []key.Binding) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k.Help().Key+" "+k.Help().Desc)
	}
	return ui.S().Help.Render(strings.Join(parts, " • "))
}
