package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todocrm/internal/model"
	"github.com/idilsaglam/todocrm/internal/state"
	"github.com/idilsaglam/todocrm/internal/ui"
	"github.com/idilsaglam/todocrm/internal/viewmodel"
)

// customerItem implements list.DefaultItem
type customerItem struct{ c model.Customer }

func (i customerItem) Title() string       { return i.c.FullName() }
func (i customerItem) Description() string { return fmt.Sprintf("%s · #%d", i.c.Email, i.c.ID) }
func (i customerItem) FilterValue() string { return i.c.FullName() + " " + i.c.Email }

const (
	formFirstName = iota
	formLastName
	formEmail
)

type customers struct {
	vm      *viewmodel.Customers
	list    list.Model
	spinner spinner.Model

	adding  bool
	inputs  []textinput.Model
	focus   int
	formErr string
}

func newCustomers(deps *Deps) *customers {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Customers"
	l.Styles.Title = ui.S().Title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("customer", "customers")
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	inputs := make([]textinput.Model, 3)
	for i, ph := range []string{"First name", "Last name", "Email"} {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = ph
		ti.CharLimit = 200
		inputs[i] = ti
	}

	return &customers{
		vm:      viewmodel.NewCustomers(deps.Customers, deps.Log),
		list:    l,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(ui.S().Accent)),
		inputs:  inputs,
	}
}

func (c *customers) Close() { c.vm.Close() }

func (c *customers) Init() tea.Cmd {
	return tea.Batch(c.spinner.Tick, waitFor(c.vm.Changes()))
}

func (c *customers) sync() {
	st := c.vm.Customers()
	if !st.IsSuccess() {
		return
	}
	found := st.Data().Customer
	items := make([]list.Item, 0, len(found))
	for _, cu := range found {
		items = append(items, customerItem{cu})
	}
	c.list.SetItems(items)
}

func (c *customers) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		if msg.src != c.vm.Changes() {
			return c, nil
		}
		c.sync()
		return c, waitFor(c.vm.Changes())
	case spinner.TickMsg:
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd
	case tea.KeyMsg:
		if c.adding {
			return c, c.updateForm(msg)
		}
		if c.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "esc":
			return c, pop
		case "a":
			c.openForm()
			return c, textinput.Blink
		case "r":
			c.vm.Refresh()
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.list, cmd = c.list.Update(msg)
	return c, cmd
}

func (c *customers) openForm() {
	c.adding = true
	c.formErr = ""
	for i := range c.inputs {
		c.inputs[i].SetValue("")
		c.inputs[i].Blur()
	}
	c.focus = formFirstName
	c.inputs[c.focus].Focus()
}

func (c *customers) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		c.adding = false
		return nil
	case "tab", "down":
		c.moveFocus(1)
		return textinput.Blink
	case "shift+tab", "up":
		c.moveFocus(-1)
		return textinput.Blink
	case "enter":
		if c.focus < formEmail {
			c.moveFocus(1)
			return textinput.Blink
		}
		c.submit()
		return nil
	}
	var cmd tea.Cmd
	c.inputs[c.focus], cmd = c.inputs[c.focus].Update(msg)
	return cmd
}

func (c *customers) moveFocus(delta int) {
	c.inputs[c.focus].Blur()
	c.focus = (c.focus + delta + len(c.inputs)) % len(c.inputs)
	c.inputs[c.focus].Focus()
}

func (c *customers) submit() {
	cu := model.Customer{
		ID:        model.NewCustomerID(),
		FirstName: strings.TrimSpace(c.inputs[formFirstName].Value()),
		LastName:  strings.TrimSpace(c.inputs[formLastName].Value()),
		Email:     strings.TrimSpace(c.inputs[formEmail].Value()),
	}
	if cu.Email == "" {
		c.formErr = "Email cannot be empty"
		return
	}
	c.vm.AddCustomer(cu)
	c.adding = false
}

func (c *customers) View(width, height int) string {
	s := ui.S()

	var status string
	switch add := c.vm.AddState(); {
	case add.IsLoading():
		status = c.spinner.View() + " Saving customer..."
	case add.IsError():
		status = s.Error.Render("Add failed: " + add.Message())
	case add.IsSuccess():
		status = s.Success.Render("Added " + add.Data().FullName())
	}

	var form string
	if c.adding {
		lines := []string{s.Title.Render("Add customer")}
		for _, in := range c.inputs {
			lines = append(lines, in.View())
		}
		if c.formErr != "" {
			lines = append(lines, s.Error.Render(c.formErr))
		}
		form = ui.Frame(strings.Join(lines, "\n"), width, true)
	}

	help := s.Help.Render("a add • r refresh • / filter • esc back")
	if c.adding {
		help = s.Help.Render("enter next/save • tab switch • esc cancel")
	}

	used := lipgloss.Height(help) + 2
	if status != "" {
		used += lipgloss.Height(status)
	}
	if form != "" {
		used += lipgloss.Height(form)
	}
	innerH := max(height-used, 3)
	c.list.SetSize(max(width-4, 10), innerH)

	body := state.Display(c.vm.Customers(),
		func() string { return s.Title.Render("Customers") + "\n\n" + c.spinner.View() + " Loading..." },
		func(msg string) string { return s.Title.Render("Customers") + "\n\n" + s.Error.Render(msg) },
		func(resp model.CustomerResponse) string {
			if len(resp.Customer) == 0 {
				return s.Title.Render("Customers") + "\n\n" + s.Muted.Render("No customers")
			}
			return c.list.View()
		},
	)
	body = lipgloss.NewStyle().Height(innerH).MaxHeight(innerH).Render(body)

	parts := []string{ui.Frame(body, width, !c.adding)}
	if status != "" {
		parts = append(parts, status)
	}
	if form != "" {
		parts = append(parts, form)
	}
	parts = append(parts, help)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
