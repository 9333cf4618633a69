package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todocrm/internal/ui"
	"github.com/idilsaglam/todocrm/internal/viewmodel"
)

const invalidEmailDialog = "Insert valid email"

const (
	fieldEmail = iota
	fieldPassword
)

type login struct {
	deps    *Deps
	vm      *viewmodel.Auth
	inputs  []textinput.Model
	focus   int
	dialog  string
	spinner spinner.Model
}

func newLogin(deps *Deps) *login {
	email := textinput.New()
	email.Prompt = "Email    > "
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Prompt = "Password > "
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &login{
		deps:    deps,
		vm:      viewmodel.NewAuth(deps.Password, deps.Federated, deps.Sessions, deps.Log),
		inputs:  []textinput.Model{email, password},
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(ui.S().Accent)),
	}
}

func (l *login) Close() { l.vm.Close() }

func (l *login) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, l.spinner.Tick, waitFor(l.vm.Changes()))
}

func (l *login) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		if msg.src != l.vm.Changes() {
			return l, nil
		}
		if st := l.vm.State(); st.IsSuccess() {
			sess := st.Data()
			return l, replace(newHome(l.deps, sess.Name()))
		}
		return l, waitFor(l.vm.Changes())
	case spinner.TickMsg:
		var cmd tea.Cmd
		l.spinner, cmd = l.spinner.Update(msg)
		return l, cmd
	case tea.KeyMsg:
		if l.dialog != "" {
			switch msg.String() {
			case "enter", "esc":
				l.dialog = ""
			}
			return l, nil
		}
		if l.vm.State().IsLoading() {
			if msg.String() == "esc" {
				return l, quit
			}
			return l, nil
		}
		switch msg.String() {
		case "esc":
			return l, quit
		case "tab", "shift+tab", "up", "down":
			l.setFocus(1 - l.focus)
			return l, textinput.Blink
		case "enter":
			if l.focus == fieldEmail {
				l.setFocus(fieldPassword)
				return l, textinput.Blink
			}
			l.submit()
			return l, nil
		case "ctrl+g":
			l.vm.SignInWith("google")
			return l, nil
		case "ctrl+a":
			l.vm.SignInWith("apple")
			return l, nil
		case "ctrl+h":
			l.vm.SignInWith("github")
			return l, nil
		}
	}

	var cmd tea.Cmd
	l.inputs[l.focus], cmd = l.inputs[l.focus].Update(msg)
	return l, cmd
}

func (l *login) submit() {
	email := l.inputs[fieldEmail].Value()
	if !l.vm.LogIn(email, l.inputs[fieldPassword].Value()) {
		l.dialog = invalidEmailDialog
	}
}

func (l *login) setFocus(i int) {
	l.inputs[l.focus].Blur()
	l.focus = i
	l.inputs[l.focus].Focus()
}

func (l *login) View(width, height int) string {
	s := ui.S()
	if l.dialog != "" {
		box := s.Dialog.Render(l.dialog + "\n\n" + s.Help.Render("enter ok"))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
	}

	lines := []string{
		s.Title.Render("Log In"),
		"",
		l.inputs[fieldEmail].View(),
		l.inputs[fieldPassword].View(),
		"",
	}
	st := l.vm.State()
	switch {
	case st.IsLoading():
		lines = append(lines, l.spinner.View()+" Signing in...")
		if u := l.vm.AuthURL(); u != "" {
			lines = append(lines, "", "Open this URL in your browser:", s.Accent.Render(u))
		}
	case st.IsError():
		lines = append(lines, s.Error.Render(st.Message()))
	}
	lines = append(lines, "", s.Help.Render("enter log in • tab switch • ctrl+g google • ctrl+a apple • ctrl+h github • esc quit"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, ui.Frame(strings.Join(lines, "\n"), 0, true))
}
