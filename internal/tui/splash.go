package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todocrm/internal/ui"
)

type splashDoneMsg struct{}

type splash struct {
	deps    *Deps
	spinner spinner.Model
}

func newSplash(deps *Deps) *splash {
	return &splash{
		deps:    deps,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(ui.S().Accent)),
	}
}

func (s *splash) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, tea.Tick(s.deps.SplashDelay, func(time.Time) tea.Msg {
		return splashDoneMsg{}
	}))
}

func (s *splash) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case splashDoneMsg:
		sess, err := s.deps.Sessions.Load()
		if err != nil {
			s.deps.Log.WithError(err).Warn("reading session failed")
		}
		if sess != nil && !sess.Expired(time.Now()) {
			return s, replace(newHome(s.deps, sess.Name()))
		}
		return s, replace(newLogin(s.deps))
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "esc" {
			return s, quit
		}
	}
	return s, nil
}

func (s *splash) View(width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		ui.S().Title.Render("To-Do"),
		"",
		s.spinner.View(),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}
