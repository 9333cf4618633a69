// Package tui is the interactive front end: a stack of Bubble Tea
// screens driven by the view-models.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/todocrm/internal/viewmodel"
)

// Deps is everything the screens need from the outside.
type Deps struct {
	Tasks     viewmodel.TaskGateway
	Customers viewmodel.CustomerRepository
	Password  viewmodel.PasswordLogin
	Federated viewmodel.FederatedSignIn
	Sessions  viewmodel.SessionStore
	Log       logrus.FieldLogger

	SplashDelay  time.Duration
	StartupDelay time.Duration
}

// screen is one entry of the navigation stack. Unlike tea.Model it gets
// the terminal size at render time.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (screen, tea.Cmd)
	View(width, height int) string
}

// closer is implemented by screens owning a view-model.
type closer interface{ Close() }

type (
	pushMsg    struct{ s screen }
	replaceMsg struct{ s screen }
	popMsg     struct{}
	quitMsg    struct{}

	// changedMsg reports a view-model state change on src.
	changedMsg struct{ src <-chan struct{} }
)

func push(s screen) tea.Cmd    { return func() tea.Msg { return pushMsg{s} } }
func replace(s screen) tea.Cmd { return func() tea.Msg { return replaceMsg{s} } }
func pop() tea.Msg             { return popMsg{} }
func quit() tea.Msg            { return quitMsg{} }

func waitFor(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return changedMsg{src: ch}
	}
}

// App is the navigator. The bottom of the stack is the start screen.
type App struct {
	stack         []screen
	width, height int
}

func New(deps Deps) App {
	if deps.Log == nil {
		deps.Log = logrus.New()
	}
	return App{stack: []screen{newSplash(&deps)}, width: 80, height: 24}
}

// Run shows the screens until the user quits or ctx is done.
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(New(deps), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if app, ok := final.(App); ok {
		app.closeAll()
	}
	return err
}

func (a App) top() screen { return a.stack[len(a.stack)-1] }

func (a App) Init() tea.Cmd { return a.top().Init() }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.closeAll()
			return a, tea.Quit
		}
	case quitMsg:
		a.closeAll()
		return a, tea.Quit
	case pushMsg:
		a.stack = append(a.stack, msg.s)
		return a, msg.s.Init()
	case popMsg:
		if len(a.stack) == 1 {
			a.closeAll()
			return a, tea.Quit
		}
		closeScreen(a.top())
		a.stack = a.stack[:len(a.stack)-1]
		return a, nil
	case replaceMsg:
		a.closeAll()
		a.stack = []screen{msg.s}
		return a, msg.s.Init()
	case changedMsg, spinner.TickMsg:
		// every screen keeps its own wait and tick loops alive
		return a.broadcast(msg)
	}

	next, cmd := a.top().Update(msg)
	a.stack[len(a.stack)-1] = next
	return a, cmd
}

func (a App) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, len(a.stack))
	for i, s := range a.stack {
		next, cmd := s.Update(msg)
		a.stack[i] = next
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a App) View() string { return a.top().View(a.width, a.height) }

func (a App) closeAll() {
	for _, s := range a.stack {
		closeScreen(s)
	}
}

func closeScreen(s screen) {
	if c, ok := s.(closer); ok {
		c.Close()
	}
}
