package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScreen struct {
	name   string
	closed bool
	seen   []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd { return nil }
func (s *stubScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.name }
func (s *stubScreen) Close()               { s.closed = true }

func update(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	next, ok := m.(App)
	require.True(t, ok)
	return next, cmd
}

func TestNavigatorPushPop(t *testing.T) {
	root, child := &stubScreen{name: "root"}, &stubScreen{name: "child"}
	a := App{stack: []screen{root}}

	a, _ = update(t, a, pushMsg{child})
	assert.Equal(t, "child", a.View())

	a, _ = update(t, a, popMsg{})
	assert.Equal(t, "root", a.View())
	assert.True(t, child.closed)
	assert.False(t, root.closed)
}

func TestNavigatorReplaceClosesStack(t *testing.T) {
	a, b, c := &stubScreen{name: "a"}, &stubScreen{name: "b"}, &stubScreen{name: "c"}
	app := App{stack: []screen{a, b}}

	app, _ = update(t, app, replaceMsg{c})
	assert.Equal(t, "c", app.View())
	assert.Len(t, app.stack, 1)
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestPopOnLastScreenQuits(t *testing.T) {
	root := &stubScreen{name: "root"}
	app := App{stack: []screen{root}}

	_, cmd := update(t, app, popMsg{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, root.closed)
}

func TestChangesReachEveryScreen(t *testing.T) {
	under, top := &stubScreen{name: "under"}, &stubScreen{name: "top"}
	app := App{stack: []screen{under, top}}

	ch := make(chan struct{})
	update(t, app, changedMsg{src: ch})
	assert.Len(t, under.seen, 1)
	assert.Len(t, top.seen, 1)

	update(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Len(t, under.seen, 1)
	assert.Len(t, top.seen, 2)
}
