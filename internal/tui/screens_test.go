package tui

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todocrm/internal/auth"
	"github.com/idilsaglam/todocrm/internal/logging"
	"github.com/idilsaglam/todocrm/internal/model"
	"github.com/idilsaglam/todocrm/internal/store/taskdb"
)

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

func typeInto(s screen, text string) screen {
	for _, r := range text {
		s, _ = s.Update(keyRunes(string(r)))
	}
	return s
}

func testDeps(t *testing.T) *Deps {
	t.Helper()
	t.Setenv(auth.EnvToken, "")
	gw := taskdb.New(taskdb.Options{Path: filepath.Join(t.TempDir(), "todo.db")}, logging.Discard())
	t.Cleanup(func() { gw.Close() })
	return &Deps{
		Tasks:        gw,
		Customers:    emptyRepo{},
		Sessions:     auth.NewStore(filepath.Join(t.TempDir(), "session.json")),
		Log:          logging.Discard(),
		StartupDelay: time.Millisecond,
		Federated: func(ctx context.Context, provider string, out io.Writer) (auth.Session, error) {
			<-ctx.Done()
			return auth.Session{}, ctx.Err()
		},
	}
}

type emptyRepo struct{}

func (emptyRepo) GetCustomers(context.Context) (model.CustomerResponse, error) {
	return model.CustomerResponse{Customer: []model.Customer{}}, nil
}
func (emptyRepo) AddCustomer(context.Context, model.Customer) error { return nil }

type recorder struct{ actions []model.TaskAction }

func (r *recorder) SetAction(a model.TaskAction) { r.actions = append(r.actions, a) }

func TestEditorAddsNewTask(t *testing.T) {
	rec := &recorder{}
	var s screen = newEditor(rec, model.ToDoTask{}, false)

	s = typeInto(s, "Buy milk")
	s, _ = s.Update(keyEnter) // to description
	s = typeInto(s, "2L")
	_, cmd := s.Update(keyEnter)

	require.NotNil(t, cmd)
	assert.Equal(t, popMsg{}, cmd())
	require.Len(t, rec.actions, 1)
	assert.Equal(t, model.ActionAdd, rec.actions[0].Kind)
	assert.Equal(t, "Buy milk", rec.actions[0].Task.Title)
	assert.Equal(t, "2L", rec.actions[0].Task.Description)
}

func TestEditorUpdatesExistingTask(t *testing.T) {
	rec := &recorder{}
	task := model.ToDoTask{ID: 3, Title: "old", Favorite: true}
	var s screen = newEditor(rec, task, true)

	s = typeInto(s, "er")
	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	require.NotNil(t, cmd)
	require.Len(t, rec.actions, 1)
	got := rec.actions[0]
	assert.Equal(t, model.ActionUpdate, got.Kind)
	assert.Equal(t, uint(3), got.Task.ID)
	assert.Equal(t, "older", got.Task.Title)
	assert.True(t, got.Task.Favorite)
}

func TestEditorRejectsEmptyTitle(t *testing.T) {
	rec := &recorder{}
	e := newEditor(rec, model.ToDoTask{}, false)

	_, cmd := e.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.Empty(t, rec.actions)
	assert.Contains(t, e.View(80, 24), "Title cannot be empty")
}

func TestSplashRoutesToLoginWithoutSession(t *testing.T) {
	deps := testDeps(t)
	s := newSplash(deps)

	_, cmd := s.Update(splashDoneMsg{})
	require.NotNil(t, cmd)
	msg, ok := cmd().(replaceMsg)
	require.True(t, ok)
	l, ok := msg.s.(*login)
	require.True(t, ok)
	l.Close()
}

func TestSplashRoutesToHomeWithSession(t *testing.T) {
	deps := testDeps(t)
	require.NoError(t, deps.Sessions.Save(auth.Session{UserID: "u1", DisplayName: "Ada"}))
	s := newSplash(deps)

	_, cmd := s.Update(splashDoneMsg{})
	msg, ok := cmd().(replaceMsg)
	require.True(t, ok)
	h, ok := msg.s.(*home)
	require.True(t, ok)
	defer h.Close()
	assert.Equal(t, "Ada", h.user)
}

func TestLoginInvalidEmailShowsDialog(t *testing.T) {
	l := newLogin(testDeps(t))
	defer l.Close()

	var s screen = typeInto(l, "1bad")
	s, _ = s.Update(keyEnter) // to password
	s = typeInto(s, "secret")
	s, _ = s.Update(keyEnter)

	assert.Equal(t, invalidEmailDialog, l.dialog)
	assert.Contains(t, s.View(80, 24), "Insert valid email")

	s.Update(keyEsc)
	assert.Empty(t, l.dialog)
}

func waitHome(t *testing.T, h *home, cond func() bool) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		h.sync()
		if cond() {
			return
		}
		select {
		case <-h.vm.Changes():
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatal("home never reached the expected state")
		}
	}
}

func TestHomeDeleteAsksForConfirmation(t *testing.T) {
	deps := testDeps(t)
	_, err := deps.Tasks.AddTask(context.Background(), model.ToDoTask{Title: "Old report", Completed: true})
	require.NoError(t, err)

	h := newHome(deps, "Ada")
	defer h.Close()
	waitHome(t, h, func() bool { return len(h.lists[panelCompleted].Items()) == 1 })

	// delete only works on the completed panel
	h.Update(keyRunes("d"))
	assert.Nil(t, h.confirm)

	h.Update(keyTab)
	h.Update(keyRunes("d"))
	require.NotNil(t, h.confirm)
	assert.Contains(t, h.View(100, 30), "Are you sure you want to remove 'Old report' task?")

	h.Update(keyRunes("n"))
	assert.Nil(t, h.confirm)

	h.Update(keyRunes("d"))
	h.Update(keyRunes("y"))
	waitHome(t, h, func() bool { return len(h.lists[panelCompleted].Items()) == 0 })
}

func TestHomeTogglesFavoriteOnActiveOnly(t *testing.T) {
	deps := testDeps(t)
	_, err := deps.Tasks.AddTask(context.Background(), model.ToDoTask{Title: "Call mom"})
	require.NoError(t, err)

	h := newHome(deps, "")
	defer h.Close()
	waitHome(t, h, func() bool { return len(h.lists[panelActive].Items()) == 1 })

	h.Update(keyRunes("f"))
	waitHome(t, h, func() bool {
		task, ok := h.selected()
		return ok && task.Favorite
	})

	h.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	waitHome(t, h, func() bool {
		return len(h.lists[panelActive].Items()) == 0 && len(h.lists[panelCompleted].Items()) == 1
	})
	assert.Contains(t, h.View(100, 30), "Completed Tasks")
}

func TestHomeNavigation(t *testing.T) {
	h := newHome(testDeps(t), "")
	defer h.Close()

	_, cmd := h.Update(keyRunes("n"))
	msg, ok := cmd().(pushMsg)
	require.True(t, ok)
	assert.IsType(t, &editor{}, msg.s)

	_, cmd = h.Update(keyRunes("c"))
	msg, ok = cmd().(pushMsg)
	require.True(t, ok)
	c, ok := msg.s.(*customers)
	require.True(t, ok)
	c.Close()

	_, cmd = h.Update(keyRunes("q"))
	assert.Equal(t, quitMsg{}, cmd())
}
