package taskdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todocrm/internal/logging"
)

func TestHubCoalescesWakes(t *testing.T) {
	h := newHub()
	id, wake := h.subscribe()
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, h.len())

	h.notify()
	h.notify()
	h.notify()

	<-wake
	select {
	case <-wake:
		t.Fatal("burst should collapse into one wake")
	default:
	}

	h.unsubscribe(id)
	assert.Equal(t, 0, h.len())
	h.notify()
}

func TestHubShutdownEndsSubscribers(t *testing.T) {
	h := newHub()
	_, wake := h.subscribe()

	h.shutdown()
	_, open := <-wake
	assert.False(t, open)
	assert.Equal(t, 0, h.len())
	h.notify()
}

func TestCloseEndsLiveReadWithoutReopening(t *testing.T) {
	g := New(Options{Path: filepath.Join(t.TempDir(), "todo.db")}, logging.Discard())
	ch := g.ReadActiveTasks(context.Background())
	first := <-ch
	require.True(t, first.IsSuccess())

	require.NoError(t, g.Close())
	g.hub.notify()

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "live read should end on Close")
	case <-time.After(3 * time.Second):
		t.Fatal("live read outlived Close")
	}
	assert.Nil(t, g.current(), "live read reopened the database")
	assert.Equal(t, 0, g.hub.len())
}
