package viewmodel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/todocrm/internal/model"
	"github.com/idilsaglam/todocrm/internal/state"
)

// DefaultStartupDelay is how long Home waits before subscribing.
const DefaultStartupDelay = 500 * time.Millisecond

// Tasks is the observable state of one task list.
type Tasks = state.RequestState[[]model.ToDoTask]

// TaskGateway is the persistence the home screen needs.
type TaskGateway interface {
	ReadActiveTasks(ctx context.Context) <-chan Tasks
	ReadCompletedTasks(ctx context.Context) <-chan Tasks
	AddTask(ctx context.Context, task model.ToDoTask) (model.ToDoTask, error)
	UpdateTask(ctx context.Context, task model.ToDoTask) error
	SetCompleted(ctx context.Context, task model.ToDoTask, completed bool) error
	SetFavorite(ctx context.Context, task model.ToDoTask, favorite bool) error
	DeleteTask(ctx context.Context, task model.ToDoTask) error
}

// Home mirrors the active and completed task streams and dispatches task
// actions as fire-and-forget writes.
type Home struct {
	base
	gw  TaskGateway
	log logrus.FieldLogger

	mu        sync.RWMutex
	active    Tasks
	completed Tasks
	notice    string
}

// NewHome starts both lists in Loading and subscribes to the gateway after
// delay.
func NewHome(gw TaskGateway, delay time.Duration, log logrus.FieldLogger) *Home {
	h := &Home{
		base:      newBase(),
		gw:        gw,
		log:       log.WithField("viewmodel", "home"),
		active:    state.NewLoading[[]model.ToDoTask](),
		completed: state.NewLoading[[]model.ToDoTask](),
	}
	h.launch(func() {
		h.collect(delay, gw.ReadActiveTasks, func(s Tasks) { h.active = s })
	})
	h.launch(func() {
		h.collect(delay, gw.ReadCompletedTasks, func(s Tasks) { h.completed = s })
	})
	return h
}

func (h *Home) collect(delay time.Duration, read func(context.Context) <-chan Tasks, set func(Tasks)) {
	select {
	case <-time.After(delay):
	case <-h.ctx.Done():
		return
	}
	for s := range read(h.ctx) {
		h.mu.Lock()
		set(s)
		h.mu.Unlock()
		h.changed()
	}
}

func (h *Home) ActiveTasks() Tasks {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.active
}

func (h *Home) CompletedTasks() Tasks {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.completed
}

// Notice is the last write failure, or "" if the last write succeeded.
func (h *Home) Notice() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.notice
}

// SetAction maps a task action to its gateway write and runs it in the
// background. Callers get no completion signal; a failure shows up in
// Notice.
func (h *Home) SetAction(action model.TaskAction) {
	var write func(ctx context.Context) error

	switch action.Kind {
	case model.ActionAdd:
		write = func(ctx context.Context) error {
			_, err := h.gw.AddTask(ctx, action.Task)
			return err
		}
	case model.ActionUpdate:
		write = func(ctx context.Context) error { return h.gw.UpdateTask(ctx, action.Task) }
	case model.ActionDelete:
		write = func(ctx context.Context) error { return h.gw.DeleteTask(ctx, action.Task) }
	case model.ActionSetFavorite:
		write = func(ctx context.Context) error { return h.gw.SetFavorite(ctx, action.Task, action.Flag) }
	case model.ActionSetCompleted:
		write = func(ctx context.Context) error { return h.gw.SetCompleted(ctx, action.Task, action.Flag) }
	default:
		h.log.WithField("kind", int(action.Kind)).Warn("ignoring unknown task action")
		return
	}

	h.launch(func() {
		// writes outlive the screen's live reads, so they do not use h.ctx
		err := write(context.Background())

		h.mu.Lock()
		if err != nil {
			h.notice = fmt.Sprintf("%s failed: %v", action.Kind, err)
		} else {
			h.notice = ""
		}
		h.mu.Unlock()
		h.changed()
	})
}
