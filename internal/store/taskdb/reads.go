package taskdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/idilsaglam/todocrm/internal/model"
	"github.com/idilsaglam/todocrm/internal/state"
)

// TaskState is the state carried by a live read.
type TaskState = state.RequestState[[]model.ToDoTask]

type query func(db *gorm.DB) ([]model.ToDoTask, error)

// activeTasks: completed = false, favorites first, then insertion order.
func activeTasks(db *gorm.DB) ([]model.ToDoTask, error) {
	var out []model.ToDoTask
	err := db.Where("completed = ?", false).
		Order("favorite DESC").
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// completedTasks: completed = true, insertion order.
func completedTasks(db *gorm.DB) ([]model.ToDoTask, error) {
	var out []model.ToDoTask
	err := db.Where("completed = ?", true).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// ReadActiveTasks streams the active tasks, favorites first. The channel
// emits the current snapshot, then a new one after every committed write,
// and closes when ctx is done or the gateway is closed.
func (g *Gateway) ReadActiveTasks(ctx context.Context) <-chan TaskState {
	return g.watch(ctx, "active", activeTasks)
}

// ReadCompletedTasks streams the completed tasks in insertion order.
func (g *Gateway) ReadCompletedTasks(ctx context.Context) <-chan TaskState {
	return g.watch(ctx, "completed", completedTasks)
}

func (g *Gateway) watch(ctx context.Context, name string, q query) <-chan TaskState {
	if _, err := g.conn(); err != nil {
		g.log.WithError(err).WithField("query", name).Warn("live read without database")
		out := make(chan TaskState, 1)
		out <- state.NewError[[]model.ToDoTask](NotConfiguredMessage)
		close(out)
		return out
	}

	out := make(chan TaskState)
	id, wake := g.hub.subscribe()
	log := g.log.WithField("subscriber", id).WithField("query", name)
	log.Debug("live read started")

	go func() {
		defer close(out)
		defer g.hub.unsubscribe(id)
		defer log.Debug("live read stopped")

		for {
			if ctx.Err() != nil {
				return
			}
			snapshot, ok := g.snapshot(ctx, q)
			if !ok || ctx.Err() != nil {
				return
			}
			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}
			select {
			case _, alive := <-wake:
				if !alive {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// snapshot runs q on the current handle. It reports false once the gateway
// has been closed, so a live read never reopens the database.
func (g *Gateway) snapshot(ctx context.Context, q query) (TaskState, bool) {
	db := g.current()
	if db == nil {
		return TaskState{}, false
	}
	tasks, err := q(db.WithContext(ctx))
	if err != nil {
		if g.current() != db {
			return TaskState{}, false
		}
		g.log.WithError(err).Error("live read query")
		return state.NewError[[]model.ToDoTask](err.Error()), true
	}
	if tasks == nil {
		tasks = []model.ToDoTask{}
	}
	return state.NewSuccess(tasks), true
}

// Tasks returns a one-shot snapshot of every task: active ones in live
// read order, then completed ones.
func (g *Gateway) Tasks(ctx context.Context) ([]model.ToDoTask, error) {
	db, err := g.conn()
	if err != nil {
		return nil, err
	}
	db = db.WithContext(ctx)
	active, err := activeTasks(db)
	if err != nil {
		return nil, err
	}
	completed, err := completedTasks(db)
	if err != nil {
		return nil, err
	}
	return append(active, completed...), nil
}

// Task returns the task with the given id.
func (g *Gateway) Task(ctx context.Context, id uint) (model.ToDoTask, error) {
	db, err := g.conn()
	if err != nil {
		return model.ToDoTask{}, err
	}
	return find(db.WithContext(ctx), id)
}
