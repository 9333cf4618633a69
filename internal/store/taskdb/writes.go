package taskdb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/idilsaglam/todocrm/internal/model"
)

// Every write runs in one transaction. Failures are logged with the task id
// and returned; live readers are only woken after a commit.

// AddTask inserts task and returns it with the database-assigned ID. Any ID
// already set on task is ignored.
func (g *Gateway) AddTask(ctx context.Context, task model.ToDoTask) (model.ToDoTask, error) {
	task.ID = 0
	err := g.write(ctx, "add", 0, func(tx *gorm.DB) error {
		return tx.Create(&task).Error
	})
	return task, err
}

// UpdateTask copies title and description onto the stored task.
func (g *Gateway) UpdateTask(ctx context.Context, task model.ToDoTask) error {
	return g.write(ctx, "update", task.ID, func(tx *gorm.DB) error {
		current, err := find(tx, task.ID)
		if err != nil {
			return err
		}
		current.Title = task.Title
		current.Description = task.Description
		return tx.Save(&current).Error
	})
}

func (g *Gateway) SetCompleted(ctx context.Context, task model.ToDoTask, completed bool) error {
	return g.write(ctx, "set_completed", task.ID, func(tx *gorm.DB) error {
		current, err := find(tx, task.ID)
		if err != nil {
			return err
		}
		return tx.Model(&current).Update("completed", completed).Error
	})
}

func (g *Gateway) SetFavorite(ctx context.Context, task model.ToDoTask, favorite bool) error {
	return g.write(ctx, "set_favorite", task.ID, func(tx *gorm.DB) error {
		current, err := find(tx, task.ID)
		if err != nil {
			return err
		}
		return tx.Model(&current).Update("favorite", favorite).Error
	})
}

func (g *Gateway) DeleteTask(ctx context.Context, task model.ToDoTask) error {
	return g.write(ctx, "delete", task.ID, func(tx *gorm.DB) error {
		current, err := find(tx, task.ID)
		if err != nil {
			return err
		}
		return tx.Delete(&current).Error
	})
}

func (g *Gateway) write(ctx context.Context, op string, id uint, fn func(tx *gorm.DB) error) error {
	log := g.log.WithField("op", op).WithField("task_id", id)

	db, err := g.conn()
	if err != nil {
		log.WithError(err).Error("task write skipped")
		return err
	}
	if err := db.WithContext(ctx).Transaction(fn); err != nil {
		log.WithError(err).Error("task write failed")
		return fmt.Errorf("%s task %d: %w", op, id, err)
	}
	g.hub.notify()
	return nil
}

// find resolves id to the latest version visible to db (the transaction
// when called inside one).
func find(db *gorm.DB, id uint) (model.ToDoTask, error) {
	var task model.ToDoTask
	err := db.Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return task, ErrTaskNotFound
	}
	return task, err
}
