package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idilsaglam/todocrm/internal/model"
)

func TestFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", model.Customer{FirstName: "Ada", LastName: "Lovelace"}.FullName())
	assert.Equal(t, "Ada", model.Customer{FirstName: "Ada"}.FullName())
}

func TestNewCustomerIDIsPositive(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.Positive(t, model.NewCustomerID())
	}
}

func TestActionConstructors(t *testing.T) {
	task := model.ToDoTask{ID: 7, Title: "x"}

	fav := model.SetFavorite(task, true)
	assert.Equal(t, model.ActionSetFavorite, fav.Kind)
	assert.True(t, fav.Flag)
	assert.Equal(t, task, fav.Task)

	done := model.SetCompleted(task, false)
	assert.Equal(t, model.ActionSetCompleted, done.Kind)
	assert.False(t, done.Flag)

	assert.Equal(t, "delete", model.Delete(task).Kind.String())
	assert.Equal(t, "unknown", model.ActionKind(0).String())
}
