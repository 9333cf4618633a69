package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/idilsaglam/todocrm/internal/model"
)

// JSON snapshot of the task table, used by `todo export` and `todo import`.
// Single file, human-readable, portable between machines.

const DefaultFileName = "todos.json"

// DefaultPath returns todos.json in the working directory.
func DefaultPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(wd, DefaultFileName), nil
}

// Load reads tasks from path. A missing file is an empty list.
func Load(path string) ([]model.ToDoTask, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.ToDoTask{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var tasks []model.ToDoTask
	if err := json.Unmarshal(b, &tasks); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return tasks, nil
}

// Save writes tasks to path, replacing any previous content.
func Save(path string, tasks []model.ToDoTask) error {
	if tasks == nil {
		tasks = []model.ToDoTask{}
	}
	b, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
