package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todocrm/internal/config"
	"github.com/idilsaglam/todocrm/internal/logging"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "todo.log")

	log, closer, err := logging.New(config.Log{Level: "debug", File: path})
	require.NoError(t, err)

	log.WithField("task_id", 7).Error("write failed")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "write failed")
	assert.Contains(t, string(b), "task_id=7")
}

func TestNewFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.log")

	log, closer, err := logging.New(config.Log{Level: "chatty", File: path})
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, "info", log.GetLevel().String())
}
