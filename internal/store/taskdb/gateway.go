// Package taskdb is the persistence gateway for tasks: it owns the embedded
// SQLite handle, runs every write in a transaction and serves live read
// queries that re-emit after each committed write.
package taskdb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/idilsaglam/todocrm/internal/model"
)

// NotConfiguredMessage is the Error state emitted by reads when the
// database handle cannot be opened.
const NotConfiguredMessage = "database is not configured"

var (
	ErrNotConfigured = errors.New(NotConfiguredMessage)
	ErrTaskNotFound  = errors.New("task not found")
)

// Options configure the embedded database.
type Options struct {
	Path            string
	CompactOnLaunch bool
}

// Gateway is safe for concurrent use. The handle is opened lazily and
// reopened on the next call after Close. Live reads do not survive Close.
type Gateway struct {
	opts Options
	log  logrus.FieldLogger
	hub  *hub

	mu     sync.Mutex
	db     *gorm.DB
	closed bool
}

// New returns a gateway and tries to open the database once. An open
// failure is logged, not returned: every later call retries the open.
func New(opts Options, log logrus.FieldLogger) *Gateway {
	g := &Gateway{
		opts: opts,
		log:  log.WithField("component", "taskdb"),
		hub:  newHub(),
	}
	if _, err := g.conn(); err != nil {
		g.log.WithError(err).Error("open database")
	}
	return g
}

// conn returns the open handle, (re)opening it if it is absent or closed.
func (g *Gateway) conn() (*gorm.DB, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db != nil && !g.closed {
		return g.db, nil
	}
	db, err := open(g.opts)
	if err != nil {
		g.db = nil
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	g.db = db
	g.closed = false
	g.log.WithField("path", g.opts.Path).Debug("database opened")
	return db, nil
}

// current returns the open handle without reopening a closed one.
func (g *Gateway) current() *gorm.DB {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil
	}
	return g.db
}

func open(opts Options) (*gorm.DB, error) {
	if opts.Path == "" {
		return nil, errors.New("empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(opts.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	// one connection: SQLite serializes writers anyway, and this keeps
	// transactions and live reads from tripping over SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.ToDoTask{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if opts.CompactOnLaunch {
		if err := db.Exec("VACUUM").Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("compact: %w", err)
		}
	}
	return db, nil
}

// Close ends every live read and releases the handle.
func (g *Gateway) Close() error {
	g.hub.shutdown()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db == nil || g.closed {
		return nil
	}
	g.closed = true
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
