// Package server is the customer backend: GET and POST on /customer,
// persisted with gorm in an SQLite file.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/idilsaglam/todocrm/internal/customer"
	"github.com/idilsaglam/todocrm/internal/model"
)

type App struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// Open opens (or creates) the customer database at path.
func Open(path string, log logrus.FieldLogger) (*App, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open customer db: %w", err)
	}
	if err := db.AutoMigrate(&model.Customer{}); err != nil {
		return nil, fmt.Errorf("migrate customer db: %w", err)
	}
	return &App{db: db, log: log}, nil
}

func (app *App) Close() error {
	sqlDB, err := app.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Handler routes the customer resource and a health probe.
func (app *App) Handler() http.Handler {
	router := httprouter.New()
	router.GET(customer.Path, app.list())
	router.POST(customer.Path, app.create())
	router.GET("/healthz", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Write([]byte("ok"))
	})
	return router
}

func (app *App) list() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		var customers []model.Customer
		if err := app.db.WithContext(r.Context()).Order("id ASC").Find(&customers).Error; err != nil {
			app.log.WithError(err).Error("list customers")
			http.Error(w, "Internal server error.", http.StatusInternalServerError)
			return
		}
		if customers == nil {
			customers = []model.Customer{}
		}
		app.writeJSON(w, http.StatusOK, model.CustomerResponse{Customer: customers})
	}
}

func (app *App) create() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		var input model.Customer
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, "Bad request.", http.StatusBadRequest)
			return
		}
		input.Email = strings.TrimSpace(input.Email)
		if input.Email == "" {
			http.Error(w, "Email is required.", http.StatusBadRequest)
			return
		}

		// id 0 lets SQLite assign the next rowid
		err := app.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
			if input.ID != 0 {
				var n int64
				if err := tx.Model(&model.Customer{}).Where("id = ?", input.ID).Count(&n).Error; err != nil {
					return err
				}
				if n > 0 {
					return gorm.ErrDuplicatedKey
				}
			}
			return tx.Create(&input).Error
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			app.log.WithField("customer_id", input.ID).Warn("customer id taken")
			http.Error(w, "Customer already exists.", http.StatusConflict)
			return
		}
		if err != nil {
			app.log.WithError(err).WithField("customer_id", input.ID).Error("create customer")
			http.Error(w, "Internal server error.", http.StatusInternalServerError)
			return
		}
		app.log.WithField("customer_id", input.ID).Info("customer created")
		app.writeJSON(w, http.StatusCreated, input)
	}
}

func (app *App) writeJSON(w http.ResponseWriter, code int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal server error.", http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(b); err != nil {
		app.log.WithError(err).Warn("write response")
	}
}
