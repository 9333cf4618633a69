package viewmodel

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/todocrm/internal/model"
	"github.com/idilsaglam/todocrm/internal/state"
)

type (
	CustomerList = state.RequestState[model.CustomerResponse]
	AddResult    = state.RequestState[model.Customer]
)

// CustomerRepository is the remote customer API.
type CustomerRepository interface {
	GetCustomers(ctx context.Context) (model.CustomerResponse, error)
	AddCustomer(ctx context.Context, c model.Customer) error
}

// Customers holds the customer list and the state of the last add.
type Customers struct {
	base
	repo CustomerRepository
	log  logrus.FieldLogger

	mu        sync.RWMutex
	customers CustomerList
	add       AddResult
}

// NewCustomers starts loading the list right away.
func NewCustomers(repo CustomerRepository, log logrus.FieldLogger) *Customers {
	c := &Customers{
		base:      newBase(),
		repo:      repo,
		log:       log.WithField("viewmodel", "customers"),
		customers: state.NewLoading[model.CustomerResponse](),
		add:       state.NewIdle[model.Customer](),
	}
	c.Refresh()
	return c
}

func (c *Customers) Customers() CustomerList {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.customers
}

func (c *Customers) AddState() AddResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.add
}

// Refresh reloads the customer list.
func (c *Customers) Refresh() {
	c.mu.Lock()
	c.customers = state.NewLoading[model.CustomerResponse]()
	c.mu.Unlock()
	c.changed()

	c.launch(c.load)
}

func (c *Customers) load() {
	resp, err := c.repo.GetCustomers(c.ctx)

	c.mu.Lock()
	if err != nil {
		c.log.WithError(err).Warn("loading customers failed")
		c.customers = state.NewError[model.CustomerResponse](err.Error())
	} else {
		c.customers = state.NewSuccess(resp)
	}
	c.mu.Unlock()
	c.changed()
}

// AddCustomer posts customer and reloads the list once it is stored.
func (c *Customers) AddCustomer(customer model.Customer) {
	c.mu.Lock()
	c.add = state.NewLoading[model.Customer]()
	c.mu.Unlock()
	c.changed()

	c.launch(func() {
		err := c.repo.AddCustomer(c.ctx, customer)

		c.mu.Lock()
		if err != nil {
			c.log.WithError(err).WithField("email", customer.Email).Warn("adding customer failed")
			c.add = state.NewError[model.Customer](err.Error())
		} else {
			c.add = state.NewSuccess(customer)
		}
		c.mu.Unlock()
		c.changed()

		if err == nil {
			c.load()
		}
	})
}
