package model

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// Customer is the record served by the customer backend.
type Customer struct {
	ID        int    `json:"id" gorm:"primaryKey"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// FullName joins first and last name, skipping empty parts.
func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// CustomerResponse is the list wrapper returned by GET /customer.
type CustomerResponse struct {
	Customer []Customer `json:"customer"`
}

// NewCustomerID returns a random positive id for a customer created on
// the client.
func NewCustomerID() int {
	id := int(uuid.New().ID() & math.MaxInt32)
	if id == 0 {
		id = 1
	}
	return id
}
