package cli

import (
	"fmt"
	"strings"

	"github.com/idilsaglam/todocrm/internal/model"
	"github.com/idilsaglam/todocrm/internal/ui"
)

func (r *runner) doCustomers() int {
	if r.env.Customers == nil {
		r.fail("customers: customer service is not configured")
		return 1
	}
	resp, err := r.env.Customers.GetCustomers(r.ctx)
	if err != nil {
		r.fail("customers: " + err.Error())
		return 1
	}

	th := ui.Current()
	lines := []string{
		fmt.Sprintf("%s  %s %d", ui.C(th.Title, "Customers"), ui.C(th.Accent, "Total"), len(resp.Customer)),
		"",
	}
	if len(resp.Customer) == 0 {
		lines = append(lines, ui.C(th.Muted, "no customers"))
	}
	for _, c := range resp.Customer {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			ui.C(th.Muted, fmt.Sprintf("#%-10d", c.ID)),
			c.FullName(),
			ui.C(th.Accent, "<"+c.Email+">"),
		))
	}
	fmt.Fprint(r.opt.Out, ui.Panel(lines))
	return 0
}

func (r *runner) doCustomerAdd(first, last, email string) int {
	if r.env.Customers == nil {
		r.fail("customer-add: customer service is not configured")
		return 1
	}
	email = strings.TrimSpace(email)
	if email == "" {
		r.fail("customer-add: empty email")
		return 2
	}
	c := model.Customer{
		ID:        model.NewCustomerID(),
		FirstName: strings.TrimSpace(first),
		LastName:  strings.TrimSpace(last),
		Email:     email,
	}
	if err := r.env.Customers.AddCustomer(r.ctx, c); err != nil {
		r.fail("customer-add: " + err.Error())
		return 1
	}
	r.ok(fmt.Sprintf("added %s (#%d)", c.FullName(), c.ID))
	return 0
}
