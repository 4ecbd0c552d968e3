package desk

import (
	"context"
	"strings"

	"github.com/etnz/sbudesk/api"
	"github.com/etnz/sbudesk/session"
	"github.com/rs/zerolog/log"
)

// Employees lists the accounts.
func (d *Desk) Employees(ctx context.Context, sess session.Session) ([]api.Employee, error) {
	emps, err := d.Client.Employees(ctx, &sess)
	return emps, d.settle(err)
}

// CreateEmployee creates an account once the password satisfies the policy.
func (d *Desk) CreateEmployee(ctx context.Context, sess session.Session, form EmployeeForm) error {
	form.Username = strings.TrimSpace(form.Username)
	if err := d.check(form); err != nil {
		return err
	}
	err := d.Client.CreateEmployee(ctx, &sess, api.NewEmployee{Username: form.Username, Password: form.Password, Role: form.Role})
	if err == nil {
		log.Info().Str("username", form.Username).Str("role", form.Role).Msg("employee created")
	}
	return d.settle(err)
}

// DeleteEmployee deletes the account id.
func (d *Desk) DeleteEmployee(ctx context.Context, sess session.Session, id int) error {
	err := d.Client.DeleteEmployee(ctx, &sess, id)
	if err == nil {
		log.Info().Int("id", id).Msg("employee deleted")
	}
	return d.settle(err)
}

// CreateSBU registers a business unit.
func (d *Desk) CreateSBU(ctx context.Context, sess session.Session, form SBUForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Description = strings.TrimSpace(form.Description)
	if err := d.check(form); err != nil {
		return err
	}
	return d.settle(d.Client.CreateSBU(ctx, &sess, form.Name, form.Description))
}

// Currency returns the conversion rates, missing ones read as 1.
func (d *Desk) Currency(ctx context.Context, sess session.Session) (api.CurrencyRates, error) {
	rates, err := d.Client.Currency(ctx, &sess)
	return rates, d.settle(err)
}

// SetCurrency replaces the conversion rates.
func (d *Desk) SetCurrency(ctx context.Context, sess session.Session, form RatesForm) error {
	if err := d.check(form); err != nil {
		return err
	}
	rates := api.CurrencyRates{SalesRate: form.SalesRate, ExpenseRate: form.ExpenseRate, BudgetRate: form.BudgetRate}
	return d.settle(d.Client.SetCurrency(ctx, &sess, rates))
}
