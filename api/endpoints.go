package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/etnz/sbudesk"
	"github.com/etnz/sbudesk/session"
	"github.com/shopspring/decimal"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", strings.TrimSpace(username))
	form.Set("password", password)
	var tok token
	if err := c.Do(ctx, nil, http.MethodPost, "/token", form, &tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", &Error{Kind: Rejected, Status: http.StatusOK, Message: "login answer carries no access token"}
	}
	return tok.AccessToken, nil
}

// Me returns the user the token belongs to.
func (c *Client) Me(ctx context.Context, sess *session.Session) (User, error) {
	var u User
	err := c.Do(ctx, sess, http.MethodGet, "/me", nil, &u)
	return u, err
}

// SBUs lists the business units. The endpoint is public but the token is
// sent when there is one.
func (c *Client) SBUs(ctx context.Context, sess *session.Session) ([]SBU, error) {
	var sbus []SBU
	err := c.Do(ctx, sess, http.MethodGet, "/sbus", nil, &sbus)
	return sbus, err
}

// CreateSBU registers a new business unit.
func (c *Client) CreateSBU(ctx context.Context, sess *session.Session, name, description string) error {
	return c.Do(ctx, sess, http.MethodPost, "/admin/sbus", sbuBody{Name: name, Description: description}, nil)
}

// MySales returns the raw sale records of the session user.
func (c *Client) MySales(ctx context.Context, sess *session.Session) ([]byte, error) {
	var raw []byte
	err := c.Do(ctx, sess, http.MethodGet, "/staff/my-sales", nil, &raw)
	return raw, err
}

// MyExpenses returns the raw expense records of the session user.
func (c *Client) MyExpenses(ctx context.Context, sess *session.Session) ([]byte, error) {
	var raw []byte
	err := c.Do(ctx, sess, http.MethodGet, "/staff/my-expenses", nil, &raw)
	return raw, err
}

// SubmitSale records a sale.
func (c *Client) SubmitSale(ctx context.Context, sess *session.Session, r sbudesk.SaleRecord) error {
	body := saleBody{SBUID: r.SBUID, Amount: number(r.Amount), Day: r.Day}
	return c.Do(ctx, sess, http.MethodPost, "/staff/submit/sale", body, nil)
}

// SubmitExpenditure records an expense.
func (c *Client) SubmitExpenditure(ctx context.Context, sess *session.Session, r sbudesk.ExpenseRecord) error {
	body := expenseBody{SBUID: r.SBUID, Amount: number(r.Amount), Day: r.Day, Category: r.Category}
	return c.Do(ctx, sess, http.MethodPost, "/staff/submit/expenditure", body, nil)
}

// Currency returns the conversion rates. Missing or zero rates read as 1.
func (c *Client) Currency(ctx context.Context, sess *session.Session) (CurrencyRates, error) {
	var rates CurrencyRates
	if err := c.Do(ctx, sess, http.MethodGet, "/admin/currency", nil, &rates); err != nil {
		return CurrencyRates{}, err
	}
	return rates.withDefaults(), nil
}

// SetCurrency replaces the conversion rates.
func (c *Client) SetCurrency(ctx context.Context, sess *session.Session, rates CurrencyRates) error {
	body := ratesBody{
		SalesRate:   number(rates.SalesRate),
		ExpenseRate: number(rates.ExpenseRate),
		BudgetRate:  number(rates.BudgetRate),
	}
	return c.Do(ctx, sess, http.MethodPost, "/admin/currency", body, nil)
}

// Employees lists the accounts.
func (c *Client) Employees(ctx context.Context, sess *session.Session) ([]Employee, error) {
	var emps []Employee
	err := c.Do(ctx, sess, http.MethodGet, "/admin/employees", nil, &emps)
	return emps, err
}

// CreateEmployee creates an account.
func (c *Client) CreateEmployee(ctx context.Context, sess *session.Session, e NewEmployee) error {
	return c.Do(ctx, sess, http.MethodPost, "/admin/create-employee", e, nil)
}

// DeleteEmployee deletes the account id.
func (c *Client) DeleteEmployee(ctx context.Context, sess *session.Session, id int) error {
	return c.Do(ctx, sess, http.MethodDelete, fmt.Sprintf("/admin/employees/%d", id), nil, nil)
}

// Report returns the records of the SBU called name.
func (c *Client) Report(ctx context.Context, sess *session.Session, name string) (Report, error) {
	var r Report
	if err := c.Do(ctx, sess, http.MethodGet, "/staff/report/"+url.PathEscape(name), nil, &r); err != nil {
		return Report{}, err
	}
	if r.Name == "" {
		r.Name = name
	}
	return r, nil
}

var one = decimal.NewFromInt(1)

func (r CurrencyRates) withDefaults() CurrencyRates {
	def := func(d decimal.Decimal) decimal.Decimal {
		if d.IsZero() {
			return one
		}
		return d
	}
	return CurrencyRates{
		SalesRate:   def(r.SalesRate),
		ExpenseRate: def(r.ExpenseRate),
		BudgetRate:  def(r.BudgetRate),
	}
}
