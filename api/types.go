package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// User is the identity returned by GET /me.
type User struct {
	ID       int    `json:"id,omitempty"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// SBU is a Strategic Business Unit.
type SBU struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Employee is an account as listed by the admin endpoints.
type Employee struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// NewEmployee is the body of POST /admin/create-employee.
type NewEmployee struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CurrencyRates are the conversion rates applied by the backend.
type CurrencyRates struct {
	SalesRate   decimal.Decimal `json:"sales_rate"`
	ExpenseRate decimal.Decimal `json:"expense_rate"`
	BudgetRate  decimal.Decimal `json:"budget_rate"`
}

// Report is the answer of GET /staff/report/{name}. Records are kept raw and
// decoded by the aggregation engine.
type Report struct {
	Name     string          `json:"name"`
	Sales    json.RawMessage `json:"sales"`
	Expenses json.RawMessage `json:"expenses"`
}

type token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// wire bodies send amounts as JSON numbers.
type saleBody struct {
	SBUID  int         `json:"sbu_id"`
	Amount json.Number `json:"amount"`
	Day    int         `json:"day"`
}

type expenseBody struct {
	SBUID    int         `json:"sbu_id"`
	Amount   json.Number `json:"amount"`
	Day      int         `json:"day"`
	Category string      `json:"category,omitempty"`
}

type ratesBody struct {
	SalesRate   json.Number `json:"sales_rate"`
	ExpenseRate json.Number `json:"expense_rate"`
	BudgetRate  json.Number `json:"budget_rate"`
}

type sbuBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func number(d decimal.Decimal) json.Number { return json.Number(d.String()) }
