package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/sbudesk"
	"github.com/etnz/sbudesk/desk"
	"github.com/etnz/sbudesk/renderer"
	"github.com/etnz/sbudesk/session"
	"github.com/google/subcommands"
)

type employeesCmd struct{}

func (*employeesCmd) Name() string     { return "employees" }
func (*employeesCmd) Synopsis() string { return "list the employee accounts" }
func (*employeesCmd) Usage() string {
	return `sbu employees

  Lists every account with its id and role. Admin only.
`
}

func (*employeesCmd) SetFlags(*flag.FlagSet) {}

func (*employeesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, sess, status, ok := openView(session.RequireAdmin)
	if !ok {
		return status
	}
	emps, err := a.desk.Employees(ctx, sess)
	if err != nil {
		return failure(err)
	}
	printMarkdown(renderer.EmployeesMarkdown(emps))
	return subcommands.ExitSuccess
}

type createEmployeeCmd struct {
	username string
	password string
	role     string
}

func (*createEmployeeCmd) Name() string     { return "create-employee" }
func (*createEmployeeCmd) Synopsis() string { return "create an employee account" }
func (*createEmployeeCmd) Usage() string {
	return `sbu create-employee -u <username> [-p <password>] [-role staff|admin]

  Creates an account. The password must be at least 8 characters long and
  contain an uppercase letter, a lowercase letter, a number and a special
  character. It is prompted for when -p is not given. Admin only.
`
}

func (c *createEmployeeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "username, 3 to 50 characters")
	f.StringVar(&c.password, "p", "", "password (prompted for when empty)")
	f.StringVar(&c.role, "role", string(session.Staff), "role: staff or admin")
}

func (c *createEmployeeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, sess, status, ok := openView(session.RequireAdmin)
	if !ok {
		return status
	}
	if c.password == "" {
		var err error
		if c.password, err = prompt("Password: ", true); err != nil {
			return failure(err)
		}
	}
	if s := sbudesk.PasswordStrength(c.password); !s.Valid() {
		fmt.Fprintf(stderr, "Password strength: %s (%d%%), missing: %s\n", s.Label(), s.Percent, strings.Join(s.Missing(), ", "))
	}

	form := desk.EmployeeForm{Username: c.username, Password: c.password, Role: c.role}
	if err := a.desk.CreateEmployee(ctx, sess, form); err != nil {
		return failure(err)
	}
	fmt.Fprintf(stdout, "Employee %s created\n", strings.TrimSpace(c.username))
	return subcommands.ExitSuccess
}

type deleteEmployeeCmd struct{}

func (*deleteEmployeeCmd) Name() string     { return "delete-employee" }
func (*deleteEmployeeCmd) Synopsis() string { return "delete an employee account" }
func (*deleteEmployeeCmd) Usage() string {
	return `sbu delete-employee <id>

  Deletes the account with the given id (see 'sbu employees'). Admin only.
`
}

func (*deleteEmployeeCmd) SetFlags(*flag.FlagSet) {}

func (*deleteEmployeeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: delete-employee takes exactly one employee id")
		return subcommands.ExitUsageError
	}
	id, err := strconv.Atoi(f.Arg(0))
	if err != nil || id <= 0 {
		fmt.Fprintf(stderr, "Error: invalid employee id %q\n", f.Arg(0))
		return subcommands.ExitUsageError
	}
	a, sess, status, ok := openView(session.RequireAdmin)
	if !ok {
		return status
	}
	if err := a.desk.DeleteEmployee(ctx, sess, id); err != nil {
		return failure(err)
	}
	fmt.Fprintf(stdout, "Employee %d deleted\n", id)
	return subcommands.ExitSuccess
}

type createSBUCmd struct {
	name        string
	description string
}

func (*createSBUCmd) Name() string     { return "create-sbu" }
func (*createSBUCmd) Synopsis() string { return "register a business unit" }
func (*createSBUCmd) Usage() string {
	return `sbu create-sbu -name <name> [-description <text>]

  Registers a new business unit. Admin only.
`
}

func (c *createSBUCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "SBU name")
	f.StringVar(&c.description, "description", "", "SBU description")
}

func (c *createSBUCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, sess, status, ok := openView(session.RequireAdmin)
	if !ok {
		return status
	}
	if err := a.desk.CreateSBU(ctx, sess, desk.SBUForm{Name: c.name, Description: c.description}); err != nil {
		return failure(err)
	}
	fmt.Fprintf(stdout, "SBU %s created\n", strings.TrimSpace(c.name))
	return subcommands.ExitSuccess
}

type currencyCmd struct{}

func (*currencyCmd) Name() string     { return "currency" }
func (*currencyCmd) Synopsis() string { return "show the currency conversion rates" }
func (*currencyCmd) Usage() string {
	return `sbu currency

  Shows the sales, expense and budget conversion rates. Admin only.
`
}

func (*currencyCmd) SetFlags(*flag.FlagSet) {}

func (*currencyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, sess, status, ok := openView(session.RequireAdmin)
	if !ok {
		return status
	}
	rates, err := a.desk.Currency(ctx, sess)
	if err != nil {
		return failure(err)
	}
	printMarkdown(renderer.CurrencyMarkdown(rates))
	return subcommands.ExitSuccess
}

type setCurrencyCmd struct {
	sales, expense, budget decimalFlag
}

func (*setCurrencyCmd) Name() string     { return "set-currency" }
func (*setCurrencyCmd) Synopsis() string { return "set the currency conversion rates" }
func (*setCurrencyCmd) Usage() string {
	return `sbu set-currency -sales <rate> -expense <rate> -budget <rate>

  Replaces the conversion rates. Every rate must be positive. Admin only.
`
}

func (c *setCurrencyCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.sales, "sales", "sales rate")
	f.Var(&c.expense, "expense", "expense rate")
	f.Var(&c.budget, "budget", "budget rate")
}

func (c *setCurrencyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, sess, status, ok := openView(session.RequireAdmin)
	if !ok {
		return status
	}
	form := desk.RatesForm{SalesRate: c.sales.Decimal, ExpenseRate: c.expense.Decimal, BudgetRate: c.budget.Decimal}
	if err := a.desk.SetCurrency(ctx, sess, form); err != nil {
		return failure(err)
	}
	fmt.Fprintln(stdout, "Currency rates updated")
	return subcommands.ExitSuccess
}

type reportCmd struct {
	output
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "show the financial report of a business unit" }
func (*reportCmd) Usage() string {
	return `sbu report [-json|-cards] <sbu name>

  Aggregates every record of the named business unit. Admin only.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "print the chart data as JSON")
	f.BoolVar(&c.cards, "cards", false, "print the summary as cards")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	name := strings.TrimSpace(strings.Join(f.Args(), " "))
	if name == "" {
		fmt.Fprintln(stderr, "Error: report needs an SBU name")
		return subcommands.ExitUsageError
	}
	a, sess, status, ok := openView(session.RequireAdmin)
	if !ok {
		return status
	}
	m, err := a.desk.SBUReport(ctx, sess, name)
	if err != nil {
		return failure(err)
	}
	if m.Invalid != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", m.Invalid)
	}
	on := now()
	err = c.print(m.Name, a.cfg.Currency, m, func(p *renderer.Performance) string {
		return renderer.ReportMarkdown(p, on)
	})
	if err != nil {
		return failure(err)
	}
	return subcommands.ExitSuccess
}
