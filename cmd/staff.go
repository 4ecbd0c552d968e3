package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/etnz/sbudesk/desk"
	"github.com/etnz/sbudesk/renderer"
	"github.com/etnz/sbudesk/session"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// decimalFlag is a flag.Value holding an amount.
type decimalFlag struct{ decimal.Decimal }

func (d *decimalFlag) Set(s string) error {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid amount %q", s)
	}
	d.Decimal = v
	return nil
}

type sbusCmd struct{}

func (*sbusCmd) Name() string     { return "sbus" }
func (*sbusCmd) Synopsis() string { return "list the business units" }
func (*sbusCmd) Usage() string {
	return `sbu sbus

  Lists the business units records can be submitted for.
`
}

func (*sbusCmd) SetFlags(*flag.FlagSet) {}

func (*sbusCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, sess, status, ok := openView(session.RequireStaff)
	if !ok {
		return status
	}
	sbus, err := a.desk.SBUs(ctx, sess)
	if err != nil {
		return failure(err)
	}
	printMarkdown(renderer.SBUsMarkdown(sbus))
	return subcommands.ExitSuccess
}

type performanceCmd struct {
	output
}

func (*performanceCmd) Name() string     { return "performance" }
func (*performanceCmd) Synopsis() string { return "show the performance of the month" }
func (*performanceCmd) Usage() string {
	return `sbu performance [-json|-cards]

  Aggregates the sales and expenses of the logged in user into a daily
  series and shows the monthly summary.
`
}

func (c *performanceCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "print the chart data as JSON")
	f.BoolVar(&c.cards, "cards", false, "print the summary as cards")
}

func (c *performanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, sess, status, ok := openView(session.RequireStaff)
	if !ok {
		return status
	}
	m, err := a.desk.Performance(ctx, sess)
	if err != nil {
		return failure(err)
	}
	if err := c.print("Performance - "+m.Name, a.cfg.Currency, m, renderer.PerformanceMarkdown); err != nil {
		return failure(err)
	}
	return subcommands.ExitSuccess
}

// record holds the flags shared by the submission commands.
type record struct {
	sbu    int
	amount decimalFlag
	day    int
	output
}

func (r *record) setFlags(f *flag.FlagSet) {
	f.IntVar(&r.sbu, "sbu", 0, "SBU id (see 'sbu sbus')")
	f.Var(&r.amount, "amount", "amount, must be positive")
	f.IntVar(&r.day, "day", 0, "day of the month, 1 to 31 (default: today)")
	f.BoolVar(&r.json, "json", false, "print the refreshed chart data as JSON")
	f.BoolVar(&r.cards, "cards", false, "print the refreshed summary as cards")
}

// done reports a submission and prints the refreshed month. A failed refresh
// still means the record was saved.
func (r *record) done(a *app, what string, m *desk.Month, err error) subcommands.ExitStatus {
	if err != nil && !errors.Is(err, desk.ErrRefreshFailed) {
		return failure(err)
	}
	fmt.Fprintf(stderr, "%s submitted successfully\n", what)
	if err != nil {
		return failure(err)
	}
	if m.Invalid != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", m.Invalid)
	}
	if err := r.print("Performance - "+m.Name, a.cfg.Currency, m, renderer.PerformanceMarkdown); err != nil {
		return failure(err)
	}
	return subcommands.ExitSuccess
}

type submitSaleCmd struct {
	record
}

func (*submitSaleCmd) Name() string     { return "submit-sale" }
func (*submitSaleCmd) Synopsis() string { return "record a sale" }
func (*submitSaleCmd) Usage() string {
	return `sbu submit-sale -sbu <id> -amount <amount> [-day <day>]

  Records a sale for a business unit, then shows the refreshed performance.
`
}

func (c *submitSaleCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *submitSaleCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, sess, status, ok := openView(session.RequireStaff)
	if !ok {
		return status
	}
	m, err := a.desk.SubmitSale(ctx, sess, desk.SaleForm{SBUID: c.sbu, Amount: c.amount.Decimal, Day: c.day})
	return c.done(a, "Sale", m, err)
}

type submitExpenseCmd struct {
	record
	category string
}

func (*submitExpenseCmd) Name() string     { return "submit-expense" }
func (*submitExpenseCmd) Synopsis() string { return "record an expense" }
func (*submitExpenseCmd) Usage() string {
	return `sbu submit-expense -sbu <id> -amount <amount> -category <category> [-day <day>]

  Records an expense for a business unit, then shows the refreshed performance.
  The category is required.
`
}

func (c *submitExpenseCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.category, "category", "", "expense category (required)")
}

func (c *submitExpenseCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, sess, status, ok := openView(session.RequireStaff)
	if !ok {
		return status
	}
	form := desk.ExpenseForm{SBUID: c.sbu, Amount: c.amount.Decimal, Day: c.day, Category: c.category}
	m, err := a.desk.SubmitExpense(ctx, sess, form)
	return c.done(a, "Expense", m, err)
}
