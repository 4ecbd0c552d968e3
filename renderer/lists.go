package renderer

import (
	"bytes"
	"strconv"

	"github.com/etnz/sbudesk/api"
	md "github.com/nao1215/markdown"
)

// SBUsMarkdown renders the list of business units.
func SBUsMarkdown(sbus []api.SBU) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Business Units")
	if len(sbus) == 0 {
		doc.PlainText("No SBU yet.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignLeft, md.AlignLeft},
		Header:    []string{"ID", "Name", "Description"},
	}
	for _, s := range sbus {
		desc := s.Description
		if desc == "" {
			desc = "No description available"
		}
		table.Rows = append(table.Rows, []string{strconv.Itoa(s.ID), s.Name, desc})
	}
	doc.Table(table)
	return doc.String()
}

// EmployeesMarkdown renders the list of accounts.
func EmployeesMarkdown(emps []api.Employee) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Employees")
	if len(emps) == 0 {
		doc.PlainText("No employee found.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignLeft, md.AlignLeft},
		Header:    []string{"ID", "Username", "Role"},
	}
	for _, e := range emps {
		table.Rows = append(table.Rows, []string{strconv.Itoa(e.ID), e.Username, e.Role})
	}
	doc.Table(table)
	return doc.String()
}

// CurrencyMarkdown renders the conversion rates.
func CurrencyMarkdown(r api.CurrencyRates) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Currency Rates")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Rate", "Value"},
		Rows: [][]string{
			{"Sales", r.SalesRate.String()},
			{"Expense", r.ExpenseRate.String()},
			{"Budget", r.BudgetRate.String()},
		},
	})
	return doc.String()
}
