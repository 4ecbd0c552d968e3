package renderer

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/etnz/sbudesk"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// PerformanceMarkdown renders the staff view of a month.
func PerformanceMarkdown(p *Performance) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(p.Title)
	cardsTable(doc, p)
	dailyTable(doc, p)
	return doc.String()
}

// ReportMarkdown renders the admin report of an SBU, dated on.
func ReportMarkdown(p *Performance, on time.Time) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Financial Report - %s - %s", p.Title, on.Format("2006-01-02")))
	cardsTable(doc, p)

	if p.Summary.HasData() {
		doc.H2("Daily Averages")
		amount := func(d decimal.Decimal) string { return sbudesk.FormatAmount(d, p.Currency) }
		doc.Table(md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Header:    []string{"Metric", "Value"},
			Rows: [][]string{
				{"Days with data", strconv.Itoa(p.Summary.DaysWithData)},
				{"Average daily sales", amount(p.Summary.AverageDailySales)},
				{"Average daily expenses", amount(p.Summary.AverageDailyExpenses)},
				{"Average daily net profit", amount(p.Summary.AverageDailyNet)},
			},
		})
	}
	dailyTable(doc, p)
	return doc.String()
}

func cardsTable(doc *md.Markdown, p *Performance) {
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignLeft},
		Header:    []string{"Metric", "Value", "Note"},
	}
	for _, c := range p.Cards {
		value := md.Bold(c.Value)
		if c.NoData {
			value = c.Value
		}
		table.Rows = append(table.Rows, []string{c.Title, value, c.Hint})
	}
	doc.Table(table)
}

func dailyTable(doc *md.Markdown, p *Performance) {
	if len(p.Days) == 0 {
		doc.PlainText(p.Placeholder)
		return
	}
	doc.H2("Daily Performance")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Day", "Sales", "Expenses", "Net Profit"},
	}
	for _, d := range p.Days {
		table.Rows = append(table.Rows, []string{fmt.Sprintf("Day %d", d.Day), d.Sales, d.Expenses, d.NetProfit})
	}
	doc.Table(table)
}
