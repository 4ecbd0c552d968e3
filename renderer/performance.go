package renderer

import (
	"fmt"

	"github.com/etnz/sbudesk"
	"github.com/shopspring/decimal"
)

// NoData is the label shown instead of a value when there is nothing to show.
const NoData = "No data"

// Palette of the performance view.
const (
	ColorSales    = "#27ae60"
	ColorExpenses = "#e74c3c"
	ColorNet      = "#2c7db7"
	ColorMuted    = "#666666"
)

// Card is one headline figure of the performance view.
type Card struct {
	Title  string
	Value  string // formatted value, or NoData
	Hint   string
	Color  string
	NoData bool
}

// DayRow is a day with activity.
type DayRow struct {
	Day       int
	Sales     string
	Expenses  string
	NetProfit string
}

// Performance is the view model of a month of activity.
type Performance struct {
	Title       string
	Currency    string
	Summary     sbudesk.MonthlySummary
	Cards       []Card
	Days        []DayRow
	Chart       *Chart // nil when there is no data at all
	Placeholder string // shown instead of the chart
}

// Present builds the view of a month.
//
// Each card falls back to NoData on its own: sales when no day has sales,
// expenses when no day has expenses, net profit and score when no day has
// any activity.
func Present(title, currency string, series sbudesk.Series, summary sbudesk.MonthlySummary) *Performance {
	if currency == "" {
		currency = sbudesk.DefaultCurrency
	}
	amount := func(d decimal.Decimal) string { return sbudesk.FormatAmount(d, currency) }
	perDay := func(d decimal.Decimal) string { return "Avg: " + amount(d) + "/day" }

	hasSales := summary.TotalSales.IsPositive()
	hasExpenses := summary.TotalExpenses.IsPositive()
	hasData := summary.HasData()

	p := &Performance{Title: title, Currency: currency, Summary: summary}

	sales := Card{Title: "Monthly Sales", Value: NoData, Hint: "Submit sales to see data", Color: ColorMuted, NoData: true}
	if hasSales {
		sales = Card{Title: sales.Title, Value: amount(summary.TotalSales), Hint: perDay(summary.AverageDailySales), Color: ColorSales}
	}

	expenses := Card{Title: "Monthly Expenses", Value: NoData, Hint: "Submit expenses to see data", Color: ColorMuted, NoData: true}
	if hasExpenses {
		expenses = Card{Title: expenses.Title, Value: amount(summary.TotalExpenses), Hint: perDay(summary.AverageDailyExpenses), Color: ColorExpenses}
	}

	net := Card{Title: "Net Profit", Value: NoData, Hint: "Submit data to see net profit", Color: ColorMuted, NoData: true}
	score := Card{Title: "Performance Score", Value: NoData, Hint: "Submit data for score", Color: ColorNet, NoData: true}
	if hasData {
		color := ColorSales
		if summary.TotalNetProfit.IsNegative() {
			color = ColorExpenses
		}
		net = Card{Title: net.Title, Value: amount(summary.TotalNetProfit), Hint: perDay(summary.AverageDailyNet), Color: color}
		hint := "Based on sales vs expenses"
		if !hasSales {
			hint = "No sales to score"
		}
		score = Card{Title: score.Title, Value: fmt.Sprintf("%d%%", summary.PerformanceScore), Hint: hint, Color: ColorNet}
	}
	p.Cards = []Card{sales, expenses, net, score}

	for _, d := range series {
		if !d.HasData() {
			continue
		}
		p.Days = append(p.Days, DayRow{
			Day:       d.Day,
			Sales:     amount(d.Sales),
			Expenses:  amount(d.Expenses),
			NetProfit: amount(d.NetProfit),
		})
	}

	if hasData {
		p.Chart = NewChart(title, series)
	} else {
		p.Placeholder = "No Performance Data Yet. Submit sales and expenses to see your performance chart."
	}
	return p
}
