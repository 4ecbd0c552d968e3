package renderer

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/etnz/sbudesk"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

func month(t *testing.T, sales []sbudesk.SaleRecord, expenses []sbudesk.ExpenseRecord) (sbudesk.Series, sbudesk.MonthlySummary) {
	t.Helper()
	series, err := sbudesk.BuildDailySeries(sales, expenses)
	require.NoError(t, err)
	return series, sbudesk.Summarize(series)
}

func sale(day int, amount int64) sbudesk.SaleRecord {
	return sbudesk.SaleRecord{SBUID: 1, Day: day, Amount: decimal.NewFromInt(amount)}
}

func expense(day int, amount int64) sbudesk.ExpenseRecord {
	return sbudesk.ExpenseRecord{SBUID: 1, Day: day, Amount: decimal.NewFromInt(amount)}
}

func values(p *Performance) []string {
	var v []string
	for _, c := range p.Cards {
		v = append(v, c.Value)
	}
	return v
}

func TestPresent_NoData(t *testing.T) {
	series, summary := month(t, nil, nil)
	p := Present("My month", "", series, summary)

	assert.Equal(t, []string{NoData, NoData, NoData, NoData}, values(p))
	for _, c := range p.Cards {
		assert.True(t, c.NoData, c.Title)
		assert.NotEmpty(t, c.Hint, c.Title)
	}
	assert.Nil(t, p.Chart)
	assert.NotEmpty(t, p.Placeholder)
	assert.Empty(t, p.Days)
	assert.Equal(t, sbudesk.DefaultCurrency, p.Currency)
}

func TestPresent_PerMetric(t *testing.T) {
	tests := []struct {
		name     string
		sales    []sbudesk.SaleRecord
		expenses []sbudesk.ExpenseRecord
		want     []string
	}{
		{
			name:     "day one",
			sales:    []sbudesk.SaleRecord{sale(1, 100), sale(1, 50)},
			expenses: []sbudesk.ExpenseRecord{expense(1, 30)},
			want:     []string{"₦150", "₦30", "₦120", "100%"},
		},
		{
			name:  "sales only",
			sales: []sbudesk.SaleRecord{sale(3, 1234)},
			want:  []string{"₦1,234", NoData, "₦1,234", "100%"},
		},
		{
			name:     "expenses only",
			expenses: []sbudesk.ExpenseRecord{expense(3, 50)},
			want:     []string{NoData, "₦50", "-₦50", "0%"},
		},
		{
			name:     "break even",
			sales:    []sbudesk.SaleRecord{sale(2, 1000)},
			expenses: []sbudesk.ExpenseRecord{expense(2, 1000)},
			want:     []string{"₦1,000", "₦1,000", "₦0", "50%"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, summary := month(t, tt.sales, tt.expenses)
			p := Present("Month", "NGN", series, summary)
			assert.Equal(t, tt.want, values(p))
			assert.NotNil(t, p.Chart)
			assert.Empty(t, p.Placeholder)
		})
	}
}

func TestPresent_ScoreHint(t *testing.T) {
	series, summary := month(t, nil, []sbudesk.ExpenseRecord{expense(3, 50)})
	p := Present("Month", "NGN", series, summary)
	assert.Equal(t, "0%", p.Cards[3].Value)
	assert.Equal(t, "No sales to score", p.Cards[3].Hint)

	series, summary = month(t, []sbudesk.SaleRecord{sale(3, 50)}, []sbudesk.ExpenseRecord{expense(3, 50)})
	p = Present("Month", "NGN", series, summary)
	assert.Equal(t, "Based on sales vs expenses", p.Cards[3].Hint)
}

func TestPresent_NetColor(t *testing.T) {
	series, summary := month(t, nil, []sbudesk.ExpenseRecord{expense(3, 50)})
	p := Present("Month", "NGN", series, summary)
	assert.Equal(t, ColorExpenses, p.Cards[2].Color)

	series, summary = month(t, []sbudesk.SaleRecord{sale(3, 50)}, nil)
	p = Present("Month", "NGN", series, summary)
	assert.Equal(t, ColorSales, p.Cards[2].Color)
}

func TestChart(t *testing.T) {
	series, summary := month(t, []sbudesk.SaleRecord{sale(1, 150)}, []sbudesk.ExpenseRecord{expense(2, 30)})
	p := Present("Your Daily Performance", "NGN", series, summary)
	require.NotNil(t, p.Chart)

	assert.Len(t, p.Chart.Data.Labels, sbudesk.DaysInSeries)
	assert.Equal(t, "Day 1", p.Chart.Data.Labels[0])
	assert.Equal(t, "Day 31", p.Chart.Data.Labels[30])
	require.Len(t, p.Chart.Data.Datasets, 3)
	for _, ds := range p.Chart.Data.Datasets {
		assert.Len(t, ds.Data, sbudesk.DaysInSeries, ds.Label)
	}
	assert.Equal(t, json.Number("150"), p.Chart.Data.Datasets[0].Data[0])
	assert.Equal(t, json.Number("-30"), p.Chart.Data.Datasets[2].Data[1])

	data, err := ChartJSON(p)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "bar", decoded["type"])
	assert.Contains(t, string(data), `"type": "line"`)

	empty := Present("Empty", "NGN", sbudesk.Series{}, sbudesk.MonthlySummary{})
	data, err = ChartJSON(empty)
	assert.NoError(t, err)
	assert.Nil(t, data)
}

// outline parses markdown and returns its headings and table cells.
func outline(t *testing.T, doc string) (headings, cells []string) {
	t.Helper()
	src := []byte(doc)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(src))
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindHeading:
			headings = append(headings, string(n.Text(src)))
			return ast.WalkSkipChildren, nil
		case extast.KindTableCell:
			cells = append(cells, strings.TrimSpace(string(n.Text(src))))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return headings, cells
}

func TestPerformanceMarkdown(t *testing.T) {
	series, summary := month(t, []sbudesk.SaleRecord{sale(1, 100), sale(1, 50)}, []sbudesk.ExpenseRecord{expense(1, 30)})
	doc := PerformanceMarkdown(Present("Performance of ada", "NGN", series, summary))

	headings, cells := outline(t, doc)
	assert.Equal(t, []string{"Performance of ada", "Daily Performance"}, headings)
	assert.Contains(t, cells, "Monthly Sales")
	assert.Contains(t, cells, "100%")
	assert.Contains(t, cells, "Day 1")
	assert.Contains(t, cells, "₦120")
	assert.NotContains(t, cells, "Day 2", "days without activity are not listed")
}

func TestPerformanceMarkdown_NoData(t *testing.T) {
	doc := PerformanceMarkdown(Present("Empty", "NGN", sbudesk.Series{}, sbudesk.MonthlySummary{}))
	headings, cells := outline(t, doc)
	assert.Equal(t, []string{"Empty"}, headings)
	assert.Contains(t, cells, NoData)
	assert.Contains(t, doc, "No Performance Data Yet")
}

func TestReportMarkdown(t *testing.T) {
	series, summary := month(t, []sbudesk.SaleRecord{sale(4, 400)}, []sbudesk.ExpenseRecord{expense(5, 100)})
	doc := ReportMarkdown(Present("Bakery", "NGN", series, summary), time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC))

	headings, cells := outline(t, doc)
	assert.Equal(t, []string{"Financial Report - Bakery - 2026-03-07", "Daily Averages", "Daily Performance"}, headings)
	assert.Contains(t, cells, "Days with data")
	assert.Contains(t, cells, "₦150", "net 300 over 2 days")
}

func TestCards(t *testing.T) {
	series, summary := month(t, []sbudesk.SaleRecord{sale(1, 100)}, nil)
	out := Cards(Present("Month", "NGN", series, summary))
	for _, s := range []string{"Monthly Sales", "Monthly Expenses", "Net Profit", "Performance Score", "₦100", NoData} {
		assert.Contains(t, out, s)
	}

	out = Cards(Present("Empty", "NGN", sbudesk.Series{}, sbudesk.MonthlySummary{}))
	assert.Contains(t, out, "No Performance Data Yet")
}
