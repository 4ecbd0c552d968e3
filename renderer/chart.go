package renderer

import (
	"encoding/json"
	"fmt"

	"github.com/etnz/sbudesk"
)

// Chart is a bar chart of the daily series in the Chart.js configuration
// format, so it can be handed to any Chart.js page as is.
type Chart struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label           string        `json:"label"`
	Type            string        `json:"type,omitempty"`
	Data            []json.Number `json:"data"`
	BackgroundColor string        `json:"backgroundColor"`
	BorderColor     string        `json:"borderColor"`
	BorderWidth     int           `json:"borderWidth"`
	Fill            bool          `json:"fill,omitempty"`
}

type ChartOptions struct {
	Responsive bool `json:"responsive"`
	Plugins    struct {
		Title struct {
			Display bool   `json:"display"`
			Text    string `json:"text"`
		} `json:"title"`
	} `json:"plugins"`
	Scales struct {
		Y struct {
			BeginAtZero bool `json:"beginAtZero"`
		} `json:"y"`
	} `json:"scales"`
}

// NewChart returns the chart of series: sales and expenses as bars, net profit
// as a line over the 31 days.
func NewChart(title string, series sbudesk.Series) *Chart {
	c := &Chart{Type: "bar"}
	c.Options.Responsive = true
	c.Options.Plugins.Title.Display = true
	c.Options.Plugins.Title.Text = title
	c.Options.Scales.Y.BeginAtZero = true

	sales := Dataset{Label: "Sales", BackgroundColor: ColorSales, BorderColor: ColorSales, BorderWidth: 1}
	expenses := Dataset{Label: "Expenses", BackgroundColor: ColorExpenses, BorderColor: ColorExpenses, BorderWidth: 1}
	net := Dataset{Label: "Net Profit", Type: "line", BackgroundColor: "rgba(44, 125, 183, 0.1)", BorderColor: ColorNet, BorderWidth: 2, Fill: true}
	for _, d := range series {
		c.Data.Labels = append(c.Data.Labels, fmt.Sprintf("Day %d", d.Day))
		sales.Data = append(sales.Data, json.Number(d.Sales.String()))
		expenses.Data = append(expenses.Data, json.Number(d.Expenses.String()))
		net.Data = append(net.Data, json.Number(d.NetProfit.String()))
	}
	c.Data.Datasets = []Dataset{sales, expenses, net}
	return c
}

// ChartJSON encodes the chart of p, or returns nil when p has no chart.
func ChartJSON(p *Performance) ([]byte, error) {
	if p.Chart == nil {
		return nil, nil
	}
	return json.MarshalIndent(p.Chart, "", "  ")
}
