package sbudesk

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DaysInSeries is the fixed length of a daily performance series.
const DaysInSeries = 31

var (
	zero    = decimal.Zero
	half    = decimal.RequireFromString("0.5")
	fifty   = decimal.NewFromInt(50)
	hundred = decimal.NewFromInt(100)
)

// DailyPerformance aggregates one calendar day.
type DailyPerformance struct {
	Day       int             `json:"day"`
	Sales     decimal.Decimal `json:"sales"`
	Expenses  decimal.Decimal `json:"expenses"`
	NetProfit decimal.Decimal `json:"netProfit"`
}

// HasData reports whether anything was sold or spent that day.
func (d DailyPerformance) HasData() bool {
	return d.Sales.IsPositive() || d.Expenses.IsPositive()
}

// Series is the daily performance of a month. Day d is at index d-1, days
// without activity are present with zero values.
type Series [DaysInSeries]DailyPerformance

// Day returns the performance of day d (1 based).
func (s *Series) Day(d int) DailyPerformance { return s[d-1] }

// BuildDailySeries sums sales and expenses per day of month.
//
// Records with a day outside [1,31] or a negative amount are excluded, each
// reported as an *InvalidRecordError in the returned error. The series is
// always complete, even when the error is not nil.
func BuildDailySeries(sales []SaleRecord, expenses []ExpenseRecord) (Series, error) {
	var s Series
	for i := range s {
		s[i] = DailyPerformance{Day: i + 1, Sales: zero, Expenses: zero, NetProfit: zero}
	}

	var errs error
	for i, r := range sales {
		if err := checkRecord(r.Day, r.Amount); err != nil {
			errs = errors.Join(errs, &InvalidRecordError{Kind: "sale", Index: i, Reason: err.Error()})
			continue
		}
		s[r.Day-1].Sales = s[r.Day-1].Sales.Add(r.Amount)
	}
	for i, r := range expenses {
		if err := checkRecord(r.Day, r.Amount); err != nil {
			errs = errors.Join(errs, &InvalidRecordError{Kind: "expense", Index: i, Reason: err.Error()})
			continue
		}
		s[r.Day-1].Expenses = s[r.Day-1].Expenses.Add(r.Amount)
	}
	for i := range s {
		s[i].NetProfit = s[i].Sales.Sub(s[i].Expenses)
	}
	return s, errs
}

func checkRecord(day int, amount decimal.Decimal) error {
	if day < 1 || day > DaysInSeries {
		return fmt.Errorf("day %d out of range [1,%d]", day, DaysInSeries)
	}
	if amount.IsNegative() {
		return fmt.Errorf("negative amount %s", amount)
	}
	return nil
}

// MonthlySummary holds the statistics derived from a Series.
type MonthlySummary struct {
	TotalSales           decimal.Decimal `json:"totalSales"`
	TotalExpenses        decimal.Decimal `json:"totalExpenses"`
	TotalNetProfit       decimal.Decimal `json:"totalNetProfit"`
	AverageDailySales    decimal.Decimal `json:"averageDailySales"`
	AverageDailyExpenses decimal.Decimal `json:"averageDailyExpenses"`
	AverageDailyNet      decimal.Decimal `json:"averageDailyNet"`
	DaysWithData         int             `json:"daysWithData"`
	PerformanceScore     int             `json:"performanceScore"`
}

// HasData reports whether at least one day has a sale or an expense.
func (m MonthlySummary) HasData() bool { return m.DaysWithData > 0 }

// Summarize computes the month totals and the per-active-day averages.
// Averages are zero when no day has data.
func Summarize(series Series) MonthlySummary {
	m := MonthlySummary{
		TotalSales:           zero,
		TotalExpenses:        zero,
		AverageDailySales:    zero,
		AverageDailyExpenses: zero,
		AverageDailyNet:      zero,
	}
	for _, d := range series {
		m.TotalSales = m.TotalSales.Add(d.Sales)
		m.TotalExpenses = m.TotalExpenses.Add(d.Expenses)
		if d.HasData() {
			m.DaysWithData++
		}
	}
	m.TotalNetProfit = m.TotalSales.Sub(m.TotalExpenses)

	if m.DaysWithData > 0 {
		days := decimal.NewFromInt(int64(m.DaysWithData))
		m.AverageDailySales = m.TotalSales.Div(days)
		m.AverageDailyExpenses = m.TotalExpenses.Div(days)
		m.AverageDailyNet = m.TotalNetProfit.Div(days)
	}
	m.PerformanceScore = PerformanceScore(m.TotalSales, m.TotalExpenses)
	return m
}

// PerformanceScore maps the month's profit margin to [0,100].
//
// The score is round(margin% + 50) clamped to [0,100]: break-even scores 50, a
// month without expenses saturates at 100. Without sales the score is 0. The
// formula is a heuristic kept for compatibility with the web dashboard, it is
// not a calibrated measure.
func PerformanceScore(totalSales, totalExpenses decimal.Decimal) int {
	if totalSales.IsZero() {
		return 0
	}
	margin := totalSales.Sub(totalExpenses).Div(totalSales).Mul(hundred)
	score := roundHalfUp(margin.Add(fifty))
	switch {
	case score.LessThan(zero):
		return 0
	case score.GreaterThan(hundred):
		return 100
	}
	return int(score.IntPart())
}

// roundHalfUp rounds to units, halves toward +∞ (the browser's Math.round).
func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Add(half).Floor()
}
