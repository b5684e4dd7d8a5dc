package service

import (
	"sort"

	"github.com/pennyworth/pennyworth-backend/internal/domain"
	"github.com/pennyworth/pennyworth-backend/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// The aggregation functions in this file are pure: no stored state, no
// suspension points, deterministic for a given input list. Inputs are assumed
// pre-filtered and pre-sorted (date descending) by the repository query, but
// month and category membership are always re-derived from each record's own
// date and type. Malformed records (zero date or unknown type) are skipped
// and logged; dashboards stay available.

// ComputeDashboard builds the dashboard view from a year's transactions.
func ComputeDashboard(transactions []*domain.Transaction, year int) *domain.DashboardSummary {
	totalIncome := decimal.Zero
	totalExpenses := decimal.Zero
	monthly := make([]domain.MonthlyPoint, 12)
	for i := range monthly {
		monthly[i] = domain.MonthlyPoint{
			Month:    util.MonthNames[i],
			Income:   decimal.Zero,
			Expenses: decimal.Zero,
		}
	}

	categories := newCategoryAccumulator()
	skipped := 0

	for _, t := range transactions {
		if malformed(t) {
			skipped++
			continue
		}

		amount := t.Amount.Abs()
		switch t.Type {
		case domain.TransactionTypeIncome:
			totalIncome = totalIncome.Add(amount)
		case domain.TransactionTypeExpense:
			totalExpenses = totalExpenses.Add(amount)
			categories.add(t.Category, amount)
		}

		if t.Date.Year() != year {
			continue
		}
		m := int(t.Date.Month()) - 1
		switch t.Type {
		case domain.TransactionTypeIncome:
			monthly[m].Income = monthly[m].Income.Add(amount)
		case domain.TransactionTypeExpense:
			monthly[m].Expenses = monthly[m].Expenses.Add(amount)
		}
	}

	logSkipped("dashboard", skipped)

	categoryData := categories.sortedTotals()
	if len(categoryData) > domain.TopCategoryCount {
		categoryData = categoryData[:domain.TopCategoryCount]
	}

	recent := make([]domain.RecentTransaction, 0, domain.RecentTransactionCount)
	for _, t := range transactions {
		if len(recent) == domain.RecentTransactionCount {
			break
		}
		if malformed(t) {
			continue
		}
		recent = append(recent, domain.RecentTransaction{
			Transaction: *t,
			DisplayType: t.Type.Display(),
		})
	}

	return &domain.DashboardSummary{
		TotalIncome:        totalIncome,
		TotalExpenses:      totalExpenses,
		Balance:            totalIncome.Sub(totalExpenses),
		MonthlyData:        monthly,
		CategoryData:       categoryData,
		RecentTransactions: recent,
	}
}

// ComputeTrend builds the 12-month trend series for a year. Months without
// transactions yield zeroed points.
func ComputeTrend(transactions []*domain.Transaction, year int) *domain.TrendSeries {
	months := make([]domain.TrendPoint, 12)
	for i := range months {
		months[i] = domain.TrendPoint{
			Month:    util.MonthNames[i],
			Income:   decimal.Zero,
			Expenses: decimal.Zero,
			Net:      decimal.Zero,
		}
	}

	skipped := 0
	for _, t := range transactions {
		if malformed(t) {
			skipped++
			continue
		}
		if t.Date.Year() != year {
			continue
		}
		m := int(t.Date.Month()) - 1
		amount := t.Amount.Abs()
		switch t.Type {
		case domain.TransactionTypeIncome:
			months[m].Income = months[m].Income.Add(amount)
		case domain.TransactionTypeExpense:
			months[m].Expenses = months[m].Expenses.Add(amount)
		}
	}
	logSkipped("trend", skipped)

	for i := range months {
		months[i].Net = months[i].Income.Sub(months[i].Expenses)
	}

	return &domain.TrendSeries{Year: year, Months: months}
}

// ComputeCategoryBreakdown groups expense transactions by category. The input
// is assumed pre-filtered to the period window; income records are ignored
// rather than trusted to be absent. The full list is returned, untruncated.
func ComputeCategoryBreakdown(transactions []*domain.Transaction, period domain.Period) *domain.CategoryBreakdown {
	categories := newCategoryAccumulator()
	skipped := 0
	for _, t := range transactions {
		if malformed(t) {
			skipped++
			continue
		}
		if t.Type != domain.TransactionTypeExpense {
			continue
		}
		categories.add(t.Category, t.Amount.Abs())
	}
	logSkipped("categories", skipped)

	return &domain.CategoryBreakdown{
		Period:     period,
		Categories: categories.sortedTotals(),
	}
}

func malformed(t *domain.Transaction) bool {
	if t.Date.IsZero() {
		return true
	}
	return t.Type != domain.TransactionTypeIncome && t.Type != domain.TransactionTypeExpense
}

func logSkipped(view string, n int) {
	if n > 0 {
		log.Warn().Str("view", view).Int("skipped", n).Msg("Skipped malformed transactions during aggregation")
	}
}

// categoryAccumulator sums expense magnitudes per category while recording
// first-seen order, so palette assignment never depends on map iteration
// order.
type categoryAccumulator struct {
	order  []string
	totals map[string]decimal.Decimal
}

func newCategoryAccumulator() *categoryAccumulator {
	return &categoryAccumulator{totals: make(map[string]decimal.Decimal)}
}

func (a *categoryAccumulator) add(name string, amount decimal.Decimal) {
	if current, ok := a.totals[name]; ok {
		a.totals[name] = current.Add(amount)
		return
	}
	a.order = append(a.order, name)
	a.totals[name] = amount
}

// sortedTotals assigns colors by first-seen index, then sorts descending by
// total. The sort is stable so ties keep first-seen order.
func (a *categoryAccumulator) sortedTotals() []domain.CategoryTotal {
	result := make([]domain.CategoryTotal, len(a.order))
	for i, name := range a.order {
		result[i] = domain.CategoryTotal{
			Name:  name,
			Value: a.totals[name],
			Color: domain.ChartPalette[i%len(domain.ChartPalette)],
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Value.GreaterThan(result[j].Value)
	})
	return result
}
