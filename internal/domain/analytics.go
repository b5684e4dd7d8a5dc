package domain

import "github.com/shopspring/decimal"

// ChartPalette is the fixed color table cycled over expense categories in
// first-seen order. Categories beyond the palette wrap around.
var ChartPalette = [10]string{
	"#3b82f6", "#ef4444", "#10b981", "#f59e0b", "#8b5cf6",
	"#ec4899", "#06b6d4", "#84cc16", "#f97316", "#6366f1",
}

// TopCategoryCount caps the dashboard's category chart. The full breakdown
// view is never truncated.
const TopCategoryCount = 10

// RecentTransactionCount is how many latest transactions the dashboard shows.
const RecentTransactionCount = 10

// MonthlyPoint is one calendar month's income/expense totals.
type MonthlyPoint struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// TrendPoint extends MonthlyPoint with the net for trend charts.
type TrendPoint struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// CategoryTotal is one expense category's aggregated magnitude with its
// assigned chart color.
type CategoryTotal struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color"`
}

// RecentTransaction is a transaction annotated for display.
type RecentTransaction struct {
	Transaction
	DisplayType string `json:"displayType"`
}

// DashboardSummary is the derived dashboard view for one user and year.
type DashboardSummary struct {
	TotalIncome        decimal.Decimal     `json:"totalIncome"`
	TotalExpenses      decimal.Decimal     `json:"totalExpenses"`
	Balance            decimal.Decimal     `json:"balance"`
	MonthlyData        []MonthlyPoint      `json:"monthlyData"`
	CategoryData       []CategoryTotal     `json:"categoryData"`
	RecentTransactions []RecentTransaction `json:"recentTransactions"`
}

// TrendSeries always holds exactly 12 points, one per month of the requested
// year, zero-filled where no transactions exist.
type TrendSeries struct {
	Year   int          `json:"year"`
	Months []TrendPoint `json:"months"`
}

// CategoryBreakdown is the full (untruncated) expense distribution for a
// period window.
type CategoryBreakdown struct {
	Period     Period          `json:"period"`
	Categories []CategoryTotal `json:"categories"`
}

// Period selects the window start for category breakdowns.
type Period string

const (
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// NormalizePeriod falls back to PeriodMonth for unrecognized values; an
// unknown period is a documented default, not an error.
func NormalizePeriod(s string) Period {
	switch Period(s) {
	case PeriodMonth, PeriodQuarter, PeriodYear:
		return Period(s)
	default:
		return PeriodMonth
	}
}
