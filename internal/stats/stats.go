// Package stats computes aggregate statistics over a user's expenses.
// Everything here is pure: the caller supplies the reference instant, so the
// same inputs always produce the same summary.
package stats

import (
	"sort"
	"time"

	"github.com/arnav/expense-tracker/internal/models"
)

// Timeframe selects the window of expenses to aggregate, relative to "now".
type Timeframe string

const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
)

// ParseTimeframe validates a query-string timeframe value. The empty string
// defaults to month, matching the original UI's initial selection.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case TimeframeWeek, TimeframeMonth, TimeframeYear:
		return Timeframe(s), nil
	case "":
		return TimeframeMonth, nil
	}
	return "", models.ErrValidation
}

// CategoryStat is one category's share of the filtered spending.
type CategoryStat struct {
	Category   models.Category `json:"category"`
	Amount     float64         `json:"amount"`
	Percentage float64         `json:"percentage"`
}

// Summary is the aggregate over the expenses that fall inside the timeframe.
type Summary struct {
	TotalAmount float64        `json:"total_amount"`
	AvgAmount   float64        `json:"avg_amount"`
	Count       int            `json:"count"`
	Trend       float64        `json:"trend"`
	Categories  []CategoryStat `json:"categories"`
}

// InWindow reports whether a creation timestamp falls inside the timeframe
// evaluated at now. Week is a rolling 7 days; month and year compare
// calendar fields.
func (tf Timeframe) InWindow(ts, now time.Time) bool {
	switch tf {
	case TimeframeWeek:
		return !ts.Before(now.Add(-7 * 24 * time.Hour))
	case TimeframeMonth:
		return ts.Month() == now.Month() && ts.Year() == now.Year()
	default:
		return ts.Year() == now.Year()
	}
}

// Filter returns the expenses whose creation timestamp falls inside the
// timeframe, preserving input order.
func Filter(expenses []models.Expense, tf Timeframe, now time.Time) []models.Expense {
	filtered := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if tf.InWindow(e.CreatedAt, now) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Summarize aggregates the expenses inside the timeframe.
//
// The average of an empty window is 0, not NaN. The trend is the newest
// filtered amount minus the second newest, a plain two-point delta; with
// fewer than two expenses it is 0. Category percentages are 0 when the
// total is 0.
func Summarize(expenses []models.Expense, tf Timeframe, now time.Time) Summary {
	filtered := Filter(expenses, tf, now)

	// Newest first; stable so same-instant records keep their input order.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	var total float64
	byCategory := make(map[models.Category]float64)
	var order []models.Category // first-seen order, keeps ties deterministic
	for _, e := range filtered {
		total += e.Amount
		if _, seen := byCategory[e.Category]; !seen {
			order = append(order, e.Category)
		}
		byCategory[e.Category] += e.Amount
	}

	categories := make([]CategoryStat, 0, len(order))
	for _, c := range order {
		amount := byCategory[c]
		pct := 0.0
		if total > 0 {
			pct = amount / total * 100
		}
		categories = append(categories, CategoryStat{Category: c, Amount: amount, Percentage: pct})
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Amount > categories[j].Amount
	})

	avg := 0.0
	if len(filtered) > 0 {
		avg = total / float64(len(filtered))
	}

	trend := 0.0
	if len(filtered) > 1 {
		trend = filtered[0].Amount - filtered[1].Amount
	}

	return Summary{
		TotalAmount: total,
		AvgAmount:   avg,
		Count:       len(filtered),
		Trend:       trend,
		Categories:  categories,
	}
}
