package dashboard

import (
	"fmt"
	"strconv"
	"time"

	"spendo/internal/models"
)

type CategoryTotal struct {
	Name  string
	Value float64
}

type Totals struct {
	Expenses float64
	Savings  float64
	Balance  float64
}

// TrendPoint is one calendar day of the trend series.
type TrendPoint struct {
	Day     time.Time
	Label   string
	Expense float64
	Savings float64
}

type Window int

const (
	Window7  Window = 7
	Window30 Window = 30

	DefaultWindow = Window30
)

func ParseWindow(s string) (Window, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid window %q: must be 7 or 30", s)
	}
	w := Window(n)
	if !w.Valid() {
		return 0, fmt.Errorf("invalid window %d: must be 7 or 30", n)
	}
	return w, nil
}

func (w Window) Valid() bool {
	return w == Window7 || w == Window30
}

// CategoryTotals sums amounts per category for records of type t, in the order
// categories are first seen.
func CategoryTotals(records []*models.Record, t models.RecordType) []CategoryTotal {
	index := make(map[string]int)
	out := []CategoryTotal{}
	for _, r := range records {
		if r.Type != t {
			continue
		}
		i, ok := index[r.Category]
		if !ok {
			i = len(out)
			index[r.Category] = i
			out = append(out, CategoryTotal{Name: r.Category})
		}
		out[i].Value += r.Amount
	}
	return out
}

func ComputeTotals(records []*models.Record) Totals {
	var t Totals
	for _, r := range records {
		switch r.Type {
		case models.RecordTypeExpense:
			t.Expenses += r.Amount
		case models.RecordTypeSavings:
			t.Savings += r.Amount
		}
	}
	t.Balance = t.Savings - t.Expenses
	return t
}

// Trend returns exactly days points, oldest first, ending at the calendar day
// of anchor in anchor's location. Records are bucketed by the UTC calendar day
// of their stored date.
func Trend(records []*models.Record, days int, anchor time.Time) []TrendPoint {
	if days <= 0 {
		return []TrendPoint{}
	}

	y, m, d := anchor.Date()
	points := make([]TrendPoint, days)
	index := make(map[string]int, days)
	for i := range points {
		day := time.Date(y, m, d-(days-1-i), 0, 0, 0, 0, time.UTC)
		points[i] = TrendPoint{Day: day, Label: day.Format("01-02")}
		index[day.Format(models.DateLayout)] = i
	}

	for _, r := range records {
		i, ok := index[r.Date.UTC().Format(models.DateLayout)]
		if !ok {
			continue
		}
		switch r.Type {
		case models.RecordTypeExpense:
			points[i].Expense += r.Amount
		case models.RecordTypeSavings:
			points[i].Savings += r.Amount
		}
	}
	return points
}

// DrillDown lists every record in category regardless of type.
func DrillDown(records []*models.Record, category string) []*models.Record {
	out := []*models.Record{}
	for _, r := range records {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}
