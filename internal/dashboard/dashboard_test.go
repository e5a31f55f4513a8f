package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"spendo/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func rec(title string, t models.RecordType, category string, amount float64, day string) *models.Record {
	d, err := time.Parse(models.DateLayout, day)
	if err != nil {
		panic(err)
	}
	return &models.Record{
		ID:       uuid.New(),
		Title:    title,
		Type:     t,
		Date:     d,
		Category: category,
		Amount:   amount,
	}
}

func TestComputeTotals_Example(t *testing.T) {
	records := []*models.Record{
		rec("Coffee", models.RecordTypeExpense, "food", 5, "2025-10-15"),
		rec("Salary save", models.RecordTypeSavings, "bank", 100, "2025-10-15"),
	}

	totals := ComputeTotals(records)
	assert.Equal(t, Totals{Expenses: 5, Savings: 100, Balance: 95}, totals)

	assert.Equal(t, Totals{}, ComputeTotals(nil))
}

func TestCategoryTotals(t *testing.T) {
	records := []*models.Record{
		rec("Lunch", models.RecordTypeExpense, "food", 12, "2025-10-01"),
		rec("Bus", models.RecordTypeExpense, "transport", 3, "2025-10-01"),
		rec("Dinner", models.RecordTypeExpense, "food", 20.5, "2025-10-02"),
		rec("Piggy", models.RecordTypeSavings, "cash", 50, "2025-10-02"),
		rec("Groceries", models.RecordTypeSavings, "food", 7, "2025-10-03"),
	}

	assert.Equal(t, []CategoryTotal{
		{Name: "food", Value: 32.5},
		{Name: "transport", Value: 3},
	}, CategoryTotals(records, models.RecordTypeExpense))

	assert.Equal(t, []CategoryTotal{
		{Name: "cash", Value: 50},
		{Name: "food", Value: 7},
	}, CategoryTotals(records, models.RecordTypeSavings))

	empty := CategoryTotals(nil, models.RecordTypeExpense)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestTrend(t *testing.T) {
	anchor := time.Date(2025, 10, 15, 18, 30, 0, 0, time.UTC)
	records := []*models.Record{
		rec("Coffee", models.RecordTypeExpense, "food", 5, "2025-10-15"),
		rec("Tea", models.RecordTypeExpense, "food", 2, "2025-10-15"),
		rec("Save", models.RecordTypeSavings, "bank", 100, "2025-10-10"),
		rec("Old", models.RecordTypeExpense, "food", 40, "2025-10-08"),
		rec("Future", models.RecordTypeExpense, "food", 9, "2025-10-16"),
	}

	points := Trend(records, 7, anchor)
	require.Len(t, points, 7)

	assert.Equal(t, "10-09", points[0].Label)
	assert.Equal(t, "10-15", points[6].Label)
	assert.Equal(t, 7.0, points[6].Expense)
	assert.Equal(t, 0.0, points[6].Savings)
	assert.Equal(t, 100.0, points[1].Savings)

	for i, p := range points {
		assert.GreaterOrEqual(t, p.Expense, 0.0)
		assert.GreaterOrEqual(t, p.Savings, 0.0)
		if i > 0 {
			assert.Equal(t, 24*time.Hour, p.Day.Sub(points[i-1].Day))
		}
	}

	month := Trend(records, 30, anchor)
	require.Len(t, month, 30)
	assert.Equal(t, "09-16", month[0].Label)
	assert.Equal(t, 40.0, month[22].Expense)

	assert.Empty(t, Trend(records, 0, anchor))
}

func TestTrend_AnchorUsesItsOwnCalendarDay(t *testing.T) {
	// 23:30 on Oct 15 in UTC-5 is already Oct 16 in UTC.
	loc := time.FixedZone("UTC-5", -5*60*60)
	anchor := time.Date(2025, 10, 15, 23, 30, 0, 0, loc)

	points := Trend([]*models.Record{
		rec("Coffee", models.RecordTypeExpense, "food", 5, "2025-10-15"),
	}, 7, anchor)

	assert.Equal(t, "10-15", points[6].Label)
	assert.Equal(t, 5.0, points[6].Expense)
}

func TestTrend_CrossesMonthAndYear(t *testing.T) {
	points := Trend(nil, 7, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	labels := make([]string, len(points))
	for i, p := range points {
		labels[i] = p.Label
	}
	assert.Equal(t, []string{"12-27", "12-28", "12-29", "12-30", "12-31", "01-01", "01-02"}, labels)
}

func TestDrillDown(t *testing.T) {
	lunch := rec("Lunch", models.RecordTypeExpense, "food", 12, "2025-10-01")
	groceries := rec("Groceries", models.RecordTypeSavings, "food", 7, "2025-10-03")
	records := []*models.Record{
		lunch,
		rec("Bus", models.RecordTypeExpense, "transport", 3, "2025-10-01"),
		groceries,
	}

	assert.Equal(t, []*models.Record{lunch, groceries}, DrillDown(records, "food"))
	assert.Empty(t, DrillDown(records, "health"))
}

func TestParseWindow(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    Window
		wantErr bool
	}{
		{"7", Window7, false},
		{"30", Window30, false},
		{"14", 0, true},
		{"week", 0, true},
	} {
		t.Run(tc.in, func(t *testing.T) {
			w, err := ParseWindow(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, w)
		})
	}
}

type stubLister struct {
	records []*models.Record
	err     error
	calls   int
}

func (s *stubLister) List(ctx context.Context) ([]*models.Record, error) {
	s.calls++
	return s.records, s.err
}

func TestView(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	source := &stubLister{records: []*models.Record{
		rec("Coffee", models.RecordTypeExpense, "food", 5, "2025-10-15"),
		rec("Salary save", models.RecordTypeSavings, "bank", 100, "2025-10-14"),
	}}

	v := NewView(source, zap.NewNop())
	assert.False(t, v.Loaded())
	require.NoError(t, v.Load(context.Background()))
	assert.True(t, v.Loaded())
	assert.Equal(t, 1, source.calls)

	s := v.Summary(now)
	assert.Equal(t, Window30, s.Window)
	assert.Len(t, s.Trend, 30)
	assert.Equal(t, 95.0, s.Totals.Balance)
	assert.Nil(t, s.DrillDown)

	v.SetWindow(Window7)
	v.SetWindow(Window(14))
	v.SelectCategory("bank")
	s = v.Summary(now)
	assert.Equal(t, Window7, s.Window)
	assert.Len(t, s.Trend, 7)
	require.Len(t, s.DrillDown, 1)
	assert.Equal(t, "Salary save", s.DrillDown[0].Title)
	assert.Equal(t, 1, source.calls)
}

func TestView_LoadError(t *testing.T) {
	v := NewView(&stubLister{err: errors.New("connection refused")}, zap.NewNop())

	err := v.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.False(t, v.Loaded())
}
