package dashboard

import (
	"context"
	"errors"
	"time"

	"spendo/internal/models"

	"go.uber.org/zap"
)

// ErrFetchFailed is what the view reports when the initial fetch fails.
var ErrFetchFailed = errors.New("failed to fetch records")

type RecordLister interface {
	List(ctx context.Context) ([]*models.Record, error)
}

// Summary is everything the dashboard renders for one state.
type Summary struct {
	Totals            Totals
	ExpenseCategories []CategoryTotal
	SavingsCategories []CategoryTotal
	Window            Window
	Trend             []TrendPoint
	Category          string
	DrillDown         []*models.Record
}

// View holds dashboard state for one activation. Records are fetched once by
// Load; window and category changes recompute from the fetched set.
type View struct {
	source   RecordLister
	logger   *zap.Logger
	records  []*models.Record
	loaded   bool
	window   Window
	category string
}

func NewView(source RecordLister, logger *zap.Logger) *View {
	return &View{
		source: source,
		logger: logger,
		window: DefaultWindow,
	}
}

func (v *View) Load(ctx context.Context) error {
	records, err := v.source.List(ctx)
	if err != nil {
		v.logger.Error("Dashboard fetch failed", zap.Error(err))
		return errors.Join(ErrFetchFailed, err)
	}
	v.records = records
	v.loaded = true
	return nil
}

func (v *View) Loaded() bool {
	return v.loaded
}

func (v *View) Records() []*models.Record {
	return v.records
}

func (v *View) Window() Window {
	return v.window
}

// SetWindow ignores values other than 7 and 30.
func (v *View) SetWindow(w Window) {
	if w.Valid() {
		v.window = w
	}
}

// SelectCategory sets the drill-down category; an empty name clears it.
func (v *View) SelectCategory(category string) {
	v.category = category
}

func (v *View) Summary(now time.Time) Summary {
	s := Summary{
		Totals:            ComputeTotals(v.records),
		ExpenseCategories: CategoryTotals(v.records, models.RecordTypeExpense),
		SavingsCategories: CategoryTotals(v.records, models.RecordTypeSavings),
		Window:            v.window,
		Trend:             Trend(v.records, int(v.window), now),
		Category:          v.category,
	}
	if v.category != "" {
		s.DrillDown = DrillDown(v.records, v.category)
	}
	return s
}
