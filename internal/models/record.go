package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type RecordType string

const (
	RecordTypeExpense RecordType = "expense"
	RecordTypeSavings RecordType = "savings"
)

// DefaultRecordType is applied by the store when a record has no type.
const DefaultRecordType = RecordTypeExpense

func (t RecordType) Valid() bool {
	return t == RecordTypeExpense || t == RecordTypeSavings
}

// Record is one expense or savings transaction.
type Record struct {
	ID          uuid.UUID  `db:"id"`
	Title       string     `db:"title"`
	Type        RecordType `db:"type"`
	Date        time.Time  `db:"date"`
	Category    string     `db:"category"`
	Amount      float64    `db:"amount"`
	Description string     `db:"description"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// ValidationError reports a record that breaks a store-level constraint.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Normalize trims text fields, applies defaults and truncates Date to its calendar day.
func (r *Record) Normalize(now time.Time) {
	r.Title = strings.TrimSpace(r.Title)
	r.Category = strings.TrimSpace(r.Category)
	r.Description = strings.TrimSpace(r.Description)
	if r.Type == "" {
		r.Type = DefaultRecordType
	}
	if r.Date.IsZero() {
		r.Date = now
	}
	r.Date = CalendarDay(r.Date)
}

// Validate checks the constraints every stored record must satisfy.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return &ValidationError{Field: "title", Reason: "Path `title` is required."}
	}
	if !r.Type.Valid() {
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("`%s` is not a valid enum value for path `type`.", r.Type)}
	}
	if r.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "Path `date` is required."}
	}
	if strings.TrimSpace(r.Category) == "" {
		return &ValidationError{Field: "category", Reason: "Path `category` is required."}
	}
	if math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
		return &ValidationError{Field: "amount", Reason: "Amount must be a finite number"}
	}
	if r.Amount < 0 {
		return &ValidationError{Field: "amount", Reason: "Amount must be positive"}
	}
	return nil
}

const DateLayout = "2006-01-02"

// CalendarDay returns UTC midnight of the UTC calendar day containing t.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or RFC 3339 and returns the calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return CalendarDay(t), nil
}
