package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"spendo/internal/models"

	"github.com/google/uuid"
)

// Amount accepts a JSON number or a numeric string, the way form inputs send it.
type Amount struct {
	Raw    string
	Number float64
	IsText bool
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount{Raw: s, IsText: true}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a number: %w", err)
	}
	*a = Amount{Raw: string(data), Number: n}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if a.IsText {
		return json.Marshal(a.Raw)
	}
	return json.Marshal(a.Number)
}

// Present reports whether the amount counts as given: a non-zero number or a
// non-empty string.
func (a Amount) Present() bool {
	if a.IsText {
		return a.Raw != ""
	}
	return a.Number != 0
}

// Float coerces the amount to a number.
func (a Amount) Float() (float64, error) {
	if !a.IsText {
		return a.Number, nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(a.Raw), 64)
	if err != nil {
		return 0, fmt.Errorf("cast to number failed for value %q", a.Raw)
	}
	return n, nil
}

func NumberAmount(n float64) Amount {
	return Amount{Raw: strconv.FormatFloat(n, 'f', -1, 64), Number: n}
}

type CreateRecordRequest struct {
	Title       string  `json:"title"`
	Type        string  `json:"type"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Amount      Amount  `json:"amount"`
	Description *string `json:"description,omitempty"`
}

// Optional tells an absent key apart from an explicit null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Null = true
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// IsZero lets omitzero drop fields that were never set.
func (o Optional[T]) IsZero() bool {
	return !o.Set
}

// UpdateRecordRequest carries a partial field set. Absent fields are left
// unchanged; null is applied and then validated like any other value.
type UpdateRecordRequest struct {
	Title       Optional[string] `json:"title,omitzero"`
	Type        Optional[string] `json:"type,omitzero"`
	Date        Optional[string] `json:"date,omitzero"`
	Category    Optional[string] `json:"category,omitzero"`
	Amount      Optional[Amount] `json:"amount,omitzero"`
	Description Optional[string] `json:"description,omitzero"`
}

type RecordResponse struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func NewRecordResponse(r *models.Record) RecordResponse {
	return RecordResponse{
		ID:          r.ID.String(),
		Title:       r.Title,
		Type:        string(r.Type),
		Date:        r.Date.UTC(),
		Category:    r.Category,
		Amount:      r.Amount,
		Description: r.Description,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

func NewRecordResponses(records []*models.Record) []RecordResponse {
	out := make([]RecordResponse, len(records))
	for i, r := range records {
		out[i] = NewRecordResponse(r)
	}
	return out
}

// ToModel converts a decoded API record back into the domain type.
func (r RecordResponse) ToModel() (*models.Record, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid record id %q: %w", r.ID, err)
	}
	return &models.Record{
		ID:          id,
		Title:       r.Title,
		Type:        models.RecordType(r.Type),
		Date:        r.Date,
		Category:    r.Category,
		Amount:      r.Amount,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}
