package recordform

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"spendo/internal/client"
	"spendo/internal/dto"
	"spendo/internal/models"

	"go.uber.org/zap"
)

const (
	MsgTitleRequired    = "Title is required."
	MsgCategoryRequired = "Category is required."
	MsgCategoryUnknown  = "Category is not offered for this record type."
	MsgDateRequired     = "Date is required."
	MsgAmountInvalid    = "Amount must be a positive number."
	MsgSubmitFailed     = "Error adding record. Check logs."
)

type RecordCreator interface {
	Create(ctx context.Context, req *dto.CreateRecordRequest) (*models.Record, error)
}

// Form is the add-record view state. Amount is kept as typed.
type Form struct {
	Tab         models.RecordType
	Title       string
	Description string
	Date        string
	Category    string
	Amount      string

	Message    string
	DevDetails string
	Submitting bool

	now    func() time.Time
	logger *zap.Logger
}

func New(logger *zap.Logger) *Form {
	return newForm(time.Now, logger)
}

func newForm(now func() time.Time, logger *zap.Logger) *Form {
	f := &Form{
		Tab:    models.RecordTypeExpense,
		now:    now,
		logger: logger,
	}
	f.Reset()
	return f
}

func (f *Form) today() string {
	return f.now().Format(models.DateLayout)
}

// Reset clears every field except the tab, and sets the date to today.
func (f *Form) Reset() {
	f.Title = ""
	f.Description = ""
	f.Date = f.today()
	f.Category = ""
	f.Amount = ""
}

// SwitchTab changes the record type and clears the category selection.
func (f *Form) SwitchTab(t models.RecordType) error {
	if !t.Valid() {
		return fmt.Errorf("unknown record type %q", t)
	}
	f.Tab = t
	f.Category = ""
	return nil
}

func (f *Form) Set(field, value string) error {
	switch field {
	case "title":
		f.Title = value
	case "description":
		f.Description = value
	case "date":
		f.Date = value
	case "category":
		f.Category = value
	case "amount":
		f.Amount = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// Validate checks the fields in display order and sets Message to the first
// problem found.
func (f *Form) Validate() error {
	msg := f.problem()
	f.Message = msg
	if msg != "" {
		return errors.New(msg)
	}
	return nil
}

func (f *Form) problem() string {
	if strings.TrimSpace(f.Title) == "" {
		return MsgTitleRequired
	}
	if f.Category == "" {
		return MsgCategoryRequired
	}
	if !HasCategory(f.Tab, f.Category) {
		return MsgCategoryUnknown
	}
	if f.Date == "" {
		return MsgDateRequired
	}
	if n, ok := f.amount(); !ok || n <= 0 {
		return MsgAmountInvalid
	}
	return ""
}

func (f *Form) amount() (float64, bool) {
	s := strings.TrimSpace(f.Amount)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// Payload builds the create request from the current fields.
func (f *Form) Payload() *dto.CreateRecordRequest {
	n, _ := f.amount()
	req := &dto.CreateRecordRequest{
		Title:    strings.TrimSpace(f.Title),
		Type:     string(f.Tab),
		Date:     f.Date,
		Category: f.Category,
		Amount:   dto.NumberAmount(n),
	}
	if d := strings.TrimSpace(f.Description); d != "" {
		req.Description = &d
	}
	return req
}

// Submit validates and, only if valid, creates the record. On success the
// form is reset and a confirmation is set; on failure the server's message
// is shown when there is one.
func (f *Form) Submit(ctx context.Context, creator RecordCreator) (*models.Record, error) {
	f.DevDetails = ""
	if err := f.Validate(); err != nil {
		return nil, err
	}

	f.Submitting = true
	defer func() { f.Submitting = false }()

	record, err := creator.Create(ctx, f.Payload())
	if err != nil {
		f.logger.Error("Submit failed", zap.String("type", string(f.Tab)), zap.Error(err))
		f.DevDetails = err.Error()
		f.Message = MsgSubmitFailed
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			f.Message = apiErr.Message
		}
		return nil, err
	}

	f.Reset()
	f.Message = successMessage(f.Tab)
	return record, nil
}

func successMessage(t models.RecordType) string {
	if t == models.RecordTypeSavings {
		return "Savings added successfully"
	}
	return "Expense added successfully"
}
