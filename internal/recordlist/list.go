package recordlist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"spendo/internal/dto"
	"spendo/internal/export"
	"spendo/internal/models"

	"go.uber.org/zap"
)

var (
	ErrNotEditing     = errors.New("no record is being edited")
	ErrUnknownRecord  = errors.New("record not in list")
	ErrAlreadyEditing = errors.New("another record is being edited")
)

type RecordAPI interface {
	List(ctx context.Context) ([]*models.Record, error)
	Update(ctx context.Context, id string, req *dto.UpdateRecordRequest) (*models.Record, error)
	Delete(ctx context.Context, id string) error
}

// Draft is the scratch copy edited in place; every field is kept as text.
type Draft struct {
	Title       string
	Type        string
	Category    string
	Date        string
	Amount      string
	Description string
}

// Match reports whether any searchable field of r contains query, ignoring
// case. An empty query matches everything.
func Match(r *models.Record, query string) bool {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return true
	}
	for _, field := range []string{r.Title, r.Category, string(r.Type), r.Description} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return strings.Contains(formatAmount(r.Amount), term)
}

func formatAmount(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// List is the record list view state.
type List struct {
	Records   []*models.Record
	Query     string
	EditingID string
	Draft     Draft

	api    RecordAPI
	logger *zap.Logger
}

func New(api RecordAPI, logger *zap.Logger) *List {
	return &List{api: api, logger: logger}
}

func (l *List) Load(ctx context.Context) error {
	records, err := l.api.List(ctx)
	if err != nil {
		l.logger.Error("Error fetching records", zap.Error(err))
		return err
	}
	l.Records = records
	return nil
}

// Filtered returns the records matching Query, in list order.
func (l *List) Filtered() []*models.Record {
	out := make([]*models.Record, 0, len(l.Records))
	for _, r := range l.Records {
		if Match(r, l.Query) {
			out = append(out, r)
		}
	}
	return out
}

func (l *List) find(id string) int {
	for i, r := range l.Records {
		if r.ID.String() == id {
			return i
		}
	}
	return -1
}

// BeginEdit seeds the draft from the record with the given id.
func (l *List) BeginEdit(id string) error {
	if l.EditingID != "" && l.EditingID != id {
		return ErrAlreadyEditing
	}
	i := l.find(id)
	if i < 0 {
		return ErrUnknownRecord
	}
	r := l.Records[i]
	l.EditingID = id
	l.Draft = Draft{
		Title:       r.Title,
		Type:        string(r.Type),
		Category:    r.Category,
		Date:        r.Date.UTC().Format(models.DateLayout),
		Amount:      formatAmount(r.Amount),
		Description: r.Description,
	}
	return nil
}

func (l *List) SetDraft(field, value string) error {
	if l.EditingID == "" {
		return ErrNotEditing
	}
	switch field {
	case "title":
		l.Draft.Title = value
	case "type":
		l.Draft.Type = value
	case "category":
		l.Draft.Category = value
	case "date":
		l.Draft.Date = value
	case "amount":
		l.Draft.Amount = value
	case "description":
		l.Draft.Description = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// CancelEdit discards the draft without contacting the server.
func (l *List) CancelEdit() {
	l.EditingID = ""
	l.Draft = Draft{}
}

// SaveEdit sends the whole draft as an update and replaces the local record
// with the server's copy. On failure the edit stays open.
func (l *List) SaveEdit(ctx context.Context) (*models.Record, error) {
	if l.EditingID == "" {
		return nil, ErrNotEditing
	}

	req := l.Draft.request()
	updated, err := l.api.Update(ctx, l.EditingID, req)
	if err != nil {
		l.logger.Error("Error updating record", zap.String("id", l.EditingID), zap.Error(err))
		return nil, err
	}

	if i := l.find(l.EditingID); i >= 0 {
		l.Records[i] = updated
	}
	l.CancelEdit()
	return updated, nil
}

func (d Draft) request() *dto.UpdateRecordRequest {
	amount := dto.Amount{Raw: d.Amount, IsText: true}
	if n, err := strconv.ParseFloat(strings.TrimSpace(d.Amount), 64); err == nil {
		amount = dto.NumberAmount(n)
	}
	return &dto.UpdateRecordRequest{
		Title:       dto.Some(d.Title),
		Type:        dto.Some(d.Type),
		Category:    dto.Some(d.Category),
		Date:        dto.Some(d.Date),
		Amount:      dto.Some(amount),
		Description: dto.Some(d.Description),
	}
}

// Delete removes the record locally once the server confirms.
func (l *List) Delete(ctx context.Context, id string) error {
	if err := l.api.Delete(ctx, id); err != nil {
		l.logger.Error("Error deleting record", zap.String("id", id), zap.Error(err))
		return err
	}
	if i := l.find(id); i >= 0 {
		l.Records = append(l.Records[:i], l.Records[i+1:]...)
	}
	if l.EditingID == id {
		l.CancelEdit()
	}
	return nil
}

// Export writes exactly the currently filtered records as a spreadsheet.
func (l *List) Export(w io.Writer) error {
	return export.WriteXLSX(w, l.Filtered())
}
