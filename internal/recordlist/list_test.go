package recordlist

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"spendo/internal/dto"
	"spendo/internal/export"
	"spendo/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type fakeAPI struct {
	records   []*models.Record
	updates   map[string]*dto.UpdateRecordRequest
	deleted   []string
	updateErr error
	deleteErr error
}

func (f *fakeAPI) List(ctx context.Context) ([]*models.Record, error) {
	out := make([]*models.Record, len(f.records))
	for i, r := range f.records {
		cp := *r
		out[i] = &cp
	}
	return out, nil
}

func (f *fakeAPI) Update(ctx context.Context, id string, req *dto.UpdateRecordRequest) (*models.Record, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updates == nil {
		f.updates = make(map[string]*dto.UpdateRecordRequest)
	}
	f.updates[id] = req
	amount, err := req.Amount.Value.Float()
	if err != nil {
		return nil, err
	}
	date, err := models.ParseDate(req.Date.Value)
	if err != nil {
		return nil, err
	}
	return &models.Record{
		ID:          uuid.MustParse(id),
		Title:       req.Title.Value,
		Type:        models.RecordType(req.Type.Value),
		Date:        date,
		Category:    req.Category.Value,
		Amount:      amount,
		Description: req.Description.Value,
	}, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func record(title string, t models.RecordType, category string, amount float64, description string) *models.Record {
	return &models.Record{
		ID:          uuid.New(),
		Title:       title,
		Type:        t,
		Date:        time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		Category:    category,
		Amount:      amount,
		Description: description,
	}
}

func seededList(t *testing.T) (*List, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{records: []*models.Record{
		record("Coffee", models.RecordTypeExpense, "food", 4.5, ""),
		record("Seafood night", models.RecordTypeExpense, "entertainment", 60, ""),
		record("Bus pass", models.RecordTypeExpense, "transport", 25, "monthly"),
		record("Rainy day", models.RecordTypeSavings, "bank", 100, "Fund for FOOD emergencies"),
	}}
	l := New(api, zap.NewNop())
	require.NoError(t, l.Load(context.Background()))
	return l, api
}

func titles(records []*models.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Title
	}
	return out
}

func TestMatch(t *testing.T) {
	r := record("Coffee", models.RecordTypeExpense, "Food", 4.5, "Morning latte")

	for _, tc := range []struct {
		query string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"coffee", true},
		{" FOOD ", true},
		{"expense", true},
		{"latte", true},
		{"4.5", true},
		{".5", true},
		{"savings", false},
		{"4.50", false},
	} {
		assert.Equal(t, tc.want, Match(r, tc.query), "query %q", tc.query)
	}
}

func TestFiltered(t *testing.T) {
	l, _ := seededList(t)

	assert.Len(t, l.Filtered(), 4)

	l.Query = "food"
	assert.Equal(t, []string{"Coffee", "Seafood night", "Rainy day"}, titles(l.Filtered()))

	l.Query = "100"
	assert.Equal(t, []string{"Rainy day"}, titles(l.Filtered()))

	l.Query = "nothing matches"
	assert.Empty(t, l.Filtered())
}

func TestEditFlow(t *testing.T) {
	l, api := seededList(t)
	target := l.Records[2]
	id := target.ID.String()

	require.NoError(t, l.BeginEdit(id))
	assert.Equal(t, Draft{
		Title:       "Bus pass",
		Type:        "expense",
		Category:    "transport",
		Date:        "2025-10-15",
		Amount:      "25",
		Description: "monthly",
	}, l.Draft)

	assert.ErrorIs(t, l.BeginEdit(l.Records[0].ID.String()), ErrAlreadyEditing)

	require.NoError(t, l.SetDraft("amount", "27.5"))
	require.NoError(t, l.SetDraft("date", "2025-10-16"))
	assert.Error(t, l.SetDraft("colour", "blue"))

	updated, err := l.SaveEdit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 27.5, updated.Amount)

	req := api.updates[id]
	require.NotNil(t, req)
	assert.False(t, req.Amount.Value.IsText)
	assert.Equal(t, 27.5, req.Amount.Value.Number)
	assert.Equal(t, "Bus pass", req.Title.Value)

	assert.Same(t, updated, l.Records[2])
	assert.Empty(t, l.EditingID)
	assert.Equal(t, Draft{}, l.Draft)
}

func TestCancelEdit(t *testing.T) {
	l, api := seededList(t)
	require.NoError(t, l.BeginEdit(l.Records[0].ID.String()))
	require.NoError(t, l.SetDraft("title", "Tea"))

	l.CancelEdit()
	assert.Empty(t, l.EditingID)
	assert.Equal(t, "Coffee", l.Records[0].Title)
	assert.Empty(t, api.updates)

	assert.ErrorIs(t, l.SetDraft("title", "x"), ErrNotEditing)
	_, err := l.SaveEdit(context.Background())
	assert.ErrorIs(t, err, ErrNotEditing)
	assert.ErrorIs(t, l.BeginEdit(uuid.NewString()), ErrUnknownRecord)
}

func TestSaveEdit_ErrorKeepsDraft(t *testing.T) {
	l, api := seededList(t)
	api.updateErr = errors.New("server unavailable")
	id := l.Records[0].ID.String()

	require.NoError(t, l.BeginEdit(id))
	require.NoError(t, l.SetDraft("amount", "-1"))

	_, err := l.SaveEdit(context.Background())
	require.Error(t, err)
	assert.Equal(t, id, l.EditingID)
	assert.Equal(t, "-1", l.Draft.Amount)
	assert.Equal(t, 4.5, l.Records[0].Amount)
}

func TestDelete(t *testing.T) {
	l, api := seededList(t)
	id := l.Records[1].ID.String()

	require.NoError(t, l.Delete(context.Background(), id))
	assert.Equal(t, []string{id}, api.deleted)
	assert.Equal(t, []string{"Coffee", "Bus pass", "Rainy day"}, titles(l.Records))

	api.deleteErr = errors.New("not found")
	assert.Error(t, l.Delete(context.Background(), l.Records[0].ID.String()))
	assert.Len(t, l.Records, 3)
}

func TestExport_WritesFilteredRows(t *testing.T) {
	l, _ := seededList(t)
	l.Query = "food"

	var buf bytes.Buffer
	require.NoError(t, l.Export(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Coffee", rows[1][0])
	assert.Equal(t, "Seafood night", rows[2][0])
	assert.Equal(t, "Rainy day", rows[3][0])
}
