package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"spendo/internal/dto"
	"spendo/internal/events"
	"spendo/internal/models"
	"spendo/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	events []events.RecordEvent
	err    error
}

func (n *recordingNotifier) RecordChanged(_ context.Context, e events.RecordEvent) error {
	n.events = append(n.events, e)
	return n.err
}

func newTestService(t *testing.T) (*RecordService, *repository.MemoryRecordRepository, *recordingNotifier) {
	t.Helper()
	repo := repository.NewMemoryRecordRepository()
	notifier := &recordingNotifier{}
	svc := NewRecordService(repo, notifier, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 10, 16, 8, 0, 0, 0, time.UTC) }
	return svc, repo, notifier
}

func strPtr(s string) *string { return &s }

func validCreate() *dto.CreateRecordRequest {
	return &dto.CreateRecordRequest{
		Title:       "  Coffee ",
		Type:        "expense",
		Date:        "2025-10-15",
		Category:    "food",
		Amount:      dto.NumberAmount(5),
		Description: strPtr("  flat white  "),
	}
}

func TestRecordService_CreateAndGet(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)
	assert.Equal(t, "Coffee", created.Title)
	assert.Equal(t, "flat white", created.Description)
	assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), created.Date)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Type, got.Type)
	assert.Equal(t, created.Category, got.Category)
	assert.Equal(t, created.Amount, got.Amount)
	assert.Equal(t, created.Description, got.Description)
	assert.True(t, created.Date.Equal(got.Date))

	require.Len(t, notifier.events, 1)
	assert.Equal(t, events.ActionCreated, notifier.events[0].Action)
	assert.Equal(t, created.ID.String(), notifier.events[0].RecordID)
}

func TestRecordService_CreateCoercesStringAmount(t *testing.T) {
	svc, _, _ := newTestService(t)
	req := validCreate()
	req.Amount = dto.Amount{Raw: "12.75", IsText: true}

	rec, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 12.75, rec.Amount)
}

func TestRecordService_CreateMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *dto.CreateRecordRequest)
	}{
		{"title", func(r *dto.CreateRecordRequest) { r.Title = "" }},
		{"type", func(r *dto.CreateRecordRequest) { r.Type = "" }},
		{"date", func(r *dto.CreateRecordRequest) { r.Date = "" }},
		{"category", func(r *dto.CreateRecordRequest) { r.Category = "" }},
		{"amount", func(r *dto.CreateRecordRequest) { r.Amount = dto.Amount{} }},
		{"zero amount", func(r *dto.CreateRecordRequest) { r.Amount = dto.NumberAmount(0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, notifier := newTestService(t)
			req := validCreate()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, ErrMissingFields)

			all, err := repo.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all)
			assert.Empty(t, notifier.events)
		})
	}
}

func TestRecordService_CreateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *dto.CreateRecordRequest)
		field  string
	}{
		{"negative amount", func(r *dto.CreateRecordRequest) { r.Amount = dto.NumberAmount(-2) }, "amount"},
		{"text amount", func(r *dto.CreateRecordRequest) { r.Amount = dto.Amount{Raw: "ten", IsText: true} }, "amount"},
		{"unknown type", func(r *dto.CreateRecordRequest) { r.Type = "income" }, "type"},
		{"bad date", func(r *dto.CreateRecordRequest) { r.Date = "yesterday" }, "date"},
		{"blank title", func(r *dto.CreateRecordRequest) { r.Title = "   " }, "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)
			req := validCreate()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req)
			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestRecordService_Update(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID.String(), &dto.UpdateRecordRequest{
		Title:  dto.Some(" Espresso "),
		Amount: dto.Some(dto.NumberAmount(7.5)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Espresso", updated.Title)
	assert.Equal(t, 7.5, updated.Amount)
	assert.Equal(t, "food", updated.Category)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	require.Len(t, notifier.events, 2)
	assert.Equal(t, events.ActionUpdated, notifier.events[1].Action)
}

func TestRecordService_UpdateNegativeAmountRejected(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID.String(), &dto.UpdateRecordRequest{Amount: dto.Some(dto.NumberAmount(-10))})
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "amount", verr.Field)

	stored, err := svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 5.0, stored.Amount)
}

func TestRecordService_UpdateUnknownType(t *testing.T) {
	svc, _, _ := newTestService(t)
	created, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID.String(), &dto.UpdateRecordRequest{Type: dto.Some("income")})
	var verr *models.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestRecordService_UpdateNullRequiredFieldRejected(t *testing.T) {
	for _, tc := range []struct {
		field string
		req   dto.UpdateRecordRequest
	}{
		{"title", dto.UpdateRecordRequest{Title: dto.Optional[string]{Set: true, Null: true}}},
		{"type", dto.UpdateRecordRequest{Type: dto.Optional[string]{Set: true, Null: true}}},
		{"date", dto.UpdateRecordRequest{Date: dto.Optional[string]{Set: true, Null: true}}},
		{"category", dto.UpdateRecordRequest{Category: dto.Optional[string]{Set: true, Null: true}}},
		{"amount", dto.UpdateRecordRequest{Amount: dto.Optional[dto.Amount]{Set: true, Null: true}}},
	} {
		t.Run(tc.field, func(t *testing.T) {
			svc, _, notifier := newTestService(t)
			ctx := context.Background()
			created, err := svc.Create(ctx, validCreate())
			require.NoError(t, err)

			_, err = svc.Update(ctx, created.ID.String(), &tc.req)
			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
			assert.Len(t, notifier.events, 1)

			stored, err := svc.GetByID(ctx, created.ID.String())
			require.NoError(t, err)
			assert.Equal(t, created.UpdatedAt, stored.UpdatedAt)
		})
	}
}

func TestRecordService_UpdateNullDescriptionClears(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	req := validCreate()
	req.Description = strPtr("beans")
	created, err := svc.Create(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "beans", created.Description)

	updated, err := svc.Update(ctx, created.ID.String(), &dto.UpdateRecordRequest{
		Description: dto.Optional[string]{Set: true, Null: true},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Description)
}

func TestRecordService_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	unknown := "6f1c1f36-2b4a-4a44-9a38-4b6f0e0f7b11"

	_, err := svc.GetByID(ctx, unknown)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	_, err = svc.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	_, err = svc.Update(ctx, unknown, &dto.UpdateRecordRequest{})
	assert.ErrorIs(t, err, ErrRecordNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, unknown), ErrRecordNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "nope"), ErrRecordNotFound)
}

func TestRecordService_DeleteThenGet(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID.String()))
	_, err = svc.GetByID(ctx, created.ID.String())
	assert.ErrorIs(t, err, ErrRecordNotFound)

	last := notifier.events[len(notifier.events)-1]
	assert.Equal(t, events.ActionDeleted, last.Action)
	assert.Nil(t, last.Record)
}

func TestRecordService_ListOrderedByDateDesc(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	for _, day := range []string{"2025-10-02", "2025-10-09", "2025-09-30", "2025-10-05"} {
		req := validCreate()
		req.Date = day
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].Date.After(list[i-1].Date))
	}
}

func TestRecordService_NotifierFailureIgnored(t *testing.T) {
	svc, _, notifier := newTestService(t)
	notifier.err = errors.New("broker down")

	_, err := svc.Create(context.Background(), validCreate())
	assert.NoError(t, err)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "abc", cleanText("  abc "))
	assert.Equal(t, "ab", cleanText("a\xffb"))
}
