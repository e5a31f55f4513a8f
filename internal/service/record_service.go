package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spendo/internal/dto"
	"spendo/internal/events"
	"spendo/internal/models"
	"spendo/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrMissingFields  = errors.New("all fields required")
	ErrRecordNotFound = repository.ErrRecordNotFound
)

type RecordService struct {
	repo     repository.RecordRepository
	notifier events.Notifier
	now      func() time.Time
	logger   *zap.Logger
}

func NewRecordService(repo repository.RecordRepository, notifier events.Notifier, logger *zap.Logger) *RecordService {
	if notifier == nil {
		notifier = events.Nop{}
	}
	return &RecordService{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
		logger:   logger,
	}
}

// List returns every record, newest date first.
func (s *RecordService) List(ctx context.Context) ([]*models.Record, error) {
	return s.repo.List(ctx)
}

// Create validates the request and persists a new record.
func (s *RecordService) Create(ctx context.Context, req *dto.CreateRecordRequest) (*models.Record, error) {
	// Only absent or empty fields count as missing here. Whitespace-only text
	// passes and is rejected by Validate after trimming, still as a 400.
	if req.Title == "" || req.Type == "" || req.Date == "" || req.Category == "" || !req.Amount.Present() {
		return nil, ErrMissingFields
	}

	amount, err := req.Amount.Float()
	if err != nil {
		return nil, &models.ValidationError{Field: "amount", Reason: err.Error()}
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, &models.ValidationError{Field: "date", Reason: err.Error()}
	}

	now := s.now().UTC()
	rec := &models.Record{
		ID:        uuid.New(),
		Title:     cleanText(req.Title),
		Type:      models.RecordType(req.Type),
		Date:      date,
		Category:  cleanText(req.Category),
		Amount:    amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Description != nil {
		rec.Description = cleanText(*req.Description)
	}
	rec.Normalize(now)

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}

	s.logger.Info("Record created",
		zap.String("record_id", rec.ID.String()),
		zap.String("type", string(rec.Type)),
	)
	s.notify(ctx, events.ActionCreated, rec.ID, rec)
	return rec, nil
}

// GetByID returns the record, or ErrRecordNotFound for unknown or malformed ids.
func (s *RecordService) GetByID(ctx context.Context, id string) (*models.Record, error) {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrRecordNotFound
	}
	return s.repo.GetByID(ctx, recordID)
}

// Update applies the present fields of req to the stored record and re-validates it.
// Concurrent updates are last-write-wins.
func (s *RecordService) Update(ctx context.Context, id string, req *dto.UpdateRecordRequest) (*models.Record, error) {
	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	nulls := []struct {
		field string
		null  bool
	}{
		{"title", req.Title.Null},
		{"type", req.Type.Null},
		{"date", req.Date.Null},
		{"category", req.Category.Null},
		{"amount", req.Amount.Null},
	}
	for _, n := range nulls {
		if n.null {
			return nil, &models.ValidationError{Field: n.field, Reason: fmt.Sprintf("Path `%s` is required.", n.field)}
		}
	}

	if req.Title.Set {
		rec.Title = cleanText(req.Title.Value)
	}
	if req.Type.Set {
		rec.Type = models.RecordType(req.Type.Value)
	}
	if req.Date.Set {
		date, err := models.ParseDate(req.Date.Value)
		if err != nil {
			return nil, &models.ValidationError{Field: "date", Reason: err.Error()}
		}
		rec.Date = date
	}
	if req.Category.Set {
		rec.Category = cleanText(req.Category.Value)
	}
	if req.Amount.Set {
		amount, err := req.Amount.Value.Float()
		if err != nil {
			return nil, &models.ValidationError{Field: "amount", Reason: err.Error()}
		}
		rec.Amount = amount
	}
	// A null description clears it.
	if req.Description.Set {
		rec.Description = cleanText(req.Description.Value)
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	rec.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update record: %w", err)
	}

	s.notify(ctx, events.ActionUpdated, rec.ID, rec)
	return rec, nil
}

// Delete removes the record, or returns ErrRecordNotFound.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return ErrRecordNotFound
	}
	if err := s.repo.Delete(ctx, recordID); err != nil {
		return err
	}

	s.logger.Info("Record deleted", zap.String("record_id", recordID.String()))
	s.notify(ctx, events.ActionDeleted, recordID, nil)
	return nil
}

// Ping reports whether the store is reachable.
func (s *RecordService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *RecordService) notify(ctx context.Context, action events.Action, id uuid.UUID, rec *models.Record) {
	event := events.RecordEvent{
		Action:     action,
		RecordID:   id.String(),
		OccurredAt: s.now().UTC(),
	}
	if rec != nil {
		resp := dto.NewRecordResponse(rec)
		event.Record = &resp
	}
	if err := s.notifier.RecordChanged(ctx, event); err != nil {
		s.logger.Warn("Failed to publish record event",
			zap.String("action", string(action)),
			zap.String("record_id", event.RecordID),
			zap.Error(err),
		)
	}
}
