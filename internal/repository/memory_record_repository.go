package repository

import (
	"context"
	"sort"
	"sync"

	"spendo/internal/models"

	"github.com/google/uuid"
)

// MemoryRecordRepository keeps records in process memory. Used for local
// development (STORE_DRIVER=memory) and tests.
type MemoryRecordRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]models.Record
}

func NewMemoryRecordRepository() *MemoryRecordRepository {
	return &MemoryRecordRepository{records: make(map[uuid.UUID]models.Record)}
}

func (r *MemoryRecordRepository) List(_ context.Context) ([]*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Record, 0, len(r.records))
	for _, rec := range r.records {
		rec := rec
		out = append(out, &rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRecordRepository) Create(_ context.Context, rec *models.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ID] = *rec
	return nil
}

func (r *MemoryRecordRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &rec, nil
}

func (r *MemoryRecordRepository) Update(_ context.Context, rec *models.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.records[rec.ID]
	if !ok {
		return ErrRecordNotFound
	}
	updated := *rec
	updated.CreatedAt = existing.CreatedAt
	r.records[rec.ID] = updated
	return nil
}

func (r *MemoryRecordRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return ErrRecordNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *MemoryRecordRepository) Ping(context.Context) error {
	return nil
}
