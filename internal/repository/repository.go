package repository

import (
	"context"
	"errors"

	"spendo/internal/models"

	"github.com/google/uuid"
)

var ErrRecordNotFound = errors.New("record not found")

// RecordRepository persists transaction records. Implementations are safe for
// concurrent use; Update overwrites the stored row (last write wins).
type RecordRepository interface {
	List(ctx context.Context) ([]*models.Record, error)
	Create(ctx context.Context, record *models.Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Record, error)
	Update(ctx context.Context, record *models.Record) error
	Delete(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}

const recordsTable = "records"

var recordColumns = []string{
	"id", "title", "type", "date", "category", "amount", "description", "created_at", "updated_at",
}
