package repository

import (
	"context"
	"errors"
	"fmt"

	"spendo/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PostgresRecordRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresRecordRepository(db *pgxpool.Pool, logger *zap.Logger) *PostgresRecordRepository {
	return &PostgresRecordRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresRecordRepository) List(ctx context.Context) ([]*models.Record, error) {
	query := squirrel.Select(recordColumns...).
		From(recordsTable).
		OrderBy("date DESC", "created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := make([]*models.Record, 0)
	for rows.Next() {
		var rec models.Record
		if err := rows.Scan(
			&rec.ID, &rec.Title, &rec.Type, &rec.Date, &rec.Category, &rec.Amount, &rec.Description, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

func (r *PostgresRecordRepository) Create(ctx context.Context, rec *models.Record) error {
	query := squirrel.Insert(recordsTable).
		Columns(recordColumns...).
		Values(rec.ID, rec.Title, rec.Type, rec.Date, rec.Category, rec.Amount, rec.Description, rec.CreatedAt, rec.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (r *PostgresRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Record, error) {
	query := squirrel.Select(recordColumns...).
		From(recordsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var rec models.Record
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&rec.ID, &rec.Title, &rec.Type, &rec.Date, &rec.Category, &rec.Amount, &rec.Description, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}

	return &rec, nil
}

func (r *PostgresRecordRepository) Update(ctx context.Context, rec *models.Record) error {
	query := squirrel.Update(recordsTable).
		Set("title", rec.Title).
		Set("type", rec.Type).
		Set("date", rec.Date).
		Set("category", rec.Category).
		Set("amount", rec.Amount).
		Set("description", rec.Description).
		Set("updated_at", rec.UpdatedAt).
		Where(squirrel.Eq{"id": rec.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *PostgresRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete(recordsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *PostgresRecordRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
