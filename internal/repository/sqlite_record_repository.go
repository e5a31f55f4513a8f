package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"spendo/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fixed-width UTC layout so that text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRecordRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewSQLiteRecordRepository(db *sql.DB, logger *zap.Logger) *SQLiteRecordRepository {
	return &SQLiteRecordRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SQLiteRecordRepository) List(ctx context.Context) ([]*models.Record, error) {
	query := squirrel.Select(recordColumns...).
		From(recordsTable).
		OrderBy("date DESC", "created_at DESC").
		PlaceholderFormat(squirrel.Question)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := make([]*models.Record, 0)
	for rows.Next() {
		rec, err := scanSQLiteRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *SQLiteRecordRepository) Create(ctx context.Context, rec *models.Record) error {
	query := squirrel.Insert(recordsTable).
		Columns(recordColumns...).
		Values(
			rec.ID.String(), rec.Title, string(rec.Type), rec.Date.UTC().Format(models.DateLayout), rec.Category,
			rec.Amount, rec.Description, formatSQLiteTime(rec.CreatedAt), formatSQLiteTime(rec.UpdatedAt),
		).
		PlaceholderFormat(squirrel.Question)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (r *SQLiteRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Record, error) {
	query := squirrel.Select(recordColumns...).
		From(recordsTable).
		Where(squirrel.Eq{"id": id.String()}).
		PlaceholderFormat(squirrel.Question)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rec, err := scanSQLiteRecord(r.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRecordRepository) Update(ctx context.Context, rec *models.Record) error {
	query := squirrel.Update(recordsTable).
		Set("title", rec.Title).
		Set("type", string(rec.Type)).
		Set("date", rec.Date.UTC().Format(models.DateLayout)).
		Set("category", rec.Category).
		Set("amount", rec.Amount).
		Set("description", rec.Description).
		Set("updated_at", formatSQLiteTime(rec.UpdatedAt)).
		Where(squirrel.Eq{"id": rec.ID.String()}).
		PlaceholderFormat(squirrel.Question)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return expectOneRow(res)
}

func (r *SQLiteRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete(recordsTable).
		Where(squirrel.Eq{"id": id.String()}).
		PlaceholderFormat(squirrel.Question)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return expectOneRow(res)
}

func (r *SQLiteRecordRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRecord(row rowScanner) (*models.Record, error) {
	var (
		rec                         models.Record
		id, recType                 string
		date, createdAt, updatedAt string
	)
	if err := row.Scan(&id, &rec.Title, &recType, &date, &rec.Category, &rec.Amount, &rec.Description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if rec.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse id %q: %w", id, err)
	}
	rec.Type = models.RecordType(recType)
	if rec.Date, err = time.Parse(models.DateLayout, date); err != nil {
		return nil, fmt.Errorf("parse date %q: %w", date, err)
	}
	if rec.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if rec.UpdatedAt, err = time.Parse(sqliteTimeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at %q: %w", updatedAt, err)
	}
	return &rec, nil
}

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}
