package video

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/janhq/vimeo-storage/internal/domain/library"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS videos (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	reference TEXT NOT NULL UNIQUE,
	bytes INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);`

// SQLiteRepository persists saved references in a local SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

var _ library.Repository = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens path and creates the videos table if needed.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create videos table: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Create(ctx context.Context, record *library.Record) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO videos (id, title, reference, bytes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, record.Title, record.Reference, record.Bytes, record.CreatedAt.UTC(), record.UpdatedAt.UTC(),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("video record %s already exists: %w", record.Reference, err)
		}
		return fmt.Errorf("sqlite insert failed: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*library.Record, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, reference, bytes, created_at, updated_at FROM videos WHERE id = ?`, id)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, library.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get video record: %w", err)
	}
	return record, nil
}

// List returns every record, newest first.
func (r *SQLiteRepository) List(ctx context.Context) ([]library.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, reference, bytes, created_at, updated_at FROM videos ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list video records: %w", err)
	}
	defer rows.Close()

	records := make([]library.Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video record: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete video record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete video record: %w", err)
	}
	if affected == 0 {
		return library.ErrRecordNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*library.Record, error) {
	var (
		record               library.Record
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&record.ID, &record.Title, &record.Reference, &record.Bytes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	record.CreatedAt = createdAt.UTC()
	record.UpdatedAt = updatedAt.UTC()
	return &record, nil
}
