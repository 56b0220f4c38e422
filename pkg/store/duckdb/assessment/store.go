package assessment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/softservesoftware/stig-bee/pkg/models/store"
	"github.com/softservesoftware/stig-bee/pkg/store/duckdb"
)

// Store keeps uploaded assessments for the lifetime of a session.
type Store interface {
	Create(ctx context.Context, a *store.Assessment) error
	Get(ctx context.Context, id string) (*store.Assessment, error)
	UpdateDocument(ctx context.Context, id string, document []byte, at time.Time) error
	// Touch records activity on the session without changing its document.
	Touch(ctx context.Context, id string, at time.Time) error
	// ListIdle returns the ids of assessments last updated before the cutoff,
	// oldest first.
	ListIdle(ctx context.Context, before time.Time) ([]string, error)
	Delete(ctx context.Context, id string) error
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{
		db: db,
	}, nil
}

func (s *defaultStore) Create(ctx context.Context, a *store.Assessment) error {
	query := `
		INSERT INTO assessments (id, file_name, source_format, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, query,
		a.ID,
		a.FileName,
		a.SourceFormat,
		string(a.Document),
		a.CreatedAt,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

func (s *defaultStore) Get(ctx context.Context, id string) (*store.Assessment, error) {
	query := `
		SELECT id, file_name, source_format, document, created_at, updated_at
		FROM assessments
		WHERE id = ?`

	var (
		a        store.Assessment
		document string
	)
	err := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.FileName,
		&a.SourceFormat,
		&document,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("assessment %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	a.Document = []byte(document)
	return &a, nil
}

func (s *defaultStore) UpdateDocument(ctx context.Context, id string, document []byte, at time.Time) error {
	query := `UPDATE assessments SET document = ?, updated_at = ? WHERE id = ?`

	res, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, query, string(document), at, id)
	if err != nil {
		return fmt.Errorf("update assessment: %w", err)
	}
	return expectRow(res, id)
}

func (s *defaultStore) Touch(ctx context.Context, id string, at time.Time) error {
	res, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, `UPDATE assessments SET updated_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return fmt.Errorf("touch assessment: %w", err)
	}
	return expectRow(res, id)
}

func (s *defaultStore) ListIdle(ctx context.Context, before time.Time) ([]string, error) {
	query := `SELECT id FROM assessments WHERE updated_at < ? ORDER BY updated_at, id`

	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("list idle assessments: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan assessment id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *defaultStore) Delete(ctx context.Context, id string) error {
	res, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, `DELETE FROM assessments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete assessment: %w", err)
	}
	return expectRow(res, id)
}

func expectRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("assessment %s: %w", id, store.ErrNotFound)
	}
	return nil
}
