package annotation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/softservesoftware/stig-bee/pkg/models/store"
	"github.com/softservesoftware/stig-bee/pkg/store/duckdb"
)

// Store keeps reviewer annotations keyed by (assessment, finding).
type Store interface {
	// Upsert writes the set fields of a. A nil field is stored as NULL on
	// insert and leaves the stored value alone on update, so writers touching
	// different fields of one finding do not overwrite each other.
	Upsert(ctx context.Context, a *store.Annotation) error
	List(ctx context.Context, assessmentID string) ([]store.Annotation, error)
	DeleteAll(ctx context.Context, assessmentID string) error
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

func (s *defaultStore) Upsert(ctx context.Context, a *store.Annotation) error {
	query := `
		INSERT INTO annotations (assessment_id, finding_id, status, finding_details, comments, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (assessment_id, finding_id) DO UPDATE SET
			status = COALESCE(excluded.status, status),
			finding_details = COALESCE(excluded.finding_details, finding_details),
			comments = COALESCE(excluded.comments, comments),
			updated_at = excluded.updated_at`

	_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, query,
		a.AssessmentID,
		a.FindingID,
		nullable(a.Status),
		nullable(a.FindingDetails),
		nullable(a.Comments),
	)
	if err != nil {
		return fmt.Errorf("upsert annotation: %w", err)
	}
	return nil
}

func (s *defaultStore) List(ctx context.Context, assessmentID string) ([]store.Annotation, error) {
	query := `
		SELECT finding_id, status, finding_details, comments, updated_at
		FROM annotations
		WHERE assessment_id = ?
		ORDER BY finding_id`

	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, query, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("query annotations: %w", err)
	}
	defer rows.Close()

	out := make([]store.Annotation, 0)
	for rows.Next() {
		var (
			a                         store.Annotation
			status, details, comments sql.NullString
		)
		if err := rows.Scan(&a.FindingID, &status, &details, &comments, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan annotation: %w", err)
		}
		a.AssessmentID = assessmentID
		a.Status = fromNull(status)
		a.FindingDetails = fromNull(details)
		a.Comments = fromNull(comments)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate annotations: %w", err)
	}
	return out, nil
}

func (s *defaultStore) DeleteAll(ctx context.Context, assessmentID string) error {
	_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, `DELETE FROM annotations WHERE assessment_id = ?`, assessmentID)
	if err != nil {
		return fmt.Errorf("delete annotations: %w", err)
	}
	return nil
}

// nullable binds a nil pointer as NULL.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
