package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

// InMemory keeps sessions in process memory only.
const InMemory = ":memory:"

const AssessmentsTableSchema = `
	CREATE TABLE IF NOT EXISTS assessments (
		id VARCHAR NOT NULL PRIMARY KEY,
		file_name VARCHAR NOT NULL,
		source_format VARCHAR NOT NULL,
		document VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

const AnnotationsTableSchema = `
	CREATE TABLE IF NOT EXISTS annotations (
		assessment_id VARCHAR NOT NULL,
		finding_id VARCHAR NOT NULL,
		status VARCHAR NULL,
		finding_details VARCHAR NULL,
		comments VARCHAR NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (assessment_id, finding_id)
	);
`

var bootQueries = []string{
	AssessmentsTableSchema,
	AnnotationsTableSchema,
}

type Settings struct {
	DbPath  string
	Threads int
}

func NewDB(settings Settings) (*sql.DB, error) {
	if settings.DbPath == "" {
		settings.DbPath = InMemory
	}
	if settings.Threads <= 0 {
		settings.Threads = 4
	}

	dsn := fmt.Sprintf("%s?threads=%d", settings.DbPath, settings.Threads)
	c, err := duckdb.NewConnector(dsn, func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// connections opened from one connector share the database, so an
	// in-memory store is visible to the whole pool
	return sql.OpenDB(c), nil
}
