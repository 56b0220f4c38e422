package duckdb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_BootsSchema(t *testing.T) {
	db, err := NewDB(Settings{DbPath: InMemory})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(
		`INSERT INTO assessments (id, file_name, source_format, document) VALUES (?, ?, ?, ?)`,
		"a-1", "rhel.xml", "xccdf", `{}`,
	)
	require.NoError(t, err)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM assessments WHERE id = ?", "a-1").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = db.QueryRow("SELECT COUNT(*) FROM annotations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestNewDB_File(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "duckdb-test-*")
	require.NoError(t, err)

	defer func() {
		err := os.RemoveAll(tmpDir)
		if err != nil {
			t.Errorf("failed to cleanup test directory: %v", err)
		}
	}()

	db, err := NewDB(Settings{DbPath: filepath.Join(tmpDir, "test.db")})
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		err := db.Close()
		if err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	require.NoError(t, db.Ping())
}

func TestInTransaction(t *testing.T) {
	db, err := NewDB(Settings{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	insert := func(ctx context.Context, id string) error {
		_, err := Conn(ctx, db).ExecContext(ctx,
			`INSERT INTO assessments (id, file_name, source_format, document) VALUES (?, 'f', 'ckl', '{}')`, id)
		return err
	}
	count := func() int {
		var n int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM assessments").Scan(&n))
		return n
	}

	t.Run("commit", func(t *testing.T) {
		err := InTransaction(ctx, db, func(ctx context.Context) error {
			assert.NotNil(t, GetTransaction(ctx))
			return insert(ctx, "committed")
		})
		require.NoError(t, err)
		assert.Equal(t, 1, count())
	})

	t.Run("rollback", func(t *testing.T) {
		boom := errors.New("boom")
		err := InTransaction(ctx, db, func(ctx context.Context) error {
			require.NoError(t, insert(ctx, "rolled-back"))
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, count())
	})
}
