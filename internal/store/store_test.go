package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_ReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unitflow.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.FileExists(t, path)
	require.NoError(t, s.Append(ctx, createTestSupply("rec-001", 0, "gloves")))
	require.NoError(t, s.Close())

	// Reopening runs the schema again; it must not touch existing rows.
	for i := 0; i < 2; i++ {
		s, err = Open(path)
		require.NoError(t, err)
		all, err := s.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "rec-001", all[0].ID)
		require.NoError(t, s.Close())
	}
}

func TestOpen_UnwritableDirectory(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "unitflow.db"))
	assert.Error(t, err)
}

func TestClose_ZeroStore(t *testing.T) {
	var s Store
	assert.NoError(t, s.Close())
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)
	require.NoError(t, s.db.Ping())

	want := map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1",
		"busy_timeout": "5000",
	}
	for name, value := range want {
		got, err := s.pragma(name)
		require.NoError(t, err, name)
		assert.Equal(t, value, got, name)
	}

	capped, err := Open(filepath.Join(t.TempDir(), "capped.db"), WithMaxPageCount(64))
	require.NoError(t, err)
	defer capped.Close()
	got, err := capped.pragma("max_page_count")
	require.NoError(t, err)
	assert.Equal(t, "64", got)
}

func TestSchema(t *testing.T) {
	s := createTestStore(t)

	columns := func(table string) []string {
		rows, err := s.db.Query("SELECT name FROM pragma_table_info(?)", table)
		require.NoError(t, err)
		defer rows.Close()
		var names []string
		for rows.Next() {
			var name string
			require.NoError(t, rows.Scan(&name))
			names = append(names, name)
		}
		require.NoError(t, rows.Err())
		return names
	}

	assert.Equal(t, []string{"seq", "id", "mode", "ts", "payload"}, columns("records"))
	assert.Equal(t, []string{"key", "value"}, columns("settings"))

	var index string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = 'records' AND name = 'idx_records_mode_ts'",
	).Scan(&index)
	require.NoError(t, err, "mode/ts index backs the scoped list queries")
}
