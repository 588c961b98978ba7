package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/theaarondumas/unitflow/internal/record"
)

// All returns every stored record.
//
// Rows come back in insertion order, but callers must not rely on it: sort
// by Timestamp explicitly. Rows whose payload cannot be decoded are skipped
// with a warning.
//
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) All(ctx context.Context) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, payload
		FROM records
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []record.Record{}
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r, ok := record.Decode([]byte(payload))
		if !ok || r.ID != id {
			slog.Warn("skipping malformed record", "id", id)
			continue
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

// ByIDs returns the stored records whose id is in ids. Unknown ids are
// ignored. Order follows insertion.
func (s *Store) ByIDs(ctx context.Context, ids map[string]bool) ([]record.Record, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]record.Record, 0, len(ids))
	for _, r := range all {
		if ids[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}

// Count returns the number of stored rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Author returns the saved author / checked-by name, or "" if none.
func (s *Store) Author(ctx context.Context) (string, error) {
	var name string
	ok, err := s.getSetting(ctx, settingAuthor, &name)
	if err != nil || !ok {
		return "", err
	}
	return record.Clean(name), nil
}

// Locations returns the saved location list, falling back to
// record.DefaultLocations when none is saved, the list is empty, or the
// stored value is malformed.
func (s *Store) Locations(ctx context.Context) ([]string, error) {
	var locs []string
	ok, err := s.getSetting(ctx, settingLocations, &locs)
	if err != nil {
		return nil, err
	}
	if !ok || len(locs) == 0 {
		return append([]string(nil), record.DefaultLocations...), nil
	}
	return locs, nil
}

// getSetting decodes a setting into dst. ok is false when the key is absent
// or its value is malformed.
func (s *Store) getSetting(ctx context.Context, key string, dst any) (ok bool, err error) {
	var raw string
	err = s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read setting %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		slog.Warn("ignoring malformed setting", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}
