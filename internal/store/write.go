package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/theaarondumas/unitflow/internal/record"
)

const (
	settingAuthor    = "author"
	settingLocations = "locations"
)

// Append inserts a record. The record must satisfy record.Valid.
//
// Any rejection by the database (duplicate id, full quota, closed store) is
// returned as a *StorageError and leaves the collection unchanged.
func (s *Store) Append(ctx context.Context, r record.Record) error {
	if !r.Valid() {
		return fmt.Errorf("append: record %q violates the record invariants", r.ID)
	}

	payload, err := record.Encode(r)
	if err != nil {
		return fmt.Errorf("append: encode: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (id, mode, ts, payload)
		VALUES (?, ?, ?, ?)
	`,
		r.ID,
		string(r.Mode),
		r.Timestamp,
		string(payload),
	)
	if err != nil {
		return &StorageError{Op: "append", Err: err}
	}

	return nil
}

// AppendAll inserts records in a single transaction: either all of them are
// stored or none are.
func (s *Store) AppendAll(ctx context.Context, records []record.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "append all: begin tx", Err: err}
	}
	defer tx.Rollback() // No-op if committed

	for _, r := range records {
		if !r.Valid() {
			return fmt.Errorf("append all: record %q violates the record invariants", r.ID)
		}
		payload, err := record.Encode(r)
		if err != nil {
			return fmt.Errorf("append all: encode: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO records (id, mode, ts, payload)
			VALUES (?, ?, ?, ?)
		`, r.ID, string(r.Mode), r.Timestamp, string(payload)); err != nil {
			return &StorageError{Op: "append all", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "append all: commit", Err: err}
	}
	return nil
}

// Clear removes every record unconditionally. Settings are kept.
// This cannot be undone.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return &StorageError{Op: "clear", Err: err}
	}
	return nil
}

// SaveAuthor stores the author / checked-by name used to prefill forms.
func (s *Store) SaveAuthor(ctx context.Context, name string) error {
	return s.putSetting(ctx, "save author", settingAuthor, record.Clean(name))
}

// SaveLocations stores the ordered crash-cart location list. Blank entries
// are dropped; an empty list restores the defaults on read.
func (s *Store) SaveLocations(ctx context.Context, locations []string) error {
	cleaned := make([]string, 0, len(locations))
	for _, l := range locations {
		if c := record.Clean(l); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return s.putSetting(ctx, "save locations", settingLocations, cleaned)
}

func (s *Store) putSetting(ctx context.Context, op, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, string(data))
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}
	return nil
}
