package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/theaarondumas/unitflow/internal/record"
)

var baseTime = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

// createTestStore creates a new temp-dir store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSupply creates a supply record offset minutes after baseTime.
func createTestSupply(id string, minutes int, notes string) record.Record {
	return record.NewSupply(record.SupplyFields{
		Author:   "Dana",
		Type:     record.DefaultSupplyType,
		Severity: string(record.SeverityLow),
		Notes:    notes,
	}, id, baseTime.Add(time.Duration(minutes)*time.Minute))
}

// createTestCrash creates a crash record offset minutes after baseTime.
func createTestCrash(t *testing.T, id string, minutes int, centralNew, medNew string) record.Record {
	t.Helper()
	r, err := record.NewCrash(record.CrashFields{
		CartType:   "Adult",
		Location:   "ER – Main",
		CartNumber: "12",
		Reason:     record.ReasonExpirationSwap,
		CentralNew: centralNew,
		MedNew:     medNew,
		CheckedBy:  "Lee",
	}, id, baseTime.Add(time.Duration(minutes)*time.Minute))
	if err != nil {
		t.Fatalf("NewCrash() failed: %v", err)
	}
	return r
}
