package record

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// SupplyFields is the raw supply form.
type SupplyFields struct {
	Author   string `json:"author" yaml:"author"`
	Shift    string `json:"shift" yaml:"shift"`
	Unit     string `json:"unit" yaml:"unit"`
	Type     string `json:"type" yaml:"type"`
	Severity string `json:"severity" yaml:"severity"`
	Qty      string `json:"qty" yaml:"qty"`
	Notes    string `json:"notes" yaml:"notes"`
}

// CrashFields is the raw crash-cart form.
type CrashFields struct {
	CartType   string `json:"cart_type" yaml:"cart_type"`
	Location   string `json:"location" yaml:"location"`
	CartNumber string `json:"cart_number" yaml:"cart_number"`
	Reason     string `json:"reason" yaml:"reason"`
	CentralOld string `json:"central_old" yaml:"central_old"`
	CentralNew string `json:"central_new" yaml:"central_new"`
	MedOld     string `json:"med_old" yaml:"med_old"`
	MedNew     string `json:"med_new" yaml:"med_new"`
	CheckedBy  string `json:"checked_by" yaml:"checked_by"`
	Seal       string `json:"seal" yaml:"seal"`
	Notes      string `json:"notes" yaml:"notes"`
}

// Clean trims surrounding whitespace and NFC-normalizes s, so visually equal
// input (e.g. "ER – Main" typed on different keyboards) groups together.
func Clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NewSupply builds a supply record. Supply entries are never rejected. Each
// field is stored as Clean returns it: trimmed and NFC-normalized.
func NewSupply(f SupplyFields, id string, at time.Time) Record {
	return Record{
		ID:        id,
		Mode:      ModeSupply,
		Timestamp: at.UnixMilli(),
		Author:    Clean(f.Author),
		Shift:     Clean(f.Shift),
		Unit:      Clean(f.Unit),
		Type:      Clean(f.Type),
		Severity:  Severity(Clean(f.Severity)),
		Qty:       Clean(f.Qty),
		Notes:     Clean(f.Notes),
	}
}

// NewCrash builds a crash-cart record, or returns a *ValidationError when
// location, cart number, reason or checked-by is empty after cleaning. Like
// NewSupply it stores each field trimmed and NFC-normalized.
func NewCrash(f CrashFields, id string, at time.Time) (Record, error) {
	r := Record{
		ID:         id,
		Mode:       ModeCrash,
		Timestamp:  at.UnixMilli(),
		CartType:   Clean(f.CartType),
		Location:   Clean(f.Location),
		CartNumber: Clean(f.CartNumber),
		Reason:     Clean(f.Reason),
		CentralOld: Clean(f.CentralOld),
		CentralNew: Clean(f.CentralNew),
		MedOld:     Clean(f.MedOld),
		MedNew:     Clean(f.MedNew),
		CheckedBy:  Clean(f.CheckedBy),
		Seal:       Clean(f.Seal),
		Notes:      Clean(f.Notes),
	}

	var missing []string
	if r.Location == "" {
		missing = append(missing, "location")
	}
	if r.CartNumber == "" {
		missing = append(missing, "cart number")
	}
	if r.Reason == "" {
		missing = append(missing, "reason")
	}
	if r.CheckedBy == "" {
		missing = append(missing, "checked by")
	}
	if len(missing) > 0 {
		return Record{}, &ValidationError{Mode: ModeCrash, Missing: missing}
	}
	return r, nil
}
