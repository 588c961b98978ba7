package record

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// flexString decodes a JSON string, number or null into a string. The
// browser form stored qty either way.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// legacyRecord mirrors the persisted JSON layout loosely: every field is
// optional and qty may be numeric.
type legacyRecord struct {
	ID         string      `json:"id"`
	Mode       string      `json:"mode"`
	TS         json.Number `json:"ts"`
	Author     string      `json:"author"`
	Shift      string      `json:"shift"`
	Unit       string      `json:"unit"`
	Type       string      `json:"type"`
	Severity   string      `json:"severity"`
	Qty        flexString  `json:"qty"`
	CartType   string      `json:"cartType"`
	Location   string      `json:"location"`
	CartNumber string      `json:"cartNumber"`
	Reason     string      `json:"reason"`
	CentralOld string      `json:"centralOld"`
	CentralNew string      `json:"centralNew"`
	MedOld     string      `json:"medOld"`
	MedNew     string      `json:"medNew"`
	CheckedBy  string      `json:"checkedBy"`
	Seal       string      `json:"seal"`
	Notes      string      `json:"notes"`
}

func (l legacyRecord) toRecord() Record {
	var ts int64
	if l.TS != "" {
		if n, err := strconv.ParseInt(l.TS.String(), 10, 64); err == nil {
			ts = n
		} else if f, err := strconv.ParseFloat(l.TS.String(), 64); err == nil {
			ts = int64(f)
		}
	}
	// Imported text goes through the same cleaning as form input, so an
	// imported record survives a CSV round trip like a submitted one.
	r := Record{
		ID:         l.ID,
		Mode:       Mode(Clean(l.Mode)),
		Timestamp:  ts,
		Author:     Clean(l.Author),
		Shift:      Clean(l.Shift),
		Unit:       Clean(l.Unit),
		Type:       Clean(l.Type),
		Severity:   Severity(Clean(l.Severity)),
		Qty:        Clean(string(l.Qty)),
		CartType:   Clean(l.CartType),
		Location:   Clean(l.Location),
		CartNumber: Clean(l.CartNumber),
		Reason:     Clean(l.Reason),
		CentralOld: Clean(l.CentralOld),
		CentralNew: Clean(l.CentralNew),
		MedOld:     Clean(l.MedOld),
		MedNew:     Clean(l.MedNew),
		CheckedBy:  Clean(l.CheckedBy),
		Seal:       Clean(l.Seal),
		Notes:      Clean(l.Notes),
	}
	return r.scoped()
}

// Decode parses one persisted record. Unknown fields are ignored, missing
// fields default to empty and fields of the other mode are dropped.
// ok is false when the payload is malformed or lacks an id or known mode.
func Decode(data []byte) (r Record, ok bool) {
	var l legacyRecord
	if err := json.Unmarshal(data, &l); err != nil {
		return Record{}, false
	}
	r = l.toRecord()
	if r.ID == "" || !ValidModes[r.Mode] {
		return Record{}, false
	}
	return r, true
}

// DecodeAll parses a JSON array of persisted records, as written by the
// browser version of UnitFlow. A malformed document yields an empty slice;
// malformed or incomplete elements are skipped. skipped counts them.
func DecodeAll(data []byte) (records []Record, skipped int) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return []Record{}, 0
	}
	records = make([]Record, 0, len(raw))
	for _, item := range raw {
		r, ok := Decode(item)
		if !ok {
			skipped++
			continue
		}
		records = append(records, r)
	}
	return records, skipped
}

// Encode serializes a record in the persisted layout.
func Encode(r Record) ([]byte, error) {
	return json.Marshal(r)
}
