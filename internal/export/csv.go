package export

import (
	"bytes"
	"strings"
	"time"

	"github.com/theaarondumas/unitflow/internal/record"
)

// Columns is the fixed union header shared by both modes.
var Columns = []string{
	"mode", "timestamp", "author", "shift", "unit", "type", "severity", "qty", "notes",
	"cartType", "location", "cartNumber", "reason", "centralOld", "centralNew", "medOld", "medNew", "checkedBy", "seal",
}

// TimestampLayout is the ISO-8601 UTC layout of the timestamp column.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Row returns the column values of r in Columns order. Fields outside the
// record's mode are empty and line breaks are collapsed to single spaces.
func Row(r record.Record) []string {
	return []string{
		string(r.Mode),
		time.UnixMilli(r.Timestamp).UTC().Format(TimestampLayout),
		flatten(r.Author),
		flatten(r.Shift),
		flatten(r.Unit),
		flatten(r.Type),
		flatten(string(r.Severity)),
		flatten(r.Qty),
		flatten(r.Notes),
		flatten(r.CartType),
		flatten(r.Location),
		flatten(r.CartNumber),
		flatten(r.Reason),
		flatten(r.CentralOld),
		flatten(r.CentralNew),
		flatten(r.MedOld),
		flatten(r.MedNew),
		flatten(r.CheckedBy),
		flatten(r.Seal),
	}
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func flatten(s string) string {
	return strings.TrimSpace(lineBreaks.Replace(s))
}

// Table renders records as CSV in the given order: a header line followed by
// one line per record, "\n"-separated with no trailing newline. Every value
// is double-quoted with embedded quotes doubled. Table returns nil for an
// empty record set.
func Table(records []record.Record) []byte {
	if len(records) == 0 {
		return nil
	}
	var buf bytes.Buffer
	writeLine(&buf, Columns)
	for _, r := range records {
		buf.WriteByte('\n')
		writeLine(&buf, Row(r))
	}
	return buf.Bytes()
}

func writeLine(buf *bytes.Buffer, values []string) {
	for i, v := range values {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(v, `"`, `""`))
		buf.WriteByte('"')
	}
}
