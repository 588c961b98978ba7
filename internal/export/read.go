package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/theaarondumas/unitflow/internal/record"
)

// ReadTable parses a CSV produced by Table back into records. Ids are not
// exported, so the returned records carry none.
func ReadTable(r io.Reader) ([]record.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	header, err := cr.Read()
	if err == io.EOF {
		return []record.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, col := range Columns {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected column %d: got %q, want %q", i+1, header[i], col)
		}
	}

	out := []record.Record{}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		rec, err := fromRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		out = append(out, rec)
	}
}

func fromRow(v []string) (record.Record, error) {
	mode, err := record.ParseMode(v[0])
	if err != nil {
		return record.Record{}, err
	}
	ts, err := time.Parse(TimestampLayout, v[1])
	if err != nil {
		return record.Record{}, fmt.Errorf("timestamp: %w", err)
	}
	return record.Record{
		Mode:       mode,
		Timestamp:  ts.UnixMilli(),
		Author:     v[2],
		Shift:      v[3],
		Unit:       v[4],
		Type:       v[5],
		Severity:   record.Severity(v[6]),
		Qty:        v[7],
		Notes:      v[8],
		CartType:   v[9],
		Location:   v[10],
		CartNumber: v[11],
		Reason:     v[12],
		CentralOld: v[13],
		CentralNew: v[14],
		MedOld:     v[15],
		MedNew:     v[16],
		CheckedBy:  v[17],
		Seal:       v[18],
	}, nil
}
