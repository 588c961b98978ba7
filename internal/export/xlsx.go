package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/theaarondumas/unitflow/internal/record"
)

// SheetName is the single worksheet of an exported workbook.
const SheetName = "UnitFlow"

// Workbook renders records as an XLSX workbook with the same columns and
// values as Table. It returns nil for an empty record set.
func Workbook(records []record.Record) ([]byte, error) {
	if len(records) == 0 {
		return nil, nil
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := setRow(f, 1, Columns); err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(Columns), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, r := range records {
		if err := setRow(f, i+2, Row(r)); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
		return fmt.Errorf("write row %d: %w", n, err)
	}
	return nil
}
