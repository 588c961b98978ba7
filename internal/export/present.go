package export

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/theaarondumas/unitflow/internal/record"
)

//go:embed presentation.html.tmpl
var presentationSource string

var presentation = template.Must(template.New("presentation").Parse(presentationSource))

// TitleSelected heads the document built from a selection.
const TitleSelected = "UnitFlow — Selected"

// TitleAll heads the document built from a mode's full history.
func TitleAll(mode record.Mode) string {
	return fmt.Sprintf("UnitFlow — %s (all)", mode.Label())
}

// DisplayLayout formats times shown to people.
const DisplayLayout = "2006-01-02 15:04"

// Cell is one table cell. Span is the column span, 1 when unset.
type Cell struct {
	Text string
	Span int
}

// PresentRow is one record in the presentation table.
type PresentRow struct {
	ID    string
	When  string
	Mode  string
	Cells []Cell
}

// Document is the view model of the presentation table.
type Document struct {
	Title     string
	Generated string
	Count     int
	Rows      []PresentRow
}

// detailColumns is the width of the "Details" header.
const detailColumns = 9

// Present builds the presentation document for records, oldest first.
// Crash rows show cart type, location, cart number, reason, new central and
// med dates, checked by, seal and notes; supply rows show author, shift,
// unit, type, severity, qty and notes. ok is false for an empty set.
func Present(title string, records []record.Record, generated time.Time, loc *time.Location) (doc Document, ok bool) {
	if len(records) == 0 {
		return Document{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	sorted := make([]record.Record, len(records))
	copy(sorted, records)
	record.SortByTime(sorted)

	doc = Document{
		Title:     title,
		Generated: generated.In(loc).Format(DisplayLayout),
		Count:     len(sorted),
		Rows:      make([]PresentRow, 0, len(sorted)),
	}
	for _, r := range sorted {
		doc.Rows = append(doc.Rows, PresentRow{
			ID:    r.ID,
			When:  r.Time(loc).Format(DisplayLayout),
			Mode:  r.Mode.Label(),
			Cells: detailCells(r),
		})
	}
	return doc, true
}

func detailCells(r record.Record) []Cell {
	if r.Mode == record.ModeCrash {
		return cells(r.CartType, r.Location, r.CartNumber, r.Reason, r.CentralNew, r.MedNew, r.CheckedBy, r.Seal, r.Notes)
	}
	c := cells(r.Author, r.Shift, r.Unit, r.Type, string(r.Severity), r.Qty, r.Notes)
	c[len(c)-1].Span = detailColumns - len(c) + 1
	return c
}

func cells(values ...string) []Cell {
	out := make([]Cell, len(values))
	for i, v := range values {
		out[i] = Cell{Text: v, Span: 1}
	}
	return out
}

// DetailColumns is the column span of the details header.
func (Document) DetailColumns() int {
	return detailColumns
}

// HTML renders the document as a standalone page. All free text is escaped.
func (d Document) HTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := presentation.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("render presentation: %w", err)
	}
	return buf.Bytes(), nil
}
