package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/theaarondumas/unitflow/internal/export"
	"github.com/theaarondumas/unitflow/internal/record"
)

// Target picks the records handed off.
type Target string

const (
	TargetSelected Target = "selected"
	TargetAll      Target = "all"
)

// ParseTarget accepts "selected" or "all".
func ParseTarget(s string) (Target, error) {
	switch t := Target(strings.ToLower(strings.TrimSpace(s))); t {
	case TargetSelected, TargetAll:
		return t, nil
	}
	return "", fmt.Errorf("invalid target %q: must be selected or all", s)
}

// Format is the download file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("invalid export format %q: must be csv or xlsx", s)
}

// batch loads the records for target, oldest first, with the filename
// prefix and document title. mode is required for TargetAll.
func (a *App) batch(ctx context.Context, target Target, mode record.Mode) (records []record.Record, prefix, title string, err error) {
	switch target {
	case TargetSelected:
		if err := a.refreshSelection(ctx); err != nil {
			return nil, "", "", err
		}
		if a.session.Count() == 0 {
			return nil, "", "", nil
		}
		records, err = a.store.ByIDs(ctx, a.session.IDs())
		if err != nil {
			return nil, "", "", fmt.Errorf("load selection: %w", err)
		}
		prefix, title = export.SelectedPrefix, export.TitleSelected

	case TargetAll:
		if !record.ValidModes[mode] {
			return nil, "", "", fmt.Errorf("export all: invalid mode %q", mode)
		}
		all, err := a.all(ctx)
		if err != nil {
			return nil, "", "", err
		}
		records = record.FilterMode(all, mode)
		prefix, title = export.AllPrefix(mode), export.TitleAll(mode)

	default:
		return nil, "", "", fmt.Errorf("invalid target %q", target)
	}

	record.SortByTime(records)
	return records, prefix, title, nil
}

func (a *App) deliver(ctx context.Context, art export.Artifact, count int) (export.Artifact, bool, error) {
	if err := a.sink.Deliver(ctx, art); err != nil {
		return export.Artifact{}, false, fmt.Errorf("hand off %s: %w", art.Name, err)
	}
	a.logger.Info("artifact delivered", "kind", art.Kind, "name", art.Name, "records", count)
	return art, true, nil
}

// RequestExport renders the target records as a download. mode is only
// consulted for TargetAll. delivered is false (and nothing is handed off)
// when there is nothing to export.
func (a *App) RequestExport(ctx context.Context, target Target, mode record.Mode, format Format) (art export.Artifact, delivered bool, err error) {
	records, prefix, _, err := a.batch(ctx, target, mode)
	if err != nil || len(records) == 0 {
		return export.Artifact{}, false, err
	}

	art = export.Artifact{Kind: export.KindDownload}
	switch format {
	case FormatXLSX:
		art.Body, err = export.Workbook(records)
		if err != nil {
			return export.Artifact{}, false, fmt.Errorf("export: %w", err)
		}
		art.ContentType = export.ContentTypeXLSX
	case FormatCSV, "":
		format = FormatCSV
		art.Body = export.Table(records)
		art.ContentType = export.ContentTypeCSV
	default:
		return export.Artifact{}, false, fmt.Errorf("export: invalid format %q", format)
	}
	art.Name = export.Filename(prefix, a.Now(), string(format))

	return a.deliver(ctx, art, len(records))
}

// RequestPrint renders the target records as a printable document. Printing
// the selection with nothing selected is a no-op.
func (a *App) RequestPrint(ctx context.Context, target Target, mode record.Mode) (export.Artifact, bool, error) {
	return a.document(ctx, export.KindPrint, target, mode)
}

// RequestTableView renders the selection as a standalone table document.
func (a *App) RequestTableView(ctx context.Context) (export.Artifact, bool, error) {
	return a.document(ctx, export.KindView, TargetSelected, "")
}

func (a *App) document(ctx context.Context, kind export.Kind, target Target, mode record.Mode) (export.Artifact, bool, error) {
	records, prefix, title, err := a.batch(ctx, target, mode)
	if err != nil {
		return export.Artifact{}, false, err
	}

	now := a.Now()
	doc, ok := export.Present(title, records, now, a.loc)
	if !ok {
		return export.Artifact{}, false, nil
	}
	body, err := doc.HTML()
	if err != nil {
		return export.Artifact{}, false, err
	}

	return a.deliver(ctx, export.Artifact{
		Kind:        kind,
		Name:        export.Filename(prefix, now, "html"),
		ContentType: export.ContentTypeHTML,
		Body:        body,
	}, len(records))
}

// ImportResult summarizes a legacy import.
type ImportResult struct {
	Imported   int `json:"imported"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
}

// ImportLegacy appends records from a JSON array in the browser-storage
// layout. Malformed input imports nothing, malformed elements are skipped,
// and ids already stored are left alone. The import is all-or-nothing.
func (a *App) ImportLegacy(ctx context.Context, data []byte) (ImportResult, error) {
	decoded, skipped := record.DecodeAll(data)
	res := ImportResult{Skipped: skipped}
	if len(decoded) == 0 {
		return res, nil
	}

	existing, err := a.all(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	seen := make(map[string]bool, len(existing)+len(decoded))
	for _, r := range existing {
		seen[r.ID] = true
	}

	fresh := make([]record.Record, 0, len(decoded))
	for _, r := range decoded {
		if seen[r.ID] {
			res.Duplicates++
			continue
		}
		seen[r.ID] = true
		fresh = append(fresh, r)
	}

	if err := a.store.AppendAll(ctx, fresh); err != nil {
		return ImportResult{}, fmt.Errorf("import: %w", err)
	}
	res.Imported = len(fresh)
	a.logger.Info("legacy records imported", "imported", res.Imported, "skipped", res.Skipped, "duplicates", res.Duplicates)
	return res, nil
}
