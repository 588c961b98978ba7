package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theaarondumas/unitflow/internal/record"
)

// Kind says how an artifact is handed off.
type Kind string

const (
	KindDownload Kind = "download"
	KindPrint    Kind = "print"
	KindView     Kind = "view"
)

// Content types of rendered artifacts.
const (
	ContentTypeCSV  = "text/csv;charset=utf-8"
	ContentTypeHTML = "text/html;charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Artifact is a rendered document ready for hand-off.
type Artifact struct {
	Kind        Kind   `json:"kind"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"-"`
}

// Sink receives rendered artifacts.
type Sink interface {
	Deliver(ctx context.Context, a Artifact) error
}

// SelectedPrefix names exports built from a selection.
const SelectedPrefix = "unitflow_selected"

// AllPrefix is the filename prefix for a mode's full history.
func AllPrefix(mode record.Mode) string {
	return "unitflow_" + string(mode) + "_all"
}

// Filename returns "<prefix>_<YYYY-MM-DD>.<ext>" using the UTC date of now.
func Filename(prefix string, now time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.UTC().Format("2006-01-02"), ext)
}

// FileSink writes every artifact into Dir under its Name.
type FileSink struct {
	Dir string
}

// Path returns where a is written.
func (s FileSink) Path(a Artifact) string {
	return filepath.Join(s.Dir, filepath.Base(a.Name))
}

// Deliver writes the artifact, replacing an existing file of the same name.
func (s FileSink) Deliver(ctx context.Context, a Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("deliver %s: %w", a.Name, err)
	}
	if err := os.WriteFile(s.Path(a), a.Body, 0o644); err != nil {
		return fmt.Errorf("deliver %s: %w", a.Name, err)
	}
	return nil
}
