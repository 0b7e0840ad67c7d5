package dictionary

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"baakh/internal/database"
	"baakh/internal/sindhi"
)

// Source lists the rows to export.
type Source interface {
	ListActive(ctx context.Context) ([]database.DictionaryEntry, error)
}

// ExportResult summarises one export run.
type ExportResult struct {
	Path     string        `json:"path"`
	Rows     int           `json:"rows"`
	Written  int           `json:"written"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
}

// Exporter writes the active database rows to the flat dictionary file.
type Exporter struct {
	source Source
	path   string
	now    func() time.Time
}

// NewExporter returns an exporter writing to path.
func NewExporter(source Source, path string) *Exporter {
	return &Exporter{source: source, path: path, now: time.Now}
}

// Export replaces the dictionary file atomically: rows are written to a
// temporary file in the same directory which is then renamed over path.
// Rows that cannot be represented in the line format are skipped.
func (e *Exporter) Export(ctx context.Context) (ExportResult, error) {
	start := e.now()
	res := ExportResult{Path: e.path}
	if e.path == "" {
		return res, ErrNoPath
	}

	rows, err := e.source.ListActive(ctx)
	if err != nil {
		return res, fmt.Errorf("list dictionary rows: %w", err)
	}
	res.Rows = len(rows)

	entries := make([]sindhi.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, sindhi.Entry{Word: row.Word, Correction: row.Correction})
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	dir := filepath.Dir(e.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, fmt.Errorf("create dictionary dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".dictionary-*.tmp")
	if err != nil {
		return res, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	skipped, err := sindhi.WriteDictionary(tmp, entries,
		"Romanizer dictionary, one word|correction pair per line",
		fmt.Sprintf("Exported %s from %d database rows", start.UTC().Format(time.RFC3339), len(rows)),
	)
	if err != nil {
		return res, fmt.Errorf("write dictionary: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return res, fmt.Errorf("sync dictionary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return res, fmt.Errorf("close dictionary: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return res, fmt.Errorf("chmod dictionary: %w", err)
	}
	if err := os.Rename(tmpName, e.path); err != nil {
		return res, fmt.Errorf("replace dictionary: %w", err)
	}
	committed = true

	res.Skipped = skipped
	res.Written = len(entries) - skipped
	res.Duration = e.now().Sub(start)
	return res, nil
}
