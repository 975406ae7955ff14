// CLAUDE:SUMMARY Atomic commit of a report set: CSV tables + manifest.json written to a staging dir, then swapped in by rename.
package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/deloro-project/rocc-pipelines/idgen"
)

// ManifestFile is the name of the run manifest inside the output directory.
const ManifestFile = "manifest.json"

// Manifest describes a committed report set.
type Manifest struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Counts      map[string]int `json:"counts"`
	Settings    any            `json:"settings,omitempty"`
	Files       []string       `json:"files"`
}

// Writer commits report sets into one output directory.
type Writer struct {
	dir    string
	logger *slog.Logger
	newID  idgen.Generator
}

// NewWriter creates a Writer for dir. The directory and its parents are
// created on commit. dir is cleaned: staging and backup directories are
// siblings of its last element.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		dir:    filepath.Clean(dir),
		logger: logger,
		newID:  idgen.Timestamped(idgen.NanoID(6)),
	}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Commit writes tables and the manifest, then replaces the output directory
// with the new set. On error nothing under the output directory changes.
func (w *Writer) Commit(ctx context.Context, tables []Table, m Manifest) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("report: commit: %w", err)
	}

	seen := make(map[string]bool, len(tables))
	for _, t := range tables {
		if err := checkName(t.Name); err != nil {
			return err
		}
		if seen[t.Name] || t.Name == ManifestFile {
			return fmt.Errorf("report: duplicate file name %q", t.Name)
		}
		seen[t.Name] = true
	}

	parent := filepath.Dir(w.dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("report: mkdir %s: %w", parent, err)
	}
	staging, err := os.MkdirTemp(parent, "."+filepath.Base(w.dir)+".staging-")
	if err != nil {
		return fmt.Errorf("report: staging dir: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			os.RemoveAll(staging)
		}
	}()

	m.Files = make([]string, 0, len(tables))
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("report: commit: %w", err)
		}
		if err := writeCSV(filepath.Join(staging, t.Name), t); err != nil {
			return err
		}
		m.Files = append(m.Files, t.Name)
	}
	if err := writeManifest(filepath.Join(staging, ManifestFile), m); err != nil {
		return err
	}

	if err := w.swap(staging); err != nil {
		return err
	}
	committed = true
	w.logger.Info("report: committed", "dir", w.dir, "files", len(tables), "run_id", m.RunID)
	return nil
}

// swap moves staging to the output directory, keeping the previous output
// until the new one is in place.
func (w *Writer) swap(staging string) error {
	info, err := os.Stat(w.dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.Rename(staging, w.dir); err != nil {
			return fmt.Errorf("report: rename: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("report: stat %s: %w", w.dir, err)
	case !info.IsDir():
		return fmt.Errorf("report: output %s exists and is not a directory", w.dir)
	}

	old := filepath.Join(filepath.Dir(w.dir), "."+filepath.Base(w.dir)+".old-"+w.newID())
	if err := os.Rename(w.dir, old); err != nil {
		return fmt.Errorf("report: move previous output: %w", err)
	}
	if err := os.Rename(staging, w.dir); err != nil {
		if rerr := os.Rename(old, w.dir); rerr != nil {
			w.logger.Error("report: restore previous output failed", "error", rerr, "kept_at", old)
		}
		return fmt.Errorf("report: rename: %w", err)
	}
	if err := os.RemoveAll(old); err != nil {
		w.logger.Warn("report: remove previous output", "error", err, "path", old)
	}
	return nil
}

func writeCSV(path string, t Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", filepath.Base(path), err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("report: close %s: %w", filepath.Base(path), cerr)
		}
	}()

	cw := csv.NewWriter(f)
	if t.Header != nil {
		if err := cw.Write(t.Header); err != nil {
			return fmt.Errorf("report: write %s: %w", t.Name, err)
		}
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("report: write %s: %w", t.Name, err)
	}
	return nil
}

func writeManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("report: encode manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("report: write manifest: %w", err)
	}
	return nil
}

// checkName rejects names that are not a single path element.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || filepath.IsAbs(name) {
		return fmt.Errorf("report: invalid file name %q", name)
	}
	return nil
}
