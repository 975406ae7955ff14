// CLAUDE:SUMMARY Maps transcription files of a directory to collections and extracts them, reporting missing ones.
package docpipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Transcription is the full text of one collection.
type Transcription struct {
	Collection string
	Sources    []string // files the text was read from, in name order
	Text       string
}

// LoadResult is the outcome of a Loader pass.
type LoadResult struct {
	Transcriptions []Transcription // sorted by collection
	Missing        []*MissingError // sorted by collection
}

// Loader finds the transcription of each collection in a directory.
//
// A collection is matched by a file named <collection>.<ext> with a
// supported extension, or by a sub-directory <collection>/ whose supported
// files are concatenated in name order. Files for collections absent from
// the expected list are still returned; the caller decides how to date them.
type Loader struct {
	ext    *Extractor
	logger *slog.Logger
}

// NewLoader creates a Loader extracting with ext.
func NewLoader(ext *Extractor, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{ext: ext, logger: logger}
}

// Load scans dir. Every expected collection without a usable transcription
// yields a MissingError; these never fail the pass. An unreadable dir or a
// cancelled ctx does.
func (l *Loader) Load(ctx context.Context, dir string, expected []string) (*LoadResult, error) {
	sources, err := l.index(dir)
	if err != nil {
		return nil, err
	}

	res := &LoadResult{}
	for _, coll := range expected {
		if _, ok := sources[coll]; !ok {
			res.Missing = append(res.Missing, &MissingError{Collection: coll})
		}
	}

	for _, coll := range slices.Sorted(maps.Keys(sources)) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("docpipe: load: %w", err)
		}
		tr, miss := l.extract(ctx, coll, sources[coll])
		if miss != nil {
			l.logger.Warn("docpipe: transcription skipped", "collection_id", coll, "path", miss.Path, "error", miss.Err)
			res.Missing = append(res.Missing, miss)
			continue
		}
		res.Transcriptions = append(res.Transcriptions, tr)
	}

	slices.SortFunc(res.Missing, func(a, b *MissingError) int {
		return strings.Compare(a.Collection, b.Collection)
	})
	l.logger.Info("docpipe: transcriptions loaded", "dir", dir,
		"found", len(res.Transcriptions), "missing", len(res.Missing))
	return res, nil
}

func (l *Loader) extract(ctx context.Context, coll string, paths []string) (Transcription, *MissingError) {
	tr := Transcription{Collection: coll}
	var parts []string
	for _, p := range paths {
		doc, err := l.ext.Extract(ctx, p)
		if err == nil {
			err = l.check(coll, doc)
		}
		if err != nil {
			return tr, &MissingError{Collection: coll, Path: p, Err: err}
		}
		tr.Sources = append(tr.Sources, p)
		parts = append(parts, doc.Text)
	}
	tr.Text = strings.Join(parts, "\n")
	return tr, nil
}

// check rejects unusable documents. A usable PDF whose text mentions plates
// or figures that only exist as images is kept with a warning: those
// passages are missing from the transcription.
func (l *Loader) check(coll string, doc *Document) error {
	if err := l.ext.Usable(doc); err != nil {
		return err
	}
	if doc.Quality != nil && doc.Quality.HasVisualGap() {
		l.logger.Warn("docpipe: transcription refers to images outside its text layer",
			"collection_id", coll, "path", doc.Path, "visual_refs", doc.Quality.VisualRefCount)
	}
	return nil
}

// index maps collection ids to their files.
func (l *Loader) index(dir string) (map[string][]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("docpipe: read transcripts dir: %w", err)
	}

	sources := make(map[string][]string)
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)

		if e.IsDir() {
			files, err := l.dirFiles(path)
			if err != nil {
				return nil, err
			}
			if len(files) > 0 {
				sources[name] = append(sources[name], files...)
			}
			continue
		}
		if _, err := l.ext.Detect(name); err != nil {
			l.logger.Debug("docpipe: ignoring file", "path", path, "error", err, "supported", SupportedFormats())
			continue
		}
		coll := strings.TrimSuffix(name, filepath.Ext(name))
		sources[coll] = append(sources[coll], path)
	}
	for coll := range sources {
		slices.Sort(sources[coll])
	}
	return sources, nil
}

func (l *Loader) dirFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("docpipe: read %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, err := l.ext.Detect(e.Name()); errors.Is(err, ErrUnsupportedFormat) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}
