// CLAUDE:SUMMARY Run orchestration: source scan, transcriptions, normalisation workers, accumulation, atomic report commit, archive, publish.
// Package lexbuild builds per-period vocabularies from dated annotation
// records and writes the report set of a run.
//
// A run reads every line annotation of the source database and, when a
// transcripts directory is configured, the full transcription of each
// collection. Records are normalised, bucketed into fixed-width periods and
// accumulated. Reports are written only once every record has been
// consumed, and they are committed atomically: a failed run leaves the
// previous report set in place.
//
// Usage:
//
//	cfg, _ := lexbuild.LoadConfigFile("lexii.yaml")
//	b, err := lexbuild.New(*cfg, logger)
//	res, err := b.Run(ctx)
package lexbuild

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deloro-project/rocc-pipelines/docpipe"
	"github.com/deloro-project/rocc-pipelines/idgen"
	"github.com/deloro-project/rocc-pipelines/internal/store"
	"github.com/deloro-project/rocc-pipelines/period"
	"github.com/deloro-project/rocc-pipelines/publish"
	"github.com/deloro-project/rocc-pipelines/report"
	"github.com/deloro-project/rocc-pipelines/textnorm"
)

// Source supplies line annotations and collection dates. *store.Store
// implements it.
type Source interface {
	CollectionYears(ctx context.Context) (map[string]*int, error)
	ScanLines(ctx context.Context, limit int, fn func(store.Line) error) error
	Close() error
}

// Publisher copies a local file to remote storage and returns its key.
// *publish.Uploader implements it.
type Publisher interface {
	Upload(ctx context.Context, path string) (string, error)
}

// Option customises a Builder.
type Option func(*Builder)

// WithTokenizer replaces the word tokenizer built from the normalize policy.
func WithTokenizer(t textnorm.Tokenizer) Option { return func(b *Builder) { b.tok = t } }

// WithSource uses src instead of opening the configured database. The
// Builder does not close it.
func WithSource(src Source) Option { return func(b *Builder) { b.source = src } }

// WithPublisher replaces the uploader built from the publish section.
func WithPublisher(p Publisher) Option { return func(b *Builder) { b.publisher = p } }

// WithRunID sets the run identifier generator. Default: UUID v7.
func WithRunID(gen idgen.Generator) Option { return func(b *Builder) { b.newID = gen } }

// Builder runs lexicon builds for one configuration.
type Builder struct {
	cfg       Config
	logger    *slog.Logger
	tok       textnorm.Tokenizer
	assign    period.Assigner
	source    Source
	publisher Publisher
	newID     idgen.Generator
	writer    *report.Writer
}

// New validates cfg and prepares a Builder. Nothing is opened until Run.
func New(cfg Config, logger *slog.Logger, opts ...Option) (*Builder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	assign, err := cfg.Period.Assigner()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	b := &Builder{
		cfg:    cfg,
		logger: logger,
		assign: assign,
		newID:  idgen.Default,
		writer: report.NewWriter(cfg.Output.Dir, logger),
	}
	for _, o := range opts {
		o(b)
	}

	if b.tok == nil {
		tok, err := textnorm.NewWordTokenizer(cfg.Normalize)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		b.tok = tok
	}
	if b.publisher == nil && cfg.Publish.Enabled() {
		up, err := publish.New(cfg.Publish, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		b.publisher = up
	}
	return b, nil
}

// Run builds the lexicon and commits the report set.
//
// Fatal errors match ErrDataAccess or ErrOutputWrite. When archiving or
// publishing fails after the reports were committed, Run returns both the
// Result and an ErrOutputWrite error.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: b.newID(), StartedAt: time.Now()}
	b.logger.Info("lexbuild: run started", "run_id", res.RunID,
		"driver", b.cfg.Source.Driver, "workers", b.cfg.Workers,
		"period_width", b.assign.Width, "anchor", b.assign.Anchor)

	acc, err := b.collect(ctx)
	if err != nil {
		b.logger.Error("lexbuild: run aborted", "run_id", res.RunID, "error", err)
		return nil, err
	}

	res.Counts = acc.counts
	res.Errors = acc.errs
	res.Lexicon = acc.lex
	res.Sizes = acc.lex.SizeStats()
	res.CrossPeriodTerms = len(acc.lex.CrossPeriod())
	if b.cfg.UnknownYear == UnknownReport {
		res.Unknown = acc.unknown
	}

	tables := report.Build(res.Lexicon, res.Unknown, b.cfg.Output.Options)
	manifest := report.Manifest{
		RunID:       res.RunID,
		GeneratedAt: time.Now().UTC(),
		Counts:      res.Counts.Map(),
		Settings:    b.settings(),
	}
	if err := b.writer.Commit(ctx, tables, manifest); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	res.OutputDir = b.cfg.Output.Dir

	if err := b.ship(ctx, res); err != nil {
		res.Duration = time.Since(res.StartedAt)
		return res, err
	}

	res.Duration = time.Since(res.StartedAt)
	b.logger.Info("lexbuild: run finished", "run_id", res.RunID,
		"lines", res.Counts.Lines, "transcriptions", res.Counts.Transcriptions,
		"dated", res.Counts.Dated, "unknown", res.Counts.Unknown,
		"skipped", res.Counts.Skipped, "missing", res.Counts.Missing,
		"periods", len(res.Sizes), "cross_period_terms", res.CrossPeriodTerms,
		"output", res.OutputDir, "duration", res.Duration)
	return res, nil
}

// ship archives and publishes a committed report set.
func (b *Builder) ship(ctx context.Context, res *Result) error {
	if !b.cfg.Output.Archive {
		return nil
	}
	dest := b.cfg.Output.ArchivePath()
	if err := report.Archive(b.cfg.Output.Dir, dest); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	res.Archive = dest

	if b.publisher == nil {
		return nil
	}
	key, err := b.publisher.Upload(ctx, dest)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	res.Published = key
	return nil
}

// collect reads every record and returns the merged accumulator.
func (b *Builder) collect(ctx context.Context) (*accumulator, error) {
	src := b.source
	if src == nil {
		s, err := store.Open(b.cfg.Source)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDataAccess, err)
		}
		defer s.Close()
		src = s
	}

	if b.cfg.Workers <= 1 {
		acc := b.newAccumulator()
		err := b.produce(ctx, src, &acc.counts, func(rec Record) error {
			if re := acc.add(rec); re != nil {
				b.recordFailed(re)
			}
			return nil
		}, acc.keep)
		if err != nil {
			return nil, err
		}
		return acc, nil
	}
	return b.collectParallel(ctx, src)
}

// collectParallel fans records out to Workers goroutines, each with its own
// accumulator. Accumulators are merged after the producer and every worker
// have returned.
func (b *Builder) collectParallel(ctx context.Context, src Source) (*accumulator, error) {
	g, gctx := errgroup.WithContext(ctx)
	records := make(chan Record, 4*b.cfg.Workers)

	accs := make([]*accumulator, b.cfg.Workers)
	for i := range accs {
		acc := b.newAccumulator()
		accs[i] = acc
		g.Go(func() error {
			for rec := range records {
				if re := acc.add(rec); re != nil {
					b.recordFailed(re)
				}
			}
			return nil
		})
	}

	final := b.newAccumulator()
	g.Go(func() error {
		defer close(records)
		return b.produce(gctx, src, &final.counts, func(rec Record) error {
			select {
			case records <- rec:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		}, final.keep)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, acc := range accs {
		final.merge(acc)
	}
	return final, nil
}

// produce emits line records, then transcription records. Read counters go
// to counts and missing transcriptions to keep. Source failures are fatal.
func (b *Builder) produce(ctx context.Context, src Source, counts *Counts, emit func(Record) error, keep func(*RecordError)) error {
	var years map[string]*int
	if b.cfg.Transcripts.Dir != "" {
		var err error
		if years, err = src.CollectionYears(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrDataAccess, err)
		}
	}

	err := src.ScanLines(ctx, b.cfg.Source.Limit, func(l store.Line) error {
		counts.Lines++
		return emit(Record{
			ID:           l.ID,
			CollectionID: l.CollectionID,
			Text:         l.Text,
			Year:         l.Year,
			Origin:       OriginLine,
		})
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDataAccess, err)
	}

	if b.cfg.Transcripts.Dir == "" {
		return nil
	}
	return b.produceTranscriptions(ctx, years, counts, emit, keep)
}

func (b *Builder) produceTranscriptions(ctx context.Context, years map[string]*int, counts *Counts, emit func(Record) error, keep func(*RecordError)) error {
	ext := docpipe.New(docpipe.Config{
		MaxFileSize:       b.cfg.Transcripts.MaxFileSize,
		KeepOCRCandidates: b.cfg.Transcripts.KeepOCRCandidates,
		Logger:            b.logger,
	})
	loaded, err := docpipe.NewLoader(ext, b.logger).Load(ctx, b.cfg.Transcripts.Dir, slices.Sorted(maps.Keys(years)))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDataAccess, err)
	}

	for _, m := range loaded.Missing {
		counts.Missing++
		re := missingError(m)
		keep(re)
		b.logger.Debug("lexbuild: no transcription", "collection_id", re.CollectionID, "error", re)
	}
	for _, tr := range loaded.Transcriptions {
		year, known := years[tr.Collection]
		if !known {
			b.logger.Warn("lexbuild: transcription for unknown collection", "collection_id", tr.Collection)
		}
		counts.Transcriptions++
		err := emit(Record{
			ID:           "transcription:" + tr.Collection,
			CollectionID: tr.Collection,
			Text:         tr.Text,
			Year:         year,
			Origin:       OriginTranscription,
		})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDataAccess, err)
		}
	}
	return nil
}

func (b *Builder) newAccumulator() *accumulator {
	return newAccumulator(b.tok, b.assign, b.cfg.UnknownYear == UnknownReport)
}

func (b *Builder) recordFailed(re *RecordError) {
	b.logger.Warn("lexbuild: record skipped",
		"record_id", re.RecordID, "collection_id", re.CollectionID, "error", re.Err)
}

// settings is the part of the configuration recorded in the manifest.
type settings struct {
	PeriodWidth int             `json:"period_width"`
	Anchor      int             `json:"anchor"`
	Normalize   textnorm.Policy `json:"normalize"`
	UnknownYear UnknownPolicy   `json:"unknown_year"`
	Limit       int             `json:"limit,omitempty"`
	Transcripts bool            `json:"transcripts"`
	Tokenizer   string          `json:"tokenizer"`
}

func (b *Builder) settings() settings {
	s := settings{
		PeriodWidth: b.assign.Width,
		Anchor:      b.assign.Anchor,
		Normalize:   b.cfg.Normalize,
		UnknownYear: b.cfg.UnknownYear,
		Limit:       b.cfg.Source.Limit,
		Transcripts: b.cfg.Transcripts.Dir != "",
		Tokenizer:   fmt.Sprintf("%T", b.tok),
	}
	if wt, ok := b.tok.(*textnorm.WordTokenizer); ok {
		s.Normalize = wt.Policy()
	}
	return s
}

var _ Source = (*store.Store)(nil)
var _ Publisher = (*publish.Uploader)(nil)
