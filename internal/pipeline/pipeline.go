package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/argos-etl/internal/domain"
	"github.com/couchcryptid/argos-etl/internal/observability"
	"github.com/couchcryptid/argos-etl/internal/source"
)

// Source lists and opens the input files of a run.
type Source interface {
	Files() ([]string, error)
	Open(name string) (io.ReadCloser, error)
}

// Transformer converts a scanned header/location pair into a fix.
type Transformer interface {
	Transform(ctx context.Context, d domain.DatumLines) (domain.NormalizedFix, error)
}

// Sink accepts one fix at a time, in scan order.
type Sink interface {
	Insert(ctx context.Context, fix domain.NormalizedFix) error
}

// RunStats summarizes a run.
type RunStats struct {
	Files       int                      `json:"files"`
	FilesFailed int                      `json:"files_failed"`
	Datums      int                      `json:"datums"`
	Fixes       int                      `json:"fixes"`
	Errors      map[domain.ErrorKind]int `json:"errors"`
	Duration    time.Duration            `json:"duration_ns"`
}

// Skipped returns the number of datums that did not reach the sink.
func (s RunStats) Skipped() int {
	return s.Datums - s.Fixes
}

// Pipeline scans every file of a Source sequentially and emits each fix to
// the Sink. A datum that fails to parse or insert is logged and skipped.
type Pipeline struct {
	source      Source
	transformer Transformer
	sink        Sink
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool

	mu    sync.Mutex
	stats RunStats
}

// New creates a Pipeline with the given stages and observability.
func New(src Source, t Transformer, sink Sink, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:      src,
		transformer: t,
		sink:        sink,
		logger:      logger,
		metrics:     metrics,
		stats:       RunStats{Errors: map[domain.ErrorKind]int{}},
	}
}

// CheckReadiness returns nil once the pipeline has emitted at least one fix.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not emitted any fixes yet")
	}
	return nil
}

// Stats returns a snapshot of the counters for the current or last run.
func (p *Pipeline) Stats() RunStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.stats
	s.Errors = maps.Clone(p.stats.Errors)
	return s
}

// Run processes every input file once. Only a failure to list the input
// directory or a cancelled context ends the run early; everything else is
// counted in the returned stats.
func (p *Pipeline) Run(ctx context.Context) (RunStats, error) {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	files, err := p.source.Files()
	if err != nil {
		return p.Stats(), err
	}
	p.logger.Info("pipeline started", "files", len(files))

	var runErr error
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("run cancelled: %w", err)
			break
		}
		if err := p.processFile(ctx, name); err != nil {
			runErr = err
			break
		}
	}

	elapsed := time.Since(start)
	p.metrics.RunDuration.Observe(elapsed.Seconds())
	p.update(func(s *RunStats) { s.Duration = elapsed })

	stats := p.Stats()
	p.logger.Info("pipeline finished",
		"files", stats.Files,
		"files_failed", stats.FilesFailed,
		"datums", stats.Datums,
		"fixes", stats.Fixes,
		"skipped", stats.Skipped(),
		"duration", elapsed,
	)
	return stats, runErr
}

// processFile scans one file. It returns an error only when ctx is cancelled.
func (p *Pipeline) processFile(ctx context.Context, name string) error {
	p.logger.Info("working on file", "file", name)
	p.update(func(s *RunStats) { s.Files++ })
	p.metrics.FilesProcessed.Inc()

	rc, err := p.source.Open(name)
	if err != nil {
		p.fileFailed(name, err)
		return nil
	}
	defer rc.Close()

	scanner := domain.NewRecordScanner(source.Lines(rc))
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run cancelled in %s: %w", name, err)
		}
		p.emit(ctx, name, scanner.Datum())
	}
	if err := scanner.Err(); err != nil {
		p.fileFailed(name, err)
	}
	return nil
}

func (p *Pipeline) emit(ctx context.Context, name string, d domain.DatumLines) {
	p.update(func(s *RunStats) { s.Datums++ })
	p.metrics.DatumsScanned.Inc()

	fix, err := p.transformer.Transform(ctx, d)
	if err != nil {
		p.recordFailed(name, d.Line, err)
		return
	}
	fix.Source = name

	start := time.Now()
	if err := p.sink.Insert(ctx, fix); err != nil {
		p.recordFailed(name, d.Line, &domain.ParseError{
			Kind:  domain.KindSink,
			TagID: strconv.FormatInt(fix.TagID, 10),
			Line:  d.Line,
			Err:   err,
		})
		return
	}
	p.metrics.SinkInsertDuration.Observe(time.Since(start).Seconds())

	p.update(func(s *RunStats) { s.Fixes++ })
	p.metrics.FixesEmitted.Inc()
	p.ready.Store(true)
}

func (p *Pipeline) recordFailed(name string, line int, err error) {
	kind := domain.KindOf(err)

	var tag string
	var pe *domain.ParseError
	if errors.As(err, &pe) {
		tag = pe.TagID
	}

	p.logger.Error("error adding record",
		"file", name,
		"line", line,
		"tag_id", tag,
		"kind", kind,
		"error", err,
	)
	p.update(func(s *RunStats) { s.Errors[kind]++ })
	p.metrics.RecordErrors.WithLabelValues(string(kind)).Inc()
}

func (p *Pipeline) fileFailed(name string, err error) {
	p.logger.Error("file failed", "file", name, "error", err)
	p.update(func(s *RunStats) { s.FilesFailed++ })
	p.metrics.FileErrors.Inc()
}

func (p *Pipeline) update(fn func(*RunStats)) {
	p.mu.Lock()
	fn(&p.stats)
	p.mu.Unlock()
}
