package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"runtime"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"autocorrect/internal/domain"
	"autocorrect/internal/port"
)

// Mode selects what a run does with each file.
type Mode int

const (
	// ModeFormat corrects files and returns their text.
	ModeFormat Mode = iota
	// ModeLint reports diagnostics without touching files.
	ModeLint
	// ModeFix rewrites files in place.
	ModeFix
)

func (m Mode) String() string {
	switch m {
	case ModeLint:
		return "lint"
	case ModeFix:
		return "fix"
	default:
		return "format"
	}
}

// FileReport is the outcome of one file.
type FileReport struct {
	Path    string
	Result  domain.FormatResult
	Err     error
	Skipped bool
	Cached  bool
	Written bool
}

// Failed reports whether the file could not be read, parsed or written.
func (r FileReport) Failed() bool {
	return r.Err != nil || r.Result.Err != nil
}

// Error returns the failure message of the file or "".
func (r FileReport) Error() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Result.ErrorMessage()
}

// RunSummary aggregates the reports of a run. Reports keep input order.
type RunSummary struct {
	Reports     []FileReport
	Files       int
	Skipped     int
	Cached      int
	Written     int
	Errors      int
	Diagnostics int
}

// DispatchOptions configures a Dispatcher.
type DispatchOptions struct {
	Mode Mode
	// Jobs bounds concurrent files; zero means GOMAXPROCS.
	Jobs int
	// Lang forces a language tag for every file.
	Lang string
	// Progress is called from the aggregator once per finished file.
	Progress func(FileReport)
}

// Dispatcher fans files out to a bounded pool and aggregates their reports.
type Dispatcher struct {
	pipeline *Pipeline
	reader   port.FileReader
	writer   port.FileWriter
	cache    port.LintCache
	logger   *zap.Logger
	opts     DispatchOptions
}

// NewDispatcher creates a dispatcher. cache may be nil.
func NewDispatcher(
	pipeline *Pipeline,
	reader port.FileReader,
	writer port.FileWriter,
	cache port.LintCache,
	logger *zap.Logger,
	opts DispatchOptions,
) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	return &Dispatcher{
		pipeline: pipeline,
		reader:   reader,
		writer:   writer,
		cache:    cache,
		logger:   logger,
		opts:     opts,
	}
}

type indexedReport struct {
	index  int
	report FileReport
}

// Run processes files and waits for all of them. A failing file never
// aborts its siblings; files not yet started when ctx is done report the
// context error.
func (d *Dispatcher) Run(ctx context.Context, files []string) RunSummary {
	reports := make(chan indexedReport)
	summary := RunSummary{Reports: make([]FileReport, len(files))}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range reports {
			summary.Reports[r.index] = r.report
			summary.add(r.report)
			if d.opts.Progress != nil {
				d.opts.Progress(r.report)
			}
		}
	}()

	p := pool.New().WithMaxGoroutines(d.opts.Jobs)
	for i, path := range files {
		i, path := i, path
		p.Go(func() {
			var report FileReport
			if err := ctx.Err(); err != nil {
				report = FileReport{Path: path, Err: err}
			} else {
				report = d.process(path)
			}
			reports <- indexedReport{index: i, report: report}
		})
	}
	p.Wait()
	close(reports)
	<-done

	d.logger.Debug("run finished",
		zap.Stringer("mode", d.opts.Mode),
		zap.Int("files", summary.Files),
		zap.Int("skipped", summary.Skipped),
		zap.Int("cached", summary.Cached),
		zap.Int("errors", summary.Errors),
		zap.Int("diagnostics", summary.Diagnostics),
	)
	return summary
}

func (s *RunSummary) add(r FileReport) {
	if r.Skipped {
		s.Skipped++
		return
	}
	s.Files++
	if r.Cached {
		s.Cached++
	}
	if r.Written {
		s.Written++
	}
	if r.Failed() {
		s.Errors++
	}
	s.Diagnostics += len(r.Result.Diagnostics)
}

func (d *Dispatcher) process(path string) FileReport {
	report := FileReport{Path: path}
	doc := domain.SourceDocument{Path: path, Lang: d.opts.Lang}
	if d.pipeline.Language(doc) == "" {
		report.Skipped = true
		return report
	}

	text, err := d.reader.ReadFile(path)
	if err != nil {
		report.Err = fmt.Errorf("failed to read file: %w", err)
		d.logger.Warn("read failed", zap.String("path", path), zap.Error(err))
		return report
	}
	doc.Text = text

	var fingerprint string
	if d.opts.Mode == ModeLint && d.cache != nil {
		fingerprint = d.fingerprint(text)
		if d.cache.IsClean(path, fingerprint) {
			report.Cached = true
			report.Result = domain.FormatResult{Path: path, Lang: d.pipeline.Language(doc), Raw: text, Text: text}
			return report
		}
	}

	if d.opts.Mode == ModeLint {
		report.Result = d.pipeline.Lint(doc)
	} else {
		report.Result = d.pipeline.Format(doc)
	}

	if err := report.Result.Err; err != nil {
		if errors.Is(err, domain.ErrUnsupportedLanguage) {
			report.Skipped = true
			return report
		}
		d.logger.Warn("segmentation failed", zap.String("path", path), zap.Error(err))
		return report
	}

	switch d.opts.Mode {
	case ModeFix:
		if report.Result.Changed() {
			if err := d.writer.WriteFile(path, report.Result.Text); err != nil {
				report.Err = fmt.Errorf("failed to write file: %w", err)
				d.logger.Warn("write failed", zap.String("path", path), zap.Error(err))
				return report
			}
			report.Written = true
			d.logger.Debug("file corrected", zap.String("path", path))
		}
	case ModeLint:
		if d.cache == nil {
			break
		}
		if len(report.Result.Diagnostics) == 0 {
			if err := d.cache.MarkClean(path, fingerprint); err != nil {
				d.logger.Debug("cache update failed", zap.String("path", path), zap.Error(err))
			}
		} else if err := d.cache.Forget(path); err != nil {
			d.logger.Debug("cache update failed", zap.String("path", path), zap.Error(err))
		}
	}
	return report
}

// fingerprint keys the lint cache on file content, language and rule set.
func (d *Dispatcher) fingerprint(text string) string {
	h := sha256.New()
	h.Write([]byte(d.opts.Lang))
	h.Write([]byte{0})
	h.Write([]byte(d.pipeline.Fingerprint()))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
