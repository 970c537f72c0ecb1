package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/JonMunkholm/framefill/internal/document"
	"github.com/JonMunkholm/framefill/internal/extract"
	"github.com/google/uuid"
)

// RecordTimeout bounds how long recording a run may take after the fill
// itself finished, independent of the request context.
var RecordTimeout = 5 * time.Second

// Service fills frame chains of one document from spreadsheet columns.
type Service struct {
	doc     document.Document
	runs    RunStore
	limiter *FillLimiter
}

// NewService creates a Service. A nil runs store keeps history in memory and
// a nil limiter serializes fills with the default wait time.
func NewService(doc document.Document, runs RunStore, limiter *FillLimiter) *Service {
	if runs == nil {
		runs = NewMemoryRunStore(DefaultRunLimit)
	}
	if limiter == nil {
		limiter = NewFillLimiter(DefaultMaxConcurrentFills, DefaultMaxWaitTime)
	}
	return &Service{
		doc:     doc,
		runs:    runs,
		limiter: limiter,
	}
}

// Document returns the document the service writes to.
func (s *Service) Document() document.Document {
	return s.doc
}

// Runs returns the run history store.
func (s *Service) Runs() RunStore {
	return s.runs
}

// LimiterStatus reports fill slot usage.
func (s *Service) LimiterStatus() FillLimiterStatus {
	return s.limiter.Status()
}

// WaitForFills blocks until in-flight fills complete or ctx is done.
func (s *Service) WaitForFills(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// UpdateFromFile fills opts.Frame with the configured column of the file at
// path. CSV and XLSX files are supported.
func (s *Service) UpdateFromFile(ctx context.Context, path string, opts Options) (*Result, error) {
	return s.fill(ctx, path, opts, func() ([]string, error) {
		return extract.ReadFile(path, opts.Extract)
	})
}

// UpdateFromReader fills opts.Frame from r. source names the input for the
// run history and selects the format by extension.
func (s *Service) UpdateFromReader(ctx context.Context, source string, r io.Reader, opts Options) (*Result, error) {
	return s.fill(ctx, source, opts, func() ([]string, error) {
		return extract.Extract(r, source, opts.Extract)
	})
}

func (s *Service) fill(ctx context.Context, source string, opts Options, read func() ([]string, error)) (*Result, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	who := RequesterFromContext(ctx)
	run := Run{
		ID:        uuid.New(),
		Frame:     opts.Frame,
		Source:    source,
		IPAddress: who.IP,
		UserAgent: who.UserAgent,
		StartedAt: time.Now(),
	}

	res, err := s.fillLocked(ctx, run.ID, opts, read)
	run.FinishedAt = time.Now()

	switch {
	case err != nil:
		run.Status = RunFailed
		run.Error = err.Error()
	case res.Overflow:
		run.Status = RunOverflow
	default:
		run.Status = RunSucceeded
	}
	if res != nil {
		res.Source = source
		res.Duration = run.FinishedAt.Sub(run.StartedAt)
		run.Rows = res.Rows
		run.Characters = res.Characters
	}
	s.record(ctx, run)

	if err != nil {
		slog.Warn("fill failed",
			"run_id", run.ID,
			"frame", opts.Frame,
			"source", source,
			"error", err,
		)
		return nil, err
	}

	slog.Info("fill completed",
		"run_id", run.ID,
		"frame", opts.Frame,
		"source", source,
		"rows", res.Rows,
		"characters", res.Characters,
		"overflow", res.Overflow,
	)
	return res, nil
}

func (s *Service) fillLocked(ctx context.Context, runID uuid.UUID, opts Options, read func() ([]string, error)) (*Result, error) {
	// Document checks come before the source is read so that a missing
	// frame is reported without touching the file.
	if s.doc == nil || !s.doc.HasDocument() {
		return nil, document.ErrNoDocument
	}
	if !s.doc.FrameExists(opts.Frame) {
		return nil, fmt.Errorf("%w: %q", document.ErrFrameNotFound, opts.Frame)
	}

	items, err := read()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, extract.ErrNoData
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := s.apply(opts.Frame, items, opts.Format)
	if err != nil {
		return nil, err
	}
	res.RunID = runID
	return res, nil
}

// Apply replaces the story of frame with items joined by newlines, formats
// it and reports overflow. It does not take a fill slot or record a run.
func (s *Service) Apply(frame string, items []string, format Format) (*Result, error) {
	if s.doc == nil || !s.doc.HasDocument() {
		return nil, document.ErrNoDocument
	}
	if !s.doc.FrameExists(frame) {
		return nil, fmt.Errorf("%w: %q", document.ErrFrameNotFound, frame)
	}
	if len(items) == 0 {
		return nil, extract.ErrNoData
	}
	return s.apply(frame, items, format)
}

func (s *Service) apply(frame string, items []string, format Format) (*Result, error) {
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", document.ErrInvalidLayout, err)
	}

	text := strings.Join(items, "\n")

	if err := s.doc.DeleteText(frame); err != nil {
		return nil, fmt.Errorf("delete text of %q: %w", frame, err)
	}
	if err := s.doc.InsertText(frame, text, 0); err != nil {
		return nil, fmt.Errorf("insert text into %q: %w", frame, err)
	}

	length, err := s.applyFormatting(frame, format)
	if err != nil {
		return nil, err
	}

	overflow, err := s.doc.TextOverflows(frame)
	if err != nil {
		return nil, fmt.Errorf("check overflow of %q: %w", frame, err)
	}

	res := &Result{
		Frame:      frame,
		Rows:       len(items),
		Characters: length,
		Overflow:   overflow,
	}
	if overflow {
		warning := OverflowWarning(frame)
		res.Message = warning.Message
		res.Warning = &warning
	} else {
		res.Message = fmt.Sprintf("%d rows updated.", len(items))
	}
	return res, nil
}

// applyFormatting styles the whole story and returns its length. An empty
// story is left untouched.
func (s *Service) applyFormatting(frame string, f Format) (int, error) {
	length, err := s.doc.TextLength(frame)
	if err != nil {
		return 0, fmt.Errorf("text length of %q: %w", frame, err)
	}
	if length <= 0 {
		return 0, nil
	}

	all := document.All(length)
	if err := s.doc.SetFont(frame, all, f.Font); err != nil {
		return 0, fmt.Errorf("set font: %w", err)
	}
	if err := s.doc.SetFontSize(frame, all, f.Size); err != nil {
		return 0, fmt.Errorf("set font size: %w", err)
	}
	if err := s.doc.SetAlignment(frame, all, f.Alignment); err != nil {
		return 0, fmt.Errorf("set alignment: %w", err)
	}
	if err := s.doc.SetLineSpacingMode(frame, all, f.LineMode); err != nil {
		return 0, fmt.Errorf("set line spacing mode: %w", err)
	}
	if f.LineMode == document.LineSpacingFixed {
		if err := s.doc.SetLineSpacing(frame, all, f.LineSpacing); err != nil {
			return 0, fmt.Errorf("set line spacing: %w", err)
		}
	}
	return length, nil
}

// record stores run. Failures are logged and never fail the fill.
func (s *Service) record(ctx context.Context, run Run) {
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), RecordTimeout)
	defer cancel()

	if err := s.runs.RecordRun(recordCtx, run); err != nil {
		slog.Error("failed to record run",
			"run_id", run.ID,
			"frame", run.Frame,
			"error", err,
		)
	}
}

// Preview extracts the configured column from path without touching the
// document and returns the first n values formatted for inspection.
func (s *Service) Preview(path string, n int, opts extract.Options) (*PreviewResult, error) {
	values, err := extract.ReadFile(path, opts)
	if err != nil {
		return nil, err
	}
	return newPreviewResult(path, values, n), nil
}

// PreviewReader is the reader counterpart of Preview.
func (s *Service) PreviewReader(source string, r io.Reader, n int, opts extract.Options) (*PreviewResult, error) {
	values, err := extract.Extract(r, source, opts)
	if err != nil {
		return nil, err
	}
	return newPreviewResult(source, values, n), nil
}

func newPreviewResult(source string, values []string, n int) *PreviewResult {
	return &PreviewResult{
		Source: source,
		Total:  len(values),
		Rows:   extract.Preview(values, n),
	}
}
