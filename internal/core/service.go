package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/barcodegen/internal/barcode"
	"github.com/JonMunkholm/barcodegen/internal/config"
	"github.com/JonMunkholm/barcodegen/internal/logging"
	"github.com/JonMunkholm/barcodegen/internal/sheet"
	"github.com/google/uuid"
)

// Service is the entry point for barcode generation used by the web layer and CLI.
type Service struct {
	cfg      *config.Config
	pipeline *Pipeline
	images   *ImageStore
	runs     RunStore
	limiter  *UploadLimiter
}

// NewService creates a Service from configuration.
//
// When image persistence is enabled the image directory is created here,
// once, before any request is served. runs may be nil, in which case an
// in-memory history is used.
func NewService(cfg *config.Config, runs RunStore) (*Service, error) {
	var images *ImageStore
	if cfg.Barcode.PersistImages {
		store, err := NewImageStore(cfg.Barcode.ImageDir)
		if err != nil {
			return nil, err
		}
		images = store
	}

	if runs == nil {
		runs = NewMemoryRunStore(cfg.History.Capacity)
	}

	renderer := barcode.NewRenderer(barcode.RenderOptions{
		Scale:     cfg.Barcode.Scale,
		BarHeight: cfg.Barcode.BarHeight,
	})

	var sink ImageSink
	if images != nil {
		sink = images
	}

	return &Service{
		cfg:      cfg,
		pipeline: NewPipeline(renderer, cfg.Barcode.Workers, sink),
		images:   images,
		runs:     runs,
		limiter:  NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
	}, nil
}

// GenerateRequest describes one uploaded spreadsheet.
type GenerateRequest struct {
	FileName    string
	ContentType string
	File        io.Reader
	BarcodeType string // "EAN-13" or "code128B"; anything else yields no rows
}

// Generate reads the spreadsheet and renders a barcode for every valid row.
//
// The first invalid row aborts the request; the returned error wraps a
// *barcode.RowError naming that row. An unknown barcode type returns an
// empty list and no error.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) ([]RenderedBarcode, error) {
	if req.File == nil {
		return nil, ErrNoFileProvided
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Upload.Timeout)
	defer cancel()

	run := Run{
		ID:        uuid.NewString(),
		Symbology: req.BarcodeType,
		FileName:  req.FileName,
		ClientIP:  ClientIPFromContext(ctx),
		CreatedAt: time.Now().UTC(),
	}
	logger := logging.WithFields(ctx, "run_id", run.ID, "symbology", req.BarcodeType, "file", req.FileName)
	logger.Debug("run started", "phase", PhaseReading)

	format := sheet.DetectFormat(req.FileName, req.ContentType)
	rows, err := sheet.Read(req.File, format)
	if err != nil {
		run.Status = RunFailed
		run.Error = err.Error()
		s.finishRun(ctx, run)
		return nil, fmt.Errorf("read %s: %w", format, err)
	}
	run.Rows = len(rows)

	res := s.pipeline.Run(ctx, rows, barcode.Symbology(req.BarcodeType))
	run.Generated = len(res.Barcodes)

	if !res.OK() {
		run.Status = RunAborted
		run.Error = res.Err.Error()
		s.finishRun(ctx, run)
		logger.Warn("run aborted", "row", res.FailedRow(), "error", res.Err)
		return nil, res.Err
	}

	run.Status = RunCompleted
	s.finishRun(ctx, run)
	logger.Info("run completed",
		"rows", res.Rows,
		"generated", len(res.Barcodes),
		"skipped", res.Skipped,
	)
	return res.Barcodes, nil
}

// finishRun stamps the duration and records run. Failures are only logged.
func (s *Service) finishRun(ctx context.Context, run Run) {
	run.Duration = time.Since(run.CreatedAt).Milliseconds()

	recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if err := s.runs.Record(recCtx, run); err != nil {
		logging.FromContext(ctx).Warn("record run failed", "run_id", run.ID, "error", err)
	}
}

// RecentRuns returns up to limit runs, newest first. A non-positive limit
// uses the configured default.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 || limit > s.cfg.History.Capacity {
		limit = s.cfg.History.ListLimit
	}
	runs, err := s.runs.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []Run{}
	}
	return runs, nil
}

// ImageDir returns the directory of persisted images, or "" when disabled.
func (s *Service) ImageDir() string {
	if s.images == nil {
		return ""
	}
	return s.images.Dir()
}

// UploadLimiterStatus returns the current concurrency state.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight requests finish or ctx is done.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// WaitForImages blocks until background image writes finish or ctx is done.
func (s *Service) WaitForImages(ctx context.Context) error {
	if s.images == nil {
		return nil
	}
	return s.images.Wait(ctx)
}
