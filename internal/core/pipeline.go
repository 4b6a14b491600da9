package core

// pipeline.go turns spreadsheet rows into rendered barcodes.
//
// A run has two stages:
//
//  1. Validation walks rows in sheet order and stops at the first row the
//     normalizer rejects. Nothing is rendered for a request that fails here.
//  2. Rendering fans the validated rows out to a bounded worker pool. Every
//     task carries its position, results land in a position-indexed slice,
//     and a final ordering pass reports the first failed position, so the
//     output order never depends on completion order.

import (
	"context"
	"errors"

	"github.com/JonMunkholm/barcodegen/internal/barcode"
	"github.com/JonMunkholm/barcodegen/internal/sheet"
	"golang.org/x/sync/errgroup"
)

// MissingBarcodeText is emitted for Code128B rows whose barcode cell is absent.
// EAN-13 rows with an absent cell are skipped instead.
const MissingBarcodeText = "undefined"

// ImageSink receives a copy of every rendered image.
// Save must not block on I/O; it returns the stored file name.
type ImageSink interface {
	Save(data []byte) string
}

// Result is the outcome of a pipeline run.
// Exactly one of Barcodes (possibly empty) or Err is meaningful.
type Result struct {
	Barcodes []RenderedBarcode
	Rows     int   // data rows read
	Skipped  int   // EAN-13 rows with an empty barcode cell
	Phase    Phase // PhaseCompleted or PhaseAborted
	Err      error // *barcode.RowError, or a context error
}

// OK reports whether the run completed.
func (r Result) OK() bool {
	return r.Err == nil
}

// FailedRow returns the sheet row that aborted the run, or 0.
func (r Result) FailedRow() int {
	var rowErr *barcode.RowError
	if errors.As(r.Err, &rowErr) {
		return rowErr.Row
	}
	return 0
}

// Pipeline validates and renders rows. It holds no per-request state and is
// safe for concurrent use.
type Pipeline struct {
	renderer *barcode.Renderer
	workers  int
	images   ImageSink
}

// NewPipeline creates a pipeline. images may be nil to skip persistence.
func NewPipeline(renderer *barcode.Renderer, workers int, images ImageSink) *Pipeline {
	if workers <= 0 {
		workers = 1
	}
	return &Pipeline{renderer: renderer, workers: workers, images: images}
}

// task is one validated row waiting to be rendered.
type task struct {
	pos       int
	row       sheet.Row
	canonical string
}

// Run processes rows in order for sym. An unsupported symbology yields an
// empty, successful result.
func (p *Pipeline) Run(ctx context.Context, rows []sheet.Row, sym barcode.Symbology) Result {
	res := Result{Barcodes: []RenderedBarcode{}, Rows: len(rows), Phase: PhaseCompleted}

	sym, ok := barcode.ParseSymbology(string(sym))
	if !ok {
		return res
	}

	tasks, skipped, err := p.validate(ctx, rows, sym)
	res.Skipped = skipped
	if err != nil {
		return aborted(res, err)
	}

	out, err := p.render(ctx, tasks, sym)
	if err != nil {
		return aborted(res, err)
	}
	res.Barcodes = out
	return res
}

func aborted(res Result, err error) Result {
	res.Barcodes = nil
	res.Phase = PhaseAborted
	res.Err = err
	return res
}

// validate normalizes rows sequentially and stops at the first failure.
func (p *Pipeline) validate(ctx context.Context, rows []sheet.Row, sym barcode.Symbology) ([]task, int, error) {
	tasks := make([]task, 0, len(rows))
	skipped := 0

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, skipped, err
		}

		raw := row.RawBarcode
		if raw == "" {
			if sym == barcode.EAN13 {
				skipped++
				continue
			}
			raw = MissingBarcodeText
		}

		canonical, err := barcode.Normalize(sym, raw, row.SheetRow())
		if err != nil {
			return nil, skipped, err
		}
		tasks = append(tasks, task{pos: len(tasks), row: row, canonical: canonical})
	}

	return tasks, skipped, nil
}

// render draws and encodes every task on the worker pool.
func (p *Pipeline) render(ctx context.Context, tasks []task, sym barcode.Symbology) ([]RenderedBarcode, error) {
	out := make([]RenderedBarcode, len(tasks))
	errs := make([]error, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, t := range tasks {
		t := t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			img, err := p.renderer.Render(sym, t.canonical)
			if err != nil {
				errs[t.pos] = &barcode.RowError{Row: t.row.SheetRow(), Err: err}
				return nil
			}
			if p.images != nil {
				p.images.Save(img)
			}

			out[t.pos] = RenderedBarcode{
				MaterialCode: t.row.MaterialCode,
				MaterialName: t.row.MaterialName,
				Barcode:      t.canonical,
				PNG:          barcode.EncodeBase64(img),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
