package core

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/JonMunkholm/barcodegen/internal/barcode"
	"github.com/JonMunkholm/barcodegen/internal/sheet"
)

// recordingSink counts saved images without touching the filesystem.
type recordingSink struct {
	mu    sync.Mutex
	saved int
}

func (s *recordingSink) Save(data []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved++
	return fmt.Sprintf("barcode_%d.png", s.saved)
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}

func newTestPipeline(workers int, sink ImageSink) *Pipeline {
	return NewPipeline(barcode.NewRenderer(barcode.RenderOptions{}), workers, sink)
}

func rowsOf(values ...[3]string) []sheet.Row {
	rows := make([]sheet.Row, len(values))
	for i, v := range values {
		rows[i] = sheet.Row{Index: i + 1, MaterialCode: v[0], MaterialName: v[1], RawBarcode: v[2]}
	}
	return rows
}

func TestPipeline_EAN13AppendsCheckDigit(t *testing.T) {
	p := newTestPipeline(1, nil)

	res := p.Run(context.Background(), rowsOf([3]string{"M1", "Widget", "123456789012"}), barcode.EAN13)
	if !res.OK() {
		t.Fatalf("Run() error = %v", res.Err)
	}
	if len(res.Barcodes) != 1 {
		t.Fatalf("len(Barcodes) = %d, want 1", len(res.Barcodes))
	}

	got := res.Barcodes[0]
	if got.Barcode != "1234567890128" {
		t.Errorf("Barcode = %q, want %q", got.Barcode, "1234567890128")
	}
	if !barcode.ValidEAN13(got.Barcode) {
		t.Errorf("Barcode %q fails the checksum", got.Barcode)
	}
	if got.MaterialCode != "M1" || got.MaterialName != "Widget" {
		t.Errorf("material = %q/%q, want M1/Widget", got.MaterialCode, got.MaterialName)
	}
	if res.Phase != PhaseCompleted {
		t.Errorf("Phase = %s, want %s", res.Phase, PhaseCompleted)
	}
}

func TestPipeline_EAN13ReplacesWrongCheckDigit(t *testing.T) {
	p := newTestPipeline(1, nil)

	res := p.Run(context.Background(), rowsOf([3]string{"M2", "Gadget", "1234567890123"}), barcode.EAN13)
	if !res.OK() {
		t.Fatalf("Run() error = %v", res.Err)
	}

	got := res.Barcodes[0].Barcode
	if got[:12] != "123456789012" {
		t.Errorf("data digits = %q, want 123456789012", got[:12])
	}
	if got[12:] != "8" {
		t.Errorf("check digit = %q, want recomputed 8", got[12:])
	}
}

func TestPipeline_TooShortAborts(t *testing.T) {
	p := newTestPipeline(2, nil)

	rows := rowsOf(
		[3]string{"M0", "Fine", "400638133393"},
		[3]string{"M3", "Thing", "abc"},
		[3]string{"M4", "Later", "123456789012"},
	)
	res := p.Run(context.Background(), rows, barcode.EAN13)

	if res.OK() {
		t.Fatal("Run() succeeded, want abort")
	}
	if !errors.Is(res.Err, barcode.ErrTooShortForFormat) {
		t.Errorf("Err = %v, want ErrTooShortForFormat", res.Err)
	}
	if got := res.FailedRow(); got != 3 {
		t.Errorf("FailedRow() = %d, want 3", got)
	}
	if res.Barcodes != nil {
		t.Errorf("Barcodes = %v, want nil on abort", res.Barcodes)
	}
	if res.Phase != PhaseAborted {
		t.Errorf("Phase = %s, want %s", res.Phase, PhaseAborted)
	}
}

func TestPipeline_InvalidLengthAborts(t *testing.T) {
	p := newTestPipeline(1, nil)

	res := p.Run(context.Background(), rowsOf([3]string{"M5", "Dashes", "12-34-56-78-90"}), barcode.EAN13)
	if !errors.Is(res.Err, barcode.ErrInvalidLength) {
		t.Fatalf("Err = %v, want ErrInvalidLength", res.Err)
	}
	if got := res.FailedRow(); got != 2 {
		t.Errorf("FailedRow() = %d, want 2", got)
	}
}

func TestPipeline_EAN13SkipsEmptyCells(t *testing.T) {
	p := newTestPipeline(1, nil)

	rows := rowsOf(
		[3]string{"M1", "Widget", ""},
		[3]string{"M2", "Gadget", "123456789012"},
	)
	res := p.Run(context.Background(), rows, barcode.EAN13)
	if !res.OK() {
		t.Fatalf("Run() error = %v", res.Err)
	}
	if len(res.Barcodes) != 1 || res.Barcodes[0].MaterialCode != "M2" {
		t.Errorf("Barcodes = %+v, want only M2", res.Barcodes)
	}
	if res.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", res.Skipped)
	}
}

func TestPipeline_Code128BPassthrough(t *testing.T) {
	p := newTestPipeline(1, nil)

	rows := rowsOf(
		[3]string{"C1", "Cable", "ABC-123 xyz"},
		[3]string{"C2", "Empty", ""},
	)
	res := p.Run(context.Background(), rows, barcode.Code128B)
	if !res.OK() {
		t.Fatalf("Run() error = %v", res.Err)
	}
	if len(res.Barcodes) != 2 {
		t.Fatalf("len(Barcodes) = %d, want 2", len(res.Barcodes))
	}
	if got := res.Barcodes[0].Barcode; got != "ABC-123 xyz" {
		t.Errorf("Barcode = %q, want input unchanged", got)
	}
	if got := res.Barcodes[1].Barcode; got != MissingBarcodeText {
		t.Errorf("empty cell Barcode = %q, want %q", got, MissingBarcodeText)
	}
	for i, b := range res.Barcodes {
		img, err := base64.StdEncoding.DecodeString(b.PNG)
		if err != nil || len(img) == 0 {
			t.Errorf("Barcodes[%d].PNG is not a base64 image: %v", i, err)
		}
	}
}

func TestPipeline_Code128BRenderFailureNamesRow(t *testing.T) {
	p := newTestPipeline(4, nil)

	rows := rowsOf(
		[3]string{"C1", "Ok", "plain"},
		[3]string{"C2", "Bad", "café"},
		[3]string{"C3", "Ok", "also plain"},
	)
	res := p.Run(context.Background(), rows, barcode.Code128B)
	if !errors.Is(res.Err, barcode.ErrUnsupportedCharacters) {
		t.Fatalf("Err = %v, want ErrUnsupportedCharacters", res.Err)
	}
	if got := res.FailedRow(); got != 3 {
		t.Errorf("FailedRow() = %d, want 3", got)
	}
	if res.Barcodes != nil {
		t.Errorf("Barcodes = %v, want nil on abort", res.Barcodes)
	}
}

func TestPipeline_UnknownSymbologyIsEmpty(t *testing.T) {
	p := newTestPipeline(1, nil)

	res := p.Run(context.Background(), rowsOf([3]string{"M1", "Widget", "123456789012"}), barcode.Symbology("QR"))
	if !res.OK() {
		t.Fatalf("Run() error = %v", res.Err)
	}
	if res.Barcodes == nil || len(res.Barcodes) != 0 {
		t.Errorf("Barcodes = %#v, want empty non-nil slice", res.Barcodes)
	}
}

func TestPipeline_NoRows(t *testing.T) {
	p := newTestPipeline(1, nil)

	res := p.Run(context.Background(), nil, barcode.EAN13)
	if !res.OK() || res.Barcodes == nil || len(res.Barcodes) != 0 {
		t.Errorf("Run(nil) = %+v, want empty success", res)
	}
}

func TestPipeline_PreservesRowOrder(t *testing.T) {
	p := newTestPipeline(8, nil)

	var values [][3]string
	for i := 0; i < 40; i++ {
		values = append(values, [3]string{fmt.Sprintf("M%02d", i), "Item", fmt.Sprintf("4006381%05d", i)})
	}
	res := p.Run(context.Background(), rowsOf(values...), barcode.EAN13)
	if !res.OK() {
		t.Fatalf("Run() error = %v", res.Err)
	}
	if len(res.Barcodes) != len(values) {
		t.Fatalf("len(Barcodes) = %d, want %d", len(res.Barcodes), len(values))
	}
	for i, b := range res.Barcodes {
		if b.MaterialCode != values[i][0] {
			t.Fatalf("Barcodes[%d].MaterialCode = %q, want %q", i, b.MaterialCode, values[i][0])
		}
		if b.Barcode[:12] != values[i][2] {
			t.Errorf("Barcodes[%d].Barcode = %q, want prefix %q", i, b.Barcode, values[i][2])
		}
	}
}

func TestPipeline_SavesEveryImage(t *testing.T) {
	sink := &recordingSink{}
	p := newTestPipeline(3, sink)

	rows := rowsOf(
		[3]string{"M1", "A", "123456789012"},
		[3]string{"M2", "B", "400638133393"},
		[3]string{"M3", "C", ""},
	)
	res := p.Run(context.Background(), rows, barcode.EAN13)
	if !res.OK() {
		t.Fatalf("Run() error = %v", res.Err)
	}
	if got := sink.count(); got != 2 {
		t.Errorf("saved = %d, want 2", got)
	}
}

func TestPipeline_AbortRendersNothing(t *testing.T) {
	sink := &recordingSink{}
	p := newTestPipeline(2, sink)

	rows := rowsOf(
		[3]string{"M1", "A", "123456789012"},
		[3]string{"M2", "B", "short"},
	)
	res := p.Run(context.Background(), rows, barcode.EAN13)
	if res.OK() {
		t.Fatal("Run() succeeded, want abort")
	}
	if got := sink.count(); got != 0 {
		t.Errorf("saved = %d, want 0 when validation fails", got)
	}
}

func TestPipeline_CancelledContext(t *testing.T) {
	p := newTestPipeline(1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := p.Run(ctx, rowsOf([3]string{"M1", "Widget", "123456789012"}), barcode.EAN13)
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", res.Err)
	}
	if got := res.FailedRow(); got != 0 {
		t.Errorf("FailedRow() = %d, want 0", got)
	}
}
