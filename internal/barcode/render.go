package barcode

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	gobarcode "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/ean"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Default render settings. Scale is pixels per barcode module.
const (
	DefaultScale     = 3
	DefaultBarHeight = 120
	DefaultQuietZone = 10
)

// RenderOptions controls the raster layout.
type RenderOptions struct {
	Scale     int // pixels per module
	BarHeight int // bar height in pixels
	QuietZone int // blank modules on each side of the bars
}

// Renderer draws canonical barcodes as PNG images with the text beneath the bars.
// A Renderer holds no mutable state and is safe for concurrent use.
type Renderer struct {
	opts RenderOptions
	face font.Face
}

// NewRenderer returns a Renderer, filling zero options with defaults.
func NewRenderer(opts RenderOptions) *Renderer {
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	if opts.BarHeight <= 0 {
		opts.BarHeight = DefaultBarHeight
	}
	if opts.QuietZone < 0 {
		opts.QuietZone = 0
	} else if opts.QuietZone == 0 {
		opts.QuietZone = DefaultQuietZone
	}
	return &Renderer{opts: opts, face: basicfont.Face7x13}
}

// Render encodes canonical under sym and returns PNG bytes.
//
// Input outside the symbology's character set fails with
// ErrUnsupportedCharacters before any encoding happens.
func (r *Renderer) Render(sym Symbology, canonical string) ([]byte, error) {
	bc, err := encodeSymbol(sym, canonical)
	if err != nil {
		return nil, err
	}

	img, err := r.compose(bc, canonical)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: png encode: %v", ErrRenderFailure, err)
	}
	return buf.Bytes(), nil
}

func encodeSymbol(sym Symbology, text string) (gobarcode.Barcode, error) {
	switch sym {
	case EAN13:
		if len(text) != 13 || !isDigits(text) {
			return nil, fmt.Errorf("%w: EAN-13 needs 13 digits, got %q", ErrUnsupportedCharacters, text)
		}
		bc, err := ean.Encode(text)
		if err != nil {
			return nil, fmt.Errorf("%w: ean13: %v", ErrRenderFailure, err)
		}
		return bc, nil

	case Code128B:
		for _, c := range text {
			if c < 0x20 || c > 0x7e {
				return nil, fmt.Errorf("%w: code128B cannot encode %q", ErrUnsupportedCharacters, c)
			}
		}
		bc, err := code128.Encode(text)
		if err != nil {
			return nil, fmt.Errorf("%w: code128: %v", ErrRenderFailure, err)
		}
		return bc, nil

	default:
		return nil, fmt.Errorf("%w: unknown symbology %q", ErrUnsupportedCharacters, string(sym))
	}
}

// compose scales the symbol and lays out bars, quiet zone and caption on a white canvas.
func (r *Renderer) compose(bc gobarcode.Barcode, caption string) (image.Image, error) {
	scale := r.opts.Scale
	barWidth := bc.Bounds().Dx() * scale

	scaled, err := gobarcode.Scale(bc, barWidth, r.opts.BarHeight)
	if err != nil {
		return nil, fmt.Errorf("%w: scale: %v", ErrRenderFailure, err)
	}

	quiet := r.opts.QuietZone * scale
	margin := 2 * scale
	metrics := r.face.Metrics()
	textWidth := font.MeasureString(r.face, caption).Ceil()
	textHeight := metrics.Height.Ceil()

	width := max(barWidth, textWidth) + 2*quiet
	height := margin + r.opts.BarHeight + margin + textHeight + margin

	img := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	barX := (width - barWidth) / 2
	barRect := image.Rect(barX, margin, barX+barWidth, margin+r.opts.BarHeight)
	draw.Draw(img, barRect, scaled, scaled.Bounds().Min, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: r.face,
		Dot:  fixed.P((width-textWidth)/2, barRect.Max.Y+margin+metrics.Ascent.Ceil()),
	}
	d.DrawString(caption)

	return img, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
