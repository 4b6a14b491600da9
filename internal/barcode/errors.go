package barcode

import (
	"errors"
	"fmt"
)

var (
	// ErrTooShortForFormat is returned when EAN-13 input is under 12 characters
	// before any cleanup.
	ErrTooShortForFormat = errors.New("barcode too short: EAN-13 requires at least 12 characters")

	// ErrInvalidLength is returned when the digit-only form is neither 12 nor 13 digits.
	ErrInvalidLength = errors.New("invalid barcode length: EAN-13 data must be 12 or 13 digits")

	// ErrUnsupportedCharacters is returned by the renderer when the canonical
	// text falls outside the symbology's character set.
	ErrUnsupportedCharacters = errors.New("unsupported characters for barcode format")

	// ErrRenderFailure wraps failures of the underlying symbol encoder.
	ErrRenderFailure = errors.New("barcode render failure")
)

// RowError ties a normalization or render failure to a sheet row.
// Row is the 1-based sheet row number (the header is row 1).
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
