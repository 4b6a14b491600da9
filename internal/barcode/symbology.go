// Package barcode validates, normalizes and renders material barcodes.
//
// The package is free of I/O: every function maps input text to a canonical
// barcode string or to PNG bytes, so callers may run rows in parallel.
package barcode

// Symbology identifies the barcode format applied to every row of a request.
type Symbology string

const (
	// EAN13 is the 13-digit retail symbology with a trailing check digit.
	EAN13 Symbology = "EAN-13"

	// Code128B is variable-length Code 128 over printable ASCII.
	Code128B Symbology = "code128B"
)

// ParseSymbology matches s exactly against the supported literals.
// Matching is case-sensitive: "ean-13" is not EAN13.
func ParseSymbology(s string) (Symbology, bool) {
	switch Symbology(s) {
	case EAN13:
		return EAN13, true
	case Code128B:
		return Code128B, true
	default:
		return "", false
	}
}

func (s Symbology) String() string {
	return string(s)
}
