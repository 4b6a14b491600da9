package barcode

import (
	"strings"
	"unicode/utf8"
)

// Normalize validates raw cell text and returns the canonical barcode for sym.
//
// row is the sheet row number reported in any returned *RowError.
//
// For EAN13 the length floor of 12 is checked against the raw text, then all
// non-digits are stripped. Twelve digits get a check digit appended; thirteen
// digits have their last digit replaced by a recomputed one. Code128B text is
// returned unchanged.
func Normalize(sym Symbology, raw string, row int) (string, error) {
	switch sym {
	case EAN13:
		return normalizeEAN13(raw, row)
	case Code128B:
		return raw, nil
	default:
		return "", &RowError{Row: row, Err: ErrUnsupportedCharacters}
	}
}

func normalizeEAN13(raw string, row int) (string, error) {
	if utf8.RuneCountInString(raw) < 12 {
		return "", &RowError{Row: row, Err: ErrTooShortForFormat}
	}

	digits := digitsOnly(raw)

	var data string
	switch len(digits) {
	case 12:
		data = digits
	case 13:
		// The supplied check digit is never trusted.
		data = digits[:12]
	default:
		return "", &RowError{Row: row, Err: ErrInvalidLength}
	}

	check, err := EAN13CheckDigit(data)
	if err != nil {
		return "", &RowError{Row: row, Err: err}
	}
	return data + check, nil
}

// digitsOnly drops every byte outside '0'-'9'.
func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
