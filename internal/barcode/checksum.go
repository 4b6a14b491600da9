package barcode

import "strconv"

// EAN13CheckDigit computes the check digit for 12 data digits.
//
// Digits at even 0-based positions are summed as-is, digits at odd positions
// are weighted by 3, and the check digit brings the total to a multiple of 10.
func EAN13CheckDigit(data string) (string, error) {
	if len(data) != 12 {
		return "", ErrInvalidLength
	}

	total := 0
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c < '0' || c > '9' {
			return "", ErrInvalidLength
		}
		d := int(c - '0')
		if i%2 == 1 {
			d *= 3
		}
		total += d
	}

	return strconv.Itoa((10 - total%10) % 10), nil
}

// ValidEAN13 reports whether s is 13 digits ending in the correct check digit.
func ValidEAN13(s string) bool {
	if len(s) != 13 {
		return false
	}
	check, err := EAN13CheckDigit(s[:12])
	if err != nil {
		return false
	}
	return s[12:] == check
}
