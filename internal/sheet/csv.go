package sheet

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jszwec/csvutil"
)

// csvRecord is the positional shape of a data row.
type csvRecord struct {
	MaterialCode string `csv:"material_code"`
	MaterialName string `csv:"material_name"`
	Barcode      string `csv:"barcode"`
}

var csvColumns = []string{"material_code", "material_name", "barcode"}

// ReadCSV reads data rows from a comma-separated file with a header line.
// The header text is ignored; columns are positional.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(newCleanReader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read header: %v", ErrInvalidSpreadsheet, err)
	}

	dec, err := csvutil.NewDecoder(&paddedReader{r: cr, width: len(csvColumns)}, csvColumns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpreadsheet, err)
	}

	var rows []Row
	for {
		var rec csvRecord
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidSpreadsheet, len(rows)+2, err)
		}
		rows = append(rows, Row{
			Index:        len(rows) + 1,
			MaterialCode: cleanCell(rec.MaterialCode),
			MaterialName: cleanCell(rec.MaterialName),
			RawBarcode:   stripFormula(rec.Barcode),
		})
	}
	return rows, nil
}

// paddedReader extends short records so csvutil always sees every column.
type paddedReader struct {
	r     *csv.Reader
	width int
}

func (p *paddedReader) Read() ([]string, error) {
	rec, err := p.r.Read()
	if err != nil {
		return nil, err
	}
	for len(rec) < p.width {
		rec = append(rec, "")
	}
	return rec[:p.width], nil
}

// cleanCell trims whitespace and Excel export artifacts from a text cell.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	s = stripFormula(s)
	return strings.Trim(s, `"'`)
}

// stripFormula unwraps ="..." which spreadsheet exports use to keep leading zeros.
func stripFormula(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, `="`) && strings.HasSuffix(t, `"`) && len(t) >= 3 {
		return t[2 : len(t)-1]
	}
	return s
}

// newCleanReader drops a leading UTF-8 BOM and replaces invalid UTF-8 with '?'.
func newCleanReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		br.Discard(3)
	}
	return &utf8Sanitizer{r: br}
}

// utf8Sanitizer rewrites invalid UTF-8 bytes as '?' without growing the stream.
// Incomplete trailing sequences are carried into the next Read.
type utf8Sanitizer struct {
	r       io.Reader
	pending []byte
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) < utf8.UTFMax {
		return 0, io.ErrShortBuffer
	}

	off := copy(p, s.pending)
	s.pending = s.pending[:0]

	n, err := s.r.Read(p[off:])
	n += off
	if n == 0 {
		return 0, err
	}

	atEOF := err == io.EOF
	w := 0
	for i := 0; i < n; {
		c, size := utf8.DecodeRune(p[i:n])
		if c == utf8.RuneError && size == 1 {
			if !atEOF && !utf8.FullRune(p[i:n]) {
				s.pending = append(s.pending, p[i:n]...)
				break
			}
			p[w] = '?'
			w++
			i++
			continue
		}
		copy(p[w:], p[i:i+size])
		w += size
		i += size
	}

	if w == 0 && len(s.pending) > 0 && err == nil {
		// Only a partial rune arrived; read again to complete it.
		return s.Read(p)
	}
	return w, err
}
