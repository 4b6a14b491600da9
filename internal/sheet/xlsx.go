package sheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads data rows from the first worksheet of an xlsx workbook.
//
// Raw cell values are used so numeric barcodes keep every digit instead of
// the display format. Numbers stored in exponent form are expanded.
func ReadXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrInvalidSpreadsheet, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidSpreadsheet)
	}
	name := sheets[0]

	records, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrInvalidSpreadsheet, name, err)
	}

	rows := make([]Row, 0, max(len(records)-1, 0))
	for i := 1; i < len(records); i++ {
		rec := records[i]
		rows = append(rows, Row{
			Index:        i,
			MaterialCode: numericText(f, name, "A", i+1, cell(rec, 0)),
			MaterialName: cell(rec, 1),
			RawBarcode:   numericText(f, name, "C", i+1, cell(rec, 2)),
		})
	}
	return rows, nil
}

// numericText expands exponent notation ("1.23456789012E+11") of numeric
// cells into plain digits. String cells are returned untouched.
func numericText(f *excelize.File, sheet, col string, row int, raw string) string {
	if !strings.ContainsAny(raw, "eE") {
		return raw
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	typ, err := f.GetCellType(sheet, col+strconv.Itoa(row))
	if err != nil {
		return raw
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return raw
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
