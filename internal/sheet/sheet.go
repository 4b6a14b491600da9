// Package sheet reads material rows from uploaded spreadsheets.
//
// Only the first worksheet is read. Row 1 is a header and is skipped;
// columns A, B and C hold the material code, material name and raw
// barcode text.
package sheet

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// ErrInvalidSpreadsheet is returned when the upload cannot be parsed as a table.
var ErrInvalidSpreadsheet = errors.New("invalid spreadsheet")

// Row is one data row of the first worksheet.
type Row struct {
	Index        int // 1-based, header excluded
	MaterialCode string
	MaterialName string
	RawBarcode   string
}

// SheetRow returns the 1-based row number as shown in the spreadsheet.
func (r Row) SheetRow() int {
	return r.Index + 1
}

// Format is the container format of an uploaded table.
type Format int

const (
	FormatXLSX Format = iota
	FormatCSV
)

func (f Format) String() string {
	if f == FormatCSV {
		return "csv"
	}
	return "xlsx"
}

// DetectFormat picks the reader from the file name, falling back to the
// content type. Anything unrecognized is treated as xlsx.
func DetectFormat(fileName, contentType string) Format {
	if strings.EqualFold(filepath.Ext(fileName), ".csv") {
		return FormatCSV
	}
	if strings.HasPrefix(strings.ToLower(contentType), "text/csv") {
		return FormatCSV
	}
	return FormatXLSX
}

// Read parses r in the given format.
func Read(r io.Reader, format Format) ([]Row, error) {
	if format == FormatCSV {
		return ReadCSV(r)
	}
	return ReadXLSX(r)
}

// cell returns record[i] or "" when the row is shorter.
func cell(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}
