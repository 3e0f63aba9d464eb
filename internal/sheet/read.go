package sheet

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/postercast/postercast/internal/abstract"
)

var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// ParseFile loads a spreadsheet from disk, choosing the reader by extension:
// .csv via encoding/csv, .xlsx via excelize. Unknown extensions fail with
// ErrUnsupportedFormat.
func ParseFile(path string) ([]abstract.SpreadsheetRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseCSVFile(path)
	case ".xlsx":
		return parseXLSXFile(path)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ParseCSV reads comma-separated data from r. Ragged rows are tolerated; a
// structurally empty stream yields an empty row list.
func ParseCSV(r io.Reader) ([]abstract.SpreadsheetRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return ParseRecords(records), nil
}

func parseCSVFile(path string) ([]abstract.SpreadsheetRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCSV(f)
}

func parseXLSXFile(path string) ([]abstract.SpreadsheetRow, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	// A workbook without sheets is an empty listing, not an error.
	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return []abstract.SpreadsheetRow{}, nil
	}
	records, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return ParseRecords(records), nil
}
