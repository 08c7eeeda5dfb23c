package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrInvalidInput marks failures caused by the uploaded file itself
// (unsupported format, missing column, unparsable cell).
var ErrInvalidInput = errors.New("invalid input")

// Read decodes an uploaded order sheet. The format is chosen from name's
// extension: .xlsx (first worksheet) or .csv.
func Read(name string, r io.Reader) (Sheet, error) {
	var rows [][]string
	var err error

	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(r)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return Sheet{}, fmt.Errorf("ingest: unsupported file type %q: %w", ext, ErrInvalidInput)
	}
	if err != nil {
		return Sheet{}, err
	}

	return ParseRows(rows)
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: open workbook: %v: %w", err, ErrInvalidInput)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("ingest: workbook has no sheets: %w", ErrInvalidInput)
	}

	// Raw values keep date cells as serial numbers instead of locale formatting.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("ingest: read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ingest: read csv: %v: %w", err, ErrInvalidInput)
	}
	return rows, nil
}
