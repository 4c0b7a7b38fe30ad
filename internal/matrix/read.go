package matrix

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/testgest/internal/model"
)

// SupportedExtensions lists the signal matrix formats this package can read.
var SupportedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".csv":  true,
}

// IsSupportedExtension checks if a matrix file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Read parses matrix data, choosing the format from filename.
func Read(r io.Reader, filename string) (Table, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx", ".xlsm":
		return ReadXLSX(r)
	case ".csv":
		return ReadCSV(r)
	default:
		return Table{}, fmt.Errorf("unsupported matrix extension: %s", ext)
	}
}

// ReadFile opens and parses a matrix file. A missing file is reported as a
// *model.MissingInputError.
func ReadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Table{}, &model.MissingInputError{Kind: "matrix", Path: path}
		}
		return Table{}, fmt.Errorf("open matrix: %w", err)
	}
	defer f.Close()
	return Read(f, filepath.Base(path))
}

// ReadXLSX reads the active worksheet of a workbook. Values are taken
// unformatted; the cell type decides whether a value counts as text.
func ReadXLSX(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Table{}, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var t Table
	for i, values := range rows {
		row := make([]Cell, len(values))
		for j, raw := range values {
			if row[j], err = xlsxCell(f, sheet, j+1, i+1, raw); err != nil {
				return Table{}, err
			}
		}
		if i == 0 {
			t.Header = row
		} else {
			t.Rows = append(t.Rows, row)
		}
	}
	return t, nil
}

func xlsxCell(f *excelize.File, sheet string, col, row int, raw string) (Cell, error) {
	if strings.TrimSpace(raw) == "" {
		return Cell{}, nil
	}
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Cell{}, err
	}
	typ, err := f.GetCellType(sheet, ref)
	if err != nil {
		return Cell{}, fmt.Errorf("cell %s: %w", ref, err)
	}
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate, excelize.CellTypeBool:
		return NumberCell(raw), nil
	default:
		return TextCell(raw), nil
	}
}

// ReadCSV reads a comma-separated matrix; the first record is the header.
// CSV carries no types, so every non-blank value is text.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse csv: %w", err)
	}

	var t Table
	for i, rec := range records {
		row := make([]Cell, len(rec))
		for j, raw := range rec {
			row[j] = TextCell(raw)
		}
		if i == 0 {
			t.Header = row
		} else {
			t.Rows = append(t.Rows, row)
		}
	}
	return t, nil
}
