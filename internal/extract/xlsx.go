package extract

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// IsWorkbook reports whether name has a spreadsheet workbook extension.
func IsWorkbook(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// ReadFile extracts the configured column from path, choosing the reader by
// extension. Workbooks go through [ReadXLSXColumn], anything else is CSV.
func ReadFile(path string, opts Options) ([]string, error) {
	if IsWorkbook(path) {
		return ReadXLSXColumn(path, opts)
	}
	return ReadColumn(path, opts)
}

// Extract is the reader counterpart of ReadFile; name only selects the format.
func Extract(r io.Reader, name string, opts Options) ([]string, error) {
	if IsWorkbook(name) {
		return ExtractXLSXColumn(r, opts)
	}
	return ExtractColumn(r, opts)
}

// ReadXLSXColumn reads the configured column from a workbook sheet, applying
// the same header, short-row and normalization rules as the CSV reader.
func ReadXLSXColumn(path string, opts Options) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	values, err := sheetColumn(f, opts)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

// ExtractXLSXColumn reads a workbook from r.
func ExtractXLSXColumn(r io.Reader, opts Options) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return sheetColumn(f, opts)
}

func sheetColumn(f *excelize.File, opts Options) ([]string, error) {
	if opts.Column < 0 {
		return nil, fmt.Errorf("column index %d must be non-negative", opts.Column)
	}

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, ErrNoData
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}

	if opts.SkipHeader && len(rows) > 0 {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	values := make([]string, len(rows))
	for i, row := range rows {
		values[i] = cell(row, opts.Column)
	}
	return values, nil
}
