// Package excel wraps the excelize primitives used across the module:
// reading the first sheet of an uploaded or bundled workbook into header
// rows, and building a workbook out of tabular data.
package excel

import (
	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

// Sheet holds the first worksheet of a workbook: the header row and every
// data row below it. Cells are raw values, so date cells keep their
// numeric serial instead of a display format.
type Sheet struct {
	Headers []string
	Rows    [][]string
}

// ReadFirstSheet opens a workbook and reads its first worksheet.
func ReadFirstSheet(path string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open workbook")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrap(err, "failed to read sheet")
	}
	if len(rows) == 0 {
		return &Sheet{}, nil
	}
	return &Sheet{Headers: rows[0], Rows: rows[1:]}, nil
}

// RowMap maps the i-th data row by header name. Cells beyond the header
// row are dropped; short rows yield empty strings for the missing columns.
func (s *Sheet) RowMap(i int) map[string]string {
	out := make(map[string]string, len(s.Headers))
	row := s.Rows[i]
	for col, header := range s.Headers {
		if col < len(row) {
			out[header] = row[col]
		} else {
			out[header] = ""
		}
	}
	return out
}

// DateSerialToTime converts a spreadsheet numeric date serial to a time.
func DateSerialToTime(serial float64) (y int, m int, d int, err error) {
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return 0, 0, 0, errors.Wrap(err, "invalid date serial")
	}
	return t.Year(), int(t.Month()), t.Day(), nil
}

// WriteSheet builds a single-sheet workbook from a header row and data rows.
func WriteSheet(name string, headers []string, rows [][]any) (*excelize.File, error) {
	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, name); err != nil {
		return nil, err
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return nil, err
		}
	}
	for r, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(name, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
