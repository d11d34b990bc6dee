// Package export renders decoded PRO tables as Excel workbooks.
//
// Date columns keep the Excel pattern they were declared with in
// VARIABLE_TYPES, so a workbook opened in Excel displays dates the same way
// the modelling tool that produced the PRO file did.
package export

import (
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/procodec/internal/pro"
)

// DefaultSheet is the sheet name used when none is given.
const DefaultSheet = "Sheet1"

// DefaultDatePattern is applied to date columns without a declared pattern.
const DefaultDatePattern = "yyyy-mm-dd"

// WriteXLSX writes t to w as a single-sheet workbook.
func WriteXLSX(w io.Writer, t *pro.Table, sheet string) error {
	f, err := NewWorkbook(t, sheet)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// NewWorkbook builds a workbook with a bold header row followed by one row
// per table row. Numbers and dates are stored as native Excel values.
func NewWorkbook(t *pro.Table, sheet string) (*excelize.File, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet name %q: %w", sheet, err)
		}
	}

	if err := writeWorkbook(f, t, sheet); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeWorkbook(f *excelize.File, t *pro.Table, sheet string) error {
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for c, name := range t.ColumnNames() {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	if len(t.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	rows := t.NumRows()
	for c, col := range t.Columns {
		for r, cellValue := range col.Cells {
			v, ok := excelValue(cellValue)
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("column %q row %d: %w", col.Name, r, err)
			}
		}

		if col.Type.Kind != pro.KindDate || rows == 0 {
			continue
		}
		// Applied after the values: SetCellValue assigns its own date format
		// to time.Time cells.
		style, err := dateStyle(f, col.Type.ExcelPattern)
		if err != nil {
			return fmt.Errorf("column %q: %w", col.Name, err)
		}
		top, _ := excelize.CoordinatesToCellName(c+1, 2)
		bottom, _ := excelize.CoordinatesToCellName(c+1, rows+1)
		if err := f.SetCellStyle(sheet, top, bottom, style); err != nil {
			return err
		}
	}
	return nil
}

func dateStyle(f *excelize.File, pattern string) (int, error) {
	if pattern == "" {
		pattern = DefaultDatePattern
	}
	return f.NewStyle(&excelize.Style{CustomNumFmt: &pattern})
}

// excelValue unwraps a cell into something excelize can store. Null cells
// report false and are left empty.
func excelValue(cell any) (any, bool) {
	switch v := cell.(type) {
	case nil:
		return nil, false
	case pgtype.Text:
		return v.String, v.Valid
	case pgtype.Int8:
		return v.Int64, v.Valid
	case pgtype.Float8:
		return v.Float64, v.Valid
	case pgtype.Timestamp:
		return v.Time, v.Valid
	default:
		return v, true
	}
}
