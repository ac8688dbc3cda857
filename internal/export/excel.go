// Package export serializes tables into spreadsheet byte streams and bundles
// them into backup archives and annual report workbooks.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"asdgest/internal/core"
)

// ExcelBytes renders a table as a single-sheet xlsx file.
func ExcelBytes(t core.Table, sheetName string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheet(f, sheetName, t); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseExcel reads a sheet back into a table. An empty sheet name selects the
// first sheet. Rows are padded back to the header width because trailing
// empty cells are trimmed on read.
func ParseExcel(b []byte, sheetName string) (core.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return core.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return core.Table{}, fmt.Errorf("workbook has no sheets")
		}
		sheetName = sheets[0]
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return core.Table{}, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return core.Table{}, nil
	}
	t := core.Table{Columns: rows[0]}
	for _, row := range rows[1:] {
		padded := make([]string, len(t.Columns))
		copy(padded, row)
		t.Rows = append(t.Rows, padded)
	}
	return t, nil
}

func writeSheet(f *excelize.File, sheetName string, t core.Table) error {
	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for j, c := range row {
			cells[j] = c
		}
		ref, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row ref: %w", err)
		}
		if err := f.SetSheetRow(sheetName, ref, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return nil
}
