package core

import "fmt"

// Table is the tabular interchange shape shared by the export assembler and
// the persistence mirror: an ordered header plus rows of text cells. Amounts
// are formatted with two decimals, dates in dd/mm/yyyy, so a table survives a
// spreadsheet round trip byte-exactly. Document blobs never enter a Table.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates an empty table with the given header.
func NewTable(columns ...string) Table {
	return Table{Columns: columns}
}

// AppendRow adds one row. The cell count must match the header.
func (t *Table) AppendRow(cells ...string) error {
	if len(cells) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(cells), len(t.Columns))
	}
	t.Rows = append(t.Rows, cells)
	return nil
}

// IsEmpty reports whether the table has no rows.
func (t Table) IsEmpty() bool { return len(t.Rows) == 0 }

// Col returns the index of a named column, or -1.
func (t Table) Col(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the named cell of a row, or "" when the column is absent or
// the row is short.
func (t Table) Cell(row int, name string) string {
	i := t.Col(name)
	if i < 0 || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][i]
}

// Equal compares header and rows cell by cell.
func (t Table) Equal(o Table) bool {
	if len(t.Columns) != len(o.Columns) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for i := range t.Rows {
		if len(t.Rows[i]) != len(o.Rows[i]) {
			return false
		}
		for j := range t.Rows[i] {
			if t.Rows[i][j] != o.Rows[i][j] {
				return false
			}
		}
	}
	return true
}
