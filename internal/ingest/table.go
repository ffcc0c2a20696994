package ingest

import "strings"

// Table is a reconstructed rows-by-columns view of a tabular source. Headers
// are cleaned column names; Rows hold the data body only.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ColumnCount returns the number of header columns.
func (t *Table) ColumnCount() int {
	return len(t.Headers)
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table has no data rows.
func (t *Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// Cell returns the value at the given row for the given column index, or ""
// when the row is ragged and does not reach that column.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// ColumnValues returns all non-empty values in the given column.
func (t *Table) ColumnValues(col int) []string {
	var values []string
	for i := range t.Rows {
		if v := t.Cell(i, col); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// FirstValue returns the first non-empty value in the given column.
func (t *Table) FirstValue(col int) string {
	for i := range t.Rows {
		if v := t.Cell(i, col); v != "" {
			return v
		}
	}
	return ""
}

// isBlankRow reports whether every cell in the row is empty after trimming.
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
