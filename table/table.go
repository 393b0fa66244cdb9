// Package table provides the immutable tabular value passed between
// pipeline stages. A Table is an ordered sequence of named columns whose
// cells are row-aligned strings; every transformation returns a new Table.
package table

import "strings"

// Table holds named columns of row-aligned string cells.
type Table struct {
	cols []string
	rows [][]string
}

// New builds a table from a header and rows. Short rows are padded with
// empty cells so every row has one cell per column.
func New(cols []string, rows [][]string) Table {
	c := make([]string, len(cols))
	copy(c, cols)
	r := make([][]string, len(rows))
	for i, row := range rows {
		r[i] = make([]string, len(cols))
		copy(r[i], row)
	}
	return Table{cols: c, rows: r}
}

// Columns returns a copy of the column names in order.
func (t Table) Columns() []string {
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.rows) }

// HasColumn reports whether a column with the exact name exists.
func (t Table) HasColumn(name string) bool { return t.indexOf(name) >= 0 }

// Cell returns the value at (row, column name), or "" when the column is
// absent.
func (t Table) Cell(row int, name string) string {
	idx := t.indexOf(name)
	if idx < 0 || row < 0 || row >= len(t.rows) {
		return ""
	}
	return t.rows[row][idx]
}

// Column returns a copy of all values of the named column, or nil when the
// column is absent.
func (t Table) Column(name string) []string {
	idx := t.indexOf(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}
	return out
}

// Row returns a copy of the cells of one row.
func (t Table) Row(i int) []string {
	out := make([]string, len(t.cols))
	copy(out, t.rows[i])
	return out
}

func (t Table) indexOf(name string) int {
	for i, c := range t.cols {
		if c == name {
			return i
		}
	}
	return -1
}

// WithColumn returns a table with the named column set to values. An
// existing column is replaced in place; a new column is appended. Values
// shorter than the row count are padded with empty cells.
func (t Table) WithColumn(name string, values []string) Table {
	idx := t.indexOf(name)
	cols := t.Columns()
	if idx < 0 {
		cols = append(cols, name)
		idx = len(cols) - 1
	}
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		nr := make([]string, len(cols))
		copy(nr, row)
		if i < len(values) {
			nr[idx] = values[i]
		}
		rows[i] = nr
	}
	return Table{cols: cols, rows: rows}
}

// Rename returns a table with column names replaced per the mapping.
// Unknown keys are ignored.
func (t Table) Rename(mapping map[string]string) Table {
	cols := t.Columns()
	for i, c := range cols {
		if to, ok := mapping[c]; ok {
			cols[i] = to
		}
	}
	out := t
	out.cols = cols
	return out
}

// Select returns a table reduced to the given columns in the given order.
// Requested columns that do not exist are skipped.
func (t Table) Select(names []string) Table {
	idxs := make([]int, 0, len(names))
	cols := make([]string, 0, len(names))
	for _, n := range names {
		if idx := t.indexOf(n); idx >= 0 {
			idxs = append(idxs, idx)
			cols = append(cols, n)
		}
	}
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		nr := make([]string, len(idxs))
		for j, idx := range idxs {
			nr[j] = row[idx]
		}
		rows[i] = nr
	}
	return Table{cols: cols, rows: rows}
}

// Filter returns a table keeping only the rows for which keep returns true.
func (t Table) Filter(keep func(row int) bool) Table {
	rows := make([][]string, 0, len(t.rows))
	for i := range t.rows {
		if keep(i) {
			nr := make([]string, len(t.cols))
			copy(nr, t.rows[i])
			rows = append(rows, nr)
		}
	}
	return Table{cols: t.Columns(), rows: rows}
}

// DropColumns returns a table without the named columns.
func (t Table) DropColumns(names ...string) Table {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	keep := make([]string, 0, len(t.cols))
	for _, c := range t.cols {
		if _, ok := drop[c]; !ok {
			keep = append(keep, c)
		}
	}
	return t.Select(keep)
}

// IsEmptyColumn reports whether every cell of the named column is blank.
func (t Table) IsEmptyColumn(name string) bool {
	idx := t.indexOf(name)
	if idx < 0 {
		return true
	}
	for _, row := range t.rows {
		if strings.TrimSpace(row[idx]) != "" {
			return false
		}
	}
	return true
}

// Head returns a table containing at most n leading rows.
func (t Table) Head(n int) Table {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		rows[i] = t.Row(i)
	}
	return Table{cols: t.Columns(), rows: rows}
}

// Maps converts rows into column-keyed maps, used for JSON previews.
func (t Table) Maps() []map[string]string {
	out := make([]map[string]string, len(t.rows))
	for i, row := range t.rows {
		m := make(map[string]string, len(t.cols))
		for j, c := range t.cols {
			m[c] = row[j]
		}
		out[i] = m
	}
	return out
}
