// Package table is a small in-memory table abstraction with named columns
// and rows addressable by position, persisted as delimiter-separated flat
// files. It is the storage medium for the annotation tables; it is not a
// database engine and assumes a single process and a single writer.
package table

// Record is one row keyed by column name. Values are always scalar
// strings; list-valued fields are delimiter-joined before they get here.
type Record map[string]string

// Table is an ordered collection of fixed-schema rows. The zero value is
// not usable, use New.
type Table struct {
	columns []string
	colpos  map[string]int
	rows    [][]string
}

// New returns an empty table with the given column order.
func New(columns ...string) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		colpos:  make(map[string]int, len(columns)),
	}
	for i, c := range t.columns {
		t.colpos[c] = i
	}
	return t
}

// Columns returns the column names in declaration order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Get returns the value at (row, column). Columns outside the schema read
// as the empty string.
func (t *Table) Get(row int, column string) string {
	i, ok := t.colpos[column]
	if !ok {
		return ""
	}
	return t.rows[row][i]
}

// Set writes value at (row, column). Columns outside the schema are
// ignored; the schemas are fixed and records are built from them.
func (t *Table) Set(row int, column, value string) {
	if i, ok := t.colpos[column]; ok {
		t.rows[row][i] = value
	}
}

// Append adds rec as a new row. Schema columns absent from rec are empty.
func (t *Table) Append(rec Record) {
	row := make([]string, len(t.columns))
	for i, c := range t.columns {
		row[i] = rec[c]
	}
	t.rows = append(t.rows, row)
}

// Row returns a copy of row i keyed by column name.
func (t *Table) Row(i int) Record {
	rec := make(Record, len(t.columns))
	for j, c := range t.columns {
		rec[c] = t.rows[i][j]
	}
	return rec
}

// FindRowIndex returns the position of the first row whose column equals
// value. Rows behind a duplicate key are unreachable through it.
func (t *Table) FindRowIndex(column, value string) (int, bool) {
	i, ok := t.colpos[column]
	if !ok {
		return 0, false
	}
	for j, row := range t.rows {
		if row[i] == value {
			return j, true
		}
	}
	return 0, false
}

// FindRows returns a new table holding every row whose column equals
// value, in order.
func (t *Table) FindRows(column, value string) *Table {
	return t.Filter(func(rec Record) bool {
		return rec[column] == value
	})
}

// Filter returns a new table holding the rows keep accepts, in order. The
// receiver is left unchanged.
func (t *Table) Filter(keep func(Record) bool) *Table {
	out := New(t.columns...)
	for i, row := range t.rows {
		if keep(t.Row(i)) {
			out.rows = append(out.rows, append([]string(nil), row...))
		}
	}
	return out
}

// Values returns every value of one column, in row order.
func (t *Table) Values(column string) []string {
	i, ok := t.colpos[column]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, row[i])
	}
	return out
}

// Clear drops every row, keeping the schema.
func (t *Table) Clear() {
	t.rows = nil
}

// Clone returns a deep copy sharing no row storage with t.
func (t *Table) Clone() *Table {
	out := New(t.columns...)
	out.rows = make([][]string, len(t.rows))
	for i, row := range t.rows {
		out.rows[i] = append([]string(nil), row...)
	}
	return out
}
