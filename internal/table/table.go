// Package table implements the ordered numeric tables the placement
// pipeline exchanges: star/SED lists, tile maps, and AST position lists,
// persisted as whitespace-delimited text with a single header line.
package table

import (
	"fmt"
	"strings"
)

// Column is a named float64 vector with an optional print format.
type Column struct {
	Name   string
	Data   []float64
	Format string // fmt verb applied on write; empty means shortest round-trip
}

// Table is an ordered collection of equal-length columns. Column order is
// significant and preserved through read/write round trips.
type Table struct {
	cols []Column
}

// New builds a table from the given columns. The table takes ownership of
// the column data slices. All columns must have the same length.
func New(cols ...Column) (*Table, error) {
	t := &Table{}
	for _, c := range cols {
		if err := t.Append(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NumRows returns the number of rows (the shared column length).
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Data)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the i-th column. The index must be in [0, NumCols).
func (t *Table) Column(i int) Column {
	return t.cols[i]
}

// Col returns the data slice of the named column. The slice is shared with
// the table; callers must not modify it.
func (t *Table) Col(name string) ([]float64, bool) {
	for _, c := range t.cols {
		if c.Name == name {
			return c.Data, true
		}
	}
	return nil, false
}

// Has reports whether a column with the given name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.Col(name)
	return ok
}

// Append adds a column to the end of the table. The column length must
// match the existing rows.
func (t *Table) Append(c Column) error {
	if len(t.cols) > 0 && len(c.Data) != t.NumRows() {
		return fmt.Errorf("table: column %q has %d rows, want %d",
			c.Name, len(c.Data), t.NumRows())
	}
	t.cols = append(t.cols, c)
	return nil
}

// String renders a short description for logging.
func (t *Table) String() string {
	return fmt.Sprintf("table(%d rows × %d cols: %s)",
		t.NumRows(), t.NumCols(), strings.Join(t.Names(), " "))
}
