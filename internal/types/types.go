// =============================================================================
// Excel API Generator - Shared Types
// =============================================================================
//
// This package contains the data model shared by every stage of the pipeline
// so that the loader, mapper, builder and writers do not import each other.
// Types defined here are used by:
//   - xlsxparser / csvparser (produce Workbooks)
//   - mapper (rewrites Workbooks)
//   - converter (turns Workbooks into Payloads)
//   - validation, jsonwriter, curlwriter (consume Payloads)
//
// =============================================================================

package types

// =============================================================================
// ROW TYPES
// =============================================================================

// Cell is one column of a Row.
type Cell struct {
	// Column is the (cleaned, possibly mapped) column name.
	Column string

	// Value is the cell value.
	Value Value
}

// Row is an ordered mapping from column name to Value. Column names are
// unique; setting an existing column replaces the value in its original
// position.
type Row struct {
	cells []Cell
	index map[string]int
}

// NewRow builds a row from cells in order. A repeated column keeps the
// position of its first occurrence and the value of its last.
func NewRow(cells ...Cell) Row {
	r := Row{index: make(map[string]int, len(cells))}
	for _, c := range cells {
		r.Set(c.Column, c.Value)
	}
	return r
}

// Set stores value under column. Only loaders and mappers building a fresh
// row call this; rows handed to later stages are treated as immutable.
func (r *Row) Set(column string, value Value) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[column]; ok {
		r.cells[i].Value = value
		return
	}
	r.index[column] = len(r.cells)
	r.cells = append(r.cells, Cell{Column: column, Value: value})
}

// Get returns the value stored under column.
func (r Row) Get(column string) (Value, bool) {
	i, ok := r.index[column]
	if !ok {
		return nil, false
	}
	return r.cells[i].Value, true
}

// Columns returns the column names in order.
func (r Row) Columns() []string {
	cols := make([]string, len(r.cells))
	for i, c := range r.cells {
		cols[i] = c.Column
	}
	return cols
}

// Cells returns a copy of the row's cells in order.
func (r Row) Cells() []Cell {
	out := make([]Cell, len(r.cells))
	copy(out, r.cells)
	return out
}

// Len returns the number of columns in the row.
func (r Row) Len() int { return len(r.cells) }

// AllMissing reports whether every cell in the row is a MissingValue.
func (r Row) AllMissing() bool {
	for _, c := range r.cells {
		if !IsMissing(c.Value) {
			return false
		}
	}
	return true
}

// =============================================================================
// TABLE TYPES
// =============================================================================

// Table is one sheet of a source: a name, its ordered columns and its rows.
type Table struct {
	// Name is the sheet identifier.
	Name string

	// Columns are the header names in sheet order.
	Columns []string

	// Rows are the data rows in sheet order.
	Rows []Row
}

// HasColumn reports whether the table header contains column.
func (t *Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Workbook is an ordered set of tables keyed by sheet name.
type Workbook struct {
	Tables []*Table
}

// Sheet returns the table called name.
func (w *Workbook) Sheet(name string) (*Table, bool) {
	if w == nil {
		return nil, false
	}
	for _, t := range w.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Names returns the sheet names in order.
func (w *Workbook) Names() []string {
	if w == nil {
		return nil
	}
	names := make([]string, len(w.Tables))
	for i, t := range w.Tables {
		names[i] = t.Name
	}
	return names
}

// RowCount returns the total number of rows across all tables.
func (w *Workbook) RowCount() int {
	if w == nil {
		return 0
	}
	n := 0
	for _, t := range w.Tables {
		n += len(t.Rows)
	}
	return n
}

// Replace returns a new workbook in which the table called table.Name is
// swapped for table. Other tables are shared, not copied.
func (w *Workbook) Replace(table *Table) *Workbook {
	out := &Workbook{Tables: make([]*Table, len(w.Tables))}
	for i, t := range w.Tables {
		if t.Name == table.Name {
			out.Tables[i] = table
		} else {
			out.Tables[i] = t
		}
	}
	return out
}
