package data

import (
	"iter"
	"strings"
)

// Placeholder is rendered in place of a value the row does not hold
const Placeholder = "N/A"

// Row represents a single table row
// Key = column name, Value = cell value
type Row struct {
	// ID is the identity column value for SQLite tables and the 1-based
	// position for file tables. It is never written to a flat file.
	ID   int64
	Data map[string]string
}

// NewRow creates a new Row with the given data
func NewRow(id int64, data map[string]string) Row {
	if data == nil {
		data = make(map[string]string)
	}
	return Row{
		ID:   id,
		Data: data,
	}
}

// Copy creates a deep copy of the row to prevent mutation
func (r Row) Copy() Row {
	copy := make(map[string]string, len(r.Data))
	for k, v := range r.Data {
		copy[k] = v
	}
	return Row{
		ID:   r.ID,
		Data: copy,
	}
}

// Get returns the value stored for column and whether it is present
func (r Row) Get(column string) (string, bool) {
	v, ok := r.Data[column]
	return v, ok
}

// Set stores value under column. An empty value is stored as missing,
// which is how both the table file and NULL read it back.
func (r Row) Set(column, value string) {
	if value == "" {
		delete(r.Data, column)
		return
	}
	r.Data[column] = value
}

// Matches reports whether the row holds value under column.
// A missing value matches the empty string.
func (r Row) Matches(column, value string) bool {
	return r.Data[column] == value
}

// Format renders the row's values in column order, tab separated
func (r Row) Format(columns []string) string {
	fields := make([]string, len(columns))
	for i, col := range columns {
		if v, ok := r.Data[col]; ok {
			fields[i] = v
		} else {
			fields[i] = Placeholder
		}
	}
	return strings.Join(fields, "\t")
}

// Lines yields the header line followed by one line per row.
// The sequence holds no state of its own, so ranging over it again
// starts from the header.
func Lines(columns []string, rows []Row) iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield(strings.Join(columns, "\t")) {
			return
		}
		for _, row := range rows {
			if !yield(row.Format(columns)) {
				return
			}
		}
	}
}
