package schema

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/leengari/contactbook/internal/domain/data"
	domainerrors "github.com/leengari/contactbook/internal/domain/errors"
	"github.com/leengari/contactbook/internal/domain/transaction"
)

// Table is an in-memory table: ordered columns and ordered rows
type Table struct {
	mu      sync.RWMutex
	Name    string
	Path    string // file backing the table, empty when not persisted
	Columns []string
	Rows    []data.Row
	LastID  int64
	Dirty   bool // tracks if table has unsaved changes
}

// NewTable creates an empty table with the given columns
func NewTable(name, path string, columns []string) *Table {
	return &Table{
		Name:    name,
		Path:    path,
		Columns: slices.Clone(columns),
		Rows:    make([]data.Row, 0),
	}
}

// MarkDirtyUnsafe sets dirty flag without acquiring lock
// IMPORTANT: Only call this when you already hold the table lock!
func (t *Table) MarkDirtyUnsafe() {
	t.Dirty = true
}

// Lock acquires an exclusive lock on the table for write operations
func (t *Table) Lock() {
	t.mu.Lock()
}

// Unlock releases the exclusive lock
func (t *Table) Unlock() {
	t.mu.Unlock()
}

// RLock acquires a read lock on the table for read operations
func (t *Table) RLock() {
	t.mu.RLock()
}

// RUnlock releases the read lock
func (t *Table) RUnlock() {
	t.mu.RUnlock()
}

// ColumnList returns a copy of the column names in order
func (t *Table) ColumnList() []string {
	t.RLock()
	defer t.RUnlock()
	return slices.Clone(t.Columns)
}

// AddColumn appends a column. Existing rows are not backfilled.
func (t *Table) AddColumn(name string) error {
	t.Lock()
	defer t.Unlock()

	if slices.Contains(t.Columns, name) {
		return &domainerrors.DuplicateColumnError{TableName: t.Name, ColumnName: name}
	}

	t.Columns = append(t.Columns, name)
	t.MarkDirtyUnsafe()
	return nil
}

// Insert appends a row holding the values supplied for known columns.
// Columns without a value stay missing and render as the placeholder.
func (t *Table) Insert(values map[string]string, tx *transaction.Transaction) (data.Row, error) {
	t.Lock()
	defer t.Unlock()

	if len(t.Columns) == 0 {
		return data.Row{}, &domainerrors.NoSchemaError{Table: t.Name}
	}

	for col := range values {
		if !slices.Contains(t.Columns, col) {
			return data.Row{}, &domainerrors.ColumnNotFoundError{TableName: t.Name, ColumnName: col}
		}
	}

	t.LastID++
	row := data.NewRow(t.LastID, nil)
	for col, v := range values {
		row.Set(col, v)
	}

	t.Rows = append(t.Rows, row)
	t.MarkDirtyUnsafe()

	if tx != nil {
		slog.Debug("Insert operation", "table", t.Name, "tx_id", tx.ID)
		tx.Record(transaction.Change{
			Type:  transaction.ChangeTypeInsert,
			Table: t.Name,
			RowID: row.ID,
			Data:  row.Copy().Data,
		})
	}

	return row.Copy(), nil
}

// SelectAll returns a copy of all rows of the table
func (t *Table) SelectAll() []data.Row {
	t.RLock()
	defer t.RUnlock()

	rows := make([]data.Row, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = row.Copy()
	}
	return rows
}

// Update sets key to newValue on every row where key equals oldValue.
// Returns the number of rows updated
func (t *Table) Update(key, oldValue, newValue string, tx *transaction.Transaction) (int, error) {
	t.Lock()
	defer t.Unlock()

	if err := t.checkColumnUnsafe(key); err != nil {
		return 0, err
	}

	count := 0
	for i, row := range t.Rows {
		if !row.Matches(key, oldValue) {
			continue
		}
		old := row.Copy().Data
		t.Rows[i].Set(key, newValue)
		count++

		if tx != nil {
			tx.Record(transaction.Change{
				Type:    transaction.ChangeTypeUpdate,
				Table:   t.Name,
				RowID:   row.ID,
				Data:    t.Rows[i].Copy().Data,
				OldData: old,
			})
		}
	}

	if count > 0 {
		t.MarkDirtyUnsafe()
	}

	if tx != nil {
		slog.Debug("Update operation", "table", t.Name, "tx_id", tx.ID, "rows", count)
	}

	return count, nil
}

// Delete removes every row where key equals value.
// Returns the number of rows deleted
func (t *Table) Delete(key, value string, tx *transaction.Transaction) (int, error) {
	t.Lock()
	defer t.Unlock()

	if err := t.checkColumnUnsafe(key); err != nil {
		return 0, err
	}

	newRows := make([]data.Row, 0, len(t.Rows))
	deleted := 0

	for _, row := range t.Rows {
		if !row.Matches(key, value) {
			newRows = append(newRows, row)
			continue
		}
		deleted++
		if tx != nil {
			tx.Record(transaction.Change{
				Type:    transaction.ChangeTypeDelete,
				Table:   t.Name,
				RowID:   row.ID,
				OldData: row.Copy().Data,
			})
		}
	}

	if deleted > 0 {
		t.Rows = newRows
		t.MarkDirtyUnsafe()
	}

	if tx != nil {
		slog.Debug("Delete operation", "table", t.Name, "tx_id", tx.ID, "rows", deleted)
	}

	return deleted, nil
}

// SetCell stores value under column for the row with the given id.
// Returns false when no row carries that id
func (t *Table) SetCell(rowID int64, column, value string, tx *transaction.Transaction) (bool, error) {
	t.Lock()
	defer t.Unlock()

	if err := t.checkColumnUnsafe(column); err != nil {
		return false, err
	}

	for i, row := range t.Rows {
		if row.ID != rowID {
			continue
		}
		old := row.Copy().Data
		t.Rows[i].Set(column, value)
		t.MarkDirtyUnsafe()

		if tx != nil {
			tx.Record(transaction.Change{
				Type:    transaction.ChangeTypeUpdate,
				Table:   t.Name,
				RowID:   rowID,
				Data:    t.Rows[i].Copy().Data,
				OldData: old,
			})
		}
		return true, nil
	}

	return false, nil
}

// checkColumnUnsafe must be called while holding a lock
func (t *Table) checkColumnUnsafe(column string) error {
	if len(t.Columns) == 0 {
		return &domainerrors.NoSchemaError{Table: t.Name}
	}
	if !slices.Contains(t.Columns, column) {
		return &domainerrors.ColumnNotFoundError{TableName: t.Name, ColumnName: column}
	}
	return nil
}
