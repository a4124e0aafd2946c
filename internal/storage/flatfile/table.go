package flatfile

import (
	"context"
	"log/slog"

	"github.com/leengari/contactbook/internal/domain/data"
	"github.com/leengari/contactbook/internal/domain/schema"
	"github.com/leengari/contactbook/internal/domain/transaction"
	"github.com/leengari/contactbook/internal/storage"
	"github.com/leengari/contactbook/internal/storage/writer"
	"github.com/leengari/contactbook/internal/validation"
)

// Table is a table file loaded into memory. Changes stay in memory until Save.
type Table struct {
	table  *schema.Table
	logger *slog.Logger
}

var _ storage.Table = (*Table)(nil)

func (t *Table) Name() string { return t.table.Name }

func (t *Table) Columns() []string { return t.table.ColumnList() }

// RefreshColumns is a no-op: the in-memory column list is authoritative
func (t *Table) RefreshColumns(ctx context.Context) error { return nil }

func (t *Table) AddColumn(ctx context.Context, name string) error {
	if err := validation.ValidateColumnName(name); err != nil {
		return err
	}
	return t.table.AddColumn(name)
}

func (t *Table) InsertRow(ctx context.Context, tx *transaction.Transaction, values map[string]string) error {
	_, err := t.table.Insert(values, tx)
	return err
}

func (t *Table) UpdateRows(ctx context.Context, tx *transaction.Transaction, key, oldValue, newValue string) (int, error) {
	return t.table.Update(key, oldValue, newValue, tx)
}

func (t *Table) DeleteRows(ctx context.Context, tx *transaction.Transaction, key, value string) (int, error) {
	return t.table.Delete(key, value, tx)
}

// SetCell silently ignores an unknown row id
func (t *Table) SetCell(ctx context.Context, tx *transaction.Transaction, rowID int64, column, value string) error {
	_, err := t.table.SetCell(rowID, column, value, tx)
	return err
}

func (t *Table) Rows(ctx context.Context) ([]data.Row, error) {
	return t.table.SelectAll(), nil
}

// Save rewrites the table file if anything changed since the last save
func (t *Table) Save(ctx context.Context) error {
	return writer.FlushTableIfDirty(t.table, t.logger)
}
