package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/leengari/contactbook/internal/domain/data"
	domainerrors "github.com/leengari/contactbook/internal/domain/errors"
	"github.com/leengari/contactbook/internal/domain/transaction"
	"github.com/leengari/contactbook/internal/storage"
	"github.com/leengari/contactbook/internal/validation"
)

// Table is a handle on a relational table. Only the column list is cached.
type Table struct {
	db      *sql.DB
	name    string
	columns []string // includes the identity column
}

var _ storage.Table = (*Table)(nil)

func (t *Table) Name() string { return t.name }

func (t *Table) Columns() []string { return slices.Clone(t.columns) }

func (t *Table) quotedName() string { return validation.QuoteIdentifier(t.name) }

// RefreshColumns re-reads the column list with PRAGMA table_info
func (t *Table) RefreshColumns(ctx context.Context) error {
	rows, err := t.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", t.quotedName()))
	if err != nil {
		return fmt.Errorf("failed to read columns of %s: %w", t.name, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("failed to read columns of %s: %w", t.name, err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read columns of %s: %w", t.name, err)
	}

	t.columns = columns
	return nil
}

// userColumns are the columns a caller supplies values for
func (t *Table) userColumns() []string {
	cols := make([]string, 0, len(t.columns))
	for _, col := range t.columns {
		if col != validation.IdentityColumn {
			cols = append(cols, col)
		}
	}
	return cols
}

func (t *Table) checkColumn(column string) error {
	if len(t.userColumns()) == 0 {
		return &domainerrors.NoSchemaError{Table: t.name}
	}
	if !slices.Contains(t.columns, column) {
		return &domainerrors.ColumnNotFoundError{TableName: t.name, ColumnName: column}
	}
	return nil
}

// AddColumn appends a TEXT column; existing rows hold NULL for it
func (t *Table) AddColumn(ctx context.Context, name string) error {
	if err := validation.ValidateColumnName(name); err != nil {
		return err
	}
	if slices.ContainsFunc(t.columns, func(c string) bool { return strings.EqualFold(c, name) }) {
		return &domainerrors.DuplicateColumnError{TableName: t.name, ColumnName: name}
	}

	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT", t.quotedName(), validation.QuoteIdentifier(name))
	if _, err := t.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to add column %s to %s: %w", name, t.name, err)
	}

	return t.RefreshColumns(ctx)
}

// InsertRow binds one value per non-identity column; absent or empty values become NULL
func (t *Table) InsertRow(ctx context.Context, tx *transaction.Transaction, values map[string]string) error {
	cols := t.userColumns()
	if len(cols) == 0 {
		return &domainerrors.NoSchemaError{Table: t.name}
	}
	for col := range values {
		if !slices.Contains(cols, col) {
			return &domainerrors.ColumnNotFoundError{TableName: t.name, ColumnName: col}
		}
	}

	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		quoted[i] = validation.QuoteIdentifier(col)
		placeholders[i] = "?"
		args[i] = nullable(values[col])
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.quotedName(), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))

	res, err := t.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", t.name, err)
	}

	if tx != nil {
		id, _ := res.LastInsertId()
		row := make(map[string]string, len(values))
		for k, v := range values {
			row[k] = v
		}
		tx.Record(transaction.Change{
			Type:  transaction.ChangeTypeInsert,
			Table: t.name,
			RowID: id,
			Data:  row,
		})
	}
	return nil
}

// UpdateRows sets key to newValue on every row where key equals oldValue
func (t *Table) UpdateRows(ctx context.Context, tx *transaction.Transaction, key, oldValue, newValue string) (int, error) {
	if err := t.checkColumn(key); err != nil {
		return 0, err
	}

	col := validation.QuoteIdentifier(key)
	stmt := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s RETURNING %s",
		t.quotedName(), col, matchClause(col), validation.QuoteIdentifier(validation.IdentityColumn))

	ids, err := t.queryIDs(ctx, stmt, nullable(newValue), oldValue)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s: %w", t.name, err)
	}

	if tx != nil {
		for _, id := range ids {
			tx.Record(transaction.Change{
				Type:    transaction.ChangeTypeUpdate,
				Table:   t.name,
				RowID:   id,
				Data:    map[string]string{key: newValue},
				OldData: map[string]string{key: oldValue},
			})
		}
	}
	return len(ids), nil
}

// DeleteRows removes every row where key equals value
func (t *Table) DeleteRows(ctx context.Context, tx *transaction.Transaction, key, value string) (int, error) {
	if err := t.checkColumn(key); err != nil {
		return 0, err
	}

	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s RETURNING %s",
		t.quotedName(), matchClause(validation.QuoteIdentifier(key)), validation.QuoteIdentifier(validation.IdentityColumn))

	ids, err := t.queryIDs(ctx, stmt, value)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", t.name, err)
	}

	if tx != nil {
		for _, id := range ids {
			tx.Record(transaction.Change{
				Type:    transaction.ChangeTypeDelete,
				Table:   t.name,
				RowID:   id,
				OldData: map[string]string{key: value},
			})
		}
	}
	return len(ids), nil
}

// SetCell updates a single cell addressed by the identity column
func (t *Table) SetCell(ctx context.Context, tx *transaction.Transaction, rowID int64, column, value string) error {
	if err := t.checkColumn(column); err != nil {
		return err
	}

	stmt := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s = ?",
		t.quotedName(), validation.QuoteIdentifier(column), validation.QuoteIdentifier(validation.IdentityColumn))
	if _, err := t.db.ExecContext(ctx, stmt, nullable(value), rowID); err != nil {
		return fmt.Errorf("failed to update row %d of %s: %w", rowID, t.name, err)
	}

	if tx != nil {
		tx.Record(transaction.Change{
			Type:  transaction.ChangeTypeUpdate,
			Table: t.name,
			RowID: rowID,
			Data:  map[string]string{column: value},
		})
	}
	return nil
}

// Rows reads the whole table ordered by identity. NULL cells are left out
// of the row so they render as the placeholder.
func (t *Table) Rows(ctx context.Context) ([]data.Row, error) {
	rows, err := t.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY %s",
		t.quotedName(), validation.QuoteIdentifier(validation.IdentityColumn)))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", t.name, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", t.name, err)
	}

	var result []data.Row
	values := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", t.name, err)
		}
		row := data.NewRow(0, nil)
		for i, col := range cols {
			if !values[i].Valid {
				continue
			}
			row.Data[col] = values[i].String
			if col == validation.IdentityColumn {
				row.ID, _ = strconv.ParseInt(values[i].String, 10, 64)
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", t.name, err)
	}

	return result, nil
}

// Save is a no-op: every statement writes through
func (t *Table) Save(ctx context.Context) error { return nil }

// queryIDs runs a statement with a RETURNING id clause and collects the ids
func (t *Table) queryIDs(ctx context.Context, stmt string, args ...any) ([]int64, error) {
	rows, err := t.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// nullable binds an empty value as NULL, the same missing value a file
// table stores for an empty field
func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// matchClause compares a quoted column with one bound value, treating NULL
// as the empty string
func matchClause(quotedColumn string) string {
	return fmt.Sprintf("COALESCE(%s, '') = ?", quotedColumn)
}
