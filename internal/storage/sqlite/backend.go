// Package sqlite keeps tables and the contact list in a single SQLite
// database file. Every operation issues its own statement; there are no
// multi-statement transactions.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	domainerrors "github.com/leengari/contactbook/internal/domain/errors"
	"github.com/leengari/contactbook/internal/storage"
	"github.com/leengari/contactbook/internal/validation"

	_ "modernc.org/sqlite"
)

// driverName is the database/sql name registered by modernc.org/sqlite
const driverName = "sqlite"

const createContactsSQL = `CREATE TABLE IF NOT EXISTS contacts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT,
	phone TEXT
)`

// Backend is a SQLite database holding user tables and the contacts table
type Backend struct {
	db       *sql.DB
	contacts *ContactTable
	logger   *slog.Logger
}

var _ storage.Backend = (*Backend)(nil)

// Open opens (or creates) the database file and ensures the contacts table exists
func Open(ctx context.Context, path string, logger *slog.Logger) (*Backend, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// single user, single file: one connection avoids SQLITE_BUSY between pooled conns
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, createContactsSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create contacts table: %w", err)
	}

	logger.Info("sqlite store opened", slog.String("path", path))

	return &Backend{
		db:       db,
		contacts: &ContactTable{db: db},
		logger:   logger,
	}, nil
}

func (b *Backend) Name() string { return "sqlite" }

// tableExists looks the name up in sqlite_master using a bound parameter.
// SQLite identifiers ignore case, so the lookup does too.
func (b *Backend) tableExists(ctx context.Context, name string) (bool, error) {
	var found string
	err := b.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ? COLLATE NOCASE", name,
	).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up table %s: %w", name, err)
	}
	return true, nil
}

// CreateTable creates a table with an identity column followed by TEXT columns
func (b *Backend) CreateTable(ctx context.Context, name string, columns []string) error {
	if err := validation.ValidateTableName(name); err != nil {
		return err
	}

	defs := []string{validation.QuoteIdentifier(validation.IdentityColumn) + " INTEGER PRIMARY KEY AUTOINCREMENT"}
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if err := validation.ValidateColumnName(col); err != nil {
			return err
		}
		if seen[strings.ToLower(col)] {
			return &domainerrors.DuplicateColumnError{TableName: name, ColumnName: col}
		}
		seen[strings.ToLower(col)] = true
		defs = append(defs, validation.QuoteIdentifier(col)+" TEXT")
	}

	exists, err := b.tableExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return &domainerrors.TableExistsError{TableName: name}
	}

	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", validation.QuoteIdentifier(name), strings.Join(defs, ", "))
	if _, err := b.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}

	b.logger.Info("table created", "table", name, "columns", len(columns))
	return nil
}

// OpenTable returns a handle whose columns are read from the schema
func (b *Backend) OpenTable(ctx context.Context, name string) (storage.Table, error) {
	if err := validation.ValidateTableName(name); err != nil {
		return nil, err
	}

	exists, err := b.tableExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &domainerrors.TableNotFoundError{TableName: name}
	}

	t := &Table{db: b.db, name: name}
	if err := t.RefreshColumns(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

func (b *Backend) DropTable(ctx context.Context, name string) error {
	if err := validation.ValidateTableName(name); err != nil {
		return err
	}

	exists, err := b.tableExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return &domainerrors.TableNotFoundError{TableName: name}
	}

	if _, err := b.db.ExecContext(ctx, "DROP TABLE "+validation.QuoteIdentifier(name)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}

	b.logger.Info("table dropped", "table", name)
	return nil
}

// ListTables returns user table names, sorted; contacts and SQLite internals are left out
func (b *Backend) ListTables(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master
		 WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\' AND name != 'contacts'
		 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to list tables: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (b *Backend) Contacts() storage.ContactStore { return b.contacts }

func (b *Backend) Close() error {
	return b.db.Close()
}
