// Package flatfile stores each table as a comma-separated text file in a
// tables directory and the contact list as one more such file.
package flatfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	domainerrors "github.com/leengari/contactbook/internal/domain/errors"
	"github.com/leengari/contactbook/internal/domain/schema"
	"github.com/leengari/contactbook/internal/storage"
	"github.com/leengari/contactbook/internal/storage/loader"
	"github.com/leengari/contactbook/internal/storage/writer"
	"github.com/leengari/contactbook/internal/validation"
)

// tableExt is appended to a table name to form its file name
const tableExt = ".txt"

// Backend keeps tables under a directory on disk
type Backend struct {
	dir      string
	contacts *ContactFile
	logger   *slog.Logger
}

var _ storage.Backend = (*Backend)(nil)

// Open prepares the tables directory, creating it if needed
func Open(tablesDir, contactsPath string, logger *slog.Logger) (*Backend, error) {
	if err := os.MkdirAll(tablesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create tables directory: %w", err)
	}

	logger.Info("file store opened",
		slog.String("tables_dir", tablesDir),
		slog.String("contacts_file", contactsPath),
	)

	return &Backend{
		dir:      tablesDir,
		contacts: NewContactFile(contactsPath, logger),
		logger:   logger,
	}, nil
}

func (b *Backend) Name() string { return "file" }

func (b *Backend) tablePath(name string) string {
	return filepath.Join(b.dir, name+tableExt)
}

// CreateTable writes a new table file holding only the header line
func (b *Backend) CreateTable(ctx context.Context, name string, columns []string) error {
	if err := validation.ValidateTableName(name); err != nil {
		return err
	}
	for i, col := range columns {
		if err := validation.ValidateColumnName(col); err != nil {
			return err
		}
		if slices.Contains(columns[:i], col) {
			return &domainerrors.DuplicateColumnError{TableName: name, ColumnName: col}
		}
	}

	path := b.tablePath(name)

	// Check if exists
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return &domainerrors.TableExistsError{TableName: name}
	}

	table := schema.NewTable(name, path, columns)
	if err := writer.WriteFileAtomic(path, []byte(writer.EncodeTable(table))); err != nil {
		return fmt.Errorf("failed to create table file: %w", err)
	}

	b.logger.Info("table created", "table", name, "columns", len(columns))
	return nil
}

// OpenTable loads the whole table file into memory
func (b *Backend) OpenTable(ctx context.Context, name string) (storage.Table, error) {
	if err := validation.ValidateTableName(name); err != nil {
		return nil, err
	}

	t, err := loader.LoadTable(name, b.tablePath(name), b.logger)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domainerrors.TableNotFoundError{TableName: name}
		}
		return nil, err
	}

	return &Table{table: t, logger: b.logger}, nil
}

// DropTable removes the table file
func (b *Backend) DropTable(ctx context.Context, name string) error {
	if err := validation.ValidateTableName(name); err != nil {
		return err
	}

	path := b.tablePath(name)

	// Check if exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &domainerrors.TableNotFoundError{TableName: name}
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove table file: %w", err)
	}

	b.logger.Info("table dropped", "table", name)
	return nil
}

// ListTables returns the names of all table files, sorted
func (b *Backend) ListTables(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables directory: %w", err)
	}

	var tables []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != tableExt {
			continue
		}
		tables = append(tables, strings.TrimSuffix(entry.Name(), tableExt))
	}
	sort.Strings(tables)

	return tables, nil
}

func (b *Backend) Contacts() storage.ContactStore { return b.contacts }

// Close is a no-op: no handle stays open between operations
func (b *Backend) Close() error { return nil }
