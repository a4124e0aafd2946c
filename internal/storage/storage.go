// Package storage defines the capability set shared by the flat-file and
// SQLite backends. A backend is chosen once at startup and every handler
// talks to it through these interfaces.
package storage

import (
	"context"

	"github.com/leengari/contactbook/internal/domain/contact"
	"github.com/leengari/contactbook/internal/domain/data"
	"github.com/leengari/contactbook/internal/domain/transaction"
)

// Backend is a persistence store holding generic tables and the contact list
type Backend interface {
	// Name identifies the backend kind ("file" or "sqlite")
	Name() string
	CreateTable(ctx context.Context, name string, columns []string) error
	// OpenTable loads an existing table; a missing table yields
	// *errors.TableNotFoundError
	OpenTable(ctx context.Context, name string) (Table, error)
	DropTable(ctx context.Context, name string) error
	ListTables(ctx context.Context) ([]string, error)
	Contacts() ContactStore
	Close() error
}

// Table is an opened generic table
type Table interface {
	Name() string
	// Columns returns the ordered column list. The slice is a copy.
	Columns() []string
	RefreshColumns(ctx context.Context) error
	AddColumn(ctx context.Context, name string) error
	InsertRow(ctx context.Context, tx *transaction.Transaction, values map[string]string) error
	UpdateRows(ctx context.Context, tx *transaction.Transaction, key, oldValue, newValue string) (int, error)
	DeleteRows(ctx context.Context, tx *transaction.Transaction, key, value string) (int, error)
	SetCell(ctx context.Context, tx *transaction.Transaction, rowID int64, column, value string) error
	Rows(ctx context.Context) ([]data.Row, error)
	// Save persists pending changes. Backends that write through are no-ops.
	Save(ctx context.Context) error
}

// ContactStore is the fixed name/phone record set
type ContactStore interface {
	Add(ctx context.Context, tx *transaction.Transaction, c contact.Contact) error
	List(ctx context.Context) ([]contact.Contact, error)
	// Delete removes every contact named name and returns how many went.
	// No match yields *errors.ContactNotFoundError.
	Delete(ctx context.Context, tx *transaction.Transaction, name string) (int, error)
}
