package engine

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/leengari/contactbook/internal/domain/contact"
	"github.com/leengari/contactbook/internal/domain/data"
	"github.com/leengari/contactbook/internal/domain/transaction"
	"github.com/leengari/contactbook/internal/storage"
)

// Engine is the store object handed to every menu handler. Each call runs
// as one operation with its own transaction id.
type Engine struct {
	backend   storage.Backend
	logger    *slog.Logger
	observers []Observer // Observers for lifecycle events
}

// New creates a new Engine over an opened backend
func New(backend storage.Backend, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		backend:   backend,
		logger:    logger,
		observers: make([]Observer, 0),
	}
}

// run wraps fn in a transaction and reports start and end to observers
func (e *Engine) run(op string, target any, fn func(tx *transaction.Transaction) error) error {
	tx := transaction.NewTransaction()
	defer tx.Close()

	e.notify(Event{Type: EventOpStart, Op: op, TxID: tx.ID, Data: target})

	err := fn(tx)

	counts := tx.Counts()
	e.notify(Event{Type: EventOpEnd, Op: op, TxID: tx.ID, Data: OpResult{
		Inserted: counts[transaction.ChangeTypeInsert],
		Updated:  counts[transaction.ChangeTypeUpdate],
		Deleted:  counts[transaction.ChangeTypeDelete],
		Err:      err,
	}})

	return err
}

// AddContact stores a new contact
func (e *Engine) AddContact(ctx context.Context, c contact.Contact) error {
	return e.run("add_contact", c.Name, func(tx *transaction.Transaction) error {
		return e.backend.Contacts().Add(ctx, tx, c)
	})
}

// Contacts lists every contact
func (e *Engine) Contacts(ctx context.Context) ([]contact.Contact, error) {
	var contacts []contact.Contact
	err := e.run("list_contacts", nil, func(tx *transaction.Transaction) error {
		var err error
		contacts, err = e.backend.Contacts().List(ctx)
		return err
	})
	return contacts, err
}

// DeleteContact removes every contact with the given name
func (e *Engine) DeleteContact(ctx context.Context, name string) (int, error) {
	var n int
	err := e.run("delete_contact", name, func(tx *transaction.Transaction) error {
		var err error
		n, err = e.backend.Contacts().Delete(ctx, tx, name)
		return err
	})
	return n, err
}

// CreateTable creates a table with the given columns
func (e *Engine) CreateTable(ctx context.Context, name string, columns []string) error {
	return e.run("create_table", name, func(tx *transaction.Transaction) error {
		return e.backend.CreateTable(ctx, name, columns)
	})
}

// OpenTable opens an existing table
func (e *Engine) OpenTable(ctx context.Context, name string) (storage.Table, error) {
	var t storage.Table
	err := e.run("open_table", name, func(tx *transaction.Transaction) error {
		var err error
		t, err = e.backend.OpenTable(ctx, name)
		return err
	})
	return t, err
}

// CloseTable persists pending changes of an opened table
func (e *Engine) CloseTable(ctx context.Context, t storage.Table) error {
	return e.run("save_table", t.Name(), func(tx *transaction.Transaction) error {
		return t.Save(ctx)
	})
}

// DropTable deletes a table and its data
func (e *Engine) DropTable(ctx context.Context, name string) error {
	return e.run("drop_table", name, func(tx *transaction.Transaction) error {
		return e.backend.DropTable(ctx, name)
	})
}

// ListTables returns the names of all tables
func (e *Engine) ListTables(ctx context.Context) ([]string, error) {
	var names []string
	err := e.run("list_tables", nil, func(tx *transaction.Transaction) error {
		var err error
		names, err = e.backend.ListTables(ctx)
		return err
	})
	return names, err
}

// AddColumn appends a column and returns the rows that now lack a value for it
func (e *Engine) AddColumn(ctx context.Context, t storage.Table, name string) ([]data.Row, error) {
	var rows []data.Row
	err := e.run("add_column", t.Name()+"."+name, func(tx *transaction.Transaction) error {
		if err := t.AddColumn(ctx, name); err != nil {
			return err
		}
		var err error
		rows, err = t.Rows(ctx)
		return err
	})
	return rows, err
}

// InsertRow appends a row to t
func (e *Engine) InsertRow(ctx context.Context, t storage.Table, values map[string]string) error {
	return e.run("insert_row", t.Name(), func(tx *transaction.Transaction) error {
		return t.InsertRow(ctx, tx, values)
	})
}

// UpdateRows rewrites key from oldValue to newValue on every matching row
func (e *Engine) UpdateRows(ctx context.Context, t storage.Table, key, oldValue, newValue string) (int, error) {
	var n int
	err := e.run("update_rows", t.Name(), func(tx *transaction.Transaction) error {
		var err error
		n, err = t.UpdateRows(ctx, tx, key, oldValue, newValue)
		return err
	})
	return n, err
}

// DeleteRows removes every row where key equals value
func (e *Engine) DeleteRows(ctx context.Context, t storage.Table, key, value string) (int, error) {
	var n int
	err := e.run("delete_rows", t.Name(), func(tx *transaction.Transaction) error {
		var err error
		n, err = t.DeleteRows(ctx, tx, key, value)
		return err
	})
	return n, err
}

// SetCell sets one cell of the row with the given id
func (e *Engine) SetCell(ctx context.Context, t storage.Table, rowID int64, column, value string) error {
	return e.run("set_cell", t.Name(), func(tx *transaction.Transaction) error {
		return t.SetCell(ctx, tx, rowID, column, value)
	})
}

// Display returns the formatted lines of t and the number of data rows.
// The sequence can be ranged over more than once.
func (e *Engine) Display(ctx context.Context, t storage.Table) (iter.Seq[string], int, error) {
	var rows []data.Row
	err := e.run("display_table", t.Name(), func(tx *transaction.Transaction) error {
		var err error
		rows, err = t.Rows(ctx)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return data.Lines(t.Columns(), rows), len(rows), nil
}

// AddObserver registers an observer to receive lifecycle events
func (e *Engine) AddObserver(observer Observer) {
	e.observers = append(e.observers, observer)
}

// RemoveObserver unregisters an observer
func (e *Engine) RemoveObserver(observer Observer) {
	for i, o := range e.observers {
		if o == observer {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers
func (e *Engine) notify(event Event) {
	event.Timestamp = time.Now()
	for _, observer := range e.observers {
		observer.OnEvent(event)
	}
}
