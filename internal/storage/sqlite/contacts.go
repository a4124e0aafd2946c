package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leengari/contactbook/internal/domain/contact"
	domainerrors "github.com/leengari/contactbook/internal/domain/errors"
	"github.com/leengari/contactbook/internal/domain/transaction"
	"github.com/leengari/contactbook/internal/storage"
)

// ContactTable is the fixed contacts table
type ContactTable struct {
	db *sql.DB
}

var _ storage.ContactStore = (*ContactTable)(nil)

func (c *ContactTable) Add(ctx context.Context, tx *transaction.Transaction, ct contact.Contact) error {
	res, err := c.db.ExecContext(ctx, "INSERT INTO contacts (name, phone) VALUES (?, ?)", ct.Name, ct.Phone)
	if err != nil {
		return fmt.Errorf("failed to add contact: %w", err)
	}

	if tx != nil {
		id, _ := res.LastInsertId()
		tx.Record(transaction.Change{
			Type:  transaction.ChangeTypeInsert,
			Table: "contacts",
			RowID: id,
			Data:  map[string]string{"name": ct.Name, "phone": ct.Phone},
		})
	}
	return nil
}

func (c *ContactTable) List(ctx context.Context) ([]contact.Contact, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT name, phone FROM contacts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []contact.Contact
	for rows.Next() {
		var name, phone sql.NullString
		if err := rows.Scan(&name, &phone); err != nil {
			return nil, fmt.Errorf("failed to list contacts: %w", err)
		}
		contacts = append(contacts, contact.Contact{Name: name.String, Phone: phone.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

// Delete removes all contacts with the exact name
func (c *ContactTable) Delete(ctx context.Context, tx *transaction.Transaction, name string) (int, error) {
	rows, err := c.db.QueryContext(ctx, "DELETE FROM contacts WHERE name = ? RETURNING id, phone", name)
	if err != nil {
		return 0, fmt.Errorf("failed to delete contact: %w", err)
	}
	defer rows.Close()

	deleted := 0
	for rows.Next() {
		var (
			id    int64
			phone sql.NullString
		)
		if err := rows.Scan(&id, &phone); err != nil {
			return deleted, fmt.Errorf("failed to delete contact: %w", err)
		}
		deleted++
		if tx != nil {
			tx.Record(transaction.Change{
				Type:    transaction.ChangeTypeDelete,
				Table:   "contacts",
				RowID:   id,
				OldData: map[string]string{"name": name, "phone": phone.String},
			})
		}
	}
	if err := rows.Err(); err != nil {
		return deleted, fmt.Errorf("failed to delete contact: %w", err)
	}

	if deleted == 0 {
		return 0, &domainerrors.ContactNotFoundError{Name: name}
	}
	return deleted, nil
}
