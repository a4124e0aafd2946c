package flatfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/leengari/contactbook/internal/domain/contact"
	domainerrors "github.com/leengari/contactbook/internal/domain/errors"
	"github.com/leengari/contactbook/internal/domain/transaction"
	"github.com/leengari/contactbook/internal/storage"
	"github.com/leengari/contactbook/internal/storage/loader"
	"github.com/leengari/contactbook/internal/storage/writer"
)

// ContactFile keeps one "name,phone" line per contact
type ContactFile struct {
	path   string
	logger *slog.Logger
}

var _ storage.ContactStore = (*ContactFile)(nil)

func NewContactFile(path string, logger *slog.Logger) *ContactFile {
	return &ContactFile{path: path, logger: logger}
}

// Add appends the contact to the end of the file
func (c *ContactFile) Add(ctx context.Context, tx *transaction.Transaction, ct contact.Contact) error {
	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open contacts file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(ct.Name + loader.Delimiter + ct.Phone + "\n"); err != nil {
		return fmt.Errorf("failed to write contact: %w", err)
	}

	if tx != nil {
		tx.Record(transaction.Change{
			Type:  transaction.ChangeTypeInsert,
			Table: "contacts",
			Data:  map[string]string{"name": ct.Name, "phone": ct.Phone},
		})
	}
	return nil
}

// List returns every contact in file order. A missing file is an empty list.
func (c *ContactFile) List(ctx context.Context) ([]contact.Contact, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open contacts file: %w", err)
	}
	defer f.Close()

	var contacts []contact.Contact
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		contacts = append(contacts, parseContact(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contacts file: %w", err)
	}

	return contacts, nil
}

// Delete drops every contact whose name equals name and rewrites the file
func (c *ContactFile) Delete(ctx context.Context, tx *transaction.Transaction, name string) (int, error) {
	contacts, err := c.List(ctx)
	if err != nil {
		return 0, err
	}

	var b strings.Builder
	deleted := 0
	for _, ct := range contacts {
		if ct.Name == name {
			deleted++
			if tx != nil {
				tx.Record(transaction.Change{
					Type:    transaction.ChangeTypeDelete,
					Table:   "contacts",
					OldData: map[string]string{"name": ct.Name, "phone": ct.Phone},
				})
			}
			continue
		}
		b.WriteString(ct.Name + loader.Delimiter + ct.Phone + "\n")
	}

	if deleted == 0 {
		return 0, &domainerrors.ContactNotFoundError{Name: name}
	}

	if err := writer.WriteFileAtomic(c.path, []byte(b.String())); err != nil {
		return 0, fmt.Errorf("failed to rewrite contacts file: %w", err)
	}

	c.logger.Debug("contacts deleted", "name", name, "count", deleted)
	return deleted, nil
}

// parseContact splits a line at its first delimiter
func parseContact(line string) contact.Contact {
	name, phone, _ := strings.Cut(line, loader.Delimiter)
	return contact.Contact{Name: name, Phone: phone}
}
