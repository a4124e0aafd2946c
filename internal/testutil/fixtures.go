package testutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/leengari/contactbook/internal/storage"
	"github.com/leengari/contactbook/internal/storage/flatfile"
	"github.com/leengari/contactbook/internal/storage/sqlite"
)

// DiscardLogger returns a logger that drops every record
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewFileBackend opens a flat-file backend rooted in a temp dir
func NewFileBackend(t *testing.T) storage.Backend {
	t.Helper()
	dir := t.TempDir()
	b, err := flatfile.Open(filepath.Join(dir, "tables"), filepath.Join(dir, "contacts.txt"), DiscardLogger())
	if err != nil {
		t.Fatalf("open file backend: %v", err)
	}
	return b
}

// NewSQLiteBackend opens a SQLite backend on a temp-dir database file
func NewSQLiteBackend(t *testing.T) storage.Backend {
	t.Helper()
	b, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "database.db"), DiscardLogger())
	if err != nil {
		t.Fatalf("open sqlite backend: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

// Backends returns every backend kind keyed by name, for table-driven tests
func Backends() map[string]func(t *testing.T) storage.Backend {
	return map[string]func(t *testing.T) storage.Backend{
		"file":   NewFileBackend,
		"sqlite": NewSQLiteBackend,
	}
}
