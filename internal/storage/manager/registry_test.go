package manager

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leengari/contactbook/internal/config"
	"github.com/leengari/contactbook/internal/storage"
	"github.com/leengari/contactbook/internal/testutil"
)

func storageConfig(t *testing.T, backend string) config.StorageConfig {
	dir := t.TempDir()
	return config.StorageConfig{
		Backend:      backend,
		SQLitePath:   filepath.Join(dir, "database.db"),
		TablesDir:    filepath.Join(dir, "tables"),
		ContactsFile: filepath.Join(dir, "contacts.txt"),
	}
}

func TestRegistry_List(t *testing.T) {
	testutil.AssertColumns(t, NewRegistry().List(), []string{"file", "sqlite"}, "registered backends")
}

func TestRegistry_OpenBuiltins(t *testing.T) {
	for _, name := range []string{"file", "sqlite", "SQLite"} {
		t.Run(name, func(t *testing.T) {
			b, err := NewRegistry().Open(context.Background(), storageConfig(t, name), testutil.DiscardLogger())
			if err != nil {
				t.Fatalf("open %s: %v", name, err)
			}
			defer b.Close()

			if b.Name() != strings.ToLower(name) {
				t.Errorf("expected backend %s, got %s", strings.ToLower(name), b.Name())
			}
		})
	}
}

func TestRegistry_Unknown(t *testing.T) {
	_, err := NewRegistry().Open(context.Background(), storageConfig(t, "bolt"), testutil.DiscardLogger())
	if err == nil || !strings.Contains(err.Error(), "unknown storage backend") {
		t.Errorf("expected unknown backend error, got %v", err)
	}
}

func TestRegistry_OpenFailureIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry()
	r.Register("broken", func(context.Context, config.StorageConfig, *slog.Logger) (storage.Backend, error) {
		return nil, boom
	})

	_, err := r.Open(context.Background(), storageConfig(t, "broken"), testutil.DiscardLogger())
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped open error, got %v", err)
	}
}
