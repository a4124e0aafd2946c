package manager

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/leengari/contactbook/internal/config"
	"github.com/leengari/contactbook/internal/storage"
	"github.com/leengari/contactbook/internal/storage/flatfile"
	"github.com/leengari/contactbook/internal/storage/sqlite"
)

// OpenFunc opens a backend from the storage settings
type OpenFunc func(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (storage.Backend, error)

// Registry maps backend names to the functions that open them
type Registry struct {
	mu      sync.RWMutex
	openers map[string]OpenFunc
}

// NewRegistry creates a registry preloaded with the file and sqlite backends
func NewRegistry() *Registry {
	r := &Registry{openers: make(map[string]OpenFunc)}

	r.Register("sqlite", func(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (storage.Backend, error) {
		return sqlite.Open(ctx, cfg.SQLitePath, logger)
	})
	r.Register("file", func(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (storage.Backend, error) {
		return flatfile.Open(cfg.TablesDir, cfg.ContactsFile, logger)
	})

	return r
}

// Register adds or replaces the opener for name
func (r *Registry) Register(name string, open OpenFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.openers[strings.ToLower(name)] = open
}

// Open opens the backend named by cfg.Backend
func (r *Registry) Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (storage.Backend, error) {
	r.mu.RLock()
	open, ok := r.openers[strings.ToLower(cfg.Backend)]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown storage backend %q (available: %s)",
			cfg.Backend, strings.Join(r.List(), ", "))
	}

	backend, err := open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", cfg.Backend, err)
	}
	return backend, nil
}

// List returns the registered backend names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.openers))
	for name := range r.openers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
