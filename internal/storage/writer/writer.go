package writer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leengari/contactbook/internal/domain/schema"
	"github.com/leengari/contactbook/internal/storage/loader"
)

// SaveTable rewrites the table file from the in-memory table using
// temp file + rename
func SaveTable(t *schema.Table, logger *slog.Logger) error {
	if t == nil || t.Path == "" {
		return fmt.Errorf("cannot save table: nil or missing path")
	}

	// Lock table for reading during save
	t.RLock()
	content := EncodeTable(t)
	rowCount := len(t.Rows)
	t.RUnlock()

	if err := WriteFileAtomic(t.Path, []byte(content)); err != nil {
		return fmt.Errorf("failed to save table %s: %w", t.Name, err)
	}

	logger.Info("Table saved successfully",
		slog.String("table", t.Name),
		slog.String("path", t.Path),
		slog.Int("row_count", rowCount),
	)

	return nil
}

// EncodeTable renders the header and rows. Missing values are written as
// empty fields. Must be called while holding at least a read lock.
func EncodeTable(t *schema.Table) string {
	var b strings.Builder
	columns := t.Columns

	b.WriteString(strings.Join(columns, loader.Delimiter))
	b.WriteByte('\n')

	fields := make([]string, len(columns))
	for _, row := range t.Rows {
		for i, col := range columns {
			fields[i] = row.Data[col]
		}
		b.WriteString(strings.Join(fields, loader.Delimiter))
		b.WriteByte('\n')
	}

	return b.String()
}

// WriteFileAtomic writes data next to path and renames it into place
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}

	// Atomic replace
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp → %s: %w", path, err)
	}

	return nil
}

// FlushTableIfDirty saves the table only if it has unsaved changes
func FlushTableIfDirty(table *schema.Table, logger *slog.Logger) error {
	// Check dirty flag (needs lock)
	table.RLock()
	isDirty := table.Dirty
	table.RUnlock()

	if !isDirty {
		return nil
	}

	if err := SaveTable(table, logger); err != nil {
		return err
	}

	// Clear dirty flag
	table.Lock()
	table.Dirty = false
	table.Unlock()

	return nil
}
