package writer_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leengari/contactbook/internal/domain/schema"
	"github.com/leengari/contactbook/internal/storage/loader"
	"github.com/leengari/contactbook/internal/storage/writer"
	"github.com/leengari/contactbook/internal/testutil"
)

func TestEncodeTable(t *testing.T) {
	tbl := schema.NewTable("people", "", []string{"name", "age"})
	tbl.Insert(map[string]string{"name": "Al", "age": "30"}, nil)
	tbl.Insert(map[string]string{"name": "Bo"}, nil)

	got := writer.EncodeTable(tbl)
	want := "name,age\nAl,30\nBo,\n"
	if got != want {
		t.Errorf("EncodeTable() = %q, want %q", got, want)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.txt")

	tbl := schema.NewTable("people", path, []string{"name", "age"})
	tbl.Insert(map[string]string{"name": "Al", "age": "30"}, nil)
	tbl.Insert(map[string]string{"name": "Bo"}, nil)

	testutil.AssertNoError(t, writer.SaveTable(tbl, testutil.DiscardLogger()), "save")

	loaded, err := loader.LoadTable("people", path, testutil.DiscardLogger())
	testutil.AssertNoError(t, err, "load")
	testutil.AssertColumns(t, loaded.Columns, tbl.Columns, "columns")
	testutil.AssertRowCount(t, len(loaded.Rows), 2, "rows")
	testutil.AssertCell(t, loaded.Rows[0], "age", "30", "first row")
	testutil.AssertMissing(t, loaded.Rows[1], "age", "second row")
}

func TestFlushTableIfDirty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.txt")
	tbl := schema.NewTable("people", path, []string{"name"})

	testutil.AssertNoError(t, writer.FlushTableIfDirty(tbl, testutil.DiscardLogger()), "flush clean table")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file for a clean table, stat err = %v", err)
	}

	tbl.Insert(map[string]string{"name": "Al"}, nil)
	testutil.AssertNoError(t, writer.FlushTableIfDirty(tbl, testutil.DiscardLogger()), "flush dirty table")
	if tbl.Dirty {
		t.Error("expected dirty flag to be cleared")
	}

	content, err := os.ReadFile(path)
	testutil.AssertNoError(t, err, "read saved file")
	if string(content) != "name\nAl\n" {
		t.Errorf("unexpected file content %q", content)
	}
}

func TestWriteFileAtomic_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.txt")

	testutil.AssertNoError(t, writer.WriteFileAtomic(path, []byte("first\n")), "first write")
	testutil.AssertNoError(t, writer.WriteFileAtomic(path, []byte("second\n")), "second write")

	entries, err := os.ReadDir(dir)
	testutil.AssertNoError(t, err, "read dir")
	if len(entries) != 1 {
		t.Errorf("expected only the target file, got %d entries", len(entries))
	}

	content, _ := os.ReadFile(path)
	if string(content) != "second\n" {
		t.Errorf("unexpected file content %q", content)
	}
}

func TestSaveTable_LogsThroughGivenLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.txt")
	tbl := schema.NewTable("people", path, []string{"name"})

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	testutil.AssertNoError(t, writer.SaveTable(tbl, logger), "save at warn level")
	if buf.Len() != 0 {
		t.Errorf("expected info record to be filtered, got %q", buf.String())
	}

	logger = slog.New(slog.NewTextHandler(&buf, nil))
	testutil.AssertNoError(t, writer.SaveTable(tbl, logger), "save at info level")
	if !strings.Contains(buf.String(), "table=people") {
		t.Errorf("expected save record with table attr, got %q", buf.String())
	}
}
