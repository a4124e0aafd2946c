package menu

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/leengari/contactbook/internal/engine"
	"github.com/leengari/contactbook/internal/storage"
	"github.com/leengari/contactbook/internal/testutil"
)

// runScript feeds input lines to a fresh controller and returns stdout and stderr
func runScript(t *testing.T, eng *engine.Engine, lines ...string) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")

	c := New(eng, in, &out, &errOut, testutil.DiscardLogger())
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String(), errOut.String()
}

func assertContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Errorf("expected output to contain %q, got:\n%s", want, output)
	}
}

func assertNotContains(t *testing.T, output, unwanted string) {
	t.Helper()
	if strings.Contains(output, unwanted) {
		t.Errorf("did not expect output to contain %q, got:\n%s", unwanted, output)
	}
}

func TestMainMenu_InvalidInput(t *testing.T) {
	eng := engine.New(testutil.NewFileBackend(t), testutil.DiscardLogger())

	out, _ := runScript(t, eng, "abc", "9", "3")

	assertContains(t, out, msgInvalidInput)
	assertContains(t, out, msgInvalidChoice)
	assertContains(t, out, "Exiting...")
}

func TestMainMenu_EndOfInput(t *testing.T) {
	eng := engine.New(testutil.NewFileBackend(t), testutil.DiscardLogger())

	// no exit choice: every loop must still return
	out, _ := runScript(t, eng, "2", "2")

	assertNotContains(t, out, "Exiting...")
}

func TestContactMenu(t *testing.T) {
	for name, open := range testutil.Backends() {
		t.Run(name, func(t *testing.T) {
			eng := engine.New(open(t), testutil.DiscardLogger())

			out, _ := runScript(t, eng,
				"1",
				"1", "Jo", "555-1234",
				"2",
				"3", "Jo",
				"3", "Jo",
				"2",
				"4",
				"3",
			)

			assertContains(t, out, "Contact added successfully!")
			assertContains(t, out, "Contacts:\nName: Jo, Phone: 555-1234\n")
			assertContains(t, out, "Contact deleted successfully!")
			assertContains(t, out, "Contact not found!")

			contacts, err := eng.Contacts(context.Background())
			testutil.AssertNoError(t, err, "list contacts")
			testutil.AssertRowCount(t, len(contacts), 0, "contacts after delete")
		})
	}
}

func TestTableMenu_OpenMissing(t *testing.T) {
	eng := engine.New(testutil.NewFileBackend(t), testutil.DiscardLogger())

	out, _ := runScript(t, eng, "2", "2", "ghost", "5", "3")

	assertContains(t, out, "Table ghost not found.")
	assertNotContains(t, out, "Table Management")
}

func TestTableMenu_NoColumnsAborts(t *testing.T) {
	eng := engine.New(testutil.NewFileBackend(t), testutil.DiscardLogger())

	out, _ := runScript(t, eng, "2", "1", "empty", "done", "4", "5", "3")

	assertContains(t, out, "No columns specified. Table creation aborted.")
	assertContains(t, out, "No tables found.")
}

func TestTableMenu_Workflow(t *testing.T) {
	for name, open := range testutil.Backends() {
		t.Run(name, func(t *testing.T) {
			eng := engine.New(open(t), testutil.DiscardLogger())

			out, _ := runScript(t, eng,
				"2",
				"1", "people", "name", "age", "done",
				"2", "people",
				"2", "Al", "30",
				"2", "Bo", "41",
				"4", "name", "Bo", "Bea",
				"3", "name", "Al",
				"1", "city", "Nairobi",
				"5",
				"6",
				"4",
				"5",
				"3",
			)

			assertContains(t, out, "Table people created successfully.")
			assertContains(t, out, "Opened table people")
			assertContains(t, out, "Column city added to table people successfully.")
			assertContains(t, out, "Enter value for city for Row ")
			assertContains(t, out, "Tables:\n  - people\n")

			if name == "file" {
				assertContains(t, out, "name\tage\tcity\nBea\t41\tNairobi\n")
			} else {
				assertContains(t, out, "id\tname\tage\tcity\n2\tBea\t41\tNairobi\n")
			}
			assertNotContains(t, out, "Al\t30")
		})
	}
}

func TestTableMenu_ErrorsKeepLoopRunning(t *testing.T) {
	eng := engine.New(testutil.NewFileBackend(t), testutil.DiscardLogger())

	out, _ := runScript(t, eng,
		"2",
		"1", "people", "name", "done",
		"1", "people", "name", "done",
		"1", "bad name", "x", "done",
		"2", "people",
		"3", "nope", "x",
		"5",
		"6",
		"5",
		"3",
	)

	assertContains(t, out, "Table people already exists.")
	assertContains(t, out, "Invalid table name \"bad name\"")
	assertContains(t, out, "Column nope not found in table people.")
	assertContains(t, out, "The table is empty.")
	assertContains(t, out, "Exiting...")
}

func TestTableMenu_RowCountsAndMisses(t *testing.T) {
	eng := engine.New(testutil.NewFileBackend(t), testutil.DiscardLogger())

	out, errOut := runScript(t, eng,
		"2",
		"1", "people", "name", "done",
		"2", "people",
		"2", "Al",
		"3", "name", "nobody",
		"4", "name", "nobody", "x",
		"4", "name", "Al", "Ann",
		"3", "name", "Ann",
		"6",
		"5",
		"3",
	)

	assertContains(t, out, "No rows found where name = nobody.")
	assertContains(t, out, "1 row(s) updated.")
	assertContains(t, out, "1 row(s) deleted.")
	if errOut != "" {
		t.Errorf("expected nothing on stderr, got %q", errOut)
	}
}

// saveFailingBackend hands out tables whose Save always fails
type saveFailingBackend struct {
	storage.Backend
}

func (b saveFailingBackend) OpenTable(ctx context.Context, name string) (storage.Table, error) {
	t, err := b.Backend.OpenTable(ctx, name)
	if err != nil {
		return nil, err
	}
	return saveFailingTable{Table: t}, nil
}

type saveFailingTable struct {
	storage.Table
}

func (saveFailingTable) Save(context.Context) error {
	return errors.New("disk full")
}

func TestTableMenu_PersistenceFailureKeepsLoopRunning(t *testing.T) {
	eng := engine.New(saveFailingBackend{Backend: testutil.NewFileBackend(t)}, testutil.DiscardLogger())

	out, errOut := runScript(t, eng,
		"2",
		"1", "people", "name", "done",
		"2", "people",
		"2", "Al",
		"6",
		"4",
		"5",
		"3",
	)

	if errOut != "Error: disk full\n" {
		t.Errorf("expected save error on stderr, got %q", errOut)
	}
	assertNotContains(t, out, "disk full")
	assertContains(t, out, "Tables:\n  - people\n")
	assertContains(t, out, "Exiting...")
}
