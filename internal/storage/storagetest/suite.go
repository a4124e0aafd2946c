// Package storagetest holds behavior checks every storage.Backend must pass.
package storagetest

import (
	"context"
	"testing"

	"github.com/leengari/contactbook/internal/domain/contact"
	domainerrors "github.com/leengari/contactbook/internal/domain/errors"
	"github.com/leengari/contactbook/internal/domain/transaction"
	"github.com/leengari/contactbook/internal/storage"
	"github.com/leengari/contactbook/internal/testutil"
)

// Run exercises a backend through the storage interfaces. open must
// return a fresh, empty backend on every call.
func Run(t *testing.T, open func(t *testing.T) storage.Backend) {
	t.Run("Contacts", func(t *testing.T) { testContacts(t, open(t)) })
	t.Run("TableLifecycle", func(t *testing.T) { testTableLifecycle(t, open(t)) })
	t.Run("RowOperations", func(t *testing.T) { testRowOperations(t, open(t)) })
	t.Run("AddColumnBackfill", func(t *testing.T) { testAddColumnBackfill(t, open(t)) })
	t.Run("EmptyValues", func(t *testing.T) { testEmptyValues(t, open(t)) })
	t.Run("InvalidIdentifiers", func(t *testing.T) { testInvalidIdentifiers(t, open(t)) })
}

func openTable(t *testing.T, b storage.Backend, name string) storage.Table {
	t.Helper()
	tbl, err := b.OpenTable(context.Background(), name)
	if err != nil {
		t.Fatalf("open %s: %v", name, err)
	}
	return tbl
}

func testContacts(t *testing.T, b storage.Backend) {
	ctx := context.Background()
	store := b.Contacts()

	list, err := store.List(ctx)
	testutil.AssertNoError(t, err, "list empty")
	testutil.AssertRowCount(t, len(list), 0, "initial contacts")

	tx := transaction.NewTransaction()
	testutil.AssertNoError(t, store.Add(ctx, tx, contact.Contact{Name: "Jo", Phone: "555-1234"}), "add Jo")
	testutil.AssertNoError(t, store.Add(ctx, tx, contact.Contact{Name: "Mary Ann", Phone: "555-9999"}), "add Mary Ann")
	testutil.AssertNoError(t, store.Add(ctx, tx, contact.Contact{Name: "Jo", Phone: "555-0000"}), "add second Jo")

	list, err = store.List(ctx)
	testutil.AssertNoError(t, err, "list")
	testutil.AssertRowCount(t, len(list), 3, "contacts")
	if list[0].String() != "Name: Jo, Phone: 555-1234" {
		t.Errorf("unexpected first contact %q", list[0].String())
	}
	if list[1].Name != "Mary Ann" {
		t.Errorf("expected insertion order, got %q second", list[1].Name)
	}

	n, err := store.Delete(ctx, tx, "Jo")
	testutil.AssertNoError(t, err, "delete Jo")
	testutil.AssertRowCount(t, n, 2, "deleted contacts")

	_, err = store.Delete(ctx, tx, "Jo")
	testutil.AssertErrorAs[*domainerrors.ContactNotFoundError](t, err, "delete missing contact")

	list, err = store.List(ctx)
	testutil.AssertNoError(t, err, "list after delete")
	testutil.AssertRowCount(t, len(list), 1, "contacts after delete")

	counts := tx.Counts()
	if counts[transaction.ChangeTypeInsert] != 3 || counts[transaction.ChangeTypeDelete] != 2 {
		t.Errorf("unexpected recorded changes %v", counts)
	}
}

func testTableLifecycle(t *testing.T, b storage.Backend) {
	ctx := context.Background()

	testutil.AssertNoError(t, b.CreateTable(ctx, "people", []string{"name", "age"}), "create people")
	testutil.AssertNoError(t, b.CreateTable(ctx, "animals", []string{"kind"}), "create animals")

	err := b.CreateTable(ctx, "people", []string{"name"})
	testutil.AssertErrorAs[*domainerrors.TableExistsError](t, err, "create existing table")

	names, err := b.ListTables(ctx)
	testutil.AssertNoError(t, err, "list tables")
	testutil.AssertColumns(t, names, []string{"animals", "people"}, "tables")

	_, err = b.OpenTable(ctx, "ghost")
	testutil.AssertErrorAs[*domainerrors.TableNotFoundError](t, err, "open missing table")

	err = b.DropTable(ctx, "ghost")
	testutil.AssertErrorAs[*domainerrors.TableNotFoundError](t, err, "drop missing table")

	testutil.AssertNoError(t, b.DropTable(ctx, "animals"), "drop animals")
	names, err = b.ListTables(ctx)
	testutil.AssertNoError(t, err, "list tables after drop")
	testutil.AssertColumns(t, names, []string{"people"}, "tables after drop")
}

func testRowOperations(t *testing.T, b storage.Backend) {
	ctx := context.Background()
	testutil.AssertNoError(t, b.CreateTable(ctx, "people", []string{"name", "age"}), "create")

	tbl := openTable(t, b, "people")
	tx := transaction.NewTransaction()

	testutil.AssertNoError(t, tbl.InsertRow(ctx, tx, map[string]string{"name": "Al", "age": "30"}), "insert Al")
	testutil.AssertNoError(t, tbl.InsertRow(ctx, tx, map[string]string{"name": "Bo"}), "insert Bo")
	testutil.AssertNoError(t, tbl.InsertRow(ctx, tx, map[string]string{"name": "Al", "age": "52"}), "insert second Al")

	err := tbl.InsertRow(ctx, tx, map[string]string{"city": "x"})
	testutil.AssertErrorAs[*domainerrors.ColumnNotFoundError](t, err, "insert unknown column")

	n, err := tbl.UpdateRows(ctx, tx, "age", "30", "31")
	testutil.AssertNoError(t, err, "update")
	testutil.AssertRowCount(t, n, 1, "updated rows")

	n, err = tbl.DeleteRows(ctx, tx, "name", "Al")
	testutil.AssertNoError(t, err, "delete")
	testutil.AssertRowCount(t, n, 2, "deleted rows")

	n, err = tbl.DeleteRows(ctx, tx, "name", "nobody")
	testutil.AssertNoError(t, err, "delete without match")
	testutil.AssertRowCount(t, n, 0, "deleted rows without match")

	_, err = tbl.UpdateRows(ctx, tx, "city", "a", "b")
	testutil.AssertErrorAs[*domainerrors.ColumnNotFoundError](t, err, "update unknown column")

	testutil.AssertNoError(t, tbl.Save(ctx), "save")

	rows, err := openTable(t, b, "people").Rows(ctx)
	testutil.AssertNoError(t, err, "rows after reopen")
	testutil.AssertRowCount(t, len(rows), 1, "rows after reopen")
	testutil.AssertCell(t, rows[0], "name", "Bo", "remaining row")
	testutil.AssertMissing(t, rows[0], "age", "remaining row")
}

func testAddColumnBackfill(t *testing.T, b storage.Backend) {
	ctx := context.Background()
	testutil.AssertNoError(t, b.CreateTable(ctx, "people", []string{"name"}), "create")

	tbl := openTable(t, b, "people")
	tx := transaction.NewTransaction()
	testutil.AssertNoError(t, tbl.InsertRow(ctx, tx, map[string]string{"name": "Al"}), "insert Al")
	testutil.AssertNoError(t, tbl.InsertRow(ctx, tx, map[string]string{"name": "Bo"}), "insert Bo")

	testutil.AssertNoError(t, tbl.AddColumn(ctx, "city"), "add column")
	err := tbl.AddColumn(ctx, "city")
	testutil.AssertErrorAs[*domainerrors.DuplicateColumnError](t, err, "add duplicate column")

	rows, err := tbl.Rows(ctx)
	testutil.AssertNoError(t, err, "rows")
	for _, row := range rows {
		testutil.AssertMissing(t, row, "city", "before backfill")
		testutil.AssertNoError(t, tbl.SetCell(ctx, tx, row.ID, "city", "Nairobi"), "backfill")
	}
	testutil.AssertNoError(t, tbl.Save(ctx), "save")

	reopened := openTable(t, b, "people")
	cols := reopened.Columns()
	if cols[len(cols)-1] != "city" {
		t.Errorf("expected city to be the last column, got %v", cols)
	}

	rows, err = reopened.Rows(ctx)
	testutil.AssertNoError(t, err, "rows after reopen")
	testutil.AssertRowCount(t, len(rows), 2, "rows after reopen")
	for _, row := range rows {
		testutil.AssertCell(t, row, "city", "Nairobi", "after backfill")
	}
}

func testEmptyValues(t *testing.T, b storage.Backend) {
	ctx := context.Background()
	testutil.AssertNoError(t, b.CreateTable(ctx, "people", []string{"name", "age"}), "create")

	tbl := openTable(t, b, "people")
	tx := transaction.NewTransaction()
	testutil.AssertNoError(t, tbl.InsertRow(ctx, tx, map[string]string{"name": "Al", "age": "30"}), "insert Al")
	testutil.AssertNoError(t, tbl.InsertRow(ctx, tx, map[string]string{"name": "Bo", "age": ""}), "insert Bo")

	n, err := tbl.UpdateRows(ctx, tx, "age", "30", "")
	testutil.AssertNoError(t, err, "clear age")
	testutil.AssertRowCount(t, n, 1, "cleared rows")

	before, err := tbl.Rows(ctx)
	testutil.AssertNoError(t, err, "rows before save")
	testutil.AssertNoError(t, tbl.Save(ctx), "save")

	reopened := openTable(t, b, "people")
	after, err := reopened.Rows(ctx)
	testutil.AssertNoError(t, err, "rows after reopen")
	testutil.AssertRowCount(t, len(after), len(before), "rows after reopen")
	for i := range after {
		testutil.AssertMissing(t, before[i], "age", "before save")
		testutil.AssertMissing(t, after[i], "age", "after reopen")
	}

	n, err = reopened.UpdateRows(ctx, tx, "age", "", "31")
	testutil.AssertNoError(t, err, "update empty age")
	testutil.AssertRowCount(t, n, 2, "rows matched by empty value")
	testutil.AssertNoError(t, reopened.Save(ctx), "save after update")

	rows, err := openTable(t, b, "people").Rows(ctx)
	testutil.AssertNoError(t, err, "rows after second reopen")
	for _, row := range rows {
		testutil.AssertCell(t, row, "age", "31", "after update")
	}
}

func testInvalidIdentifiers(t *testing.T, b storage.Backend) {
	ctx := context.Background()

	for _, name := range []string{"bad name", "1abc", "a;drop"} {
		err := b.CreateTable(ctx, name, []string{"x"})
		testutil.AssertErrorAs[*domainerrors.InvalidIdentifierError](t, err, "table "+name)

		err = b.CreateTable(ctx, "valid_table", []string{name})
		testutil.AssertErrorAs[*domainerrors.InvalidIdentifierError](t, err, "column "+name)
	}

	names, err := b.ListTables(ctx)
	testutil.AssertNoError(t, err, "list tables")
	testutil.AssertRowCount(t, len(names), 0, "tables after rejected creates")
}
