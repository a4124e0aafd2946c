package engine

import (
	"context"
	"testing"

	domainerrors "github.com/leengari/contactbook/internal/domain/errors"
	"github.com/leengari/contactbook/internal/testutil"
)

func TestEngineTableLifecycle(t *testing.T) {
	for name, open := range testutil.Backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			eng := New(open(t), testutil.DiscardLogger())

			testutil.AssertNoError(t, eng.CreateTable(ctx, "people", []string{"name", "age"}), "create")

			tbl, err := eng.OpenTable(ctx, "people")
			if err != nil {
				t.Fatalf("open: %v", err)
			}

			testutil.AssertNoError(t, eng.InsertRow(ctx, tbl, map[string]string{"name": "Al", "age": "30"}), "insert Al")
			testutil.AssertNoError(t, eng.InsertRow(ctx, tbl, map[string]string{"name": "Bo", "age": "41"}), "insert Bo")

			rows, err := eng.AddColumn(ctx, tbl, "city")
			testutil.AssertNoError(t, err, "add column")
			testutil.AssertRowCount(t, len(rows), 2, "rows to backfill")

			for _, row := range rows {
				testutil.AssertNoError(t, eng.SetCell(ctx, tbl, row.ID, "city", "Nairobi"), "backfill")
			}

			n, err := eng.UpdateRows(ctx, tbl, "name", "Bo", "Bea")
			testutil.AssertNoError(t, err, "update")
			testutil.AssertRowCount(t, n, 1, "updated")

			n, err = eng.DeleteRows(ctx, tbl, "name", "Al")
			testutil.AssertNoError(t, err, "delete")
			testutil.AssertRowCount(t, n, 1, "deleted")

			testutil.AssertNoError(t, eng.CloseTable(ctx, tbl), "close")

			reopened, err := eng.OpenTable(ctx, "people")
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			lines, count, err := eng.Display(ctx, reopened)
			testutil.AssertNoError(t, err, "display")
			testutil.AssertRowCount(t, count, 1, "display count")

			want := []string{"name\tage\tcity", "Bea\t41\tNairobi"}
			if name == "sqlite" {
				want = []string{"id\tname\tage\tcity", "2\tBea\t41\tNairobi"}
			}
			testutil.AssertColumns(t, testutil.CollectLines(lines), want, "display lines")

			names, err := eng.ListTables(ctx)
			testutil.AssertNoError(t, err, "list")
			testutil.AssertColumns(t, names, []string{"people"}, "tables")

			testutil.AssertNoError(t, eng.DropTable(ctx, "people"), "drop")
			_, err = eng.OpenTable(ctx, "people")
			testutil.AssertErrorAs[*domainerrors.TableNotFoundError](t, err, "open dropped")
		})
	}
}
