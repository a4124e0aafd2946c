package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/leengari/contactbook/internal/storage"
	"github.com/leengari/contactbook/internal/validation"
)

// doneKeyword ends the column list when adding a table
const doneKeyword = "done"

func (c *Controller) tableOperationsMenu(ctx context.Context) error {
	for {
		fmt.Fprint(c.out, "\nTable Operations\n")
		fmt.Fprint(c.out, "1. Add Table\n")
		fmt.Fprint(c.out, "2. Open Table\n")
		fmt.Fprint(c.out, "3. Delete Table\n")
		fmt.Fprint(c.out, "4. List Tables\n")
		fmt.Fprint(c.out, "5. Return to Main Menu\n")

		choice, err := c.readChoice()
		if errors.Is(err, errNotNumber) {
			continue
		}
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.addTable(ctx)
		case 2:
			err = c.openTable(ctx)
		case 3:
			err = c.deleteTable(ctx)
		case 4:
			c.listTables(ctx)
		case 5:
			return nil
		default:
			fmt.Fprintln(c.out, msgInvalidChoice)
		}
		if err != nil {
			return err
		}
	}
}

func (c *Controller) addTable(ctx context.Context) error {
	name, err := c.prompt("Enter new table name: ")
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, "Enter column names (type 'done' to finish): ")
	var columns []string
	for {
		col, err := c.prompt(fmt.Sprintf("Column%d: ", len(columns)+1))
		if err != nil {
			return err
		}
		if col == doneKeyword {
			break
		}
		if col == "" {
			continue
		}
		columns = append(columns, col)
	}

	if len(columns) == 0 {
		fmt.Fprintln(c.out, "No columns specified. Table creation aborted.")
		return nil
	}

	if err := c.eng.CreateTable(ctx, name, columns); err != nil {
		c.report(err)
		return nil
	}
	fmt.Fprintf(c.out, "Table %s created successfully.\n", name)
	return nil
}

func (c *Controller) openTable(ctx context.Context) error {
	name, err := c.prompt("Enter table name to open: ")
	if err != nil {
		return err
	}

	t, err := c.eng.OpenTable(ctx, name)
	if err != nil {
		c.report(err)
		return nil
	}
	fmt.Fprintf(c.out, "Opened table %s\n", name)

	return c.manageTable(ctx, t)
}

func (c *Controller) deleteTable(ctx context.Context) error {
	name, err := c.prompt("Enter table name to delete: ")
	if err != nil {
		return err
	}

	if err := c.eng.DropTable(ctx, name); err != nil {
		c.report(err)
		return nil
	}
	fmt.Fprintf(c.out, "Table %s deleted successfully.\n", name)
	return nil
}

func (c *Controller) listTables(ctx context.Context) {
	names, err := c.eng.ListTables(ctx)
	if err != nil {
		c.report(err)
		return
	}

	if len(names) == 0 {
		fmt.Fprintln(c.out, "No tables found.")
		return
	}
	fmt.Fprintln(c.out, "Tables:")
	for _, name := range names {
		fmt.Fprintf(c.out, "  - %s\n", name)
	}
}

// manageTable runs the table management menu. Pending changes are saved
// when the user returns, and also when input ends.
func (c *Controller) manageTable(ctx context.Context, t storage.Table) error {
	err := c.tableManagementMenu(ctx, t)

	if saveErr := c.eng.CloseTable(ctx, t); saveErr != nil {
		c.report(saveErr)
	}
	return err
}

func (c *Controller) tableManagementMenu(ctx context.Context, t storage.Table) error {
	for {
		fmt.Fprint(c.out, "\nTable Management\n")
		fmt.Fprint(c.out, "1. Add Column\n")
		fmt.Fprint(c.out, "2. Add Row\n")
		fmt.Fprint(c.out, "3. Delete Row\n")
		fmt.Fprint(c.out, "4. Update Row\n")
		fmt.Fprint(c.out, "5. Display Table\n")
		fmt.Fprint(c.out, "6. Return to Main Menu\n")

		choice, err := c.readChoice()
		if errors.Is(err, errNotNumber) {
			continue
		}
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.addColumn(ctx, t)
		case 2:
			err = c.addRow(ctx, t)
		case 3:
			err = c.deleteRow(ctx, t)
		case 4:
			err = c.updateRow(ctx, t)
		case 5:
			c.displayTable(ctx, t)
		case 6:
			return nil
		default:
			fmt.Fprintln(c.out, msgInvalidChoice)
		}
		if err != nil {
			return err
		}
	}
}

// addColumn appends a column then asks for its value on every existing row
func (c *Controller) addColumn(ctx context.Context, t storage.Table) error {
	name, err := c.prompt("Enter the name of the new column: ")
	if err != nil {
		return err
	}

	rows, err := c.eng.AddColumn(ctx, t, name)
	if err != nil {
		c.report(err)
		return nil
	}
	fmt.Fprintf(c.out, "Column %s added to table %s successfully.\n", name, t.Name())

	for _, row := range rows {
		value, err := c.prompt(fmt.Sprintf("Enter value for %s for Row %d: ", name, row.ID))
		if err != nil {
			return err
		}
		if value == "" {
			continue
		}
		if err := c.eng.SetCell(ctx, t, row.ID, name, value); err != nil {
			c.report(err)
			return nil
		}
	}
	return nil
}

// addRow asks for one value per non-identity column. A blank answer
// leaves the value missing.
func (c *Controller) addRow(ctx context.Context, t storage.Table) error {
	values := make(map[string]string)
	for _, col := range t.Columns() {
		if col == validation.IdentityColumn {
			continue
		}
		value, err := c.prompt(fmt.Sprintf("Enter value for %s: ", col))
		if err != nil {
			return err
		}
		if value != "" {
			values[col] = value
		}
	}

	if err := c.eng.InsertRow(ctx, t, values); err != nil {
		c.report(err)
	}
	return nil
}

func (c *Controller) deleteRow(ctx context.Context, t storage.Table) error {
	key, err := c.prompt("Enter key to delete row: ")
	if err != nil {
		return err
	}
	value, err := c.prompt("Enter value of key to delete row: ")
	if err != nil {
		return err
	}

	n, err := c.eng.DeleteRows(ctx, t, key, value)
	if err != nil {
		c.report(err)
		return nil
	}
	if n == 0 {
		fmt.Fprintf(c.out, "No rows found where %s = %s.\n", key, value)
		return nil
	}
	fmt.Fprintf(c.out, "%d row(s) deleted.\n", n)
	return nil
}

func (c *Controller) updateRow(ctx context.Context, t storage.Table) error {
	key, err := c.prompt("Enter key to update row: ")
	if err != nil {
		return err
	}
	oldValue, err := c.prompt("Enter old value of key: ")
	if err != nil {
		return err
	}
	newValue, err := c.prompt("Enter new value of key: ")
	if err != nil {
		return err
	}

	n, err := c.eng.UpdateRows(ctx, t, key, oldValue, newValue)
	if err != nil {
		c.report(err)
		return nil
	}
	if n == 0 {
		fmt.Fprintf(c.out, "No rows found where %s = %s.\n", key, oldValue)
		return nil
	}
	fmt.Fprintf(c.out, "%d row(s) updated.\n", n)
	return nil
}

func (c *Controller) displayTable(ctx context.Context, t storage.Table) {
	lines, count, err := c.eng.Display(ctx, t)
	if err != nil {
		c.report(err)
		return
	}

	if count == 0 || len(t.Columns()) == 0 {
		fmt.Fprintln(c.out, "The table is empty.")
		return
	}
	for line := range lines {
		fmt.Fprintln(c.out, line)
	}
}
