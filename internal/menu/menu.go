// Package menu runs the nested console menus over a line-oriented reader.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	domainerrors "github.com/leengari/contactbook/internal/domain/errors"
	"github.com/leengari/contactbook/internal/engine"
)

const (
	msgInvalidInput  = "Invalid input. Please enter a number."
	msgInvalidChoice = "Invalid choice. Please try again."
	choicePrompt     = "Enter your choice: "
)

// errNotNumber marks a choice line that did not parse as an integer
var errNotNumber = errors.New("choice is not a number")

// Controller reads menu selections and dispatches them to the engine
type Controller struct {
	eng     *engine.Engine
	scanner *bufio.Scanner
	out     io.Writer
	errOut  io.Writer
	logger  *slog.Logger
}

// New creates a controller reading from in and writing to out and errOut
func New(eng *engine.Engine, in io.Reader, out, errOut io.Writer, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		eng:     eng,
		scanner: bufio.NewScanner(in),
		out:     out,
		errOut:  errOut,
		logger:  logger,
	}
}

// Run shows the main menu until the user exits or input ends.
// Only a failure to read input is returned.
func (c *Controller) Run(ctx context.Context) error {
	err := c.mainMenu(ctx)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *Controller) mainMenu(ctx context.Context) error {
	for {
		fmt.Fprint(c.out, "\nMain Menu\n")
		fmt.Fprint(c.out, "1. Contact Operations\n")
		fmt.Fprint(c.out, "2. Table Operations\n")
		fmt.Fprint(c.out, "3. Exit\n")

		choice, err := c.readChoice()
		if errors.Is(err, errNotNumber) {
			continue
		}
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.contactMenu(ctx)
		case 2:
			err = c.tableOperationsMenu(ctx)
		case 3:
			fmt.Fprintln(c.out, "Exiting...")
			return nil
		default:
			fmt.Fprintln(c.out, msgInvalidChoice)
		}
		if err != nil {
			return err
		}
	}
}

// readChoice prompts for and parses one menu selection. A line that is
// not a number is discarded with a message and errNotNumber is returned.
func (c *Controller) readChoice() (int, error) {
	line, err := c.prompt(choicePrompt)
	if err != nil {
		return 0, err
	}

	choice, err := strconv.Atoi(line)
	if err != nil {
		fmt.Fprintln(c.out, msgInvalidInput)
		return 0, errNotNumber
	}
	return choice, nil
}

// prompt prints text and returns the next input line, trimmed.
// End of input is reported as io.EOF.
func (c *Controller) prompt(text string) (string, error) {
	fmt.Fprint(c.out, text)
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.scanner.Text()), nil
}

// report prints the outcome of a failed operation. Missing resources and
// rejected input go to out; anything else is a persistence failure.
func (c *Controller) report(err error) {
	var (
		tableNotFound   *domainerrors.TableNotFoundError
		contactNotFound *domainerrors.ContactNotFoundError
		noSchema        *domainerrors.NoSchemaError
		columnNotFound  *domainerrors.ColumnNotFoundError
		duplicateColumn *domainerrors.DuplicateColumnError
		tableExists     *domainerrors.TableExistsError
		invalidName     *domainerrors.InvalidIdentifierError
	)

	switch {
	case errors.As(err, &tableNotFound):
		fmt.Fprintf(c.out, "Table %s not found.\n", tableNotFound.TableName)
	case errors.As(err, &contactNotFound):
		fmt.Fprintln(c.out, "Contact not found!")
	case errors.As(err, &noSchema),
		errors.As(err, &columnNotFound),
		errors.As(err, &duplicateColumn),
		errors.As(err, &tableExists),
		errors.As(err, &invalidName):
		fmt.Fprintf(c.out, "%s.\n", capitalize(err.Error()))
	default:
		c.logger.Error("operation failed", "error", err)
		fmt.Fprintf(c.errOut, "Error: %v\n", err)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
