package loader

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leengari/contactbook/internal/domain/data"
	"github.com/leengari/contactbook/internal/domain/schema"
)

// Delimiter separates fields in table and contact files. Values are written
// verbatim, so a value containing it does not survive a round trip.
const Delimiter = ","

// maxLineSize bounds a single line of a table file
const maxLineSize = 1 << 20

// LoadTable reads a table file: the first line names the columns, each
// following line is one row
func LoadTable(name, path string, logger *slog.Logger) (*schema.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := ReadTable(name, f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse table file %s: %w", path, err)
	}
	table.Path = path

	logger.Info("table loaded",
		slog.String("table", table.Name),
		slog.Int("columns", len(table.Columns)),
		slog.Int("rows", len(table.Rows)),
	)

	return table, nil
}

// ReadTable parses the table format from r
func ReadTable(name string, r io.Reader) (*schema.Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	table := schema.NewTable(name, "", nil)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		// empty file: a table without columns
		return table, nil
	}

	for _, col := range SplitLine(scanner.Text()) {
		if col != "" {
			table.Columns = append(table.Columns, col)
		}
	}

	for scanner.Scan() {
		fields := SplitLine(scanner.Text())
		// older files end every line with a delimiter
		if len(fields) == len(table.Columns)+1 && fields[len(fields)-1] == "" {
			fields = fields[:len(fields)-1]
		}

		table.LastID++
		row := data.NewRow(table.LastID, nil)
		for i, col := range table.Columns {
			if i >= len(fields) {
				break
			}
			if fields[i] == "" {
				continue
			}
			row.Data[col] = fields[i]
		}
		table.Rows = append(table.Rows, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return table, nil
}

// SplitLine splits one line on the delimiter, dropping a trailing carriage return
func SplitLine(line string) []string {
	line = strings.TrimSuffix(line, "\r")
	return strings.Split(line, Delimiter)
}
