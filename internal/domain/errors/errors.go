package errors

import (
	"fmt"
	"strings"
)

// NoSchemaError is returned when a row operation runs against a table
// that has no columns yet
type NoSchemaError struct {
	Table string
}

func (e *NoSchemaError) Error() string {
	return fmt.Sprintf("no columns defined for table %s", e.Table)
}

// TableNotFoundError is returned when a table does not exist in the store
type TableNotFoundError struct {
	TableName string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table %s not found", e.TableName)
}

// TableExistsError is returned when creating a table whose name is taken
type TableExistsError struct {
	TableName string
}

func (e *TableExistsError) Error() string {
	return fmt.Sprintf("table %s already exists", e.TableName)
}

// ColumnNotFoundError is returned when an operation names a column the table does not have
type ColumnNotFoundError struct {
	TableName  string
	ColumnName string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %s not found in table %s", e.ColumnName, e.TableName)
}

type DuplicateColumnError struct {
	TableName  string
	ColumnName string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("column %s already exists in table %s", e.ColumnName, e.TableName)
}

// ContactNotFoundError is returned when no contact matches a name
type ContactNotFoundError struct {
	Name string
}

func (e *ContactNotFoundError) Error() string {
	return fmt.Sprintf("contact %q not found", e.Name)
}

// InvalidIdentifierError reports a table or column name rejected by validation.
// Kind is "table" or "column".
type InvalidIdentifierError struct {
	Kind   string
	Name   string
	Reason string
}

func (e *InvalidIdentifierError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("invalid %s name %q", e.Kind, e.Name))

	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}

	return strings.Join(parts, " - ")
}
