package validation

import (
	"regexp"
	"strings"

	domainerrors "github.com/leengari/contactbook/internal/domain/errors"
)

// identifierRegex is the allow-list for table and column names
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IdentityColumn is the implicit row id column of relational tables
const IdentityColumn = "id"

// ValidateTableName checks a table name before it reaches a file path or
// statement text
func ValidateTableName(name string) error {
	if err := validateIdentifier("table", name); err != nil {
		return err
	}
	if strings.HasPrefix(strings.ToLower(name), "sqlite_") {
		return &domainerrors.InvalidIdentifierError{
			Kind:   "table",
			Name:   name,
			Reason: "names starting with sqlite_ are reserved",
		}
	}
	if strings.EqualFold(name, "contacts") {
		return &domainerrors.InvalidIdentifierError{
			Kind:   "table",
			Name:   name,
			Reason: "contacts is reserved for the contact list",
		}
	}
	return nil
}

// ValidateColumnName checks a user supplied column name
func ValidateColumnName(name string) error {
	if err := validateIdentifier("column", name); err != nil {
		return err
	}
	if strings.EqualFold(name, IdentityColumn) {
		return &domainerrors.InvalidIdentifierError{
			Kind:   "column",
			Name:   name,
			Reason: "id is the implicit identity column",
		}
	}
	return nil
}

func validateIdentifier(kind, name string) error {
	if name == "" {
		return &domainerrors.InvalidIdentifierError{Kind: kind, Name: name, Reason: "name cannot be empty"}
	}
	if !identifierRegex.MatchString(name) {
		return &domainerrors.InvalidIdentifierError{
			Kind:   kind,
			Name:   name,
			Reason: "use letters, digits and underscores, not starting with a digit",
		}
	}
	return nil
}

// QuoteIdentifier wraps an identifier in double quotes for statement text,
// doubling any embedded quote
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
