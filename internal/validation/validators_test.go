package validation

import (
	"errors"
	"testing"

	domainerrors "github.com/leengari/contactbook/internal/domain/errors"
)

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "people", false},
		{"underscore and digits", "_tbl_2", false},
		{"space", "bad name", true},
		{"leading digit", "1abc", true},
		{"statement injection", "a;drop", true},
		{"quote", `a"b`, true},
		{"empty", "", true},
		{"sqlite prefix", "sqlite_master", true},
		{"contacts reserved", "Contacts", true},
		{"path traversal", "../etc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTableName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTableName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				var invalid *domainerrors.InvalidIdentifierError
				if !errors.As(err, &invalid) || invalid.Kind != "table" {
					t.Errorf("expected table InvalidIdentifierError, got %v", err)
				}
			}
		})
	}
}

func TestValidateColumnName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"name", false},
		{"phone_2", false},
		{"id", true},
		{"ID", true},
		{"bad name", true},
		{"1abc", true},
		{"a;drop", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateColumnName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColumnName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	if got := QuoteIdentifier("people"); got != `"people"` {
		t.Errorf("QuoteIdentifier(people) = %s", got)
	}
	if got := QuoteIdentifier(`a"b`); got != `"a""b"` {
		t.Errorf(`QuoteIdentifier(a"b) = %s`, got)
	}
}
