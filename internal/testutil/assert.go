package testutil

import (
	"errors"
	"iter"
	"slices"
	"testing"

	"github.com/leengari/contactbook/internal/domain/data"
)

// AssertRowCount checks if the result has the expected number of rows
func AssertRowCount(t *testing.T, actual, expected int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected %d rows, got %d", context, expected, actual)
	}
}

// AssertColumns checks that columns match expected in order
func AssertColumns(t *testing.T, actual, expected []string, context string) {
	t.Helper()
	if !slices.Equal(actual, expected) {
		t.Errorf("%s: expected columns %v, got %v", context, expected, actual)
	}
}

// AssertCell checks the value stored under column in row
func AssertCell(t *testing.T, row data.Row, column, expected, context string) {
	t.Helper()
	v, ok := row.Get(column)
	if !ok {
		t.Errorf("%s: expected column '%s' to hold %q, value is missing", context, column, expected)
		return
	}
	if v != expected {
		t.Errorf("%s: expected column '%s' to hold %q, got %q", context, column, expected, v)
	}
}

// AssertMissing checks that row has no value for column
func AssertMissing(t *testing.T, row data.Row, column, context string) {
	t.Helper()
	if v, ok := row.Get(column); ok {
		t.Errorf("%s: expected column '%s' to be missing, got %q", context, column, v)
	}
}

// AssertNoError checks that an error is nil
func AssertNoError(t *testing.T, err error, context string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: expected no error, got: %v", context, err)
	}
}

// AssertError checks that an error is not nil
func AssertError(t *testing.T, err error, context string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected an error, got nil", context)
	}
}

// AssertErrorAs checks that err matches the target type
func AssertErrorAs[T error](t *testing.T, err error, context string) {
	t.Helper()
	var target T
	if !errors.As(err, &target) {
		t.Errorf("%s: expected error of type %T, got: %v", context, target, err)
	}
}

// CollectLines drains a display sequence into a slice
func CollectLines(seq iter.Seq[string]) []string {
	var lines []string
	for line := range seq {
		lines = append(lines, line)
	}
	return lines
}
