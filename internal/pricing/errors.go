package pricing

import "fmt"

// InvalidInputError is returned when an input fails validation before any
// computation runs: negative cost, non-positive exchange rate, markup outside
// its allowed range, or an unsupported rounding granularity. No partial
// results are ever produced alongside it.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func invalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// CategoryNotConfiguredError is returned when the classifier resolves a
// category name that is absent from the registry snapshot. The affected item
// is never silently defaulted to a different markup.
type CategoryNotConfiguredError struct {
	Name string
}

func (e *CategoryNotConfiguredError) Error() string {
	return fmt.Sprintf("category %q is not configured in the registry", e.Name)
}
