package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is the registry's view of a product category: just the identity
// and the markup applied when pricing items classified into it.
type Category struct {
	ID               uuid.UUID
	Name             string
	MarkupPercentage decimal.Decimal
}

// Registry is an immutable snapshot of the category table, keyed by name.
// Callers build it once per pricing run so a batch of line items is always
// priced against a single consistent set of markup rates, even if categories
// are edited concurrently.
type Registry map[string]Category

// NewRegistry builds a snapshot from a category list. Later duplicates win,
// matching the unique-name constraint upstream.
func NewRegistry(categories []Category) Registry {
	reg := make(Registry, len(categories))
	for _, c := range categories {
		reg[c.Name] = c
	}
	return reg
}

// Lookup returns the category for name, or CategoryNotConfiguredError when
// the name is not present in the snapshot.
func (r Registry) Lookup(name string) (Category, error) {
	c, ok := r[name]
	if !ok {
		return Category{}, &CategoryNotConfiguredError{Name: name}
	}
	return c, nil
}
