// Package repository declares the persistence contracts used by the services.
// Implementations live in subpackages (e.g. postgres).
package repository

import "fmt"

// Lookup is the comparison applied by a filter condition.
type Lookup string

const (
	LookupExact       Lookup = "exact"
	LookupIExact      Lookup = "iexact"
	LookupContains    Lookup = "contains"
	LookupIContains   Lookup = "icontains"
	LookupStartsWith  Lookup = "startswith"
	LookupIStartsWith Lookup = "istartswith"
	LookupEndsWith    Lookup = "endswith"
	LookupIEndsWith   Lookup = "iendswith"
)

// Lookups lists every supported lookup.
func Lookups() []Lookup {
	return []Lookup{
		LookupExact, LookupIExact,
		LookupContains, LookupIContains,
		LookupStartsWith, LookupIStartsWith,
		LookupEndsWith, LookupIEndsWith,
	}
}

// Condition restricts a list to rows whose Field matches Value under Lookup.
// Field is the public field name (e.g. "correspondent__name").
type Condition struct {
	Field  string
	Lookup Lookup
	Value  string
}

// OrderBy sorts a list by a public field name.
type OrderBy struct {
	Field string
	Desc  bool
}

// ListQuery is a filtered, ordered, paginated list request. Field names are
// already checked against the resource's allow-lists; implementations reject
// anything else.
type ListQuery struct {
	Conditions []Condition
	Search     []string
	Ordering   []OrderBy
	Limit      int
	Offset     int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}

// ConflictError reports a unique constraint violation on Field.
type ConflictError struct {
	Field string
	Err   error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists: %v", e.Field, e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// UnknownFieldError is returned when a query names a field outside the allow-list.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}
