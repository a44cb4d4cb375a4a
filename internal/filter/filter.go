// Package filter turns list query parameters into repository.ListQuery values
// according to a resource's declared filter fields, ordering fields, search
// support and the shared pagination policy.
package filter

import (
	"errors"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"docvault/internal/repository"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 100000

	PageParam     = "page"
	PageSizeParam = "page-size"
	OrderingParam = "ordering"
	SearchParam   = "search"

	lookupSep = "__"
)

// ErrInvalidPage is returned for a page number that is not a positive integer.
var ErrInvalidPage = errors.New("invalid page")

var reserved = []string{PageParam, PageSizeParam, OrderingParam, SearchParam}

// Set is the declarative list policy of one resource.
type Set struct {
	// Fields may be filtered with any lookup, e.g. name=x or name__icontains=x.
	Fields []string
	// Ordering is the allow-list accepted by the ordering parameter.
	Ordering []string
	// DefaultOrdering applies when the request names no allowed ordering field.
	DefaultOrdering []repository.OrderBy
	// Search enables the search parameter.
	Search bool
}

// Page is the requested page number and size.
type Page struct {
	Number int
	Size   int
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// ParsePage reads page and page-size. A missing page means 1; an invalid page,
// including one whose offset would not fit in an int, is an error. page-size
// falls back to the default when missing or invalid and is clamped to
// MaxPageSize.
func ParsePage(q url.Values) (Page, error) {
	p := Page{Number: 1, Size: DefaultPageSize}

	if raw := q.Get(PageSizeParam); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.Size = min(n, MaxPageSize)
		}
	}

	if raw := q.Get(PageParam); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n-1 > math.MaxInt/p.Size {
			return Page{}, ErrInvalidPage
		}
		p.Number = n
	}
	return p, nil
}

// Parse builds the list query for q. Parameters naming unknown fields or
// lookups are ignored, as are ordering terms outside the allow-list.
func (s Set) Parse(q url.Values) (repository.ListQuery, Page, error) {
	page, err := ParsePage(q)
	if err != nil {
		return repository.ListQuery{}, Page{}, err
	}

	lq := repository.ListQuery{
		Conditions: s.conditions(q),
		Ordering:   s.ordering(q.Get(OrderingParam)),
		Limit:      page.Size,
		Offset:     page.Offset(),
	}
	if s.Search {
		lq.Search = SearchTerms(q.Get(SearchParam))
	}
	return lq, page, nil
}

func (s Set) conditions(q url.Values) []repository.Condition {
	keys := lo.Keys(q)
	slices.Sort(keys)

	var conds []repository.Condition
	for _, key := range keys {
		if slices.Contains(reserved, key) {
			continue
		}
		// Last value wins for repeated parameters.
		value := q[key][len(q[key])-1]
		if value == "" {
			continue
		}
		field, lookup, ok := s.resolve(key)
		if !ok {
			continue
		}
		conds = append(conds, repository.Condition{Field: field, Lookup: lookup, Value: value})
	}
	return conds
}

// resolve splits key into a declared field and a lookup.
func (s Set) resolve(key string) (string, repository.Lookup, bool) {
	if slices.Contains(s.Fields, key) {
		return key, repository.LookupExact, true
	}
	i := strings.LastIndex(key, lookupSep)
	if i < 0 {
		return "", "", false
	}
	field, lookup := key[:i], repository.Lookup(key[i+len(lookupSep):])
	if !slices.Contains(s.Fields, field) || !slices.Contains(repository.Lookups(), lookup) {
		return "", "", false
	}
	return field, lookup, true
}

func (s Set) ordering(raw string) []repository.OrderBy {
	var out []repository.OrderBy
	for _, term := range strings.Split(raw, ",") {
		term = strings.TrimSpace(term)
		desc := strings.HasPrefix(term, "-")
		field := strings.TrimPrefix(term, "-")
		if field == "" || !slices.Contains(s.Ordering, field) {
			continue
		}
		out = append(out, repository.OrderBy{Field: field, Desc: desc})
	}
	if len(out) == 0 {
		return slices.Clone(s.DefaultOrdering)
	}
	return out
}

// SearchTerms splits a search parameter on whitespace and commas.
func SearchTerms(raw string) []string {
	raw = strings.ReplaceAll(raw, "\x00", "")
	return strings.Fields(strings.ReplaceAll(raw, ",", " "))
}
