package postgres

import (
	"fmt"
	"strings"

	"docvault/internal/repository"
)

// field maps a public field name onto SQL. When wrap is set the predicate on
// expr is embedded into it (one %s), e.g. an EXISTS over a join table.
type field struct {
	expr string
	wrap string
}

// fieldSet is the SQL side of a resource's filter and ordering allow-lists.
type fieldSet map[string]field

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// builder accumulates WHERE predicates and their positional arguments.
type builder struct {
	where []string
	args  []any
}

func (b *builder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// filter adds one predicate per condition. Fields outside fs are rejected.
func (b *builder) filter(fs fieldSet, conds []repository.Condition) error {
	for _, c := range conds {
		f, ok := fs[c.Field]
		if !ok {
			return &repository.UnknownFieldError{Field: c.Field}
		}
		pred, err := b.predicate(f.expr, c.Lookup, c.Value)
		if err != nil {
			return err
		}
		if f.wrap != "" {
			pred = fmt.Sprintf(f.wrap, pred)
		}
		b.where = append(b.where, pred)
	}
	return nil
}

// search requires every term to match at least one of exprs, case-insensitively.
func (b *builder) search(exprs []string, terms []string) {
	for _, term := range terms {
		ph := b.arg("%" + likeEscaper.Replace(term) + "%")
		ors := make([]string, 0, len(exprs))
		for _, e := range exprs {
			ors = append(ors, fmt.Sprintf("%s ILIKE %s", e, ph))
		}
		b.where = append(b.where, "("+strings.Join(ors, " OR ")+")")
	}
}

func (b *builder) predicate(expr string, lookup repository.Lookup, value string) (string, error) {
	esc := likeEscaper.Replace(value)
	switch lookup {
	case repository.LookupExact, "":
		return fmt.Sprintf("%s = %s", expr, b.arg(value)), nil
	case repository.LookupIExact:
		return fmt.Sprintf("LOWER(%s) = LOWER(%s)", expr, b.arg(value)), nil
	case repository.LookupContains:
		return fmt.Sprintf("%s LIKE %s", expr, b.arg("%"+esc+"%")), nil
	case repository.LookupIContains:
		return fmt.Sprintf("%s ILIKE %s", expr, b.arg("%"+esc+"%")), nil
	case repository.LookupStartsWith:
		return fmt.Sprintf("%s LIKE %s", expr, b.arg(esc+"%")), nil
	case repository.LookupIStartsWith:
		return fmt.Sprintf("%s ILIKE %s", expr, b.arg(esc+"%")), nil
	case repository.LookupEndsWith:
		return fmt.Sprintf("%s LIKE %s", expr, b.arg("%"+esc)), nil
	case repository.LookupIEndsWith:
		return fmt.Sprintf("%s ILIKE %s", expr, b.arg("%"+esc)), nil
	default:
		return "", fmt.Errorf("unsupported lookup %q", lookup)
	}
}

// whereClause renders the accumulated predicates, or "" when there are none.
func (b *builder) whereClause() string {
	if len(b.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.where, " AND ")
}

// orderClause renders ORDER BY for ordering, always ending with tiebreak so
// that LIMIT/OFFSET pages are stable.
func orderClause(fs fieldSet, ordering []repository.OrderBy, tiebreak string) (string, error) {
	parts := make([]string, 0, len(ordering)+1)
	for _, o := range ordering {
		f, ok := fs[o.Field]
		if !ok {
			return "", &repository.UnknownFieldError{Field: o.Field}
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, f.expr+" "+dir)
	}
	parts = append(parts, tiebreak)
	return " ORDER BY " + strings.Join(parts, ", "), nil
}
