package postgrest

import "strings"

// PostgREST filter operators: comparison, pattern matching, null/boolean
// tests, array/range containment and adjacency, full-text search.
// https://postgrest.org/en/stable/references/api/tables_views.html#operators
var operators = map[string]bool{
	"eq":         true,
	"neq":        true,
	"gt":         true,
	"gte":        true,
	"lt":         true,
	"lte":        true,
	"like":       true,
	"ilike":      true,
	"match":      true,
	"imatch":     true,
	"is":         true,
	"isdistinct": true,
	"in":         true,
	"cs":         true, // contains
	"cd":         true, // contained in
	"ov":         true, // overlaps
	"sl":         true, // strictly left of
	"sr":         true, // strictly right of
	"nxl":        true, // does not extend to the left of
	"nxr":        true, // does not extend to the right of
	"adj":        true, // adjacent
	"not":        true,
	"fts":        true,
	"plfts":      true,
	"phfts":      true,
	"wfts":       true,
}

// Filter sets the filter entry for (column, operator). A later call for the
// same pair overwrites the earlier value; distinct operators on the same
// column coexist as separate query parameters. An unsupported operator is
// recorded as a ValidationError and surfaced by Execute.
func (q *QueryBuilder) Filter(column, operator, value string) *QueryBuilder {
	if q.err != nil {
		return q
	}
	if column == "" {
		q.err = &ValidationError{Op: operator, Reason: "filter column must not be empty"}
		return q
	}
	if !operators[operator] {
		q.err = &ValidationError{Column: column, Op: operator, Reason: "unsupported filter operator"}
		return q
	}
	for i, f := range q.filters {
		if f.column == column && f.operator == operator {
			q.filters[i].value = value
			return q
		}
	}
	q.filters = append(q.filters, filterEntry{column: column, operator: operator, value: value})
	return q
}

// Eq filters rows where column equals value.
func (q *QueryBuilder) Eq(column, value string) *QueryBuilder { return q.Filter(column, "eq", value) }

// Neq filters rows where column does not equal value.
func (q *QueryBuilder) Neq(column, value string) *QueryBuilder { return q.Filter(column, "neq", value) }

// Gt filters rows where column is greater than value.
func (q *QueryBuilder) Gt(column, value string) *QueryBuilder { return q.Filter(column, "gt", value) }

// Gte filters rows where column is greater than or equal to value.
func (q *QueryBuilder) Gte(column, value string) *QueryBuilder { return q.Filter(column, "gte", value) }

// Lt filters rows where column is less than value.
func (q *QueryBuilder) Lt(column, value string) *QueryBuilder { return q.Filter(column, "lt", value) }

// Lte filters rows where column is less than or equal to value.
func (q *QueryBuilder) Lte(column, value string) *QueryBuilder { return q.Filter(column, "lte", value) }

// Like filters rows where column matches the LIKE pattern.
func (q *QueryBuilder) Like(column, pattern string) *QueryBuilder {
	return q.Filter(column, "like", pattern)
}

// Ilike filters rows where column matches the pattern case-insensitively.
func (q *QueryBuilder) Ilike(column, pattern string) *QueryBuilder {
	return q.Filter(column, "ilike", pattern)
}

// Match filters rows where column matches the POSIX regex pattern.
func (q *QueryBuilder) Match(column, pattern string) *QueryBuilder {
	return q.Filter(column, "match", pattern)
}

// IMatch filters rows where column matches the POSIX regex pattern
// case-insensitively.
func (q *QueryBuilder) IMatch(column, pattern string) *QueryBuilder {
	return q.Filter(column, "imatch", pattern)
}

// Not negates another operator, serialized as not.operator.value. The inner
// operator is validated like any other.
func (q *QueryBuilder) Not(column, operator, value string) *QueryBuilder {
	if q.err != nil {
		return q
	}
	if !operators[operator] {
		q.err = &ValidationError{Column: column, Op: operator, Reason: "unsupported filter operator"}
		return q
	}
	return q.Filter(column, "not", operator+"."+value)
}

// Is filters on IS checks: null, true, false, unknown.
func (q *QueryBuilder) Is(column, value string) *QueryBuilder { return q.Filter(column, "is", value) }

// In filters rows where column is one of values, serialized as in.(a,b,c).
func (q *QueryBuilder) In(column string, values ...string) *QueryBuilder {
	return q.Filter(column, "in", "("+strings.Join(values, ",")+")")
}

// Contains filters array/range/jsonb columns containing value.
func (q *QueryBuilder) Contains(column, value string) *QueryBuilder {
	return q.Filter(column, "cs", value)
}

// ContainedBy filters array/range/jsonb columns contained by value.
func (q *QueryBuilder) ContainedBy(column, value string) *QueryBuilder {
	return q.Filter(column, "cd", value)
}

// Overlaps filters array/range columns overlapping value.
func (q *QueryBuilder) Overlaps(column, value string) *QueryBuilder {
	return q.Filter(column, "ov", value)
}

// TextSearch filters with full-text search against a tsquery.
func (q *QueryBuilder) TextSearch(column, query string) *QueryBuilder {
	return q.Filter(column, "fts", query)
}
