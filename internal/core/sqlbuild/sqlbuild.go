// Package sqlbuild accumulates WHERE predicates and positional parameters so
// query text and parameter order can never drift apart
package sqlbuild

import (
	"strconv"
	"strings"
)

// WhereBuilder collects AND-joined predicate fragments with `?` placeholders
// and their parameters in matching order
type WhereBuilder struct {
	parts  []string
	params []any
}

// NewWhere returns an empty builder
func NewWhere() *WhereBuilder { return &WhereBuilder{} }

// Add appends a predicate fragment and its parameters
func (b *WhereBuilder) Add(clause string, params ...any) *WhereBuilder {
	b.parts = append(b.parts, clause)
	if len(params) > 0 {
		b.params = append(b.params, params...)
	}
	return b
}

// AddIn appends `column = ?` for a single value or `column IN (?, ...)` for
// several; an empty slice adds nothing
func (b *WhereBuilder) AddIn(column string, values []any) *WhereBuilder {
	switch len(values) {
	case 0:
		return b
	case 1:
		return b.Add(column+" = ?", values[0])
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	return b.Add(column+" IN ("+marks+")", values...)
}

// SQL renders the combined predicate, "1=1" when nothing was added
func (b *WhereBuilder) SQL() string {
	if len(b.parts) == 0 {
		return "1=1"
	}
	return strings.Join(b.parts, " AND ")
}

// Params returns the accumulated parameters in placeholder order
func (b *WhereBuilder) Params() []any {
	out := make([]any, len(b.params))
	copy(out, b.params)
	return out
}

// Rebind rewrites `?` placeholders to the @pN form the sqlserver driver binds.
// Queries are built in-house so no quote-awareness is needed here.
func Rebind(query string) string {
	var sb strings.Builder
	sb.Grow(len(query) + 16)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			sb.WriteByte(query[i])
			continue
		}
		n++
		sb.WriteString("@p")
		sb.WriteString(strconv.Itoa(n))
	}
	return sb.String()
}

// ValidTableName reports whether name is a safe destination identifier:
// letters, digits, underscore or dollar, at most 128 chars
func ValidTableName(name string) bool {
	if name == "" || len(name) > 128 {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '$':
		default:
			return false
		}
	}
	return true
}

// dateBasisColumns is the allow-list of sortable/filterable date columns on
// the CRM policy view; anything else falls back to the default
var dateBasisColumns = map[string]struct{}{
	"QuoteCreatedDate":        {},
	"OriginalPolicyStartDate": {},
	"PolicyEndDate":           {},
	"QuoteStartDate":          {},
	"QuoteEndDate":            {},
}

// DefaultDateBasis is used when the requested basis is not on the allow-list
const DefaultDateBasis = "QuoteCreatedDate"

// DateBasis returns the column if allow-listed, else DefaultDateBasis
func DateBasis(requested string) string {
	if _, ok := dateBasisColumns[requested]; ok {
		return requested
	}
	return DefaultDateBasis
}

// Order returns "ASC" or "DESC", defaulting to "DESC" for anything else
func Order(requested string) string {
	if strings.EqualFold(strings.TrimSpace(requested), "ASC") {
		return "ASC"
	}
	return "DESC"
}
