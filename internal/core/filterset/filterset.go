// Package filterset normalizes multi-value report filters and translates them
// into WHERE predicates
package filterset

import (
	"strings"

	"petmis/internal/core/sqlbuild"
)

// petPatterns maps a pet category token to its LIKE pattern. Unrecognized
// tokens are dropped rather than matched literally.
var petPatterns = map[string]string{
	"cat":    "%cat%",
	"dog":    "%dog%",
	"horse":  "%horse%",
	"exotic": "%exotic%",
	"bbc":    "%bb_com%",
	"bbcom":  "%bb_com%",
}

// Normalize cleans raw filter inputs. Each element may itself be a
// comma-separated list. An "all" token anywhere (case-insensitive) collapses
// the whole filter to nil, meaning no restriction. Duplicates are removed
// case-insensitively, keeping the first casing seen.
func Normalize(raw []string) []string {
	var tokens []string
	for _, r := range raw {
		for _, t := range strings.Split(r, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tokens = append(tokens, t)
			}
		}
	}
	for _, t := range tokens {
		if strings.EqualFold(t, "all") {
			return nil
		}
	}
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		k := strings.ToLower(t)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// NormalizeOne is Normalize for a single comma-separated string
func NormalizeOne(raw string) []string {
	if raw == "" {
		return nil
	}
	return Normalize([]string{raw})
}

// Criteria bundles the shared report filters after normalization
type Criteria struct {
	Countries []string
	Brands    []string
	Pets      []string
}

// FromQuery normalizes the three shared filter inputs in one call
func FromQuery(countries, brands, pets string) Criteria {
	return Criteria{
		Countries: NormalizeOne(countries),
		Brands:    NormalizeOne(brands),
		Pets:      NormalizeOne(pets),
	}
}

// Apply appends the criteria's predicates to wb.
// Exact-match columns are compared uppercased to sidestep collation drift;
// pet categories become an OR-group of LIKE patterns.
func Apply(wb *sqlbuild.WhereBuilder, c Criteria) *sqlbuild.WhereBuilder {
	if vals := upperVals(c.Countries); len(vals) > 0 {
		wb.AddIn("UPPER(CountryCode)", vals)
	}
	if vals := upperVals(c.Brands); len(vals) > 0 {
		wb.AddIn("UPPER(Brand)", vals)
	}

	var likes []string
	var params []any
	for _, p := range c.Pets {
		patt, ok := petPatterns[strings.ToLower(p)]
		if !ok {
			continue
		}
		likes = append(likes, "LOWER(COALESCE(PetType, '')) LIKE ?")
		params = append(params, patt)
	}
	if len(likes) > 0 {
		wb.Add("("+strings.Join(likes, " OR ")+")", params...)
	}
	return wb
}

func upperVals(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	return out
}
