// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package listing

import (
	"strings"
	"time"

	"github.com/infochir/catalog/pkg/types"
)

// matchText reports whether sf matches term. An empty term matches
// everything. The whole lowercased term is first looked up in the own
// fields; failing that, the term is split into tokens and some nested
// entry must contain all of them.
func matchText(sf SearchFields, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}

	for _, f := range sf.Own {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}

	tokens := strings.Fields(term)
	for _, fields := range sf.Nested {
		if containsAll(fields, tokens) {
			return true
		}
	}
	return false
}

// containsAll reports whether every token occurs in at least one field.
func containsAll(fields, tokens []string) bool {
	lowered := make([]string, len(fields))
	for i, f := range fields {
		lowered[i] = strings.ToLower(f)
	}
	for _, tok := range tokens {
		found := false
		for _, f := range lowered {
			if strings.Contains(f, tok) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// matchDateRange reports whether a record date passes r. With no bound
// set every record passes, dated or not. With a bound set, records
// without a valid date are excluded.
func matchDateRange(d time.Time, valid bool, r *types.DateRange) bool {
	if !r.Active() {
		return true
	}
	if !valid {
		return false
	}
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

// matchCategories reports whether have contains every category in want.
func matchCategories(have, want []string) bool {
	for _, w := range want {
		if !contains(have, w) {
			return false
		}
	}
	return true
}
