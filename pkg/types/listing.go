// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"time"
)

// SortKey selects a named ordering for listings.
type SortKey string

const (
	SortLatest    SortKey = "latest"
	SortYear      SortKey = "year"
	SortDownloads SortKey = "downloads"
	SortShares    SortKey = "shares"
)

// ParseSortKey maps s to a known SortKey. Unknown or empty values fall
// back to SortLatest.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortLatest, SortYear, SortDownloads, SortShares:
		return k
	default:
		return SortLatest
	}
}

// DateRange bounds a date filter. A zero bound is unset.
type DateRange struct {
	From time.Time `json:"from,omitempty" yaml:"from,omitempty"`
	To   time.Time `json:"to,omitempty" yaml:"to,omitempty"`
}

// Active reports whether at least one bound is set.
func (d *DateRange) Active() bool {
	return d != nil && (!d.From.IsZero() || !d.To.IsZero())
}

// FilterCriteria holds the user-selected listing filters. It is passed by
// value into the pipeline on every run.
type FilterCriteria struct {
	SearchTerm string     `json:"search_term,omitempty" yaml:"search_term,omitempty"`
	DateRange  *DateRange `json:"date_range,omitempty" yaml:"date_range,omitempty"`
	Categories []string   `json:"categories,omitempty" yaml:"categories,omitempty"`
}
