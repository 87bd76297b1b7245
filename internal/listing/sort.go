// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package listing

import (
	"sort"

	"github.com/infochir/catalog/pkg/types"
)

// compareFunc orders two entries: negative when a sorts first.
type compareFunc[T any] func(a, b entry[T]) int

// comparators returns the fixed table of named orderings.
func (p *Pipeline[T]) comparators() map[types.SortKey]compareFunc[T] {
	return map[types.SortKey]compareFunc[T]{
		types.SortLatest: compareLatest[T],
		types.SortYear:   compareYear[T],
		types.SortDownloads: func(a, b entry[T]) int {
			return p.acc.Downloads(b.rec) - p.acc.Downloads(a.rec)
		},
		types.SortShares: func(a, b entry[T]) int {
			return p.acc.Shares(b.rec) - p.acc.Shares(a.rec)
		},
	}
}

// sortEntries stable-sorts entries in place by key. Unknown keys use
// latest.
func (p *Pipeline[T]) sortEntries(entries []entry[T], key types.SortKey) {
	table := p.comparators()
	cmp, ok := table[key]
	if !ok {
		cmp = table[types.SortLatest]
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return cmp(entries[i], entries[j]) < 0
	})
}

// undatedLast orders valid dates before invalid ones. ok is false when
// both are valid and the caller must compare the dates.
func undatedLast[T any](a, b entry[T]) (int, bool) {
	switch {
	case a.valid && b.valid:
		return 0, false
	case a.valid:
		return -1, true
	case b.valid:
		return 1, true
	default:
		return 0, true
	}
}

// compareLatest orders most recent first.
func compareLatest[T any](a, b entry[T]) int {
	if c, done := undatedLast(a, b); done {
		return c
	}
	return b.date.Compare(a.date)
}

// compareYear orders by year descending, then month descending.
func compareYear[T any](a, b entry[T]) int {
	if c, done := undatedLast(a, b); done {
		return c
	}
	if d := b.date.Year() - a.date.Year(); d != 0 {
		return d
	}
	return int(b.date.Month()) - int(a.date.Month())
}
