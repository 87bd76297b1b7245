// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package listing

import (
	"sort"

	"go.uber.org/zap"
)

// group partitions sorted entries by year. Members keep their sorted
// order; years come back strictly descending. Entries without a valid
// date cannot be bucketed and are returned separately.
func (p *Pipeline[T]) group(sorted []entry[T]) (map[int][]T, []int, []T) {
	byYear := make(map[int][]T)
	undated := make([]T, 0)

	for _, e := range sorted {
		if !e.valid {
			p.log.Debug("record without valid date left out of year groups",
				zap.String("id", p.acc.ID(e.rec)))
			undated = append(undated, e.rec)
			continue
		}
		y := e.date.Year()
		byYear[y] = append(byYear[y], e.rec)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return byYear, years, undated
}

// YearGroup is one year bucket of a grouped listing.
type YearGroup[T any] struct {
	Year    int `json:"year" yaml:"year"`
	Members []T `json:"members" yaml:"members"`
}

// Groups returns the year buckets of r in descending year order.
func (r Result[T]) Groups() []YearGroup[T] {
	out := make([]YearGroup[T], 0, len(r.Years))
	for _, y := range r.Years {
		out = append(out, YearGroup[T]{Year: y, Members: r.ByYear[y]})
	}
	return out
}
