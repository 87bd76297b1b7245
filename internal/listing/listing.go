// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package listing derives filtered, sorted, and year-grouped views over a
// collection of records. The same pipeline serves every collection: it
// is generic over the record shape through a small Accessor interface,
// and it is pure apart from diagnostics written to an injected logger.
package listing

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/infochir/catalog/pkg/types"
)

// Accessor extracts the fields the pipeline needs from a record of type T.
type Accessor[T any] interface {
	// ID identifies the record in diagnostics.
	ID(T) string
	// Date returns the publication date, or the zero time when absent.
	Date(T) time.Time
	// Categories returns the record's category set.
	Categories(T) []string
	// Search returns the text the search filter looks at.
	Search(T) SearchFields
	Downloads(T) int
	Shares(T) int
}

// SearchFields is the searchable text of one record. Own holds the
// record's title and abstract, matched against the whole search term.
// Nested holds one field list per nested article, matched token by
// token: a nested entry matches when it contains every token.
type SearchFields struct {
	Own    []string
	Nested [][]string
}

// Result holds the derived views of one pipeline run.
type Result[T any] struct {
	// Sorted is the filtered records in the requested order.
	Sorted []T `json:"sorted"`

	// ByYear maps a year to its records in Sorted order.
	ByYear map[int][]T `json:"by_year"`

	// Years lists the keys of ByYear, strictly descending.
	Years []int `json:"years"`

	// Undated holds filtered records without a usable date. They appear
	// in Sorted but in no year group.
	Undated []T `json:"undated"`

	// Categories is the sorted union of categories over all input
	// records, independent of the active filters.
	Categories []string `json:"categories"`
}

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	log *zap.Logger
	now func() time.Time
}

// WithLogger sets the logger used for date diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithClock sets the clock used to bound plausible years.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Pipeline filters, sorts, and groups records of type T. It holds no
// per-run state, so one Pipeline may serve concurrent callers.
type Pipeline[T any] struct {
	acc Accessor[T]
	log *zap.Logger
	now func() time.Time
}

// New returns a Pipeline reading records through acc.
func New[T any](acc Accessor[T], opts ...Option) *Pipeline[T] {
	o := options{log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Pipeline[T]{acc: acc, log: o.log, now: o.now}
}

// entry caches the per-record values used by every stage.
type entry[T any] struct {
	rec   T
	date  time.Time
	valid bool
}

// Run applies criteria and key to records. It never mutates records and
// never fails: malformed fields degrade to defaults. Identical inputs
// produce structurally equal results.
func (p *Pipeline[T]) Run(records []T, criteria types.FilterCriteria, key types.SortKey) Result[T] {
	now := p.now()
	entries := make([]entry[T], len(records))
	for i, r := range records {
		d := p.acc.Date(r)
		entries[i] = entry[T]{rec: r, date: d, valid: validDate(d, now, p.log, p.acc.ID(r))}
	}

	categories := p.availableCategories(records)

	filtered := make([]entry[T], 0, len(entries))
	for _, e := range entries {
		if p.accept(e, criteria) {
			filtered = append(filtered, e)
		}
	}

	p.sortEntries(filtered, key)

	res := Result[T]{
		Sorted:     make([]T, len(filtered)),
		Categories: categories,
	}
	for i, e := range filtered {
		res.Sorted[i] = e.rec
	}
	res.ByYear, res.Years, res.Undated = p.group(filtered)
	return res
}

// accept reports whether e passes all three filters.
func (p *Pipeline[T]) accept(e entry[T], c types.FilterCriteria) bool {
	return matchDateRange(e.date, e.valid, c.DateRange) &&
		matchText(p.acc.Search(e.rec), c.SearchTerm) &&
		matchCategories(p.acc.Categories(e.rec), c.Categories)
}

func (p *Pipeline[T]) availableCategories(records []T) []string {
	set := make(map[string]struct{})
	for _, r := range records {
		for _, c := range p.acc.Categories(r) {
			if c != "" {
				set[c] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Records returns the pipeline used for normalized ListableRecords.
func Records(opts ...Option) *Pipeline[types.ListableRecord] {
	return New[types.ListableRecord](RecordAccessor{}, opts...)
}

// RecordAccessor reads pipeline fields from a types.ListableRecord.
type RecordAccessor struct{}

func (RecordAccessor) ID(r types.ListableRecord) string           { return r.ID }
func (RecordAccessor) Date(r types.ListableRecord) time.Time      { return r.Date }
func (RecordAccessor) Categories(r types.ListableRecord) []string { return r.Categories }
func (RecordAccessor) Downloads(r types.ListableRecord) int       { return max(r.Downloads, 0) }
func (RecordAccessor) Shares(r types.ListableRecord) int          { return max(r.Shares, 0) }

// Search exposes title and abstract as the record's own fields. Each
// nested article contributes its title, authors, abstract, and tags. A
// record without nested articles is searched as its own single entry.
func (RecordAccessor) Search(r types.ListableRecord) SearchFields {
	sf := SearchFields{Own: []string{r.Title, r.Abstract}}
	if len(r.Articles) == 0 {
		fields := append([]string{r.Title, r.Abstract}, r.Authors...)
		sf.Nested = [][]string{append(fields, r.Tags...)}
		return sf
	}
	sf.Nested = make([][]string, len(r.Articles))
	for i, a := range r.Articles {
		fields := append([]string{a.Title, a.Abstract}, a.Authors...)
		sf.Nested[i] = append(fields, a.Tags...)
	}
	return sf
}
