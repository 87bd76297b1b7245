// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package listing

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/infochir/catalog/pkg/types"
)

// ViewFile is the on-disk representation of a saved listing: the
// collection, criteria, and sort key that produced it, plus a summary.
// Reloading a view re-runs the pipeline with the stored criteria.
type ViewFile struct {
	Collection types.Collection `yaml:"collection"`
	Criteria   ViewCriteria     `yaml:"criteria"`
	Sort       types.SortKey    `yaml:"sort"`
	Summary    ViewSummary      `yaml:"summary"`
}

// ViewCriteria stores FilterCriteria in a serializable form.
type ViewCriteria struct {
	SearchTerm string   `yaml:"search_term,omitempty"`
	DateFrom   string   `yaml:"date_from,omitempty"`
	DateTo     string   `yaml:"date_to,omitempty"`
	Categories []string `yaml:"categories,omitempty"`
}

// ViewSummary stores result statistics and a timestamp.
type ViewSummary struct {
	Total     int       `yaml:"total"`
	Undated   int       `yaml:"undated"`
	Years     []int     `yaml:"years,omitempty"`
	RecordIDs []string  `yaml:"record_ids,omitempty"`
	Timestamp time.Time `yaml:"timestamp"`
}

const dateFmt = "2006-01-02"

// WriteViewFile saves a listing's criteria and summary to a YAML file.
func WriteViewFile(path string, c types.Collection, criteria types.FilterCriteria, key types.SortKey, res Result[types.ListableRecord]) error {
	vf := ViewFile{
		Collection: c,
		Criteria: ViewCriteria{
			SearchTerm: criteria.SearchTerm,
			Categories: criteria.Categories,
		},
		Sort: key,
		Summary: ViewSummary{
			Total:     len(res.Sorted),
			Undated:   len(res.Undated),
			Years:     res.Years,
			Timestamp: time.Now().UTC(),
		},
	}
	if r := criteria.DateRange; r.Active() {
		if !r.From.IsZero() {
			vf.Criteria.DateFrom = r.From.Format(dateFmt)
		}
		if !r.To.IsZero() {
			vf.Criteria.DateTo = r.To.Format(dateFmt)
		}
	}
	for _, rec := range res.Sorted {
		vf.Summary.RecordIDs = append(vf.Summary.RecordIDs, rec.ID)
	}

	data, err := yaml.Marshal(&vf)
	if err != nil {
		return fmt.Errorf("marshaling view file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadViewFile loads a previously saved view file from disk.
func ReadViewFile(path string) (*ViewFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading view file: %w", err)
	}
	var vf ViewFile
	if err := yaml.Unmarshal(data, &vf); err != nil {
		return nil, fmt.Errorf("parsing view file: %w", err)
	}
	return &vf, nil
}

// ToCriteria converts stored ViewCriteria back into FilterCriteria.
func (v ViewCriteria) ToCriteria() (types.FilterCriteria, error) {
	c := types.FilterCriteria{
		SearchTerm: v.SearchTerm,
		Categories: v.Categories,
	}
	from, err := parseBound(v.DateFrom, false)
	if err != nil {
		return c, fmt.Errorf("invalid date_from %q: %w", v.DateFrom, err)
	}
	to, err := parseBound(v.DateTo, true)
	if err != nil {
		return c, fmt.Errorf("invalid date_to %q: %w", v.DateTo, err)
	}
	if !from.IsZero() || !to.IsZero() {
		c.DateRange = &types.DateRange{From: from, To: to}
	}
	return c, nil
}

// ParseDateRange builds a DateRange from inclusive YYYY-MM-DD bounds;
// empty strings leave a bound unset. It returns nil when both are empty.
func ParseDateRange(from, to string) (*types.DateRange, error) {
	f, err := parseBound(from, false)
	if err != nil {
		return nil, fmt.Errorf("invalid from date %q: %w", from, err)
	}
	t, err := parseBound(to, true)
	if err != nil {
		return nil, fmt.Errorf("invalid to date %q: %w", to, err)
	}
	if f.IsZero() && t.IsZero() {
		return nil, nil
	}
	return &types.DateRange{From: f, To: t}, nil
}

// parseBound parses a YYYY-MM-DD bound. An upper bound covers the whole
// day, so it resolves to the last instant before the next midnight.
func parseBound(s string, upper bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateFmt, s)
	if err != nil || !upper {
		return t, err
	}
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}
