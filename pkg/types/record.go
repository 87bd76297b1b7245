// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the infochir catalog:
// backend article rows, normalized listable records, listing criteria,
// newsletter subscriptions, and stage configuration.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Collection names one of the site's publication collections.
type Collection string

const (
	CollectionIGM          Collection = "igm"
	CollectionRHCA         Collection = "rhca"
	CollectionIndexMedicus Collection = "index-medicus"
	CollectionAtlas        Collection = "atlas"
)

// Collections lists every known collection in display order.
var Collections = []Collection{
	CollectionIGM,
	CollectionRHCA,
	CollectionIndexMedicus,
	CollectionAtlas,
}

// sourceValues maps a collection to the value stored in the backend's
// articles.source column.
var sourceValues = map[Collection]string{
	CollectionIGM:          "IGM",
	CollectionRHCA:         "RHCA",
	CollectionIndexMedicus: "INDEX",
	CollectionAtlas:        "ADC",
}

// SourceValue returns the backend source column value for c.
func (c Collection) SourceValue() string {
	return sourceValues[c]
}

// Grouped reports whether rows of this collection are folded into
// issue/volume records with nested articles.
func (c Collection) Grouped() bool {
	return c == CollectionIGM || c == CollectionRHCA
}

// ParseCollection resolves a collection from its name or its backend
// source value, case-insensitively ("igm", "IGM", "adc", "atlas", ...).
func ParseCollection(s string) (Collection, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Collections {
		if s == string(c) || s == strings.ToLower(c.SourceValue()) {
			return c, nil
		}
	}
	switch s {
	case "indexmedicus", "index_medicus":
		return CollectionIndexMedicus, nil
	}
	return "", fmt.Errorf("unknown collection %q: use igm, rhca, index-medicus, or atlas", s)
}

// NestedArticle is an article bundled inside an issue or volume record.
type NestedArticle struct {
	ID         string   `json:"id" yaml:"id"`
	Title      string   `json:"title" yaml:"title"`
	Authors    []string `json:"authors" yaml:"authors"`
	Abstract   string   `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Tags       []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	PageNumber int      `json:"page_number,omitempty" yaml:"page_number,omitempty"`
}

// ListableRecord is the uniform shape every collection is normalized into
// before filtering, sorting, and grouping. A zero Date means the source
// date was absent or unparseable.
type ListableRecord struct {
	// ID is unique within a collection.
	ID string `json:"id" yaml:"id"`

	Title    string `json:"title" yaml:"title"`
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Date is the publication date. RawDate keeps the source value for
	// diagnostics when Date could not be parsed.
	Date    time.Time `json:"date" yaml:"date"`
	RawDate string    `json:"raw_date,omitempty" yaml:"raw_date,omitempty"`

	Tags       []string `json:"tags" yaml:"tags"`
	Authors    []string `json:"authors" yaml:"authors"`
	Categories []string `json:"categories" yaml:"categories"`

	Downloads int `json:"downloads" yaml:"downloads"`
	Shares    int `json:"shares" yaml:"shares"`

	Collection Collection `json:"collection" yaml:"collection"`
	Volume     string     `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue      string     `json:"issue,omitempty" yaml:"issue,omitempty"`
	PDFURL     string     `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`
	CoverImage string     `json:"cover_image,omitempty" yaml:"cover_image,omitempty"`

	// Articles holds the nested articles of an issue record. Empty for
	// flat collections.
	Articles []NestedArticle `json:"articles,omitempty" yaml:"articles,omitempty"`
}

// HasDate reports whether the record carries a parsed date.
func (r ListableRecord) HasDate() bool {
	return !r.Date.IsZero()
}
