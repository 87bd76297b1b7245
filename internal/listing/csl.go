// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package listing

import (
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/infochir/catalog/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Issue          string    `yaml:"issue,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	Keyword        string    `yaml:"keyword,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// containerTitles names the journal each collection publishes under.
var containerTitles = map[types.Collection]string{
	types.CollectionIGM:          "Info Gazette Médicale",
	types.CollectionRHCA:         "Revue Haïtienne de Chirurgie et d'Anesthésiologie",
	types.CollectionIndexMedicus: "Index Medicus",
	types.CollectionAtlas:        "Atlas de Diagnostic Chirurgical",
}

// FormatCSL writes records as a CSL-YAML list to w. Issue records expand
// into one entry per nested article.
func FormatCSL(records []types.ListableRecord, w io.Writer) error {
	var items []CSLItem
	for _, r := range records {
		items = append(items, toCSLItems(r)...)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItems(r types.ListableRecord) []CSLItem {
	base := CSLItem{
		Type:           "article-journal",
		ContainerTitle: containerTitles[r.Collection],
		Volume:         r.Volume,
		Issue:          r.Issue,
	}
	if r.HasDate() {
		base.Issued = &CSLDate{
			DateParts: [][]int{{r.Date.Year(), int(r.Date.Month()), r.Date.Day()}},
		}
	}

	if len(r.Articles) == 0 {
		item := base
		item.ID = r.ID
		item.Title = r.Title
		item.Abstract = r.Abstract
		item.Author = cslNames(r.Authors)
		item.Keyword = strings.Join(r.Tags, ", ")
		return []CSLItem{item}
	}

	items := make([]CSLItem, 0, len(r.Articles))
	for _, a := range r.Articles {
		item := base
		item.ID = a.ID
		item.Title = a.Title
		item.Abstract = a.Abstract
		item.Author = cslNames(a.Authors)
		item.Keyword = strings.Join(a.Tags, ", ")
		if a.PageNumber > 0 {
			item.Page = strconv.Itoa(a.PageNumber)
		}
		items = append(items, item)
	}
	return items
}

func cslNames(authors []string) []CSLName {
	var out []CSLName
	for _, a := range authors {
		if n := parseAuthorName(a); n != (CSLName{}) {
			out = append(out, n)
		}
	}
	return out
}

// parseAuthorName splits a full name string into CSL family/given parts.
// A "Family, Given" form is honored; otherwise it splits on the last
// space. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	if family, given, ok := strings.Cut(name, ","); ok {
		return CSLName{Family: strings.TrimSpace(family), Given: strings.TrimSpace(given)}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
