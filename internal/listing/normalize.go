// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package listing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/infochir/catalog/pkg/types"
)

// Normalize converts backend rows of one collection into listable
// records. Grouped collections (IGM, RHCA) fold their rows into issue
// records; the others map one row to one record. Input order is kept.
func Normalize(c types.Collection, rows []types.ArticleRow) []types.ListableRecord {
	if c.Grouped() {
		return GroupIssues(c, rows)
	}
	out := make([]types.ListableRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, NormalizeArticle(c, row))
	}
	return out
}

// NormalizeArticle maps a single row to a record. Absent fields become
// empty strings, empty slices, or zero; an unparseable date becomes the
// zero time with the source value kept in RawDate.
func NormalizeArticle(c types.Collection, row types.ArticleRow) types.ListableRecord {
	rec := types.ListableRecord{
		ID:         row.ID,
		Title:      strings.TrimSpace(row.Title),
		Abstract:   strings.TrimSpace(row.Abstract),
		Date:       ParseDate(row.PublicationDate),
		RawDate:    row.PublicationDate,
		Tags:       nonNil(row.Tags),
		Authors:    nonNil(row.Authors),
		Categories: categoriesOf(row),
		Downloads:  int(row.Downloads),
		Shares:     int(row.Shares),
		Collection: c,
		Volume:     string(row.Volume),
		Issue:      string(row.Issue),
		PDFURL:     row.PDFURL,
		CoverImage: row.ImageURL,
	}
	return rec
}

// GroupIssues folds rows sharing a (volume, issue) pair into one issue
// record whose Articles are the rows in input order. Rows without a
// volume or issue are skipped. The issue takes its date, counters, PDF,
// and cover from the first row of the group; categories are the union
// over all rows. A placeholder abstract is replaced by the first real
// article abstract, and later by any longer one.
func GroupIssues(c types.Collection, rows []types.ArticleRow) []types.ListableRecord {
	index := make(map[string]int)
	var issues []types.ListableRecord

	for _, row := range rows {
		vol, iss := string(row.Volume), string(row.Issue)
		if vol == "" || iss == "" {
			continue
		}
		key := vol + "-" + iss

		idx, ok := index[key]
		if !ok {
			title := strings.TrimSpace(row.Title)
			if title == "" {
				title = defaultIssueTitle(c, vol, iss)
			}
			issues = append(issues, types.ListableRecord{
				ID:         fmt.Sprintf("%s-%s-%s", c, vol, iss),
				Title:      title,
				Abstract:   placeholderAbstract(c, vol, iss),
				Date:       ParseDate(row.PublicationDate),
				RawDate:    row.PublicationDate,
				Tags:       []string{},
				Authors:    []string{},
				Categories: []string{},
				Downloads:  int(row.Downloads),
				Shares:     int(row.Shares),
				Collection: c,
				Volume:     vol,
				Issue:      iss,
				PDFURL:     row.PDFURL,
				CoverImage: row.ImageURL,
			})
			idx = len(issues) - 1
			index[key] = idx
		}

		issue := &issues[idx]
		issue.Articles = append(issue.Articles, types.NestedArticle{
			ID:         row.ID,
			Title:      strings.TrimSpace(row.Title),
			Authors:    nonNil(row.Authors),
			Abstract:   strings.TrimSpace(row.Abstract),
			Tags:       nonNil(row.Tags),
			PageNumber: pageNumber(string(row.PageNumber)),
		})
		issue.Categories = appendUnique(issue.Categories, categoriesOf(row)...)
		issue.Authors = appendUnique(issue.Authors, row.Authors...)
		issue.Tags = appendUnique(issue.Tags, row.Tags...)

		if abs := strings.TrimSpace(row.Abstract); abs != "" {
			if issue.Abstract == placeholderAbstract(c, vol, iss) || len(abs) > len(issue.Abstract) {
				issue.Abstract = abs
			}
		}
	}
	return issues
}

func defaultIssueTitle(c types.Collection, vol, iss string) string {
	switch c {
	case types.CollectionIGM:
		return fmt.Sprintf("INFO GAZETTE MÉDICALE Volume %s, No. %s", vol, iss)
	case types.CollectionRHCA:
		return fmt.Sprintf("Revue Haïtienne de Chirurgie et d'Anesthésiologie Volume %s, No. %s", vol, iss)
	default:
		return fmt.Sprintf("Volume %s, No. %s", vol, iss)
	}
}

func placeholderAbstract(c types.Collection, vol, iss string) string {
	switch c {
	case types.CollectionIGM:
		return fmt.Sprintf("Information Gynéco-Médicale Volume %s, Numéro %s", vol, iss)
	default:
		return fmt.Sprintf("%s Volume %s, Numéro %s", strings.ToUpper(string(c)), vol, iss)
	}
}

func categoriesOf(row types.ArticleRow) []string {
	if cat := strings.TrimSpace(row.Category); cat != "" {
		return []string{cat}
	}
	return []string{}
}

func pageNumber(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func nonNil(l types.StringList) []string {
	if l == nil {
		return []string{}
	}
	out := make([]string, len(l))
	copy(out, l)
	return out
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if v == "" || contains(dst, v) {
			continue
		}
		dst = append(dst, v)
	}
	return dst
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
