// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/infochir/catalog/pkg/types"
)

const articleColumns = `a.id, a.collection, a.source, a.title, a.abstract, a.authors, a.tags,
	a.category, a.status, a.publication_date, a.volume, a.issue, a.page_number,
	a.downloads, a.shares, a.views, a.citations, a.pdf_url, a.image_url,
	a.specialty, a.institution, a.created_at, a.updated_at`

// Hit is an article row returned from a catalog lookup with the
// collection it was synced under.
type Hit struct {
	types.ArticleRow `yaml:",inline"`
	Collection       types.Collection `json:"collection" yaml:"collection"`
}

// Rows returns every stored row of collection c, newest publication first.
// Rows without a publication date come last in insertion order.
func (s *Store) Rows(ctx context.Context, c types.Collection) ([]types.ArticleRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles a
		 WHERE a.collection = ?
		 ORDER BY a.publication_date = '' , a.publication_date DESC, a.rowid`, string(c))
	if err != nil {
		return nil, fmt.Errorf("querying %s rows: %w", c, err)
	}
	defer rows.Close()

	var out []types.ArticleRow
	for rows.Next() {
		h, err := scanHit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h.ArticleRow)
	}
	return out, rows.Err()
}

// Get returns the article with the given ID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Hit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles a WHERE a.id = ?`, id)
	h, err := scanHit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Hit{}, fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	return h, err
}

// Search runs a full-text query over titles and abstracts of every
// collection, ranked by relevance. Each whitespace token of query must
// appear; FTS operators in the input are treated as literal text.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles_fts
		 JOIN articles a ON a.rowid = articles_fts.rowid
		 WHERE articles_fts MATCH ?
		 ORDER BY articles_fts.rank
		 LIMIT ?`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}
	defer rows.Close()

	var out []Hit
	for rows.Next() {
		h, err := scanHit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ftsQuery quotes each token so user input cannot inject FTS5 syntax.
func ftsQuery(q string) string {
	fields := strings.Fields(q)
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		quoted = append(quoted, `"`+strings.ReplaceAll(f, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHit(sc scanner) (Hit, error) {
	var (
		h           Hit
		col         string
		source      sql.NullString
		title       sql.NullString
		abstract    sql.NullString
		authorsJSON sql.NullString
		tagsJSON    sql.NullString
		category    sql.NullString
		status      sql.NullString
		pubDate     sql.NullString
		volume      sql.NullString
		issue       sql.NullString
		pageNumber  sql.NullString
		downloads   sql.NullInt64
		shares      sql.NullInt64
		views       sql.NullInt64
		citations   sql.NullInt64
		pdfURL      sql.NullString
		imageURL    sql.NullString
		specialty   sql.NullString
		institution sql.NullString
		createdAt   sql.NullString
		updatedAt   sql.NullString
	)

	err := sc.Scan(&h.ID, &col, &source, &title, &abstract, &authorsJSON, &tagsJSON,
		&category, &status, &pubDate, &volume, &issue, &pageNumber,
		&downloads, &shares, &views, &citations, &pdfURL, &imageURL,
		&specialty, &institution, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Hit{}, err
		}
		return Hit{}, fmt.Errorf("scanning article: %w", err)
	}

	h.Collection = types.Collection(col)
	h.Source = source.String
	h.Title = title.String
	h.Abstract = abstract.String
	if authorsJSON.Valid {
		json.Unmarshal([]byte(authorsJSON.String), &h.Authors)
	}
	if tagsJSON.Valid {
		json.Unmarshal([]byte(tagsJSON.String), &h.Tags)
	}
	h.Category = category.String
	h.Status = status.String
	h.PublicationDate = pubDate.String
	h.Volume = types.FlexString(volume.String)
	h.Issue = types.FlexString(issue.String)
	h.PageNumber = types.FlexString(pageNumber.String)
	h.Downloads = types.FlexInt(downloads.Int64)
	h.Shares = types.FlexInt(shares.Int64)
	h.Views = types.FlexInt(views.Int64)
	h.Citations = types.FlexInt(citations.Int64)
	h.PDFURL = pdfURL.String
	h.ImageURL = imageURL.String
	h.Specialty = specialty.String
	h.Institution = institution.String
	h.CreatedAt = createdAt.String
	h.UpdatedAt = updatedAt.String
	return h, nil
}
