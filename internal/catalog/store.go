// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog mirrors backend article rows into a local SQLite
// database so listings can be computed offline, and indexes titles and
// abstracts for full-text search.
package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/infochir/catalog/pkg/types"
)

const (
	dbFile    = "catalog.db"
	exportDir = "export"
)

// ErrNotFound is returned when a requested article does not exist.
var ErrNotFound = errors.New("not found")

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	dataDir    string
	maxResults int
	log        *zap.Logger
}

// NewStore opens or creates the catalog database at dataDir/catalog.db and
// creates the schema if it does not exist.
func NewStore(cfg types.CatalogConfig, log *zap.Logger) (*Store, error) {
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Store{
		db:         db,
		dataDir:    cfg.DataDir,
		maxResults: maxResults,
		log:        log,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection so sibling stores (newsletter
// subscriptions) can share the catalog file.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			collection TEXT NOT NULL,
			source TEXT,
			title TEXT,
			abstract TEXT,
			authors TEXT,
			tags TEXT,
			category TEXT,
			status TEXT,
			publication_date TEXT,
			volume TEXT,
			issue TEXT,
			page_number TEXT,
			downloads INTEGER,
			shares INTEGER,
			views INTEGER,
			citations INTEGER,
			pdf_url TEXT,
			image_url TEXT,
			specialty TEXT,
			institution TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_collection ON articles(collection)`,
		`CREATE TABLE IF NOT EXISTS sync_status (
			collection TEXT PRIMARY KEY,
			fingerprint TEXT,
			row_count INTEGER,
			synced_at TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='articles_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE articles_fts USING fts5(title, abstract, content=articles, content_rowid=rowid)`,
			`CREATE TRIGGER articles_ai AFTER INSERT ON articles BEGIN
				INSERT INTO articles_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
			`CREATE TRIGGER articles_ad AFTER DELETE ON articles BEGIN
				INSERT INTO articles_fts(articles_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
			END`,
			`CREATE TRIGGER articles_au AFTER UPDATE ON articles BEGIN
				INSERT INTO articles_fts(articles_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
				INSERT INTO articles_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// SyncResult reports the outcome of syncing one collection.
type SyncResult struct {
	Collection types.Collection
	Rows       int
	Skipped    bool
}

// Sync replaces the stored rows of collection c with rows in a single
// transaction. When the rows are identical to the last sync (same
// fingerprint) nothing is written and the result is marked Skipped.
func (s *Store) Sync(ctx context.Context, c types.Collection, rows []types.ArticleRow, w io.Writer) (SyncResult, error) {
	res := SyncResult{Collection: c, Rows: len(rows)}

	fp, err := fingerprint(rows)
	if err != nil {
		return res, err
	}

	var stored string
	err = s.db.QueryRowContext(ctx,
		`SELECT fingerprint FROM sync_status WHERE collection = ?`, string(c),
	).Scan(&stored)
	if err == nil && stored == fp {
		fmt.Fprintf(w, "skipped %s (unchanged, %d rows)\n", c, len(rows))
		res.Skipped = true
		return res, nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return res, fmt.Errorf("reading sync status: %w", err)
	}

	if err := s.replace(ctx, c, rows, fp); err != nil {
		return res, err
	}
	fmt.Fprintf(w, "synced  %s (%d rows)\n", c, len(rows))
	s.log.Info("collection synced", zap.String("collection", string(c)), zap.Int("rows", len(rows)))
	return res, nil
}

func (s *Store) replace(ctx context.Context, c types.Collection, rows []types.ArticleRow, fp string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM articles WHERE collection = ?`, string(c)); err != nil {
		return fmt.Errorf("deleting old rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO articles (id, collection, source, title, abstract, authors, tags,
			category, status, publication_date, volume, issue, page_number,
			downloads, shares, views, citations, pdf_url, image_url, specialty,
			institution, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if r.ID == "" {
			s.log.Warn("skipping row without id", zap.String("collection", string(c)), zap.String("title", r.Title))
			continue
		}
		authorsJSON, _ := json.Marshal([]string(r.Authors))
		tagsJSON, _ := json.Marshal([]string(r.Tags))
		_, err := stmt.ExecContext(ctx,
			r.ID, string(c), r.Source, r.Title, r.Abstract, string(authorsJSON), string(tagsJSON),
			r.Category, r.Status, r.PublicationDate, string(r.Volume), string(r.Issue), string(r.PageNumber),
			int(r.Downloads), int(r.Shares), int(r.Views), int(r.Citations), r.PDFURL, r.ImageURL, r.Specialty,
			r.Institution, r.CreatedAt, r.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting article %s: %w", r.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sync_status (collection, fingerprint, row_count, synced_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(collection) DO UPDATE SET
			fingerprint=excluded.fingerprint, row_count=excluded.row_count, synced_at=excluded.synced_at`,
		string(c), fp, len(rows), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("updating sync status: %w", err)
	}

	return tx.Commit()
}

// fingerprint hashes the JSON encoding of rows.
func fingerprint(rows []types.ArticleRow) (string, error) {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(rows); err != nil {
		return "", fmt.Errorf("fingerprinting rows: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SyncStatus describes the last sync of one collection.
type SyncStatus struct {
	Collection types.Collection `json:"collection" yaml:"collection"`
	Rows       int              `json:"rows" yaml:"rows"`
	SyncedAt   time.Time        `json:"synced_at" yaml:"synced_at"`
}

// Status returns the last sync of every synced collection.
func (s *Store) Status(ctx context.Context) ([]SyncStatus, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT collection, row_count, synced_at FROM sync_status ORDER BY collection`)
	if err != nil {
		return nil, fmt.Errorf("querying sync status: %w", err)
	}
	defer rows.Close()

	var out []SyncStatus
	for rows.Next() {
		var (
			st       SyncStatus
			col      string
			syncedAt string
		)
		if err := rows.Scan(&col, &st.Rows, &syncedAt); err != nil {
			return nil, fmt.Errorf("scanning sync status: %w", err)
		}
		st.Collection = types.Collection(col)
		st.SyncedAt, _ = time.Parse(time.RFC3339Nano, syncedAt)
		out = append(out, st)
	}
	return out, rows.Err()
}
