// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package submission

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/infochir/catalog/pkg/types"
)

// ErrNotFound is returned by Get for unknown ids.
var ErrNotFound = errors.New("submission not found")

// SQLiteStore keeps submissions in an article_submissions table on the
// catalog database. File URL lists are stored as JSON arrays.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates the submissions table on db if needed.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS article_submissions (
		id TEXT PRIMARY KEY,
		publication_type TEXT NOT NULL,
		title TEXT NOT NULL,
		authors TEXT NOT NULL,
		institution TEXT NOT NULL,
		keywords TEXT NOT NULL,
		abstract TEXT NOT NULL,
		corresponding_author_name TEXT NOT NULL,
		corresponding_author_email TEXT NOT NULL,
		corresponding_author_phone TEXT NOT NULL,
		corresponding_author_address TEXT NOT NULL,
		ethics_approval INTEGER NOT NULL,
		no_conflict INTEGER NOT NULL,
		original_work INTEGER NOT NULL,
		article_files_urls TEXT NOT NULL,
		image_annexes_urls TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		submitted_at TEXT NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("creating submissions table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Insert stores a submission.
func (s *SQLiteStore) Insert(ctx context.Context, sub types.Submission) error {
	files, err := json.Marshal(nonNil(sub.ArticleFileURLs))
	if err != nil {
		return err
	}
	annexes, err := json.Marshal(nonNil(sub.ImageAnnexURLs))
	if err != nil {
		return err
	}
	ca := sub.CorrespondingAuthor
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO article_submissions (
			id, publication_type, title, authors, institution, keywords, abstract,
			corresponding_author_name, corresponding_author_email,
			corresponding_author_phone, corresponding_author_address,
			ethics_approval, no_conflict, original_work,
			article_files_urls, image_annexes_urls, status, submitted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, string(sub.PublicationType), sub.Title, sub.Authors, sub.Institution,
		sub.Keywords, sub.Abstract,
		ca.Name, ca.Email, ca.Phone, ca.Address,
		boolInt(sub.EthicsApproval), boolInt(sub.NoConflict), boolInt(sub.OriginalWork),
		string(files), string(annexes), string(sub.Status),
		sub.SubmittedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting %s: %w", sub.ID, err)
	}
	return nil
}

// Get returns the submission with id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (types.Submission, error) {
	var (
		sub                       types.Submission
		pubType, status           string
		ethics, conflict, orig    int
		files, annexes, submitted string
	)
	ca := &sub.CorrespondingAuthor
	err := s.db.QueryRowContext(ctx,
		`SELECT id, publication_type, title, authors, institution, keywords, abstract,
			corresponding_author_name, corresponding_author_email,
			corresponding_author_phone, corresponding_author_address,
			ethics_approval, no_conflict, original_work,
			article_files_urls, image_annexes_urls, status, submitted_at
		 FROM article_submissions WHERE id = ?`, id,
	).Scan(&sub.ID, &pubType, &sub.Title, &sub.Authors, &sub.Institution, &sub.Keywords, &sub.Abstract,
		&ca.Name, &ca.Email, &ca.Phone, &ca.Address,
		&ethics, &conflict, &orig,
		&files, &annexes, &status, &submitted)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Submission{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Submission{}, fmt.Errorf("querying submission: %w", err)
	}

	sub.PublicationType = types.PublicationType(pubType)
	sub.Status = types.SubmissionStatus(status)
	sub.EthicsApproval = ethics != 0
	sub.NoConflict = conflict != 0
	sub.OriginalWork = orig != 0
	if err := json.Unmarshal([]byte(files), &sub.ArticleFileURLs); err != nil {
		return types.Submission{}, fmt.Errorf("decoding article files of %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(annexes), &sub.ImageAnnexURLs); err != nil {
		return types.Submission{}, fmt.Errorf("decoding image annexes of %s: %w", id, err)
	}
	if len(sub.ImageAnnexURLs) == 0 {
		sub.ImageAnnexURLs = nil
	}
	sub.SubmittedAt, _ = time.Parse(time.RFC3339Nano, submitted)
	return sub, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
