// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package submission receives manuscripts for RHCA and IGM. A request is
// validated as a whole, every failing field is reported, and accepted
// manuscripts are stored as pending.
package submission

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/infochir/catalog/pkg/types"
)

// Field limits. Lengths are counted in characters.
const (
	MaxTitleLen    = 200
	MinKeywords    = 3
	MaxKeywords    = 5
	MinAbstractLen = 50
	MaxAbstractLen = 250
)

var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid submission")

	ErrMissingField           = errors.New("required")
	ErrInvalidPublicationType = errors.New("publication type must be RHCA or IGM")
	ErrTitleTooLong           = fmt.Errorf("title exceeds %d characters", MaxTitleLen)
	ErrKeywordCount           = fmt.Errorf("between %d and %d keywords are required", MinKeywords, MaxKeywords)
	ErrInvalidEmail           = errors.New("invalid email format")
	ErrAbstractLength         = fmt.Errorf("abstract must be %d to %d characters", MinAbstractLen, MaxAbstractLen)
	ErrNoArticleFile          = errors.New("at least one article file is required")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Request is a manuscript as entered by its author.
type Request struct {
	PublicationType     string       `json:"publication_type" yaml:"publication_type"`
	Title               string       `json:"title" yaml:"title"`
	Authors             string       `json:"authors" yaml:"authors"`
	Institution         string       `json:"institution" yaml:"institution"`
	Keywords            string       `json:"keywords" yaml:"keywords"`
	Abstract            string       `json:"abstract" yaml:"abstract"`
	CorrespondingAuthor types.Author `json:"corresponding_author" yaml:"corresponding_author"`
	EthicsApproval      bool         `json:"ethics_approval" yaml:"ethics_approval"`
	NoConflict          bool         `json:"no_conflict" yaml:"no_conflict"`
	OriginalWork        bool         `json:"original_work" yaml:"original_work"`
	ArticleFileURLs     []string     `json:"article_files_urls" yaml:"article_files_urls"`
	ImageAnnexURLs      []string     `json:"image_annexes_urls" yaml:"image_annexes_urls"`
}

// Store persists submissions.
type Store interface {
	Insert(ctx context.Context, sub types.Submission) error
}

// Service validates and stores submissions.
type Service struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

// NewService returns a Service. A nil logger discards diagnostics.
func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store: store,
		log:   log,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// Validate normalizes req and checks every field. The returned error wraps
// ErrInvalid and one sentinel per failing field.
func Validate(req Request) (Request, error) {
	req.PublicationType = strings.ToUpper(strings.TrimSpace(req.PublicationType))
	req.Title = strings.TrimSpace(req.Title)
	req.Authors = strings.TrimSpace(req.Authors)
	req.Institution = strings.TrimSpace(req.Institution)
	req.Abstract = strings.TrimSpace(req.Abstract)
	ca := &req.CorrespondingAuthor
	ca.Name = strings.TrimSpace(ca.Name)
	ca.Email = strings.ToLower(strings.TrimSpace(ca.Email))
	ca.Phone = strings.TrimSpace(ca.Phone)
	ca.Address = strings.TrimSpace(ca.Address)
	req.ArticleFileURLs = compact(req.ArticleFileURLs)
	req.ImageAnnexURLs = compact(req.ImageAnnexURLs)

	var errs []error
	fail := func(field string, err error) {
		errs = append(errs, fmt.Errorf("%s: %w", field, err))
	}

	if _, err := types.ParsePublicationType(req.PublicationType); err != nil {
		fail("publication_type", ErrInvalidPublicationType)
	}

	switch {
	case req.Title == "":
		fail("title", ErrMissingField)
	case utf8.RuneCountInString(req.Title) > MaxTitleLen:
		fail("title", ErrTitleTooLong)
	}
	if req.Authors == "" {
		fail("authors", ErrMissingField)
	}
	if req.Institution == "" {
		fail("institution", ErrMissingField)
	}

	keywords := splitKeywords(req.Keywords)
	switch n := len(keywords); {
	case n == 0:
		fail("keywords", ErrMissingField)
	case n < MinKeywords || n > MaxKeywords:
		fail("keywords", ErrKeywordCount)
	}
	req.Keywords = strings.Join(keywords, ", ")

	for _, f := range []struct{ name, value string }{
		{"corresponding_author.name", ca.Name},
		{"corresponding_author.phone", ca.Phone},
		{"corresponding_author.address", ca.Address},
	} {
		if f.value == "" {
			fail(f.name, ErrMissingField)
		}
	}
	if !emailPattern.MatchString(ca.Email) {
		fail("corresponding_author.email", ErrInvalidEmail)
	}

	if n := utf8.RuneCountInString(req.Abstract); n < MinAbstractLen || n > MaxAbstractLen {
		fail("abstract", ErrAbstractLength)
	}
	if len(req.ArticleFileURLs) == 0 {
		fail("article_files_urls", ErrNoArticleFile)
	}

	if len(errs) > 0 {
		return req, fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return req, nil
}

// Submit validates req and stores it as a pending submission.
func (s *Service) Submit(ctx context.Context, req Request) (types.Submission, error) {
	req, err := Validate(req)
	if err != nil {
		return types.Submission{}, err
	}

	sub := types.Submission{
		ID:                  s.newID(),
		PublicationType:     types.PublicationType(req.PublicationType),
		Title:               req.Title,
		Authors:             req.Authors,
		Institution:         req.Institution,
		Keywords:            req.Keywords,
		Abstract:            req.Abstract,
		CorrespondingAuthor: req.CorrespondingAuthor,
		EthicsApproval:      req.EthicsApproval,
		NoConflict:          req.NoConflict,
		OriginalWork:        req.OriginalWork,
		ArticleFileURLs:     req.ArticleFileURLs,
		ImageAnnexURLs:      req.ImageAnnexURLs,
		Status:              types.StatusPending,
		SubmittedAt:         s.now().UTC(),
	}
	if err := s.store.Insert(ctx, sub); err != nil {
		return types.Submission{}, fmt.Errorf("inserting submission: %w", err)
	}
	s.log.Info("submission received",
		zap.String("id", sub.ID),
		zap.String("publication_type", string(sub.PublicationType)),
		zap.Int("files", len(sub.ArticleFileURLs)),
	)
	return sub, nil
}

func splitKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func compact(urls []string) []string {
	var out []string
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}
