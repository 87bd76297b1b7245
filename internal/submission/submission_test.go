// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package submission

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/infochir/catalog/pkg/types"
)

// --- test helpers ---

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	return store
}

const abstract = "Étude rétrospective de 120 cas de hernie inguinale opérés à Port-au-Prince."

func validRequest() Request {
	return Request{
		PublicationType: "RHCA",
		Title:           "Hernies inguinales en milieu rural",
		Authors:         "J. Baptiste, R. Michel",
		Institution:     "Hôpital Universitaire d'État d'Haïti",
		Keywords:        "hernie, chirurgie, Haïti",
		Abstract:        abstract,
		CorrespondingAuthor: types.Author{
			Name:    "Jean Baptiste",
			Email:   "jbaptiste@example.ht",
			Phone:   "+509 3700 0000",
			Address: "Rue Monseigneur Guilloux, Port-au-Prince",
		},
		EthicsApproval:  true,
		NoConflict:      true,
		OriginalWork:    true,
		ArticleFileURLs: []string{"https://files.infochir.ht/manuscripts/hernies.pdf"},
	}
}

func newTestService(t *testing.T) (*Service, *SQLiteStore) {
	t.Helper()
	store := openStore(t)
	svc := NewService(store, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "subm-1" }
	return svc, store
}

// --- validation ---

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(r *Request)
		wantErr error
	}{
		{"valid", func(r *Request) {}, nil},
		{"lowercase type accepted", func(r *Request) { r.PublicationType = "igm" }, nil},
		{"missing type", func(r *Request) { r.PublicationType = "" }, ErrInvalidPublicationType},
		{"unknown type", func(r *Request) { r.PublicationType = "ADC" }, ErrInvalidPublicationType},
		{"missing title", func(r *Request) { r.Title = "  " }, ErrMissingField},
		{"title at limit", func(r *Request) { r.Title = strings.Repeat("é", MaxTitleLen) }, nil},
		{"title too long", func(r *Request) { r.Title = strings.Repeat("a", MaxTitleLen+1) }, ErrTitleTooLong},
		{"missing authors", func(r *Request) { r.Authors = "" }, ErrMissingField},
		{"missing institution", func(r *Request) { r.Institution = "" }, ErrMissingField},
		{"missing keywords", func(r *Request) { r.Keywords = " , " }, ErrMissingField},
		{"two keywords", func(r *Request) { r.Keywords = "hernie, chirurgie" }, ErrKeywordCount},
		{"empty entries not counted", func(r *Request) { r.Keywords = "hernie,, chirurgie," }, ErrKeywordCount},
		{"five keywords", func(r *Request) { r.Keywords = "a, b, c, d, e" }, nil},
		{"six keywords", func(r *Request) { r.Keywords = "a, b, c, d, e, f" }, ErrKeywordCount},
		{"missing author name", func(r *Request) { r.CorrespondingAuthor.Name = "" }, ErrMissingField},
		{"missing author phone", func(r *Request) { r.CorrespondingAuthor.Phone = "" }, ErrMissingField},
		{"missing author address", func(r *Request) { r.CorrespondingAuthor.Address = "" }, ErrMissingField},
		{"bad author email", func(r *Request) { r.CorrespondingAuthor.Email = "jbaptiste@example" }, ErrInvalidEmail},
		{"missing author email", func(r *Request) { r.CorrespondingAuthor.Email = "" }, ErrInvalidEmail},
		{"abstract too short", func(r *Request) { r.Abstract = strings.Repeat("a", MinAbstractLen-1) }, ErrAbstractLength},
		{"abstract at minimum", func(r *Request) { r.Abstract = strings.Repeat("a", MinAbstractLen) }, nil},
		{"abstract at maximum", func(r *Request) { r.Abstract = strings.Repeat("é", MaxAbstractLen) }, nil},
		{"abstract too long", func(r *Request) { r.Abstract = strings.Repeat("a", MaxAbstractLen+1) }, ErrAbstractLength},
		{"no article file", func(r *Request) { r.ArticleFileURLs = nil }, ErrNoArticleFile},
		{"blank article file", func(r *Request) { r.ArticleFileURLs = []string{" "} }, ErrNoArticleFile},
		{"declarations not required", func(r *Request) {
			r.EthicsApproval, r.NoConflict, r.OriginalWork = false, false, false
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.modify(&req)
			_, err := Validate(req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	_, err := Validate(Request{})
	require.Error(t, err)

	for _, want := range []error{
		ErrInvalidPublicationType, ErrMissingField, ErrInvalidEmail,
		ErrAbstractLength, ErrNoArticleFile,
	} {
		assert.True(t, errors.Is(err, want), "missing %v", want)
	}
	for _, field := range []string{"title", "authors", "institution", "keywords", "corresponding_author.address"} {
		assert.Contains(t, err.Error(), field+": ")
	}
}

func TestValidateNormalizes(t *testing.T) {
	req := validRequest()
	req.PublicationType = " igm "
	req.Keywords = " hernie ,chirurgie,, Haïti "
	req.CorrespondingAuthor.Email = " JBaptiste@Example.HT"
	req.ImageAnnexURLs = []string{"", " https://files.infochir.ht/annexes/fig1.png "}

	got, err := Validate(req)
	require.NoError(t, err)
	assert.Equal(t, "IGM", got.PublicationType)
	assert.Equal(t, "hernie, chirurgie, Haïti", got.Keywords)
	assert.Equal(t, "jbaptiste@example.ht", got.CorrespondingAuthor.Email)
	assert.Equal(t, []string{"https://files.infochir.ht/annexes/fig1.png"}, got.ImageAnnexURLs)
}

// --- submit ---

func TestSubmit(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc, store := newTestService(t)
	svc.log = zap.New(core)
	ctx := context.Background()

	req := validRequest()
	req.ImageAnnexURLs = []string{"https://files.infochir.ht/annexes/fig1.png"}
	sub, err := svc.Submit(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "subm-1", sub.ID)
	assert.Equal(t, types.PublicationRHCA, sub.PublicationType)
	assert.Equal(t, types.StatusPending, sub.Status)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), sub.SubmittedAt)
	assert.Equal(t, 1, logs.FilterMessage("submission received").Len())

	stored, err := store.Get(ctx, "subm-1")
	require.NoError(t, err)
	assert.Equal(t, sub, stored)
}

func TestSubmitWithoutAnnexes(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, validRequest())
	require.NoError(t, err)

	stored, err := store.Get(ctx, "subm-1")
	require.NoError(t, err)
	assert.Nil(t, stored.ImageAnnexURLs)
	assert.Equal(t, []string{"https://files.infochir.ht/manuscripts/hernies.pdf"}, stored.ArticleFileURLs)
}

func TestSubmitInvalidIsNotStored(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	req := validRequest()
	req.Keywords = "hernie"
	_, err := svc.Submit(ctx, req)
	assert.True(t, errors.Is(err, ErrKeywordCount))

	_, err = store.Get(ctx, "subm-1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSubmitDuplicateID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, validRequest())
	require.NoError(t, err)
	_, err = svc.Submit(ctx, validRequest())
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalid))
}
