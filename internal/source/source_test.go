// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infochir/catalog/internal/httputil"
	"github.com/infochir/catalog/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

func testClient(t *testing.T, url string, pageSize int) *Client {
	t.Helper()
	c, err := NewClient(types.BackendConfig{URL: url, APIKey: "anon-key", PageSize: pageSize}, nil)
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(types.BackendConfig{}, nil)
	assert.ErrorContains(t, err, "backend url is not configured")
}

func TestFetchSendsQueryAndHeaders(t *testing.T) {
	var got *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		fmt.Fprint(w, `[]`)
	}))
	defer ts.Close()

	_, err := testClient(t, ts.URL+"/", 50).Fetch(context.Background(), types.CollectionAtlas)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "/rest/v1/articles", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "eq.ADC", q.Get("source"))
	assert.Equal(t, "*", q.Get("select"))
	assert.Equal(t, "50", q.Get("limit"))
	assert.Equal(t, "0", q.Get("offset"))
	assert.Equal(t, "anon-key", got.Header.Get("apikey"))
	assert.Equal(t, "Bearer anon-key", got.Header.Get("Authorization"))
}

func TestFetchPaginatesUntilShortPage(t *testing.T) {
	var offsets []int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		off, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		offsets = append(offsets, off)
		switch off {
		case 0:
			fmt.Fprint(w, `[{"id":"1","title":"A"},{"id":"2","title":"B"}]`)
		case 2:
			fmt.Fprint(w, `[{"id":"3","title":"C"},{"id":"4","title":"D"}]`)
		default:
			fmt.Fprint(w, `[{"id":"5","title":"E"}]`)
		}
	}))
	defer ts.Close()

	rows, err := testClient(t, ts.URL, 2).Fetch(context.Background(), types.CollectionIGM)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 4}, offsets)
	require.Len(t, rows, 5)
	assert.Equal(t, "E", rows[4].Title)
}

func TestFetchToleratesLooseRows(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{
			"id": "9",
			"title": "Row",
			"abstract": null,
			"authors": "Jean Dupont, Marie Louis",
			"tags": null,
			"volume": 3,
			"issue": "2",
			"downloads": "17",
			"shares": null,
			"publication_date": null
		}]`)
	}))
	defer ts.Close()

	rows, err := testClient(t, ts.URL, 10).Fetch(context.Background(), types.CollectionRHCA)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, types.StringList{"Jean Dupont", "Marie Louis"}, r.Authors)
	assert.Nil(t, r.Tags)
	assert.Equal(t, types.FlexString("3"), r.Volume)
	assert.Equal(t, types.FlexInt(17), r.Downloads)
	assert.Zero(t, r.Shares)
	assert.Empty(t, r.PublicationDate)
}

func TestFetchReportsBackendError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Invalid API key","code":"PGRST301"}`)
	}))
	defer ts.Close()

	_, err := testClient(t, ts.URL, 10).Fetch(context.Background(), types.CollectionIGM)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestFetchRetriesUnavailable(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `[{"id":"1"}]`)
	}))
	defer ts.Close()

	rows, err := testClient(t, ts.URL, 10).Fetch(context.Background(), types.CollectionIGM)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 2, calls)
}

// --- FetchAll ---

type mockFetcher struct {
	mu    sync.Mutex
	rows  map[types.Collection][]types.ArticleRow
	fail  types.Collection
	calls []types.Collection
}

func (m *mockFetcher) Fetch(ctx context.Context, c types.Collection) ([]types.ArticleRow, error) {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.mu.Unlock()
	if c == m.fail {
		return nil, errors.New("boom")
	}
	return m.rows[c], ctx.Err()
}

func TestFetchAll(t *testing.T) {
	f := &mockFetcher{rows: map[types.Collection][]types.ArticleRow{
		types.CollectionIGM:   {{ID: "igm-1"}},
		types.CollectionAtlas: {{ID: "adc-1"}, {ID: "adc-2"}},
	}}

	out, err := FetchAll(context.Background(), f, []types.Collection{types.CollectionIGM, types.CollectionAtlas})
	require.NoError(t, err)
	assert.Len(t, out[types.CollectionIGM], 1)
	assert.Len(t, out[types.CollectionAtlas], 2)
	assert.Len(t, f.calls, 2)
}

func TestFetchAllReturnsFirstError(t *testing.T) {
	f := &mockFetcher{fail: types.CollectionRHCA}

	_, err := FetchAll(context.Background(), f, types.Collections)
	assert.ErrorContains(t, err, "boom")
}
