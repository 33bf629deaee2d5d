// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-scout/internal/classify"
	"github.com/pdiddy/paper-scout/internal/store"
	"github.com/pdiddy/paper-scout/pkg/types"
)

type stubFetcher struct {
	papers []types.Paper
	err    error
}

func (f *stubFetcher) SearchIDs(_ context.Context, _ string, _ int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	ids := make([]string, len(f.papers))
	for i, p := range f.papers {
		ids[i] = p.PubmedID
	}
	return ids, nil
}

func (f *stubFetcher) FetchPapers(_ context.Context, _ []string) ([]types.Paper, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.papers, nil
}

func newTestServer(t *testing.T, fetcher Fetcher) *httptest.Server {
	t.Helper()
	st, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	srv := New(st, fetcher, classify.New(types.ClassifierConfig{}, nil), nil, time.Hour)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func startSearch(t *testing.T, ts *httptest.Server, query string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]any{"query": query, "max_results": 10})
	resp, err := http.Post(ts.URL+"/api/searches", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var created map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created["search_id"])
	return created["search_id"]
}

func waitForStatus(t *testing.T, ts *httptest.Server, id string, want store.Status) store.Search {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(ts.URL + "/api/searches/" + id)
		require.NoError(t, err)
		var sr store.Search
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&sr))
		resp.Body.Close()
		if sr.Status == want {
			return sr
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("search %s never reached status %q", id, want)
	return store.Search{}
}

func TestSearchLifecycle(t *testing.T) {
	fetcher := &stubFetcher{papers: []types.Paper{
		{
			PubmedID: "111",
			Title:    "Industry trial",
			Journal:  "J Test",
			Authors: []types.Author{
				{LastName: "Smith", FirstName: "Anna", Email: "anna@pfizer.com", Affiliation: "Pfizer Inc."},
			},
			CorrespondingEmail: "anna@pfizer.com",
		},
		{
			PubmedID: "222",
			Title:    "Academic study",
			Journal:  "J Test",
			Authors: []types.Author{
				{LastName: "Lee", FirstName: "Bo", Email: "bo@stanford.edu", Affiliation: "Stanford University"},
			},
		},
	}}
	ts := newTestServer(t, fetcher)

	id := startSearch(t, ts, "cancer immunotherapy")
	sr := waitForStatus(t, ts, id, store.StatusCompleted)

	require.NotNil(t, sr.Results)
	assert.Equal(t, 2, sr.Results.Summary.TotalPapers)
	assert.Equal(t, 1, sr.Results.Summary.PapersWithIndustry)
	assert.Equal(t, "cancer immunotherapy", sr.Query)
}

func TestSearchFailure(t *testing.T) {
	fetcher := &stubFetcher{err: fmt.Errorf("esearch request failed")}
	ts := newTestServer(t, fetcher)

	id := startSearch(t, ts, "anything")
	sr := waitForStatus(t, ts, id, store.StatusFailed)
	assert.Contains(t, sr.Error, "esearch request failed")
}

// blockingFetcher waits out the pipeline context, like a hung upstream.
type blockingFetcher struct{}

func (blockingFetcher) SearchIDs(ctx context.Context, _ string, _ int) ([]string, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingFetcher) FetchPapers(ctx context.Context, _ []string) ([]types.Paper, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestTimedOutSearchReachesFailedStatus(t *testing.T) {
	orig := searchTimeout
	searchTimeout = 20 * time.Millisecond
	defer func() { searchTimeout = orig }()

	ts := newTestServer(t, blockingFetcher{})

	id := startSearch(t, ts, "slow upstream")
	// The failure must be recorded even though the pipeline context has
	// already expired; otherwise the search polls as running forever.
	sr := waitForStatus(t, ts, id, store.StatusFailed)
	assert.Contains(t, sr.Error, "deadline")
}

func TestCreateValidation(t *testing.T) {
	ts := newTestServer(t, &stubFetcher{})

	resp, err := http.Post(ts.URL+"/api/searches", "application/json",
		strings.NewReader(`{"query": "  "}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp2, err := http.Post(ts.URL+"/api/searches", "application/json",
		strings.NewReader(`not json`))
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestListSearches(t *testing.T) {
	fetcher := &stubFetcher{}
	ts := newTestServer(t, fetcher)

	resp, err := http.Get(ts.URL + "/api/searches")
	require.NoError(t, err)
	var empty []store.Search
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&empty))
	resp.Body.Close()
	assert.Empty(t, empty)

	id := startSearch(t, ts, "first query")
	waitForStatus(t, ts, id, store.StatusCompleted)

	resp, err = http.Get(ts.URL + "/api/searches")
	require.NoError(t, err)
	var listed []store.Search
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	resp.Body.Close()
	require.Len(t, listed, 1)
	assert.Equal(t, id, listed[0].ID)
}

func TestCSVDownload(t *testing.T) {
	fetcher := &stubFetcher{papers: []types.Paper{
		{
			PubmedID:        "333",
			Title:           "Vaccine development",
			PublicationDate: "2026 Jan",
			Journal:         "Vaccines",
			Authors: []types.Author{
				{LastName: "Novak", FirstName: "Ida", Email: "ida@moderna.com", Affiliation: "Moderna, Inc."},
			},
			CorrespondingEmail: "ida@moderna.com",
		},
	}}
	ts := newTestServer(t, fetcher)

	id := startSearch(t, ts, "vaccines")
	waitForStatus(t, ts, id, store.StatusCompleted)

	resp, err := http.Get(ts.URL + "/api/searches/" + id + "/csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "PubmedID")
	assert.Contains(t, buf.String(), "333")
	assert.Contains(t, buf.String(), "Moderna")
}

func TestCSVNotReady(t *testing.T) {
	st, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	id, err := st.Create(context.Background(), "pending query")
	require.NoError(t, err)

	srv := New(st, &stubFetcher{}, classify.New(types.ClassifierConfig{}, nil), nil, time.Hour)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/api/searches/" + id + "/csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDeleteSearch(t *testing.T) {
	ts := newTestServer(t, &stubFetcher{})

	id := startSearch(t, ts, "to be removed")
	waitForStatus(t, ts, id, store.StatusCompleted)

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/searches/"+id, nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/searches/" + id)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNotFoundRoutes(t *testing.T) {
	ts := newTestServer(t, &stubFetcher{})

	resp, err := http.Get(ts.URL + "/api/searches/no-such-id")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/searches/no-such-id/bogus")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, &stubFetcher{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
