package results

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rescuesim/core/results"
)

type memStore struct{ recs []results.Record }

func (m *memStore) Append(_ context.Context, r results.Record) error {
	m.recs = append(m.recs, r)
	return nil
}

func (m *memStore) Query(_ context.Context, q results.Query) ([]results.Record, error) {
	var res []results.Record
	for _, r := range m.recs {
		if q.Matches(r) {
			res = append(res, r)
		}
	}
	return res, nil
}

func (m *memStore) Close() error { return nil }

func TestHandler_AuthAndFilters(t *testing.T) {
	store := &memStore{}
	require.NoError(t, store.Append(context.Background(), results.Record{RunID: "a", Rank: 1, AverageScore: 0.9}))
	require.NoError(t, store.Append(context.Background(), results.Record{RunID: "a", Rank: 2, AverageScore: 0.3}))
	require.NoError(t, store.Append(context.Background(), results.Record{RunID: "b", Rank: 1, AverageScore: 0.8}))
	h := NewHandler(store, "tok")

	req := httptest.NewRequest(http.MethodGet, "/api/results?run_id=a&min_score=0.5", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var out []results.Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].Rank)

	req = httptest.NewRequest(http.MethodGet, "/api/results", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/results?limit=abc", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/results", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandler_EmptyStoreReturnsArray(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHandler(&memStore{}, "").ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/results", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}
