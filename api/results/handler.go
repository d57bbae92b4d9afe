// Package results exposes stored optimizer rankings over HTTP.
package results

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/rescuesim/core/results"
)

// NewHandler returns an HTTP handler serving GET /api/results. Requests must
// include an Authorization header with "Bearer <token>" when token is
// non-empty. Supported query parameters are run_id, min_score, limit, start
// and end (RFC 3339).
func NewHandler(store results.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		q, err := parseQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []results.Record{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func parseQuery(r *http.Request) (results.Query, error) {
	v := r.URL.Query()
	q := results.Query{RunID: v.Get("run_id")}
	var err error
	if s := v.Get("min_score"); s != "" {
		if q.MinScore, err = strconv.ParseFloat(s, 64); err != nil {
			return q, err
		}
	}
	if s := v.Get("limit"); s != "" {
		if q.Limit, err = strconv.Atoi(s); err != nil {
			return q, err
		}
	}
	if s := v.Get("start"); s != "" {
		if q.Start, err = time.Parse(time.RFC3339, s); err != nil {
			return q, err
		}
	}
	if s := v.Get("end"); s != "" {
		if q.End, err = time.Parse(time.RFC3339, s); err != nil {
			return q, err
		}
	}
	return q, nil
}
