package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/rescuesim/core/metrics"
	"github.com/kilianp07/rescuesim/core/model"
)

type influxStub struct {
	mu     sync.Mutex
	bodies []string
	health string
}

func (s *influxStub) handler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/health":
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"name":"influxdb","message":"ok","status":"`+s.health+`","checks":[]}`)
	case "/api/v2/write":
		b, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.bodies = append(s.bodies, string(b))
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *influxStub) lines() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.bodies, "\n")
}

func TestInfluxSink_WritesPoints(t *testing.T) {
	stub := &influxStub{health: "pass"}
	srv := httptest.NewServer(http.HandlerFunc(stub.handler))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL, "token", "org", "bucket")
	is, ok := sink.(*InfluxSink)
	require.True(t, ok, "expected InfluxSink, got %T", sink)
	defer is.Close()

	now := time.Unix(1700000000, 0)
	require.NoError(t, is.RecordTrial(coremetrics.TrialRecord{
		RunID: "r1", Configuration: 3, Scenario: "small/11",
		Result: model.RunResult{Rescued: 123.4567, Score: 0.81234, Completed: true},
		Time:   now,
	}))
	require.NoError(t, is.RecordTick(coremetrics.TickRecord{Group: "multi", SimTime: 1.5, Rescued: 10, Remaining: 7, Time: now}))
	require.NoError(t, is.RecordRanking(nil))

	out := stub.lines()
	assert.Contains(t, out, "optimizer_trial,")
	assert.Contains(t, out, "run_id=r1")
	assert.Contains(t, out, "scenario=small/11")
	assert.Contains(t, out, "rescued=123.457")
	assert.Contains(t, out, "score=0.812")
	assert.Contains(t, out, "live_tick,group=multi")
	assert.Contains(t, out, "open_tasks=7i")
}

func TestInfluxSink_FallbackOnFailedHealth(t *testing.T) {
	stub := &influxStub{health: "fail"}
	srv := httptest.NewServer(http.HandlerFunc(stub.handler))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL, "token", "org", "bucket")
	_, ok := sink.(coremetrics.NopSink)
	assert.True(t, ok, "expected NopSink, got %T", sink)
}

func TestRound3(t *testing.T) {
	assert.Equal(t, 1.235, round3(1.23456))
	assert.Equal(t, 0.0, round3(0.0001))
}
