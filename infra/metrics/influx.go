package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/rescuesim/core/metrics"
	"github.com/kilianp07/rescuesim/infra/logger"
)

// InfluxSink writes simulation and optimizer records to InfluxDB using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

func (s *InfluxSink) write(timeout time.Duration, points ...*write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordTrial writes one optimizer_trial point.
func (s *InfluxSink) RecordTrial(rec coremetrics.TrialRecord) error {
	r := rec.Result
	p := write.NewPointWithMeasurement("optimizer_trial").
		AddTag("run_id", rec.RunID).
		AddTag("configuration", strconv.Itoa(rec.Configuration)).
		AddTag("scenario", rec.Scenario).
		AddField("rescued", round3(r.Rescued)).
		AddField("completion_time", round3(r.CompletionTime)).
		AddField("success_rate", round3(r.SuccessRate)).
		AddField("score", round3(r.Score)).
		AddField("completed", r.Completed).
		AddField("duration_ms", round3(rec.Duration.Seconds()*1000)).
		SetTime(rec.Time)
	return s.write(5*time.Second, p)
}

// RecordRanking writes one optimizer_ranking point per ranked configuration.
func (s *InfluxSink) RecordRanking(recs []coremetrics.RankingRecord) error {
	if len(recs) == 0 {
		return nil
	}
	points := make([]*write.Point, 0, len(recs))
	for _, r := range recs {
		c := r.Configuration
		points = append(points, write.NewPointWithMeasurement("optimizer_ranking").
			AddTag("run_id", r.RunID).
			AddTag("distribution", c.Distribution.String()).
			AddField("rank", r.Rank).
			AddField("team_count", c.TeamCount).
			AddField("ratio_nearest", round3(c.StrategyRatio[0])).
			AddField("ratio_largest", round3(c.StrategyRatio[1])).
			AddField("ratio_hybrid", round3(c.StrategyRatio[2])).
			AddField("average_score", round3(r.AverageScore)).
			AddField("stability", round3(r.Stability)).
			SetTime(r.Time))
	}
	return s.write(10*time.Second, points...)
}

// RecordRunSummary writes an optimizer_run point.
func (s *InfluxSink) RecordRunSummary(sum coremetrics.RunSummary) error {
	p := write.NewPointWithMeasurement("optimizer_run").
		AddTag("run_id", sum.RunID).
		AddField("configurations", sum.Configurations).
		AddField("trials", sum.Trials).
		AddField("best_score", round3(sum.BestScore)).
		AddField("margin", round3(sum.Margin)).
		AddField("elapsed_ms", round3(sum.Elapsed.Seconds()*1000)).
		SetTime(sum.Time)
	return s.write(5*time.Second, p)
}

// RecordTick writes a live_tick point.
func (s *InfluxSink) RecordTick(rec coremetrics.TickRecord) error {
	p := write.NewPointWithMeasurement("live_tick").
		AddTag("group", rec.Group).
		AddField("sim_time", round3(rec.SimTime)).
		AddField("rescued", round3(rec.Rescued)).
		AddField("open_tasks", rec.Remaining).
		SetTime(rec.Time)
	return s.write(5*time.Second, p)
}

// RecordGroupResult writes a live_result point.
func (s *InfluxSink) RecordGroupResult(res coremetrics.GroupResult) error {
	p := write.NewPointWithMeasurement("live_result").
		AddTag("group", res.Group).
		AddField("success_rate", round3(res.Result.SuccessRate)).
		AddField("completion_time", round3(res.Result.CompletionTime)).
		AddField("rescued", round3(res.Result.Rescued)).
		SetTime(res.Time)
	return s.write(5*time.Second, p)
}

// Close releases the client resources.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
