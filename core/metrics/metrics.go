package metrics

import (
	"time"

	"github.com/kilianp07/rescuesim/core/model"
)

// TrialRecord is one configuration x scenario trial of an optimization run.
type TrialRecord struct {
	RunID         string
	Configuration int
	Scenario      string
	Result        model.RunResult
	Duration      time.Duration
	Time          time.Time
}

// MetricsSink records optimizer trials for observability purposes.
type MetricsSink interface {
	RecordTrial(rec TrialRecord) error
}

// RankingRecord is one ranked configuration.
type RankingRecord struct {
	RunID         string
	Rank          int
	Configuration model.Configuration
	AverageScore  float64
	Stability     float64
	Time          time.Time
}

// RankingRecorder records the final ranking of a run.
type RankingRecorder interface {
	RecordRanking(recs []RankingRecord) error
}

// RunSummary describes a finished optimization run.
type RunSummary struct {
	RunID          string
	Configurations int
	Trials         int
	BestScore      float64
	Margin         float64
	Elapsed        time.Duration
	Time           time.Time
}

// RunSummaryRecorder records optimization run summaries.
type RunSummaryRecorder interface {
	RecordRunSummary(s RunSummary) error
}

// TickRecord is the progress of a live group after one tick.
type TickRecord struct {
	Group     string
	SimTime   float64
	Rescued   float64
	Total     float64
	Remaining int
	Time      time.Time
}

// TickRecorder records live simulation progress.
type TickRecorder interface {
	RecordTick(rec TickRecord) error
}

// GroupResult is the terminal result of a live group.
type GroupResult struct {
	Group  string
	Result model.RunResult
	Time   time.Time
}

// GroupResultRecorder records live group results.
type GroupResultRecorder interface {
	RecordGroupResult(res GroupResult) error
}

// NopSink implements MetricsSink and every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordTrial(TrialRecord) error       { return nil }
func (NopSink) RecordRanking([]RankingRecord) error { return nil }
func (NopSink) RecordRunSummary(RunSummary) error   { return nil }
func (NopSink) RecordTick(TickRecord) error         { return nil }
func (NopSink) RecordGroupResult(GroupResult) error { return nil }
