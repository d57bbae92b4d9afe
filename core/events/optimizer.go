package events

import (
	"time"

	"github.com/kilianp07/rescuesim/core/model"
)

// TrialEvent is emitted for each configuration x scenario trial.
type TrialEvent struct {
	RunID         string
	Configuration int
	Scenario      string
	Result        model.RunResult
	Duration      time.Duration
	Err           error
}

// RankingEvent is emitted when an optimization run completes.
type RankingEvent struct {
	RunID          string
	Configurations int
	Trials         int
	BestScore      float64
	Margin         float64
	Elapsed        time.Duration
}
