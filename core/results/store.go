// Package results persists ranked optimizer output so past runs can be
// listed and compared.
package results

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/rescuesim/core/model"
	"github.com/kilianp07/rescuesim/core/optimizer"
)

// Record is one ranked configuration of an optimization run.
type Record struct {
	ID                 string              `json:"id"`
	RunID              string              `json:"run_id"`
	Timestamp          time.Time           `json:"timestamp"`
	Rank               int                 `json:"rank"`
	Index              int                 `json:"index"`
	Configuration      model.Configuration `json:"configuration"`
	AverageScore       float64             `json:"average_score"`
	Stability          float64             `json:"stability"`
	Trials             int                 `json:"trials"`
	MeanSuccessRate    float64             `json:"mean_success_rate"`
	MeanCompletionTime float64             `json:"mean_completion_time"`
}

// Query filters stored records. Zero values match everything.
type Query struct {
	RunID    string
	Start    time.Time
	End      time.Time
	MinScore float64
	// Limit caps the number of returned records when positive.
	Limit int
}

// Matches reports whether r passes every filter of q except Limit.
func (q Query) Matches(r Record) bool {
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	return r.AverageScore >= q.MinScore
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// FromReport converts the ranking of rep into records stamped with at.
func FromReport(rep optimizer.Report, at time.Time) []Record {
	out := make([]Record, len(rep.Ranked))
	for i, r := range rep.Ranked {
		out[i] = Record{
			ID:                 uuid.NewString(),
			RunID:              rep.RunID,
			Timestamp:          at,
			Rank:               r.Rank,
			Index:              r.Index,
			Configuration:      r.Configuration,
			AverageScore:       r.AverageScore,
			Stability:          r.Stability,
			Trials:             r.Trials,
			MeanSuccessRate:    r.MeanSuccessRate,
			MeanCompletionTime: r.MeanCompletionTime,
		}
	}
	return out
}

// SaveReport appends every ranked configuration of rep to s.
func SaveReport(ctx context.Context, s Store, rep optimizer.Report) error {
	for _, rec := range FromReport(rep, time.Now().UTC()) {
		if err := s.Append(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
