package optimizer

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/rescuesim/core/events"
	"github.com/kilianp07/rescuesim/core/logger"
	coremetrics "github.com/kilianp07/rescuesim/core/metrics"
	"github.com/kilianp07/rescuesim/core/model"
	"github.com/kilianp07/rescuesim/core/monitoring"
	"github.com/kilianp07/rescuesim/core/sim"
	"github.com/kilianp07/rescuesim/internal/eventbus"
)

// DefaultTimeLimit is the simulated minute ceiling of a batch trial.
const DefaultTimeLimit = 200.0

// Ranked is one configuration of a report, ordered by AverageScore.
type Ranked struct {
	Rank int `json:"rank"`
	// Index is the position of the configuration in the expanded space.
	Index              int                 `json:"index"`
	Configuration      model.Configuration `json:"configuration"`
	AverageScore       float64             `json:"average_score"`
	Stability          float64             `json:"stability"`
	Trials             int                 `json:"trials"`
	MeanSuccessRate    float64             `json:"mean_success_rate"`
	MeanCompletionTime float64             `json:"mean_completion_time"`
}

// Report is the outcome of an optimization run.
type Report struct {
	RunID  string   `json:"run_id"`
	Ranked []Ranked `json:"ranked"`
	Best   Ranked   `json:"best"`
	// Margin is the best average score minus the worst.
	Margin    float64       `json:"margin"`
	Trials    int           `json:"trials"`
	TimeLimit float64       `json:"time_limit"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Optimizer runs every configuration of a ParameterSpace against a scenario
// battery.
type Optimizer struct {
	Workers   int
	TimeLimit float64
	TickSize  float64
	MoveSpeed float64

	log  logger.Logger
	sink coremetrics.MetricsSink
	bus  eventbus.EventBus
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(o *Optimizer) { o.log = l } }

// WithSink records trials and the final ranking into s.
func WithSink(s coremetrics.MetricsSink) Option { return func(o *Optimizer) { o.sink = s } }

// WithBus publishes TrialEvent and RankingEvent on b.
func WithBus(b eventbus.EventBus) Option { return func(o *Optimizer) { o.bus = b } }

// New returns an Optimizer with the batch defaults.
func New(opts ...Option) *Optimizer {
	o := &Optimizer{
		Workers:   runtime.NumCPU(),
		TimeLimit: DefaultTimeLimit,
		TickSize:  sim.DefaultTickSize,
		MoveSpeed: sim.DefaultMoveSpeed,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize expands space with the package defaults and ranks it on scenarios.
func Optimize(space ParameterSpace, scenarios []model.Scenario) (Report, error) {
	return New().Optimize(context.Background(), space, scenarios)
}

func (o *Optimizer) options() sim.Options {
	return sim.Options{
		TickSize:       o.TickSize,
		MoveSpeed:      o.MoveSpeed,
		TimeLimit:      o.TimeLimit,
		AvoidConflicts: true,
	}
}

// Optimize runs one trial per configuration and scenario and ranks the
// configurations by average score. Every configuration is validated before
// the first trial starts.
func (o *Optimizer) Optimize(ctx context.Context, space ParameterSpace, scenarios []model.Scenario) (Report, error) {
	log := logger.OrNop(o.log)
	if err := space.Validate(); err != nil {
		return Report{}, err
	}
	if len(scenarios) == 0 {
		return Report{}, &model.ConfigurationError{Field: "battery", Reason: "no scenarios"}
	}
	opts := o.options()
	if err := opts.Validate(); err != nil {
		return Report{}, err
	}
	configs := space.Configurations()
	for i, c := range configs {
		if err := c.Validate(); err != nil {
			return Report{}, fmt.Errorf("configuration %d: %w", i, err)
		}
	}

	workers := o.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	runID := uuid.NewString()
	start := time.Now()
	log.Infof("optimization %s: %d configurations x %d scenarios on %d workers",
		runID, len(configs), len(scenarios), workers)

	results := make([]model.RunResult, len(configs)*len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for ci := range configs {
		for si := range scenarios {
			ci, si := ci, si
			g.Go(func() (err error) {
				sc := scenarios[si]
				defer monitoring.CapturePanic(&err, map[string]string{
					"module":        "optimizer",
					"configuration": strconv.Itoa(ci),
					"scenario":      sc.Name(),
				})
				res, dur, err := o.trial(gctx, configs[ci], sc, opts)
				o.recordTrial(runID, ci, sc, res, dur, err)
				if err != nil {
					return fmt.Errorf("configuration %d on %s: %w", ci, sc.Name(), err)
				}
				results[ci*len(scenarios)+si] = res
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		monitoring.CaptureException(err, map[string]string{"module": "optimizer", "run_id": runID})
		return Report{}, err
	}

	report := Report{
		RunID:     runID,
		Ranked:    rank(configs, results, len(scenarios)),
		Trials:    len(results),
		TimeLimit: o.TimeLimit,
		Elapsed:   time.Since(start),
	}
	report.Best = report.Ranked[0]
	report.Margin = report.Best.AverageScore - report.Ranked[len(report.Ranked)-1].AverageScore

	configsEvaluated.Add(float64(len(configs)))
	bestScore.Set(report.Best.AverageScore)
	o.recordReport(report)
	log.Infof("optimization %s done in %s: best %q score %.4f stability %.4f margin %.4f",
		runID, report.Elapsed.Round(time.Millisecond), report.Best.Configuration.Label(),
		report.Best.AverageScore, report.Best.Stability, report.Margin)
	return report, nil
}

func (o *Optimizer) trial(ctx context.Context, cfg model.Configuration, sc model.Scenario, opts sim.Options) (model.RunResult, time.Duration, error) {
	start := time.Now()
	res, err := sim.RunTrial(ctx, cfg, sc, opts)
	dur := time.Since(start)
	if err != nil {
		return res, dur, err
	}
	res.Score = TrialScore(res, opts.TimeLimit)
	return res, dur, nil
}

func (o *Optimizer) recordTrial(runID string, idx int, sc model.Scenario, res model.RunResult, dur time.Duration, err error) {
	size := sc.Size.String()
	outcome := "timeout"
	switch {
	case err != nil:
		outcome = "error"
	case res.Completed:
		outcome = "completed"
	}
	trialsTotal.WithLabelValues(size, outcome).Inc()
	trialDuration.WithLabelValues(size).Observe(dur.Seconds())
	logger.OrNop(o.log).Debugw("trial", map[string]any{
		"run_id":        runID,
		"configuration": idx,
		"scenario":      sc.Name(),
		"score":         res.Score,
		"success_rate":  res.SuccessRate,
		"outcome":       outcome,
	})
	if o.bus != nil {
		o.bus.Publish(events.TrialEvent{
			RunID:         runID,
			Configuration: idx,
			Scenario:      sc.Name(),
			Result:        res,
			Duration:      dur,
			Err:           err,
		})
	}
	if o.sink != nil && err == nil {
		if rerr := o.sink.RecordTrial(coremetrics.TrialRecord{
			RunID:         runID,
			Configuration: idx,
			Scenario:      sc.Name(),
			Result:        res,
			Duration:      dur,
			Time:          time.Now(),
		}); rerr != nil {
			logger.OrNop(o.log).Warnf("record trial: %v", rerr)
		}
	}
}

func (o *Optimizer) recordReport(r Report) {
	log := logger.OrNop(o.log)
	if o.bus != nil {
		o.bus.Publish(events.RankingEvent{
			RunID:          r.RunID,
			Configurations: len(r.Ranked),
			Trials:         r.Trials,
			BestScore:      r.Best.AverageScore,
			Margin:         r.Margin,
			Elapsed:        r.Elapsed,
		})
	}
	if o.sink == nil {
		return
	}
	now := time.Now()
	if rr, ok := o.sink.(coremetrics.RankingRecorder); ok {
		recs := make([]coremetrics.RankingRecord, len(r.Ranked))
		for i, rk := range r.Ranked {
			recs[i] = coremetrics.RankingRecord{
				RunID:         r.RunID,
				Rank:          rk.Rank,
				Configuration: rk.Configuration,
				AverageScore:  rk.AverageScore,
				Stability:     rk.Stability,
				Time:          now,
			}
		}
		if err := rr.RecordRanking(recs); err != nil {
			log.Warnf("record ranking: %v", err)
		}
	}
	if sr, ok := o.sink.(coremetrics.RunSummaryRecorder); ok {
		if err := sr.RecordRunSummary(coremetrics.RunSummary{
			RunID:          r.RunID,
			Configurations: len(r.Ranked),
			Trials:         r.Trials,
			BestScore:      r.Best.AverageScore,
			Margin:         r.Margin,
			Elapsed:        r.Elapsed,
			Time:           now,
		}); err != nil {
			log.Warnf("record run summary: %v", err)
		}
	}
}

// rank aggregates results, laid out configuration-major, and sorts them by
// average score. Ties keep configuration order.
func rank(configs []model.Configuration, results []model.RunResult, perConfig int) []Ranked {
	out := make([]Ranked, len(configs))
	scores := make([]float64, perConfig)
	for ci, c := range configs {
		var success, completion float64
		for si := 0; si < perConfig; si++ {
			r := results[ci*perConfig+si]
			scores[si] = r.Score
			success += r.SuccessRate
			completion += r.CompletionTime
		}
		avg, stab := Aggregate(scores)
		out[ci] = Ranked{
			Index:              ci,
			Configuration:      c,
			AverageScore:       avg,
			Stability:          stab,
			Trials:             perConfig,
			MeanSuccessRate:    success / float64(perConfig),
			MeanCompletionTime: completion / float64(perConfig),
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AverageScore > out[j].AverageScore })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
