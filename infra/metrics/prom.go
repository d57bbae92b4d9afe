package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/rescuesim/core/metrics"
)

// PromSink records trials, rankings and live progress in Prometheus metrics.
type PromSink struct {
	trials      *prometheus.CounterVec
	trialScore  *prometheus.HistogramVec
	rankScore   *prometheus.GaugeVec
	liveRescued *prometheus.GaugeVec
	liveLeft    *prometheus.GaugeVec
	groupRate   *prometheus.GaugeVec
}

// NewPromSink registers the sink metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	trials := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rescuesim_trials_total",
		Help: "Optimizer trials by scenario and completion",
	}, []string{"scenario", "completed"})
	trialScore := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rescuesim_trial_score",
		Help:    "Fitness score of optimizer trials",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	}, []string{"scenario"})
	rankScore := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rescuesim_ranked_score",
		Help: "Average score of the ranked configurations of the last run",
	}, []string{"rank"})
	liveRescued := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rescuesim_live_rescued",
		Help: "Victims rescued so far by a live group",
	}, []string{"group"})
	liveLeft := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rescuesim_live_open_tasks",
		Help: "Unresolved tasks of a live group",
	}, []string{"group"})
	groupRate := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rescuesim_live_success_rate",
		Help: "Final success rate of a live group",
	}, []string{"group"})

	var err error
	if trials, err = register(reg, trials); err != nil {
		return nil, err
	}
	if trialScore, err = register(reg, trialScore); err != nil {
		return nil, err
	}
	if rankScore, err = register(reg, rankScore); err != nil {
		return nil, err
	}
	if liveRescued, err = register(reg, liveRescued); err != nil {
		return nil, err
	}
	if liveLeft, err = register(reg, liveLeft); err != nil {
		return nil, err
	}
	if groupRate, err = register(reg, groupRate); err != nil {
		return nil, err
	}
	return &PromSink{
		trials:      trials,
		trialScore:  trialScore,
		rankScore:   rankScore,
		liveRescued: liveRescued,
		liveLeft:    liveLeft,
		groupRate:   groupRate,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordTrial counts the trial and observes its score.
func (s *PromSink) RecordTrial(rec coremetrics.TrialRecord) error {
	s.trials.WithLabelValues(rec.Scenario, strconv.FormatBool(rec.Result.Completed)).Inc()
	s.trialScore.WithLabelValues(rec.Scenario).Observe(rec.Result.Score)
	return nil
}

// RecordRanking exposes the average score per rank.
func (s *PromSink) RecordRanking(recs []coremetrics.RankingRecord) error {
	s.rankScore.Reset()
	for _, r := range recs {
		s.rankScore.WithLabelValues(strconv.Itoa(r.Rank)).Set(r.AverageScore)
	}
	return nil
}

// RecordTick updates the live gauges of the group.
func (s *PromSink) RecordTick(rec coremetrics.TickRecord) error {
	s.liveRescued.WithLabelValues(rec.Group).Set(rec.Rescued)
	s.liveLeft.WithLabelValues(rec.Group).Set(float64(rec.Remaining))
	return nil
}

// RecordGroupResult sets the final success rate of the group.
func (s *PromSink) RecordGroupResult(res coremetrics.GroupResult) error {
	s.groupRate.WithLabelValues(res.Group).Set(res.Result.SuccessRate)
	return nil
}
