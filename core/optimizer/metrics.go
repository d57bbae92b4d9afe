package optimizer

import "github.com/prometheus/client_golang/prometheus"

var (
	trialsTotal      *prometheus.CounterVec
	trialDuration    *prometheus.HistogramVec
	configsEvaluated prometheus.Counter
	bestScore        prometheus.Gauge
)

func newCollectors() (*prometheus.CounterVec, *prometheus.HistogramVec, prometheus.Counter, prometheus.Gauge) {
	trials := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optimizer_trials_total",
			Help: "Number of optimizer trials by scenario size and outcome",
		},
		[]string{"size", "outcome"},
	)
	dur := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "optimizer_trial_duration_seconds",
			Help:    "Wall clock duration of a single trial",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"size"},
	)
	evaluated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "optimizer_configurations_evaluated",
			Help: "Number of configurations ranked",
		},
	)
	best := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "optimizer_best_score",
			Help: "Average score of the best configuration of the last run",
		},
	)
	return trials, dur, evaluated, best
}

func init() {
	trialsTotal, trialDuration, configsEvaluated, bestScore = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers optimizer metrics on reg, or on
// prometheus.DefaultRegisterer when reg is nil.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(trialsTotal, trialDuration, configsEvaluated, bestScore)
}

// ResetMetrics recreates the collectors for tests and registers them on reg
// when it is not nil.
func ResetMetrics(reg prometheus.Registerer) {
	trialsTotal, trialDuration, configsEvaluated, bestScore = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
