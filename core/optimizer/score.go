package optimizer

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/rescuesim/core/model"
)

// TrialScore is the fitness of one trial against timeLimit.
func TrialScore(r model.RunResult, timeLimit float64) float64 {
	return r.Fitness(timeLimit)
}

// Aggregate returns the mean of scores and the stability 1 - stddev, where
// stddev is the population standard deviation. An empty slice yields zeros.
func Aggregate(scores []float64) (avg, stability float64) {
	if len(scores) == 0 {
		return 0, 0
	}
	mean, variance := stat.PopMeanVariance(scores, nil)
	return mean, 1 - math.Sqrt(variance)
}
