package model

import "math"

// Score weights of the trial fitness function.
const (
	SuccessWeight    = 0.6
	SpeedWeight      = 0.25
	EfficiencyWeight = 0.15
	// EfficiencyCap is the rescues per minute that earns the full
	// efficiency term.
	EfficiencyCap = 10.0
)

// RunResult summarises a finished run.
type RunResult struct {
	Rescued        float64 `json:"rescued"`
	CompletionTime float64 `json:"completion_time"`
	SuccessRate    float64 `json:"success_rate"`
	Score          float64 `json:"score"`
	// Completed is true when every task was resolved before the time limit.
	Completed bool `json:"completed"`
}

// Efficiency is victims rescued per simulated minute.
func (r RunResult) Efficiency() float64 {
	return r.Rescued / math.Max(1, r.CompletionTime)
}

// Fitness scores the run against timeLimit:
// 0.6*success + 0.25*max(0,(limit-time)/limit) + 0.15*min(efficiency/10,1).
func (r RunResult) Fitness(timeLimit float64) float64 {
	speed := 0.0
	if timeLimit > 0 {
		speed = math.Max(0, (timeLimit-r.CompletionTime)/timeLimit)
	}
	eff := math.Min(r.Efficiency()/EfficiencyCap, 1)
	return SuccessWeight*r.SuccessRate + SpeedWeight*speed + EfficiencyWeight*eff
}
