package model

import "math"

// TaskID identifies a demand point within a scenario. IDs are dense and
// start at zero so tasks can be stored by index.
type TaskID int

// AgentID identifies a rescue team within a run.
type AgentID int

// Position is a point on the 100x100 map.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between p and q.
func (p Position) Distance(q Position) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Task is a demand point whose victim count decays once reported.
type Task struct {
	ID             TaskID  `json:"id"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	InitialVictims float64 `json:"initial_victims"`
	CurrentVictims float64 `json:"current_victims"`
	DeclineRate    float64 `json:"decline_rate"` // fraction of InitialVictims lost per minute, in [0.1,0.2]
	Reported       bool    `json:"reported"`
	ReportTime     float64 `json:"report_time"` // simulated minutes before dispatch can see the task
}

// Position returns the task location.
func (t Task) Position() Position { return Position{X: t.X, Y: t.Y} }

// Available reports whether dispatch may select the task.
func (t Task) Available() bool { return t.Reported && t.CurrentVictims > 0 }

// Resolved reports whether the task has no victims left.
func (t Task) Resolved() bool { return t.CurrentVictims <= 0 }
