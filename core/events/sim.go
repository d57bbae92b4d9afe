package events

import "github.com/kilianp07/rescuesim/core/model"

// TickEvent is published after every live tick of a group.
type TickEvent struct {
	Group   string
	Time    float64
	Rescued float64
	Total   float64
	// Remaining is the number of unresolved tasks.
	Remaining int
	Agents    []model.Agent
}

// GroupDoneEvent is published once when a live group terminates.
type GroupDoneEvent struct {
	Group  string
	Result model.RunResult
}
