package dispatch

import "github.com/kilianp07/rescuesim/core/model"

// AssignmentTable records which agents currently hold each task. Every
// task keeps its claimants in claim order so an entry exists exactly as
// long as some agent is assigned to it, including when two agents end up
// sharing a task.
type AssignmentTable struct {
	claims map[model.TaskID][]model.AgentID
}

// NewAssignmentTable returns an empty table.
func NewAssignmentTable() *AssignmentTable {
	return &AssignmentTable{claims: make(map[model.TaskID][]model.AgentID)}
}

// Claim records agent as holding task. Claiming twice is a no-op.
func (t *AssignmentTable) Claim(task model.TaskID, agent model.AgentID) {
	for _, a := range t.claims[task] {
		if a == agent {
			return
		}
	}
	t.claims[task] = append(t.claims[task], agent)
}

// Release drops the claim of agent on task. The entry disappears with its
// last claimant.
func (t *AssignmentTable) Release(task model.TaskID, agent model.AgentID) {
	list := t.claims[task]
	for i, a := range list {
		if a != agent {
			continue
		}
		list = append(list[:i:i], list[i+1:]...)
		if len(list) == 0 {
			delete(t.claims, task)
		} else {
			t.claims[task] = list
		}
		return
	}
}

// Owner returns the first agent that claimed task.
func (t *AssignmentTable) Owner(task model.TaskID) (model.AgentID, bool) {
	list := t.claims[task]
	if len(list) == 0 {
		return 0, false
	}
	return list[0], true
}

// Claimed reports whether any agent holds task.
func (t *AssignmentTable) Claimed(task model.TaskID) bool {
	return len(t.claims[task]) > 0
}

// Claimants returns a copy of the agents holding task, in claim order.
func (t *AssignmentTable) Claimants(task model.TaskID) []model.AgentID {
	list := t.claims[task]
	if len(list) == 0 {
		return nil
	}
	out := make([]model.AgentID, len(list))
	copy(out, list)
	return out
}

// Len is the number of claimed tasks.
func (t *AssignmentTable) Len() int { return len(t.claims) }

// Snapshot maps every claimed task to its owner.
func (t *AssignmentTable) Snapshot() map[model.TaskID]model.AgentID {
	out := make(map[model.TaskID]model.AgentID, len(t.claims))
	for task, list := range t.claims {
		out[task] = list[0]
	}
	return out
}

// Clone returns an independent copy.
func (t *AssignmentTable) Clone() *AssignmentTable {
	c := &AssignmentTable{claims: make(map[model.TaskID][]model.AgentID, len(t.claims))}
	for task, list := range t.claims {
		c.claims[task] = append([]model.AgentID(nil), list...)
	}
	return c
}
