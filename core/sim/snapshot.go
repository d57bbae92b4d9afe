package sim

import "github.com/kilianp07/rescuesim/core/model"

// View is a read-only copy of a world state for renderers.
type View struct {
	Time     float64                        `json:"time"`
	Rescued  float64                        `json:"rescued"`
	Total    float64                        `json:"total"`
	Center   model.Position                 `json:"center"`
	Tasks    []model.Task                   `json:"tasks"`
	Agents   []model.Agent                  `json:"agents"`
	Claims   map[model.TaskID]model.AgentID `json:"claims"`
	Complete bool                           `json:"complete"`
}

// Snapshot copies the observable state. It does not modify s.
func (s *WorldState) Snapshot() View {
	return View{
		Time:     s.Time,
		Rescued:  s.Rescued,
		Total:    s.Total,
		Center:   s.Center,
		Tasks:    append([]model.Task(nil), s.Tasks...),
		Agents:   copyAgents(s.Agents),
		Claims:   s.Claims.Snapshot(),
		Complete: s.IsComplete(),
	}
}

// Snapshot returns the read-only view of s.
func Snapshot(s *WorldState) View { return s.Snapshot() }
