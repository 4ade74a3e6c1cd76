package tracing

import "github.com/sarchlab/datamover/sim"

// A Task is a piece of work observed in the simulation, such as a copy job
// or a register access.
type Task struct {
	ID        string         `json:"id"`
	ParentID  string         `json:"parent_id"`
	Kind      string         `json:"kind"`
	What      string         `json:"what"`
	Location  string         `json:"location"`
	StartTime sim.VTimeInSec `json:"start_time"`
	EndTime   sim.VTimeInSec `json:"end_time"`
	Detail    interface{}    `json:"-"`
}

// TaskFilter is a function that can filter interesting tasks. If this function
// returns true, the task is considered useful.
type TaskFilter func(t Task) bool

// KindFilter keeps the tasks of the given kind.
func KindFilter(kind string) TaskFilter {
	return func(t Task) bool {
		return t.Kind == kind
	}
}

// Task kinds.
const (
	KindJob       = "job"
	KindRegLoad   = "reg_load"
	KindRegStore  = "reg_store"
	KindHandshake = "handshake"
)
