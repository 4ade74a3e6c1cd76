package device

import "github.com/sarchlab/datamover/datamover"

// SlotState is the hardware state of a job slot.
type SlotState int

// Slot states. A slot whose descriptor has been written after acquire is
// still Acquired from the hardware's point of view until the trigger.
const (
	SlotIdle SlotState = iota
	SlotAcquired
	SlotQueued
	SlotRunning
	SlotFinished
)

var slotStateNames = [...]string{"idle", "acquired", "queued", "running",
	"finished"}

func (s SlotState) String() string {
	return slotStateNames[s]
}

type slot struct {
	state   SlotState
	fields  []uint32
	written bool
	jobID   string
	next    uint32
}

func newSlots() []slot {
	slots := make([]slot, datamover.NumBanks)
	for i := range slots {
		slots[i].fields = make([]uint32, datamover.NumFields)
	}

	return slots
}

func (s *slot) descriptor() datamover.Descriptor {
	var f [datamover.NumFields]uint32
	copy(f[:], s.fields)

	return datamover.DescriptorFromFields(f)
}

// SlotInfo is a snapshot of one slot.
type SlotInfo struct {
	Bank     datamover.Bank `json:"bank"`
	State    string         `json:"state"`
	JobID    string         `json:"job_id,omitempty"`
	Moved    uint32         `json:"moved"`
	TotalLen uint32         `json:"total_len"`
}

// JobEvent is the hook item reported when a job starts, ends, or is aborted.
type JobEvent struct {
	ID         string
	Bank       datamover.Bank
	Descriptor datamover.Descriptor
	Moved      uint32
}
