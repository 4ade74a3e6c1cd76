package platform

import "sync"

// EventUnit collects the events that accelerators raise towards the cluster
// cores. Only events enabled in the mask become pending.
type EventUnit struct {
	sync.Mutex

	mask    uint32
	pending uint32
}

// NewEventUnit creates an event unit with every event enabled.
func NewEventUnit() *EventUnit {
	return &EventUnit{mask: 0xffff_ffff}
}

// SetMask selects the events that can wake a waiting core.
func (u *EventUnit) SetMask(mask uint32) {
	u.Lock()
	defer u.Unlock()

	u.mask = mask
}

// Raise marks evt as pending if it is enabled.
func (u *EventUnit) Raise(evt int) {
	u.Lock()
	defer u.Unlock()

	u.pending |= (1 << uint(evt)) & u.mask
}

// Pending returns the pending events.
func (u *EventUnit) Pending() uint32 {
	u.Lock()
	defer u.Unlock()

	return u.pending
}

func (u *EventUnit) clear() uint32 {
	u.Lock()
	defer u.Unlock()

	p := u.pending
	u.pending = 0

	return p
}
