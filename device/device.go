// Package device provides a functional model of the datamover accelerator.
//
// The model exposes the accelerator's register window, keeps the three job
// slots, and performs the strided copies against a memory. It raises an event
// towards the cluster when all triggered jobs have completed.
package device

import (
	"log"

	"github.com/sarchlab/datamover/datamover"
	"github.com/sarchlab/datamover/memory"
	"github.com/sarchlab/datamover/sim"
)

// Hook positions of the job lifecycle inside the accelerator.
var (
	HookPosJobStart = &sim.HookPos{Name: "JobStart"}
	HookPosJobEnd   = &sim.HookPos{Name: "JobEnd"}
	HookPosJobAbort = &sim.HookPos{Name: "JobAbort"}
)

// An InterruptLine delivers accelerator events to the cluster.
type InterruptLine interface {
	Raise(evt int)
}

// Comp is the accelerator. It is a register window for the control side and
// a ticking component for the simulation engine.
type Comp struct {
	*sim.TickingComponent

	mem           memory.Accessor
	irq           InterruptLine
	elementBytes  uint32
	unitsPerCycle int

	slots    []slot
	acquired []datamover.Bank
	queue    []datamover.Bank
	running  int
}

// Load serves a register read. Reading the acquire register allocates a
// slot.
func (c *Comp) Load(offset uint32) uint32 {
	c.Lock()
	defer c.Unlock()

	switch offset {
	case datamover.RegAcquire:
		return c.acquire()
	case datamover.RegFinished:
		return uint32(c.finishedMask())
	case datamover.RegStatus:
		return uint32(datamover.MakeStatus(c.runningMask(), c.finishedMask()))
	case datamover.RegRunningJob:
		if c.running < 0 {
			return 0xffff_ffff
		}
		return uint32(c.running)
	}

	if bank, field, ok := datamover.DecodeOffset(offset); ok {
		return c.slots[bank].fields[field]
	}

	return 0
}

// Store serves a register write.
func (c *Comp) Store(offset uint32, value uint32) {
	c.Lock()
	defer c.Unlock()

	switch offset {
	case datamover.RegTrigger:
		c.trigger()
		return
	case datamover.RegSoftClear:
		c.softClear()
		return
	}

	if bank, field, ok := datamover.DecodeOffset(offset); ok {
		s := &c.slots[bank]
		s.fields[field] = value
		s.written = true
	}
}

func (c *Comp) acquire() uint32 {
	for i := range c.slots {
		s := &c.slots[i]
		if s.state != SlotIdle {
			continue
		}

		s.state = SlotAcquired
		s.written = false
		s.next = 0
		s.jobID = sim.GetIDGenerator().Generate()
		c.acquired = append(c.acquired, datamover.Bank(i))

		return uint32(i)
	}

	return 0xffff_ffff
}

func (c *Comp) trigger() {
	stillAcquired := c.acquired[:0]

	for _, b := range c.acquired {
		s := &c.slots[b]
		if !s.written {
			stillAcquired = append(stillAcquired, b)
			continue
		}

		s.state = SlotQueued
		c.queue = append(c.queue, b)
	}

	c.acquired = stillAcquired

	if len(c.queue) > 0 {
		c.TickLater()
	}
}

// softClear returns every slot to idle. The hardware documentation does not
// cover a clear while a job runs. This model aborts the copy in flight and
// drops the queued jobs. Bytes already copied stay in memory.
func (c *Comp) softClear() {
	if c.running >= 0 {
		s := &c.slots[c.running]
		c.invokeJobHook(HookPosJobAbort, datamover.Bank(c.running), s)
	}

	for i := range c.slots {
		c.slots[i].state = SlotIdle
		c.slots[i].written = false
		c.slots[i].next = 0
	}

	c.acquired = nil
	c.queue = nil
	c.running = -1
}

func (c *Comp) finishedMask() datamover.BankMask {
	var m datamover.BankMask
	for i, s := range c.slots {
		if s.state == SlotFinished {
			m = m.With(datamover.Bank(i))
		}
	}

	return m
}

func (c *Comp) runningMask() datamover.BankMask {
	var m datamover.BankMask
	for i, s := range c.slots {
		if s.state == SlotQueued || s.state == SlotRunning {
			m = m.With(datamover.Bank(i))
		}
	}

	return m
}

// Tick moves up to unitsPerCycle units of the running job.
func (c *Comp) Tick() bool {
	c.Lock()
	defer c.Unlock()

	if c.running < 0 && !c.startNextJob() {
		return false
	}

	s := &c.slots[c.running]
	d := s.descriptor()

	for n := 0; n < c.unitsPerCycle && s.next < d.TotLen; n++ {
		if !c.moveUnit(d, s.next) {
			s.next = d.TotLen
			break
		}

		s.next++
	}

	if s.next >= d.TotLen {
		c.finishJob()
	}

	return true
}

func (c *Comp) startNextJob() bool {
	if len(c.queue) == 0 {
		return false
	}

	bank := c.queue[0]
	c.queue = c.queue[1:]
	c.running = int(bank)

	s := &c.slots[bank]
	s.state = SlotRunning
	s.next = 0

	d := s.descriptor()
	if d.TotLen > 0 && (d.Src.D0Len == 0 || d.Src.D1Len == 0 ||
		d.Dst.D0Len == 0 || d.Dst.D1Len == 0) {
		log.Printf("%s: bank %d has a zero loop length, job skipped",
			c.Name(), bank)
		s.next = d.TotLen
	}

	c.invokeJobHook(HookPosJobStart, bank, s)

	return true
}

func (c *Comp) moveUnit(d datamover.Descriptor, i uint32) bool {
	src := uint64(d.SrcAddr) + uint64(d.Src.Offset(i))
	dst := uint64(d.DstAddr) + uint64(d.Dst.Offset(i))

	data, err := c.mem.Read(src, uint64(c.elementBytes))
	if err != nil {
		log.Printf("%s: job on bank %d failed reading 0x%x: %v",
			c.Name(), c.running, src, err)
		return false
	}

	err = c.mem.Write(dst, data)
	if err != nil {
		log.Printf("%s: job on bank %d failed writing 0x%x: %v",
			c.Name(), c.running, dst, err)
		return false
	}

	return true
}

func (c *Comp) finishJob() {
	bank := datamover.Bank(c.running)
	s := &c.slots[bank]
	s.state = SlotFinished
	c.running = -1

	c.invokeJobHook(HookPosJobEnd, bank, s)

	if len(c.queue) == 0 {
		c.irq.Raise(datamover.EvtAcc0)
	}
}

func (c *Comp) invokeJobHook(pos *sim.HookPos, bank datamover.Bank, s *slot) {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    pos,
		Item: JobEvent{
			ID:         s.jobID,
			Bank:       bank,
			Descriptor: s.descriptor(),
			Moved:      s.next,
		},
	})
}

// Slots returns a snapshot of the job slots.
func (c *Comp) Slots() []SlotInfo {
	c.Lock()
	defer c.Unlock()

	infos := make([]SlotInfo, 0, len(c.slots))
	for i, s := range c.slots {
		infos = append(infos, SlotInfo{
			Bank:     datamover.Bank(i),
			State:    s.state.String(),
			JobID:    s.jobID,
			Moved:    s.next,
			TotalLen: s.fields[datamover.TotLen],
		})
	}

	return infos
}
