package datamover

import (
	"errors"
	"fmt"

	"github.com/sarchlab/datamover/mmio"
	"github.com/sarchlab/datamover/sim"
)

// Handshake errors.
var (
	// ErrNoFreeSlot is returned by AcquireJob when every slot is taken. It is
	// retryable; the slots free up after a soft clear.
	ErrNoFreeSlot = errors.New("no free job slot")

	ErrInvalidBank = errors.New("bank index out of range")
	ErrStaleHandle = errors.New("job handle released by soft clear")
)

// Hook positions of the handshake.
var (
	HookPosAcquire   = &sim.HookPos{Name: "Acquire"}
	HookPosConfigure = &sim.HookPos{Name: "Configure"}
	HookPosTrigger   = &sim.HookPos{Name: "Trigger"}
	HookPosSoftClear = &sim.HookPos{Name: "SoftClear"}
)

// A JobHandle grants exclusive use of one descriptor bank. It is the only way
// to address a bank through a Controller and becomes stale on soft clear.
type JobHandle struct {
	bank  Bank
	epoch uint64
}

// Bank returns the bank the handle refers to.
func (h JobHandle) Bank() Bank {
	return h.bank
}

// ConfiguredJob is the hook item reported on configure.
type ConfiguredJob struct {
	Bank       Bank
	Descriptor Descriptor
}

// A Controller drives the job handshake of one accelerator through its
// register window. It is meant to be owned by a single control thread.
type Controller struct {
	sim.HookableBase

	regs         mmio.Window
	elementBytes uint32
	epoch        uint64
}

// NewController creates a controller for the accelerator behind regs that
// moves units of elementBytes bytes.
func NewController(regs mmio.Window, elementBytes uint32) *Controller {
	return &Controller{
		regs:         regs,
		elementBytes: elementBytes,
		epoch:        1,
	}
}

// AcquireJob polls the acquire register once. It returns ErrNoFreeSlot if the
// accelerator has no free slot; retrying is up to the caller.
func (c *Controller) AcquireJob() (JobHandle, error) {
	v := int32(c.regs.Load(RegAcquire))
	if v < 0 {
		return JobHandle{}, ErrNoFreeSlot
	}

	bank := Bank(v)
	if !bank.Valid() {
		return JobHandle{}, fmt.Errorf("acquire returned %d: %w", v,
			ErrInvalidBank)
	}

	c.invoke(HookPosAcquire, bank)

	return JobHandle{bank: bank, epoch: c.epoch}, nil
}

// Configure validates d and writes it into the bank held by h.
func (c *Controller) Configure(h JobHandle, d Descriptor) error {
	if h.epoch != c.epoch {
		return fmt.Errorf("bank %d: %w", h.bank, ErrStaleHandle)
	}

	if !h.bank.Valid() {
		return fmt.Errorf("bank %d: %w", h.bank, ErrInvalidBank)
	}

	if err := d.Validate(c.elementBytes); err != nil {
		return fmt.Errorf("bank %d: %w", h.bank, err)
	}

	WriteDescriptor(c.regs, h.bank, d)
	c.invoke(HookPosConfigure, ConfiguredJob{Bank: h.bank, Descriptor: d})

	return nil
}

// Trigger starts every configured job. Banks that were never configured are
// skipped by the accelerator.
func (c *Controller) Trigger() {
	c.regs.Store(RegTrigger, 0)
	c.invoke(HookPosTrigger, nil)
}

// ReadStatus returns the status register without side effects.
func (c *Controller) ReadStatus() Status {
	return Status(c.regs.Load(RegStatus))
}

// ReadFinished returns the mask of finished slots.
func (c *Controller) ReadFinished() BankMask {
	return BankMask(c.regs.Load(RegFinished))
}

// RunningJob returns the slot being executed, if any. Values that are not a
// hardware bank read as no running job.
func (c *Controller) RunningJob() (Bank, bool) {
	v := c.regs.Load(RegRunningJob)
	if v == noSlot || v >= NumBanks {
		return 0, false
	}

	return Bank(v), true
}

// SoftClear returns all slots to idle and invalidates every outstanding
// JobHandle. It must be issued after completion is observed and before the
// banks are reused.
func (c *Controller) SoftClear() {
	c.regs.Store(RegSoftClear, 0)
	c.epoch++
	c.invoke(HookPosSoftClear, nil)
}

func (c *Controller) invoke(pos *sim.HookPos, item interface{}) {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    pos,
		Item:   item,
	})
}
