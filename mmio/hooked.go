package mmio

import "github.com/sarchlab/datamover/sim"

// HookPosRegLoad marks a register read.
var HookPosRegLoad = &sim.HookPos{Name: "RegLoad"}

// HookPosRegStore marks a register write.
var HookPosRegStore = &sim.HookPos{Name: "RegStore"}

// Access is the hook item describing one register access.
type Access struct {
	Offset uint32
	Value  uint32
}

// HookedWindow forwards every access to an inner Window and reports it to the
// registered hooks after it completes.
type HookedWindow struct {
	sim.HookableBase

	inner Window
}

// NewHookedWindow wraps inner.
func NewHookedWindow(inner Window) *HookedWindow {
	return &HookedWindow{inner: inner}
}

// Load reads the register at offset.
func (w *HookedWindow) Load(offset uint32) uint32 {
	v := w.inner.Load(offset)

	w.InvokeHook(sim.HookCtx{
		Domain: w,
		Pos:    HookPosRegLoad,
		Item:   Access{Offset: offset, Value: v},
	})

	return v
}

// Store writes the register at offset.
func (w *HookedWindow) Store(offset uint32, value uint32) {
	w.inner.Store(offset, value)

	w.InvokeHook(sim.HookCtx{
		Domain: w,
		Pos:    HookPosRegStore,
		Item:   Access{Offset: offset, Value: value},
	})
}
