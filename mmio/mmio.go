// Package mmio provides volatile access to memory-mapped 32-bit registers.
//
// Every Load and Store is issued individually through sync/atomic, so the
// compiler can neither elide nor reorder register accesses relative to each
// other. Ordering of the accesses with respect to the device itself is a
// property of the platform the window is mapped on.
//
// Mapped reaches a real device through a mapping of /dev/mem. RegisterFile
// and HookedWindow serve simulation and tests.
package mmio

import (
	"log"
	"sync/atomic"
)

// WordSize is the size of a register in bytes.
const WordSize = 4

// A Window is a range of memory-mapped registers addressed by byte offset
// from the window base.
type Window interface {
	// Load reads the 32-bit register at offset.
	Load(offset uint32) uint32

	// Store writes value to the 32-bit register at offset.
	Store(offset uint32, value uint32)
}

// U32 is a 32-bit register.
type U32 struct {
	v uint32
}

// Load reads the register.
func (r *U32) Load() uint32 {
	return atomic.LoadUint32(&r.v)
}

// Store writes the register.
func (r *U32) Store(v uint32) {
	atomic.StoreUint32(&r.v, v)
}

func offsetMustBeValid(offset, size uint32) {
	if offset%WordSize != 0 {
		log.Panicf("register offset 0x%x is not word aligned", offset)
	}

	if offset >= size {
		log.Panicf("register offset 0x%x outside window of 0x%x bytes",
			offset, size)
	}
}
