package memory

import (
	"fmt"
)

// An Allocator hands out aligned, non-overlapping buffers from a region, the
// way a linker section places static arrays. Buffers are never freed.
type Allocator struct {
	next uint64
	end  uint64
}

// NewAllocator creates an allocator over [start, start+size).
func NewAllocator(start, size uint64) *Allocator {
	return &Allocator{next: start, end: start + size}
}

// Alloc reserves size bytes aligned to align, which must be a power of two.
func (a *Allocator) Alloc(size, align uint64) (uint64, error) {
	if align == 0 || align&(align-1) != 0 {
		return 0, fmt.Errorf("alignment %d is not a power of two", align)
	}

	addr := (a.next + align - 1) &^ (align - 1)
	if addr+size > a.end {
		return 0, fmt.Errorf("allocating %d bytes at 0x%x: %w",
			size, addr, ErrOutOfRange)
	}

	a.next = addr + size

	return addr, nil
}

// Remaining returns the number of bytes not yet handed out.
func (a *Allocator) Remaining() uint64 {
	return a.end - a.next
}
