package mmio

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Mapped is a Window over a shared memory mapping, typically of /dev/mem at
// the physical base address of a device.
type Mapped struct {
	data []byte
}

// OpenMapped maps size bytes of the file at path starting at byte offset
// base. The base must be page aligned.
func OpenMapped(path string, base int64, size int) (*Mapped, error) {
	if base%int64(os.Getpagesize()) != 0 {
		return nil, fmt.Errorf("base 0x%x is not page aligned", base)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := unix.Mmap(int(f.Fd()), base, size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s at 0x%x: %w", path, base, err)
	}

	return &Mapped{data: data}, nil
}

// Size returns the number of mapped bytes.
func (m *Mapped) Size() uint32 {
	return uint32(len(m.data))
}

// Load reads the register at offset.
func (m *Mapped) Load(offset uint32) uint32 {
	return atomic.LoadUint32(m.word(offset))
}

// Store writes the register at offset.
func (m *Mapped) Store(offset uint32, value uint32) {
	atomic.StoreUint32(m.word(offset), value)
}

func (m *Mapped) word(offset uint32) *uint32 {
	offsetMustBeValid(offset, m.Size())
	return (*uint32)(unsafe.Pointer(&m.data[offset]))
}

// Close unmaps the window. The window must not be used afterwards.
func (m *Mapped) Close() error {
	err := unix.Munmap(m.data)
	m.data = nil

	return err
}
