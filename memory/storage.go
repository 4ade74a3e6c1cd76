// Package memory models the byte-addressed memories of the cluster.
package memory

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when an access reaches beyond the capacity of a
// storage.
var ErrOutOfRange = errors.New("access beyond the storage capacity")

// Common sizes.
const (
	KB uint64 = 1 << 10
	MB uint64 = 1 << 20
	GB uint64 = 1 << 30
)

// A Storage keeps the data of the simulated system.
//
// The storage manages its content in units, similar to pages. Units that are
// never touched by Read and Write are never allocated, so a storage can cover
// the whole 32-bit address space.
type Storage struct {
	unitSize uint64
	capacity uint64
	data     map[uint64][]byte
}

// NewStorage creates a storage object with the specified capacity
func NewStorage(capacity uint64) *Storage {
	return &Storage{
		unitSize: 4 * KB,
		capacity: capacity,
		data:     make(map[uint64][]byte),
	}
}

// Capacity returns the number of addressable bytes.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

func (s *Storage) rangeMustFit(address, length uint64) error {
	if address+length > s.capacity || address+length < address {
		return fmt.Errorf("0x%x+%d (capacity 0x%x): %w",
			address, length, s.capacity, ErrOutOfRange)
	}

	return nil
}

func (s *Storage) unit(address uint64) []byte {
	baseAddr, _ := s.parseAddress(address)

	unit, ok := s.data[baseAddr]
	if !ok {
		unit = make([]byte, s.unitSize)
		s.data[baseAddr] = unit
	}

	return unit
}

func (s *Storage) parseAddress(addr uint64) (baseAddr, inUnitAddr uint64) {
	inUnitAddr = addr % s.unitSize
	baseAddr = addr - inUnitAddr
	return
}

// Read returns a copy of length bytes starting at address.
func (s *Storage) Read(address uint64, length uint64) ([]byte, error) {
	if err := s.rangeMustFit(address, length); err != nil {
		return nil, err
	}

	res := make([]byte, length)
	done := uint64(0)

	for done < length {
		curr := address + done
		_, inUnitAddr := s.parseAddress(curr)
		n := min(length-done, s.unitSize-inUnitAddr)

		copy(res[done:done+n], s.unit(curr)[inUnitAddr:inUnitAddr+n])
		done += n
	}

	return res, nil
}

// Write copies data into the storage starting at address.
func (s *Storage) Write(address uint64, data []byte) error {
	length := uint64(len(data))
	if err := s.rangeMustFit(address, length); err != nil {
		return err
	}

	done := uint64(0)

	for done < length {
		curr := address + done
		_, inUnitAddr := s.parseAddress(curr)
		n := min(length-done, s.unitSize-inUnitAddr)

		copy(s.unit(curr)[inUnitAddr:inUnitAddr+n], data[done:done+n])
		done += n
	}

	return nil
}
