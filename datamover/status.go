package datamover

import "github.com/sarchlab/datamover/bits"

// Bit position of the finished mask inside the status register.
const statusFinishedOffset = 8

// A BankMask has bit b set for every selected bank b.
type BankMask uint32

// Has tells if bank b is in the mask.
func (m BankMask) Has(b Bank) bool {
	if b < 0 || b >= 32 {
		return false
	}

	return bits.Extract(uint32(m), 1, uint(b)) == 1
}

// With returns the mask with bank b added.
func (m BankMask) With(b Bank) BankMask {
	return BankMask(bits.Insert(uint32(m), 1, 1, uint(b)))
}

// Status is the value of the status register.
type Status uint32

// MakeStatus packs the running and finished masks into a status word.
func MakeStatus(running, finished BankMask) Status {
	w := bits.Insert(0, uint32(running), NumBanks, 0)
	w = bits.Insert(w, uint32(finished), NumBanks, statusFinishedOffset)

	return Status(w)
}

// Running returns the slots that are executing or waiting to execute.
func (s Status) Running() BankMask {
	return BankMask(bits.Extract(uint32(s), NumBanks, 0))
}

// Finished returns the slots whose job has completed.
func (s Status) Finished() BankMask {
	return BankMask(bits.Extract(uint32(s), NumBanks, statusFinishedOffset))
}

// Idle tells if no slot is running or finished.
func (s Status) Idle() bool {
	return s.Running() == 0 && s.Finished() == 0
}
