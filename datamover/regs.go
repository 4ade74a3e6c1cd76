// Package datamover encodes multi-dimensional transfer descriptors into the
// register banks of the datamover accelerator and drives its job handshake.
//
// A job goes through
//
//	Idle --acquire--> Acquired --configure--> Configured --trigger--> Running
//	     --(hw completes)--> Finished --soft clear--> Idle
//
// The accelerator has three job slots. Each slot owns a bank of thirteen
// descriptor registers, so up to three jobs can be queued before a single
// trigger starts all of them.
package datamover

import (
	"fmt"
	"log"

	"github.com/sarchlab/datamover/mmio"
)

// Location of the register window in the cluster address space.
const (
	AddrBase  = 0x0010_0000
	AddrSpace = 0x0000_0100
)

// Scalar control and status registers.
const (
	RegTrigger    = 0x00 // W: start all configured jobs
	RegAcquire    = 0x04 // R: allocate a slot, negative if none is free
	RegFinished   = 0x08 // R: finished slot mask
	RegStatus     = 0x0c // R: running and finished slot masks
	RegRunningJob = 0x10 // R: slot being executed
	RegSoftClear  = 0x14 // W: return all slots to idle
)

// Layout of the descriptor banks.
const (
	NumBanks   = 3
	BankBase   = 0x20
	BankStride = 0x34 // thirteen 32-bit fields
)

// Acquire and running-job registers read as all ones when there is nothing to
// report.
const noSlot = 0xffff_ffff

// Event lines the accelerator raises towards the cluster event unit.
const (
	EvtAcc0 = 0
	EvtAcc1 = 1
)

// DefaultDataWidth is the width of one transfer unit in bits.
const DefaultDataWidth = 256

// A Field is one of the thirteen registers of a descriptor bank.
type Field int

// Descriptor fields in register order.
const (
	SrcAddr Field = iota
	DstAddr
	TotLen
	SrcD0Len
	SrcD0Stride
	SrcD1Len
	SrcD1Stride
	SrcD2Stride
	DstD0Len
	DstD0Stride
	DstD1Len
	DstD1Stride
	DstD2Stride

	NumFields
)

var fieldNames = [NumFields]string{
	"src_addr", "dst_addr", "tot_len",
	"src_d0_len", "src_d0_stride", "src_d1_len", "src_d1_stride",
	"src_d2_stride",
	"dst_d0_len", "dst_d0_stride", "dst_d1_len", "dst_d1_stride",
	"dst_d2_stride",
}

// Valid tells if f names a descriptor field.
func (f Field) Valid() bool {
	return f >= 0 && f < NumFields
}

func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}

	return fieldNames[f]
}

// A Bank is the index of a job slot and of its descriptor registers.
type Bank int

// Valid tells if b is one of the hardware banks.
func (b Bank) Valid() bool {
	return b >= 0 && b < NumBanks
}

// FieldOffset returns the byte offset of field in bank, relative to the
// register window base.
func FieldOffset(bank Bank, field Field) uint32 {
	if !bank.Valid() {
		log.Panicf("bank %d out of range [0, %d)", bank, NumBanks)
	}

	if !field.Valid() {
		log.Panicf("unknown descriptor field %d", field)
	}

	return BankBase + uint32(bank)*BankStride + uint32(field)*mmio.WordSize
}

// DecodeOffset maps a register offset back to the bank and field it belongs
// to. It returns false for offsets outside the descriptor banks.
func DecodeOffset(offset uint32) (Bank, Field, bool) {
	if offset < BankBase || offset%mmio.WordSize != 0 {
		return 0, 0, false
	}

	rel := offset - BankBase
	bank := Bank(rel / BankStride)
	if !bank.Valid() {
		return 0, 0, false
	}

	return bank, Field(rel % BankStride / mmio.WordSize), true
}

var scalarRegNames = map[uint32]string{
	RegTrigger:    "trigger",
	RegAcquire:    "acquire",
	RegFinished:   "finished",
	RegStatus:     "status",
	RegRunningJob: "running_job",
	RegSoftClear:  "soft_clear",
}

// RegisterName returns a readable name for the register at offset, such as
// "acquire" or "bank1.src_d0_len".
func RegisterName(offset uint32) string {
	if name, ok := scalarRegNames[offset]; ok {
		return name
	}

	if bank, field, ok := DecodeOffset(offset); ok {
		return fmt.Sprintf("bank%d.%s", bank, field)
	}

	return fmt.Sprintf("reg_0x%02x", offset)
}
