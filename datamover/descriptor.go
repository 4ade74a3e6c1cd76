package datamover

import (
	"errors"
	"fmt"

	"github.com/sarchlab/datamover/mmio"
)

// Descriptor validation errors.
var (
	ErrZeroLength     = errors.New("total length must be positive")
	ErrZeroLoopLength = errors.New("loop length must be at least 1")
	ErrShapeMismatch  = errors.New("total length is not a multiple of d0_len*d1_len")
	ErrMisaligned     = errors.New("address not aligned to the element width")
)

// A Shape describes how one side of a transfer walks memory. D0 is the
// innermost loop. The trip count of the outermost loop D2 is implied by the
// total length of the transfer.
type Shape struct {
	D0Len    uint32
	D0Stride uint32
	D1Len    uint32
	D1Stride uint32
	D2Stride uint32
}

// OuterLen returns the implied D2 trip count for a transfer of totLen units.
func (s Shape) OuterLen(totLen uint32) uint32 {
	inner := uint64(s.D0Len) * uint64(s.D1Len)
	if inner == 0 {
		return 0
	}

	return uint32(uint64(totLen) / inner)
}

// Offset returns the byte offset, relative to the side's base address, of the
// i-th unit of the transfer. Loop lengths must be non-zero.
func (s Shape) Offset(i uint32) uint32 {
	d0 := i % s.D0Len
	d1 := (i / s.D0Len) % s.D1Len
	d2 := uint32(uint64(i) / (uint64(s.D0Len) * uint64(s.D1Len)))

	return d0*s.D0Stride + d1*s.D1Stride + d2*s.D2Stride
}

func (s Shape) offsets(totLen uint32) []uint32 {
	if s.D0Len == 0 || s.D1Len == 0 {
		return nil
	}

	offsets := make([]uint32, totLen)
	for i := range offsets {
		offsets[i] = s.Offset(uint32(i))
	}

	return offsets
}

func (s Shape) validate(side string, totLen uint32) error {
	if s.D0Len == 0 || s.D1Len == 0 {
		return fmt.Errorf("%s d0_len=%d d1_len=%d: %w",
			side, s.D0Len, s.D1Len, ErrZeroLoopLength)
	}

	inner := uint64(s.D0Len) * uint64(s.D1Len)
	if uint64(totLen)%inner != 0 {
		return fmt.Errorf("%s tot_len=%d d0_len=%d d1_len=%d: %w",
			side, totLen, s.D0Len, s.D1Len, ErrShapeMismatch)
	}

	return nil
}

// A Descriptor is the full content of one descriptor bank.
type Descriptor struct {
	SrcAddr uint32
	DstAddr uint32
	TotLen  uint32
	Src     Shape
	Dst     Shape
}

// Validate checks that the descriptor describes a well-formed transfer of
// elements elementBytes wide. Both sides must enumerate exactly TotLen units.
// An elementBytes of zero skips the alignment check.
func (d Descriptor) Validate(elementBytes uint32) error {
	if d.TotLen == 0 {
		return ErrZeroLength
	}

	if err := d.Src.validate("src", d.TotLen); err != nil {
		return err
	}

	if err := d.Dst.validate("dst", d.TotLen); err != nil {
		return err
	}

	if elementBytes == 0 {
		return nil
	}

	if d.SrcAddr%elementBytes != 0 || d.DstAddr%elementBytes != 0 {
		return fmt.Errorf("src 0x%x dst 0x%x width %d: %w",
			d.SrcAddr, d.DstAddr, elementBytes, ErrMisaligned)
	}

	return nil
}

// SrcOffsets lists the source byte offsets of all units in transfer order.
func (d Descriptor) SrcOffsets() []uint32 {
	return d.Src.offsets(d.TotLen)
}

// DstOffsets lists the destination byte offsets of all units in transfer
// order.
func (d Descriptor) DstOffsets() []uint32 {
	return d.Dst.offsets(d.TotLen)
}

// Fields returns the register values of the descriptor in register order.
func (d Descriptor) Fields() [NumFields]uint32 {
	return [NumFields]uint32{
		SrcAddr:     d.SrcAddr,
		DstAddr:     d.DstAddr,
		TotLen:      d.TotLen,
		SrcD0Len:    d.Src.D0Len,
		SrcD0Stride: d.Src.D0Stride,
		SrcD1Len:    d.Src.D1Len,
		SrcD1Stride: d.Src.D1Stride,
		SrcD2Stride: d.Src.D2Stride,
		DstD0Len:    d.Dst.D0Len,
		DstD0Stride: d.Dst.D0Stride,
		DstD1Len:    d.Dst.D1Len,
		DstD1Stride: d.Dst.D1Stride,
		DstD2Stride: d.Dst.D2Stride,
	}
}

// DescriptorFromFields is the inverse of Descriptor.Fields.
func DescriptorFromFields(f [NumFields]uint32) Descriptor {
	return Descriptor{
		SrcAddr: f[SrcAddr],
		DstAddr: f[DstAddr],
		TotLen:  f[TotLen],
		Src: Shape{
			D0Len:    f[SrcD0Len],
			D0Stride: f[SrcD0Stride],
			D1Len:    f[SrcD1Len],
			D1Stride: f[SrcD1Stride],
			D2Stride: f[SrcD2Stride],
		},
		Dst: Shape{
			D0Len:    f[DstD0Len],
			D0Stride: f[DstD0Stride],
			D1Len:    f[DstD1Len],
			D1Stride: f[DstD1Stride],
			D2Stride: f[DstD2Stride],
		},
	}
}

// WriteField writes a single descriptor register of bank.
func WriteField(w mmio.Window, bank Bank, field Field, value uint32) {
	w.Store(FieldOffset(bank, field), value)
}

// WriteDescriptor writes all fields of d into bank, in register order. It does
// not validate d. The writes are complete when WriteDescriptor returns.
func WriteDescriptor(w mmio.Window, bank Bank, d Descriptor) {
	for f, v := range d.Fields() {
		WriteField(w, bank, Field(f), v)
	}
}

// ReadDescriptor reads back the content of bank.
func ReadDescriptor(w mmio.Window, bank Bank) Descriptor {
	var f [NumFields]uint32
	for i := range f {
		f[i] = w.Load(FieldOffset(bank, Field(i)))
	}

	return DescriptorFromFields(f)
}
