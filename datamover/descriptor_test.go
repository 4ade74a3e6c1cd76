package datamover

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/datamover/mmio"
)

const elementBytes = DefaultDataWidth / 8

func testShape() Shape {
	return Shape{
		D0Len:    4,
		D0Stride: elementBytes,
		D1Len:    8,
		D1Stride: elementBytes * 8,
		D2Stride: elementBytes * 4,
	}
}

var _ = Describe("Descriptor", func() {
	var d Descriptor

	BeforeEach(func() {
		d = MakeDescriptorBuilder().
			WithSrcAddress(0x1000).
			WithDstAddress(0x4000).
			WithTotalLength(64).
			WithShape(testShape()).
			Build()
	})

	It("should accept a well-formed transfer", func() {
		Expect(d.Validate(elementBytes)).To(Succeed())
		Expect(d.Src.OuterLen(d.TotLen)).To(Equal(uint32(2)))
	})

	It("should reject an empty transfer", func() {
		d.TotLen = 0
		Expect(d.Validate(elementBytes)).To(MatchError(ErrZeroLength))
	})

	It("should reject a zero loop length", func() {
		d.Dst.D1Len = 0
		Expect(d.Validate(elementBytes)).To(MatchError(ErrZeroLoopLength))
	})

	It("should reject shapes that do not cover the total length", func() {
		d.Src.D1Len = 5
		Expect(d.Validate(elementBytes)).To(MatchError(ErrShapeMismatch))
	})

	It("should reject a destination shape that disagrees with the source", func() {
		d.Dst.D0Len = 3
		Expect(d.Validate(elementBytes)).To(MatchError(ErrShapeMismatch))
	})

	It("should reject misaligned addresses", func() {
		d.DstAddr += 4
		Expect(d.Validate(elementBytes)).To(MatchError(ErrMisaligned))
		Expect(d.Validate(0)).To(Succeed())
	})

	It("should round trip through the fields", func() {
		Expect(DescriptorFromFields(d.Fields())).To(Equal(d))
	})

	It("should round trip through a loopback register window", func() {
		regs := mmio.NewRegisterFile(AddrSpace)
		other := MakeDescriptorBuilder().
			WithSrcAddress(0x8000).
			WithDstAddress(0x9000).
			WithTotalLength(6).
			WithSrcShape(Shape{D0Len: 2, D0Stride: 4, D1Len: 3, D1Stride: 8}).
			WithDstShape(Shape{D0Len: 1, D0Stride: 4, D1Len: 6, D1Stride: 4}).
			Build()

		WriteDescriptor(regs, 0, d)
		WriteDescriptor(regs, 1, other)
		WriteDescriptor(regs, 2, d)

		Expect(ReadDescriptor(regs, 0)).To(Equal(d))
		Expect(ReadDescriptor(regs, 1)).To(Equal(other))
		Expect(ReadDescriptor(regs, 2)).To(Equal(d))
		Expect(regs.Load(RegTrigger)).To(BeZero())
	})

	It("should write fields in register order", func() {
		regs := mmio.NewRegisterFile(AddrSpace)
		WriteField(regs, 2, TotLen, 99)

		Expect(regs.Load(0x90)).To(Equal(uint32(99)))
	})

	It("should cover a contiguous buffer with the test shape", func() {
		seen := make(map[uint32]bool)
		for _, off := range d.SrcOffsets() {
			Expect(off % elementBytes).To(BeZero())
			Expect(seen).NotTo(HaveKey(off))
			seen[off] = true
		}

		Expect(seen).To(HaveLen(64))
		for off := uint32(0); off < 64*elementBytes; off += elementBytes {
			Expect(seen).To(HaveKey(off))
		}
	})

	It("should walk d0 innermost and d2 outermost", func() {
		s := testShape()

		Expect(s.Offset(0)).To(Equal(uint32(0)))
		Expect(s.Offset(1)).To(Equal(uint32(elementBytes)))
		Expect(s.Offset(4)).To(Equal(uint32(elementBytes * 8)))
		Expect(s.Offset(32)).To(Equal(uint32(elementBytes * 4)))
		Expect(s.Offset(63)).
			To(Equal(uint32(3*elementBytes + 7*elementBytes*8 + elementBytes*4)))
	})

	It("should not wrap the block size of wide loops", func() {
		s := Shape{D0Len: 0x10000, D0Stride: 4, D1Len: 0x10000, D1Stride: 8}

		Expect(s.Offset(0)).To(BeZero())
		Expect(s.Offset(0x10001)).To(Equal(uint32(4 + 8)))
	})

	It("should enumerate nothing for a zero loop length", func() {
		d.Dst.D1Len = 0

		Expect(d.DstOffsets()).To(BeEmpty())
		Expect(d.SrcOffsets()).To(HaveLen(64))
	})
})
