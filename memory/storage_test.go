package memory_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/datamover/memory"
)

var _ = Describe("Storage", func() {
	It("should read and write in single unit", func() {
		storage := memory.NewStorage(4096)
		Expect(storage.Write(0, []byte{1, 2, 3, 4})).To(Succeed())

		res, err := storage.Read(0, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal([]byte{1, 2}))

		res, _ = storage.Read(1, 2)
		Expect(res).To(Equal([]byte{2, 3}))
	})

	It("should read and write across units", func() {
		storage := memory.NewStorage(8192)
		Expect(storage.Write(4094, []byte{1, 2, 3, 4})).To(Succeed())

		res, _ := storage.Read(4094, 4)
		Expect(res).To(Equal([]byte{1, 2, 3, 4}))
	})

	It("should read zeros from untouched memory", func() {
		storage := memory.NewStorage(4 * memory.GB)

		res, err := storage.Read(0x8000_0000, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal([]byte{0, 0, 0, 0}))
	})

	It("should return error if accessing over the capacity", func() {
		storage := memory.NewStorage(4096)

		Expect(storage.Write(4095, []byte{1, 2})).
			To(MatchError(memory.ErrOutOfRange))

		_, err := storage.Read(4097, 1)
		Expect(err).To(MatchError(memory.ErrOutOfRange))
	})

	It("should access little endian words", func() {
		storage := memory.NewStorage(4096)

		Expect(memory.WriteWords(storage, 8, []uint32{0x04030201, 7})).
			To(Succeed())
		raw, _ := storage.Read(8, 4)
		Expect(raw).To(Equal([]byte{1, 2, 3, 4}))

		w, err := memory.LoadWord(storage, 12)
		Expect(err).NotTo(HaveOccurred())
		Expect(w).To(Equal(uint32(7)))

		Expect(memory.StoreWord(storage, 12, 9)).To(Succeed())
		words, _ := memory.ReadWords(storage, 8, 2)
		Expect(words).To(Equal([]uint32{0x04030201, 9}))
	})
})

var _ = Describe("Allocator", func() {
	It("should align and not overlap", func() {
		a := memory.NewAllocator(0x10, 0x1000)

		first, err := a.Alloc(40, 32)
		Expect(err).NotTo(HaveOccurred())
		Expect(first).To(Equal(uint64(0x20)))

		second, err := a.Alloc(8, 32)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(uint64(0x60)))
		Expect(a.Remaining()).To(Equal(uint64(0x1010 - 0x68)))
	})

	It("should fail when the region is exhausted", func() {
		a := memory.NewAllocator(0, 64)

		_, err := a.Alloc(128, 4)
		Expect(err).To(MatchError(memory.ErrOutOfRange))
	})

	It("should reject alignments that are not powers of two", func() {
		a := memory.NewAllocator(0, 64)

		_, err := a.Alloc(4, 3)
		Expect(err).To(HaveOccurred())
	})
})
