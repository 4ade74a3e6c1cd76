package platform

import (
	"database/sql"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/datamover/datamover"
	"github.com/sarchlab/datamover/memory"
	"github.com/sarchlab/datamover/tracing"
)

var _ = Describe("Platform", func() {
	var p *Platform

	BeforeEach(func() {
		p = MakeBuilder().WithUnitsPerCycle(2).Build("Cluster")
	})

	AfterEach(func() {
		Expect(p.Close()).To(Succeed())
	})

	shape := datamover.Shape{
		D0Len: 4, D0Stride: 32,
		D1Len: 2, D1Stride: 128,
		D2Stride: 256,
	}

	submit := func(src, dst uint64) datamover.JobHandle {
		h, err := p.Controller.AcquireJob()
		Expect(err).NotTo(HaveOccurred())

		d := datamover.MakeDescriptorBuilder().
			WithSrcAddress(uint32(src)).
			WithDstAddress(uint32(dst)).
			WithTotalLength(16).
			WithShape(shape).
			Build()
		Expect(p.Controller.Configure(h, d)).To(Succeed())

		return h
	}

	alloc := func() uint64 {
		addr, err := p.TCDM.Alloc(512, 32)
		Expect(err).NotTo(HaveOccurred())
		return addr
	}

	It("should place buffers in the TCDM", func() {
		addr := alloc()

		Expect(addr).To(Equal(uint64(TCDMBase)))
		Expect(p.TCDM.Remaining()).To(Equal(TCDMSize - 512))
	})

	It("should run a job until the accelerator raises its event", func() {
		src, dst := alloc(), alloc()
		words := make([]uint32, 128)
		for i := range words {
			words[i] = uint32(i) * 3
		}
		Expect(memory.WriteWords(p.Memory, src, words)).To(Succeed())
		h := submit(src, dst)

		p.Controller.Trigger()
		Expect(p.WaitForInterrupt()).To(Succeed())

		copied, err := memory.ReadWords(p.Memory, dst, 128)
		Expect(err).NotTo(HaveOccurred())
		Expect(copied).To(Equal(words))
		Expect(p.Controller.ReadFinished().Has(h.Bank())).To(BeTrue())
		Expect(p.Engine.CurrentTime()).To(BeNumerically(">", 0))
		Expect(p.JobTime.Count()).To(Equal(1))
	})

	It("should release the slots on soft clear", func() {
		submit(alloc(), alloc())
		p.Controller.Trigger()
		Expect(p.WaitForInterrupt()).To(Succeed())

		p.Controller.SoftClear()

		Expect(p.Controller.ReadStatus().Idle()).To(BeTrue())
		h, err := p.Controller.AcquireJob()
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Bank()).To(Equal(datamover.Bank(0)))
	})

	It("should fail to wait when nothing was triggered", func() {
		Expect(p.WaitForInterrupt()).To(MatchError(ErrNoEvent))
	})

	It("should not wake on a masked event", func() {
		p.EventUnit.SetMask(1 << datamover.EvtAcc1)
		submit(alloc(), alloc())
		p.Controller.Trigger()

		Expect(p.WaitForInterrupt()).To(MatchError(ErrNoEvent))
	})

	It("should keep the result in the sink", func() {
		Expect(p.ReportResult(7)).To(Succeed())

		n, err := p.Result()
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(7))

		w, err := memory.LoadWord(p.Memory, ResultAddr)
		Expect(err).NotTo(HaveOccurred())
		Expect(w).To(Equal(uint32(7)))
	})
})

var _ = Describe("Platform with tracing", func() {
	It("should write jobs, handshakes and register accesses", func() {
		path := filepath.Join(GinkgoT().TempDir(), "trace")
		p := MakeBuilder().WithTracing(path).Build("Cluster")

		h, err := p.Controller.AcquireJob()
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Controller.Configure(h, datamover.MakeDescriptorBuilder().
			WithSrcAddress(TCDMBase).
			WithDstAddress(TCDMBase+0x400).
			WithTotalLength(4).
			WithShape(datamover.Shape{D0Len: 4, D0Stride: 32, D1Len: 1}).
			Build())).To(Succeed())
		p.Controller.Trigger()
		Expect(p.WaitForInterrupt()).To(Succeed())
		Expect(p.Close()).To(Succeed())

		db, err := sql.Open("sqlite3", path+".sqlite3")
		Expect(err).NotTo(HaveOccurred())
		defer db.Close()

		count := func(kind string) int {
			var n int
			err := db.QueryRow(
				"SELECT COUNT(*) FROM "+tracing.TraceTable+" WHERE Kind = ?",
				kind).Scan(&n)
			Expect(err).NotTo(HaveOccurred())
			return n
		}

		Expect(count(tracing.KindJob)).To(Equal(1))
		Expect(count(tracing.KindHandshake)).To(Equal(3))
		Expect(count(tracing.KindRegLoad)).To(Equal(1))
		Expect(count(tracing.KindRegStore)).
			To(Equal(int(datamover.NumFields) + 1))
	})
})
