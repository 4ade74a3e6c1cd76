package testbench_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/datamover/datamover"
	"github.com/sarchlab/datamover/memory"
	"github.com/sarchlab/datamover/platform"
	"github.com/sarchlab/datamover/testbench"
)

var _ = Describe("Program", func() {
	var (
		p    *platform.Platform
		opts testbench.Options
	)

	BeforeEach(func() {
		p = platform.MakeBuilder().WithUnitsPerCycle(4).Build("Cluster")
		opts = testbench.DefaultOptions()
	})

	AfterEach(func() {
		Expect(p.Close()).To(Succeed())
	})

	It("should cover a contiguous buffer with the reference shape", func() {
		s := testbench.TestShape(32, 64)

		Expect(s).To(Equal(datamover.Shape{
			D0Len: 4, D0Stride: 32,
			D1Len: 8, D1Stride: 256,
			D2Stride: 128,
		}))
	})

	It("should copy three buffers without errors", func() {
		report, err := testbench.Run(p, opts)

		Expect(err).NotTo(HaveOccurred())
		Expect(report.Errors).To(BeZero())
		Expect(report.Jobs).To(HaveLen(3))
		for i, j := range report.Jobs {
			Expect(j.Bank).To(Equal(datamover.Bank(i)))
			Expect(j.Words).To(Equal(512))
			Expect(j.DstCRC).To(Equal(j.SrcCRC))
		}
		Expect(report.SimTime).To(BeNumerically(">", 0))

		result, err := p.Result()
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(BeZero())
	})

	It("should keep the jobs apart", func() {
		report, err := testbench.Run(p, opts)
		Expect(err).NotTo(HaveOccurred())

		first, err := memory.ReadWords(p.Memory, report.Jobs[0].Dst, 512)
		Expect(err).NotTo(HaveOccurred())
		second, err := memory.ReadWords(p.Memory, report.Jobs[1].Dst, 512)
		Expect(err).NotTo(HaveOccurred())

		Expect(testbench.CompareWords(first, second)).To(BeNumerically(">", 500))
	})

	It("should release the slots when done", func() {
		_, err := testbench.Run(p, opts)
		Expect(err).NotTo(HaveOccurred())

		Expect(p.Controller.ReadStatus().Idle()).To(BeTrue())
	})

	It("should count a corrupted destination word", func() {
		opts.CorruptWord = 17

		report, err := testbench.Run(p, opts)

		Expect(err).NotTo(HaveOccurred())
		Expect(report.Errors).To(Equal(1))
		Expect(report.Jobs[0].Errors).To(Equal(1))

		result, err := p.Result()
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(1))
	})

	It("should run a single longer job with narrow units", func() {
		p.Close()
		p = platform.MakeBuilder().WithElementBytes(8).Build("Cluster")
		opts.Jobs = 1
		opts.TotLen = 96

		report, err := testbench.Run(p, opts)

		Expect(err).NotTo(HaveOccurred())
		Expect(report.Errors).To(BeZero())
		Expect(report.Jobs[0].Words).To(Equal(96 * 2))
	})

	It("should reject bad options", func() {
		opts.Jobs = 4
		_, err := testbench.Run(p, opts)
		Expect(err).To(MatchError(testbench.ErrBadOptions))

		opts = testbench.DefaultOptions()
		opts.TotLen = 48
		_, err = testbench.Run(p, opts)
		Expect(err).To(MatchError(testbench.ErrBadOptions))

		opts = testbench.DefaultOptions()
		opts.CorruptWord = 512
		_, err = testbench.Run(p, opts)
		Expect(err).To(MatchError(testbench.ErrBadOptions))
	})

	It("should give up when every slot is held", func() {
		for i := 0; i < datamover.NumBanks; i++ {
			_, err := p.Controller.AcquireJob()
			Expect(err).NotTo(HaveOccurred())
		}
		opts.MaxAcquirePolls = 5

		_, err := testbench.Run(p, opts)

		Expect(err).To(MatchError(testbench.ErrAcquireStuck))
	})
})
