package monitoring

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/datamover/datamover"
	"github.com/sarchlab/datamover/device"
	"github.com/sarchlab/datamover/memory"
	"github.com/sarchlab/datamover/sim"
)

type countingIRQ struct {
	raised int
}

func (i *countingIRQ) Raise(_ int) {
	i.raised++
}

var _ = Describe("Monitor", func() {
	var (
		engine *sim.SerialEngine
		dev    *device.Comp
		m      *Monitor
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		dev = device.MakeBuilder().
			WithEngine(engine).
			WithMemory(memory.NewStorage(1 * memory.MB)).
			WithInterruptLine(&countingIRQ{}).
			Build("DM")

		m = NewMonitor()
		m.RegisterEngine(engine)
		m.RegisterComponent(dev)
		m.RegisterWindow("DM", dev)
	})

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		m.Handler().ServeHTTP(rec, req)
		return rec
	}

	decode := func(rec *httptest.ResponseRecorder, v any) {
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(json.Unmarshal(rec.Body.Bytes(), v)).To(Succeed())
	}

	It("should report the current time", func() {
		var rsp struct{ Now float64 }

		decode(get("/api/now"), &rsp)

		Expect(rsp.Now).To(BeZero())
	})

	It("should list components", func() {
		var names []string

		decode(get("/api/list_components"), &names)

		Expect(names).To(Equal([]string{"DM"}))
	})

	It("should serialize a component", func() {
		Expect(get("/api/component/DM").Code).To(Equal(http.StatusOK))
		Expect(get("/api/component/GPU").Code).To(Equal(http.StatusNotFound))
	})

	It("should list the slots", func() {
		dev.Load(datamover.RegAcquire)
		var slots []device.SlotInfo

		decode(get("/api/slots"), &slots)

		Expect(slots).To(HaveLen(3))
		Expect(slots[0].State).To(Equal("acquired"))
		Expect(slots[2].State).To(Equal("idle"))
	})

	It("should dump registers without acquiring a slot", func() {
		d := datamover.MakeDescriptorBuilder().
			WithSrcAddress(0x40).
			WithTotalLength(64).
			Build()
		datamover.WriteDescriptor(dev, 1, d)
		var regs []registerRsp

		decode(get("/api/registers/DM"), &regs)

		Expect(regs).To(HaveLen(int(3 + datamover.NumBanks*datamover.NumFields)))
		Expect(regs).To(ContainElement(registerRsp{
			Offset: datamover.FieldOffset(1, datamover.TotLen),
			Name:   "bank1.tot_len",
			Value:  64,
		}))
		Expect(regs).To(ContainElement(registerRsp{
			Offset: datamover.RegRunningJob,
			Name:   "running_job",
			Value:  0xffff_ffff,
		}))
		Expect(dev.Load(datamover.RegAcquire)).To(Equal(uint32(0)))
	})

	It("should 404 on unknown register windows", func() {
		Expect(get("/api/registers/nope").Code).To(Equal(http.StatusNotFound))
	})

	It("should track job progress", func() {
		bar := m.TrackJobs(dev, "jobs", 1)
		bank := datamover.Bank(dev.Load(datamover.RegAcquire))
		datamover.WriteDescriptor(dev, bank, datamover.MakeDescriptorBuilder().
			WithSrcAddress(0x1000).
			WithDstAddress(0x2000).
			WithTotalLength(8).
			WithShape(datamover.Shape{D0Len: 8, D0Stride: 32, D1Len: 1}).
			Build())
		dev.Store(datamover.RegTrigger, 0)

		Expect(engine.Run()).To(Succeed())

		var bars []progressRsp
		decode(get("/api/progress"), &bars)
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Finished).To(Equal(uint64(1)))
		Expect(bars[0].InProgress).To(BeZero())

		m.CompleteProgressBar(bar)
		decode(get("/api/progress"), &bars)
		Expect(bars).To(BeEmpty())
	})

	It("should pause and continue the engine", func() {
		Expect(get("/api/pause").Code).To(Equal(http.StatusOK))
		Expect(get("/api/continue").Code).To(Equal(http.StatusOK))
	})

	It("should report resource usage", func() {
		var rsp resourceRsp

		decode(get("/api/resource"), &rsp)

		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should collect a short profile", func() {
		Expect(get("/api/profile?seconds=0.05").Code).To(Equal(http.StatusOK))
		Expect(get("/api/profile?seconds=x").Code).
			To(Equal(http.StatusBadRequest))
	})

	It("should serve the page", func() {
		rec := get("/")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(HavePrefix("<!DOCTYPE html>"))
	})

	It("should serve over TCP", func() {
		m.WithPortNumber(80)
		m.StartServer()
		defer m.StopServer()

		rsp, err := http.Get(fmt.Sprintf("http://localhost:%d/api/now", m.Port()))
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		body, err := io.ReadAll(rsp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(HavePrefix(`{"now":`))
	})
})
