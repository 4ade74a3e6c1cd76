package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/datamover/datamover"
	"github.com/sarchlab/datamover/device"
	"github.com/sarchlab/datamover/mmio"
	"github.com/sarchlab/datamover/sim"
)

type taskLog struct {
	started []Task
	ended   []Task
}

func (l *taskLog) StartTask(task Task) {
	l.started = append(l.started, task)
}

func (l *taskLog) EndTask(task Task) {
	l.ended = append(l.ended, task)
}

var _ = Describe("Trace hooks", func() {
	var (
		tasks *taskLog
		hook  *traceHook
	)

	BeforeEach(func() {
		tasks = &taskLog{}
		hook = &traceHook{t: tasks, location: "DM"}
	})

	It("should follow a job through the accelerator", func() {
		evt := device.JobEvent{ID: "job1", Bank: 2}

		hook.Func(sim.HookCtx{Pos: device.HookPosJobStart, Item: evt})
		hook.Func(sim.HookCtx{Pos: device.HookPosJobEnd, Item: evt})

		Expect(tasks.started).To(HaveLen(1))
		Expect(tasks.started[0].ID).To(Equal("job1"))
		Expect(tasks.started[0].Kind).To(Equal(KindJob))
		Expect(tasks.started[0].What).To(Equal("bank2"))
		Expect(tasks.started[0].Location).To(Equal("DM"))
		Expect(tasks.ended[0].ID).To(Equal("job1"))
	})

	It("should end an aborted job", func() {
		evt := device.JobEvent{ID: "job1"}

		hook.Func(sim.HookCtx{Pos: device.HookPosJobAbort, Item: evt})

		Expect(tasks.ended).To(HaveLen(1))
	})

	It("should name register accesses", func() {
		regs := mmio.NewHookedWindow(mmio.NewRegisterFile(datamover.AddrSpace))
		CollectTrace(regs, "DM.Regs", tasks)

		regs.Load(datamover.RegAcquire)
		regs.Store(datamover.FieldOffset(1, datamover.TotLen), 64)

		Expect(tasks.started).To(HaveLen(2))
		Expect(tasks.started[0].Kind).To(Equal(KindRegLoad))
		Expect(tasks.started[0].What).To(Equal("acquire"))
		Expect(tasks.started[1].Kind).To(Equal(KindRegStore))
		Expect(tasks.started[1].What).To(Equal("bank1.tot_len"))
		Expect(tasks.ended[1].ID).To(Equal(tasks.started[1].ID))
	})

	It("should report the handshake", func() {
		hook.Func(sim.HookCtx{
			Pos:  datamover.HookPosAcquire,
			Item: datamover.Bank(1),
		})
		hook.Func(sim.HookCtx{Pos: datamover.HookPosTrigger})

		Expect(tasks.started).To(HaveLen(2))
		Expect(tasks.started[0].Kind).To(Equal(KindHandshake))
		Expect(tasks.started[0].What).To(Equal("Acquire bank1"))
		Expect(tasks.started[1].What).To(Equal("Trigger"))
	})

	It("should ignore other hook positions", func() {
		hook.Func(sim.HookCtx{Pos: sim.HookPosBeforeEvent})

		Expect(tasks.started).To(BeEmpty())
	})
})
