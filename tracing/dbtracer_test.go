package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/datamover/sim"
	"go.uber.org/mock/gomock"
)

type testTimeTeller struct {
	currentTime sim.VTimeInSec
}

func (t *testTimeTeller) CurrentTime() sim.VTimeInSec {
	return t.currentTime
}

var _ = Describe("DBTracer", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *testTimeTeller
		backend    *MockDataRecorder
		tracer     *DBTracer
		task       Task
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = &testTimeTeller{}
		backend = NewMockDataRecorder(mockCtrl)
		backend.EXPECT().CreateTable(TraceTable, taskTableEntry{})
		tracer = NewDBTracer(timeTeller, backend)
		task = Task{
			ID:       "1",
			Kind:     KindJob,
			What:     "bank0",
			Location: "DM",
		}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should write a task when it ends", func() {
		timeTeller.currentTime = 1
		tracer.StartTask(task)

		backend.EXPECT().InsertData(TraceTable, taskTableEntry{
			ID:        "1",
			Kind:      KindJob,
			What:      "bank0",
			Location:  "DM",
			StartTime: 1,
			EndTime:   3,
		})

		timeTeller.currentTime = 3
		tracer.EndTask(Task{ID: "1"})

		Expect(tracer.NumWritten()).To(Equal(1))
	})

	It("should ignore tasks it never saw start", func() {
		tracer.EndTask(Task{ID: "42"})

		Expect(tracer.NumWritten()).To(BeZero())
	})

	It("should skip tasks outside the time range", func() {
		tracer.SetTimeRange(5, 10)

		timeTeller.currentTime = 1
		tracer.StartTask(task)
		timeTeller.currentTime = 2
		tracer.EndTask(task)

		timeTeller.currentTime = 11
		task.ID = "2"
		tracer.StartTask(task)

		Expect(tracer.NumWritten()).To(BeZero())
		Expect(tracer.tracingTasks).To(BeEmpty())
	})

	It("should refuse incomplete tasks", func() {
		task.Location = ""

		Expect(func() { tracer.StartTask(task) }).To(Panic())
	})

	It("should drop unfinished tasks on terminate", func() {
		tracer.StartTask(task)
		backend.EXPECT().Flush()

		tracer.Terminate()

		Expect(tracer.tracingTasks).To(BeEmpty())
	})
})

var _ = Describe("TotalTimeTracer", func() {
	It("should add up the time of matching tasks", func() {
		timeTeller := &testTimeTeller{}
		tracer := NewTotalTimeTracer(timeTeller, KindFilter(KindJob))

		tracer.StartTask(Task{ID: "a", Kind: KindJob})
		tracer.StartTask(Task{ID: "b", Kind: KindRegLoad})
		timeTeller.currentTime = 2
		tracer.StartTask(Task{ID: "c", Kind: KindJob})
		timeTeller.currentTime = 5
		tracer.EndTask(Task{ID: "a"})
		tracer.EndTask(Task{ID: "b"})
		tracer.EndTask(Task{ID: "c"})

		Expect(tracer.TotalTime()).To(Equal(sim.VTimeInSec(8)))
		Expect(tracer.Count()).To(Equal(2))
	})
})
