// Package platform assembles a simulated cluster with one datamover
// accelerator, the memory it moves data in, and the event line that signals
// completion to the control program.
package platform

import (
	"errors"
	"fmt"

	"github.com/sarchlab/datamover/datamover"
	"github.com/sarchlab/datamover/datarecording"
	"github.com/sarchlab/datamover/device"
	"github.com/sarchlab/datamover/memory"
	"github.com/sarchlab/datamover/mmio"
	"github.com/sarchlab/datamover/monitoring"
	"github.com/sarchlab/datamover/sim"
	"github.com/sarchlab/datamover/tracing"
)

// Cluster address map.
const (
	TCDMBase   = 0x1000_0000
	TCDMSize   = 128 * memory.KB
	ResultAddr = 0x8000_0000
)

// ErrNoEvent is returned when the simulation runs out of work before any
// enabled event is raised. On hardware the core would sleep forever.
var ErrNoEvent = errors.New("no event raised before the simulation drained")

// Platform is a cluster with a datamover accelerator.
type Platform struct {
	Engine     *sim.SerialEngine
	Memory     *memory.Storage
	TCDM       *memory.Allocator
	Device     *device.Comp
	Regs       *mmio.HookedWindow
	Controller *datamover.Controller
	EventUnit  *EventUnit

	ElementBytes uint32

	JobTime  *tracing.TotalTimeTracer
	Recorder datarecording.DataRecorder
	Tracer   *tracing.DBTracer
	Monitor  *monitoring.Monitor
}

// WaitForInterrupt suspends the control program until an enabled event is
// raised, then clears the pending events. The simulated hardware advances
// while the program waits.
func (p *Platform) WaitForInterrupt() error {
	err := p.Engine.Run()
	if err != nil {
		return err
	}

	if p.EventUnit.clear() == 0 {
		return fmt.Errorf("at %.10fs: %w", p.Engine.CurrentTime(), ErrNoEvent)
	}

	return nil
}

// ReportResult writes the outcome of a program to the result sink.
func (p *Platform) ReportResult(n int) error {
	return memory.StoreWord(p.Memory, ResultAddr, uint32(int32(n)))
}

// Result reads back the result sink.
func (p *Platform) Result() (int, error) {
	v, err := memory.LoadWord(p.Memory, ResultAddr)
	if err != nil {
		return 0, err
	}

	return int(int32(v)), nil
}

// TrackJobs shows the progress of total jobs on the monitor, if there is one.
func (p *Platform) TrackJobs(total uint64) {
	if p.Monitor == nil {
		return
	}

	p.Monitor.TrackJobs(p.Device, p.Device.Name()+".Jobs", total)
}

// Close stops the monitor and closes the trace database.
func (p *Platform) Close() error {
	var errs []error

	if p.Monitor != nil {
		errs = append(errs, p.Monitor.StopServer())
	}

	if p.Recorder != nil {
		errs = append(errs, p.Recorder.Close())
	}

	return errors.Join(errs...)
}
