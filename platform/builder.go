package platform

import (
	"log"

	"github.com/sarchlab/datamover/datamover"
	"github.com/sarchlab/datamover/datarecording"
	"github.com/sarchlab/datamover/device"
	"github.com/sarchlab/datamover/memory"
	"github.com/sarchlab/datamover/mmio"
	"github.com/sarchlab/datamover/monitoring"
	"github.com/sarchlab/datamover/sim"
	"github.com/sarchlab/datamover/tracing"
)

// Builder can build platforms.
type Builder struct {
	freq          sim.Freq
	elementBytes  uint32
	unitsPerCycle int

	traceOn   bool
	tracePath string

	monitorOn   bool
	monitorPort int
	openBrowser bool
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:          1 * sim.GHz,
		elementBytes:  datamover.DefaultDataWidth / 8,
		unitsPerCycle: 1,
	}
}

// WithFreq sets the accelerator clock.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithElementBytes sets the width of one transfer unit.
func (b Builder) WithElementBytes(n uint32) Builder {
	b.elementBytes = n
	return b
}

// WithUnitsPerCycle sets the copy throughput of the accelerator.
func (b Builder) WithUnitsPerCycle(n int) Builder {
	b.unitsPerCycle = n
	return b
}

// WithTracing records jobs, handshakes and register accesses to
// path.sqlite3. An empty path picks a unique name.
func (b Builder) WithTracing(path string) Builder {
	b.traceOn = true
	b.tracePath = path
	return b
}

// WithMonitor serves the simulation state over HTTP. Port 0 picks a free
// port.
func (b Builder) WithMonitor(port int) Builder {
	b.monitorOn = true
	b.monitorPort = port
	return b
}

// WithBrowser opens the monitor page once the server is up.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.openBrowser && !b.monitorOn {
		log.Panic("browser cannot be opened when monitoring is disabled")
	}
}

// Build creates the platform.
func (b Builder) Build(name string) *Platform {
	b.parametersMustBeValid()

	p := &Platform{
		Engine:    sim.NewSerialEngine(),
		Memory:    memory.NewStorage(4 * memory.GB),
		TCDM:      memory.NewAllocator(TCDMBase, TCDMSize),
		EventUnit: NewEventUnit(),

		ElementBytes: b.elementBytes,
	}

	p.Device = device.MakeBuilder().
		WithEngine(p.Engine).
		WithFreq(b.freq).
		WithMemory(p.Memory).
		WithInterruptLine(p.EventUnit).
		WithElementBytes(b.elementBytes).
		WithUnitsPerCycle(b.unitsPerCycle).
		Build(name + ".Datamover")

	p.Regs = mmio.NewHookedWindow(p.Device)
	p.Controller = datamover.NewController(p.Regs, b.elementBytes)

	p.JobTime = tracing.NewTotalTimeTracer(p.Engine,
		tracing.KindFilter(tracing.KindJob))
	tracing.CollectTrace(p.Device, p.Device.Name(), p.JobTime)

	if b.traceOn {
		b.buildTracer(p)
	}

	if b.monitorOn {
		b.buildMonitor(p)
	}

	return p
}

func (b Builder) buildTracer(p *Platform) {
	p.Recorder = datarecording.New(b.tracePath)
	p.Tracer = tracing.NewDBTracer(p.Engine, p.Recorder)

	tracing.CollectTrace(p.Device, p.Device.Name(), p.Tracer)
	tracing.CollectTrace(p.Regs, p.Device.Name()+".Regs", p.Tracer)
	tracing.CollectTrace(p.Controller, p.Device.Name()+".Ctrl", p.Tracer)
}

func (b Builder) buildMonitor(p *Platform) {
	p.Monitor = monitoring.NewMonitor()
	if b.monitorPort > 0 {
		p.Monitor.WithPortNumber(b.monitorPort)
	}

	if b.openBrowser {
		p.Monitor.WithBrowser()
	}

	p.Monitor.RegisterEngine(p.Engine)
	p.Monitor.RegisterComponent(p.Device)
	p.Monitor.RegisterWindow(p.Device.Name(), p.Device)
	p.Monitor.StartServer()
}
