package device

import (
	"log"

	"github.com/sarchlab/datamover/datamover"
	"github.com/sarchlab/datamover/memory"
	"github.com/sarchlab/datamover/sim"
)

// Builder can build datamover accelerators.
type Builder struct {
	engine        sim.Engine
	freq          sim.Freq
	mem           memory.Accessor
	irq           InterruptLine
	elementBytes  uint32
	unitsPerCycle int
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:          1 * sim.GHz,
		elementBytes:  datamover.DefaultDataWidth / 8,
		unitsPerCycle: 1,
	}
}

// WithEngine sets the engine that drives the accelerator.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the clock frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithMemory sets the memory the accelerator moves data in.
func (b Builder) WithMemory(mem memory.Accessor) Builder {
	b.mem = mem
	return b
}

// WithInterruptLine sets where completion events go.
func (b Builder) WithInterruptLine(irq InterruptLine) Builder {
	b.irq = irq
	return b
}

// WithElementBytes sets the width of one transfer unit.
func (b Builder) WithElementBytes(n uint32) Builder {
	b.elementBytes = n
	return b
}

// WithUnitsPerCycle sets how many units are moved every cycle.
func (b Builder) WithUnitsPerCycle(n int) Builder {
	b.unitsPerCycle = n
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.engine == nil {
		log.Panic("engine is not set")
	}

	if b.mem == nil {
		log.Panic("memory is not set")
	}

	if b.irq == nil {
		log.Panic("interrupt line is not set")
	}

	if b.elementBytes == 0 || b.unitsPerCycle <= 0 {
		log.Panicf("invalid element width %d or throughput %d",
			b.elementBytes, b.unitsPerCycle)
	}
}

// Build creates the accelerator.
func (b Builder) Build(name string) *Comp {
	b.parametersMustBeValid()

	c := &Comp{
		mem:           b.mem,
		irq:           b.irq,
		elementBytes:  b.elementBytes,
		unitsPerCycle: b.unitsPerCycle,
		slots:         newSlots(),
		running:       -1,
	}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	return c
}
