// Package testbench holds the control program that exercises the datamover
// accelerator and the helpers it relies on.
package testbench

import (
	"errors"
	"fmt"
	"log"

	"github.com/sarchlab/datamover/datamover"
	"github.com/sarchlab/datamover/memory"
	"github.com/sarchlab/datamover/platform"
	"github.com/sarchlab/datamover/sim"
)

// Program errors.
var (
	ErrBadOptions   = errors.New("invalid testbench options")
	ErrAcquireStuck = errors.New("no job slot became free")
)

// unitsPerBlock is the d0_len*d1_len block of the test shape.
const unitsPerBlock = 4 * 8

// Options configures a testbench run.
type Options struct {
	// Seed of the first source buffer. Buffer i uses Seed+i.
	Seed uint32

	// Jobs is the number of concurrent jobs, one per slot.
	Jobs int

	// TotLen is the number of units per job. It must be a multiple of 32.
	TotLen uint32

	// CorruptWord, if not negative, flips that word of the first destination
	// buffer after the copy.
	CorruptWord int

	// MaxAcquirePolls bounds the acquire loop.
	MaxAcquirePolls int
}

// DefaultOptions returns the options of the reference test.
func DefaultOptions() Options {
	return Options{
		Seed:            DefaultSeed,
		Jobs:            datamover.NumBanks,
		TotLen:          64,
		CorruptWord:     -1,
		MaxAcquirePolls: 1000,
	}
}

func (o Options) validate() error {
	if o.Jobs < 1 || o.Jobs > datamover.NumBanks {
		return fmt.Errorf("%d jobs, want 1 to %d: %w",
			o.Jobs, datamover.NumBanks, ErrBadOptions)
	}

	if o.TotLen == 0 || o.TotLen%unitsPerBlock != 0 {
		return fmt.Errorf("tot_len %d is not a positive multiple of %d: %w",
			o.TotLen, unitsPerBlock, ErrBadOptions)
	}

	if o.MaxAcquirePolls < 1 {
		return fmt.Errorf("max acquire polls %d: %w",
			o.MaxAcquirePolls, ErrBadOptions)
	}

	return nil
}

// TestShape returns the access pattern of the reference test for units of
// elementBytes. Four consecutive units are interleaved with the d2 loop so
// that the whole pattern covers a contiguous buffer of totLen units.
func TestShape(elementBytes, totLen uint32) datamover.Shape {
	outer := totLen / unitsPerBlock

	return datamover.Shape{
		D0Len:    4,
		D0Stride: elementBytes,
		D1Len:    8,
		D1Stride: elementBytes * 4 * outer,
		D2Stride: elementBytes * 4,
	}
}

// JobReport is the outcome of one job.
type JobReport struct {
	Bank   datamover.Bank
	Src    uint64
	Dst    uint64
	Words  int
	Errors int

	// CRC-8 fingerprints of the buffers after the run. They are equal when
	// the copy succeeded.
	SrcCRC uint8
	DstCRC uint8
}

// Report is the outcome of a run.
type Report struct {
	Jobs    []JobReport
	Errors  int
	SimTime sim.VTimeInSec
}

type buffers struct {
	src, dst uint64
}

// Run fills one source buffer per job, copies each into its destination
// buffer with a single trigger, and counts the words that differ. The error
// count is also written to the platform result sink.
func Run(p *platform.Platform, opts Options) (Report, error) {
	if err := opts.validate(); err != nil {
		return Report{}, err
	}

	bufBytes := uint64(opts.TotLen) * uint64(p.ElementBytes)
	words := int(bufBytes / 4)

	bufs, err := allocateBuffers(p, opts, bufBytes)
	if err != nil {
		return Report{}, err
	}

	report := Report{}
	for i, b := range bufs {
		bank, err := submitJob(p, opts, b)
		if err != nil {
			return Report{}, fmt.Errorf("job %d: %w", i, err)
		}

		report.Jobs = append(report.Jobs, JobReport{
			Bank:  bank,
			Src:   b.src,
			Dst:   b.dst,
			Words: words,
		})
	}

	p.TrackJobs(uint64(len(bufs)))
	p.Controller.Trigger()
	log.Printf("triggered %d jobs of %d units", len(bufs), opts.TotLen)

	if err := p.WaitForInterrupt(); err != nil {
		return Report{}, err
	}

	report.SimTime = p.Engine.CurrentTime()
	log.Printf("accelerator done at %.10fs", report.SimTime)

	if opts.CorruptWord >= 0 {
		if err := corrupt(p, bufs[0].dst, opts.CorruptWord, words); err != nil {
			return Report{}, err
		}
	}

	for i := range report.Jobs {
		j := &report.Jobs[i]

		j.Errors, err = CompareBuffers(p.Memory, j.Dst, j.Src, words)
		if err != nil {
			return Report{}, err
		}

		j.SrcCRC, err = Checksum(p.Memory, j.Src, words)
		if err != nil {
			return Report{}, err
		}

		j.DstCRC, err = Checksum(p.Memory, j.Dst, words)
		if err != nil {
			return Report{}, err
		}

		report.Errors += j.Errors
	}

	p.Controller.SoftClear()

	if err := p.ReportResult(report.Errors); err != nil {
		return Report{}, err
	}

	return report, nil
}

func allocateBuffers(
	p *platform.Platform,
	opts Options,
	bufBytes uint64,
) ([]buffers, error) {
	bufs := make([]buffers, opts.Jobs)

	for i := range bufs {
		src, err := p.TCDM.Alloc(bufBytes, uint64(p.ElementBytes))
		if err != nil {
			return nil, err
		}

		dst, err := p.TCDM.Alloc(bufBytes, uint64(p.ElementBytes))
		if err != nil {
			return nil, err
		}

		err = GenerateRandomBuffer(p.Memory, src, src+bufBytes-4,
			opts.Seed+uint32(i))
		if err != nil {
			return nil, err
		}

		bufs[i] = buffers{src: src, dst: dst}
	}

	return bufs, nil
}

func acquire(p *platform.Platform, maxPolls int) (datamover.JobHandle, error) {
	for i := 0; i < maxPolls; i++ {
		h, err := p.Controller.AcquireJob()
		if errors.Is(err, datamover.ErrNoFreeSlot) {
			continue
		}

		return h, err
	}

	return datamover.JobHandle{}, fmt.Errorf("after %d polls: %w",
		maxPolls, ErrAcquireStuck)
}

func submitJob(
	p *platform.Platform,
	opts Options,
	b buffers,
) (datamover.Bank, error) {
	h, err := acquire(p, opts.MaxAcquirePolls)
	if err != nil {
		return 0, err
	}

	d := datamover.MakeDescriptorBuilder().
		WithSrcAddress(uint32(b.src)).
		WithDstAddress(uint32(b.dst)).
		WithTotalLength(opts.TotLen).
		WithShape(TestShape(p.ElementBytes, opts.TotLen)).
		Build()

	err = p.Controller.Configure(h, d)
	if err != nil {
		return 0, err
	}

	return h.Bank(), nil
}

func corrupt(p *platform.Platform, buf uint64, word, words int) error {
	if word >= words {
		return fmt.Errorf("corrupt word %d beyond %d words: %w",
			word, words, ErrBadOptions)
	}

	addr := buf + uint64(word)*4

	v, err := memory.LoadWord(p.Memory, addr)
	if err != nil {
		return err
	}

	return memory.StoreWord(p.Memory, addr, ^v)
}
