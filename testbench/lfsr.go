package testbench

import (
	"fmt"

	"github.com/sarchlab/datamover/memory"
)

// DefaultSeed is the seed of the first source buffer.
const DefaultSeed = 0x1e4f_a9c3

// lfsrTaps is the Galois feedback mask of x^32 + x^22 + x^2 + x + 1.
const lfsrTaps = 0x8020_0003

// An LFSR is a 32-bit Galois linear feedback shift register. The same seed
// always produces the same sequence.
type LFSR struct {
	state uint32
}

// NewLFSR creates an LFSR. A zero seed would lock the register, so it is
// replaced with DefaultSeed.
func NewLFSR(seed uint32) *LFSR {
	if seed == 0 {
		seed = DefaultSeed
	}

	return &LFSR{state: seed}
}

// Next advances the register by one step and returns the new state.
func (l *LFSR) Next() uint32 {
	lsb := l.state & 1
	l.state >>= 1

	if lsb != 0 {
		l.state ^= lfsrTaps
	}

	return l.state
}

// GenerateRandomBuffer fills the words from start to end, both inclusive,
// with a pseudo-random sequence determined by seed.
func GenerateRandomBuffer(
	mem memory.Accessor,
	start, end uint64,
	seed uint32,
) error {
	if end < start || (end-start)%4 != 0 {
		return fmt.Errorf("invalid word range [0x%x, 0x%x]", start, end)
	}

	l := NewLFSR(seed)
	words := make([]uint32, (end-start)/4+1)
	for i := range words {
		words[i] = l.Next()
	}

	return memory.WriteWords(mem, start, words)
}
