// Package bits packs and unpacks narrow fields inside 32-bit register words.
package bits

import "log"

// WordWidth is the width of a register word in bits.
const WordWidth = 32

// Mask returns a word with the width low bits set.
func Mask(width uint) uint32 {
	mustFitWord(width, 0)

	if width == WordWidth {
		return ^uint32(0)
	}

	return (uint32(1) << width) - 1
}

// Insert replaces the width-bit field at offset in word with the low width
// bits of value. Bits of value above width are discarded. A zero width leaves
// word unchanged.
func Insert(word, value uint32, width, offset uint) uint32 {
	mustFitWord(width, offset)

	if width == 0 {
		return word
	}

	mask := Mask(width) << offset
	return (word &^ mask) | ((value << offset) & mask)
}

// Extract returns the width-bit field at offset in word. A zero width yields
// zero.
func Extract(word uint32, width, offset uint) uint32 {
	mustFitWord(width, offset)

	if width == 0 {
		return 0
	}

	return (word >> offset) & Mask(width)
}

func mustFitWord(width, offset uint) {
	if offset+width > WordWidth || offset > WordWidth {
		log.Panicf("field of width %d at offset %d does not fit in %d bits",
			width, offset, WordWidth)
	}
}
