package memory

import "encoding/binary"

// The cluster is little endian.
var byteOrder = binary.LittleEndian

// ReadWords reads n consecutive 32-bit words starting at address.
func ReadWords(m Accessor, address uint64, n int) ([]uint32, error) {
	raw, err := m.Read(address, uint64(n)*4)
	if err != nil {
		return nil, err
	}

	words := make([]uint32, n)
	for i := range words {
		words[i] = byteOrder.Uint32(raw[i*4:])
	}

	return words, nil
}

// WriteWords writes words consecutively starting at address.
func WriteWords(m Accessor, address uint64, words []uint32) error {
	raw := make([]byte, len(words)*4)
	for i, w := range words {
		byteOrder.PutUint32(raw[i*4:], w)
	}

	return m.Write(address, raw)
}

// LoadWord reads one 32-bit word.
func LoadWord(m Accessor, address uint64) (uint32, error) {
	w, err := ReadWords(m, address, 1)
	if err != nil {
		return 0, err
	}

	return w[0], nil
}

// StoreWord writes one 32-bit word.
func StoreWord(m Accessor, address uint64, value uint32) error {
	return WriteWords(m, address, []uint32{value})
}
