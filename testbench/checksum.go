package testbench

import (
	"github.com/sarchlab/datamover/memory"
	"github.com/sigurn/crc8"
)

var bufferCRC8 = crc8.MakeTable(crc8.Params{
	Poly:   0x07,
	Init:   0x00,
	RefIn:  false,
	RefOut: false,
	XorOut: 0x00,
	Check:  0xF4,
	Name:   "CRC-8/SMBUS",
})

// Checksum returns the CRC-8 of the bytes of count words at address.
func Checksum(mem memory.Accessor, address uint64, count int) (uint8, error) {
	data, err := mem.Read(address, uint64(count)*4)
	if err != nil {
		return 0, err
	}

	return crc8.Checksum(data, bufferCRC8), nil
}
