package mmio

// A RegisterFile is a Window backed by plain memory. What is stored is read
// back unchanged, which makes it a loopback stand-in for a device.
type RegisterFile struct {
	regs []U32
}

// NewRegisterFile creates a RegisterFile spanning size bytes.
func NewRegisterFile(size uint32) *RegisterFile {
	return &RegisterFile{
		regs: make([]U32, size/WordSize),
	}
}

// Size returns the number of bytes covered by the register file.
func (f *RegisterFile) Size() uint32 {
	return uint32(len(f.regs)) * WordSize
}

// Load reads the register at offset.
func (f *RegisterFile) Load(offset uint32) uint32 {
	offsetMustBeValid(offset, f.Size())
	return f.regs[offset/WordSize].Load()
}

// Store writes the register at offset.
func (f *RegisterFile) Store(offset uint32, value uint32) {
	offsetMustBeValid(offset, f.Size())
	f.regs[offset/WordSize].Store(value)
}
