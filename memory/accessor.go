package memory

// An Accessor is anything bytes can be read from and written to by address.
// The accelerator model and the control program both see memory through it.
type Accessor interface {
	Read(address uint64, len uint64) ([]byte, error)
	Write(address uint64, data []byte) error
}
