package nes

const ramSize = 2048

// RAM is the console's 2KiB of work RAM, mirrored every 2KiB across
// $0000-$1FFF. It is registered on the Bus in local coordinates, so it knows
// nothing about where it is mounted; the Bus subtracts the region's base
// address before calling Read/Write.
type RAM struct {
	data [ramSize]byte
}

func NewRAM() *RAM {
	return &RAM{}
}

func (r *RAM) Read(local uint16) (byte, error) {
	return r.data[local%ramSize], nil
}

func (r *RAM) Write(local uint16, v byte) error {
	r.data[local%ramSize] = v
	return nil
}
