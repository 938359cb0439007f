package cpu

const (
	MEMORY_SIZE = 256 // Bytes of addressable memory.

	ADDR_KEY    = 0xf4 // Keyboard key latch.
	ADDR_STACK  = 0xf4 // Initial stack pointer; the stack grows down from here.
	ADDR_VECTOR = 0xf8 // Interrupt vector table, one byte per line.
)

// Memory is the flat byte-addressable store of the machine.
type Memory struct {
	Data [MEMORY_SIZE]byte
}

// Read returns the byte at address.
func (mem *Memory) Read(address int) (value byte, err error) {
	if address < 0 || address >= len(mem.Data) {
		err = ErrOutOfBounds
		return
	}

	value = mem.Data[address]
	return
}

// Write stores value at address.
func (mem *Memory) Write(address int, value byte) (err error) {
	if address < 0 || address >= len(mem.Data) {
		err = ErrOutOfBounds
		return
	}

	mem.Data[address] = value
	return
}

// Load copies image into memory starting at address 0.
// The remainder of memory is left untouched.
func (mem *Memory) Load(image []byte) (err error) {
	if len(image) > len(mem.Data) {
		err = ErrTooLarge
		return
	}

	copy(mem.Data[:], image)
	return
}

// Reset zero-fills memory.
func (mem *Memory) Reset() {
	clear(mem.Data[:])
}
