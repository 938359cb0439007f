package cpu

// The stack lives in memory below ADDR_STACK and is addressed through r7.
// SP is kept within [0, ADDR_STACK]; leaving that range is a stack fault.

// Push decrements SP and writes value at the new SP.
func (regs *Registers) Push(mem *Memory, value byte) (err error) {
	if regs.Full() {
		err = ErrStackFault
		return
	}

	sp := regs.R[REG_SP] - 1
	err = mem.Write(int(sp), value)
	if err != nil {
		return
	}

	regs.R[REG_SP] = sp
	return
}

// Pop reads the value at SP, then increments SP.
func (regs *Registers) Pop(mem *Memory) (value byte, err error) {
	value, err = regs.Peek(mem)
	if err != nil {
		return
	}

	regs.R[REG_SP]++
	return
}

// Peek reads the value at SP.
func (regs *Registers) Peek(mem *Memory) (value byte, err error) {
	if regs.Empty() {
		err = ErrStackFault
		return
	}

	return mem.Read(int(regs.R[REG_SP]))
}

// Empty is true when there is nothing to pop.
// A stack pointer above ADDR_STACK is treated as empty.
func (regs *Registers) Empty() bool {
	return regs.R[REG_SP] >= ADDR_STACK
}

// Full is true when a push would leave the stack region.
func (regs *Registers) Full() bool {
	sp := regs.R[REG_SP]
	return sp == 0 || sp > ADDR_STACK
}

// Depth returns the number of bytes on the stack.
func (regs *Registers) Depth() int {
	if regs.Empty() {
		return 0
	}
	return ADDR_STACK - int(regs.R[REG_SP])
}
