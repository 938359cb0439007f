package cpu

// handler executes a decoded instruction, reporting whether it set the PC.
type handler func(cpu *Cpu, ins *Instruction) (jumped bool, err error)

// handlers is the opcode dispatch table. Opcodes without a handler are illegal.
var handlers [256]handler

func init() {
	for op := range mnemonics {
		if op.IsAlu() {
			handlers[op] = execAlu
		}
	}

	handlers[OP_NOP] = execNop
	handlers[OP_HLT] = execHlt
	handlers[OP_LDI] = execLdi
	handlers[OP_LD] = execLd
	handlers[OP_ST] = execSt
	handlers[OP_PUSH] = execPush
	handlers[OP_POP] = execPop
	handlers[OP_PRN] = execPrn
	handlers[OP_PRA] = execPra

	handlers[OP_CALL] = execCall
	handlers[OP_RET] = execRet
	handlers[OP_INT] = execInt
	handlers[OP_IRET] = execIret

	handlers[OP_JMP] = jumpIf(func(fl Flags) bool { return true })
	handlers[OP_JEQ] = jumpIf(func(fl Flags) bool { return fl&FL_EQUAL != 0 })
	handlers[OP_JNE] = jumpIf(func(fl Flags) bool { return fl&FL_EQUAL == 0 })
	handlers[OP_JGT] = jumpIf(func(fl Flags) bool { return fl&FL_GREATER != 0 })
	handlers[OP_JLT] = jumpIf(func(fl Flags) bool { return fl&FL_LESS != 0 })
	handlers[OP_JLE] = jumpIf(func(fl Flags) bool { return fl&(FL_LESS|FL_EQUAL) != 0 })
	handlers[OP_JGE] = jumpIf(func(fl Flags) bool { return fl&(FL_GREATER|FL_EQUAL) != 0 })
}

// operand returns the value of the register named by operand n.
func (cpu *Cpu) operand(ins *Instruction, n int) (value byte, err error) {
	return cpu.Get(ins.Operands[n])
}

func execAlu(cpu *Cpu, ins *Instruction) (jumped bool, err error) {
	a, err := cpu.operand(ins, 0)
	if err != nil {
		return
	}

	var b byte
	if !aluUnary(ins.Opcode) {
		b, err = cpu.operand(ins, 1)
		if err != nil {
			return
		}
	}

	result, cmp, err := Alu(ins.Opcode, a, b)
	if err != nil {
		return
	}

	if ins.Info.SetsFlags {
		cpu.SetFlags(cmp)
		return
	}

	err = cpu.Set(ins.Operands[0], result)
	return
}

func execNop(cpu *Cpu, ins *Instruction) (jumped bool, err error) {
	return
}

func execHlt(cpu *Cpu, ins *Instruction) (jumped bool, err error) {
	cpu.State = STATE_HALTED
	return
}

func execLdi(cpu *Cpu, ins *Instruction) (jumped bool, err error) {
	err = cpu.Set(ins.Operands[0], ins.Operands[1])
	return
}

func execLd(cpu *Cpu, ins *Instruction) (jumped bool, err error) {
	address, err := cpu.operand(ins, 1)
	if err != nil {
		return
	}

	value, err := cpu.Memory.Read(int(address))
	if err != nil {
		return
	}

	err = cpu.Set(ins.Operands[0], value)
	return
}

func execSt(cpu *Cpu, ins *Instruction) (jumped bool, err error) {
	address, err := cpu.operand(ins, 0)
	if err != nil {
		return
	}

	value, err := cpu.operand(ins, 1)
	if err != nil {
		return
	}

	err = cpu.Memory.Write(int(address), value)
	return
}

func execPush(cpu *Cpu, ins *Instruction) (jumped bool, err error) {
	value, err := cpu.operand(ins, 0)
	if err != nil {
		return
	}

	err = cpu.Push(&cpu.Memory, value)
	return
}

func execPop(cpu *Cpu, ins *Instruction) (jumped bool, err error) {
	if int(ins.Operands[0]) >= REG_COUNT {
		err = ErrIllegalInstruction
		return
	}

	value, err := cpu.Pop(&cpu.Memory)
	if err != nil {
		return
	}

	err = cpu.Set(ins.Operands[0], value)
	return
}

func execPrn(cpu *Cpu, ins *Instruction) (jumped bool, err error) {
	value, err := cpu.operand(ins, 0)
	if err != nil || cpu.Output == nil {
		return
	}

	err = cpu.Output.Decimal(value)
	if err != nil {
		err = errOutput(err)
	}
	return
}

func execPra(cpu *Cpu, ins *Instruction) (jumped bool, err error) {
	value, err := cpu.operand(ins, 0)
	if err != nil || cpu.Output == nil {
		return
	}

	err = cpu.Output.Char(value)
	if err != nil {
		err = errOutput(err)
	}
	return
}

func execCall(cpu *Cpu, ins *Instruction) (jumped bool, err error) {
	target, err := cpu.operand(ins, 0)
	if err != nil {
		return
	}

	// The return address must fit in a byte.
	next := ins.Next()
	if next >= MEMORY_SIZE {
		err = ErrOutOfBounds
		return
	}

	err = cpu.Push(&cpu.Memory, byte(next))
	if err != nil {
		return
	}

	cpu.Pc = int(target)
	jumped = true
	return
}

func execRet(cpu *Cpu, ins *Instruction) (jumped bool, err error) {
	pc, err := cpu.Pop(&cpu.Memory)
	if err != nil {
		return
	}

	cpu.Pc = int(pc)
	jumped = true
	return
}

// execInt raises the line held in the register, to be serviced at the
// next instruction boundary like any other interrupt.
func execInt(cpu *Cpu, ins *Instruction) (jumped bool, err error) {
	line, err := cpu.operand(ins, 0)
	if err != nil {
		return
	}

	cpu.R[REG_IS] |= 1 << (line % INTERRUPT_LINES)
	return
}

// execIret unwinds the frame pushed by dispatch. Lines that became pending
// while the handler ran stay pending.
func execIret(cpu *Cpu, ins *Instruction) (jumped bool, err error) {
	pending := cpu.Is()

	for r := REG_SP - 1; r >= 0; r-- {
		cpu.R[r], err = cpu.Pop(&cpu.Memory)
		if err != nil {
			return
		}
	}

	fl, err := cpu.Pop(&cpu.Memory)
	if err != nil {
		return
	}
	cpu.Fl = Flags(fl) & FL_MASK

	pc, err := cpu.Pop(&cpu.Memory)
	if err != nil {
		return
	}

	cpu.R[REG_IS] |= pending
	cpu.Pc = int(pc)
	cpu.InterruptsEnabled = true
	jumped = true
	return
}

// jumpIf builds a handler that jumps to the register's address when cond holds.
func jumpIf(cond func(fl Flags) bool) handler {
	return func(cpu *Cpu, ins *Instruction) (jumped bool, err error) {
		target, err := cpu.operand(ins, 0)
		if err != nil {
			return
		}

		if cond(cpu.Fl) {
			cpu.Pc = int(target)
			jumped = true
		}
		return
	}
}
