package cpu

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/io"
)

// State is the execution state of the CPU.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING = State(0) // running
	STATE_HALTED  = State(1) // halted
	STATE_FAULTED = State(2) // faulted
)

// StepResult is the outcome of a single Step.
type StepResult int

//go:generate go tool stringer -linecomment -type=StepResult
const (
	STEP_CONTINUE = StepResult(0) // continue
	STEP_HALTED   = StepResult(1) // halted
	STEP_FAULTED  = StepResult(2) // faulted
)

// Output receives the values printed by PRN and PRA, in execution order.
type Output interface {
	Decimal(value byte) error // PRN
	Char(value byte) error    // PRA
}

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%d", MEMORY_SIZE),
	"ADDR_KEY":    fmt.Sprintf("0x%02x", ADDR_KEY),
	"ADDR_STACK":  fmt.Sprintf("0x%02x", ADDR_STACK),
	"ADDR_VECTOR": fmt.Sprintf("0x%02x", ADDR_VECTOR),
	"FL_EQUAL":    fmt.Sprintf("0x%02x", byte(FL_EQUAL)),
	"FL_GREATER":  fmt.Sprintf("0x%02x", byte(FL_GREATER)),
	"FL_LESS":     fmt.Sprintf("0x%02x", byte(FL_LESS)),
}

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory    Memory // Main memory.
	Registers        // Register file.
	Pc        int    // Address of the next instruction.

	State             State // Execution state.
	InterruptsEnabled bool  // Cleared while an interrupt handler runs.

	Output Output // Destination of PRN and PRA, discarded if nil.
	Tracer Tracer // Notified before each instruction fetch, if set.

	Ticks      int // Instructions executed.
	Dispatches int // Interrupts dispatched.

	fault   *Fault
	irq     Interrupts
	devices []io.Device
}

// NewCpu creates a new CPU in its power-on state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears memory and registers.
// - Sets SP to ADDR_STACK and PC to 0.
// - Enables interrupts and drops any pending lines.
// - Zeros statistics counters.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Memory.Reset()
	cpu.Registers.Reset()
	cpu.Pc = 0
	cpu.State = STATE_RUNNING
	cpu.InterruptsEnabled = true
	cpu.Ticks = 0
	cpu.Dispatches = 0
	cpu.fault = nil
	cpu.irq.Reset()
}

// LoadProgram writes image into memory starting at address 0.
func (cpu *Cpu) LoadProgram(image []byte) (err error) {
	err = cpu.Memory.Load(image)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(image))
	}

	return
}

// Attach adds a device latched at every instruction boundary.
func (cpu *Cpu) Attach(dev io.Device) {
	cpu.devices = append(cpu.devices, dev)
}

// Devices returns the attached devices.
func (cpu *Cpu) Devices() []io.Device {
	return cpu.devices
}

// Raise marks an interrupt line as pending. Safe to call from any goroutine.
func (cpu *Cpu) Raise(line int) error {
	return cpu.irq.Raise(line)
}

// Fault returns the fault that stopped the CPU, if any.
func (cpu *Cpu) Fault() *Fault {
	return cpu.fault
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc", "fl", "state",
		"r0", "r1", "r2", "r3", "r4", "im", "is", "sp",
		"stack",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%02X", cpu.Pc)
		case "fl":
			strval = cpu.Fl.String()
		case "state":
			strval = cpu.State.String()
			if cpu.fault != nil {
				strval += " " + cpu.fault.Err.Error()
			}
		case "r0", "r1", "r2", "r3", "r4":
			strval = fmt.Sprintf("%02X", cpu.R[reg[1]-'0'])
		case "im":
			strval = fmt.Sprintf("%08b", cpu.Im())
		case "is":
			strval = fmt.Sprintf("%08b", cpu.Is())
		case "sp":
			strval = fmt.Sprintf("%02X", cpu.Sp())
		case "stack":
			val, err := cpu.Peek(&cpu.Memory)
			if err == nil {
				strval = fmt.Sprintf("%02X (depth %d)", val, cpu.Depth())
			} else {
				strval = "--"
			}
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Fetch reads and decodes the instruction at address.
// On error the returned instruction holds whatever was fetched.
func (cpu *Cpu) Fetch(address int) (ins Instruction, err error) {
	ins.Address = address

	opcode, err := cpu.Memory.Read(address)
	if err != nil {
		return
	}
	ins.Opcode = Opcode(opcode)

	ins.Info, err = Decode(opcode)
	if err != nil {
		return
	}

	for n := range ins.Info.Operands {
		var operand byte
		operand, err = cpu.Memory.Read(address + 1 + n)
		if err != nil {
			return
		}
		ins.Operands = append(ins.Operands, operand)
	}

	return
}

// Step executes a single fetch-decode-execute cycle, dispatching a pending
// interrupt first. A halted or faulted CPU keeps returning its final result.
func (cpu *Cpu) Step() (result StepResult, err error) {
	switch cpu.State {
	case STATE_HALTED:
		result = STEP_HALTED
		return
	case STATE_FAULTED:
		result = STEP_FAULTED
		err = cpu.fault
		return
	}

	var ins Instruction
	ins.Address = cpu.Pc

	defer func() {
		if err != nil {
			cpu.fault = &Fault{
				Pc:       ins.Address,
				Opcode:   byte(ins.Opcode),
				Operands: ins.Operands,
				Err:      err,
			}
			cpu.State = STATE_FAULTED
			if cpu.Verbose {
				log.Printf("cpu: %v", cpu.fault)
			}
			err = cpu.fault
			result = STEP_FAULTED
		}
	}()

	err = cpu.checkInterrupts()
	if err != nil {
		// Nothing was fetched; report the instruction that was due.
		opcode, rerr := cpu.Memory.Read(cpu.Pc)
		if rerr == nil {
			ins.Opcode = Opcode(opcode)
		}
		return
	}

	if cpu.Tracer != nil {
		cpu.Tracer.Trace(cpu.Trace())
	}

	ins, err = cpu.Fetch(cpu.Pc)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %02x: %v", ins.Address, &ins)
	}

	err = cpu.Execute(&ins)
	if err != nil {
		return
	}

	if cpu.State == STATE_HALTED {
		result = STEP_HALTED
	}

	return
}

// Execute executes a single decoded instruction, advancing the PC unless
// the instruction set it.
func (cpu *Cpu) Execute(ins *Instruction) (err error) {
	handle := handlers[ins.Opcode]
	if handle == nil {
		err = ErrIllegalInstruction
		return
	}

	jumped, err := handle(cpu, ins)
	if err != nil {
		return
	}

	if !jumped {
		cpu.Pc = ins.Next()
	}

	cpu.Ticks++

	return
}

// Run steps the CPU until it halts, faults, or ctx is done.
// Cancellation is only observed between instructions.
func (cpu *Cpu) Run(ctx context.Context) (state State, err error) {
	for {
		err = ctx.Err()
		if err != nil {
			state = cpu.State
			return
		}

		var result StepResult
		result, err = cpu.Step()
		if result != STEP_CONTINUE {
			state = cpu.State
			return
		}
	}
}

// checkInterrupts latches the devices and raised lines, then dispatches
// the highest priority pending interrupt.
func (cpu *Cpu) checkInterrupts() (err error) {
	for _, dev := range cpu.devices {
		err = dev.Latch(&cpu.Memory)
		if err != nil {
			return
		}
	}

	cpu.R[REG_IS] = cpu.irq.Latch(cpu.R[REG_IS])

	if !cpu.InterruptsEnabled {
		return
	}

	line, ok := cpu.irq.Poll(cpu.Is(), cpu.Im())
	if !ok {
		return
	}

	return cpu.dispatch(line)
}

// dispatch enters the handler for an interrupt line.
// The frame pushed is PC, FL, then r0 through r6.
func (cpu *Cpu) dispatch(line int) (err error) {
	if cpu.Pc >= MEMORY_SIZE {
		err = ErrOutOfBounds
		return
	}

	vector, err := cpu.Memory.Read(ADDR_VECTOR + line)
	if err != nil {
		return
	}

	cpu.InterruptsEnabled = false
	cpu.R[REG_IS] &^= 1 << line

	frame := []byte{byte(cpu.Pc), byte(cpu.Fl)}
	frame = append(frame, cpu.R[:REG_SP]...)
	for _, value := range frame {
		err = cpu.Push(&cpu.Memory, value)
		if err != nil {
			return
		}
	}

	if cpu.Verbose {
		log.Printf("cpu: interrupt %d from %02x to %02x", line, cpu.Pc, vector)
	}

	cpu.Pc = int(vector)
	cpu.Dispatches++

	return
}

// Trace returns a snapshot of the CPU for diagnostic display.
func (cpu *Cpu) Trace() (trace Trace) {
	trace = Trace{
		Pc:       cpu.Pc,
		Register: cpu.R,
		Fl:       cpu.Fl,
	}

	for n := range 3 {
		value, err := cpu.Memory.Read(cpu.Pc + n)
		if err != nil {
			break
		}
		trace.Bytes = append(trace.Bytes, value)
	}

	return
}

// errOutput wraps an output collaborator failure.
func errOutput(err error) error {
	return errors.Join(ErrOutput, err)
}
