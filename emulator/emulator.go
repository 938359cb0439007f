// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"fmt"
	stdio "io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/internal"
	"github.com/ezrec/ls8/io"
)

var _emulator_defines = map[string]string{
	"INTERRUPT_LINES": fmt.Sprintf("%v", cpu.INTERRUPT_LINES),
}

// Emulator state. CPU + program listing + peripherals.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.

	Console  io.Console  // PRN/PRA output.
	Timer    io.Timer    // Timer interrupt source; started when Period is set.
	Keyboard io.Keyboard // Keyboard interrupt source; started when Input is set.

	started []io.Device
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	emu.Timer.Line = io.TIMER_LINE
	emu.Keyboard.Line = io.KEYBOARD_LINE
	emu.Keyboard.Address = cpu.ADDR_KEY

	emu.Cpu.Output = &emu.Console
	emu.Cpu.Attach(&emu.Timer)
	emu.Cpu.Attach(&emu.Keyboard)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Timer.Defines(),
		emu.Keyboard.Defines(),
	)
}

// Assemble parses assembly source into the emulator's program.
func (emu *Emulator) Assemble(input stdio.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// LoadBinary parses the binary literal text format into the emulator's program.
func (emu *Emulator) LoadBinary(input stdio.Reader) (err error) {
	prog, err := cpu.ParseBinary(input)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// Start starts the configured interrupt sources.
func (emu *Emulator) Start(ctx context.Context) (err error) {
	var devices []io.Device
	if emu.Timer.Period > 0 {
		devices = append(devices, &emu.Timer)
	}
	if emu.Keyboard.Input != nil {
		devices = append(devices, &emu.Keyboard)
	}

	for _, dev := range devices {
		err = dev.Start(ctx, emu.Cpu)
		if err != nil {
			return errors.Join(err, emu.Close())
		}
		emu.started = append(emu.started, dev)
	}

	return
}

// Close stops the emulator's interrupt sources.
func (emu *Emulator) Close() (err error) {
	for _, dev := range emu.started {
		err = errors.Join(err, dev.Close())
	}
	emu.started = nil

	return
}

// Reset the CPU and load the program into memory.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = false

	emu.Cpu.Reset()

	err = emu.Cpu.LoadProgram(emu.Program.Binary())
	if err != nil {
		return
	}

	emu.Cpu.Verbose = emu.Verbose

	if emu.Verbose {
		log.Printf("emulator: reset, %d bytes loaded", emu.Program.Size())
	}

	return
}

// Ticks returns the instructions executed since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns current program counter.
func (emu *Emulator) Pc() int {
	return emu.Cpu.Pc
}

// LineNo returns the source line number for the code at address.
func (emu *Emulator) LineNo(address int) int {
	dbg := emu.Program.Debug(address)
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	result, err := emu.Cpu.Step()
	switch result {
	case cpu.STEP_HALTED:
		done = true
	case cpu.STEP_FAULTED:
		done = true
		lineno := 0
		var fault *cpu.Fault
		if errors.As(err, &fault) {
			lineno = emu.LineNo(fault.Pc)
		}
		err = &ErrRuntime{LineNo: lineno, Err: err}
	}

	return
}

// Run ticks the emulator until the program halts, faults, or ctx is done.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	for done := false; !done; {
		err = ctx.Err()
		if err != nil {
			return
		}

		done, err = emu.Tick()
	}

	return
}
