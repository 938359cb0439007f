package emulator

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/io"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Equal(0, emu.Program.Size())
	assert.Equal(io.TIMER_LINE, emu.Timer.Line)
	assert.Equal(io.KEYBOARD_LINE, emu.Keyboard.Line)
	assert.Equal(cpu.ADDR_KEY, emu.Keyboard.Address)
	assert.Len(emu.Cpu.Devices(), 2)
}

func TestEmulator_Defines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}

	assert.Equal("8", defines["INTERRUPT_LINES"])
	assert.Equal("0", defines["TIMER_LINE"])
	assert.Equal("1", defines["KEYBOARD_LINE"])
	assert.Equal("0xf4", defines["ADDR_KEY"])
	assert.Equal("0xf8", defines["ADDR_VECTOR"])
}

// doAssemble assembles program into emu and resets it, capturing the console.
func doAssemble(t *testing.T, emu *Emulator, program ...string) (output *bytes.Buffer) {
	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	err = emu.Reset()
	assert.NoError(t, err)

	output = &bytes.Buffer{}
	emu.Console.Output = output
	return
}

func TestEmulator_Tick(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"LDI R0, 8",
		"LDI R1, 9",
		"MUL R0, R1",
		"PRN R0",
		"HLT",
	}
	output := doAssemble(t, emu, program...)

	for n, st := range emu.Program.Statements {
		here := program[n]
		assert.Equal(st.Address, emu.Pc(), here)
		assert.Equal(st.LineNo, emu.LineNo(emu.Pc()), here)
		assert.Equal(n, emu.Ticks(), here)

		done, err := emu.Tick()
		assert.NoError(err, here)
		assert.Equal(st.Words[0] == "HLT", done, here)
	}

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(5, emu.Ticks())
	assert.Equal("72\n", output.String())
}

func TestEmulator_Run(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	output := doAssemble(t, emu,
		"    LDI R0, msg",
		"    LDI R2, 0",
		"loop:",
		"    LD R1, R0",
		"    CMP R1, R2",
		"    LDI R3, end",
		"    JEQ R3",
		"    PRA R1",
		"    INC R0",
		"    LDI R3, loop",
		"    JMP R3",
		"end:",
		"    HLT",
		"msg: DS Hello, world!",
		"    DB '\\n', 0",
	)

	err := emu.Run(context.Background())
	assert.NoError(err)
	assert.Equal(cpu.STATE_HALTED, emu.Cpu.State)
	assert.Equal("Hello, world!\n", output.String())
}

func TestEmulator_Fault(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doAssemble(t, emu,
		"; divide by zero",
		"LDI R0, 1",
		"LDI R1, 0",
		"DIV R0, R1",
		"HLT",
	)

	err := emu.Run(context.Background())
	assert.ErrorIs(err, cpu.ErrDivideByZero)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(4, runtime.LineNo)
	}

	var fault *cpu.Fault
	if assert.True(errors.As(err, &fault)) {
		assert.Equal(6, fault.Pc)
	}

	assert.Equal(cpu.STATE_FAULTED, emu.Cpu.State)
}

func TestEmulator_FaultNoSource(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doAssemble(t, emu,
		"LDI R0, 0x80",
		"JMP R0",
	)

	// Runs through zeroed memory off the end.
	err := emu.Run(context.Background())
	assert.ErrorIs(err, cpu.ErrOutOfBounds)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(0, runtime.LineNo)
	}
}

func TestEmulator_Cancel(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doAssemble(t, emu,
		"loop:",
		"    LDI R0, loop",
		"    JMP R0",
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := emu.Run(ctx)
	assert.ErrorIs(err, context.DeadlineExceeded)
	assert.Equal(cpu.STATE_RUNNING, emu.Cpu.State)
	assert.Less(0, emu.Ticks())
}

func TestEmulator_LoadBinary(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	err := emu.LoadBinary(strings.NewReader(strings.Join([]string{
		"# print8",
		"10000010 # LDI R0,8",
		"00000000",
		"00001000",
		"01000111 # PRN R0",
		"00000000",
		"00000001 # HLT",
	}, "\n")))
	assert.NoError(err)

	assert.NoError(emu.Reset())
	output := &bytes.Buffer{}
	emu.Console.Output = output

	err = emu.Run(context.Background())
	assert.NoError(err)
	assert.Equal("8\n", output.String())
	assert.Equal(2, emu.LineNo(0))
	assert.Equal(5, emu.LineNo(3))
}

func TestEmulator_LoadBinaryError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	before := emu.Program

	err := emu.LoadBinary(strings.NewReader("10000010\nLDI\n"))
	assert.ErrorIs(err, cpu.ErrParseBinary)
	assert.Equal(before, emu.Program)
}

func TestEmulator_ResetTooLarge(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Program = &cpu.Program{
		Statements: []cpu.Statement{
			{LineNo: 1, Address: cpu.MEMORY_SIZE - 1, Bytes: []byte{0x00, 0x01}},
		},
	}

	assert.ErrorIs(emu.Reset(), cpu.ErrTooLarge)
}

func TestEmulator_Timer(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	output := doAssemble(t, emu,
		"    LDI R0, handler",
		"    LDI R1, $(ADDR_VECTOR + TIMER_LINE)",
		"    ST R1, R0",
		"    LDI IM, $(1 << TIMER_LINE)",
		"    LDI R0, 0x80",
		"    LDI R2, 0",
		"    LDI R3, wait",
		"wait:",
		"    LD R1, R0",
		"    CMP R1, R2",
		"    JEQ R3",
		"    HLT",
		"handler:",
		"    LDI R0, 0x80",
		"    LDI R1, 'T'",
		"    ST R0, R1",
		"    PRA R1",
		"    IRET",
	)
	emu.Timer.Period = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(emu.Start(ctx))
	defer emu.Close()

	err := emu.Run(ctx)
	assert.NoError(err)
	assert.Equal(cpu.STATE_HALTED, emu.Cpu.State)
	assert.True(strings.HasPrefix(output.String(), "T"))
	assert.LessOrEqual(1, emu.Cpu.Dispatches)
	assert.True(emu.Cpu.InterruptsEnabled)
}

func TestEmulator_Keyboard(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	output := doAssemble(t, emu,
		"    LDI R0, handler",
		"    LDI R1, $(ADDR_VECTOR + KEYBOARD_LINE)",
		"    ST R1, R0",
		"    LDI IM, $(1 << KEYBOARD_LINE)",
		"    LDI R0, 0x80",
		"    LDI R2, 0",
		"    LDI R3, wait",
		"wait:",
		"    LD R1, R0",
		"    CMP R1, R2",
		"    JEQ R3",
		"    HLT",
		"handler:",
		"    LDI R0, ADDR_KEY",
		"    LD R1, R0",
		"    PRA R1",
		"    LDI R0, 0x80",
		"    ST R0, R1",
		"    IRET",
	)
	emu.Keyboard.Input = strings.NewReader("k")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(emu.Start(ctx))
	defer emu.Close()

	err := emu.Run(ctx)
	assert.NoError(err)
	assert.Equal("k", output.String())
	assert.Equal(1, emu.Cpu.Dispatches)
}

func TestEmulator_StartTwice(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Timer.Period = time.Hour

	assert.NoError(emu.Start(context.Background()))
	assert.ErrorIs(emu.Start(context.Background()), io.ErrDeviceRunning)

	// The failed start stopped the running devices.
	assert.NoError(emu.Start(context.Background()))
	assert.NoError(emu.Close())
	assert.NoError(emu.Close())
}
