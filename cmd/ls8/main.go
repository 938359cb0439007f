// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/tebeka/atexit"
	"golang.org/x/term"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
)

// fatalf logs the message, then exits through the atexit handlers.
func fatalf(format string, args ...any) {
	log.Printf(format, args...)
	atexit.Exit(1)
}

// crlfWriter expands "\n" to "\r\n" for a terminal in raw mode.
type crlfWriter struct {
	io.Writer
}

func (cw crlfWriter) Write(data []byte) (n int, err error) {
	_, err = cw.Writer.Write([]byte(strings.ReplaceAll(string(data), "\n", "\r\n")))
	if err == nil {
		n = len(data)
	}
	return
}

// breakReader cancels the run when it reads a Ctrl-C from a raw terminal.
type breakReader struct {
	io.Reader
	cancel context.CancelFunc
}

func (br breakReader) Read(data []byte) (n int, err error) {
	n, err = br.Reader.Read(data)
	for _, b := range data[:n] {
		if b == 0x03 {
			br.cancel()
			err = io.EOF
		}
	}
	return
}

func main() {
	var assemble bool
	var output string
	var verbose bool
	var trace bool
	var dump bool
	var keyboard bool
	var timer time.Duration

	flag.BoolVar(&assemble, "a", false, "Assemble the program source (default for .asm and .s files)")
	flag.StringVar(&output, "o", "-", "PRN/PRA output")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&trace, "t", false, "Trace every instruction")
	flag.BoolVar(&dump, "d", false, "Dump the machine state when the run ends")
	flag.BoolVar(&keyboard, "k", false, "Raise keyboard interrupts from stdin")
	flag.DurationVar(&timer, "timer", time.Second, "Timer interrupt period, 0 to disable")

	flag.Parse()

	if flag.NArg() != 1 {
		fatalf("%v: expected one program file, got %v", os.Args[0], flag.Args())
	}
	program := flag.Arg(0)

	switch strings.ToLower(filepath.Ext(program)) {
	case ".asm", ".s":
		assemble = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	atexit.Register(cancel)

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Timer.Period = timer

	inf, err := os.Open(program)
	if err != nil {
		fatalf("%v: %v", program, err)
	}

	if assemble {
		err = emu.Assemble(inf)
	} else {
		err = emu.LoadBinary(inf)
	}
	inf.Close()
	if err != nil {
		fatalf("%v: %v", program, err)
	}

	var out io.Writer = os.Stdout
	if output != "-" {
		ouf, err := os.Create(output)
		if err != nil {
			fatalf("%v: %v", output, err)
		}
		atexit.Register(func() { ouf.Close() })
		out = ouf
	}

	if keyboard {
		var in io.Reader = os.Stdin
		fd := int(os.Stdin.Fd())
		if term.IsTerminal(fd) {
			state, err := term.MakeRaw(fd)
			if err != nil {
				fatalf("stdin: %v", err)
			}
			atexit.Register(func() { _ = term.Restore(fd, state) })
			in = breakReader{Reader: os.Stdin, cancel: cancel}
			if output == "-" {
				out = crlfWriter{Writer: out}
			}
		}
		emu.Keyboard.Input = in
	}

	emu.Console.Output = out

	if trace {
		emu.Cpu.Tracer = cpu.TracerFunc(func(tr cpu.Trace) {
			fmt.Fprintln(os.Stderr, tr.String())
		})
	}

	err = emu.Reset()
	if err != nil {
		fatalf("%v: %v", program, err)
	}

	err = emu.Start(ctx)
	if err != nil {
		fatalf("%v: %v", program, err)
	}
	atexit.Register(func() { emu.Close() })

	err = emu.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Printf("%v: interrupted at %02x", program, emu.Pc())
		err = nil
	}

	if dump || err != nil {
		fmt.Fprint(os.Stderr, emu.Cpu.String())
	}

	if err != nil {
		fatalf("%v: %v", program, err)
	}

	atexit.Exit(0)
}
