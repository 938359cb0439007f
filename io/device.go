// Package io provides the peripherals attached to the LS-8 emulator.
// It includes the console that receives PRN/PRA output, and the timer
// and keyboard interrupt sources.
package io

import (
	"context"
)

// Raiser accepts interrupt requests. Raise must be safe to call from any
// goroutine.
type Raiser interface {
	Raise(line int) error
}

// Memory is the view of machine memory offered to devices.
type Memory interface {
	Write(address int, value byte) error
}

// Device defines the interface for interrupt-driven peripherals.
type Device interface {
	// Start begins signalling interrupts to irq until ctx is done or the
	// device is closed.
	Start(ctx context.Context, irq Raiser) error
	// Latch hands data to the machine. It is called on the goroutine
	// running the CPU, at every instruction boundary.
	Latch(mem Memory) error
	// Close stops the device.
	Close() error
}
