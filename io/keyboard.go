package io

import (
	"context"
	"fmt"
	"io"
	"iter"
	"maps"
	"sync"
	"sync/atomic"
)

const (
	KEYBOARD_LINE = 1 // Interrupt line of the keyboard.
)

// Keyboard reads key presses from an input stream.
// Each byte read is latched into memory at Address and raises Line.
type Keyboard struct {
	Input   io.Reader
	Address int // Memory address of the key latch.
	Line    int // Interrupt line raised.

	mutex  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	key atomic.Uint32 // Key plus keyFresh when not yet latched.
}

const keyFresh = 1 << 8

var _ Device = (*Keyboard)(nil)

// Defines returns an iter of defines for the keyboard.
func (kb *Keyboard) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"KEYBOARD_LINE": fmt.Sprintf("%d", kb.Line),
	})
}

// Press records a key and raises the keyboard line.
func (kb *Keyboard) Press(key byte, irq Raiser) error {
	kb.key.Store(keyFresh | uint32(key))
	return irq.Raise(kb.Line)
}

// Start reads the input until it is exhausted or ctx is done.
// A blocked read is only abandoned once the reader returns.
func (kb *Keyboard) Start(ctx context.Context, irq Raiser) (err error) {
	kb.mutex.Lock()
	defer kb.mutex.Unlock()

	if kb.cancel != nil {
		err = ErrDeviceRunning
		return
	}

	if kb.Input == nil {
		err = ErrNoInput
		return
	}

	ctx, kb.cancel = context.WithCancel(ctx)
	kb.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)

		var one [1]byte
		for ctx.Err() == nil {
			n, err := kb.Input.Read(one[:])
			if n == 1 && ctx.Err() == nil {
				if kb.Press(one[0], irq) != nil {
					return
				}
			}
			if err != nil {
				return
			}
		}
	}(kb.done)

	return
}

// Latch writes the most recent unlatched key into memory.
func (kb *Keyboard) Latch(mem Memory) (err error) {
	key := kb.key.Swap(0)
	if key&keyFresh == 0 {
		return
	}

	return mem.Write(kb.Address, byte(key))
}

// Close stops the keyboard. The reader goroutine exits once its pending
// read returns; keys read after Close are dropped.
func (kb *Keyboard) Close() (err error) {
	kb.mutex.Lock()
	defer kb.mutex.Unlock()

	if kb.cancel != nil {
		kb.cancel()
		kb.cancel = nil
	}
	return
}

// Done is closed when the reader goroutine exits.
func (kb *Keyboard) Done() <-chan struct{} {
	kb.mutex.Lock()
	defer kb.mutex.Unlock()

	return kb.done
}
