package cpu

import (
	"math/bits"
	"sync/atomic"
)

const (
	INTERRUPT_LINES = 8 // Number of interrupt lines.
)

// Interrupts is the interrupt controller.
//
// Raise may be called from any goroutine. Latch and Poll run on the
// goroutine executing the CPU, at instruction boundaries.
type Interrupts struct {
	pending atomic.Uint32
}

// Raise marks an interrupt line as pending.
func (irq *Interrupts) Raise(line int) (err error) {
	if line < 0 || line >= INTERRUPT_LINES {
		err = ErrLineInvalid
		return
	}

	irq.pending.Or(1 << line)
	return
}

// Latch folds the lines raised since the last latch into the interrupt status.
func (irq *Interrupts) Latch(is byte) byte {
	return is | byte(irq.pending.Swap(0))
}

// Poll returns the lowest numbered line that is both pending and unmasked.
func (irq *Interrupts) Poll(is, im byte) (line int, ok bool) {
	ready := is & im
	if ready == 0 {
		return
	}

	line = bits.TrailingZeros8(ready)
	ok = true
	return
}

// Reset drops any lines raised but not yet latched.
func (irq *Interrupts) Reset() {
	irq.pending.Store(0)
}
