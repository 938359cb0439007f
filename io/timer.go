package io

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"sync"
	"time"
)

const (
	TIMER_LINE   = 0           // Interrupt line of the timer.
	TIMER_PERIOD = time.Second // Default timer period.
)

// Timer raises its interrupt line periodically.
type Timer struct {
	Period time.Duration // Interval between interrupts; TIMER_PERIOD if zero.
	Line   int           // Interrupt line raised.

	mutex  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

var _ Device = (*Timer)(nil)

// Defines returns an iter of defines for the timer.
func (tm *Timer) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"TIMER_LINE": fmt.Sprintf("%d", tm.Line),
	})
}

// Start begins raising the timer line every period.
func (tm *Timer) Start(ctx context.Context, irq Raiser) (err error) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()

	if tm.cancel != nil {
		err = ErrDeviceRunning
		return
	}

	period := tm.Period
	if period <= 0 {
		period = TIMER_PERIOD
	}

	ctx, tm.cancel = context.WithCancel(ctx)
	tm.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)

		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if irq.Raise(tm.Line) != nil {
					return
				}
			}
		}
	}(tm.done)

	return
}

// Latch has nothing to hand over for a timer.
func (tm *Timer) Latch(mem Memory) error {
	return nil
}

// Close stops the timer and waits for it to finish.
func (tm *Timer) Close() (err error) {
	tm.mutex.Lock()
	cancel, done := tm.cancel, tm.done
	tm.cancel, tm.done = nil, nil
	tm.mutex.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done

	return
}
