package io

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyboard_Press(t *testing.T) {
	assert := assert.New(t)

	irq := &testRaiser{}
	mem := testMemory{}
	kb := &Keyboard{Address: 0xf4, Line: KEYBOARD_LINE}

	// Nothing pressed, nothing latched.
	assert.NoError(kb.Latch(mem))
	assert.Empty(mem)

	assert.NoError(kb.Press('a', irq))
	assert.NoError(kb.Press('b', irq))
	assert.Equal([]int{KEYBOARD_LINE, KEYBOARD_LINE}, irq.Lines())

	// Only the latest key is latched, and only once.
	assert.NoError(kb.Latch(mem))
	assert.Equal(testMemory{0xf4: 'b'}, mem)

	mem[0xf4] = 0
	assert.NoError(kb.Latch(mem))
	assert.Equal(byte(0), mem[0xf4])

	// NUL is a key like any other.
	assert.NoError(kb.Press(0, irq))
	mem[0xf4] = 0xff
	assert.NoError(kb.Latch(mem))
	assert.Equal(byte(0), mem[0xf4])
}

func TestKeyboard_Start(t *testing.T) {
	assert := assert.New(t)

	irq := &testRaiser{}
	mem := testMemory{}
	kb := &Keyboard{Input: strings.NewReader("xyz"), Address: 0x10, Line: 5}

	assert.NoError(kb.Start(context.Background(), irq))
	assert.ErrorIs(kb.Start(context.Background(), irq), ErrDeviceRunning)

	select {
	case <-kb.Done():
	case <-time.After(time.Second):
		assert.Fail("keyboard reader did not finish")
	}

	assert.Equal([]int{5, 5, 5}, irq.Lines())

	assert.NoError(kb.Latch(mem))
	assert.Equal(testMemory{0x10: 'z'}, mem)

	assert.NoError(kb.Close())
	assert.NoError(kb.Close())
}

func TestKeyboard_NoInput(t *testing.T) {
	assert := assert.New(t)

	kb := &Keyboard{}
	assert.ErrorIs(kb.Start(context.Background(), &testRaiser{}), ErrNoInput)
	assert.NoError(kb.Close())
}

func TestKeyboard_Defines(t *testing.T) {
	assert := assert.New(t)

	kb := &Keyboard{Line: KEYBOARD_LINE}

	defines := map[string]string{}
	for key, value := range kb.Defines() {
		defines[key] = value
	}
	assert.Equal(map[string]string{"KEYBOARD_LINE": "1"}, defines)
}
