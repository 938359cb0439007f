package io

import (
	"sync"
)

// testRaiser records raised lines.
type testRaiser struct {
	mutex sync.Mutex
	lines []int
	err   error
}

func (tr *testRaiser) Raise(line int) error {
	tr.mutex.Lock()
	defer tr.mutex.Unlock()

	tr.lines = append(tr.lines, line)
	return tr.err
}

func (tr *testRaiser) Lines() []int {
	tr.mutex.Lock()
	defer tr.mutex.Unlock()

	return append([]int(nil), tr.lines...)
}

// testMemory records device writes.
type testMemory map[int]byte

func (tm testMemory) Write(address int, value byte) error {
	tm[address] = value
	return nil
}
