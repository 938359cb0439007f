package cpu

import (
	"iter"
)

// Link is a reference to a label, patched into a statement's bytes.
type Link struct {
	Index int    // Byte within the statement.
	Label string // Label whose address is stored there.
}

// Statement is a line of program text with its location and generated bytes.
type Statement struct {
	LineNo  int
	Address int
	Words   []string
	Bytes   []byte
	Links   []Link
}

// Program is a loadable memory image with its source listing.
type Program struct {
	Statements []Statement
}

type Debug struct {
	*Statement
	Index int
}

// Debug finds the statement whose bytes cover address.
func (prog *Program) Debug(address int) (dbg Debug) {
	for n, st := range prog.Statements {
		if address >= st.Address && address < st.Address+len(st.Bytes) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     address - st.Address,
			}
			break
		}
	}

	return
}

// Size returns the length of the memory image.
func (prog *Program) Size() (size int) {
	for _, st := range prog.Statements {
		size = max(size, st.Address+len(st.Bytes))
	}
	return
}

// Binary returns the memory image, zero filled between statements.
func (prog *Program) Binary() (bins []byte) {
	bins = make([]byte, prog.Size())
	for address, value := range prog.Codes() {
		bins[address] = value
	}

	return
}

// Codes iterates over every address and byte of the program.
func (prog *Program) Codes() iter.Seq2[int, byte] {
	return func(yield func(address int, value byte) bool) {
		for _, st := range prog.Statements {
			for n, value := range st.Bytes {
				if !yield(st.Address+n, value) {
					return
				}
			}
		}
	}
}
