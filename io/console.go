package io

import (
	"fmt"
	"io"
)

// Console is the output sink for PRN and PRA.
// PRN values are written in decimal, one per line; PRA values are written
// as raw characters.
type Console struct {
	Output io.Writer
}

// Decimal writes value as a decimal number followed by a newline.
func (con *Console) Decimal(value byte) (err error) {
	if con.Output == nil {
		err = ErrNoOutput
		return
	}

	_, err = fmt.Fprintf(con.Output, "%d\n", value)
	return
}

// Char writes value as a single character.
func (con *Console) Char(value byte) (err error) {
	if con.Output == nil {
		err = ErrNoOutput
		return
	}

	_, err = con.Output.Write([]byte{value})
	return
}
