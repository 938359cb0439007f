package cpu

import (
	"fmt"
	"strings"
)

// Instruction is a decoded instruction fetched from memory.
type Instruction struct {
	Address  int    // Address of the opcode byte.
	Opcode   Opcode // Opcode byte.
	Info     Info   // Decoded opcode description.
	Operands []byte // Operand bytes, Info.Operands long.
}

// Length returns the length of the instruction in bytes.
func (ins *Instruction) Length() int {
	return ins.Info.Length()
}

// Next returns the address of the following instruction.
func (ins *Instruction) Next() int {
	return ins.Address + ins.Length()
}

// Bytes returns the encoded instruction.
func (ins *Instruction) Bytes() []byte {
	return append([]byte{byte(ins.Opcode)}, ins.Operands...)
}

// String returns the assembly language representation of the instruction.
func (ins *Instruction) String() string {
	var args []string
	for n, operand := range ins.Operands {
		switch ins.Opcode.OperandKind(n) {
		case OPERAND_IMMEDIATE:
			args = append(args, fmt.Sprintf("0x%02X", operand))
		default:
			args = append(args, fmt.Sprintf("R%d", operand))
		}
	}

	if len(args) == 0 {
		return ins.Opcode.String()
	}

	return ins.Opcode.String() + " " + strings.Join(args, ",")
}
