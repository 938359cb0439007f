package cpu

import (
	"fmt"
	"strings"
)

// Opcode is an instruction byte.
//
// The two high bits hold the operand count, bit 5 marks an ALU operation
// and bit 4 marks an instruction that sets the PC itself.
type Opcode byte

const (
	OPCODE_OPERANDS_SHIFT = 6
	OPCODE_ALU            = Opcode(0b0010_0000)
	OPCODE_PC_MUTATOR     = Opcode(0b0001_0000)
)

// ALU operations
const (
	OP_ADD = Opcode(0b10100000)
	OP_SUB = Opcode(0b10100001)
	OP_MUL = Opcode(0b10100010)
	OP_DIV = Opcode(0b10100011)
	OP_MOD = Opcode(0b10100100)
	OP_INC = Opcode(0b01100101)
	OP_DEC = Opcode(0b01100110)
	OP_CMP = Opcode(0b10100111)
	OP_AND = Opcode(0b10101000)
	OP_NOT = Opcode(0b01101001)
	OP_OR  = Opcode(0b10101010)
	OP_XOR = Opcode(0b10101011)
	OP_SHL = Opcode(0b10101100)
	OP_SHR = Opcode(0b10101101)
)

// PC mutators
const (
	OP_CALL = Opcode(0b01010000)
	OP_RET  = Opcode(0b00010001)
	OP_INT  = Opcode(0b01010010)
	OP_IRET = Opcode(0b00010011)
	OP_JMP  = Opcode(0b01010100)
	OP_JEQ  = Opcode(0b01010101)
	OP_JNE  = Opcode(0b01010110)
	OP_JGT  = Opcode(0b01010111)
	OP_JLT  = Opcode(0b01011000)
	OP_JLE  = Opcode(0b01011001)
	OP_JGE  = Opcode(0b01011010)
)

// Other instructions
const (
	OP_NOP  = Opcode(0b00000000)
	OP_HLT  = Opcode(0b00000001)
	OP_LDI  = Opcode(0b10000010)
	OP_LD   = Opcode(0b10000011)
	OP_ST   = Opcode(0b10000100)
	OP_PUSH = Opcode(0b01000101)
	OP_POP  = Opcode(0b01000110)
	OP_PRN  = Opcode(0b01000111)
	OP_PRA  = Opcode(0b01001000)
)

// OperandKind describes how an operand byte is interpreted.
type OperandKind int

const (
	OPERAND_REGISTER  = OperandKind(0)
	OPERAND_IMMEDIATE = OperandKind(1)
)

var mnemonics = map[Opcode]string{
	OP_ADD: "ADD", OP_SUB: "SUB", OP_MUL: "MUL", OP_DIV: "DIV", OP_MOD: "MOD",
	OP_INC: "INC", OP_DEC: "DEC", OP_CMP: "CMP", OP_AND: "AND", OP_NOT: "NOT",
	OP_OR: "OR", OP_XOR: "XOR", OP_SHL: "SHL", OP_SHR: "SHR",

	OP_CALL: "CALL", OP_RET: "RET", OP_INT: "INT", OP_IRET: "IRET",
	OP_JMP: "JMP", OP_JEQ: "JEQ", OP_JNE: "JNE", OP_JGT: "JGT",
	OP_JLT: "JLT", OP_JLE: "JLE", OP_JGE: "JGE",

	OP_NOP: "NOP", OP_HLT: "HLT", OP_LDI: "LDI", OP_LD: "LD", OP_ST: "ST",
	OP_PUSH: "PUSH", OP_POP: "POP", OP_PRN: "PRN", OP_PRA: "PRA",
}

var opcodes = func() map[string]Opcode {
	table := make(map[string]Opcode, len(mnemonics))
	for op, name := range mnemonics {
		table[name] = op
	}
	return table
}()

// Info describes a decoded opcode.
type Info struct {
	Mnemonic    string
	Operands    int  // Number of operand bytes following the opcode.
	IsAlu       bool // Executed by the ALU.
	IsPcMutator bool // May set the PC directly.
	SetsFlags   bool // Updates the flags register.
}

// Length returns the instruction length in bytes.
func (info Info) Length() int {
	return info.Operands + 1
}

// Operands returns the operand count encoded in the opcode.
func (op Opcode) Operands() int {
	return int(op >> OPCODE_OPERANDS_SHIFT)
}

// IsAlu is true for ALU opcodes.
func (op Opcode) IsAlu() bool {
	return op&OPCODE_ALU != 0
}

// IsPcMutator is true for opcodes that may set the PC.
func (op Opcode) IsPcMutator() bool {
	return op&OPCODE_PC_MUTATOR != 0
}

// Valid is true if the opcode is part of the instruction set.
func (op Opcode) Valid() bool {
	_, ok := mnemonics[op]
	return ok
}

// OperandKind returns how operand n of the opcode is interpreted.
// Only LDI carries an immediate, as its second operand.
func (op Opcode) OperandKind(n int) OperandKind {
	if op == OP_LDI && n == 1 {
		return OPERAND_IMMEDIATE
	}
	return OPERAND_REGISTER
}

// String returns the mnemonic, or the hex value of an unknown opcode.
func (op Opcode) String() string {
	name, ok := mnemonics[op]
	if !ok {
		return fmt.Sprintf("??%02X", byte(op))
	}
	return name
}

// Decode classifies an opcode byte.
func Decode(opcode byte) (info Info, err error) {
	op := Opcode(opcode)
	name, ok := mnemonics[op]
	if !ok {
		err = ErrIllegalInstruction
		return
	}

	info = Info{
		Mnemonic:    name,
		Operands:    op.Operands(),
		IsAlu:       op.IsAlu(),
		IsPcMutator: op.IsPcMutator(),
		SetsFlags:   op == OP_CMP,
	}
	return
}

// Lookup finds the opcode for a mnemonic, ignoring case.
func Lookup(mnemonic string) (op Opcode, ok bool) {
	op, ok = opcodes[strings.ToUpper(mnemonic)]
	return
}
