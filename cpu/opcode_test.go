package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		opcode   byte
		mnemonic string
		operands int
		alu      bool
		pc       bool
		flags    bool
	}){
		{0x00, "NOP", 0, false, false, false},
		{0x01, "HLT", 0, false, false, false},
		{0x82, "LDI", 2, false, false, false},
		{0x83, "LD", 2, false, false, false},
		{0x84, "ST", 2, false, false, false},
		{0x45, "PUSH", 1, false, false, false},
		{0x46, "POP", 1, false, false, false},
		{0x47, "PRN", 1, false, false, false},
		{0x48, "PRA", 1, false, false, false},
		{0xa0, "ADD", 2, true, false, false},
		{0xa1, "SUB", 2, true, false, false},
		{0xa2, "MUL", 2, true, false, false},
		{0xa3, "DIV", 2, true, false, false},
		{0xa4, "MOD", 2, true, false, false},
		{0x65, "INC", 1, true, false, false},
		{0x66, "DEC", 1, true, false, false},
		{0xa7, "CMP", 2, true, false, true},
		{0xa8, "AND", 2, true, false, false},
		{0x69, "NOT", 1, true, false, false},
		{0xaa, "OR", 2, true, false, false},
		{0xab, "XOR", 2, true, false, false},
		{0xac, "SHL", 2, true, false, false},
		{0xad, "SHR", 2, true, false, false},
		{0x50, "CALL", 1, false, true, false},
		{0x11, "RET", 0, false, true, false},
		{0x52, "INT", 1, false, true, false},
		{0x13, "IRET", 0, false, true, false},
		{0x54, "JMP", 1, false, true, false},
		{0x55, "JEQ", 1, false, true, false},
		{0x56, "JNE", 1, false, true, false},
		{0x57, "JGT", 1, false, true, false},
		{0x58, "JLT", 1, false, true, false},
		{0x59, "JLE", 1, false, true, false},
		{0x5a, "JGE", 1, false, true, false},
	}

	assert.Equal(len(mnemonics), len(table))

	for _, entry := range table {
		info, err := Decode(entry.opcode)
		assert.NoError(err, entry.mnemonic)
		assert.Equal(entry.mnemonic, info.Mnemonic)
		assert.Equal(entry.operands, info.Operands, entry.mnemonic)
		assert.Equal(entry.operands+1, info.Length(), entry.mnemonic)
		assert.Equal(entry.alu, info.IsAlu, entry.mnemonic)
		assert.Equal(entry.pc, info.IsPcMutator, entry.mnemonic)
		assert.Equal(entry.flags, info.SetsFlags, entry.mnemonic)
		assert.Equal(entry.mnemonic, Opcode(entry.opcode).String())

		op, ok := Lookup(entry.mnemonic)
		assert.True(ok)
		assert.Equal(Opcode(entry.opcode), op)
		assert.NotNil(handlers[op], entry.mnemonic)
	}
}

func TestDecode_Illegal(t *testing.T) {
	assert := assert.New(t)

	for opcode := range 256 {
		_, err := Decode(byte(opcode))
		if Opcode(opcode).Valid() {
			assert.NoError(err)
		} else {
			assert.ErrorIs(err, ErrIllegalInstruction)
			assert.Nil(handlers[opcode])
		}
	}

	_, err := Decode(0xff)
	assert.ErrorIs(err, ErrIllegalInstruction)
	assert.Equal("??FF", Opcode(0xff).String())
}

func TestLookup(t *testing.T) {
	assert := assert.New(t)

	op, ok := Lookup("ldi")
	assert.True(ok)
	assert.Equal(OP_LDI, op)

	_, ok = Lookup("MOV")
	assert.False(ok)
}

func TestOperandKind(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(OPERAND_REGISTER, OP_LDI.OperandKind(0))
	assert.Equal(OPERAND_IMMEDIATE, OP_LDI.OperandKind(1))
	assert.Equal(OPERAND_REGISTER, OP_ADD.OperandKind(1))
}

func TestInstruction_String(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		ins      Instruction
		expected string
	}){
		{Instruction{Opcode: OP_LDI, Operands: []byte{0, 8}}, "LDI R0,0x08"},
		{Instruction{Opcode: OP_MUL, Operands: []byte{0, 1}}, "MUL R0,R1"},
		{Instruction{Opcode: OP_PRN, Operands: []byte{7}}, "PRN R7"},
		{Instruction{Opcode: OP_HLT}, "HLT"},
	}

	for _, entry := range table {
		assert.Equal(entry.expected, entry.ins.String())
	}
}
