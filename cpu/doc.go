// Package cpu implements the LS-8 microprocessor and its assembler.
//
// The CPU consists of a program counter (PC), eight 8-bit general-purpose
// registers (r0-r7, with r5 as the interrupt mask, r6 as the interrupt status
// and r7 as the stack pointer), a flags register, an ALU and 256 bytes of
// memory. The stack grows downward from 0xF4, and the interrupt vector table
// occupies the top eight bytes of memory.
//
// The assembler provides an assembly language for the LS-8 instruction set,
// supporting macros, labels, equates, data directives, and compile-time
// expression evaluation. The binary loader reads the plain-text format of
// one binary literal per line.
package cpu
