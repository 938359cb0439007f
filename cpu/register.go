package cpu

// Register numbers with a dedicated role.
const (
	REG_IM    = 5 // Interrupt mask.
	REG_IS    = 6 // Interrupt status.
	REG_SP    = 7 // Stack pointer.
	REG_COUNT = 8 // Number of general-purpose registers.
)

// Flags is the comparison flags register, laid out as 00000LGE.
type Flags byte

const (
	FL_EQUAL   = Flags(1 << 0)
	FL_GREATER = Flags(1 << 1)
	FL_LESS    = Flags(1 << 2)
	FL_MASK    = FL_EQUAL | FL_GREATER | FL_LESS
)

// String returns the set flags as "LGE", with '-' for clear bits.
func (fl Flags) String() string {
	out := []byte("---")
	if fl&FL_LESS != 0 {
		out[0] = 'L'
	}
	if fl&FL_GREATER != 0 {
		out[1] = 'G'
	}
	if fl&FL_EQUAL != 0 {
		out[2] = 'E'
	}
	return string(out)
}

// Compare is the outcome of a CMP.
type Compare int

//go:generate go tool stringer -linecomment -type=Compare
const (
	COMPARE_LESS    = Compare(-1) // less
	COMPARE_EQUAL   = Compare(0)  // equal
	COMPARE_GREATER = Compare(1)  // greater
)

// Registers is the register file.
type Registers struct {
	R  [REG_COUNT]byte // r0-r7.
	Fl Flags           // Comparison flags.
}

// Reset sets the registers to their power-on state.
func (regs *Registers) Reset() {
	clear(regs.R[:])
	regs.R[REG_SP] = ADDR_STACK
	regs.Fl = 0
}

// Get returns the value of register r.
func (regs *Registers) Get(r byte) (value byte, err error) {
	if int(r) >= len(regs.R) {
		err = ErrIllegalInstruction
		return
	}

	value = regs.R[r]
	return
}

// Set stores value into register r.
func (regs *Registers) Set(r byte, value byte) (err error) {
	if int(r) >= len(regs.R) {
		err = ErrIllegalInstruction
		return
	}

	regs.R[r] = value
	return
}

// SetFlags records a comparison result, clearing the other flags.
func (regs *Registers) SetFlags(cmp Compare) {
	switch {
	case cmp < 0:
		regs.Fl = FL_LESS
	case cmp > 0:
		regs.Fl = FL_GREATER
	default:
		regs.Fl = FL_EQUAL
	}
}

// Im returns the interrupt mask.
func (regs *Registers) Im() byte {
	return regs.R[REG_IM]
}

// Is returns the interrupt status.
func (regs *Registers) Is() byte {
	return regs.R[REG_IS]
}

// Sp returns the stack pointer.
func (regs *Registers) Sp() byte {
	return regs.R[REG_SP]
}
