package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Execution faults
	ErrOutOfBounds          = errors.New(f("address out of bounds"))
	ErrStackFault           = errors.New(f("stack fault"))
	ErrDivideByZero         = errors.New(f("divide by zero"))
	ErrIllegalInstruction   = errors.New(f("illegal instruction"))
	ErrUnsupportedOperation = errors.New(f("unsupported alu operation"))
	ErrOutput               = errors.New(f("output failed"))

	// Load errors
	ErrTooLarge    = errors.New(f("program too large"))
	ErrParseBinary = errors.New(f("not a binary literal"))

	// Interrupt errors
	ErrLineInvalid = errors.New(f("interrupt line invalid"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeMissing      = errors.New(f("operand missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrValueRange         = errors.New(f("value out of range"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// Fault is a fatal execution fault, reporting where the machine stopped.
type Fault struct {
	Pc       int    // Address of the faulting instruction.
	Opcode   byte   // Opcode byte at Pc, if it could be fetched.
	Operands []byte // Operand bytes that were fetched.
	Err      error  // Cause of the fault.
}

func (fault *Fault) Error() string {
	return f("fault at 0x%02x opcode 0x%02x %v: %v", fault.Pc, fault.Opcode, Opcode(fault.Opcode), fault.Err)
}

func (fault *Fault) Unwrap() error {
	return fault.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
