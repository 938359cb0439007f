package cpu

// Alu performs the requested ALU operation on a and b.
//
// Unary operations (INC, DEC, NOT) ignore b. CMP produces no result, only
// the comparison outcome in cmp.
func Alu(op Opcode, a, b byte) (result byte, cmp Compare, err error) {
	switch op {
	case OP_ADD:
		result = a + b
	case OP_SUB:
		result = a - b
	case OP_MUL:
		result = a * b
	case OP_DIV:
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		result = a / b
	case OP_MOD:
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		result = a % b
	case OP_INC:
		result = a + 1
	case OP_DEC:
		result = a - 1
	case OP_CMP:
		switch {
		case a < b:
			cmp = COMPARE_LESS
		case a > b:
			cmp = COMPARE_GREATER
		default:
			cmp = COMPARE_EQUAL
		}
	case OP_AND:
		result = a & b
	case OP_NOT:
		result = ^a
	case OP_OR:
		result = a | b
	case OP_XOR:
		result = a ^ b
	case OP_SHL:
		// Go shifts of 8 or more clear the byte.
		result = a << b
	case OP_SHR:
		result = a >> b
	default:
		err = ErrUnsupportedOperation
	}

	return
}

// aluUnary is true for ALU operations that write back to their only operand.
func aluUnary(op Opcode) bool {
	return op == OP_INC || op == OP_DEC || op == OP_NOT
}
