package tape

// OpCode identifies the elementary operation performed by a Node.
//
// The set is closed: evaluation drivers switch over it exhaustively and
// treat an unknown opcode as a corrupted tape.
type OpCode uint8

const (
	// OpIndep marks an independent variable slot. Carries no operand.
	OpIndep OpCode = iota
	// OpConst lifts a primitive float64 into the tape.
	OpConst
	// OpCopy aliases an earlier slot into a fresh one.
	OpCopy

	// Binary arithmetic.
	OpAdd
	OpSub
	OpMul
	OpDiv
	// OpPow is x^y with both operands on the tape.
	OpPow

	// Unary.
	OpNeg
	OpSin
	OpCos
	OpTan
	OpAsin
	OpAcos
	OpAtan
	OpExp
	OpLn

	// OpAbs is the switching operation of abs-factorable functions.
	OpAbs
	// OpMin and OpMax are evaluated natively by the value and derivative
	// drivers and rewritten to abs form by Tape.AbsDecompose.
	OpMin
	OpMax
)

var opNames = [...]string{
	OpIndep: "Indep",
	OpConst: "Const",
	OpCopy:  "Copy",
	OpAdd:   "Add",
	OpSub:   "Sub",
	OpMul:   "Mul",
	OpDiv:   "Div",
	OpPow:   "Pow",
	OpNeg:   "Neg",
	OpSin:   "Sin",
	OpCos:   "Cos",
	OpTan:   "Tan",
	OpAsin:  "Asin",
	OpAcos:  "Acos",
	OpAtan:  "Atan",
	OpExp:   "Exp",
	OpLn:    "Ln",
	OpAbs:   "Abs",
	OpMin:   "Min",
	OpMax:   "Max",
}

// String returns the opcode mnemonic.
func (op OpCode) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "Invalid"
}

// NumOperands returns how many operand slots the opcode reads (0, 1 or 2).
func (op OpCode) NumOperands() int {
	switch op {
	case OpIndep, OpConst:
		return 0
	case OpAdd, OpSub, OpMul, OpDiv, OpPow, OpMin, OpMax:
		return 2
	default:
		return 1
	}
}
