package tape

import "fmt"

// noOperand marks an unused operand field.
const noOperand = -1

// Node is one recorded elementary operation. It stores only the
// operation tag and the operand slot indices; values, tangents and
// adjoints live in per-sweep scratch vectors owned by the drivers, so a
// tape is a pure program that can be replayed concurrently.
type Node struct {
	// Op is the operation tag.
	Op OpCode
	// A and B are operand slot indices, or -1 when the operation takes
	// fewer operands. Operands always refer to strictly earlier slots.
	A, B int
	// Const is the lifted value for OpConst nodes and unused otherwise.
	Const float64
}

func indepNode() Node {
	return Node{Op: OpIndep, A: noOperand, B: noOperand}
}

func constNode(c float64) Node {
	return Node{Op: OpConst, A: noOperand, B: noOperand, Const: c}
}

func unaryNode(op OpCode, a int) Node {
	return Node{Op: op, A: a, B: noOperand}
}

func binaryNode(op OpCode, a, b int) Node {
	return Node{Op: op, A: a, B: b}
}

// String formats the node for debugging and invariant-violation messages.
func (n Node) String() string {
	switch n.Op.NumOperands() {
	case 0:
		if n.Op == OpConst {
			return fmt.Sprintf("%s(%g)", n.Op, n.Const)
		}
		return n.Op.String()
	case 1:
		return fmt.Sprintf("%s(v%d)", n.Op, n.A)
	default:
		return fmt.Sprintf("%s(v%d, v%d)", n.Op, n.A, n.B)
	}
}
