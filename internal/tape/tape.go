// Package tape implements the recording runtime of the engine: the
// operation node model, the append-only tape buffer, the recording
// context and the active scalar handle.
//
// Architecture:
//   - Node: tagged record of one elementary operation and its operand
//     slot indices
//   - Tape: frozen, immutable program; an ordered node sequence plus a
//     dependent list and O(1) counters
//   - Context: owns the buffer while it grows; freezing transfers
//     ownership into a Tape
//   - Var: handle to one tape slot; its methods append nodes
//
// A frozen Tape stores no values: drivers in internal/drivers allocate
// their own scratch per sweep, so distinct driver calls against the
// same Tape may run in parallel.
package tape

// Tape is an immutable recording of a function evaluation: a
// topologically ordered node sequence N[0..Len), the dependent slot
// list, and counters over the recorded operations.
//
// Invariants (established by Context and relied on by every driver):
//  1. Operands of N[k] refer to slots strictly below k.
//  2. The first NumIndeps slots are exactly the Independent nodes.
//  3. Every dependent index is a valid slot.
type Tape struct {
	nodes     []Node
	deps      []int
	numIndeps int
	numAbs    int
}

// Len returns the number of slots on the tape.
func (t *Tape) Len() int {
	return len(t.nodes)
}

// Node returns the node occupying slot i.
func (t *Tape) Node(i int) Node {
	return t.nodes[i]
}

// Deps returns the dependent slot list in declaration order. The
// returned slice is owned by the tape and must not be modified.
func (t *Tape) Deps() []int {
	return t.deps
}

// NumIndeps returns the number of independent variables.
func (t *Tape) NumIndeps() int {
	return t.numIndeps
}

// NumDeps returns the number of declared dependents, counting repeats.
func (t *Tape) NumDeps() int {
	return len(t.deps)
}

// NumAbs returns the number of Abs nodes on the tape. Min and Max
// nodes count only after AbsDecompose has rewritten them.
func (t *Tape) NumAbs() int {
	return t.numAbs
}
