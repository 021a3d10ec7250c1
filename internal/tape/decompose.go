package tape

// AbsDecompose returns an equivalent tape in which every Min and Max
// node is rewritten through its abs form,
//
//	min(a, b) = ((a+b) - |a-b|) / 2
//	max(a, b) = ((a+b) + |a-b|) / 2
//
// and no other structural change is made. After decomposition NumAbs
// counts every switching point of the function, which is what the
// abs-normal driver requires. A tape without Min or Max nodes is
// returned unchanged.
func (t *Tape) AbsDecompose() *Tape {
	rewrite := false
	for _, n := range t.nodes {
		if n.Op == OpMin || n.Op == OpMax {
			rewrite = true
			break
		}
	}
	if !rewrite {
		return t
	}

	out := &Tape{
		nodes:     make([]Node, 0, 2*len(t.nodes)),
		numIndeps: t.numIndeps,
	}
	// remap[i] is the slot in out holding the value of slot i in t.
	remap := make([]int, len(t.nodes))

	push := func(n Node) int {
		idx := len(out.nodes)
		out.nodes = append(out.nodes, n)
		if n.Op == OpAbs {
			out.numAbs++
		}
		return idx
	}

	for i, n := range t.nodes {
		switch n.Op {
		case OpMin, OpMax:
			a, b := remap[n.A], remap[n.B]
			sum := push(binaryNode(OpAdd, a, b))
			diff := push(binaryNode(OpSub, a, b))
			abs := push(unaryNode(OpAbs, diff))
			comb := OpSub
			if n.Op == OpMax {
				comb = OpAdd
			}
			half := push(binaryNode(comb, sum, abs))
			two := push(constNode(2))
			remap[i] = push(binaryNode(OpDiv, half, two))
		case OpIndep, OpConst:
			remap[i] = push(n)
		default:
			m := n
			m.A = remap[n.A]
			if m.B != noOperand {
				m.B = remap[n.B]
			}
			remap[i] = push(m)
		}
	}

	out.deps = make([]int, len(t.deps))
	for i, d := range t.deps {
		out.deps[i] = remap[d]
	}
	return out
}
