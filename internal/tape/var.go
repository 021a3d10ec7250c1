package tape

// Var is a handle to a single tape slot: an active scalar. Operations
// on Vars do not compute anything; they append nodes to the owning
// context and return a handle to the fresh slot.
//
// Vars are single-assignment values. Copying a Var (or rebinding a Go
// variable that holds one) duplicates the handle, not the slot; use
// Copy to materialize a fresh slot that aliases the value.
type Var struct {
	ctx *Context
	idx int
}

// Index returns the slot this handle refers to.
func (v *Var) Index() int {
	return v.idx
}

// binary appends a two-operand node. Both operands must belong to the
// same context.
func (v *Var) binary(op OpCode, o *Var) *Var {
	if v.ctx != o.ctx {
		panic("tape: operands recorded on different contexts")
	}
	return &Var{ctx: v.ctx, idx: v.ctx.append(binaryNode(op, v.idx, o.idx))}
}

// binaryConst lifts c through a Const node, then appends the binary
// node with the lifted slot as second operand.
func (v *Var) binaryConst(op OpCode, c float64) *Var {
	return v.binary(op, v.ctx.Const(c))
}

func (v *Var) unary(op OpCode) *Var {
	return &Var{ctx: v.ctx, idx: v.ctx.append(unaryNode(op, v.idx))}
}

// Add records v + o.
func (v *Var) Add(o *Var) *Var { return v.binary(OpAdd, o) }

// Sub records v - o.
func (v *Var) Sub(o *Var) *Var { return v.binary(OpSub, o) }

// Mul records v * o.
func (v *Var) Mul(o *Var) *Var { return v.binary(OpMul, o) }

// Div records v / o.
func (v *Var) Div(o *Var) *Var { return v.binary(OpDiv, o) }

// Pow records v^o.
func (v *Var) Pow(o *Var) *Var { return v.binary(OpPow, o) }

// Min records min(v, o). Derivative drivers prefer v at ties.
func (v *Var) Min(o *Var) *Var { return v.binary(OpMin, o) }

// Max records max(v, o). Derivative drivers prefer v at ties.
func (v *Var) Max(o *Var) *Var { return v.binary(OpMax, o) }

// AddConst records v + c, lifting c through a Const node first.
func (v *Var) AddConst(c float64) *Var { return v.binaryConst(OpAdd, c) }

// SubConst records v - c.
func (v *Var) SubConst(c float64) *Var { return v.binaryConst(OpSub, c) }

// MulConst records v * c.
func (v *Var) MulConst(c float64) *Var { return v.binaryConst(OpMul, c) }

// DivConst records v / c.
func (v *Var) DivConst(c float64) *Var { return v.binaryConst(OpDiv, c) }

// PowConst records v^c.
func (v *Var) PowConst(c float64) *Var { return v.binaryConst(OpPow, c) }

// Neg records -v.
func (v *Var) Neg() *Var { return v.unary(OpNeg) }

// Abs records |v|, a switching operation.
func (v *Var) Abs() *Var { return v.unary(OpAbs) }

// Sin records sin(v).
func (v *Var) Sin() *Var { return v.unary(OpSin) }

// Cos records cos(v).
func (v *Var) Cos() *Var { return v.unary(OpCos) }

// Tan records tan(v).
func (v *Var) Tan() *Var { return v.unary(OpTan) }

// Asin records asin(v).
func (v *Var) Asin() *Var { return v.unary(OpAsin) }

// Acos records acos(v).
func (v *Var) Acos() *Var { return v.unary(OpAcos) }

// Atan records atan(v).
func (v *Var) Atan() *Var { return v.unary(OpAtan) }

// Exp records e^v.
func (v *Var) Exp() *Var { return v.unary(OpExp) }

// Ln records the natural logarithm of v.
func (v *Var) Ln() *Var { return v.unary(OpLn) }

// Sqrt records v^0.5.
func (v *Var) Sqrt() *Var { return v.PowConst(0.5) }

// Copy records an explicit alias of v into a fresh slot.
func (v *Var) Copy() *Var { return v.unary(OpCopy) }
