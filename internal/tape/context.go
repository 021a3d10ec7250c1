package tape

import "fmt"

// Context owns a tape under construction. It mints independent
// variables, records the operations performed on the Vars derived from
// them, marks dependents, and finally freezes the buffer into an
// immutable Tape.
//
// A Context and the Vars derived from it must not be used from more
// than one goroutine concurrently. Multiple independent contexts may
// coexist in the same process.
//
// Usage:
//
//	ctx := tape.NewContext()
//	x := ctx.NewIndependent()
//	y := ctx.NewIndependent()
//	ctx.SetDependent(x.Mul(y))
//	t := ctx.Freeze()
type Context struct {
	nodes     []Node
	deps      []int
	numIndeps int
	numAbs    int
	frozen    bool
}

// NewContext creates an empty recording context.
func NewContext() *Context {
	return &Context{
		nodes: make([]Node, 0, 64), // Pre-allocate for common case
	}
}

// append records a node and returns its slot index.
func (c *Context) append(n Node) int {
	if c.frozen {
		panic("tape: context used after Freeze")
	}
	idx := len(c.nodes)
	if n.A >= idx || n.B >= idx {
		panic(fmt.Sprintf("tape: node %s references slot beyond %d", n, idx))
	}
	c.nodes = append(c.nodes, n)
	if n.Op == OpAbs {
		c.numAbs++
	}
	return idx
}

// NewIndependent appends an Independent node and returns its handle.
// Independents occupy the first slots of the tape: calling
// NewIndependent after any other operation has been recorded panics.
func (c *Context) NewIndependent() *Var {
	if c.frozen {
		panic("tape: context used after Freeze")
	}
	if len(c.nodes) != c.numIndeps {
		panic("tape: NewIndependent called after operations were recorded")
	}
	idx := c.append(indepNode())
	c.numIndeps++
	return &Var{ctx: c, idx: idx}
}

// NewIndependents mints n independents in order.
func (c *Context) NewIndependents(n int) []*Var {
	vars := make([]*Var, n)
	for i := range vars {
		vars[i] = c.NewIndependent()
	}
	return vars
}

// Const lifts a primitive value into the tape and returns its handle.
func (c *Context) Const(v float64) *Var {
	return &Var{ctx: c, idx: c.append(constNode(v))}
}

// SetDependent marks v as a function output. The same variable may be
// marked more than once; each marking produces its own row in the
// Jacobian.
func (c *Context) SetDependent(v *Var) {
	if c.frozen {
		panic("tape: context used after Freeze")
	}
	if v.ctx != c {
		panic("tape: SetDependent called with a Var from another context")
	}
	c.deps = append(c.deps, v.idx)
}

// SetDependents marks every variable in the slice, in order.
func (c *Context) SetDependents(vs []*Var) {
	for _, v := range vs {
		c.SetDependent(v)
	}
}

// Freeze transfers the recorded buffer into an immutable Tape and
// leaves the context empty. Using the context, or any Var derived from
// it, after Freeze panics.
func (c *Context) Freeze() *Tape {
	if c.frozen {
		panic("tape: Freeze called twice")
	}
	t := &Tape{
		nodes:     c.nodes,
		deps:      c.deps,
		numIndeps: c.numIndeps,
		numAbs:    c.numAbs,
	}
	c.nodes = nil
	c.deps = nil
	c.numIndeps = 0
	c.numAbs = 0
	c.frozen = true
	return t
}

// Trace records the function f over nIn independents and returns the
// frozen tape. It is the one-call form of the NewContext /
// NewIndependent / SetDependent / Freeze sequence:
//
//	t := tape.Trace(2, func(ctx *tape.Context, x []*tape.Var) []*tape.Var {
//		return []*tape.Var{x[0].Mul(x[1])}
//	})
func Trace(nIn int, f func(*Context, []*Var) []*Var) *Tape {
	ctx := NewContext()
	out := f(ctx, ctx.NewIndependents(nIn))
	ctx.SetDependents(out)
	return ctx.Freeze()
}
