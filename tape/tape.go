// Copyright 2025 The Absgrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tape

import (
	"github.com/absgrad-ml/absgrad/internal/tape"
)

// Type aliases for public API

// Context records a function evaluation into a tape.
type Context = tape.Context

// Tape is an immutable recording of a function evaluation.
type Tape = tape.Tape

// Var is an active scalar: a handle to a single tape slot.
type Var = tape.Var

// Node is one recorded elementary operation.
type Node = tape.Node

// OpCode identifies the operation performed by a Node.
type OpCode = tape.OpCode

// Operation tags, re-exported for callers that inspect tapes.
const (
	OpIndep = tape.OpIndep
	OpConst = tape.OpConst
	OpCopy  = tape.OpCopy
	OpAdd   = tape.OpAdd
	OpSub   = tape.OpSub
	OpMul   = tape.OpMul
	OpDiv   = tape.OpDiv
	OpPow   = tape.OpPow
	OpNeg   = tape.OpNeg
	OpSin   = tape.OpSin
	OpCos   = tape.OpCos
	OpTan   = tape.OpTan
	OpAsin  = tape.OpAsin
	OpAcos  = tape.OpAcos
	OpAtan  = tape.OpAtan
	OpExp   = tape.OpExp
	OpLn    = tape.OpLn
	OpAbs   = tape.OpAbs
	OpMin   = tape.OpMin
	OpMax   = tape.OpMax
)

// NewContext creates an empty recording context.
func NewContext() *Context {
	return tape.NewContext()
}

// Trace records f over nIn independents and returns the frozen tape.
//
// Example:
//
//	t := tape.Trace(2, func(ctx *tape.Context, x []*tape.Var) []*tape.Var {
//	    return []*tape.Var{x[0].Max(x[1])}
//	})
func Trace(nIn int, f func(*Context, []*Var) []*Var) *Tape {
	return tape.Trace(nIn, f)
}
