// Copyright 2025 The Absgrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tape provides the public API for recording numerical
// programs as evaluation tapes.
//
// # Overview
//
// A Context owns a tape under construction. Independent variables are
// minted as Vars; every arithmetic or elementary operation on a Var
// appends one node to the tape and returns a handle to the result
// slot. Marking dependents and freezing yields an immutable Tape that
// the drivers package replays for values, directional derivatives,
// adjoints, Jacobians and abs-normal forms.
//
// # Basic Usage
//
//	import (
//	    "github.com/absgrad-ml/absgrad/drivers"
//	    "github.com/absgrad-ml/absgrad/tape"
//	)
//
//	func main() {
//	    ctx := tape.NewContext()
//	    a := ctx.NewIndependent()
//	    b := ctx.NewIndependent()
//	    ctx.SetDependent(a.Mul(b).Sin())
//	    t := ctx.Freeze()
//
//	    y, _ := drivers.ZeroOrder(t, []float64{3, 4})
//	    jac, _ := drivers.Jacobian(t, []float64{3, 4})
//	    _ = y
//	    _ = jac
//	}
//
// # Recording Semantics
//
// Vars are single-assignment values: no operation ever overwrites a
// slot, and copying a Var duplicates the handle, not the slot. Mixing
// a primitive float64 into an operation lifts it through a Const node
// (Context.Const, or the *Const convenience methods).
//
// Recording is single-threaded per context; a frozen Tape is immutable
// and may be shared across goroutines freely.
package tape
