// Package drivers implements the evaluation drivers that replay frozen
// tapes: zero- and first-order forward, first-order reverse, dense
// Jacobians, the abs-normal decomposition of abs-factorable functions
// and the generalized Jacobian derived from it.
//
// Every driver is a pure function of (tape, inputs): it allocates its
// own scratch, never mutates the tape, and either returns complete
// outputs or an error with no partial progress. Caller mistakes (wrong
// input lengths, arguments outside an elementary's domain) surface as
// errors; corrupted tapes panic.
package drivers

import (
	"github.com/absgrad-ml/absgrad/internal/tape"
)

// ZeroOrder evaluates the recorded function at x and returns the
// dependent values in declaration order.
func ZeroOrder(t *tape.Tape, x []float64) ([]float64, error) {
	if err := checkInput(t, "x", x); err != nil {
		return nil, err
	}
	v, err := values(t, x)
	if err != nil {
		return nil, err
	}
	return gatherDeps(t, v), nil
}

// FirstOrder evaluates the function at x and simultaneously propagates
// the tangent dx through every elementary operation, returning the
// values y and the directional derivatives dy = F'(x)*dx.
func FirstOrder(t *tape.Tape, x, dx []float64) (y, dy []float64, err error) {
	if err = checkInput(t, "x", x); err != nil {
		return nil, nil, err
	}
	if err = checkInput(t, "dx", dx); err != nil {
		return nil, nil, err
	}
	v, err := values(t, x)
	if err != nil {
		return nil, nil, err
	}
	dv := make([]float64, t.Len())
	copy(dv, dx)
	propagateTangents(t, v, dv, false)
	return gatherDeps(t, v), gatherDeps(t, dv), nil
}

// gatherDeps extracts the dependent entries of a scratch vector.
func gatherDeps(t *tape.Tape, v []float64) []float64 {
	out := make([]float64, t.NumDeps())
	for i, d := range t.Deps() {
		out[i] = v[d]
	}
	return out
}
