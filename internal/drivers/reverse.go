package drivers

import (
	"github.com/absgrad-ml/absgrad/internal/tape"
)

// FirstOrderReverse evaluates the function at x, then runs the adjoint
// sweep seeded with ybar, returning the values y and the input
// adjoints xbar = F'(x)^T * ybar.
//
// Seeds accumulate: a slot listed more than once in the dependent list
// receives the sum of its ybar entries, so repeated dependents
// contribute independently, matching the Jacobian interpretation.
func FirstOrderReverse(t *tape.Tape, x, ybar []float64) (y, xbar []float64, err error) {
	if err = checkInput(t, "x", x); err != nil {
		return nil, nil, err
	}
	if err = checkSeed(t, "ybar", ybar); err != nil {
		return nil, nil, err
	}
	v, err := values(t, x)
	if err != nil {
		return nil, nil, err
	}
	bar := make([]float64, t.Len())
	for i, d := range t.Deps() {
		bar[d] += ybar[i]
	}
	propagateAdjoints(t, v, bar)
	// Independents occupy the first slots.
	xbar = make([]float64, t.NumIndeps())
	copy(xbar, bar)
	return gatherDeps(t, v), xbar, nil
}
