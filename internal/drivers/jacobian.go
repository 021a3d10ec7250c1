package drivers

import (
	"gonum.org/v1/gonum/mat"

	"github.com/absgrad-ml/absgrad/internal/tape"
)

// Jacobian assembles the dense m-by-n Jacobian of the recorded
// function at x using forward mode: one tangent sweep per standard
// basis vector fills one column. Forward mode is the cheaper choice
// when the function has few inputs and many outputs.
func Jacobian(t *tape.Tape, x []float64) (*mat.Dense, error) {
	if err := checkInput(t, "x", x); err != nil {
		return nil, err
	}
	v, err := values(t, x)
	if err != nil {
		return nil, err
	}
	m, n := t.NumDeps(), t.NumIndeps()
	jac := mat.NewDense(m, n, nil)
	dv := make([]float64, t.Len())
	for j := 0; j < n; j++ {
		clearAndSeed(dv, j, 1)
		propagateTangents(t, v, dv, false)
		for i, d := range t.Deps() {
			jac.Set(i, j, dv[d])
		}
	}
	return jac, nil
}

// JacobianReverse assembles the same matrix using reverse mode: one
// adjoint sweep per dependent fills one row. Reverse mode wins when
// the function has many inputs and few outputs, gradients being the
// extreme case.
func JacobianReverse(t *tape.Tape, x []float64) (*mat.Dense, error) {
	if err := checkInput(t, "x", x); err != nil {
		return nil, err
	}
	v, err := values(t, x)
	if err != nil {
		return nil, err
	}
	m, n := t.NumDeps(), t.NumIndeps()
	jac := mat.NewDense(m, n, nil)
	bar := make([]float64, t.Len())
	for i := 0; i < m; i++ {
		for k := range bar {
			bar[k] = 0
		}
		// Seed only row i; repeated dependents still accumulate into
		// their shared slot when their own row is seeded.
		bar[t.Deps()[i]] = 1
		propagateAdjoints(t, v, bar)
		for j := 0; j < n; j++ {
			jac.Set(i, j, bar[j])
		}
	}
	return jac, nil
}

// clearAndSeed zeroes dv and plants a unit seed at slot j.
func clearAndSeed(dv []float64, j int, seed float64) {
	for k := range dv {
		dv[k] = 0
	}
	dv[j] = seed
}
