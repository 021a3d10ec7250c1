package drivers

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/absgrad-ml/absgrad/internal/tape"
)

// AbsNormalForm is the piecewise linearization of an abs-factorable
// function F: R^n -> R^m with s switching points at a base point x,
//
//	z  = a + Z*dx + L*|z|
//	y' = b + J*dx + Y*|z|
//
// where |z| is the componentwise absolute value and y' approximates
// F(x+dx). At dx = 0 the reconstruction reproduces F(x) exactly: the
// offset b equals F(x) - Y*|a|-contribution, so b + Y*|z| = F(x).
//
// L is strictly lower triangular: a switching variable depends only on
// switches recorded earlier on the tape. All matrices are dense and
// row-major.
type AbsNormalForm struct {
	// A has length s: the switching-argument values at x.
	A *mat.VecDense
	// B has length m: the smooth offset of the dependents.
	B *mat.VecDense
	// Z is s-by-n: switching sensitivity to the independents.
	Z *mat.Dense
	// L is s-by-s strictly lower triangular: switching sensitivity to
	// earlier switches.
	L *mat.Dense
	// J is m-by-n: dependent sensitivity to the independents with every
	// switch frozen.
	J *mat.Dense
	// Y is m-by-s: dependent sensitivity to the switches.
	Y *mat.Dense
}

// S returns the number of switching points.
func (f *AbsNormalForm) S() int {
	if f.A == nil {
		return 0
	}
	return f.A.Len()
}

// AbsNormal computes the abs-normal form of the recorded function at
// x. The tape is decomposed first, so Min and Max nodes contribute
// their switching points; the input tape itself is never modified.
//
// The construction follows the extended-Jacobian view of the form: on
// the decomposed tape the s Abs outputs are treated as additional
// independents (their tangents are frozen at the seed) and the s Abs
// arguments as additional dependents. One frozen forward sweep per
// true independent fills a column of Z and J; one per Abs output fills
// a column of L and Y. Total cost O((n+s) * T).
//
// For a smooth recording (s == 0 after decomposition) A, Z, L and Y
// are nil; B holds F(x) and J the ordinary Jacobian.
func AbsNormal(t *tape.Tape, x []float64) (*AbsNormalForm, error) {
	if err := checkInput(t, "x", x); err != nil {
		return nil, err
	}
	n, m := t.NumIndeps(), t.NumDeps()
	if n == 0 || m == 0 {
		return nil, errors.Errorf("abs-normal needs at least one independent and one dependent, tape has %d and %d", n, m)
	}

	dt := t.AbsDecompose()
	v, err := values(dt, x)
	if err != nil {
		return nil, err
	}
	s := dt.NumAbs()

	// Switching slots and their arguments, in tape order.
	absSlots := make([]int, 0, s)
	absArgs := make([]int, 0, s)
	for k := 0; k < dt.Len(); k++ {
		if nd := dt.Node(k); nd.Op == tape.OpAbs {
			absSlots = append(absSlots, k)
			absArgs = append(absArgs, nd.A)
		}
	}

	form := &AbsNormalForm{
		B: mat.NewVecDense(m, gatherDeps(dt, v)),
		J: mat.NewDense(m, n, nil),
	}
	if s > 0 {
		form.A = mat.NewVecDense(s, nil)
		form.Z = mat.NewDense(s, n, nil)
		form.L = mat.NewDense(s, s, nil)
		form.Y = mat.NewDense(m, s, nil)
	}

	dv := make([]float64, dt.Len())

	// Columns of Z and J: seed the true independents.
	for j := 0; j < n; j++ {
		clearAndSeed(dv, j, 1)
		propagateTangents(dt, v, dv, true)
		for k, arg := range absArgs {
			form.Z.Set(k, j, dv[arg])
		}
		for i, d := range dt.Deps() {
			form.J.Set(i, j, dv[d])
		}
	}

	// Columns of L and Y: seed the Abs outputs. The frozen sweep keeps
	// the seed in place of the Abs tangent rule. Rows at or above the
	// seeded switch stay zero because their arguments precede the
	// seeded slot, which is what makes L strictly lower triangular.
	for c := 0; c < s; c++ {
		clearAndSeed(dv, absSlots[c], 1)
		propagateTangents(dt, v, dv, true)
		for k, arg := range absArgs {
			form.L.Set(k, c, dv[arg])
		}
		for i, d := range dt.Deps() {
			form.Y.Set(i, c, dv[d])
		}
	}

	// Offsets: a = z - L*|z| and b = F(x) - Y*|z|.
	for k, arg := range absArgs {
		a := v[arg]
		for j := 0; j < k; j++ {
			a -= form.L.At(k, j) * math.Abs(v[absArgs[j]])
		}
		form.A.SetVec(k, a)
	}
	for i := 0; i < m; i++ {
		b := form.B.AtVec(i)
		for k, arg := range absArgs {
			b -= form.Y.At(i, k) * math.Abs(v[arg])
		}
		form.B.SetVec(i, b)
	}
	return form, nil
}
