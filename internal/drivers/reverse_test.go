package drivers_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absgrad-ml/absgrad/internal/drivers"
	"github.com/absgrad-ml/absgrad/internal/tape"
)

func TestFirstOrderReverse_Identity(t *testing.T) {
	tp := identityTape()
	y, xbar, err := drivers.FirstOrderReverse(tp, []float64{3}, []float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, y[0], 1e-12)
	assert.InDelta(t, 1.0, xbar[0], 1e-12)
}

func TestFirstOrderReverse_NonlinearFunctions(t *testing.T) {
	const at = 0.5
	for _, tc := range unaryCases() {
		t.Run(tc.name, func(t *testing.T) {
			tp := tape.Trace(1, func(_ *tape.Context, x []*tape.Var) []*tape.Var {
				return []*tape.Var{tc.build(x[0])}
			})
			_, xbar, err := drivers.FirstOrderReverse(tp, []float64{at}, []float64{1})
			require.NoError(t, err)
			assert.InDelta(t, tc.deriv(at), xbar[0], 1e-12)
		})
	}
}

func TestFirstOrderReverse_Product(t *testing.T) {
	tp := tape.Trace(2, func(_ *tape.Context, x []*tape.Var) []*tape.Var {
		return []*tape.Var{x[0].Mul(x[1])}
	})
	y, xbar, err := drivers.FirstOrderReverse(tp, []float64{3, 4}, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, []float64{12}, y)
	assert.Equal(t, []float64{4, 3}, xbar)
}

// TestFirstOrderReverse_FanOut: a slot consumed twice accumulates both
// adjoint contributions.
func TestFirstOrderReverse_FanOut(t *testing.T) {
	// y = x*x + sin(x)
	tp := tape.Trace(1, func(_ *tape.Context, x []*tape.Var) []*tape.Var {
		return []*tape.Var{x[0].Mul(x[0]).Add(x[0].Sin())}
	})
	at := 1.3
	_, xbar, err := drivers.FirstOrderReverse(tp, []float64{at}, []float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 2*at+math.Cos(at), xbar[0], 1e-12)
}

// TestFirstOrderReverse_RepeatedDependent: a dependent listed twice
// contributes once per listing.
func TestFirstOrderReverse_RepeatedDependent(t *testing.T) {
	ctx := tape.NewContext()
	x := ctx.NewIndependent()
	y := x.Mul(x)
	ctx.SetDependent(y)
	ctx.SetDependent(y)
	tp := ctx.Freeze()

	yv, xbar, err := drivers.FirstOrderReverse(tp, []float64{3}, []float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 9}, yv)
	// Each listing contributes dy/dx = 6.
	assert.Equal(t, []float64{12}, xbar)
}

// polarTape maps (r, phi) to Cartesian coordinates.
func polarTape() *tape.Tape {
	return tape.Trace(2, func(_ *tape.Context, x []*tape.Var) []*tape.Var {
		r, phi := x[0], x[1]
		return []*tape.Var{r.Mul(phi.Cos()), r.Mul(phi.Sin())}
	})
}

// TestForwardReverseConsistency checks the adjoint identity
// <ybar, F'(x)dx> == <F'(x)^T ybar, dx> on smooth and switching tapes.
func TestForwardReverseConsistency(t *testing.T) {
	cases := []struct {
		name string
		tp   *tape.Tape
		x    []float64
	}{
		{"polar", polarTape(), []float64{2, math.Pi / 3}},
		{"arithmetic", arithmeticTape(), []float64{1.7, -0.4}},
		{"halfpipe", halfpipeTape(), []float64{1.5, 2.5}},
	}
	dxs := [][]float64{{1, 0}, {0, 1}, {0.3, -0.7}}
	ybars := [][]float64{{1}, {0.2}, {-1.1}}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := tc.tp.NumDeps()
			for _, dx := range dxs {
				for _, ybar := range ybars {
					yb := make([]float64, m)
					for i := range yb {
						yb[i] = ybar[0] * float64(i+1)
					}
					_, dy, err := drivers.FirstOrder(tc.tp, tc.x, dx)
					require.NoError(t, err)
					_, xbar, err := drivers.FirstOrderReverse(tc.tp, tc.x, yb)
					require.NoError(t, err)
					assert.InDelta(t, dot(yb, dy), dot(xbar, dx), 1e-12)
				}
			}
		})
	}
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func TestFirstOrderReverse_ShapeMismatch(t *testing.T) {
	tp := polarTape()
	_, _, err := drivers.FirstOrderReverse(tp, []float64{1, 2}, []float64{1})
	assert.Error(t, err)
	_, _, err = drivers.FirstOrderReverse(tp, []float64{1}, []float64{1, 0})
	assert.Error(t, err)
}
