package drivers_test

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absgrad-ml/absgrad/internal/drivers"
	"github.com/absgrad-ml/absgrad/internal/tape"
)

// arithmeticTape records the rational expression exercised by the
// mixed-operand arithmetic tests: every binary operation appears once
// with an active left operand, once with a lifted constant on either
// side.
func arithmeticTape() *tape.Tape {
	return tape.Trace(2, func(ctx *tape.Context, x []*tape.Var) []*tape.Var {
		x1, x2 := x[0], x[1]
		v1 := x1.AddConst(2)
		v2 := x1.SubConst(2)
		v3 := x1.MulConst(2)
		v4 := x1.DivConst(2)

		v5 := ctx.Const(2).Add(x2)
		v6 := ctx.Const(2).Sub(x2)
		v7 := ctx.Const(2).Mul(x2)
		v8 := ctx.Const(2).Div(x2)

		v9 := v1.Add(v5)
		v10 := v2.Sub(v6)
		v11 := v3.Mul(v7)
		v12 := v4.Div(v8)

		return []*tape.Var{v9.Add(v10).Add(v11).Add(v12)}
	})
}

func arithmeticRef(x1, x2 float64) float64 {
	v9 := (x1 + 2) + (2 + x2)
	v10 := (x1 - 2) - (2 - x2)
	v11 := (x1 * 2) * (2 * x2)
	v12 := (x1 / 2) / (2 / x2)
	return v9 + v10 + v11 + v12
}

func TestZeroOrder_Arithmetic(t *testing.T) {
	tp := arithmeticTape()
	y, err := drivers.ZeroOrder(tp, []float64{2, 3})
	require.NoError(t, err)
	require.Len(t, y, 1)
	assert.InDelta(t, arithmeticRef(2, 3), y[0], 1e-15)
}

// identityTape is a convoluted recording of the identity function; its
// derivative is exactly 1 everywhere it is defined.
func identityTape() *tape.Tape {
	return tape.Trace(1, func(ctx *tape.Context, x []*tape.Var) []*tape.Var {
		v1 := x[0].Add(x[0]).Sub(x[0].Mul(x[0]).Div(x[0]))
		v2 := v1.AddConst(2).SubConst(2).MulConst(2).DivConst(2)
		v3 := ctx.Const(2).Sub(ctx.Const(2).Add(v2)).Neg()
		v4 := ctx.Const(2).Div(ctx.Const(2).Mul(v3))
		return []*tape.Var{ctx.Const(1).Div(v4)}
	})
}

func TestFirstOrder_Identity(t *testing.T) {
	tp := identityTape()
	y, dy, err := drivers.FirstOrder(tp, []float64{3}, []float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, y[0], 1e-12)
	assert.InDelta(t, 1.0, dy[0], 1e-12)
}

// unaryCase records a single unary elementary together with the closed
// form of its derivative.
type unaryCase struct {
	name  string
	build func(*tape.Var) *tape.Var
	deriv func(float64) float64
}

func unaryCases() []unaryCase {
	return []unaryCase{
		{"sin", (*tape.Var).Sin, math.Cos},
		{"cos", (*tape.Var).Cos, func(x float64) float64 { return -math.Sin(x) }},
		{"tan", (*tape.Var).Tan, func(x float64) float64 { c := math.Cos(x); return 1 / (c * c) }},
		{"exp", (*tape.Var).Exp, math.Exp},
		{"ln", (*tape.Var).Ln, func(x float64) float64 { return 1 / x }},
		{"sqrt", (*tape.Var).Sqrt, func(x float64) float64 { return 0.5 / math.Sqrt(x) }},
		{"asin", (*tape.Var).Asin, func(x float64) float64 { return 1 / math.Sqrt(1-x*x) }},
		{"acos", (*tape.Var).Acos, func(x float64) float64 { return -1 / math.Sqrt(1-x*x) }},
		{"atan", (*tape.Var).Atan, func(x float64) float64 { return 1 / (1 + x*x) }},
		{"neg", (*tape.Var).Neg, func(float64) float64 { return -1 }},
		{"abs", (*tape.Var).Abs, func(x float64) float64 { return math.Copysign(1, x) }},
	}
}

func TestFirstOrder_NonlinearFunctions(t *testing.T) {
	const at = 0.5
	for _, tc := range unaryCases() {
		t.Run(tc.name, func(t *testing.T) {
			tp := tape.Trace(1, func(_ *tape.Context, x []*tape.Var) []*tape.Var {
				return []*tape.Var{tc.build(x[0])}
			})
			_, dy, err := drivers.FirstOrder(tp, []float64{at}, []float64{1})
			require.NoError(t, err)
			assert.InDelta(t, tc.deriv(at), dy[0], 1e-12)
		})
	}
}

// TestFirstOrder_Product covers the product of two independents.
func TestFirstOrder_Product(t *testing.T) {
	tp := tape.Trace(2, func(_ *tape.Context, x []*tape.Var) []*tape.Var {
		return []*tape.Var{x[0].Mul(x[1])}
	})
	y, err := drivers.ZeroOrder(tp, []float64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{12}, y)

	_, dy, err := drivers.FirstOrder(tp, []float64{3, 4}, []float64{1, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{4}, dy)
}

func TestFirstOrder_Square(t *testing.T) {
	tp := tape.Trace(1, func(_ *tape.Context, x []*tape.Var) []*tape.Var {
		return []*tape.Var{x[0].Mul(x[0])}
	})
	y, dy, err := drivers.FirstOrder(tp, []float64{5}, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, []float64{25}, y)
	assert.Equal(t, []float64{10}, dy)
}

func TestFirstOrder_SinAtKnownPoints(t *testing.T) {
	tp := tape.Trace(1, func(_ *tape.Context, x []*tape.Var) []*tape.Var {
		return []*tape.Var{x[0].Sin()}
	})
	_, dy, err := drivers.FirstOrder(tp, []float64{0}, []float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, dy[0], 1e-12)

	_, dy, err = drivers.FirstOrder(tp, []float64{math.Pi / 2}, []float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, dy[0], 1e-12)
}

// TestFirstOrder_AbsTangent: |x| at x=-2 has tangent -1; at the kink
// the convention takes the positive branch.
func TestFirstOrder_AbsTangent(t *testing.T) {
	tp := tape.Trace(1, func(_ *tape.Context, x []*tape.Var) []*tape.Var {
		return []*tape.Var{x[0].Abs()}
	})
	require.Equal(t, 1, tp.NumAbs())

	y, dy, err := drivers.FirstOrder(tp, []float64{-2}, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, y)
	assert.Equal(t, []float64{-1}, dy)

	_, dy, err = drivers.FirstOrder(tp, []float64{0}, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, dy)
}

// TestFirstOrder_MinMaxTies: ties prefer the first operand.
func TestFirstOrder_MinMaxTies(t *testing.T) {
	tp := tape.Trace(2, func(_ *tape.Context, x []*tape.Var) []*tape.Var {
		return []*tape.Var{x[0].Min(x[1]), x[0].Max(x[1])}
	})
	y, dy, err := drivers.FirstOrder(tp, []float64{1, 1}, []float64{1, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, y)
	assert.Equal(t, []float64{1, 1}, dy)

	// Away from the tie the active operand wins.
	_, dy, err = drivers.FirstOrder(tp, []float64{3, 1}, []float64{1, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, dy)
}

func TestZeroOrder_ShapeMismatch(t *testing.T) {
	tp := identityTape()
	_, err := drivers.ZeroOrder(tp, []float64{1, 2})
	assert.Error(t, err)

	_, _, err = drivers.FirstOrder(tp, []float64{1}, []float64{1, 2})
	assert.Error(t, err)
}

func TestZeroOrder_DomainErrors(t *testing.T) {
	lnTape := tape.Trace(1, func(_ *tape.Context, x []*tape.Var) []*tape.Var {
		return []*tape.Var{x[0].Ln()}
	})
	_, err := drivers.ZeroOrder(lnTape, []float64{-1})
	var domErr *drivers.DomainError
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, 1, domErr.Slot)
	assert.Equal(t, tape.OpLn, domErr.Op)
	assert.Equal(t, -1.0, domErr.Arg)

	divTape := tape.Trace(2, func(_ *tape.Context, x []*tape.Var) []*tape.Var {
		return []*tape.Var{x[0].Div(x[1])}
	})
	_, err = drivers.ZeroOrder(divTape, []float64{1, 0})
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, 2, domErr.Slot)
	assert.Equal(t, tape.OpDiv, domErr.Op)

	asinTape := tape.Trace(1, func(_ *tape.Context, x []*tape.Var) []*tape.Var {
		return []*tape.Var{x[0].Asin()}
	})
	_, err = drivers.ZeroOrder(asinTape, []float64{2})
	require.ErrorAs(t, err, &domErr)
	assert.Equal(t, tape.OpAsin, domErr.Op)

	// Wrapping keeps the domain error matchable.
	wrapped := errors.Wrap(err, "driver")
	assert.ErrorAs(t, wrapped, &domErr)
}
