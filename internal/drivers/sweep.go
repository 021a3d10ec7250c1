package drivers

import (
	"math"

	"github.com/pkg/errors"

	"github.com/absgrad-ml/absgrad/internal/tape"
)

// sign is the derivative of |x| with the tie convention fixed at +1.
func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

func checkInput(t *tape.Tape, name string, v []float64) error {
	if len(v) != t.NumIndeps() {
		return errors.Errorf("%s has length %d, tape has %d independents", name, len(v), t.NumIndeps())
	}
	return nil
}

func checkSeed(t *tape.Tape, name string, v []float64) error {
	if len(v) != t.NumDeps() {
		return errors.Errorf("%s has length %d, tape has %d dependents", name, len(v), t.NumDeps())
	}
	return nil
}

// values runs the zero-order sweep: v[k] receives the value of slot k,
// visiting slots in increasing index order. Domain violations abort the
// sweep with a DomainError naming the slot.
func values(t *tape.Tape, x []float64) ([]float64, error) {
	v := make([]float64, t.Len())
	indep := 0
	for k := 0; k < t.Len(); k++ {
		n := t.Node(k)
		switch n.Op {
		case tape.OpIndep:
			v[k] = x[indep]
			indep++
		case tape.OpConst:
			v[k] = n.Const
		case tape.OpCopy:
			v[k] = v[n.A]
		case tape.OpAdd:
			v[k] = v[n.A] + v[n.B]
		case tape.OpSub:
			v[k] = v[n.A] - v[n.B]
		case tape.OpMul:
			v[k] = v[n.A] * v[n.B]
		case tape.OpDiv:
			if v[n.B] == 0 {
				return nil, &DomainError{Slot: k, Op: n.Op, Arg: 0}
			}
			v[k] = v[n.A] / v[n.B]
		case tape.OpPow:
			v[k] = math.Pow(v[n.A], v[n.B])
		case tape.OpNeg:
			v[k] = -v[n.A]
		case tape.OpSin:
			v[k] = math.Sin(v[n.A])
		case tape.OpCos:
			v[k] = math.Cos(v[n.A])
		case tape.OpTan:
			if math.Cos(v[n.A]) == 0 {
				return nil, &DomainError{Slot: k, Op: n.Op, Arg: v[n.A]}
			}
			v[k] = math.Tan(v[n.A])
		case tape.OpAsin:
			if v[n.A] < -1 || v[n.A] > 1 {
				return nil, &DomainError{Slot: k, Op: n.Op, Arg: v[n.A]}
			}
			v[k] = math.Asin(v[n.A])
		case tape.OpAcos:
			if v[n.A] < -1 || v[n.A] > 1 {
				return nil, &DomainError{Slot: k, Op: n.Op, Arg: v[n.A]}
			}
			v[k] = math.Acos(v[n.A])
		case tape.OpAtan:
			v[k] = math.Atan(v[n.A])
		case tape.OpExp:
			v[k] = math.Exp(v[n.A])
		case tape.OpLn:
			if v[n.A] <= 0 {
				return nil, &DomainError{Slot: k, Op: n.Op, Arg: v[n.A]}
			}
			v[k] = math.Log(v[n.A])
		case tape.OpAbs:
			v[k] = math.Abs(v[n.A])
		case tape.OpMin:
			v[k] = math.Min(v[n.A], v[n.B])
		case tape.OpMax:
			v[k] = math.Max(v[n.A], v[n.B])
		default:
			panic("drivers: invalid opcode " + n.Op.String())
		}
	}
	return v, nil
}

// propagateTangents runs the first-order forward sweep over dv, which
// must be preseeded at the independent slots. With frozenAbs set, Abs
// nodes do not propagate: their dv entries keep whatever seed they
// carry, which is how the abs-normal driver treats switching outputs
// as additional independents.
//
// The sweep assumes values passed the domain checks, which verified the
// Div, Tan and Ln divisors non-zero. Asin and Acos accept arguments of
// exactly -1 and 1, where their tangent divides by zero.
func propagateTangents(t *tape.Tape, v, dv []float64, frozenAbs bool) {
	for k := 0; k < t.Len(); k++ {
		tangentAt(t.Node(k), k, v, dv, frozenAbs)
	}
}

// tangentAt applies the first-order forward rule of a single node.
func tangentAt(n tape.Node, k int, v, dv []float64, frozenAbs bool) {
	switch n.Op {
	case tape.OpIndep:
		// Seeded by the caller.
	case tape.OpConst:
		dv[k] = 0
	case tape.OpCopy:
		dv[k] = dv[n.A]
	case tape.OpAdd:
		dv[k] = dv[n.A] + dv[n.B]
	case tape.OpSub:
		dv[k] = dv[n.A] - dv[n.B]
	case tape.OpMul:
		dv[k] = dv[n.A]*v[n.B] + v[n.A]*dv[n.B]
	case tape.OpDiv:
		dv[k] = (dv[n.A] - v[k]*dv[n.B]) / v[n.B]
	case tape.OpPow:
		dv[k] = powTangent(v[n.A], v[n.B], dv[n.A], dv[n.B])
	case tape.OpNeg:
		dv[k] = -dv[n.A]
	case tape.OpSin:
		dv[k] = math.Cos(v[n.A]) * dv[n.A]
	case tape.OpCos:
		dv[k] = -math.Sin(v[n.A]) * dv[n.A]
	case tape.OpTan:
		c := math.Cos(v[n.A])
		dv[k] = dv[n.A] / (c * c)
	case tape.OpAsin:
		dv[k] = dv[n.A] / math.Sqrt(1-v[n.A]*v[n.A])
	case tape.OpAcos:
		dv[k] = -dv[n.A] / math.Sqrt(1-v[n.A]*v[n.A])
	case tape.OpAtan:
		dv[k] = dv[n.A] / (1 + v[n.A]*v[n.A])
	case tape.OpExp:
		dv[k] = v[k] * dv[n.A]
	case tape.OpLn:
		dv[k] = dv[n.A] / v[n.A]
	case tape.OpAbs:
		if !frozenAbs {
			dv[k] = sign(v[n.A]) * dv[n.A]
		}
	case tape.OpMin:
		if v[n.A] <= v[n.B] {
			dv[k] = dv[n.A]
		} else {
			dv[k] = dv[n.B]
		}
	case tape.OpMax:
		if v[n.A] >= v[n.B] {
			dv[k] = dv[n.A]
		} else {
			dv[k] = dv[n.B]
		}
	default:
		panic("drivers: invalid opcode " + n.Op.String())
	}
}

// powTangent applies the product rule of x^y, skipping the term whose
// tangent is zero so that a constant exponent never evaluates ln(x).
func powTangent(x, y, dx, dy float64) float64 {
	var d float64
	if dx != 0 {
		d += y * math.Pow(x, y-1) * dx
	}
	if dy != 0 {
		d += math.Log(x) * math.Pow(x, y) * dy
	}
	return d
}

// propagateAdjoints runs the reverse sweep: bar must be preseeded at
// the dependent slots; on return bar[j] holds the adjoint of slot j.
// Accumulation happens strictly in decreasing slot order with no
// reassociation, so results are deterministic bit for bit.
func propagateAdjoints(t *tape.Tape, v, bar []float64) {
	for k := t.Len() - 1; k >= 0; k-- {
		n := t.Node(k)
		switch n.Op {
		case tape.OpIndep, tape.OpConst:
			// No operands.
		case tape.OpCopy:
			bar[n.A] += bar[k]
		case tape.OpAdd:
			bar[n.A] += bar[k]
			bar[n.B] += bar[k]
		case tape.OpSub:
			bar[n.A] += bar[k]
			bar[n.B] -= bar[k]
		case tape.OpMul:
			bar[n.A] += bar[k] * v[n.B]
			bar[n.B] += bar[k] * v[n.A]
		case tape.OpDiv:
			bar[n.A] += bar[k] / v[n.B]
			bar[n.B] += bar[k] * (-v[n.A] / (v[n.B] * v[n.B]))
		case tape.OpPow:
			// Skip zero adjoints so x = 0 never turns 0 * Inf into NaN.
			if bar[k] != 0 {
				x, y := v[n.A], v[n.B]
				bar[n.A] += bar[k] * y * math.Pow(x, y-1)
				bar[n.B] += bar[k] * math.Log(x) * math.Pow(x, y)
			}
		case tape.OpNeg:
			bar[n.A] -= bar[k]
		case tape.OpSin:
			bar[n.A] += bar[k] * math.Cos(v[n.A])
		case tape.OpCos:
			bar[n.A] -= bar[k] * math.Sin(v[n.A])
		case tape.OpTan:
			c := math.Cos(v[n.A])
			bar[n.A] += bar[k] / (c * c)
		case tape.OpAsin:
			bar[n.A] += bar[k] / math.Sqrt(1-v[n.A]*v[n.A])
		case tape.OpAcos:
			bar[n.A] -= bar[k] / math.Sqrt(1-v[n.A]*v[n.A])
		case tape.OpAtan:
			bar[n.A] += bar[k] / (1 + v[n.A]*v[n.A])
		case tape.OpExp:
			bar[n.A] += bar[k] * v[k]
		case tape.OpLn:
			bar[n.A] += bar[k] / v[n.A]
		case tape.OpAbs:
			bar[n.A] += bar[k] * sign(v[n.A])
		case tape.OpMin:
			if v[n.A] <= v[n.B] {
				bar[n.A] += bar[k]
			} else {
				bar[n.B] += bar[k]
			}
		case tape.OpMax:
			if v[n.A] >= v[n.B] {
				bar[n.A] += bar[k]
			} else {
				bar[n.B] += bar[k]
			}
		default:
			panic("drivers: invalid opcode " + n.Op.String())
		}
	}
}
