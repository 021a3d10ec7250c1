package drivers

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/absgrad-ml/absgrad/internal/tape"
)

// GeneralizedJacobian is an element of the generalized Jacobian of an
// abs-factorable function at a point x, selected by a direction dx: the
// linearization of the piecewise-linear model on the branch that dx
// points into,
//
//	F(x+dx') - F(x) ~ Inhomogeneous + Homogeneous*dx'
//
// for dx' near dx. Multiplicity counts the switching variables whose
// local value was exactly zero, i.e. how many tie-breaks the sign bits
// decided; zero means the branch was uniquely determined.
type GeneralizedJacobian struct {
	Homogeneous   *mat.Dense
	Inhomogeneous *mat.VecDense
	Multiplicity  int
}

// bitAt reads bit i of a little-endian bit string, returning false
// beyond its end.
func bitAt(bits []byte, i int) bool {
	byteIdx := i / 8
	if byteIdx >= len(bits) {
		return false
	}
	return bits[byteIdx]&(1<<(i%8)) != 0
}

// Generalized computes the generalized Jacobian of the recorded
// function at x in direction dx via its abs-normal form.
//
// The switching increments solve the fixed point dz = (a + Z*dx) +
// L*|dz|, which the strict lower triangularity of L settles in at most
// s rounds. Ties (dz[i] == 0) take their sign from signBits in tape
// order: the k-th tie reads bit k (+1 when set, -1 otherwise, including
// bits beyond the end of signBits). Ties are counted in Multiplicity.
//
// next composes a successor stage: passing the generalized Jacobian of
// G at F(x) yields the generalized Jacobian of G after F. nil means
// the identity stage.
func Generalized(t *tape.Tape, x, dx []float64, signBits []byte, next *GeneralizedJacobian) (*GeneralizedJacobian, error) {
	if err := checkInput(t, "dx", dx); err != nil {
		return nil, err
	}
	form, err := AbsNormal(t, x)
	if err != nil {
		return nil, err
	}
	n, m, s := t.NumIndeps(), t.NumDeps(), form.S()

	// Outer stage (G, gamma), identity when absent.
	var g *mat.Dense
	var gamma *mat.VecDense
	rows := m
	if next != nil {
		gr, gc := next.Homogeneous.Dims()
		if gc != m {
			return nil, errors.Errorf("next stage takes %d inputs, tape has %d dependents", gc, m)
		}
		rows = gr
		g = next.Homogeneous
		gamma = next.Inhomogeneous
	} else {
		g = identity(m)
		gamma = mat.NewVecDense(m, nil)
	}

	// bDelta is the increment-form offset: b with the base value F(x)
	// removed, so that the composition below works on increments.
	bDelta := mat.NewVecDense(m, nil)
	y, err := ZeroOrder(t, x)
	if err != nil {
		return nil, err
	}
	for i := 0; i < m; i++ {
		bDelta.SetVec(i, form.B.AtVec(i)-y[i])
	}

	multiplicity := 0
	if next != nil {
		multiplicity = next.Multiplicity
	}

	if s == 0 {
		// Smooth recording: the model is plain affine.
		h := mat.NewDense(rows, n, nil)
		h.Mul(g, form.J)
		inh := mat.NewVecDense(rows, nil)
		inh.MulVec(g, bDelta)
		inh.AddVec(inh, gamma)
		return &GeneralizedJacobian{Homogeneous: h, Inhomogeneous: inh, Multiplicity: multiplicity}, nil
	}

	// dz = (a + Z*dx) + L*|dz| by fixed-point iteration.
	base := mat.NewVecDense(s, nil)
	base.MulVec(form.Z, mat.NewVecDense(n, dx))
	base.AddVec(base, form.A)
	dz := mat.NewVecDense(s, nil)
	dz.CopyVec(base)
	absDz := mat.NewVecDense(s, nil)
	for round := 0; round < s; round++ {
		for i := 0; i < s; i++ {
			absDz.SetVec(i, math.Abs(dz.AtVec(i)))
		}
		prev := mat.NewVecDense(s, nil)
		prev.CopyVec(dz)
		dz.MulVec(form.L, absDz)
		dz.AddVec(dz, base)
		if mat.EqualApprox(dz, prev, 0) {
			break
		}
	}

	// Signature matrix and tie multiplicity.
	sigma := make([]float64, s)
	tie := 0
	for i := 0; i < s; i++ {
		switch {
		case dz.AtVec(i) < 0:
			sigma[i] = -1
		case dz.AtVec(i) > 0:
			sigma[i] = 1
		default:
			if bitAt(signBits, tie) {
				sigma[i] = 1
			} else {
				sigma[i] = -1
			}
			tie++
		}
	}
	multiplicity += tie

	// U = G*Y*Sigma*(I - L*Sigma)^{-1}. I - L*Sigma is unit lower
	// triangular, so the inverse always exists.
	gys := mat.NewDense(rows, s, nil)
	gys.Mul(g, form.Y)
	scaleCols(gys, sigma)
	ls := mat.NewDense(s, s, nil)
	ls.Copy(form.L)
	scaleCols(ls, sigma)
	ims := identity(s)
	ims.Sub(ims, ls)
	var imsInv mat.Dense
	if err := imsInv.Inverse(ims); err != nil {
		panic("drivers: I - L*Sigma not invertible: " + err.Error())
	}
	u := mat.NewDense(rows, s, nil)
	u.Mul(gys, &imsInv)

	// Homogeneous = G*J + U*Z, Inhomogeneous = gamma + G*b + U*a.
	h := mat.NewDense(rows, n, nil)
	h.Mul(g, form.J)
	uz := mat.NewDense(rows, n, nil)
	uz.Mul(u, form.Z)
	h.Add(h, uz)

	inh := mat.NewVecDense(rows, nil)
	inh.MulVec(g, bDelta)
	ua := mat.NewVecDense(rows, nil)
	ua.MulVec(u, form.A)
	inh.AddVec(inh, ua)
	inh.AddVec(inh, gamma)

	return &GeneralizedJacobian{Homogeneous: h, Inhomogeneous: inh, Multiplicity: multiplicity}, nil
}

// GeneralizedChain composes the generalized Jacobians of a sequence of
// tapes evaluated one after another, the output of each stage feeding
// the next. The direction dx is pushed through every stage with the
// piecewise-linear tangent rules so that later stages pick the branch
// the chain actually enters.
func GeneralizedChain(tapes []*tape.Tape, x, dx []float64) (*GeneralizedJacobian, error) {
	if len(tapes) == 0 {
		return nil, errors.New("empty tape chain")
	}
	xs := make([][]float64, len(tapes))
	dxs := make([][]float64, len(tapes))
	for k, t := range tapes {
		if err := checkInput(t, "x", x); err != nil {
			return nil, errors.Wrapf(err, "chain stage %d", k)
		}
		xs[k], dxs[k] = x, dx
		v, err := values(t, x)
		if err != nil {
			return nil, errors.Wrapf(err, "chain stage %d", k)
		}
		x = gatherDeps(t, v)
		dx = plIncrement(t, v, dx)
	}
	var g *GeneralizedJacobian
	for k := len(tapes) - 1; k >= 0; k-- {
		var err error
		g, err = Generalized(tapes[k], xs[k], dxs[k], []byte{0}, g)
		if err != nil {
			return nil, errors.Wrapf(err, "chain stage %d", k)
		}
	}
	return g, nil
}

// plIncrement propagates the direction dx through the tape with the
// increment rules of the piecewise-linear model: smooth operations use
// their tangent, while Abs, Min and Max use the exact increment of the
// kink, e.g. |v+dv| - |v|. Away from kinks this agrees with
// FirstOrder; on them it selects the branch dx points into.
func plIncrement(t *tape.Tape, v, dx []float64) []float64 {
	dv := make([]float64, t.Len())
	copy(dv, dx)
	for k := 0; k < t.Len(); k++ {
		n := t.Node(k)
		switch n.Op {
		case tape.OpAbs:
			dv[k] = math.Abs(v[n.A]+dv[n.A]) - math.Abs(v[n.A])
		case tape.OpMin:
			dv[k] = math.Min(v[n.A]+dv[n.A], v[n.B]+dv[n.B]) - math.Min(v[n.A], v[n.B])
		case tape.OpMax:
			dv[k] = math.Max(v[n.A]+dv[n.A], v[n.B]+dv[n.B]) - math.Max(v[n.A], v[n.B])
		default:
			tangentAt(n, k, v, dv, false)
		}
	}
	return gatherDeps(t, dv)
}

func identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// scaleCols multiplies column j of m by d[j].
func scaleCols(m *mat.Dense, d []float64) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, m.At(i, j)*d[j])
		}
	}
}
