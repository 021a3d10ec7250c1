// Copyright 2025 The Absgrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package drivers

import (
	"gonum.org/v1/gonum/mat"

	"github.com/absgrad-ml/absgrad/internal/drivers"
	"github.com/absgrad-ml/absgrad/tape"
)

// Type aliases for public API

// DomainError reports an elementary operation evaluated outside its
// domain, identifying the offending tape slot.
type DomainError = drivers.DomainError

// AbsNormalForm is the piecewise linearization (Z, L, J, Y) with
// offsets (a, b) of an abs-factorable function at a base point.
type AbsNormalForm = drivers.AbsNormalForm

// GeneralizedJacobian is an element of the generalized Jacobian
// selected by a direction.
type GeneralizedJacobian = drivers.GeneralizedJacobian

// ZeroOrder evaluates the recorded function at x.
func ZeroOrder(t *tape.Tape, x []float64) ([]float64, error) {
	return drivers.ZeroOrder(t, x)
}

// FirstOrder evaluates the function and the directional derivative
// dy = F'(x)*dx in one forward sweep.
func FirstOrder(t *tape.Tape, x, dx []float64) (y, dy []float64, err error) {
	return drivers.FirstOrder(t, x, dx)
}

// FirstOrderReverse evaluates the function and the input adjoints
// xbar = F'(x)^T*ybar with a forward value sweep and a reverse sweep.
func FirstOrderReverse(t *tape.Tape, x, ybar []float64) (y, xbar []float64, err error) {
	return drivers.FirstOrderReverse(t, x, ybar)
}

// Jacobian assembles the dense Jacobian at x in forward mode.
func Jacobian(t *tape.Tape, x []float64) (*mat.Dense, error) {
	return drivers.Jacobian(t, x)
}

// JacobianReverse assembles the dense Jacobian at x in reverse mode.
func JacobianReverse(t *tape.Tape, x []float64) (*mat.Dense, error) {
	return drivers.JacobianReverse(t, x)
}

// AbsNormal computes the abs-normal form of the recording at x.
func AbsNormal(t *tape.Tape, x []float64) (*AbsNormalForm, error) {
	return drivers.AbsNormal(t, x)
}

// Generalized computes the generalized Jacobian at x in direction dx.
// Ties on switching variables take their branch from signBits; next
// composes a successor stage and may be nil.
func Generalized(t *tape.Tape, x, dx []float64, signBits []byte, next *GeneralizedJacobian) (*GeneralizedJacobian, error) {
	return drivers.Generalized(t, x, dx, signBits, next)
}

// GeneralizedChain composes the generalized Jacobians of a tape
// sequence evaluated input-to-output, each stage's outputs feeding the
// next stage; the composition runs from the last stage to the first.
func GeneralizedChain(tapes []*tape.Tape, x, dx []float64) (*GeneralizedJacobian, error) {
	return drivers.GeneralizedChain(tapes, x, dx)
}
