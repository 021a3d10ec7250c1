// Copyright 2025 The Absgrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package drivers provides the public API for replaying frozen tapes:
// function values, directional derivatives, adjoints, dense Jacobians,
// abs-normal forms of piecewise-smooth recordings and generalized
// Jacobians derived from them.
//
// Every driver is a pure function of the tape and its inputs. Drivers
// allocate their own scratch, so concurrent calls against the same
// frozen tape need no synchronization.
//
// # Choosing a mode
//
// Forward drivers (FirstOrder, Jacobian) cost one sweep per input and
// win when a function has few inputs; reverse drivers
// (FirstOrderReverse, JacobianReverse) cost one sweep per output and
// win in the gradient case. Both are exposed so callers can choose.
//
// # Errors
//
// Wrong input lengths and elementary operations evaluated outside
// their domain (Ln of a non-positive value, division by zero, Tan at a
// pole, Asin/Acos outside [-1, 1]) are reported as errors; domain
// errors carry the offending tape slot and match *DomainError via
// errors.As. Structural tape corruption panics.
package drivers
