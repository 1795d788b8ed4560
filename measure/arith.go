// Copyright 2025 The Measurable Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package measure

import "errors"

// Errors raised by the intentionally unsupported corners of the arithmetic
// interface. They are panic values, not return values: the operations below
// have no meaningful measure-valued interpretation, so invoking them is a
// programming error, signaled the same way on every call.
var (
	// ErrFromNumeral reports an attempt to build a measure from a bare
	// numeral.
	ErrFromNumeral = errors.New("measure: a bare numeral has no interpretation as a measure")
	// ErrSign reports an attempt to take the sign of a measure.
	ErrSign = errors.New("measure: the sign of a measure is undefined")
)

// Add returns the measure of X+Y for X and Y independently distributed
// according to m and n. It is Combine instantiated with addition; m drives
// the outer integral.
//
// Zero is the neutral element of Add through the algebraic laws only:
// evaluating Add(m, Zero[float64]()) yields NaN, like any statistic of a
// degenerate empirical measure.
func Add(m, n Measure[float64]) Measure[float64] {
	return Combine(m, n, func(x, y float64) float64 { return x + y })
}

// Sub returns the measure of X-Y for independent X~m, Y~n. It is Combine
// instantiated with subtraction; m drives the outer integral.
func Sub(m, n Measure[float64]) Measure[float64] {
	return Combine(m, n, func(x, y float64) float64 { return x - y })
}

// Mul returns the measure of X·Y for independent X~m, Y~n. It is Combine
// instantiated with multiplication; m drives the outer integral.
func Mul(m, n Measure[float64]) Measure[float64] {
	return Combine(m, n, func(x, y float64) float64 { return x * y })
}

// FromNumeral panics with ErrFromNumeral on every call. A scalar literal
// carries no measure semantics (a point mass at the value is what Dirac is
// for), so the numeral end of the arithmetic interface fails
// deterministically instead of guessing.
func FromNumeral[A any](_ float64) Measure[A] {
	panic(ErrFromNumeral)
}

// Sign panics with ErrSign on every call. There is no sign function on
// measures; the operation exists only to complete the arithmetic interface
// and is a guard, not a partial implementation.
func Sign[A any](_ Measure[A]) Measure[A] {
	panic(ErrSign)
}
