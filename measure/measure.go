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

// A Measure represents a measure over outcomes of type A through its
// integration functional: the function that maps a test function f to the
// expectation of f under the measure. The functional is the measure's only
// state; no sample set, density table, or support enumeration is ever
// materialized by the combinators in this package.
//
// Measures are immutable. They are created by the constructors
// (FromObservations, FromDensity, FromMassFunction, Dirac, ...) and by the
// combinators (Map, Bind, Combine, Add, ...), and consumed any number of
// times through Apply, directly or via the derived statistics (Volume,
// Expectation, Variance, CDF, ...). The zero value of Measure is not usable;
// always obtain Measures from a constructor or combinator.
//
// Nothing about the type enforces that a Measure is a probability measure.
// Volume reporting a value close to 1 is a well-formedness condition the
// caller is responsible for when constructing measures from densities, mass
// functions, or observations.
type Measure[A any] struct {
	integrate func(func(A) float64) float64
}

// newMeasure wraps an integration functional. All construction funnels
// through here; the functional itself stays unexported so that measures can
// only be built by this package's constructors and combinators.
func newMeasure[A any](integrate func(func(A) float64) float64) Measure[A] {
	return Measure[A]{integrate: integrate}
}

// Apply evaluates the measure's integration functional at the test function
// f and returns the expectation of f under the measure.
//
// Non-finite results (±Inf, NaN) are propagated untouched: they arise from
// integrating a non-integrable product, or from evaluating a degenerate
// measure such as Zero, and the caller owns checking for them (see the
// package documentation on numerical divergence).
func (m Measure[A]) Apply(f func(A) float64) float64 {
	return m.integrate(f)
}
