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

// Package measure represents probability measures by what they do rather
// than by what they are: a Measure[A] is the functional that integrates
// test functions A → float64 against the underlying distribution. Every
// statistic is a choice of test function, and every way of building or
// combining measures is a way of building or combining integrators.
//
// Measures enter the algebra through three families of constructors.
// FromObservations wraps a sample as the empirical measure; FromDensity,
// FromDensityOn, and FromDist wrap a density function using tanh-sinh
// quadrature from the quad package; FromMassFunction wraps a discrete
// distribution given by its support and probability mass. Dirac is the unit
// point mass.
//
// Measures compose. Map pushes a measure forward through a function, Bind
// sequences a measure with a measure-valued kernel (the Bayesian prior ×
// conditional composition), and Combine integrates a binary function over
// an independent pair. Add, Sub, and Mul are Combine applied to the
// arithmetic of independent outcomes; they are not pointwise operations on
// densities.
//
// Statistics are derived uniformly through Apply: Volume, Expectation,
// Variance, CDF, Quantile and the rest work identically on empirical,
// density, and mass-function measures. Non-finite and NaN values propagate
// through every operation so that divergent integrals and degenerate
// measures surface in the result instead of being masked.
package measure
