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

import (
	"math"

	"github.com/silky/measurable/quad"
)

// FromObservations returns the empirical measure over the sample sequence
// xs: applying it to a test function f yields the arithmetic mean of f(x)
// over all samples, computed with the same streaming running-mean update as
// Average. The slice is copied, so later mutation of xs does not affect the
// measure.
//
// An empty (or nil) xs is accepted: the resulting measure is Zero, the
// additive identity of the measure algebra. Note that applying it directly
// yields NaN, since the mean of no observations is undefined; see Zero.
func FromObservations[A any](xs []A) Measure[A] {
	obs := make([]A, len(xs))
	copy(obs, xs)
	return newMeasure(func(f func(A) float64) float64 {
		return WeightedAverage(f, obs)
	})
}

// FromDensity returns the measure with density d with respect to Lebesgue
// measure on the real line: applying it to a test function f yields the
// integral of f·d over (-∞, ∞), evaluated by adaptive tanh-sinh quadrature
// (package quad) with its default tolerance and refinement cap.
//
// f·d must be integrable. Non-integrability is not detected here or in the
// quadrature routine; it surfaces as a non-finite result from Apply.
// Densities supported on an interval rather than the whole line integrate
// more accurately through FromDensityOn.
func FromDensity(d func(float64) float64) Measure[float64] {
	return FromDensityOn(d, math.Inf(-1), math.Inf(1))
}

// FromDensityOn is FromDensity restricted to the interval (a, b). Either
// endpoint may be infinite. Supplying the support explicitly keeps the
// quadrature nodes inside it, which matters for densities with endpoint
// singularities (for example Beta(½,½) on (0, 1)) and for half-line
// densities such as the exponential.
//
// Wherever d returns exactly 0, the point contributes nothing and the test
// function is not evaluated there. Test functions may therefore overflow or
// be undefined where the density carries no mass, as the exponential
// integrand of MGF does at the deep quadrature nodes of an unbounded
// integration domain.
func FromDensityOn(d func(float64) float64, a, b float64) Measure[float64] {
	return newMeasure(func(f func(float64) float64) float64 {
		return quad.Interval(func(x float64) float64 {
			dv := d(x)
			if dv == 0 {
				// No mass here; f may not even be defined.
				return 0
			}
			return f(x) * dv
		}, a, b)
	})
}

// A Density is a continuous distribution exposing its probability density
// function. The distribution types of gonum.org/v1/gonum/stat/distuv satisfy
// this interface.
type Density interface {
	Prob(x float64) float64
}

// Supported is implemented by Density values whose support is a proper
// subinterval of the real line. FromDist consults it to pick integration
// bounds.
type Supported interface {
	Bounds() (lo, hi float64)
}

// FromDist builds the measure of a parametric distribution from its density.
// If d also implements Supported, integration is restricted to the reported
// bounds; otherwise the whole real line is used, which is correct for any
// density (it vanishes off its support) but converges best when the support
// really is unbounded on both sides.
func FromDist(d Density) Measure[float64] {
	if s, ok := d.(Supported); ok {
		lo, hi := s.Bounds()
		return FromDensityOn(d.Prob, lo, hi)
	}
	return FromDensity(d.Prob)
}

// FromMassFunction returns the discrete measure with mass function p over
// the given finite support: applying it to a test function f yields
// Σ f(a)·p(a) over the support, in support order.
//
// The support must be enumerated explicitly and completely; there is no
// implicit infinite support. Consistency of p with the support (masses
// summing to 1, no mass outside the support) is the caller's responsibility
// and is deliberately not validated; Volume is the diagnostic for it. The
// support slice is copied.
func FromMassFunction[A any](p func(A) float64, support []A) Measure[A] {
	sup := make([]A, len(support))
	copy(sup, support)
	return newMeasure(func(f func(A) float64) float64 {
		var sum float64
		for _, a := range sup {
			sum += f(a) * p(a)
		}
		return sum
	})
}

// Dirac returns the point mass at x: applying it to a test function f yields
// f(x) exactly. Dirac is the identity of Bind: Bind(Dirac(x), k) is k(x),
// and Bind(m, Dirac) is m.
func Dirac[A any](x A) Measure[A] {
	return newMeasure(func(f func(A) float64) float64 {
		return f(x)
	})
}

// Zero returns the empirical measure over no observations. It serves as the
// neutral element of the additive structure purely through the algebraic
// laws of the combinators; applying it directly is numerically degenerate
// and yields NaN for every test function, which callers must treat as any
// other numerical divergence. It is deliberately not special-cased to
// return a fake finite value.
func Zero[A any]() Measure[A] {
	return FromObservations[A](nil)
}
