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

// Package quad implements adaptive numerical integration over finite and
// infinite intervals using the double-exponential (tanh-sinh) rule.
//
// The tanh-sinh substitution x = tanh((π/2)·sinh t) concentrates nodes
// towards the interval endpoints, which makes the rule converge at
// double-exponential speed for analytic integrands and keeps it usable in
// the presence of integrable endpoint singularities such as 1/√x. Infinite
// and half-infinite intervals Interval handles by a rational change of
// variables onto a finite interval before applying the same rule, so a
// single refinement loop serves every domain shape.
//
// Integration is iterative: each refinement level halves the node spacing
// and reuses all previously evaluated nodes. Refinement stops as soon as two
// successive estimates agree within the configured tolerance, or
// unconditionally once MaxLevel levels have been spent. The hard level cap
// guarantees termination for arbitrarily badly behaved integrands; in that
// case the last estimate is returned as is, which for strongly divergent
// integrands is ±Inf or NaN. Weakly (e.g. logarithmically) divergent
// integrands can instead produce a large finite estimate bounded by the node
// cutoff; callers that need a well-formed result should sanity-check it, for
// instance by comparing the integral of a known normalization to 1.
package quad

import "math"

// Defaults used by New for fields of Opts left at their zero value.
const (
	// DefTolerance is the default agreement target between successive
	// refinement levels.
	DefTolerance = 1e-9
	// DefMaxLevel is the default cap on refinement levels. Each level
	// doubles the number of integrand evaluations.
	DefMaxLevel = 10
)

// tCutoff bounds the double-exponential variable t. At t = 4 the node
// weights are below 1e-30 and the abscissae are closer to the endpoints
// than one part in 1e-37, so nodes beyond the cutoff cannot influence the
// result at double precision.
const tCutoff = 4.0

const halfPi = math.Pi / 2

// Opts bundles the options for creating an Integrator. All fields are
// optional and can safely be left at their zero value.
type Opts struct {
	// Tolerance is the relative agreement between two successive
	// refinement levels at which the result is accepted. The default is
	// DefTolerance.
	Tolerance float64

	// MaxLevel caps the number of refinement levels and thereby bounds
	// both work and memory regardless of integrand behavior. The default
	// is DefMaxLevel.
	MaxLevel int
}

// An Integrator evaluates integrals with a fixed tolerance and refinement
// cap. Integrators are stateless after construction and safe for concurrent
// use.
type Integrator struct {
	tol      float64
	maxLevel int
}

// New creates an Integrator based on the provided Opts.
func New(opts Opts) *Integrator {
	tol := opts.Tolerance
	if tol <= 0 {
		tol = DefTolerance
	}
	maxLevel := opts.MaxLevel
	if maxLevel <= 0 {
		maxLevel = DefMaxLevel
	}
	return &Integrator{tol: tol, maxLevel: maxLevel}
}

// DefaultIntegrator is the Integrator used by the package-level Interval,
// Everywhere, and NonNegative functions.
var DefaultIntegrator = New(Opts{})

// Interval integrates f over (a, b) with the DefaultIntegrator.
func Interval(f func(float64) float64, a, b float64) float64 {
	return DefaultIntegrator.Interval(f, a, b)
}

// Everywhere integrates f over the whole real line with the
// DefaultIntegrator.
func Everywhere(f func(float64) float64) float64 {
	return DefaultIntegrator.Everywhere(f)
}

// NonNegative integrates f over (0, ∞) with the DefaultIntegrator.
func NonNegative(f func(float64) float64) float64 {
	return DefaultIntegrator.NonNegative(f)
}

// Interval returns the integral of f over (a, b). Either or both endpoints
// may be infinite; the appropriate change of variables is selected
// automatically. Reversed endpoints negate the result, and a == b yields 0.
//
// f must be integrable over (a, b) for the result to be meaningful.
// Non-integrability is not detected; it surfaces as a non-finite (or, for
// weak divergences, implausibly large) return value rather than an error.
func (q *Integrator) Interval(f func(float64) float64, a, b float64) float64 {
	switch {
	case a == b:
		return 0
	case a > b:
		return -q.Interval(f, b, a)
	case math.IsInf(a, -1) && math.IsInf(b, 1):
		// x = u/(1-u²) maps (-1, 1) onto the whole line. The endpoint
		// distances da = u+1 and db = 1-u give 1-u² = da·db without
		// cancellation at the edges.
		return q.tanhSinh(func(u, da, db float64) float64 {
			s := da * db
			return f(u/s) * (1 + u*u) / (s * s)
		}, -1, 1)
	case math.IsInf(b, 1):
		// x = a + u/(1-u) maps (0, 1) onto (a, ∞).
		return q.tanhSinh(func(u, _, db float64) float64 {
			return f(a+u/db) / (db * db)
		}, 0, 1)
	case math.IsInf(a, -1):
		// Mirror image of the half-line case: x = b - u/(1-u).
		return q.tanhSinh(func(u, _, db float64) float64 {
			return f(b-u/db) / (db * db)
		}, 0, 1)
	default:
		return q.tanhSinh(func(x, _, _ float64) float64 { return f(x) }, a, b)
	}
}

// Everywhere returns the integral of f over the whole real line.
func (q *Integrator) Everywhere(f func(float64) float64) float64 {
	return q.Interval(f, math.Inf(-1), math.Inf(1))
}

// NonNegative returns the integral of f over (0, ∞).
func (q *Integrator) NonNegative(f func(float64) float64) float64 {
	return q.Interval(f, 0, math.Inf(1))
}

// integrandFunc is the node-level integrand of the tanh-sinh core. Besides
// the abscissa x it receives the exactly computed distances of x to the two
// interval endpoints, so that substitution wrappers can evaluate
// edge-sensitive factors such as 1-u² without catastrophic cancellation.
type integrandFunc func(x, da, db float64) float64

// tanhSinh integrates f over the finite interval (a, b) by trapezoidal
// summation in the double-exponential variable, halving the step per level.
func (q *Integrator) tanhSinh(f integrandFunc, a, b float64) float64 {
	center := 0.5 * (a + b)
	halfWidth := 0.5 * (b - a)

	// Level 0: unit step in t. The t = 0 node carries weight π/2.
	sum := halfPi * f(center, halfWidth, halfWidth)
	h := 1.0
	for t := h; t <= tCutoff; t += h {
		sum += nodePair(f, a, b, halfWidth, t)
	}
	prev := h * halfWidth * sum

	for level := 1; level <= q.maxLevel; level++ {
		h /= 2
		// Only odd multiples of the new step are new nodes.
		for t := h; t <= tCutoff; t += 2 * h {
			sum += nodePair(f, a, b, halfWidth, t)
		}
		cur := h * halfWidth * sum
		if level > 1 && math.Abs(cur-prev) <= q.tol*(1+math.Abs(cur)) {
			return cur
		}
		prev = cur
	}
	return prev
}

// nodePair returns the weighted contribution of the symmetric node pair at
// ±t. Abscissae are derived from their distance to the nearer endpoint,
// computing 1 - tanh z as 2/(e^{2z}+1) without cancellation. A side whose
// distance has fallen below half an ulp of its endpoint is dropped: the
// abscissa would round onto the endpoint itself, and the integrand is only
// defined strictly inside the interval.
func nodePair(f integrandFunc, a, b, halfWidth, t float64) float64 {
	z := halfPi * math.Sinh(t)
	ch := math.Cosh(z)
	w := halfPi * math.Cosh(t) / (ch * ch)

	near := halfWidth * 2 / (math.Exp(2*z) + 1) // halfWidth·(1 - tanh z)
	far := halfWidth*2 - near                   // halfWidth·(1 + tanh z)

	var s float64
	if x := b - near; x != b {
		s += f(x, far, near)
	}
	if x := a + near; x != a {
		s += f(x, near, far)
	}
	return w * s
}
