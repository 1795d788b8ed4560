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

import "math"

// Average returns the arithmetic mean of xs. The mean is maintained by a
// streaming update, mean += (x-mean)/n, rather than by summing and dividing,
// which bounds the accumulated rounding error over long sequences. Every
// empirical statistic in this package funnels through this update.
//
// The mean of no observations is undefined; Average returns NaN for an
// empty or nil slice.
func Average(xs []float64) float64 {
	return WeightedAverage(func(x float64) float64 { return x }, xs)
}

// WeightedAverage returns the arithmetic mean of f(x) over xs, using the
// same streaming update as Average. It is the integration functional of the
// empirical measure: FromObservations(xs).Apply(f) is exactly
// WeightedAverage(f, xs).
func WeightedAverage[A any](f func(A) float64, xs []A) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var mean float64
	for i, x := range xs {
		mean += (f(x) - mean) / float64(i+1)
	}
	return mean
}

// Volume returns the measure of the whole outcome space: the integral of
// the constant function 1. For a well-formed probability measure it is 1 up
// to the numerical error of the underlying constructor; it is the cheapest
// diagnostic for mis-normalized densities and mass functions.
func Volume[A any](m Measure[A]) float64 {
	return m.Apply(func(A) float64 { return 1 })
}

// Expectation returns the mean of the measure: the integral of the identity
// test function.
func Expectation(m Measure[float64]) float64 {
	return m.Apply(func(x float64) float64 { return x })
}

// Variance returns E[X²] - E[X]², the raw-second-moment form of the
// variance. For empirical measures with large means a two-pass central
// moment is numerically friendlier, but the raw-moment form is the
// reference semantics of this algebra and is reproduced deliberately.
func Variance(m Measure[float64]) float64 {
	mean := Expectation(m)
	return m.Apply(func(x float64) float64 { return x * x }) - mean*mean
}

// StdDev returns the square root of Variance.
func StdDev(m Measure[float64]) float64 {
	return math.Sqrt(Variance(m))
}

// RawMoment returns E[X^k].
func RawMoment(m Measure[float64], k int) float64 {
	return m.Apply(func(x float64) float64 { return math.Pow(x, float64(k)) })
}

// CentralMoment returns E[(X - E[X])^k].
func CentralMoment(m Measure[float64], k int) float64 {
	mean := Expectation(m)
	return m.Apply(func(x float64) float64 { return math.Pow(x-mean, float64(k)) })
}

// MGF returns the moment generating function of the measure evaluated at t,
// E[exp(tX)]. It diverges (non-finite result) where the measure has tails
// heavier than exp(-t·x).
func MGF(m Measure[float64], t float64) float64 {
	return m.Apply(func(x float64) float64 { return math.Exp(t * x) })
}

// CGF returns the cumulant generating function, log MGF.
func CGF(m Measure[float64], t float64) float64 {
	return math.Log(MGF(m, t))
}

// CDF returns the measure of the half line (-∞, b]: the integral of the
// indicator of x ≤ b. Because it is expressed purely through Apply it works
// uniformly across empirical, density, and mass-function measures; on
// density measures the discontinuous integrand converges more slowly than a
// smooth one, so expect coarser accuracy there.
func CDF(m Measure[float64], b float64) float64 {
	return m.Apply(func(x float64) float64 {
		if x <= b {
			return 1
		}
		return 0
	})
}

const (
	quantileBracketSteps = 64
	quantileBisectSteps  = 160
)

// Quantile returns the smallest b for which CDF(m, b) ≥ p, located by
// exponential bracketing followed by bisection on the CDF. Each step costs
// one CDF evaluation, which on density-backed measures means a full
// quadrature pass; on empirical and mass-function measures steps are cheap.
//
// p should lie in (0, 1]; values outside are not validated and yield the
// boundary artifacts of the search. A degenerate measure (NaN CDF) yields
// NaN.
func Quantile(m Measure[float64], p float64) float64 {
	lo, hi := -1.0, 1.0
	for i := 0; CDF(m, lo) >= p && i < quantileBracketSteps; i++ {
		lo *= 2
	}
	for i := 0; CDF(m, hi) < p && i < quantileBracketSteps; i++ {
		hi *= 2
	}
	if math.IsNaN(CDF(m, hi)) {
		return math.NaN()
	}
	for i := 0; i < quantileBisectSteps; i++ {
		mid := 0.5 * (lo + hi)
		if mid <= lo || mid >= hi {
			break
		}
		if CDF(m, mid) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}
