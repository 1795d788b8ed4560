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

// Package testutil provides helpers to test code that builds or transforms
// measures.
//
// The helpers return errors instead of failing a testing.TB so that callers
// can decide between t.Error and t.Fatal, and so that the checks compose
// with require/assert from testify.
package testutil

import (
	"fmt"
	"math"

	"github.com/silky/measurable/measure"
)

// InTolerance reports whether got is within tol of want, using an absolute
// comparison near zero and a relative one elsewhere. NaN never matches,
// including NaN against NaN; use math.IsNaN directly when a NaN is the
// expected outcome.
func InTolerance(got, want, tol float64) bool {
	if math.IsNaN(got) || math.IsNaN(want) {
		return false
	}
	if got == want {
		return true
	}
	diff := math.Abs(got - want)
	if scale := math.Abs(want); scale > 1 {
		return diff <= tol*scale
	}
	return diff <= tol
}

// CheckProbabilityMeasure verifies the basic sanity of a measure that is
// supposed to be a probability measure: its volume is 1 within tol, its
// expectation is finite, and its variance is non-negative within tol. It
// returns the first violation found.
func CheckProbabilityMeasure(m measure.Measure[float64], tol float64) error {
	if vol := measure.Volume(m); !InTolerance(vol, 1, tol) {
		return fmt.Errorf("volume of a probability measure should be 1, got %v", vol)
	}
	if mean := measure.Expectation(m); math.IsNaN(mean) || math.IsInf(mean, 0) {
		return fmt.Errorf("expectation should be finite, got %v", mean)
	}
	if v := measure.Variance(m); v < -tol || math.IsNaN(v) {
		return fmt.Errorf("variance should be non-negative, got %v", v)
	}
	return nil
}

// SameStats verifies that two measures agree on volume, expectation,
// variance, and, when probes are given, on the CDF at each probe point, all
// within tol. It is how tests assert that two differently constructed
// measures describe the same distribution without comparing them pointwise.
func SameStats(got, want measure.Measure[float64], tol float64, probes ...float64) error {
	checks := []struct {
		name string
		stat func(measure.Measure[float64]) float64
	}{
		{"volume", measure.Volume[float64]},
		{"expectation", measure.Expectation},
		{"variance", measure.Variance},
	}
	for _, c := range checks {
		g, w := c.stat(got), c.stat(want)
		if !InTolerance(g, w, tol) {
			return fmt.Errorf("%s mismatch: got %v, want %v (tolerance %v)", c.name, g, w, tol)
		}
	}
	for _, b := range probes {
		g, w := measure.CDF(got, b), measure.CDF(want, b)
		if !InTolerance(g, w, tol) {
			return fmt.Errorf("cdf mismatch at %v: got %v, want %v (tolerance %v)", b, g, w, tol)
		}
	}
	return nil
}

// CheckSequencingLaws verifies the identity laws of Bind on concrete inputs:
// Bind(Dirac(x), k) behaves as k(x), and Bind(m, Dirac) behaves as m, with
// agreement judged by SameStats under tol and probes. Degenerate inputs fail
// the check, since their NaN statistics never compare equal.
func CheckSequencingLaws(m measure.Measure[float64], x float64, k func(float64) measure.Measure[float64], tol float64, probes ...float64) error {
	if err := SameStats(measure.Bind(measure.Dirac(x), k), k(x), tol, probes...); err != nil {
		return fmt.Errorf("Bind(Dirac(%v), k) should behave as k(%v): %w", x, x, err)
	}
	if err := SameStats(measure.Bind(m, measure.Dirac[float64]), m, tol, probes...); err != nil {
		return fmt.Errorf("Bind(m, Dirac) should behave as m: %w", err)
	}
	return nil
}
