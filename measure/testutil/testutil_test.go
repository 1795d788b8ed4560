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

package testutil

import (
	"math"
	"testing"

	"github.com/silky/measurable/measure"
)

func TestInTolerance(t *testing.T) {
	for _, tt := range []struct {
		name      string
		got, want float64
		tol       float64
		ok        bool
	}{
		{"exact", 1, 1, 0, true},
		{"absolute near zero", 0.0005, 0, 1e-3, true},
		{"absolute near zero fails", 0.002, 0, 1e-3, false},
		{"relative at scale", 1000.5, 1000, 1e-3, true},
		{"relative at scale fails", 1002, 1000, 1e-3, false},
		{"nan got", math.NaN(), 1, 1, false},
		{"nan want", 1, math.NaN(), 1, false},
		{"nan both", math.NaN(), math.NaN(), 1, false},
		{"inf matches inf", math.Inf(1), math.Inf(1), 0, true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if got := InTolerance(tt.got, tt.want, tt.tol); got != tt.ok {
				t.Errorf("InTolerance(%v, %v, %v) = %v, want %v", tt.got, tt.want, tt.tol, got, tt.ok)
			}
		})
	}
}

func TestCheckProbabilityMeasure(t *testing.T) {
	ok := measure.FromObservations([]float64{1, 2, 3, 4})
	if err := CheckProbabilityMeasure(ok, 1e-12); err != nil {
		t.Errorf("empirical measure failed the check: %v", err)
	}

	scaled := measure.FromMassFunction(func(n int) float64 { return 0.4 }, []int{0, 1})
	asFloat := measure.Map(scaled, func(n int) float64 { return float64(n) })
	if err := CheckProbabilityMeasure(asFloat, 1e-12); err == nil {
		t.Error("mass function with total mass 0.8 passed the probability check")
	}

	empty := measure.FromObservations[float64](nil)
	if err := CheckProbabilityMeasure(empty, 1e-12); err == nil {
		t.Error("empty measure passed the probability check")
	}
}

func TestSameStats(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	a := measure.FromObservations(xs)
	b := measure.Map(measure.FromObservations(xs), func(x float64) float64 { return x })
	if err := SameStats(a, b, 1e-12, 0, 2.5, 6); err != nil {
		t.Errorf("identical distributions reported as different: %v", err)
	}

	shifted := measure.FromObservations([]float64{2, 3, 4, 5, 6})
	if err := SameStats(a, shifted, 1e-12); err == nil {
		t.Error("distinct distributions reported as the same")
	}
}

func TestCheckSequencingLaws(t *testing.T) {
	m := measure.FromObservations([]float64{1, 2, 3, 4})
	k := func(x float64) measure.Measure[float64] {
		return measure.FromObservations([]float64{x, x + 1})
	}
	if err := CheckSequencingLaws(m, 2.5, k, 1e-12, 0, 2, 4); err != nil {
		t.Errorf("lawful kernel failed the identity laws: %v", err)
	}

	// A degenerate measure has NaN statistics on both sides of each law, and
	// NaN never counts as agreement.
	if err := CheckSequencingLaws(measure.Zero[float64](), 1, k, 1e-12); err == nil {
		t.Error("degenerate measure passed the identity laws")
	}
}
