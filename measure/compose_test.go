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

package measure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/silky/measurable/measure"
	"github.com/silky/measurable/measure/testutil"
)

func TestMapShiftsExpectation(t *testing.T) {
	m := measure.FromObservations([]float64{1, 2, 3})
	shifted := measure.Map(m, func(x float64) float64 { return x + 10 })

	assert.Equal(t, 12.0, measure.Expectation(shifted))
	assert.Equal(t, 1.0, measure.Volume(shifted))

	// Mapping the measure and mapping the data build the same distribution.
	direct := measure.FromObservations([]float64{11, 12, 13})
	assert.Equal(t, measure.Expectation(direct), measure.Expectation(shifted))
}

func TestMapIsApplyComposition(t *testing.T) {
	// Map(m, h).Apply(f) and m.Apply(f∘h) perform the identical float
	// operations in the identical order, so they agree exactly.
	m := measure.FromObservations([]float64{0.1, 0.7, 1.3, 2.9})
	h := func(x float64) float64 { return 3*x - 1 }
	f := func(y float64) float64 { return y * y }

	assert.Equal(t, m.Apply(func(x float64) float64 { return f(h(x)) }), measure.Map(m, h).Apply(f))
}

func TestMapChangesType(t *testing.T) {
	words := measure.FromObservations([]string{"a", "bb", "ccc"})
	lengths := measure.Map(words, func(s string) float64 { return float64(len(s)) })

	assert.InDelta(t, 2, measure.Expectation(lengths), 1e-12)
}

func TestMapDensity(t *testing.T) {
	m := measure.FromDist(distuv.Normal{Mu: 0, Sigma: 1})
	affine := measure.Map(m, func(x float64) float64 { return 2*x + 3 })

	assert.InDelta(t, 3, measure.Expectation(affine), 1e-6)
	assert.InDelta(t, 4, measure.Variance(affine), 1e-5)
}

func TestBindIdentityLaws(t *testing.T) {
	m := measure.FromObservations([]float64{1, 2, 5})
	k := func(x float64) measure.Measure[float64] { return measure.FromObservations([]float64{x, x + 2}) }

	require.NoError(t, testutil.CheckSequencingLaws(m, 3, k, 1e-12, 0, 1.5, 4, 6))

	die := measure.FromMassFunction(func(float64) float64 { return 1.0 / 6 }, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, testutil.CheckSequencingLaws(die, 0.5, k, 1e-12, 3.5))
}

func TestBindAssociativity(t *testing.T) {
	m := measure.FromObservations([]float64{0, 1})
	k1 := func(x float64) measure.Measure[float64] { return measure.FromObservations([]float64{x, x + 1}) }
	k2 := func(y float64) measure.Measure[float64] { return measure.FromObservations([]float64{y, 2 * y}) }

	left := measure.Bind(measure.Bind(m, k1), k2)
	right := measure.Bind(m, func(x float64) measure.Measure[float64] { return measure.Bind(k1(x), k2) })

	// Both sides expand to the same nested integral, so agreement is exact.
	f := func(x float64) float64 { return x*x + 1 }
	assert.Equal(t, left.Apply(f), right.Apply(f))
}

func TestBindIsBayesianComposition(t *testing.T) {
	// Prior: a coin is fair or biased with equal probability. Conditional:
	// the number of heads in one throw. The compound measure is the mixture.
	prior := measure.FromObservations([]float64{0.5, 0.9})
	heads := func(p float64) measure.Measure[float64] {
		return measure.FromMassFunction(func(h float64) float64 {
			if h == 1 {
				return p
			}
			return 1 - p
		}, []float64{0, 1})
	}

	posteriorPredictive := measure.Bind(prior, heads)
	assert.InDelta(t, 0.7, measure.Expectation(posteriorPredictive), 1e-12)
	assert.InDelta(t, 1, measure.Volume(posteriorPredictive), 1e-12)
}

func TestFlatten(t *testing.T) {
	inner := []measure.Measure[float64]{
		measure.FromObservations([]float64{1, 2}),
		measure.Dirac(5.0),
	}
	mm := measure.FromObservations(inner)

	got := measure.Flatten(mm)
	assert.InDelta(t, 3.25, measure.Expectation(got), 1e-12)
	assert.InDelta(t, 1, measure.Volume(got), 1e-12)
}

func TestCombineLeftOperandDrivesOuterIntegral(t *testing.T) {
	// The iteration order is part of the contract: the left operand runs
	// the outer loop, so results are bit-for-bit reproducible.
	var seen []string
	m := measure.FromObservations([]string{"a1", "a2"})
	n := measure.FromObservations([]string{"b1", "b2"})

	c := measure.Combine(m, n, func(a, b string) string {
		pair := a + b
		seen = append(seen, pair)
		return pair
	})
	c.Apply(func(string) float64 { return 0 })

	assert.Equal(t, []string{"a1b1", "a1b2", "a2b1", "a2b2"}, seen)
}

func TestCombineAgreesWithFubini(t *testing.T) {
	m := measure.FromObservations([]float64{1, 2, 3})
	n := measure.FromObservations([]float64{10, 20})
	op := func(a, b float64) float64 { return a + b }

	left := measure.Combine(m, n, op)
	right := measure.Combine(n, m, op)
	require.NoError(t, testutil.SameStats(left, right, 1e-12, 11, 15, 22, 24))
}
