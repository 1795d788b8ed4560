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

// Map returns the pushforward (image) of m under h: the distribution of
// h(X) for X distributed according to m. For every test function g,
// Map(m, h).Apply(g) equals m.Apply(g∘h); no intermediate representation of
// the image measure is built.
func Map[A, B any](m Measure[A], h func(A) B) Measure[B] {
	return newMeasure(func(g func(B) float64) float64 {
		return m.Apply(func(x A) float64 {
			return g(h(x))
		})
	})
}

// Bind sequences m with the measure-valued kernel k: each outcome x of m
// selects a measure k(x) over the result type, and the outer integral
// averages over the choice of x. For every test function g,
// Bind(m, k).Apply(g) equals m.Apply(x ↦ k(x).Apply(g)).
//
// This is Bayesian composition: with m a prior over a parameter and k the
// observation model for each parameter value, Bind(m, k) is the marginal
// (prior-predictive) measure over observations.
//
// Bind satisfies the monad laws with Dirac as unit: Bind(Dirac(x), k)
// behaves as k(x), Bind(m, Dirac) behaves as m, and Bind is associative.
func Bind[A, B any](m Measure[A], k func(A) Measure[B]) Measure[B] {
	return newMeasure(func(g func(B) float64) float64 {
		return m.Apply(func(x A) float64 {
			return k(x).Apply(g)
		})
	})
}

// Flatten collapses a measure over measures into a measure over outcomes:
// the outer measure mixes the inner ones. It is Bind with the identity
// kernel.
func Flatten[A any](mm Measure[Measure[A]]) Measure[A] {
	return Bind(mm, func(m Measure[A]) Measure[A] { return m })
}

// Combine returns the measure of op(X, Y) for X distributed according to m
// and Y independently distributed according to n, by nesting the two
// integration functionals (Fubini). The left operand drives the outer
// integral; that evaluation order is part of the contract so that results
// are bit-for-bit reproducible even where op is mathematically commutative.
func Combine[A, B, C any](m Measure[A], n Measure[B], op func(A, B) C) Measure[C] {
	return newMeasure(func(g func(C) float64) float64 {
		return m.Apply(func(x A) float64 {
			return n.Apply(func(y B) float64 {
				return g(op(x, y))
			})
		})
	})
}
