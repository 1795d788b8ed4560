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

package stream

import (
	"fmt"
	"math"
	"sync"
)

// A Tracker follows a single statistic of a stream: it consumes observations
// and exposes a running estimate. Both quantile tracker implementations in
// this package satisfy it.
type Tracker interface {
	Observer
	Estimate() float64
}

// Default convergence parameters for QuantileTracker. Lambda trades
// adaptivity against jitter of the stationary estimate; Rho only guards the
// majorisation against division by zero and should stay well below Lambda.
const (
	DefLambda = 0.05
	DefRho    = 1e-4
)

// DefEWRho is the default smoothing rate for the conditional expectations
// tracked by EWQuantileTracker. Unlike the Rho of QuantileTracker it is a
// rate, not an epsilon.
const DefEWRho = 0.01

// QuantileTrackerOpts bundles the options for creating a QuantileTracker.
// Quantile is mandatory; the other fields can safely be left at their zero
// value.
type QuantileTrackerOpts struct {
	// Quantile is the target rank to track, in (0, 1).
	Quantile float64

	// Lambda is the convergence rate parameter, in [0, 1]. Practical values
	// are below 0.1 or thereabouts. Defaults to DefLambda.
	Lambda float64

	// Rho is the majorisation parameter, in [0, 1]. Practical values are
	// well below Lambda. Defaults to DefRho.
	Rho float64
}

// A QuantileTracker follows a single quantile of a stream in O(1) space and
// time per observation, using the majorise-then-solve passive update of
// OnlineStats.jl's MSPI. Unlike the compressed stream inside Recorder it
// never stores samples, so it suits unbounded streams and shifting
// distributions; the price is a jittering estimate whose accuracy depends
// on Lambda.
//
// The first observation seeds the estimate directly, so the tracker needs
// no prior knowledge of the stream's scale.
//
// A QuantileTracker is safe for concurrent use.
type QuantileTracker struct {
	mtx sync.Mutex

	q, lam, rho float64

	est    float64
	seeded bool
}

// NewQuantileTracker creates a QuantileTracker based on the provided
// QuantileTrackerOpts. It panics if Quantile is outside (0, 1) or if Lambda
// or Rho is outside [0, 1].
func NewQuantileTracker(opts QuantileTrackerOpts) *QuantileTracker {
	if opts.Quantile <= 0 || opts.Quantile >= 1 {
		panic(fmt.Errorf("illegal Quantile=%v", opts.Quantile))
	}
	if opts.Lambda < 0 || opts.Lambda > 1 {
		panic(fmt.Errorf("illegal Lambda=%v", opts.Lambda))
	}
	if opts.Rho < 0 || opts.Rho > 1 {
		panic(fmt.Errorf("illegal Rho=%v", opts.Rho))
	}
	if opts.Lambda == 0 {
		opts.Lambda = DefLambda
	}
	if opts.Rho == 0 {
		opts.Rho = DefRho
	}
	return &QuantileTracker{
		q:   opts.Quantile,
		lam: opts.Lambda,
		rho: opts.Rho,
	}
}

// Observe feeds v to the tracker. It implements Observer.
func (t *QuantileTracker) Observe(v float64) {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	if !t.seeded {
		t.est = v
		t.seeded = true
		return
	}
	vt := 1.0 / (math.Abs(v-t.est) + t.rho)
	t.est = (t.est + t.lam*(t.q-0.5+vt*v/2.0)) / (1.0 + t.lam*vt/2.0)
}

// Estimate returns the current estimate of the tracked quantile, or NaN
// before the first observation.
func (t *QuantileTracker) Estimate() float64 {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if !t.seeded {
		return math.NaN()
	}
	return t.est
}

// Reset discards the current estimate; the next observation reseeds it.
func (t *QuantileTracker) Reset() {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.est = 0
	t.seeded = false
}

// EWQuantileTrackerOpts bundles the options for creating an
// EWQuantileTracker. Quantile is mandatory; the other fields can safely be
// left at their zero value.
type EWQuantileTrackerOpts struct {
	// Quantile is the target rank to track, in (0, 1).
	Quantile float64

	// Lambda is the estimate convergence rate parameter, in [0, 1].
	// Defaults to DefLambda.
	Lambda float64

	// Rho is the smoothing rate of the one-sided conditional expectations,
	// in [0, 1]. Defaults to DefEWRho.
	Rho float64
}

// An EWQuantileTracker follows a single quantile of a stream in O(1) space
// and time per observation, using the generalized exponentially weighted
// average of Hammer, Yazidi and Rue (https://arxiv.org/abs/1901.04681). It
// keeps running conditional expectations of the stream on either side of the
// estimate and scales each step by them, which makes it adapt to shifts in
// the underlying distribution faster than QuantileTracker at the cost of a
// larger stationary jitter.
//
// The first observation seeds the estimate and a unit-width expectation
// window around it, so the tracker needs no prior knowledge of the stream's
// scale.
//
// An EWQuantileTracker is safe for concurrent use.
type EWQuantileTracker struct {
	mtx sync.Mutex

	q, lam, rho float64

	est    float64
	ul, uh float64
	seeded bool
}

// NewEWQuantileTracker creates an EWQuantileTracker based on the provided
// EWQuantileTrackerOpts. It panics if Quantile is outside (0, 1) or if
// Lambda or Rho is outside [0, 1].
func NewEWQuantileTracker(opts EWQuantileTrackerOpts) *EWQuantileTracker {
	if opts.Quantile <= 0 || opts.Quantile >= 1 {
		panic(fmt.Errorf("illegal Quantile=%v", opts.Quantile))
	}
	if opts.Lambda < 0 || opts.Lambda > 1 {
		panic(fmt.Errorf("illegal Lambda=%v", opts.Lambda))
	}
	if opts.Rho < 0 || opts.Rho > 1 {
		panic(fmt.Errorf("illegal Rho=%v", opts.Rho))
	}
	if opts.Lambda == 0 {
		opts.Lambda = DefLambda
	}
	if opts.Rho == 0 {
		opts.Rho = DefEWRho
	}
	return &EWQuantileTracker{
		q:   opts.Quantile,
		lam: opts.Lambda,
		rho: opts.Rho,
	}
}

// Observe feeds v to the tracker. It implements Observer.
func (t *EWQuantileTracker) Observe(v float64) {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	if !t.seeded {
		t.est = v
		t.ul = v - 0.5
		t.uh = v + 0.5
		t.seeded = true
		return
	}
	if t.ul > t.uh {
		t.ul, t.uh = t.uh, t.ul
	}
	a := (t.q / (t.uh - t.est)) / (t.q/(t.uh-t.est) + (1-t.q)/(t.est-t.ul))
	var b float64
	if v < t.est {
		b = t.lam * (1 - a)
	} else {
		b = t.lam * a
	}
	nest := (1-b)*t.est + b*v
	// The window is translated along with the estimate, and the side the
	// observation fell on is pulled towards it at rate rho.
	if v > t.est {
		t.uh = nest - t.est + (1-t.rho)*t.uh + t.rho*v
		t.ul = nest - t.est + t.ul
	} else {
		t.uh = nest - t.est + t.uh
		t.ul = nest - t.est + (1-t.rho)*t.ul + t.rho*v
	}
	t.est = nest
}

// Estimate returns the current estimate of the tracked quantile, or NaN
// before the first observation.
func (t *EWQuantileTracker) Estimate() float64 {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if !t.seeded {
		return math.NaN()
	}
	return t.est
}

// Reset discards the current estimate and expectation window; the next
// observation reseeds them.
func (t *EWQuantileTracker) Reset() {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.est = 0
	t.ul = 0
	t.uh = 0
	t.seeded = false
}
