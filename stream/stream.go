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

// Package stream accumulates observations one at a time and answers summary
// questions about them: count, sum, extrema, mean, variance, and quantile
// estimates. A Recorder does this in O(1) space per quantile objective;
// optionally it retains the raw observations so the empirical measure can be
// rebuilt with package measure.
//
// Where package measure evaluates a distribution it is handed, package
// stream is the collection side: it is what sits in the hot path and
// absorbs values as they happen.
package stream

import (
	"errors"
	"math"
	"sync"

	"github.com/beorn7/perks/quantile"

	"github.com/silky/measurable/measure"
)

// Observer is the interface that wraps the Observe method, used by Recorder
// and the quantile trackers to absorb observations.
type Observer interface {
	Observe(float64)
}

// The ObserverFunc type is an adapter to allow the use of ordinary
// functions as Observers. If f is a function with the appropriate
// signature, ObserverFunc(f) is an Observer that calls f.
type ObserverFunc func(float64)

// Observe calls f(value). It implements Observer.
func (f ObserverFunc) Observe(value float64) {
	f(value)
}

// DefObjectives are the default quantile rank estimates with their
// respective acceptable rank errors.
var DefObjectives = map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001}

// ErrObservationsNotKept is the panic value of Recorder.Measure when the
// Recorder was created without KeepObservations.
var ErrObservationsNotKept = errors.New("stream: observations were not kept, set KeepObservations to rebuild the measure")

// RecorderOpts bundles the options for creating a Recorder. All fields are
// optional and can safely be left at their zero value.
type RecorderOpts struct {
	// Objectives defines the quantile rank estimates with their respective
	// absolute rank error. If Objectives[q] = e, then the value reported for
	// q will be the φ-quantile value for some φ between q-e and q+e. The
	// default value is DefObjectives.
	Objectives map[float64]float64

	// KeepObservations retains every observed value, so that Measure can
	// rebuild the exact empirical measure later. Memory then grows linearly
	// with Count; leave it off for unbounded streams.
	KeepObservations bool
}

// A Recorder ingests a stream of float64 observations and maintains their
// count, sum, extrema, mean, population variance, and targeted quantile
// estimates, all incrementally. The mean and variance use Welford's update,
// so they stay accurate over long streams; the quantiles come from a
// compressed targeted stream and are approximate within the configured
// objectives.
//
// A Recorder is safe for concurrent use. Its zero value is not usable;
// create Recorders with NewRecorder.
type Recorder struct {
	mtx sync.Mutex

	objectives map[float64]float64
	keep       bool

	cnt      uint64
	sum      float64
	min, max float64
	mean, m2 float64

	quantiles *quantile.Stream
	obs       []float64
}

// NewRecorder creates a Recorder based on the provided RecorderOpts.
func NewRecorder(opts RecorderOpts) *Recorder {
	if len(opts.Objectives) == 0 {
		opts.Objectives = DefObjectives
	}
	return &Recorder{
		objectives: opts.Objectives,
		keep:       opts.KeepObservations,
		quantiles:  quantile.NewTargeted(opts.Objectives),
	}
}

// Observe adds v to the stream. It implements Observer.
func (r *Recorder) Observe(v float64) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.sum += v
	if r.cnt == 0 {
		r.min, r.max = v, v
	} else {
		if v < r.min {
			r.min = v
		}
		if v > r.max {
			r.max = v
		}
	}
	r.cnt++

	delta := v - r.mean
	r.mean += delta / float64(r.cnt)
	r.m2 += delta * (v - r.mean)

	r.quantiles.Insert(v)
	if r.keep {
		r.obs = append(r.obs, v)
	}
}

// Count returns the number of observations so far.
func (r *Recorder) Count() uint64 {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.cnt
}

// Sum returns the sum of all observations so far.
func (r *Recorder) Sum() float64 {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.sum
}

// Min returns the smallest observation, or NaN before the first one.
func (r *Recorder) Min() float64 {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.cnt == 0 {
		return math.NaN()
	}
	return r.min
}

// Max returns the largest observation, or NaN before the first one.
func (r *Recorder) Max() float64 {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.cnt == 0 {
		return math.NaN()
	}
	return r.max
}

// Mean returns the running mean, or NaN before the first observation.
func (r *Recorder) Mean() float64 {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.meanLocked()
}

// Variance returns the running population variance, or NaN before the first
// observation. It matches measure.Variance of the corresponding empirical
// measure up to rounding; the Welford form used here is the numerically
// stable one.
func (r *Recorder) Variance() float64 {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.varianceLocked()
}

// StdDev returns the square root of Variance.
func (r *Recorder) StdDev() float64 {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return math.Sqrt(r.varianceLocked())
}

// Quantile returns the current estimate for the given quantile rank, or NaN
// before the first observation. Ranks that were not configured as
// objectives are interpolated by the underlying stream with no accuracy
// guarantee.
func (r *Recorder) Quantile(q float64) float64 {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.cnt == 0 {
		return math.NaN()
	}
	return r.quantiles.Query(q)
}

func (r *Recorder) meanLocked() float64 {
	if r.cnt == 0 {
		return math.NaN()
	}
	return r.mean
}

func (r *Recorder) varianceLocked() float64 {
	if r.cnt == 0 {
		return math.NaN()
	}
	return r.m2 / float64(r.cnt)
}

// A Snapshot is a point-in-time copy of a Recorder's statistics, taken
// atomically with respect to concurrent Observe calls.
type Snapshot struct {
	Count          uint64
	Sum, Min, Max  float64
	Mean, Variance float64
	StdDev         float64
	Quantiles      map[float64]float64
}

// Snapshot returns a consistent copy of all statistics under a single lock
// acquisition. The Quantiles map is keyed by the configured objectives.
func (r *Recorder) Snapshot() Snapshot {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	s := Snapshot{
		Count:     r.cnt,
		Sum:       r.sum,
		Min:       math.NaN(),
		Max:       math.NaN(),
		Mean:      r.meanLocked(),
		Variance:  r.varianceLocked(),
		Quantiles: make(map[float64]float64, len(r.objectives)),
	}
	s.StdDev = math.Sqrt(s.Variance)
	if r.cnt > 0 {
		s.Min, s.Max = r.min, r.max
	}
	for rank := range r.objectives {
		if r.cnt == 0 {
			s.Quantiles[rank] = math.NaN()
			continue
		}
		s.Quantiles[rank] = r.quantiles.Query(rank)
	}
	return s
}

// Measure rebuilds the empirical measure over everything observed so far.
// It panics with ErrObservationsNotKept if the Recorder was created without
// KeepObservations. For an empty stream it returns the degenerate empty
// measure, whose statistics are NaN.
func (r *Recorder) Measure() measure.Measure[float64] {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if !r.keep {
		panic(ErrObservationsNotKept)
	}
	return measure.FromObservations(r.obs)
}

// Reset discards all observations, returning the Recorder to its initial
// state. The configured objectives are kept.
func (r *Recorder) Reset() {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.cnt = 0
	r.sum = 0
	r.min, r.max = 0, 0
	r.mean, r.m2 = 0, 0
	r.quantiles.Reset()
	r.obs = r.obs[:0]
}
