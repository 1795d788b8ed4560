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

package main

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gopkg.in/yaml.v3"

	"github.com/silky/measurable/measure"
)

// A Scenario describes a set of random sources and, optionally, how to
// combine them into one compound distribution. Each source is realised
// twice: as an exact measure that is integrated, and as a sampler that
// feeds the streaming recorders, so the report can put closed-form and
// sampled statistics side by side.
type Scenario struct {
	// Seed for all samplers. Runs with the same scenario and seed produce
	// identical reports.
	Seed uint64 `yaml:"seed"`

	// Samples drawn from each source. Defaults to DefSamples.
	Samples int `yaml:"samples"`

	Sources []SourceConfig `yaml:"sources"`

	// Combine folds the sources left to right with the given operation.
	Combine *CombineConfig `yaml:"combine,omitempty"`
}

// SourceConfig declares a single named distribution. Dist selects the
// family; the remaining fields parameterise it and unused ones are ignored.
type SourceConfig struct {
	Name string `yaml:"name"`
	Dist string `yaml:"dist"`

	Mu     float64 `yaml:"mu,omitempty"`     // normal, lognormal
	Sigma  float64 `yaml:"sigma,omitempty"`  // normal, lognormal
	Rate   float64 `yaml:"rate,omitempty"`   // exponential
	Min    float64 `yaml:"min,omitempty"`    // uniform
	Max    float64 `yaml:"max,omitempty"`    // uniform
	Alpha  float64 `yaml:"alpha,omitempty"`  // beta
	Beta   float64 `yaml:"beta,omitempty"`   // beta
	Lambda float64 `yaml:"lambda,omitempty"` // poisson
	P      float64 `yaml:"p,omitempty"`      // binomial, bernoulli
	N      int     `yaml:"n,omitempty"`      // binomial
}

// CombineConfig selects the operation that folds the sources.
type CombineConfig struct {
	Op string `yaml:"op"` // add, sub, or mul
}

// DefSamples is the default number of draws per source.
const DefSamples = 20000

// DefaultScenario is used when no scenario file is given: a normal baseline
// with an exponential delay added on top.
func DefaultScenario() Scenario {
	return Scenario{
		Seed:    1,
		Samples: DefSamples,
		Sources: []SourceConfig{
			{Name: "baseline", Dist: "normal", Mu: 120, Sigma: 15},
			{Name: "retry-delay", Dist: "exponential", Rate: 0.1},
		},
		Combine: &CombineConfig{Op: "add"},
	}
}

// LoadScenario reads and validates a scenario from a YAML file.
func LoadScenario(path string) (Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return Scenario{}, fmt.Errorf("parsing scenario: %w", err)
	}
	if sc.Samples == 0 {
		sc.Samples = DefSamples
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// Validate reports the first problem that would keep the scenario from
// running.
func (sc Scenario) Validate() error {
	if sc.Samples <= 0 {
		return fmt.Errorf("samples must be positive, got %d", sc.Samples)
	}
	if len(sc.Sources) == 0 {
		return fmt.Errorf("scenario needs at least one source")
	}
	seen := make(map[string]bool, len(sc.Sources))
	for i, src := range sc.Sources {
		if src.Name == "" {
			return fmt.Errorf("source %d has no name", i)
		}
		if seen[src.Name] {
			return fmt.Errorf("duplicate source name %q", src.Name)
		}
		seen[src.Name] = true
		if _, err := src.Build(rand.NewSource(0)); err != nil {
			return fmt.Errorf("source %q: %w", src.Name, err)
		}
	}
	if sc.Combine != nil {
		switch sc.Combine.Op {
		case "add", "sub", "mul":
		default:
			return fmt.Errorf("unknown combine op %q (want add, sub, or mul)", sc.Combine.Op)
		}
		if len(sc.Sources) > 3 {
			return fmt.Errorf("combining %d sources: exact integration nests once per source, three is the supported maximum", len(sc.Sources))
		}
	}
	return nil
}

// A Source is a realised SourceConfig: the exact measure side by side with
// a deterministic sampler for the same distribution.
type Source struct {
	Name    string
	Dist    string
	Measure measure.Measure[float64]
	Sample  func() float64
}

// Build realises the source from its configuration, drawing any samples
// from src.
func (c SourceConfig) Build(src rand.Source) (Source, error) {
	s := Source{Name: c.Name, Dist: c.Dist}

	switch c.Dist {
	case "normal":
		if c.Sigma <= 0 {
			return Source{}, fmt.Errorf("normal needs sigma > 0, got %v", c.Sigma)
		}
		d := distuv.Normal{Mu: c.Mu, Sigma: c.Sigma, Src: src}
		s.Measure = measure.FromDensity(d.Prob)
		s.Sample = d.Rand

	case "lognormal":
		if c.Sigma <= 0 {
			return Source{}, fmt.Errorf("lognormal needs sigma > 0, got %v", c.Sigma)
		}
		d := distuv.LogNormal{Mu: c.Mu, Sigma: c.Sigma, Src: src}
		s.Measure = measure.FromDensityOn(d.Prob, 0, math.Inf(1))
		s.Sample = d.Rand

	case "exponential":
		if c.Rate <= 0 {
			return Source{}, fmt.Errorf("exponential needs rate > 0, got %v", c.Rate)
		}
		d := distuv.Exponential{Rate: c.Rate, Src: src}
		s.Measure = measure.FromDensityOn(d.Prob, 0, math.Inf(1))
		s.Sample = d.Rand

	case "uniform":
		if c.Max <= c.Min {
			return Source{}, fmt.Errorf("uniform needs max > min, got [%v, %v]", c.Min, c.Max)
		}
		d := distuv.Uniform{Min: c.Min, Max: c.Max, Src: src}
		s.Measure = measure.FromDensityOn(d.Prob, c.Min, c.Max)
		s.Sample = d.Rand

	case "beta":
		if c.Alpha <= 0 || c.Beta <= 0 {
			return Source{}, fmt.Errorf("beta needs alpha > 0 and beta > 0, got %v and %v", c.Alpha, c.Beta)
		}
		d := distuv.Beta{Alpha: c.Alpha, Beta: c.Beta, Src: src}
		s.Measure = measure.FromDensityOn(d.Prob, 0, 1)
		s.Sample = d.Rand

	case "poisson":
		if c.Lambda <= 0 {
			return Source{}, fmt.Errorf("poisson needs lambda > 0, got %v", c.Lambda)
		}
		d := distuv.Poisson{Lambda: c.Lambda, Src: src}
		s.Measure = massMeasure(d.Prob, poissonCutoff(c.Lambda))
		s.Sample = d.Rand

	case "binomial":
		if c.N <= 0 || c.P < 0 || c.P > 1 {
			return Source{}, fmt.Errorf("binomial needs n > 0 and p in [0, 1], got %d and %v", c.N, c.P)
		}
		d := distuv.Binomial{N: float64(c.N), P: c.P, Src: src}
		s.Measure = massMeasure(d.Prob, c.N)
		s.Sample = d.Rand

	case "bernoulli":
		if c.P < 0 || c.P > 1 {
			return Source{}, fmt.Errorf("bernoulli needs p in [0, 1], got %v", c.P)
		}
		d := distuv.Bernoulli{P: c.P, Src: src}
		s.Measure = massMeasure(d.Prob, 1)
		s.Sample = d.Rand

	default:
		return Source{}, fmt.Errorf("unknown dist %q", c.Dist)
	}
	return s, nil
}

// massMeasure wraps a discrete probability function over the integer
// support 0..max as a measure on the reals.
func massMeasure(prob func(float64) float64, max int) measure.Measure[float64] {
	support := make([]float64, max+1)
	for k := range support {
		support[k] = float64(k)
	}
	return measure.FromMassFunction(prob, support)
}

// poissonCutoff picks a support bound whose truncated tail mass is far
// below the quadrature tolerance.
func poissonCutoff(lambda float64) int {
	return int(math.Ceil(lambda + 20*math.Sqrt(lambda) + 20))
}

// BuildSources realises every source with samplers derived from the
// scenario seed. Source i uses seed+i, so adding a source does not change
// the draws of the ones before it.
func (sc Scenario) BuildSources() ([]Source, error) {
	out := make([]Source, 0, len(sc.Sources))
	for i, c := range sc.Sources {
		s, err := c.Build(rand.NewSource(sc.Seed + uint64(i)))
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", c.Name, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// CombineMeasures folds the exact measures left to right under the
// scenario's combine op. It returns the zero Measure and false when the
// scenario does not combine.
func (sc Scenario) CombineMeasures(sources []Source) (measure.Measure[float64], bool) {
	if sc.Combine == nil || len(sources) == 0 {
		return measure.Measure[float64]{}, false
	}
	acc := sources[0].Measure
	for _, s := range sources[1:] {
		switch sc.Combine.Op {
		case "add":
			acc = measure.Add(acc, s.Measure)
		case "sub":
			acc = measure.Sub(acc, s.Measure)
		case "mul":
			acc = measure.Mul(acc, s.Measure)
		}
	}
	return acc, true
}

// CombineSamples folds one draw per source into a single value under the
// scenario's combine op.
func (sc Scenario) CombineSamples(draws []float64) float64 {
	acc := draws[0]
	for _, v := range draws[1:] {
		switch sc.Combine.Op {
		case "add":
			acc += v
		case "sub":
			acc -= v
		case "mul":
			acc *= v
		}
	}
	return acc
}
