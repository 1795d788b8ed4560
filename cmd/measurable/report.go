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
	"io"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"

	"github.com/silky/measurable/measure"
	"github.com/silky/measurable/stream"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// reportRanks are the quantile ranks reported for every source, from the
// recorder, the trackers, and (when requested) exact integration.
var reportRanks = []float64{0.5, 0.9, 0.99}

// ExactStats are integrated from the measure itself. Volume is a diagnostic:
// anything meaningfully off 1 means the source density or mass function is
// mis-normalized.
type ExactStats struct {
	Volume    float64            `json:"volume"`
	Mean      float64            `json:"mean"`
	Variance  float64            `json:"variance"`
	StdDev    float64            `json:"stddev"`
	Quantiles map[string]float64 `json:"quantiles,omitempty"`
}

// SampledStats come from the draws: the recorder's moments and compressed
// quantile stream, plus the O(1) tracker estimates for the same ranks.
type SampledStats struct {
	Count     uint64             `json:"count"`
	Mean      float64            `json:"mean"`
	Variance  float64            `json:"variance"`
	StdDev    float64            `json:"stddev"`
	Min       float64            `json:"min"`
	Max       float64            `json:"max"`
	Quantiles map[string]float64 `json:"quantiles"`
	Tracked   map[string]float64 `json:"tracked"`
}

// A SourceReport puts the exact and sampled views of one distribution side
// by side.
type SourceReport struct {
	Name    string       `json:"name"`
	Dist    string       `json:"dist,omitempty"`
	Exact   ExactStats   `json:"exact"`
	Sampled SampledStats `json:"sampled"`
}

// A Report is the full outcome of a scenario run.
type Report struct {
	Seed     uint64         `json:"seed"`
	Samples  int            `json:"samples"`
	Sources  []SourceReport `json:"sources"`
	Combined *SourceReport  `json:"combined,omitempty"`
}

func rankKey(rank float64) string {
	return fmt.Sprintf("%g", rank)
}

func exactStats(m measure.Measure[float64], withQuantiles bool) ExactStats {
	s := ExactStats{
		Volume:   measure.Volume(m),
		Mean:     measure.Expectation(m),
		Variance: measure.Variance(m),
	}
	s.StdDev = measure.StdDev(m)
	if withQuantiles {
		s.Quantiles = make(map[string]float64, len(reportRanks))
		for _, rank := range reportRanks {
			s.Quantiles[rankKey(rank)] = measure.Quantile(m, rank)
		}
	}
	return s
}

func sampledStats(rec *stream.Recorder, trackers map[float64]stream.Tracker) SampledStats {
	snap := rec.Snapshot()
	s := SampledStats{
		Count:     snap.Count,
		Mean:      snap.Mean,
		Variance:  snap.Variance,
		StdDev:    snap.StdDev,
		Min:       snap.Min,
		Max:       snap.Max,
		Quantiles: make(map[string]float64, len(reportRanks)),
		Tracked:   make(map[string]float64, len(trackers)),
	}
	for _, rank := range reportRanks {
		s.Quantiles[rankKey(rank)] = rec.Quantile(rank)
	}
	for rank, tr := range trackers {
		s.Tracked[rankKey(rank)] = tr.Estimate()
	}
	return s
}

// WriteJSON renders the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText renders the report as an aligned table, one row per source and
// one for the combined distribution when present.
func (r Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintf(tw, "SOURCE\tDIST\tVOLUME\tMEAN\tSAMPLE MEAN\tSTDDEV\tSAMPLE STDDEV")
	for _, rank := range reportRanks {
		fmt.Fprintf(tw, "\tP%g", rank*100)
	}
	fmt.Fprintln(tw)

	for _, src := range r.Sources {
		writeTextRow(tw, src)
	}
	if r.Combined != nil {
		writeTextRow(tw, *r.Combined)
	}
	return tw.Flush()
}

func writeTextRow(w io.Writer, src SourceReport) {
	fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4g\t%.4g\t%.4g\t%.4g",
		src.Name, src.Dist,
		src.Exact.Volume, src.Exact.Mean, src.Sampled.Mean,
		src.Exact.StdDev, src.Sampled.StdDev)
	for _, rank := range reportRanks {
		fmt.Fprintf(w, "\t%.4g", src.Sampled.Quantiles[rankKey(rank)])
	}
	fmt.Fprintln(w)
}
