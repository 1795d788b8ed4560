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

package stream_test

import (
	"fmt"

	"github.com/silky/measurable/measure"
	"github.com/silky/measurable/stream"
)

func ExampleRecorder() {
	r := stream.NewRecorder(stream.RecorderOpts{})
	for _, v := range []float64{2, 4, 6, 8} {
		r.Observe(v)
	}

	fmt.Println(r.Count(), r.Sum())
	fmt.Println(r.Mean())
	fmt.Println(r.Min(), r.Max())
	// Output:
	// 4 20
	// 5
	// 2 8
}

func ExampleRecorder_measure() {
	r := stream.NewRecorder(stream.RecorderOpts{KeepObservations: true})
	for _, v := range []float64{1, 2, 3} {
		r.Observe(v)
	}

	m := r.Measure()
	fmt.Println(measure.Expectation(m))
	// Output: 2
}
