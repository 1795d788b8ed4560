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

import "golang.org/x/exp/rand"

// newTestSource returns a deterministic random source for distuv samplers,
// so that sampling tests are reproducible.
func newTestSource(seed uint64) rand.Source {
	return rand.NewSource(seed)
}
