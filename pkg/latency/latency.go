// Copyright 2025 UMH Systems GmbH
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package latency keeps a rolling window of request latencies.
package latency

import (
	"sort"
	"time"

	"github.com/united-manufacturing-hub/expiremap/v2/pkg/expiremap"
)

const DefaultWindow = 5 * time.Minute

// Snapshot summarises the samples currently in the window.
type Snapshot struct {
	Count int     `json:"count"`
	AvgMs float64 `json:"avgMs"`
	MinMs float64 `json:"minMs"`
	MaxMs float64 `json:"maxMs"`
	P95Ms float64 `json:"p95Ms"`
	P99Ms float64 `json:"p99Ms"`
}

// Tracker records durations keyed by observation time. Samples older than
// the window expire on their own.
type Tracker struct {
	samples *expiremap.ExpireMap[time.Time, time.Duration]
}

func NewTracker(window time.Duration) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}

	return &Tracker{samples: expiremap.NewEx[time.Time, time.Duration](window, window)}
}

func (t *Tracker) Observe(d time.Duration) {
	t.samples.Set(time.Now(), d)
}

func (t *Tracker) Snapshot() Snapshot {
	var (
		minimum, maximum time.Duration
		total            int64
		durations        []time.Duration
	)

	t.samples.Range(func(_ time.Time, value time.Duration) bool {
		if minimum == 0 || value < minimum {
			minimum = value
		}

		if value > maximum {
			maximum = value
		}

		total += value.Nanoseconds()
		durations = append(durations, value)

		return true
	})

	count := len(durations)
	if count == 0 {
		return Snapshot{}
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	return Snapshot{
		Count: count,
		AvgMs: ms(time.Duration(total / int64(count))),
		MinMs: ms(minimum),
		MaxMs: ms(maximum),
		P95Ms: ms(durations[percentileIndex(count, 0.95)]),
		P99Ms: ms(durations[percentileIndex(count, 0.99)]),
	}
}

// GetDebugInfo lets the tracker back the metrics debug endpoint.
func (t *Tracker) GetDebugInfo() interface{} {
	return t.Snapshot()
}

func percentileIndex(count int, p float64) int {
	i := int(float64(count) * p)
	if i >= count {
		i = count - 1
	}

	return i
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
