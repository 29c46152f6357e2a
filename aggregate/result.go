// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package aggregate

import (
	"strings"
	"sync"
	"time"

	"github.com/dnspulse/dnspulse/types"

	"github.com/montanaflynn/stats"
)

// Result accumulates the probing statistics of a single endpoint: how often
// each probing method succeeded, the successful latency samples across all
// methods, and the running average over them. A Result is created before any
// probing starts and is mutated exactly once per completed attempt; its
// identity (the endpoint) never changes.
//
// All statistics updates for one endpoint funnel through this Result's own
// lock, so concurrently completing attempts for the same endpoint cannot lose
// updates; different endpoints never contend with each other.
type Result struct {
	endpoint types.Endpoint

	mu        sync.Mutex
	successes map[types.ProbeType]int
	samples   []time.Duration
	methods   map[types.ProbeType]struct{}
	avg       time.Duration
	hasAvg    bool
	updated   time.Time
	status    string
	finalized bool
}

// newResult returns a fresh Result for the specified endpoint, with all
// statistics still zero and the status still pending.
func newResult(endpoint types.Endpoint) *Result {
	return &Result{
		endpoint:  endpoint,
		successes: map[types.ProbeType]int{},
		methods:   map[types.ProbeType]struct{}{},
		status:    "Pending",
	}
}

// record merges one completed attempt into the statistics. Successful
// attempts contribute their latency sample, bump the per-method success
// counter, and cause the average to be recomputed over the full accumulated
// sample set; failed attempts only refresh the update timestamp. Attempts
// arriving after finalization are dropped: the Result has become read-only.
func (r *Result) record(outcome types.ProbeOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finalized {
		return
	}
	r.updated = time.Now()
	if !outcome.Success {
		return
	}
	r.samples = append(r.samples, outcome.Latency)
	r.successes[outcome.Probe]++
	r.methods[outcome.Probe] = struct{}{}
	// The arithmetic mean over every successful sample recorded so far,
	// regardless of which probing method produced it.
	data := make(stats.Float64Data, len(r.samples))
	for idx, sample := range r.samples {
		data[idx] = float64(sample)
	}
	if mean, err := stats.Mean(data); err == nil {
		r.avg = time.Duration(mean)
		r.hasAvg = true
	}
}

// finalize derives the status label once all of the endpoint's scheduled
// attempts have resolved (or were abandoned) and freezes the Result.
func (r *Result) finalize() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finalized {
		return
	}
	r.finalized = true
	if len(r.methods) == 0 {
		r.status = "Failed"
		return
	}
	names := make([]string, 0, len(r.methods))
	for _, probe := range types.ProbeTypes {
		if _, ok := r.methods[probe]; ok {
			names = append(names, probe.String())
		}
	}
	r.status = "OK (" + strings.Join(names, "/") + ")"
}

// Endpoint returns the endpoint whose statistics this Result accumulates.
func (r *Result) Endpoint() types.Endpoint { return r.endpoint }

// AvgLatency returns the arithmetic mean over all successful latency samples,
// together with true; without any successful sample the average is undefined
// and AvgLatency returns false instead.
func (r *Result) AvgLatency() (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.avg, r.hasAvg
}

// Successes returns how often the specified probing method succeeded.
func (r *Result) Successes(probe types.ProbeType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.successes[probe]
}

// SuccessfulMethods returns the probing methods with at least one successful
// attempt, in canonical probe order.
func (r *Result) SuccessfulMethods() []types.ProbeType {
	r.mu.Lock()
	defer r.mu.Unlock()
	methods := make([]types.ProbeType, 0, len(r.methods))
	for _, probe := range types.ProbeTypes {
		if _, ok := r.methods[probe]; ok {
			methods = append(methods, probe)
		}
	}
	return methods
}

// Samples returns (a copy of) the successful latency samples in the order
// they were recorded.
func (r *Result) Samples() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	samples := make([]time.Duration, len(r.samples))
	copy(samples, r.samples)
	return samples
}

// LastUpdated returns when the statistics were last touched.
func (r *Result) LastUpdated() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updated
}

// Status returns the endpoint's status label: "Pending" while attempts are
// still outstanding, and after finalization either "OK (<methods>)" naming
// the succeeding probing methods, or "Failed".
func (r *Result) Status() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}
