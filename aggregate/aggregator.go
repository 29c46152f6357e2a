// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package aggregate

import (
	"github.com/dnspulse/dnspulse/types"
)

// Aggregator owns one [Result] per endpoint under test. The whole result map
// is built up front, before any probing starts, and is never structurally
// modified afterwards: concurrent completions only ever mutate the individual
// (self-locking) Results, so the map itself can be read without any
// synchronization.
type Aggregator struct {
	results []*Result
	byAddr  map[string]*Result
}

// New returns an Aggregator with a fresh [Result] for every specified
// endpoint, preserving the endpoints' discovery order.
func New(endpoints []types.Endpoint) *Aggregator {
	a := &Aggregator{
		results: make([]*Result, 0, len(endpoints)),
		byAddr:  make(map[string]*Result, len(endpoints)),
	}
	for _, endpoint := range endpoints {
		result := newResult(endpoint)
		a.results = append(a.results, result)
		a.byAddr[endpoint.Address] = result
	}
	return a
}

// Record merges one completed probe attempt into the statistics of the
// endpoint at the specified address. Outcomes for unknown addresses are
// silently dropped; this can only happen through a programming error in the
// scheduling layer and must never fail a scan.
func (a *Aggregator) Record(address string, outcome types.ProbeOutcome) {
	if result, ok := a.byAddr[address]; ok {
		result.record(outcome)
	}
}

// Finalize declares the endpoint's attempts at the specified address to be
// exhausted, deriving its final status and freezing its Result.
func (a *Aggregator) Finalize(address string) {
	if result, ok := a.byAddr[address]; ok {
		result.finalize()
	}
}

// FinalizeAll freezes all Results, deriving their final status labels from
// whatever statistics they have accumulated so far.
func (a *Aggregator) FinalizeAll() {
	for _, result := range a.results {
		result.finalize()
	}
}

// Results returns the per-endpoint Results keyed by endpoint address.
func (a *Aggregator) Results() map[string]*Result {
	results := make(map[string]*Result, len(a.byAddr))
	for addr, result := range a.byAddr {
		results[addr] = result
	}
	return results
}

// Ordered returns the per-endpoint Results in endpoint discovery order.
func (a *Aggregator) Ordered() []*Result {
	results := make([]*Result, len(a.results))
	copy(results, a.results)
	return results
}
