// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package rank

import (
	"sort"

	"github.com/dnspulse/dnspulse/aggregate"
	"github.com/dnspulse/dnspulse/types"
)

// Entry is one endpoint's position in the ranked report: the 1-based rank,
// the endpoint's completed [aggregate.Result], and the latency classification
// bucket derived from its average latency.
type Entry struct {
	Rank   int
	Result *aggregate.Result
	Level  types.LatencyLevel
}

// Ranking is the ranked report over one completed result set. The ordering is
// computed once, when the Ranking is created, and then cached for its
// lifetime, so accessing individual entries never re-sorts.
type Ranking struct {
	entries []Entry
}

// New ranks the specified completed results. The endpoints argument restates
// the scan's endpoint list in discovery order; it pins down the relative
// order of endpoints without any defined average latency.
//
// Results sort ascending by average latency; results with an undefined
// average (not a single successful sample) sort after every result with a
// defined one and retain their discovery order among themselves.
func New(results map[string]*aggregate.Result, endpoints []types.Endpoint) *Ranking {
	entries := make([]Entry, 0, len(results))
	for _, endpoint := range endpoints {
		result, ok := results[endpoint.Address]
		if !ok {
			continue
		}
		level := types.None
		if avg, defined := result.AvgLatency(); defined {
			level = types.ClassifyLatency(avg)
		}
		entries = append(entries, Entry{Result: result, Level: level})
	}
	sort.SliceStable(entries, func(a, b int) bool {
		avgA, definedA := entries[a].Result.AvgLatency()
		avgB, definedB := entries[b].Result.AvgLatency()
		if definedA != definedB {
			return definedA
		}
		return definedA && avgA < avgB
	})
	for idx := range entries {
		entries[idx].Rank = idx + 1
	}
	return &Ranking{entries: entries}
}

// Len returns the number of ranked entries.
func (r *Ranking) Len() int { return len(r.entries) }

// Entry returns the k-th ranked entry, with k being the 0-based index into
// the ranking, together with true; it returns false for an out-of-range k.
func (r *Ranking) Entry(k int) (Entry, bool) {
	if k < 0 || k >= len(r.entries) {
		return Entry{}, false
	}
	return r.entries[k], true
}

// Entries returns (a copy of) all ranked entries, best first.
func (r *Ranking) Entries() []Entry {
	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	return entries
}
