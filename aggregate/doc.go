// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

/*
Package aggregate maintains the mutable per-endpoint probing statistics of a
scan. An [Aggregator] hands out one [Result] per endpoint; completed probe
attempts stream into it from concurrently running workers and get merged into
running averages and success counters.

The concurrency discipline is deliberately simple: the result map is frozen
before probing starts, and each Result serializes its own read-modify-write
updates behind a per-endpoint lock. Attempts for different endpoints thus
never contend, while concurrently completing attempts for the same endpoint
cannot lose updates.

A Result's life cycle is strictly monotonic: created at scan start, mutated
once per completed attempt, and frozen read-only by finalization, which also
derives the "OK (<methods>)"/"Failed" status label exactly once.

# Acknowledgements

The running averages are computed using [montanaflynn/stats].

[montanaflynn/stats]: https://github.com/montanaflynn/stats
*/
package aggregate
