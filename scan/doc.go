// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

/*
Package scan implements the concurrent multi-method probing engine: an
[Orchestrator] fans probe attempts for a set of endpoints out over a bounded
worker pool and merges the resolved outcomes into per-endpoint statistics.

	              +--------------+
	endpoints --->| Orchestrator |---> map[address]*aggregate.Result
	              +--------------+
	                |          \
	        probe.Driver     ProgressFunc (best-effort)

Scheduling discipline: at most MaxWorkers attempts are in flight at any
instant, process-wide; beyond that bound no ordering is promised among
endpoints or probing methods, and callers must not rely on completion order.
Should the pool be saturated, further attempts simply queue up and scheduling
degrades to serialized execution rather than failing the scan.

Three separate budgets govern each scheduled attempt, and they do not mix:
PingCount is the statistical repeat budget per probing method and endpoint,
RetryCount is the per-attempt recovery budget for transient failures (each
retry under the same per-attempt Timeout), and the overall scan deadline, if
any, is simply the deadline of the context passed to [Orchestrator.Run].

# Acknowledgements

Under its hood, [Orchestrator] leverages [gammazero/workerpool] as the
limiting goroutine pool.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
*/
package scan
