// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"time"

	"github.com/dnspulse/dnspulse/types"
)

// Driver is the contract shared by all probing methods: attempt the endpoint
// at the specified address once, under the deadline carried by the context,
// and report the classified outcome. Drivers are stateless and safe for
// concurrent use; each attempt is fully independent of any other attempt.
//
// An attempt that does not complete before the context's deadline yields
// Success=false and [types.KindTimeout], regardless of whether the underlying
// operation would eventually have succeeded. This is a hard cutoff, not a
// best-effort heuristic.
type Driver interface {
	Type() types.ProbeType
	Attempt(ctx context.Context, address string) types.ProbeOutcome
}

// maxSaneLatency is the upper bound on a believable latency sample; samples
// above it are discarded as failures rather than poisoning the statistics.
const maxSaneLatency = 5 * time.Second

// succeeded returns a successful outcome for a probe attempt that started at
// the given time, unless the measured latency fails the sanity check.
func succeeded(p types.ProbeType, start time.Time) types.ProbeOutcome {
	latency := time.Since(start)
	if latency > maxSaneLatency {
		return failed(p, types.KindTimeout)
	}
	return types.ProbeOutcome{
		Probe:   p,
		Success: true,
		Latency: latency,
	}
}

// failed returns a failure outcome with the specified classification.
func failed(p types.ProbeType, kind types.ErrorKind) types.ProbeOutcome {
	return types.ProbeOutcome{
		Probe: p,
		Kind:  kind,
	}
}
