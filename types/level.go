// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"
	"time"
)

// LatencyLevel buckets an endpoint's average latency into a small set of
// performance classifications.
type LatencyLevel int

// The latency classifications, from best to worst; None applies to endpoints
// without a defined average latency (that is, without any successful probe).
const (
	Excellent LatencyLevel = iota // below 20ms.
	Good                          // below 50ms.
	Fair                          // below 100ms.
	Poor                          // 100ms or above.
	None                          // no successful sample, nothing to classify.
)

// The fixed classification thresholds.
const (
	excellentThreshold = 20 * time.Millisecond
	goodThreshold      = 50 * time.Millisecond
	fairThreshold      = 100 * time.Millisecond
)

// ClassifyLatency returns the LatencyLevel bucket for the specified average
// latency.
func ClassifyLatency(avg time.Duration) LatencyLevel {
	switch {
	case avg < excellentThreshold:
		return Excellent
	case avg < goodThreshold:
		return Good
	case avg < fairThreshold:
		return Fair
	}
	return Poor
}

// String returns the clear-text representation of a LatencyLevel value.
func (l LatencyLevel) String() string {
	switch l {
	case Excellent:
		return "excellent"
	case Good:
		return "good"
	case Fair:
		return "fair"
	case Poor:
		return "poor"
	case None:
		return "none"
	}
	return fmt.Sprintf("LatencyLevel(%d)", int(l))
}
