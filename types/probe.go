// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"
	"time"
)

// ProbeType identifies one of the methods for testing the reachability and
// latency of an endpoint.
type ProbeType int

// The probing methods, in their canonical (display) order.
const (
	DNSQuery      ProbeType = iota // send a resolution query to the endpoint.
	SocketConnect                  // open a TCP transport connection to the endpoint.
	Ping                           // send an ICMP echo request to the endpoint.
)

// ProbeTypes lists all probing methods in their canonical order.
var ProbeTypes = []ProbeType{DNSQuery, SocketConnect, Ping}

// String returns the clear-text (display) name of a ProbeType value.
func (p ProbeType) String() string {
	switch p {
	case DNSQuery:
		return "DNS"
	case SocketConnect:
		return "Socket"
	case Ping:
		return "Ping"
	}
	return fmt.Sprintf("ProbeType(%d)", int(p))
}

// ErrorKind classifies why a probe attempt failed.
type ErrorKind int

// The failure classifications of a probe attempt.
const (
	KindNone        ErrorKind = iota // attempt didn't fail.
	KindTimeout                      // attempt missed its deadline.
	KindRefused                      // endpoint actively refused the connection.
	KindUnreachable                  // no route to the endpoint.
	KindMalformed                    // endpoint answered, but with garbage.
	KindPermission                   // insufficient privileges for this probing method.
)

// String returns the clear-text representation of an ErrorKind value.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTimeout:
		return "timeout"
	case KindRefused:
		return "refused"
	case KindUnreachable:
		return "unreachable"
	case KindMalformed:
		return "malformed-response"
	case KindPermission:
		return "permission-denied"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ProbeOutcome is the classified outcome of a single probe attempt against an
// endpoint. Outcomes are values, produced once per attempt and never mutated
// afterwards, so they can be passed around freely without any locking.
type ProbeOutcome struct {
	Probe   ProbeType     // probing method that produced this outcome.
	Success bool          // did the attempt complete in time?
	Latency time.Duration // attempt start to completion; meaningful only on success.
	Kind    ErrorKind     // failure classification; KindNone on success.
}
