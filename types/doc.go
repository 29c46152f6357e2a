// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

/*
Package types defines dnspulse's information model. Which is rather simple and
mainly revolves around [Endpoint] (a candidate DNS server under test),
[ProbeOutcome] (the classified result of a single probe attempt), and the
[ErrorKind] and [LatencyLevel] classification vocabularies.

All types in this package are plain values without any interior mutability:
endpoints are immutable once loaded, and a probe outcome is produced exactly
once per attempt and never changed afterwards. This keeps the inherently
concurrent probing pipeline free of any locking at the data-exchange level;
the only mutable, and thus guarded, state in dnspulse lives in the
per-endpoint results of the aggregate package.

The closed set of probing methods is modelled as the [ProbeType] enumeration
rather than as an interface hierarchy of method objects: the variant set is
fixed (resolution query, transport connect, echo request) and exhaustive
switching over it is all consumers ever need.
*/
package types
