// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

/*
Package probe implements the probing methods for testing the reachability and
latency of DNS endpoints: resolution query ([DNSDriver]), transport connect
([SocketDriver]), and echo request ([PingDriver]).

All three drivers satisfy the shared [Driver] contract:

	           +--------+
	address -->| Driver |--> types.ProbeOutcome
	           +--------+

A driver governs exactly one attempt per call: no retries, no statistics, no
scheduling. That all is the business of the scan package, which fans attempts
out over a worker pool and feeds the outcomes into the aggregate package. The
drivers themselves are stateless and can be shared between any number of
concurrent attempts.

The deadline is carried by the context passed to Attempt and is a hard cutoff:
whatever the underlying network operation is still up to, a deadline miss is
reported as a [types.KindTimeout] failure. All other failures get mapped onto
the closed [types.ErrorKind] vocabulary, so that no raw platform error ever
leaks out of this package.

# Acknowledgements

Under their hoods, [DNSDriver] leverages [miekg/dns] for the resolution query
exchange, and [PingDriver] leverages [go-ping/ping] for ICMP echoes.

[miekg/dns]: https://github.com/miekg/dns
[go-ping/ping]: https://github.com/go-ping/ping
*/
package probe
