// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"net"
	"time"

	"github.com/dnspulse/dnspulse/types"

	"github.com/miekg/dns"
)

// defaultQueryName is the well-known name resolved when probing an endpoint
// via a resolution query. Any name with a stable existence works here; we only
// care about the endpoint answering at all, and in time.
const defaultQueryName = "google.com."

// DNSDriver probes an endpoint by sending it a single A resolution query and
// waiting for any well-formed answer. It measures the full protocol round
// trip, connection setup included.
type DNSDriver struct {
	clnt *dns.Client
	name string // FQDN to query for.
	port string
}

// DNSOption can be passed to NewDNSDriver when creating new DNSDriver objects.
type DNSOption func(*DNSDriver)

// NewDNSDriver returns a new resolution-query probe driver. The driver
// defaults to querying for "google.com." over UDP at port 53 and can be
// configured during creation using [WithQueryName] and [WithDNSPort].
func NewDNSDriver(options ...DNSOption) *DNSDriver {
	d := &DNSDriver{
		clnt: &dns.Client{Net: "udp"},
		name: defaultQueryName,
		port: "53",
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// WithQueryName sets the name the driver queries the probed endpoints for.
func WithQueryName(name string) DNSOption {
	return func(d *DNSDriver) {
		d.name = dns.Fqdn(name)
	}
}

// WithDNSPort sets the port the driver directs its resolution queries to.
func WithDNSPort(port string) DNSOption {
	return func(d *DNSDriver) {
		d.port = port
	}
}

// Type returns the probing method implemented by this driver.
func (d *DNSDriver) Type() types.ProbeType { return types.DNSQuery }

// Attempt sends one resolution query to the endpoint at the specified address
// and classifies the outcome. The deadline of the passed context is a hard
// cutoff for the whole exchange.
func (d *DNSDriver) Attempt(ctx context.Context, address string) types.ProbeOutcome {
	msg := dns.Msg{
		MsgHdr: dns.MsgHdr{Id: dns.Id()},
	}
	msg.SetQuestion(d.name, dns.TypeA)
	msg.RecursionDesired = true
	start := time.Now()
	r, _, err := d.clnt.ExchangeContext(ctx, &msg, net.JoinHostPort(address, d.port))
	if err != nil {
		return failed(types.DNSQuery, classify(err))
	}
	if r == nil || (r.Rcode != dns.RcodeSuccess && r.Rcode != dns.RcodeNameError) {
		// The endpoint answered, but not with anything a functioning resolver
		// would say about a well-known name.
		return failed(types.DNSQuery, types.KindMalformed)
	}
	return succeeded(types.DNSQuery, start)
}
