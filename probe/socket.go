// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"net"
	"time"

	"github.com/dnspulse/dnspulse/types"
)

// SocketDriver probes an endpoint by opening a TCP transport connection to
// its DNS port and immediately closing it again. This doesn't exercise any
// resolution machinery, but cheaply tells reachability and connection setup
// latency apart from deeper protocol problems.
type SocketDriver struct {
	dialer net.Dialer
	port   string
}

// SocketOption can be passed to NewSocketDriver when creating new
// SocketDriver objects.
type SocketOption func(*SocketDriver)

// NewSocketDriver returns a new transport-connect probe driver, connecting to
// port 53 unless configured otherwise using [WithSocketPort].
func NewSocketDriver(options ...SocketOption) *SocketDriver {
	d := &SocketDriver{
		port: "53",
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// WithSocketPort sets the port the driver connects to.
func WithSocketPort(port string) SocketOption {
	return func(d *SocketDriver) {
		d.port = port
	}
}

// Type returns the probing method implemented by this driver.
func (d *SocketDriver) Type() types.ProbeType { return types.SocketConnect }

// Attempt opens one TCP connection to the endpoint at the specified address
// and classifies the outcome. The deadline of the passed context is a hard
// cutoff for the connection setup.
func (d *SocketDriver) Attempt(ctx context.Context, address string) types.ProbeOutcome {
	start := time.Now()
	conn, err := d.dialer.DialContext(ctx, "tcp", net.JoinHostPort(address, d.port))
	if err != nil {
		return failed(types.SocketConnect, classify(err))
	}
	conn.Close()
	return succeeded(types.SocketConnect, start)
}
