// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"time"

	"github.com/dnspulse/dnspulse/types"

	"github.com/go-ping/ping"
)

// PingDriver probes an endpoint by sending it a single ICMP echo request.
// Raw-socket ICMP needs elevated privileges on most platforms; the driver can
// alternatively be operated with unprivileged UDP-based pings where the
// platform supports them.
type PingDriver struct {
	unprivileged bool // if true, uses UDP-based pings instead of privileged ICMPs.
}

// PingOption can be passed to NewPingDriver when creating new PingDriver
// objects.
type PingOption func(*PingDriver)

// NewPingDriver returns a new echo-request probe driver.
func NewPingDriver(options ...PingOption) *PingDriver {
	d := &PingDriver{}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// AsUnprivileged tells the PingDriver to carry out unprivileged pings using
// UDP instead of ICMP packets.
func AsUnprivileged() PingOption {
	return func(d *PingDriver) {
		d.unprivileged = true
	}
}

// Type returns the probing method implemented by this driver.
func (d *PingDriver) Type() types.ProbeType { return types.Ping }

// Attempt sends one echo request to the endpoint at the specified address and
// classifies the outcome. The deadline of the passed context is a hard cutoff:
// an echo reply arriving after it doesn't count.
func (d *PingDriver) Attempt(ctx context.Context, address string) types.ProbeOutcome {
	pinger, err := ping.NewPinger(address)
	if err != nil {
		return failed(types.Ping, classify(err))
	}
	pinger.SetPrivileged(!d.unprivileged)
	pinger.Count = 1
	// Always limit waiting for the echo to get reflected (or not)!
	pinger.Timeout = maxSaneLatency
	if deadline, ok := ctx.Deadline(); ok {
		pinger.Timeout = time.Until(deadline)
	}
	// While the ping will be running, we need to monitor the context in case
	// it becomes "done" by either getting cancelled or reaching its deadline.
	// The done channel here works "the other way round" in the sense that it
	// terminates the concurrent context monitoring.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			pinger.Stop()
		case <-done:
		}
	}()
	start := time.Now()
	if err := pinger.Run(); err != nil {
		return failed(types.Ping, classify(err))
	}
	if err := ctx.Err(); err != nil {
		return failed(types.Ping, types.KindTimeout)
	}
	if pinger.Statistics().PacketsRecv < 1 {
		// The echo went out, but nothing came back before the deadline.
		return failed(types.Ping, types.KindTimeout)
	}
	return succeeded(types.Ping, start)
}
