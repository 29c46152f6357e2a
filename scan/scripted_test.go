// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import (
	"context"
	"sync"
	"time"

	"github.com/dnspulse/dnspulse/types"
)

// scriptedDriver is a synthetic probe driver replaying per-address outcome
// scripts, so orchestrator behavior can be tested without any real network
// I/O. Once an address' script runs dry its last outcome repeats forever;
// addresses without any script are unreachable. Addresses marked as stalling
// block every attempt until the attempt's deadline, like an endpoint
// dropping all traffic on the floor would.
type scriptedDriver struct {
	probe types.ProbeType

	mu     sync.Mutex
	script map[string][]types.ProbeOutcome
	stall  map[string]bool
	calls  map[string]int
}

func newScriptedDriver(probe types.ProbeType) *scriptedDriver {
	return &scriptedDriver{
		probe:  probe,
		script: map[string][]types.ProbeOutcome{},
		stall:  map[string]bool{},
		calls:  map[string]int{},
	}
}

// on appends outcomes to the specified address' script.
func (d *scriptedDriver) on(address string, outcomes ...types.ProbeOutcome) *scriptedDriver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.script[address] = append(d.script[address], outcomes...)
	return d
}

// succeeds scripts a successful outcome with the specified latency.
func (d *scriptedDriver) succeeds(address string, latency time.Duration) *scriptedDriver {
	return d.on(address, types.ProbeOutcome{Probe: d.probe, Success: true, Latency: latency})
}

// fails scripts a failure outcome of the specified kind.
func (d *scriptedDriver) fails(address string, kind types.ErrorKind) *scriptedDriver {
	return d.on(address, types.ProbeOutcome{Probe: d.probe, Kind: kind})
}

// stalls marks the specified address as blackholing all attempts.
func (d *scriptedDriver) stalls(address string) *scriptedDriver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stall[address] = true
	return d
}

// attempts returns how often the specified address was probed.
func (d *scriptedDriver) attempts(address string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[address]
}

func (d *scriptedDriver) Type() types.ProbeType { return d.probe }

func (d *scriptedDriver) Attempt(ctx context.Context, address string) types.ProbeOutcome {
	d.mu.Lock()
	d.calls[address]++
	stalling := d.stall[address]
	outcome := types.ProbeOutcome{Probe: d.probe, Kind: types.KindUnreachable}
	if script := d.script[address]; len(script) > 0 {
		outcome = script[0]
		if len(script) > 1 {
			d.script[address] = script[1:]
		}
	}
	d.mu.Unlock()
	if stalling {
		<-ctx.Done()
		return types.ProbeOutcome{Probe: d.probe, Kind: types.KindTimeout}
	}
	return outcome
}
