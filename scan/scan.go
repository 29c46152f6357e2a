// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/dnspulse/dnspulse/aggregate"
	"github.com/dnspulse/dnspulse/probe"
	"github.com/dnspulse/dnspulse/types"

	"github.com/apex/log"
	"github.com/gammazero/workerpool"
)

// ProgressFunc is the capability of an external progress reporter: it gets
// told about each resolved attempt together with the overall completion
// tally. Reporters are invoked best-effort from a single forwarding
// goroutine; a slow reporter loses events instead of stalling the pool.
type ProgressFunc func(endpoint types.Endpoint, probe types.ProbeType, completed, total int)

// progressEvent carries one resolved attempt to the progress forwarder.
type progressEvent struct {
	endpoint  types.Endpoint
	probe     types.ProbeType
	completed int
	total     int
}

// Orchestrator schedules probe attempts across endpoints and probing methods
// onto a bounded worker pool, enforces the per-attempt timeout and retry
// policy, and drives completions into a result [aggregate.Aggregator].
type Orchestrator struct {
	cfg         Config
	drivers     []probe.Driver
	progress    ProgressFunc
	parallelism int
	log         log.Interface
}

// Option can be passed to New when creating new Orchestrator objects.
type Option func(*Orchestrator)

// New returns a new Orchestrator for the specified scan configuration.
//
// Unless configured otherwise using [WithDrivers], the orchestrator probes
// with stock drivers for exactly the probing methods the configuration
// enables. Further creation options are [WithProgress], [WithParallelism],
// and [WithLogger].
func New(cfg Config, options ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:         cfg,
		parallelism: runtime.NumCPU(),
		log:         log.Log,
	}
	for _, opt := range options {
		opt(o)
	}
	if o.drivers == nil {
		o.drivers = driversFor(cfg)
	}
	return o
}

// WithDrivers replaces the configuration-derived probe drivers, for instance
// with specially configured or synthetic ones.
func WithDrivers(drivers ...probe.Driver) Option {
	return func(o *Orchestrator) {
		o.drivers = drivers
	}
}

// WithProgress registers a progress reporter to be told, best-effort, about
// resolved attempts.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Orchestrator) {
		o.progress = fn
	}
}

// WithParallelism injects the parallelism value the worker pool size is
// derived from when the configuration leaves MaxWorkers unset. It defaults to
// the number of CPUs.
func WithParallelism(parallelism int) Option {
	return func(o *Orchestrator) {
		o.parallelism = parallelism
	}
}

// WithLogger sets the logger for scan diagnostics; it defaults to the apex
// standard logger.
func WithLogger(l log.Interface) Option {
	return func(o *Orchestrator) {
		o.log = l
	}
}

// driversFor returns stock probe drivers for the probing methods enabled in
// the specified configuration.
func driversFor(cfg Config) []probe.Driver {
	drivers := []probe.Driver{}
	if cfg.EnableDNSQuery {
		drivers = append(drivers, probe.NewDNSDriver())
	}
	if cfg.EnableSocket {
		drivers = append(drivers, probe.NewSocketDriver())
	}
	if cfg.EnablePing {
		drivers = append(drivers, probe.NewPingDriver())
	}
	return drivers
}

// Run probes the specified endpoints and returns the per-endpoint results,
// keyed by endpoint address. The endpoint list is expected to be deduplicated
// and in discovery order; it gets capped to the configured MaxServers.
//
// For every endpoint and every probing method, PingCount independent attempts
// are scheduled onto the bounded worker pool; each attempt may be retried up
// to RetryCount extra times on failure, every (re)try under the same
// per-attempt Timeout. Retries are a recovery budget for transient failures
// on top of the statistical repeat budget, so the per-method success counter
// can never exceed PingCount.
//
// Run returns once every scheduled attempt has resolved, or once the passed
// context gets cancelled or reaches its deadline, whichever comes first. In
// the latter case no new attempts are dispatched, attempts already in flight
// finish naturally or time out, and the results are finalized with whatever
// statistics they accumulated; control returns to the caller within at most
// one per-attempt timeout interval.
//
// Attempt failures are never fatal and surface only in the per-endpoint
// statistics. Run fails up front, without producing any results, on an
// invalid configuration, on an empty endpoint list, and when all probing
// methods are disabled; these all are of the [ConfigError] category.
func (o *Orchestrator) Run(ctx context.Context, endpoints []types.Endpoint) (map[string]*aggregate.Result, error) {
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}
	if len(endpoints) == 0 {
		return nil, ConfigError("empty endpoint list")
	}
	if len(o.drivers) == 0 {
		return nil, ConfigError("all probing methods disabled")
	}
	if len(endpoints) > o.cfg.MaxServers {
		endpoints = endpoints[:o.cfg.MaxServers]
	}

	workers := o.cfg.MaxWorkers
	if workers == 0 {
		workers = defaultWorkers(o.parallelism)
	}
	total := len(endpoints) * len(o.drivers) * o.cfg.PingCount
	o.log.Debugf("scanning %d endpoints with %d methods, %d attempts on %d workers",
		len(endpoints), len(o.drivers), total, workers)

	// Progress events pass through a buffered channel drained by a single
	// forwarding goroutine; the workers drop events when the reporter cannot
	// keep up, instead of ever blocking on it.
	events := make(chan progressEvent, 4*workers)
	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for ev := range events {
			if o.progress != nil {
				o.progress(ev.endpoint, ev.probe, ev.completed, ev.total)
			}
		}
	}()

	agg := aggregate.New(endpoints)
	pool := workerpool.New(workers)
	var completed atomic.Int64
	for _, endpoint := range endpoints {
		for _, drv := range o.drivers {
			for repeat := 0; repeat < o.cfg.PingCount; repeat++ {
				endpoint, drv := endpoint, drv
				pool.Submit(func() {
					// Attempts never started before cancellation are
					// abandoned outright, without even a failure outcome.
					if ctx.Err() != nil {
						return
					}
					outcome := o.attempt(ctx, drv, endpoint.Address)
					agg.Record(endpoint.Address, outcome)
					select {
					case events <- progressEvent{
						endpoint:  endpoint,
						probe:     drv.Type(),
						completed: int(completed.Add(1)),
						total:     total,
					}:
					default: // reporter lags; lose the event, not the pool.
					}
				})
			}
		}
	}
	// StopWait is the join point: after cancellation, queued attempts resolve
	// instantly as abandoned and in-flight ones are cut short by their
	// attempt deadlines, so this returns within one timeout interval.
	pool.StopWait()
	close(events)
	<-forwarded

	agg.FinalizeAll()
	return agg.Results(), nil
}

// attempt runs one scheduled attempt, retrying failures until the retry
// budget or the scan context is exhausted, and returns the attempt's final
// outcome.
func (o *Orchestrator) attempt(ctx context.Context, drv probe.Driver, address string) types.ProbeOutcome {
	outcome := types.ProbeOutcome{Probe: drv.Type(), Kind: types.KindTimeout}
	for try := 0; ; try++ {
		attemptCtx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
		outcome = drv.Attempt(attemptCtx, address)
		cancel()
		if outcome.Success {
			return outcome
		}
		o.log.WithField("endpoint", address).WithField("probe", drv.Type().String()).
			Debugf("attempt %d failed: %s", try+1, outcome.Kind)
		if try >= o.cfg.RetryCount || ctx.Err() != nil {
			return outcome
		}
	}
}
