// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import (
	"time"
)

// Default configuration values; see [DefaultConfig].
const (
	DefaultMaxServers     = 50
	DefaultPingCount      = 4
	DefaultTimeout        = time.Second
	DefaultUpdateInterval = 500 * time.Millisecond
	DefaultRetryCount     = 2
)

// maxDefaultWorkers caps the derived worker pool size on machines with lots
// of cores; probing is I/O bound and more workers only hammer the network.
const maxDefaultWorkers = 32

// Config is the immutable configuration of one scan.
type Config struct {
	MaxServers     int           // at most this many endpoints get scanned.
	PingCount      int           // statistical repeats per probing method per endpoint.
	Timeout        time.Duration // per-attempt deadline, the same for every retry.
	MaxWorkers     int           // pool size; 0 derives it from the available parallelism.
	UpdateInterval time.Duration // how often live progress consumers should refresh.
	RetryCount     int           // extra attempts to recover from transient failures.
	EnableDNSQuery bool          // probe via resolution queries.
	EnableSocket   bool          // probe via transport connects.
	EnablePing     bool          // probe via echo requests.
}

// DefaultConfig returns the stock scan configuration: up to 50 endpoints,
// 4 repeats per probing method, 1s per-attempt timeout, an automatically
// sized worker pool, and all three probing methods enabled.
func DefaultConfig() Config {
	return Config{
		MaxServers:     DefaultMaxServers,
		PingCount:      DefaultPingCount,
		Timeout:        DefaultTimeout,
		UpdateInterval: DefaultUpdateInterval,
		RetryCount:     DefaultRetryCount,
		EnableDNSQuery: true,
		EnableSocket:   true,
		EnablePing:     true,
	}
}

// ConfigError reports a scan configuration that a scan cannot even be started
// with; it is reported before any probing begins and no partial results are
// produced then.
type ConfigError string

// Error returns the clear-text description of the configuration problem.
func (e ConfigError) Error() string {
	return "invalid scan configuration: " + string(e)
}

// Validate returns nil if the configuration describes a runnable scan, and a
// [ConfigError] otherwise.
func (c Config) Validate() error {
	switch {
	case c.MaxServers < 1:
		return ConfigError("MaxServers must be at least 1")
	case c.PingCount < 1:
		return ConfigError("PingCount must be at least 1")
	case c.Timeout <= 0:
		return ConfigError("Timeout must be positive")
	case c.MaxWorkers < 0:
		return ConfigError("MaxWorkers must not be negative")
	case c.RetryCount < 0:
		return ConfigError("RetryCount must not be negative")
	}
	return nil
}

// defaultWorkers derives the worker pool size from the available parallelism.
// It is a pure function of its argument so that pool sizing stays
// deterministic and testable; the caller injects the parallelism value
// (typically the machine's CPU count).
func defaultWorkers(parallelism int) int {
	if parallelism < 1 {
		parallelism = 1
	}
	workers := 4 * parallelism
	if workers > maxDefaultWorkers {
		workers = maxDefaultWorkers
	}
	return workers
}
