// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
)

var (
	dnsFile      *string
	maxServers   *uint
	pingCount    *uint
	timeout      *time.Duration
	workerNumber *uint
	retryCount   *uint
	interval     *time.Duration
	noDNS        *bool
	noSocket     *bool
	noPing       *bool
	unprivileged *bool
	debug        *bool
)

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:     "dnspulse [flags]",
		Short:   "dnspulse probes public DNS servers and ranks them by latency",
		Version: "1.0.0",
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if *maxServers < 1 || *maxServers > 500 {
				return fmt.Errorf("--max-servers out of range [1..500]")
			}
			if *pingCount < 1 || *pingCount > 100 {
				return fmt.Errorf("--pings out of range [1..100]")
			}
			if *workerNumber > 128 {
				return fmt.Errorf("--workers out of range [0..128]")
			}
			if *interval < 10*time.Millisecond {
				return fmt.Errorf("--interval must be at least 10ms")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			log.SetHandler(cli.New(os.Stderr))
			if *debug {
				log.SetLevel(log.DebugLevel)
				log.Debug("debug logging enabled")
			} else {
				log.SetLevel(log.WarnLevel)
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return ScanAndReport(ctx)
		},
	}
	// Sets up the flags.
	dnsFile = rootCmd.PersistentFlags().String(
		"file", "", "endpoint list file (empty: built-in resolver list)")
	maxServers = rootCmd.PersistentFlags().UintP(
		"max-servers", "m", 50, "maximum number of servers to scan")
	pingCount = rootCmd.PersistentFlags().UintP(
		"pings", "p", 4, "test repeats per probing method and server")
	timeout = rootCmd.PersistentFlags().DurationP(
		"timeout", "t", time.Second, "per-attempt timeout")
	workerNumber = rootCmd.PersistentFlags().UintP(
		"workers", "w", 0, "number of scan workers (0: automatic)")
	retryCount = rootCmd.PersistentFlags().Uint(
		"retries", 2, "extra attempts to recover from transient failures")
	interval = rootCmd.PersistentFlags().Duration(
		"interval", 500*time.Millisecond, "live display update interval")
	noDNS = rootCmd.PersistentFlags().Bool(
		"no-dns", false, "disable the resolution-query probe")
	noSocket = rootCmd.PersistentFlags().Bool(
		"no-socket", false, "disable the transport-connect probe")
	noPing = rootCmd.PersistentFlags().Bool(
		"no-ping", false, "disable the echo-request probe")
	unprivileged = rootCmd.PersistentFlags().Bool(
		"unprivileged", false, "use unprivileged UDP-based pings instead of raw ICMP")
	debug = rootCmd.PersistentFlags().Bool(
		"debug", false, "enable debugging output")
	return
}
