// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dnspulse/dnspulse/probe"
	"github.com/dnspulse/dnspulse/rank"
	"github.com/dnspulse/dnspulse/scan"
	"github.com/dnspulse/dnspulse/source"
	"github.com/dnspulse/dnspulse/types"

	"github.com/gosuri/uilive"
)

// ScanAndReport loads the endpoint list, probes all endpoints with the
// enabled probing methods while rendering live progress, and finally prints
// the ranked report of best-performing servers.
func ScanAndReport(ctx context.Context) error {
	cfg := scan.Config{
		MaxServers:     int(*maxServers),
		PingCount:      int(*pingCount),
		Timeout:        *timeout,
		MaxWorkers:     int(*workerNumber),
		UpdateInterval: *interval,
		RetryCount:     int(*retryCount),
		EnableDNSQuery: !*noDNS,
		EnableSocket:   !*noSocket,
		EnablePing:     !*noPing,
	}
	endpoints, err := loadEndpoints(cfg)
	if err != nil {
		return err
	}

	// The live progress view is fed best-effort by the orchestrator and
	// rendered by a separate goroutine at the configured update interval; the
	// rendering only stops after the scan has finished, with one final
	// update, signalling the end of its activities via renderingDone.
	view := newProgressView(len(endpoints))
	scanDone := make(chan struct{})
	renderingDone := make(chan struct{})
	go func() {
		// Dunno what uilive's background updating mode using Start() is good
		// for? It may trigger anytime with the rendering into the buffer not
		// yet complete, thus making the terminal output very flickery. So we
		// avoid Start() and instead trigger an explicit flush to the terminal
		// after having completed the rendering.
		term := uilive.New()
		renderer := newRenderer(term)
		defer func() {
			renderer.Render(view)
			term.Flush()
			renderer.Stop()
			close(renderingDone)
		}()
		renderer.Render(view)
		term.Flush()
		ticker := time.NewTicker(cfg.UpdateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				renderer.Render(view)
				term.Flush()
			case <-scanDone:
				return
			}
		}
	}()

	orchestrator := scan.New(cfg,
		scan.WithDrivers(driversFor(cfg)...),
		scan.WithProgress(view.Note))
	results, err := orchestrator.Run(ctx, endpoints)
	close(scanDone)
	<-renderingDone
	if err != nil {
		return err
	}

	renderReport(os.Stdout, rank.New(results, endpoints), cfg)
	return nil
}

// loadEndpoints loads the endpoint list from the configured file, falling
// back to the built-in resolver list when no file was specified.
func loadEndpoints(cfg scan.Config) ([]types.Endpoint, error) {
	if *dnsFile == "" {
		return source.Default(cfg.MaxServers), nil
	}
	endpoints, err := source.LoadFile(*dnsFile, cfg.MaxServers)
	if err != nil {
		return nil, fmt.Errorf("cannot load DNS servers: %w", err)
	}
	return endpoints, nil
}

// driversFor assembles the probe drivers for the enabled probing methods,
// honoring the --unprivileged flag for the echo-request probe.
func driversFor(cfg scan.Config) []probe.Driver {
	drivers := []probe.Driver{}
	if cfg.EnableDNSQuery {
		drivers = append(drivers, probe.NewDNSDriver())
	}
	if cfg.EnableSocket {
		drivers = append(drivers, probe.NewSocketDriver())
	}
	if cfg.EnablePing {
		opts := []probe.PingOption{}
		if *unprivileged {
			opts = append(opts, probe.AsUnprivileged())
		}
		drivers = append(drivers, probe.NewPingDriver(opts...))
	}
	return drivers
}
