// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dnspulse/dnspulse/rank"
	"github.com/dnspulse/dnspulse/scan"
	"github.com/dnspulse/dnspulse/types"
)

// progressView is the mutable model behind the live progress display. Its
// Note method satisfies [scan.ProgressFunc], so the orchestrator feeds it
// best-effort as attempts resolve.
type progressView struct {
	mu        sync.Mutex
	servers   int
	completed int
	total     int
	last      types.Endpoint
	lastProbe types.ProbeType
}

// newProgressView returns a progress view for a scan over the specified
// number of servers.
func newProgressView(servers int) *progressView {
	return &progressView{servers: servers}
}

// Note records one resolved attempt; it is the progress reporter capability
// handed to the orchestrator.
func (v *progressView) Note(endpoint types.Endpoint, probe types.ProbeType, completed, total int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.completed = completed
	v.total = total
	v.last = endpoint
	v.lastProbe = probe
}

// snapshot returns a consistent copy of the view's state for rendering.
func (v *progressView) snapshot() (completed, total int, last types.Endpoint, lastProbe types.ProbeType) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.completed, v.total, v.last, v.lastProbe
}

// renderer renders the live terminal display from a progress view.
type renderer struct {
	w       io.Writer
	spinner *spinner
}

// newRenderer returns a renderer object rendering to the specified io.Writer.
func newRenderer(w io.Writer) *renderer {
	return &renderer{
		w:       w,
		spinner: newSpinner(100 * time.Millisecond),
	}
}

// Stop the renderer's background ticker.
func (r *renderer) Stop() {
	r.spinner.Stop()
}

// Render one frame of the live progress display.
func (r *renderer) Render(view *progressView) {
	completed, total, last, lastProbe := view.snapshot()
	if total == 0 {
		fmt.Fprintf(r.w, "%s probing %d DNS servers...\n", r.spinner.Spinner(), view.servers)
		return
	}
	percentage := completed * 100 / total
	fmt.Fprintf(r.w, "%s scanning %d DNS servers %s %3d%% (%d/%d attempts, last: %s via %s)\n",
		r.spinner.Spinner(), view.servers,
		progressBar(completed, total, 40), percentage, completed, total,
		last.Address, lastProbe)
}

// progressBar renders a fixed-width bar charting completed versus total.
func progressBar(completed, total, width int) string {
	filled := 0
	if total > 0 {
		filled = completed * width / total
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// latencyBar renders a small bar visualizing an average latency against a
// 300ms full scale.
func latencyBar(avg time.Duration, width int) string {
	const fullScale = 300 * time.Millisecond
	filled := int(int64(avg) * int64(width) / int64(fullScale))
	if filled > width {
		filled = width
	}
	return strings.Repeat("▆", filled) + strings.Repeat(" ", width-filled)
}

// renderReport renders the final ranked report table.
func renderReport(w io.Writer, ranking *rank.Ranking, cfg scan.Config) {
	fmt.Fprintln(w, headerStyle.Styled("DNS Latency Scan - Final Results"))
	fmt.Fprintf(w, "%d servers scanned, %d tests per probing method, completed %s\n",
		ranking.Len(), cfg.PingCount, time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w, strings.Repeat("─", 100))
	fmt.Fprintln(w, headerStyle.Styled(
		fmt.Sprintf("%-5s %-16s %-22s %-10s %-12s %-20s %s",
			"Rank", "DNS Server", "Provider", "Latency", "Visual", "Status", "Success")))
	methods := 0
	for _, enabled := range []bool{cfg.EnableDNSQuery, cfg.EnableSocket, cfg.EnablePing} {
		if enabled {
			methods++
		}
	}
	for _, entry := range ranking.Entries() {
		result := entry.Result
		latency := "Failed"
		visual := strings.Repeat(" ", 10)
		if avg, ok := result.AvgLatency(); ok {
			latency = fmt.Sprintf("%.1fms", float64(avg)/float64(time.Millisecond))
			visual = latencyBar(avg, 10)
		}
		success := 0
		for _, probe := range result.SuccessfulMethods() {
			success += result.Successes(probe)
		}
		rate := 0
		if methods > 0 {
			rate = 100 * success / (methods * cfg.PingCount)
		}
		style := levelStyle(entry.Level)
		fmt.Fprintf(w, "%-5d %-16s %-22s %-10s %-12s %-20s %d%%\n",
			entry.Rank, result.Endpoint().Address,
			clip(result.Endpoint().Provider, 22),
			style.Styled(latency), style.Styled(visual),
			clip(result.Status(), 20), rate)
	}
	fmt.Fprintln(w, strings.Repeat("─", 100))
}

// clip shortens a string to at most max runes, eliding the overflow.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
