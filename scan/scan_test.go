// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package scan

import (
	"context"
	"sync"
	"time"

	"github.com/dnspulse/dnspulse/rank"
	"github.com/dnspulse/dnspulse/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

// testConfig returns a scan configuration suitable for scripted-driver
// testing, without any retry or worker-count surprises.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PingCount = 2
	cfg.RetryCount = 0
	cfg.MaxWorkers = 4
	cfg.Timeout = 100 * time.Millisecond
	return cfg
}

func endpoints(addresses ...string) []types.Endpoint {
	eps := make([]types.Endpoint, 0, len(addresses))
	for _, address := range addresses {
		eps = append(eps, types.Endpoint{Address: address})
	}
	return eps
}

var _ = Describe("scan orchestration", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	Context("configuration problems", func() {

		It("rejects unrunnable configurations before any probing", func() {
			cfg := DefaultConfig()
			cfg.PingCount = 0
			_, err := New(cfg, WithDrivers(newScriptedDriver(types.DNSQuery))).
				Run(context.Background(), endpoints("192.0.2.1"))
			Expect(err).To(MatchError(ConfigError("invalid scan configuration: PingCount must be at least 1")))

			cfg = DefaultConfig()
			cfg.Timeout = 0
			_, err = New(cfg, WithDrivers(newScriptedDriver(types.DNSQuery))).
				Run(context.Background(), endpoints("192.0.2.1"))
			Expect(err).To(BeAssignableToTypeOf(ConfigError("")))
		})

		It("rejects an empty endpoint list", func() {
			_, err := New(testConfig(), WithDrivers(newScriptedDriver(types.DNSQuery))).
				Run(context.Background(), nil)
			Expect(err).To(BeAssignableToTypeOf(ConfigError("")))
		})

		It("rejects scans with all probing methods disabled", func() {
			cfg := testConfig()
			cfg.EnableDNSQuery = false
			cfg.EnableSocket = false
			cfg.EnablePing = false
			results, err := New(cfg).Run(context.Background(), endpoints("192.0.2.1"))
			Expect(err).To(BeAssignableToTypeOf(ConfigError("")))
			Expect(results).To(BeNil())
		})

	})

	It("derives the worker count purely from the injected parallelism", func() {
		Expect(defaultWorkers(0)).To(Equal(4))
		Expect(defaultWorkers(1)).To(Equal(4))
		Expect(defaultWorkers(4)).To(Equal(16))
		Expect(defaultWorkers(64)).To(Equal(maxDefaultWorkers))
	})

	It("caps the endpoint list to the configured maximum", NodeTimeout(10*time.Second), func(ctx context.Context) {
		cfg := testConfig()
		cfg.MaxServers = 2
		drv := newScriptedDriver(types.DNSQuery)
		results := Successful(New(cfg, WithDrivers(drv)).
			Run(ctx, endpoints("192.0.2.1", "192.0.2.2", "192.0.2.3")))
		Expect(results).To(HaveLen(2))
		Expect(results).NotTo(HaveKey("192.0.2.3"))
	})

	It("aggregates, ranks, and classifies a mixed scan", NodeTimeout(10*time.Second), func(ctx context.Context) {
		drv := newScriptedDriver(types.DNSQuery).
			succeeds("192.0.2.1", 10*time.Millisecond).succeeds("192.0.2.1", 12*time.Millisecond).
			fails("192.0.2.2", types.KindTimeout).
			succeeds("192.0.2.3", 45*time.Millisecond).fails("192.0.2.3", types.KindTimeout)
		eps := endpoints("192.0.2.1", "192.0.2.2", "192.0.2.3")

		results := Successful(New(testConfig(), WithDrivers(drv)).Run(ctx, eps))
		Expect(results).To(HaveLen(3))

		avg, defined := results["192.0.2.1"].AvgLatency()
		Expect(defined).To(BeTrue())
		Expect(avg).To(Equal(11 * time.Millisecond))
		Expect(results["192.0.2.1"].Status()).To(Equal("OK (DNS)"))

		_, defined = results["192.0.2.2"].AvgLatency()
		Expect(defined).To(BeFalse())
		Expect(results["192.0.2.2"].Status()).To(Equal("Failed"))

		avg, defined = results["192.0.2.3"].AvgLatency()
		Expect(defined).To(BeTrue())
		Expect(avg).To(Equal(45 * time.Millisecond))

		ranking := rank.New(results, eps)
		Expect(ranking.Len()).To(Equal(3))
		first, _ := ranking.Entry(0)
		Expect(first.Result.Endpoint().Address).To(Equal("192.0.2.1"))
		Expect(first.Level).To(Equal(types.Excellent))
		second, _ := ranking.Entry(1)
		Expect(second.Result.Endpoint().Address).To(Equal("192.0.2.3"))
		Expect(second.Level).To(Equal(types.Good))
		third, _ := ranking.Entry(2)
		Expect(third.Result.Endpoint().Address).To(Equal("192.0.2.2"))
		Expect(third.Level).To(Equal(types.None))
	})

	It("ranks identically over identical synthetic outcomes", NodeTimeout(10*time.Second), func(ctx context.Context) {
		eps := endpoints("192.0.2.1", "192.0.2.2", "192.0.2.3", "192.0.2.4")
		ranked := func() []string {
			drv := newScriptedDriver(types.SocketConnect).
				succeeds("192.0.2.1", 80*time.Millisecond).
				succeeds("192.0.2.3", 15*time.Millisecond).
				fails("192.0.2.2", types.KindRefused).
				fails("192.0.2.4", types.KindUnreachable)
			results := Successful(New(testConfig(), WithDrivers(drv)).Run(ctx, eps))
			order := []string{}
			for _, entry := range rank.New(results, eps).Entries() {
				order = append(order, entry.Result.Endpoint().Address)
			}
			return order
		}
		first := ranked()
		Expect(ranked()).To(Equal(first))
		// Zero-success endpoints rank last, in discovery order.
		Expect(first).To(Equal([]string{"192.0.2.3", "192.0.2.1", "192.0.2.2", "192.0.2.4"}))
	})

	It("keeps the statistical and retry budgets apart", NodeTimeout(10*time.Second), func(ctx context.Context) {
		cfg := testConfig()
		cfg.PingCount = 3
		cfg.RetryCount = 2
		drv := newScriptedDriver(types.DNSQuery).succeeds("192.0.2.1", 10*time.Millisecond)

		results := Successful(New(cfg, WithDrivers(drv)).Run(ctx, endpoints("192.0.2.1")))
		// Successful attempts don't retry: exactly PingCount attempts, and
		// the success counter never exceeds PingCount.
		Expect(drv.attempts("192.0.2.1")).To(Equal(3))
		Expect(results["192.0.2.1"].Successes(types.DNSQuery)).To(Equal(3))
	})

	It("recovers transient failures from the retry budget", NodeTimeout(10*time.Second), func(ctx context.Context) {
		cfg := testConfig()
		cfg.PingCount = 1
		cfg.RetryCount = 2
		drv := newScriptedDriver(types.DNSQuery).
			fails("192.0.2.1", types.KindTimeout).
			fails("192.0.2.1", types.KindRefused).
			succeeds("192.0.2.1", 20*time.Millisecond)

		results := Successful(New(cfg, WithDrivers(drv)).Run(ctx, endpoints("192.0.2.1")))
		Expect(drv.attempts("192.0.2.1")).To(Equal(3))
		Expect(results["192.0.2.1"].Successes(types.DNSQuery)).To(Equal(1))
		avg, defined := results["192.0.2.1"].AvgLatency()
		Expect(defined).To(BeTrue())
		Expect(avg).To(Equal(20 * time.Millisecond))
	})

	It("confines successful methods to the single enabled probe", NodeTimeout(10*time.Second), func(ctx context.Context) {
		drv := newScriptedDriver(types.Ping).
			succeeds("192.0.2.1", 10*time.Millisecond).
			succeeds("192.0.2.2", 30*time.Millisecond)
		eps := endpoints("192.0.2.1", "192.0.2.2")

		results := Successful(New(testConfig(), WithDrivers(drv)).Run(ctx, eps))
		for _, result := range results {
			Expect(len(result.SuccessfulMethods())).To(BeNumerically("<=", 1))
		}
		Expect(results["192.0.2.1"].SuccessfulMethods()).To(ConsistOf(types.Ping))
	})

	It("reports progress without ever stalling the pool", NodeTimeout(10*time.Second), func(ctx context.Context) {
		var mu sync.Mutex
		completions := []int{}
		total := 0
		progress := func(_ types.Endpoint, _ types.ProbeType, completed, tot int) {
			mu.Lock()
			defer mu.Unlock()
			completions = append(completions, completed)
			total = tot
		}

		cfg := testConfig()
		cfg.MaxWorkers = 1 // serialize for a deterministic event order.
		drv := newScriptedDriver(types.DNSQuery).succeeds("192.0.2.1", 10*time.Millisecond)
		Successful(New(cfg, WithDrivers(drv), WithProgress(progress)).
			Run(ctx, endpoints("192.0.2.1", "192.0.2.2")))

		mu.Lock()
		defer mu.Unlock()
		Expect(completions).NotTo(BeEmpty())
		Expect(total).To(Equal(2 * cfg.PingCount))
		for idx := 1; idx < len(completions); idx++ {
			Expect(completions[idx]).To(BeNumerically(">", completions[idx-1]))
		}
		Expect(completions[len(completions)-1]).To(BeNumerically("<=", total))
	})

	Context("cancelling mid-scan", func() {

		It("returns control within one timeout interval", NodeTimeout(10*time.Second), func(ctx context.Context) {
			cfg := testConfig()
			cfg.PingCount = 1
			cfg.MaxWorkers = 2
			cfg.Timeout = 5 * time.Second // way beyond the expected return.
			drv := newScriptedDriver(types.DNSQuery)
			for _, ep := range []string{"192.0.2.1", "192.0.2.2", "192.0.2.3", "192.0.2.4"} {
				drv.stalls(ep)
			}
			scanctx, cancel := context.WithCancel(ctx)
			go func() {
				time.Sleep(100 * time.Millisecond)
				cancel()
			}()
			start := time.Now()
			results := Successful(New(cfg, WithDrivers(drv)).
				Run(scanctx, endpoints("192.0.2.1", "192.0.2.2", "192.0.2.3", "192.0.2.4")))
			Expect(time.Since(start)).To(BeNumerically("<", 2*time.Second))
			for _, result := range results {
				Expect(result.Status()).To(Equal("Failed"))
			}
		})

		It("retains completed endpoints' results unharmed", NodeTimeout(10*time.Second), func(ctx context.Context) {
			cfg := testConfig()
			cfg.PingCount = 1
			cfg.MaxWorkers = 1 // first endpoint fully resolves before the rest.
			drv := newScriptedDriver(types.DNSQuery).
				succeeds("192.0.2.1", 10*time.Millisecond).
				stalls("192.0.2.2").stalls("192.0.2.3")

			scanctx, cancel := context.WithCancel(ctx)
			go func() {
				time.Sleep(50 * time.Millisecond)
				cancel()
			}()
			results := Successful(New(cfg, WithDrivers(drv)).
				Run(scanctx, endpoints("192.0.2.1", "192.0.2.2", "192.0.2.3")))

			// The already completed endpoint looks exactly as after an
			// uninterrupted run...
			avg, defined := results["192.0.2.1"].AvgLatency()
			Expect(defined).To(BeTrue())
			Expect(avg).To(Equal(10 * time.Millisecond))
			Expect(results["192.0.2.1"].Status()).To(Equal("OK (DNS)"))
			// ...while the cut-short rest is finalized with what little it
			// accumulated.
			Expect(results["192.0.2.2"].Status()).To(Equal("Failed"))
			Expect(results["192.0.2.3"].Status()).To(Equal("Failed"))
		})

	})

})
