// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/dnspulse/dnspulse/types"

	"github.com/miekg/dns"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

// serveDNS runs a throw-away local DNS server with the specified handler,
// returning the port it listens on.
func serveDNS(handler dns.Handler) int {
	pc := Successful(net.ListenPacket("udp", "127.0.0.1:0"))
	srv := &dns.Server{PacketConn: pc, Handler: handler}
	go func() {
		defer GinkgoRecover()
		_ = srv.ActivateAndServe()
	}()
	DeferCleanup(func() { Expect(srv.Shutdown()).To(Succeed()) })
	return pc.LocalAddr().(*net.UDPAddr).Port
}

var _ = Describe("resolution-query probing", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("measures a successful resolution query", NodeTimeout(10*time.Second), func(ctx context.Context) {
		port := serveDNS(dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
			defer GinkgoRecover()
			m := new(dns.Msg)
			m.SetReply(r)
			m.Answer = append(m.Answer, Successful(dns.NewRR("google.com. 300 IN A 142.250.74.142")))
			Expect(w.WriteMsg(m)).To(Succeed())
		}))

		drv := NewDNSDriver(WithDNSPort(strconv.Itoa(port)))
		Expect(drv.Type()).To(Equal(types.DNSQuery))
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		outcome := drv.Attempt(ctx, "127.0.0.1")
		Expect(outcome.Success).To(BeTrue())
		Expect(outcome.Probe).To(Equal(types.DNSQuery))
		Expect(outcome.Latency).To(BeNumerically(">", 0))
	})

	It("classifies a mute endpoint as timed out", NodeTimeout(10*time.Second), func(ctx context.Context) {
		port := serveDNS(dns.HandlerFunc(func(dns.ResponseWriter, *dns.Msg) {
			// keep mum, let the client wait for an answer that never comes.
		}))

		drv := NewDNSDriver(WithDNSPort(strconv.Itoa(port)))
		ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
		defer cancel()
		outcome := drv.Attempt(ctx, "127.0.0.1")
		Expect(outcome.Success).To(BeFalse())
		Expect(outcome.Kind).To(Equal(types.KindTimeout))
	})

	It("classifies a dysfunctional resolver", NodeTimeout(10*time.Second), func(ctx context.Context) {
		port := serveDNS(dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
			defer GinkgoRecover()
			m := new(dns.Msg)
			m.SetRcode(r, dns.RcodeServerFailure)
			Expect(w.WriteMsg(m)).To(Succeed())
		}))

		drv := NewDNSDriver(WithDNSPort(strconv.Itoa(port)))
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		outcome := drv.Attempt(ctx, "127.0.0.1")
		Expect(outcome.Success).To(BeFalse())
		Expect(outcome.Kind).To(Equal(types.KindMalformed))
	})

	It("queries for the configured name", NodeTimeout(10*time.Second), func(ctx context.Context) {
		questions := make(chan string, 1)
		port := serveDNS(dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
			defer GinkgoRecover()
			questions <- r.Question[0].Name
			m := new(dns.Msg)
			m.SetReply(r)
			Expect(w.WriteMsg(m)).To(Succeed())
		}))

		drv := NewDNSDriver(WithDNSPort(strconv.Itoa(port)), WithQueryName("example.org"))
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		_ = drv.Attempt(ctx, "127.0.0.1")
		Eventually(questions).Should(Receive(Equal("example.org.")))
	})

})
