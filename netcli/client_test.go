/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package netcli_test

import (
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github/sabouaram/netstream/netcli"
	"github/sabouaram/netstream/pool"
	"github/sabouaram/netstream/tlsconf"
	"github/sabouaram/netstream/tlsconf/ca"
	"github/sabouaram/netstream/tlsconf/tlsversion"
	"github/sabouaram/netstream/stream/tcp"
)

func newTestClient(rootPEM []byte, keepAlive bool) *netcli.Client {
	root, err := ca.Parse(rootPEM)
	Expect(err).NotTo(HaveOccurred())

	opts := netcli.Options{
		Pool: pool.Config{
			PerGroupCap:  2,
			IdleTTL:      time.Minute,
			ReapInterval: time.Second,
		},
		TLS: tlsconf.Config{
			VersionMin: tlsversion.VersionTLS12,
			VersionMax: tlsversion.VersionTLS13,
			RootCAs:    root,
		},
		TCP: tcp.DefaultOptions(),
	}
	_ = keepAlive

	c, err := netcli.New(opts, nil, nil)
	Expect(err).To(BeNil())
	return c
}

var _ = Describe("Client", func() {
	It("connects, round-trips data over TLS, and reuses the socket on release", func() {
		cert := issueLoopbackCert()
		host, port, teardown := echoServer(cert, true)
		defer teardown()

		c := newTestClient(loopbackCertPEM(cert), true)
		defer c.Close()

		dest := pool.Destination{Host: host, Port: uint16(port), Secure: true}
		h1 := pool.NewHandle()
		ch := make(chan pool.Result, 1)
		res := c.RequestSocket("g", dest, 0, h1, func(r pool.Result) { ch <- r })
		Expect(res.Err).NotTo(BeNil())

		var got pool.Result
		Eventually(ch, 5*time.Second).Should(Receive(&got))
		Expect(got.Err).To(BeNil())
		Expect(got.Reused).To(BeFalse())

		wres := got.Stream.Write([]byte("hello"), nil)
		Expect(wres.Err).To(BeNil())
		buf := make([]byte, 16)
		rres := got.Stream.Read(buf, nil)
		Expect(rres.Err).To(BeNil())
		Expect(string(buf[:rres.N])).To(Equal("hello"))

		c.ReleaseSocket("g", got.Stream)
		Eventually(func() int { return poolIdleCount(c, "g") }, time.Second).Should(Equal(1))

		h2 := pool.NewHandle()
		res2 := c.RequestSocket("g", dest, 0, h2, func(pool.Result) {})
		Expect(res2.Err).To(BeNil())
		Expect(res2.Reused).To(BeTrue())
	})

	It("does not reuse a socket whose peer closed the connection (no keepalive)", func() {
		cert := issueLoopbackCert()
		host, port, teardown := echoServer(cert, false)
		defer teardown()

		c := newTestClient(loopbackCertPEM(cert), false)
		defer c.Close()

		dest := pool.Destination{Host: host, Port: uint16(port), Secure: true}
		h1 := pool.NewHandle()
		ch := make(chan pool.Result, 1)
		c.RequestSocket("g", dest, 0, h1, func(r pool.Result) { ch <- r })

		var got pool.Result
		Eventually(ch, 5*time.Second).Should(Receive(&got))

		wres := got.Stream.Write([]byte("bye"), nil)
		Expect(wres.Err).To(BeNil())
		buf := make([]byte, 16)
		got.Stream.Read(buf, nil)

		// Give the server time to close its end before release, so the
		// idle-health probe observes it.
		time.Sleep(100 * time.Millisecond)
		c.ReleaseSocket("g", got.Stream)
		Eventually(func() int { return poolIdleCount(c, "g") }, time.Second).Should(Equal(0))
	})

	It("drops a cancelled connecting handle's callback, and a fresh request after cancel dials again", func() {
		cert := issueLoopbackCert()
		host, port, teardown := echoServer(cert, true)
		defer teardown()

		c := newTestClient(loopbackCertPEM(cert), true)
		defer c.Close()

		dest := pool.Destination{Host: host, Port: uint16(port), Secure: true}
		h1 := pool.NewHandle()
		called := false
		c.RequestSocket("g", dest, 0, h1, func(pool.Result) { called = true })
		c.CancelRequest("g", h1)

		time.Sleep(100 * time.Millisecond)
		Expect(called).To(BeFalse())

		h2 := pool.NewHandle()
		ch := make(chan pool.Result, 1)
		c.RequestSocket("g", dest, 0, h2, func(r pool.Result) { ch <- r })

		var got pool.Result
		Eventually(ch, 5*time.Second).Should(Receive(&got))
		Expect(got.Err).To(BeNil())
	})

	It("serves the higher-priority pending request first once a slot frees", func() {
		cert := issueLoopbackCert()
		host, port, teardown := echoServer(cert, true)
		defer teardown()

		c := newTestClient(loopbackCertPEM(cert), true)
		defer c.Close()

		dest := pool.Destination{Host: host, Port: uint16(port), Secure: true}

		h1 := pool.NewHandle()
		ch1 := make(chan pool.Result, 1)
		c.RequestSocket("g", dest, 0, h1, func(r pool.Result) { ch1 <- r })
		h2 := pool.NewHandle()
		ch2 := make(chan pool.Result, 1)
		c.RequestSocket("g", dest, 0, h2, func(r pool.Result) { ch2 <- r })

		var got1, got2 pool.Result
		Eventually(ch1, 5*time.Second).Should(Receive(&got1))
		Eventually(ch2, 5*time.Second).Should(Receive(&got2))

		var mu sync.Mutex
		var order []string

		h3 := pool.NewHandle()
		c.RequestSocket("g", dest, 1, h3, func(pool.Result) {
			mu.Lock()
			order = append(order, "low")
			mu.Unlock()
		})
		h4 := pool.NewHandle()
		c.RequestSocket("g", dest, 5, h4, func(pool.Result) {
			mu.Lock()
			order = append(order, "high")
			mu.Unlock()
		})

		c.ReleaseSocket("g", got1.Stream)

		Eventually(func() []string {
			mu.Lock()
			defer mu.Unlock()
			out := make([]string, len(order))
			copy(out, order)
			return out
		}, 5*time.Second).Should(HaveLen(1))

		mu.Lock()
		defer mu.Unlock()
		Expect(order[0]).To(Equal("high"))

		_ = got2
	})
})

// poolIdleCount reaches past netcli.Client's narrow facade to read the
// pool's idle count for assertions; it exists only in tests because Client
// itself has no reason to expose pool-internal bookkeeping.
func poolIdleCount(c *netcli.Client, groupName string) int {
	return c.IdleCountInGroup(groupName)
}
