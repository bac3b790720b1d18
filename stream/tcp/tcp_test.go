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

package tcp_test

import (
	"context"
	"net"
	"net/netip"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github/sabouaram/netstream/addr"
	"github/sabouaram/netstream/stream/tcp"
)

// listen starts a TCP listener on loopback and returns its addr.Entry and a
// stop func. If echo is true, every accepted connection echoes back what it
// reads.
func listen(echo bool) (addr.Entry, func()) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())

	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			if !echo {
				_ = c.Close()
				continue
			}
			go func(c net.Conn) {
				buf := make([]byte, 4096)
				for {
					n, err := c.Read(buf)
					if n > 0 {
						_, _ = c.Write(buf[:n])
					}
					if err != nil {
						return
					}
				}
			}(c)
		}
	}()

	tcpAddr := ln.Addr().(*net.TCPAddr)
	e := addr.Entry{IP: netip.MustParseAddr(tcpAddr.IP.String()), Port: uint16(tcpAddr.Port)}
	return e, func() { _ = ln.Close() }
}

var _ = Describe("Stream", func() {
	It("connects and round-trips bytes", func() {
		entry, stop := listen(true)
		defer stop()

		s := tcp.New(addr.New(entry), tcp.DefaultOptions(), nil)
		res := s.Connect(context.Background(), nil)
		Expect(res.Err).To(BeNil())
		Expect(res.Pending).To(BeFalse())
		defer s.Disconnect()

		Expect(s.IsConnected()).To(BeTrue())

		wres := s.Write([]byte("hello"), nil)
		Expect(wres.Err).To(BeNil())
		Expect(wres.N).To(Equal(5))

		buf := make([]byte, 16)
		Eventually(func() int {
			rres := s.Read(buf, nil)
			if rres.Err != nil {
				return -1
			}
			return rres.N
		}, time.Second).Should(Equal(5))
	})

	It("advances past a refused address to the next one (scenario 6)", func() {
		bad := addr.Entry{IP: netip.MustParseAddr("127.0.0.1"), Port: 1} // nothing listens here
		good, stop := listen(false)
		defer stop()

		s := tcp.New(addr.New(bad, good), tcp.DefaultOptions(), nil)
		res := s.Connect(context.Background(), nil)

		Expect(res.Err).To(BeNil())
		Expect(s.PeerName()).To(Equal(good.String()))
	})

	It("Disconnect is idempotent and allows a fresh Connect to restart at the head", func() {
		// Reserve a port, then immediately free it: nothing listens there yet,
		// so it dials as refused, like scenario 6's "bad" entry.
		probe, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		headAddr := addr.Entry{IP: netip.MustParseAddr("127.0.0.1"), Port: uint16(probe.Addr().(*net.TCPAddr).Port)}
		Expect(probe.Close()).To(Succeed())

		tailGood, stopTail := listen(false)

		// The working address sits at index 1 (tailGood), not the head: the
		// first Connect must advance past the refused head and land on
		// tailGood — exactly scenario 6.
		s := tcp.New(addr.New(headAddr, tailGood), tcp.DefaultOptions(), nil)
		first := s.Connect(context.Background(), nil)
		Expect(first.Err).To(BeNil())
		Expect(s.PeerName()).To(Equal(tailGood.String()))

		s.Disconnect()
		s.Disconnect()

		// Now swap which address is alive: stop tailGood (index 1 now
		// refuses) and start a listener on the head's port instead (index 0
		// now accepts). If Connect wrongly resumed at index 1 instead of
		// restarting from the head, it has nowhere left to advance to once
		// index 1 fails and returns "address list exhausted". Only a
		// correct head-restart reaches the now-live head address.
		stopTail()
		headLn, err := net.Listen("tcp", headAddr.String())
		Expect(err).NotTo(HaveOccurred())
		defer headLn.Close()
		go func() {
			for {
				c, err := headLn.Accept()
				if err != nil {
					return
				}
				_ = c.Close()
			}
		}()

		second := s.Connect(context.Background(), nil)
		Expect(second.Err).To(BeNil())
		Expect(s.PeerName()).To(Equal(headAddr.String()))
	})
})
