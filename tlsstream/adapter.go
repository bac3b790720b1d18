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

package tlsstream

import (
	"net"
	"time"

	"github/sabouaram/netstream/stream"
)

// connAdapter presents a connected stream.Stream as a blocking net.Conn, the
// shape tls.Client needs. Read and Write each wait on the stream's callback
// when the call doesn't complete synchronously.
type connAdapter struct {
	s stream.Stream
}

func (a *connAdapter) Read(p []byte) (int, error) {
	type out struct {
		n   int
		err error
	}
	ch := make(chan out, 1)
	deliver := func(r stream.Result) { ch <- out{r.N, toNetErr(r)} }

	res := a.s.Read(p, deliver)
	if !res.Pending {
		return res.N, toNetErr(res)
	}
	o := <-ch
	return o.n, o.err
}

func (a *connAdapter) Write(p []byte) (int, error) {
	type out struct {
		n   int
		err error
	}
	ch := make(chan out, 1)
	deliver := func(r stream.Result) { ch <- out{r.N, toNetErr(r)} }

	res := a.s.Write(p, deliver)
	if !res.Pending {
		return res.N, toNetErr(res)
	}
	o := <-ch
	return o.n, o.err
}

func (a *connAdapter) Close() error {
	a.s.Disconnect()
	return nil
}

func (a *connAdapter) LocalAddr() net.Addr                { return nil }
func (a *connAdapter) RemoteAddr() net.Addr                { return nil }
func (a *connAdapter) SetDeadline(t time.Time) error       { return nil }
func (a *connAdapter) SetReadDeadline(t time.Time) error   { return nil }
func (a *connAdapter) SetWriteDeadline(t time.Time) error  { return nil }

var _ net.Conn = (*connAdapter)(nil)
