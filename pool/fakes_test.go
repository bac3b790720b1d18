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

package pool_test

import (
	"context"
	"fmt"
	"net/netip"
	"sync"
	"sync/atomic"

	"github/sabouaram/netstream/addr"
	"github/sabouaram/netstream/stream"
	"github/sabouaram/netstream/xerrors"
)

// fakeStream is a minimal stream.Stream double: no real I/O, just a
// connected/idle flag a test can flip to exercise the pool's reuse and
// release-time health check.
type fakeStream struct {
	mu          sync.Mutex
	id          int
	connected   bool
	idle        bool
	disconnects int
}

func newFakeStream(id int) *fakeStream {
	return &fakeStream{id: id, connected: true, idle: true}
}

func (f *fakeStream) Connect(ctx context.Context, cb stream.Callback) stream.Result {
	f.mu.Lock()
	f.connected = true
	f.mu.Unlock()
	return stream.Result{}
}

func (f *fakeStream) Read(buf []byte, cb stream.Callback) stream.Result {
	return stream.Result{}
}

func (f *fakeStream) Write(buf []byte, cb stream.Callback) stream.Result {
	return stream.Result{N: len(buf)}
}

func (f *fakeStream) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	f.idle = false
	f.disconnects++
}

func (f *fakeStream) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeStream) IsConnectedAndIdle() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected && f.idle
}

func (f *fakeStream) PeerName() string { return fmt.Sprintf("fake-%d", f.id) }

func (f *fakeStream) markUnhealthy() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.idle = false
}

// fakeDialer hands out fresh fakeStreams, optionally failing or blocking
// until released, so tests can exercise the connector's resolve-then-dial
// path deterministically.
type fakeDialer struct {
	dialed  atomic.Int32
	failErr xerrors.Error

	mu    sync.Mutex
	block chan struct{}
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{}
}

// blockDials makes every Dial wait on a channel the test closes later.
func (d *fakeDialer) blockDials() {
	d.mu.Lock()
	d.block = make(chan struct{})
	d.mu.Unlock()
}

func (d *fakeDialer) unblock() {
	d.mu.Lock()
	if d.block != nil {
		close(d.block)
		d.block = nil
	}
	d.mu.Unlock()
}

// fakeResolver always resolves to the loopback address, regardless of host,
// so pool tests never depend on the test host's actual DNS.
func fakeResolver(ctx context.Context, host string) ([]addr.Entry, error) {
	return []addr.Entry{{IP: netip.MustParseAddr("127.0.0.1")}}, nil
}

func (d *fakeDialer) Dial(ctx context.Context, host string, list addr.List, secure bool) (stream.Stream, xerrors.Error) {
	d.mu.Lock()
	block := d.block
	d.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, xerrors.WrapStd(ctx.Err(), xerrors.ConnectionAborted)
		}
	}
	n := d.dialed.Add(1)
	if d.failErr != nil {
		return nil, d.failErr
	}
	return newFakeStream(int(n)), nil
}
