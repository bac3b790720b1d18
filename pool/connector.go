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

package pool

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github/sabouaram/netstream/addr"
	"github/sabouaram/netstream/xerrors"
)

// connector runs DNS resolution and a plaintext-stream connect for one
// RequestSocket call that couldn't be satisfied from the idle set. It
// destroys itself (by reporting its outcome to the Pool's origin loop)
// after either succeeding or failing exactly once.
type connector struct {
	id          uuid.UUID
	handle      Handle
	destination Destination
	cancel      context.CancelFunc
	state       atomic.Int32
}

func newConnector(handle Handle, dest Destination) *connector {
	c := &connector{id: uuid.New(), handle: handle, destination: dest}
	c.state.Store(int32(LoadStateResolvingHost))
	return c
}

// loadState reads the connector's current phase, safe to call from any
// goroutine (GetLoadState calls it while holding the Pool's mutex, the
// connector's own goroutine calls it without).
func (c *connector) loadState() LoadState {
	return LoadState(c.state.Load())
}

// start launches the connector's resolve-then-dial goroutine. groupName and
// cb are captured for the completion post; p.mu must NOT be held by the
// caller across this call since the goroutine may complete and attempt to
// take it before start returns on a very fast loopback dial.
func (c *connector) start(p *Pool, groupName string, cb Callback) {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.run(p, groupName, cb, ctx)
}

func (c *connector) run(p *Pool, groupName string, cb Callback, ctx context.Context) {
	resolved, err := p.resolver(ctx, c.destination.Host)
	if err != nil {
		p.finishConnector(groupName, c, nil, xerrors.WrapStd(err, xerrors.AddressInvalid), cb)
		return
	}

	entries := make([]addr.Entry, 0, len(resolved))
	for _, e := range resolved {
		entries = append(entries, addr.Entry{IP: e.IP, Port: c.destination.Port})
	}
	if len(entries) == 0 {
		p.finishConnector(groupName, c, nil, xerrors.New(xerrors.AddressInvalid, "no usable address resolved"), cb)
		return
	}

	c.state.Store(int32(LoadStateConnecting))
	list := addr.New(entries...)

	s, derr := p.dialer.Dial(ctx, c.destination.Host, list, c.destination.Secure)
	if derr != nil {
		p.finishConnector(groupName, c, nil, derr, cb)
		return
	}
	p.finishConnector(groupName, c, s, nil, cb)
}
