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

package netcli

import (
	"github/sabouaram/netstream/pool"
	"github/sabouaram/netstream/stream"
	"github/sabouaram/netstream/stream/tcp"
	"github/sabouaram/netstream/verify"
	"github/sabouaram/netstream/xerrors"
)

// Client is the module's single entry point: a connection pool pre-wired
// to dial plaintext TCP, wrap it in TLS, and verify the peer's certificate
// chain asynchronously, grouped per destination the way httpcli groups
// nothing (it has no pooling concept) but net/http's own Transport does.
type Client struct {
	pool     *pool.Pool
	verifier *verify.Verifier
}

// New validates opts and builds a Client. reg may be nil to disable metrics;
// log may be nil (every component's logging is nil-safe).
func New(opts Options, reg Registerer, log Logger) (*Client, xerrors.Error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	v := verify.New(opts.RevocationCheck, opts.TLS.ExtendedValidation, log)
	dialer := tlsDialer{
		plain:    tcp.Dialer{Options: opts.TCP, Log: log},
		tls:      &opts.TLS,
		verifier: v,
		log:      log,
	}

	return &Client{
		pool:     pool.New(opts.Pool, dialer, nil, log, reg),
		verifier: v,
	}, nil
}

// RequestSocket asks the pool for a connected stream to dest (TLS-wrapped and
// verified when dest.Secure is set),
// grouped by groupName (conventionally dest.Host, so per-host concurrency
// caps and idle reuse are scoped the way a browser's socket pool scopes
// them). See pool.Pool.RequestSocket for the synchronous/pending contract.
func (c *Client) RequestSocket(groupName string, dest pool.Destination, priority int, handle pool.Handle, cb pool.Callback) pool.Result {
	return c.pool.RequestSocket(groupName, dest, priority, handle, cb)
}

// CancelRequest erases handle from the pool, wherever it currently is.
func (c *Client) CancelRequest(groupName string, handle pool.Handle) {
	c.pool.CancelRequest(groupName, handle)
}

// ReleaseSocket returns s to groupName's pool for reuse or disposal.
func (c *Client) ReleaseSocket(groupName string, s stream.Stream) {
	c.pool.ReleaseSocket(groupName, s)
}

// GetLoadState reports handle's current phase.
func (c *Client) GetLoadState(groupName string, handle pool.Handle) pool.LoadState {
	return c.pool.GetLoadState(groupName, handle)
}

// Close tears down the pool and everything it's holding open.
func (c *Client) Close() {
	c.pool.Close()
}

// IdleCountInGroup reports how many idle, reusable streams groupName is
// currently holding.
func (c *Client) IdleCountInGroup(groupName string) int {
	return c.pool.IdleCountInGroup(groupName)
}
