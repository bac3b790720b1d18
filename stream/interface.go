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

// Package stream defines the byte-stream contract shared by the plaintext
// TCP stream (package stream/tcp) and the TLS stream (package tlsstream):
// Connect/Read/Write/Disconnect plus liveness probes, full duplex, at most
// one outstanding Read and one outstanding Write at a time.
package stream

import (
	"context"

	"github/sabouaram/netstream/addr"
	"github/sabouaram/netstream/xerrors"
)

// Result is the outcome of Connect, Read or Write. A negative-style result is
// expressed as a non-nil xerrors.Error instead of a signed integer: Go
// callbacks get (n int, err xerrors.Error) rather than a single signed count.
type Result struct {
	// N is a byte count: bytes connected/read/written. Meaningless for
	// Connect beyond zero.
	N int
	// Pending is true when the operation was not completed synchronously;
	// the callback passed to the operation will be invoked later with the
	// final Result.
	Pending bool
	// Err is nil on success (including a pending operation accepted for
	// later completion) and non-nil otherwise. A Read returning N==0 and
	// Err==nil means end-of-stream.
	Err xerrors.Error
}

// Callback is invoked exactly once for a pending operation, with the final
// Result. The tcp and tlsstream implementations invoke it on a goroutine of
// their own; callbacks are not serialized onto a single origin context.
type Callback func(Result)

// Stream is the contract every layer (plaintext TCP, TLS) implements.
// Implementations are not safe for concurrent use by multiple goroutines:
// per §5 of the design, every entry point is expected to originate on one
// cooperative context.
type Stream interface {
	// Connect establishes (or re-establishes, after Disconnect) the
	// connection. It is valid to call Connect on an already-connected
	// stream; it returns ok immediately. cb is invoked if the result is
	// Pending.
	Connect(ctx context.Context, cb Callback) Result

	// Read reads into buf. Only one Read may be outstanding. buf must
	// remain valid and unaliased until a Pending Read's callback fires.
	Read(buf []byte, cb Callback) Result

	// Write writes from buf, possibly partially. Only one Write may be
	// outstanding. buf must remain valid and unaliased until a Pending
	// Write's callback fires.
	Write(buf []byte, cb Callback) Result

	// Disconnect is idempotent. It cancels outstanding I/O without
	// invoking their callbacks. A fresh Connect may follow.
	Disconnect()

	// IsConnected may return a false positive: the peer may have closed
	// the connection without this side noticing yet.
	IsConnected() bool

	// IsConnectedAndIdle must not return a false positive: it is false if
	// any unexpected bytes have arrived since the last Read.
	IsConnectedAndIdle() bool

	// PeerName returns the address or hostname this stream is connected
	// to, for diagnostics and SNI/hostname verification.
	PeerName() string
}

// Dialer abstracts stream construction so the pool's in-flight connector
// does not depend on net.Dial directly — the Go analogue of a socket
// factory indirection, letting tests substitute a fake dialer. host is the
// original, unresolved destination name (never an address from list):
// a TLS-capable Dialer needs it for SNI and peer-name verification, which
// an address list alone cannot carry. secure mirrors §2 "if the scheme is
// secure, the plaintext stream is wrapped by a TLS stream": a Dialer that
// layers TLS over a plain transport consults it to decide whether to wrap
// the dial it produces, so one Dialer can serve both schemes.
type Dialer interface {
	Dial(ctx context.Context, host string, list addr.List, secure bool) (Stream, xerrors.Error)
}
