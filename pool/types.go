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
	"github.com/google/uuid"

	"github/sabouaram/netstream/stream"
	"github/sabouaram/netstream/xerrors"
)

// Handle identifies one caller's outstanding request or grant. Its identity
// is only ever used for log correlation and as a map key — it carries no
// wire representation.
type Handle struct {
	id uuid.UUID
}

// NewHandle mints a fresh Handle.
func NewHandle() Handle {
	return Handle{id: uuid.New()}
}

func (h Handle) String() string { return h.id.String() }

// Destination names what a group's connector dials: a hostname (resolved
// fresh for every connector, never cached across requests), a port, and
// whether the connector's Dialer should wrap the dial in TLS (§2 "if the
// scheme is secure, the plaintext stream is wrapped by a TLS stream").
type Destination struct {
	Host   string
	Port   uint16
	Secure bool
}

// Result is delivered to a RequestSocket caller, either synchronously (when
// RequestSocket itself didn't return pending) or via Callback.
type Result struct {
	Stream stream.Stream
	Reused bool
	Err    xerrors.Error
}

// Callback receives the eventual outcome of a RequestSocket call that
// returned pending.
type Callback func(Result)

// LoadState is what GetLoadState reports for a Handle.
type LoadState int

const (
	// LoadStateUnknown means the handle is not known to the pool at all
	// (never requested, already released, or already completed+consumed).
	LoadStateUnknown LoadState = iota
	LoadStateIdleQueue
	LoadStateResolvingHost
	LoadStateConnecting
)

func (s LoadState) String() string {
	switch s {
	case LoadStateIdleQueue:
		return "pending"
	case LoadStateResolvingHost:
		return "resolving"
	case LoadStateConnecting:
		return "connecting"
	default:
		return "unknown"
	}
}
