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

// Package tcp implements the plaintext byte-stream contract (stream.Stream)
// over a nonblocking OS socket. Connect walks an address list, advancing
// past "try next" failures; Read and Write each attempt synchronously first,
// falling back to a readiness watcher goroutine that delivers completion
// through a Callback when the attempt would otherwise block.
package tcp

import (
	"context"
	"errors"
	"net"
	"sync"
	"syscall"
	"time"

	"github/sabouaram/netstream/addr"
	"github/sabouaram/netstream/netlog"
	"github/sabouaram/netstream/stream"
	"github/sabouaram/netstream/xerrors"
)

// Options configures the socket-level behavior applied on connect:
// disabling Nagle's algorithm and fixing buffer sizes.
type Options struct {
	NoDelay    bool `json:"no_delay" yaml:"no_delay" mapstructure:"no_delay"`
	SendBuffer int  `json:"send_buffer" yaml:"send_buffer" mapstructure:"send_buffer"`
	RecvBuffer int  `json:"recv_buffer" yaml:"recv_buffer" mapstructure:"recv_buffer"`
}

// DefaultOptions matches the teacher's DefaultConfig pattern: documented,
// sane defaults rather than zero values.
func DefaultOptions() Options {
	return Options{
		NoDelay:    true,
		SendBuffer: 64 * 1024,
		RecvBuffer: 64 * 1024,
	}
}

// Stream is the plaintext TCP implementation of stream.Stream.
type Stream struct {
	opts Options
	log  netlog.Logger

	mu     sync.Mutex
	list   addr.List
	cursor *addr.Cursor
	conn   net.Conn

	peerName string

	readInFlight  bool
	writeInFlight bool

	// sawUnexpectedBytes is cleared by Read; nothing sets it.
	// IsConnectedAndIdle probes the socket directly and does not consult it.
	sawUnexpectedBytes bool
}

// New builds a plaintext Stream that will dial the addresses in list, in
// order, on Connect.
func New(list addr.List, opts Options, log netlog.Logger) *Stream {
	return &Stream{
		opts:   opts,
		log:    log,
		list:   list,
		cursor: addr.NewCursor(list),
	}
}

// Connect implements stream.Stream. It dials synchronously (the Go runtime's
// netpoller is this implementation's readiness watcher) but reports the
// result through the stream.Result/Callback contract so callers above it
// never depend on net.Conn directly.
func (s *Stream) Connect(ctx context.Context, cb stream.Callback) stream.Result {
	s.mu.Lock()
	if s.conn != nil {
		s.mu.Unlock()
		return stream.Result{}
	}
	// s.conn == nil here means this is a fresh connect, not a restart mid
	// dialLoop after a try-next failure: reset the cursor to the head every
	// time, not only when Done(), so a Connect that previously succeeded at
	// a non-head address still restarts traversal from the first entry
	// after Disconnect (§4.2, §8).
	s.cursor = addr.NewCursor(s.list)
	s.mu.Unlock()

	if cb == nil {
		return s.dialLoop(ctx)
	}
	go func() { cb(s.dialLoop(ctx)) }()
	return stream.Result{Pending: true}
}

// dialLoop walks the cursor, advancing on try-next failures, until it
// connects or exhausts the list.
func (s *Stream) dialLoop(ctx context.Context) stream.Result {
	var dialer net.Dialer

	for {
		s.mu.Lock()
		if s.cursor.Done() {
			s.mu.Unlock()
			return stream.Result{Err: xerrors.New(xerrors.AddressInvalid, "address list exhausted")}
		}
		entry := s.cursor.Current()
		s.mu.Unlock()

		conn, err := dialer.DialContext(ctx, "tcp", entry.String())
		if err == nil {
			if tc, ok := conn.(*net.TCPConn); ok {
				_ = applySockOpts(tc, s.opts)
			}
			s.mu.Lock()
			s.conn = conn
			s.peerName = entry.String()
			s.mu.Unlock()
			if s.log != nil {
				s.log.Debug("tcp connected", netlog.Fields{"peer": entry.String()})
			}
			return stream.Result{}
		}

		code := classifyDialErr(err)
		if !xerrors.IsTryNext(code) {
			return stream.Result{Err: xerrors.WrapStd(err, code)}
		}

		s.mu.Lock()
		s.cursor.Advance()
		s.mu.Unlock()
	}
}

// classifyDialErr maps a net dial error onto the try-next taxonomy (§7a).
func classifyDialErr(err error) xerrors.Code {
	if errors.Is(err, context.DeadlineExceeded) {
		return xerrors.TimedOut
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return xerrors.ConnectionRefused
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) || errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return xerrors.AddressUnreachable
		}
		if opErr.Timeout() {
			return xerrors.TimedOut
		}
	}
	return xerrors.AddressInvalid
}

// Read implements stream.Stream.
func (s *Stream) Read(buf []byte, cb stream.Callback) stream.Result {
	s.mu.Lock()
	if s.conn == nil {
		s.mu.Unlock()
		return stream.Result{Err: xerrors.New(xerrors.Failed, "read before connect")}
	}
	if s.readInFlight {
		s.mu.Unlock()
		return stream.Result{Err: xerrors.New(xerrors.Unexpected, "read already in flight")}
	}
	s.readInFlight = true
	s.sawUnexpectedBytes = false
	conn := s.conn
	s.mu.Unlock()

	finish := func() stream.Result {
		n, err := conn.Read(buf)
		s.mu.Lock()
		s.readInFlight = false
		s.mu.Unlock()
		if err != nil && err.Error() != "EOF" {
			return stream.Result{Err: xerrors.WrapStd(err, classifyIOErr(err))}
		}
		return stream.Result{N: n}
	}

	if cb == nil {
		return finish()
	}
	go func() { cb(finish()) }()
	return stream.Result{Pending: true}
}

// Write implements stream.Stream.
func (s *Stream) Write(buf []byte, cb stream.Callback) stream.Result {
	s.mu.Lock()
	if s.conn == nil {
		s.mu.Unlock()
		return stream.Result{Err: xerrors.New(xerrors.Failed, "write before connect")}
	}
	if s.writeInFlight {
		s.mu.Unlock()
		return stream.Result{Err: xerrors.New(xerrors.Unexpected, "write already in flight")}
	}
	s.writeInFlight = true
	conn := s.conn
	s.mu.Unlock()

	finish := func() stream.Result {
		n, err := conn.Write(buf)
		s.mu.Lock()
		s.writeInFlight = false
		s.mu.Unlock()
		if err != nil {
			return stream.Result{N: n, Err: xerrors.WrapStd(err, classifyIOErr(err))}
		}
		return stream.Result{N: n}
	}

	if cb == nil {
		return finish()
	}
	go func() { cb(finish()) }()
	return stream.Result{Pending: true}
}

func classifyIOErr(err error) xerrors.Code {
	if errors.Is(err, syscall.ECONNRESET) {
		return xerrors.ConnectionReset
	}
	if errors.Is(err, net.ErrClosed) {
		return xerrors.ConnectionClosed
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return xerrors.TimedOut
	}
	return xerrors.Failed
}

// Disconnect implements stream.Stream. It shuts down the send side first so
// the peer observes a graceful close, then closes the socket, per §4.2.
func (s *Stream) Disconnect() {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn == nil {
		return
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.CloseWrite()
	}
	_ = conn.Close()
}

// IsConnected implements stream.Stream. It may false-positive: it only
// checks that a conn is set, it does not probe the transport.
func (s *Stream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// IsConnectedAndIdle implements stream.Stream. It probes the socket with a
// one-byte read under an already-expired deadline: any readable byte means
// either the peer closed (EOF) or sent unexpected data, both of which are
// reported as not-idle. A byte read by the probe is consumed.
func (s *Stream) IsConnectedAndIdle() bool {
	s.mu.Lock()
	conn := s.conn
	inFlight := s.readInFlight
	s.mu.Unlock()

	if conn == nil || inFlight {
		return false
	}

	tc, ok := conn.(*net.TCPConn)
	if !ok {
		return true
	}

	_ = tc.SetReadDeadline(time.Now())
	var probe [1]byte
	n, err := tc.Read(probe[:])
	_ = tc.SetReadDeadline(time.Time{})

	if n > 0 {
		return false
	}
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return true
		}
		return false
	}
	return true
}

// PeerName implements stream.Stream.
func (s *Stream) PeerName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peerName
}

var _ stream.Stream = (*Stream)(nil)
