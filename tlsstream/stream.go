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
	"context"
	"crypto/tls"
	"crypto/x509"
	"sync"

	"golang.org/x/net/idna"

	"github/sabouaram/netstream/netlog"
	"github/sabouaram/netstream/stream"
	"github/sabouaram/netstream/tlsconf"
	"github/sabouaram/netstream/tlsconf/cipher"
	"github/sabouaram/netstream/verify"
	"github/sabouaram/netstream/xerrors"
)

// Stream wraps a plaintext stream.Stream with TLS, implementing
// stream.Stream itself.
type Stream struct {
	wrapped    stream.Stream
	conf       *tlsconf.Config
	verifier   *verify.Verifier
	serverName string
	log        netlog.Logger

	mu       sync.Mutex
	state    State
	adapter  *connAdapter
	tlsConn  *tls.Conn
	acceptedLeaf []byte // leaf accepted on the prior handshake, for renegotiation skip

	negotiatedCipher cipher.Cipher
	negotiatedKeyBits int
}

// New builds a TLS Stream over wrapped, using conf for version/cipher/cert
// policy and verifier to validate the peer's chain. serverName is
// idna-normalized once, up front, per §3's "servername normalization".
func New(wrapped stream.Stream, conf *tlsconf.Config, verifier *verify.Verifier, serverName string, log netlog.Logger) *Stream {
	name, err := idna.Lookup.ToASCII(serverName)
	if err != nil {
		name = serverName
	}
	return &Stream{
		wrapped:    wrapped,
		conf:       conf,
		verifier:   verifier,
		serverName: name,
		log:        log,
	}
}

// Connect implements stream.Stream: dials the wrapped stream, then drives
// the TLS handshake on a dedicated goroutine when cb is non-nil.
func (s *Stream) Connect(ctx context.Context, cb stream.Callback) stream.Result {
	if cb == nil {
		return s.connect(ctx)
	}
	go func() { cb(s.connect(ctx)) }()
	return stream.Result{Pending: true}
}

func (s *Stream) connect(ctx context.Context) stream.Result {
	if res := s.wrapped.Connect(ctx, nil); res.Err != nil {
		return res
	}

	s.mu.Lock()
	s.state = StateHandshakeWrite
	adapter := &connAdapter{s: s.wrapped}
	s.adapter = adapter
	s.mu.Unlock()

	cfg := s.conf.TLSConfig(s.serverName)
	cfg.VerifyPeerCertificate = s.verifyPeerCertificate

	tlsConn := tls.Client(adapter, cfg)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		code := classifyHandshakeErr(err)
		s.mu.Lock()
		s.state = StateNone
		s.mu.Unlock()
		return stream.Result{Err: xerrors.WrapStd(err, code)}
	}

	cs := tlsConn.ConnectionState()
	s.mu.Lock()
	s.tlsConn = tlsConn
	s.state = StateNone
	s.negotiatedCipher = cipher.Cipher(cs.CipherSuite)
	s.negotiatedKeyBits = keyStrengthOf(cs.CipherSuite)
	s.mu.Unlock()

	if s.log != nil {
		s.log.Info("tls handshake complete", netlog.Fields{
			"peer":     s.serverName,
			"version":  cs.Version,
			"cipher":   cs.CipherSuite,
			"key_bits": keyStrengthOf(cs.CipherSuite),
		})
	}

	return stream.Result{}
}

// verifyPeerCertificate is the handshake's verify-cert state: it stands in
// for crypto/tls's own chain validation (disabled via InsecureSkipVerify)
// so that verify.Verifier's bitmask taxonomy and caller-accepted-leaf
// override apply uniformly whether the stream is being used for a first
// handshake or a renegotiation retry.
func (s *Stream) verifyPeerCertificate(rawCerts [][]byte, _ [][]*x509.Certificate) error {
	s.mu.Lock()
	s.state = StateVerifyCert
	s.mu.Unlock()

	certs := make([]*x509.Certificate, 0, len(rawCerts))
	for _, raw := range rawCerts {
		c, err := x509.ParseCertificate(raw)
		if err != nil {
			return err
		}
		certs = append(certs, c)
	}
	if len(certs) == 0 {
		return xerrors.New(xerrors.CertInvalid, "server presented no certificate")
	}
	leaf, intermediates := certs[0], certs[1:]

	s.mu.Lock()
	prior := s.acceptedLeaf
	s.mu.Unlock()
	if prior != nil && string(prior) == string(leaf.Raw) {
		// Renegotiation retry presenting the same leaf already accepted:
		// skip re-verification, per §4.3's renegotiation completion rule.
		return nil
	}

	opts := s.conf.VerifyOptions(s.serverName)
	res, verr := s.verifier.Verify(leaf, intermediates, opts, s.conf.IsAccepted, nil)
	s.mu.Lock()
	s.state = StateVerifyCertComplete
	if res.OK() {
		s.acceptedLeaf = leaf.Raw
	}
	s.mu.Unlock()
	if verr != nil {
		return verr
	}
	return nil
}

// Read implements stream.Stream.
func (s *Stream) Read(buf []byte, cb stream.Callback) stream.Result {
	if cb == nil {
		return s.read(buf)
	}
	go func() { cb(s.read(buf)) }()
	return stream.Result{Pending: true}
}

func (s *Stream) read(buf []byte) stream.Result {
	s.mu.Lock()
	s.state = StatePayloadRead
	conn := s.tlsConn
	s.mu.Unlock()
	if conn == nil {
		return stream.Result{Err: xerrors.New(xerrors.Failed, "read before handshake")}
	}

	n, err := conn.Read(buf)
	s.mu.Lock()
	s.state = StatePayloadReadComplete
	s.mu.Unlock()

	if err == nil {
		return stream.Result{N: n}
	}
	if isCloseTruncation(err) {
		return stream.Result{N: n, Err: xerrors.WrapStd(err, xerrors.ProtocolError)}
	}
	if err.Error() == "EOF" {
		// Clean close_notify (or an EOF landing on a record boundary,
		// which crypto/tls treats the same way): surfaced as a clean
		// end-of-stream, not an error.
		return stream.Result{N: n}
	}
	if isRenegotiation(err) {
		return stream.Result{N: n, Err: xerrors.WrapStd(err, xerrors.RenegotiationRequested)}
	}
	return stream.Result{N: n, Err: xerrors.WrapStd(err, xerrors.ProtocolError)}
}

// Write implements stream.Stream.
func (s *Stream) Write(buf []byte, cb stream.Callback) stream.Result {
	if cb == nil {
		return s.write(buf)
	}
	go func() { cb(s.write(buf)) }()
	return stream.Result{Pending: true}
}

func (s *Stream) write(buf []byte) stream.Result {
	s.mu.Lock()
	s.state = StatePayloadEncrypt
	conn := s.tlsConn
	s.mu.Unlock()
	if conn == nil {
		return stream.Result{Err: xerrors.New(xerrors.Failed, "write before handshake")}
	}

	s.mu.Lock()
	s.state = StatePayloadWrite
	s.mu.Unlock()

	n, err := conn.Write(buf)

	s.mu.Lock()
	s.state = StatePayloadWriteComplete
	s.mu.Unlock()

	if err != nil {
		return stream.Result{N: n, Err: xerrors.WrapStd(err, xerrors.ProtocolError)}
	}
	return stream.Result{N: n}
}

// Disconnect tears down the TLS layer and the wrapped plaintext stream.
func (s *Stream) Disconnect() {
	s.mu.Lock()
	conn := s.tlsConn
	s.tlsConn = nil
	s.state = StateNone
	s.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
		return
	}
	s.wrapped.Disconnect()
}

// IsConnected reports whether the handshake has completed and not since
// been torn down.
func (s *Stream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tlsConn != nil
}

// IsConnectedAndIdle defers to the wrapped stream's socket-level probe: TLS
// adds no additional idle-detection signal of its own.
func (s *Stream) IsConnectedAndIdle() bool {
	if !s.IsConnected() {
		return false
	}
	return s.wrapped.IsConnectedAndIdle()
}

// PeerName returns the normalized server name this Stream was built for.
func (s *Stream) PeerName() string {
	return s.serverName
}

// NegotiatedCipher returns the cipher suite chosen by the completed
// handshake.
func (s *Stream) NegotiatedCipher() cipher.Cipher {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.negotiatedCipher
}

// NegotiatedKeyStrength returns an approximate key strength in bits for the
// negotiated cipher suite, for logging/observability only (SPEC_FULL §4,
// supplemented feature 4).
func (s *Stream) NegotiatedKeyStrength() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.negotiatedKeyBits
}

// ReconnectIgnoringLastError resets the handshake state, disconnects the
// wrapped stream and runs Connect again over a fresh transport connection.
// The wrapped plaintext stream's Connect starts its address list over from
// the first entry, as any Connect after Disconnect does.
func (s *Stream) ReconnectIgnoringLastError(ctx context.Context, cb stream.Callback) stream.Result {
	s.mu.Lock()
	s.tlsConn = nil
	s.state = StateNone
	s.mu.Unlock()
	s.wrapped.Disconnect()
	return s.Connect(ctx, cb)
}

// keyStrengthOf gives a coarse, log-friendly bit-strength for the
// negotiated bulk cipher; it's an observability aid (SPEC_FULL §4,
// supplemented feature 4), not a security computation.
func keyStrengthOf(suite uint16) int {
	switch suite {
	case tls.TLS_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA,
		tls.TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA,
		tls.TLS_RSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_RSA_WITH_AES_128_CBC_SHA:
		return 128
	case tls.TLS_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA,
		tls.TLS_ECDHE_ECDSA_WITH_AES_256_CBC_SHA,
		tls.TLS_RSA_WITH_AES_256_CBC_SHA:
		return 256
	case tls.TLS_CHACHA20_POLY1305_SHA256,
		tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
		tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256:
		return 256
	default:
		return 0
	}
}

var _ stream.Stream = (*Stream)(nil)
