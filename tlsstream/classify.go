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
	"io"
	"strings"

	"github/sabouaram/netstream/stream"
	"github/sabouaram/netstream/xerrors"
)

// toNetErr adapts a stream.Result to the error net.Conn.Read/Write callers
// expect: the underlying plaintext stream reports a clean peer close as
// Result{N:0, Err:nil} (see stream/tcp), which net.Conn callers (including
// tls.Client) instead expect as io.EOF.
func toNetErr(r stream.Result) error {
	if r.Err == nil {
		if r.N == 0 {
			return io.EOF
		}
		return nil
	}
	return r.Err
}

// isRenegotiation reports whether err is crypto/tls's rejection of a
// server-initiated renegotiation. crypto/tls refuses renegotiation by
// default (tls.Config.Renegotiation is left at its zero value,
// RenegotiateNever) and surfaces the refusal as a plain *local* alert error;
// there's no exported sentinel for it, so the message is matched the way
// crypto/tls's own tests do.
func isRenegotiation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "renegotiation")
}

// isCloseTruncation reports whether err represents the transport closing
// before a TLS close_notify could arrive. crypto/tls collapses a clean
// close_notify and an EOF landing exactly on a record boundary into the
// same io.EOF (see crypto/tls's conn.go, a deliberate interop relaxation);
// only a mid-record truncation is distinguishable here, as
// io.ErrUnexpectedEOF.
func isCloseTruncation(err error) bool {
	return err == io.ErrUnexpectedEOF
}

func classifyHandshakeErr(err error) xerrors.Code {
	switch {
	case err == nil:
		return xerrors.OK
	case isRenegotiation(err):
		return xerrors.RenegotiationRequested
	case strings.Contains(err.Error(), "no cipher suite"), strings.Contains(err.Error(), "protocol version"):
		return xerrors.VersionOrCipherMismatch
	case strings.Contains(err.Error(), "bad certificate"), strings.Contains(err.Error(), "certificate required"):
		return xerrors.BadClientAuthCert
	default:
		return xerrors.ProtocolError
	}
}
