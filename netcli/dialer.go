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
	"context"

	"github/sabouaram/netstream/addr"
	"github/sabouaram/netstream/netlog"
	"github/sabouaram/netstream/stream"
	"github/sabouaram/netstream/stream/tcp"
	"github/sabouaram/netstream/tlsconf"
	"github/sabouaram/netstream/tlsstream"
	"github/sabouaram/netstream/verify"
	"github/sabouaram/netstream/xerrors"
)

// tlsDialer is the stream.Dialer the pool's connector actually uses: dial
// plaintext over stream/tcp and, when secure is set, wrap it in a
// tlsstream.Stream and drive the handshake to completion before handing the
// result back, so a secure connector's "connect" phase yields an
// already-secured stream. A non-secure dial returns the plaintext stream.
type tlsDialer struct {
	plain    tcp.Dialer
	tls      *tlsconf.Config
	verifier *verify.Verifier
	log      netlog.Logger
}

func (d tlsDialer) Dial(ctx context.Context, host string, list addr.List, secure bool) (stream.Stream, xerrors.Error) {
	plain, err := d.plain.Dial(ctx, host, list, secure)
	if err != nil {
		return nil, err
	}
	if !secure {
		return plain, nil
	}

	s := tlsstream.New(plain, d.tls, d.verifier, host, d.log)
	res := s.Connect(ctx, nil)
	if res.Err != nil {
		plain.Disconnect()
		return nil, res.Err
	}
	return s, nil
}

var _ stream.Dialer = tlsDialer{}
