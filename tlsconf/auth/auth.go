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

// Package auth holds the client certificate a TLS stream presents when the
// peer requests one, per §4.3 "an optional client certificate".
package auth

import "crypto/tls"

// ClientCert is the client certificate the TLS stream offers when the server
// sends a CertificateRequest. A zero-value ClientCert presents nothing.
type ClientCert struct {
	cert tls.Certificate
	set  bool
}

// NewClientCert wraps an already-parsed certificate/key pair.
func NewClientCert(cert tls.Certificate) ClientCert {
	return ClientCert{cert: cert, set: true}
}

// IsSet reports whether a certificate was provided.
func (c ClientCert) IsSet() bool {
	return c.set
}

// TLSCertificate returns the wrapped tls.Certificate.
func (c ClientCert) TLSCertificate() tls.Certificate {
	return c.cert
}
