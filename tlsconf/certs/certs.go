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

// Package certs loads a client certificate+key pair, the config knob
// tlsconf's auth subpackage wraps for presentation to a peer.
package certs

import (
	"crypto/tls"

	"github.com/fxamacker/cbor/v2"
)

// Pair is a PEM-encoded certificate/key pair, persistable alongside a CA
// chain in the same config file.
type Pair struct {
	CertPEM []byte `json:"cert" yaml:"cert"`
	KeyPEM  []byte `json:"key" yaml:"key"`
}

// TLSCertificate parses the pair into a tls.Certificate ready for
// tls.Config.Certificates.
func (p Pair) TLSCertificate() (tls.Certificate, error) {
	return tls.X509KeyPair(p.CertPEM, p.KeyPEM)
}

// MarshalCBOR implements cbor.Marshaler.
func (p Pair) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(struct {
		Cert []byte `cbor:"cert"`
		Key  []byte `cbor:"key"`
	}{p.CertPEM, p.KeyPEM})
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (p *Pair) UnmarshalCBOR(data []byte) error {
	var v struct {
		Cert []byte `cbor:"cert"`
		Key  []byte `cbor:"key"`
	}
	if err := cbor.Unmarshal(data, &v); err != nil {
		return err
	}
	p.CertPEM, p.KeyPEM = v.Cert, v.Key
	return nil
}
