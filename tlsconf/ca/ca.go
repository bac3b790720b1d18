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

// Package ca manages the trusted root/intermediate CA certificates a TLS
// stream's verifier validates chains against.
package ca

import (
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidCertificate = errors.New("invalid certificate")
	ErrEmptyInput         = errors.New("empty input")
)

// Cert holds a chain of trusted CA certificates, addressable by both its
// parsed x509 form and its original PEM encoding.
type Cert struct {
	raw   [][]byte
	chain []*x509.Certificate
}

// Parse decodes a PEM-encoded chain of one or more CA certificates.
func Parse(pemData []byte) (*Cert, error) {
	if len(pemData) == 0 {
		return nil, ErrEmptyInput
	}

	c := &Cert{}
	rest := pemData
	for {
		var blk *pem.Block
		blk, rest = pem.Decode(rest)
		if blk == nil {
			break
		}
		if blk.Type != "CERTIFICATE" {
			continue
		}
		x, err := x509.ParseCertificate(blk.Bytes)
		if err != nil {
			return nil, errors.Join(ErrInvalidCertificate, err)
		}
		c.raw = append(c.raw, pem.EncodeToMemory(blk))
		c.chain = append(c.chain, x)
	}
	if len(c.chain) == 0 {
		return nil, ErrInvalidCertificate
	}
	return c, nil
}

// Len returns the number of certificates in the chain.
func (c *Cert) Len() int {
	return len(c.chain)
}

// AppendPool adds every certificate in the chain to p.
func (c *Cert) AppendPool(p *x509.CertPool) {
	for _, x := range c.chain {
		p.AddCert(x)
	}
}

// Pool builds a fresh *x509.CertPool containing this chain.
func (c *Cert) Pool() *x509.CertPool {
	p := x509.NewCertPool()
	c.AppendPool(p)
	return p
}

// Chain renders the chain back to concatenated PEM.
func (c *Cert) Chain() []byte {
	var out []byte
	for _, r := range c.raw {
		out = append(out, r...)
	}
	return out
}

// MarshalJSON implements json.Marshaler by emitting the PEM chain as a
// string.
func (c *Cert) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c.Chain()))
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Cert) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse([]byte(s))
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c *Cert) MarshalYAML() (interface{}, error) {
	return string(c.Chain()), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Cert) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := Parse([]byte(s))
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}

// MarshalCBOR implements cbor.Marshaler.
func (c *Cert) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(string(c.Chain()))
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (c *Cert) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse([]byte(s))
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}
