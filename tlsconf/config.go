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

// Package tlsconf builds the configuration surface the TLS stream consults
// (§4.3, §6): enabled protocol versions, revocation/EV checking toggles, an
// optional client certificate, and the set of pre-accepted leaf
// certificates, plus the trusted CA set.
package tlsconf

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github/sabouaram/netstream/tlsconf/auth"
	"github/sabouaram/netstream/tlsconf/ca"
	"github/sabouaram/netstream/tlsconf/cipher"
	"github/sabouaram/netstream/tlsconf/curves"
	"github/sabouaram/netstream/tlsconf/tlsversion"
	"github/sabouaram/netstream/xerrors"
)

// Config is the struct-tagged configuration surface, validated with
// go-playground/validator the way httpcli.Options is.
type Config struct {
	VersionMin tlsversion.Version `json:"version_min" yaml:"version_min" mapstructure:"version_min" validate:"required"`
	VersionMax tlsversion.Version `json:"version_max" yaml:"version_max" mapstructure:"version_max" validate:"required,gtefield=VersionMin"`

	Ciphers []cipher.Cipher `json:"ciphers" yaml:"ciphers" mapstructure:"ciphers"`
	Curves  []curves.Curve  `json:"curves" yaml:"curves" mapstructure:"curves"`

	RevocationCheck bool `json:"revocation_check" yaml:"revocation_check" mapstructure:"revocation_check"`
	ExtendedValidation bool `json:"extended_validation" yaml:"extended_validation" mapstructure:"extended_validation"`

	ClientCert auth.ClientCert `json:"-" yaml:"-" mapstructure:"-"`

	// AcceptedLeaves maps a leaf's raw DER bytes (as a string key) to true
	// for certificates whose verification errors the caller has pre-accepted
	// (§4.3, §6); the verifier looks leaves up by their raw DER encoding.
	AcceptedLeaves map[string]bool `json:"-" yaml:"-" mapstructure:"-"`

	RootCAs *ca.Cert `json:"-" yaml:"-" mapstructure:"-"`
}

var validate = validator.New()

// DefaultConfig reproduces the teacher's JSON-literal-plus-indent helper
// (httpcli.DefaultConfig): a documented default, not a zero value.
func DefaultConfig(indent string) []byte {
	def := Config{
		VersionMin: tlsversion.VersionTLS12,
		VersionMax: tlsversion.VersionTLS13,
		Ciphers:    cipher.SecureList(),
		Curves:     curves.Default(),
	}
	raw, _ := json.Marshal(def)
	if indent == "" {
		return raw
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", indent); err != nil {
		return raw
	}
	return buf.Bytes()
}

// Validate runs struct-tag validation, matching httpcli.Options.Validate.
func (c *Config) Validate() xerrors.Error {
	if err := validate.Struct(c); err != nil {
		return xerrors.Wrap(xerrors.WrapStd(err, xerrors.Failed), xerrors.Failed, "invalid tls configuration")
	}
	return nil
}

// IsAccepted reports whether the given encoded leaf bytes are in the
// caller's pre-accept set.
func (c *Config) IsAccepted(encodedLeaf []byte) bool {
	if c.AcceptedLeaves == nil {
		return false
	}
	return c.AcceptedLeaves[string(encodedLeaf)]
}

// TLSConfig builds a *tls.Config for serverName from c. tlsstream.Stream
// drives this config through tls.Client on a dedicated per-connection
// goroutine; InsecureSkipVerify is always forced on here, since tlsstream
// substitutes its own verify.Verifier-driven VerifyPeerCertificate hook for
// crypto/tls's built-in chain validation.
func (c *Config) TLSConfig(serverName string) *tls.Config {
	cfg := &tls.Config{
		ServerName:         serverName,
		MinVersion:         uint16(c.VersionMin),
		MaxVersion:         uint16(c.VersionMax),
		CurvePreferences:   curves.ToTLS(c.Curves),
		InsecureSkipVerify: true,
	}

	if c.RootCAs != nil {
		cfg.RootCAs = c.RootCAs.Pool()
	}

	for _, cs := range c.Ciphers {
		cfg.CipherSuites = append(cfg.CipherSuites, uint16(cs))
	}

	if c.ClientCert.IsSet() {
		cfg.Certificates = []tls.Certificate{c.ClientCert.TLSCertificate()}
	}

	return cfg
}

// VerifyOptions builds x509.VerifyOptions from c for the given serverName,
// used by the verify package when building a certificate chain.
func (c *Config) VerifyOptions(serverName string) x509.VerifyOptions {
	opts := x509.VerifyOptions{DNSName: serverName}
	if c.RootCAs != nil {
		opts.Roots = c.RootCAs.Pool()
	}
	return opts
}
