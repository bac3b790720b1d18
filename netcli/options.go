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

// Package netcli is the top-level facade: it wires pool, tlsstream, verify
// and stream/tcp together behind one constructor, the way httpcli.New wires
// net/http's transport knobs behind one Request.
package netcli

import (
	"bytes"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"

	"github/sabouaram/netstream/netlog"
	"github/sabouaram/netstream/pool"
	"github/sabouaram/netstream/stream/tcp"
	"github/sabouaram/netstream/tlsconf"
	"github/sabouaram/netstream/xerrors"
)

// Options is the struct-tagged, validator-checked configuration surface for
// a Client, mirroring httpcli.Options/tlsconf.Config's validation style.
type Options struct {
	Pool pool.Config  `json:"pool" yaml:"pool" mapstructure:"pool" validate:"required"`
	TLS  tlsconf.Config `json:"tls" yaml:"tls" mapstructure:"tls" validate:"required"`
	TCP  tcp.Options  `json:"tcp" yaml:"tcp" mapstructure:"tcp"`

	// RevocationCheck enables the verifier's OCSP pass (§3 domain stack).
	RevocationCheck bool `json:"revocation_check" yaml:"revocation_check" mapstructure:"revocation_check"`
}

// DefaultConfig reproduces the teacher's JSON-literal-plus-indent helper
// (httpcli.DefaultConfig / tlsconf.DefaultConfig).
func DefaultConfig(indent string) []byte {
	def := Options{
		Pool: pool.DefaultConfig(),
		TCP:  tcp.DefaultOptions(),
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

var validate = validator.New()

// Validate runs struct-tag validation over o, then delegates to the nested
// Pool and TLS configs' own Validate methods.
func (o Options) Validate() xerrors.Error {
	if err := validate.Struct(o); err != nil {
		return xerrors.Wrap(xerrors.WrapStd(err, xerrors.Failed), xerrors.Failed, "invalid client configuration")
	}
	if err := o.Pool.Validate(); err != nil {
		return err
	}
	if err := o.TLS.Validate(); err != nil {
		return err
	}
	return nil
}

// Registerer lets a caller wire metrics into their own prometheus registry;
// a nil Registerer disables metrics registration entirely.
type Registerer = prometheus.Registerer

// Logger is netlog's facade type, re-exported so callers configuring a
// Client never need to import netlog directly.
type Logger = netlog.Logger
