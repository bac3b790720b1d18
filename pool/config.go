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
	"time"

	"github.com/go-playground/validator/v10"

	"github/sabouaram/netstream/xerrors"
)

// Config is the struct-tagged, validator-checked configuration surface for
// a Pool, mirroring tlsconf.Config/httpcli.Options's validation style.
type Config struct {
	PerGroupCap  int           `json:"per_group_cap" yaml:"per_group_cap" mapstructure:"per_group_cap" validate:"required,min=1"`
	IdleTTL      time.Duration `json:"idle_ttl" yaml:"idle_ttl" mapstructure:"idle_ttl" validate:"required"`
	ReapInterval time.Duration `json:"reap_interval" yaml:"reap_interval" mapstructure:"reap_interval" validate:"required"`
}

// DefaultConfig returns the documented defaults: six sockets per group, a
// five-minute idle TTL and a ten-second reap tick.
func DefaultConfig() Config {
	return Config{
		PerGroupCap:  6,
		IdleTTL:      5 * time.Minute,
		ReapInterval: 10 * time.Second,
	}
}

var validate = validator.New()

// Validate runs struct-tag validation over c.
func (c Config) Validate() xerrors.Error {
	if err := validate.Struct(c); err != nil {
		return xerrors.Wrap(xerrors.WrapStd(err, xerrors.Failed), xerrors.Failed, "invalid pool configuration")
	}
	return nil
}
