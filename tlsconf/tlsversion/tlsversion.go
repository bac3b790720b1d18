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

// Package tlsversion names the four protocol versions the TLS stream's
// configuration surface works with. tlsconf.Config enables them as one
// contiguous range between VersionMin and VersionMax; a single version inside
// that range cannot be disabled on its own.
package tlsversion

import "crypto/tls"

// Version wraps the int version constants from crypto/tls.
type Version int

const (
	VersionUnknown Version = iota
	VersionTLS10           = Version(tls.VersionTLS10)
	VersionTLS11           = Version(tls.VersionTLS11)
	VersionTLS12           = Version(tls.VersionTLS12)
	VersionTLS13           = Version(tls.VersionTLS13)
)

// List returns every known version, highest first.
func List() []Version {
	return []Version{VersionTLS13, VersionTLS12, VersionTLS11, VersionTLS10}
}

// ParseInt maps a crypto/tls version constant onto a Version.
func ParseInt(d int) Version {
	switch d {
	case tls.VersionTLS10:
		return VersionTLS10
	case tls.VersionTLS11:
		return VersionTLS11
	case tls.VersionTLS12:
		return VersionTLS12
	case tls.VersionTLS13:
		return VersionTLS13
	default:
		return VersionUnknown
	}
}
