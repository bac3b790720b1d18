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

package cipher

import "crypto/tls"

// Cipher wraps a crypto/tls cipher suite id.
type Cipher uint16

// Check reports whether c names a cipher suite crypto/tls recognizes.
func (c Cipher) Check() bool {
	for _, s := range tls.CipherSuites() {
		if uint16(c) == s.ID {
			return true
		}
	}
	for _, s := range tls.InsecureCipherSuites() {
		if uint16(c) == s.ID {
			return true
		}
	}
	return false
}

// SecureList returns every non-insecure cipher suite id known to crypto/tls,
// the default allow-list for tlsconf.Config.
func SecureList() []Cipher {
	out := make([]Cipher, 0, len(tls.CipherSuites()))
	for _, s := range tls.CipherSuites() {
		out = append(out, Cipher(s.ID))
	}
	return out
}
