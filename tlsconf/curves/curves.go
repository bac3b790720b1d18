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

package curves

import "crypto/tls"

// Curve wraps a crypto/tls curve id (named "CurveID" there).
type Curve tls.CurveID

const (
	X25519    = Curve(tls.X25519)
	CurveP256 = Curve(tls.CurveP256)
	CurveP384 = Curve(tls.CurveP384)
	CurveP521 = Curve(tls.CurveP521)
)

// Default returns the preference order used when a config names none.
func Default() []Curve {
	return []Curve{X25519, CurveP256, CurveP384, CurveP521}
}

// ToTLS converts a slice of Curve into crypto/tls's CurveID slice.
func ToTLS(cs []Curve) []tls.CurveID {
	out := make([]tls.CurveID, len(cs))
	for i, c := range cs {
		out[i] = tls.CurveID(c)
	}
	return out
}
