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

package verify

import (
	"bytes"
	"context"
	"crypto/x509"
	"io"
	"net/http"
	"time"

	"golang.org/x/crypto/ocsp"
)

// ocspClient is overridden by tests; production code leaves it as
// http.DefaultClient.
var ocspClient = http.DefaultClient

// checkRevocation implements §4.4's "checking revocation if enabled" using
// OCSP. It sets at most one of NoRevocationMechanism, UnableToCheckRevocation
// or Revoked on res (none when the OCSP status is good or unknown);
// RevocationCheckingEnabled is already set by the caller.
// candidates is searched for leaf's issuer by raw subject match.
func checkRevocation(leaf *x509.Certificate, candidates []*x509.Certificate, res *Result) {
	if len(leaf.OCSPServer) == 0 {
		res.NoRevocationMechanism = true
		return
	}

	issuer := findIssuer(leaf, candidates)
	if issuer == nil {
		res.UnableToCheckRevocation = true
		return
	}

	req, err := ocsp.CreateRequest(leaf, issuer, nil)
	if err != nil {
		res.UnableToCheckRevocation = true
		return
	}

	httpReq, err := http.NewRequest(http.MethodPost, leaf.OCSPServer[0], bytes.NewReader(req))
	if err != nil {
		res.UnableToCheckRevocation = true
		return
	}
	httpReq.Header.Set("Content-Type", "application/ocsp-request")

	client := ocspClient
	if client == nil {
		client = http.DefaultClient
	}
	cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	httpReq = httpReq.WithContext(cctx)

	httpResp, err := client.Do(httpReq)
	if err != nil {
		res.UnableToCheckRevocation = true
		return
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		res.UnableToCheckRevocation = true
		return
	}

	ocspResp, err := ocsp.ParseResponse(body, issuer)
	if err != nil {
		res.UnableToCheckRevocation = true
		return
	}

	if ocspResp.Status == ocsp.Revoked {
		res.Revoked = true
	}
}

// findIssuer looks for leaf's issuer among candidates by raw subject match.
func findIssuer(leaf *x509.Certificate, candidates []*x509.Certificate) *x509.Certificate {
	for _, c := range candidates {
		if bytes.Equal(c.RawSubject, leaf.RawIssuer) {
			return c
		}
	}
	return nil
}
