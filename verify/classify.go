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
	"crypto/x509"
	"errors"

	"github/sabouaram/netstream/xerrors"
)

// classifyVerifyErr maps a crypto/x509 verification error onto the
// certificate-error bitmask (§6).
func classifyVerifyErr(err error, res *Result) {
	var hostErr x509.HostnameError
	var unknownAuth x509.UnknownAuthorityError
	var invalidErr x509.CertificateInvalidError

	switch {
	case errors.As(err, &hostErr):
		res.CommonNameInvalid = true
		res.Primary = xerrors.CertCommonNameInvalid

	case errors.As(err, &unknownAuth):
		res.AuthorityInvalid = true
		res.Primary = xerrors.CertAuthorityInvalid

	case errors.As(err, &invalidErr):
		switch invalidErr.Reason {
		case x509.Expired:
			res.DateInvalid = true
			res.Primary = xerrors.CertDateInvalid
		case x509.NotAuthorizedToSign, x509.IncompatibleUsage:
			res.AuthorityInvalid = true
			res.Primary = xerrors.CertAuthorityInvalid
		default:
			res.ContainsErrors = true
			res.Primary = xerrors.CertContainsErrors
		}

	default:
		res.Invalid = true
		res.Primary = xerrors.CertInvalid
	}
}

// evPolicyOIDs is a small set of well-known CA/Browser Forum Extended
// Validation policy OIDs (the CA/B Forum reserves 2.23.140.1.1, the rest are
// individual CA arcs). It is not exhaustive: EV issuance is observation-only
// here (§4.3/§6), so a leaf carrying an EV OID this set doesn't list is
// simply not flagged, rather than treated as an error.
var evPolicyOIDs = map[string]bool{
	"2.23.140.1.1":              true, // CA/Browser Forum EV Guidelines
	"2.16.840.1.114412.2.1":     true, // DigiCert EV
	"1.3.6.1.4.1.6449.1.2.1.5.1": true, // Comodo/Sectigo EV
	"2.16.840.1.114028.10.1.2":  true, // Entrust EV
	"1.3.6.1.4.1.311.10.3.2":    true, // Microsoft-issued EV
}

// hasEVPolicy reports whether leaf's certificatePolicies extension names a
// recognized EV policy OID.
func hasEVPolicy(leaf *x509.Certificate) bool {
	for _, oid := range leaf.PolicyIdentifiers {
		if evPolicyOIDs[oid.String()] {
			return true
		}
	}
	return false
}

// scanWeakHashes sets the has-md5/md2/md4 observation flags for any
// certificate in chain (excluding the trust root, which the caller is
// expected to have filtered out already by passing leaf+intermediates only).
func scanWeakHashes(chain []*x509.Certificate, res *Result) {
	for _, c := range chain {
		isCA := c.IsCA
		switch c.SignatureAlgorithm {
		case x509.MD5WithRSA:
			res.HasMD5 = true
			if isCA {
				res.HasMD5CA = true
			}
		case x509.DSAWithSHA1:
			// not a weak-hash flag tracked by this bitmask, skip.
		}
		// crypto/x509 doesn't expose MD2/MD4 signature algorithms (Go
		// never supported them); the flags exist for API parity with the
		// original bitmask and are left false, since no certificate this
		// module can parse at all could set them.
	}
}
