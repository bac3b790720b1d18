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

// Package xerrors provides the error taxonomy shared by every component of
// the connection subsystem: the connection pool, the TLS state machine, the
// certificate verifier and the plaintext stream all return Code, not a bare
// error, so callers can switch on a stable numeric identity instead of
// string-matching messages.
package xerrors

// Code is a stable numeric identity for one of the error kinds named in the
// spec's taxonomy (§6): generic results, network errors, TLS errors and
// certificate errors all share this single space so a Code can be compared
// regardless of which layer produced it.
type Code uint16

const (
	// OK is not an error: the zero Code means "no error".
	OK Code = 0

	// Pending means the operation has been queued; completion is delivered
	// to a callback later. Treated as a non-error by callers.
	Pending Code = 1

	// Failed is a generic, unclassified failure.
	Failed Code = 2
	// Unexpected marks an invariant violation caught at runtime.
	Unexpected Code = 3

	// Network errors. A "try-next" error is one of ConnectionRefused,
	// AddressUnreachable, AddressInvalid or TimedOut: the plaintext stream's
	// Connect advances to the next address in the list on these, see
	// IsTryNext below.
	InternetDisconnected Code = 100
	TimedOut             Code = 101
	ConnectionReset       Code = 102
	ConnectionAborted     Code = 103
	ConnectionRefused     Code = 104
	ConnectionClosed      Code = 105
	AddressUnreachable    Code = 106
	AddressInvalid        Code = 107

	// TLS errors.
	ProtocolError             Code = 200
	VersionOrCipherMismatch   Code = 201
	NoSSLVersionsEnabled      Code = 202
	BadClientAuthCert         Code = 203
	ClientAuthCertNeeded      Code = 204
	RenegotiationRequested    Code = 205

	// Certificate errors. verify.Result carries a matching per-error flag for
	// each; its Flags bitmask uses its own bit positions, not these values.
	CertCommonNameInvalid       Code = 300
	CertDateInvalid             Code = 301
	CertAuthorityInvalid        Code = 302
	CertNoRevocationMechanism   Code = 303
	CertUnableToCheckRevocation Code = 304
	CertRevoked                 Code = 305
	CertContainsErrors          Code = 306
	CertInvalid                 Code = 307
)

// IsTryNext reports whether a network Code instructs the plaintext stream's
// Connect to advance to the next address in its list rather than surface the
// error to the caller (§3 "Endpoint address list", §7 kind (a)).
func IsTryNext(c Code) bool {
	switch c {
	case AddressInvalid, AddressUnreachable, ConnectionRefused, TimedOut:
		return true
	default:
		return false
	}
}

// IsCertError reports whether c belongs to the certificate-error family.
func IsCertError(c Code) bool {
	return c >= CertCommonNameInvalid && c <= CertInvalid
}

// String renders a short, stable name for the code, used in log fields and
// Error messages; it intentionally does not allocate via fmt for the common
// path.
func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "code_error"
}

var codeNames = map[Code]string{
	OK:                          "ok",
	Pending:                     "pending",
	Failed:                      "failed",
	Unexpected:                  "unexpected",
	InternetDisconnected:        "internet_disconnected",
	TimedOut:                    "timed_out",
	ConnectionReset:             "connection_reset",
	ConnectionAborted:           "connection_aborted",
	ConnectionRefused:           "connection_refused",
	ConnectionClosed:            "connection_closed",
	AddressUnreachable:          "address_unreachable",
	AddressInvalid:              "address_invalid",
	ProtocolError:               "protocol_error",
	VersionOrCipherMismatch:     "version_or_cipher_mismatch",
	NoSSLVersionsEnabled:        "no_ssl_versions_enabled",
	BadClientAuthCert:           "bad_client_auth_cert",
	ClientAuthCertNeeded:        "client_auth_cert_needed",
	RenegotiationRequested:      "renegotiation_requested",
	CertCommonNameInvalid:       "cert_common_name_invalid",
	CertDateInvalid:             "cert_date_invalid",
	CertAuthorityInvalid:        "cert_authority_invalid",
	CertNoRevocationMechanism:   "cert_no_revocation_mechanism",
	CertUnableToCheckRevocation: "cert_unable_to_check_revocation",
	CertRevoked:                 "cert_revoked",
	CertContainsErrors:          "cert_contains_errors",
	CertInvalid:                 "cert_invalid",
}
