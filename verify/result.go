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

// Package verify offloads certificate-chain validation to a worker
// goroutine, returning a bitmask Result, and implements the cancellation
// protocol that lets an originator destroy its verifier mid-verification
// without taking a completion callback it no longer wants.
package verify

import "github/sabouaram/netstream/xerrors"

// Result is the structured output of chain validation: a primary code plus
// the per-error bitmask and weak-hash observation flags named in §6.
type Result struct {
	Primary xerrors.Code

	CommonNameInvalid       bool
	DateInvalid             bool
	AuthorityInvalid        bool
	NoRevocationMechanism   bool
	UnableToCheckRevocation bool
	Revoked                 bool
	ContainsErrors          bool
	Invalid                 bool

	// RevocationCheckingEnabled is an observation flag: always set when
	// revocation was attempted, regardless of outcome.
	RevocationCheckingEnabled bool

	// ExtendedValidationChecked is an observation flag: set when the caller
	// asked for EV checking (tlsconf.Config.ExtendedValidation), regardless
	// of outcome. IsExtendedValidation reports whether the leaf actually
	// carries a recognized EV policy OID; it is only meaningful when
	// ExtendedValidationChecked is set.
	ExtendedValidationChecked bool
	IsExtendedValidation      bool

	HasMD5   bool
	HasMD2   bool
	HasMD4   bool
	HasMD5CA bool
	HasMD2CA bool
}

// OK reports whether verification succeeded with no certificate error.
func (r Result) OK() bool {
	return r.Primary == xerrors.OK
}

// Flags is the bitmask form of a Result, for callers that want a single
// integer (logging, comparison) instead of named booleans.
type Flags uint16

const (
	FlagCommonNameInvalid Flags = 1 << iota
	FlagDateInvalid
	FlagAuthorityInvalid
	FlagNoRevocationMechanism
	FlagUnableToCheckRevocation
	FlagRevoked
	FlagContainsErrors
	FlagInvalid
	FlagRevocationCheckingEnabled
	FlagExtendedValidationChecked
	FlagIsExtendedValidation
	FlagHasMD5
	FlagHasMD2
	FlagHasMD4
	FlagHasMD5CA
	FlagHasMD2CA
)

// Bitmask renders r as a Flags bitmask.
func (r Result) Bitmask() Flags {
	var f Flags
	set := func(cond bool, bit Flags) {
		if cond {
			f |= bit
		}
	}
	set(r.CommonNameInvalid, FlagCommonNameInvalid)
	set(r.DateInvalid, FlagDateInvalid)
	set(r.AuthorityInvalid, FlagAuthorityInvalid)
	set(r.NoRevocationMechanism, FlagNoRevocationMechanism)
	set(r.UnableToCheckRevocation, FlagUnableToCheckRevocation)
	set(r.Revoked, FlagRevoked)
	set(r.ContainsErrors, FlagContainsErrors)
	set(r.Invalid, FlagInvalid)
	set(r.RevocationCheckingEnabled, FlagRevocationCheckingEnabled)
	set(r.ExtendedValidationChecked, FlagExtendedValidationChecked)
	set(r.IsExtendedValidation, FlagIsExtendedValidation)
	set(r.HasMD5, FlagHasMD5)
	set(r.HasMD2, FlagHasMD2)
	set(r.HasMD4, FlagHasMD4)
	set(r.HasMD5CA, FlagHasMD5CA)
	set(r.HasMD2CA, FlagHasMD2CA)
	return f
}
