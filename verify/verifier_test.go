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

package verify_test

import (
	"crypto/x509"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github/sabouaram/netstream/verify"
	"github/sabouaram/netstream/xerrors"
)

var _ = Describe("Verifier", func() {
	var (
		now  = time.Now()
		leaf = selfSignedLeaf("example.com", now.Add(-time.Hour), now.Add(time.Hour))
	)

	rootsFor := func(c *x509.Certificate) x509.VerifyOptions {
		pool := x509.NewCertPool()
		pool.AddCert(c)
		return x509.VerifyOptions{Roots: pool, DNSName: "example.com"}
	}

	Context("inline verification", func() {
		It("succeeds when the leaf is trusted and the hostname matches", func() {
			v := verify.New(false, false, nil)
			res, err := v.Verify(leaf, nil, rootsFor(leaf), nil, nil)
			Expect(err).To(BeNil())
			Expect(res.OK()).To(BeTrue())
		})

		It("flags AuthorityInvalid when the leaf isn't in the root pool", func() {
			v := verify.New(false, false, nil)
			opts := x509.VerifyOptions{DNSName: "example.com", Roots: x509.NewCertPool()}
			res, err := v.Verify(leaf, nil, opts, nil, nil)
			Expect(res.AuthorityInvalid).To(BeTrue())
			Expect(res.Primary).To(Equal(xerrors.CertAuthorityInvalid))
			Expect(err).NotTo(BeNil())
		})

		It("flags CommonNameInvalid on a hostname mismatch", func() {
			v := verify.New(false, false, nil)
			opts := rootsFor(leaf)
			opts.DNSName = "other.example.com"
			res, _ := v.Verify(leaf, nil, opts, nil, nil)
			Expect(res.CommonNameInvalid).To(BeTrue())
			Expect(res.Primary).To(Equal(xerrors.CertCommonNameInvalid))
		})

		It("flags DateInvalid on an expired certificate", func() {
			expired := selfSignedLeaf("example.com", now.Add(-48*time.Hour), now.Add(-24*time.Hour))
			v := verify.New(false, false, nil)
			res, _ := v.Verify(expired, nil, rootsFor(expired), nil, nil)
			Expect(res.DateInvalid).To(BeTrue())
			Expect(res.Primary).To(Equal(xerrors.CertDateInvalid))
		})

		It("accepts an otherwise-invalid leaf via the override", func() {
			v := verify.New(false, false, nil)
			opts := x509.VerifyOptions{DNSName: "example.com", Roots: x509.NewCertPool()}
			accept := func(raw []byte) bool { return string(raw) == string(leaf.Raw) }
			res, err := v.Verify(leaf, nil, opts, accept, nil)
			Expect(err).To(BeNil())
			Expect(res.OK()).To(BeTrue())
			Expect(res.AuthorityInvalid).To(BeTrue())
		})

		It("reports NoRevocationMechanism when the leaf has no OCSP responder", func() {
			v := verify.New(true, false, nil)
			res, err := v.Verify(leaf, nil, rootsFor(leaf), nil, nil)
			Expect(err).To(BeNil())
			Expect(res.RevocationCheckingEnabled).To(BeTrue())
			Expect(res.NoRevocationMechanism).To(BeTrue())
		})

		It("sets ExtendedValidationChecked without flagging IsExtendedValidation for a leaf with no EV policy OID", func() {
			v := verify.New(false, true, nil)
			res, err := v.Verify(leaf, nil, rootsFor(leaf), nil, nil)
			Expect(err).To(BeNil())
			Expect(res.ExtendedValidationChecked).To(BeTrue())
			Expect(res.IsExtendedValidation).To(BeFalse())
		})

		It("leaves ExtendedValidationChecked false when EV checking wasn't requested", func() {
			v := verify.New(false, false, nil)
			res, _ := v.Verify(leaf, nil, rootsFor(leaf), nil, nil)
			Expect(res.ExtendedValidationChecked).To(BeFalse())
		})
	})

	Context("single-in-flight constraint", func() {
		It("rejects a second Verify while one is outstanding", func() {
			v := verify.New(false, false, nil)
			done := make(chan struct{})
			_, err := v.Verify(leaf, nil, rootsFor(leaf), nil, func(verify.Result, xerrors.Error) {
				close(done)
			})
			Expect(err).NotTo(BeNil())
			Expect(err.Is(xerrors.Pending)).To(BeTrue())

			_, err2 := v.Verify(leaf, nil, rootsFor(leaf), nil, nil)
			Expect(err2).NotTo(BeNil())
			Expect(err2.Is(xerrors.Unexpected)).To(BeTrue())

			Eventually(done, time.Second).Should(BeClosed())
		})
	})

	Context("asynchronous verification", func() {
		It("delivers a result to the callback", func() {
			v := verify.New(false, false, nil)
			results := make(chan verify.Result, 1)
			_, err := v.Verify(leaf, nil, rootsFor(leaf), nil, func(res verify.Result, _ xerrors.Error) {
				results <- res
			})
			Expect(err.Is(xerrors.Pending)).To(BeTrue())

			var res verify.Result
			Eventually(results, time.Second).Should(Receive(&res))
			Expect(res.OK()).To(BeTrue())
		})

		It("allows a fresh Verify once the prior one has completed", func() {
			v := verify.New(false, false, nil)
			done := make(chan struct{})
			_, _ = v.Verify(leaf, nil, rootsFor(leaf), nil, func(verify.Result, xerrors.Error) {
				close(done)
			})
			Eventually(done, time.Second).Should(BeClosed())

			_, err := v.Verify(leaf, nil, rootsFor(leaf), nil, nil)
			Expect(err).To(BeNil())
		})
	})
})
