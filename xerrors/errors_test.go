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

package xerrors_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github/sabouaram/netstream/xerrors"
)

var _ = Describe("Error", func() {
	Context("New", func() {
		It("carries the given code and message", func() {
			e := xerrors.New(xerrors.ConnectionRefused, "dial failed")

			Expect(e.Code()).To(Equal(xerrors.ConnectionRefused))
			Expect(e.Message()).To(Equal("dial failed"))
			Expect(e.Parent()).To(BeNil())
		})

		It("captures a non-empty call site", func() {
			e := xerrors.New(xerrors.Failed, "boom")
			Expect(e.Trace()).NotTo(BeEmpty())
			Expect(e.Trace()).To(ContainSubstring("errors_test.go"))
		})
	})

	Context("Wrap", func() {
		It("chains the parent and Is() walks the whole chain", func() {
			root := xerrors.New(xerrors.CertAuthorityInvalid, "unknown CA")
			wrapped := xerrors.Wrap(root, xerrors.CertInvalid, "chain verification failed")

			Expect(wrapped.Is(xerrors.CertInvalid)).To(BeTrue())
			Expect(wrapped.Is(xerrors.CertAuthorityInvalid)).To(BeTrue())
			Expect(wrapped.Is(xerrors.CertRevoked)).To(BeFalse())
		})

		It("renders the full chain in Error()", func() {
			root := xerrors.New(xerrors.TimedOut, "dial timeout")
			wrapped := xerrors.Wrap(root, xerrors.Failed, "connect failed")

			Expect(wrapped.Error()).To(ContainSubstring("connect failed"))
			Expect(wrapped.Error()).To(ContainSubstring("dial timeout"))
		})
	})

	Context("WrapStd", func() {
		It("returns nil for a nil error", func() {
			Expect(xerrors.WrapStd(nil, xerrors.Failed)).To(BeNil())
		})

		It("preserves an already-wrapped Error unchanged", func() {
			orig := xerrors.New(xerrors.ConnectionReset, "reset")
			Expect(xerrors.WrapStd(orig, xerrors.Failed)).To(BeIdenticalTo(orig))
		})

		It("wraps a plain error with the given code", func() {
			e := xerrors.WrapStd(errors.New("plain"), xerrors.Unexpected)
			Expect(e.Code()).To(Equal(xerrors.Unexpected))
			Expect(e.Message()).To(Equal("plain"))
		})
	})

	Context("package-level helpers", func() {
		It("Is reports false for a nil error", func() {
			Expect(xerrors.Is(nil, xerrors.Failed)).To(BeFalse())
		})

		It("CodeOf returns OK for a nil error", func() {
			Expect(xerrors.CodeOf(nil)).To(Equal(xerrors.OK))
		})
	})

	Context("IsTryNext", func() {
		It("is true for the four try-next network codes", func() {
			Expect(xerrors.IsTryNext(xerrors.AddressInvalid)).To(BeTrue())
			Expect(xerrors.IsTryNext(xerrors.AddressUnreachable)).To(BeTrue())
			Expect(xerrors.IsTryNext(xerrors.ConnectionRefused)).To(BeTrue())
			Expect(xerrors.IsTryNext(xerrors.TimedOut)).To(BeTrue())
		})

		It("is false for other codes", func() {
			Expect(xerrors.IsTryNext(xerrors.ConnectionReset)).To(BeFalse())
			Expect(xerrors.IsTryNext(xerrors.ProtocolError)).To(BeFalse())
		})
	})

	Context("IsCertError", func() {
		It("is true for the certificate-error range", func() {
			Expect(xerrors.IsCertError(xerrors.CertRevoked)).To(BeTrue())
		})

		It("is false outside the certificate-error range", func() {
			Expect(xerrors.IsCertError(xerrors.ProtocolError)).To(BeFalse())
		})
	})
})
