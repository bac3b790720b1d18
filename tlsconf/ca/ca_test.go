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

package ca_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"time"

	"gopkg.in/yaml.v3"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github/sabouaram/netstream/tlsconf/ca"
)

func selfSignedPEM() []byte {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	Expect(err).NotTo(HaveOccurred())

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "test-ca"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		IsCA:         true,
		KeyUsage:     x509.KeyUsageCertSign,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	Expect(err).NotTo(HaveOccurred())

	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

var _ = Describe("Cert", func() {
	It("parses a PEM chain and exposes it through a CertPool", func() {
		c, err := ca.Parse(selfSignedPEM())
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Len()).To(Equal(1))
		Expect(c.Pool().Subjects()).To(HaveLen(1)) //nolint:staticcheck
	})

	It("rejects empty input", func() {
		_, err := ca.Parse(nil)
		Expect(err).To(MatchError(ca.ErrEmptyInput))
	})

	It("round-trips through JSON", func() {
		c, err := ca.Parse(selfSignedPEM())
		Expect(err).NotTo(HaveOccurred())

		data, err := json.Marshal(c)
		Expect(err).NotTo(HaveOccurred())

		var back ca.Cert
		Expect(json.Unmarshal(data, &back)).To(Succeed())
		Expect(back.Len()).To(Equal(1))
	})

	It("round-trips through YAML", func() {
		c, err := ca.Parse(selfSignedPEM())
		Expect(err).NotTo(HaveOccurred())

		data, err := yaml.Marshal(c)
		Expect(err).NotTo(HaveOccurred())

		var back ca.Cert
		Expect(yaml.Unmarshal(data, &back)).To(Succeed())
		Expect(back.Len()).To(Equal(1))
	})
})
