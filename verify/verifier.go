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
	"sync"
	"time"

	"github/sabouaram/netstream/netlog"
	"github/sabouaram/netstream/xerrors"
)

// verifyDelay, when non-zero, is applied before doVerify returns. It exists
// solely so the cancellation race in the test suite can be made
// deterministic; production Verifiers never set it.
var verifyDelay time.Duration

// Callback delivers the outcome of an asynchronous Verify call.
type Callback func(Result, xerrors.Error)

// Verifier validates certificate chains, at most one request in flight at a
// time (§4.4 "single-in-flight constraint").
type Verifier struct {
	log             netlog.Logger
	revocationCheck bool
	extendedValid   bool

	mu      sync.Mutex
	current *request
}

// New builds a Verifier. revocationCheck enables the OCSP revocation check
// (§3 domain stack: golang.org/x/crypto/ocsp). extendedValidation enables the
// EV policy-OID observation check (§4.3/§6, tlsconf.Config.ExtendedValidation).
func New(revocationCheck, extendedValidation bool, log netlog.Logger) *Verifier {
	return &Verifier{revocationCheck: revocationCheck, extendedValid: extendedValidation, log: log}
}

// request is the transient record backing one in-flight Verify call. It
// holds a nullable back-pointer to its owning Verifier, guarded by mu, so
// Cancel (called from the Verifier side, e.g. on destruction) and the
// worker's completion post (doCallback) can never race past each other: one
// observes a cleared pointer and the other doesn't run.
type request struct {
	mu       sync.Mutex
	verifier *Verifier

	leaf          *x509.Certificate
	intermediates []*x509.Certificate
	opts          x509.VerifyOptions
	acceptedLeaf  func([]byte) bool
	revocation    bool
	extendedValid bool

	cb Callback
}

// Verify validates leaf (with intermediates as additional chain candidates)
// against opts. If cb is nil, verification runs inline and the result is
// returned directly. Otherwise a request is dispatched to a worker
// goroutine and (Result{}, xerrors.New(xerrors.Pending, ...)) is returned
// immediately; cb fires exactly once, unless the Verifier is destroyed
// first via Cancel.
func (v *Verifier) Verify(leaf *x509.Certificate, intermediates []*x509.Certificate, opts x509.VerifyOptions, acceptedLeaf func([]byte) bool, cb Callback) (Result, xerrors.Error) {
	v.mu.Lock()
	if v.current != nil {
		v.mu.Unlock()
		return Result{}, xerrors.New(xerrors.Unexpected, "verifier already has a request in flight")
	}

	req := &request{
		verifier:      v,
		leaf:          leaf,
		intermediates: intermediates,
		opts:          opts,
		acceptedLeaf:  acceptedLeaf,
		revocation:    v.revocationCheck,
		extendedValid: v.extendedValid,
		cb:            cb,
	}

	if v.log != nil {
		v.log.Debug("verification requested", netlog.Fields{
			"subject": leaf.Subject.CommonName,
			"async":   cb != nil,
		})
	}

	if cb == nil {
		v.mu.Unlock()
		res := req.doVerify()
		return res, resultErr(res)
	}

	v.current = req
	v.mu.Unlock()

	go req.doVerify2(v)

	return Result{}, xerrors.New(xerrors.Pending, "verification in progress")
}

// Cancel destroys the in-flight request, if any, without letting its
// completion callback fire. It is safe to call even if the worker is still
// running: the worker's own doVerify2 holds a strong reference to req and
// will complete, but doCallback observes req.verifier == nil and discards
// the post.
func (v *Verifier) Cancel() {
	v.mu.Lock()
	req := v.current
	v.current = nil
	v.mu.Unlock()

	if req == nil {
		return
	}
	req.mu.Lock()
	req.verifier = nil
	req.mu.Unlock()
}

// doVerify performs the pure validation work. Safe to call from any
// goroutine; it touches no Verifier state.
func (r *request) doVerify() Result {
	if verifyDelay > 0 {
		time.Sleep(verifyDelay)
	}

	res := Result{RevocationCheckingEnabled: r.revocation, ExtendedValidationChecked: r.extendedValid}
	if r.extendedValid {
		res.IsExtendedValidation = hasEVPolicy(r.leaf)
	}

	opts := r.opts
	if len(r.intermediates) > 0 {
		if opts.Intermediates != nil {
			opts.Intermediates = opts.Intermediates.Clone()
		} else {
			opts.Intermediates = x509.NewCertPool()
		}
		for _, c := range r.intermediates {
			opts.Intermediates.AddCert(c)
		}
	}

	chains, err := r.leaf.Verify(opts)
	if err != nil {
		classifyVerifyErr(err, &res)
		if r.acceptedLeaf != nil && r.acceptedLeaf(r.leaf.Raw) {
			res.Primary = xerrors.OK
		}
		scanWeakHashes(append([]*x509.Certificate{r.leaf}, r.intermediates...), &res)
		return res
	}

	scanWeakHashes(flattenChainsExcludingRoots(chains), &res)

	if r.revocation {
		checkRevocation(r.leaf, r.intermediates, &res)
		if res.Revoked {
			res.Primary = xerrors.CertRevoked
		}
	}

	if res.CommonNameInvalid || res.DateInvalid || res.AuthorityInvalid || res.Revoked || res.ContainsErrors || res.Invalid {
		if r.acceptedLeaf != nil && r.acceptedLeaf(r.leaf.Raw) {
			res.Primary = xerrors.OK
			return res
		}
	}

	return res
}

// doVerify2 runs doVerify on a worker goroutine and posts the result back
// via doCallback, named distinctly from doVerify to mirror the original's
// split between pure validation and the worker-entry wrapper.
func (r *request) doVerify2(v *Verifier) {
	res := r.doVerify()
	r.doCallback(v, res)
}

// doCallback posts the completion. It takes r's lock to read the verifier
// back-pointer; if it has been cleared by Cancel, the post is discarded.
func (r *request) doCallback(v *Verifier, res Result) {
	r.mu.Lock()
	live := r.verifier != nil
	r.mu.Unlock()

	if !live {
		return
	}

	v.mu.Lock()
	if v.current == r {
		v.current = nil
	}
	v.mu.Unlock()

	if v.log != nil {
		v.log.Debug("verification complete", netlog.Fields{
			"subject": r.leaf.Subject.CommonName,
			"primary": res.Primary,
			"ok":      res.OK(),
		})
	}

	r.cb(res, resultErr(res))
}

func resultErr(res Result) xerrors.Error {
	if res.OK() {
		return nil
	}
	return xerrors.New(res.Primary, "certificate verification failed")
}

// flattenChainsExcludingRoots dedupes every certificate across chains except
// each chain's trust root (its last element, per x509.Certificate.Verify's
// documented chain ordering: leaf first, root last), since §6's weak-hash
// observation flags are defined to exclude the trust root.
func flattenChainsExcludingRoots(chains [][]*x509.Certificate) []*x509.Certificate {
	var out []*x509.Certificate
	seen := map[string]bool{}
	for _, chain := range chains {
		for i, c := range chain {
			if i == len(chain)-1 {
				continue
			}
			k := string(c.Raw)
			if !seen[k] {
				seen[k] = true
				out = append(out, c)
			}
		}
	}
	return out
}
