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

package pool

import (
	"context"
	"net"
	"net/netip"

	"github/sabouaram/netstream/addr"
)

// Resolver looks up the addresses backing host. The pool never resolves DNS
// itself (§1 Non-goals: "does not perform DNS resolution itself, it
// consumes a resolver interface") — every Connector calls through one of
// these instead of touching net.DefaultResolver directly.
type Resolver func(ctx context.Context, host string) ([]addr.Entry, error)

// systemResolver is the Resolver a Pool uses when none is supplied to New:
// the stdlib resolver, adapted to the addr.Entry shape.
func systemResolver(ctx context.Context, host string) ([]addr.Entry, error) {
	ipAddrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	entries := make([]addr.Entry, 0, len(ipAddrs))
	for _, ia := range ipAddrs {
		if a, ok := netip.AddrFromSlice(ia.IP); ok {
			entries = append(entries, addr.Entry{IP: a.Unmap()})
		}
	}
	return entries, nil
}
