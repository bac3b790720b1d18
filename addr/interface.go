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

// Package addr provides the ordered endpoint address list that a plaintext
// stream walks while connecting: the list of (family, socket address) pairs
// a name resolved to, plus a cursor that only ever advances forward.
package addr

import (
	"fmt"
	"net/netip"
)

// Entry is one resolved endpoint: an IP address and the port the caller
// wants to reach it on.
type Entry struct {
	IP   netip.Addr
	Port uint16
}

// AddrPort renders the entry as a netip.AddrPort, suitable for net.Dialer.
func (e Entry) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(e.IP, e.Port)
}

// String renders "ip:port".
func (e Entry) String() string {
	return fmt.Sprintf("%s:%d", e.IP, e.Port)
}

// List is an ordered, immutable set of candidate endpoints for a single
// logical destination (the set a resolver returned for one hostname). Once
// built, a List never changes: only its cursor, held by the caller, advances.
type List struct {
	entries []Entry
}

// New builds a List from the given entries, in the order given. An empty
// List is valid and always reports Done.
func New(entries ...Entry) List {
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return List{entries: cp}
}

// Len returns the number of entries.
func (l List) Len() int {
	return len(l.entries)
}

// At returns the entry at the given cursor position. It panics if i is out
// of range, matching slice indexing semantics: callers are expected to check
// Done/Len first.
func (l List) At(i int) Entry {
	return l.entries[i]
}

// Cursor walks a List forward-only. The zero Cursor starts at the first
// entry.
type Cursor struct {
	list List
	pos  int
}

// NewCursor returns a Cursor over l, positioned at the first entry.
func NewCursor(l List) *Cursor {
	return &Cursor{list: l}
}

// Done reports whether the cursor has exhausted the list.
func (c *Cursor) Done() bool {
	return c.pos >= c.list.Len()
}

// Current returns the entry the cursor is positioned at. It panics if Done.
func (c *Cursor) Current() Entry {
	return c.list.At(c.pos)
}

// Advance moves the cursor to the next entry. It is the only mutating
// operation on a Cursor, and is only ever called after a try-next error
// (xerrors.IsTryNext) per the address-list fallback rule.
func (c *Cursor) Advance() {
	c.pos++
}

// Remaining reports how many entries (including the current one) are left.
func (c *Cursor) Remaining() int {
	return c.list.Len() - c.pos
}
