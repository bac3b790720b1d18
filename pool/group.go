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
	"time"

	"golang.org/x/sync/semaphore"

	"github/sabouaram/netstream/stream"
)

// idleEntry is one socket sitting in a group's idle set, with the moment it
// was released, used by the reap timer to enforce the TTL.
type idleEntry struct {
	stream   stream.Stream
	enteredAt time.Time
}

// pendingRequest is a queued RequestSocket call waiting for a free slot.
// seq breaks priority ties in FIFO (older-first) order.
type pendingRequest struct {
	handle      Handle
	destination Destination
	priority    int
	seq         uint64
	cb          Callback
}

// group is the per-group-name bookkeeping record. All of its fields are
// mutated only while the owning Pool's mu is held.
type group struct {
	name string
	cap  int

	active    int
	handedOut int

	connecting map[Handle]*connector
	idle       []idleEntry
	pending    []*pendingRequest

	sem *semaphore.Weighted
}

func newGroup(name string, cap int) *group {
	return &group{
		name:       name,
		cap:        cap,
		connecting: map[Handle]*connector{},
		sem:        semaphore.NewWeighted(int64(cap)),
	}
}

// empty reports whether g has nothing left to track, the condition under
// which the Pool drops it from its group map entirely.
func (g *group) empty() bool {
	return g.active == 0 && len(g.idle) == 0 && len(g.pending) == 0
}

// checkInvariant reports whether active == handed_out + connecting holds,
// asserted after every mutation (§4.5's "consistency checks"). A violation
// here is an internal bug, not a caller error, so it's surfaced through
// netlog rather than panicking a caller's goroutine.
func (g *group) checkInvariant() bool {
	return g.active == g.handedOut+len(g.connecting)
}

// insertPending inserts req into g.pending, kept sorted by descending
// priority with FIFO order (by seq) among equal priorities: req moves past
// any entry of strictly lower priority, or of equal priority but a larger
// (later) seq, and stops there.
func insertPending(list []*pendingRequest, req *pendingRequest) []*pendingRequest {
	i := len(list)
	for i > 0 {
		prev := list[i-1]
		if prev.priority < req.priority || (prev.priority == req.priority && prev.seq > req.seq) {
			i--
			continue
		}
		break
	}
	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = req
	return list
}

// popHighestPending removes and returns the highest-priority (then oldest)
// pending request, or nil if none are queued.
func popHighestPending(list []*pendingRequest) (*pendingRequest, []*pendingRequest) {
	if len(list) == 0 {
		return nil, list
	}
	return list[0], list[1:]
}

// removePendingByHandle removes the entry for h, if present, reporting
// whether it was found.
func removePendingByHandle(list []*pendingRequest, h Handle) ([]*pendingRequest, bool) {
	for i, p := range list {
		if p.handle == h {
			out := append(list[:i:i], list[i+1:]...)
			return out, true
		}
	}
	return list, false
}

// popIdleHealthy drains g.idle from the tail (LIFO), discarding entries
// that are no longer connected-and-idle, and returns the first healthy one
// plus the total number of entries removed from g.idle (healthy or not) so
// the caller can keep the pool's global idle count in sync.
func popIdleHealthy(g *group) (stream.Stream, int) {
	removed := 0
	for len(g.idle) > 0 {
		last := len(g.idle) - 1
		e := g.idle[last]
		g.idle = g.idle[:last]
		removed++
		if e.stream.IsConnectedAndIdle() {
			return e.stream, removed
		}
		e.stream.Disconnect()
	}
	return nil, removed
}
