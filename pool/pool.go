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

// Package pool implements the connection pool: one Group per destination
// name, each capped at a configurable number of concurrently active
// sockets, with an idle set for reuse and a priority queue for requests
// that arrive once a group is at capacity.
package pool

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github/sabouaram/netstream/netlog"
	"github/sabouaram/netstream/origin"
	"github/sabouaram/netstream/stream"
	"github/sabouaram/netstream/xerrors"
)

// Pool is the connection pool. All of its public methods are safe to call
// from any goroutine; ReleaseSocket's bookkeeping is deliberately run on a
// single internal origin.Loop rather than inline, so a release triggered
// from inside a callback never reenters the caller's own stack and two
// releases are never interleaved with each other.
type Pool struct {
	cfg      Config
	dialer   stream.Dialer
	resolver Resolver
	log      netlog.Logger
	met      *metrics

	mu     sync.Mutex
	groups map[string]*group
	seq    uint64

	loop *origin.Loop

	reapTimer *time.Timer
	idleTotal int
}

// New builds a Pool. reg may be nil to disable metrics registration.
// resolver may be nil, in which case the stdlib resolver is used; passing
// one lets a caller substitute a fake resolver in tests, or point the pool
// at a resolver that doesn't depend on the host's actual DNS.
func New(cfg Config, dialer stream.Dialer, resolver Resolver, log netlog.Logger, reg prometheus.Registerer) *Pool {
	if resolver == nil {
		resolver = systemResolver
	}
	return &Pool{
		cfg:      cfg,
		dialer:   dialer,
		resolver: resolver,
		log:      log,
		met:      newMetrics(reg),
		groups:   map[string]*group{},
		loop:     origin.New(64),
	}
}

// Close stops the pool's internal loop and reap timer. Outstanding idle
// sockets are disconnected; in-flight connectors are cancelled and their
// results are discarded.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.reapTimer != nil {
		p.reapTimer.Stop()
	}
	for _, g := range p.groups {
		for _, e := range g.idle {
			e.stream.Disconnect()
		}
		for _, c := range g.connecting {
			c.cancel()
		}
	}
	p.groups = map[string]*group{}
	p.mu.Unlock()
	p.loop.Stop()
}

func (p *Pool) groupFor(name string) *group {
	g, ok := p.groups[name]
	if !ok {
		g = newGroup(name, p.cfg.PerGroupCap)
		p.groups[name] = g
	}
	return g
}

// RequestSocket is the sole entry point for acquiring a stream.
func (p *Pool) RequestSocket(groupName string, dest Destination, priority int, handle Handle, cb Callback) Result {
	p.mu.Lock()
	g := p.groupFor(groupName)

	if !g.sem.TryAcquire(1) {
		p.seq++
		g.pending = insertPending(g.pending, &pendingRequest{
			handle: handle, destination: dest, priority: priority, seq: p.seq, cb: cb,
		})
		p.updateMetrics(g)
		p.mu.Unlock()
		return Result{Err: xerrors.New(xerrors.Pending, "group at capacity")}
	}

	g.active++
	if s, removed := popIdleHealthy(g); s != nil {
		p.idleTotal -= removed
		g.handedOut++
		p.updateMetrics(g)
		p.mu.Unlock()
		return Result{Stream: s, Reused: true}
	} else if removed > 0 {
		p.idleTotal -= removed
		if p.idleTotal <= 0 {
			p.idleTotal = 0
			p.disarmReapTimer()
		}
	}

	c := newConnector(handle, dest)
	g.connecting[handle] = c
	p.updateMetrics(g)
	p.mu.Unlock()

	c.start(p, groupName, cb)
	return Result{Err: xerrors.New(xerrors.Pending, "connecting")}
}

// CancelRequest erases handle from whichever of the pending queue or the
// in-flight connector map it's in.
func (p *Pool) CancelRequest(groupName string, handle Handle) {
	p.mu.Lock()
	defer p.mu.Unlock()

	g, ok := p.groups[groupName]
	if !ok {
		return
	}

	if rest, found := removePendingByHandle(g.pending, handle); found {
		g.pending = rest
		p.updateMetrics(g)
		p.dropGroupIfEmpty(groupName, g)
		return
	}

	if c, found := g.connecting[handle]; found {
		c.cancel()
		delete(g.connecting, handle)
		g.active--
		g.sem.Release(1)
		p.updateMetrics(g)
		p.dropGroupIfEmpty(groupName, g)
	}
}

// ReleaseSocket returns s to groupName. The bookkeeping runs deferred, on
// the pool's origin loop, never inline with the caller.
func (p *Pool) ReleaseSocket(groupName string, s stream.Stream) {
	p.loop.PostTask(func() { p.doRelease(groupName, s) })
}

func (p *Pool) doRelease(groupName string, s stream.Stream) {
	p.mu.Lock()
	g, ok := p.groups[groupName]
	if !ok {
		p.mu.Unlock()
		s.Disconnect()
		return
	}

	g.active--
	g.handedOut--
	g.sem.Release(1)

	if s.IsConnectedAndIdle() {
		g.idle = append(g.idle, idleEntry{stream: s, enteredAt: p.now()})
		p.idleTotal++
		if p.idleTotal == 1 {
			p.armReapTimer()
		}
	} else {
		s.Disconnect()
	}

	req, rest := popHighestPending(g.pending)
	g.pending = rest
	p.updateMetrics(g)

	if req == nil {
		p.dropGroupIfEmpty(groupName, g)
		p.mu.Unlock()
		return
	}

	g.active++
	g.sem.TryAcquire(1)
	if next, removed := popIdleHealthy(g); next != nil {
		p.idleTotal -= removed
		g.handedOut++
		p.updateMetrics(g)
		p.mu.Unlock()
		req.cb(Result{Stream: next, Reused: true})
		return
	} else if removed > 0 {
		p.idleTotal -= removed
		if p.idleTotal <= 0 {
			p.idleTotal = 0
			p.disarmReapTimer()
		}
	}

	c := newConnector(req.handle, req.destination)
	g.connecting[req.handle] = c
	p.updateMetrics(g)
	p.mu.Unlock()

	c.start(p, groupName, req.cb)
}

// finishConnector is called from a connector's own goroutine once its
// resolve-then-dial work has produced an outcome; it posts the pool
// mutation and the callback delivery onto the origin loop so it can never
// race a concurrent RequestSocket/CancelRequest/ReleaseSocket.
func (p *Pool) finishConnector(groupName string, c *connector, s stream.Stream, err xerrors.Error, cb Callback) {
	p.loop.PostTask(func() {
		p.mu.Lock()
		g, ok := p.groups[groupName]
		if !ok {
			p.mu.Unlock()
			if s != nil {
				s.Disconnect()
			}
			return
		}
		if cur, still := g.connecting[c.handle]; !still || cur != c {
			// Cancelled (or superseded) before completion: drop silently,
			// per the "callback is not invoked" boundary behavior.
			p.mu.Unlock()
			if s != nil {
				s.Disconnect()
			}
			return
		}
		delete(g.connecting, c.handle)

		if err != nil {
			g.active--
			g.sem.Release(1)
			p.updateMetrics(g)
			p.dropGroupIfEmpty(groupName, g)
			p.mu.Unlock()
			cb(Result{Err: err})
			return
		}

		g.handedOut++
		p.updateMetrics(g)
		p.mu.Unlock()
		cb(Result{Stream: s, Reused: false})
	})
}

// GetLoadState reports handle's current phase. Read-only: never mutates.
func (p *Pool) GetLoadState(groupName string, handle Handle) LoadState {
	p.mu.Lock()
	defer p.mu.Unlock()

	g, ok := p.groups[groupName]
	if !ok {
		return LoadStateUnknown
	}
	if c, found := g.connecting[handle]; found {
		return c.loadState()
	}
	for _, r := range g.pending {
		if r.handle == handle {
			return LoadStateIdleQueue
		}
	}
	return LoadStateUnknown
}

// IdleCount returns the total number of idle sockets held across every
// group.
func (p *Pool) IdleCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idleTotal
}

// IdleCountInGroup returns the idle-socket count for one group.
func (p *Pool) IdleCountInGroup(groupName string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.groups[groupName]
	if !ok {
		return 0
	}
	return len(g.idle)
}

// updateMetrics refreshes g's gauges and asserts g's consistency invariant
// (§4.5, §8: "active == handed_out + connecting.size()"). It is called after
// every mutation of g, which makes it the natural place to run the check
// the spec mandates after every mutation.
func (p *Pool) updateMetrics(g *group) {
	if !g.checkInvariant() {
		if p.log != nil {
			p.log.Error("pool invariant violated", netlog.Fields{
				"group":      g.name,
				"active":     g.active,
				"handedOut":  g.handedOut,
				"connecting": len(g.connecting),
			})
		}
	}
	p.met.set(g.name, g.active, len(g.idle), len(g.pending))
}

func (p *Pool) dropGroupIfEmpty(name string, g *group) {
	if g.empty() {
		delete(p.groups, name)
		p.met.drop(name)
	}
}

func (p *Pool) now() time.Time { return time.Now() }
