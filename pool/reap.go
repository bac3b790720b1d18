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

import "time"

// armReapTimer starts the repeating reap tick. Called with p.mu held, only
// when the global idle count has just gone from zero to one.
func (p *Pool) armReapTimer() {
	if p.reapTimer != nil {
		return
	}
	p.reapTimer = time.AfterFunc(p.cfg.ReapInterval, p.reapTick)
}

// disarmReapTimer stops the repeating tick. Called with p.mu held, only
// when the global idle count has just returned to zero.
func (p *Pool) disarmReapTimer() {
	if p.reapTimer == nil {
		return
	}
	p.reapTimer.Stop()
	p.reapTimer = nil
}

// reapTick walks every group's idle set from the head, evicting entries
// that have exceeded the TTL or are no longer connected-and-idle, then
// reschedules itself.
func (p *Pool) reapTick() {
	p.mu.Lock()
	now := p.now()
	for name, g := range p.groups {
		kept := g.idle[:0]
		for _, e := range g.idle {
			if now.Sub(e.enteredAt) >= p.cfg.IdleTTL || !e.stream.IsConnectedAndIdle() {
				e.stream.Disconnect()
				p.idleTotal--
				continue
			}
			kept = append(kept, e)
		}
		g.idle = kept
		p.updateMetrics(g)
		p.dropGroupIfEmpty(name, g)
	}

	if p.idleTotal <= 0 {
		p.idleTotal = 0
		p.disarmReapTimer()
		p.mu.Unlock()
		return
	}

	p.reapTimer = time.AfterFunc(p.cfg.ReapInterval, p.reapTick)
	p.mu.Unlock()
}
