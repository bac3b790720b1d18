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

// Package origin implements a single-threaded, cooperative task queue: one
// designated goroutine drains a channel of closures, one at a time, in
// submission order. The connection pool posts its deferred work (release
// bookkeeping, connector completion) through a Loop instead of running it
// inline, so a release triggered from inside a callback never reenters the
// pool's own call stack, and two posted tasks never interleave.
package origin

import "sync"

// Task is a unit of work a Loop runs to completion before starting the
// next one.
type Task func()

// Loop is a single-goroutine task runner. The zero value is not usable;
// build one with New.
type Loop struct {
	tasks chan Task
	done  chan struct{}
	once  sync.Once
}

// New builds a Loop with the given pending-task queue depth and starts its
// goroutine.
func New(queueDepth int) *Loop {
	if queueDepth < 1 {
		queueDepth = 1
	}
	l := &Loop{
		tasks: make(chan Task, queueDepth),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	for {
		select {
		case t := <-l.tasks:
			t()
		case <-l.done:
			// Drain whatever was already queued before this Loop was
			// asked to stop, so a PostTask that raced Stop still runs.
			for {
				select {
				case t := <-l.tasks:
					t()
				default:
					return
				}
			}
		}
	}
}

// PostTask enqueues t to run on the loop's goroutine. It reports false,
// without running t, if the loop has been stopped.
func (l *Loop) PostTask(t Task) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- t:
		return true
	case <-l.done:
		return false
	}
}

// Stop signals the loop to drain its queue and exit. Safe to call more than
// once.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.done) })
}
