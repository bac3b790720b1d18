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

import "github.com/prometheus/client_golang/prometheus"

// metrics holds the per-group load-state gauges. A nil *metrics (the
// pool-with-no-registerer case) makes every method a no-op.
type metrics struct {
	active  *prometheus.GaugeVec
	idle    *prometheus.GaugeVec
	pending *prometheus.GaugeVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}
	m := &metrics{
		active:  prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "netstream_pool_active", Help: "sockets currently handed out or connecting, per group"}, []string{"group"}),
		idle:    prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "netstream_pool_idle", Help: "idle sockets available for reuse, per group"}, []string{"group"}),
		pending: prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "netstream_pool_pending", Help: "requests waiting for a free slot, per group"}, []string{"group"}),
	}
	reg.MustRegister(m.active, m.idle, m.pending)
	return m
}

func (m *metrics) set(group string, active, idle, pending int) {
	if m == nil {
		return
	}
	m.active.WithLabelValues(group).Set(float64(active))
	m.idle.WithLabelValues(group).Set(float64(idle))
	m.pending.WithLabelValues(group).Set(float64(pending))
}

func (m *metrics) drop(group string) {
	if m == nil {
		return
	}
	m.active.DeleteLabelValues(group)
	m.idle.DeleteLabelValues(group)
	m.pending.DeleteLabelValues(group)
}
