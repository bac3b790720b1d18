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

// Package netlog is a thin structured-logging facade shared by the pool, the
// TLS state machine and the certificate verifier. A nil Logger interface
// value cannot be called, so components that hold an optional Logger check
// it for nil before each log call.
package netlog

import "github.com/sirupsen/logrus"

// Fields carries correlation data (group name, handle id, state-machine
// state, connector id) alongside a log line. It composes directly into
// logrus.Fields.
type Fields map[string]interface{}

func (f Fields) toLogrus() logrus.Fields {
	if f == nil {
		return nil
	}
	lf := make(logrus.Fields, len(f))
	for k, v := range f {
		lf[k] = v
	}
	return lf
}

// Logger is the interface every component accepts. New wraps a *logrus.Logger
// into one.
type Logger interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, fields Fields)
}

// New wraps base into a Logger. If base is nil, logrus.StandardLogger() is
// used.
func New(base *logrus.Logger) Logger {
	if base == nil {
		base = logrus.StandardLogger()
	}
	return &logger{l: base}
}
