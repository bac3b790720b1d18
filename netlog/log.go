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

package netlog

import "github.com/sirupsen/logrus"

type logger struct {
	l *logrus.Logger
}

// Debug logs a message at debug level. A nil receiver is a no-op, matching
// the guard every component relies on when its logger field is unset.
func (o *logger) Debug(msg string, fields Fields) {
	if o == nil {
		return
	}
	o.l.WithFields(fields.toLogrus()).Debug(msg)
}

func (o *logger) Info(msg string, fields Fields) {
	if o == nil {
		return
	}
	o.l.WithFields(fields.toLogrus()).Info(msg)
}

func (o *logger) Warn(msg string, fields Fields) {
	if o == nil {
		return
	}
	o.l.WithFields(fields.toLogrus()).Warn(msg)
}

func (o *logger) Error(msg string, fields Fields) {
	if o == nil {
		return
	}
	o.l.WithFields(fields.toLogrus()).Error(msg)
}
