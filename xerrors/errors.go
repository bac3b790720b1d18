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

package xerrors

import "fmt"

// xerror is the concrete Error implementation. Unexported: callers only ever
// see the Error interface, matching the teacher's errors package which never
// exposes its own struct.
type xerror struct {
	code   Code
	msg    string
	parent Error
	trace  string
}

func (e *xerror) Code() Code {
	return e.code
}

func (e *xerror) Message() string {
	return e.msg
}

func (e *xerror) Parent() Error {
	return e.parent
}

func (e *xerror) Trace() string {
	return e.trace
}

func (e *xerror) Is(c Code) bool {
	for cur := Error(e); cur != nil; cur = cur.Parent() {
		if cur.Code() == c {
			return true
		}
	}
	return false
}

// Error implements the standard error interface, rendering the full parent
// chain as "code: message <- code: message <- ...".
func (e *xerror) Error() string {
	s := fmt.Sprintf("%s: %s", e.code, e.msg)
	if e.parent != nil {
		s += " <- " + e.parent.Error()
	}
	return s
}

func sprintf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
