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

// Error is the value every fallible operation in this module returns instead
// of a bare error. It carries a stable Code, a human message, the call site
// that created it, and an optional parent chain so a low-level failure (a
// syscall error, an x509 error) can be wrapped without losing its own
// identity.
type Error interface {
	error

	// Code returns the stable identity of this error.
	Code() Code

	// Message returns the human-readable description, without the parent
	// chain rendered into it (use Error() for the full rendering).
	Message() string

	// Parent returns the wrapped cause, or nil if this error is a leaf.
	Parent() Error

	// Trace returns the call site that constructed this error, in
	// file:line:function form, or "" if trace capture is disabled.
	Trace() string

	// Is reports whether this error, or any parent in its chain, carries
	// the given Code.
	Is(c Code) bool
}

// New builds a leaf Error with the given code and message, capturing the
// call site of New itself.
func New(c Code, msg string) Error {
	return &xerror{
		code:  c,
		msg:   msg,
		trace: capture(2),
	}
}

// Newf builds a leaf Error the way New does, formatting msg with args.
func Newf(c Code, format string, args ...interface{}) Error {
	return &xerror{
		code:  c,
		msg:   sprintf(format, args...),
		trace: capture(2),
	}
}

// Wrap attaches parent as the cause of a new Error with the given code and
// message. If parent is nil, Wrap behaves like New.
func Wrap(parent Error, c Code, msg string) Error {
	return &xerror{
		code:   c,
		msg:    msg,
		parent: parent,
		trace:  capture(2),
	}
}

// WrapStd adapts a standard library error into an Error with the given code,
// keeping its text as this error's own message so Error() output still shows
// it; no parent is attached. Returns nil if err is nil, and returns err
// unchanged if it already is an Error.
func WrapStd(err error, c Code) Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		return e
	}
	return &xerror{
		code:  c,
		msg:   err.Error(),
		trace: capture(2),
	}
}

// Is reports whether err (which may be nil) carries code c anywhere in its
// chain. A nil err never matches.
func Is(err Error, c Code) bool {
	if err == nil {
		return false
	}
	return err.Is(c)
}

// CodeOf returns the Code of err, or OK if err is nil.
func CodeOf(err Error) Code {
	if err == nil {
		return OK
	}
	return err.Code()
}
