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

import (
	"fmt"
	"runtime"
	"strings"
)

// TraceEnabled toggles call-site capture. It is enabled by default; callers
// that build errors on hot paths (the pool's per-request error construction)
// can flip this off; tests leave it on.
var TraceEnabled = true

// currPkg is this package's own import path suffix, used to skip frames that
// belong to xerrors itself when walking the call stack. It is matched against
// the frame's function name ("<path>/xerrors.Func"), so frames of the external
// xerrors_test package in the same directory are not skipped.
const currPkg = "/xerrors"

// capture walks the call stack starting skip frames up from its caller and
// returns the first frame outside this package, formatted as
// "file:line:function". skip counts capture's own frame, so New/Wrap pass 2
// to land on their own caller.
func capture(skip int) string {
	if !TraceEnabled {
		return ""
	}

	pc := make([]uintptr, 16)
	n := runtime.Callers(skip+1, pc)
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pc[:n])
	for {
		f, more := frames.Next()
		if !strings.Contains(f.Function, currPkg+".") {
			return fmt.Sprintf("%s:%d:%s", f.File, f.Line, shortFunc(f.Function))
		}
		if !more {
			break
		}
	}
	return ""
}

// shortFunc trims a fully qualified function name down to "pkg.Func".
func shortFunc(full string) string {
	if i := strings.LastIndex(full, "/"); i >= 0 {
		full = full[i+1:]
	}
	return full
}
