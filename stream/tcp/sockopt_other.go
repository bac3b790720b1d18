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

//go:build !linux

package tcp

import "net"

// applySockOpts falls back to net.TCPConn's portable setters on platforms
// where golang.org/x/sys/unix's socket option constants aren't wired up.
func applySockOpts(tc *net.TCPConn, opts Options) error {
	if err := tc.SetNoDelay(opts.NoDelay); err != nil {
		return err
	}
	if opts.SendBuffer > 0 {
		if err := tc.SetWriteBuffer(opts.SendBuffer); err != nil {
			return err
		}
	}
	if opts.RecvBuffer > 0 {
		if err := tc.SetReadBuffer(opts.RecvBuffer); err != nil {
			return err
		}
	}
	return nil
}
