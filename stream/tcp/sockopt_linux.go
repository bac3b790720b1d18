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

//go:build linux

package tcp

import (
	"net"

	"golang.org/x/sys/unix"
)

// applySockOpts disables Nagle's algorithm and fixes the send/receive buffer
// sizes per §4.2 ("disable the small-packet coalescing behavior... set fixed
// send/receive buffer sizes").
func applySockOpts(tc *net.TCPConn, opts Options) error {
	raw, err := tc.SyscallConn()
	if err != nil {
		return err
	}

	var sockErr error
	ctrlErr := raw.Control(func(fd uintptr) {
		if opts.NoDelay {
			sockErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
			if sockErr != nil {
				return
			}
		}
		if opts.SendBuffer > 0 {
			sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, opts.SendBuffer)
			if sockErr != nil {
				return
			}
		}
		if opts.RecvBuffer > 0 {
			sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, opts.RecvBuffer)
		}
	})
	if ctrlErr != nil {
		return ctrlErr
	}
	return sockErr
}
