/*
 * MIT License
 *
 * Copyright (c) 2022-2022 waj334
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
 */

// Package tcptransport implements mqtt.Transport (but not mqtt.Peeker) over a real net.Conn, the
// same deadline-driven I/O style the reference client used directly inside Client.Connect
// and Client.KeepAlive before that responsibility moved behind an injectable interface.
package tcptransport

import (
	"errors"
	"net"
	"time"
)

// Transport adapts a net.Conn to mqtt.Transport. It is safe to construct over any
// net.Conn, including a *tls.Conn, since both satisfy the same interface.
type Transport struct {
	conn net.Conn
}

// Dial opens a TCP connection to addr and wraps it as a Transport.
func Dial(addr string) (*Transport, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// New wraps an already-established net.Conn.
func New(conn net.Conn) *Transport {
	return &Transport{conn: conn}
}

// Close closes the underlying connection.
func (t *Transport) Close() error {
	return t.conn.Close()
}

func (t *Transport) deadline(deadlineMs int64) time.Time {
	if deadlineMs <= 0 {
		return time.Now()
	}
	return time.Now().Add(time.Duration(deadlineMs) * time.Millisecond)
}

// Read implements mqtt.Transport. A deadline reached with nothing read is reported as
// (0, nil), which the client treats as "no packet".
func (t *Transport) Read(buf []byte, deadlineMs int64) (int, error) {
	if err := t.conn.SetReadDeadline(t.deadline(deadlineMs)); err != nil {
		return 0, err
	}
	n, err := t.conn.Read(buf)
	var netErr net.Error
	if n == 0 && errors.As(err, &netErr) && netErr.Timeout() {
		return 0, nil
	}
	return n, err
}

// Write implements mqtt.Transport.
func (t *Transport) Write(buf []byte, deadlineMs int64) (int, error) {
	if err := t.conn.SetWriteDeadline(t.deadline(deadlineMs)); err != nil {
		return 0, err
	}
	return t.conn.Write(buf)
}

// Transport deliberately does not implement mqtt.Peeker: a plain net.Conn has no portable,
// non-blocking way to report queued bytes, so this adapter relies entirely on the
// deadline-bounded blocking Read the client core already falls back to when no Peeker is
// present.
