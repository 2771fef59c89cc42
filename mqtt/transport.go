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

package mqtt

// Transport is the byte stream the client drives. deadlineMs is the number of milliseconds
// remaining before the current command times out, as read from the client's command Timer;
// implementations are expected to bound the call to roughly that budget rather than block
// indefinitely. A deadlineMs of 0 means the deadline has already passed.
//
// The client never constructs a Transport itself; it only consumes one supplied by the
// caller (see adapters/tcptransport for a net.Conn-backed implementation).
type Transport interface {
	Read(buf []byte, deadlineMs int64) (n int, err error)
	Write(buf []byte, deadlineMs int64) (n int, err error)
}

// Peeker is an optional capability a Transport may additionally implement: a non-blocking
// check for queued bytes. When present, the client uses it to short-circuit readPacket into
// an immediate ErrNoPacket rather than blocking on Read.
type Peeker interface {
	Peek() (available int, err error)
}
