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

import "errors"

var (
	// ErrFailure is the generic protocol-level mismatch: the awaited ack did not arrive before
	// the command timer ran out, a SUBACK/UNSUBACK carried the wrong packet identifier, or a
	// PINGRESP was missed. A refused CONNACK is returned as its packets.ConnectReturnCode and
	// a rejected SUBACK filter as packets.QoSFailure, not as ErrFailure.
	ErrFailure = errors.New("mqtt: protocol failure")

	// ErrNotEnoughData is returned when the transport delivers fewer bytes than a packet's
	// own length fields promised.
	ErrNotEnoughData = errors.New("mqtt: not enough data")

	// ErrNoPacket is not an error condition: it reports that nothing was available to read.
	// Callers should compare with errors.Is and treat it as ordinary control flow, the way the
	// reference client treats a deadline-exceeded read during its backoff loop.
	ErrNoPacket = errors.New("mqtt: no packet available")

	// ErrClientNotConnected is returned by commands issued before Connect has succeeded.
	ErrClientNotConnected = errors.New("mqtt: client is not connected")

	// ErrCommandInProgress is returned if a command is issued while another is still running
	// on the same client.
	ErrCommandInProgress = errors.New("mqtt: a command is already in progress")
)
