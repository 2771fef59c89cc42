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

package packets

import "github.com/nadongjun/lwmqtt-go/mqtt/primitives"

// ConnectReturnCode is the single return-code byte of a CONNACK packet.
type ConnectReturnCode byte

const (
	Accepted                    ConnectReturnCode = 0
	RefusedProtocolVersion      ConnectReturnCode = 1
	RefusedIdentifierRejected   ConnectReturnCode = 2
	RefusedServerUnavailable    ConnectReturnCode = 3
	RefusedBadUsernameOrPasswd  ConnectReturnCode = 4
	RefusedNotAuthorized        ConnectReturnCode = 5
)

func (c ConnectReturnCode) Error() string {
	switch c {
	case Accepted:
		return "accepted"
	case RefusedProtocolVersion:
		return "connection refused: unacceptable protocol version"
	case RefusedIdentifierRejected:
		return "connection refused: identifier rejected"
	case RefusedServerUnavailable:
		return "connection refused: server unavailable"
	case RefusedBadUsernameOrPasswd:
		return "connection refused: bad username or password"
	case RefusedNotAuthorized:
		return "connection refused: not authorized"
	default:
		return "connection refused: unknown reason"
	}
}

// Connack is the CONNACK control packet: two bytes after the fixed header.
type Connack struct {
	SessionPresent bool
	ReturnCode     ConnectReturnCode
}

// EncodedLen reports the total wire size of the packet, fixed header included.
func (c *Connack) EncodedLen() int {
	return 4
}

// Encode serializes the CONNACK packet into buf. Primarily used by test brokers.
func (c *Connack) Encode(buf []byte) (int, error) {
	if len(buf) < 4 {
		return 0, primitives.ErrBufferTooShort
	}
	fh := FixedHeader{Remaining: 2}
	fh.SetType(CONNACK)
	off, err := fh.Encode(buf)
	if err != nil {
		return 0, err
	}
	var ackFlags byte
	if c.SessionPresent {
		ackFlags = 1
	}
	buf[off] = ackFlags
	buf[off+1] = byte(c.ReturnCode)
	return off + 2, nil
}

// Decode parses a CONNACK packet from buf, fixed header included.
func (c *Connack) Decode(buf []byte) (int, error) {
	var fh FixedHeader
	off, err := fh.Decode(buf)
	if err != nil {
		return 0, err
	}
	if fh.Type() != CONNACK {
		return 0, ErrInvalidPacketType
	}
	if fh.Remaining < 2 || len(buf) < off+2 {
		return 0, ErrMalformed
	}
	c.SessionPresent = buf[off]&0x01 != 0
	c.ReturnCode = ConnectReturnCode(buf[off+1])
	return off + 2, nil
}
