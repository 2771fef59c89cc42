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

// ProtocolLevel311 is the CONNECT protocol level byte for MQTT 3.1.1.
const ProtocolLevel311 byte = 4

// Connect is the CONNECT control packet. Only the MQTT 3.1.1 field set is modeled; there are
// no MQTT 5 properties.
type Connect struct {
	CleanSession bool
	KeepAlive    uint16
	ClientID     string
	Username     string
	Password     string

	WillTopic   string
	WillMessage []byte
	WillQoS     QoS
	WillRetain  bool
}

// willFlag reports whether a will message was configured.
func (c *Connect) willFlag() bool {
	return len(c.WillTopic) > 0
}

func (c *Connect) flags() byte {
	var flags byte
	if c.CleanSession {
		flags |= 1 << 1
	}
	if c.willFlag() {
		flags |= 1 << 2
		flags |= byte(c.WillQoS) << 3
		if c.WillRetain {
			flags |= 1 << 5
		}
	}
	if len(c.Password) > 0 {
		flags |= 1 << 6
	}
	if len(c.Username) > 0 {
		flags |= 1 << 7
	}
	return flags
}

func (c *Connect) variableHeaderLen() int {
	// "MQTT" string (6) + level byte (1) + flags byte (1) + keep-alive uint16 (2).
	return 10
}

func (c *Connect) payloadLen() int {
	n := primitives.StringLen(c.ClientID)
	if c.willFlag() {
		n += primitives.StringLen(c.WillTopic)
		n += 2 + len(c.WillMessage)
	}
	if len(c.Username) > 0 {
		n += primitives.StringLen(c.Username)
	}
	if len(c.Password) > 0 {
		n += primitives.StringLen(c.Password)
	}
	return n
}

// EncodedLen reports the total wire size of the packet, fixed header included.
func (c *Connect) EncodedLen() int {
	fh := FixedHeader{Remaining: primitives.VarInt(c.variableHeaderLen() + c.payloadLen())}
	return fh.EncodedLen() + int(fh.Remaining)
}

// Encode serializes the CONNECT packet into buf, returning the number of bytes written.
func (c *Connect) Encode(buf []byte) (int, error) {
	remaining := primitives.VarInt(c.variableHeaderLen() + c.payloadLen())
	fh := FixedHeader{Remaining: remaining}
	fh.SetType(CONNECT)

	if len(buf) < fh.EncodedLen()+int(remaining) {
		return 0, primitives.ErrBufferTooShort
	}

	off, err := fh.Encode(buf)
	if err != nil {
		return 0, err
	}

	off += copy(buf[off:], "\x00\x04MQTT")
	buf[off] = ProtocolLevel311
	off++
	buf[off] = c.flags()
	off++
	if _, err := primitives.PutUint16(buf[off:], c.KeepAlive); err != nil {
		return 0, err
	}
	off += 2

	n, err := primitives.PutString(buf[off:], c.ClientID)
	if err != nil {
		return 0, err
	}
	off += n

	if c.willFlag() {
		n, err = primitives.PutString(buf[off:], c.WillTopic)
		if err != nil {
			return 0, err
		}
		off += n

		if _, err := primitives.PutUint16(buf[off:], uint16(len(c.WillMessage))); err != nil {
			return 0, err
		}
		off += 2
		off += copy(buf[off:], c.WillMessage)
	}

	if len(c.Username) > 0 {
		n, err = primitives.PutString(buf[off:], c.Username)
		if err != nil {
			return 0, err
		}
		off += n
	}

	if len(c.Password) > 0 {
		n, err = primitives.PutString(buf[off:], c.Password)
		if err != nil {
			return 0, err
		}
		off += n
	}

	return off, nil
}

// Decode parses a CONNECT packet from buf, including its fixed header. It exists primarily
// so test brokers and tests can inspect what the client sent; the core engine itself never
// decodes its own outbound packets.
func (c *Connect) Decode(buf []byte) (int, error) {
	var fh FixedHeader
	off, err := fh.Decode(buf)
	if err != nil {
		return 0, err
	}
	if fh.Type() != CONNECT {
		return 0, ErrInvalidPacketType
	}
	body := buf[off : off+int(fh.Remaining)]
	if len(body) < 10 || string(body[2:6]) != "MQTT" {
		return 0, ErrMalformed
	}
	flags := body[7]
	c.CleanSession = flags&(1<<1) != 0
	c.WillQoS = QoS((flags >> 3) & 0x03)
	c.WillRetain = flags&(1<<5) != 0
	c.KeepAlive, _, err = primitives.Uint16(body[8:])
	if err != nil {
		return 0, err
	}
	cursor := body[10:]

	c.ClientID, cursor, err = readStringAdvance(cursor)
	if err != nil {
		return 0, err
	}

	if flags&(1<<2) != 0 {
		c.WillTopic, cursor, err = readStringAdvance(cursor)
		if err != nil {
			return 0, err
		}
		length, n, err := primitives.Uint16(cursor)
		if err != nil {
			return 0, err
		}
		cursor = cursor[n:]
		if len(cursor) < int(length) {
			return 0, primitives.ErrBufferTooShort
		}
		c.WillMessage = cursor[:length]
		cursor = cursor[length:]
	}

	if flags&(1<<7) != 0 {
		c.Username, cursor, err = readStringAdvance(cursor)
		if err != nil {
			return 0, err
		}
	}

	if flags&(1<<6) != 0 {
		c.Password, cursor, err = readStringAdvance(cursor)
		if err != nil {
			return 0, err
		}
	}

	return off + int(fh.Remaining), nil
}

// readStringAdvance decodes a length-prefixed string from the front of buf and returns the
// remaining slice after it, saving callers from repeating the two-step dance everywhere.
func readStringAdvance(buf []byte) (string, []byte, error) {
	s, n, err := primitives.String(buf)
	if err != nil {
		return "", nil, err
	}
	return s, buf[n:], nil
}
