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

// Package packets implements the MQTT 3.1.1 control packet wire format: per-type
// encode/decode against caller-supplied byte slices, with no allocation on the hot path.
package packets

import (
	"errors"

	"github.com/nadongjun/lwmqtt-go/mqtt/primitives"
)

var (
	// ErrInvalidPacketType is returned when the fixed header's type nibble does not name a
	// known MQTT 3.1.1 control packet.
	ErrInvalidPacketType = errors.New("packets: invalid packet type")

	// ErrMalformed is returned when a decoder observes a structurally invalid packet (e.g. a
	// SUBSCRIBE payload with no topic filters, or PUBLISH with an empty topic).
	ErrMalformed = errors.New("packets: malformed control packet")
)

type PacketType byte

const (
	CONNECT PacketType = iota + 1
	CONNACK
	PUBLISH
	PUBACK
	PUBREC
	PUBREL
	PUBCOMP
	SUBSCRIBE
	SUBACK
	UNSUBSCRIBE
	UNSUBACK
	PINGREQ
	PINGRESP
	DISCONNECT
)

type QoS byte

const (
	QoS0 QoS = 0
	QoS1 QoS = 1
	QoS2 QoS = 2

	// QoSFailure is the SUBACK return code byte 0x80: the broker rejected the subscription.
	QoSFailure QoS = 0x80
)

// FixedHeader is the first 2-5 bytes of every MQTT control packet: one type/flags byte
// followed by a 1-4 byte remaining-length varint.
type FixedHeader struct {
	Header    byte
	Remaining primitives.VarInt
}

func (f *FixedHeader) SetType(t PacketType) {
	f.Header = (f.Header & 0x0F) | byte(t)<<4
}

func (f *FixedHeader) Type() PacketType {
	return PacketType(f.Header >> 4)
}

func (f *FixedHeader) SetFlags(flags byte) {
	f.Header = (f.Header & 0xF0) | (flags & 0x0F)
}

func (f *FixedHeader) Flags() byte {
	return f.Header & 0x0F
}

// EncodedLen reports the total size of the fixed header once Remaining is set: 1 type/flags
// byte plus the varint encoding of Remaining.
func (f *FixedHeader) EncodedLen() int {
	return 1 + f.Remaining.EncodedLen()
}

// Encode writes the fixed header to buf and returns the number of bytes written.
func (f *FixedHeader) Encode(buf []byte) (int, error) {
	if len(buf) < 1 {
		return 0, primitives.ErrBufferTooShort
	}
	buf[0] = f.Header
	n, err := f.Remaining.Encode(buf[1:])
	if err != nil {
		return 0, err
	}
	return 1 + n, nil
}

// Decode reads the fixed header from the front of buf and returns the number of bytes
// consumed. It validates the type nibble but not the flag bits, which are packet-specific.
func (f *FixedHeader) Decode(buf []byte) (int, error) {
	if len(buf) < 1 {
		return 0, primitives.ErrBufferTooShort
	}
	f.Header = buf[0]
	if t := f.Type(); t < CONNECT || t > DISCONNECT {
		return 0, ErrInvalidPacketType
	}
	n, err := f.Remaining.Decode(buf[1:])
	if err != nil {
		return 0, err
	}
	return 1 + n, nil
}

// DetectPacketType extracts the high nibble of the first control packet byte. It returns
// ErrInvalidPacketType if the nibble does not name a known MQTT 3.1.1 packet.
func DetectPacketType(b byte) (PacketType, error) {
	t := PacketType(b >> 4)
	if t < CONNECT || t > DISCONNECT {
		return 0, ErrInvalidPacketType
	}
	return t, nil
}
