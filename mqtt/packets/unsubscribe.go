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

// Unsubscribe is the UNSUBSCRIBE control packet.
type Unsubscribe struct {
	PacketIdentifier uint16
	Topics           []string
}

func (u *Unsubscribe) payloadLen() int {
	n := 0
	for _, t := range u.Topics {
		n += primitives.StringLen(t)
	}
	return n
}

// EncodedLen reports the total wire size of the packet, fixed header included.
func (u *Unsubscribe) EncodedLen() int {
	fh := FixedHeader{Remaining: primitives.VarInt(2 + u.payloadLen())}
	return fh.EncodedLen() + int(fh.Remaining)
}

// Encode serializes the UNSUBSCRIBE packet into buf. The payload MUST contain at least one
// topic filter [MQTT-3.10.3-2].
func (u *Unsubscribe) Encode(buf []byte) (int, error) {
	if len(u.Topics) == 0 {
		return 0, ErrMalformed
	}

	remaining := primitives.VarInt(2 + u.payloadLen())
	fh := FixedHeader{Remaining: remaining}
	fh.SetType(UNSUBSCRIBE)
	// Bits 3-0 of the fixed header are reserved and fixed at 0010 [MQTT-3.10.1-1].
	fh.SetFlags(0x02)

	if len(buf) < fh.EncodedLen()+int(remaining) {
		return 0, primitives.ErrBufferTooShort
	}

	off, err := fh.Encode(buf)
	if err != nil {
		return 0, err
	}
	if _, err := primitives.PutUint16(buf[off:], u.PacketIdentifier); err != nil {
		return 0, err
	}
	off += 2

	for _, t := range u.Topics {
		n, err := primitives.PutString(buf[off:], t)
		if err != nil {
			return 0, err
		}
		off += n
	}

	return off, nil
}

// Decode parses an UNSUBSCRIBE packet from buf, fixed header included. Topics alias buf.
func (u *Unsubscribe) Decode(buf []byte) (int, error) {
	var fh FixedHeader
	off, err := fh.Decode(buf)
	if err != nil {
		return 0, err
	}
	if fh.Type() != UNSUBSCRIBE {
		return 0, ErrInvalidPacketType
	}
	// Bits 3-0 of the fixed header are reserved and fixed at 0010 [MQTT-3.10.1-1].
	if fh.Flags() != 0x02 {
		return 0, ErrMalformed
	}
	if fh.Remaining < 2 || len(buf) < off+int(fh.Remaining) {
		return 0, primitives.ErrBufferTooShort
	}
	body := buf[off : off+int(fh.Remaining)]

	id, n, err := primitives.Uint16(body)
	if err != nil {
		return 0, err
	}
	u.PacketIdentifier = id
	body = body[n:]

	u.Topics = u.Topics[:0]
	for len(body) > 0 {
		filter, n, err := primitives.String(body)
		if err != nil {
			return 0, err
		}
		u.Topics = append(u.Topics, filter)
		body = body[n:]
	}
	if len(u.Topics) == 0 {
		return 0, ErrMalformed
	}

	return off + int(fh.Remaining), nil
}

// Unsuback is the UNSUBACK control packet: just a packet identifier, with no payload at all
// in MQTT 3.1.1 (MQTT 5 adds per-topic reason codes; this repository does not implement
// MQTT 5).
type Unsuback struct {
	PacketIdentifier uint16
}

func (u *Unsuback) EncodedLen() int {
	return 4
}

func (u *Unsuback) Encode(buf []byte) (int, error) {
	return encodeIDOnly(buf, UNSUBACK, 0, u.PacketIdentifier)
}

func (u *Unsuback) Decode(buf []byte) (int, error) {
	return decodeIDOnly(buf, UNSUBACK, 0, &u.PacketIdentifier)
}
