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

// Suback is the SUBACK control packet. ReturnCodes holds one byte per topic filter in the
// SUBSCRIBE it acknowledges, in order: a granted QoS (0, 1 or 2) or QoSFailure (0x80) if the
// broker rejected that particular subscription. Callers must inspect every entry; a
// subscription is not confirmed just because the SUBACK arrived.
type Suback struct {
	PacketIdentifier uint16
	ReturnCodes      []byte
}

// EncodedLen reports the total wire size of the packet, fixed header included.
func (s *Suback) EncodedLen() int {
	fh := FixedHeader{Remaining: primitives.VarInt(2 + len(s.ReturnCodes))}
	return fh.EncodedLen() + int(fh.Remaining)
}

// Encode serializes the SUBACK packet into buf. Primarily used by test brokers.
func (s *Suback) Encode(buf []byte) (int, error) {
	remaining := primitives.VarInt(2 + len(s.ReturnCodes))
	fh := FixedHeader{Remaining: remaining}
	fh.SetType(SUBACK)

	if len(buf) < fh.EncodedLen()+int(remaining) {
		return 0, primitives.ErrBufferTooShort
	}

	off, err := fh.Encode(buf)
	if err != nil {
		return 0, err
	}
	if _, err := primitives.PutUint16(buf[off:], s.PacketIdentifier); err != nil {
		return 0, err
	}
	off += 2
	off += copy(buf[off:], s.ReturnCodes)
	return off, nil
}

// Decode parses a SUBACK packet from buf, fixed header included. ReturnCodes aliases buf.
func (s *Suback) Decode(buf []byte) (int, error) {
	var fh FixedHeader
	off, err := fh.Decode(buf)
	if err != nil {
		return 0, err
	}
	if fh.Type() != SUBACK {
		return 0, ErrInvalidPacketType
	}
	if fh.Remaining < 3 || len(buf) < off+int(fh.Remaining) {
		return 0, ErrMalformed
	}
	body := buf[off : off+int(fh.Remaining)]

	id, n, err := primitives.Uint16(body)
	if err != nil {
		return 0, err
	}
	s.PacketIdentifier = id
	s.ReturnCodes = body[n:]

	return off + int(fh.Remaining), nil
}
