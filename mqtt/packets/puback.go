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

// Puback is the PUBACK control packet: just the packet identifier, no reason code or
// properties in MQTT 3.1.1.
type Puback struct {
	PacketIdentifier uint16
}

func (p *Puback) EncodedLen() int {
	return 4
}

func (p *Puback) Encode(buf []byte) (int, error) {
	return encodeIDOnly(buf, PUBACK, 0, p.PacketIdentifier)
}

func (p *Puback) Decode(buf []byte) (int, error) {
	return decodeIDOnly(buf, PUBACK, 0, &p.PacketIdentifier)
}

// Pubrec is the PUBREC control packet: structurally identical to PUBACK.
type Pubrec struct {
	PacketIdentifier uint16
}

func (p *Pubrec) EncodedLen() int {
	return 4
}

func (p *Pubrec) Encode(buf []byte) (int, error) {
	return encodeIDOnly(buf, PUBREC, 0, p.PacketIdentifier)
}

func (p *Pubrec) Decode(buf []byte) (int, error) {
	return decodeIDOnly(buf, PUBREC, 0, &p.PacketIdentifier)
}

// Pubrel is the PUBREL control packet. Its fixed header reserved bits are fixed at 0010 per
// [MQTT-3.6.1-1].
type Pubrel struct {
	PacketIdentifier uint16
}

func (p *Pubrel) EncodedLen() int {
	return 4
}

func (p *Pubrel) Encode(buf []byte) (int, error) {
	return encodeIDOnly(buf, PUBREL, 0x02, p.PacketIdentifier)
}

func (p *Pubrel) Decode(buf []byte) (int, error) {
	return decodeIDOnly(buf, PUBREL, 0x02, &p.PacketIdentifier)
}

// Pubcomp is the PUBCOMP control packet: structurally identical to PUBACK.
type Pubcomp struct {
	PacketIdentifier uint16
}

func (p *Pubcomp) EncodedLen() int {
	return 4
}

func (p *Pubcomp) Encode(buf []byte) (int, error) {
	return encodeIDOnly(buf, PUBCOMP, 0, p.PacketIdentifier)
}

func (p *Pubcomp) Decode(buf []byte) (int, error) {
	return decodeIDOnly(buf, PUBCOMP, 0, &p.PacketIdentifier)
}

// encodeIDOnly serializes the common shape shared by PUBACK, PUBREC, PUBREL and PUBCOMP: a
// fixed header with Remaining=2 followed by a single packet identifier.
func encodeIDOnly(buf []byte, t PacketType, flags byte, id uint16) (int, error) {
	if len(buf) < 4 {
		return 0, primitives.ErrBufferTooShort
	}
	fh := FixedHeader{Remaining: 2}
	fh.SetType(t)
	fh.SetFlags(flags)
	off, err := fh.Encode(buf)
	if err != nil {
		return 0, err
	}
	if _, err := primitives.PutUint16(buf[off:], id); err != nil {
		return 0, err
	}
	return off + 2, nil
}

// decodeIDOnly decodes the common shape shared by PUBACK, PUBREC, PUBREL, PUBCOMP and
// UNSUBACK. wantFlags is the reserved-bit pattern the standard fixes for this packet type
// (0x02 for PUBREL, 0x00 for the rest); a header carrying any other value is malformed.
func decodeIDOnly(buf []byte, want PacketType, wantFlags byte, id *uint16) (int, error) {
	var fh FixedHeader
	off, err := fh.Decode(buf)
	if err != nil {
		return 0, err
	}
	if fh.Type() != want {
		return 0, ErrInvalidPacketType
	}
	if fh.Flags() != wantFlags {
		return 0, ErrMalformed
	}
	if fh.Remaining < 2 || len(buf) < off+2 {
		return 0, ErrMalformed
	}
	v, _, err := primitives.Uint16(buf[off:])
	if err != nil {
		return 0, err
	}
	*id = v
	return off + 2, nil
}
