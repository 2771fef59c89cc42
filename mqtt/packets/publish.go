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

// Publish is the PUBLISH control packet. PacketIdentifier only applies when QoS is 1 or 2;
// it is ignored on the wire for QoS 0 per [MQTT-2.3.1-5].
//
// Payload is a borrowed view into the decode buffer, not a copy: callers that need the bytes
// to outlive the next Decode call must copy them out.
type Publish struct {
	Topic            string
	PacketIdentifier uint16
	Payload          []byte

	Retain    bool
	QoS       QoS
	Duplicate bool
}

func (p *Publish) hasPacketIdentifier() bool {
	return p.QoS == QoS1 || p.QoS == QoS2
}

func (p *Publish) variableHeaderLen() int {
	n := primitives.StringLen(p.Topic)
	if p.hasPacketIdentifier() {
		n += 2
	}
	return n
}

func (p *Publish) flags() byte {
	var flags byte
	if p.Retain {
		flags |= 1 << 0
	}
	flags |= byte(p.QoS) << 1
	if p.Duplicate {
		flags |= 1 << 3
	}
	return flags
}

// EncodedLen reports the total wire size of the packet, fixed header included.
func (p *Publish) EncodedLen() int {
	fh := FixedHeader{Remaining: primitives.VarInt(p.variableHeaderLen() + len(p.Payload))}
	return fh.EncodedLen() + int(fh.Remaining)
}

// Encode serializes the PUBLISH packet into buf.
func (p *Publish) Encode(buf []byte) (int, error) {
	if len(p.Topic) == 0 {
		return 0, ErrMalformed
	}

	remaining := primitives.VarInt(p.variableHeaderLen() + len(p.Payload))
	fh := FixedHeader{Remaining: remaining}
	fh.SetType(PUBLISH)
	fh.SetFlags(p.flags())

	if len(buf) < fh.EncodedLen()+int(remaining) {
		return 0, primitives.ErrBufferTooShort
	}

	off, err := fh.Encode(buf)
	if err != nil {
		return 0, err
	}

	n, err := primitives.PutString(buf[off:], p.Topic)
	if err != nil {
		return 0, err
	}
	off += n

	if p.hasPacketIdentifier() {
		if _, err := primitives.PutUint16(buf[off:], p.PacketIdentifier); err != nil {
			return 0, err
		}
		off += 2
	}

	off += copy(buf[off:], p.Payload)
	return off, nil
}

// Decode parses a PUBLISH packet from buf, fixed header included. The returned Topic and
// Payload alias buf.
func (p *Publish) Decode(buf []byte) (int, error) {
	var fh FixedHeader
	off, err := fh.Decode(buf)
	if err != nil {
		return 0, err
	}
	if fh.Type() != PUBLISH {
		return 0, ErrInvalidPacketType
	}

	p.Retain = fh.Flags()&0x01 != 0
	p.QoS = QoS(fh.Flags()>>1) & 0x03
	p.Duplicate = (fh.Flags()>>3)&0x01 != 0

	if len(buf) < off+int(fh.Remaining) {
		return 0, primitives.ErrBufferTooShort
	}
	body := buf[off : off+int(fh.Remaining)]

	topic, n, err := primitives.String(body)
	if err != nil {
		return 0, err
	}
	if len(topic) == 0 {
		return 0, ErrMalformed
	}
	p.Topic = topic
	body = body[n:]

	if p.hasPacketIdentifier() {
		id, n, err := primitives.Uint16(body)
		if err != nil {
			return 0, err
		}
		p.PacketIdentifier = id
		body = body[n:]
	} else {
		p.PacketIdentifier = 0
	}

	p.Payload = body
	return off + int(fh.Remaining), nil
}
