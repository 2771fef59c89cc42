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

// SubscribeTopic is one topic filter / requested QoS pair in a SUBSCRIBE payload.
type SubscribeTopic struct {
	Filter string
	QoS    QoS
}

// Subscribe is the SUBSCRIBE control packet.
type Subscribe struct {
	PacketIdentifier uint16
	Topics           []SubscribeTopic
}

func (s *Subscribe) payloadLen() int {
	n := 0
	for _, t := range s.Topics {
		n += primitives.StringLen(t.Filter) + 1
	}
	return n
}

// EncodedLen reports the total wire size of the packet, fixed header included.
func (s *Subscribe) EncodedLen() int {
	fh := FixedHeader{Remaining: primitives.VarInt(2 + s.payloadLen())}
	return fh.EncodedLen() + int(fh.Remaining)
}

// Encode serializes the SUBSCRIBE packet into buf. The Payload MUST contain at least one
// topic filter [MQTT-3.8.3-2].
func (s *Subscribe) Encode(buf []byte) (int, error) {
	if len(s.Topics) == 0 {
		return 0, ErrMalformed
	}

	remaining := primitives.VarInt(2 + s.payloadLen())
	fh := FixedHeader{Remaining: remaining}
	fh.SetType(SUBSCRIBE)
	// Bits 3-0 of the fixed header are reserved and fixed at 0010 [MQTT-3.8.1-1].
	fh.SetFlags(0x02)

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

	for _, t := range s.Topics {
		n, err := primitives.PutString(buf[off:], t.Filter)
		if err != nil {
			return 0, err
		}
		off += n
		buf[off] = byte(t.QoS)
		off++
	}

	return off, nil
}

// Decode parses a SUBSCRIBE packet from buf, fixed header included. Topics' Filter fields
// alias buf.
func (s *Subscribe) Decode(buf []byte) (int, error) {
	var fh FixedHeader
	off, err := fh.Decode(buf)
	if err != nil {
		return 0, err
	}
	if fh.Type() != SUBSCRIBE {
		return 0, ErrInvalidPacketType
	}
	// Bits 3-0 of the fixed header are reserved and fixed at 0010 [MQTT-3.8.1-1].
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
	s.PacketIdentifier = id
	body = body[n:]

	s.Topics = s.Topics[:0]
	for len(body) > 0 {
		filter, n, err := primitives.String(body)
		if err != nil {
			return 0, err
		}
		body = body[n:]
		if len(body) < 1 {
			return 0, ErrMalformed
		}
		s.Topics = append(s.Topics, SubscribeTopic{Filter: filter, QoS: QoS(body[0])})
		body = body[1:]
	}
	if len(s.Topics) == 0 {
		return 0, ErrMalformed
	}

	return off + int(fh.Remaining), nil
}
