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

// Pingreq and Pingresp are both bare fixed-header-only packets: no variable header, no
// payload. They exist as distinct types so the client engine's type switch on decoded
// packets stays exhaustive and readable.

type Pingreq struct{}

func (p *Pingreq) EncodedLen() int { return 2 }

func (p *Pingreq) Encode(buf []byte) (int, error) {
	return encodeBareHeader(buf, PINGREQ)
}

func (p *Pingreq) Decode(buf []byte) (int, error) {
	return decodeBareHeader(buf, PINGREQ)
}

type Pingresp struct{}

func (p *Pingresp) EncodedLen() int { return 2 }

func (p *Pingresp) Encode(buf []byte) (int, error) {
	return encodeBareHeader(buf, PINGRESP)
}

func (p *Pingresp) Decode(buf []byte) (int, error) {
	return decodeBareHeader(buf, PINGRESP)
}

func encodeBareHeader(buf []byte, t PacketType) (int, error) {
	if len(buf) < 2 {
		return 0, primitives.ErrBufferTooShort
	}
	fh := FixedHeader{Remaining: 0}
	fh.SetType(t)
	return fh.Encode(buf)
}

func decodeBareHeader(buf []byte, want PacketType) (int, error) {
	var fh FixedHeader
	off, err := fh.Decode(buf)
	if err != nil {
		return 0, err
	}
	if fh.Type() != want {
		return 0, ErrInvalidPacketType
	}
	return off, nil
}
