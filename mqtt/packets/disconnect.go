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

// Disconnect is the DISCONNECT control packet. In MQTT 3.1.1 it has no variable header and
// no payload: the fixed header alone carries the whole message.
type Disconnect struct{}

func (d *Disconnect) EncodedLen() int {
	return 2
}

func (d *Disconnect) Encode(buf []byte) (int, error) {
	if len(buf) < 2 {
		return 0, primitives.ErrBufferTooShort
	}
	fh := FixedHeader{Remaining: 0}
	fh.SetType(DISCONNECT)
	return fh.Encode(buf)
}

func (d *Disconnect) Decode(buf []byte) (int, error) {
	var fh FixedHeader
	off, err := fh.Decode(buf)
	if err != nil {
		return 0, err
	}
	if fh.Type() != DISCONNECT {
		return 0, ErrInvalidPacketType
	}
	return off, nil
}
