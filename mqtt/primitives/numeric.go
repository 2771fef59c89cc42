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

package primitives

import "encoding/binary"

// PutUint16 writes v as a big-endian uint16 at buf[0:2].
func PutUint16(buf []byte, v uint16) (int, error) {
	if len(buf) < 2 {
		return 0, ErrBufferTooShort
	}
	binary.BigEndian.PutUint16(buf, v)
	return 2, nil
}

// Uint16 reads a big-endian uint16 from buf[0:2].
func Uint16(buf []byte) (uint16, int, error) {
	if len(buf) < 2 {
		return 0, 0, ErrBufferTooShort
	}
	return binary.BigEndian.Uint16(buf), 2, nil
}

// PutByte writes a single byte at buf[0].
func PutByte(buf []byte, v byte) (int, error) {
	if len(buf) < 1 {
		return 0, ErrBufferTooShort
	}
	buf[0] = v
	return 1, nil
}

// Byte reads a single byte from buf[0].
func Byte(buf []byte) (byte, int, error) {
	if len(buf) < 1 {
		return 0, 0, ErrBufferTooShort
	}
	return buf[0], 1, nil
}
