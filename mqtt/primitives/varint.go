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

import "errors"

var (
	// ErrBufferTooShort is returned by Encode/Decode when the caller-supplied slice does not
	// hold enough bytes for the value being encoded or the varint currently being decoded.
	ErrBufferTooShort = errors.New("primitives: buffer too short")

	// ErrMalformedVarInt is returned when a fifth continuation byte would be required to
	// decode a remaining-length varint. MQTT 3.1.1 caps the field at 4 bytes.
	ErrMalformedVarInt = errors.New("primitives: malformed variable byte integer")
)

const maxVarInt = 268_435_455

// VarInt is the MQTT "remaining length" variable byte integer: 1-4 bytes, 7 payload bits
// per byte, high bit marking continuation.
type VarInt uint32

// EncodedLen reports how many bytes Encode will consume for the current value.
func (v VarInt) EncodedLen() int {
	switch {
	case v < 128:
		return 1
	case v < 16_384:
		return 2
	case v < 2_097_152:
		return 3
	default:
		return 4
	}
}

// Encode writes v into buf starting at offset 0 and returns the number of bytes written.
func (v VarInt) Encode(buf []byte) (int, error) {
	if v > maxVarInt {
		return 0, ErrMalformedVarInt
	}
	n := v.EncodedLen()
	if len(buf) < n {
		return 0, ErrBufferTooShort
	}
	val := uint32(v)
	i := 0
	for {
		digit := byte(val % 128)
		val /= 128
		if val > 0 {
			digit |= 0x80
		}
		buf[i] = digit
		i++
		if val == 0 {
			break
		}
	}
	return i, nil
}

// Decode reads a variable byte integer from the front of buf, storing the result in v and
// returning the number of bytes consumed. It returns ErrBufferTooShort if buf ends before a
// terminating byte is seen, and ErrMalformedVarInt if a fifth continuation byte is required.
func (v *VarInt) Decode(buf []byte) (int, error) {
	var result uint32
	var multiplier uint32
	for i := 0; i < 4; i++ {
		if i >= len(buf) {
			return 0, ErrBufferTooShort
		}
		digit := buf[i]
		result |= uint32(digit&0x7F) << multiplier
		if digit&0x80 == 0 {
			*v = VarInt(result)
			return i + 1, nil
		}
		multiplier += 7
	}
	// A fifth byte would be required; the field is malformed regardless of what comes next.
	if len(buf) < 5 {
		return 0, ErrBufferTooShort
	}
	return 0, ErrMalformedVarInt
}
