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

import (
	"math"
	"unsafe"
)

// StringLen reports the encoded wire length of s: a 2-byte prefix plus its bytes.
func StringLen(s string) int {
	return 2 + len(s)
}

// PutString writes a length-prefixed UTF-8 string into buf.
func PutString(buf []byte, s string) (int, error) {
	if len(s) > math.MaxUint16 {
		return 0, ErrBufferTooShort
	}
	if len(buf) < StringLen(s) {
		return 0, ErrBufferTooShort
	}
	if _, err := PutUint16(buf, uint16(len(s))); err != nil {
		return 0, err
	}
	copy(buf[2:], s)
	return StringLen(s), nil
}

// String decodes a length-prefixed UTF-8 string from the front of buf without copying: the
// returned string aliases buf directly, matching the engine's borrowed-view contract. It is
// only valid for as long as the underlying buffer is not reused by the caller.
func String(buf []byte) (string, int, error) {
	if len(buf) < 2 {
		return "", 0, ErrBufferTooShort
	}
	length := int(buf[0])<<8 | int(buf[1])
	total := 2 + length
	if len(buf) < total {
		return "", 0, ErrBufferTooShort
	}
	return viewString(buf[2:total]), total, nil
}

// viewString converts b to a string without copying. Borrowed from the strings.Builder
// escape-analysis trick: the caller owns b's lifetime for as long as the returned string is
// used, which matches the read-buffer borrowing contract documented on Client.
func viewString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return *(*string)(unsafe.Pointer(&b))
}
