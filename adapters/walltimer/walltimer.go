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

// Package walltimer implements mqtt.Timer over time.Time/time.Since, the same duration
// bookkeeping the reference client used to track its keep-alive interval as a plain
// time.Duration field before that responsibility moved behind an injectable interface.
package walltimer

import "time"

// Timer is an mqtt.Timer backed by the wall clock. The zero value starts already expired.
type Timer struct {
	expiresAt time.Time
}

// New returns a Timer that starts already expired, matching the client's expectation that
// both timers begin in that state until explicitly Set.
func New() *Timer {
	return &Timer{}
}

// Set implements mqtt.Timer.
func (t *Timer) Set(millis int64) {
	t.expiresAt = time.Now().Add(time.Duration(millis) * time.Millisecond)
}

// Get implements mqtt.Timer.
func (t *Timer) Get() int64 {
	remaining := time.Until(t.expiresAt)
	if remaining < 0 {
		return 0
	}
	return remaining.Milliseconds()
}
