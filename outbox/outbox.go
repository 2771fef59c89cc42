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

// Package outbox is a small, optional, non-persistent table of in-flight QoS 1/2 publishes
// keyed by packet id. It exists for callers that want to track multiple concurrently
// outstanding publishes themselves; the core client engine holds no such table (it serializes
// one command at a time) and never imports this package.
//
// Nothing here survives a process restart: like the reference client's own in-memory packet
// store, it is a plain map guarded by a mutex, not a database.
package outbox

import (
	"errors"
	"sync"

	"github.com/nadongjun/lwmqtt-go/mqtt/packets"
)

var (
	// ErrDuplicateEntry is returned by Store when the packet id is already tracked.
	ErrDuplicateEntry = errors.New("outbox: duplicate packet id")

	// ErrNoEntry is returned by Get and Drop when the packet id is not tracked.
	ErrNoEntry = errors.New("outbox: no entry for packet id")
)

// Entry is one tracked in-flight publish.
type Entry struct {
	Publish packets.Publish
}

// Outbox holds in-flight publishes by packet id. The zero value is ready to use.
type Outbox struct {
	mutex sync.Mutex
	store map[uint16]Entry
}

// Store records pub under its PacketIdentifier. It fails if that id is already tracked,
// which would indicate a reused identifier before its prior exchange completed.
func (o *Outbox) Store(pub packets.Publish) error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.store == nil {
		o.store = make(map[uint16]Entry)
	}
	if _, exists := o.store[pub.PacketIdentifier]; exists {
		return ErrDuplicateEntry
	}
	o.store[pub.PacketIdentifier] = Entry{Publish: pub}
	return nil
}

// Get returns the tracked publish for id.
func (o *Outbox) Get(id uint16) (Entry, error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	e, ok := o.store[id]
	if !ok {
		return Entry{}, ErrNoEntry
	}
	return e, nil
}

// Drop removes the tracked publish for id, as called once its ack handshake completes.
func (o *Outbox) Drop(id uint16) error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if _, ok := o.store[id]; !ok {
		return ErrNoEntry
	}
	delete(o.store, id)
	return nil
}

// Len reports how many publishes are currently tracked.
func (o *Outbox) Len() int {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return len(o.store)
}
