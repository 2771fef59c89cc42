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

// Package mqtt implements the client side of MQTT 3.1.1: a blocking, single-threaded,
// allocation-free protocol engine on top of the packets codec. The engine owns no thread,
// no socket, and no clock of its own; all three are injected by the caller (Transport,
// Timer) so the same engine runs unmodified over a real TCP connection or a test double.
package mqtt

import (
	"errors"

	"github.com/nadongjun/lwmqtt-go/mqtt/packets"
	"github.com/nadongjun/lwmqtt-go/mqtt/primitives"
)

// State is the client's session-level state machine: INIT -> CONNECTING -> CONNECTED ->
// DISCONNECTED. Only Connect transitions into CONNECTED. A failed Connect and any Disconnect
// leave the client in DISCONNECTED; a failure of any other command does not change the state.
type State int

const (
	StateInit State = iota
	StateConnecting
	StateConnected
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Callback receives a decoded inbound PUBLISH. topic and payload are borrowed views into the
// client's read buffer: they are only valid for the duration of the call. A callback must
// not invoke any command on the same Client; doing so would corrupt the in-flight cycle that
// is calling it.
type Callback func(topic string, payload []byte, qos packets.QoS, retain bool)

// wireEncoder is satisfied by every outbound packet type in the packets package.
type wireEncoder interface {
	EncodedLen() int
	Encode(buf []byte) (int, error)
}

// Client is the MQTT 3.1.1 protocol engine. It borrows writeBuf and readBuf for its entire
// lifetime: it never grows, reallocates, or retains them beyond what the caller supplies.
// Exactly one command may be in flight at a time; concurrent use of one Client from multiple
// goroutines is undefined, matching the single-threaded, cooperative scheduling model this
// engine was built for.
type Client struct {
	writeBuf []byte
	readBuf  []byte

	transport      Transport
	keepAliveTimer Timer
	commandTimer   Timer

	nextPacketID      uint16
	keepAliveInterval uint16
	pingOutstanding   bool
	busy              bool
	state             State

	callback Callback
}

// New creates a Client borrowing writeBuf and readBuf for the full lifetime of the
// connection. Both must be large enough to hold the largest packet the caller intends to
// send or receive; encode and read calls fail cleanly rather than grow them.
func New(writeBuf, readBuf []byte) *Client {
	return &Client{
		writeBuf:     writeBuf,
		readBuf:      readBuf,
		nextPacketID: 1,
		state:        StateInit,
	}
}

// SetTransport installs the byte stream the client reads and writes control packets over.
func (c *Client) SetTransport(t Transport) {
	c.transport = t
}

// SetTimers installs the two timers the engine drives: keepAlive tracks the next PINGREQ due
// moment, command tracks the currently executing command's deadline. Both start expired.
func (c *Client) SetTimers(keepAlive, command Timer) {
	c.keepAliveTimer = keepAlive
	c.commandTimer = command
	c.keepAliveTimer.Set(0)
	c.commandTimer.Set(0)
}

// SetCallback installs the function invoked synchronously whenever an inbound PUBLISH is
// decoded, whether observed during Yield or while another command is awaiting its own ack.
func (c *Client) SetCallback(fn Callback) {
	c.callback = fn
}

// State reports the current session-level state.
func (c *Client) State() State {
	return c.state
}

// nextID allocates the next packet identifier: monotonic, wraps 65535 -> 1, never 0.
func (c *Client) nextID() uint16 {
	id := c.nextPacketID
	if c.nextPacketID == 65535 {
		c.nextPacketID = 1
	} else {
		c.nextPacketID++
	}
	return id
}

// sendPacket encodes p into the write buffer and writes it out in full, honoring the
// command timer's deadline. On success it resets the keep-alive timer, since any outbound
// packet counts as client-to-broker traffic per [MQTT-3.1.2-20].
func (c *Client) sendPacket(p wireEncoder) error {
	n, err := p.Encode(c.writeBuf)
	if err != nil {
		return err
	}

	written := 0
	for written < n {
		m, err := c.transport.Write(c.writeBuf[written:n], c.commandTimer.Get())
		if err != nil {
			return err
		}
		if m == 0 {
			return ErrNotEnoughData
		}
		written += m
	}

	if c.keepAliveInterval > 0 {
		c.keepAliveTimer.Set(int64(c.keepAliveInterval) * 1000)
	}

	return nil
}

// readPacket reads one complete control packet into the read buffer and returns its type and
// the full encoded slice (fixed header included), ready for a packets.* Decode call.
func (c *Client) readPacket() (packets.PacketType, []byte, error) {
	if peeker, ok := c.transport.(Peeker); ok {
		available, err := peeker.Peek()
		if err != nil {
			return 0, nil, err
		}
		if available == 0 {
			return 0, nil, ErrNoPacket
		}
	}

	n, err := c.transport.Read(c.readBuf[:1], c.commandTimer.Get())
	if err != nil {
		return 0, nil, err
	}
	if n == 0 {
		return 0, nil, ErrNoPacket
	}

	if _, err := packets.DetectPacketType(c.readBuf[0]); err != nil {
		return 0, nil, err
	}

	off := 1
	var remaining primitives.VarInt
	for {
		if off >= len(c.readBuf) {
			return 0, nil, ErrNotEnoughData
		}
		n, err := c.transport.Read(c.readBuf[off:off+1], c.commandTimer.Get())
		if err != nil {
			return 0, nil, err
		}
		if n == 0 {
			return 0, nil, ErrNotEnoughData
		}
		off++

		_, verr := remaining.Decode(c.readBuf[1:off])
		if verr == nil {
			break
		}
		if !errors.Is(verr, primitives.ErrBufferTooShort) {
			return 0, nil, verr
		}
	}

	body := int(remaining)
	total := off + body
	if total > len(c.readBuf) {
		return 0, nil, ErrNotEnoughData
	}

	read := 0
	for read < body {
		n, err := c.transport.Read(c.readBuf[off+read:total], c.commandTimer.Get())
		if err != nil {
			return 0, nil, err
		}
		if n == 0 {
			return 0, nil, ErrNotEnoughData
		}
		read += n
	}

	t, _ := packets.DetectPacketType(c.readBuf[0])
	return t, c.readBuf[:total], nil
}

// cycle reads and dispatches exactly one inbound packet. PUBLISH, PUBREC, PUBREL and
// PINGRESP are fully handled here (callback dispatch, ack handshakes, clearing
// pingOutstanding); every other type passes through for the caller's cycleUntil to match
// against.
func (c *Client) cycle() (packets.PacketType, []byte, error) {
	t, buf, err := c.readPacket()
	if err != nil {
		return 0, nil, err
	}

	switch t {
	case packets.PUBLISH:
		var p packets.Publish
		if _, err := p.Decode(buf); err != nil {
			return 0, nil, err
		}
		if c.callback != nil {
			c.callback(p.Topic, p.Payload, p.QoS, p.Retain)
		}
		switch p.QoS {
		case packets.QoS1:
			ack := packets.Puback{PacketIdentifier: p.PacketIdentifier}
			if err := c.sendPacket(&ack); err != nil {
				return 0, nil, err
			}
		case packets.QoS2:
			ack := packets.Pubrec{PacketIdentifier: p.PacketIdentifier}
			if err := c.sendPacket(&ack); err != nil {
				return 0, nil, err
			}
		}
	case packets.PUBREC:
		var p packets.Pubrec
		if _, err := p.Decode(buf); err != nil {
			return 0, nil, err
		}
		rel := packets.Pubrel{PacketIdentifier: p.PacketIdentifier}
		if err := c.sendPacket(&rel); err != nil {
			return 0, nil, err
		}
	case packets.PUBREL:
		var p packets.Pubrel
		if _, err := p.Decode(buf); err != nil {
			return 0, nil, err
		}
		comp := packets.Pubcomp{PacketIdentifier: p.PacketIdentifier}
		if err := c.sendPacket(&comp); err != nil {
			return 0, nil, err
		}
	case packets.PINGRESP:
		c.pingOutstanding = false
	}

	return t, buf, nil
}

// cycleUntil repeats cycle() until it observes target, or the command timer runs out. A
// target of 0 (no packet type is ever 0) instead means "drain until nothing is left": used by
// Yield, it returns (nil, nil) as soon as a cycle observes no inbound packet.
func (c *Client) cycleUntil(target packets.PacketType) ([]byte, error) {
	for {
		t, buf, err := c.cycle()
		if err != nil {
			if errors.Is(err, ErrNoPacket) {
				if target == 0 {
					return nil, nil
				}
				if c.commandTimer.Get() <= 0 {
					return nil, ErrFailure
				}
				continue
			}
			return nil, err
		}

		if target != 0 && t == target {
			return buf, nil
		}

		if c.commandTimer.Get() <= 0 {
			if target == 0 {
				return nil, nil
			}
			return nil, ErrFailure
		}
	}
}

// Connect sends a CONNECT packet and awaits CONNACK, reporting whether the broker reports a
// pre-existing session. A CONNACK return code other than Accepted is returned verbatim as the
// error (ConnectReturnCode implements error), and the client is left DISCONNECTED.
func (c *Client) Connect(opts packets.Connect, timeoutMs int64) (sessionPresent bool, err error) {
	if c.busy {
		return false, ErrCommandInProgress
	}
	c.busy = true
	defer func() { c.busy = false }()

	c.commandTimer.Set(timeoutMs)
	c.state = StateConnecting

	if err := c.sendPacket(&opts); err != nil {
		c.state = StateDisconnected
		return false, err
	}

	buf, err := c.cycleUntil(packets.CONNACK)
	if err != nil {
		c.state = StateDisconnected
		return false, err
	}

	var ack packets.Connack
	if _, err := ack.Decode(buf); err != nil {
		c.state = StateDisconnected
		return false, err
	}

	// [MQTT-3.2.2-7]: a non-zero return code means the server already closed the connection.
	if ack.ReturnCode != packets.Accepted {
		c.state = StateDisconnected
		return false, ack.ReturnCode
	}

	c.keepAliveInterval = opts.KeepAlive
	if c.keepAliveInterval > 0 {
		c.keepAliveTimer.Set(int64(c.keepAliveInterval) * 1000)
	}
	c.pingOutstanding = false
	c.state = StateConnected

	return ack.SessionPresent, nil
}

// Subscribe sends a single-filter SUBSCRIBE and awaits SUBACK, returning the granted QoS (or
// QoSFailure if the broker rejected the filter). The caller must check the returned QoS: the
// command returning without error only means a SUBACK arrived, not that the filter was
// granted.
func (c *Client) Subscribe(filter string, qos packets.QoS, timeoutMs int64) (packets.QoS, error) {
	if c.state != StateConnected {
		return 0, ErrClientNotConnected
	}
	if c.busy {
		return 0, ErrCommandInProgress
	}
	c.busy = true
	defer func() { c.busy = false }()

	c.commandTimer.Set(timeoutMs)
	id := c.nextID()

	sub := packets.Subscribe{
		PacketIdentifier: id,
		Topics:           []packets.SubscribeTopic{{Filter: filter, QoS: qos}},
	}
	if err := c.sendPacket(&sub); err != nil {
		return 0, err
	}

	buf, err := c.cycleUntil(packets.SUBACK)
	if err != nil {
		return 0, err
	}

	var ack packets.Suback
	if _, err := ack.Decode(buf); err != nil {
		return 0, err
	}
	if ack.PacketIdentifier != id || len(ack.ReturnCodes) == 0 {
		return 0, ErrFailure
	}

	return packets.QoS(ack.ReturnCodes[0]), nil
}

// Unsubscribe sends a single-filter UNSUBSCRIBE and awaits UNSUBACK.
func (c *Client) Unsubscribe(filter string, timeoutMs int64) error {
	if c.state != StateConnected {
		return ErrClientNotConnected
	}
	if c.busy {
		return ErrCommandInProgress
	}
	c.busy = true
	defer func() { c.busy = false }()

	c.commandTimer.Set(timeoutMs)
	id := c.nextID()

	unsub := packets.Unsubscribe{PacketIdentifier: id, Topics: []string{filter}}
	if err := c.sendPacket(&unsub); err != nil {
		return err
	}

	buf, err := c.cycleUntil(packets.UNSUBACK)
	if err != nil {
		return err
	}

	var ack packets.Unsuback
	if _, err := ack.Decode(buf); err != nil {
		return err
	}
	if ack.PacketIdentifier != id {
		return ErrFailure
	}

	return nil
}

// Publish sends a PUBLISH and, for QoS 1 and 2, drives the corresponding ack handshake to
// completion. QoS 0 returns as soon as the packet is written.
func (c *Client) Publish(topic string, payload []byte, qos packets.QoS, retain bool, timeoutMs int64) error {
	if c.state != StateConnected {
		return ErrClientNotConnected
	}
	if c.busy {
		return ErrCommandInProgress
	}
	c.busy = true
	defer func() { c.busy = false }()

	c.commandTimer.Set(timeoutMs)

	pub := packets.Publish{Topic: topic, Payload: payload, QoS: qos, Retain: retain}
	if qos != packets.QoS0 {
		pub.PacketIdentifier = c.nextID()
	}

	if err := c.sendPacket(&pub); err != nil {
		return err
	}

	switch qos {
	case packets.QoS1:
		_, err := c.cycleUntil(packets.PUBACK)
		return err
	case packets.QoS2:
		_, err := c.cycleUntil(packets.PUBCOMP)
		return err
	default:
		return nil
	}
}

// Disconnect sends a DISCONNECT packet and transitions the client to DISCONNECTED. It does
// not wait for any reply: MQTT 3.1.1 defines none.
func (c *Client) Disconnect(timeoutMs int64) error {
	if c.busy {
		return ErrCommandInProgress
	}
	c.busy = true
	defer func() { c.busy = false }()

	c.commandTimer.Set(timeoutMs)
	err := c.sendPacket(&packets.Disconnect{})
	c.state = StateDisconnected
	return err
}

// Yield drains and processes inbound traffic (invoking the callback for any PUBLISH it
// observes) until nothing more is queued and the timeout has elapsed. It never fails merely
// because no packet arrived.
func (c *Client) Yield(timeoutMs int64) error {
	if c.busy {
		return ErrCommandInProgress
	}
	c.busy = true
	defer func() { c.busy = false }()

	c.commandTimer.Set(timeoutMs)
	for {
		if _, err := c.cycleUntil(0); err != nil {
			return err
		}
		if c.commandTimer.Get() <= 0 {
			return nil
		}
	}
}

// KeepAlive sends a PINGREQ if the keep-alive timer has expired and no PINGREQ is already
// outstanding. It is a no-op if keep-alive is disabled or not yet due. If the timer is due
// and a prior PINGREQ is still unanswered, the broker has missed its PONG window per
// [MQTT-3.1.2-22] and ErrFailure is returned.
func (c *Client) KeepAlive(timeoutMs int64) error {
	if c.keepAliveInterval == 0 {
		return nil
	}
	if c.keepAliveTimer.Get() > 0 {
		return nil
	}
	if c.pingOutstanding {
		return ErrFailure
	}
	if c.busy {
		return ErrCommandInProgress
	}
	c.busy = true
	defer func() { c.busy = false }()

	c.commandTimer.Set(timeoutMs)
	if err := c.sendPacket(&packets.Pingreq{}); err != nil {
		return err
	}
	c.pingOutstanding = true
	return nil
}
