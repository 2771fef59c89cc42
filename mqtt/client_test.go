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

package mqtt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/nadongjun/lwmqtt-go/mqtt/packets"
)

// loopbackTransport is a Transport test double backed by two plain byte buffers: toClient
// holds bytes queued for the client to read (as if sent by a broker), toBroker records
// everything the client writes. It never blocks and ignores the deadline argument, which is
// enough to drive every command to completion in-process.
type loopbackTransport struct {
	toClient *bytes.Buffer
	toBroker *bytes.Buffer
}

func newLoopbackTransport() *loopbackTransport {
	return &loopbackTransport{toClient: &bytes.Buffer{}, toBroker: &bytes.Buffer{}}
}

func (l *loopbackTransport) Read(buf []byte, _ int64) (int, error) {
	return l.toClient.Read(buf)
}

func (l *loopbackTransport) Write(buf []byte, _ int64) (int, error) {
	return l.toBroker.Write(buf)
}

func (l *loopbackTransport) Peek() (int, error) {
	return l.toClient.Len(), nil
}

func (l *loopbackTransport) queue(b []byte) {
	l.toClient.Write(b)
}

// fakeTimer is a Timer test double that never actually expires mid-test: Get reports
// whatever was last Set and never counts down on its own; tests expire it by calling Set(0).
type fakeTimer struct {
	remaining int64
}

func (f *fakeTimer) Set(millis int64) { f.remaining = millis }
func (f *fakeTimer) Get() int64       { return f.remaining }

func newTestClient(t *testing.T) (*Client, *loopbackTransport) {
	t.Helper()
	c := New(make([]byte, 512), make([]byte, 512))
	transport := newLoopbackTransport()
	c.SetTransport(transport)
	c.SetTimers(&fakeTimer{}, &fakeTimer{remaining: 1000})
	return c, transport
}

func connectClient(t *testing.T, c *Client, transport *loopbackTransport) {
	t.Helper()
	transport.queue([]byte{0x20, 0x02, 0x00, 0x00})
	if _, err := c.Connect(packets.Connect{ClientID: "c", CleanSession: true, KeepAlive: 60}, 1000); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
}

func TestClient_ConnectHappyPath(t *testing.T) {
	c, transport := newTestClient(t)
	transport.queue([]byte{0x20, 0x02, 0x00, 0x00})

	sessionPresent, err := c.Connect(packets.Connect{ClientID: "c", CleanSession: true, KeepAlive: 60}, 1000)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if sessionPresent {
		t.Errorf("sessionPresent = true, want false")
	}
	if c.State() != StateConnected {
		t.Errorf("State() = %v, want %v", c.State(), StateConnected)
	}
}

func TestClient_ConnectRefused(t *testing.T) {
	c, transport := newTestClient(t)
	transport.queue([]byte{0x20, 0x02, 0x00, 0x05})

	_, err := c.Connect(packets.Connect{ClientID: "c"}, 1000)
	if !errors.Is(err, packets.RefusedNotAuthorized) {
		t.Fatalf("Connect() error = %v, want %v", err, packets.RefusedNotAuthorized)
	}
	if c.State() != StateDisconnected {
		t.Errorf("State() = %v, want %v", c.State(), StateDisconnected)
	}
}

func TestClient_PublishQoS0(t *testing.T) {
	c, transport := newTestClient(t)
	connectClient(t, c, transport)
	transport.toBroker.Reset()

	if err := c.Publish("t", []byte("hi"), packets.QoS0, false, 1000); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	want := []byte{0x30, 0x05, 0x00, 0x01, 't', 'h', 'i'}
	if got := transport.toBroker.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("wrote %x, want %x", got, want)
	}
}

func TestClient_PublishQoS1Ack(t *testing.T) {
	c, transport := newTestClient(t)
	connectClient(t, c, transport)

	transport.queue([]byte{0x40, 0x02, 0x00, 0x01})
	if err := c.Publish("a", []byte("x"), packets.QoS1, false, 1000); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
}

func TestClient_Subscribe(t *testing.T) {
	c, transport := newTestClient(t)
	connectClient(t, c, transport)
	transport.toBroker.Reset()

	transport.queue([]byte{0x90, 0x03, 0x00, 0x01, 0x01})
	qos, err := c.Subscribe("sensors/#", packets.QoS1, 1000)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if qos != packets.QoS1 {
		t.Errorf("granted QoS = %v, want %v", qos, packets.QoS1)
	}

	wantTail := []byte{0x00, 0x09, 's', 'e', 'n', 's', 'o', 'r', 's', '/', '#', 0x01}
	got := transport.toBroker.Bytes()
	if !bytes.HasSuffix(got, wantTail) {
		t.Errorf("wrote %x, want suffix %x", got, wantTail)
	}
}

func TestClient_SubscribeRefused(t *testing.T) {
	c, transport := newTestClient(t)
	connectClient(t, c, transport)

	transport.queue([]byte{0x90, 0x03, 0x00, 0x01, 0x80})
	qos, err := c.Subscribe("restricted", packets.QoS0, 1000)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if qos != packets.QoSFailure {
		t.Errorf("granted QoS = %v, want QoSFailure", qos)
	}
}

func TestClient_UnexpectedPublishDuringSubscribe(t *testing.T) {
	c, transport := newTestClient(t)
	connectClient(t, c, transport)

	var received string
	c.SetCallback(func(topic string, payload []byte, qos packets.QoS, retain bool) {
		// topic aliases the read buffer, which the SUBACK read reuses; keep a copy.
		received = strings.Clone(topic)
	})

	// Broker delivers an unsolicited PUBLISH before the SUBACK the Subscribe call awaits.
	transport.queue([]byte{0x30, 0x04, 0x00, 0x01, 't', 'p'})
	transport.queue([]byte{0x90, 0x03, 0x00, 0x01, 0x00})

	qos, err := c.Subscribe("t", packets.QoS0, 1000)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if qos != packets.QoS0 {
		t.Errorf("granted QoS = %v, want %v", qos, packets.QoS0)
	}
	if received != "t" {
		t.Errorf("callback topic = %q, want %q", received, "t")
	}
}

// TestClient_InboundQoS1AckType exercises the resolved PUBLISH-ack-type decision: the engine
// must answer a QoS 1 inbound PUBLISH with PUBACK, never PUBREC.
func TestClient_InboundQoS1AckType(t *testing.T) {
	c, transport := newTestClient(t)
	connectClient(t, c, transport)
	transport.toBroker.Reset()
	c.SetCallback(func(string, []byte, packets.QoS, bool) {})

	transport.queue([]byte{0x32, 0x05, 0x00, 0x01, 'a', 0x00, 0x07})
	if _, _, err := c.cycle(); err != nil {
		t.Fatalf("cycle() error = %v", err)
	}

	want := []byte{0x40, 0x02, 0x00, 0x07}
	if got := transport.toBroker.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("wrote %x, want %x (PUBACK)", got, want)
	}
}

// TestClient_InboundQoS2AckType exercises the same decision for QoS 2: PUBREC, then PUBCOMP
// once the broker's PUBREL arrives.
func TestClient_InboundQoS2AckType(t *testing.T) {
	c, transport := newTestClient(t)
	connectClient(t, c, transport)
	transport.toBroker.Reset()
	c.SetCallback(func(string, []byte, packets.QoS, bool) {})

	transport.queue([]byte{0x34, 0x05, 0x00, 0x01, 'a', 0x00, 0x09})
	if _, _, err := c.cycle(); err != nil {
		t.Fatalf("cycle() error = %v", err)
	}
	wantPubrec := []byte{0x50, 0x02, 0x00, 0x09}
	if got := transport.toBroker.Bytes(); !bytes.Equal(got, wantPubrec) {
		t.Errorf("wrote %x, want %x (PUBREC)", got, wantPubrec)
	}

	transport.toBroker.Reset()
	transport.queue([]byte{0x62, 0x02, 0x00, 0x09})
	if _, _, err := c.cycle(); err != nil {
		t.Fatalf("cycle() error = %v", err)
	}
	wantPubcomp := []byte{0x70, 0x02, 0x00, 0x09}
	if got := transport.toBroker.Bytes(); !bytes.Equal(got, wantPubcomp) {
		t.Errorf("wrote %x, want %x (PUBCOMP)", got, wantPubcomp)
	}
}

func TestClient_PacketIDWrap(t *testing.T) {
	c := New(make([]byte, 64), make([]byte, 64))
	c.nextPacketID = 65535

	if got := c.nextID(); got != 65535 {
		t.Fatalf("nextID() = %d, want 65535", got)
	}
	if got := c.nextID(); got != 1 {
		t.Fatalf("nextID() after wrap = %d, want 1", got)
	}
	if got := c.nextID(); got != 2 {
		t.Fatalf("nextID() = %d, want 2", got)
	}
}

func TestClient_KeepAliveSendsPingAndDetectsMissedPong(t *testing.T) {
	c, transport := newTestClient(t)
	connectClient(t, c, transport)
	transport.toBroker.Reset()

	// Interval elapsed: keep-alive timer reads 0.
	c.keepAliveTimer.(*fakeTimer).Set(0)

	if err := c.KeepAlive(1000); err != nil {
		t.Fatalf("KeepAlive() error = %v", err)
	}
	if !c.pingOutstanding {
		t.Fatalf("pingOutstanding = false, want true")
	}
	want := []byte{0xC0, 0x00}
	if got := transport.toBroker.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("wrote %x, want %x (PINGREQ)", got, want)
	}

	// No PINGRESP arrived; the timer is due again, so a second call must fail.
	c.keepAliveTimer.(*fakeTimer).Set(0)
	if err := c.KeepAlive(1000); !errors.Is(err, ErrFailure) {
		t.Fatalf("second KeepAlive() error = %v, want ErrFailure", err)
	}
}

func TestClient_KeepAliveClearedByPingresp(t *testing.T) {
	c, transport := newTestClient(t)
	connectClient(t, c, transport)

	c.keepAliveTimer.(*fakeTimer).Set(0)
	if err := c.KeepAlive(1000); err != nil {
		t.Fatalf("KeepAlive() error = %v", err)
	}

	transport.queue([]byte{0xD0, 0x00})
	if _, _, err := c.cycle(); err != nil {
		t.Fatalf("cycle() error = %v", err)
	}
	if c.pingOutstanding {
		t.Errorf("pingOutstanding = true, want false after PINGRESP")
	}
}

// FuzzClient_ReadPacket feeds arbitrary byte slices straight into a fresh, unconnected
// client's read buffer via the loopback transport and drives cycle() over them, the same
// crash-only style used elsewhere in the retrieved corpus for its own packet reader fuzz
// test: the only assertion is that no malformed or truncated input ever panics the
// varint loop or the header/body bookkeeping in readPacket.
func FuzzClient_ReadPacket(f *testing.F) {
	seeds := [][]byte{
		{0x20, 0x02, 0x00, 0x00},                               // CONNACK
		{0x30, 0x05, 0x00, 0x01, 't', 'h', 'i'},                 // PUBLISH QoS0
		{0x35, 0x07, 0x00, 0x01, 'a', 0x00, 0x07, 'x', 'y'},      // PUBLISH QoS2
		{0x90, 0x03, 0x00, 0x01, 0x01},                          // SUBACK
		{0x62, 0x02, 0x00, 0x09},                                // PUBREL
		{0xD0, 0x00},                                            // PINGRESP
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF},                          // invalid type + overlong varint
		{0x30, 0x02},                                            // PUBLISH claiming 2 bytes, none present
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 4096 {
			return
		}
		c, transport := newTestClient(t)
		transport.queue(data)
		// Bounded: every call to cycle() consumes at least the bytes for one decode
		// attempt or returns an error, so this terminates well before the buffer limit.
		for i := 0; i < 16; i++ {
			if _, _, err := c.cycle(); err != nil {
				return
			}
		}
	})
}
