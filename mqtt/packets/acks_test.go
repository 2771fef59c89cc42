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

import (
	"bytes"
	"errors"
	"testing"
)

func TestIDOnlyPackets_RoundTrip(t *testing.T) {
	if got := (&Puback{PacketIdentifier: 1}); true {
		buf := make([]byte, got.EncodedLen())
		if _, err := got.Encode(buf); err != nil {
			t.Fatalf("Puback.Encode() error = %v", err)
		}
		if !bytes.Equal(buf, []byte{0x40, 0x02, 0x00, 0x01}) {
			t.Fatalf("Puback.Encode() = % x, want 40 02 00 01", buf)
		}
		var back Puback
		if _, err := back.Decode(buf); err != nil || back.PacketIdentifier != 1 {
			t.Fatalf("Puback.Decode() = (%+v, %v)", back, err)
		}
	}

	pubrel := Pubrel{PacketIdentifier: 9}
	buf := make([]byte, pubrel.EncodedLen())
	if _, err := pubrel.Encode(buf); err != nil {
		t.Fatalf("Pubrel.Encode() error = %v", err)
	}
	if !bytes.Equal(buf, []byte{0x62, 0x02, 0x00, 0x09}) {
		t.Fatalf("Pubrel.Encode() = % x, want 62 02 00 09 (reserved flags 0010)", buf)
	}

	unsuback := Unsuback{PacketIdentifier: 5}
	buf2 := make([]byte, unsuback.EncodedLen())
	if _, err := unsuback.Encode(buf2); err != nil {
		t.Fatalf("Unsuback.Encode() error = %v", err)
	}
	var back Unsuback
	if _, err := back.Decode(buf2); err != nil || back.PacketIdentifier != 5 {
		t.Fatalf("Unsuback.Decode() = (%+v, %v)", back, err)
	}
}

func TestDecodeIDOnly_WrongType(t *testing.T) {
	buf := []byte{0x40, 0x02, 0x00, 0x01} // PUBACK
	var back Pubrec
	if _, err := back.Decode(buf); !errors.Is(err, ErrInvalidPacketType) {
		t.Fatalf("Pubrec.Decode(PUBACK bytes) error = %v, want ErrInvalidPacketType", err)
	}
}

func TestDecodeIDOnly_RejectsCorruptReservedBits(t *testing.T) {
	// PUBREL requires reserved flags 0010 [MQTT-3.6.1-1]; 0x60 carries 0000 instead.
	var pubrel Pubrel
	if _, err := pubrel.Decode([]byte{0x60, 0x02, 0x00, 0x09}); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Pubrel.Decode(corrupt flags) error = %v, want ErrMalformed", err)
	}

	// PUBACK/PUBREC/PUBCOMP/UNSUBACK require reserved flags 0000; 0x41 carries a stray bit.
	var puback Puback
	if _, err := puback.Decode([]byte{0x41, 0x02, 0x00, 0x01}); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Puback.Decode(corrupt flags) error = %v, want ErrMalformed", err)
	}
	var pubrec Pubrec
	if _, err := pubrec.Decode([]byte{0x51, 0x02, 0x00, 0x01}); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Pubrec.Decode(corrupt flags) error = %v, want ErrMalformed", err)
	}
	var pubcomp Pubcomp
	if _, err := pubcomp.Decode([]byte{0x71, 0x02, 0x00, 0x01}); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Pubcomp.Decode(corrupt flags) error = %v, want ErrMalformed", err)
	}
	var unsuback Unsuback
	if _, err := unsuback.Decode([]byte{0xB1, 0x02, 0x00, 0x01}); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Unsuback.Decode(corrupt flags) error = %v, want ErrMalformed", err)
	}
}

func TestSuback_RoundTrip(t *testing.T) {
	s := Suback{PacketIdentifier: 7, ReturnCodes: []byte{0x01, 0x80, 0x02}}
	buf := make([]byte, s.EncodedLen())
	if _, err := s.Encode(buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var got Suback
	if _, err := got.Decode(buf); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.PacketIdentifier != 7 || !bytes.Equal(got.ReturnCodes, []byte{0x01, 0x80, 0x02}) {
		t.Fatalf("Decode() = %+v, want id 7, codes [01 80 02]", got)
	}
}

func TestSubscribe_RoundTrip(t *testing.T) {
	s := Subscribe{PacketIdentifier: 3, Topics: []SubscribeTopic{{Filter: "a/#", QoS: QoS1}, {Filter: "b", QoS: QoS2}}}
	buf := make([]byte, s.EncodedLen())
	if _, err := s.Encode(buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if buf[0]&0x0F != 0x02 {
		t.Fatalf("reserved flag bits = %04b, want 0010", buf[0]&0x0F)
	}

	var got Subscribe
	if _, err := got.Decode(buf); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got.Topics) != 2 || got.Topics[0].Filter != "a/#" || got.Topics[1].QoS != QoS2 {
		t.Fatalf("Decode() = %+v", got)
	}
}

func TestSubscribe_EncodeEmptyFails(t *testing.T) {
	var s Subscribe
	buf := make([]byte, 16)
	if _, err := s.Encode(buf); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Encode() error = %v, want ErrMalformed", err)
	}
}

func TestSubscribe_DecodeRejectsCorruptReservedBits(t *testing.T) {
	s := Subscribe{PacketIdentifier: 1, Topics: []SubscribeTopic{{Filter: "a", QoS: QoS0}}}
	buf := make([]byte, s.EncodedLen())
	if _, err := s.Encode(buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	buf[0] &^= 0x0F // clear reserved bits, leaving 0000 instead of the required 0010

	var got Subscribe
	if _, err := got.Decode(buf); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Decode(corrupt flags) error = %v, want ErrMalformed", err)
	}
}

func TestUnsubscribe_RoundTrip(t *testing.T) {
	u := Unsubscribe{PacketIdentifier: 11, Topics: []string{"x", "y/z"}}
	buf := make([]byte, u.EncodedLen())
	if _, err := u.Encode(buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var got Unsubscribe
	if _, err := got.Decode(buf); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got.Topics) != 2 || got.Topics[0] != "x" || got.Topics[1] != "y/z" {
		t.Fatalf("Decode() = %+v", got)
	}
}

func TestUnsubscribe_DecodeRejectsCorruptReservedBits(t *testing.T) {
	u := Unsubscribe{PacketIdentifier: 1, Topics: []string{"x"}}
	buf := make([]byte, u.EncodedLen())
	if _, err := u.Encode(buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	buf[0] &^= 0x0F // clear reserved bits, leaving 0000 instead of the required 0010

	var got Unsubscribe
	if _, err := got.Decode(buf); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Decode(corrupt flags) error = %v, want ErrMalformed", err)
	}
}

func TestPingPackets_RoundTrip(t *testing.T) {
	req := Pingreq{}
	buf := make([]byte, req.EncodedLen())
	if _, err := req.Encode(buf); err != nil {
		t.Fatalf("Pingreq.Encode() error = %v", err)
	}
	if !bytes.Equal(buf, []byte{0xC0, 0x00}) {
		t.Fatalf("Pingreq.Encode() = % x, want C0 00", buf)
	}

	resp := Pingresp{}
	buf2 := make([]byte, resp.EncodedLen())
	if _, err := resp.Encode(buf2); err != nil {
		t.Fatalf("Pingresp.Encode() error = %v", err)
	}
	if !bytes.Equal(buf2, []byte{0xD0, 0x00}) {
		t.Fatalf("Pingresp.Encode() = % x, want D0 00", buf2)
	}

	var back Pingresp
	if _, err := back.Decode(buf2); err != nil {
		t.Fatalf("Pingresp.Decode() error = %v", err)
	}
	var wrong Pingreq
	if _, err := wrong.Decode(buf2); !errors.Is(err, ErrInvalidPacketType) {
		t.Fatalf("Pingreq.Decode(PINGRESP bytes) error = %v, want ErrInvalidPacketType", err)
	}
}

func TestDisconnect_RoundTrip(t *testing.T) {
	d := Disconnect{}
	buf := make([]byte, d.EncodedLen())
	if _, err := d.Encode(buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.Equal(buf, []byte{0xE0, 0x00}) {
		t.Fatalf("Encode() = % x, want E0 00", buf)
	}
	var got Disconnect
	if _, err := got.Decode(buf); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
}
