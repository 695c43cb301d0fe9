/*
 * Cherry - An OpenFlow Controller
 *
 * Copyright (C) 2015 Samjung Data Service, Inc. All rights reserved.
 * Kitae Kim <superkkt@sds.co.kr>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

package transceiver

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/superkkt/ofcore/openflow"
)

func message(t *testing.T, xid uint32, payload []byte) []byte {
	t.Helper()

	msg := openflow.NewMessage(openflow.OF13_VERSION, 19, xid)
	msg.SetPayload(payload)
	data, err := msg.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return data
}

func TestReadMessage(t *testing.T) {
	first := message(t, 1, []byte{1, 2, 3})
	second := message(t, 2, make([]byte, 1000))
	stream := NewStream(bytes.NewReader(append(append([]byte(nil), first...), second...)), nil, 16)

	for _, expected := range [][]byte{first, second} {
		v, err := stream.ReadMessage()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(expected, v); diff != "" {
			t.Fatalf("unexpected message (-expected +actual):\n%v", diff)
		}
	}
	if _, err := stream.ReadMessage(); err != io.EOF {
		t.Fatalf("unexpected error: expected=%v, actual=%v", io.EOF, err)
	}
}

func TestReadTruncatedMessage(t *testing.T) {
	data := message(t, 1, []byte{1, 2, 3, 4})
	samples := [][]byte{
		data[:5],
		data[:10],
		// Length shorter than the header.
		{0x04, 0x13, 0x00, 0x04, 0x00, 0x00, 0x00, 0x01},
	}

	for _, v := range samples {
		if _, err := NewStream(bytes.NewReader(v), nil, 0).ReadMessage(); !errors.Is(err, openflow.ErrInvalidPacketLength) {
			t.Fatalf("unexpected error: input=%x, expected=%v, actual=%v", v, openflow.ErrInvalidPacketLength, err)
		}
	}
}

func TestWrite(t *testing.T) {
	out := new(bytes.Buffer)
	msg := openflow.NewMessage(openflow.OF10_VERSION, 2, 7)
	if err := NewStream(nil, out, 0).Write(&msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]byte{0x01, 0x02, 0x00, 0x08, 0x00, 0x00, 0x00, 0x07}, out.Bytes()); diff != "" {
		t.Fatalf("unexpected output (-expected +actual):\n%v", diff)
	}
}
