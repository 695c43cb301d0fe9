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

package openflow

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	OF10_VERSION = 0x01
	OF13_VERSION = 0x04
)

// HeaderLength is the size of ofp_header.
const HeaderLength = 8

var (
	ErrInvalidPacketLength  = errors.New("invalid packet length")
	ErrUnsupportedVersion   = errors.New("unsupported protocol version")
	ErrUnsupportedMessage   = errors.New("unsupported message type")
	ErrInvalidMACAddress    = errors.New("invalid MAC address")
	ErrInvalidIPAddress     = errors.New("invalid IP address")
	ErrUnsupportedMatchType = errors.New("unsupported flow match type")
)

// Header is ofp_header. Length covers the header itself.
type Header struct {
	Version uint8
	Type    uint8
	Length  uint16
	XID     uint32
}

// ParseHeader decodes the first HeaderLength bytes of data. It does not require
// data to hold the whole message.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderLength {
		return Header{}, ErrInvalidPacketLength
	}

	h := Header{
		Version: data[0],
		Type:    data[1],
		Length:  binary.BigEndian.Uint16(data[2:4]),
		XID:     binary.BigEndian.Uint32(data[4:8]),
	}
	if h.Length < HeaderLength {
		return Header{}, errors.Wrapf(ErrInvalidPacketLength, "header length %v", h.Length)
	}

	return h, nil
}

func (r Header) encode(b []byte) {
	b[0] = r.Version
	b[1] = r.Type
	binary.BigEndian.PutUint16(b[2:4], r.Length)
	binary.BigEndian.PutUint32(b[4:8], r.XID)
}

// Message is a header followed by an opaque body. Concrete messages embed it and
// encode their body into the payload.
type Message struct {
	header  Header
	payload []byte
}

func NewMessage(version uint8, msgType uint8, xid uint32) Message {
	return Message{
		header: Header{
			Version: version,
			Type:    msgType,
			Length:  HeaderLength,
			XID:     xid,
		},
	}
}

func (r *Message) Version() uint8 {
	return r.header.Version
}

func (r *Message) Type() uint8 {
	return r.header.Type
}

func (r *Message) TransactionID() uint32 {
	return r.header.XID
}

func (r *Message) SetPayload(payload []byte) {
	r.payload = payload
	r.header.Length = uint16(HeaderLength + len(payload))
}

// Payload returns a copy of the body, or nil if there is none.
func (r *Message) Payload() []byte {
	if r.payload == nil {
		return nil
	}

	return append([]byte(nil), r.payload...)
}

func (r *Message) MarshalBinary() ([]byte, error) {
	length := HeaderLength + len(r.payload)
	if length > 0xFFFF {
		return nil, errors.Wrapf(ErrInvalidPacketLength, "message of %v bytes", length)
	}

	v := make([]byte, length)
	h := r.header
	h.Length = uint16(length)
	h.encode(v)
	copy(v[HeaderLength:], r.payload)

	return v, nil
}

// UnmarshalBinary keeps a reference to data for the payload. Bytes past the
// header length are ignored.
func (r *Message) UnmarshalBinary(data []byte) error {
	h, err := ParseHeader(data)
	if err != nil {
		return err
	}
	if len(data) < int(h.Length) {
		return ErrInvalidPacketLength
	}

	r.header = h
	r.payload = data[HeaderLength:h.Length]

	return nil
}

// Pad returns the number of zero bytes needed to align length as a multiple of 8.
func Pad(length int) int {
	if rem := length % 8; rem > 0 {
		return 8 - rem
	}

	return 0
}
