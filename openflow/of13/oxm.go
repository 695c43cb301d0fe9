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

package of13

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/superkkt/ofcore/openflow"
)

// OXM is a single OpenFlow extensible match TLV.
type OXM struct {
	Class uint16
	Field uint8
	Value []byte
	// Mask is nil when the TLV does not carry the has-mask bit.
	Mask []byte
}

// NewOXM returns an exact-match OPENFLOW_BASIC entry.
func NewOXM(field uint8, value []byte) OXM {
	return OXM{
		Class: OFPXMC_OPENFLOW_BASIC,
		Field: field,
		Value: value,
	}
}

func NewMaskedOXM(field uint8, value, mask []byte) OXM {
	return OXM{
		Class: OFPXMC_OPENFLOW_BASIC,
		Field: field,
		Value: value,
		Mask:  mask,
	}
}

func Uint8OXM(field uint8, v uint8) OXM {
	return NewOXM(field, []byte{v})
}

func Uint16OXM(field uint8, v uint16) OXM {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return NewOXM(field, b)
}

func Uint32OXM(field uint8, v uint32) OXM {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return NewOXM(field, b)
}

func (r OXM) HasMask() bool {
	return r.Mask != nil
}

func (r OXM) IsBasic() bool {
	return r.Class == OFPXMC_OPENFLOW_BASIC
}

func (r OXM) Uint8() uint8 {
	if len(r.Value) < 1 {
		return 0
	}
	return r.Value[0]
}

func (r OXM) Uint16() uint16 {
	if len(r.Value) < 2 {
		return 0
	}
	return binary.BigEndian.Uint16(r.Value)
}

func (r OXM) Uint32() uint32 {
	if len(r.Value) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(r.Value)
}

// Len returns the encoded length of the TLV including its 4 bytes header.
func (r OXM) Len() int {
	return 4 + len(r.Value) + len(r.Mask)
}

func (r OXM) MarshalBinary() ([]byte, error) {
	if r.Mask != nil && len(r.Mask) != len(r.Value) {
		return nil, errors.New("OXM mask length differs from value length")
	}
	payload := len(r.Value) + len(r.Mask)
	if payload > 0xFF {
		return nil, errors.New("too long OXM payload")
	}

	var hasmask uint32
	if r.Mask != nil {
		hasmask = 1
	}
	data := make([]byte, 4, r.Len())
	header := uint32(r.Class)<<16 | uint32(r.Field&0x7F)<<9 | hasmask<<8 | uint32(payload)
	binary.BigEndian.PutUint32(data[0:4], header)
	data = append(data, r.Value...)
	data = append(data, r.Mask...)

	return data, nil
}

// unmarshalOXM decodes one TLV and returns the number of bytes it occupies.
func unmarshalOXM(data []byte) (OXM, int, error) {
	if len(data) < 4 {
		return OXM{}, 0, openflow.ErrInvalidPacketLength
	}

	header := binary.BigEndian.Uint32(data[0:4])
	length := int(header & 0xFF)
	if len(data) < 4+length {
		return OXM{}, 0, openflow.ErrInvalidPacketLength
	}

	v := OXM{
		Class: uint16(header >> 16),
		Field: uint8(header >> 9 & 0x7F),
	}
	body := data[4 : 4+length]
	if header>>8&0x1 == 1 {
		if length%2 != 0 {
			return OXM{}, 0, errors.Wrap(openflow.ErrInvalidPacketLength, "odd masked OXM length")
		}
		v.Value = append([]byte(nil), body[:length/2]...)
		v.Mask = append([]byte(nil), body[length/2:]...)
	} else {
		v.Value = append([]byte(nil), body...)
	}

	return v, 4 + length, nil
}

// Match is an ofp_match of type OFPMT_OXM. Fields are encoded in slice order.
type Match struct {
	Fields []OXM
}

func NewMatch() *Match {
	return &Match{
		Fields: make([]OXM, 0),
	}
}

func (r *Match) Add(v OXM) {
	r.Fields = append(r.Fields, v)
}

// Field returns the first OPENFLOW_BASIC entry of the given field type.
func (r *Match) Field(field uint8) (OXM, bool) {
	for _, v := range r.Fields {
		if v.IsBasic() && v.Field == field {
			return v, true
		}
	}

	return OXM{}, false
}

// MarshalBinary returns the match padded to a multiple of 8 bytes.
func (r *Match) MarshalBinary() ([]byte, error) {
	data := make([]byte, 4)
	binary.BigEndian.PutUint16(data[0:2], OFPMT_OXM)
	for _, v := range r.Fields {
		tlv, err := v.MarshalBinary()
		if err != nil {
			return nil, err
		}
		data = append(data, tlv...)
	}
	// ofp_match.length does not include padding
	binary.BigEndian.PutUint16(data[2:4], uint16(len(data)))
	data = append(data, make([]byte, openflow.Pad(len(data)))...)

	return data, nil
}

func (r *Match) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return openflow.ErrInvalidPacketLength
	}
	if binary.BigEndian.Uint16(data[0:2]) != OFPMT_OXM {
		return openflow.ErrUnsupportedMatchType
	}
	length := int(binary.BigEndian.Uint16(data[2:4]))
	if length < 4 || len(data) < length {
		return openflow.ErrInvalidPacketLength
	}

	r.Fields = make([]OXM, 0)
	buf := data[4:length]
	for len(buf) > 0 {
		v, n, err := unmarshalOXM(buf)
		if err != nil {
			return err
		}
		r.Fields = append(r.Fields, v)
		buf = buf[n:]
	}

	return nil
}

// matchLength returns the padded on-wire length of the match at the front of data.
func matchLength(data []byte) (int, error) {
	if len(data) < 4 {
		return 0, openflow.ErrInvalidPacketLength
	}
	length := int(binary.BigEndian.Uint16(data[2:4]))
	padded := length + openflow.Pad(length)
	if length < 4 || len(data) < padded {
		return 0, openflow.ErrInvalidPacketLength
	}

	return padded, nil
}
