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
	"encoding"
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/superkkt/ofcore/openflow"
)

// Action is one entry of an OpenFlow 1.3 action list.
type Action interface {
	Type() uint16
	encoding.BinaryMarshaler
}

type ActionOutput struct {
	Port uint32
}

func (r ActionOutput) Type() uint16 {
	return OFPAT_OUTPUT
}

func (r ActionOutput) MarshalBinary() ([]byte, error) {
	v := make([]byte, 16)
	binary.BigEndian.PutUint16(v[0:2], OFPAT_OUTPUT)
	binary.BigEndian.PutUint16(v[2:4], 16)
	binary.BigEndian.PutUint32(v[4:8], r.Port)
	// We don't support buffer ID and partial PACKET_IN
	binary.BigEndian.PutUint16(v[8:10], 0xFFFF)
	// v[10:16] is padding

	return v, nil
}

// ActionSetField rewrites a header field described by an OXM TLV.
type ActionSetField struct {
	Field OXM
}

func (r ActionSetField) Type() uint16 {
	return OFPAT_SET_FIELD
}

func (r ActionSetField) MarshalBinary() ([]byte, error) {
	if r.Field.HasMask() {
		return nil, errors.New("set-field action cannot carry a masked OXM")
	}
	tlv, err := r.Field.MarshalBinary()
	if err != nil {
		return nil, err
	}

	length := 4 + len(tlv)
	length += openflow.Pad(length)
	v := make([]byte, length)
	binary.BigEndian.PutUint16(v[0:2], OFPAT_SET_FIELD)
	binary.BigEndian.PutUint16(v[2:4], uint16(length))
	copy(v[4:], tlv)

	return v, nil
}

type ActionPushVLAN struct {
	EtherType uint16
}

func (r ActionPushVLAN) Type() uint16 {
	return OFPAT_PUSH_VLAN
}

func (r ActionPushVLAN) MarshalBinary() ([]byte, error) {
	v := make([]byte, 8)
	binary.BigEndian.PutUint16(v[0:2], OFPAT_PUSH_VLAN)
	binary.BigEndian.PutUint16(v[2:4], 8)
	binary.BigEndian.PutUint16(v[4:6], r.EtherType)

	return v, nil
}

type ActionPopVLAN struct{}

func (r ActionPopVLAN) Type() uint16 {
	return OFPAT_POP_VLAN
}

func (r ActionPopVLAN) MarshalBinary() ([]byte, error) {
	v := make([]byte, 8)
	binary.BigEndian.PutUint16(v[0:2], OFPAT_POP_VLAN)
	binary.BigEndian.PutUint16(v[2:4], 8)

	return v, nil
}

type ActionSetQueue struct {
	QueueID uint32
}

func (r ActionSetQueue) Type() uint16 {
	return OFPAT_SET_QUEUE
}

func (r ActionSetQueue) MarshalBinary() ([]byte, error) {
	v := make([]byte, 8)
	binary.BigEndian.PutUint16(v[0:2], OFPAT_SET_QUEUE)
	binary.BigEndian.PutUint16(v[2:4], 8)
	binary.BigEndian.PutUint32(v[4:8], r.QueueID)

	return v, nil
}

// ActionUnknown keeps an action we do not decode. Body excludes the type and length.
type ActionUnknown struct {
	ActionType uint16
	Body       []byte
}

func (r ActionUnknown) Type() uint16 {
	return r.ActionType
}

func (r ActionUnknown) MarshalBinary() ([]byte, error) {
	length := 4 + len(r.Body)
	v := make([]byte, length)
	binary.BigEndian.PutUint16(v[0:2], r.ActionType)
	binary.BigEndian.PutUint16(v[2:4], uint16(length))
	copy(v[4:], r.Body)

	return v, nil
}

func MarshalActions(actions []Action) ([]byte, error) {
	result := make([]byte, 0)
	for _, act := range actions {
		v, err := act.MarshalBinary()
		if err != nil {
			return nil, err
		}
		result = append(result, v...)
	}

	return result, nil
}

func UnmarshalActions(data []byte) ([]Action, error) {
	result := make([]Action, 0)

	buf := data
	for len(buf) >= 4 {
		t := binary.BigEndian.Uint16(buf[0:2])
		length := int(binary.BigEndian.Uint16(buf[2:4]))
		if length < 8 || len(buf) < length {
			return nil, openflow.ErrInvalidPacketLength
		}

		switch t {
		case OFPAT_OUTPUT:
			if length < 16 {
				return nil, openflow.ErrInvalidPacketLength
			}
			result = append(result, ActionOutput{Port: binary.BigEndian.Uint32(buf[4:8])})
		case OFPAT_SET_FIELD:
			field, _, err := unmarshalOXM(buf[4:length])
			if err != nil {
				return nil, errors.Wrap(err, "failed to decode set-field action")
			}
			result = append(result, ActionSetField{Field: field})
		case OFPAT_PUSH_VLAN:
			result = append(result, ActionPushVLAN{EtherType: binary.BigEndian.Uint16(buf[4:6])})
		case OFPAT_POP_VLAN:
			result = append(result, ActionPopVLAN{})
		case OFPAT_SET_QUEUE:
			result = append(result, ActionSetQueue{QueueID: binary.BigEndian.Uint32(buf[4:8])})
		default:
			result = append(result, ActionUnknown{
				ActionType: t,
				Body:       append([]byte(nil), buf[4:length]...),
			})
		}

		buf = buf[length:]
	}

	return result, nil
}
