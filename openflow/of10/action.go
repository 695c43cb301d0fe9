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

package of10

import (
	"encoding"
	"encoding/binary"
	"net"

	"github.com/superkkt/ofcore/openflow"
)

// Action is one entry of an OpenFlow 1.0 action list.
type Action interface {
	Type() uint16
	encoding.BinaryMarshaler
}

type ActionOutput struct {
	Port uint16
}

func (r ActionOutput) Type() uint16 {
	return OFPAT_OUTPUT
}

func (r ActionOutput) MarshalBinary() ([]byte, error) {
	v := make([]byte, 8)
	binary.BigEndian.PutUint16(v[0:2], OFPAT_OUTPUT)
	binary.BigEndian.PutUint16(v[2:4], 8)
	binary.BigEndian.PutUint16(v[4:6], r.Port)
	// We don't support partial PACKET_IN
	binary.BigEndian.PutUint16(v[6:8], 0xFFFF)

	return v, nil
}

type ActionSetVLANVID struct {
	VLANID uint16
}

func (r ActionSetVLANVID) Type() uint16 {
	return OFPAT_SET_VLAN_VID
}

func (r ActionSetVLANVID) MarshalBinary() ([]byte, error) {
	v := make([]byte, 8)
	binary.BigEndian.PutUint16(v[0:2], OFPAT_SET_VLAN_VID)
	binary.BigEndian.PutUint16(v[2:4], 8)
	binary.BigEndian.PutUint16(v[4:6], r.VLANID)

	return v, nil
}

type ActionSetVLANPCP struct {
	Priority uint8
}

func (r ActionSetVLANPCP) Type() uint16 {
	return OFPAT_SET_VLAN_PCP
}

func (r ActionSetVLANPCP) MarshalBinary() ([]byte, error) {
	v := make([]byte, 8)
	binary.BigEndian.PutUint16(v[0:2], OFPAT_SET_VLAN_PCP)
	binary.BigEndian.PutUint16(v[2:4], 8)
	v[4] = r.Priority

	return v, nil
}

type ActionStripVLAN struct{}

func (r ActionStripVLAN) Type() uint16 {
	return OFPAT_STRIP_VLAN
}

func (r ActionStripVLAN) MarshalBinary() ([]byte, error) {
	v := make([]byte, 8)
	binary.BigEndian.PutUint16(v[0:2], OFPAT_STRIP_VLAN)
	binary.BigEndian.PutUint16(v[2:4], 8)

	return v, nil
}

func marshalMAC(t uint16, mac net.HardwareAddr) ([]byte, error) {
	if len(mac) != 6 {
		return nil, openflow.ErrInvalidMACAddress
	}

	v := make([]byte, 16)
	binary.BigEndian.PutUint16(v[0:2], t)
	binary.BigEndian.PutUint16(v[2:4], 16)
	copy(v[4:10], mac)

	return v, nil
}

type ActionSetDLSrc struct {
	MAC net.HardwareAddr
}

func (r ActionSetDLSrc) Type() uint16 {
	return OFPAT_SET_DL_SRC
}

func (r ActionSetDLSrc) MarshalBinary() ([]byte, error) {
	return marshalMAC(OFPAT_SET_DL_SRC, r.MAC)
}

type ActionSetDLDst struct {
	MAC net.HardwareAddr
}

func (r ActionSetDLDst) Type() uint16 {
	return OFPAT_SET_DL_DST
}

func (r ActionSetDLDst) MarshalBinary() ([]byte, error) {
	return marshalMAC(OFPAT_SET_DL_DST, r.MAC)
}

// ActionEnqueue outputs to a queue attached to a port.
type ActionEnqueue struct {
	Port    uint16
	QueueID uint32
}

func (r ActionEnqueue) Type() uint16 {
	return OFPAT_ENQUEUE
}

func (r ActionEnqueue) MarshalBinary() ([]byte, error) {
	v := make([]byte, 16)
	binary.BigEndian.PutUint16(v[0:2], OFPAT_ENQUEUE)
	binary.BigEndian.PutUint16(v[2:4], 16)
	binary.BigEndian.PutUint16(v[4:6], r.Port)
	// v[6:12] is padding
	binary.BigEndian.PutUint32(v[12:16], r.QueueID)

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
			result = append(result, ActionOutput{Port: binary.BigEndian.Uint16(buf[4:6])})
		case OFPAT_SET_VLAN_VID:
			result = append(result, ActionSetVLANVID{VLANID: binary.BigEndian.Uint16(buf[4:6])})
		case OFPAT_SET_VLAN_PCP:
			result = append(result, ActionSetVLANPCP{Priority: buf[4]})
		case OFPAT_STRIP_VLAN:
			result = append(result, ActionStripVLAN{})
		case OFPAT_SET_DL_SRC, OFPAT_SET_DL_DST:
			if length < 16 {
				return nil, openflow.ErrInvalidPacketLength
			}
			mac := append(make(net.HardwareAddr, 0, 6), buf[4:10]...)
			if t == OFPAT_SET_DL_SRC {
				result = append(result, ActionSetDLSrc{MAC: mac})
			} else {
				result = append(result, ActionSetDLDst{MAC: mac})
			}
		case OFPAT_ENQUEUE:
			if length < 16 {
				return nil, openflow.ErrInvalidPacketLength
			}
			result = append(result, ActionEnqueue{
				Port:    binary.BigEndian.Uint16(buf[4:6]),
				QueueID: binary.BigEndian.Uint32(buf[12:16]),
			})
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
