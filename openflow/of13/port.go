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
	"net"
	"strings"

	"github.com/superkkt/ofcore/openflow"
)

// Port is an ofp_port description.
type Port struct {
	number uint32
	mac    net.HardwareAddr
	name   string
	// Bitmap of OFPPC_* flags
	config uint32
	// Bitmap of OFPPS_* flags
	state uint32
	//
	//  Bitmaps of OFPPF_* that describe features. All bits zeroed if unsupported or unavailable.
	//
	current, advertised, supported, peer uint32
	currentSpeed, maxSpeed               uint32
}

// NewPort builds a port description as a switch would report it.
func NewPort(number uint32, mac net.HardwareAddr, name string, config, state uint32) *Port {
	return &Port{
		number: number,
		mac:    append(net.HardwareAddr(nil), mac...),
		name:   name,
		config: config,
		state:  state,
	}
}

func (r *Port) Number() uint32 {
	return r.number
}

func (r *Port) MAC() net.HardwareAddr {
	return r.mac
}

func (r *Port) Name() string {
	return r.name
}

func (r *Port) IsPortDown() bool {
	return r.config&OFPPC_PORT_DOWN != 0
}

func (r *Port) IsLinkDown() bool {
	return r.state&OFPPS_LINK_DOWN != 0
}

func (r *Port) IsLocal() bool {
	return r.number == OFPP_LOCAL
}

// IsReserved returns whether the number is above OFPP_MAX.
func (r *Port) IsReserved() bool {
	return r.number > OFPP_MAX
}

func (r *Port) MarshalBinary() ([]byte, error) {
	v := make([]byte, 64)
	binary.BigEndian.PutUint32(v[0:4], r.number)
	// v[4:8] is padding
	copy(v[8:14], r.mac)
	// v[14:16] is padding
	copy(v[16:32], r.name)
	binary.BigEndian.PutUint32(v[32:36], r.config)
	binary.BigEndian.PutUint32(v[36:40], r.state)
	binary.BigEndian.PutUint32(v[40:44], r.current)
	binary.BigEndian.PutUint32(v[44:48], r.advertised)
	binary.BigEndian.PutUint32(v[48:52], r.supported)
	binary.BigEndian.PutUint32(v[52:56], r.peer)
	binary.BigEndian.PutUint32(v[56:60], r.currentSpeed)
	binary.BigEndian.PutUint32(v[60:64], r.maxSpeed)

	return v, nil
}

func (r *Port) UnmarshalBinary(data []byte) error {
	if len(data) < 64 {
		return openflow.ErrInvalidPacketLength
	}

	r.number = binary.BigEndian.Uint32(data[0:4])
	r.mac = make(net.HardwareAddr, 6)
	copy(r.mac, data[8:14])
	r.name = strings.TrimRight(string(data[16:32]), "\x00")
	r.config = binary.BigEndian.Uint32(data[32:36])
	r.state = binary.BigEndian.Uint32(data[36:40])
	r.current = binary.BigEndian.Uint32(data[40:44])
	r.advertised = binary.BigEndian.Uint32(data[44:48])
	r.supported = binary.BigEndian.Uint32(data[48:52])
	r.peer = binary.BigEndian.Uint32(data[52:56])
	r.currentSpeed = binary.BigEndian.Uint32(data[56:60])
	r.maxSpeed = binary.BigEndian.Uint32(data[60:64])

	return nil
}

// ParsePortDescReply decodes a complete OFPT_MULTIPART_REPLY message of type
// OFPMP_PORT_DESC.
func ParsePortDescReply(data []byte) ([]openflow.Port, error) {
	body, err := multipartBody(data, OFPMP_PORT_DESC)
	if err != nil {
		return nil, err
	}
	if len(body)%64 != 0 {
		return nil, openflow.ErrInvalidPacketLength
	}

	result := make([]openflow.Port, 0, len(body)/64)
	for i := 0; i < len(body); i += 64 {
		p := new(Port)
		if err := p.UnmarshalBinary(body[i : i+64]); err != nil {
			return nil, err
		}
		result = append(result, p)
	}

	return result, nil
}

// NewPortDescReply encodes ports into a single OFPT_MULTIPART_REPLY message.
func NewPortDescReply(xid uint32, ports []*Port) ([]byte, error) {
	body := make([]byte, 0, len(ports)*64)
	for _, p := range ports {
		b, err := p.MarshalBinary()
		if err != nil {
			return nil, err
		}
		body = append(body, b...)
	}

	return newMultipartReply(xid, OFPMP_PORT_DESC, body)
}
