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
	"encoding/binary"
	"net"
	"strings"

	"github.com/superkkt/ofcore/openflow"
)

// Port is an ofp_phy_port description.
type Port struct {
	number uint16
	mac    net.HardwareAddr
	name   string
	// Bitmap of OFPPC_* flags
	config uint32
	// Bitmap of OFPPS_* flags
	state uint32
	// Bitmaps of OFPPF_* that describe features. All bits zeroed if unsupported or unavailable.
	current, advertised, supported, peer uint32
}

func (r *Port) Number() uint32 {
	return uint32(r.number)
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

func (r *Port) Config() uint32 {
	return r.config
}

func (r *Port) State() uint32 {
	return r.state
}

func (r *Port) MarshalBinary() ([]byte, error) {
	v := make([]byte, 48)
	binary.BigEndian.PutUint16(v[0:2], r.number)
	copy(v[2:8], r.mac)
	copy(v[8:24], r.name)
	binary.BigEndian.PutUint32(v[24:28], r.config)
	binary.BigEndian.PutUint32(v[28:32], r.state)
	binary.BigEndian.PutUint32(v[32:36], r.current)
	binary.BigEndian.PutUint32(v[36:40], r.advertised)
	binary.BigEndian.PutUint32(v[40:44], r.supported)
	binary.BigEndian.PutUint32(v[44:48], r.peer)

	return v, nil
}

func (r *Port) UnmarshalBinary(data []byte) error {
	if len(data) < 48 {
		return openflow.ErrInvalidPacketLength
	}

	r.number = binary.BigEndian.Uint16(data[0:2])
	r.mac = make(net.HardwareAddr, 6)
	copy(r.mac, data[2:8])
	r.name = strings.TrimRight(string(data[8:24]), "\x00")
	r.config = binary.BigEndian.Uint32(data[24:28])
	r.state = binary.BigEndian.Uint32(data[28:32])
	r.current = binary.BigEndian.Uint32(data[32:36])
	r.advertised = binary.BigEndian.Uint32(data[36:40])
	r.supported = binary.BigEndian.Uint32(data[40:44])
	r.peer = binary.BigEndian.Uint32(data[44:48])

	return nil
}

// NewPort builds a port description as a switch would report it.
func NewPort(number uint16, mac net.HardwareAddr, name string, config, state uint32) *Port {
	return &Port{
		number: number,
		mac:    append(net.HardwareAddr(nil), mac...),
		name:   name,
		config: config,
		state:  state,
	}
}

// ParsePorts decodes the ofp_phy_port array that trails a FEATURES_REPLY.
func ParsePorts(data []byte) ([]openflow.Port, error) {
	if len(data)%48 != 0 {
		return nil, openflow.ErrInvalidPacketLength
	}

	result := make([]openflow.Port, 0, len(data)/48)
	for i := 0; i < len(data); i += 48 {
		p := new(Port)
		if err := p.UnmarshalBinary(data[i : i+48]); err != nil {
			return nil, err
		}
		result = append(result, p)
	}

	return result, nil
}
