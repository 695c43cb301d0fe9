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

	"github.com/superkkt/ofcore/openflow"
)

// FeaturesReply is the switch answer to FEATURES_REQUEST. In OpenFlow 1.0 it
// also carries the physical port descriptions.
type FeaturesReply struct {
	openflow.Message
	dpid         uint64
	numBuffers   uint32
	numTables    uint8
	capabilities uint32
	ports        []openflow.Port
}

func (r *FeaturesReply) DPID() uint64 {
	return r.dpid
}

func (r *FeaturesReply) NumTables() uint8 {
	return r.numTables
}

func (r *FeaturesReply) Ports() []openflow.Port {
	return r.ports
}

func (r *FeaturesReply) UnmarshalBinary(data []byte) error {
	if err := r.Message.UnmarshalBinary(data); err != nil {
		return err
	}
	if r.Version() != openflow.OF10_VERSION {
		return openflow.ErrUnsupportedVersion
	}
	if r.Type() != OFPT_FEATURES_REPLY {
		return openflow.ErrUnsupportedMessage
	}

	payload := r.Payload()
	if len(payload) < 24 {
		return openflow.ErrInvalidPacketLength
	}
	r.dpid = binary.BigEndian.Uint64(payload[0:8])
	r.numBuffers = binary.BigEndian.Uint32(payload[8:12])
	r.numTables = payload[12]
	r.capabilities = binary.BigEndian.Uint32(payload[16:20])
	// payload[20:24] is the supported actions bitmap

	ports, err := ParsePorts(payload[24:])
	if err != nil {
		return err
	}
	r.ports = ports

	return nil
}
