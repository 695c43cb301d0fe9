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

type FlowMod struct {
	openflow.Message
	Cookie       uint64
	CookieMask   uint64
	TableID      uint8
	Command      uint8
	IdleTimeout  uint16
	HardTimeout  uint16
	Priority     uint16
	BufferID     uint32
	OutPort      uint32
	OutGroup     uint32
	Flags        uint16
	Match        *Match
	Instructions []Instruction
}

// NewFlowMod returns a FLOW_MOD with an empty OXM match. out_port and out_group
// are OFPP_ANY and OFPG_ANY, and removal of the flow is reported to the controller.
func NewFlowMod(xid uint32, cmd uint8) *FlowMod {
	return &FlowMod{
		Message:  openflow.NewMessage(openflow.OF13_VERSION, OFPT_FLOW_MOD, xid),
		Command:  cmd,
		BufferID: OFP_NO_BUFFER,
		OutPort:  OFPP_ANY,
		OutGroup: OFPG_ANY,
		Flags:    OFPFF_SEND_FLOW_REM,
		Match:    NewMatch(),
	}
}

func (r *FlowMod) MarshalBinary() ([]byte, error) {
	if r.Match == nil {
		return nil, errors.New("empty flow match")
	}

	v := make([]byte, 40)
	binary.BigEndian.PutUint64(v[0:8], r.Cookie)
	binary.BigEndian.PutUint64(v[8:16], r.CookieMask)
	v[16] = r.TableID
	v[17] = r.Command
	binary.BigEndian.PutUint16(v[18:20], r.IdleTimeout)
	binary.BigEndian.PutUint16(v[20:22], r.HardTimeout)
	binary.BigEndian.PutUint16(v[22:24], r.Priority)
	binary.BigEndian.PutUint32(v[24:28], r.BufferID)
	binary.BigEndian.PutUint32(v[28:32], r.OutPort)
	binary.BigEndian.PutUint32(v[32:36], r.OutGroup)
	binary.BigEndian.PutUint16(v[36:38], r.Flags)
	// v[38:40] is padding

	match, err := r.Match.MarshalBinary()
	if err != nil {
		return nil, err
	}
	v = append(v, match...)

	instructions, err := MarshalInstructions(r.Instructions)
	if err != nil {
		return nil, err
	}
	v = append(v, instructions...)

	r.SetPayload(v)
	return r.Message.MarshalBinary()
}

func (r *FlowMod) UnmarshalBinary(data []byte) error {
	if err := r.Message.UnmarshalBinary(data); err != nil {
		return err
	}
	if r.Version() != openflow.OF13_VERSION {
		return openflow.ErrUnsupportedVersion
	}
	if r.Type() != OFPT_FLOW_MOD {
		return openflow.ErrUnsupportedMessage
	}

	payload := r.Payload()
	if len(payload) < 48 {
		return openflow.ErrInvalidPacketLength
	}
	r.Cookie = binary.BigEndian.Uint64(payload[0:8])
	r.CookieMask = binary.BigEndian.Uint64(payload[8:16])
	r.TableID = payload[16]
	r.Command = payload[17]
	r.IdleTimeout = binary.BigEndian.Uint16(payload[18:20])
	r.HardTimeout = binary.BigEndian.Uint16(payload[20:22])
	r.Priority = binary.BigEndian.Uint16(payload[22:24])
	r.BufferID = binary.BigEndian.Uint32(payload[24:28])
	r.OutPort = binary.BigEndian.Uint32(payload[28:32])
	r.OutGroup = binary.BigEndian.Uint32(payload[32:36])
	r.Flags = binary.BigEndian.Uint16(payload[36:38])

	n, err := matchLength(payload[40:])
	if err != nil {
		return err
	}
	r.Match = new(Match)
	if err := r.Match.UnmarshalBinary(payload[40 : 40+n]); err != nil {
		return err
	}

	instructions, err := UnmarshalInstructions(payload[40+n:])
	if err != nil {
		return errors.Wrap(err, "failed to decode flow instructions")
	}
	r.Instructions = instructions

	return nil
}
