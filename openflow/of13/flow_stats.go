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

// FlowStats is an ofp_flow_stats record of an OFPMP_FLOW multipart reply.
type FlowStats struct {
	tableID      uint8
	durationSec  uint32
	durationNsec uint32
	priority     uint16
	idleTimeout  uint16
	hardTimeout  uint16
	flags        uint16
	cookie       uint64
	packetCount  uint64
	byteCount    uint64
	match        *Match
	instructions []Instruction
}

func NewFlowStats() *FlowStats {
	return &FlowStats{
		match:        NewMatch(),
		instructions: make([]Instruction, 0),
	}
}

func (r *FlowStats) Version() uint8 {
	return openflow.OF13_VERSION
}

func (r *FlowStats) TableID() uint8 {
	return r.tableID
}

func (r *FlowStats) SetTableID(id uint8) {
	r.tableID = id
}

func (r *FlowStats) DurationSec() uint32 {
	return r.durationSec
}

func (r *FlowStats) DurationNsec() uint32 {
	return r.durationNsec
}

func (r *FlowStats) SetDuration(sec, nsec uint32) {
	r.durationSec = sec
	r.durationNsec = nsec
}

func (r *FlowStats) Priority() uint16 {
	return r.priority
}

func (r *FlowStats) SetPriority(priority uint16) {
	r.priority = priority
}

func (r *FlowStats) IdleTimeout() uint16 {
	return r.idleTimeout
}

func (r *FlowStats) SetIdleTimeout(timeout uint16) {
	r.idleTimeout = timeout
}

func (r *FlowStats) HardTimeout() uint16 {
	return r.hardTimeout
}

func (r *FlowStats) SetHardTimeout(timeout uint16) {
	r.hardTimeout = timeout
}

func (r *FlowStats) Flags() uint16 {
	return r.flags
}

func (r *FlowStats) Cookie() uint64 {
	return r.cookie
}

func (r *FlowStats) SetCookie(cookie uint64) {
	r.cookie = cookie
}

func (r *FlowStats) PacketCount() uint64 {
	return r.packetCount
}

func (r *FlowStats) ByteCount() uint64 {
	return r.byteCount
}

func (r *FlowStats) SetCounters(packets, bytes uint64) {
	r.packetCount = packets
	r.byteCount = bytes
}

// Match returns nil if the record has not been decoded or populated yet.
func (r *FlowStats) Match() *Match {
	return r.match
}

func (r *FlowStats) SetMatch(match *Match) {
	if match == nil {
		panic("match is nil")
	}
	r.match = match
}

func (r *FlowStats) Instructions() []Instruction {
	return r.instructions
}

func (r *FlowStats) SetInstructions(instructions []Instruction) {
	r.instructions = instructions
}

func (r *FlowStats) MarshalBinary() ([]byte, error) {
	if r.match == nil {
		return nil, errors.New("empty flow match")
	}

	v := make([]byte, 48)
	v[2] = r.tableID
	// v[3] is padding
	binary.BigEndian.PutUint32(v[4:8], r.durationSec)
	binary.BigEndian.PutUint32(v[8:12], r.durationNsec)
	binary.BigEndian.PutUint16(v[12:14], r.priority)
	binary.BigEndian.PutUint16(v[14:16], r.idleTimeout)
	binary.BigEndian.PutUint16(v[16:18], r.hardTimeout)
	binary.BigEndian.PutUint16(v[18:20], r.flags)
	// v[20:24] is padding
	binary.BigEndian.PutUint64(v[24:32], r.cookie)
	binary.BigEndian.PutUint64(v[32:40], r.packetCount)
	binary.BigEndian.PutUint64(v[40:48], r.byteCount)

	match, err := r.match.MarshalBinary()
	if err != nil {
		return nil, err
	}
	v = append(v, match...)

	instructions, err := MarshalInstructions(r.instructions)
	if err != nil {
		return nil, err
	}
	v = append(v, instructions...)
	binary.BigEndian.PutUint16(v[0:2], uint16(len(v)))

	return v, nil
}

func (r *FlowStats) UnmarshalBinary(data []byte) error {
	if len(data) < 56 {
		return openflow.ErrInvalidPacketLength
	}
	length := int(binary.BigEndian.Uint16(data[0:2]))
	if length < 56 || len(data) < length {
		return openflow.ErrInvalidPacketLength
	}

	r.tableID = data[2]
	r.durationSec = binary.BigEndian.Uint32(data[4:8])
	r.durationNsec = binary.BigEndian.Uint32(data[8:12])
	r.priority = binary.BigEndian.Uint16(data[12:14])
	r.idleTimeout = binary.BigEndian.Uint16(data[14:16])
	r.hardTimeout = binary.BigEndian.Uint16(data[16:18])
	r.flags = binary.BigEndian.Uint16(data[18:20])
	r.cookie = binary.BigEndian.Uint64(data[24:32])
	r.packetCount = binary.BigEndian.Uint64(data[32:40])
	r.byteCount = binary.BigEndian.Uint64(data[40:48])

	n, err := matchLength(data[48:length])
	if err != nil {
		return err
	}
	r.match = new(Match)
	if err := r.match.UnmarshalBinary(data[48 : 48+n]); err != nil {
		return err
	}

	instructions, err := UnmarshalInstructions(data[48+n : length])
	if err != nil {
		return errors.Wrap(err, "failed to decode flow stats instructions")
	}
	r.instructions = instructions

	return nil
}

// multipartBody validates a MULTIPART_REPLY message of the given type and
// returns the records that follow the 16 bytes multipart header.
func multipartBody(data []byte, mpType uint16) ([]byte, error) {
	msg := new(openflow.Message)
	if err := msg.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	if msg.Version() != openflow.OF13_VERSION {
		return nil, openflow.ErrUnsupportedVersion
	}
	if msg.Type() != OFPT_MULTIPART_REPLY {
		return nil, openflow.ErrUnsupportedMessage
	}

	payload := msg.Payload()
	if len(payload) < 8 {
		return nil, openflow.ErrInvalidPacketLength
	}
	if t := binary.BigEndian.Uint16(payload[0:2]); t != mpType {
		return nil, errors.Wrapf(openflow.ErrUnsupportedMessage, "unexpected multipart type: %v", t)
	}
	// payload[2:4] is flags and payload[4:8] is padding

	return payload[8:], nil
}

func newMultipartReply(xid uint32, mpType uint16, body []byte) ([]byte, error) {
	payload := make([]byte, 8, 8+len(body))
	binary.BigEndian.PutUint16(payload[0:2], mpType)
	payload = append(payload, body...)

	msg := openflow.NewMessage(openflow.OF13_VERSION, OFPT_MULTIPART_REPLY, xid)
	msg.SetPayload(payload)

	return msg.MarshalBinary()
}

// ParseFlowStatsReply decodes a complete OFPT_MULTIPART_REPLY message of type
// OFPMP_FLOW into its flow records.
func ParseFlowStatsReply(data []byte) ([]*FlowStats, error) {
	buf, err := multipartBody(data, OFPMP_FLOW)
	if err != nil {
		return nil, err
	}

	result := make([]*FlowStats, 0)
	for len(buf) > 0 {
		if len(buf) < 2 {
			return nil, openflow.ErrInvalidPacketLength
		}
		length := int(binary.BigEndian.Uint16(buf[0:2]))
		if length < 56 || len(buf) < length {
			return nil, openflow.ErrInvalidPacketLength
		}

		stats := new(FlowStats)
		if err := stats.UnmarshalBinary(buf[:length]); err != nil {
			return nil, err
		}
		result = append(result, stats)
		buf = buf[length:]
	}

	return result, nil
}

// NewFlowStatsReply encodes records into a single OFPT_MULTIPART_REPLY message.
func NewFlowStatsReply(xid uint32, records []*FlowStats) ([]byte, error) {
	body := make([]byte, 0)
	for _, v := range records {
		b, err := v.MarshalBinary()
		if err != nil {
			return nil, err
		}
		body = append(body, b...)
	}

	return newMultipartReply(xid, OFPMP_FLOW, body)
}
