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

	"github.com/pkg/errors"
	"github.com/superkkt/ofcore/openflow"
)

// FlowStats is an ofp_flow_stats record of an OFPST_FLOW reply.
type FlowStats struct {
	tableID      uint8
	match        *Match
	durationSec  uint32
	durationNsec uint32
	priority     uint16
	idleTimeout  uint16
	hardTimeout  uint16
	cookie       uint64
	packetCount  uint64
	byteCount    uint64
	actions      []Action
}

func NewFlowStats() *FlowStats {
	return &FlowStats{
		match:   NewMatch(),
		actions: make([]Action, 0),
	}
}

func (r *FlowStats) Version() uint8 {
	return openflow.OF10_VERSION
}

func (r *FlowStats) TableID() uint8 {
	return r.tableID
}

func (r *FlowStats) SetTableID(id uint8) {
	r.tableID = id
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

func (r *FlowStats) Actions() []Action {
	return r.actions
}

func (r *FlowStats) SetActions(actions []Action) {
	r.actions = actions
}

func (r *FlowStats) MarshalBinary() ([]byte, error) {
	if r.match == nil {
		return nil, errors.New("empty flow match")
	}
	match, err := r.match.MarshalBinary()
	if err != nil {
		return nil, err
	}
	actions, err := MarshalActions(r.actions)
	if err != nil {
		return nil, err
	}

	v := make([]byte, 88, 88+len(actions))
	binary.BigEndian.PutUint16(v[0:2], uint16(88+len(actions)))
	v[2] = r.tableID
	// v[3] is padding
	copy(v[4:44], match)
	binary.BigEndian.PutUint32(v[44:48], r.durationSec)
	binary.BigEndian.PutUint32(v[48:52], r.durationNsec)
	binary.BigEndian.PutUint16(v[52:54], r.priority)
	binary.BigEndian.PutUint16(v[54:56], r.idleTimeout)
	binary.BigEndian.PutUint16(v[56:58], r.hardTimeout)
	// v[58:64] is padding
	binary.BigEndian.PutUint64(v[64:72], r.cookie)
	binary.BigEndian.PutUint64(v[72:80], r.packetCount)
	binary.BigEndian.PutUint64(v[80:88], r.byteCount)

	return append(v, actions...), nil
}

func (r *FlowStats) UnmarshalBinary(data []byte) error {
	if len(data) < 88 {
		return openflow.ErrInvalidPacketLength
	}
	length := int(binary.BigEndian.Uint16(data[0:2]))
	if length < 88 || len(data) < length {
		return openflow.ErrInvalidPacketLength
	}

	r.tableID = data[2]
	r.match = new(Match)
	if err := r.match.UnmarshalBinary(data[4:44]); err != nil {
		return err
	}
	r.durationSec = binary.BigEndian.Uint32(data[44:48])
	r.durationNsec = binary.BigEndian.Uint32(data[48:52])
	r.priority = binary.BigEndian.Uint16(data[52:54])
	r.idleTimeout = binary.BigEndian.Uint16(data[54:56])
	r.hardTimeout = binary.BigEndian.Uint16(data[56:58])
	r.cookie = binary.BigEndian.Uint64(data[64:72])
	r.packetCount = binary.BigEndian.Uint64(data[72:80])
	r.byteCount = binary.BigEndian.Uint64(data[80:88])

	actions, err := UnmarshalActions(data[88:length])
	if err != nil {
		return errors.Wrap(err, "failed to decode flow stats actions")
	}
	r.actions = actions

	return nil
}

// ParseFlowStatsReply decodes a complete OFPT_STATS_REPLY message of type
// OFPST_FLOW into its flow records.
func ParseFlowStatsReply(data []byte) ([]*FlowStats, error) {
	msg := new(openflow.Message)
	if err := msg.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	if msg.Version() != openflow.OF10_VERSION {
		return nil, openflow.ErrUnsupportedVersion
	}
	if msg.Type() != OFPT_STATS_REPLY {
		return nil, openflow.ErrUnsupportedMessage
	}

	payload := msg.Payload()
	if len(payload) < 4 {
		return nil, openflow.ErrInvalidPacketLength
	}
	if binary.BigEndian.Uint16(payload[0:2]) != OFPST_FLOW {
		return nil, errors.Wrap(openflow.ErrUnsupportedMessage, "not a flow stats reply")
	}
	// payload[2:4] is flags

	result := make([]*FlowStats, 0)
	buf := payload[4:]
	for len(buf) > 0 {
		if len(buf) < 2 {
			return nil, openflow.ErrInvalidPacketLength
		}
		length := int(binary.BigEndian.Uint16(buf[0:2]))
		if length < 88 || len(buf) < length {
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

// NewFlowStatsReply encodes records into a single OFPT_STATS_REPLY message.
func NewFlowStatsReply(xid uint32, records []*FlowStats) ([]byte, error) {
	payload := make([]byte, 4)
	binary.BigEndian.PutUint16(payload[0:2], OFPST_FLOW)
	for _, v := range records {
		b, err := v.MarshalBinary()
		if err != nil {
			return nil, err
		}
		payload = append(payload, b...)
	}

	msg := openflow.NewMessage(openflow.OF10_VERSION, OFPT_STATS_REPLY, xid)
	msg.SetPayload(payload)

	return msg.MarshalBinary()
}
