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

package v0x01

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/superkkt/ofcore/flow"
	"github.com/superkkt/ofcore/openflow"
	"github.com/superkkt/ofcore/openflow/of10"
)

const dpid = "00:00:00:00:00:00:00:01"

func decode(t *testing.T, s string) flow.Descriptor {
	t.Helper()

	var d flow.Descriptor
	require.NoError(t, json.Unmarshal([]byte(s), &d))

	return d
}

func TestDescriptorRoundTrip(t *testing.T) {
	sw := flow.NewSwitch(dpid, openflow.OF10_VERSION)
	requested := decode(t, `{
		"table_id": 1,
		"match": {"in_port": 1, "dl_src": "11:22:33:44:55:66", "nw_dst": "5.6.7.0/24", "tp_dst": 80},
		"priority": 2,
		"idle_timeout": 3,
		"hard_timeout": 4,
		"cookie": 5,
		"actions": [
			{"action_type": "set_vlan", "vlan_id": 6},
			{"action_type": "set_vlan_pcp", "vlan_pcp": 3},
			{"action_type": "pop_vlan"},
			{"action_type": "set_dl_dst", "dl_dst": "AA:BB:CC:DD:EE:FF"},
			{"action_type": "set_queue", "port": 2, "queue_id": 7},
			{"action_type": "output", "port": 2}
		]
	}`)

	f, err := FromDescriptor(requested, sw)
	require.NoError(t, err)

	expected := flow.Descriptor{
		"switch":       dpid,
		"table_id":     1,
		"match":        flow.Descriptor{"in_port": 1, "dl_src": "11:22:33:44:55:66", "nw_dst": "5.6.7.0/24", "tp_dst": 80},
		"priority":     2,
		"idle_timeout": 3,
		"hard_timeout": 4,
		"cookie":       uint64(5),
		"actions": []flow.Descriptor{
			{"action_type": "set_vlan", "vlan_id": 6},
			{"action_type": "set_vlan_pcp", "vlan_pcp": 3},
			{"action_type": "pop_vlan"},
			{"action_type": "set_dl_dst", "dl_dst": "aa:bb:cc:dd:ee:ff"},
			{"action_type": "set_queue", "port": 2, "queue_id": 7},
			{"action_type": "output", "port": 2},
		},
		"stats": flow.Descriptor{},
	}
	require.Equal(t, expected, f.Descriptor(false))

	withID := f.Descriptor(true)
	require.Equal(t, f.ID(), withID["id"])

	again, err := FromDescriptor(f.Descriptor(true), sw)
	require.NoError(t, err)
	require.Equal(t, f.ID(), again.ID())
	require.Equal(t, f.MatchID(), again.MatchID())
}

func TestDefaults(t *testing.T) {
	f, err := FromDescriptor(flow.Descriptor{}, flow.NewSwitch(dpid, openflow.OF10_VERSION))
	require.NoError(t, err)

	d := f.Descriptor(false)
	require.Equal(t, 0, d["table_id"])
	require.Equal(t, 0x8000, d["priority"])
	require.Equal(t, 0, d["idle_timeout"])
	require.Equal(t, 0, d["hard_timeout"])
	require.Equal(t, uint64(0), d["cookie"])
	require.Equal(t, flow.Descriptor{}, d["match"])
	require.Equal(t, []flow.Descriptor{}, d["actions"])
}

func TestUnknownActionDropped(t *testing.T) {
	sw := flow.NewSwitch(dpid, openflow.OF10_VERSION)
	f, err := FromDescriptor(decode(t, `{"actions": [{"action_type": "teleport"}, {"action_type": "output", "port": 1}]}`), sw)
	require.NoError(t, err)
	require.Equal(t, []Action{ActionOutput{Port: 1}}, f.Actions())
}

func TestInvalidDescriptor(t *testing.T) {
	sw := flow.NewSwitch(dpid, openflow.OF10_VERSION)
	samples := []struct {
		Descriptor string
		Cause      error
	}{
		{`{"match": {"dl_src": "11:22:33"}}`, flow.ErrInvalidMatchField},
		{`{"match": {"nw_src": "1.2.3.4/40"}}`, flow.ErrInvalidMatchField},
		{`{"match": {"in_port": 65536}}`, flow.ErrInvalidField},
		{`{"priority": 65536}`, flow.ErrInvalidField},
		{`{"cookie": "abc"}`, flow.ErrInvalidField},
		{`{"actions": [{"action_type": "output", "port": -1}]}`, flow.ErrInvalidField},
		{`{"actions": [{"action_type": "set_dl_src", "dl_src": "bad"}]}`, flow.ErrInvalidMatchField},
		{`{"match": [1, 2]}`, flow.ErrInvalidField},
	}

	for _, v := range samples {
		_, err := FromDescriptor(decode(t, v.Descriptor), sw)
		require.Errorf(t, err, "descriptor=%v", v.Descriptor)
		require.Truef(t, errors.Is(err, v.Cause), "descriptor=%v, err=%v", v.Descriptor, err)
	}
}

func TestIdentity(t *testing.T) {
	sw := flow.NewSwitch(dpid, openflow.OF10_VERSION)

	a, err := FromDescriptor(decode(t, `{"match": {"in_port": 1, "dl_vlan": 105}, "actions": []}`), sw)
	require.NoError(t, err)
	b, err := FromDescriptor(decode(t, `{"match": {"in_port": 1, "dl_vlan": 105}}`), sw)
	require.NoError(t, err)
	require.Equal(t, a.ID(), b.ID())
	require.Equal(t, a.Descriptor(false), b.Descriptor(false))

	withStats, err := FromDescriptor(decode(t, `{"match": {"in_port": 1, "dl_vlan": 105}, "stats": {"packet_count": 10}}`), sw)
	require.NoError(t, err)
	require.Equal(t, a.ID(), withStats.ID())

	otherVLAN, err := FromDescriptor(decode(t, `{"match": {"in_port": 1, "dl_vlan": 106}}`), sw)
	require.NoError(t, err)
	require.NotEqual(t, a.ID(), otherVLAN.ID())
	require.NotEqual(t, a.MatchID(), otherVLAN.MatchID())

	otherPriority, err := FromDescriptor(decode(t, `{"match": {"in_port": 1, "dl_vlan": 105}, "priority": 10, "table_id": 0}`), sw)
	require.NoError(t, err)
	require.NotEqual(t, a.ID(), otherPriority.ID())
	require.Equal(t, a.MatchID(), otherPriority.MatchID())

	otherCookie, err := FromDescriptor(decode(t, `{"match": {"in_port": 1, "dl_vlan": 105}, "cookie": 16}`), sw)
	require.NoError(t, err)
	require.NotEqual(t, a.MatchID(), otherCookie.MatchID())

	otherSwitch, err := FromDescriptor(decode(t, `{"match": {"in_port": 1, "dl_vlan": 105}}`), flow.NewSwitch("other", openflow.OF10_VERSION))
	require.NoError(t, err)
	require.NotEqual(t, a.ID(), otherSwitch.ID())
}

func TestEqual(t *testing.T) {
	sw := flow.NewSwitch(dpid, openflow.OF10_VERSION)
	a, err := FromDescriptor(decode(t, `{"match": {"dl_src": "11:22:33:44:55:66"}, "priority": 2, "stats": {}}`), sw)
	require.NoError(t, err)
	b, err := FromDescriptor(decode(t, `{"match": {"dl_src": "11:22:33:44:55:66"}, "priority": 2, "stats": {"byte_count": 1}}`), sw)
	require.NoError(t, err)
	c, err := FromDescriptor(decode(t, `{"match": {"dl_src": "11:22:33:44:55:66"}, "priority": 1000}`), sw)
	require.NoError(t, err)

	ok, err := a.Equal(b)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = a.Equal(c)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = a.Equal("any_string_object")
	require.True(t, errors.Is(err, flow.ErrInvalidComparison))
}

func TestFlowModCommands(t *testing.T) {
	sw := flow.NewSwitch(dpid, openflow.OF10_VERSION)
	f, err := FromDescriptor(decode(t, `{
		"match": {"in_port": 1, "dl_type": 2048, "nw_src": "10.0.0.0/8"},
		"priority": 100,
		"idle_timeout": 30,
		"cookie": 7,
		"actions": [{"action_type": "output", "port": 2}]
	}`), sw)
	require.NoError(t, err)

	samples := []struct {
		Build   func(uint32) (openflow.FlowMod, error)
		Command uint16
	}{
		{f.AddCommand, of10.OFPFC_ADD},
		{f.ModifyCommand, of10.OFPFC_MODIFY},
		{f.DeleteCommand, of10.OFPFC_DELETE},
	}

	for _, v := range samples {
		mod, err := v.Build(3)
		require.NoError(t, err)
		data, err := mod.MarshalBinary()
		require.NoError(t, err)

		decoded := new(of10.FlowMod)
		require.NoError(t, decoded.UnmarshalBinary(data))
		require.Equal(t, v.Command, decoded.Command)
		require.Equal(t, uint32(3), decoded.TransactionID())
		require.Equal(t, uint64(7), decoded.Cookie)
		require.Equal(t, uint16(100), decoded.Priority)
		require.Equal(t, uint16(30), decoded.IdleTimeout)
		require.Equal(t, uint16(of10.OFPP_NONE), decoded.OutPort)
		require.Equal(t, uint32(of10.OFP_NO_BUFFER), decoded.BufferID)
		require.Equal(t, uint16(of10.OFPFF_SEND_FLOW_REM), decoded.Flags)
		require.Equal(t, []of10.Action{of10.ActionOutput{Port: 2}}, decoded.Actions)
		require.Equal(t, uint8(24), decoded.Match.Wildcards().SrcIP)
		require.Equal(t, f.Match().Descriptor(), MatchFromWire(decoded.Match).Descriptor())
	}
}

func TestFromWireStats(t *testing.T) {
	sw := flow.NewSwitch(dpid, openflow.OF10_VERSION)
	installed, err := FromDescriptor(decode(t, `{
		"match": {"in_port": 3, "dl_vlan": 105, "dl_vlan_pcp": 1, "dl_dst": "aa:bb:cc:dd:ee:ff", "nw_proto": 6, "tp_src": 22},
		"priority": 10,
		"hard_timeout": 60,
		"cookie": 1,
		"actions": [{"action_type": "set_dl_src", "dl_src": "11:22:33:44:55:66"}, {"action_type": "output", "port": 4}]
	}`), sw)
	require.NoError(t, err)

	mod, err := installed.AddCommand(1)
	require.NoError(t, err)
	wire := mod.(*of10.FlowMod)

	stats := of10.NewFlowStats()
	stats.SetMatch(wire.Match)
	stats.SetPriority(wire.Priority)
	stats.SetHardTimeout(wire.HardTimeout)
	stats.SetCookie(wire.Cookie)
	stats.SetCounters(12, 3400)
	stats.SetDuration(5, 0)
	stats.SetActions(append(wire.Actions, of10.ActionUnknown{ActionType: of10.OFPAT_SET_NW_TOS, Body: make([]byte, 4)}))

	reply, err := of10.NewFlowStatsReply(1, []*of10.FlowStats{stats})
	require.NoError(t, err)
	records, err := New().ParseStatsReply(reply)
	require.NoError(t, err)
	require.Len(t, records, 1)

	reported, err := New().FromWireStats(records[0], sw)
	require.NoError(t, err)
	require.Equal(t, installed.ID(), reported.ID())
	require.Equal(t, installed.MatchID(), reported.MatchID())

	ok, err := installed.Equal(reported)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, &flow.Stats{PacketCount: 12, ByteCount: 3400, DurationSec: 5}, reported.Stats())
	require.Equal(t, flow.Descriptor{
		"packet_count":  uint64(12),
		"byte_count":    uint64(3400),
		"duration_sec":  5,
		"duration_nsec": 0,
	}, reported.Descriptor(false)["stats"])

	require.Panics(t, func() { _, _ = New().FromWireStats(nil, sw) })
	require.Panics(t, func() { _, _ = FromWireStats(new(of10.FlowStats), sw) })
}
