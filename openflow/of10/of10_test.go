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
	"bytes"
	"encoding/hex"
	"net"
	"net/netip"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
)

func mustHex(t *testing.T, fields ...string) []byte {
	t.Helper()

	v, err := hex.DecodeString(strings.Join(fields, ""))
	if err != nil {
		t.Fatalf("invalid hex sample: %v", err)
	}

	return v
}

func TestFlowModMarshal(t *testing.T) {
	expected := mustHex(t,
		"010e005000000010", // header
		// ofp_match
		"003820fc", "0001", "000000000000", "000000000000", "0069", "00", "00",
		"0000", "00", "00", "0000", "00000000", "00000000", "0000", "0000",
		// cookie, command, idle, hard, priority, buffer, out_port, flags
		"0000000000000000", "0000", "0000", "0000", "8000", "ffffffff", "ffff", "0001",
		// output:2
		"00000008", "0002ffff",
	)

	mod := NewFlowMod(0x10, OFPFC_ADD)
	mod.Match.SetInPort(1)
	mod.Match.SetVLANID(105)
	mod.Priority = 0x8000
	mod.Actions = []Action{ActionOutput{Port: 2}}

	v, err := mod.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected FLOW_MOD marshal error: %v", err)
	}
	if bytes.Equal(v, expected) == false {
		t.Fatalf("unexpected marshaled FLOW_MOD: expected=%x, actual=%x", expected, v)
	}

	decoded := new(FlowMod)
	if err := decoded.UnmarshalBinary(v); err != nil {
		t.Fatalf("unexpected FLOW_MOD unmarshal error: %v", err)
	}
	if decoded.TransactionID() != 0x10 || decoded.Priority != 0x8000 || decoded.Command != OFPFC_ADD {
		t.Fatalf("unexpected decoded FLOW_MOD: %v", spew.Sdump(decoded))
	}
	if wildcard, port := decoded.Match.InPort(); wildcard || port != 1 {
		t.Fatalf("unexpected in_port: wildcard=%v, port=%v", wildcard, port)
	}
	if wildcard, vid := decoded.Match.VLANID(); wildcard || vid != 105 {
		t.Fatalf("unexpected dl_vlan: wildcard=%v, vid=%v", wildcard, vid)
	}
	if wildcard, _ := decoded.Match.SrcMAC(); wildcard == false {
		t.Fatalf("dl_src is expected to be wildcarded")
	}
	if diff := cmp.Diff([]Action{ActionOutput{Port: 2}}, decoded.Actions); diff != "" {
		t.Fatalf("unexpected decoded actions: diff=%v", diff)
	}
}

func TestMatchIPPrefix(t *testing.T) {
	samples := []struct {
		Prefix   string
		Wildcard uint8
		Expected string
	}{
		{"10.1.2.3/32", 0, "10.1.2.3/32"},
		{"10.1.2.3/24", 8, "10.1.2.0/24"},
		{"172.16.0.0/12", 20, "172.16.0.0/12"},
		{"0.0.0.0/0", 32, "0.0.0.0/0"},
	}

	for _, v := range samples {
		m := NewMatch()
		if err := m.SetSrcIP(netip.MustParsePrefix(v.Prefix)); err != nil {
			t.Fatalf("unexpected SetSrcIP error: %v", err)
		}
		if m.Wildcards().SrcIP != v.Wildcard {
			t.Fatalf("unexpected wildcard bit count: expected=%v, actual=%v", v.Wildcard, m.Wildcards().SrcIP)
		}

		data, err := m.MarshalBinary()
		if err != nil {
			t.Fatalf("unexpected match marshal error: %v", err)
		}
		decoded := new(Match)
		if err := decoded.UnmarshalBinary(data); err != nil {
			t.Fatalf("unexpected match unmarshal error: %v", err)
		}
		if decoded.SrcIP().String() != v.Expected {
			t.Fatalf("unexpected nw_src: expected=%v, actual=%v", v.Expected, decoded.SrcIP())
		}
		if decoded.DstIP().Bits() != 0 {
			t.Fatalf("nw_dst is expected to be wildcarded: %v", decoded.DstIP())
		}
	}

	if err := NewMatch().SetDstIP(netip.MustParsePrefix("2001:db8::/32")); err == nil {
		t.Fatalf("expected error for an IPv6 prefix")
	}
}

func TestActionsCodec(t *testing.T) {
	mac, _ := net.ParseMAC("00:11:22:33:44:55")
	actions := []Action{
		ActionSetVLANVID{VLANID: 7},
		ActionSetVLANPCP{Priority: 3},
		ActionStripVLAN{},
		ActionSetDLSrc{MAC: mac},
		ActionSetDLDst{MAC: mac},
		ActionEnqueue{Port: 4, QueueID: 9},
		ActionOutput{Port: OFPP_CONTROLLER},
	}

	data, err := MarshalActions(actions)
	if err != nil {
		t.Fatalf("unexpected actions marshal error: %v", err)
	}
	if len(data) != 8*4+16*3 {
		t.Fatalf("unexpected actions length: %v", len(data))
	}
	decoded, err := UnmarshalActions(data)
	if err != nil {
		t.Fatalf("unexpected actions unmarshal error: %v", err)
	}
	if diff := cmp.Diff(actions, decoded); diff != "" {
		t.Fatalf("unexpected decoded actions: diff=%v", diff)
	}

	// OFPAT_SET_NW_TOS is kept as an unknown entry.
	unknown, err := UnmarshalActions(mustHex(t, "00080008", "10000000"))
	if err != nil {
		t.Fatalf("unexpected actions unmarshal error: %v", err)
	}
	if len(unknown) != 1 || unknown[0].Type() != OFPAT_SET_NW_TOS {
		t.Fatalf("unexpected unknown action: %v", spew.Sdump(unknown))
	}

	if _, err := UnmarshalActions(mustHex(t, "00000010", "0002ffff")); err == nil {
		t.Fatalf("expected error for a truncated action")
	}
}

func TestFlowStatsReply(t *testing.T) {
	stats := NewFlowStats()
	stats.Match().SetInPort(3)
	stats.Match().SetEtherType(0x0800)
	stats.SetPriority(100)
	stats.SetIdleTimeout(30)
	stats.SetCookie(0xdeadbeef)
	stats.SetDuration(12, 500)
	stats.SetCounters(10, 1500)
	stats.SetActions([]Action{ActionOutput{Port: 1}})

	second := NewFlowStats()
	second.SetPriority(1)

	reply, err := NewFlowStatsReply(7, []*FlowStats{stats, second})
	if err != nil {
		t.Fatalf("unexpected stats reply marshal error: %v", err)
	}
	if len(reply) != 8+4+96+88 {
		t.Fatalf("unexpected stats reply length: %v", len(reply))
	}

	records, err := ParseFlowStatsReply(reply)
	if err != nil {
		t.Fatalf("unexpected stats reply parse error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("unexpected number of records: expected=2, actual=%v", len(records))
	}

	v := records[0]
	if v.Priority() != 100 || v.IdleTimeout() != 30 || v.Cookie() != 0xdeadbeef {
		t.Fatalf("unexpected decoded record: %v", spew.Sdump(v))
	}
	if v.DurationSec() != 12 || v.DurationNsec() != 500 || v.PacketCount() != 10 || v.ByteCount() != 1500 {
		t.Fatalf("unexpected decoded counters: %v", spew.Sdump(v))
	}
	if wildcard, port := v.Match().InPort(); wildcard || port != 3 {
		t.Fatalf("unexpected in_port: wildcard=%v, port=%v", wildcard, port)
	}
	if diff := cmp.Diff([]Action{ActionOutput{Port: 1}}, v.Actions()); diff != "" {
		t.Fatalf("unexpected decoded actions: diff=%v", diff)
	}
	if len(records[1].Actions()) != 0 || records[1].Priority() != 1 {
		t.Fatalf("unexpected second record: %v", spew.Sdump(records[1]))
	}

	// Truncate the last record.
	if _, err := ParseFlowStatsReply(fixLength(reply[:len(reply)-8])); err == nil {
		t.Fatalf("expected error for a truncated stats reply")
	}
}

// fixLength rewrites the header length after the message has been cut.
func fixLength(msg []byte) []byte {
	v := append([]byte(nil), msg...)
	v[2] = byte(len(v) >> 8)
	v[3] = byte(len(v))

	return v
}

func TestParsePorts(t *testing.T) {
	mac, _ := net.ParseMAC("02:00:00:00:00:01")
	ports := []*Port{
		NewPort(1, mac, "eth1", 0, 0),
		NewPort(2, mac, "eth2", 0, OFPPS_LINK_DOWN),
		NewPort(OFPP_LOCAL, mac, "br0", OFPPC_PORT_DOWN, OFPPS_LINK_DOWN),
	}

	data := make([]byte, 0)
	for _, p := range ports {
		b, err := p.MarshalBinary()
		if err != nil {
			t.Fatalf("unexpected port marshal error: %v", err)
		}
		data = append(data, b...)
	}

	decoded, err := ParsePorts(data)
	if err != nil {
		t.Fatalf("unexpected port parse error: %v", err)
	}
	if len(decoded) != 3 {
		t.Fatalf("unexpected number of ports: %v", len(decoded))
	}
	if decoded[0].Name() != "eth1" || decoded[0].IsLinkDown() || decoded[0].IsLocal() {
		t.Fatalf("unexpected first port: %v", spew.Sdump(decoded[0]))
	}
	if decoded[1].IsLinkDown() == false {
		t.Fatalf("second port is expected to be link down")
	}
	if decoded[2].IsLocal() == false || decoded[2].IsPortDown() == false || decoded[2].Number() != OFPP_LOCAL {
		t.Fatalf("unexpected local port: %v", spew.Sdump(decoded[2]))
	}
	if decoded[2].MAC().String() != "02:00:00:00:00:01" {
		t.Fatalf("unexpected MAC address: %v", decoded[2].MAC())
	}

	if _, err := ParsePorts(data[:50]); err == nil {
		t.Fatalf("expected error for a truncated port array")
	}
}
