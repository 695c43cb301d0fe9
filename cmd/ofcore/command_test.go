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

package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/superkkt/ofcore/openflow/of13"
)

func init() {
	setDefaults()
}

func TestEncode(t *testing.T) {
	input := `{"match": {"in_port": 1}, "actions": [{"action_type": "output", "port": 2}]}`

	out := new(bytes.Buffer)
	if err := runEncode([]string{"-version", "1", "-xid", "7"}, strings.NewReader(input), out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := strings.TrimSpace(out.String())
	if len(s) != 160 || !strings.HasPrefix(s, "010e005000000007") {
		t.Fatalf("unexpected FLOW_MOD: %v", s)
	}

	out.Reset()
	if err := runEncode([]string{"-version", "4", "-command", "delete"}, strings.NewReader(input), out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := hex.DecodeString(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mod := new(of13.FlowMod)
	if err := mod.UnmarshalBinary(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mod.Command != of13.OFPFC_DELETE {
		t.Fatalf("unexpected command: expected=%v, actual=%v", of13.OFPFC_DELETE, mod.Command)
	}
	if len(mod.Instructions) != 1 {
		t.Fatalf("unexpected instructions: %v", mod.Instructions)
	}
}

func TestEncodeInvalid(t *testing.T) {
	samples := []struct {
		Args  []string
		Input string
	}{
		{[]string{"-command", "replace"}, `{}`},
		{[]string{"-version", "2"}, `{}`},
		{nil, `{"match": `},
		{nil, `{"match": {"dl_src": "zz"}}`},
	}

	for _, v := range samples {
		if err := runEncode(v.Args, strings.NewReader(v.Input), new(bytes.Buffer)); err == nil {
			t.Fatalf("expected an error: args=%v, input=%v", v.Args, v.Input)
		}
	}
}

func TestDescribe(t *testing.T) {
	input := `{"switch": "s1", "match": {"nw_src": "10.0.0.1"}, "cookie": 18446744073709551615}`

	out := new(bytes.Buffer)
	if err := runDescribe([]string{"-version", "4"}, strings.NewReader(input), out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var d map[string]interface{}
	dec := json.NewDecoder(out)
	dec.UseNumber()
	if err := dec.Decode(&d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, key := range []string{"id", "match_id"} {
		if s, ok := d[key].(string); !ok || len(s) != 32 {
			t.Fatalf("unexpected %v: %v", key, d[key])
		}
	}
	d = map[string]interface{}{
		"switch": d["switch"],
		"match":  d["match"],
		"cookie": d["cookie"],
	}
	expected := map[string]interface{}{
		"switch": "s1",
		"match":  map[string]interface{}{"nw_src": "10.0.0.1/32"},
		"cookie": json.Number("18446744073709551615"),
	}
	if diff := cmp.Diff(expected, d); diff != "" {
		t.Fatalf("unexpected descriptor (-expected +actual):\n%v", diff)
	}
}

func statsReply(t *testing.T, packets uint64) string {
	t.Helper()

	m := of13.NewMatch()
	m.Add(of13.Uint32OXM(of13.OFPXMT_OFB_IN_PORT, 1))
	stats := of13.NewFlowStats()
	stats.SetMatch(m)
	stats.SetCounters(packets, packets*100)
	reply, err := of13.NewFlowStatsReply(1, []*of13.FlowStats{stats})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return hex.EncodeToString(reply)
}

func TestDecodeStats(t *testing.T) {
	input := strings.Join([]string{
		statsReply(t, 1),
		"",
		statsReply(t, 1),
		statsReply(t, 2),
	}, "\n")

	out := new(bytes.Buffer)
	if err := runDecodeStats([]string{"-version", "4", "-switch", "s1"}, strings.NewReader(input), out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("unexpected output: %v", out.String())
	}
	for i, line := range lines {
		var d struct {
			Switch string `json:"switch"`
			Stats  struct {
				PacketCount uint64 `json:"packet_count"`
			} `json:"stats"`
		}
		if err := json.Unmarshal([]byte(line), &d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.Switch != "s1" || d.Stats.PacketCount != uint64(i+1) {
			t.Fatalf("unexpected flow #%v: %v", i, line)
		}
	}

	if err := runDecodeStats(nil, strings.NewReader("0x04"), new(bytes.Buffer)); err == nil {
		t.Fatal("expected an error for an invalid hex input")
	}
}

func TestBinary(t *testing.T) {
	input := `{"match": {"in_port": 1}, "actions": [{"action_type": "output", "port": 2}]}`

	out := new(bytes.Buffer)
	if err := runEncode([]string{"-version", "1", "-binary"}, strings.NewReader(input), out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 80 || out.Bytes()[0] != 0x01 || out.Bytes()[1] != 0x0e {
		t.Fatalf("unexpected FLOW_MOD: %x", out.Bytes())
	}

	raw := new(bytes.Buffer)
	for _, packets := range []uint64{1, 1, 3} {
		data, err := hex.DecodeString(statsReply(t, packets))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		raw.Write(data)
	}
	out.Reset()
	if err := runDecodeStats([]string{"-version", "4", "-binary"}, raw, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(out.String()), "\n"); len(lines) != 2 {
		t.Fatalf("unexpected output: %v", out.String())
	}

	truncated, err := hex.DecodeString(statsReply(t, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := runDecodeStats([]string{"-binary"}, bytes.NewReader(truncated[:20]), new(bytes.Buffer)); err == nil {
		t.Fatal("expected an error for a truncated message")
	}
}
