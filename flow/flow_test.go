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

package flow

import (
	"encoding/json"
	"net/netip"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/superkkt/ofcore/openflow"
)

func TestDescriptorCoercion(t *testing.T) {
	var decoded Descriptor
	err := json.NewDecoder(strings.NewReader(`{"a": 7, "b": 70000, "c": 1.5, "d": -1}`)).Decode(&decoded)
	require.NoError(t, err)

	v, err := decoded.Uint16("a", 0)
	require.NoError(t, err)
	require.Equal(t, uint16(7), v)

	_, err = decoded.Uint16("b", 0)
	require.True(t, errors.Is(err, ErrInvalidField))
	v32, err := decoded.Uint32("b", 0)
	require.NoError(t, err)
	require.Equal(t, uint32(70000), v32)

	_, err = decoded.Uint8("c", 0)
	require.True(t, errors.Is(err, ErrInvalidField))
	_, err = decoded.Uint8("d", 0)
	require.True(t, errors.Is(err, ErrInvalidField))

	def, err := decoded.Uint16("missing", 0x8000)
	require.NoError(t, err)
	require.Equal(t, uint16(0x8000), def)

	native := Descriptor{"x": int8(3), "y": uint64(1 << 40), "z": json.Number("18446744073709551615")}
	x, err := native.Uint8("x", 0)
	require.NoError(t, err)
	require.Equal(t, uint8(3), x)
	y, err := native.Uint64("y", 0)
	require.NoError(t, err)
	require.Equal(t, uint64(1<<40), y)
	z, err := native.Uint64("z", 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0xffffffffffffffff), z)

	_, _, err = Descriptor{"s": 1}.Str("s")
	require.Error(t, err)
}

func TestDescriptorEntries(t *testing.T) {
	var d Descriptor
	err := json.Unmarshal([]byte(`{"actions": [{"action_type": "output", "port": 1}], "bad": [1], "match": {"in_port": 1}}`), &d)
	require.NoError(t, err)

	entries, ok, err := d.Entries("actions")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, entries, 1)
	tag, _, err := entries[0].Str(KeyActionType)
	require.NoError(t, err)
	require.Equal(t, "output", tag)

	_, ok, err = d.Entries("bad")
	require.True(t, ok)
	require.True(t, errors.Is(err, ErrInvalidField))

	_, ok, err = d.Entries("missing")
	require.NoError(t, err)
	require.False(t, ok)

	match, ok, err := d.Sub("match")
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, match, "in_port")

	typed := Descriptor{"list": []Descriptor{{"a": 1}}, "maps": []map[string]interface{}{{"b": 2}}}
	l, _, err := typed.Entries("list")
	require.NoError(t, err)
	require.Len(t, l, 1)
	m, _, err := typed.Entries("maps")
	require.NoError(t, err)
	require.Equal(t, 2, m[0]["b"])
}

func TestAddress(t *testing.T) {
	mac, err := ParseMAC("dl_src", "11:22:33:AA:BB:CC")
	require.NoError(t, err)
	require.Equal(t, "11:22:33:aa:bb:cc", mac.String())

	for _, v := range []interface{}{"11:22:33:44:55", "11-22-33-44-55-66", "zz:22:33:44:55:66", 12} {
		_, err := ParseMAC("dl_src", v)
		require.Truef(t, errors.Is(err, ErrInvalidMatchField), "input=%v", v)
	}

	samples := []struct {
		Input    string
		Expected string
	}{
		{"1.2.3.4", "1.2.3.4/32"},
		{"1.2.3.4/32", "1.2.3.4/32"},
		{"5.6.7.8/24", "5.6.7.0/24"},
		{"0.0.0.0/0", "0.0.0.0/0"},
	}
	for _, v := range samples {
		p, err := ParsePrefix("nw_src", v.Input)
		require.NoError(t, err)
		require.Equal(t, v.Expected, p.String())
	}

	for _, v := range []string{"1.2.3", "1.2.3.4/33", "::1", "1.2.3.4/x"} {
		_, err := ParsePrefix("nw_dst", v)
		require.Truef(t, errors.Is(err, ErrInvalidMatchField), "input=%v", v)
	}

	p, err := PrefixFromMask([]byte{5, 6, 7, 9}, []byte{255, 255, 255, 0})
	require.NoError(t, err)
	require.Equal(t, "5.6.7.0/24", p.String())
	require.Equal(t, []byte{255, 255, 255, 0}, Mask(p))

	_, err = PrefixFromMask([]byte{5, 6, 7, 9}, []byte{255, 0, 255, 0})
	require.Error(t, err)
}

func TestFieldsEqual(t *testing.T) {
	parse := func(d Descriptor) *Fields {
		v, err := ParseFields(d)
		require.NoError(t, err)
		return &v
	}

	var built Fields
	built.SetInPort(1)
	built.SetNWSrc(netip.MustParsePrefix("1.2.3.4/32"))

	samples := []struct {
		A, B  *Fields
		Equal bool
	}{
		{parse(Descriptor{"in_port": 1, "nw_src": "1.2.3.4"}), parse(Descriptor{"nw_src": "1.2.3.4/32", "in_port": float64(1)}), true},
		{parse(Descriptor{"in_port": 1, "nw_src": "1.2.3.4"}), &built, true},
		{parse(Descriptor{"nw_dst": "5.6.7.8/24"}), parse(Descriptor{"nw_dst": "5.6.7.0/24"}), true},
		{parse(Descriptor{}), parse(Descriptor{"unknown": 1}), true},
		{parse(Descriptor{"in_port": 1}), parse(Descriptor{"in_port": 2}), false},
		// dl_vlan 0 is a predicate on untagged packets, not a wildcard.
		{parse(Descriptor{"in_port": 1}), parse(Descriptor{"in_port": 1, "dl_vlan": 0}), false},
		{parse(Descriptor{}), parse(Descriptor{"tp_dst": 80}), false},
	}
	for i, v := range samples {
		require.Equalf(t, v.Equal, v.A.Equal(v.B), "sample #%v", i)
		require.Equalf(t, v.Equal, v.B.Equal(v.A), "sample #%v reversed", i)
	}
}

// Addresses are normalized once: the descriptor of a parsed match parses back
// to the same descriptor.
func TestFieldsNormalization(t *testing.T) {
	first, err := ParseFields(Descriptor{"nw_src": "1.2.3.4", "nw_dst": "5.6.7.8/24"})
	require.NoError(t, err)
	d := first.Descriptor()
	require.Equal(t, Descriptor{"nw_src": "1.2.3.4/32", "nw_dst": "5.6.7.0/24"}, d)

	second, err := ParseFields(d)
	require.NoError(t, err)
	require.Equal(t, d, second.Descriptor())
	require.True(t, first.Equal(&second))
}

func TestIdentify(t *testing.T) {
	base := Descriptor{
		KeySwitch:   "00:00:00:00:00:00:00:01",
		KeyTableID:  0,
		KeyMatch:    Descriptor{"in_port": 1},
		KeyPriority: 0x8000,
		KeyCookie:   uint64(0),
		KeyStats:    Descriptor{},
	}

	a, err := Identify(base)
	require.NoError(t, err)
	require.Len(t, a.ID, 32)

	withStats := base.Without(KeyStats)
	withStats[KeyStats] = Descriptor{KeyPacketCount: uint64(10)}
	withStats[KeyCookieMask] = uint64(0xff)
	b, err := Identify(withStats)
	require.NoError(t, err)
	require.Equal(t, a, b)

	other := base.Without(KeyPriority)
	other[KeyPriority] = 1
	c, err := Identify(other)
	require.NoError(t, err)
	require.NotEqual(t, a.ID, c.ID)
	require.Equal(t, a.MatchID, c.MatchID)

	cookie := base.Without(KeyCookie)
	cookie[KeyCookie] = uint64(0x10)
	d, err := Identify(cookie)
	require.NoError(t, err)
	require.NotEqual(t, a.MatchID, d.MatchID)

	require.True(t, EqualDescriptors(base, withStats.Without(KeyCookieMask)))
	require.False(t, EqualDescriptors(base, other))
}

func TestStats(t *testing.T) {
	s, err := ParseStats(Descriptor{})
	require.NoError(t, err)
	require.Nil(t, s)
	require.Equal(t, Descriptor{}, s.Descriptor())

	s, err = ParseStats(Descriptor{KeyPacketCount: 3, KeyByteCount: 300, KeyDurationSec: 1})
	require.NoError(t, err)
	require.Equal(t, &Stats{PacketCount: 3, ByteCount: 300, DurationSec: 1}, s)

	_, err = ParseStats(Descriptor{KeyDurationNsec: -1})
	require.Error(t, err)
}

func TestSwitch(t *testing.T) {
	sw := NewSwitch("dpid", openflow.OF13_VERSION)
	require.Equal(t, "dpid", sw.ID())
	require.NotNil(t, sw.Connection())
	require.Equal(t, uint8(openflow.OF13_VERSION), sw.Connection().ProtocolVersion())

	require.Nil(t, NewSwitch("dpid", 0).Connection())
}

type fakeFlow struct {
	Flow
	id    string
	stats *Stats
}

func (r *fakeFlow) ID() string {
	return r.id
}

func (r *fakeFlow) Stats() *Stats {
	return r.stats
}

func TestDedupSink(t *testing.T) {
	var mutex sync.Mutex
	delivered := make([]string, 0)
	next := SinkFunc(func(f Flow) {
		mutex.Lock()
		defer mutex.Unlock()
		delivered = append(delivered, f.ID())
	})

	sink := NewDedupSink(next, 16, time.Hour)
	sink.Deliver(&fakeFlow{id: "a", stats: &Stats{PacketCount: 1}})
	sink.Deliver(&fakeFlow{id: "a", stats: &Stats{PacketCount: 1}})
	sink.Deliver(&fakeFlow{id: "a", stats: &Stats{PacketCount: 2}})
	sink.Deliver(&fakeFlow{id: "b"})
	sink.Deliver(&fakeFlow{id: "b"})
	require.Equal(t, []string{"a", "a", "b"}, delivered)

	sink.Purge()
	sink.Deliver(&fakeFlow{id: "b"})
	require.Equal(t, []string{"a", "a", "b", "b"}, delivered)

	expiring := NewDedupSink(next, 16, 0)
	expiring.Deliver(&fakeFlow{id: "c"})
	time.Sleep(time.Millisecond)
	expiring.Deliver(&fakeFlow{id: "c"})
	require.Equal(t, []string{"a", "a", "b", "b", "c", "c"}, delivered)
}
