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

package port

import (
	"encoding/binary"
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/superkkt/ofcore/openflow"
	"github.com/superkkt/ofcore/openflow/of10"
	"github.com/superkkt/ofcore/openflow/of13"
)

type fakeInterface struct {
	activated   int
	deactivated int
}

func (r *fakeInterface) Activate() {
	r.activated++
}

func (r *fakeInterface) Deactivate() {
	r.deactivated++
}

type fakeRegistry struct {
	interfaces map[uint32]*fakeInterface
	updates    int
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{interfaces: make(map[uint32]*fakeInterface)}
}

func (r *fakeRegistry) ID() string {
	return "00:00:00:00:00:00:00:01"
}

func (r *fakeRegistry) UpdateOrCreateInterface(p openflow.Port) Interface {
	r.updates++
	iface, ok := r.interfaces[p.Number()]
	if !ok {
		iface = new(fakeInterface)
		r.interfaces[p.Number()] = iface
	}

	return iface
}

// state returns true for an active interface.
func (r *fakeRegistry) state() map[uint32]bool {
	result := make(map[uint32]bool)
	for n, iface := range r.interfaces {
		result[n] = iface.activated > iface.deactivated
	}

	return result
}

var mac = net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}

func TestTryActivate(t *testing.T) {
	samples := []struct {
		State    uint32
		Number   uint32
		Activate bool
	}{
		{of13.OFPPS_LIVE, 1, true},
		{of13.OFPPS_LINK_DOWN, of13.OFPP_LOCAL, true},
		{of13.OFPPS_LINK_DOWN, 2, false},
	}

	for _, v := range samples {
		iface := new(fakeInterface)
		active := TryActivate(iface, of13.NewPort(v.Number, mac, "eth", 0, v.State))
		if active != v.Activate {
			t.Fatalf("unexpected activation: port=%v, expected=%v, actual=%v", v.Number, v.Activate, active)
		}
		if v.Activate && (iface.activated != 1 || iface.deactivated != 0) {
			t.Fatalf("interface is not activated: port=%v, activated=%v, deactivated=%v", v.Number, iface.activated, iface.deactivated)
		}
		if !v.Activate && (iface.activated != 0 || iface.deactivated != 1) {
			t.Fatalf("interface is not deactivated: port=%v, activated=%v, deactivated=%v", v.Number, iface.activated, iface.deactivated)
		}
	}
}

func TestHandlePortDesc(t *testing.T) {
	ports := []*of13.Port{
		of13.NewPort(of13.OFPP_LOCAL, mac, "br0", 0, of13.OFPPS_LINK_DOWN),
		of13.NewPort(1, mac, "eth1", 0, of13.OFPPS_LIVE),
		of13.NewPort(2, mac, "eth2", 0, of13.OFPPS_LINK_DOWN),
		of13.NewPort(of13.OFPP_CONTROLLER, mac, "controller", 0, 0),
	}
	reply, err := of13.NewPortDescReply(1, ports)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parsed, err := of13.ParsePortDescReply(reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	registry := newFakeRegistry()
	HandlePortDesc(registry, parsed)

	if registry.updates != 3 {
		t.Fatalf("unexpected number of interface updates: expected=3, actual=%v", registry.updates)
	}
	expected := map[uint32]bool{of13.OFPP_LOCAL: true, 1: true, 2: false}
	if diff := cmp.Diff(expected, registry.state()); diff != "" {
		t.Fatalf("unexpected interface state (-expected +actual):\n%v", diff)
	}
}

func TestHandleFeaturesReply(t *testing.T) {
	payload := make([]byte, 24)
	binary.BigEndian.PutUint64(payload[0:8], 0x1)
	payload[12] = 254
	for _, p := range []*of10.Port{
		of10.NewPort(1, mac, "eth1", 0, 0),
		of10.NewPort(2, mac, "eth2", of10.OFPPC_PORT_DOWN, of10.OFPPS_LINK_DOWN),
		of10.NewPort(of10.OFPP_LOCAL, mac, "br0", 0, of10.OFPPS_LINK_DOWN),
		of10.NewPort(of10.OFPP_FLOOD, mac, "flood", 0, 0),
	} {
		v, err := p.MarshalBinary()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		payload = append(payload, v...)
	}

	msg := openflow.NewMessage(openflow.OF10_VERSION, of10.OFPT_FEATURES_REPLY, 1)
	msg.SetPayload(payload)
	data, err := msg.MarshalBinary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reply := new(of10.FeaturesReply)
	if err := reply.UnmarshalBinary(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	registry := newFakeRegistry()
	HandleFeaturesReply(registry, reply)

	expected := map[uint32]bool{1: true, 2: false, of10.OFPP_LOCAL: true}
	if diff := cmp.Diff(expected, registry.state()); diff != "" {
		t.Fatalf("unexpected interface state (-expected +actual):\n%v", diff)
	}
}
