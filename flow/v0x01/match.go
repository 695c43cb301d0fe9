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
	"github.com/pkg/errors"
	"github.com/superkkt/ofcore/flow"
	"github.com/superkkt/ofcore/openflow/of10"
)

// Match is an OpenFlow 1.0 flow match.
type Match struct {
	flow.Fields
}

func MatchFromDescriptor(d flow.Descriptor) (*Match, error) {
	fields, err := flow.ParseFields(d)
	if err != nil {
		return nil, err
	}
	if fields.Has(flow.FieldInPort) && fields.InPort > 0xffff {
		return nil, errors.Wrapf(flow.ErrInvalidField, "in_port: %v exceeds 16 bits", fields.InPort)
	}

	return &Match{Fields: fields}, nil
}

// MatchFromWire sets only the fields that are not wildcarded.
func MatchFromWire(m *of10.Match) *Match {
	r := new(Match)

	if wildcard, v := m.InPort(); !wildcard {
		r.SetInPort(uint32(v))
	}
	if wildcard, v := m.SrcMAC(); !wildcard {
		r.SetDLSrc(append([]byte(nil), v...))
	}
	if wildcard, v := m.DstMAC(); !wildcard {
		r.SetDLDst(append([]byte(nil), v...))
	}
	if wildcard, v := m.VLANID(); !wildcard {
		r.SetDLVLAN(v)
	}
	if wildcard, v := m.VLANPriority(); !wildcard {
		r.SetDLVLANPCP(v)
	}
	if wildcard, v := m.EtherType(); !wildcard {
		r.SetDLType(v)
	}
	if wildcard, v := m.IPProtocol(); !wildcard {
		r.SetNWProto(v)
	}
	if p := m.SrcIP(); p.Bits() > 0 {
		r.SetNWSrc(p)
	}
	if p := m.DstIP(); p.Bits() > 0 {
		r.SetNWDst(p)
	}
	if wildcard, v := m.SrcPort(); !wildcard {
		r.SetTPSrc(v)
	}
	if wildcard, v := m.DstPort(); !wildcard {
		r.SetTPDst(v)
	}

	return r
}

// ToWire returns the ofp_match with every absent field wildcarded.
func (r *Match) ToWire() (*of10.Match, error) {
	m := of10.NewMatch()

	if r.Has(flow.FieldInPort) {
		m.SetInPort(uint16(r.InPort))
	}
	if r.Has(flow.FieldDLSrc) {
		if err := m.SetSrcMAC(r.DLSrc); err != nil {
			return nil, errors.Wrap(flow.ErrInvalidMatchField, "dl_src")
		}
	}
	if r.Has(flow.FieldDLDst) {
		if err := m.SetDstMAC(r.DLDst); err != nil {
			return nil, errors.Wrap(flow.ErrInvalidMatchField, "dl_dst")
		}
	}
	if r.Has(flow.FieldDLVLAN) {
		m.SetVLANID(r.DLVLAN)
	}
	if r.Has(flow.FieldDLVLANPCP) {
		m.SetVLANPriority(r.DLVLANPCP)
	}
	if r.Has(flow.FieldDLType) {
		m.SetEtherType(r.DLType)
	}
	if r.Has(flow.FieldNWProto) {
		m.SetIPProtocol(r.NWProto)
	}
	if r.Has(flow.FieldNWSrc) {
		if err := m.SetSrcIP(r.NWSrc); err != nil {
			return nil, errors.Wrapf(flow.ErrInvalidMatchField, "nw_src: %v", r.NWSrc)
		}
	}
	if r.Has(flow.FieldNWDst) {
		if err := m.SetDstIP(r.NWDst); err != nil {
			return nil, errors.Wrapf(flow.ErrInvalidMatchField, "nw_dst: %v", r.NWDst)
		}
	}
	if r.Has(flow.FieldTPSrc) {
		m.SetSrcPort(r.TPSrc)
	}
	if r.Has(flow.FieldTPDst) {
		m.SetDstPort(r.TPDst)
	}

	return m, nil
}
