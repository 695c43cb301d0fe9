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

package v0x04

import (
	"encoding/binary"
	"net"

	"github.com/gopacket/gopacket/layers"
	"github.com/pkg/errors"
	"github.com/superkkt/ofcore/flow"
	"github.com/superkkt/ofcore/openflow/of13"
)

// Match is an OpenFlow 1.3 flow match.
type Match struct {
	flow.Fields
}

func MatchFromDescriptor(d flow.Descriptor) (*Match, error) {
	fields, err := flow.ParseFields(d)
	if err != nil {
		return nil, err
	}
	if fields.Has(flow.FieldDLVLAN) && fields.DLVLAN > 0x0FFF {
		return nil, errors.Wrapf(flow.ErrInvalidField, "dl_vlan: %v exceeds 12 bits", fields.DLVLAN)
	}

	return &Match{Fields: fields}, nil
}

// transportFields returns the OXM source and destination port fields for an
// IP protocol. TCP is used for anything but UDP and SCTP.
func transportFields(proto uint8) (src, dst uint8) {
	switch layers.IPProtocol(proto) {
	case layers.IPProtocolUDP:
		return of13.OFPXMT_OFB_UDP_SRC, of13.OFPXMT_OFB_UDP_DST
	case layers.IPProtocolSCTP:
		return of13.OFPXMT_OFB_SCTP_SRC, of13.OFPXMT_OFB_SCTP_DST
	default:
		return of13.OFPXMT_OFB_TCP_SRC, of13.OFPXMT_OFB_TCP_DST
	}
}

func vlanVID(vid uint16) uint16 {
	if vid == 0 {
		return of13.OFPVID_NONE
	}
	return vid&0x0FFF | of13.OFPVID_PRESENT
}

func prefixOXM(field uint8, r *Match, f flow.Field) (of13.OXM, error) {
	p := r.NWSrc
	if f == flow.FieldNWDst {
		p = r.NWDst
	}
	if !p.IsValid() || !p.Addr().Is4() {
		return of13.OXM{}, errors.Wrapf(flow.ErrInvalidMatchField, "%v: %v", f, p)
	}

	addr := p.Masked().Addr().As4()
	if p.Bits() == 32 {
		return of13.NewOXM(field, addr[:]), nil
	}

	return of13.NewMaskedOXM(field, addr[:], flow.Mask(p)), nil
}

// ToWire returns one OXM TLV per present field in ascending field order.
func (r *Match) ToWire() (*of13.Match, error) {
	m := of13.NewMatch()

	if r.Has(flow.FieldInPort) {
		m.Add(of13.Uint32OXM(of13.OFPXMT_OFB_IN_PORT, r.InPort))
	}
	if r.Has(flow.FieldDLDst) {
		if len(r.DLDst) != 6 {
			return nil, errors.Wrap(flow.ErrInvalidMatchField, "dl_dst")
		}
		m.Add(of13.NewOXM(of13.OFPXMT_OFB_ETH_DST, append([]byte(nil), r.DLDst...)))
	}
	if r.Has(flow.FieldDLSrc) {
		if len(r.DLSrc) != 6 {
			return nil, errors.Wrap(flow.ErrInvalidMatchField, "dl_src")
		}
		m.Add(of13.NewOXM(of13.OFPXMT_OFB_ETH_SRC, append([]byte(nil), r.DLSrc...)))
	}
	if r.Has(flow.FieldDLType) {
		m.Add(of13.Uint16OXM(of13.OFPXMT_OFB_ETH_TYPE, r.DLType))
	}
	if r.Has(flow.FieldDLVLAN) {
		m.Add(of13.Uint16OXM(of13.OFPXMT_OFB_VLAN_VID, vlanVID(r.DLVLAN)))
	}
	if r.Has(flow.FieldDLVLANPCP) {
		m.Add(of13.Uint8OXM(of13.OFPXMT_OFB_VLAN_PCP, r.DLVLANPCP))
	}
	if r.Has(flow.FieldNWProto) {
		m.Add(of13.Uint8OXM(of13.OFPXMT_OFB_IP_PROTO, r.NWProto))
	}
	if r.Has(flow.FieldNWSrc) {
		v, err := prefixOXM(of13.OFPXMT_OFB_IPV4_SRC, r, flow.FieldNWSrc)
		if err != nil {
			return nil, err
		}
		m.Add(v)
	}
	if r.Has(flow.FieldNWDst) {
		v, err := prefixOXM(of13.OFPXMT_OFB_IPV4_DST, r, flow.FieldNWDst)
		if err != nil {
			return nil, err
		}
		m.Add(v)
	}

	src, dst := transportFields(r.NWProto)
	if r.Has(flow.FieldTPSrc) {
		m.Add(of13.Uint16OXM(src, r.TPSrc))
	}
	if r.Has(flow.FieldTPDst) {
		m.Add(of13.Uint16OXM(dst, r.TPDst))
	}

	return m, nil
}

// MatchFromWire ignores entries of other OXM classes and fields that have no
// descriptor form.
func MatchFromWire(m *of13.Match) *Match {
	r := new(Match)

	for _, v := range m.Fields {
		if !v.IsBasic() {
			logger.Debugf("ignored an OXM entry of class 0x%04x", v.Class)
			continue
		}
		if !setField(r, v) {
			logger.Debugf("ignored an OXM entry: field=%v, value=%x, mask=%x", v.Field, v.Value, v.Mask)
		}
	}

	return r
}

func setField(r *Match, v of13.OXM) bool {
	switch v.Field {
	case of13.OFPXMT_OFB_IN_PORT:
		if v.HasMask() || len(v.Value) != 4 {
			return false
		}
		r.SetInPort(v.Uint32())
	case of13.OFPXMT_OFB_ETH_DST, of13.OFPXMT_OFB_ETH_SRC:
		if v.HasMask() || len(v.Value) != 6 {
			return false
		}
		mac := append(net.HardwareAddr(nil), v.Value...)
		if v.Field == of13.OFPXMT_OFB_ETH_SRC {
			r.SetDLSrc(mac)
		} else {
			r.SetDLDst(mac)
		}
	case of13.OFPXMT_OFB_ETH_TYPE:
		if v.HasMask() || len(v.Value) != 2 {
			return false
		}
		r.SetDLType(v.Uint16())
	case of13.OFPXMT_OFB_VLAN_VID:
		if v.HasMask() || len(v.Value) != 2 {
			return false
		}
		vid := v.Uint16()
		// VID 0 with the present bit matches any tagged packet, which has no
		// descriptor form. dl_vlan 0 means untagged.
		if vid == of13.OFPVID_PRESENT {
			return false
		}
		r.SetDLVLAN(vid & 0x0FFF)
	case of13.OFPXMT_OFB_VLAN_PCP:
		if v.HasMask() || len(v.Value) != 1 {
			return false
		}
		r.SetDLVLANPCP(v.Uint8())
	case of13.OFPXMT_OFB_IP_PROTO:
		if v.HasMask() || len(v.Value) != 1 {
			return false
		}
		r.SetNWProto(v.Uint8())
	case of13.OFPXMT_OFB_IPV4_SRC, of13.OFPXMT_OFB_IPV4_DST:
		if len(v.Value) != 4 {
			return false
		}
		mask := v.Mask
		if mask == nil {
			mask = []byte{0xFF, 0xFF, 0xFF, 0xFF}
		}
		p, err := flow.PrefixFromMask(v.Value, mask)
		if err != nil {
			return false
		}
		if v.Field == of13.OFPXMT_OFB_IPV4_SRC {
			r.SetNWSrc(p)
		} else {
			r.SetNWDst(p)
		}
	case of13.OFPXMT_OFB_TCP_SRC, of13.OFPXMT_OFB_UDP_SRC, of13.OFPXMT_OFB_SCTP_SRC:
		if v.HasMask() || len(v.Value) != 2 {
			return false
		}
		r.SetTPSrc(binary.BigEndian.Uint16(v.Value))
	case of13.OFPXMT_OFB_TCP_DST, of13.OFPXMT_OFB_UDP_DST, of13.OFPXMT_OFB_SCTP_DST:
		if v.HasMask() || len(v.Value) != 2 {
			return false
		}
		r.SetTPDst(binary.BigEndian.Uint16(v.Value))
	default:
		return false
	}

	return true
}
