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
	"net"
	"net/netip"
)

// Field is a match predicate name of a flow descriptor.
type Field uint

const (
	FieldInPort Field = iota
	FieldDLSrc
	FieldDLDst
	FieldDLVLAN
	FieldDLVLANPCP
	FieldDLType
	FieldNWProto
	FieldNWSrc
	FieldNWDst
	FieldTPSrc
	FieldTPDst
	numFields
)

var fieldNames = [numFields]string{
	FieldInPort:    "in_port",
	FieldDLSrc:     "dl_src",
	FieldDLDst:     "dl_dst",
	FieldDLVLAN:    "dl_vlan",
	FieldDLVLANPCP: "dl_vlan_pcp",
	FieldDLType:    "dl_type",
	FieldNWProto:   "nw_proto",
	FieldNWSrc:     "nw_src",
	FieldNWDst:     "nw_dst",
	FieldTPSrc:     "tp_src",
	FieldTPDst:     "tp_dst",
}

func (r Field) String() string {
	if r >= numFields {
		return "unknown"
	}
	return fieldNames[r]
}

// Fields is the version independent content of a match. Only the fields
// marked as present are matched; all others are wildcards.
type Fields struct {
	present   uint16
	InPort    uint32
	DLSrc     net.HardwareAddr
	DLDst     net.HardwareAddr
	DLVLAN    uint16
	DLVLANPCP uint8
	DLType    uint16
	NWProto   uint8
	NWSrc     netip.Prefix
	NWDst     netip.Prefix
	TPSrc     uint16
	TPDst     uint16
}

func (r *Fields) Has(f Field) bool {
	return r.present&(1<<f) != 0
}

func (r *Fields) mark(f Field) {
	r.present |= 1 << f
}

func (r *Fields) SetInPort(v uint32) {
	r.InPort = v
	r.mark(FieldInPort)
}

func (r *Fields) SetDLSrc(v net.HardwareAddr) {
	r.DLSrc = v
	r.mark(FieldDLSrc)
}

func (r *Fields) SetDLDst(v net.HardwareAddr) {
	r.DLDst = v
	r.mark(FieldDLDst)
}

func (r *Fields) SetDLVLAN(v uint16) {
	r.DLVLAN = v
	r.mark(FieldDLVLAN)
}

func (r *Fields) SetDLVLANPCP(v uint8) {
	r.DLVLANPCP = v
	r.mark(FieldDLVLANPCP)
}

func (r *Fields) SetDLType(v uint16) {
	r.DLType = v
	r.mark(FieldDLType)
}

func (r *Fields) SetNWProto(v uint8) {
	r.NWProto = v
	r.mark(FieldNWProto)
}

func (r *Fields) SetNWSrc(v netip.Prefix) {
	r.NWSrc = v
	r.mark(FieldNWSrc)
}

func (r *Fields) SetNWDst(v netip.Prefix) {
	r.NWDst = v
	r.mark(FieldNWDst)
}

func (r *Fields) SetTPSrc(v uint16) {
	r.TPSrc = v
	r.mark(FieldTPSrc)
}

func (r *Fields) SetTPDst(v uint16) {
	r.TPDst = v
	r.mark(FieldTPDst)
}

// ParseFields reads the match sub-mapping of a flow descriptor. Unknown keys
// are ignored.
func ParseFields(d Descriptor) (Fields, error) {
	var r Fields
	var err error

	for f := Field(0); f < numFields; f++ {
		key := f.String()
		v, ok := d[key]
		if !ok || v == nil {
			continue
		}

		switch f {
		case FieldInPort:
			var port uint32
			if port, err = d.Uint32(key, 0); err == nil {
				r.SetInPort(port)
			}
		case FieldDLSrc, FieldDLDst:
			var mac net.HardwareAddr
			if mac, err = ParseMAC(key, v); err == nil {
				if f == FieldDLSrc {
					r.SetDLSrc(mac)
				} else {
					r.SetDLDst(mac)
				}
			}
		case FieldDLVLAN:
			var vid uint16
			if vid, err = d.Uint16(key, 0); err == nil {
				r.SetDLVLAN(vid)
			}
		case FieldDLVLANPCP:
			var pcp uint8
			if pcp, err = d.Uint8(key, 0); err == nil {
				r.SetDLVLANPCP(pcp)
			}
		case FieldDLType:
			var t uint16
			if t, err = d.Uint16(key, 0); err == nil {
				r.SetDLType(t)
			}
		case FieldNWProto:
			var proto uint8
			if proto, err = d.Uint8(key, 0); err == nil {
				r.SetNWProto(proto)
			}
		case FieldNWSrc, FieldNWDst:
			var p netip.Prefix
			if p, err = ParsePrefix(key, v); err == nil {
				if f == FieldNWSrc {
					r.SetNWSrc(p)
				} else {
					r.SetNWDst(p)
				}
			}
		case FieldTPSrc:
			var port uint16
			if port, err = d.Uint16(key, 0); err == nil {
				r.SetTPSrc(port)
			}
		case FieldTPDst:
			var port uint16
			if port, err = d.Uint16(key, 0); err == nil {
				r.SetTPDst(port)
			}
		}
		if err != nil {
			return Fields{}, err
		}
	}

	return r, nil
}

// Descriptor returns only the fields that are present.
func (r *Fields) Descriptor() Descriptor {
	d := make(Descriptor)
	for f := Field(0); f < numFields; f++ {
		if !r.Has(f) {
			continue
		}

		key := f.String()
		switch f {
		case FieldInPort:
			d[key] = int(r.InPort)
		case FieldDLSrc:
			d[key] = r.DLSrc.String()
		case FieldDLDst:
			d[key] = r.DLDst.String()
		case FieldDLVLAN:
			d[key] = int(r.DLVLAN)
		case FieldDLVLANPCP:
			d[key] = int(r.DLVLANPCP)
		case FieldDLType:
			d[key] = int(r.DLType)
		case FieldNWProto:
			d[key] = int(r.NWProto)
		case FieldNWSrc:
			d[key] = r.NWSrc.String()
		case FieldNWDst:
			d[key] = r.NWDst.String()
		case FieldTPSrc:
			d[key] = int(r.TPSrc)
		case FieldTPDst:
			d[key] = int(r.TPDst)
		}
	}

	return d
}

// Equal reports whether both matches have the same set of predicates.
func (r *Fields) Equal(other *Fields) bool {
	a, b := r.Descriptor(), other.Descriptor()
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}

	return true
}
