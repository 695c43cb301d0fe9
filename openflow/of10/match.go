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
	"net"
	"net/netip"

	"github.com/pkg/errors"
	"github.com/superkkt/ofcore/openflow"
)

// Wildcards is the decoded form of the ofp_match wildcards bitmap. A true flag
// means the corresponding field is ignored by the switch.
type Wildcards struct {
	InPort    bool
	VLANID    bool
	SrcMAC    bool
	DstMAC    bool
	EtherType bool
	Protocol  bool
	SrcPort   bool
	DstPort   bool
	// Number of least-significant bits of the IPv4 address to ignore. 0 is
	// an exact match and 32 or higher wildcards the entire field.
	SrcIP        uint8
	DstIP        uint8
	VLANPriority bool
	ToS          bool
}

func wildcardAll() Wildcards {
	return Wildcards{
		InPort:       true,
		VLANID:       true,
		SrcMAC:       true,
		DstMAC:       true,
		EtherType:    true,
		Protocol:     true,
		SrcPort:      true,
		DstPort:      true,
		SrcIP:        32,
		DstIP:        32,
		VLANPriority: true,
		ToS:          true,
	}
}

func (r Wildcards) bitmap() (uint32, error) {
	if r.SrcIP > 63 || r.DstIP > 63 {
		return 0, errors.New("invalid IP address wildcard bit count")
	}

	var v uint32
	flags := []struct {
		set bool
		bit uint32
	}{
		{r.InPort, OFPFW_IN_PORT},
		{r.VLANID, OFPFW_DL_VLAN},
		{r.SrcMAC, OFPFW_DL_SRC},
		{r.DstMAC, OFPFW_DL_DST},
		{r.EtherType, OFPFW_DL_TYPE},
		{r.Protocol, OFPFW_NW_PROTO},
		{r.SrcPort, OFPFW_TP_SRC},
		{r.DstPort, OFPFW_TP_DST},
		{r.VLANPriority, OFPFW_DL_VLAN_PCP},
		{r.ToS, OFPFW_NW_TOS},
	}
	for _, f := range flags {
		if f.set {
			v |= f.bit
		}
	}
	v |= uint32(r.SrcIP) << OFPFW_NW_SRC_SHIFT
	v |= uint32(r.DstIP) << OFPFW_NW_DST_SHIFT

	return v, nil
}

func parseWildcards(w uint32) Wildcards {
	return Wildcards{
		InPort:       w&OFPFW_IN_PORT != 0,
		VLANID:       w&OFPFW_DL_VLAN != 0,
		SrcMAC:       w&OFPFW_DL_SRC != 0,
		DstMAC:       w&OFPFW_DL_DST != 0,
		EtherType:    w&OFPFW_DL_TYPE != 0,
		Protocol:     w&OFPFW_NW_PROTO != 0,
		SrcPort:      w&OFPFW_TP_SRC != 0,
		DstPort:      w&OFPFW_TP_DST != 0,
		SrcIP:        uint8((w & OFPFW_NW_SRC_MASK) >> OFPFW_NW_SRC_SHIFT),
		DstIP:        uint8((w & OFPFW_NW_DST_MASK) >> OFPFW_NW_DST_SHIFT),
		VLANPriority: w&OFPFW_DL_VLAN_PCP != 0,
		ToS:          w&OFPFW_NW_TOS != 0,
	}
}

// Match is the fixed-size ofp_match structure.
type Match struct {
	wildcards    Wildcards
	inPort       uint16
	srcMAC       net.HardwareAddr
	dstMAC       net.HardwareAddr
	vlanID       uint16
	vlanPriority uint8
	etherType    uint16
	tos          uint8
	protocol     uint8
	srcIP        netip.Addr
	dstIP        netip.Addr
	srcPort      uint16
	dstPort      uint16
}

// NewMatch returns a Match whose fields are all wildcarded.
func NewMatch() *Match {
	return &Match{
		wildcards: wildcardAll(),
		srcMAC:    make(net.HardwareAddr, 6),
		dstMAC:    make(net.HardwareAddr, 6),
		srcIP:     netip.IPv4Unspecified(),
		dstIP:     netip.IPv4Unspecified(),
	}
}

func (r *Match) Wildcards() Wildcards {
	return r.wildcards
}

func (r *Match) SetInPort(port uint16) {
	r.inPort = port
	r.wildcards.InPort = false
}

func (r *Match) InPort() (wildcard bool, port uint16) {
	return r.wildcards.InPort, r.inPort
}

func (r *Match) SetSrcMAC(mac net.HardwareAddr) error {
	if len(mac) != 6 {
		return openflow.ErrInvalidMACAddress
	}
	r.srcMAC = append(net.HardwareAddr(nil), mac...)
	r.wildcards.SrcMAC = false

	return nil
}

func (r *Match) SrcMAC() (wildcard bool, mac net.HardwareAddr) {
	return r.wildcards.SrcMAC, r.srcMAC
}

func (r *Match) SetDstMAC(mac net.HardwareAddr) error {
	if len(mac) != 6 {
		return openflow.ErrInvalidMACAddress
	}
	r.dstMAC = append(net.HardwareAddr(nil), mac...)
	r.wildcards.DstMAC = false

	return nil
}

func (r *Match) DstMAC() (wildcard bool, mac net.HardwareAddr) {
	return r.wildcards.DstMAC, r.dstMAC
}

func (r *Match) SetVLANID(id uint16) {
	r.vlanID = id
	r.wildcards.VLANID = false
}

func (r *Match) VLANID() (wildcard bool, id uint16) {
	return r.wildcards.VLANID, r.vlanID
}

func (r *Match) SetVLANPriority(p uint8) {
	r.vlanPriority = p
	r.wildcards.VLANPriority = false
}

func (r *Match) VLANPriority() (wildcard bool, priority uint8) {
	return r.wildcards.VLANPriority, r.vlanPriority
}

func (r *Match) SetEtherType(t uint16) {
	r.etherType = t
	r.wildcards.EtherType = false
}

func (r *Match) EtherType() (wildcard bool, etherType uint16) {
	return r.wildcards.EtherType, r.etherType
}

func (r *Match) SetIPProtocol(p uint8) {
	r.protocol = p
	r.wildcards.Protocol = false
}

func (r *Match) IPProtocol() (wildcard bool, protocol uint8) {
	return r.wildcards.Protocol, r.protocol
}

func setPrefix(p netip.Prefix) (netip.Addr, uint8, error) {
	if !p.IsValid() || !p.Addr().Is4() {
		return netip.Addr{}, 0, openflow.ErrInvalidIPAddress
	}

	return p.Masked().Addr(), uint8(32 - p.Bits()), nil
}

func prefix(addr netip.Addr, wildcard uint8) netip.Prefix {
	bits := 32 - int(wildcard)
	if bits < 0 {
		bits = 0
	}

	return netip.PrefixFrom(addr, bits)
}

// SetSrcIP matches the IPv4 source address against p. The host part of p is cleared.
func (r *Match) SetSrcIP(p netip.Prefix) error {
	addr, w, err := setPrefix(p)
	if err != nil {
		return err
	}
	r.srcIP = addr
	r.wildcards.SrcIP = w

	return nil
}

// SrcIP returns the matched IPv4 source prefix. A zero length prefix means the
// field is wildcarded.
func (r *Match) SrcIP() netip.Prefix {
	return prefix(r.srcIP, r.wildcards.SrcIP)
}

func (r *Match) SetDstIP(p netip.Prefix) error {
	addr, w, err := setPrefix(p)
	if err != nil {
		return err
	}
	r.dstIP = addr
	r.wildcards.DstIP = w

	return nil
}

func (r *Match) DstIP() netip.Prefix {
	return prefix(r.dstIP, r.wildcards.DstIP)
}

func (r *Match) SetSrcPort(p uint16) {
	r.srcPort = p
	r.wildcards.SrcPort = false
}

func (r *Match) SrcPort() (wildcard bool, port uint16) {
	return r.wildcards.SrcPort, r.srcPort
}

func (r *Match) SetDstPort(p uint16) {
	r.dstPort = p
	r.wildcards.DstPort = false
}

func (r *Match) DstPort() (wildcard bool, port uint16) {
	return r.wildcards.DstPort, r.dstPort
}

func (r *Match) MarshalBinary() ([]byte, error) {
	wildcards, err := r.wildcards.bitmap()
	if err != nil {
		return nil, err
	}

	data := make([]byte, 40)
	binary.BigEndian.PutUint32(data[0:4], wildcards)
	binary.BigEndian.PutUint16(data[4:6], r.inPort)
	copy(data[6:12], r.srcMAC)
	copy(data[12:18], r.dstMAC)
	binary.BigEndian.PutUint16(data[18:20], r.vlanID)
	data[20] = r.vlanPriority
	// data[21] = padding
	binary.BigEndian.PutUint16(data[22:24], r.etherType)
	data[24] = r.tos
	data[25] = r.protocol
	// data[26:28] = padding
	if r.srcIP.Is4() {
		src := r.srcIP.As4()
		copy(data[28:32], src[:])
	}
	if r.dstIP.Is4() {
		dst := r.dstIP.As4()
		copy(data[32:36], dst[:])
	}
	binary.BigEndian.PutUint16(data[36:38], r.srcPort)
	binary.BigEndian.PutUint16(data[38:40], r.dstPort)

	return data, nil
}

func (r *Match) UnmarshalBinary(data []byte) error {
	if len(data) < 40 {
		return openflow.ErrInvalidPacketLength
	}

	r.wildcards = parseWildcards(binary.BigEndian.Uint32(data[0:4]))
	r.inPort = binary.BigEndian.Uint16(data[4:6])
	r.srcMAC = append(make(net.HardwareAddr, 0, 6), data[6:12]...)
	r.dstMAC = append(make(net.HardwareAddr, 0, 6), data[12:18]...)
	r.vlanID = binary.BigEndian.Uint16(data[18:20])
	r.vlanPriority = data[20]
	r.etherType = binary.BigEndian.Uint16(data[22:24])
	r.tos = data[24]
	r.protocol = data[25]
	r.srcIP = netip.AddrFrom4([4]byte(data[28:32]))
	r.dstIP = netip.AddrFrom4([4]byte(data[32:36]))
	r.srcPort = binary.BigEndian.Uint16(data[36:38])
	r.dstPort = binary.BigEndian.Uint16(data[38:40])

	return nil
}
