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
	"strings"

	"github.com/pkg/errors"
)

// ParseMAC parses a colon separated Ethernet address.
func ParseMAC(key string, v interface{}) (net.HardwareAddr, error) {
	s, ok := v.(string)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidMatchField, "%v: %v is not a string", key, v)
	}

	mac, err := net.ParseMAC(s)
	if err != nil || len(mac) != 6 || strings.Count(s, ":") != 5 {
		return nil, errors.Wrapf(ErrInvalidMatchField, "%v: invalid MAC address %q", key, s)
	}

	return mac, nil
}

// ParsePrefix parses "a.b.c.d" or "a.b.c.d/len". A bare address is a /32
// prefix. The host part of the prefix is cleared.
func ParsePrefix(key string, v interface{}) (netip.Prefix, error) {
	s, ok := v.(string)
	if !ok {
		return netip.Prefix{}, errors.Wrapf(ErrInvalidMatchField, "%v: %v is not a string", key, v)
	}

	var p netip.Prefix
	var err error
	if strings.Contains(s, "/") {
		p, err = netip.ParsePrefix(s)
	} else {
		var addr netip.Addr
		addr, err = netip.ParseAddr(s)
		if err == nil {
			p = netip.PrefixFrom(addr, addr.BitLen())
		}
	}
	if err != nil {
		return netip.Prefix{}, errors.Wrapf(ErrInvalidMatchField, "%v: %v", key, err)
	}
	if !p.Addr().Is4() {
		return netip.Prefix{}, errors.Wrapf(ErrInvalidMatchField, "%v: %q is not an IPv4 address", key, s)
	}

	return p.Masked(), nil
}

// PrefixFromMask builds a prefix from an address and a contiguous netmask.
func PrefixFromMask(addr, mask []byte) (netip.Prefix, error) {
	ip, ok := netip.AddrFromSlice(addr)
	if !ok {
		return netip.Prefix{}, errors.Wrapf(ErrInvalidMatchField, "invalid address %x", addr)
	}
	ones, bits := net.IPMask(mask).Size()
	if bits == 0 {
		return netip.Prefix{}, errors.Wrapf(ErrInvalidMatchField, "non contiguous netmask %x", mask)
	}

	return netip.PrefixFrom(ip.Unmap(), ones).Masked(), nil
}

// Mask returns the netmask of an IPv4 prefix as 4 bytes.
func Mask(p netip.Prefix) []byte {
	return net.CIDRMask(p.Bits(), 32)
}
