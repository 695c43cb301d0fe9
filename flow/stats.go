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
	"github.com/superkkt/ofcore/openflow"
)

// Stats is the counter snapshot a switch reported for an installed flow.
type Stats struct {
	PacketCount  uint64
	ByteCount    uint64
	DurationSec  uint32
	DurationNsec uint32
}

const (
	KeyPacketCount  = "packet_count"
	KeyByteCount    = "byte_count"
	KeyDurationSec  = "duration_sec"
	KeyDurationNsec = "duration_nsec"
)

func StatsFromWire(stats openflow.FlowStats) *Stats {
	return &Stats{
		PacketCount:  stats.PacketCount(),
		ByteCount:    stats.ByteCount(),
		DurationSec:  stats.DurationSec(),
		DurationNsec: stats.DurationNsec(),
	}
}

// ParseStats returns nil for an empty mapping.
func ParseStats(d Descriptor) (*Stats, error) {
	if len(d) == 0 {
		return nil, nil
	}

	var err error
	v := new(Stats)
	if v.PacketCount, err = d.Uint64(KeyPacketCount, 0); err != nil {
		return nil, err
	}
	if v.ByteCount, err = d.Uint64(KeyByteCount, 0); err != nil {
		return nil, err
	}
	if v.DurationSec, err = d.Uint32(KeyDurationSec, 0); err != nil {
		return nil, err
	}
	if v.DurationNsec, err = d.Uint32(KeyDurationNsec, 0); err != nil {
		return nil, err
	}

	return v, nil
}

// Descriptor returns an empty mapping for a nil snapshot.
func (r *Stats) Descriptor() Descriptor {
	if r == nil {
		return Descriptor{}
	}

	return Descriptor{
		KeyPacketCount:  r.PacketCount,
		KeyByteCount:    r.ByteCount,
		KeyDurationSec:  int(r.DurationSec),
		KeyDurationNsec: int(r.DurationNsec),
	}
}
