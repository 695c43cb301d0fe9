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

package openflow

import (
	"encoding"
	"net"
)

type FlowModCmd uint8

const (
	FlowAdd FlowModCmd = iota
	FlowModify
	FlowDelete
)

func (r FlowModCmd) String() string {
	switch r {
	case FlowAdd:
		return "add"
	case FlowModify:
		return "modify"
	case FlowDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// FlowMod is a FLOW_MOD message ready to be written to a switch.
type FlowMod interface {
	Version() uint8
	TransactionID() uint32
	encoding.BinaryMarshaler
}

// FlowStats is a single flow entry reported by a switch in a flow statistics reply.
// Version specific accessors (match, actions, instructions) live on the concrete types.
type FlowStats interface {
	Version() uint8
	TableID() uint8
	Priority() uint16
	IdleTimeout() uint16
	HardTimeout() uint16
	Cookie() uint64
	DurationSec() uint32
	DurationNsec() uint32
	PacketCount() uint64
	ByteCount() uint64
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

type Port interface {
	Number() uint32
	MAC() net.HardwareAddr
	Name() string
	IsPortDown() bool
	IsLinkDown() bool
	// IsLocal returns whether this port is the switch's local networking stack (OFPP_LOCAL).
	IsLocal() bool
	// IsReserved returns whether the number is one of the reserved ports such
	// as LOCAL, CONTROLLER or FLOOD rather than a physical port.
	IsReserved() bool
	encoding.BinaryUnmarshaler
}
