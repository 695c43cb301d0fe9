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

// Connection is the negotiated OpenFlow session with a switch.
type Connection interface {
	ProtocolVersion() uint8
}

// Switch is the owner of a flow. Flows keep only its identifier.
type Switch interface {
	ID() string
	// Connection returns nil if the switch is not connected.
	Connection() Connection
}

type staticConnection uint8

func (r staticConnection) ProtocolVersion() uint8 {
	return uint8(r)
}

type staticSwitch struct {
	id   string
	conn Connection
}

// NewSwitch returns a Switch with a fixed identifier. A zero version yields a
// switch that has no active connection.
func NewSwitch(id string, version uint8) Switch {
	sw := &staticSwitch{id: id}
	if version != 0 {
		sw.conn = staticConnection(version)
	}

	return sw
}

func (r *staticSwitch) ID() string {
	return r.id
}

func (r *staticSwitch) Connection() Connection {
	return r.conn
}
