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
	"github.com/op/go-logging"
	"github.com/superkkt/ofcore/openflow"
	"github.com/superkkt/ofcore/openflow/of10"
)

var logger = logging.MustGetLogger("port")

// Interface is the controller side state of a switch port.
type Interface interface {
	Activate()
	Deactivate()
}

// InterfaceRegistry keeps the interfaces of a switch.
type InterfaceRegistry interface {
	ID() string
	// UpdateOrCreateInterface returns the interface of p, creating it if it
	// does not exist yet.
	UpdateOrCreateInterface(p openflow.Port) Interface
}

// TryActivate activates the interface unless the link of its port is down. The
// local port is always activated. It returns whether the interface is active.
func TryActivate(iface Interface, p openflow.Port) bool {
	if p.IsLocal() || !p.IsLinkDown() {
		iface.Activate()
		return true
	}

	iface.Deactivate()
	return false
}

// HandlePortDesc registers every physical port and the local port of a port
// description and updates the state of their interfaces.
func HandlePortDesc(registry InterfaceRegistry, ports []openflow.Port) {
	for _, p := range ports {
		if p.IsReserved() && !p.IsLocal() {
			continue
		}

		iface := registry.UpdateOrCreateInterface(p)
		active := TryActivate(iface, p)
		logger.Debugf("Device=%v, PortNum=%v, AdminUp=%v, LinkUp=%v, Active=%v", registry.ID(), p.Number(), !p.IsPortDown(), !p.IsLinkDown(), active)
	}
}

// HandleFeaturesReply applies HandlePortDesc to the ports of an OpenFlow 1.0
// features reply.
func HandleFeaturesReply(registry InterfaceRegistry, reply *of10.FeaturesReply) {
	logger.Debugf("FEATURES_REPLY: DPID=%016x, NumTables=%v, NumPorts=%v", reply.DPID(), reply.NumTables(), len(reply.Ports()))
	HandlePortDesc(registry, reply.Ports())
}
