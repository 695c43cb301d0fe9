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
	"net"

	"github.com/pkg/errors"
	"github.com/superkkt/ofcore/flow"
	"github.com/superkkt/ofcore/openflow/of10"
)

// Action is one of the OpenFlow 1.0 actions below. The set is closed.
type Action interface {
	Descriptor() flow.Descriptor
	ToWire() (of10.Action, error)
	isAction()
}

// Action tags of a descriptor.
const (
	TagOutput     = "output"
	TagSetVLAN    = "set_vlan"
	TagSetVLANPCP = "set_vlan_pcp"
	TagPopVLAN    = "pop_vlan"
	TagSetDLSrc   = "set_dl_src"
	TagSetDLDst   = "set_dl_dst"
	TagSetQueue   = "set_queue"
)

type ActionOutput struct {
	Port uint16
}

func (ActionOutput) isAction() {}

func (r ActionOutput) Descriptor() flow.Descriptor {
	return flow.Descriptor{flow.KeyActionType: TagOutput, "port": int(r.Port)}
}

func (r ActionOutput) ToWire() (of10.Action, error) {
	return of10.ActionOutput{Port: r.Port}, nil
}

type ActionSetVLAN struct {
	VLANID uint16
}

func (ActionSetVLAN) isAction() {}

func (r ActionSetVLAN) Descriptor() flow.Descriptor {
	return flow.Descriptor{flow.KeyActionType: TagSetVLAN, "vlan_id": int(r.VLANID)}
}

func (r ActionSetVLAN) ToWire() (of10.Action, error) {
	return of10.ActionSetVLANVID{VLANID: r.VLANID}, nil
}

type ActionSetVLANPCP struct {
	Priority uint8
}

func (ActionSetVLANPCP) isAction() {}

func (r ActionSetVLANPCP) Descriptor() flow.Descriptor {
	return flow.Descriptor{flow.KeyActionType: TagSetVLANPCP, "vlan_pcp": int(r.Priority)}
}

func (r ActionSetVLANPCP) ToWire() (of10.Action, error) {
	return of10.ActionSetVLANPCP{Priority: r.Priority}, nil
}

// ActionPopVLAN strips the 802.1Q header.
type ActionPopVLAN struct{}

func (ActionPopVLAN) isAction() {}

func (r ActionPopVLAN) Descriptor() flow.Descriptor {
	return flow.Descriptor{flow.KeyActionType: TagPopVLAN}
}

func (r ActionPopVLAN) ToWire() (of10.Action, error) {
	return of10.ActionStripVLAN{}, nil
}

type ActionSetDLSrc struct {
	MAC net.HardwareAddr
}

func (ActionSetDLSrc) isAction() {}

func (r ActionSetDLSrc) Descriptor() flow.Descriptor {
	return flow.Descriptor{flow.KeyActionType: TagSetDLSrc, "dl_src": r.MAC.String()}
}

func (r ActionSetDLSrc) ToWire() (of10.Action, error) {
	return of10.ActionSetDLSrc{MAC: r.MAC}, nil
}

type ActionSetDLDst struct {
	MAC net.HardwareAddr
}

func (ActionSetDLDst) isAction() {}

func (r ActionSetDLDst) Descriptor() flow.Descriptor {
	return flow.Descriptor{flow.KeyActionType: TagSetDLDst, "dl_dst": r.MAC.String()}
}

func (r ActionSetDLDst) ToWire() (of10.Action, error) {
	return of10.ActionSetDLDst{MAC: r.MAC}, nil
}

// ActionSetQueue enqueues packets to a queue of an output port.
type ActionSetQueue struct {
	Port    uint16
	QueueID uint32
}

func (ActionSetQueue) isAction() {}

func (r ActionSetQueue) Descriptor() flow.Descriptor {
	return flow.Descriptor{flow.KeyActionType: TagSetQueue, "port": int(r.Port), "queue_id": int(r.QueueID)}
}

func (r ActionSetQueue) ToWire() (of10.Action, error) {
	return of10.ActionEnqueue{Port: r.Port, QueueID: r.QueueID}, nil
}

// ActionFromDescriptor returns ok == false if the entry has an unknown tag.
func ActionFromDescriptor(d flow.Descriptor) (act Action, ok bool, err error) {
	tag, _, err := d.Str(flow.KeyActionType)
	if err != nil {
		return nil, false, err
	}

	switch tag {
	case TagOutput:
		port, err := d.Uint16("port", 0)
		if err != nil {
			return nil, false, err
		}
		return ActionOutput{Port: port}, true, nil
	case TagSetVLAN:
		vid, err := d.Uint16("vlan_id", 0)
		if err != nil {
			return nil, false, err
		}
		return ActionSetVLAN{VLANID: vid}, true, nil
	case TagSetVLANPCP:
		pcp, err := d.Uint8("vlan_pcp", 0)
		if err != nil {
			return nil, false, err
		}
		return ActionSetVLANPCP{Priority: pcp}, true, nil
	case TagPopVLAN:
		return ActionPopVLAN{}, true, nil
	case TagSetDLSrc, TagSetDLDst:
		key := "dl_src"
		if tag == TagSetDLDst {
			key = "dl_dst"
		}
		mac, err := flow.ParseMAC(key, d[key])
		if err != nil {
			return nil, false, err
		}
		if tag == TagSetDLSrc {
			return ActionSetDLSrc{MAC: mac}, true, nil
		}
		return ActionSetDLDst{MAC: mac}, true, nil
	case TagSetQueue:
		port, err := d.Uint16("port", 0)
		if err != nil {
			return nil, false, err
		}
		queue, err := d.Uint32("queue_id", 0)
		if err != nil {
			return nil, false, err
		}
		return ActionSetQueue{Port: port, QueueID: queue}, true, nil
	default:
		return nil, false, nil
	}
}

// ActionFromWire returns ok == false for an action that has no descriptor form.
func ActionFromWire(a of10.Action) (act Action, ok bool) {
	switch v := a.(type) {
	case of10.ActionOutput:
		return ActionOutput{Port: v.Port}, true
	case of10.ActionSetVLANVID:
		return ActionSetVLAN{VLANID: v.VLANID}, true
	case of10.ActionSetVLANPCP:
		return ActionSetVLANPCP{Priority: v.Priority}, true
	case of10.ActionStripVLAN:
		return ActionPopVLAN{}, true
	case of10.ActionSetDLSrc:
		return ActionSetDLSrc{MAC: v.MAC}, true
	case of10.ActionSetDLDst:
		return ActionSetDLDst{MAC: v.MAC}, true
	case of10.ActionEnqueue:
		return ActionSetQueue{Port: v.Port, QueueID: v.QueueID}, true
	default:
		return nil, false
	}
}

func parseActions(entries []flow.Descriptor) ([]Action, error) {
	result := make([]Action, 0, len(entries))
	for i, e := range entries {
		act, ok, err := ActionFromDescriptor(e)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid action #%v", i)
		}
		if !ok {
			flow.DropUnknown("action", e)
			continue
		}
		result = append(result, act)
	}

	return result, nil
}

func actionDescriptors(actions []Action) []flow.Descriptor {
	result := make([]flow.Descriptor, len(actions))
	for i, act := range actions {
		result[i] = act.Descriptor()
	}

	return result
}
