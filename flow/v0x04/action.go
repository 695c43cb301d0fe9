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
	"net"

	"github.com/gopacket/gopacket/layers"
	"github.com/pkg/errors"
	"github.com/superkkt/ofcore/flow"
	"github.com/superkkt/ofcore/openflow/of13"
)

// Action is one of the OpenFlow 1.3 actions below. The set is closed.
type Action interface {
	Descriptor() flow.Descriptor
	ToWire() (of13.Action, error)
	isAction()
}

const (
	TagOutput     = "output"
	TagSetVLAN    = "set_vlan"
	TagSetVLANPCP = "set_vlan_pcp"
	TagPushVLAN   = "push_vlan"
	TagPopVLAN    = "pop_vlan"
	TagSetQueue   = "set_queue"
	TagSetDLSrc   = "set_dl_src"
	TagSetDLDst   = "set_dl_dst"
)

// VLAN tag types of a push_vlan action.
const (
	TagTypeCustomer = "c"
	TagTypeService  = "s"
)

type ActionOutput struct {
	Port uint32
}

func (ActionOutput) isAction() {}

func (r ActionOutput) Descriptor() flow.Descriptor {
	return flow.Descriptor{flow.KeyActionType: TagOutput, "port": int(r.Port)}
}

func (r ActionOutput) ToWire() (of13.Action, error) {
	return of13.ActionOutput{Port: r.Port}, nil
}

// ActionSetVLAN rewrites the VLAN ID of the outermost tag.
type ActionSetVLAN struct {
	VLANID uint16
}

func (ActionSetVLAN) isAction() {}

func (r ActionSetVLAN) Descriptor() flow.Descriptor {
	return flow.Descriptor{flow.KeyActionType: TagSetVLAN, "vlan_id": int(r.VLANID)}
}

func (r ActionSetVLAN) ToWire() (of13.Action, error) {
	if r.VLANID > 0x0FFF {
		return nil, errors.Wrapf(flow.ErrInvalidField, "vlan_id: %v exceeds 12 bits", r.VLANID)
	}
	return of13.ActionSetField{Field: of13.Uint16OXM(of13.OFPXMT_OFB_VLAN_VID, r.VLANID|of13.OFPVID_PRESENT)}, nil
}

type ActionSetVLANPCP struct {
	Priority uint8
}

func (ActionSetVLANPCP) isAction() {}

func (r ActionSetVLANPCP) Descriptor() flow.Descriptor {
	return flow.Descriptor{flow.KeyActionType: TagSetVLANPCP, "vlan_pcp": int(r.Priority)}
}

func (r ActionSetVLANPCP) ToWire() (of13.Action, error) {
	return of13.ActionSetField{Field: of13.Uint8OXM(of13.OFPXMT_OFB_VLAN_PCP, r.Priority)}, nil
}

// ActionPushVLAN pushes a customer (802.1Q) or service (802.1ad) VLAN tag.
type ActionPushVLAN struct {
	TagType string
}

func (ActionPushVLAN) isAction() {}

func (r ActionPushVLAN) Descriptor() flow.Descriptor {
	return flow.Descriptor{flow.KeyActionType: TagPushVLAN, "tag_type": r.TagType}
}

func (r ActionPushVLAN) ToWire() (of13.Action, error) {
	switch r.TagType {
	case TagTypeCustomer:
		return of13.ActionPushVLAN{EtherType: uint16(layers.EthernetTypeDot1Q)}, nil
	case TagTypeService:
		return of13.ActionPushVLAN{EtherType: uint16(layers.EthernetTypeQinQ)}, nil
	default:
		return nil, errors.Wrapf(flow.ErrInvalidField, "tag_type: %q", r.TagType)
	}
}

type ActionPopVLAN struct{}

func (ActionPopVLAN) isAction() {}

func (r ActionPopVLAN) Descriptor() flow.Descriptor {
	return flow.Descriptor{flow.KeyActionType: TagPopVLAN}
}

func (r ActionPopVLAN) ToWire() (of13.Action, error) {
	return of13.ActionPopVLAN{}, nil
}

type ActionSetQueue struct {
	QueueID uint32
}

func (ActionSetQueue) isAction() {}

func (r ActionSetQueue) Descriptor() flow.Descriptor {
	return flow.Descriptor{flow.KeyActionType: TagSetQueue, "queue_id": int(r.QueueID)}
}

func (r ActionSetQueue) ToWire() (of13.Action, error) {
	return of13.ActionSetQueue{QueueID: r.QueueID}, nil
}

type ActionSetDLSrc struct {
	MAC net.HardwareAddr
}

func (ActionSetDLSrc) isAction() {}

func (r ActionSetDLSrc) Descriptor() flow.Descriptor {
	return flow.Descriptor{flow.KeyActionType: TagSetDLSrc, "dl_src": r.MAC.String()}
}

func (r ActionSetDLSrc) ToWire() (of13.Action, error) {
	return setMAC(of13.OFPXMT_OFB_ETH_SRC, r.MAC)
}

type ActionSetDLDst struct {
	MAC net.HardwareAddr
}

func (ActionSetDLDst) isAction() {}

func (r ActionSetDLDst) Descriptor() flow.Descriptor {
	return flow.Descriptor{flow.KeyActionType: TagSetDLDst, "dl_dst": r.MAC.String()}
}

func (r ActionSetDLDst) ToWire() (of13.Action, error) {
	return setMAC(of13.OFPXMT_OFB_ETH_DST, r.MAC)
}

func setMAC(field uint8, mac net.HardwareAddr) (of13.Action, error) {
	if len(mac) != 6 {
		return nil, errors.Wrapf(flow.ErrInvalidMatchField, "invalid MAC address %v", mac)
	}
	return of13.ActionSetField{Field: of13.NewOXM(field, append([]byte(nil), mac...))}, nil
}

// ActionFromDescriptor returns ok == false if the entry has an unknown tag.
func ActionFromDescriptor(d flow.Descriptor) (act Action, ok bool, err error) {
	tag, _, err := d.Str(flow.KeyActionType)
	if err != nil {
		return nil, false, err
	}

	switch tag {
	case TagOutput:
		port, err := d.Uint32("port", 0)
		if err != nil {
			return nil, false, err
		}
		return ActionOutput{Port: port}, true, nil
	case TagSetVLAN:
		vid, err := d.Uint16("vlan_id", 0)
		if err != nil {
			return nil, false, err
		}
		if vid > 0x0FFF {
			return nil, false, errors.Wrapf(flow.ErrInvalidField, "vlan_id: %v exceeds 12 bits", vid)
		}
		return ActionSetVLAN{VLANID: vid}, true, nil
	case TagSetVLANPCP:
		pcp, err := d.Uint8("vlan_pcp", 0)
		if err != nil {
			return nil, false, err
		}
		return ActionSetVLANPCP{Priority: pcp}, true, nil
	case TagPushVLAN:
		tagType, found, err := d.Str("tag_type")
		if err != nil {
			return nil, false, err
		}
		if !found {
			tagType = TagTypeCustomer
		}
		if tagType != TagTypeCustomer && tagType != TagTypeService {
			return nil, false, errors.Wrapf(flow.ErrInvalidField, "tag_type: %q", tagType)
		}
		return ActionPushVLAN{TagType: tagType}, true, nil
	case TagPopVLAN:
		return ActionPopVLAN{}, true, nil
	case TagSetQueue:
		queue, err := d.Uint32("queue_id", 0)
		if err != nil {
			return nil, false, err
		}
		return ActionSetQueue{QueueID: queue}, true, nil
	case TagSetDLSrc:
		mac, err := flow.ParseMAC("dl_src", d["dl_src"])
		if err != nil {
			return nil, false, err
		}
		return ActionSetDLSrc{MAC: mac}, true, nil
	case TagSetDLDst:
		mac, err := flow.ParseMAC("dl_dst", d["dl_dst"])
		if err != nil {
			return nil, false, err
		}
		return ActionSetDLDst{MAC: mac}, true, nil
	default:
		return nil, false, nil
	}
}

// ActionFromWire returns ok == false for an action that has no descriptor form.
func ActionFromWire(a of13.Action) (act Action, ok bool) {
	switch v := a.(type) {
	case of13.ActionOutput:
		return ActionOutput{Port: v.Port}, true
	case of13.ActionPushVLAN:
		switch layers.EthernetType(v.EtherType) {
		case layers.EthernetTypeDot1Q:
			return ActionPushVLAN{TagType: TagTypeCustomer}, true
		case layers.EthernetTypeQinQ:
			return ActionPushVLAN{TagType: TagTypeService}, true
		}
	case of13.ActionPopVLAN:
		return ActionPopVLAN{}, true
	case of13.ActionSetQueue:
		return ActionSetQueue{QueueID: v.QueueID}, true
	case of13.ActionSetField:
		return setFieldFromWire(v.Field)
	}

	return nil, false
}

func setFieldFromWire(v of13.OXM) (Action, bool) {
	if !v.IsBasic() || v.HasMask() {
		return nil, false
	}

	switch v.Field {
	case of13.OFPXMT_OFB_VLAN_VID:
		if len(v.Value) != 2 {
			return nil, false
		}
		return ActionSetVLAN{VLANID: v.Uint16() & 0x0FFF}, true
	case of13.OFPXMT_OFB_VLAN_PCP:
		if len(v.Value) != 1 {
			return nil, false
		}
		return ActionSetVLANPCP{Priority: v.Uint8()}, true
	case of13.OFPXMT_OFB_ETH_SRC, of13.OFPXMT_OFB_ETH_DST:
		if len(v.Value) != 6 {
			return nil, false
		}
		mac := append(net.HardwareAddr(nil), v.Value...)
		if v.Field == of13.OFPXMT_OFB_ETH_SRC {
			return ActionSetDLSrc{MAC: mac}, true
		}
		return ActionSetDLDst{MAC: mac}, true
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

func actionsFromWire(actions []of13.Action) []Action {
	result := make([]Action, 0, len(actions))
	for _, v := range actions {
		act, ok := ActionFromWire(v)
		if !ok {
			logger.Debugf("dropped an unknown wire action: type=%v", v.Type())
			continue
		}
		result = append(result, act)
	}

	return result
}

func actionsToWire(actions []Action) ([]of13.Action, error) {
	result := make([]of13.Action, 0, len(actions))
	for _, act := range actions {
		v, err := act.ToWire()
		if err != nil {
			return nil, err
		}
		result = append(result, v)
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
