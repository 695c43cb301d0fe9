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
	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"github.com/superkkt/ofcore/flow"
	"github.com/superkkt/ofcore/openflow"
	"github.com/superkkt/ofcore/openflow/of10"
)

var logger = logging.MustGetLogger("v0x01")

// Flow is an OpenFlow 1.0 flow entry.
type Flow struct {
	flow.Base
	match    *Match
	actions  []Action
	identity flow.Identity
}

func newFlow(base flow.Base, match *Match, actions []Action) (*Flow, error) {
	f := &Flow{
		Base:    base,
		match:   match,
		actions: actions,
	}

	identity, err := flow.Identify(f.Descriptor(false))
	if err != nil {
		return nil, err
	}
	f.identity = identity

	return f, nil
}

func (r *Flow) Version() uint8 {
	return openflow.OF10_VERSION
}

func (r *Flow) SwitchID() string {
	return r.Base.SwitchID
}

func (r *Flow) ID() string {
	return r.identity.ID
}

func (r *Flow) MatchID() string {
	return r.identity.MatchID
}

func (r *Flow) Stats() *flow.Stats {
	return r.Base.Stats
}

func (r *Flow) Match() *Match {
	return r.match
}

// Actions returns the action list in order.
func (r *Flow) Actions() []Action {
	return r.actions
}

func (r *Flow) Descriptor(includeID bool) flow.Descriptor {
	d := r.Base.Descriptor(r.match)
	d[flow.KeyActions] = actionDescriptors(r.actions)
	if includeID {
		d[flow.KeyID] = r.identity.ID
	}

	return d
}

func (r *Flow) Equal(other interface{}) (bool, error) {
	v, ok := other.(*Flow)
	if !ok {
		return false, errors.Wrapf(flow.ErrInvalidComparison, "%T is not an OpenFlow 1.0 flow", other)
	}

	return flow.EqualDescriptors(r.Descriptor(false), v.Descriptor(false)), nil
}

func (r *Flow) flowMod(xid uint32, cmd uint16) (openflow.FlowMod, error) {
	match, err := r.match.ToWire()
	if err != nil {
		return nil, err
	}

	mod := of10.NewFlowMod(xid, cmd)
	mod.Match = match
	mod.Cookie = r.Cookie
	mod.IdleTimeout = r.IdleTimeout
	mod.HardTimeout = r.HardTimeout
	mod.Priority = r.Priority
	mod.Actions = make([]of10.Action, 0, len(r.actions))
	for _, act := range r.actions {
		v, err := act.ToWire()
		if err != nil {
			return nil, err
		}
		mod.Actions = append(mod.Actions, v)
	}

	return mod, nil
}

func (r *Flow) AddCommand(xid uint32) (openflow.FlowMod, error) {
	return r.flowMod(xid, of10.OFPFC_ADD)
}

func (r *Flow) ModifyCommand(xid uint32) (openflow.FlowMod, error) {
	return r.flowMod(xid, of10.OFPFC_MODIFY)
}

// DeleteCommand removes every flow that matches, regardless of its output port.
func (r *Flow) DeleteCommand(xid uint32) (openflow.FlowMod, error) {
	return r.flowMod(xid, of10.OFPFC_DELETE)
}

// Implementation builds OpenFlow 1.0 flows.
type Implementation struct{}

func New() Implementation {
	return Implementation{}
}

func (r Implementation) Version() uint8 {
	return openflow.OF10_VERSION
}

func (r Implementation) FromDescriptor(d flow.Descriptor, sw flow.Switch) (flow.Flow, error) {
	f, err := FromDescriptor(d, sw)
	if err != nil {
		return nil, err
	}

	return f, nil
}

func (r Implementation) FromWireStats(stats openflow.FlowStats, sw flow.Switch) (flow.Flow, error) {
	if stats == nil {
		panic("nil flow stats")
	}
	v, ok := stats.(*of10.FlowStats)
	if !ok {
		return nil, errors.Wrapf(openflow.ErrUnsupportedVersion, "unexpected flow stats type %T", stats)
	}

	f, err := FromWireStats(v, sw)
	if err != nil {
		return nil, err
	}

	return f, nil
}

func (r Implementation) ParseStatsReply(data []byte) ([]openflow.FlowStats, error) {
	records, err := of10.ParseFlowStatsReply(data)
	if err != nil {
		return nil, err
	}

	result := make([]openflow.FlowStats, len(records))
	for i, v := range records {
		result[i] = v
	}

	return result, nil
}

func FromDescriptor(d flow.Descriptor, sw flow.Switch) (*Flow, error) {
	base := flow.NewBase(sw)
	if err := base.ParseDescriptor(d); err != nil {
		return nil, err
	}

	m, _, err := d.Sub(flow.KeyMatch)
	if err != nil {
		return nil, err
	}
	match, err := MatchFromDescriptor(m)
	if err != nil {
		return nil, err
	}

	entries, _, err := d.Entries(flow.KeyActions)
	if err != nil {
		return nil, err
	}
	actions, err := parseActions(entries)
	if err != nil {
		return nil, err
	}

	return newFlow(base, match, actions)
}

// FromWireStats panics if stats is nil or has no match.
func FromWireStats(stats *of10.FlowStats, sw flow.Switch) (*Flow, error) {
	if stats == nil {
		panic("nil flow stats")
	}
	if stats.Match() == nil {
		panic("flow stats without match")
	}

	base := flow.NewBase(sw)
	base.FromWireStats(stats)

	actions := make([]Action, 0, len(stats.Actions()))
	for _, v := range stats.Actions() {
		act, ok := ActionFromWire(v)
		if !ok {
			logger.Debugf("dropped an unknown wire action: type=%v", v.Type())
			continue
		}
		actions = append(actions, act)
	}

	return newFlow(base, MatchFromWire(stats.Match()), actions)
}
