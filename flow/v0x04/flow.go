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
	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"github.com/superkkt/ofcore/flow"
	"github.com/superkkt/ofcore/openflow"
	"github.com/superkkt/ofcore/openflow/of13"
)

var logger = logging.MustGetLogger("v0x04")

// Flow is an OpenFlow 1.3 flow entry.
type Flow struct {
	flow.Base
	CookieMask   uint64
	match        *Match
	instructions []Instruction
	identity     flow.Identity
}

func newFlow(base flow.Base, cookieMask uint64, match *Match, instructions []Instruction) (*Flow, error) {
	f := &Flow{
		Base:         base,
		CookieMask:   cookieMask,
		match:        match,
		instructions: instructions,
	}

	identity, err := flow.Identify(f.Descriptor(false))
	if err != nil {
		return nil, err
	}
	f.identity = identity

	return f, nil
}

func (r *Flow) Version() uint8 {
	return openflow.OF13_VERSION
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

func (r *Flow) Instructions() []Instruction {
	return r.instructions
}

// Actions returns the actions of every apply_actions instruction in order.
func (r *Flow) Actions() []Action {
	result := make([]Action, 0)
	for _, ins := range r.instructions {
		if v, ok := ins.(InstructionApplyActions); ok {
			result = append(result, v.Actions...)
		}
	}

	return result
}

// GotoTable returns the table of the first goto_table instruction.
func (r *Flow) GotoTable() (tableID uint8, ok bool) {
	for _, ins := range r.instructions {
		if v, ok := ins.(InstructionGotoTable); ok {
			return v.TableID, true
		}
	}

	return 0, false
}

func (r *Flow) Descriptor(includeID bool) flow.Descriptor {
	d := r.Base.Descriptor(r.match)
	d[flow.KeyCookieMask] = r.CookieMask
	d[flow.KeyInstructions] = instructionDescriptors(r.instructions)
	if includeID {
		d[flow.KeyID] = r.identity.ID
	}

	return d
}

func (r *Flow) Equal(other interface{}) (bool, error) {
	v, ok := other.(*Flow)
	if !ok {
		return false, errors.Wrapf(flow.ErrInvalidComparison, "%T is not an OpenFlow 1.3 flow", other)
	}

	return flow.EqualDescriptors(r.Descriptor(false), v.Descriptor(false)), nil
}

func (r *Flow) flowMod(xid uint32, cmd uint8) (openflow.FlowMod, error) {
	match, err := r.match.ToWire()
	if err != nil {
		return nil, err
	}

	mod := of13.NewFlowMod(xid, cmd)
	mod.Match = match
	mod.TableID = r.TableID
	mod.Cookie = r.Cookie
	mod.CookieMask = r.CookieMask
	mod.IdleTimeout = r.IdleTimeout
	mod.HardTimeout = r.HardTimeout
	mod.Priority = r.Priority
	mod.Instructions = make([]of13.Instruction, 0, len(r.instructions))
	for _, ins := range r.instructions {
		v, err := ins.ToWire()
		if err != nil {
			return nil, err
		}
		mod.Instructions = append(mod.Instructions, v)
	}

	return mod, nil
}

func (r *Flow) AddCommand(xid uint32) (openflow.FlowMod, error) {
	return r.flowMod(xid, of13.OFPFC_ADD)
}

func (r *Flow) ModifyCommand(xid uint32) (openflow.FlowMod, error) {
	return r.flowMod(xid, of13.OFPFC_MODIFY)
}

// DeleteCommand removes every flow that matches, regardless of its output port
// and group.
func (r *Flow) DeleteCommand(xid uint32) (openflow.FlowMod, error) {
	mod, err := r.flowMod(xid, of13.OFPFC_DELETE)
	if err != nil {
		return nil, err
	}
	v := mod.(*of13.FlowMod)
	v.OutPort = of13.OFPP_ANY
	v.OutGroup = of13.OFPG_ANY

	return v, nil
}

// Implementation builds OpenFlow 1.3 flows.
type Implementation struct{}

func New() Implementation {
	return Implementation{}
}

func (r Implementation) Version() uint8 {
	return openflow.OF13_VERSION
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
	v, ok := stats.(*of13.FlowStats)
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
	records, err := of13.ParseFlowStatsReply(data)
	if err != nil {
		return nil, err
	}

	result := make([]openflow.FlowStats, len(records))
	for i, v := range records {
		result[i] = v
	}

	return result, nil
}

// FromDescriptor prefers the instructions list of d. Without one, a non-empty
// actions list becomes a single apply_actions instruction.
func FromDescriptor(d flow.Descriptor, sw flow.Switch) (*Flow, error) {
	base := flow.NewBase(sw)
	if err := base.ParseDescriptor(d); err != nil {
		return nil, err
	}
	cookieMask, err := d.Uint64(flow.KeyCookieMask, 0)
	if err != nil {
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

	var instructions []Instruction
	entries, ok, err := d.Entries(flow.KeyInstructions)
	if err != nil {
		return nil, err
	}
	if ok {
		if instructions, err = parseInstructions(entries); err != nil {
			return nil, err
		}
	} else {
		if entries, _, err = d.Entries(flow.KeyActions); err != nil {
			return nil, err
		}
		actions, err := parseActions(entries)
		if err != nil {
			return nil, err
		}
		instructions = make([]Instruction, 0, 1)
		if len(actions) > 0 {
			instructions = append(instructions, InstructionApplyActions{Actions: actions})
		}
	}

	return newFlow(base, cookieMask, match, instructions)
}

// FromWireStats panics if stats is nil or has no match.
func FromWireStats(stats *of13.FlowStats, sw flow.Switch) (*Flow, error) {
	if stats == nil {
		panic("nil flow stats")
	}
	if stats.Match() == nil {
		panic("flow stats without match")
	}

	base := flow.NewBase(sw)
	base.FromWireStats(stats)

	instructions := make([]Instruction, 0, len(stats.Instructions()))
	for _, v := range stats.Instructions() {
		ins, ok := InstructionFromWire(v)
		if !ok {
			logger.Debugf("dropped an unknown wire instruction: type=%v", v.Type())
			continue
		}
		instructions = append(instructions, ins)
	}

	return newFlow(base, 0, MatchFromWire(stats.Match()), instructions)
}
