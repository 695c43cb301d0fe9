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
	"github.com/pkg/errors"
	"github.com/superkkt/ofcore/flow"
	"github.com/superkkt/ofcore/openflow/of13"
)

// Instruction is one of the OpenFlow 1.3 instructions below. The set is closed.
type Instruction interface {
	Descriptor() flow.Descriptor
	ToWire() (of13.Instruction, error)
	isInstruction()
}

const (
	TagApplyActions  = "apply_actions"
	TagWriteActions  = "write_actions"
	TagClearActions  = "clear_actions"
	TagGotoTable     = "goto_table"
	TagWriteMetadata = "write_metadata"
	TagMeter         = "meter"
)

// InstructionApplyActions applies its actions immediately, in order.
type InstructionApplyActions struct {
	Actions []Action
}

func (InstructionApplyActions) isInstruction() {}

func (r InstructionApplyActions) Descriptor() flow.Descriptor {
	return flow.Descriptor{
		flow.KeyInstructionType: TagApplyActions,
		flow.KeyActions:         actionDescriptors(r.Actions),
	}
}

func (r InstructionApplyActions) ToWire() (of13.Instruction, error) {
	actions, err := actionsToWire(r.Actions)
	if err != nil {
		return nil, err
	}
	return of13.InstructionApplyActions{Actions: actions}, nil
}

// InstructionWriteActions merges its actions into the action set.
type InstructionWriteActions struct {
	Actions []Action
}

func (InstructionWriteActions) isInstruction() {}

func (r InstructionWriteActions) Descriptor() flow.Descriptor {
	return flow.Descriptor{
		flow.KeyInstructionType: TagWriteActions,
		flow.KeyActions:         actionDescriptors(r.Actions),
	}
}

func (r InstructionWriteActions) ToWire() (of13.Instruction, error) {
	actions, err := actionsToWire(r.Actions)
	if err != nil {
		return nil, err
	}
	return of13.InstructionWriteActions{Actions: actions}, nil
}

type InstructionClearActions struct{}

func (InstructionClearActions) isInstruction() {}

func (r InstructionClearActions) Descriptor() flow.Descriptor {
	return flow.Descriptor{flow.KeyInstructionType: TagClearActions}
}

func (r InstructionClearActions) ToWire() (of13.Instruction, error) {
	return of13.InstructionClearActions{}, nil
}

// InstructionGotoTable continues the pipeline at another table. It carries no actions.
type InstructionGotoTable struct {
	TableID uint8
}

func (InstructionGotoTable) isInstruction() {}

func (r InstructionGotoTable) Descriptor() flow.Descriptor {
	return flow.Descriptor{flow.KeyInstructionType: TagGotoTable, flow.KeyTableID: int(r.TableID)}
}

func (r InstructionGotoTable) ToWire() (of13.Instruction, error) {
	return of13.InstructionGotoTable{TableID: r.TableID}, nil
}

type InstructionWriteMetadata struct {
	Metadata uint64
	Mask     uint64
}

func (InstructionWriteMetadata) isInstruction() {}

func (r InstructionWriteMetadata) Descriptor() flow.Descriptor {
	return flow.Descriptor{
		flow.KeyInstructionType: TagWriteMetadata,
		"metadata":              r.Metadata,
		"metadata_mask":         r.Mask,
	}
}

func (r InstructionWriteMetadata) ToWire() (of13.Instruction, error) {
	return of13.InstructionWriteMetadata{Metadata: r.Metadata, Mask: r.Mask}, nil
}

type InstructionMeter struct {
	MeterID uint32
}

func (InstructionMeter) isInstruction() {}

func (r InstructionMeter) Descriptor() flow.Descriptor {
	return flow.Descriptor{flow.KeyInstructionType: TagMeter, "meter_id": int(r.MeterID)}
}

func (r InstructionMeter) ToWire() (of13.Instruction, error) {
	return of13.InstructionMeter{MeterID: r.MeterID}, nil
}

// InstructionFromDescriptor returns ok == false if the entry has an unknown tag.
// Unknown actions inside an action list are dropped.
func InstructionFromDescriptor(d flow.Descriptor) (ins Instruction, ok bool, err error) {
	tag, _, err := d.Str(flow.KeyInstructionType)
	if err != nil {
		return nil, false, err
	}

	switch tag {
	case TagApplyActions, TagWriteActions:
		entries, _, err := d.Entries(flow.KeyActions)
		if err != nil {
			return nil, false, err
		}
		actions, err := parseActions(entries)
		if err != nil {
			return nil, false, err
		}
		if tag == TagApplyActions {
			return InstructionApplyActions{Actions: actions}, true, nil
		}
		return InstructionWriteActions{Actions: actions}, true, nil
	case TagClearActions:
		return InstructionClearActions{}, true, nil
	case TagGotoTable:
		id, err := d.Uint8(flow.KeyTableID, 0)
		if err != nil {
			return nil, false, err
		}
		return InstructionGotoTable{TableID: id}, true, nil
	case TagWriteMetadata:
		metadata, err := d.Uint64("metadata", 0)
		if err != nil {
			return nil, false, err
		}
		mask, err := d.Uint64("metadata_mask", ^uint64(0))
		if err != nil {
			return nil, false, err
		}
		return InstructionWriteMetadata{Metadata: metadata, Mask: mask}, true, nil
	case TagMeter:
		id, err := d.Uint32("meter_id", 0)
		if err != nil {
			return nil, false, err
		}
		return InstructionMeter{MeterID: id}, true, nil
	default:
		return nil, false, nil
	}
}

// InstructionFromWire returns ok == false for an instruction that has no
// descriptor form. Unknown actions inside an action list are dropped.
func InstructionFromWire(i of13.Instruction) (ins Instruction, ok bool) {
	switch v := i.(type) {
	case of13.InstructionApplyActions:
		return InstructionApplyActions{Actions: actionsFromWire(v.Actions)}, true
	case of13.InstructionWriteActions:
		return InstructionWriteActions{Actions: actionsFromWire(v.Actions)}, true
	case of13.InstructionClearActions:
		return InstructionClearActions{}, true
	case of13.InstructionGotoTable:
		return InstructionGotoTable{TableID: v.TableID}, true
	case of13.InstructionWriteMetadata:
		return InstructionWriteMetadata{Metadata: v.Metadata, Mask: v.Mask}, true
	case of13.InstructionMeter:
		return InstructionMeter{MeterID: v.MeterID}, true
	default:
		return nil, false
	}
}

func parseInstructions(entries []flow.Descriptor) ([]Instruction, error) {
	result := make([]Instruction, 0, len(entries))
	for i, e := range entries {
		ins, ok, err := InstructionFromDescriptor(e)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid instruction #%v", i)
		}
		if !ok {
			flow.DropUnknown("instruction", e)
			continue
		}
		result = append(result, ins)
	}

	return result, nil
}

func instructionDescriptors(instructions []Instruction) []flow.Descriptor {
	result := make([]flow.Descriptor, len(instructions))
	for i, ins := range instructions {
		result[i] = ins.Descriptor()
	}

	return result
}
