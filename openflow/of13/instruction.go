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

package of13

import (
	"encoding"
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/superkkt/ofcore/openflow"
)

// Instruction is one entry of an OpenFlow 1.3 instruction list.
type Instruction interface {
	Type() uint16
	encoding.BinaryMarshaler
}

type InstructionGotoTable struct {
	TableID uint8
}

func (r InstructionGotoTable) Type() uint16 {
	return OFPIT_GOTO_TABLE
}

func (r InstructionGotoTable) MarshalBinary() ([]byte, error) {
	v := make([]byte, 8)
	binary.BigEndian.PutUint16(v[0:2], OFPIT_GOTO_TABLE)
	binary.BigEndian.PutUint16(v[2:4], 8)
	v[4] = r.TableID
	// v[5:8] is padding

	return v, nil
}

type InstructionWriteMetadata struct {
	Metadata uint64
	Mask     uint64
}

func (r InstructionWriteMetadata) Type() uint16 {
	return OFPIT_WRITE_METADATA
}

func (r InstructionWriteMetadata) MarshalBinary() ([]byte, error) {
	v := make([]byte, 24)
	binary.BigEndian.PutUint16(v[0:2], OFPIT_WRITE_METADATA)
	binary.BigEndian.PutUint16(v[2:4], 24)
	// v[4:8] is padding
	binary.BigEndian.PutUint64(v[8:16], r.Metadata)
	binary.BigEndian.PutUint64(v[16:24], r.Mask)

	return v, nil
}

func marshalActionInstruction(t uint16, actions []Action) ([]byte, error) {
	body, err := MarshalActions(actions)
	if err != nil {
		return nil, err
	}

	v := make([]byte, 8, 8+len(body))
	v = append(v, body...)
	binary.BigEndian.PutUint16(v[0:2], t)
	binary.BigEndian.PutUint16(v[2:4], uint16(len(v)))
	// v[4:8] is padding

	return v, nil
}

type InstructionWriteActions struct {
	Actions []Action
}

func (r InstructionWriteActions) Type() uint16 {
	return OFPIT_WRITE_ACTIONS
}

func (r InstructionWriteActions) MarshalBinary() ([]byte, error) {
	return marshalActionInstruction(OFPIT_WRITE_ACTIONS, r.Actions)
}

type InstructionApplyActions struct {
	Actions []Action
}

func (r InstructionApplyActions) Type() uint16 {
	return OFPIT_APPLY_ACTIONS
}

func (r InstructionApplyActions) MarshalBinary() ([]byte, error) {
	return marshalActionInstruction(OFPIT_APPLY_ACTIONS, r.Actions)
}

type InstructionClearActions struct{}

func (r InstructionClearActions) Type() uint16 {
	return OFPIT_CLEAR_ACTIONS
}

func (r InstructionClearActions) MarshalBinary() ([]byte, error) {
	return marshalActionInstruction(OFPIT_CLEAR_ACTIONS, nil)
}

type InstructionMeter struct {
	MeterID uint32
}

func (r InstructionMeter) Type() uint16 {
	return OFPIT_METER
}

func (r InstructionMeter) MarshalBinary() ([]byte, error) {
	v := make([]byte, 8)
	binary.BigEndian.PutUint16(v[0:2], OFPIT_METER)
	binary.BigEndian.PutUint16(v[2:4], 8)
	binary.BigEndian.PutUint32(v[4:8], r.MeterID)

	return v, nil
}

// InstructionUnknown keeps an instruction we do not decode. Body excludes the type and length.
type InstructionUnknown struct {
	InstructionType uint16
	Body            []byte
}

func (r InstructionUnknown) Type() uint16 {
	return r.InstructionType
}

func (r InstructionUnknown) MarshalBinary() ([]byte, error) {
	length := 4 + len(r.Body)
	v := make([]byte, length)
	binary.BigEndian.PutUint16(v[0:2], r.InstructionType)
	binary.BigEndian.PutUint16(v[2:4], uint16(length))
	copy(v[4:], r.Body)

	return v, nil
}

func MarshalInstructions(instructions []Instruction) ([]byte, error) {
	result := make([]byte, 0)
	for _, inst := range instructions {
		v, err := inst.MarshalBinary()
		if err != nil {
			return nil, err
		}
		result = append(result, v...)
	}

	return result, nil
}

func UnmarshalInstructions(data []byte) ([]Instruction, error) {
	result := make([]Instruction, 0)

	buf := data
	for len(buf) >= 4 {
		t := binary.BigEndian.Uint16(buf[0:2])
		length := int(binary.BigEndian.Uint16(buf[2:4]))
		if length < 8 || len(buf) < length {
			return nil, openflow.ErrInvalidPacketLength
		}

		switch t {
		case OFPIT_GOTO_TABLE:
			result = append(result, InstructionGotoTable{TableID: buf[4]})
		case OFPIT_WRITE_METADATA:
			if length < 24 {
				return nil, openflow.ErrInvalidPacketLength
			}
			result = append(result, InstructionWriteMetadata{
				Metadata: binary.BigEndian.Uint64(buf[8:16]),
				Mask:     binary.BigEndian.Uint64(buf[16:24]),
			})
		case OFPIT_WRITE_ACTIONS, OFPIT_APPLY_ACTIONS:
			actions, err := UnmarshalActions(buf[8:length])
			if err != nil {
				return nil, errors.Wrapf(err, "failed to decode actions of instruction type %v", t)
			}
			if t == OFPIT_WRITE_ACTIONS {
				result = append(result, InstructionWriteActions{Actions: actions})
			} else {
				result = append(result, InstructionApplyActions{Actions: actions})
			}
		case OFPIT_CLEAR_ACTIONS:
			result = append(result, InstructionClearActions{})
		case OFPIT_METER:
			result = append(result, InstructionMeter{MeterID: binary.BigEndian.Uint32(buf[4:8])})
		default:
			result = append(result, InstructionUnknown{
				InstructionType: t,
				Body:            append([]byte(nil), buf[4:length]...),
			})
		}

		buf = buf[length:]
	}

	return result, nil
}
