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
	"encoding/json"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// Descriptor is the version-agnostic interchange form of a flow, a match, an
// action or an instruction. Values decoded from JSON (float64, json.Number) and
// native Go integers are both accepted.
type Descriptor map[string]interface{}

// Keys of a flow descriptor.
const (
	KeySwitch       = "switch"
	KeyTableID      = "table_id"
	KeyMatch        = "match"
	KeyPriority     = "priority"
	KeyIdleTimeout  = "idle_timeout"
	KeyHardTimeout  = "hard_timeout"
	KeyCookie       = "cookie"
	KeyCookieMask   = "cookie_mask"
	KeyActions      = "actions"
	KeyInstructions = "instructions"
	KeyStats        = "stats"
	KeyID           = "id"

	KeyActionType      = "action_type"
	KeyInstructionType = "instruction_type"
)

func (r Descriptor) Has(key string) bool {
	_, ok := r[key]
	return ok
}

func toUint(v interface{}, bits int) (uint64, bool) {
	var u uint64

	switch x := v.(type) {
	case int:
		if x < 0 {
			return 0, false
		}
		u = uint64(x)
	case int8:
		if x < 0 {
			return 0, false
		}
		u = uint64(x)
	case int16:
		if x < 0 {
			return 0, false
		}
		u = uint64(x)
	case int32:
		if x < 0 {
			return 0, false
		}
		u = uint64(x)
	case int64:
		if x < 0 {
			return 0, false
		}
		u = uint64(x)
	case uint:
		u = uint64(x)
	case uint8:
		u = uint64(x)
	case uint16:
		u = uint64(x)
	case uint32:
		u = uint64(x)
	case uint64:
		u = x
	case float64:
		// JSON numbers above 2^53 lose precision; use json.Number for large cookies.
		if x < 0 || x != math.Trunc(x) || x >= math.MaxUint64 {
			return 0, false
		}
		u = uint64(x)
	case json.Number:
		n, err := strconv.ParseUint(x.String(), 10, 64)
		if err != nil {
			return 0, false
		}
		u = n
	default:
		return 0, false
	}

	if bits < 64 && u >= uint64(1)<<uint(bits) {
		return 0, false
	}

	return u, true
}

func (r Descriptor) uint(key string, bits int, def uint64) (uint64, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return def, nil
	}

	u, ok := toUint(v, bits)
	if !ok {
		return 0, errors.Wrapf(ErrInvalidField, "%v: %v is not a %v-bit unsigned integer", key, v, bits)
	}

	return u, nil
}

// Uint8 returns the value of key coerced to uint8, or def if key is missing.
func (r Descriptor) Uint8(key string, def uint8) (uint8, error) {
	v, err := r.uint(key, 8, uint64(def))
	return uint8(v), err
}

func (r Descriptor) Uint16(key string, def uint16) (uint16, error) {
	v, err := r.uint(key, 16, uint64(def))
	return uint16(v), err
}

func (r Descriptor) Uint32(key string, def uint32) (uint32, error) {
	v, err := r.uint(key, 32, uint64(def))
	return uint32(v), err
}

func (r Descriptor) Uint64(key string, def uint64) (uint64, error) {
	return r.uint(key, 64, def)
}

// Str returns the string value of key. ok is false if key is missing.
func (r Descriptor) Str(key string) (value string, ok bool, err error) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false, nil
	}

	s, isString := v.(string)
	if !isString {
		return "", true, errors.Wrapf(ErrInvalidField, "%v: %v is not a string", key, v)
	}

	return s, true, nil
}

// ToDescriptor converts a nested mapping value into a Descriptor.
func ToDescriptor(v interface{}) (Descriptor, bool) {
	switch x := v.(type) {
	case Descriptor:
		return x, true
	case map[string]interface{}:
		return Descriptor(x), true
	default:
		return nil, false
	}
}

// Sub returns the nested mapping stored under key. ok is false if key is missing.
func (r Descriptor) Sub(key string) (value Descriptor, ok bool, err error) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false, nil
	}

	d, isMap := ToDescriptor(v)
	if !isMap {
		return nil, true, errors.Wrapf(ErrInvalidField, "%v: %v is not a mapping", key, v)
	}

	return d, true, nil
}

// Entries returns the list of mappings stored under key. ok is false if key is missing.
func (r Descriptor) Entries(key string) (value []Descriptor, ok bool, err error) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false, nil
	}

	switch x := v.(type) {
	case []Descriptor:
		return x, true, nil
	case []map[string]interface{}:
		result := make([]Descriptor, len(x))
		for i, e := range x {
			result[i] = Descriptor(e)
		}
		return result, true, nil
	case []interface{}:
		result := make([]Descriptor, len(x))
		for i, e := range x {
			d, isMap := ToDescriptor(e)
			if !isMap {
				return nil, true, errors.Wrapf(ErrInvalidField, "%v[%v]: %v is not a mapping", key, i, e)
			}
			result[i] = d
		}
		return result, true, nil
	default:
		return nil, true, errors.Wrapf(ErrInvalidField, "%v: %v is not a list", key, v)
	}
}

// Without returns a shallow copy of the descriptor that omits keys.
func (r Descriptor) Without(keys ...string) Descriptor {
	skip := make(map[string]bool, len(keys))
	for _, k := range keys {
		skip[k] = true
	}

	v := make(Descriptor, len(r))
	for k, val := range r {
		if skip[k] {
			continue
		}
		v[k] = val
	}

	return v
}
