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
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"github.com/superkkt/ofcore/openflow"
)

var logger = logging.MustGetLogger("flow")

const (
	DefaultTableID  = 0
	DefaultPriority = 0x8000
)

// Match is a sparse set of packet predicates. Absent fields are wildcards.
type Match interface {
	Descriptor() Descriptor
}

// Flow is an immutable flow entry of a switch.
type Flow interface {
	Version() uint8
	SwitchID() string
	// ID identifies the flow by its switch, table, match, priority, timeouts,
	// cookie, and actions or instructions. Statistics do not contribute.
	ID() string
	// MatchID identifies the flow by its match and cookie only.
	MatchID() string
	Stats() *Stats
	Descriptor(includeID bool) Descriptor
	Equal(other interface{}) (bool, error)
	AddCommand(xid uint32) (openflow.FlowMod, error)
	ModifyCommand(xid uint32) (openflow.FlowMod, error)
	DeleteCommand(xid uint32) (openflow.FlowMod, error)
}

// Implementation builds flows of one OpenFlow version.
type Implementation interface {
	Version() uint8
	FromDescriptor(d Descriptor, sw Switch) (Flow, error)
	// FromWireStats panics if stats is nil or does not carry a match.
	FromWireStats(stats openflow.FlowStats, sw Switch) (Flow, error)
	// ParseStatsReply splits a complete flow statistics reply message into its records.
	ParseStatsReply(data []byte) ([]openflow.FlowStats, error)
}

// Base holds the fields shared by every OpenFlow version.
type Base struct {
	SwitchID    string
	TableID     uint8
	Priority    uint16
	IdleTimeout uint16
	HardTimeout uint16
	Cookie      uint64
	Stats       *Stats
}

func NewBase(sw Switch) Base {
	return Base{
		SwitchID: switchID(sw),
		TableID:  DefaultTableID,
		Priority: DefaultPriority,
	}
}

func switchID(sw Switch) string {
	if sw == nil {
		return ""
	}
	return sw.ID()
}

// ParseDescriptor reads the shared scalars and the statistics snapshot of d.
// Missing keys keep their current value.
func (r *Base) ParseDescriptor(d Descriptor) error {
	var err error
	if r.TableID, err = d.Uint8(KeyTableID, r.TableID); err != nil {
		return err
	}
	if r.Priority, err = d.Uint16(KeyPriority, r.Priority); err != nil {
		return err
	}
	if r.IdleTimeout, err = d.Uint16(KeyIdleTimeout, r.IdleTimeout); err != nil {
		return err
	}
	if r.HardTimeout, err = d.Uint16(KeyHardTimeout, r.HardTimeout); err != nil {
		return err
	}
	if r.Cookie, err = d.Uint64(KeyCookie, r.Cookie); err != nil {
		return err
	}

	stats, _, err := d.Sub(KeyStats)
	if err != nil {
		return err
	}
	if r.Stats, err = ParseStats(stats); err != nil {
		return errors.Wrap(err, "invalid flow stats")
	}

	return nil
}

// FromWireStats copies the shared fields of a flow statistics record.
func (r *Base) FromWireStats(stats openflow.FlowStats) {
	r.TableID = stats.TableID()
	r.Priority = stats.Priority()
	r.IdleTimeout = stats.IdleTimeout()
	r.HardTimeout = stats.HardTimeout()
	r.Cookie = stats.Cookie()
	r.Stats = StatsFromWire(stats)
}

// Descriptor returns the shared part of a flow descriptor.
func (r *Base) Descriptor(match Match) Descriptor {
	return Descriptor{
		KeySwitch:      r.SwitchID,
		KeyTableID:     int(r.TableID),
		KeyMatch:       match.Descriptor(),
		KeyPriority:    int(r.Priority),
		KeyIdleTimeout: int(r.IdleTimeout),
		KeyHardTimeout: int(r.HardTimeout),
		KeyCookie:      r.Cookie,
		KeyStats:       r.Stats.Descriptor(),
	}
}

// Identity is the pair of fingerprints derived from a flow descriptor.
type Identity struct {
	ID      string
	MatchID string
}

func fingerprint(v interface{}) (string, error) {
	// encoding/json writes map keys in sorted order.
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode flow identity")
	}
	sum := md5.Sum(data)

	return hex.EncodeToString(sum[:]), nil
}

// Identify computes the identity of a flow from its descriptor. The statistics,
// cookie mask and any existing identifier are not part of the identity.
func Identify(d Descriptor) (Identity, error) {
	id, err := fingerprint(d.Without(KeyStats, KeyID, KeyCookieMask))
	if err != nil {
		return Identity{}, err
	}
	matchID, err := fingerprint(Descriptor{
		KeyMatch:  d[KeyMatch],
		KeyCookie: d[KeyCookie],
	})
	if err != nil {
		return Identity{}, err
	}

	return Identity{ID: id, MatchID: matchID}, nil
}

// EqualDescriptors reports whether two flow descriptors are equal ignoring
// statistics and identifiers.
func EqualDescriptors(a, b Descriptor) bool {
	x, err := json.Marshal(a.Without(KeyStats, KeyID))
	if err != nil {
		return false
	}
	y, err := json.Marshal(b.Without(KeyStats, KeyID))
	if err != nil {
		return false
	}

	return bytes.Equal(x, y)
}

// DropUnknown logs an action or instruction entry that has no known tag.
func DropUnknown(kind string, entry interface{}) {
	logger.Debugf("dropped an unknown %v: %v", kind, entry)
}
