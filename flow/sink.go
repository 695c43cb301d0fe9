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
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// Sink receives flows decoded from switch statistics.
type Sink interface {
	Deliver(f Flow)
}

type SinkFunc func(f Flow)

func (r SinkFunc) Deliver(f Flow) {
	r(f)
}

// DedupSink forwards a flow to the next sink unless the same flow with the same
// counters has been delivered within the expiration time.
type DedupSink struct {
	next       Sink
	cache      *lru.Cache
	expiration time.Duration
}

func NewDedupSink(next Sink, size int, expiration time.Duration) *DedupSink {
	if next == nil {
		panic("nil next sink")
	}
	c, err := lru.New(size)
	if err != nil {
		panic(fmt.Sprintf("failed to init a LRU flow cache: %v", err))
	}

	return &DedupSink{
		next:       next,
		cache:      c,
		expiration: expiration,
	}
}

func (r *DedupSink) key(f Flow) string {
	s := f.Stats()
	if s == nil {
		return f.ID()
	}

	return fmt.Sprintf("%v/%v/%v", f.ID(), s.PacketCount, s.ByteCount)
}

func (r *DedupSink) Deliver(f Flow) {
	key := r.key(f)
	if v, ok := r.cache.Get(key); ok {
		if time.Since(v.(time.Time)) <= r.expiration {
			logger.Debugf("suppressed a duplicated flow: key=%v", key)
			return
		}
		r.cache.Remove(key)
		logger.Debugf("removed the timed-out flow cache: key=%v", key)
	}

	// Update if the key already exists.
	r.cache.Add(key, time.Now())
	r.next.Deliver(f)
}

func (r *DedupSink) Purge() {
	r.cache.Purge()
	logger.Debug("removed all the flow caches")
}
