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

package factory

import (
	"context"
	"runtime"
	"sync"

	"github.com/op/go-logging"
	"github.com/superkkt/ofcore/flow"
	"github.com/superkkt/ofcore/flow/v0x01"
	"github.com/superkkt/ofcore/flow/v0x04"
	"github.com/superkkt/ofcore/openflow"
	"golang.org/x/sync/semaphore"
)

var logger = logging.MustGetLogger("factory")

// Factory picks the flow implementation of a switch by its negotiated protocol
// version and converts switch statistics into flows in the background.
type Factory struct {
	implementations map[uint8]flow.Implementation
	fallback        flow.Implementation
	sink            flow.Sink
	maxWorkers      int64
	sem             *semaphore.Weighted
	wg              sync.WaitGroup
}

type Option func(*Factory)

// WithMaxWorkers limits the number of conversions running at the same time.
func WithMaxWorkers(n int) Option {
	return func(r *Factory) {
		if n > 0 {
			r.maxWorkers = int64(n)
		}
	}
}

// New returns a factory that knows OpenFlow 1.0 and 1.3. Flows decoded from
// statistics are delivered to sink. fallback is used for a switch that has no
// active connection or negotiated an unknown version.
func New(fallback flow.Implementation, sink flow.Sink, opts ...Option) *Factory {
	if fallback == nil {
		panic("nil fallback implementation")
	}
	if sink == nil {
		panic("nil flow sink")
	}

	r := &Factory{
		implementations: map[uint8]flow.Implementation{
			openflow.OF10_VERSION: v0x01.New(),
			openflow.OF13_VERSION: v0x04.New(),
		},
		fallback:   fallback,
		sink:       sink,
		maxWorkers: int64(runtime.NumCPU()),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.sem = semaphore.NewWeighted(r.maxWorkers)

	return r
}

func (r *Factory) Select(sw flow.Switch) flow.Implementation {
	conn := sw.Connection()
	if conn == nil {
		return r.fallback
	}

	v, ok := r.implementations[conn.ProtocolVersion()]
	if !ok {
		logger.Warningf("unsupported OpenFlow version: switch=%v, version=0x%02x", sw.ID(), conn.ProtocolVersion())
		return r.fallback
	}

	return v
}

func (r *Factory) FromDescriptor(d flow.Descriptor, sw flow.Switch) (flow.Flow, error) {
	return r.Select(sw).FromDescriptor(d, sw)
}

// FromWireStats converts stats into a flow on a background goroutine and
// delivers it to the sink. It never blocks and reports errors only to the log.
func (r *Factory) FromWireStats(stats openflow.FlowStats, sw flow.Switch) {
	if stats == nil {
		panic("nil flow stats")
	}

	impl := r.Select(sw)
	r.spawn(func() {
		r.convert(impl, stats, sw)
	})
}

// FromWireStatsReply splits a complete flow statistics reply message and
// converts each of its records in the background.
func (r *Factory) FromWireStatsReply(data []byte, sw flow.Switch) {
	impl := r.Select(sw)
	// The caller may reuse its buffer once we return.
	msg := append([]byte(nil), data...)

	r.spawn(func() {
		records, err := impl.ParseStatsReply(msg)
		if err != nil {
			logger.Errorf("failed to parse a flow stats reply: switch=%v, err=%v", sw.ID(), err)
			return
		}
		logger.Debugf("received %v flow stats records: switch=%v", len(records), sw.ID())

		for _, v := range records {
			r.convert(impl, v, sw)
		}
	})
}

func (r *Factory) spawn(job func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		// Never fails with a background context.
		if err := r.sem.Acquire(context.Background(), 1); err != nil {
			logger.Errorf("failed to acquire a worker: %v", err)
			return
		}
		defer r.sem.Release(1)

		job()
	}()
}

func (r *Factory) convert(impl flow.Implementation, stats openflow.FlowStats, sw flow.Switch) {
	f, err := impl.FromWireStats(stats, sw)
	if err != nil {
		logger.Errorf("failed to convert flow stats: switch=%v, err=%v", sw.ID(), err)
		return
	}
	r.sink.Deliver(f)
}

// Wait blocks until every background conversion has finished.
func (r *Factory) Wait() {
	r.wg.Wait()
}
