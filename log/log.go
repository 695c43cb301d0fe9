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

package log

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/op/go-logging"
)

const (
	DefaultLevel = logging.INFO
	format       = `%{level}: %{shortpkg}.%{shortfunc}: %{message}`
)

// NewStderr returns a backend that writes to the standard error.
func NewStderr() logging.Backend {
	return NewWriter(os.Stderr)
}

func NewWriter(w io.Writer) logging.Backend {
	return logging.NewLogBackend(w, "", 0)
}

// Init formats every record of backend and installs it for all modules at level.
// The returned backend changes the level later and is safe to use while other
// goroutines are logging.
func Init(backend logging.Backend, level logging.Level) logging.LeveledBackend {
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter(format))

	leveled := &lockedLeveled{backend: logging.AddModuleLevel(formatted)}
	// Set log level for all modules
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)

	return leveled
}

// lockedLeveled serializes access to the module level table of go-logging,
// which is a plain map.
type lockedLeveled struct {
	mutex   sync.RWMutex
	backend logging.LeveledBackend
}

func (r *lockedLeveled) Log(level logging.Level, calldepth int, record *logging.Record) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.backend.Log(level, calldepth+1, record)
}

func (r *lockedLeveled) GetLevel(module string) logging.Level {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.backend.GetLevel(module)
}

func (r *lockedLeveled) SetLevel(level logging.Level, module string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.backend.SetLevel(level, module)
}

func (r *lockedLeveled) IsEnabledFor(level logging.Level, module string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.backend.IsEnabledFor(level, module)
}

// ParseLevel returns DefaultLevel and false for an unknown level name.
func ParseLevel(level string) (logging.Level, bool) {
	v, err := logging.LogLevel(strings.ToUpper(level))
	if err != nil {
		return DefaultLevel, false
	}

	return v, true
}
