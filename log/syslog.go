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
	"fmt"
	"log/syslog"
	"runtime"
	"strings"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

// syslogWriter is the subset of *syslog.Writer used by the backend.
type syslogWriter interface {
	Crit(string) error
	Err(string) error
	Warning(string) error
	Notice(string) error
	Info(string) error
	Debug(string) error
}

// Syslog is a go-logging backend that maps each level to the syslog priority of
// the same name. Lines are suffixed with the ID of the logging goroutine.
type Syslog struct {
	writers map[logging.Level]func(string) error
}

// NewSyslog connects to the local syslog daemon with the daemon facility.
func NewSyslog(prefix string) (*Syslog, error) {
	w, err := syslog.New(syslog.LOG_CRIT|syslog.LOG_DAEMON, prefix)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to syslog")
	}

	return newSyslog(w), nil
}

func newSyslog(w syslogWriter) *Syslog {
	return &Syslog{
		writers: map[logging.Level]func(string) error{
			logging.CRITICAL: w.Crit,
			logging.ERROR:    w.Err,
			logging.WARNING:  w.Warning,
			logging.NOTICE:   w.Notice,
			logging.INFO:     w.Info,
			logging.DEBUG:    w.Debug,
		},
	}
}

func (r *Syslog) Log(level logging.Level, calldepth int, record *logging.Record) error {
	write, ok := r.writers[level]
	if !ok {
		return errors.Errorf("unexpected log level: %v", level)
	}

	return write(fmt.Sprintf("%v (goroutine=%v)", record.Formatted(calldepth+1), goroutineID()))
}

// goroutineID parses the first line of the stack trace, "goroutine N [running]:".
func goroutineID() string {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	fields := strings.Fields(string(buf))
	if len(fields) < 2 {
		return "?"
	}

	return fields[1]
}
