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
	"regexp"
	"testing"

	"github.com/op/go-logging"
)

type fakeWriter struct {
	lines []string
}

func (r *fakeWriter) write(priority string) func(string) error {
	return func(s string) error {
		r.lines = append(r.lines, fmt.Sprintf("%v %v", priority, s))
		return nil
	}
}

func (r *fakeWriter) Crit(s string) error    { return r.write("crit")(s) }
func (r *fakeWriter) Err(s string) error     { return r.write("err")(s) }
func (r *fakeWriter) Warning(s string) error { return r.write("warning")(s) }
func (r *fakeWriter) Notice(s string) error  { return r.write("notice")(s) }
func (r *fakeWriter) Info(s string) error    { return r.write("info")(s) }
func (r *fakeWriter) Debug(s string) error   { return r.write("debug")(s) }

func TestSyslog(t *testing.T) {
	w := new(fakeWriter)
	backend := logging.NewBackendFormatter(newSyslog(w), logging.MustStringFormatter("%{message}"))

	samples := []struct {
		Level    logging.Level
		Priority string
	}{
		{logging.CRITICAL, "crit"},
		{logging.ERROR, "err"},
		{logging.WARNING, "warning"},
		{logging.NOTICE, "notice"},
		{logging.INFO, "info"},
		{logging.DEBUG, "debug"},
	}
	for i, v := range samples {
		record := &logging.Record{Level: v.Level, Args: []interface{}{"hello"}}
		if err := backend.Log(v.Level, 0, record); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		pattern := regexp.MustCompile(fmt.Sprintf(`^%v hello \(goroutine=\d+\)$`, v.Priority))
		if !pattern.MatchString(w.lines[i]) {
			t.Fatalf("unexpected line: level=%v, line=%q", v.Level, w.lines[i])
		}
	}

	if err := backend.Log(logging.Level(42), 0, &logging.Record{}); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}
