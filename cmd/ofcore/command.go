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

package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/superkkt/ofcore/factory"
	"github.com/superkkt/ofcore/flow"
	"github.com/superkkt/ofcore/flow/v0x01"
	"github.com/superkkt/ofcore/flow/v0x04"
	"github.com/superkkt/ofcore/openflow"
	"github.com/superkkt/ofcore/openflow/transceiver"
)

type command struct {
	name    string
	summary string
	run     func(args []string, in io.Reader, out io.Writer) error
}

var commands = []command{
	{"encode", "convert a flow descriptor into a FLOW_MOD message in hex", runEncode},
	{"decode-stats", "convert flow statistics replies in hex into flow descriptors", runDecodeStats},
	{"describe", "print a flow descriptor with the defaults and its identifiers", runDescribe},
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}

	return command{}, false
}

type switchFlags struct {
	version *int
	id      *string
}

func newFlagSet(name string) (*flag.FlagSet, switchFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return fs, switchFlags{
		version: fs.Int("version", 0, "OpenFlow version, 1 or 4 (default: default.version of the config)"),
		id:      fs.String("switch", "", "switch ID (default: the switch of the descriptor)"),
	}
}

// newSwitch prefers the flags over the descriptor and the config file.
func (r switchFlags) newSwitch(d flow.Descriptor) (flow.Switch, error) {
	version := defaultConfig().Version
	if *r.version != 0 {
		v, err := versionOf(*r.version)
		if err != nil {
			return nil, err
		}
		version = v
	}

	id := *r.id
	if id == "" && d != nil {
		s, _, err := d.Str(flow.KeySwitch)
		if err != nil {
			return nil, err
		}
		id = s
	}

	return flow.NewSwitch(id, version), nil
}

func implementation(version uint8) flow.Implementation {
	if version == openflow.OF10_VERSION {
		return v0x01.New()
	}
	return v0x04.New()
}

func newFactory(sink flow.Sink) *factory.Factory {
	conf := defaultConfig()
	return factory.New(implementation(conf.Version), sink, factory.WithMaxWorkers(conf.MaxWorkers))
}

// readInput reads the file named by the first argument, or in if there is none.
func readInput(fs *flag.FlagSet, in io.Reader) ([]byte, error) {
	if fs.NArg() > 0 {
		return os.ReadFile(fs.Arg(0))
	}
	return io.ReadAll(in)
}

func decodeDescriptor(data []byte) (flow.Descriptor, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	// Keep 64-bit cookies and metadata exact.
	dec.UseNumber()

	var d flow.Descriptor
	if err := dec.Decode(&d); err != nil {
		return nil, errors.Wrap(err, "invalid flow descriptor")
	}
	logger.Debugf("flow descriptor: %v", spew.Sdump(d))

	return d, nil
}

func parseFlowModCmd(s string) (openflow.FlowModCmd, error) {
	for _, v := range []openflow.FlowModCmd{openflow.FlowAdd, openflow.FlowModify, openflow.FlowDelete} {
		if v.String() == strings.ToLower(s) {
			return v, nil
		}
	}

	return 0, fmt.Errorf("unknown flow mod command: %v", s)
}

func flowFromInput(fs *flag.FlagSet, sf switchFlags, in io.Reader) (flow.Flow, error) {
	data, err := readInput(fs, in)
	if err != nil {
		return nil, err
	}
	d, err := decodeDescriptor(data)
	if err != nil {
		return nil, err
	}
	sw, err := sf.newSwitch(d)
	if err != nil {
		return nil, err
	}

	discard := flow.SinkFunc(func(flow.Flow) {})
	return newFactory(discard).FromDescriptor(d, sw)
}

func runEncode(args []string, in io.Reader, out io.Writer) error {
	fs, sf := newFlagSet("encode")
	cmdName := fs.String("command", "add", "FLOW_MOD command: add, modify or delete")
	xid := fs.Uint("xid", 0, "transaction ID of the message")
	binary := fs.Bool("binary", false, "write the raw message instead of hex")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cmd, err := parseFlowModCmd(*cmdName)
	if err != nil {
		return err
	}

	f, err := flowFromInput(fs, sf, in)
	if err != nil {
		return err
	}

	var mod openflow.FlowMod
	switch cmd {
	case openflow.FlowAdd:
		mod, err = f.AddCommand(uint32(*xid))
	case openflow.FlowModify:
		mod, err = f.ModifyCommand(uint32(*xid))
	case openflow.FlowDelete:
		mod, err = f.DeleteCommand(uint32(*xid))
	}
	if err != nil {
		return errors.Wrap(err, "failed to build a FLOW_MOD")
	}
	logger.Debugf("%v FLOW_MOD of flow %v: %v", cmd, f.ID(), spew.Sdump(mod))
	if *binary {
		return transceiver.NewStream(nil, out, 0).Write(mod)
	}

	data, err := mod.MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "failed to encode a FLOW_MOD")
	}
	_, err = fmt.Fprintln(out, hex.EncodeToString(data))
	return err
}

func runDescribe(args []string, in io.Reader, out io.Writer) error {
	fs, sf := newFlagSet("describe")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := flowFromInput(fs, sf, in)
	if err != nil {
		return err
	}

	d := f.Descriptor(true)
	d["match_id"] = f.MatchID()
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode the flow descriptor")
	}

	_, err = fmt.Fprintln(out, string(data))
	return err
}

// printer writes one JSON line per flow.
type printer struct {
	mutex sync.Mutex
	out   io.Writer
	err   error
}

func (r *printer) Deliver(f flow.Flow) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.err != nil {
		return
	}
	data, err := json.Marshal(f.Descriptor(true))
	if err != nil {
		r.err = errors.Wrap(err, "failed to encode a flow descriptor")
		return
	}
	_, r.err = fmt.Fprintln(r.out, string(data))
}

// runDecodeStats reads one reply message in hex per line, or a sequence of raw
// messages with -binary. A flow reported again with the same counters is
// printed once.
func runDecodeStats(args []string, in io.Reader, out io.Writer) error {
	fs, sf := newFlagSet("decode-stats")
	binary := fs.Bool("binary", false, "read raw messages instead of hex lines")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sw, err := sf.newSwitch(nil)
	if err != nil {
		return err
	}
	data, err := readInput(fs, in)
	if err != nil {
		return err
	}

	conf := defaultConfig()
	p := &printer{out: out}
	f := newFactory(flow.NewDedupSink(p, conf.DedupSize, conf.DedupExpiration))

	next := hexMessages(data)
	if *binary {
		next = rawMessages(data)
	}
	for {
		msg, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		f.FromWireStatsReply(msg, sw)
		// Keep the output in the order of the input.
		f.Wait()
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.err
}

func hexMessages(data []byte) func() ([]byte, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	n := 0

	return func() ([]byte, error) {
		for scanner.Scan() {
			n++
			line := strings.Join(strings.Fields(scanner.Text()), "")
			if line == "" {
				continue
			}
			msg, err := hex.DecodeString(line)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid hex at line %v", n)
			}
			return msg, nil
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}

		return nil, io.EOF
	}
}

func rawMessages(data []byte) func() ([]byte, error) {
	stream := transceiver.NewStream(bytes.NewReader(data), nil, 0)
	return stream.ReadMessage
}
