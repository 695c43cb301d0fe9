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
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/op/go-logging"
	"github.com/superkkt/ofcore/log"
)

const (
	programName    = "ofcore"
	programVersion = "0.1.0"
)

var (
	logger            = logging.MustGetLogger("main")
	showVersion       = flag.Bool("version", false, "Show program version and exit")
	defaultConfigFile = flag.String("config", fmt.Sprintf("/usr/local/etc/%v.yaml", programName), "absolute path of the configuration file")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %v [-config file] <command> [arguments]\n\nCommands:\n", programName)
	for _, c := range commands {
		fmt.Fprintf(flag.CommandLine.Output(), "  %-14v %v\n", c.name, c.summary)
	}
	fmt.Fprintf(flag.CommandLine.Output(), "\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())
	flag.Usage = usage
	flag.Parse()
	if *showVersion {
		fmt.Printf("Version: %v\n", programVersion)
		os.Exit(0)
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := initConfig(*defaultConfigFile); err != nil {
		logger.Fatalf("failed to init the configuration: %v", err)
	}
	leveled, err := initLog()
	if err != nil {
		logger.Fatalf("failed to init log: %v", err)
	}
	watchConfig(leveled)

	c, ok := findCommand(flag.Arg(0))
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %v\n", flag.Arg(0))
		flag.Usage()
		os.Exit(2)
	}
	if err := c.run(flag.Args()[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", c.name, err)
		os.Exit(1)
	}
}

func initLog() (logging.LeveledBackend, error) {
	var backend logging.Backend
	switch v := defaultConfig().LogBackend; v {
	case "syslog":
		w, err := log.NewSyslog(programName)
		if err != nil {
			return nil, err
		}
		backend = w
	case "stderr":
		backend = log.NewStderr()
	default:
		return nil, fmt.Errorf("unknown log backend: %v", v)
	}

	return log.Init(backend, logLevel()), nil
}

func logLevel() logging.Level {
	name := defaultConfig().LogLevel
	level, ok := log.ParseLevel(name)
	if !ok {
		logger.Infof("invalid log level=%v, defaulting to %v..", name, level)
	}

	return level
}
