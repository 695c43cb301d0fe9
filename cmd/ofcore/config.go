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
	"os"
	"runtime"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/superkkt/ofcore/openflow"
)

type config struct {
	LogLevel   string
	LogBackend string
	// Version is the OpenFlow wire version used when a command does not name one.
	Version         uint8
	MaxWorkers      int
	DedupSize       int
	DedupExpiration time.Duration
}

func setDefaults() {
	viper.SetDefault("default.log_level", "info")
	viper.SetDefault("default.log_backend", "stderr")
	viper.SetDefault("default.version", 4)
	viper.SetDefault("factory.max_workers", runtime.NumCPU())
	viper.SetDefault("dedup.size", 1024)
	viper.SetDefault("dedup.expiration", "30s")
}

// initConfig reads the config file if it exists.
func initConfig(path string) error {
	setDefaults()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			logger.Debugf("config file %v does not exist, using the defaults", path)
			return validateConfig()
		}
		return errors.Wrap(err, "failed to stat the config file")
	}

	viper.SetConfigFile(path)
	// Read the config file.
	if err := viper.ReadInConfig(); err != nil {
		return errors.Wrap(err, "failed to read the config file")
	}

	return validateConfig()
}

// watchConfig re-applies the log level to leveled whenever the config file
// loaded by initConfig is written.
func watchConfig(leveled logging.LeveledBackend) {
	if viper.ConfigFileUsed() == "" {
		return
	}

	// Watching and re-reading config file whenever it changes.
	viper.OnConfigChange(func(e fsnotify.Event) {
		// Ignore the WRITE operation to avoid reading empty config.
		if e.Op != fsnotify.Write {
			return
		}
		// Set log level for all modules
		leveled.SetLevel(logLevel(), "")
	})
	viper.WatchConfig()
}

func validateConfig() error {
	if len(viper.GetString("default.log_level")) == 0 {
		return errors.New("invalid default.log_level")
	}
	if _, err := versionOf(viper.GetInt("default.version")); err != nil {
		return errors.Wrap(err, "invalid default.version")
	}
	if viper.GetInt("factory.max_workers") <= 0 {
		return errors.New("invalid factory.max_workers")
	}
	if viper.GetInt("dedup.size") <= 0 {
		return errors.New("invalid dedup.size")
	}
	if viper.GetDuration("dedup.expiration") <= 0 {
		return errors.New("invalid dedup.expiration")
	}

	return nil
}

func defaultConfig() config {
	// validateConfig has already rejected an unknown version.
	version, _ := versionOf(viper.GetInt("default.version"))

	return config{
		LogLevel:        viper.GetString("default.log_level"),
		LogBackend:      viper.GetString("default.log_backend"),
		Version:         version,
		MaxWorkers:      viper.GetInt("factory.max_workers"),
		DedupSize:       viper.GetInt("dedup.size"),
		DedupExpiration: viper.GetDuration("dedup.expiration"),
	}
}

// versionOf maps 1 or 10 to OpenFlow 1.0, and 4 or 13 to OpenFlow 1.3.
func versionOf(v int) (uint8, error) {
	switch v {
	case 1, 10:
		return openflow.OF10_VERSION, nil
	case 4, 13:
		return openflow.OF13_VERSION, nil
	default:
		return 0, errors.Wrapf(openflow.ErrUnsupportedVersion, "version %v", v)
	}
}
