// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

// config holds defaults taken from the environment.  Flags override
// them.
type config struct {
	Level    string `env:"QRLOGO_LEVEL" envDefault:"l"`
	Scale    uint   `env:"QRLOGO_SCALE" envDefault:"4"`
	Margin   uint   `env:"QRLOGO_MARGIN" envDefault:"4"`
	Format   string `env:"QRLOGO_FORMAT"`
	LogLevel string `env:"QRLOGO_LOG_LEVEL" envDefault:"info"`
}

func loadConfig() (config, error) {
	return env.ParseAs[config]()
}

func newLogger(level string) (*log.Logger, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "qrlogo",
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return logger, err
	}
	logger.SetLevel(lvl)
	return logger, nil
}
