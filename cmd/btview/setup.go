package main

import (
	"fmt"

	"github.com/newthinker/btview/internal/config"
	"github.com/newthinker/btview/internal/logger"
	"go.uber.org/zap"
)

// setup loads and validates the configuration and builds the logger.
// --debug forces a development logger at debug level.
func setup() (*config.Config, *zap.Logger, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
	}

	if debug {
		cfg.Log.Development = true
		cfg.Log.Level = "debug"
	}

	log, err := logger.New(cfg.Log.Development, cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	if cfgFile == "" {
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, log, nil
}
