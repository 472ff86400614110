package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/stateiter/iterable"
)

const (
	envObserver    = "STATEITER_OBSERVER"
	envMaxBuffered = "STATEITER_MAX_BUFFERED"
)

// resolveConfig layers defaults, the config file, environment variables and
// explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command, opts *runOptions) (*iterable.Config, error) {
	cfg := iterable.DefaultConfig()

	if opts.configFile != "" {
		loaded, err := iterable.LoadConfig(opts.configFile)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	env := iterable.Config{Observer: os.Getenv(envObserver)}
	if v := os.Getenv(envMaxBuffered); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envMaxBuffered, err)
		}
		env.MaxBuffered = n
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	cfg.Merge(&env)

	flags := cmd.Flags()
	if flags.Changed("name") {
		cfg.Name = opts.name
	}
	if flags.Changed("observer") {
		cfg.Observer = opts.observer
	}
	// a flag may reset the cap to 0 (unbounded), which Merge cannot express
	if flags.Changed("max-buffered") {
		cfg.MaxBuffered = opts.maxBuffered
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
