// Package config reads the run configuration of a feeddown calculation:
// an INI-style file (gcfg) overridden by FEEDDOWN_* environment variables.
//
// Example file:
//
//	[particles]
//	generate-antiparticles = true
//	mass-cutoff = 2.5
//	sort-mode = baryon-mass-id
//	normalize-branching-ratios = true
//
//	[resolver]
//	max-final-states = 500
//	workers = 4
//
//	[output]
//	database = tables.db
//
// Every value has a default (see Default); a missing file section keeps it.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"gopkg.in/gcfg.v1"

	"github.com/katalvlaran/feeddown/particlelist"
	"github.com/katalvlaran/feeddown/resolver"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Particles is the [particles] section.
type Particles struct {
	GenerateAntiparticles    bool    `gcfg:"generate-antiparticles"     env:"FEEDDOWN_GENERATE_ANTIPARTICLES"`
	MassCutoff               float64 `gcfg:"mass-cutoff"                env:"FEEDDOWN_MASS_CUTOFF"`
	SortMode                 string  `gcfg:"sort-mode"                  env:"FEEDDOWN_SORT_MODE"`
	NormalizeBranchingRatios bool    `gcfg:"normalize-branching-ratios" env:"FEEDDOWN_NORMALIZE_BRANCHING_RATIOS"`
}

// Resolver is the [resolver] section. Workers = 0 means one per GOMAXPROCS.
type Resolver struct {
	MaxFinalStates int `gcfg:"max-final-states" env:"FEEDDOWN_MAX_FINAL_STATES"`
	Workers        int `gcfg:"workers"          env:"FEEDDOWN_WORKERS"`
}

// Output is the [output] section. An empty Database disables storing.
type Output struct {
	Database string `gcfg:"database" env:"FEEDDOWN_DATABASE"`
	Run      string `gcfg:"run"      env:"FEEDDOWN_RUN"`
}

// Config is the whole configuration file.
type Config struct {
	Particles Particles
	Resolver  Resolver
	Output    Output
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	lc := particlelist.DefaultConfig()

	return Config{
		Particles: Particles{
			GenerateAntiparticles: lc.GenerateAntiparticles,
			MassCutoff:            lc.MassCutoff,
			SortMode:              lc.SortMode.String(),
		},
		Resolver: Resolver{
			MaxFinalStates: resolver.DefaultMaxFinalStates,
		},
		Output: Output{
			Run: "default",
		},
	}
}

// Load reads fname (skipped when empty) over the defaults, applies
// environment overrides and validates the result.
func Load(fname string) (Config, error) {
	c := Default()
	if fname != "" {
		if err := gcfg.ReadFileInto(&c, fname); err != nil {
			return Config{}, fmt.Errorf("read %s: %w", fname, err)
		}
	}

	return finish(c)
}

// ReadString is Load for configuration text held in memory.
func ReadString(text string) (Config, error) {
	c := Default()
	if err := gcfg.ReadStringInto(&c, text); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	return finish(c)
}

// finish applies environment overrides and validates.
func finish(c Config) (Config, error) {
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate reports every out-of-range value, joined.
func (c Config) Validate() error {
	var errs []error
	if !(c.Particles.MassCutoff > 0) {
		errs = append(errs, fmt.Errorf("%w: mass-cutoff %g must be positive", ErrInvalid, c.Particles.MassCutoff))
	}
	if _, err := particlelist.ParseSortMode(c.Particles.SortMode); err != nil {
		errs = append(errs, fmt.Errorf("%w: sort-mode: %w", ErrInvalid, err))
	}
	if c.Resolver.MaxFinalStates < 1 {
		errs = append(errs, fmt.Errorf("%w: max-final-states %d must be at least 1", ErrInvalid, c.Resolver.MaxFinalStates))
	}
	if c.Output.Database != "" && c.Output.Run == "" {
		errs = append(errs, fmt.Errorf("%w: run name required with database", ErrInvalid))
	}
	if c.Resolver.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers %d must not be negative", ErrInvalid, c.Resolver.Workers))
	}

	return errors.Join(errs...)
}

// ListConfig converts the [particles] section. c must be valid.
func (c Config) ListConfig() particlelist.Config {
	mode, _ := particlelist.ParseSortMode(c.Particles.SortMode)

	return particlelist.Config{
		GenerateAntiparticles: c.Particles.GenerateAntiparticles,
		MassCutoff:            c.Particles.MassCutoff,
		SortMode:              mode,
	}
}

// ResolverOptions converts the [resolver] section. c must be valid.
func (c Config) ResolverOptions() []resolver.Option {
	opts := []resolver.Option{resolver.WithMaxFinalStates(c.Resolver.MaxFinalStates)}
	if c.Resolver.Workers > 0 {
		opts = append(opts, resolver.WithWorkers(c.Resolver.Workers))
	}

	return opts
}
