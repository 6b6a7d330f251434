// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jjtimmons/oligo/internal/optimize"
	"github.com/jjtimmons/oligo/internal/pool"
	"github.com/jjtimmons/oligo/internal/thermo"
	"github.com/jjtimmons/oligo/internal/validate"
)

// defaults for every setting
//
//go:embed settings.yaml
var defaultSettings []byte

// PoolConfig is where domains are drawn from
type PoolConfig struct {
	// Path to a FASTA, YAML or SQLite pool, the built-in pool if empty
	Path string `mapstructure:"path"`

	// IncludeDefault merges the built-in pool into the one at Path
	IncludeDefault bool `mapstructure:"include-default"`

	pool.Options `mapstructure:",squash"`
}

// SearchConfig are the defaults of a strand set search
type SearchConfig struct {
	// Generations is the number of trials if a request doesn't set one
	Generations int `mapstructure:"generations"`

	GCTarget            float64 `mapstructure:"gc-target"`
	CrossDimerThreshold float64 `mapstructure:"cross-dimer-threshold"`
	TopK                int     `mapstructure:"top-k"`
	Workers             int     `mapstructure:"workers"`

	// Timeout of a search, unbounded if zero
	Timeout time.Duration `mapstructure:"timeout"`

	TargetValid int                      `mapstructure:"target-valid"`
	Scoring     optimize.ScoringSettings `mapstructure:"scoring"`
}

// Config is the root-level settings struct and is a mix
// of settings available in settings.yaml and those
// available from the command line
type Config struct {
	// Seed of the first random source
	Seed int64 `mapstructure:"seed"`

	// Model is the thermodynamic model: linear or nn
	Model string `mapstructure:"model"`

	// Divalent folds Mg2+ into the Tm salt correction
	Divalent bool `mapstructure:"divalent"`

	Conditions thermo.Conditions `mapstructure:"conditions"`
	Pool       PoolConfig        `mapstructure:"pool"`
	Validation validate.Settings `mapstructure:"validation"`
	Search     SearchConfig      `mapstructure:"search"`
}

// Setup reads the embedded defaults into v and merges the settings file
// at path over them if path isn't empty. Environment variables prefixed
// OLIGO_ override both, e.g. OLIGO_CONDITIONS_SALT_CONC.
func Setup(v *viper.Viper, path string) error {
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultSettings)); err != nil {
		return fmt.Errorf("failed to read default settings: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("oligo")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return nil
}

// Decode unmarshals and checks the settings in v
func Decode(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// New returns a new Config populated by Viper settings (the embedded
// settings.yaml, a --config file and/or command line arguments)
func New() *Config {
	c, err := Decode(viper.GetViper())
	if err != nil {
		log.Fatalf("%v", err)
	}
	return c
}

// Validate returns the first setting that can't be used
func (c *Config) Validate() error {
	if _, err := thermo.ModelByName(c.Model); err != nil {
		return err
	}
	if err := c.Conditions.Validate(); err != nil {
		return err
	}
	if err := c.Pool.Options.Validate(); err != nil {
		return err
	}
	if err := c.Validation.Validate(); err != nil {
		return err
	}
	if c.Search.Generations < 0 {
		return fmt.Errorf("search generations must be >= 0, got %d", c.Search.Generations)
	}
	return nil
}

// Calculator returns a thermodynamic calculator for the configured model
// and conditions
func (c *Config) Calculator() (*thermo.Calculator, error) {
	m, err := thermo.ModelByName(c.Model)
	if err != nil {
		return nil, err
	}
	calc := thermo.NewCalculator(m, c.Conditions)
	calc.Divalent = c.Divalent
	return calc, nil
}

// LoadPool returns the configured sequence pool
func (c *Config) LoadPool(ctx context.Context) (*pool.Pool, error) {
	if c.Pool.Path == "" {
		return pool.Default(), nil
	}

	p, err := pool.Read(ctx, c.Pool.Path)
	if err != nil {
		return nil, err
	}
	if c.Pool.IncludeDefault {
		p = pool.Merge(p, pool.Default())
	}
	return p, nil
}

// SearchSettings returns the settings a search request starts from
func (c *Config) SearchSettings() optimize.Settings {
	s := optimize.DefaultSettings()
	s.GCTarget = c.Search.GCTarget
	s.Conditions = c.Conditions
	s.Model = c.Model
	s.Divalent = c.Divalent
	s.Validation = c.Validation
	s.Pool = c.Pool.Options
	s.CrossDimerThreshold = c.Search.CrossDimerThreshold
	s.Scoring = c.Search.Scoring
	s.TopK = c.Search.TopK
	s.Workers = c.Search.Workers
	s.Seed = c.Seed
	s.Timeout = c.Search.Timeout
	s.TargetValid = c.Search.TargetValid
	return s
}
