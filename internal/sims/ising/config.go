package ising

import (
	"math"
	"sort"
	"strconv"

	errgo "gopkg.in/errgo.v1"
)

// ErrInvalidConfig is the cause of every configuration validation failure.
var ErrInvalidConfig = errgo.New("invalid configuration")

// Initial lattice states.
const (
	StartRandom = "random"
	StartUp     = "up"
	StartDown   = "down"
)

// Config holds the parameters of one Metropolis run.
type Config struct {
	Rows int     `yaml:"rows"`
	Cols int     `yaml:"cols"`
	Beta float64 `yaml:"beta"`

	// Steps is the number of single-spin flip attempts Run executes.
	Steps uint64 `yaml:"steps"`

	// Seed zero means seed from the entropy pool.
	Seed int64 `yaml:"seed"`

	Start string `yaml:"start"`

	TrackTrace bool   `yaml:"track_trace"`
	TraceEvery uint64 `yaml:"trace_every"`

	PrintStats bool `yaml:"print_stats"`
}

// DefaultConfig returns the standard configuration: a 1000x1000 lattice quenched
// to beta=10 for a billion steps.
func DefaultConfig() Config {
	return Config{
		Rows:       1000,
		Cols:       1000,
		Beta:       10,
		Steps:      1_000_000_000,
		Start:      StartRandom,
		TrackTrace: true,
		TraceEvery: 1000,
		PrintStats: true,
	}
}

// FromMap applies the keys of cfg to the default Config in sorted key order
// and returns the first Set failure.
func FromMap(cfg map[string]string) (Config, error) {
	c := DefaultConfig()
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := c.Set(k, cfg[k]); err != nil {
			return c, err
		}
	}
	return c, nil
}

// Set assigns a single flag-style key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "rows", "h":
		v, err := strconv.Atoi(value)
		if err != nil || v <= 0 {
			return errgo.WithCausef(nil, ErrInvalidConfig, "%s: want a positive integer, got %q", key, value)
		}
		c.Rows = v
	case "cols", "w":
		v, err := strconv.Atoi(value)
		if err != nil || v <= 0 {
			return errgo.WithCausef(nil, ErrInvalidConfig, "%s: want a positive integer, got %q", key, value)
		}
		c.Cols = v
	case "beta":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || !validBeta(v) {
			return errgo.WithCausef(nil, ErrInvalidConfig, "beta: want a finite non-negative number, got %q", value)
		}
		c.Beta = v
	case "steps":
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return errgo.WithCausef(nil, ErrInvalidConfig, "steps: %v", err)
		}
		c.Steps = v
	case "seed":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return errgo.WithCausef(nil, ErrInvalidConfig, "seed: %v", err)
		}
		c.Seed = v
	case "start":
		if !validStart(value) {
			return errgo.WithCausef(nil, ErrInvalidConfig, "start: want random, up or down, got %q", value)
		}
		c.Start = value
	case "trace":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return errgo.WithCausef(nil, ErrInvalidConfig, "trace: %v", err)
		}
		c.TrackTrace = v
	case "trace_every":
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil || v == 0 {
			return errgo.WithCausef(nil, ErrInvalidConfig, "trace_every: want a positive integer, got %q", value)
		}
		c.TraceEvery = v
	case "stats":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return errgo.WithCausef(nil, ErrInvalidConfig, "stats: %v", err)
		}
		c.PrintStats = v
	default:
		return errgo.WithCausef(nil, ErrInvalidConfig, "unknown parameter %q", key)
	}
	return nil
}

// Validate reports the first problem that would stop a run from starting.
func (c Config) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return errgo.WithCausef(nil, ErrInvalidConfig, "lattice must be at least 1x1, got %dx%d", c.Rows, c.Cols)
	}
	if int64(c.Rows)*int64(c.Cols) > math.MaxInt32 {
		return errgo.WithCausef(nil, ErrInvalidConfig, "lattice %dx%d has more than 2^31-1 sites", c.Rows, c.Cols)
	}
	if !validBeta(c.Beta) {
		return errgo.WithCausef(nil, ErrInvalidConfig, "beta must be finite and non-negative, got %v", c.Beta)
	}
	if c.Start != "" && !validStart(c.Start) {
		return errgo.WithCausef(nil, ErrInvalidConfig, "unknown start state %q", c.Start)
	}
	if c.TrackTrace && c.TraceEvery == 0 {
		return errgo.WithCausef(nil, ErrInvalidConfig, "trace_every must be positive when the trace is tracked")
	}
	return nil
}

// Sites returns the number of lattice sites.
func (c Config) Sites() int { return c.Rows * c.Cols }

func validBeta(b float64) bool {
	return !math.IsNaN(b) && !math.IsInf(b, 0) && b >= 0
}

func validStart(s string) bool {
	switch s {
	case StartRandom, StartUp, StartDown:
		return true
	}
	return false
}
