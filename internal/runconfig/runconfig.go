// Package runconfig gathers the parameters of a batch run from defaults, an
// optional YAML file and command-line flags, in increasing precedence.
package runconfig

import (
	"errors"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	errgo "gopkg.in/errgo.v1"
	"gopkg.in/yaml.v3"

	"ising/internal/sims/ising"
)

// Output controls which artefacts a run writes.
type Output struct {
	Dir         string `yaml:"dir"`
	Scale       int    `yaml:"scale"`
	Snapshots   bool   `yaml:"snapshots"`
	Plot        bool   `yaml:"plot"`
	Movie       string `yaml:"movie"`
	MovieFrames int    `yaml:"movie_frames"`
	MovieFPS    int    `yaml:"movie_fps"`
}

// Config represents the parameters of one batch run.
type Config struct {
	Sim      ising.Config `yaml:",inline"`
	Output   Output       `yaml:"output"`
	LogLevel string       `yaml:"log_level"`

	// File is the YAML file the run was loaded from, if any.
	File string `yaml:"-"`

	overrides kvList
}

// NewConfig returns a Config populated with the engine defaults.
func NewConfig() *Config {
	return &Config{
		Sim: ising.DefaultConfig(),
		Output: Output{
			Dir:         ".",
			Scale:       1,
			Snapshots:   true,
			Plot:        true,
			MovieFrames: 100,
			MovieFPS:    10,
		},
		LogLevel: "info",
	}
}

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.File, "config", c.File, "YAML file with run parameters")
	fs.IntVar(&c.Sim.Rows, "rows", c.Sim.Rows, "lattice rows")
	fs.IntVar(&c.Sim.Cols, "cols", c.Sim.Cols, "lattice columns")
	fs.Float64Var(&c.Sim.Beta, "beta", c.Sim.Beta, "inverse temperature")
	fs.Uint64Var(&c.Sim.Steps, "steps", c.Sim.Steps, "single-spin flip attempts")
	fs.Int64Var(&c.Sim.Seed, "seed", c.Sim.Seed, "random seed (0 seeds from entropy)")
	fs.StringVar(&c.Sim.Start, "start", c.Sim.Start, "initial lattice: random, up or down")
	fs.BoolVar(&c.Sim.TrackTrace, "trace", c.Sim.TrackTrace, "record the magnetization trace")
	fs.Uint64Var(&c.Sim.TraceEvery, "trace-every", c.Sim.TraceEvery, "steps between trace entries")
	fs.BoolVar(&c.Sim.PrintStats, "stats", c.Sim.PrintStats, "print the statistics report")
	fs.StringVar(&c.Output.Dir, "out", c.Output.Dir, "output directory")
	fs.IntVar(&c.Output.Scale, "scale", c.Output.Scale, "pixels per site in lattice images")
	fs.BoolVar(&c.Output.Snapshots, "snapshots", c.Output.Snapshots, "write initial and final lattice images")
	fs.BoolVar(&c.Output.Plot, "plot", c.Output.Plot, "write the trace chart")
	fs.StringVar(&c.Output.Movie, "movie", c.Output.Movie, "AVI file to record lattice frames into")
	fs.IntVar(&c.Output.MovieFrames, "frames", c.Output.MovieFrames, "movie frames over the run")
	fs.IntVar(&c.Output.MovieFPS, "fps", c.Output.MovieFPS, "movie frame rate")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn or error")
	fs.Var(&c.overrides, "set", "engine parameter override in key=value form (repeatable)")
}

// Parse parses args into c. Explicit flags win over values read from the
// -config file, which win over the defaults.
func (c *Config) Parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.File != "" {
		explicit := map[string]string{}
		fs.Visit(func(f *flag.Flag) {
			if f.Name != "set" && f.Name != "config" {
				explicit[f.Name] = f.Value.String()
			}
		})
		if err := c.Load(c.File); err != nil {
			return err
		}
		for name, value := range explicit {
			if err := fs.Set(name, value); err != nil {
				return errgo.Notef(err, "reapply -%s", name)
			}
		}
	}
	for _, kv := range c.overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return errgo.WithCausef(nil, ising.ErrInvalidConfig, "override %q is not key=value", kv)
		}
		if err := c.Sim.Set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return errgo.Mask(err, errgo.Is(ising.ErrInvalidConfig))
		}
	}
	return c.Validate()
}

// Load reads YAML run parameters from path on top of the current values.
func (c *Config) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errgo.Notef(err, "open run config")
	}
	defer f.Close()
	if err := c.Decode(f); err != nil {
		return errgo.NoteMask(err, path, errgo.Is(ising.ErrInvalidConfig))
	}
	return nil
}

// Decode reads YAML run parameters from r on top of the current values.
// Unknown keys are rejected.
func (c *Config) Decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return errgo.WithCausef(err, ising.ErrInvalidConfig, "decode run config")
	}
	return nil
}

// Validate checks the engine and output parameters.
func (c *Config) Validate() error {
	if err := c.Sim.Validate(); err != nil {
		return errgo.Mask(err, errgo.Is(ising.ErrInvalidConfig))
	}
	if c.Output.Scale < 1 {
		return errgo.WithCausef(nil, ising.ErrInvalidConfig, "scale must be at least 1, got %d", c.Output.Scale)
	}
	if c.Output.Movie != "" && (c.Output.MovieFrames < 1 || c.Output.MovieFPS < 1) {
		return errgo.WithCausef(nil, ising.ErrInvalidConfig, "movie needs positive frames and fps")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errgo.WithCausef(nil, ising.ErrInvalidConfig, "unknown log level %q", c.LogLevel)
	}
	return nil
}

// Level returns the parsed log level, info if it does not parse.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
