package app

import (
	"flag"
	"strconv"
)

// Config represents the command-line parameters for the viewer.
type Config struct {
	Sim   string
	Scale int
	TPS   int
	Seed  int64
	Rows  int
	Cols  int
	Beta  float64
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Sim: "ising", Scale: 3, TPS: 30, Seed: 42, Rows: 200, Cols: 200, Beta: 0.44}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.Rows, "rows", c.Rows, "lattice rows")
	fs.IntVar(&c.Cols, "cols", c.Cols, "lattice columns")
	fs.Float64Var(&c.Beta, "beta", c.Beta, "initial inverse temperature")
}

// Options renders the simulation parameters in the form core.Lookup expects.
func (c *Config) Options() map[string]string {
	return map[string]string{
		"rows": strconv.Itoa(c.Rows),
		"cols": strconv.Itoa(c.Cols),
		"seed": strconv.FormatInt(c.Seed, 10),
		"beta": strconv.FormatFloat(c.Beta, 'g', -1, 64),
	}
}
