package runconfig

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	qt "github.com/frankban/quicktest"
	errgo "gopkg.in/errgo.v1"

	"ising/internal/sims/ising"
)

func parse(c *qt.C, args ...string) (*Config, error) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.Bind(fs)
	return cfg, cfg.Parse(fs, args)
}

func writeFile(c *qt.C, body string) string {
	path := filepath.Join(c.TempDir(), "run.yaml")
	c.Assert(os.WriteFile(path, []byte(body), 0o644), qt.IsNil)
	return path
}

func TestDefaults(t *testing.T) {
	c := qt.New(t)
	cfg, err := parse(c)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Sim, qt.Equals, ising.DefaultConfig())
	c.Assert(cfg.Output.Scale, qt.Equals, 1)
	c.Assert(cfg.Level(), qt.Equals, log.InfoLevel)
}

func TestFlags(t *testing.T) {
	c := qt.New(t)
	cfg, err := parse(c, "-rows", "32", "-cols", "48", "-beta", "0.44", "-steps", "1000",
		"-seed", "9", "-start", "up", "-trace=false", "-out", "runs", "-log-level", "debug")
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Sim.Rows, qt.Equals, 32)
	c.Assert(cfg.Sim.Cols, qt.Equals, 48)
	c.Assert(cfg.Sim.Beta, qt.Equals, 0.44)
	c.Assert(cfg.Sim.Steps, qt.Equals, uint64(1000))
	c.Assert(cfg.Sim.Seed, qt.Equals, int64(9))
	c.Assert(cfg.Sim.Start, qt.Equals, ising.StartUp)
	c.Assert(cfg.Sim.TrackTrace, qt.IsFalse)
	c.Assert(cfg.Output.Dir, qt.Equals, "runs")
	c.Assert(cfg.Level(), qt.Equals, log.DebugLevel)
}

func TestFileUnderFlags(t *testing.T) {
	c := qt.New(t)
	path := writeFile(c, `
rows: 64
cols: 64
beta: 0.3
steps: 5000
output:
  dir: from-file
  scale: 3
log_level: warn
`)
	cfg, err := parse(c, "-config", path, "-beta", "0.5", "-scale", "2")
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.File, qt.Equals, path)
	c.Assert(cfg.Sim.Rows, qt.Equals, 64)
	c.Assert(cfg.Sim.Steps, qt.Equals, uint64(5000))
	c.Assert(cfg.Sim.Beta, qt.Equals, 0.5)
	c.Assert(cfg.Output.Scale, qt.Equals, 2)
	c.Assert(cfg.Output.Dir, qt.Equals, "from-file")
	c.Assert(cfg.Level(), qt.Equals, log.WarnLevel)
	c.Assert(cfg.Sim.Cols, qt.Equals, 64)
	c.Assert(cfg.Sim.TraceEvery, qt.Equals, ising.DefaultConfig().TraceEvery)
}

func TestSetOverrides(t *testing.T) {
	c := qt.New(t)
	cfg, err := parse(c, "-set", "beta=2.5", "-set", "w = 17", "-beta", "1")
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Sim.Beta, qt.Equals, 2.5)
	c.Assert(cfg.Sim.Cols, qt.Equals, 17)

	_, err = parse(c, "-set", "beta")
	c.Assert(errgo.Cause(err), qt.Equals, ising.ErrInvalidConfig)
	_, err = parse(c, "-set", "colour=red")
	c.Assert(errgo.Cause(err), qt.Equals, ising.ErrInvalidConfig)
}

func TestInvalid(t *testing.T) {
	c := qt.New(t)
	for _, args := range [][]string{
		{"-rows", "0"},
		{"-beta", "-1"},
		{"-start", "hot"},
		{"-scale", "0"},
		{"-movie", "m.avi", "-frames", "0"},
		{"-log-level", "loud"},
	} {
		_, err := parse(c, args...)
		c.Assert(errgo.Cause(err), qt.Equals, ising.ErrInvalidConfig, qt.Commentf("args %v", args))
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	c := qt.New(t)
	cfg := NewConfig()
	err := cfg.Decode(strings.NewReader("temperature: 3\n"))
	c.Assert(errgo.Cause(err), qt.Equals, ising.ErrInvalidConfig)

	c.Assert(cfg.Decode(strings.NewReader("")), qt.IsNil)
	c.Assert(cfg.Sim, qt.Equals, ising.DefaultConfig())

	_, err = parse(c, "-config", filepath.Join(c.TempDir(), "missing.yaml"))
	c.Assert(err, qt.ErrorMatches, "open run config: .*")
}
