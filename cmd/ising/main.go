package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"ising/internal/analysis"
	"ising/internal/core"
	"ising/internal/runconfig"
	"ising/internal/sims/ising"
	"ising/internal/sink"
)

// chunk bounds the attempts taken between progress checks.
const chunk = 1 << 22

func main() {
	cfg := runconfig.NewConfig()
	fs := flag.NewFlagSet("ising", flag.ExitOnError)
	cfg.Bind(fs)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ising",
	})
	if err := cfg.Parse(fs, os.Args[1:]); err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}
	logger.SetLevel(cfg.Level())

	if _, err := run(cfg, logger, os.Stdout); err != nil {
		logger.Fatal("run failed", "err", err)
	}
}

// outcome describes what a run produced.
type outcome struct {
	result ising.Result
	frames int
}

// frameClock spreads a fixed number of movie frames evenly over a run.
type frameClock struct {
	steps  uint64
	frames uint64
	next   uint64
}

func newFrameClock(steps uint64, frames int) *frameClock {
	return &frameClock{steps: steps, frames: uint64(max(frames, 1)), next: 1}
}

// due returns the step count at which the next frame is taken, or false once
// every frame has been taken. Frame k falls on floor(k*steps/frames).
func (f *frameClock) due() (uint64, bool) {
	if f.next > f.frames {
		return 0, false
	}
	q, r := f.steps/f.frames, f.steps%f.frames
	return f.next*q + f.next*r/f.frames, true
}

func run(cfg *runconfig.Config, logger *log.Logger, report io.Writer) (outcome, error) {
	e, err := ising.New(cfg.Sim)
	if err != nil {
		return outcome{}, err
	}
	sc := e.Config()
	logger.Info("starting",
		"rows", sc.Rows, "cols", sc.Cols, "beta", sc.Beta,
		"steps", sc.Steps, "seed", e.Seed(), "start", sc.Start)

	out := cfg.Output
	if out.Snapshots {
		path := filepath.Join(out.Dir, sink.InitialName)
		if err := sink.WriteLattice(path, e.Lattice(), out.Scale); err != nil {
			return outcome{}, err
		}
		logger.Debug("wrote initial lattice", "path", path)
	}

	var movie *sink.Movie
	var clock *frameClock
	frames := 0
	capture := func() error {
		if movie == nil {
			return nil
		}
		for {
			at, ok := clock.due()
			if !ok || at > e.Steps() {
				return nil
			}
			if err := movie.AddFrame(e.Lattice()); err != nil {
				return err
			}
			clock.next++
		}
	}
	if out.Movie != "" {
		movie, err = sink.NewMovie(filepath.Join(out.Dir, out.Movie), sc.Rows, sc.Cols, out.Scale, out.MovieFPS)
		if err != nil {
			return outcome{}, err
		}
		defer func() {
			if movie != nil {
				movie.Close()
			}
		}()
		clock = newFrameClock(sc.Steps, out.MovieFrames)
		if err := movie.AddFrame(e.Lattice()); err != nil {
			return outcome{}, err
		}
		if err := capture(); err != nil {
			return outcome{}, err
		}
	}

	start := time.Now()
	progress := core.NewThrottle(5 * time.Second)
	progress.Ready()
	for e.Steps() < sc.Steps {
		n := min(sc.Steps-e.Steps(), chunk)
		if movie != nil {
			if at, ok := clock.due(); ok {
				n = min(n, at-e.Steps())
			}
		}
		if err := e.Advance(n); err != nil {
			return outcome{}, err
		}
		if err := capture(); err != nil {
			return outcome{}, err
		}
		if progress.Ready() {
			sites := float64(e.Lattice().Len())
			logger.Info("progress",
				"steps", e.Steps(),
				"done", float64(e.Steps())/float64(sc.Steps),
				"m", float64(e.Magnetization())/sites,
				"rejected", e.Stats().Fraction(e.Stats().Rejected))
		}
	}

	res, err := e.Run()
	if err != nil {
		return outcome{}, err
	}
	elapsed := time.Since(start)
	logger.Info("finished",
		"steps", res.Steps,
		"elapsed", elapsed.Round(time.Millisecond),
		"magnetization", res.Magnetization)

	if movie != nil {
		if err := movie.Close(); err != nil {
			return outcome{}, err
		}
		frames = movie.Frames()
		logger.Info("wrote movie", "frames", frames)
		movie = nil
	}

	if out.Snapshots {
		path := filepath.Join(out.Dir, sink.SnapshotName(res.Steps))
		if err := sink.WriteLattice(path, e.Lattice(), out.Scale); err != nil {
			return outcome{}, err
		}
		logger.Debug("wrote final lattice", "path", path)
	}

	var summary *analysis.Summary
	if res.Trace != nil {
		s := analysis.Summarize(analysis.PerSite(res.Trace.Values(), e.Lattice().Len()))
		summary = &s
		if out.Plot {
			path := filepath.Join(out.Dir, sink.TraceName)
			if err := sink.SaveTraceChart(path, res.Trace); err != nil {
				return outcome{}, err
			}
			logger.Debug("wrote trace chart", "path", path)
		}
	}

	if sc.PrintStats {
		if err := sink.WriteReport(report, sc, res, summary); err != nil {
			return outcome{}, err
		}
	}
	return outcome{result: res, frames: frames}, nil
}
