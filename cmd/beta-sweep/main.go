package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"ising/internal/sims/ising"
)

type replicaResult struct {
	beta     float64
	replica  int
	absM     float64
	energy   float64
	rejected float64
}

type betaSummary struct {
	beta     float64
	absM     float64
	absMStd  float64
	energy   float64
	rejected float64
	replicas int
}

func main() {
	rows := flag.Int("rows", 64, "lattice rows")
	cols := flag.Int("cols", 64, "lattice columns")
	sweeps := flag.Int("sweeps", 2000, "sweeps of rows*cols attempts per replica")
	betas := flag.String("betas", "", "comma separated beta values (overrides -from/-to/-n)")
	from := flag.Float64("from", 0.2, "first beta of the grid")
	to := flag.Float64("to", 0.8, "last beta of the grid")
	n := flag.Int("n", 13, "number of beta values in the grid")
	replicas := flag.Int("replicas", 4, "independent replicas per beta")
	seed := flag.Int64("seed", 1337, "base seed; replica seeds are derived from it")
	workers := flag.Int("workers", runtime.NumCPU(), "number of replicas run in parallel")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "beta-sweep"})
	if lvl, err := log.ParseLevel(*level); err == nil {
		logger.SetLevel(lvl)
	}

	grid, err := betaGrid(*betas, *from, *to, *n)
	if err != nil {
		logger.Fatal("invalid beta grid", "err", err)
	}

	steps, err := sweepSteps(*rows, *cols, *sweeps, *replicas, *workers)
	if err != nil {
		logger.Fatal("invalid sweep", "err", err)
	}

	base := ising.DefaultConfig()
	base.Rows = *rows
	base.Cols = *cols
	base.Steps = steps
	base.TrackTrace = false
	base.PrintStats = false
	if err := base.Validate(); err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	logger.Info("sweeping", "betas", len(grid), "replicas", *replicas, "workers", *workers, "steps", base.Steps)

	start := time.Now()
	results := make([]replicaResult, len(grid)*(*replicas))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*workers)
	for i, beta := range grid {
		for r := 0; r < *replicas; r++ {
			slot := i*(*replicas) + r
			cfg := base
			cfg.Beta = beta
			cfg.Seed = *seed + int64(slot)*7919 + 1
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := runReplica(cfg)
				if err != nil {
					return fmt.Errorf("beta=%g replica=%d: %w", cfg.Beta, r, err)
				}
				res.replica = r
				results[slot] = res
				logger.Debug("replica done", "beta", beta, "replica", r, "abs_m", res.absM)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		logger.Fatal("sweep failed", "err", err)
	}

	summaries := summarize(results)
	elapsed := time.Since(start)

	fmt.Printf("\n%8s %8s %10s %10s %12s %10s\n", "beta", "replicas", "<|m|>", "std", "E/site", "rejected")
	absM := make([]float64, len(summaries))
	for i, s := range summaries {
		fmt.Printf("%8.4f %8d %10.4f %10.4f %12.4f %10.4f\n", s.beta, s.replicas, s.absM, s.absMStd, s.energy, s.rejected)
		absM[i] = s.absM
	}
	if len(absM) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(absM,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("<|m|> for beta %.3g..%.3g", grid[0], grid[len(grid)-1]))))
	}
	if crit := steepest(summaries); crit > 0 {
		fmt.Printf("\nSteepest rise of <|m|> near beta=%.4f (exact critical point %.4f)\n", crit, math.Log(1+math.Sqrt2)/2)
	}
	logger.Info("done", "elapsed", elapsed.Round(time.Millisecond))
}

func runReplica(cfg ising.Config) (replicaResult, error) {
	e, err := ising.New(cfg)
	if err != nil {
		return replicaResult{}, err
	}
	res, err := e.Run()
	if err != nil {
		return replicaResult{}, err
	}
	sites := float64(cfg.Sites())
	return replicaResult{
		beta:     cfg.Beta,
		absM:     math.Abs(float64(res.Magnetization)) / sites,
		energy:   float64(res.Energy) / sites,
		rejected: res.Stats.Fraction(res.Stats.Rejected),
	}, nil
}

func summarize(results []replicaResult) []betaSummary {
	byBeta := map[float64][]replicaResult{}
	for _, r := range results {
		byBeta[r.beta] = append(byBeta[r.beta], r)
	}
	var out []betaSummary
	for beta, rs := range byBeta {
		absM := make([]float64, len(rs))
		energy := make([]float64, len(rs))
		rejected := make([]float64, len(rs))
		for i, r := range rs {
			absM[i], energy[i], rejected[i] = r.absM, r.energy, r.rejected
		}
		s := betaSummary{beta: beta, replicas: len(rs)}
		if len(rs) > 1 {
			s.absM, s.absMStd = stat.MeanStdDev(absM, nil)
		} else {
			s.absM = absM[0]
		}
		s.energy = floats.Sum(energy) / float64(len(rs))
		s.rejected = floats.Sum(rejected) / float64(len(rs))
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].beta < out[j].beta })
	return out
}

// steepest returns the midpoint of the grid interval where <|m|> rises fastest.
func steepest(s []betaSummary) float64 {
	best, at := 0.0, 0.0
	for i := 1; i < len(s); i++ {
		db := s[i].beta - s[i-1].beta
		if db <= 0 {
			continue
		}
		if slope := (s[i].absM - s[i-1].absM) / db; slope > best {
			best, at = slope, (s[i].beta+s[i-1].beta)/2
		}
	}
	return at
}

func betaGrid(list string, from, to float64, n int) ([]float64, error) {
	if list != "" {
		var out []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil || !(v >= 0) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("bad beta %q", f)
			}
			out = append(out, v)
		}
		return out, nil
	}
	if n < 1 || from < 0 || to < from {
		return nil, fmt.Errorf("need n >= 1 and 0 <= from <= to, got n=%d from=%g to=%g", n, from, to)
	}
	if n == 1 {
		return []float64{from}, nil
	}
	out := make([]float64, n)
	floats.Span(out, from, to)
	return out, nil
}

// sweepSteps checks the run shape flags and returns the step count of one
// replica, sweeps*rows*cols.
func sweepSteps(rows, cols, sweeps, replicas, workers int) (uint64, error) {
	switch {
	case rows < 1 || cols < 1:
		return 0, fmt.Errorf("need rows, cols >= 1, got %dx%d", rows, cols)
	case sweeps < 0:
		return 0, fmt.Errorf("need sweeps >= 0, got %d", sweeps)
	case replicas < 1:
		return 0, fmt.Errorf("need replicas >= 1, got %d", replicas)
	case workers < 1:
		return 0, fmt.Errorf("need workers >= 1, got %d", workers)
	}
	if uint64(rows) > math.MaxUint64/uint64(cols) {
		return 0, fmt.Errorf("lattice %dx%d too large", rows, cols)
	}
	sites := uint64(rows) * uint64(cols)
	if sweeps > 0 && uint64(sweeps) > math.MaxUint64/sites {
		return 0, fmt.Errorf("%d sweeps of %d sites overflow the step counter", sweeps, sites)
	}
	return uint64(sweeps) * sites, nil
}
