package ising

import (
	errgo "gopkg.in/errgo.v1"

	"ising/internal/core"
)

// Name identifies the simulation in the core registry.
const Name = "ising"

// Coupling is the ferromagnetic nearest-neighbour coupling J.
const Coupling = 1

// historyLen bounds the per-sweep magnetization history kept for the viewer.
const historyLen = 512

// Engine runs single-spin-flip Metropolis dynamics on a periodic square lattice.
// It is not safe for concurrent use; independent runs use independent engines.
type Engine struct {
	cfg   Config
	seed  int64
	rng   core.Source
	lat   *core.Lattice
	probs ProbTable

	steps uint64
	stats Stats
	mag   int64
	trace *Trace
	err   error

	display        []uint8
	history        []int64
	sweepsPerFrame int
}

// Result summarises a finished run.
type Result struct {
	Seed          int64
	Steps         uint64
	Stats         Stats
	Magnetization int64
	Energy        int64
	Trace         *Trace
}

// New creates an engine seeded from cfg.Seed, or from the entropy pool when the
// seed is zero.
func New(cfg Config) (*Engine, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = core.EntropySeed()
	}
	e, err := NewWithSource(cfg, core.NewRNG(seed))
	if err != nil {
		return nil, err
	}
	e.seed = seed
	return e, nil
}

// NewWithSource creates an engine that draws from src.
func NewWithSource(cfg Config, src core.Source) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errgo.Mask(err, errgo.Is(ErrInvalidConfig))
	}
	if cfg.Start == "" {
		cfg.Start = StartRandom
	}
	e := &Engine{
		cfg:            cfg,
		seed:           cfg.Seed,
		rng:            src,
		lat:            core.NewLattice(cfg.Rows, cfg.Cols),
		probs:          NewProbTable(cfg.Beta),
		display:        make([]uint8, cfg.Sites()),
		sweepsPerFrame: 1,
	}
	e.initialize()
	return e, nil
}

func (e *Engine) initialize() {
	switch e.cfg.Start {
	case StartUp:
		e.lat.Fill(core.Up)
	case StartDown:
		e.lat.Fill(core.Down)
	default:
		e.lat.Randomize(e.rng)
	}
	e.steps = 0
	e.stats = Stats{}
	e.err = nil
	e.mag = e.lat.Magnetization()
	e.trace = nil
	if e.cfg.TrackTrace {
		e.trace = newTrace(e.cfg.TraceEvery, e.mag, e.cfg.Steps)
	}
	e.history = e.history[:0]
}

// Name returns the simulation identifier.
func (e *Engine) Name() string { return Name }

// Size returns the lattice dimensions.
func (e *Engine) Size() core.Size { return core.Size{W: e.cfg.Cols, H: e.cfg.Rows} }

// Cells exposes a binary render buffer of the current spins.
func (e *Engine) Cells() []uint8 {
	e.lat.Cells(e.display)
	return e.display
}

// Reset reseeds the random source, draws a fresh lattice and clears all counters.
// A zero seed reuses the configured seed, or the entropy pool if there is none.
func (e *Engine) Reset(seed int64) {
	if seed == 0 {
		seed = e.cfg.Seed
	}
	if seed == 0 {
		seed = core.EntropySeed()
	}
	e.seed = seed
	e.rng = core.NewRNG(seed)
	e.initialize()
}

// Step performs sweepsPerFrame sweeps of rows*cols attempts. Failures are kept
// and reported by Err, since the viewer loop has no error path.
func (e *Engine) Step() {
	if e.err != nil {
		return
	}
	n := uint64(e.lat.Len()) * uint64(e.sweepsPerFrame)
	if err := e.Advance(n); err != nil {
		return
	}
	if len(e.history) == historyLen {
		copy(e.history, e.history[1:])
		e.history = e.history[:historyLen-1]
	}
	e.history = append(e.history, e.mag)
}

// Advance executes exactly n Metropolis flip attempts.
func (e *Engine) Advance(n uint64) error {
	if e.err != nil {
		return e.err
	}
	lat := e.lat
	spins := lat.Spins()
	size := len(spins)
	rng := e.rng
	probs := &e.probs
	trace := e.trace

	steps, stats, mag := e.steps, e.stats, e.mag
	for ; n > 0; n-- {
		site := rng.IntN(size)
		if uint(site) >= uint(size) {
			e.steps, e.stats, e.mag = steps, stats, mag
			e.err = &IndexError{Step: steps + 1, Index: site, Len: size}
			return e.err
		}
		up, down, left, right := lat.Neighbors(site)
		s := spins[site]
		energy := -Coupling * int(s) * int(spins[up]+spins[down]+spins[left]+spins[right])

		if -energy < 0 {
			spins[site] = -s
			mag -= 2 * int64(s)
			stats.Accepted++
		} else if rng.Uint32() < probs[4+energy] {
			spins[site] = -s
			mag -= 2 * int64(s)
			stats.ConditionallyAccepted++
		} else {
			stats.Rejected++
		}
		steps++
		if trace != nil {
			trace.record(steps, mag)
		}
	}
	e.steps, e.stats, e.mag = steps, stats, mag
	if trace != nil {
		trace.seal(steps, mag)
	}
	return nil
}

// Run executes the configured steps not yet taken, then verifies the result.
func (e *Engine) Run() (Result, error) {
	if e.steps < e.cfg.Steps {
		if err := e.Advance(e.cfg.Steps - e.steps); err != nil {
			return Result{}, err
		}
	}
	if err := e.Verify(); err != nil {
		return Result{}, err
	}
	return e.Result(), nil
}

// Verify recomputes the magnetization from the lattice and checks it against
// the running total and the trace, and checks the counters against the steps.
func (e *Engine) Verify() error {
	if e.err != nil {
		return e.err
	}
	if total := e.stats.Total(); total != e.steps {
		return &CounterError{Stats: e.stats, Steps: e.steps}
	}
	m := e.lat.Magnetization()
	if e.mag != m {
		return &ConsistencyError{Source: "running total", Tracked: e.mag, Lattice: m}
	}
	if e.trace != nil {
		if last := int64(e.trace.Last()); last != m {
			return &ConsistencyError{Source: "trace", Tracked: last, Lattice: m}
		}
	}
	return nil
}

// Result snapshots the current state of the run.
func (e *Engine) Result() Result {
	return Result{
		Seed:          e.seed,
		Steps:         e.steps,
		Stats:         e.stats,
		Magnetization: e.mag,
		Energy:        e.lat.Energy(),
		Trace:         e.trace,
	}
}

// Err returns the error that stopped the engine, if any.
func (e *Engine) Err() error { return e.err }

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Seed returns the seed of the current random stream, zero if an external
// source was supplied.
func (e *Engine) Seed() int64 { return e.seed }

// Lattice exposes the spins for read-only use by sinks.
func (e *Engine) Lattice() *core.Lattice { return e.lat }

// Probabilities returns the acceptance table in use.
func (e *Engine) Probabilities() ProbTable { return e.probs }

// Stats returns the outcome counters so far.
func (e *Engine) Stats() Stats { return e.stats }

// Steps returns the number of attempts executed.
func (e *Engine) Steps() uint64 { return e.steps }

// Magnetization returns the running total magnetization.
func (e *Engine) Magnetization() int64 { return e.mag }

// Trace returns the magnetization trace, nil when it is not tracked.
func (e *Engine) Trace() *Trace { return e.trace }

// History returns the magnetization after each of the most recent sweeps taken
// through Step.
func (e *Engine) History() []int64 { return e.history }

// SetBeta swaps in a freshly computed table for a new inverse temperature. The
// previous table is never modified.
func (e *Engine) SetBeta(beta float64) error {
	if !validBeta(beta) {
		return errgo.WithCausef(nil, ErrInvalidConfig, "beta must be finite and non-negative, got %v", beta)
	}
	e.cfg.Beta = beta
	e.probs = NewProbTable(beta)
	return nil
}

func init() {
	core.Register(Name, func(cfg map[string]string) (core.Sim, error) {
		c, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		c.TrackTrace = false
		e, err := New(c)
		if err != nil {
			return nil, err
		}
		return e, nil
	})
}
