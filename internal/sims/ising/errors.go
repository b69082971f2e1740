package ising

import "fmt"

// IndexError reports a site index outside the lattice. It can only come from a
// broken random source and aborts the run.
type IndexError struct {
	Step  uint64
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("step %d: site index %d out of range [0, %d)", e.Step, e.Index, e.Len)
}

// ConsistencyError reports a bookkept magnetization that disagrees with the
// lattice it describes.
type ConsistencyError struct {
	Source  string
	Tracked int64
	Lattice int64
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("magnetization check failed: %s says %d, lattice sums to %d", e.Source, e.Tracked, e.Lattice)
}

// CounterError reports outcome counters that do not add up to the steps taken.
type CounterError struct {
	Stats Stats
	Steps uint64
}

func (e *CounterError) Error() string {
	return fmt.Sprintf("counter check failed: %d accepted + %d conditionally accepted + %d rejected != %d steps",
		e.Stats.Accepted, e.Stats.ConditionallyAccepted, e.Stats.Rejected, e.Steps)
}
