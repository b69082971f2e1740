package core

import (
	"sort"

	errgo "gopkg.in/errgo.v1"
)

// ErrUnknownSim is returned by Lookup for names nothing registered.
var ErrUnknownSim = errgo.New("unknown simulation")

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim is the contract the viewer drives: one Step per frame, Cells for painting.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// Factory constructs a Sim from flag-style key/value options.
type Factory func(cfg map[string]string) (Sim, error)

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Lookup builds the simulation registered under name.
func Lookup(name string, cfg map[string]string) (Sim, error) {
	f, ok := sims[name]
	if !ok {
		return nil, errgo.WithCausef(nil, ErrUnknownSim, "unknown simulation %q", name)
	}
	sim, err := f(cfg)
	if err != nil {
		return nil, errgo.NoteMask(err, "cannot create "+name, errgo.Any)
	}
	return sim, nil
}

// Names lists the registered simulations in sorted order.
func Names() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
