// Package sink writes the artefacts of a run: lattice snapshots, the trace chart,
// an optional movie and the console report.
package sink

import (
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	errgo "gopkg.in/errgo.v1"

	"ising/internal/core"
	"ising/internal/render"
)

// File names written into the output directory.
const (
	InitialName = "t_0.png"
	TraceName   = "count.png"
)

// SnapshotName names the lattice image taken after steps attempts, with the step
// count in mantissa/exponent form: 1000000000 becomes t_1e9.png.
func SnapshotName(steps uint64) string {
	return "t_" + sciNotation(steps) + ".png"
}

func sciNotation(n uint64) string {
	s := strconv.FormatFloat(float64(n), 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	k, err := strconv.Atoi(exp)
	if err != nil {
		return strconv.FormatUint(n, 10)
	}
	return mant + "e" + strconv.Itoa(k)
}

// WriteLattice encodes the lattice as a PNG at path, scale pixels per site.
func WriteLattice(path string, lat *core.Lattice, scale int) (err error) {
	img := render.SpinImage(lat.Spins(), lat.Rows, lat.Cols, scale)
	f, err := create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errgo.Notef(cerr, "close %s", path)
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return errgo.Notef(err, "encode %s", path)
	}
	return nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errgo.Notef(err, "create output directory")
	}
	return nil
}

func create(path string) (*os.File, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errgo.Notef(err, "create %s", path)
	}
	return f, nil
}
