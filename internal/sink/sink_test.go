package sink

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"ising/internal/analysis"
	"ising/internal/render"
	"ising/internal/sims/ising"
)

func runEngine(c *qt.C, steps uint64) *ising.Engine {
	cfg := ising.DefaultConfig()
	cfg.Rows, cfg.Cols = 12, 10
	cfg.Beta = 0.3
	cfg.Seed = 99
	cfg.Steps = steps
	cfg.TraceEvery = 1
	e, err := ising.New(cfg)
	c.Assert(err, qt.IsNil)
	_, err = e.Run()
	c.Assert(err, qt.IsNil)
	return e
}

func TestSnapshotName(t *testing.T) {
	c := qt.New(t)
	c.Assert(SnapshotName(1_000_000_000), qt.Equals, "t_1e9.png")
	c.Assert(SnapshotName(1234), qt.Equals, "t_1.234e3.png")
	c.Assert(SnapshotName(100), qt.Equals, "t_1e2.png")
	c.Assert(SnapshotName(7), qt.Equals, "t_7e0.png")
}

func TestWriteLattice(t *testing.T) {
	c := qt.New(t)
	e := runEngine(c, 500)
	path := filepath.Join(c.TempDir(), "out", SnapshotName(500))
	c.Assert(WriteLattice(path, e.Lattice(), 2), qt.IsNil)

	f, err := os.Open(path)
	c.Assert(err, qt.IsNil)
	defer f.Close()
	img, err := png.Decode(f)
	c.Assert(err, qt.IsNil)
	c.Assert(img.Bounds().Dx(), qt.Equals, 20)
	c.Assert(img.Bounds().Dy(), qt.Equals, 24)

	lat := e.Lattice()
	for i := 0; i < lat.Len(); i++ {
		r, col := lat.Coords(i)
		want := render.DownColor
		if lat.Get(i) > 0 {
			want = render.UpColor
		}
		got := img.At(2*col+1, 2*r+1)
		gr, gg, gb, _ := got.RGBA()
		c.Assert([3]uint8{uint8(gr >> 8), uint8(gg >> 8), uint8(gb >> 8)}, qt.Equals, [3]uint8{want.R, want.G, want.B},
			qt.Commentf("site %d", i))
	}
}

func TestDownsampleKeepsExtremes(t *testing.T) {
	c := qt.New(t)
	e := runEngine(c, 5000)
	tr := e.Trace()
	values := tr.Values()

	s := Downsample(tr, 100)
	c.Assert(len(s.Steps) <= 2*100+2, qt.IsTrue, qt.Commentf("%d points", len(s.Steps)))
	c.Assert(s.Steps, qt.HasLen, len(s.Values))
	c.Assert(s.Steps[0], qt.Equals, 0.0)
	c.Assert(s.Steps[len(s.Steps)-1], qt.Equals, 5000.0)
	c.Assert(s.Values[len(s.Values)-1], qt.Equals, float64(tr.Last()))

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	var gotLo, gotHi float64 = s.Values[0], s.Values[0]
	for i, v := range s.Values {
		gotLo, gotHi = min(gotLo, v), max(gotHi, v)
		if i > 0 {
			c.Assert(s.Steps[i] > s.Steps[i-1], qt.IsTrue, qt.Commentf("steps not increasing at %d", i))
		}
	}
	c.Assert(gotLo, qt.Equals, float64(lo))
	c.Assert(gotHi, qt.Equals, float64(hi))

	full := Downsample(tr, 10_000)
	c.Assert(full.Values, qt.HasLen, tr.Len())
}

func TestWriteTraceChart(t *testing.T) {
	c := qt.New(t)
	e := runEngine(c, 3000)
	var buf bytes.Buffer
	c.Assert(WriteTraceChart(&buf, e.Trace()), qt.IsNil)
	cfg, err := png.DecodeConfig(&buf)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Width, qt.Equals, chartWidth)
	c.Assert(cfg.Height, qt.Equals, chartHeight)

	c.Assert(WriteTraceChart(&buf, nil), qt.ErrorMatches, "no magnetization trace recorded")

	path := filepath.Join(c.TempDir(), TraceName)
	c.Assert(SaveTraceChart(path, e.Trace()), qt.IsNil)
	info, err := os.Stat(path)
	c.Assert(err, qt.IsNil)
	c.Assert(info.Size() > 0, qt.IsTrue)
}

func TestStepAxis(t *testing.T) {
	c := qt.New(t)
	name, format := stepAxis(1, 500)
	c.Assert(name, qt.Equals, "Steps")
	c.Assert(format(250.0), qt.Equals, "250")

	name, format = stepAxis(1000, 3e8)
	c.Assert(name, qt.Equals, "Steps [x 100,000,000], recorded every 1000")
	c.Assert(format(1.5e8), qt.Equals, "1.5")

	e := runEngine(c, 3000)
	name, _ = stepAxis(e.Trace().Every(), 3000)
	c.Assert(name, qt.Equals, "Steps")
}

func TestMovie(t *testing.T) {
	c := qt.New(t)
	cfg := ising.DefaultConfig()
	cfg.Rows, cfg.Cols = 8, 8
	cfg.Seed = 5
	cfg.TrackTrace = false
	e, err := ising.New(cfg)
	c.Assert(err, qt.IsNil)

	path := filepath.Join(c.TempDir(), "run.avi")
	m, err := NewMovie(path, cfg.Rows, cfg.Cols, 4, 10)
	c.Assert(err, qt.IsNil)
	for i := 0; i < 3; i++ {
		c.Assert(e.Advance(64), qt.IsNil)
		c.Assert(m.AddFrame(e.Lattice()), qt.IsNil)
	}
	c.Assert(m.Frames(), qt.Equals, 3)
	c.Assert(m.Close(), qt.IsNil)

	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data[:4]), qt.Equals, "RIFF")
}

func TestWriteReport(t *testing.T) {
	c := qt.New(t)
	e := runEngine(c, 2000)
	res := e.Result()
	sum := analysis.Summarize(analysis.PerSite(res.Trace.Values(), e.Lattice().Len()))

	var buf bytes.Buffer
	c.Assert(WriteReport(&buf, e.Config(), res, &sum), qt.IsNil)
	out := buf.String()
	for _, want := range []string{
		"Relative count",
		"Conditionally accepted",
		"Rejected",
		fmt.Sprintf("%d", res.Magnetization),
		fmt.Sprintf("%d", res.Stats.Accepted),
		"Autocorrelation time",
		"relative spin count",
		fmt.Sprintf("%d entries, every 1 steps", res.Trace.Len()),
	} {
		c.Assert(strings.Contains(out, want), qt.IsTrue, qt.Commentf("report lacks %q:\n%s", want, out))
	}

	buf.Reset()
	res.Trace = nil
	c.Assert(WriteReport(&buf, e.Config(), res, nil), qt.IsNil)
	c.Assert(strings.Contains(buf.String(), "Autocorrelation time"), qt.IsFalse)
	c.Assert(strings.Contains(buf.String(), "entries, every"), qt.IsFalse)
}
