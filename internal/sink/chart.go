package sink

import (
	"fmt"
	"io"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	errgo "gopkg.in/errgo.v1"

	"ising/internal/sims/ising"
)

const (
	chartWidth   = 1280
	chartHeight  = 960
	chartBuckets = 2000

	// stepUnit is the x axis unit once a run is long enough.
	stepUnit = 100_000_000
)

// Series is a trace reduced for plotting.
type Series struct {
	Steps  []float64
	Values []float64
}

// Downsample reduces tr to about 2*buckets points, keeping the minimum and
// maximum of every bucket so short excursions stay visible. The first and last
// entries are always kept.
func Downsample(tr *ising.Trace, buckets int) Series {
	n := tr.Len()
	if n == 0 {
		return Series{}
	}
	values := tr.Values()
	if buckets < 1 || n <= 2*buckets {
		s := Series{Steps: make([]float64, n), Values: make([]float64, n)}
		for i, v := range values {
			s.Steps[i] = float64(tr.StepAt(i))
			s.Values[i] = float64(v)
		}
		return s
	}

	var s Series
	add := func(i int) {
		s.Steps = append(s.Steps, float64(tr.StepAt(i)))
		s.Values = append(s.Values, float64(values[i]))
	}
	size := (n + buckets - 1) / buckets
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		lowest, highest := lo, lo
		for i := lo + 1; i < hi; i++ {
			if values[i] < values[lowest] {
				lowest = i
			}
			if values[i] > values[highest] {
				highest = i
			}
		}
		first, second := min(lowest, highest), max(lowest, highest)
		if lo == 0 && first != 0 {
			add(0)
		}
		add(first)
		if second != first {
			add(second)
		}
		if hi == n && second != n-1 {
			add(n - 1)
		}
	}
	return s
}

// stepAxis names the x axis and formats its ticks. Long runs are shown in
// units of stepUnit, and a trace stride above one is noted in the name.
func stepAxis(every uint64, last float64) (string, func(interface{}) string) {
	name := "Steps"
	format := func(v interface{}) string {
		return strconv.FormatFloat(v.(float64), 'f', 0, 64)
	}
	if last >= stepUnit {
		name = "Steps [x 100,000,000]"
		format = func(v interface{}) string {
			return strconv.FormatFloat(v.(float64)/stepUnit, 'f', 1, 64)
		}
	}
	if every > 1 {
		name += fmt.Sprintf(", recorded every %d", every)
	}
	return name, format
}

// WriteTraceChart renders the relative spin count over time as a PNG.
func WriteTraceChart(w io.Writer, tr *ising.Trace) error {
	if tr == nil || tr.Len() == 0 {
		return errgo.New("no magnetization trace recorded")
	}
	s := Downsample(tr, chartBuckets)
	last := s.Steps[len(s.Steps)-1]

	xName, formatX := stepAxis(tr.Every(), last)

	lo, hi := s.Values[0], s.Values[0]
	for _, v := range s.Values {
		lo, hi = min(lo, v), max(hi, v)
	}
	pad := max((hi-lo)*0.05, 1)

	graph := chart.Chart{
		Title:  "Relative spin count",
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           xName,
			Style:          chart.Style{FontSize: 12},
			ValueFormatter: formatX,
			Range:          &chart.ContinuousRange{Min: s.Steps[0], Max: max(last, s.Steps[0]+1)},
		},
		YAxis: chart.YAxis{
			Name:  ">0 indicates more positive spins",
			Style: chart.Style{FontSize: 12},
			Range: &chart.ContinuousRange{Min: lo - pad, Max: hi + pad},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "magnetization",
				XValues: s.Steps,
				YValues: s.Values,
				Style:   chart.Style{StrokeColor: chart.ColorBlack, StrokeWidth: 1.5},
			},
		},
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return errgo.Notef(err, "render trace chart")
	}
	return nil
}

// SaveTraceChart writes the trace chart to path.
func SaveTraceChart(path string, tr *ising.Trace) (err error) {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errgo.Notef(cerr, "close %s", path)
		}
	}()
	return WriteTraceChart(f, tr)
}
