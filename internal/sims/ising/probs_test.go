package ising

import (
	"math"
	"testing"
)

func TestProbTableMonotoneAndSaturates(t *testing.T) {
	for _, beta := range []float64{0.01, 0.2, 0.4406868, 1, 3, 10} {
		table := NewProbTable(beta)
		for k := 1; k < len(table); k++ {
			if table[k-1] > table[k] {
				t.Fatalf("beta=%v: table[%d]=%d > table[%d]=%d", beta, k-1, table[k-1], k, table[k])
			}
		}
		if table[0] > table[4] {
			t.Fatalf("beta=%v: costliest flip more likely than a free one", beta)
		}
		for k := 4; k < len(table); k++ {
			if table[k] != math.MaxUint32 {
				t.Fatalf("beta=%v: table[%d]=%d, expected saturation", beta, k, table[k])
			}
		}
	}
}

func TestProbTableValues(t *testing.T) {
	table := NewProbTable(1)
	for k := 0; k < 4; k++ {
		delta := float64(4 - k)
		want := uint32(math.Round(math.Exp(-2*delta) * (1 << 32)))
		if table[k] != want {
			t.Fatalf("table[%d]=%d, expected %d", k, table[k], want)
		}
		if got := table.Probability(k); math.Abs(got-math.Exp(-2*delta)) > 1e-9 {
			t.Fatalf("probability(%d)=%v, expected %v", k, got, math.Exp(-2*delta))
		}
	}
	if got := table.Threshold(-4); got != table[0] {
		t.Fatalf("threshold(-4)=%d, expected table[0]=%d", got, table[0])
	}
	if got := table.Threshold(0); got != math.MaxUint32 {
		t.Fatalf("threshold(0)=%d, expected saturation", got)
	}
}

func TestProbTableInfiniteTemperature(t *testing.T) {
	table := NewProbTable(0)
	for k, v := range table {
		if v != math.MaxUint32 {
			t.Fatalf("beta=0: table[%d]=%d, expected saturation", k, v)
		}
	}
}

func TestProbTableZeroTemperature(t *testing.T) {
	table := NewProbTable(1000)
	for k := 0; k < 4; k++ {
		if table[k] != 0 {
			t.Fatalf("beta=1000: table[%d]=%d, expected 0", k, table[k])
		}
	}
	if table[4] != math.MaxUint32 {
		t.Fatalf("beta=1000: zero-cost flip threshold %d, expected saturation", table[4])
	}
}

func TestToFixedPointClamps(t *testing.T) {
	cases := []struct {
		p    float64
		want uint32
	}{
		{math.NaN(), 0},
		{-1, 0},
		{0, 0},
		{0.5, 1 << 31},
		{1, math.MaxUint32},
		{2, math.MaxUint32},
		{math.Inf(1), math.MaxUint32},
	}
	for _, c := range cases {
		if got := toFixedPoint(c.p); got != c.want {
			t.Fatalf("toFixedPoint(%v)=%d, expected %d", c.p, got, c.want)
		}
	}
}
