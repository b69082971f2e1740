// Package analysis reduces magnetization traces to summary statistics and an
// estimate of their integrated autocorrelation time.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// window is the Sokal self-consistent window factor: summation stops at the
// first lag M with M >= window*tau(M).
const window = 5

// Summary describes a series of per-site magnetizations.
type Summary struct {
	N       int
	Mean    float64
	AbsMean float64
	StdDev  float64
	Min     float64
	Max     float64

	// Tau is the integrated autocorrelation time in trace entries.
	Tau float64
}

// EffectiveSamples is the number of statistically independent entries.
func (s Summary) EffectiveSamples() float64 {
	if s.Tau <= 0 {
		return float64(s.N)
	}
	return float64(s.N) / (2 * s.Tau)
}

// PerSite converts a magnetization trace into magnetization per site.
func PerSite(trace []int32, sites int) []float64 {
	out := make([]float64, len(trace))
	for i, m := range trace {
		out[i] = float64(m)
	}
	if sites > 0 {
		floats.Scale(1/float64(sites), out)
	}
	return out
}

// Summarize computes the summary of x. An empty series gives the zero Summary.
func Summarize(x []float64) Summary {
	if len(x) == 0 {
		return Summary{}
	}
	s := Summary{N: len(x), Min: floats.Min(x), Max: floats.Max(x)}
	if len(x) == 1 {
		s.Mean = x[0]
	} else {
		s.Mean, s.StdDev = stat.MeanStdDev(x, nil)
	}
	abs := make([]float64, len(x))
	for i, v := range x {
		abs[i] = math.Abs(v)
	}
	s.AbsMean = stat.Mean(abs, nil)
	s.Tau = IntegratedTime(Autocorrelation(x))
	return s
}

// Autocorrelation returns the normalised autocorrelation rho(t) of x for lags
// 0..len(x)-1, computed by FFT on a zero-padded copy. A constant series gives
// rho(0) = 1 and zero elsewhere.
func Autocorrelation(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}
	rho := make([]float64, n)
	rho[0] = 1

	mean := stat.Mean(x, nil)
	size := 1
	for size < 2*n {
		size <<= 1
	}
	padded := make([]float64, size)
	for i, v := range x {
		padded[i] = v - mean
	}
	spectrum := fft.FFTReal(padded)
	for i, c := range spectrum {
		spectrum[i] = complex(cmplx.Abs(c)*cmplx.Abs(c), 0)
	}
	acf := fft.IFFT(spectrum)

	c0 := real(acf[0])
	if c0 <= 0 {
		return rho
	}
	for t := 1; t < n; t++ {
		rho[t] = real(acf[t]) / c0
	}
	return rho
}

// IntegratedTime estimates tau = 1/2 + sum rho(t) over a self-consistent window.
// White noise gives 1/2.
func IntegratedTime(rho []float64) float64 {
	if len(rho) == 0 {
		return 0
	}
	tau := 0.5
	for m := 1; m < len(rho); m++ {
		tau += rho[m]
		if float64(m) >= window*tau {
			break
		}
	}
	return tau
}
