package ising

import "math"

// fixedPointScale maps probability 1.0 onto 2^32, the range of a uniform Uint32 draw.
const fixedPointScale = 1 << 32

// ProbTable holds the Metropolis acceptance probability for each of the nine
// possible energy changes, as thresholds comparable directly with a uniform
// 32-bit draw. Entry k covers a half energy change of 4-k coupling units, so
// index 4 is the zero-change entry and index 0 the costliest flip.
type ProbTable [9]uint32

// NewProbTable precomputes the thresholds for inverse temperature beta.
func NewProbTable(beta float64) ProbTable {
	var t ProbTable
	for k := range t {
		delta := float64(4 - k)
		t[k] = toFixedPoint(math.Exp(-2 * beta * delta))
	}
	return t
}

// Threshold returns the threshold for a pre-flip local energy of energy, which
// must be even and within [-4, 4].
func (t *ProbTable) Threshold(energy int) uint32 { return t[4+energy] }

// Probability converts entry k back to a probability in [0, 1].
func (t *ProbTable) Probability(k int) float64 {
	return float64(t[k]) / fixedPointScale
}

// toFixedPoint scales p by 2^32 and rounds. Anything that would not fit saturates
// at math.MaxUint32, so certain acceptance is off by one part in 2^32.
func toFixedPoint(p float64) uint32 {
	if math.IsNaN(p) || p <= 0 {
		return 0
	}
	scaled := math.Round(p * fixedPointScale)
	if scaled >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(scaled)
}
