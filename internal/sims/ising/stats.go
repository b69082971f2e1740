package ising

// Stats tallies the outcome of every flip attempt.
type Stats struct {
	// Accepted counts flips that lowered the local energy and were taken
	// without drawing.
	Accepted uint64
	// ConditionallyAccepted counts flips taken because the draw fell under the
	// Boltzmann threshold.
	ConditionallyAccepted uint64
	Rejected              uint64
}

// Total returns the number of attempts recorded.
func (s Stats) Total() uint64 {
	return s.Accepted + s.ConditionallyAccepted + s.Rejected
}

// Flipped returns the number of attempts that changed the lattice.
func (s Stats) Flipped() uint64 {
	return s.Accepted + s.ConditionallyAccepted
}

// Fraction returns n as a fraction of Total, or zero before the first attempt.
func (s Stats) Fraction(n uint64) float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// traceCapHint bounds the up-front allocation; longer traces grow by append.
const traceCapHint = 1 << 24

// Trace is the magnetization time series of a run. Entry 0 is the initial
// magnetization and entry i the magnetization after step i*Every. The final
// entry always reflects the most recent step, even when it falls between
// stride points.
type Trace struct {
	every  uint64
	next   uint64
	values []int32
	// tail is the step of the final entry when it is off-stride, zero otherwise.
	tail uint64
}

func newTrace(every uint64, initial int64, steps uint64) *Trace {
	if every == 0 {
		every = 1
	}
	hint := steps/every + 2
	if hint > traceCapHint {
		hint = traceCapHint
	}
	t := &Trace{every: every, next: every, values: make([]int32, 1, hint)}
	t.values[0] = int32(initial)
	return t
}

// record is called after every step with the 1-based step count.
func (t *Trace) record(step uint64, m int64) {
	if step != t.next {
		return
	}
	if t.tail != 0 {
		t.values = t.values[:len(t.values)-1]
		t.tail = 0
	}
	t.values = append(t.values, int32(m))
	t.next += t.every
}

// seal makes the final entry describe step, which is the latest executed step.
func (t *Trace) seal(step uint64, m int64) {
	if step == 0 || step%t.every == 0 {
		return
	}
	if t.tail != 0 {
		t.values[len(t.values)-1] = int32(m)
	} else {
		t.values = append(t.values, int32(m))
	}
	t.tail = step
}

// Values exposes the recorded series. Callers must not modify it.
func (t *Trace) Values() []int32 { return t.values }

// Len returns the number of entries.
func (t *Trace) Len() int { return len(t.values) }

// Every returns the stride between recorded steps.
func (t *Trace) Every() uint64 { return t.every }

// Last returns the most recent entry.
func (t *Trace) Last() int32 { return t.values[len(t.values)-1] }

// StepAt returns the step index entry i was recorded at.
func (t *Trace) StepAt(i int) uint64 {
	if t.tail != 0 && i == len(t.values)-1 {
		return t.tail
	}
	return uint64(i) * t.every
}
