package core

import "fmt"

// Spin values. No other value is ever stored in a Lattice.
const (
	Up   int8 = 1
	Down int8 = -1
)

// Lattice stores a periodic 2D grid of Ising spins in row-major order.
type Lattice struct {
	Rows, Cols int
	spins      []int8
}

// NewLattice allocates a lattice with every spin up.
func NewLattice(rows, cols int) *Lattice {
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = 1
	}
	l := &Lattice{Rows: rows, Cols: cols, spins: make([]int8, rows*cols)}
	l.Fill(Up)
	return l
}

// Len returns the number of sites.
func (l *Lattice) Len() int { return len(l.spins) }

// Spins exposes the backing slice. Sinks must treat it as read-only; only the
// engine writes through it, and only ever negates a value.
func (l *Lattice) Spins() []int8 { return l.spins }

// Index returns the flat index of row r, column c.
func (l *Lattice) Index(r, c int) int { return r*l.Cols + c }

// Coords returns the row and column of a flat index.
func (l *Lattice) Coords(i int) (r, c int) { return i / l.Cols, i % l.Cols }

// Get returns the spin at i.
func (l *Lattice) Get(i int) int8 { return l.spins[i] }

// Flip negates the spin at i.
func (l *Lattice) Flip(i int) { l.spins[i] = -l.spins[i] }

// Set forces the spin at i. It panics on values other than Up and Down.
func (l *Lattice) Set(i int, s int8) {
	if s != Up && s != Down {
		panic(fmt.Sprintf("core: invalid spin %d", s))
	}
	l.spins[i] = s
}

// Fill sets every site to s.
func (l *Lattice) Fill(s int8) {
	if s != Up && s != Down {
		panic(fmt.Sprintf("core: invalid spin %d", s))
	}
	for i := range l.spins {
		l.spins[i] = s
	}
}

// Randomize sets every site independently to Up or Down with one coin flip each.
func (l *Lattice) Randomize(src Source) {
	for i := range l.spins {
		if src.Bool() {
			l.spins[i] = Up
		} else {
			l.spins[i] = Down
		}
	}
}

// CheckIndex reports whether i addresses a site.
func (l *Lattice) CheckIndex(i int) error {
	if i < 0 || i >= len(l.spins) {
		return fmt.Errorf("site %d out of range [0, %d)", i, len(l.spins))
	}
	return nil
}

// Neighbors returns the flat indices of the four nearest neighbours of i under
// periodic boundary conditions.
func (l *Lattice) Neighbors(i int) (up, down, left, right int) {
	n, cols := len(l.spins), l.Cols
	if i >= cols {
		up = i - cols
	} else {
		up = i + n - cols
	}
	if i < n-cols {
		down = i + cols
	} else {
		down = i - (n - cols)
	}
	if i%cols != 0 {
		left = i - 1
	} else {
		left = i + cols - 1
	}
	if (i+1)%cols != 0 {
		right = i + 1
	} else {
		right = i + 1 - cols
	}
	return up, down, left, right
}

// Magnetization returns the number of up spins minus the number of down spins.
func (l *Lattice) Magnetization() int64 {
	var up, down int64
	for _, s := range l.spins {
		if s == Up {
			up++
		} else {
			down++
		}
	}
	return up - down
}

// Energy returns the total nearest-neighbour energy in units of the coupling,
// counting each bond once through its right and down partners.
func (l *Lattice) Energy() int64 {
	var e int64
	for i, s := range l.spins {
		_, down, _, right := l.Neighbors(i)
		e -= int64(s) * int64(l.spins[right]+l.spins[down])
	}
	return e
}

// Cells writes a binary display buffer (1 for up, 0 for down) into dst.
func (l *Lattice) Cells(dst []uint8) {
	for i, s := range l.spins {
		if i >= len(dst) {
			return
		}
		if s == Up {
			dst[i] = 1
		} else {
			dst[i] = 0
		}
	}
}
