package core

import "testing"

func TestNeighborsFourByFour(t *testing.T) {
	l := NewLattice(4, 4)
	// up, down, left, right
	want := [16][4]int{
		{12, 4, 3, 1},
		{13, 5, 0, 2},
		{14, 6, 1, 3},
		{15, 7, 2, 0},
		{0, 8, 7, 5},
		{1, 9, 4, 6},
		{2, 10, 5, 7},
		{3, 11, 6, 4},
		{4, 12, 11, 9},
		{5, 13, 8, 10},
		{6, 14, 9, 11},
		{7, 15, 10, 8},
		{8, 0, 15, 13},
		{9, 1, 12, 14},
		{10, 2, 13, 15},
		{11, 3, 14, 12},
	}
	for i, exp := range want {
		up, down, left, right := l.Neighbors(i)
		got := [4]int{up, down, left, right}
		if got != exp {
			t.Fatalf("neighbors(%d) = %v, expected %v", i, got, exp)
		}
	}
}

func TestNeighborsMatchCoordinateWrap(t *testing.T) {
	sizes := [][2]int{{1, 1}, {1, 5}, {5, 1}, {2, 2}, {3, 7}, {7, 3}, {8, 8}}
	for _, sz := range sizes {
		rows, cols := sz[0], sz[1]
		l := NewLattice(rows, cols)
		for i := 0; i < l.Len(); i++ {
			r, c := l.Coords(i)
			if l.Index(r, c) != i {
				t.Fatalf("%dx%d: Index(Coords(%d)) = %d", rows, cols, i, l.Index(r, c))
			}
			up, down, left, right := l.Neighbors(i)
			exp := [4]int{
				l.Index((r-1+rows)%rows, c),
				l.Index((r+1)%rows, c),
				l.Index(r, (c-1+cols)%cols),
				l.Index(r, (c+1)%cols),
			}
			got := [4]int{up, down, left, right}
			if got != exp {
				t.Fatalf("%dx%d: neighbors(%d) = %v, expected %v", rows, cols, i, got, exp)
			}
			for _, n := range got {
				if err := l.CheckIndex(n); err != nil {
					t.Fatalf("%dx%d: neighbor of %d: %v", rows, cols, i, err)
				}
			}
		}
	}
}

func TestFlipAndMagnetization(t *testing.T) {
	l := NewLattice(3, 3)
	if got := l.Magnetization(); got != 9 {
		t.Fatalf("fresh lattice magnetization %d, expected 9", got)
	}
	l.Flip(4)
	if l.Get(4) != Down {
		t.Fatalf("flip did not negate site 4")
	}
	if got := l.Magnetization(); got != 7 {
		t.Fatalf("magnetization %d after one flip, expected 7", got)
	}
	l.Fill(Down)
	if got := l.Magnetization(); got != -9 {
		t.Fatalf("magnetization %d after fill, expected -9", got)
	}
}

func TestEnergyGroundAndCheckerboard(t *testing.T) {
	l := NewLattice(4, 4)
	if got := l.Energy(); got != -32 {
		t.Fatalf("aligned energy %d, expected -32", got)
	}
	for i := 0; i < l.Len(); i++ {
		r, c := l.Coords(i)
		if (r+c)%2 == 1 {
			l.Set(i, Down)
		}
	}
	if got := l.Energy(); got != 32 {
		t.Fatalf("checkerboard energy %d, expected 32", got)
	}
	if got := l.Magnetization(); got != 0 {
		t.Fatalf("checkerboard magnetization %d, expected 0", got)
	}
}

func TestSetRejectsInvalidSpin(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for spin value 0")
		}
	}()
	NewLattice(2, 2).Set(0, 0)
}

func TestRandomizeOnlyWritesSpins(t *testing.T) {
	l := NewLattice(32, 32)
	l.Randomize(NewRNG(7))
	ups := 0
	for _, s := range l.Spins() {
		switch s {
		case Up:
			ups++
		case Down:
		default:
			t.Fatalf("unexpected spin value %d", s)
		}
	}
	// 1024 fair coin flips: mean 512, sd 16.
	if ups < 400 || ups > 624 {
		t.Fatalf("%d up spins out of 1024 looks biased", ups)
	}

	other := NewLattice(32, 32)
	other.Randomize(NewRNG(7))
	for i, s := range other.Spins() {
		if l.Get(i) != s {
			t.Fatalf("same seed produced different spin at %d", i)
		}
	}
}

func TestCellsBinaryBuffer(t *testing.T) {
	l := NewLattice(2, 2)
	l.Set(1, Down)
	l.Set(2, Down)
	buf := make([]uint8, l.Len())
	l.Cells(buf)
	want := []uint8{1, 0, 0, 1}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("cells = %v, expected %v", buf, want)
		}
	}
}

func TestCheckIndex(t *testing.T) {
	l := NewLattice(2, 3)
	if err := l.CheckIndex(5); err != nil {
		t.Fatalf("index 5: %v", err)
	}
	for _, i := range []int{-1, 6} {
		if err := l.CheckIndex(i); err == nil {
			t.Fatalf("index %d accepted", i)
		}
	}
}

func TestNewLatticeClampsDimensions(t *testing.T) {
	l := NewLattice(0, -3)
	if l.Rows != 1 || l.Cols != 1 || l.Len() != 1 {
		t.Fatalf("clamped lattice %dx%d len %d", l.Rows, l.Cols, l.Len())
	}
}
