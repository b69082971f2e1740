//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"ising/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type historyProvider interface {
	History() []int64
}

type latticeProvider interface {
	Lattice() *core.Lattice
}

// Overlay draws optional diagnostics on top of the lattice: the recent
// magnetization history and the bonds that cost energy.
type Overlay struct {
	sim         core.Sim
	scale       int
	showHistory bool
	showBonds   bool

	bondImg *ebiten.Image
	bondBuf []byte
	pixel   *ebiten.Image
}

var (
	bondTint     = color.RGBA{R: 180, G: 30, B: 60, A: 150}
	historyBack  = color.RGBA{R: 10, G: 10, B: 14, A: 170}
	historyZero  = color.RGBA{R: 120, G: 120, B: 130, A: 200}
	historyColor = color.RGBA{R: 240, G: 240, B: 245, A: 255}
)

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale, showHistory: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the overlays: 1 for the history plot, 2 for unsatisfied bonds.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showHistory = !o.showHistory
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showBonds = !o.showBonds
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	scale := max(o.scale, 1)
	if o.showBonds {
		if p, ok := o.sim.(latticeProvider); ok {
			o.drawBonds(screen, p.Lattice(), scale)
		}
	}
	if o.showHistory {
		if p, ok := o.sim.(historyProvider); ok {
			o.drawHistory(screen, p.History(), size, scale)
		}
	}
}

// drawBonds tints every site whose right or lower bond is anti-aligned.
func (o *Overlay) drawBonds(screen *ebiten.Image, lat *core.Lattice, scale int) {
	total := lat.Len()
	if o.bondImg == nil || o.bondImg.Bounds().Dx() != lat.Cols || o.bondImg.Bounds().Dy() != lat.Rows {
		o.bondImg = ebiten.NewImage(lat.Cols, lat.Rows)
		o.bondBuf = make([]byte, 4*total)
	}
	spins := lat.Spins()
	for i, s := range spins {
		_, down, _, right := lat.Neighbors(i)
		base := i * 4
		if s != spins[right] || s != spins[down] {
			o.bondBuf[base+0] = bondTint.R
			o.bondBuf[base+1] = bondTint.G
			o.bondBuf[base+2] = bondTint.B
			o.bondBuf[base+3] = bondTint.A
			continue
		}
		o.bondBuf[base+0] = 0
		o.bondBuf[base+1] = 0
		o.bondBuf[base+2] = 0
		o.bondBuf[base+3] = 0
	}
	o.bondImg.WritePixels(o.bondBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.bondImg, op)
}

// drawHistory plots magnetization per site, -1 at the bottom and +1 at the top,
// in a strip along the bottom of the lattice view.
func (o *Overlay) drawHistory(screen *ebiten.Image, history []int64, size core.Size, scale int) {
	if len(history) < 2 {
		return
	}
	const margin = 8
	width := float64(size.W*scale - 2*margin)
	height := math.Min(80, float64(size.H*scale)/4)
	if width <= 0 || height <= 0 {
		return
	}
	left := float64(margin)
	top := float64(size.H*scale-margin) - height

	o.drawRect(screen, left, top, width, height, historyBack)
	mid := top + height/2
	o.drawLine(screen, left, mid, left+width, mid, 1, historyZero)

	sites := float64(size.W * size.H)
	y := func(m int64) float64 { return mid - (float64(m)/sites)*height/2 }
	dx := width / float64(len(history)-1)
	for i := 1; i < len(history); i++ {
		x0 := left + float64(i-1)*dx
		o.drawLine(screen, x0, y(history[i-1]), x0+dx, y(history[i]), 1.5, historyColor)
	}
}

func (o *Overlay) drawRect(screen *ebiten.Image, x, y, w, h float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
