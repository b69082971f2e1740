package render

import (
	"image"
	"image/color"
)

// Spin colours used by every lattice view.
var (
	UpColor   = color.RGBA{R: 216, G: 179, B: 101, A: 255}
	DownColor = color.RGBA{R: 90, G: 180, B: 172, A: 255}
)

// fillBinaryRGBA converts binary cell data (0/1) into RGBA pixels in buf.
func fillBinaryRGBA(buf []byte, cells []uint8, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	for i, c := range cells {
		base := i * 4
		if c != 0 {
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
			continue
		}
		buf[base+0] = uint8(rOff >> 8)
		buf[base+1] = uint8(gOff >> 8)
		buf[base+2] = uint8(bOff >> 8)
		buf[base+3] = uint8(aOff >> 8)
	}
}

// fillSpinRGBA converts +1/-1 spins into RGBA pixels in buf.
func fillSpinRGBA(buf []byte, spins []int8) {
	for i, s := range spins {
		col := DownColor
		if s > 0 {
			col = UpColor
		}
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// SpinImage renders a rows x cols spin slice, each site drawn as a scale x scale
// block. A spin slice of the wrong length yields an image of the lattice size
// filled with DownColor.
func SpinImage(spins []int8, rows, cols, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, cols*scale, rows*scale))
	if len(spins) != rows*cols {
		spins = make([]int8, rows*cols)
	}
	if scale == 1 {
		fillSpinRGBA(img.Pix, spins)
		return img
	}
	row := make([]byte, 4*cols)
	for y := 0; y < rows; y++ {
		fillSpinRGBA(row, spins[y*cols:(y+1)*cols])
		for dy := 0; dy < scale; dy++ {
			off := img.PixOffset(0, y*scale+dy)
			dst := img.Pix[off : off+4*cols*scale]
			for x := 0; x < cols; x++ {
				px := row[4*x : 4*x+4]
				for dx := 0; dx < scale; dx++ {
					copy(dst[4*(x*scale+dx):], px)
				}
			}
		}
	}
	return img
}
