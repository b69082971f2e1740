package sink

import (
	"bytes"
	"image/jpeg"

	"github.com/icza/mjpeg"
	errgo "gopkg.in/errgo.v1"

	"ising/internal/core"
	"ising/internal/render"
)

// Movie records lattice snapshots as an MJPEG AVI file.
type Movie struct {
	w      mjpeg.AviWriter
	scale  int
	frames int
	buf    bytes.Buffer
}

// NewMovie creates the movie file at path for a rows x cols lattice.
func NewMovie(path string, rows, cols, scale, fps int) (*Movie, error) {
	if scale < 1 {
		scale = 1
	}
	if fps < 1 {
		fps = 1
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	w, err := mjpeg.New(path, int32(cols*scale), int32(rows*scale), int32(fps))
	if err != nil {
		return nil, errgo.Notef(err, "create movie %s", path)
	}
	return &Movie{w: w, scale: scale}, nil
}

// AddFrame appends the current state of lat.
func (m *Movie) AddFrame(lat *core.Lattice) error {
	img := render.SpinImage(lat.Spins(), lat.Rows, lat.Cols, m.scale)
	m.buf.Reset()
	if err := jpeg.Encode(&m.buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return errgo.Notef(err, "encode frame %d", m.frames)
	}
	if err := m.w.AddFrame(m.buf.Bytes()); err != nil {
		return errgo.Notef(err, "add frame %d", m.frames)
	}
	m.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (m *Movie) Frames() int { return m.frames }

// Close finalises the AVI index.
func (m *Movie) Close() error {
	if err := m.w.Close(); err != nil {
		return errgo.Notef(err, "close movie")
	}
	return nil
}
