package display

import (
	"errors"
	"fmt"
	"image/color"
	"sync"

	"tinygo.org/x/tinyfont"
)

// fontAscent is the distance from the top of a TomThumb glyph cell to its baseline
const fontAscent = 5

// Canvas is what sprites and the game draw on
type Canvas interface {
	SetPixel(x, y int, on bool)
	DrawLine(x1, y1, x2, y2 int)
	DrawString(x, y int, text string)
}

// Presenter receives every frame passed to Show
type Presenter interface {
	Present(f Frame) error
}

// Surface is an offscreen 1bpp buffer. Drawing happens on the back buffer and
// Show hands a copy of it to every attached presenter.
type Surface struct {
	width  int
	height int
	stride int
	back   []byte
	seq    uint64

	mu         sync.Mutex
	presenters []Presenter
}

// NewSurface creates a cleared surface
func NewSurface(width, height int) *Surface {
	stride := (width + 7) / 8
	return &Surface{
		width:  width,
		height: height,
		stride: stride,
		back:   make([]byte, stride*height),
	}
}

// Attach adds a presenter; it receives frames from the next Show on
func (s *Surface) Attach(p Presenter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presenters = append(s.presenters, p)
}

// Size returns the surface dimensions in pixels
func (s *Surface) Size() (int, int) {
	return s.width, s.height
}

// Clear turns every pixel off
func (s *Surface) Clear() {
	for i := range s.back {
		s.back[i] = 0
	}
}

// SetPixel sets or clears one pixel. Coordinates outside the surface are ignored,
// sprites are allowed to hang over an edge.
func (s *Surface) SetPixel(x, y int, on bool) {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return
	}
	i := y*s.stride + x/8
	mask := byte(0x80) >> (x % 8)
	if on {
		s.back[i] |= mask
	} else {
		s.back[i] &^= mask
	}
}

// Pixel reports whether a pixel is on
func (s *Surface) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return false
	}
	return s.back[y*s.stride+x/8]&(byte(0x80)>>(x%8)) != 0
}

// DrawLine draws a one pixel line between two points, both ends included
func (s *Surface) DrawLine(x1, y1, x2, y2 int) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	e := dx + dy
	for {
		s.SetPixel(x1, y1, true)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x1 += sx
		}
		if e2 <= dx {
			e += dx
			y1 += sy
		}
	}
}

// DrawString draws text with its top-left corner at (x, y)
func (s *Surface) DrawString(x, y int, text string) {
	tinyfont.WriteLine(fontTarget{s}, &tinyfont.TomThumb, int16(x), int16(y+fontAscent), text, color.RGBA{A: 255})
}

// Snapshot copies the back buffer into a frame without presenting it
func (s *Surface) Snapshot() Frame {
	bits := make([]byte, len(s.back))
	copy(bits, s.back)
	return Frame{Width: s.width, Height: s.height, Seq: s.seq, Bits: bits}
}

// Show presents the back buffer. Every presenter is called even if an earlier
// one fails; the failures are joined into the returned error.
func (s *Surface) Show() error {
	s.seq++
	f := s.Snapshot()

	s.mu.Lock()
	presenters := make([]Presenter, len(s.presenters))
	copy(presenters, s.presenters)
	s.mu.Unlock()

	var errs []error
	for _, p := range presenters {
		if err := p.Present(f); err != nil {
			errs = append(errs, fmt.Errorf("present frame %d: %w", f.Seq, err))
		}
	}
	return errors.Join(errs...)
}

// fontTarget lets tinyfont draw on a surface
type fontTarget struct {
	s *Surface
}

func (t fontTarget) Size() (x, y int16) {
	return int16(t.s.width), int16(t.s.height)
}

func (t fontTarget) SetPixel(x, y int16, c color.RGBA) {
	t.s.SetPixel(int(x), int(y), true)
}

func (t fontTarget) Display() error {
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
