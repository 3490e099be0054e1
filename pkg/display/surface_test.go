package display

import (
	"errors"
	"testing"
)

type capturePresenter struct {
	frames []Frame
	err    error
}

func (c *capturePresenter) Present(f Frame) error {
	c.frames = append(c.frames, f)
	return c.err
}

func TestSetPixelAndClear(t *testing.T) {
	s := NewSurface(84, 48)

	s.SetPixel(0, 0, true)
	s.SetPixel(83, 47, true)
	s.SetPixel(9, 3, true)
	s.SetPixel(-1, 5, true) // ignored
	s.SetPixel(84, 5, true) // ignored

	for _, p := range [][2]int{{0, 0}, {83, 47}, {9, 3}} {
		if !s.Pixel(p[0], p[1]) {
			t.Errorf("pixel %v should be on", p)
		}
	}
	if s.Pixel(8, 3) || s.Pixel(10, 3) {
		t.Error("neighbouring pixels should stay off")
	}

	s.SetPixel(9, 3, false)
	if s.Pixel(9, 3) {
		t.Error("pixel should be off after clearing it")
	}

	s.Clear()
	if n := s.Snapshot().Lit(); n != 0 {
		t.Errorf("expected empty surface after Clear, %d pixels lit", n)
	}
}

func TestDrawLine(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 int
		want           int
	}{
		{"vertical wall", 14, 8, 14, 23, 16},
		{"reversed vertical", 32, 48, 32, 24, 24}, // y=48 is off screen
		{"horizontal", 0, 7, 83, 7, 84},
		{"single point", 5, 5, 5, 5, 1},
		{"diagonal", 0, 0, 9, 9, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSurface(84, 48)
			s.DrawLine(tt.x1, tt.y1, tt.x2, tt.y2)
			if got := s.Snapshot().Lit(); got != tt.want {
				t.Errorf("lit pixels = %d, want %d", got, tt.want)
			}
			if !s.Pixel(tt.x1, tt.y1) && tt.y1 < 48 {
				t.Errorf("start point (%d,%d) not drawn", tt.x1, tt.y1)
			}
		})
	}
}

func TestDrawStringStaysInTextRow(t *testing.T) {
	s := NewSurface(84, 48)
	s.DrawString(5, 0, "5(0)")

	f := s.Snapshot()
	if f.Lit() == 0 {
		t.Fatal("status text drew nothing")
	}
	for y := 8; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if f.At(x, y) {
				t.Fatalf("status text leaked into the playfield at (%d,%d)", x, y)
			}
		}
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 5; x++ {
			if f.At(x, y) {
				t.Fatalf("text drawn left of its origin at (%d,%d)", x, y)
			}
		}
	}
}

func TestShowPresentsCopies(t *testing.T) {
	s := NewSurface(16, 4)
	p := &capturePresenter{}
	s.Attach(p)

	s.SetPixel(1, 1, true)
	if err := s.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}
	s.Clear()
	if err := s.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}

	if len(p.frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(p.frames))
	}
	if !p.frames[0].At(1, 1) {
		t.Error("first frame lost its pixel after the surface was cleared")
	}
	if p.frames[1].Lit() != 0 {
		t.Error("second frame should be empty")
	}
	if p.frames[0].Seq != 1 || p.frames[1].Seq != 2 {
		t.Errorf("unexpected sequence numbers %d, %d", p.frames[0].Seq, p.frames[1].Seq)
	}
}

func TestShowCallsEveryPresenter(t *testing.T) {
	s := NewSurface(8, 8)
	failing := &capturePresenter{err: errors.New("link down")}
	ok := &capturePresenter{}
	s.Attach(failing)
	s.Attach(ok)

	err := s.Show()
	if err == nil {
		t.Fatal("expected an error from the failing presenter")
	}
	if !errors.Is(err, failing.err) {
		t.Errorf("error should wrap the presenter error, got %v", err)
	}
	if len(ok.frames) != 1 {
		t.Error("second presenter should still receive the frame")
	}
}

func TestFrameImage(t *testing.T) {
	s := NewSurface(10, 2)
	s.SetPixel(3, 1, true)
	img := s.Snapshot().Image()

	if img.GrayAt(3, 1).Y != 0 {
		t.Error("lit pixel should be dark")
	}
	if img.GrayAt(0, 0).Y != 255 {
		t.Error("unlit pixel should be light")
	}
}
