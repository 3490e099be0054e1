package sprite

import (
	"errors"
	"fmt"

	"github.com/trytobebee/snake_lcd/pkg/display"
)

// ErrBitmapShape is returned when a bitmap does not match the sprite size
var ErrBitmapShape = errors.New("bitmap does not match sprite size")

// Bitmaps used by the game. Each row is one byte, MSB is the leftmost pixel.
var (
	SegmentBitmap = []byte{
		0b11111111,
		0b11111111,
		0b11111111,
	}
	FoodBitmap = []byte{
		0b01000000,
		0b11111111,
		0b01000000,
	}
)

// Sprite is a positioned bitmap
type Sprite struct {
	X, Y          int
	Width, Height int
	Bitmap        []byte
}

// New creates a sprite and checks that the bitmap has Height rows of ceil(Width/8) bytes
func New(x, y, width, height int, bitmap []byte) (Sprite, error) {
	if width <= 0 || height <= 0 {
		return Sprite{}, fmt.Errorf("%w: %dx%d", ErrBitmapShape, width, height)
	}
	if want := height * rowBytes(width); len(bitmap) != want {
		return Sprite{}, fmt.Errorf("%w: %dx%d needs %d bytes, got %d", ErrBitmapShape, width, height, want, len(bitmap))
	}
	return Sprite{X: x, Y: y, Width: width, Height: height, Bitmap: bitmap}, nil
}

// MustNew is New for the package-level bitmaps, which are known to be valid
func MustNew(x, y, width, height int, bitmap []byte) Sprite {
	s, err := New(x, y, width, height, bitmap)
	if err != nil {
		panic(err)
	}
	return s
}

// At returns a copy of the sprite moved to (x, y)
func (s Sprite) At(x, y int) Sprite {
	s.X, s.Y = x, y
	return s
}

// Draw turns on the sprite's set pixels
func (s Sprite) Draw(c display.Canvas) {
	s.paint(c, true)
}

// Erase turns the sprite's set pixels back off
func (s Sprite) Erase(c display.Canvas) {
	s.paint(c, false)
}

func (s Sprite) paint(c display.Canvas, on bool) {
	stride := rowBytes(s.Width)
	for row := 0; row < s.Height; row++ {
		for col := 0; col < s.Width; col++ {
			b := s.Bitmap[row*stride+col/8]
			if b&(byte(0x80)>>(col%8)) != 0 {
				c.SetPixel(s.X+col, s.Y+row, on)
			}
		}
	}
}

func rowBytes(width int) int {
	return (width + 7) / 8
}
