package display

import (
	"image"
	"image/color"
)

// Frame is an immutable copy of the surface taken by Show
type Frame struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Seq    uint64 `json:"seq"`
	Bits   []byte `json:"bits"` // Row-major, MSB is the leftmost pixel
}

// Stride is the number of bytes per row
func (f Frame) Stride() int {
	return (f.Width + 7) / 8
}

// At reports whether the pixel at (x, y) is on
func (f Frame) At(x, y int) bool {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return false
	}
	i := y*f.Stride() + x/8
	if i >= len(f.Bits) {
		return false
	}
	return f.Bits[i]&(byte(0x80)>>(x%8)) != 0
}

// Lit counts the pixels that are on
func (f Frame) Lit() int {
	n := 0
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if f.At(x, y) {
				n++
			}
		}
	}
	return n
}

// Image converts the frame to grayscale, lit pixels dark like on the LCD
func (f Frame) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if f.At(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}
