package window

import (
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/trytobebee/snake_lcd/pkg/analog"
	"github.com/trytobebee/snake_lcd/pkg/config"
	"github.com/trytobebee/snake_lcd/pkg/display"
	"github.com/trytobebee/snake_lcd/pkg/input"
)

// LCD colours
var (
	pixelOn  = color.RGBA{R: 0x0f, G: 0x38, B: 0x0f, A: 0xff}
	pixelOff = color.RGBA{R: 0x9b, G: 0xbc, B: 0x0f, A: 0xff}
)

// Keys mapped to each input line
var lineKeys = map[input.Line][]ebiten.Key{
	input.LineLeft:     {ebiten.KeyArrowLeft, ebiten.KeyA},
	input.LineRight:    {ebiten.KeyArrowRight, ebiten.KeyD},
	input.LineUp:       {ebiten.KeyArrowUp, ebiten.KeyW},
	input.LineDown:     {ebiten.KeyArrowDown, ebiten.KeyS},
	input.LineWallsOn:  {ebiten.KeyBracketRight},
	input.LineWallsOff: {ebiten.KeyBracketLeft},
}

// Window shows the LCD in a desktop window and reads the keyboard as input lines.
// It implements ebiten.Game, display.Presenter and input.Pins.
type Window struct {
	knob *analog.Knob

	mu      sync.Mutex
	frame   display.Frame
	dirty   bool
	pixels  []byte
	lcd     *ebiten.Image
	pressed [input.LineWallsOff + 1]atomic.Bool
}

// New creates a window; knob may be nil
func New(knob *analog.Knob) *Window {
	return &Window{knob: knob}
}

// Present implements display.Presenter
func (w *Window) Present(f display.Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frame = f
	w.dirty = true
	return nil
}

// Read implements input.Pins
func (w *Window) Read(line input.Line) bool {
	if line < input.LineLeft || line > input.LineWallsOff {
		return false
	}
	return w.pressed[line].Load()
}

// Update samples the keyboard once per tick
func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	for line, keys := range lineKeys {
		held := false
		for _, k := range keys {
			if ebiten.IsKeyPressed(k) {
				held = true
				break
			}
		}
		w.pressed[line].Store(held)
	}

	if w.knob != nil {
		if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
			w.knob.Turn(config.ADCKnobStep)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
			w.knob.Turn(-config.ADCKnobStep)
		}
	}
	return nil
}

// Draw copies the last presented frame to the screen
func (w *Window) Draw(screen *ebiten.Image) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.lcd == nil {
		w.lcd = ebiten.NewImage(config.ScreenWidth, config.ScreenHeight)
		w.pixels = make([]byte, 4*config.ScreenWidth*config.ScreenHeight)
		w.dirty = true
	}
	if w.dirty {
		fillPixels(w.pixels, w.frame)
		w.lcd.WritePixels(w.pixels)
		w.dirty = false
	}
	screen.DrawImage(w.lcd, nil)
}

// Layout keeps the logical screen at LCD resolution; ebiten scales it to the window
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.ScreenWidth, config.ScreenHeight
}

// fillPixels writes f into an RGBA buffer of LCD size
func fillPixels(buf []byte, f display.Frame) {
	for y := 0; y < config.ScreenHeight; y++ {
		for x := 0; x < config.ScreenWidth; x++ {
			c := pixelOff
			if f.At(x, y) {
				c = pixelOn
			}
			i := 4 * (y*config.ScreenWidth + x)
			buf[i], buf[i+1], buf[i+2], buf[i+3] = c.R, c.G, c.B, c.A
		}
	}
}
