package renderer

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/trytobebee/snake_lcd/pkg/config"
	"github.com/trytobebee/snake_lcd/pkg/display"
)

// TerminalRenderer draws LCD frames on an ANSI terminal, two pixel rows per
// character line
type TerminalRenderer struct {
	out    io.Writer
	footer string

	mu     sync.Mutex
	buffer strings.Builder
}

// NewTerminalRenderer creates a renderer writing to out
func NewTerminalRenderer(out io.Writer) *TerminalRenderer {
	return &TerminalRenderer{out: out}
}

// SetFooter sets text printed under the screen, such as the controls help
func (r *TerminalRenderer) SetFooter(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.footer = text
}

// ShowCursor shows the cursor (call on exit)
func (r *TerminalRenderer) ShowCursor() {
	fmt.Fprint(r.out, "\033[?25h")
}

// HideCursor hides the cursor (call on start)
func (r *TerminalRenderer) HideCursor() {
	fmt.Fprint(r.out, "\033[?25l")
}

// Present implements display.Presenter
func (r *TerminalRenderer) Present(f display.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffer.Reset()
	// Clear the terminal using ANSI escape codes
	r.buffer.WriteString("\033[H\033[2J\033[3J")
	r.render(f)

	if _, err := io.WriteString(r.out, r.buffer.String()); err != nil {
		return fmt.Errorf("terminal write: %w", err)
	}
	return nil
}

// Render returns the frame as text without escape codes
func (r *TerminalRenderer) Render(f display.Frame) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffer.Reset()
	r.render(f)
	return r.buffer.String()
}

func (r *TerminalRenderer) render(f display.Frame) {
	border := strings.Repeat(config.FrameHoriz, f.Width)

	r.buffer.WriteString("  ┌" + border + "┐\n")
	for y := 0; y < f.Height; y += 2 {
		r.buffer.WriteString("  " + config.FrameVert)
		for x := 0; x < f.Width; x++ {
			r.buffer.WriteString(cell(f.At(x, y), f.At(x, y+1)))
		}
		r.buffer.WriteString(config.FrameVert + "\n")
	}
	r.buffer.WriteString("  └" + border + "┘\n")

	if r.footer != "" {
		r.buffer.WriteString("\n  " + r.footer + "\n")
	}
}

func cell(upper, lower bool) string {
	switch {
	case upper && lower:
		return config.CharFull
	case upper:
		return config.CharUpper
	case lower:
		return config.CharLower
	default:
		return config.CharEmpty
	}
}
