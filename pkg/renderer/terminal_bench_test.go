package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/trytobebee/snake_lcd/pkg/config"
	"github.com/trytobebee/snake_lcd/pkg/display"
	"github.com/trytobebee/snake_lcd/pkg/game"
)

func playedFrame(tb testing.TB) display.Frame {
	tb.Helper()
	s := display.NewSurface(config.ScreenWidth, config.ScreenHeight)
	g := game.NewGame(s, nil)
	g.Apply(game.Intent{Direction: game.Right, Walls: true})
	for i := 0; i < 5; i++ {
		s.Clear()
		s.DrawString(config.StatusBarX, config.StatusBarY, g.Scoreline())
		g.Process()
	}
	return s.Snapshot()
}

func TestRenderHalfBlocks(t *testing.T) {
	s := display.NewSurface(4, 2)
	s.SetPixel(0, 0, true)
	s.SetPixel(1, 1, true)
	s.SetPixel(2, 0, true)
	s.SetPixel(2, 1, true)

	got := NewTerminalRenderer(io.Discard).Render(s.Snapshot())
	lines := strings.Split(got, "\n")
	want := "  " + config.FrameVert + config.CharUpper + config.CharLower + config.CharFull + config.CharEmpty + config.FrameVert
	if lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
}

func TestRenderSize(t *testing.T) {
	f := playedFrame(t)
	r := NewTerminalRenderer(io.Discard)
	r.SetFooter("WASD to move, Q to quit")

	lines := strings.Split(strings.TrimRight(r.Render(f), "\n"), "\n")
	// Border, 24 text rows, border, blank, footer
	if len(lines) != config.ScreenHeight/2+4 {
		t.Errorf("rendered %d lines, want %d", len(lines), config.ScreenHeight/2+4)
	}
	if !strings.Contains(lines[len(lines)-1], "Q to quit") {
		t.Errorf("footer missing: %q", lines[len(lines)-1])
	}
}

func TestPresentWritesOneBuffer(t *testing.T) {
	var out bytes.Buffer
	r := NewTerminalRenderer(&out)
	if err := r.Present(playedFrame(t)); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "\033[H\033[2J") {
		t.Error("frame should start by clearing the screen")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, fmt.Errorf("closed") }

func TestPresentReportsWriteError(t *testing.T) {
	r := NewTerminalRenderer(failingWriter{})
	if err := r.Present(playedFrame(t)); err == nil {
		t.Error("expected write error")
	}
}

// BenchmarkStringBuilderRender benchmarks buffered rendering
func BenchmarkStringBuilderRender(b *testing.B) {
	f := playedFrame(b)
	renderer := NewTerminalRenderer(io.Discard)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		renderer.Present(f)
	}
}

// BenchmarkNaiveRender benchmarks rendering with one write per cell
func BenchmarkNaiveRender(b *testing.B) {
	f := playedFrame(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		naiveRender(io.Discard, f)
	}
}

func naiveRender(w io.Writer, f display.Frame) {
	fmt.Fprint(w, "\033[H\033[2J")
	for y := 0; y < f.Height; y += 2 {
		fmt.Fprint(w, "  ")
		for x := 0; x < f.Width; x++ {
			fmt.Fprint(w, cell(f.At(x, y), f.At(x, y+1)))
		}
		fmt.Fprintln(w)
	}
}

func BenchmarkStringsBuilder(b *testing.B) {
	var buf strings.Builder
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		for j := 0; j < 100; j++ {
			buf.WriteString("test ")
		}
		_ = buf.String()
	}
}

func BenchmarkBytesBuffer(b *testing.B) {
	var buf bytes.Buffer
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		for j := 0; j < 100; j++ {
			buf.WriteString("test ")
		}
		_ = buf.String()
	}
}
