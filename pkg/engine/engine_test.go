package engine

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/trytobebee/snake_lcd/pkg/analog"
	"github.com/trytobebee/snake_lcd/pkg/config"
	"github.com/trytobebee/snake_lcd/pkg/display"
	"github.com/trytobebee/snake_lcd/pkg/game"
	"github.com/trytobebee/snake_lcd/pkg/input"
)

type fixedCounter uint8

func (c fixedCounter) Count() uint8 { return uint8(c) }

type capture struct {
	frames []display.Frame
}

func (c *capture) Present(f display.Frame) error {
	c.frames = append(c.frames, f)
	return nil
}

func (c *capture) last() display.Frame {
	return c.frames[len(c.frames)-1]
}

type memRecorder struct {
	records []game.StepRecord
}

func (m *memRecorder) RecordStep(rec game.StepRecord) {
	m.records = append(m.records, rec)
}

type harness struct {
	engine   *Engine
	controls *input.Controls
	screen   *capture
	recorder *memRecorder
	sleeps   []time.Duration
}

func newHarness(t *testing.T, onSleep func()) *harness {
	t.Helper()
	h := &harness{
		controls: input.NewControls(),
		screen:   &capture{},
		recorder: &memRecorder{},
	}
	surface := display.NewSurface(config.ScreenWidth, config.ScreenHeight)
	surface.Attach(h.screen)

	h.engine = New(surface, h.controls, analog.NewKnob(300), Options{
		Counter:  fixedCounter(7),
		Recorder: h.recorder,
		Logger:   log.New(io.Discard, "", 0),
		Sleep: func(ctx context.Context, d time.Duration) error {
			h.sleeps = append(h.sleeps, d)
			if onSleep != nil {
				onSleep()
			}
			return ctx.Err()
		},
	})
	return h
}

func litRows(f display.Frame, top, bottom int) int {
	n := 0
	for y := top; y < bottom; y++ {
		for x := 0; x < f.Width; x++ {
			if f.At(x, y) {
				n++
			}
		}
	}
	return n
}

func TestIntro(t *testing.T) {
	h := newHarness(t, nil)

	if err := h.engine.Intro(context.Background()); err != nil {
		t.Fatalf("Intro failed: %v", err)
	}
	if h.engine.State() != StatePlaying {
		t.Errorf("state = %v, want playing", h.engine.State())
	}
	if len(h.sleeps) != 1 || h.sleeps[0] != config.IntroDuration {
		t.Errorf("intro sleeps = %v, want [%v]", h.sleeps, config.IntroDuration)
	}
	if len(h.screen.frames) != 1 {
		t.Fatalf("presented %d frames, want 1", len(h.screen.frames))
	}
	f := h.screen.last()
	if litRows(f, config.TitleY, config.TitleY+8) == 0 {
		t.Error("title text missing")
	}
	if litRows(f, config.SubtitleY, config.SubtitleY+8) == 0 {
		t.Error("subtitle text missing")
	}
}

func TestStepDrawsStatusBarAndPaces(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.engine.Intro(ctx)

	h.controls.Steer(game.Right)
	if err := h.engine.Step(ctx); err != nil {
		t.Fatalf("Step failed: %v", err)
	}

	g := h.engine.Game()
	if g.Snake.Head() != (game.Point{X: 23, Y: 20}) {
		t.Errorf("head = %v, want (23,20)", g.Snake.Head())
	}
	if got := h.sleeps[len(h.sleeps)-1]; got != 110*time.Millisecond {
		t.Errorf("frame delay = %v, want 110ms", got)
	}

	f := h.screen.last()
	if litRows(f, 0, config.StatusBarH) == 0 {
		t.Error("status bar is empty")
	}
	if !f.At(23, 20) {
		t.Error("snake head not drawn")
	}
	if len(h.recorder.records) != 1 || h.recorder.records[0].Direction != game.Right {
		t.Errorf("recorded %+v", h.recorder.records)
	}
}

func TestLastLifeEndsGame(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.engine.Intro(ctx)

	g := h.engine.Game()
	g.Lives = 1
	h.controls.Steer(game.Up)
	h.controls.Steer(game.Down)

	h.engine.Step(ctx)
	if g.Lives != 0 || !g.GameOver {
		t.Fatalf("lives = %d gameOver = %v, want 0 true", g.Lives, g.GameOver)
	}
	if h.engine.State() != StateGameOver {
		t.Fatalf("state = %v, want game_over", h.engine.State())
	}

	// No more updates once the game is over
	frame := g.Frame
	presented := len(h.screen.frames)
	h.controls.Steer(game.Left)
	h.engine.Step(ctx)
	if g.Frame != frame || len(h.screen.frames) != presented {
		t.Error("Step should do nothing after game over")
	}
}

func TestRunPlaysToGameOver(t *testing.T) {
	var controls *input.Controls
	h := newHarness(t, func() {
		// Reverse once per frame
		controls.Steer(game.Left)
		controls.Steer(game.Right)
	})
	controls = h.controls

	if err := h.engine.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if h.engine.State() != StateGameOver {
		t.Errorf("state = %v, want game_over", h.engine.State())
	}
	if got := len(h.recorder.records); got != config.InitialLives {
		t.Errorf("played %d frames, want %d", got, config.InitialLives)
	}

	f := h.screen.last()
	if litRows(f, config.GameOverY, config.GameOverY+8) == 0 {
		t.Error("game over text missing")
	}
	if litRows(f, 0, config.StatusBarH) != 0 {
		t.Error("game over screen should be cleared")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := newHarness(t, nil)
	err := h.engine.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
	if h.engine.State() != StateIntro {
		t.Errorf("state = %v, want intro", h.engine.State())
	}
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep = %v, want context.Canceled", err)
	}
	if err := Sleep(context.Background(), time.Millisecond); err != nil {
		t.Errorf("Sleep = %v, want nil", err)
	}
}

func TestDeathIsPublishedBeforePacing(t *testing.T) {
	var controls *input.Controls
	armed := false
	h := newHarness(t, func() {
		if armed {
			// Opposite of the heading the snake died with
			controls.Steer(game.Left)
			armed = false
		}
	})
	controls = h.controls
	ctx := context.Background()
	h.engine.Intro(ctx)

	// Coiled so that moving right runs into segment 4
	g := h.engine.Game()
	g.Snake.Segments[0] = game.Point{X: 20, Y: 20}
	g.Snake.Segments[1] = game.Point{X: 20, Y: 23}
	g.Snake.Segments[2] = game.Point{X: 23, Y: 23}
	g.Snake.Segments[3] = game.Point{X: 23, Y: 20}
	g.Snake.Segments[4] = game.Point{X: 23, Y: 17}
	g.Snake.Size = 4
	h.controls.Steer(game.Right)

	armed = true
	h.engine.Step(ctx)
	if g.Lives != config.InitialLives-1 {
		t.Fatalf("lives after collision = %d, want %d", g.Lives, config.InitialLives-1)
	}
	if h.controls.Direction() != game.Left {
		t.Errorf("controls = %v, want left", h.controls.Direction())
	}

	h.engine.Step(ctx)
	if g.Lives != config.InitialLives-1 {
		t.Errorf("turning after a death cost another life: lives = %d, want %d", g.Lives, config.InitialLives-1)
	}
	if g.Direction != game.Left {
		t.Errorf("direction = %v, want left", g.Direction)
	}
}
