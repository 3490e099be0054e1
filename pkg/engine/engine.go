package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/trytobebee/snake_lcd/pkg/analog"
	"github.com/trytobebee/snake_lcd/pkg/config"
	"github.com/trytobebee/snake_lcd/pkg/display"
	"github.com/trytobebee/snake_lcd/pkg/game"
	"github.com/trytobebee/snake_lcd/pkg/input"
)

// State is the top level screen the engine is on
type State int

const (
	StateIntro State = iota
	StatePlaying
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateIntro:
		return "intro"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game_over"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Recorder receives one record per played frame
type Recorder interface {
	RecordStep(rec game.StepRecord)
}

// SleepFunc blocks for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configures optional engine collaborators
type Options struct {
	Counter  game.Counter // Food randomness source, FreeRunning if nil
	Recorder Recorder
	Logger   *log.Logger
	Sleep    SleepFunc
}

// Engine runs the intro, the per-frame game loop and the game over screen
type Engine struct {
	surface  *display.Surface
	controls *input.Controls
	pacer    *analog.Pacer
	game     *game.Game

	recorder Recorder
	logger   *log.Logger
	sleep    SleepFunc

	state State
}

// New creates an engine drawing on surface, reading input from controls and
// the frame delay from ch
func New(surface *display.Surface, controls *input.Controls, ch analog.Channel, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.Sleep == nil {
		opts.Sleep = Sleep
	}
	return &Engine{
		surface:  surface,
		controls: controls,
		pacer:    analog.NewPacer(ch),
		game:     game.NewGame(surface, opts.Counter),
		recorder: opts.Recorder,
		logger:   opts.Logger,
		sleep:    opts.Sleep,
		state:    StateIntro,
	}
}

// Game returns the running game
func (e *Engine) Game() *game.Game {
	return e.game
}

// State returns the current screen
func (e *Engine) State() State {
	return e.state
}

// Run plays one game from the intro to the game over screen. It returns nil
// once the game over screen is shown, or the context error if cancelled.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Intro(ctx); err != nil {
		return err
	}
	for e.state == StatePlaying {
		if err := e.Step(ctx); err != nil {
			return err
		}
	}
	e.ShowGameOver()
	return nil
}

// Intro shows the title screen and holds it
func (e *Engine) Intro(ctx context.Context) error {
	e.surface.Clear()
	e.surface.DrawString(config.TitleX, config.TitleY, config.TitleText)
	e.surface.DrawString(config.SubtitleX, config.SubtitleY, config.SubtitleText)
	e.show()

	if err := e.sleep(ctx, config.IntroDuration); err != nil {
		return err
	}
	e.state = StatePlaying
	e.logger.Printf("game started: lives=%d", e.game.Lives)
	return nil
}

// Step plays one frame. It does nothing outside the playing state.
func (e *Engine) Step(ctx context.Context) error {
	if e.state != StatePlaying {
		return nil
	}
	g := e.game

	e.surface.Clear()
	e.surface.DrawString(config.StatusBarX, config.StatusBarY, g.Scoreline())

	in := e.controls.Take()
	g.Events = g.Events[:0]
	g.Apply(in)
	g.Process()
	// Publish a reset before pacing so the sampler judges reversals against Neutral
	e.controls.Sync(in.Direction, g.Direction)

	delay := e.pacer.Delay()
	if err := e.sleep(ctx, delay); err != nil {
		return err
	}
	e.show()

	for _, ev := range g.Events {
		if ev.Kind == game.EventDeath {
			e.logger.Printf("life lost: cause=%s at=(%d,%d) lives=%d", ev.Cause, ev.Pos.X, ev.Pos.Y, g.Lives)
		}
	}
	if e.recorder != nil {
		e.recorder.RecordStep(g.Step(delay))
	}

	if g.Lives == 0 {
		e.state = StateGameOver
		e.logger.Printf("game over: score=%d frames=%d", g.Score, g.Frame)
	}
	return nil
}

// ShowGameOver draws the final screen
func (e *Engine) ShowGameOver() {
	e.surface.Clear()
	e.surface.DrawString(config.GameOverX, config.GameOverY, config.GameOverText)
	e.show()
}

func (e *Engine) show() {
	if err := e.surface.Show(); err != nil {
		e.logger.Printf("present failed: %v", err)
	}
}

// Sleep waits for d, returning early with the context error
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
