package input

import (
	"sync/atomic"

	"github.com/trytobebee/snake_lcd/pkg/game"
)

// Controls is the handoff between the sampler (single writer on the timer
// goroutine) and the game loop, which takes one Intent per frame.
type Controls struct {
	dir       atomic.Int32
	walls     atomic.Bool
	reversals atomic.Uint32
}

// NewControls starts in the Neutral direction with walls off
func NewControls() *Controls {
	c := &Controls{}
	c.dir.Store(int32(game.Neutral))
	return c
}

// Direction returns the latest published direction
func (c *Controls) Direction() game.Direction {
	return game.Direction(c.dir.Load())
}

// Walls returns the latest published wall mode
func (c *Controls) Walls() bool {
	return c.walls.Load()
}

// Steer publishes a new direction. A reversal is recorded for the game loop
// and leaves the direction Neutral, which is where the reset puts the snake.
func (c *Controls) Steer(d game.Direction) (prev game.Direction, reversed bool) {
	for {
		old := c.dir.Load()
		prev = game.Direction(old)
		reversed = d.Reverses(prev)
		next := d
		if reversed {
			next = game.Neutral
		}
		if c.dir.CompareAndSwap(old, int32(next)) {
			if reversed {
				c.reversals.Add(1)
			}
			return prev, reversed
		}
	}
}

// SetWalls publishes the wall mode
func (c *Controls) SetWalls(on bool) {
	c.walls.Store(on)
}

// Take consumes the pending reversals and returns the current input state
func (c *Controls) Take() game.Intent {
	return game.Intent{
		Direction: c.Direction(),
		Walls:     c.Walls(),
		Reversals: int(c.reversals.Swap(0)),
	}
}

// Sync writes the game's direction back after a frame. It only replaces the
// direction that was taken at the start of the frame, so a newer sample wins.
func (c *Controls) Sync(taken, current game.Direction) bool {
	if taken == current {
		return false
	}
	return c.dir.CompareAndSwap(int32(taken), int32(current))
}
