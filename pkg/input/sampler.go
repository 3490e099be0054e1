package input

import (
	"context"
	"time"

	"github.com/trytobebee/snake_lcd/pkg/config"
)

// Waiter blocks the calling goroutine for d
type Waiter interface {
	Wait(d time.Duration)
}

// SleepWaiter waits with time.Sleep
type SleepWaiter struct{}

func (SleepWaiter) Wait(d time.Duration) { time.Sleep(d) }

// Sampler is the timer tick handler: it reads the input lines and publishes
// the result into Controls. Debouncing blocks the sampler, never the game loop.
type Sampler struct {
	pins     Pins
	controls *Controls
	wait     Waiter

	delay   time.Duration
	maxHold time.Duration
	poll    time.Duration
}

// NewSampler creates a sampler with the standard debounce timings. A nil
// waiter sleeps for real.
func NewSampler(pins Pins, controls *Controls, wait Waiter) *Sampler {
	if wait == nil {
		wait = SleepWaiter{}
	}
	return &Sampler{
		pins:     pins,
		controls: controls,
		wait:     wait,
		delay:    config.DebounceDelay,
		maxHold:  config.DebounceMaxHold,
		poll:     config.DebouncePoll,
	}
}

// Tick samples the lines once. At most one line is handled per tick; it
// returns that line, or false when nothing was asserted.
func (s *Sampler) Tick() (Line, bool) {
	for _, line := range Priority {
		if !s.pins.Read(line) {
			continue
		}

		if dir, ok := line.Direction(); ok {
			// Holding the current direction needs no debounce
			if s.controls.Direction() != dir {
				s.debounce(line)
			}
			s.controls.Steer(dir)
		} else {
			s.debounce(line)
			s.controls.SetWalls(line == LineWallsOn)
		}
		return line, true
	}
	return 0, false
}

// debounce waits, then waits for the release (bounded), then waits again
func (s *Sampler) debounce(line Line) {
	s.wait.Wait(s.delay)
	for held := time.Duration(0); s.pins.Read(line) && held < s.maxHold; held += s.poll {
		s.wait.Wait(s.poll)
	}
	s.wait.Wait(s.delay)
}

// Timer calls a handler at a fixed interval, like a hardware timer overflow
type Timer struct {
	interval time.Duration
	handler  func()
}

// NewTimer creates a timer; Run starts it
func NewTimer(interval time.Duration, handler func()) *Timer {
	return &Timer{interval: interval, handler: handler}
}

// Run fires the handler every interval until ctx is done. A handler that runs
// longer than the interval delays the next tick instead of queueing ticks.
func (t *Timer) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.handler()
		}
	}
}
