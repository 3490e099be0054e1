// Package analog models the single ADC channel that paces the game.
package analog

import (
	"sync/atomic"
	"time"

	"github.com/trytobebee/snake_lcd/pkg/config"
)

// Channel is a 10-bit analog input
type Channel interface {
	Read() uint16
}

// Knob is a potentiometer on the analog channel. Its level can be moved from
// any goroutine while the game loop reads it.
type Knob struct {
	level atomic.Uint32
}

// NewKnob creates a knob at the given raw level
func NewKnob(level int) *Knob {
	k := &Knob{}
	k.Set(level)
	return k
}

// Read returns the current raw level
func (k *Knob) Read() uint16 {
	return uint16(k.level.Load())
}

// Set moves the knob, clamped to the ADC range
func (k *Knob) Set(level int) {
	k.level.Store(uint32(clamp(level)))
}

// Turn moves the knob by delta and returns the new level
func (k *Knob) Turn(delta int) int {
	for {
		old := k.level.Load()
		next := uint32(clamp(int(old) + delta))
		if k.level.CompareAndSwap(old, next) {
			return int(next)
		}
	}
}

func clamp(level int) int {
	if level < 0 {
		return 0
	}
	if level > config.ADCMax {
		return config.ADCMax
	}
	return level
}

// Pacer turns the channel reading into the per-frame delay
type Pacer struct {
	ch Channel
}

// NewPacer creates a pacer reading ch
func NewPacer(ch Channel) *Pacer {
	return &Pacer{ch: ch}
}

// Delay samples the channel once: raw/3 + 10 milliseconds
func (p *Pacer) Delay() time.Duration {
	return DelayFor(p.ch.Read())
}

// DelayFor converts a raw reading into a frame delay
func DelayFor(raw uint16) time.Duration {
	if raw > config.ADCMax {
		raw = config.ADCMax
	}
	return time.Duration(int(raw)/config.ADCDivisor+config.ADCOffset) * time.Millisecond
}
