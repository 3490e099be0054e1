package analog

import (
	"sync"
	"testing"
	"time"
)

func TestDelayFor(t *testing.T) {
	tests := []struct {
		raw  uint16
		want time.Duration
	}{
		{0, 10 * time.Millisecond},
		{2, 10 * time.Millisecond},
		{3, 11 * time.Millisecond},
		{300, 110 * time.Millisecond},
		{1023, 351 * time.Millisecond},
		{4095, 351 * time.Millisecond}, // out of range readings are clamped
	}
	for _, tt := range tests {
		if got := DelayFor(tt.raw); got != tt.want {
			t.Errorf("DelayFor(%d) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestKnobClampsAndPaces(t *testing.T) {
	k := NewKnob(2000)
	if k.Read() != 1023 {
		t.Errorf("knob should clamp to 1023, got %d", k.Read())
	}

	if got := k.Turn(-1100); got != 0 {
		t.Errorf("turning below zero should clamp, got %d", got)
	}

	k.Set(90)
	p := NewPacer(k)
	if d := p.Delay(); d != 40*time.Millisecond {
		t.Errorf("delay = %v, want 40ms", d)
	}
}

func TestKnobConcurrentTurns(t *testing.T) {
	k := NewKnob(500)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			k.Turn(3)
		}()
		go func() {
			defer wg.Done()
			k.Turn(-1)
		}()
	}
	wg.Wait()

	if k.Read() != 520 {
		t.Errorf("expected 520 after balanced turns, got %d", k.Read())
	}
}
