package input

import (
	"sync"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/trytobebee/snake_lcd/pkg/config"
)

// KeyboardHandler handles keyboard input. Terminals only report key presses,
// so a line reads as asserted for a short hold window after its last press;
// key repeat keeps a held key asserted.
type KeyboardHandler struct {
	inputChan chan KeyInput
	done      chan struct{}

	mu      sync.Mutex
	pressed map[Line]time.Time
	hold    time.Duration
	now     func() time.Time
}

// KeyInput represents a keyboard input event
type KeyInput struct {
	Char rune
	Key  keyboard.Key
}

// NewKeyboardHandler creates a new keyboard input handler
func NewKeyboardHandler() *KeyboardHandler {
	return &KeyboardHandler{
		inputChan: make(chan KeyInput),
		done:      make(chan struct{}),
		pressed:   make(map[Line]time.Time),
		hold:      config.KeyHoldWindow,
		now:       time.Now,
	}
}

// Start begins listening for keyboard input
func (h *KeyboardHandler) Start() error {
	if err := keyboard.Open(); err != nil {
		return err
	}

	go func() {
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			h.handle(KeyInput{Char: char, Key: key})
		}
	}()

	return nil
}

// Stop stops the keyboard handler
func (h *KeyboardHandler) Stop() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
	keyboard.Close()
}

// GetInputChan returns keys that are not input lines (quit, knob)
func (h *KeyboardHandler) GetInputChan() <-chan KeyInput {
	return h.inputChan
}

// Read implements Pins
func (h *KeyboardHandler) Read(line Line) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	at, ok := h.pressed[line]
	return ok && h.now().Sub(at) < h.hold
}

func (h *KeyboardHandler) handle(ev KeyInput) {
	if line, ok := ParseLine(ev); ok {
		h.press(line)
		return
	}
	select {
	case h.inputChan <- ev:
	case <-h.done:
	}
}

func (h *KeyboardHandler) press(line Line) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pressed[line] = h.now()
}

// ParseLine maps a key to an input line
func ParseLine(input KeyInput) (Line, bool) {
	// Handle arrow keys
	switch input.Key {
	case keyboard.KeyArrowUp:
		return LineUp, true
	case keyboard.KeyArrowDown:
		return LineDown, true
	case keyboard.KeyArrowLeft:
		return LineLeft, true
	case keyboard.KeyArrowRight:
		return LineRight, true
	}

	// Handle WASD and the mode buttons
	switch input.Char {
	case 'w', 'W':
		return LineUp, true
	case 's', 'S':
		return LineDown, true
	case 'a', 'A':
		return LineLeft, true
	case 'd', 'D':
		return LineRight, true
	case ']':
		return LineWallsOn, true
	case '[':
		return LineWallsOff, true
	}

	return 0, false
}

// IsQuit checks if the input is a quit command
func IsQuit(input KeyInput) bool {
	return input.Char == 'q' || input.Char == 'Q' || input.Key == keyboard.KeyEsc || input.Key == keyboard.KeyCtrlC
}

// KnobDelta returns how far a key turns the speed knob, 0 if it is not a knob key
func KnobDelta(input KeyInput) int {
	switch input.Char {
	case '+', '=':
		return config.ADCKnobStep
	case '-', '_':
		return -config.ADCKnobStep
	}
	return 0
}
