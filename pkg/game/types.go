package game

import (
	"fmt"

	"github.com/trytobebee/snake_lcd/pkg/config"
	"github.com/trytobebee/snake_lcd/pkg/display"
	"github.com/trytobebee/snake_lcd/pkg/sprite"
)

// Point represents a pixel coordinate on the display
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction is the joystick direction the head moves in
type Direction int32

const (
	Up Direction = iota
	Right
	Down
	Left
	Neutral // Initial value, the snake does not move
)

var directionNames = [...]string{"up", "right", "down", "left", "neutral"}

func (d Direction) String() string {
	if d < Up || d > Neutral {
		return fmt.Sprintf("direction(%d)", int32(d))
	}
	return directionNames[d]
}

// MarshalText encodes the direction by name
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name
func (d *Direction) UnmarshalText(text []byte) error {
	for i, name := range directionNames {
		if string(text) == name {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown direction %q", text)
}

// Delta returns the head offset for one frame
func (d Direction) Delta() Point {
	switch d {
	case Up:
		return Point{X: 0, Y: -config.GridStep}
	case Right:
		return Point{X: config.GridStep, Y: 0}
	case Down:
		return Point{X: 0, Y: config.GridStep}
	case Left:
		return Point{X: -config.GridStep, Y: 0}
	default:
		return Point{}
	}
}

// Reverses reports whether going from prev to d turns the snake back on itself
func (d Direction) Reverses(prev Direction) bool {
	switch prev {
	case Up:
		return d == Down
	case Down:
		return d == Up
	case Left:
		return d == Right
	case Right:
		return d == Left
	}
	return false
}

// Snake is a fixed-capacity segment array. Segments 0 (head) through Size are live.
type Snake struct {
	Segments [config.SnakeCapacity]Point
	Size     int
}

// Head returns segment 0
func (s *Snake) Head() Point {
	return s.Segments[0]
}

// Live returns the live segments, head first
func (s *Snake) Live() []Point {
	return s.Segments[:s.Size+1]
}

// Occupies reports whether any live segment is at p
func (s *Snake) Occupies(p Point) bool {
	for _, seg := range s.Live() {
		if seg == p {
			return true
		}
	}
	return false
}

// Grow adds a tail segment on top of the current tail. It reports false when
// the snake is already at capacity.
func (s *Snake) Grow() bool {
	if s.Size+1 >= len(s.Segments) {
		return false
	}
	s.Size++
	s.Segments[s.Size] = s.Segments[s.Size-1]
	return true
}

// Reset stacks every segment on home and shrinks the snake to its initial size
func (s *Snake) Reset(home Point) {
	for i := range s.Segments {
		s.Segments[i] = home
	}
	s.Size = config.InitialSize
}

// Cause is why the snake died
type Cause string

const (
	CauseSelf     Cause = "self"
	CauseReversal Cause = "reversal"
	CauseWall     Cause = "wall"
)

// EventKind classifies game events
type EventKind string

const (
	EventEat   EventKind = "eat"
	EventDeath EventKind = "death"
	EventFood  EventKind = "food"
)

// Event is something that happened during a frame
type Event struct {
	Kind  EventKind `json:"kind"`
	Cause Cause     `json:"cause,omitempty"`
	Pos   Point     `json:"pos"`
}

// Intent is the input state the main loop hands to the game once per frame
type Intent struct {
	Direction Direction
	Walls     bool
	Reversals int // Reversals seen by the sampler since the previous frame
}

// Game holds the complete game state
type Game struct {
	Snake     Snake
	Food      Point
	Score     int
	Lives     int
	Walls     bool
	Direction Direction
	GameOver  bool
	Frame     int     // Frames processed
	Events    []Event // Events since the owner last cleared them

	canvas     display.Canvas
	counter    Counter
	segment    sprite.Sprite
	foodSprite sprite.Sprite
}
