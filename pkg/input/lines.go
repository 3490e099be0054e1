package input

import (
	"fmt"

	"github.com/trytobebee/snake_lcd/pkg/game"
)

// Line is one of the six active-high digital inputs
type Line int

const (
	LineLeft Line = iota
	LineRight
	LineUp
	LineDown
	LineWallsOn  // Right mode button
	LineWallsOff // Left mode button
)

// Priority is the order lines are sampled in; the first asserted line wins
var Priority = [...]Line{LineLeft, LineRight, LineUp, LineDown, LineWallsOn, LineWallsOff}

var lineNames = [...]string{"left", "right", "up", "down", "walls_on", "walls_off"}

func (l Line) String() string {
	if l < LineLeft || l > LineWallsOff {
		return fmt.Sprintf("line(%d)", int(l))
	}
	return lineNames[l]
}

// ParseLineName looks a line up by its String name
func ParseLineName(name string) (Line, bool) {
	for i, n := range lineNames {
		if n == name {
			return Line(i), true
		}
	}
	return 0, false
}

// Direction returns the joystick direction of a direction line
func (l Line) Direction() (game.Direction, bool) {
	switch l {
	case LineLeft:
		return game.Left, true
	case LineRight:
		return game.Right, true
	case LineUp:
		return game.Up, true
	case LineDown:
		return game.Down, true
	}
	return game.Neutral, false
}

// Pins reads the level of an input line
type Pins interface {
	Read(line Line) bool
}

// AnyPins asserts a line when any of its sources does
type AnyPins []Pins

func (a AnyPins) Read(line Line) bool {
	for _, p := range a {
		if p.Read(line) {
			return true
		}
	}
	return false
}
