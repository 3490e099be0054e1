package game

import (
	"math/rand"
	"time"

	"github.com/trytobebee/snake_lcd/pkg/config"
)

// Counter is a free-running 8-bit hardware counter used to seed food placement
type Counter interface {
	Count() uint8
}

// FreeRunning counts up every config.CounterPeriod from its start and wraps at 256
type FreeRunning struct {
	start time.Time
}

// NewFreeRunning starts a counter at zero
func NewFreeRunning() *FreeRunning {
	return &FreeRunning{start: time.Now()}
}

// Count returns the current counter value
func (f *FreeRunning) Count() uint8 {
	return uint8(time.Since(f.start) / config.CounterPeriod)
}

// ResetFood moves the food to a random free grid cell and draws it
func (g *Game) ResetFood() {
	rng := rand.New(rand.NewSource(int64(g.counter.Count())))

	for attempts := 0; attempts < config.FoodRollAttempts; attempts++ {
		rx := rng.Intn(config.FoodCols) * config.GridStep
		ry := rng.Intn(config.FoodRows) * config.GridStep
		if !foodInBounds(rx, ry) {
			continue
		}
		pos := Point{X: rx + config.FoodOffsetX, Y: ry + config.FoodOffsetY}
		if !g.foodAllowed(pos) {
			continue
		}
		g.placeFood(pos)
		return
	}

	// Unlucky rolls: take the first free cell so the food never lands on the snake
	for ry := 0; ry < config.FoodRows*config.GridStep; ry += config.GridStep {
		for rx := 0; rx < config.FoodCols*config.GridStep; rx += config.GridStep {
			pos := Point{X: rx + config.FoodOffsetX, Y: ry + config.FoodOffsetY}
			if foodInBounds(rx, ry) && g.foodAllowed(pos) {
				g.placeFood(pos)
				return
			}
		}
	}
}

func foodInBounds(rx, ry int) bool {
	return rx <= config.FoodMaxRX && ry >= config.FoodMinRY && ry <= config.FoodMaxRY
}

// foodAllowed reports whether food may be placed at pos
func (g *Game) foodAllowed(pos Point) bool {
	if g.Snake.Occupies(pos) {
		return false
	}
	// The snake restarts stacked on Home after every reset
	if pos == Home {
		return false
	}
	if g.Walls && nearWall(pos) {
		return false
	}
	return true
}

func (g *Game) placeFood(pos Point) {
	g.Food = pos
	g.Events = append(g.Events, Event{Kind: EventFood, Pos: pos})
	g.foodSprite.At(pos.X, pos.Y).Draw(g.canvas)
}
