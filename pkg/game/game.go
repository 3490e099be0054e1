package game

import (
	"fmt"

	"github.com/trytobebee/snake_lcd/pkg/config"
	"github.com/trytobebee/snake_lcd/pkg/display"
	"github.com/trytobebee/snake_lcd/pkg/sprite"
)

// Home is where the snake starts after every reset
var Home = Point{X: config.HomeX, Y: config.HomeY}

// NewGame creates a game drawing on canvas. A nil counter uses a FreeRunning
// counter started now.
func NewGame(canvas display.Canvas, counter Counter) *Game {
	if counter == nil {
		counter = NewFreeRunning()
	}
	g := &Game{
		Lives:      config.InitialLives,
		Direction:  Neutral,
		canvas:     canvas,
		counter:    counter,
		segment:    sprite.MustNew(Home.X, Home.Y, config.CellSize, config.CellSize, sprite.SegmentBitmap),
		foodSprite: sprite.MustNew(0, 0, config.CellSize, config.CellSize, sprite.FoodBitmap),
	}
	g.Snake.Reset(Home)

	// Initial food placement
	g.ResetFood()
	return g
}

// Apply hands the sampled input to the game. Every reversal recorded by the
// sampler costs a life before the new direction takes effect.
func (g *Game) Apply(in Intent) {
	if g.GameOver {
		return
	}
	for i := 0; i < in.Reversals && !g.GameOver; i++ {
		g.ResetSnake(CauseReversal)
	}
	g.Direction = in.Direction
	g.Walls = in.Walls
}

// Process advances the game by one frame
func (g *Game) Process() {
	if g.GameOver {
		return
	}
	g.Frame++

	g.foodSprite.At(g.Food.X, g.Food.Y).Draw(g.canvas)
	g.MoveSnake()
	g.CheckCollisions()
	g.WrapBarrier()
	if g.Walls {
		g.DrawWalls()
		g.CheckWalls()
	}
}

// MoveSnake moves the head one grid step and drags the body behind it
func (g *Game) MoveSnake() {
	s := &g.Snake
	g.segment.At(s.Segments[0].X, s.Segments[0].Y).Erase(g.canvas)

	// Tail first so every segment copies its predecessor's old position
	for i := s.Size; i > 0; i-- {
		s.Segments[i] = s.Segments[i-1]
	}

	d := g.Direction.Delta()
	s.Segments[0] = Point{X: s.Segments[0].X + d.X, Y: s.Segments[0].Y + d.Y}

	for _, seg := range s.Live() {
		g.segment.At(seg.X, seg.Y).Draw(g.canvas)
	}
}

// CheckCollisions handles the head hitting food or its own body
func (g *Game) CheckCollisions() {
	head := g.Snake.Head()

	if head == g.Food {
		if g.Walls {
			g.Score += config.ScoreWalls
		} else {
			g.Score += config.ScorePlain
		}
		g.Snake.Grow()
		g.Events = append(g.Events, Event{Kind: EventEat, Pos: head})
		g.ResetFood()
	}

	// A stacked snake that has not moved yet overlaps itself
	if g.Direction == Neutral {
		return
	}
	// Segment 1 sits right behind the head and cannot overlap it
	for i := 2; i <= g.Snake.Size; i++ {
		if head == g.Snake.Segments[i] {
			g.ResetSnake(CauseSelf)
			return
		}
	}
}

// WrapBarrier moves a head that left the playfield to the opposite edge. Only
// the first matching edge is corrected per call: right, left, bottom, top.
func (g *Game) WrapBarrier() {
	head := &g.Snake.Segments[0]
	switch {
	case head.X > config.MaxX:
		head.X = config.WrapToLeft
	case head.X < config.MinX:
		head.X = config.WrapToRight
	case head.Y > config.MaxY:
		head.Y = config.WrapToTop
	case head.Y < config.MinY:
		head.Y = config.WrapToBottom
	}
}

// ResetSnake is the single death rule: the snake goes home at its initial
// size, stops, and a life is lost
func (g *Game) ResetSnake(cause Cause) {
	g.Events = append(g.Events, Event{Kind: EventDeath, Cause: cause, Pos: g.Snake.Head()})

	g.Snake.Reset(Home)
	g.Direction = Neutral
	if g.Lives > 0 {
		g.Lives--
	}
	if g.Lives == 0 {
		g.GameOver = true
	}
}

// Scoreline is the status bar text: lives(score)
func (g *Game) Scoreline() string {
	return fmt.Sprintf("%d(%d)", g.Lives, g.Score)
}
