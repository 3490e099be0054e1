package game

import "github.com/trytobebee/snake_lcd/pkg/config"

// Wall is a vertical obstacle line. A segment at column X dies when
// HitAbove < y < HitBelow.
type Wall struct {
	X, Top, Bottom     int
	HitAbove, HitBelow int
}

// Obstacles are the three wall-mode obstacles: left, middle, right
var Obstacles = [...]Wall{
	// The left band stops one row short of the drawn line
	{X: config.LeftWallX, Top: config.LeftWallTop, Bottom: config.LeftWallBot, HitAbove: config.LeftWallTop - 1, HitBelow: config.LeftWallBot},
	{X: config.MidWallX, Top: config.MidWallTop, Bottom: config.MidWallBot, HitAbove: config.MidWallTop - 1, HitBelow: config.MidWallBot + 1},
	{X: config.RightWallX, Top: config.RightWallTop, Bottom: config.RightWallBot, HitAbove: config.RightWallTop - 1, HitBelow: config.RightWallBot + 1},
}

// Hits reports whether a segment at p touches the wall
func (w Wall) Hits(p Point) bool {
	return p.X == w.X && p.Y > w.HitAbove && p.Y < w.HitBelow
}

// Near reports whether p is within the food margin of the wall
func (w Wall) Near(p Point) bool {
	dx := p.X - w.X
	if dx < 0 {
		dx = -dx
	}
	return dx < config.WallMargin && p.Y > w.HitAbove && p.Y < w.HitBelow
}

func nearWall(p Point) bool {
	for _, w := range Obstacles {
		if w.Near(p) {
			return true
		}
	}
	return false
}

// DrawWalls draws the three obstacles
func (g *Game) DrawWalls() {
	for _, w := range Obstacles {
		g.canvas.DrawLine(w.X, w.Top, w.X, w.Bottom)
	}
}

// CheckWalls kills the snake when an even-indexed segment touches a wall and
// moves food that ended up next to one
func (g *Game) CheckWalls() {
segments:
	for i := 0; i < g.Snake.Size; i += 2 {
		seg := g.Snake.Segments[i]
		for _, w := range Obstacles {
			if w.Hits(seg) {
				g.ResetSnake(CauseWall)
				break segments
			}
		}
	}

	if nearWall(g.Food) {
		g.ResetFood()
	}
}
