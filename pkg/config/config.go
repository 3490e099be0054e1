package config

import "time"

// Display geometry (84x48 monochrome LCD)
const (
	ScreenWidth  = 84
	ScreenHeight = 48
	StatusBarX   = 5
	StatusBarY   = 0
	StatusBarH   = 8 // Rows reserved above the playfield
)

// Grid and snake settings
const (
	GridStep      = 3  // Pixels moved per frame
	CellSize      = 3  // Sprite width and height
	SnakeCapacity = 30 // Segment slots, head included
	InitialSize   = 2  // Index of the tail after a reset
	HomeX         = 20
	HomeY         = 20
	InitialLives  = 5
	ScorePlain    = 1 // Points per food without walls
	ScoreWalls    = 2 // Points per food with walls enabled
)

// Playfield bounds used by the wrap-around rule
const (
	MinX = -1
	MaxX = 82
	MinY = StatusBarH
	MaxY = 46
	// Wrap targets, each one in bounds and on the movement grid
	WrapToLeft   = MinX
	WrapToRight  = 80
	WrapToTop    = MinY
	WrapToBottom = 44
)

// Food placement grid: candidates are (rx+FoodOffsetX, ry+FoodOffsetY)
const (
	FoodCols         = 25 // rx = Intn(FoodCols) * GridStep
	FoodRows         = 16 // ry = Intn(FoodRows) * GridStep
	FoodMaxRX        = 73
	FoodMinRY        = 1
	FoodMaxRY        = 37
	FoodOffsetX      = 2
	FoodOffsetY      = 8
	FoodRollAttempts = 100 // Rolls before falling back to a scan
)

// Wall obstacles (active in wall mode)
const (
	LeftWallX    = 14
	LeftWallTop  = 8
	LeftWallBot  = 23
	MidWallX     = 32
	MidWallTop   = 24
	MidWallBot   = 48
	RightWallX   = 59
	RightWallTop = 8
	RightWallBot = 23
	WallMargin   = 2 // Food closer than this in x to a wall column is re-rolled
)

// Timing
const (
	TickInterval    = 32768 * time.Microsecond // 8MHz / 1024 prescaler / 256 overflow
	CounterPeriod   = 128 * time.Microsecond   // Free-running counter increment
	DebounceDelay   = 50 * time.Millisecond
	DebounceMaxHold = 2 * time.Second // Upper bound on waiting for a release
	DebouncePoll    = time.Millisecond
	IntroDuration   = 2 * time.Second
	QRHold          = 5 * time.Second        // Viewer QR code shown before the intro
	KeyHoldWindow   = 80 * time.Millisecond  // Keyboard press counts as held this long
	RecorderBuffer  = 1000                   // Queued step records before dropping
	ViewerWriteWait = 250 * time.Millisecond // Per-client frame write deadline
	ViewerPNGScale  = 4
	ViewerQueue     = 4 // Frames queued per viewer before skipping
)

// Analog channel scaling: delay = raw/ADCDivisor + ADCOffset milliseconds
const (
	ADCMax      = 1023
	ADCDivisor  = 3
	ADCOffset   = 10
	ADCDefault  = 300 // Initial knob position (110ms per frame)
	ADCKnobStep = 64
)

// Screen text
const (
	TitleText    = "SNAKE"
	SubtitleText = "5 lives"
	GameOverText = "Game Over!"
	TitleX       = 30
	TitleY       = 16
	SubtitleX    = 28
	SubtitleY    = 28
	GameOverX    = 18
	GameOverY    = 20
)

// Terminal rendering characters (two pixel rows per character cell)
const (
	CharEmpty  = " "
	CharUpper  = "▀"
	CharLower  = "▄"
	CharFull   = "█"
	FrameHoriz = "─"
	FrameVert  = "│"
)
