package game

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/trytobebee/snake_lcd/pkg/config"
	"github.com/trytobebee/snake_lcd/pkg/display"
	"github.com/trytobebee/snake_lcd/pkg/sprite"
)

// StepRecord is one frame of a recorded game
type StepRecord struct {
	Frame     int       `json:"frame"`
	Time      time.Time `json:"time"`
	DelayMS   int64     `json:"delayMs"`
	Direction Direction `json:"direction"`
	Walls     bool      `json:"walls"`
	Score     int       `json:"score"`
	Lives     int       `json:"lives"`
	Snake     []Point   `json:"snake"`
	Food      Point     `json:"food"`
	Events    []Event   `json:"events,omitempty"`
}

// Step captures the current state as a record
func (g *Game) Step(delay time.Duration) StepRecord {
	live := g.Snake.Live()
	snake := make([]Point, len(live))
	copy(snake, live)

	var events []Event
	if len(g.Events) > 0 {
		events = make([]Event, len(g.Events))
		copy(events, g.Events)
	}

	return StepRecord{
		Frame:     g.Frame,
		Time:      time.Now(),
		DelayMS:   delay.Milliseconds(),
		Direction: g.Direction,
		Walls:     g.Walls,
		Score:     g.Score,
		Lives:     g.Lives,
		Snake:     snake,
		Food:      g.Food,
		Events:    events,
	}
}

// Scoreline is the status bar text of the recorded frame
func (r StepRecord) Scoreline() string {
	return fmt.Sprintf("%d(%d)", r.Lives, r.Score)
}

// Draw paints the recorded playfield: food, snake and walls
func (r StepRecord) Draw(c display.Canvas) {
	food := sprite.MustNew(r.Food.X, r.Food.Y, config.CellSize, config.CellSize, sprite.FoodBitmap)
	food.Draw(c)

	seg := sprite.MustNew(0, 0, config.CellSize, config.CellSize, sprite.SegmentBitmap)
	for _, p := range r.Snake {
		seg.At(p.X, p.Y).Draw(c)
	}

	if r.Walls {
		for _, w := range Obstacles {
			c.DrawLine(w.X, w.Top, w.X, w.Bottom)
		}
	}
}

// GameRecorder handles asynchronous logging of game steps
type GameRecorder struct {
	file       *os.File
	writer     *bufio.Writer
	recordChan chan StepRecord
	wg         sync.WaitGroup
	mu         sync.Mutex
	closed     bool
	dropped    int
	path       string
}

// NewRecorder creates a recorder writing to dir.
// Filename format: game_{sessionID}_{timestamp}.jsonl
func NewRecorder(dir, sessionID string) (*GameRecorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create records dir: %w", err)
	}

	timestamp := time.Now().Unix()
	filename := fmt.Sprintf("game_%s_%d.jsonl", sessionID, timestamp)
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create record file: %w", err)
	}

	r := &GameRecorder{
		file:       f,
		writer:     bufio.NewWriter(f),
		recordChan: make(chan StepRecord, config.RecorderBuffer),
		path:       path,
	}

	// Start background writer
	r.wg.Add(1)
	go r.writeLoop()

	return r, nil
}

// Path returns the file the recorder writes to
func (r *GameRecorder) Path() string {
	return r.path
}

// RecordStep queues a record to be written. Non-blocking (drops if full).
func (r *GameRecorder) RecordStep(rec StepRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	select {
	case r.recordChan <- rec:
	default:
		// Channel full, drop the frame rather than stall the game loop
		r.dropped++
	}
}

// Dropped returns how many records were discarded because the buffer was full
func (r *GameRecorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Close flushes the buffer and closes the file
func (r *GameRecorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.recordChan)
	r.mu.Unlock()

	r.wg.Wait() // Wait for writeLoop to finish
	if err := r.writer.Flush(); err != nil {
		r.file.Close()
		return fmt.Errorf("failed to flush records: %w", err)
	}
	return r.file.Close()
}

func (r *GameRecorder) writeLoop() {
	defer r.wg.Done()

	encoder := json.NewEncoder(r.writer)
	for rec := range r.recordChan {
		if err := encoder.Encode(rec); err != nil {
			log.Printf("Error recording frame %d: %v", rec.Frame, err)
			continue
		}
	}
}

// ReadRecords decodes a JSONL recording
func ReadRecords(rd io.Reader) ([]StepRecord, error) {
	var records []StepRecord
	dec := json.NewDecoder(rd)
	for {
		var rec StepRecord
		err := dec.Decode(&rec)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, fmt.Errorf("record %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
}
