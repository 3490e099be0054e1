package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/trytobebee/snake_lcd/pkg/config"
	"github.com/trytobebee/snake_lcd/pkg/display"
	"github.com/trytobebee/snake_lcd/pkg/engine"
	"github.com/trytobebee/snake_lcd/pkg/game"
	"github.com/trytobebee/snake_lcd/pkg/renderer"
	"github.com/trytobebee/snake_lcd/pkg/server"
)

// RecordFile describes one trace in the records directory
type RecordFile struct {
	Name      string
	Size      int64
	Time      time.Time
	SessionID string
}

func main() {
	recordDir := flag.String("dir", "records", "directory holding JSONL traces")
	speed := flag.Float64("speed", 1, "playback speed multiplier")
	serveAddr := flag.String("serve", "", "also stream the replay to the remote viewer on this address")
	flag.Parse()

	if *speed <= 0 {
		log.Fatal("speed must be positive")
	}

	// No file given: list what can be replayed
	if flag.NArg() == 0 {
		records, err := listRecords(*recordDir)
		if err != nil {
			log.Fatal(err)
		}
		if len(records) == 0 {
			fmt.Printf("No recordings found in %s\n", *recordDir)
			return
		}
		fmt.Println("📼 Replay Library")
		for _, r := range records {
			fmt.Printf("  %s  session %s  %d bytes  %s\n", r.Name, r.SessionID, r.Size, r.Time.Format("2006-01-02 15:04:05"))
		}
		fmt.Println("\nRun: replay <file>")
		return
	}

	path := flag.Arg(0)
	if _, err := os.Stat(path); err != nil {
		path = filepath.Join(*recordDir, flag.Arg(0))
	}
	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open record: %v", err)
	}
	records, err := game.ReadRecords(file)
	file.Close()
	if err != nil {
		// Play what was readable, a trace cut short by a crash is still useful
		log.Printf("Record parse error: %v", err)
	}
	if len(records) == 0 {
		log.Fatal("Nothing to replay")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	surface := display.NewSurface(config.ScreenWidth, config.ScreenHeight)
	render := renderer.NewTerminalRenderer(os.Stdout)
	surface.Attach(render)
	render.HideCursor()
	defer render.ShowCursor()

	if *serveAddr != "" {
		hub := server.NewHub(nil, log.Default())
		defer hub.Close()
		surface.Attach(hub)
		srv := &http.Server{Addr: *serveAddr, Handler: hub.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Viewer server stopped: %v", err)
			}
		}()
		defer srv.Close()
	}

	if err := play(ctx, surface, render, records, *speed); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Playback stopped: %v", err)
	}
}

// play draws every record at its recorded pace
func play(ctx context.Context, surface *display.Surface, render *renderer.TerminalRenderer, records []game.StepRecord, speed float64) error {
	last := records[len(records)-1]
	for i, rec := range records {
		render.SetFooter(fmt.Sprintf("Replay frame %d/%d  dir %s  walls %v  Ctrl-C to stop", i+1, len(records), rec.Direction, rec.Walls))

		surface.Clear()
		surface.DrawString(config.StatusBarX, config.StatusBarY, rec.Scoreline())
		rec.Draw(surface)
		if err := surface.Show(); err != nil {
			return err
		}

		delay := time.Duration(float64(time.Duration(rec.DelayMS)*time.Millisecond) / speed)
		if err := engine.Sleep(ctx, delay); err != nil {
			return err
		}
	}

	if last.Lives == 0 {
		surface.Clear()
		surface.DrawString(config.GameOverX, config.GameOverY, config.GameOverText)
		render.SetFooter(fmt.Sprintf("Final score %d", last.Score))
		return surface.Show()
	}
	return nil
}

func listRecords(dir string) ([]RecordFile, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var records []RecordFile
	for _, f := range files {
		if filepath.Ext(f.Name()) != ".jsonl" {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		// expecting format: game_{sessionID}_{timestamp}.jsonl
		parts := strings.Split(f.Name(), "_")
		sessID := ""
		if len(parts) >= 2 {
			sessID = parts[1]
		}
		records = append(records, RecordFile{
			Name:      f.Name(),
			Size:      info.Size(),
			Time:      info.ModTime(),
			SessionID: sessID,
		})
	}

	// Sort by time desc
	sort.Slice(records, func(i, j int) bool {
		return records[i].Time.After(records[j].Time)
	})
	return records, nil
}
