package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/trytobebee/snake_lcd/pkg/analog"
	"github.com/trytobebee/snake_lcd/pkg/config"
	"github.com/trytobebee/snake_lcd/pkg/display"
	"github.com/trytobebee/snake_lcd/pkg/engine"
	"github.com/trytobebee/snake_lcd/pkg/game"
	"github.com/trytobebee/snake_lcd/pkg/input"
	"github.com/trytobebee/snake_lcd/pkg/renderer"
	"github.com/trytobebee/snake_lcd/pkg/server"
)

func main() {
	serveAddr := flag.String("serve", "", "serve the remote viewer on this address, e.g. :8080")
	recordDir := flag.String("record", "", "write a JSONL trace of every frame to this directory")
	knobLevel := flag.Int("knob", config.ADCDefault, "initial speed knob position (0-1023)")
	logPath := flag.String("log", "", "append logs to this file")
	quiet := flag.Bool("quiet", false, "do not draw in the terminal")
	flag.Parse()

	logger, closeLog, err := openLog(*logPath, *quiet)
	if err != nil {
		fmt.Println("Error opening log:", err)
		return
	}
	defer closeLog()

	// Initialize input handler
	inputHandler := input.NewKeyboardHandler()
	if err := inputHandler.Start(); err != nil {
		fmt.Println("Error opening keyboard:", err)
		return
	}
	defer inputHandler.Stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	knob := analog.NewKnob(*knobLevel)
	surface := display.NewSurface(config.ScreenWidth, config.ScreenHeight)
	pins := input.AnyPins{inputHandler}

	// Initialize renderer
	render := renderer.NewTerminalRenderer(os.Stdout)
	render.SetFooter("WASD/Arrows move, ] walls on, [ walls off, +/- speed, Q quit")
	if !*quiet {
		surface.Attach(render)
		render.HideCursor()
		defer render.ShowCursor()
	}

	if *serveAddr != "" {
		hub := server.NewHub(knob, logger)
		defer hub.Close()
		surface.Attach(hub)
		pins = append(pins, hub)

		srv := &http.Server{Addr: *serveAddr, Handler: hub.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("Viewer server stopped: %v", err)
			}
		}()
		defer srv.Close()

		url := viewerURL(*serveAddr)
		render.SetFooter("Viewer: " + url + "  |  Q to quit")
		if qr, err := server.QRCode(url); err == nil {
			fmt.Printf("\n  Scan to watch and play: %s\n\n%s\n", url, qr)
			engine.Sleep(ctx, config.QRHold)
		}
	}

	var recorder engine.Recorder
	if *recordDir != "" {
		rec, err := game.NewRecorder(*recordDir, strconv.Itoa(os.Getpid()))
		if err != nil {
			fmt.Println("Error creating recorder:", err)
			return
		}
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Printf("Recorder close: %v", err)
			}
			if n := rec.Dropped(); n > 0 {
				logger.Printf("Recorder dropped %d frames", n)
			}
		}()
		logger.Printf("Recording to %s", rec.Path())
		recorder = rec
	}

	controls := input.NewControls()
	sampler := input.NewSampler(pins, controls, nil)
	timer := input.NewTimer(config.TickInterval, func() { sampler.Tick() })
	go timer.Run(ctx)

	eng := engine.New(surface, controls, knob, engine.Options{Recorder: recorder, Logger: logger})
	done := make(chan error, 1)
	go func() { done <- eng.Run(ctx) }()

	finish := func(err error) {
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Printf("Engine stopped: %v", err)
		}
		g := eng.Game()
		logger.Printf("Final score %d after %d frames", g.Score, g.Frame)
	}
	if controlLoop(ctx, cancel, inputHandler.GetInputChan(), done, knob, finish, logger) {
		fmt.Println("\n  Thanks for playing!")
	}
}

// controlLoop handles quitting and the knob while the engine runs in its own
// goroutine. After game over the board stays up until quit, there is no
// restart. It reports whether the player quit.
func controlLoop(ctx context.Context, cancel context.CancelFunc, keys <-chan input.KeyInput, done <-chan error, knob *analog.Knob, finish func(error), logger *log.Logger) bool {
	// Wait for the engine unless it already finished
	stop := func() {
		cancel()
		if done != nil {
			finish(<-done)
		}
	}

	for {
		select {
		case inputEvent := <-keys:
			if input.IsQuit(inputEvent) {
				stop()
				return true
			}
			if delta := input.KnobDelta(inputEvent); delta != 0 {
				level := knob.Turn(delta)
				logger.Printf("Knob %d, frame delay %v", level, analog.DelayFor(uint16(level)))
			}

		case err := <-done:
			finish(err)
			done = nil

		case <-ctx.Done():
			stop()
			return false
		}
	}
}

// openLog picks the log destination: a file when given, stderr when the
// terminal is not drawn on, otherwise nowhere
func openLog(path string, quiet bool) (*log.Logger, func(), error) {
	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return log.New(f, "snake: ", log.LstdFlags), func() { f.Close() }, nil
	case quiet:
		return log.New(os.Stderr, "snake: ", log.LstdFlags), func() {}, nil
	default:
		return log.New(io.Discard, "", 0), func() {}, nil
	}
}

// viewerURL turns a listen address into a URL other devices can open
func viewerURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = outboundIP()
	}
	return "http://" + net.JoinHostPort(host, port)
}

// outboundIP finds the LAN address without sending anything
func outboundIP() string {
	conn, err := net.DialTimeout("udp", "192.0.2.1:80", time.Second)
	if err != nil {
		return "localhost"
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "localhost"
}
