package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/trytobebee/snake_lcd/pkg/analog"
	"github.com/trytobebee/snake_lcd/pkg/config"
	"github.com/trytobebee/snake_lcd/pkg/display"
	"github.com/trytobebee/snake_lcd/pkg/engine"
	"github.com/trytobebee/snake_lcd/pkg/input"
	"github.com/trytobebee/snake_lcd/pkg/window"
)

func main() {
	scale := flag.Int("scale", 8, "window pixels per LCD pixel")
	knobLevel := flag.Int("knob", config.ADCDefault, "initial speed knob position (0-1023)")
	flag.Parse()

	logger := log.New(os.Stderr, "snake: ", log.LstdFlags)

	knob := analog.NewKnob(*knobLevel)
	win := window.New(knob)
	surface := display.NewSurface(config.ScreenWidth, config.ScreenHeight)
	surface.Attach(win)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	controls := input.NewControls()
	sampler := input.NewSampler(win, controls, nil)
	go input.NewTimer(config.TickInterval, func() { sampler.Tick() }).Run(ctx)

	eng := engine.New(surface, controls, knob, engine.Options{Logger: logger})
	go func() {
		if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Printf("Engine stopped: %v", err)
		}
	}()

	ebiten.SetWindowSize(config.ScreenWidth*(*scale), config.ScreenHeight*(*scale))
	ebiten.SetWindowTitle("Snake LCD")
	if err := ebiten.RunGame(win); err != nil {
		logger.Fatal(err)
	}
}
