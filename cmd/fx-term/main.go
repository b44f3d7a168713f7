package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"

	"chooch-fx/internal/app"
	"chooch-fx/internal/effect"
	"chooch-fx/internal/session"
	"chooch-fx/internal/term"

	"github.com/gdamore/tcell/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	scale := flag.Int("scale", term.DefaultScale, "viewport pixels per terminal column")
	exitIdle := flag.Bool("exit-idle", false, "quit once every effect has finished")
	logFile := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	if err := cfg.LoadPresets(); err != nil {
		log.Fatalf("presets: %v", err)
	}
	store, err := cfg.OpenStore()
	if err != nil {
		log.Printf("[Main] warning: %v, falling back to memory store", err)
		store = session.NewMemory()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("screen init: %v", err)
	}
	screen.EnableMouse()
	defer screen.Fini()

	// Log lines would corrupt the screen from here on.
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			screen.Fini()
			log.Fatalf("open log: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	host := term.NewHost(screen, *scale)
	launcher := effect.NewLauncher(host, store, cfg.RNG())
	launcher.Overrides = cfg.Overrides()
	var sched effect.Scheduler
	for _, name := range cfg.EffectNames() {
		e, err := launcher.Launch(name)
		if err != nil {
			log.Printf("[Main] %v", err)
			continue
		}
		sched.Add(e)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = term.Run(ctx, screen, host, &sched, term.Options{TPS: cfg.TPS, ExitWhenIdle: *exitIdle})
	if err != nil && !errors.Is(err, context.Canceled) {
		screen.Fini()
		log.SetOutput(os.Stderr)
		log.Fatal(err)
	}
}
