//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"chooch-fx/internal/app"
	"chooch-fx/internal/effect"
	"chooch-fx/internal/session"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if err := cfg.LoadPresets(); err != nil {
		log.Fatalf("presets: %v", err)
	}
	store, err := cfg.OpenStore()
	if err != nil {
		log.Printf("[Main] warning: %v, falling back to memory store", err)
		store = session.NewMemory()
	}

	size := cfg.Size()
	host := app.NewHost(size)
	launcher := effect.NewLauncher(host, store, cfg.RNG())
	launcher.Overrides = cfg.Overrides()
	game := app.New(host, launcher, cfg.EffectNames())

	ebiten.SetWindowTitle("chooch-fx")
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W, size.H)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
