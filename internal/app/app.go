//go:build ebiten

package app

import (
	"log"

	"chooch-fx/internal/core"
	"chooch-fx/internal/effect"
	"chooch-fx/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	hudWidth  = 240
	trailRate = 2
)

// Game adapts a set of running effects to the ebiten.Game interface.
type Game struct {
	host     *Host
	launcher *effect.Launcher
	sched    effect.Scheduler
	names    []string

	overlay *ui.Overlay
	hud     *ui.HUD
	showHUD bool

	paused   bool
	tickOnce bool
	selected int

	lastX, lastY int
}

// New constructs a Game and launches the named effects.
func New(host *Host, launcher *effect.Launcher, names []string) *Game {
	g := &Game{
		host:     host,
		launcher: launcher,
		names:    names,
		overlay:  ui.NewOverlay(),
		hud:      ui.NewHUD(hudWidth),
	}
	g.launchAll()
	return g
}

func (g *Game) launchAll() {
	for _, name := range g.names {
		e, err := g.launcher.Launch(name)
		if err != nil {
			log.Printf("[Game] %v", err)
			continue
		}
		g.sched.Add(e)
	}
}

// Update handles per-frame logic and advances the effects.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sched.Stop()
		g.launchAll()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) && g.sched.Len() > 0 {
		g.selected = (g.selected + 1) % g.sched.Len()
	}

	x, y := ebiten.CursorPosition()
	if x != g.lastX || y != g.lastY {
		g.sched.Emit(float64(x), float64(y), trailRate)
		g.lastX, g.lastY = x, y
	}

	g.overlay.Update()
	if g.showHUD {
		g.hud.Update(g.selectedEffect(), g.host.Viewport().W-hudWidth)
	}

	if !g.paused || g.tickOnce {
		g.sched.Step()
		g.tickOnce = false
	}
	return nil
}

func (g *Game) selectedEffect() core.Tunable {
	effects := g.sched.Effects()
	if len(effects) == 0 {
		return nil
	}
	if g.selected >= len(effects) {
		g.selected = 0
	}
	return effects[g.selected]
}

// Draw renders every live surface, then the debug layers.
func (g *Game) Draw(screen *ebiten.Image) {
	g.host.Draw(screen)
	g.overlay.Draw(screen, g.sched.Effects())
	if g.showHUD {
		name := ""
		if effects := g.sched.Effects(); len(effects) > 0 && g.selected < len(effects) {
			name = effects[g.selected].Name()
		}
		g.hud.Draw(screen, name, g.host.Viewport().W-hudWidth)
	}
}

// Layout follows the window size so resizable effects fill it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := core.Size{W: outsideWidth, H: outsideHeight}
	if size != g.host.Viewport() && !size.Empty() {
		g.host.SetViewport(size)
		g.sched.Resize(size)
	}
	return outsideWidth, outsideHeight
}
