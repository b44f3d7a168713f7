//go:build !ebiten

package app

import (
	"fmt"

	"chooch-fx/internal/core"
	"chooch-fx/internal/effect"
)

// Host is a placeholder; the headless build has no window to draw into.
type Host struct{}

// NewHost returns a stub host.
func NewHost(core.Size) *Host { return &Host{} }

// Game is a placeholder that satisfies the API expected by the GUI build.
type Game struct{}

// New panics to indicate that the ebiten build tag is required for GUI support.
func New(*Host, *effect.Launcher, []string) *Game {
	panic("app.New requires building with the 'ebiten' tag")
}

// Update always reports that the GUI build tag is missing.
func (g *Game) Update() error {
	return fmt.Errorf("app.Game.Update requires building with the 'ebiten' tag")
}

// Draw is a no-op placeholder to satisfy the interface shape.
func (g *Game) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }
