//go:build ebiten

package ui

import (
	"fmt"
	"image/color"
	"math"

	"chooch-fx/internal/effect"
	"chooch-fx/internal/particle"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws optional debugging visuals on top of the running effects.
type Overlay struct {
	showVelocity bool
	showPoints   bool
	showStats    bool

	pixel *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay() *Overlay {
	o := &Overlay{showStats: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the overlay layers.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showVelocity = !o.showVelocity
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showPoints = !o.showPoints
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showStats = !o.showStats
	}
}

// Draw renders the enabled layers for every effect.
func (o *Overlay) Draw(screen *ebiten.Image, effects []*effect.Effect) {
	for _, e := range effects {
		particles := e.Field().Particles()
		if o.showVelocity {
			o.drawVelocities(screen, particles)
		}
		if o.showPoints {
			for i := range particles {
				p := &particles[i]
				if p.Expired() {
					continue
				}
				o.drawPoint(screen, p.X, p.Y, 2, color.RGBA{R: 255, G: 220, B: 120, A: 200})
			}
		}
	}
	if o.showStats {
		o.drawStats(screen, effects)
	}
}

func (o *Overlay) drawVelocities(screen *ebiten.Image, particles []particle.Particle) {
	const (
		lengthScale      = 6.0
		maxSpeedEstimate = 4.0
		calmThreshold    = 0.05
		headAngle        = math.Pi / 6
	)
	for i := range particles {
		p := &particles[i]
		if p.Expired() {
			continue
		}
		speed := p.Speed()
		if speed < calmThreshold {
			o.drawPoint(screen, p.X, p.Y, 1.5, color.RGBA{R: 90, G: 130, B: 170, A: 120})
			continue
		}
		normalized := clamp01(speed / maxSpeedEstimate)
		col := interpolateColor(normalized)
		tipX := p.X + p.VX*lengthScale
		tipY := p.Y + p.VY*lengthScale
		o.drawLine(screen, p.X, p.Y, tipX, tipY, 1, col)

		headLength := math.Min(speed*lengthScale*0.3, 5)
		angle := math.Atan2(p.VY, p.VX)
		o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle+headAngle)*headLength, tipY-math.Sin(angle+headAngle)*headLength, 1, col)
		o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle-headAngle)*headLength, tipY-math.Sin(angle-headAngle)*headLength, 1, col)
	}
}

func (o *Overlay) drawStats(screen *ebiten.Image, effects []*effect.Effect) {
	y := 4
	for _, e := range effects {
		st := e.State()
		line := fmt.Sprintf("%-14s %-10s frame %-5d live %-4d alpha %.2f", e.Name(), st.Phase, st.Frame, st.Live, st.SurfaceAlpha)
		ebitenutil.DebugPrintAt(screen, line, 4, y)
		y += 14
	}
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	if o.pixel == nil || size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func interpolateColor(t float64) color.RGBA {
	t = clamp01(t)
	r := uint8(math.Round(80 + 70*t))
	g := uint8(math.Round(170 + 70*t))
	b := uint8(math.Round(230 + 20*t))
	a := uint8(math.Round(150 + 90*t))
	return color.RGBA{R: r, G: g, B: b, A: a}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
