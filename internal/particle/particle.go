// Package particle holds the particle value type and its per-frame update step.
package particle

import (
	"math"

	"chooch-fx/internal/core"
)

// Particle is a single simulated puff. It has no identity beyond its slot in a field.
type Particle struct {
	X, Y   float64
	VX, VY float64

	Size    float64
	MaxSize float64
	Growth  float64

	Age    int
	MaxAge int

	BaseOpacity float64
	Opacity     float64

	// Phase and Curl decorrelate the sway of particles sharing the same formula.
	Phase float64
	Curl  float64

	Tint int
}

// Expired reports whether the particle outlived its lifetime.
func (p *Particle) Expired() bool { return p.Age > p.MaxAge }

// Speed returns the magnitude of the current velocity.
func (p *Particle) Speed() float64 { return math.Hypot(p.VX, p.VY) }

// Step advances the particle by one frame. t is the global simulation time derived
// from the frame number; bounds are the canvas dimensions used by positional fades.
// Expired particles are left untouched.
func (p *Particle) Step(ph *Physics, t float64, bounds core.Size) {
	if p.Expired() {
		return
	}

	p.X += p.VX
	p.Y += p.VY

	if ph.Sway != 0 {
		p.Phase += p.Curl
		p.X += math.Sin(p.Phase) * ph.Sway
	}

	if ph.Turbulence > 0 && ph.Noise != nil {
		nx, ny := ph.Noise.Sample(p.X, p.Y, t)
		p.VX += nx * ph.Turbulence * ph.TurbulenceX
		p.VY += ny * ph.Turbulence * ph.TurbulenceY
	}

	p.VX += ph.DriftX
	p.VY += ph.DriftY

	if ph.Damping > 0 && ph.Damping < 1 {
		p.VX *= ph.Damping
		p.VY *= ph.Damping
	}

	p.grow(ph.GrowthDecay)

	opacity := p.BaseOpacity * FadeIn(p.Age, ph.FadeInFrames) * FadeOut(p.Age, p.MaxAge, ph.FadeOutPower)
	if ph.EdgeFade > 0 {
		opacity *= EdgeFade(p.X, p.Y, bounds, ph.EdgeFade)
	}
	p.Opacity = clamp(opacity, 0, p.BaseOpacity)

	p.Age++
}

func (p *Particle) grow(decay float64) {
	if p.Growth < 0 {
		p.Growth = 0
	}
	if p.Size < p.MaxSize {
		p.Size = math.Min(p.Size+p.Growth, p.MaxSize)
		return
	}
	if decay > 0 && decay < 1 {
		p.Growth *= decay
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
