package particle

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
)

// Turbulence returns a velocity perturbation in [-1, 1] per axis for a position and
// time. It only has to look organic; reproducibility is not required.
type Turbulence interface {
	Sample(x, y, t float64) (float64, float64)
}

// SinCos is the cheap trigonometric pseudo-noise used by all built-in presets.
type SinCos struct {
	K1 float64
	K2 float64
}

// Sample implements Turbulence.
func (s SinCos) Sample(x, y, t float64) (float64, float64) {
	return math.Cos(y*s.K2 + t), math.Sin(x*s.K1 + t)
}

// Perlin samples gradient noise through github.com/aquilax/go-perlin. Each axis reads
// a different slice of the 3D noise volume.
type Perlin struct {
	noise *perlin.Perlin
	scale float64
}

const perlinAxisOffset = 137.31

// NewPerlin builds a Perlin turbulence source. scale maps pixels into noise space.
func NewPerlin(seed int64, scale float64) *Perlin {
	if scale <= 0 {
		scale = 0.01
	}
	return &Perlin{noise: perlin.NewPerlin(2, 2, 3, seed), scale: scale}
}

// Sample implements Turbulence.
func (p *Perlin) Sample(x, y, t float64) (float64, float64) {
	sx, sy := x*p.scale, y*p.scale
	dx := p.noise.Noise3D(sx, sy, t)
	dy := p.noise.Noise3D(sx+perlinAxisOffset, sy, t)
	return clamp(dx*2, -1, 1), clamp(dy*2, -1, 1)
}

// NewTurbulence resolves a turbulence source by name. An empty name selects sincos.
func NewTurbulence(name string, k1, k2 float64, seed int64) (Turbulence, error) {
	switch name {
	case "", "sincos":
		return SinCos{K1: k1, K2: k2}, nil
	case "perlin":
		return NewPerlin(seed, k1), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown turbulence %q", name)
	}
}
