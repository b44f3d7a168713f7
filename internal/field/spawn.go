package field

import (
	"math"

	"chooch-fx/internal/particle"
)

// spawn appends n particles built from spec. Burst spawns index the particles for
// radial fans and honour Prewarm.
func (f *Field) spawn(spec *SpawnSpec, n int, burst bool) int {
	if n <= 0 {
		return 0
	}
	for i := 0; i < n; i++ {
		f.particles = append(f.particles, f.newParticle(spec, i, n, burst))
	}
	return n
}

func (f *Field) newParticle(spec *SpawnSpec, index, count int, burst bool) particle.Particle {
	rng := f.rng
	x, y := f.origin(spec)

	var vx, vy float64
	if spec.Geometry == GeometryRadial {
		angle := 2 * math.Pi * float64(index) / float64(count)
		speed := spec.Speed.Sample(rng) + float64(index)*spec.SpeedStep
		vx, vy = math.Cos(angle)*speed, math.Sin(angle)*speed
	} else {
		vx, vy = spec.VX.Sample(rng), spec.VY.Sample(rng)
	}

	maxSize := spec.MaxSize.Sample(rng)
	size := math.Min(spec.Size.Sample(rng), maxSize)
	opacity := spec.Opacity.Sample(rng) + float64(index)*spec.OpacityStep
	opacity = math.Max(0, math.Min(1, opacity))

	maxAge := int(math.Round(spec.MaxAge.Sample(rng)))
	if maxAge < 1 {
		maxAge = 1
	}
	age := 0
	if burst && spec.Prewarm {
		age = rng.IntN(maxAge/2 + 1)
	}

	return particle.Particle{
		X:           x,
		Y:           y,
		VX:          vx,
		VY:          vy,
		Size:        size,
		MaxSize:     maxSize,
		Growth:      spec.Growth.Sample(rng),
		Age:         age,
		MaxAge:      maxAge,
		BaseOpacity: opacity,
		Opacity:     opacity,
		Phase:       spec.Phase.Sample(rng),
		Curl:        spec.Curl.Sample(rng),
		Tint:        rng.IntN(len(f.preset.Render.Palettes)),
	}
}

// origin picks the spawn position for the spec's geometry.
func (f *Field) origin(spec *SpawnSpec) (float64, float64) {
	rng := f.rng
	w, h := float64(f.size.W), float64(f.size.H)
	cx, cy := f.size.Center()
	switch spec.Geometry {
	case GeometryEdgeLeft:
		return spec.StartX + rng.Float64()*spec.Jitter, rng.Float64() * h
	case GeometryCenter, GeometryRadial:
		return cx + rng.Signed(spec.Spread), cy + rng.Signed(spec.Spread)
	case GeometryPoint:
		return f.pointerX + rng.Signed(spec.Jitter), f.pointerY + rng.Signed(spec.Jitter)
	default:
		return rng.Float64() * w, rng.Float64() * h
	}
}
