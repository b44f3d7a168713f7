// Package field implements the particle field simulator: a bounded, ordered
// collection of particles advanced one frame per Tick through the
// Idle → Seeding → Sustaining → Draining → Removed lifecycle.
package field

import (
	"chooch-fx/internal/core"
	"chooch-fx/internal/particle"
)

// Field owns the particle collection of one effect run. It is not safe for
// concurrent use; the host drives it from a single frame callback.
type Field struct {
	preset    Preset
	physics   *particle.Physics
	noiseSeed int64
	size      core.Size
	rng       *core.RNG

	particles []particle.Particle

	frame      int
	phase      Phase
	drainStart int
	fadeLeft   int
	alpha      float64

	pointerX, pointerY float64
}

// New validates the preset and returns an idle field for a canvas of the given
// size. A nil rng selects an unseeded source.
func New(p Preset, size core.Size, rng *core.RNG) (*Field, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = core.NewUnseeded()
	}
	seed := rng.Int64()
	physics, err := p.BuildPhysics(seed)
	if err != nil {
		return nil, err
	}
	cx, cy := size.Center()
	return &Field{
		preset:    p,
		physics:   physics,
		noiseSeed: seed,
		size:      size,
		rng:       rng,
		fadeLeft:  -1,
		alpha:     1,
		pointerX:  cx,
		pointerY:  cy,
	}, nil
}

// Preset exposes the field's private copy of its preset.
func (f *Field) Preset() *Preset { return &f.preset }

// Size returns the canvas dimensions.
func (f *Field) Size() core.Size { return f.size }

// Frame returns the number of ticks processed since Start.
func (f *Field) Frame() int { return f.frame }

// Phase returns the lifecycle state.
func (f *Field) Phase() Phase { return f.phase }

// Particles exposes the live particles in insertion order. Callers must not retain
// or modify the slice across ticks.
func (f *Field) Particles() []particle.Particle { return f.particles }

// Live returns the number of live particles.
func (f *Field) Live() int { return len(f.particles) }

// SurfaceAlpha returns the drawing surface opacity multiplier.
func (f *Field) SurfaceAlpha() float64 { return f.alpha }

// Start moves an idle field to Seeding and spawns the initial burst.
func (f *Field) Start() State {
	if f.phase != PhaseIdle {
		return f.snapshot(State{})
	}
	f.phase = PhaseSeeding
	st := State{Spawned: f.spawn(&f.preset.Seed, f.preset.Burst, true)}
	st.Evicted = f.enforceCap()
	return f.snapshot(st)
}

// Tick advances the field by one frame: lifecycle transitions, spawning, the particle
// update step and culling of expired particles. It is a no-op unless the field is
// running.
func (f *Field) Tick() State {
	var st State
	if !f.phase.Running() {
		return f.snapshot(st)
	}
	if f.phase == PhaseSeeding {
		f.phase = PhaseSustaining
	}
	if f.phase == PhaseSustaining && f.preset.Finite() && f.frame >= f.preset.TotalFrames {
		f.phase = PhaseDraining
		f.drainStart = f.frame
	}
	if f.phase == PhaseSustaining {
		st.Spawned = f.sustain()
		st.Evicted = f.enforceCap()
	}
	st.Expired = f.step()
	if f.phase == PhaseDraining {
		f.drain()
	}
	f.frame++
	return f.snapshot(st)
}

// Emit spawns n particles around (x, y), used by pointer-driven presets. Fields that
// stopped spawning ignore it.
func (f *Field) Emit(x, y float64, n int) int {
	if f.phase != PhaseSeeding && f.phase != PhaseSustaining {
		return 0
	}
	f.pointerX, f.pointerY = x, y
	spec := *f.preset.SustainSpec()
	spec.Geometry = GeometryPoint
	spawned := f.spawn(&spec, n, false)
	f.enforceCap()
	return spawned
}

// Resize updates the canvas dimensions of resizable presets. It reports whether the
// new size was applied.
func (f *Field) Resize(size core.Size) bool {
	if !f.preset.Resizable || size.Empty() {
		return false
	}
	f.size = size
	return true
}

// Parameters implements core.Tunable.
func (f *Field) Parameters() []core.Parameter { return f.preset.Parameters() }

// SetParameter implements core.Tunable. A value that leaves the preset invalid, such
// as an entrance without a frame budget, is rejected and the preset is left unchanged.
func (f *Field) SetParameter(key string, value float64) bool {
	old := f.preset
	if !f.preset.Set(key, value) {
		return false
	}
	if err := f.preset.Validate(); err != nil {
		f.preset = old
		return false
	}
	physics, err := f.preset.BuildPhysics(f.noiseSeed)
	if err != nil {
		f.preset = old
		return false
	}
	f.physics = physics
	return true
}

func (f *Field) sustain() int {
	p := &f.preset
	if p.Finite() && f.frame >= p.TotalFrames {
		return 0
	}
	spawned := 0
	spec := p.SustainSpec()
	if p.TargetCount > 0 && len(f.particles) < p.TargetCount {
		spawned += f.spawn(spec, p.TargetCount-len(f.particles), false)
	}
	inWindow := !p.Finite() || f.frame < p.SustainFrames
	if inWindow && p.SpawnChance > 0 {
		every := p.SpawnEvery
		if every <= 0 {
			every = 1
		}
		if f.frame%every == 0 && f.rng.Chance(p.SpawnChance) {
			n := int(p.SpawnCount.Sample(f.rng) + 0.5)
			if n < 1 {
				n = 1
			}
			spawned += f.spawn(spec, n, false)
		}
	}
	return spawned
}

func (f *Field) step() int {
	t := f.physics.Time(f.frame)
	wrap := f.preset.Physics.Wrap
	expired := 0
	alive := f.particles[:0]
	for i := range f.particles {
		p := f.particles[i]
		p.Step(f.physics, t, f.size)
		if p.Expired() {
			expired++
			continue
		}
		if wrap {
			p.X, p.Y = f.size.Wrap(p.X, p.Y)
		}
		alive = append(alive, p)
	}
	f.particles = alive
	return expired
}

// drain waits for the particles to age out (bounded by DrainDelay), then fades the
// surface over FadeFrames before removing the field.
func (f *Field) drain() {
	if f.fadeLeft < 0 {
		if len(f.particles) > 0 && f.frame-f.drainStart < f.preset.DrainDelay {
			return
		}
		f.fadeLeft = f.preset.FadeFrames
		if f.fadeLeft < 0 {
			f.fadeLeft = 0
		}
	}
	if f.fadeLeft == 0 {
		f.phase = PhaseRemoved
		f.alpha = 0
		f.particles = nil
		return
	}
	f.fadeLeft--
	f.alpha = float64(f.fadeLeft) / float64(f.preset.FadeFrames)
}

// enforceCap evicts the oldest particles beyond MaxParticles.
func (f *Field) enforceCap() int {
	max := f.preset.MaxParticles
	if max <= 0 || len(f.particles) <= max {
		return 0
	}
	drop := len(f.particles) - max
	n := copy(f.particles, f.particles[drop:])
	f.particles = f.particles[:n]
	return drop
}

func (f *Field) snapshot(st State) State {
	st.Phase = f.phase
	st.Frame = f.frame
	st.Live = len(f.particles)
	st.SurfaceAlpha = f.alpha
	return st
}
