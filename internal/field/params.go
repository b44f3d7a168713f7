package field

import "chooch-fx/internal/core"

type presetParam struct {
	label   string
	step    float64
	min     float64
	max     float64
	integer bool
	get     func(p *Preset) float64
	set     func(p *Preset, v float64)
}

var presetParams = []struct {
	key string
	presetParam
}{
	{"burst", presetParam{"Burst", 10, 0, 2000, true,
		func(p *Preset) float64 { return float64(p.Burst) },
		func(p *Preset, v float64) { p.Burst = int(v) }}},
	{"target_count", presetParam{"Target count", 10, 0, 2000, true,
		func(p *Preset) float64 { return float64(p.TargetCount) },
		func(p *Preset, v float64) { p.TargetCount = int(v) }}},
	{"max_particles", presetParam{"Max particles", 10, 0, 4000, true,
		func(p *Preset) float64 { return float64(p.MaxParticles) },
		func(p *Preset, v float64) { p.MaxParticles = int(v) }}},
	{"total_frames", presetParam{"Total frames", 30, 0, 3600, true,
		func(p *Preset) float64 { return float64(p.TotalFrames) },
		func(p *Preset, v float64) { p.TotalFrames = int(v) }}},
	{"sustain_frames", presetParam{"Sustain frames", 30, 0, 3600, true,
		func(p *Preset) float64 { return float64(p.SustainFrames) },
		func(p *Preset, v float64) { p.SustainFrames = int(v) }}},
	{"spawn_chance", presetParam{"Spawn chance", 0.05, 0, 1, false,
		func(p *Preset) float64 { return p.SpawnChance },
		func(p *Preset, v float64) { p.SpawnChance = v }}},
	{"turbulence", presetParam{"Turbulence", 0.1, 0, 5, false,
		func(p *Preset) float64 { return p.Physics.Strength },
		func(p *Preset, v float64) { p.Physics.Strength = v }}},
	{"drift_x", presetParam{"Drift X", 0.01, -1, 1, false,
		func(p *Preset) float64 { return p.Physics.DriftX },
		func(p *Preset, v float64) { p.Physics.DriftX = v }}},
	{"drift_y", presetParam{"Drift Y", 0.01, -1, 1, false,
		func(p *Preset) float64 { return p.Physics.DriftY },
		func(p *Preset, v float64) { p.Physics.DriftY = v }}},
	{"damping", presetParam{"Damping", 0.001, 0.9, 1, false,
		func(p *Preset) float64 { return p.Physics.Damping },
		func(p *Preset, v float64) { p.Physics.Damping = v }}},
	{"sway", presetParam{"Sway", 0.05, 0, 3, false,
		func(p *Preset) float64 { return p.Physics.Sway },
		func(p *Preset, v float64) { p.Physics.Sway = v }}},
	{"trail_alpha", presetParam{"Trail alpha", 0.01, 0, 1, false,
		func(p *Preset) float64 { return p.Render.TrailAlpha },
		func(p *Preset, v float64) { p.Render.TrailAlpha = v }}},
}

// Parameters lists the live-tunable values of the preset.
func (p *Preset) Parameters() []core.Parameter {
	out := make([]core.Parameter, 0, len(presetParams))
	for _, def := range presetParams {
		out = append(out, core.Parameter{
			Key:     def.key,
			Label:   def.label,
			Value:   def.get(p),
			Step:    def.step,
			Min:     def.min,
			Max:     def.max,
			Integer: def.integer,
		})
	}
	return out
}

// Set updates a tunable value, clamping it to the parameter bounds. It reports
// whether the key is known.
func (p *Preset) Set(key string, v float64) bool {
	for _, def := range presetParams {
		if def.key != key {
			continue
		}
		if v < def.min {
			v = def.min
		}
		if v > def.max {
			v = def.max
		}
		def.set(p, v)
		return true
	}
	return false
}
