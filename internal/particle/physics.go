package particle

// Physics carries the per-variant constants of the update step.
type Physics struct {
	Noise       Turbulence
	Turbulence  float64
	TurbulenceX float64
	TurbulenceY float64
	// TimeScale converts frame numbers into noise time.
	TimeScale float64

	DriftX float64
	DriftY float64

	// Damping multiplies velocity every frame; values outside (0,1) disable it.
	Damping float64

	// GrowthDecay shrinks the growth increment once a particle reached MaxSize.
	GrowthDecay float64

	// Sway is the horizontal displacement amplitude driven by Phase/Curl.
	Sway float64

	FadeInFrames int
	FadeOutPower float64

	// EdgeFade is the width in pixels over which particles fade near the canvas
	// border. Zero disables the positional fade.
	EdgeFade float64
}

// Time converts a frame number into the time argument of the noise function.
func (ph *Physics) Time(frame int) float64 {
	if ph.TimeScale == 0 {
		return float64(frame)
	}
	return float64(frame) * ph.TimeScale
}
