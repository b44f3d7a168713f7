package field

// Phase is the lifecycle state of a particle field.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSeeding
	PhaseSustaining
	PhaseDraining
	PhaseRemoved
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSeeding:
		return "seeding"
	case PhaseSustaining:
		return "sustaining"
	case PhaseDraining:
		return "draining"
	case PhaseRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Running reports whether the field still advances on Tick.
func (p Phase) Running() bool {
	return p == PhaseSeeding || p == PhaseSustaining || p == PhaseDraining
}

// State is the per-tick summary returned by Tick.
type State struct {
	Phase   Phase
	Frame   int
	Live    int
	Spawned int
	Expired int
	Evicted int

	// SurfaceAlpha is the opacity multiplier for the drawing surface; it drops
	// from 1 to 0 while the field fades out after draining.
	SurfaceAlpha float64
}
