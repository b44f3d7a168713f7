package field

import (
	"errors"
	"fmt"

	"chooch-fx/internal/core"
	"chooch-fx/internal/particle"

	"github.com/lucasb-eyer/go-colorful"
)

// Kind classifies how an effect is triggered and how long it runs.
type Kind string

const (
	// KindEntrance runs once per session for a bounded number of frames.
	KindEntrance Kind = "entrance"
	// KindAmbient runs indefinitely in the background.
	KindAmbient Kind = "ambient"
	// KindTrail runs indefinitely and spawns only where the pointer moves.
	KindTrail Kind = "trail"
)

// Geometry names where new particles appear.
type Geometry string

const (
	GeometryScatter  Geometry = "scatter"
	GeometryEdgeLeft Geometry = "edge-left"
	GeometryCenter   Geometry = "center"
	GeometryRadial   Geometry = "radial"
	GeometryPoint    Geometry = "point"
)

// Preset is one parameterized particle effect. Every variant of the site (smoke
// reveal, vapor cloud, vape entrance, ambient dust, pointer trail) is a Preset.
type Preset struct {
	Name string `yaml:"-"`
	Kind Kind   `yaml:"kind"`

	// SessionKey gates entrance effects to once per session. Empty means ungated.
	SessionKey string `yaml:"sessionKey"`
	Resizable  bool   `yaml:"resizable"`
	Layer      int    `yaml:"layer"`

	Background      string  `yaml:"background"`
	BackgroundAlpha float64 `yaml:"backgroundAlpha"`
	SurfaceOpacity  float64 `yaml:"surfaceOpacity"`

	TotalFrames   int `yaml:"totalFrames"`
	SustainFrames int `yaml:"sustainFrames"`
	DrainDelay    int `yaml:"drainDelay"`
	FadeFrames    int `yaml:"fadeFrames"`

	Burst        int        `yaml:"burst"`
	TargetCount  int        `yaml:"targetCount"`
	MaxParticles int        `yaml:"maxParticles"`
	SpawnEvery   int        `yaml:"spawnEvery"`
	SpawnChance  float64    `yaml:"spawnChance"`
	SpawnCount   core.Range `yaml:"spawnCount"`

	Seed    SpawnSpec `yaml:"seed"`
	Sustain SpawnSpec `yaml:"sustain"`

	Physics PhysicsSpec `yaml:"physics"`
	Render  RenderSpec  `yaml:"render"`
	Title   TitleSpec   `yaml:"title"`
}

// SpawnSpec describes the initial state of newly created particles.
type SpawnSpec struct {
	Geometry Geometry `yaml:"geometry"`
	StartX   float64  `yaml:"startX"`
	Jitter   float64  `yaml:"jitter"`
	Spread   float64  `yaml:"spread"`

	VX    core.Range `yaml:"vx"`
	VY    core.Range `yaml:"vy"`
	Speed core.Range `yaml:"speed"`
	// SpeedStep and OpacityStep are added per burst index, fanning out radial bursts.
	SpeedStep   float64 `yaml:"speedStep"`
	OpacityStep float64 `yaml:"opacityStep"`

	Size    core.Range `yaml:"size"`
	MaxSize core.Range `yaml:"maxSize"`
	Growth  core.Range `yaml:"growth"`
	Opacity core.Range `yaml:"opacity"`
	MaxAge  core.Range `yaml:"maxAge"`
	Phase   core.Range `yaml:"phase"`
	Curl    core.Range `yaml:"curl"`

	// Prewarm starts particles at a random age so an ambient field does not expire
	// all at once.
	Prewarm bool `yaml:"prewarm"`
}

// PhysicsSpec is the serialized form of particle.Physics.
type PhysicsSpec struct {
	Turbulence  string  `yaml:"turbulence"`
	K1          float64 `yaml:"k1"`
	K2          float64 `yaml:"k2"`
	Strength    float64 `yaml:"strength"`
	StrengthX   float64 `yaml:"strengthX"`
	StrengthY   float64 `yaml:"strengthY"`
	TimeScale   float64 `yaml:"timeScale"`
	DriftX      float64 `yaml:"driftX"`
	DriftY      float64 `yaml:"driftY"`
	Damping     float64 `yaml:"damping"`
	GrowthDecay float64 `yaml:"growthDecay"`
	Sway        float64 `yaml:"sway"`
	FadeIn      int     `yaml:"fadeInFrames"`
	FadeOut     float64 `yaml:"fadeOutPower"`
	EdgeFade    float64 `yaml:"edgeFade"`
	Wrap        bool    `yaml:"wrap"`
}

// RenderSpec describes how live particles are drawn.
type RenderSpec struct {
	Clear         string  `yaml:"clear"`
	ClearColor    string  `yaml:"clearColor"`
	TrailAlpha    float64 `yaml:"trailAlpha"`
	BackdropAlpha float64 `yaml:"backdropAlpha"`
	BackdropFade  bool    `yaml:"backdropFade"`
	Composite     string  `yaml:"composite"`
	Threshold     float64 `yaml:"threshold"`

	RingScale float64 `yaml:"ringScale"`
	RingAlpha float64 `yaml:"ringAlpha"`
	RingColor string  `yaml:"ringColor"`

	Palettes [][]StopSpec `yaml:"palettes"`
}

// StopSpec is one colour stop of a radial gradient.
type StopSpec struct {
	Offset float64 `yaml:"offset"`
	Color  string  `yaml:"color"`
	Alpha  float64 `yaml:"alpha"`
}

// TitleSpec is optional text faded in and out over a frame window.
type TitleSpec struct {
	Text  string `yaml:"text"`
	From  int    `yaml:"from"`
	To    int    `yaml:"to"`
	Color string `yaml:"color"`
	Glow  string `yaml:"glow"`
}

// Finite reports whether the effect has a frame budget.
func (p *Preset) Finite() bool { return p.TotalFrames > 0 }

// SustainSpec returns the spawn spec used after the initial burst.
func (p *Preset) SustainSpec() *SpawnSpec {
	if p.Sustain.Geometry == "" {
		return &p.Seed
	}
	return &p.Sustain
}

// BuildPhysics converts the serialized physics into the update-step parameters.
func (p *Preset) BuildPhysics(seed int64) (*particle.Physics, error) {
	spec := p.Physics
	noise, err := particle.NewTurbulence(spec.Turbulence, spec.K1, spec.K2, seed)
	if err != nil {
		return nil, err
	}
	strengthX, strengthY := spec.StrengthX, spec.StrengthY
	if strengthX == 0 && strengthY == 0 {
		strengthX, strengthY = 1, 1
	}
	return &particle.Physics{
		Noise:        noise,
		Turbulence:   spec.Strength,
		TurbulenceX:  strengthX,
		TurbulenceY:  strengthY,
		TimeScale:    spec.TimeScale,
		DriftX:       spec.DriftX,
		DriftY:       spec.DriftY,
		Damping:      spec.Damping,
		GrowthDecay:  spec.GrowthDecay,
		Sway:         spec.Sway,
		FadeInFrames: spec.FadeIn,
		FadeOutPower: spec.FadeOut,
		EdgeFade:     spec.EdgeFade,
	}, nil
}

// Validate checks the preset for values the simulator cannot run with.
func (p *Preset) Validate() error {
	var errs []error
	switch p.Kind {
	case KindEntrance, KindAmbient, KindTrail:
	default:
		errs = append(errs, fmt.Errorf("unknown kind %q", p.Kind))
	}
	if p.TotalFrames < 0 {
		errs = append(errs, errors.New("totalFrames must not be negative"))
	}
	if p.Kind == KindEntrance && !p.Finite() {
		errs = append(errs, errors.New("entrance effects need a positive totalFrames"))
	}
	if p.Finite() && p.SustainFrames > p.TotalFrames {
		errs = append(errs, fmt.Errorf("sustainFrames %d exceeds totalFrames %d", p.SustainFrames, p.TotalFrames))
	}
	if p.SpawnChance < 0 || p.SpawnChance > 1 {
		errs = append(errs, fmt.Errorf("spawnChance %.2f outside [0,1]", p.SpawnChance))
	}
	if p.Burst < 0 || p.TargetCount < 0 || p.MaxParticles < 0 {
		errs = append(errs, errors.New("particle counts must not be negative"))
	}
	if err := p.Seed.validate("seed"); err != nil {
		errs = append(errs, err)
	}
	if p.Sustain.Geometry != "" {
		if err := p.Sustain.validate("sustain"); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := particle.NewTurbulence(p.Physics.Turbulence, 0, 0, 0); err != nil {
		errs = append(errs, err)
	}
	if err := p.Render.validate(); err != nil {
		errs = append(errs, err)
	}
	if p.Background != "" {
		if _, err := colorful.Hex(p.Background); err != nil {
			errs = append(errs, fmt.Errorf("background: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("preset %q: %w", p.Name, err)
	}
	return nil
}

func (s *SpawnSpec) validate(field string) error {
	switch s.Geometry {
	case GeometryScatter, GeometryEdgeLeft, GeometryCenter, GeometryRadial, GeometryPoint:
	default:
		return fmt.Errorf("%s: unknown geometry %q", field, s.Geometry)
	}
	if s.MaxAge.Normalize().Min < 1 {
		return fmt.Errorf("%s: maxAge must be at least 1 frame", field)
	}
	if s.Size.Min < 0 || s.MaxSize.Min < 0 || s.Growth.Min < 0 {
		return fmt.Errorf("%s: sizes and growth must not be negative", field)
	}
	return nil
}

func (r *RenderSpec) validate() error {
	switch r.Clear {
	case "full", "trail":
	default:
		return fmt.Errorf("unknown clear policy %q", r.Clear)
	}
	switch r.Composite {
	case "screen", "lighter", "source-over":
	default:
		return fmt.Errorf("unknown composite %q", r.Composite)
	}
	if len(r.Palettes) == 0 {
		return errors.New("at least one palette is required")
	}
	for i, stops := range r.Palettes {
		if len(stops) < 3 || len(stops) > 6 {
			return fmt.Errorf("palette %d: need 3-6 stops, got %d", i, len(stops))
		}
		last := -1.0
		for _, s := range stops {
			if s.Offset < last || s.Offset < 0 || s.Offset > 1 {
				return fmt.Errorf("palette %d: stop offsets must ascend within [0,1]", i)
			}
			last = s.Offset
			if _, err := colorful.Hex(s.Color); err != nil {
				return fmt.Errorf("palette %d: %w", i, err)
			}
		}
	}
	for _, c := range []string{r.ClearColor, r.RingColor} {
		if c == "" {
			continue
		}
		if _, err := colorful.Hex(c); err != nil {
			return err
		}
	}
	return nil
}
