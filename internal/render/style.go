package render

import (
	"fmt"
	"math"

	"chooch-fx/internal/field"

	"github.com/lucasb-eyer/go-colorful"
)

const defaultThreshold = 0.01

// Style is a preset's render settings with colours parsed once.
type Style struct {
	Clear         ClearMode
	ClearColor    colorful.Color
	TrailAlpha    float64
	BackdropAlpha float64
	BackdropFade  bool
	Composite     Composite
	Threshold     float64

	RingScale float64
	RingAlpha float64
	RingColor colorful.Color

	Palettes []Gradient

	Title      string
	TitleFrom  int
	TitleTo    int
	TitleColor colorful.Color
	TitleGlow  colorful.Color

	TotalFrames int
	Layer       Layer
}

// Compile parses the render section of a preset.
func Compile(p *field.Preset) (*Style, error) {
	r := p.Render
	s := &Style{
		TrailAlpha:    r.TrailAlpha,
		BackdropAlpha: r.BackdropAlpha,
		BackdropFade:  r.BackdropFade,
		Threshold:     r.Threshold,
		RingScale:     r.RingScale,
		RingAlpha:     r.RingAlpha,
		Title:         p.Title.Text,
		TitleFrom:     p.Title.From,
		TitleTo:       p.Title.To,
		TotalFrames:   p.TotalFrames,
	}
	if s.Threshold <= 0 {
		s.Threshold = defaultThreshold
	}
	switch r.Clear {
	case "trail":
		s.Clear = ClearTrail
	case "", "full":
		s.Clear = ClearFull
	default:
		return nil, fmt.Errorf("preset %q: unknown clear policy %q", p.Name, r.Clear)
	}

	var err error
	if s.Composite, err = ParseComposite(r.Composite); err != nil {
		return nil, fmt.Errorf("preset %q: %w", p.Name, err)
	}
	if s.ClearColor, err = parseColor(r.ClearColor); err != nil {
		return nil, fmt.Errorf("preset %q: clear colour: %w", p.Name, err)
	}
	if s.RingColor, err = parseColor(r.RingColor); err != nil {
		return nil, fmt.Errorf("preset %q: ring colour: %w", p.Name, err)
	}
	if s.TitleColor, err = parseColor(p.Title.Color); err != nil {
		return nil, fmt.Errorf("preset %q: title colour: %w", p.Name, err)
	}
	if s.TitleGlow, err = parseColor(p.Title.Glow); err != nil {
		return nil, fmt.Errorf("preset %q: title glow: %w", p.Name, err)
	}
	for i, stops := range r.Palettes {
		g, err := ParseGradient(stops)
		if err != nil {
			return nil, fmt.Errorf("preset %q: palette %d: %w", p.Name, i, err)
		}
		s.Palettes = append(s.Palettes, g)
	}
	if len(s.Palettes) == 0 {
		return nil, fmt.Errorf("preset %q: no palettes", p.Name)
	}

	bg, err := parseColor(p.Background)
	if err != nil {
		return nil, fmt.Errorf("preset %q: background: %w", p.Name, err)
	}
	opacity := p.SurfaceOpacity
	if opacity <= 0 {
		opacity = 1
	}
	s.Layer = Layer{
		Name:            p.Name,
		Z:               p.Layer,
		Background:      bg,
		BackgroundAlpha: p.BackgroundAlpha,
		Opacity:         opacity,
	}
	return s, nil
}

// Build fills out with the draw commands for the field's current frame. Particles at or
// below the opacity threshold are skipped.
func (s *Style) Build(f *field.Field, out *Frame) {
	out.Reset()
	frame := f.Frame()
	out.Index = frame
	out.Clear = s.clear(frame)

	for _, p := range f.Particles() {
		if p.Expired() || p.Opacity <= s.Threshold || p.Size <= 0 {
			continue
		}
		tint := p.Tint
		if tint < 0 || tint >= len(s.Palettes) {
			tint = 0
		}
		out.Blobs = append(out.Blobs, Blob{
			X:         p.X,
			Y:         p.Y,
			Radius:    p.Size,
			Opacity:   p.Opacity,
			Palette:   tint,
			Gradient:  s.Palettes[tint],
			Composite: s.Composite,
		})
		if s.RingAlpha > 0 && s.RingScale > 0 {
			out.Rings = append(out.Rings, Ring{
				X:      p.X,
				Y:      p.Y,
				Radius: p.Size * s.RingScale,
				Color:  s.RingColor,
				Alpha:  s.RingAlpha * p.Opacity,
			})
		}
	}
	out.Title = s.title(frame)
}

func (s *Style) clear(frame int) Clear {
	if s.Clear == ClearTrail {
		return Clear{Mode: ClearTrail, Color: s.ClearColor, Alpha: s.TrailAlpha}
	}
	alpha := s.BackdropAlpha
	if s.BackdropFade && s.TotalFrames > 0 {
		alpha *= math.Max(0, 1-float64(frame)/float64(s.TotalFrames))
	}
	return Clear{Mode: ClearFull, Color: s.ClearColor, Alpha: alpha}
}

// title applies a half-sine envelope over [TitleFrom, TitleTo].
func (s *Style) title(frame int) *Title {
	if s.Title == "" || s.TitleTo <= s.TitleFrom || frame < s.TitleFrom || frame > s.TitleTo {
		return nil
	}
	k := float64(frame-s.TitleFrom) / float64(s.TitleTo-s.TitleFrom)
	alpha := math.Sin(math.Pi * k)
	if alpha <= s.Threshold {
		return nil
	}
	return &Title{Text: s.Title, Color: s.TitleColor, Glow: s.TitleGlow, Alpha: alpha}
}
