package render

import (
	"fmt"
	"strconv"
	"strings"

	"chooch-fx/internal/field"

	"github.com/lucasb-eyer/go-colorful"
)

// Stop is one colour stop of a radial gradient.
type Stop struct {
	Offset float64
	Color  colorful.Color
	Alpha  float64
}

// Gradient is an ordered list of stops from the blob centre (offset 0) to its edge
// (offset 1).
type Gradient []Stop

// ParseGradient converts serialized stops into a gradient.
func ParseGradient(specs []field.StopSpec) (Gradient, error) {
	g := make(Gradient, 0, len(specs))
	for i, s := range specs {
		c, err := colorful.Hex(s.Color)
		if err != nil {
			return nil, fmt.Errorf("stop %d: %w", i, err)
		}
		g = append(g, Stop{Offset: s.Offset, Color: c, Alpha: s.Alpha})
	}
	return g, nil
}

// At returns the interpolated colour and alpha at normalized radius t. Points past the
// edge are transparent.
func (g Gradient) At(t float64) (colorful.Color, float64) {
	if len(g) == 0 || t > 1 {
		return colorful.Color{}, 0
	}
	if t <= g[0].Offset {
		return g[0].Color, g[0].Alpha
	}
	for i := 1; i < len(g); i++ {
		hi := g[i]
		if t > hi.Offset {
			continue
		}
		lo := g[i-1]
		span := hi.Offset - lo.Offset
		if span <= 0 {
			return hi.Color, hi.Alpha
		}
		k := (t - lo.Offset) / span
		return lo.Color.BlendRgb(hi.Color, k), lo.Alpha + (hi.Alpha-lo.Alpha)*k
	}
	last := g[len(g)-1]
	return last.Color, last.Alpha
}

// Key identifies the gradient by its stops, so gradients compiled separately from the
// same palette share a key.
func (g Gradient) Key() string {
	var b strings.Builder
	for _, s := range g {
		b.WriteString(strconv.FormatFloat(s.Offset, 'g', -1, 64))
		b.WriteByte(' ')
		b.WriteString(s.Color.Clamped().Hex())
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(s.Alpha, 'g', -1, 64))
		b.WriteByte(';')
	}
	return b.String()
}

// Core returns the colour of the innermost stop.
func (g Gradient) Core() colorful.Color {
	if len(g) == 0 {
		return colorful.Color{}
	}
	return g[0].Color
}

func parseColor(hex string) (colorful.Color, error) {
	if hex == "" {
		return colorful.Color{}, nil
	}
	return colorful.Hex(hex)
}
