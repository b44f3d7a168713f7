package core

// Size describes the dimensions of a drawing surface in pixels.
type Size struct {
	W int
	H int
}

// Empty reports whether the size has no drawable area.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Center returns the midpoint of the surface.
func (s Size) Center() (float64, float64) {
	return float64(s.W) / 2, float64(s.H) / 2
}

// Wrap applies toroidal wrapping: a coordinate that leaves [0,W]x[0,H] reappears on
// the opposite edge.
func (s Size) Wrap(x, y float64) (float64, float64) {
	w, h := float64(s.W), float64(s.H)
	if x < 0 {
		x = w
	} else if x > w {
		x = 0
	}
	if y < 0 {
		y = h
	} else if y > h {
		y = 0
	}
	return x, y
}

// Contains reports whether (x, y) lies inside the closed surface rectangle.
func (s Size) Contains(x, y float64) bool {
	return x >= 0 && y >= 0 && x <= float64(s.W) && y <= float64(s.H)
}

// Range is a closed interval used for randomized per-particle properties.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Fixed returns a degenerate range that always yields v.
func Fixed(v float64) Range { return Range{Min: v, Max: v} }

// Normalize swaps the bounds when Max < Min.
func (r Range) Normalize() Range {
	if r.Max < r.Min {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}

// Sample draws a uniform value from the range.
func (r Range) Sample(rng *RNG) float64 {
	r = r.Normalize()
	if r.Max == r.Min || rng == nil {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}
