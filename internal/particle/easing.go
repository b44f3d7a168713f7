package particle

import (
	"math"

	"chooch-fx/internal/core"
)

// FadeIn ramps from 0 to 1 over the first window frames. A non-positive window
// disables the ramp.
func FadeIn(age, window int) float64 {
	if window <= 0 {
		return 1
	}
	return math.Min(1, float64(age)/float64(window))
}

// FadeOut is 1-(age/maxAge)^power: near flat early, dropping sharply at end of life.
func FadeOut(age, maxAge int, power float64) float64 {
	if maxAge <= 0 {
		return 0
	}
	if power <= 0 {
		power = 2
	}
	ratio := float64(age) / float64(maxAge)
	if ratio >= 1 {
		return 0
	}
	if ratio <= 0 {
		return 1
	}
	return 1 - math.Pow(ratio, power)
}

// EdgeFade scales towards zero as (x, y) approaches a canvas border closer than margin.
func EdgeFade(x, y float64, bounds core.Size, margin float64) float64 {
	if margin <= 0 || bounds.Empty() {
		return 1
	}
	d := math.Min(math.Min(x, float64(bounds.W)-x), math.Min(y, float64(bounds.H)-y))
	return clamp(d/margin, 0, 1)
}
