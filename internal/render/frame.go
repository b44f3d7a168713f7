// Package render turns a particle field into draw commands and paints them onto
// drawing surfaces.
package render

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// ClearMode selects how a surface is cleared at the start of a frame.
type ClearMode int

const (
	// ClearFull replaces the surface with the clear colour (transparent when Alpha is 0).
	ClearFull ClearMode = iota
	// ClearTrail fills the surface with a low-alpha overlay so motion leaves trails.
	ClearTrail
)

// Composite is the blend mode applied to a single blob.
type Composite int

const (
	CompositeSourceOver Composite = iota
	CompositeScreen
	CompositeLighter
)

// ParseComposite maps a preset composite name to its mode.
func ParseComposite(name string) (Composite, error) {
	switch name {
	case "", "source-over":
		return CompositeSourceOver, nil
	case "screen":
		return CompositeScreen, nil
	case "lighter":
		return CompositeLighter, nil
	default:
		return 0, fmt.Errorf("unknown composite %q", name)
	}
}

func (c Composite) String() string {
	switch c {
	case CompositeScreen:
		return "screen"
	case CompositeLighter:
		return "lighter"
	default:
		return "source-over"
	}
}

// Clear describes the first draw of a frame.
type Clear struct {
	Mode  ClearMode
	Color colorful.Color
	Alpha float64
}

// Blob is one particle drawn as a filled circle with a radial gradient. The blend mode
// travels with the blob so it cannot leak into later draws.
type Blob struct {
	X, Y      float64
	Radius    float64
	Opacity   float64
	Palette   int
	Gradient  Gradient
	Composite Composite
}

// Ring is the faint outline drawn around a blob for a wispy edge.
type Ring struct {
	X, Y   float64
	Radius float64
	Color  colorful.Color
	Alpha  float64
}

// Title is centred text faded in and out over a window of frames.
type Title struct {
	Text  string
	Color colorful.Color
	Glow  colorful.Color
	Alpha float64
}

// Frame is the ordered list of draw commands for one tick: clear, blobs, rings, title.
type Frame struct {
	Index int
	Clear Clear
	Blobs []Blob
	Rings []Ring
	Title *Title
}

// Reset empties the frame while keeping its buffers.
func (f *Frame) Reset() {
	f.Index = 0
	f.Clear = Clear{}
	f.Blobs = f.Blobs[:0]
	f.Rings = f.Rings[:0]
	f.Title = nil
}
