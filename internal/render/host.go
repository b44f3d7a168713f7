package render

import (
	"errors"
	"image"
	"sort"

	"chooch-fx/internal/core"

	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrUnsupported is returned by hosts that cannot provide a drawing surface. Callers
// skip the effect instead of failing.
var ErrUnsupported = errors.New("render: drawing surface unsupported")

// Layer describes a surface requested from a host.
type Layer struct {
	Name            string
	Z               int
	Background      colorful.Color
	BackgroundAlpha float64
	// Opacity is the resting opacity of the whole surface.
	Opacity float64
}

// Surface is a drawing target owned by exactly one effect.
type Surface interface {
	Size() core.Size
	Resize(size core.Size)
	Paint(frame *Frame)
	SetOpacity(alpha float64)
	Detach()
}

// Host provides viewport dimensions and drawing surfaces.
type Host interface {
	Viewport() core.Size
	Attach(layer Layer) (Surface, error)
}

// MemoryHost keeps rasters in memory. It backs headless runs and tests.
type MemoryHost struct {
	size     core.Size
	disabled bool
	surfaces []*Raster
	attached int
}

// NewMemoryHost returns a host whose viewport has the given size.
func NewMemoryHost(size core.Size) *MemoryHost {
	return &MemoryHost{size: size}
}

// Disable makes later Attach calls fail with ErrUnsupported.
func (h *MemoryHost) Disable() { h.disabled = true }

// Viewport implements Host.
func (h *MemoryHost) Viewport() core.Size { return h.size }

// SetViewport changes the viewport; callers resize effects separately.
func (h *MemoryHost) SetViewport(size core.Size) { h.size = size }

// Attach implements Host.
func (h *MemoryHost) Attach(layer Layer) (Surface, error) {
	if h.disabled || h.size.Empty() {
		return nil, ErrUnsupported
	}
	r := NewRaster(h.size, layer)
	h.surfaces = append(h.surfaces, r)
	h.attached++
	return r, nil
}

// Attached counts every surface ever created by the host.
func (h *MemoryHost) Attached() int { return h.attached }

// Surfaces lists the rasters that are still attached, ordered by layer.
func (h *MemoryHost) Surfaces() []*Raster {
	live := h.surfaces[:0]
	for _, r := range h.surfaces {
		if !r.Detached() {
			live = append(live, r)
		}
	}
	h.surfaces = live
	out := append([]*Raster(nil), live...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].layer.Z < out[j].layer.Z })
	return out
}

// Composite flattens the attached surfaces over opaque black.
func (h *MemoryHost) Composite() *image.RGBA {
	return Flatten(h.size, h.Surfaces())
}

// Flatten composites rasters in order over opaque black into an image of the given
// size. Rasters smaller than size leave the rest black.
func Flatten(size core.Size, rasters []*Raster) *image.RGBA {
	if size.Empty() {
		return image.NewRGBA(image.Rect(0, 0, max(0, size.W), max(0, size.H)))
	}
	pm := gg.NewPixmap(size.W, size.H)
	out := gg.NewContextForPixmap(pm)
	defer out.Close()
	out.ClearWithColor(gg.Black)
	for _, r := range rasters {
		r.compositeOnto(out)
	}
	return pm.ToImage()
}
