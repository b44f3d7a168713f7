// Package term draws effects in a terminal with tcell, two pixels per cell using the
// upper half block.
package term

import (
	"sort"

	"chooch-fx/internal/core"
	"chooch-fx/internal/render"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultScale is the number of viewport pixels per terminal pixel.
const DefaultScale = 8

const halfBlock = '▀'

// Screen is the part of tcell.Screen the host draws through.
type Screen interface {
	Size() (int, int)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Show()
}

// Host maps viewport pixels onto terminal cells. Surfaces paint at terminal
// resolution; the viewport reported to effects is scaled up so presets keep their
// pixel constants.
type Host struct {
	screen   Screen
	scale    float64
	surfaces []*surface
}

// NewHost wraps a screen. A non-positive scale selects DefaultScale.
func NewHost(screen Screen, scale int) *Host {
	if scale <= 0 {
		scale = DefaultScale
	}
	return &Host{screen: screen, scale: float64(scale)}
}

// Viewport implements render.Host.
func (h *Host) Viewport() core.Size {
	return h.fromPixels(h.pixels())
}

// Attach implements render.Host.
func (h *Host) Attach(layer render.Layer) (render.Surface, error) {
	px := h.pixels()
	if h.screen == nil || px.Empty() {
		return nil, render.ErrUnsupported
	}
	s := &surface{host: h, raster: render.NewRaster(px, layer)}
	h.surfaces = append(h.surfaces, s)
	return s, nil
}

// Live returns the number of attached surfaces.
func (h *Host) Live() int {
	h.prune()
	return len(h.surfaces)
}

// Draw composites every surface onto the screen and overlays the titles.
func (h *Host) Draw(titles []*render.Title) {
	h.prune()
	cols, rows := h.screen.Size()
	rasters := make([]*render.Raster, 0, len(h.surfaces))
	for _, s := range h.surfaces {
		rasters = append(rasters, s.raster)
	}
	sort.SliceStable(rasters, func(i, j int) bool { return rasters[i].Layer().Z < rasters[j].Layer().Z })

	img := render.Flatten(core.Size{W: cols, H: rows * 2}, rasters)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := img.RGBAAt(x, y*2)
			bottom := img.RGBAAt(x, y*2+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			h.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
	row := rows / 2
	for _, t := range titles {
		if t == nil {
			continue
		}
		h.drawTitle(t, row, cols)
		row++
	}
	h.screen.Show()
}

func (h *Host) drawTitle(t *render.Title, row, cols int) {
	runes := []rune(t.Text)
	x := (cols - len(runes)) / 2
	if x < 0 {
		x = 0
	}
	fg := colorful.Color{}.BlendRgb(t.Color, t.Alpha)
	bg := colorful.Color{}.BlendRgb(t.Glow, t.Alpha*0.3)
	fr, fgG, fb := fg.RGB255()
	br, bgG, bb := bg.RGB255()
	style := tcell.StyleDefault.Bold(true).
		Foreground(tcell.NewRGBColor(int32(fr), int32(fgG), int32(fb))).
		Background(tcell.NewRGBColor(int32(br), int32(bgG), int32(bb)))
	for i, r := range runes {
		if x+i >= cols {
			break
		}
		h.screen.SetContent(x+i, row, r, nil, style)
	}
}

func (h *Host) pixels() core.Size {
	if h.screen == nil {
		return core.Size{}
	}
	cols, rows := h.screen.Size()
	return core.Size{W: cols, H: rows * 2}
}

func (h *Host) fromPixels(px core.Size) core.Size {
	return core.Size{W: int(float64(px.W) * h.scale), H: int(float64(px.H) * h.scale)}
}

func (h *Host) prune() {
	live := h.surfaces[:0]
	for _, s := range h.surfaces {
		if !s.raster.Detached() {
			live = append(live, s)
		}
	}
	for i := len(live); i < len(h.surfaces); i++ {
		h.surfaces[i] = nil
	}
	h.surfaces = live
}

// surface scales viewport coordinates down to terminal pixels before painting.
type surface struct {
	host   *Host
	raster *render.Raster
	frame  render.Frame
}

func (s *surface) Size() core.Size { return s.host.fromPixels(s.raster.Size()) }

func (s *surface) Resize(size core.Size) {
	k := s.host.scale
	s.raster.Resize(core.Size{W: int(float64(size.W) / k), H: int(float64(size.H) / k)})
}

func (s *surface) Paint(frame *render.Frame) {
	k := 1 / s.host.scale
	s.frame.Reset()
	s.frame.Index = frame.Index
	s.frame.Clear = frame.Clear
	for _, b := range frame.Blobs {
		b.X, b.Y, b.Radius = b.X*k, b.Y*k, b.Radius*k
		s.frame.Blobs = append(s.frame.Blobs, b)
	}
	for _, r := range frame.Rings {
		r.X, r.Y, r.Radius = r.X*k, r.Y*k, r.Radius*k
		s.frame.Rings = append(s.frame.Rings, r)
	}
	s.raster.Paint(&s.frame)
}

func (s *surface) SetOpacity(alpha float64) { s.raster.SetOpacity(alpha) }

func (s *surface) Detach() { s.raster.Detach() }
