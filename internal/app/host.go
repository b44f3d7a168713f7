//go:build ebiten

package app

import (
	"image/color"
	"sort"

	"chooch-fx/internal/core"
	"chooch-fx/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/basicfont"
)

// blendScreen is the screen operator on premultiplied colours:
// dst = src + dst*(1-src).
var blendScreen = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorOne,
	BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

func blendFor(c render.Composite) ebiten.Blend {
	switch c {
	case render.CompositeScreen:
		return blendScreen
	case render.CompositeLighter:
		return ebiten.BlendLighter
	default:
		return ebiten.BlendSourceOver
	}
}

// Host gives every effect its own offscreen image and stacks them by layer.
type Host struct {
	size     core.Size
	surfaces []*surface
	pixel    *ebiten.Image
	sprites  *spriteCache
}

// NewHost constructs a host for a window of the given size.
func NewHost(size core.Size) *Host {
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	return &Host{size: size, pixel: pixel, sprites: newSpriteCache()}
}

// Viewport implements render.Host.
func (h *Host) Viewport() core.Size { return h.size }

// SetViewport records a new window size; effects are resized by the scheduler.
func (h *Host) SetViewport(size core.Size) { h.size = size }

// Attach implements render.Host.
func (h *Host) Attach(layer render.Layer) (render.Surface, error) {
	if h.size.Empty() {
		return nil, render.ErrUnsupported
	}
	s := &surface{host: h, layer: layer, opacity: layer.Opacity}
	s.Resize(h.size)
	h.surfaces = append(h.surfaces, s)
	sort.SliceStable(h.surfaces, func(i, j int) bool { return h.surfaces[i].layer.Z < h.surfaces[j].layer.Z })
	return s, nil
}

// Draw stacks the live surfaces onto the screen.
func (h *Host) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	live := h.surfaces[:0]
	for _, s := range h.surfaces {
		if s.img == nil {
			continue
		}
		live = append(live, s)
		s.drawTo(screen)
	}
	h.surfaces = live
}

type surface struct {
	host    *Host
	layer   render.Layer
	img     *ebiten.Image
	opacity float64
}

func (s *surface) Size() core.Size {
	if s.img == nil {
		return core.Size{}
	}
	b := s.img.Bounds()
	return core.Size{W: b.Dx(), H: b.Dy()}
}

func (s *surface) Resize(size core.Size) {
	if size.Empty() {
		return
	}
	if s.img != nil {
		s.img.Deallocate()
	}
	s.img = ebiten.NewImage(size.W, size.H)
}

func (s *surface) SetOpacity(alpha float64) { s.opacity = alpha }

func (s *surface) Detach() {
	if s.img == nil {
		return
	}
	s.img.Deallocate()
	s.img = nil
}

func (s *surface) Paint(frame *render.Frame) {
	if s.img == nil {
		return
	}
	s.clear(frame.Clear)
	for i := range frame.Blobs {
		s.drawBlob(&frame.Blobs[i])
	}
	for _, ring := range frame.Rings {
		vector.StrokeCircle(s.img, float32(ring.X), float32(ring.Y), float32(ring.Radius), 1.5, premultiplied(ring.Color, ring.Alpha), true)
	}
	if frame.Title != nil {
		s.drawTitle(frame.Title)
	}
}

func (s *surface) clear(c render.Clear) {
	if c.Mode == render.ClearFull {
		s.img.Clear()
		if c.Alpha > 0 {
			s.img.Fill(premultiplied(c.Color, c.Alpha))
		}
		return
	}
	if c.Alpha <= 0 {
		return
	}
	size := s.Size()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(size.W), float64(size.H))
	scaleColor(&op.ColorScale, c.Color, c.Alpha)
	s.img.DrawImage(s.host.pixel, op)
}

func (s *surface) drawBlob(b *render.Blob) {
	sprite := s.host.sprites.get(b.Gradient)
	d := float64(sprite.Bounds().Dx())
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(2*b.Radius/d, 2*b.Radius/d)
	op.GeoM.Translate(b.X-b.Radius, b.Y-b.Radius)
	a := float32(b.Opacity)
	op.ColorScale.Scale(a, a, a, a)
	op.Filter = ebiten.FilterLinear
	op.Blend = blendFor(b.Composite)
	s.img.DrawImage(sprite, op)
}

func (s *surface) drawTitle(t *render.Title) {
	face := basicfont.Face7x13
	bounds := text.BoundString(face, t.Text)
	size := s.Size()
	x := (size.W - bounds.Dx()) / 2
	y := size.H/2 + bounds.Dy()/2
	glow := premultiplied(t.Glow, t.Alpha*0.5)
	for _, off := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		text.Draw(s.img, t.Text, face, x+off[0], y+off[1], glow)
	}
	text.Draw(s.img, t.Text, face, x, y, premultiplied(t.Color, t.Alpha))
}

func (s *surface) drawTo(screen *ebiten.Image) {
	if s.opacity <= 0 {
		return
	}
	if s.layer.BackgroundAlpha > 0 {
		size := s.Size()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(size.W), float64(size.H))
		scaleColor(&op.ColorScale, s.layer.Background, s.layer.BackgroundAlpha*s.opacity)
		screen.DrawImage(s.host.pixel, op)
	}
	op := &ebiten.DrawImageOptions{}
	a := float32(s.opacity)
	op.ColorScale.Scale(a, a, a, a)
	screen.DrawImage(s.img, op)
}

func premultiplied(c colorful.Color, alpha float64) color.RGBA {
	alpha = max(0, min(1, alpha))
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{
		R: uint8(float64(r) * alpha),
		G: uint8(float64(g) * alpha),
		B: uint8(float64(b) * alpha),
		A: uint8(255 * alpha),
	}
}

func scaleColor(cs *ebiten.ColorScale, c colorful.Color, alpha float64) {
	a := float32(alpha)
	cs.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
}
