package render

import (
	"image"
	"image/draw"
	"log"
	"math"

	"chooch-fx/internal/core"

	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"
)

// Raster is a software surface backed by a gg pixmap. The terminal host and headless
// tools paint through it.
type Raster struct {
	size     core.Size
	pm       *gg.Pixmap
	dc       *gg.Context
	layer    Layer
	opacity  float64
	detached bool
	paints   int

	// scratch receives lighter blobs one at a time before they are added onto pm.
	scratch   *gg.Pixmap
	scratchDC *gg.Context
}

// NewRaster allocates a transparent surface. A zero layer opacity means fully opaque.
func NewRaster(size core.Size, layer Layer) *Raster {
	if layer.Opacity <= 0 {
		layer.Opacity = 1
	}
	r := &Raster{layer: layer, opacity: layer.Opacity}
	r.Resize(size)
	return r
}

// Size implements Surface.
func (r *Raster) Size() core.Size { return r.size }

// Layer returns the layer the raster was created for.
func (r *Raster) Layer() Layer { return r.layer }

// Resize implements Surface. The contents are discarded.
func (r *Raster) Resize(size core.Size) {
	if size.Empty() || r.detached {
		return
	}
	r.release()
	r.size = size
	r.pm = gg.NewPixmap(size.W, size.H)
	r.dc = gg.NewContextForPixmap(r.pm)
}

// SetOpacity implements Surface.
func (r *Raster) SetOpacity(alpha float64) {
	r.opacity = math.Max(0, math.Min(1, alpha))
}

// Opacity returns the current surface opacity.
func (r *Raster) Opacity() float64 { return r.opacity }

// Detach implements Surface. A detached raster ignores further paints.
func (r *Raster) Detach() {
	r.detached = true
	r.release()
}

// Detached reports whether the raster was detached.
func (r *Raster) Detached() bool { return r.detached }

// Paints counts the frames painted so far.
func (r *Raster) Paints() int { return r.paints }

// At returns the premultiplied colour of the surface content at (x, y), ignoring the
// layer background and opacity.
func (r *Raster) At(x, y int) (red, green, blue, alpha float64) {
	if r.pm == nil || x < 0 || y < 0 || x >= r.size.W || y >= r.size.H {
		return 0, 0, 0, 0
	}
	d := r.pm.Data()
	i := (y*r.size.W + x) * 4
	return float64(d[i]) / 255, float64(d[i+1]) / 255, float64(d[i+2]) / 255, float64(d[i+3]) / 255
}

// Paint implements Surface. Titles are left to hosts that can draw text.
func (r *Raster) Paint(frame *Frame) {
	if r.detached || r.dc == nil || frame == nil {
		return
	}
	r.paints++
	r.clear(frame.Clear)
	r.paintBlobs(frame.Blobs)
	for i := range frame.Rings {
		r.paintRing(&frame.Rings[i])
	}
}

// Snapshot renders the surface content over its background, scaled by opacity.
func (r *Raster) Snapshot() *image.RGBA {
	pm := gg.NewPixmap(r.size.W, r.size.H)
	out := gg.NewContextForPixmap(pm)
	defer out.Close()
	r.compositeOnto(out)
	return pm.ToImage()
}

func (r *Raster) release() {
	if r.dc != nil {
		_ = r.dc.Close()
	}
	if r.scratchDC != nil {
		_ = r.scratchDC.Close()
	}
	r.pm, r.dc = nil, nil
	r.scratch, r.scratchDC = nil, nil
}

func (r *Raster) clear(c Clear) {
	col := toRGBA(c.Color, c.Alpha)
	if c.Mode == ClearFull {
		r.dc.ClearWithColor(col)
		return
	}
	if c.Alpha <= 0 {
		return
	}
	r.dc.SetFillBrush(gg.Solid(col))
	r.dc.DrawRectangle(0, 0, float64(r.size.W), float64(r.size.H))
	r.fill(r.dc)
}

// paintBlobs draws consecutive blobs sharing a composite as one group. A screen group
// is filled into its own layer and screened onto the content underneath.
func (r *Raster) paintBlobs(blobs []Blob) {
	for start := 0; start < len(blobs); {
		mode := blobs[start].Composite
		end := start + 1
		for end < len(blobs) && blobs[end].Composite == mode {
			end++
		}
		run := blobs[start:end]
		switch mode {
		case CompositeScreen:
			r.dc.PushLayer(gg.BlendScreen, 1)
			for i := range run {
				r.fillBlob(r.dc, &run[i])
			}
			r.dc.PopLayer()
		case CompositeLighter:
			for i := range run {
				r.addBlob(&run[i])
			}
		default:
			for i := range run {
				r.fillBlob(r.dc, &run[i])
			}
		}
		start = end
	}
}

func (r *Raster) fillBlob(dc *gg.Context, b *Blob) bool {
	if b.Radius <= 0 || b.Opacity <= 0 || len(b.Gradient) == 0 {
		return false
	}
	brush := gg.NewRadialGradientBrush(b.X, b.Y, 0, b.Radius)
	for _, s := range b.Gradient {
		brush.AddColorStop(s.Offset, toRGBA(s.Color, s.Alpha*b.Opacity))
	}
	dc.SetFillBrush(brush)
	dc.DrawCircle(b.X, b.Y, b.Radius)
	r.fill(dc)
	return true
}

// addBlob paints b into the scratch pixmap and adds it onto the surface with
// saturation. gg layers offer no additive blend mode.
func (r *Raster) addBlob(b *Blob) {
	if r.scratch == nil {
		r.scratch = gg.NewPixmap(r.size.W, r.size.H)
		r.scratchDC = gg.NewContextForPixmap(r.scratch)
	}
	if !r.fillBlob(r.scratchDC, b) {
		return
	}
	x0, y0, x1, y1, ok := r.bounds(b.X, b.Y, b.Radius)
	if !ok {
		return
	}
	src, dst := r.scratch.Data(), r.pm.Data()
	for y := y0; y <= y1; y++ {
		for i := (y*r.size.W + x0) * 4; i < (y*r.size.W+x1+1)*4; i++ {
			dst[i] = uint8(min(255, int(dst[i])+int(src[i])))
			src[i] = 0
		}
	}
}

func (r *Raster) paintRing(ring *Ring) {
	if ring.Radius <= 0 || ring.Alpha <= 0 {
		return
	}
	r.dc.SetStrokeBrush(gg.Solid(toRGBA(ring.Color, ring.Alpha)))
	r.dc.SetLineWidth(1)
	r.dc.DrawCircle(ring.X, ring.Y, ring.Radius)
	if err := r.dc.Stroke(); err != nil {
		log.Printf("[Raster] %s: stroke failed: %v", r.layer.Name, err)
	}
}

func (r *Raster) fill(dc *gg.Context) {
	if err := dc.Fill(); err != nil {
		log.Printf("[Raster] %s: fill failed: %v", r.layer.Name, err)
	}
}

func (r *Raster) bounds(cx, cy, radius float64) (x0, y0, x1, y1 int, ok bool) {
	x0 = int(math.Max(0, math.Floor(cx-radius)))
	y0 = int(math.Max(0, math.Floor(cy-radius)))
	x1 = int(math.Min(float64(r.size.W-1), math.Ceil(cx+radius)))
	y1 = int(math.Min(float64(r.size.H-1), math.Ceil(cy+radius)))
	return x0, y0, x1, y1, x0 <= x1 && y0 <= y1
}

// layerImage returns the content drawn over the layer background.
func (r *Raster) layerImage() *image.NRGBA {
	pm := gg.NewPixmap(r.size.W, r.size.H)
	dc := gg.NewContextForPixmap(pm)
	defer dc.Close()
	dc.ClearWithColor(toRGBA(r.layer.Background, r.layer.BackgroundAlpha))
	dc.DrawImage(gg.ImageBufFromImage(straight(r.pm.ToImage())), 0, 0)
	return straight(pm.ToImage())
}

// compositeOnto draws the layer source-over onto out, scaled by the surface opacity.
func (r *Raster) compositeOnto(out *gg.Context) {
	if r.pm == nil || r.opacity <= 0 {
		return
	}
	out.DrawImageEx(gg.ImageBufFromImage(r.layerImage()), gg.DrawImageOptions{
		Interpolation: gg.InterpNearest,
		Opacity:       r.opacity,
		BlendMode:     gg.BlendNormal,
	})
}

// straight converts premultiplied pixels to the non-premultiplied layout gg image
// patterns sample from.
func straight(img *image.RGBA) *image.NRGBA {
	n := image.NewNRGBA(img.Bounds())
	draw.Draw(n, n.Bounds(), img, img.Bounds().Min, draw.Src)
	return n
}

func toRGBA(c colorful.Color, alpha float64) gg.RGBA {
	c = c.Clamped()
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: math.Max(0, math.Min(1, alpha))}
}
