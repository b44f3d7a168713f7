package render

import (
	"errors"
	"math"
	"testing"

	"chooch-fx/internal/core"
	"chooch-fx/internal/field"

	"github.com/lucasb-eyer/go-colorful"
)

func compile(t *testing.T, name string) (*field.Preset, *Style) {
	t.Helper()
	p, ok := field.Lookup(name)
	if !ok {
		t.Fatalf("preset %q missing", name)
	}
	s, err := Compile(&p)
	if err != nil {
		t.Fatalf("compile %s: %v", name, err)
	}
	return &p, s
}

func flatGradient(alpha float64) Gradient {
	white := colorful.Color{R: 1, G: 1, B: 1}
	return Gradient{{0, white, alpha}, {0.5, white, alpha}, {1, white, alpha}}
}

func TestCompileBuiltinPresets(t *testing.T) {
	for _, name := range field.Names() {
		p, s := compile(t, name)
		if len(s.Palettes) != len(p.Render.Palettes) {
			t.Fatalf("%s: expected %d palettes, got %d", name, len(p.Render.Palettes), len(s.Palettes))
		}
		if s.Layer.Name != name || s.Layer.Opacity <= 0 {
			t.Fatalf("%s: bad layer %+v", name, s.Layer)
		}
	}
}

func TestBuildSkipsFaintParticles(t *testing.T) {
	p, s := compile(t, "smoke-reveal")
	f, err := field.New(*p, core.Size{W: 800, H: 600}, core.NewRNG(1))
	if err != nil {
		t.Fatalf("new field: %v", err)
	}
	f.Start()
	var frame Frame
	s.Build(f, &frame)
	if len(frame.Blobs) != p.Burst {
		t.Fatalf("expected %d blobs, got %d", p.Burst, len(frame.Blobs))
	}
	for _, b := range frame.Blobs {
		if b.Composite != CompositeScreen {
			t.Fatalf("blob composite %s, want screen", b.Composite)
		}
	}
	if frame.Clear.Mode != ClearTrail || frame.Clear.Alpha != 0.05 {
		t.Fatalf("unexpected clear %+v", frame.Clear)
	}

	// Particles updated at age 0 are still fully transparent.
	f.Tick()
	s.Build(f, &frame)
	if len(frame.Blobs) != 0 {
		t.Fatalf("expected faded-in particles to be skipped, got %d blobs", len(frame.Blobs))
	}
}

func TestBuildAddsRingsAndTitle(t *testing.T) {
	p, s := compile(t, "vape-entrance")
	f, err := field.New(*p, core.Size{W: 800, H: 600}, core.NewRNG(2))
	if err != nil {
		t.Fatalf("new field: %v", err)
	}
	f.Start()
	var frame Frame
	s.Build(f, &frame)
	if len(frame.Rings) != len(frame.Blobs) {
		t.Fatalf("expected a ring per blob, got %d rings for %d blobs", len(frame.Rings), len(frame.Blobs))
	}
	for i, ring := range frame.Rings {
		if math.Abs(ring.Radius-frame.Blobs[i].Radius*1.2) > 1e-9 {
			t.Fatalf("ring %d radius %.2f", i, ring.Radius)
		}
	}
	if frame.Title != nil {
		t.Fatalf("title should not show at frame 0")
	}
	if title := s.title(90); title == nil || math.Abs(title.Alpha-1) > 1e-9 {
		t.Fatalf("expected full title alpha mid-window, got %+v", title)
	}
	if s.title(151) != nil {
		t.Fatalf("title should be hidden after its window")
	}
}

func TestBackdropFades(t *testing.T) {
	_, s := compile(t, "vape-entrance")
	cases := []struct {
		frame int
		alpha float64
	}{{0, 0.8}, {90, 0.4}, {180, 0}, {300, 0}}
	for _, tc := range cases {
		if got := s.clear(tc.frame).Alpha; math.Abs(got-tc.alpha) > 1e-9 {
			t.Fatalf("frame %d: expected backdrop %.2f, got %.2f", tc.frame, tc.alpha, got)
		}
	}
}

func TestGradientInterpolates(t *testing.T) {
	g := Gradient{
		{0, colorful.Color{R: 1}, 1},
		{0.5, colorful.Color{R: 0.5}, 0.5},
		{1, colorful.Color{}, 0},
	}
	c, a := g.At(0.25)
	if math.Abs(c.R-0.75) > 1e-9 || math.Abs(a-0.75) > 1e-9 {
		t.Fatalf("expected (0.75, 0.75), got (%.3f, %.3f)", c.R, a)
	}
	if _, a := g.At(1.5); a != 0 {
		t.Fatalf("expected transparent outside the blob, got %.2f", a)
	}
}

func TestOverlappingBlobsBrighten(t *testing.T) {
	for _, mode := range []Composite{CompositeScreen, CompositeLighter} {
		blob := Blob{X: 10, Y: 10, Radius: 8, Opacity: 1, Gradient: flatGradient(0.5), Composite: mode}

		one := NewRaster(core.Size{W: 20, H: 20}, Layer{})
		one.Paint(&Frame{Blobs: []Blob{blob}})
		single, _, _, _ := one.At(10, 10)

		two := NewRaster(core.Size{W: 20, H: 20}, Layer{})
		two.Paint(&Frame{Blobs: []Blob{blob, blob}})
		double, _, _, a := two.At(10, 10)

		if double <= single {
			t.Fatalf("%s: overlap %.3f not brighter than single %.3f", mode, double, single)
		}
		if double > 1 || a > 1 {
			t.Fatalf("%s: channel exceeded 1: %.3f alpha %.3f", mode, double, a)
		}
	}
}

func TestTrailClearAccumulates(t *testing.T) {
	r := NewRaster(core.Size{W: 4, H: 4}, Layer{})
	frame := &Frame{Clear: Clear{Mode: ClearTrail, Alpha: 0.5}}
	r.Paint(frame)
	r.Paint(frame)
	if _, _, _, a := r.At(0, 0); math.Abs(a-0.75) > 0.01 {
		t.Fatalf("expected accumulated alpha 0.75, got %.3f", a)
	}
	r.Paint(&Frame{Clear: Clear{Mode: ClearFull}})
	if _, _, _, a := r.At(0, 0); a != 0 {
		t.Fatalf("full clear left alpha %.3f", a)
	}
}

func TestMemoryHostLifecycle(t *testing.T) {
	h := NewMemoryHost(core.Size{W: 8, H: 8})
	s, err := h.Attach(Layer{Name: "a", Z: 1, Opacity: 1})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	s.Paint(&Frame{Clear: Clear{Mode: ClearFull, Color: colorful.Color{R: 1}, Alpha: 1}})
	img := h.Composite()
	if px := img.RGBAAt(3, 3); px.R != 255 || px.A != 255 {
		t.Fatalf("expected red composite, got %+v", px)
	}
	s.SetOpacity(0.5)
	if px := h.Composite().RGBAAt(3, 3); px.R < 126 || px.R > 129 {
		t.Fatalf("expected half red at opacity 0.5, got %+v", px)
	}

	s.Detach()
	if len(h.Surfaces()) != 0 {
		t.Fatalf("detached surface still listed")
	}
	if px := h.Composite().RGBAAt(3, 3); px.R != 0 || px.A != 255 {
		t.Fatalf("expected black after detach, got %+v", px)
	}

	h.Disable()
	if _, err := h.Attach(Layer{Name: "b"}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if h.Attached() != 1 {
		t.Fatalf("expected 1 attached surface, got %d", h.Attached())
	}
}

func TestSnapshotUsesBackground(t *testing.T) {
	r := NewRaster(core.Size{W: 2, H: 2}, Layer{Background: colorful.Color{B: 1}, BackgroundAlpha: 1})
	px := r.Snapshot().RGBAAt(0, 0)
	if px.B != 255 || px.A != 255 {
		t.Fatalf("expected opaque blue background, got %+v", px)
	}
}

func TestScreenGroupBrightensEarlierContent(t *testing.T) {
	blob := Blob{X: 10, Y: 10, Radius: 8, Opacity: 1, Gradient: flatGradient(0.5), Composite: CompositeScreen}
	r := NewRaster(core.Size{W: 20, H: 20}, Layer{})
	r.Paint(&Frame{Clear: Clear{Mode: ClearFull, Color: colorful.Color{R: 0.4, G: 0.4, B: 0.4}, Alpha: 1}})
	before, _, _, _ := r.At(10, 10)

	r.Paint(&Frame{Clear: Clear{Mode: ClearTrail}, Blobs: []Blob{blob}})
	after, _, _, a := r.At(10, 10)
	if after <= before {
		t.Fatalf("screened blob did not brighten: %.3f -> %.3f", before, after)
	}
	if a < 0.99 {
		t.Fatalf("opaque content lost alpha: %.3f", a)
	}
	if corner, _, _, _ := r.At(0, 0); math.Abs(corner-before) > 0.01 {
		t.Fatalf("pixel outside the blob changed: %.3f -> %.3f", before, corner)
	}
}

func TestRingStrokesOutlineOnly(t *testing.T) {
	r := NewRaster(core.Size{W: 24, H: 24}, Layer{})
	r.Paint(&Frame{Rings: []Ring{{X: 10.5, Y: 10.5, Radius: 6, Color: colorful.Color{R: 1, G: 1, B: 1}, Alpha: 1}}})
	if _, _, _, a := r.At(16, 10); a < 0.5 {
		t.Fatalf("expected ring coverage on the outline, got alpha %.3f", a)
	}
	if _, _, _, a := r.At(10, 10); a != 0 {
		t.Fatalf("ring filled its centre: alpha %.3f", a)
	}
}

func TestGradientBlobFadesToEdge(t *testing.T) {
	g := Gradient{
		{0, colorful.Color{R: 1, G: 1, B: 1}, 1},
		{1, colorful.Color{R: 1, G: 1, B: 1}, 0},
	}
	r := NewRaster(core.Size{W: 40, H: 40}, Layer{})
	r.Paint(&Frame{Blobs: []Blob{{X: 20, Y: 20, Radius: 16, Opacity: 1, Gradient: g}}})
	_, _, _, centre := r.At(20, 20)
	_, _, _, mid := r.At(28, 20)
	_, _, _, outside := r.At(38, 20)
	if !(centre > mid && mid > 0) {
		t.Fatalf("expected alpha to fall off from the centre, got centre %.3f mid %.3f", centre, mid)
	}
	if outside != 0 {
		t.Fatalf("blob painted past its radius: %.3f", outside)
	}
}

func TestFlattenScalesLayerOpacityOverBackground(t *testing.T) {
	r := NewRaster(core.Size{W: 4, H: 4}, Layer{Background: colorful.Color{G: 1}, BackgroundAlpha: 1, Opacity: 1})
	r.SetOpacity(0.5)
	px := Flatten(core.Size{W: 6, H: 4}, []*Raster{r}).RGBAAt(1, 1)
	if px.G < 126 || px.G > 129 || px.A != 255 {
		t.Fatalf("expected half green over black, got %+v", px)
	}
	if outside := Flatten(core.Size{W: 6, H: 4}, []*Raster{r}).RGBAAt(5, 1); outside.G != 0 || outside.A != 255 {
		t.Fatalf("expected black outside the raster, got %+v", outside)
	}
}

func TestGradientKeyFollowsContent(t *testing.T) {
	_, a := compile(t, "smoke-reveal")
	_, b := compile(t, "smoke-reveal")
	ga, gb := a.Palettes[0], b.Palettes[0]
	if &ga[0] == &gb[0] {
		t.Fatalf("expected separately compiled gradients")
	}
	if ga.Key() != gb.Key() {
		t.Fatalf("same palette produced keys %q and %q", ga.Key(), gb.Key())
	}
	if flatGradient(0.5).Key() == flatGradient(0.4).Key() {
		t.Fatalf("gradients with different alpha share a key")
	}
	if ga.Key() == flatGradient(0.5).Key() {
		t.Fatalf("different palettes share a key")
	}
}
