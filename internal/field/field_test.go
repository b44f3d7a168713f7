package field

import (
	"math"
	"testing"

	"chooch-fx/internal/core"
)

var canvas = core.Size{W: 800, H: 600}

func mustPreset(t *testing.T, name string) Preset {
	t.Helper()
	p, ok := Lookup(name)
	if !ok {
		t.Fatalf("preset %q not registered", name)
	}
	return p
}

func mustField(t *testing.T, p Preset, seed int64) *Field {
	t.Helper()
	f, err := New(p, canvas, core.NewRNG(seed))
	if err != nil {
		t.Fatalf("new field: %v", err)
	}
	return f
}

func TestLiveParticlesNeverOutliveMaxAge(t *testing.T) {
	for _, name := range Names() {
		f := mustField(t, mustPreset(t, name), 1)
		f.Start()
		for i := 0; i < 400 && f.Phase().Running(); i++ {
			f.Tick()
			for _, p := range f.Particles() {
				if p.Age > p.MaxAge {
					t.Fatalf("%s: particle age %d exceeds max %d at frame %d", name, p.Age, p.MaxAge, f.Frame())
				}
			}
		}
	}
}

func TestFiniteFieldStopsSpawningAndIsRemoved(t *testing.T) {
	for _, name := range []string{"smoke-reveal", "vapor-cloud", "vape-entrance"} {
		p := mustPreset(t, name)
		f := mustField(t, p, 3)
		f.Start()
		limit := p.TotalFrames + p.DrainDelay + p.FadeFrames + 2
		for i := 0; i < limit && f.Phase() != PhaseRemoved; i++ {
			before := f.Frame()
			st := f.Tick()
			if st.Spawned > 0 && (before >= p.TotalFrames || before >= p.SustainFrames) {
				t.Fatalf("%s: spawned %d particles at frame %d", name, st.Spawned, before)
			}
		}
		if f.Phase() != PhaseRemoved {
			t.Fatalf("%s: expected removal within %d frames, phase %s", name, limit, f.Phase())
		}
		if f.Live() != 0 || f.SurfaceAlpha() != 0 {
			t.Fatalf("%s: removed field kept %d particles alpha %.2f", name, f.Live(), f.SurfaceAlpha())
		}
		if st := f.Tick(); st.Phase != PhaseRemoved || st.Frame != f.Frame() {
			t.Fatalf("%s: tick after removal changed state: %+v", name, st)
		}
	}
}

func TestSurfaceAlphaFadesMonotonically(t *testing.T) {
	f := mustField(t, mustPreset(t, "vape-entrance"), 5)
	f.Start()
	last := 1.0
	for f.Phase() != PhaseRemoved {
		st := f.Tick()
		if st.SurfaceAlpha > last {
			t.Fatalf("surface alpha rose from %.3f to %.3f", last, st.SurfaceAlpha)
		}
		if st.Phase == PhaseSustaining && st.SurfaceAlpha != 1 {
			t.Fatalf("alpha %.3f while sustaining", st.SurfaceAlpha)
		}
		last = st.SurfaceAlpha
	}
}

func TestAmbientDisplacementBoundedByVelocity(t *testing.T) {
	f := mustField(t, mustPreset(t, "ambient"), 9)
	if st := f.Start(); st.Live != 50 {
		t.Fatalf("expected 50 particles after start, got %d", st.Live)
	}
	w, h := float64(canvas.W), float64(canvas.H)
	for i := 0; i < 100; i++ {
		prev := append(f.Particles()[:0:0], f.Particles()...)
		f.Tick()
		cur := f.Particles()
		if len(cur) != 50 {
			t.Fatalf("expected 50 live particles, got %d", len(cur))
		}
		for j := range cur {
			wrapped := cur[j].X == 0 || cur[j].X == w || cur[j].Y == 0 || cur[j].Y == h
			d := math.Hypot(cur[j].X-prev[j].X, cur[j].Y-prev[j].Y)
			if !wrapped && d > prev[j].Speed()+1e-9 {
				t.Fatalf("particle %d moved %.4f with speed %.4f", j, d, prev[j].Speed())
			}
			if cur[j].X < 0 || cur[j].X > w || cur[j].Y < 0 || cur[j].Y > h {
				t.Fatalf("particle %d escaped canvas: (%.2f,%.2f)", j, cur[j].X, cur[j].Y)
			}
		}
	}
}

func TestAmbientTopsUpToTarget(t *testing.T) {
	p := mustPreset(t, "ambient")
	p.Seed.MaxAge = core.Fixed(10)
	p.Seed.Prewarm = false
	f := mustField(t, p, 2)
	prev := f.Start().Live
	waves := 0
	for i := 0; i < 40; i++ {
		st := f.Tick()
		if st.Spawned != p.TargetCount-prev {
			t.Fatalf("frame %d: expected top-up of %d, spawned %d", i, p.TargetCount-prev, st.Spawned)
		}
		if st.Live != p.TargetCount-st.Expired {
			t.Fatalf("frame %d: live %d expired %d", i, st.Live, st.Expired)
		}
		if st.Expired > 0 {
			waves++
		}
		prev = st.Live
	}
	if waves == 0 {
		t.Fatalf("expected short-lived particles to expire")
	}
}

func TestSmokeRevealSweepsRight(t *testing.T) {
	f := mustField(t, mustPreset(t, "smoke-reveal"), 11)
	f.Start()
	meanX := func() float64 {
		sum := 0.0
		for _, p := range f.Particles() {
			sum += p.X
		}
		return sum / float64(f.Live())
	}
	last := meanX()
	for block := 0; block < 6; block++ {
		for i := 0; i < 10; i++ {
			f.Tick()
		}
		m := meanX()
		if m <= last {
			t.Fatalf("mean x did not increase after frame %d: %.2f -> %.2f", f.Frame(), last, m)
		}
		last = m
	}
}

func TestEvictsOldestFirst(t *testing.T) {
	p := mustPreset(t, "vape-entrance")
	p.Burst = 10
	p.MaxParticles = 5
	p.Seed.Opacity = core.Fixed(0)
	p.Seed.OpacityStep = 0.1
	f := mustField(t, p, 4)
	st := f.Start()
	if st.Live != 5 || st.Evicted != 5 {
		t.Fatalf("expected 5 live and 5 evicted, got %+v", st)
	}
	for i, part := range f.Particles() {
		want := float64(i+5) * 0.1
		if math.Abs(part.BaseOpacity-want) > 1e-9 {
			t.Fatalf("slot %d: expected burst index %d (opacity %.1f), got %.2f", i, i+5, want, part.BaseOpacity)
		}
	}
}

func TestRadialBurstFansOut(t *testing.T) {
	p := mustPreset(t, "vape-entrance")
	f := mustField(t, p, 6)
	f.Start()
	parts := f.Particles()
	if len(parts) != p.Burst {
		t.Fatalf("expected %d particles, got %d", p.Burst, len(parts))
	}
	cx, cy := canvas.Center()
	for i, part := range parts {
		if part.X != cx || part.Y != cy {
			t.Fatalf("particle %d not at centre: (%.1f,%.1f)", i, part.X, part.Y)
		}
		want := 2 + float64(i)*0.3
		if math.Abs(part.Speed()-want) > 1e-9 {
			t.Fatalf("particle %d speed %.3f, want %.3f", i, part.Speed(), want)
		}
		if part.Size > part.MaxSize {
			t.Fatalf("particle %d spawned above max size", i)
		}
	}
}

func TestStartIsIdempotent(t *testing.T) {
	f := mustField(t, mustPreset(t, "vapor-cloud"), 8)
	first := f.Start()
	second := f.Start()
	if first.Live != second.Live || second.Spawned != 0 {
		t.Fatalf("second start spawned again: %+v then %+v", first, second)
	}
}

func TestEmitSpawnsAroundPointer(t *testing.T) {
	f := mustField(t, mustPreset(t, "cursor-trail"), 12)
	if n := f.Emit(100, 100, 3); n != 0 {
		t.Fatalf("idle field emitted %d particles", n)
	}
	f.Start()
	if n := f.Emit(100, 100, 3); n != 3 {
		t.Fatalf("expected 3 emitted, got %d", n)
	}
	for _, p := range f.Particles() {
		if math.Abs(p.X-100) > 10 || math.Abs(p.Y-100) > 10 {
			t.Fatalf("particle spawned too far from pointer: (%.1f,%.1f)", p.X, p.Y)
		}
	}
	f.Emit(200, 200, 30)
	if f.Live() != 15 {
		t.Fatalf("expected cap of 15, got %d", f.Live())
	}
}

func TestResizeOnlyForResizablePresets(t *testing.T) {
	ambient := mustField(t, mustPreset(t, "ambient"), 1)
	if !ambient.Resize(core.Size{W: 1024, H: 768}) || ambient.Size().W != 1024 {
		t.Fatalf("ambient field should accept resize")
	}
	smoke := mustField(t, mustPreset(t, "smoke-reveal"), 1)
	if smoke.Resize(core.Size{W: 1024, H: 768}) || smoke.Size() != canvas {
		t.Fatalf("smoke field should keep its size")
	}
}

func TestSetParameterClampsAndRebuildsPhysics(t *testing.T) {
	f := mustField(t, mustPreset(t, "smoke-reveal"), 1)
	if !f.SetParameter("damping", 0.5) {
		t.Fatalf("damping should be tunable")
	}
	if f.Preset().Physics.Damping != 0.9 {
		t.Fatalf("expected damping clamped to 0.9, got %.3f", f.Preset().Physics.Damping)
	}
	if f.physics.Damping != 0.9 {
		t.Fatalf("physics not rebuilt: damping %.3f", f.physics.Damping)
	}
	if f.SetParameter("nope", 1) {
		t.Fatalf("unknown key accepted")
	}
	orig := mustPreset(t, "smoke-reveal")
	if orig.Physics.Damping != 0.995 {
		t.Fatalf("registry preset mutated: %.3f", orig.Physics.Damping)
	}
}

func TestSetParameterKeepsEntranceFinite(t *testing.T) {
	p := mustPreset(t, "smoke-reveal")
	f := mustField(t, p, 1)
	f.Start()
	if f.SetParameter("total_frames", 0) {
		t.Fatalf("entrance accepted a zero frame budget")
	}
	if f.Preset().TotalFrames != p.TotalFrames || !f.Preset().Finite() {
		t.Fatalf("rejected value leaked into the preset: totalFrames %d", f.Preset().TotalFrames)
	}
	if f.SetParameter("sustain_frames", float64(p.TotalFrames+30)) {
		t.Fatalf("sustainFrames above totalFrames accepted")
	}
	if f.Preset().SustainFrames != p.SustainFrames {
		t.Fatalf("sustainFrames changed to %d", f.Preset().SustainFrames)
	}
	if !f.SetParameter("total_frames", float64(p.TotalFrames+30)) {
		t.Fatalf("valid frame budget rejected")
	}

	limit := f.Preset().TotalFrames + p.DrainDelay + p.FadeFrames + 2
	for i := 0; i < limit && f.Phase() != PhaseRemoved; i++ {
		f.Tick()
	}
	if f.Phase() != PhaseRemoved {
		t.Fatalf("expected removal within %d frames, phase %s", limit, f.Phase())
	}
}
