package stats

import (
	"testing"

	"chooch-fx/internal/core"
	"chooch-fx/internal/field"
)

func lookup(t *testing.T, name string) field.Preset {
	t.Helper()
	p, ok := field.Lookup(name)
	if !ok {
		t.Fatalf("preset %q not registered", name)
	}
	return p
}

func TestRecordFollowsEntranceToRemoval(t *testing.T) {
	opts := Options{Size: core.Size{W: 160, H: 120}, Frames: 400, SnapshotAt: 10}
	tr, err := Record(lookup(t, "vape-entrance"), 7, opts)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if tr.Live[0] != 8 || tr.Peak != 8 {
		t.Fatalf("expected an 8 particle burst, got live %v peak %d", tr.Live[0], tr.Peak)
	}
	if tr.RemovedAt <= 180 || tr.RemovedAt > 215 {
		t.Fatalf("unexpected removal frame %d", tr.RemovedAt)
	}
	if len(tr.Live) != tr.RemovedAt+1 {
		t.Fatalf("expected one sample per frame, got %d for %d frames", len(tr.Live), tr.RemovedAt)
	}
	if tr.Live[len(tr.Live)-1] != 0 {
		t.Fatalf("removed field should be empty, got %v", tr.Live[len(tr.Live)-1])
	}
	if tr.Snapshot == nil || tr.Snapshot.Bounds().Dx() != 160 || tr.Snapshot.Bounds().Dy() != 120 {
		t.Fatalf("expected a 160x120 snapshot, got %v", tr.Snapshot)
	}
}

func TestRecordStopsAtFrameBudget(t *testing.T) {
	tr, err := Record(lookup(t, "ambient"), 3, Options{Size: core.Size{W: 200, H: 150}, Frames: 30, SnapshotAt: -1})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if tr.RemovedAt != -1 {
		t.Fatalf("ambient effects never finish, got removal at %d", tr.RemovedAt)
	}
	if len(tr.Live) != 31 {
		t.Fatalf("expected 31 samples, got %d", len(tr.Live))
	}
	if tr.Snapshot != nil {
		t.Fatalf("snapshot should be disabled")
	}
}

func TestSweepIsOrderedAndDeterministic(t *testing.T) {
	p := lookup(t, "smoke-reveal")
	opts := Options{Size: core.Size{W: 160, H: 120}, Frames: 60, Workers: 3, SnapshotAt: -1}
	seeds := []int64{11, 12, 13, 14}
	a, err := Sweep(p, seeds, opts)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	b, err := Sweep(p, seeds, opts)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	for i := range seeds {
		if a[i].Seed != seeds[i] {
			t.Fatalf("trace %d has seed %d", i, a[i].Seed)
		}
		for f := range a[i].MeanX {
			if a[i].MeanX[f] != b[i].MeanX[f] || a[i].Live[f] != b[i].Live[f] {
				t.Fatalf("seed %d diverged at frame %d", seeds[i], f)
			}
		}
	}
}

func TestSummarizePadsShorterRuns(t *testing.T) {
	traces := []Trace{
		{Live: []float64{4, 2}, Peak: 4, Spawned: 4, RemovedAt: 1},
		{Live: []float64{6, 4, 2, 2}, Peak: 6, Spawned: 8, Evicted: 1, RemovedAt: -1},
	}
	s := Summarize(traces)
	want := []float64{5, 3, 1, 1}
	if len(s.MeanLive) != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), len(s.MeanLive))
	}
	for i := range want {
		if s.MeanLive[i] != want[i] {
			t.Fatalf("frame %d: got %v want %v", i, s.MeanLive[i], want[i])
		}
	}
	if s.MeanPeak != 5 || s.MeanSpawned != 6 || s.Evicted != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.Removed != 1 || s.MeanRemovedAt != 1 {
		t.Fatalf("unexpected removal stats %+v", s)
	}
}

func TestDownsampleAveragesBuckets(t *testing.T) {
	got := Downsample([]float64{1, 3, 5, 7, 9, 11}, 3)
	want := []float64{2, 6, 10}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bucket %d: got %v want %v", i, got[i], want[i])
		}
	}
	short := []float64{1, 2}
	if out := Downsample(short, 10); len(out) != 2 {
		t.Fatalf("short series should be returned unchanged, got %v", out)
	}
}
