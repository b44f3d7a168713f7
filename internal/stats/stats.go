// Package stats runs effects headlessly and summarises how their particle fields evolve.
package stats

import (
	"fmt"
	"image"
	"sync"

	"chooch-fx/internal/core"
	"chooch-fx/internal/effect"
	"chooch-fx/internal/field"
	"chooch-fx/internal/render"
)

// Trace records per-frame measurements of a single run.
type Trace struct {
	Seed int64

	Live        []float64
	MeanX       []float64
	MeanOpacity []float64

	Peak      int
	Spawned   int
	Evicted   int
	RemovedAt int // -1 while the effect was still running at the end

	// Snapshot is the composited surface at SnapshotAt, if requested.
	Snapshot *image.RGBA
}

// Options controls a sweep.
type Options struct {
	Size    core.Size
	Frames  int
	Workers int
	// SnapshotAt captures the surface after that many frames; negative disables it.
	SnapshotAt int
}

// Record runs preset p for up to opts.Frames frames with the given seed.
func Record(p field.Preset, seed int64, opts Options) (Trace, error) {
	host := render.NewMemoryHost(opts.Size)
	e, err := effect.New(p, host, core.NewRNG(seed))
	if err != nil {
		return Trace{}, fmt.Errorf("%s seed %d: %w", p.Name, seed, err)
	}
	tr := Trace{Seed: seed, RemovedAt: -1}
	tr.sample(e.Field(), e.State())
	for frame := 1; frame <= opts.Frames; frame++ {
		st := e.Step()
		tr.sample(e.Field(), st)
		if opts.SnapshotAt == frame {
			tr.Snapshot = host.Composite()
		}
		if e.Done() {
			tr.RemovedAt = frame
			break
		}
	}
	return tr, nil
}

func (tr *Trace) sample(f *field.Field, st field.State) {
	var sumX, sumOpacity float64
	particles := f.Particles()
	for i := range particles {
		sumX += particles[i].X
		sumOpacity += particles[i].Opacity
	}
	live := len(particles)
	meanX, meanOpacity := 0.0, 0.0
	if live > 0 {
		meanX = sumX / float64(live)
		meanOpacity = sumOpacity / float64(live)
	}
	tr.Live = append(tr.Live, float64(live))
	tr.MeanX = append(tr.MeanX, meanX)
	tr.MeanOpacity = append(tr.MeanOpacity, meanOpacity)
	if live > tr.Peak {
		tr.Peak = live
	}
	tr.Spawned += st.Spawned
	tr.Evicted += st.Evicted
}

// Sweep records one run per seed on a pool of workers. Results are ordered by seed index.
func Sweep(p field.Preset, seeds []int64, opts Options) ([]Trace, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	type job struct {
		index int
		seed  int64
	}
	jobs := make(chan job)
	traces := make([]Trace, len(seeds))
	errs := make([]error, len(seeds))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				traces[j.index], errs[j.index] = Record(p, j.seed, opts)
			}
		}()
	}
	for i, seed := range seeds {
		jobs <- job{index: i, seed: seed}
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return traces, nil
}

// Summary aggregates a sweep.
type Summary struct {
	Runs        int
	MeanLive    []float64
	MeanPeak    float64
	MeanSpawned float64
	Evicted     int
	// Removed counts runs whose effect finished within the frame budget;
	// MeanRemovedAt averages their removal frame.
	Removed       int
	MeanRemovedAt float64
}

// Summarize averages the per-frame live counts across traces of different lengths.
// Frames past a run's removal count as zero live particles.
func Summarize(traces []Trace) Summary {
	s := Summary{Runs: len(traces)}
	if len(traces) == 0 {
		return s
	}
	longest := 0
	for _, tr := range traces {
		longest = max(longest, len(tr.Live))
	}
	s.MeanLive = make([]float64, longest)
	var removedSum int
	for _, tr := range traces {
		for i, v := range tr.Live {
			s.MeanLive[i] += v
		}
		s.MeanPeak += float64(tr.Peak)
		s.MeanSpawned += float64(tr.Spawned)
		s.Evicted += tr.Evicted
		if tr.RemovedAt >= 0 {
			s.Removed++
			removedSum += tr.RemovedAt
		}
	}
	n := float64(len(traces))
	for i := range s.MeanLive {
		s.MeanLive[i] /= n
	}
	s.MeanPeak /= n
	s.MeanSpawned /= n
	if s.Removed > 0 {
		s.MeanRemovedAt = float64(removedSum) / float64(s.Removed)
	}
	return s
}

// Downsample reduces series to at most width points by averaging buckets, so long runs
// fit a terminal chart.
func Downsample(series []float64, width int) []float64 {
	if width <= 0 || len(series) <= width {
		return series
	}
	out := make([]float64, width)
	for i := range out {
		lo := i * len(series) / width
		hi := (i + 1) * len(series) / width
		var sum float64
		for _, v := range series[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}
