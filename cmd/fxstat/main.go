package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"chooch-fx/internal/app"
	"chooch-fx/internal/field"
	"chooch-fx/internal/stats"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginTop(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	runs := flag.Int("runs", 8, "independent seeds per effect")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel runs")
	frames := flag.Int("frames", 600, "maximum frames per run")
	pngDir := flag.String("png", "", "directory for composited snapshots of the first run")
	snapAt := flag.Int("snap", 120, "frame at which the snapshot is taken")
	chartWidth := flag.Int("chart-width", 72, "chart width in columns")
	flag.Parse()

	if err := cfg.LoadPresets(); err != nil {
		log.Fatalf("presets: %v", err)
	}
	base := cfg.Seed
	if base == 0 {
		base = time.Now().UnixNano()
	}
	seeds := make([]int64, *runs)
	for i := range seeds {
		seeds[i] = base + int64(i)
	}
	snapshot := -1
	if *pngDir != "" {
		snapshot = *snapAt
		if err := os.MkdirAll(*pngDir, 0o755); err != nil {
			log.Fatalf("png dir: %v", err)
		}
	}
	opts := stats.Options{Size: cfg.Size(), Frames: *frames, Workers: *workers, SnapshotAt: snapshot}

	fmt.Printf("Recording %d runs of %s (%d workers, %d frames, %dx%d)\n",
		*runs, strings.Join(cfg.EffectNames(), ", "), *workers, *frames, opts.Size.W, opts.Size.H)

	for _, name := range cfg.EffectNames() {
		p, _ := field.Lookup(name)
		p = field.FromMap(p, cfg.Overrides())
		start := time.Now()
		traces, err := stats.Sweep(p, seeds, opts)
		if err != nil {
			log.Printf("[Stat] %v", err)
			continue
		}
		report(p, traces, time.Since(start), *chartWidth)
		if *pngDir != "" && len(traces) > 0 {
			if err := writePNG(*pngDir, name, traces[0]); err != nil {
				log.Printf("[Stat] %v", err)
			}
		}
	}
}

func report(p field.Preset, traces []stats.Trace, elapsed time.Duration, width int) {
	s := stats.Summarize(traces)
	fmt.Println(headerStyle.Render(fmt.Sprintf("%s (%s)", p.Name, p.Kind)))
	row := func(label, value string) {
		fmt.Println(labelStyle.Render(label) + valueStyle.Render(value))
	}
	row("runs", fmt.Sprintf("%d in %s", s.Runs, elapsed.Round(time.Millisecond)))
	row("peak live", fmt.Sprintf("%.1f", s.MeanPeak))
	row("spawned", fmt.Sprintf("%.1f", s.MeanSpawned))
	row("evicted", fmt.Sprintf("%d", s.Evicted))
	if s.Removed > 0 {
		row("removed", fmt.Sprintf("%d/%d at frame %.1f", s.Removed, s.Runs, s.MeanRemovedAt))
	} else if p.Finite() {
		fmt.Println(warnStyle.Render("still running at the frame limit"))
	}
	if len(s.MeanLive) < 2 {
		return
	}
	chart := asciigraph.Plot(stats.Downsample(s.MeanLive, width),
		asciigraph.Height(8), asciigraph.Width(width), asciigraph.Caption("live particles per frame"))
	fmt.Println(graphStyle.Render(chart))
}

func writePNG(dir, name string, tr stats.Trace) error {
	if tr.Snapshot == nil {
		return fmt.Errorf("%s: no snapshot (run ended before the snapshot frame)", name)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%d.png", name, tr.Seed))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, tr.Snapshot); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	fmt.Println(valueStyle.Render("wrote " + path))
	return nil
}
