package app

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"chooch-fx/internal/field"
	"chooch-fx/internal/session"
)

func TestBindParsesFlags(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("fx", flag.ContinueOnError)
	cfg.Bind(fs)
	err := fs.Parse([]string{
		"-effects", " vapor-cloud , ambient,",
		"-seed", "7",
		"-set", "burst=20",
		"-set", "sway = 1.5",
		"-set", "broken",
		"-width", "320",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	names := cfg.EffectNames()
	if len(names) != 2 || names[0] != "vapor-cloud" || names[1] != "ambient" {
		t.Fatalf("unexpected effects %v", names)
	}
	overrides := cfg.Overrides()
	if len(overrides) != 2 || overrides["burst"] != "20" || overrides["sway"] != "1.5" {
		t.Fatalf("unexpected overrides %v", overrides)
	}
	if cfg.Size().W != 320 || cfg.Size().H != 600 {
		t.Fatalf("unexpected size %+v", cfg.Size())
	}
	a, b := cfg.RNG(), cfg.RNG()
	if a.Float64() != b.Float64() {
		t.Fatalf("seeded RNGs should agree")
	}
}

func TestLoadPresetsRejectsUnknownEffect(t *testing.T) {
	cfg := NewConfig()
	cfg.Effects = "ambient,fireworks"
	if err := cfg.LoadPresets(); err == nil {
		t.Fatalf("expected unknown effect error")
	}
}

func TestLoadPresetsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	doc := "presets:\n  dust:\n    kind: ambient\n    burst: 5\n    targetCount: 5\n    seed:\n      geometry: scatter\n      maxAge: {min: 60, max: 60}\n    render:\n      clear: full\n      composite: lighter\n      palettes:\n        - - {offset: 0, color: \"#ffffff\", alpha: 1}\n          - {offset: 0.5, color: \"#ffffff\", alpha: 0.5}\n          - {offset: 1, color: \"#ffffff\", alpha: 0}\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := NewConfig()
	cfg.Presets = path
	cfg.Effects = "dust"
	if err := cfg.LoadPresets(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if p, ok := field.Lookup("dust"); !ok || p.Burst != 5 {
		t.Fatalf("dust preset not registered: %+v", p)
	}
}

func TestOpenStore(t *testing.T) {
	cfg := NewConfig()
	store, err := cfg.OpenStore()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := store.(*session.Memory); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}
	cfg.Store = "cookies"
	if _, err := cfg.OpenStore(); err == nil {
		t.Fatalf("expected error for unknown store")
	}
}
