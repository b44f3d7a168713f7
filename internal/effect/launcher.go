package effect

import (
	"errors"
	"fmt"
	"log"

	"chooch-fx/internal/core"
	"chooch-fx/internal/field"
	"chooch-fx/internal/render"
	"chooch-fx/internal/session"
)

// Launcher creates effects on a host, gating entrance effects through the session
// store.
type Launcher struct {
	host  render.Host
	store session.Store
	rng   *core.RNG

	// Overrides are key=value tunables applied to every launched preset.
	Overrides map[string]string

	warned bool
}

// NewLauncher wires a launcher. A nil rng selects an unseeded source; a nil store
// disables gating.
func NewLauncher(host render.Host, store session.Store, rng *core.RNG) *Launcher {
	if rng == nil {
		rng = core.NewUnseeded()
	}
	return &Launcher{host: host, store: store, rng: rng}
}

// Launch starts the registered preset called name. A nil effect with a nil error means
// the effect was skipped: already played this session, or no drawing surface.
func (l *Launcher) Launch(name string) (*Effect, error) {
	p, ok := field.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown effect %q", name)
	}
	return l.LaunchPreset(p)
}

// LaunchPreset starts p. See Launch for the skip semantics.
func (l *Launcher) LaunchPreset(p field.Preset) (*Effect, error) {
	if len(l.Overrides) > 0 {
		p = field.FromMap(p, l.Overrides)
	}
	if l.host == nil || l.host.Viewport().Empty() {
		l.unsupported(p.Name, render.ErrUnsupported)
		return nil, nil
	}
	// An invalid preset must not consume the once-per-session flag.
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", p.Name, err)
	}
	if _, err := render.Compile(&p); err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", p.Name, err)
	}
	if p.Kind == field.KindEntrance && !session.Gate(l.store, p.SessionKey) {
		log.Printf("[Launcher] %s already played this session", p.Name)
		return nil, nil
	}
	e, err := New(p, l.host, core.NewRNG(l.rng.Int64()))
	if errors.Is(err, render.ErrUnsupported) {
		l.unsupported(p.Name, err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", p.Name, err)
	}
	log.Printf("[Launcher] Started %s (layer %d, %d particles)", p.Name, p.Layer, e.Field().Live())
	return e, nil
}

func (l *Launcher) unsupported(name string, err error) {
	if l.warned {
		return
	}
	l.warned = true
	log.Printf("[Launcher] Skipping %s: %v", name, err)
}
