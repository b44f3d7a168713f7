// Package effect binds particle fields to drawing surfaces and drives them frame by
// frame.
package effect

import (
	"fmt"

	"chooch-fx/internal/core"
	"chooch-fx/internal/field"
	"chooch-fx/internal/render"
)

// Effect is one running particle field painting onto its own surface.
type Effect struct {
	field   *field.Field
	style   *render.Style
	surface render.Surface
	frame   render.Frame
	state   field.State
}

// New compiles the preset, attaches a surface sized to the host viewport and starts
// the field. Hosts without a drawing surface return render.ErrUnsupported.
func New(p field.Preset, host render.Host, rng *core.RNG) (*Effect, error) {
	style, err := render.Compile(&p)
	if err != nil {
		return nil, err
	}
	size := host.Viewport()
	if size.Empty() {
		return nil, render.ErrUnsupported
	}
	f, err := field.New(p, size, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to create field: %w", err)
	}
	surface, err := host.Attach(style.Layer)
	if err != nil {
		return nil, err
	}
	e := &Effect{field: f, style: style, surface: surface}
	e.state = f.Start()
	e.paint()
	return e, nil
}

// Name returns the preset name.
func (e *Effect) Name() string { return e.field.Preset().Name }

// Kind returns the preset kind.
func (e *Effect) Kind() field.Kind { return e.field.Preset().Kind }

// Layer returns the surface layer the effect was attached with.
func (e *Effect) Layer() render.Layer { return e.style.Layer }

// Field exposes the simulated field.
func (e *Effect) Field() *field.Field { return e.field }

// Frame returns the draw commands painted last.
func (e *Effect) Frame() *render.Frame { return &e.frame }

// State returns the summary of the last tick.
func (e *Effect) State() field.State { return e.state }

// Done reports whether the surface was detached.
func (e *Effect) Done() bool { return e.surface == nil }

// Step advances the field one frame and repaints. Once the field is removed the
// surface is detached and later calls do nothing.
func (e *Effect) Step() field.State {
	if e.surface == nil {
		return e.state
	}
	e.state = e.field.Tick()
	if e.state.Phase == field.PhaseRemoved {
		e.Stop()
		return e.state
	}
	e.paint()
	return e.state
}

// Stop detaches the surface immediately.
func (e *Effect) Stop() {
	if e.surface == nil {
		return
	}
	e.surface.Detach()
	e.surface = nil
}

// Resize follows a viewport change. Presets that are not resizable keep their size.
func (e *Effect) Resize(size core.Size) bool {
	if e.surface == nil || !e.field.Resize(size) {
		return false
	}
	e.surface.Resize(size)
	return true
}

// Emit spawns particles at the pointer position.
func (e *Effect) Emit(x, y float64, n int) int {
	if e.surface == nil {
		return 0
	}
	return e.field.Emit(x, y, n)
}

// Parameters implements core.Tunable.
func (e *Effect) Parameters() []core.Parameter { return e.field.Parameters() }

// SetParameter implements core.Tunable. Render settings are recompiled so trail
// alpha changes apply on the next frame.
func (e *Effect) SetParameter(key string, value float64) bool {
	if !e.field.SetParameter(key, value) {
		return false
	}
	if style, err := render.Compile(e.field.Preset()); err == nil {
		e.style = style
	}
	return true
}

func (e *Effect) paint() {
	e.style.Build(e.field, &e.frame)
	e.surface.Paint(&e.frame)
	e.surface.SetOpacity(e.style.Layer.Opacity * e.field.SurfaceAlpha())
}
