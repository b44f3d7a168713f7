package effect

import (
	"sort"

	"chooch-fx/internal/core"
	"chooch-fx/internal/field"
)

// Scheduler steps a set of independent effects once per host frame.
type Scheduler struct {
	effects []*Effect
}

// Add registers an effect. Nil effects (skipped launches) are ignored.
func (s *Scheduler) Add(e *Effect) {
	if e == nil {
		return
	}
	s.effects = append(s.effects, e)
	sort.SliceStable(s.effects, func(i, j int) bool {
		return s.effects[i].Layer().Z < s.effects[j].Layer().Z
	})
}

// Effects lists the running effects, lowest layer first.
func (s *Scheduler) Effects() []*Effect { return s.effects }

// Len returns the number of running effects.
func (s *Scheduler) Len() int { return len(s.effects) }

// Step advances every effect one frame and drops the ones that finished.
func (s *Scheduler) Step() int {
	live := s.effects[:0]
	for _, e := range s.effects {
		e.Step()
		if !e.Done() {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(s.effects); i++ {
		s.effects[i] = nil
	}
	s.effects = live
	return len(live)
}

// Resize forwards a viewport change to every effect.
func (s *Scheduler) Resize(size core.Size) {
	for _, e := range s.effects {
		e.Resize(size)
	}
}

// Emit forwards pointer movement to trail effects.
func (s *Scheduler) Emit(x, y float64, n int) {
	for _, e := range s.effects {
		if e.Kind() == field.KindTrail {
			e.Emit(x, y, n)
		}
	}
}

// Stop detaches every effect.
func (s *Scheduler) Stop() {
	for _, e := range s.effects {
		e.Stop()
	}
	s.effects = nil
}

// Find returns the running effect with the given preset name.
func (s *Scheduler) Find(name string) *Effect {
	for _, e := range s.effects {
		if e.Name() == name {
			return e
		}
	}
	return nil
}
