package term

import (
	"context"
	"time"

	"chooch-fx/internal/core"
	"chooch-fx/internal/effect"
	"chooch-fx/internal/render"

	"github.com/gdamore/tcell/v2"
)

// Options controls the terminal loop.
type Options struct {
	TPS int
	// ExitWhenIdle stops the loop once every effect finished.
	ExitWhenIdle bool
	// TrailRate is the number of particles emitted per mouse event.
	TrailRate int
}

// Run drives the scheduler until ctx is cancelled, Escape or Ctrl-C is pressed, or
// (with ExitWhenIdle) no effect is left.
func Run(ctx context.Context, screen tcell.Screen, host *Host, sched *effect.Scheduler, opts Options) error {
	if opts.TrailRate <= 0 {
		opts.TrailRate = 2
	}
	step := core.NewFixedStep(opts.TPS)
	ticker := time.NewTicker(step.Interval())
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !handleEvent(ev, screen, host, sched, opts) {
				return nil
			}
		case now := <-ticker.C:
			for n := step.Advance(now); n > 0; n-- {
				sched.Step()
			}
			host.Draw(titles(sched))
			if opts.ExitWhenIdle && sched.Len() == 0 {
				return nil
			}
		}
	}
}

func handleEvent(ev tcell.Event, screen tcell.Screen, host *Host, sched *effect.Scheduler, opts Options) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
	case *tcell.EventResize:
		screen.Sync()
		sched.Resize(host.Viewport())
	case *tcell.EventMouse:
		x, y := ev.Position()
		k := host.scale
		sched.Emit((float64(x)+0.5)*k, (float64(y)*2+1)*k, opts.TrailRate)
	}
	return true
}

func titles(sched *effect.Scheduler) []*render.Title {
	var out []*render.Title
	for _, e := range sched.Effects() {
		if t := e.Frame().Title; t != nil {
			out = append(out, t)
		}
	}
	return out
}
