package game

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Runner drives a table's automatic steps, waiting each step's delay on its
// clock so a presentation can show cards arriving one by one.
type Runner struct {
	clock  quartz.Clock
	logger *log.Logger

	mu     sync.Mutex
	active map[*Table]struct{}
}

func NewRunner(clock quartz.Clock, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		clock:  clock,
		logger: logger,
		active: make(map[*Table]struct{}),
	}
}

// Run advances t until no automatic step remains, calling notify with a fresh
// snapshot after each one. Only one Run drives a table at a time: a call made
// while another is driving t returns nil at once and the driving call picks
// up any steps queued meanwhile. On cancellation the table keeps its phase and
// a later Run resumes where this one stopped.
func (r *Runner) Run(ctx context.Context, t *Table, notify func(View)) error {
	for r.acquire(t) {
		err := r.drive(ctx, t, notify)
		r.release(t)
		if err != nil {
			return err
		}
		// a command accepted while we held t may have found it busy
		if _, pending := t.NextStep(); !pending {
			return nil
		}
	}
	return nil
}

func (r *Runner) acquire(t *Table) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.active[t]; ok {
		return false
	}
	r.active[t] = struct{}{}
	return true
}

func (r *Runner) release(t *Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, t)
}

func (r *Runner) drive(ctx context.Context, t *Table, notify func(View)) error {
	for {
		step, ok := t.NextStep()
		if !ok {
			return nil
		}

		if step.Delay > 0 {
			timer := r.clock.NewTimer(step.Delay, "runner", step.Kind.String())
			select {
			case <-ctx.Done():
				timer.Stop()
				r.logger.Debug("runner cancelled", "pending", step.Kind)
				return ctx.Err()
			case <-timer.C:
			}
		}

		if !t.Advance() {
			return nil
		}
		if notify != nil {
			notify(t.Snapshot())
		}
	}
}

// RunSync performs every pending step immediately.
func RunSync(t *Table) int {
	steps := 0
	for t.Advance() {
		steps++
	}
	return steps
}
