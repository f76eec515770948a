package view

import (
	"log/slog"
	"sync"
)

// Registry is the ordered collection of open views. One instance is
// constructed per host and passed by reference to every command entry
// point; there is no package-level registry.
type Registry struct {
	sched *Scheduler

	// mu serializes access to views; async job results arrive from
	// goroutines via the scheduler.
	mu    sync.Mutex
	views []View
}

func NewRegistry(sched *Scheduler) *Registry {
	return &Registry{sched: sched}
}

// Scheduler returns the event queue disposal and job results run on.
func (r *Registry) Scheduler() *Scheduler {
	return r.sched
}

// Add registers a view. Identity is the only uniqueness notion; the same
// view added twice is a caller bug surfaced by Dispose semantics, not here.
func (r *Registry) Add(v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, v)
}

// Dispose removes a view by identity and closes it. Removing an absent
// view is a no-op, so disposal happens exactly once.
func (r *Registry) Dispose(v View) {
	r.mu.Lock()
	removed := r.removeLocked(v.ID())
	r.mu.Unlock()
	if removed {
		slog.Debug("disposing view", slog.String("view", v.ID()))
		v.Close()
	}
}

func (r *Registry) removeLocked(id string) bool {
	for i, existing := range r.views {
		if existing.ID() == id {
			r.views = append(r.views[:i], r.views[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether the view is still registered.
func (r *Registry) Contains(v View) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.views {
		if existing.ID() == v.ID() {
			return true
		}
	}
	return false
}

// Views returns the registered views in registration order.
func (r *Registry) Views() []View {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]View, len(r.views))
	copy(out, r.views)
	return out
}

// CurrentForSurface returns the first view bound to the surface, or nil.
func (r *Registry) CurrentForSurface(id SurfaceID) View {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.views {
		if v.Surface() == id {
			return v
		}
	}
	return nil
}

// SweepStray removes every view whose surface is not in live and schedules
// its disposal hook on the event queue. Removal is synchronous with the
// sweep decision, so a concurrent CurrentForSurface never observes a view
// mid-disposal; the Close itself is deferred a turn because the host's
// surface bookkeeping may not have settled yet. Returns how many views
// were swept.
func (r *Registry) SweepStray(live map[SurfaceID]bool) int {
	r.mu.Lock()
	var stray []View
	kept := r.views[:0]
	for _, v := range r.views {
		if live[v.Surface()] {
			kept = append(kept, v)
		} else {
			stray = append(stray, v)
		}
	}
	r.views = kept
	r.mu.Unlock()

	for _, v := range stray {
		slog.Debug("scheduling stray view disposal",
			slog.String("view", v.ID()),
			slog.Int("surface", int(v.Surface())),
		)
		r.sched.Post(v.Close)
	}
	return len(stray)
}

// PickFallbackSurface chooses where focus should land after a view's
// surface closes: the preferred surface when it exists and is unbound, else
// the first unbound surface, else nothing.
func (r *Registry) PickFallbackSurface(all []SurfaceID, preferred SurfaceID) (SurfaceID, bool) {
	r.mu.Lock()
	bound := make(map[SurfaceID]bool, len(r.views))
	for _, v := range r.views {
		bound[v.Surface()] = true
	}
	r.mu.Unlock()

	preferredExists := false
	for _, s := range all {
		if s == preferred {
			preferredExists = true
			break
		}
	}
	if preferredExists && !bound[preferred] {
		return preferred, true
	}
	for _, s := range all {
		if !bound[s] {
			return s, true
		}
	}
	return 0, false
}

// RunForView executes work off the cooperative loop and posts apply back to
// the event queue. The result is dropped when the view has been disposed in
// the meantime, so a superseded query can never overwrite a dead view's
// state. There is no cancel primitive; superseded work runs to completion
// and its result is discarded here.
func (r *Registry) RunForView(v View, work func() error, apply func(error)) {
	go func() {
		err := work()
		r.sched.Post(func() {
			if !r.Contains(v) {
				slog.Debug("dropping stale result for disposed view", slog.String("view", v.ID()))
				return
			}
			apply(err)
		})
	}()
}
