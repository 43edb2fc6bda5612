package service

import (
	"strings"
	"sync"
)

// SelectionGuard tracks which legislation an official currently has
// selected. Each selection bumps a generation counter; work started under
// an older generation is stale and its result must be discarded.
type SelectionGuard struct {
	mu         sync.Mutex
	generation uint64
	selected   string
	shown      *Report
}

// Ticket is captured when work starts and checked when it completes
type Ticket struct {
	guard         *SelectionGuard
	generation    uint64
	LegislationID string
}

// Select records a new selection and returns its ticket. A nil guard hands
// out tickets that never go stale. The id is copied since callers may pass
// strings that alias a reused request buffer.
func (g *SelectionGuard) Select(legislationID string) Ticket {
	legislationID = strings.Clone(legislationID)
	if g == nil {
		return Ticket{LegislationID: legislationID}
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	g.generation++
	g.selected = legislationID
	g.shown = nil
	return Ticket{guard: g, generation: g.generation, LegislationID: legislationID}
}

// Selected returns the legislation currently selected
func (g *SelectionGuard) Selected() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selected
}

// keep records r as the report shown for t's selection. It is dropped when
// a newer selection has been made.
func (t Ticket) keep(r *Report) {
	if t.guard == nil {
		return
	}
	t.guard.mu.Lock()
	defer t.guard.mu.Unlock()
	if t.guard.generation == t.generation {
		t.guard.shown = r
	}
}

// Shown returns the last report completed for the current selection when it
// covers legislationID, or nil.
func (g *SelectionGuard) Shown(legislationID string) *Report {
	if g == nil {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.shown == nil || g.shown.LegislationID != legislationID {
		return nil
	}
	return g.shown
}

// Current reports whether no newer selection has been made since t was issued
func (t Ticket) Current() bool {
	if t.guard == nil {
		return true
	}
	t.guard.mu.Lock()
	defer t.guard.mu.Unlock()
	return t.guard.generation == t.generation
}

// GuardRegistry hands out one SelectionGuard per official
type GuardRegistry struct {
	mu     sync.Mutex
	guards map[string]*SelectionGuard
}

// NewGuardRegistry creates an empty registry
func NewGuardRegistry() *GuardRegistry {
	return &GuardRegistry{guards: make(map[string]*SelectionGuard)}
}

// For returns the guard for subject, creating it on first use
func (r *GuardRegistry) For(subject string) *SelectionGuard {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.guards[subject]
	if !ok {
		g = &SelectionGuard{}
		r.guards[subject] = g
	}
	return g
}
