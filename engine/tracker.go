package engine

import (
	"sort"
	"sync"
)

// Tracker holds the completed-interaction set for the current user+video.
// The server is the source of truth: Load replaces the server-side view,
// while optimistic local marks (correct verdicts, skips) survive reloads
// until the server catches up.
type Tracker struct {
	mu          sync.RWMutex
	server      map[string]bool
	local       map[string]bool
	localPoints map[string]int
	stats       ProgressStats
}

func NewTracker() *Tracker {
	return &Tracker{
		server:      make(map[string]bool),
		local:       make(map[string]bool),
		localPoints: make(map[string]int),
	}
}

// Load replaces the server-side completed set from a progress snapshot.
func (t *Tracker) Load(snap ProgressSnapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.server = make(map[string]bool, len(snap.Items))
	for _, item := range snap.Items {
		if item.Completed {
			t.server[item.InteractionID] = true
		}
	}
	t.stats = snap.Stats

	// Drop local marks the server now knows about.
	for id := range t.local {
		if t.server[id] {
			delete(t.local, id)
			delete(t.localPoints, id)
		}
	}
}

// MarkCompleted records a correct resolution optimistically, ahead of the
// server refetch.
func (t *Tracker) MarkCompleted(id string, points int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.server[id] && !t.local[id] {
		t.local[id] = true
		t.localPoints[id] = points
	}
}

// MarkSkipped records a non-mandatory skip. Skips count as completed but
// never earn points and are not reported to the server.
func (t *Tracker) MarkSkipped(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.server[id] {
		t.local[id] = true
	}
}

func (t *Tracker) Has(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.server[id] || t.local[id]
}

// Completed returns the merged completed-ID set, sorted for stable output.
func (t *Tracker) Completed() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]string, 0, len(t.server)+len(t.local))
	for id := range t.server {
		ids = append(ids, id)
	}
	for id := range t.local {
		if !t.server[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := len(t.server)
	for id := range t.local {
		if !t.server[id] {
			n++
		}
	}
	return n
}

// Points returns the server-reported points plus optimistic local ones.
func (t *Tracker) Points() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	points := t.stats.Points
	for id, p := range t.localPoints {
		if !t.server[id] {
			points += p
		}
	}
	return points
}

func (t *Tracker) Total() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stats.Total
}

// Clear wipes both server and local views (used by progress reset).
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.server = make(map[string]bool)
	t.local = make(map[string]bool)
	t.localPoints = make(map[string]int)
	t.stats = ProgressStats{Total: t.stats.Total}
}
