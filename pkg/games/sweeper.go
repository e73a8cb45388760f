package games

import (
	"log"
	"time"

	"github.com/shashanksharma6338/register-live/pkg/metrics"
)

// Abandonment has two reclamation paths on purpose: a per-match deferred
// deletion scheduled at disconnect time, and a coarser periodic sweep. The
// timer covers the common case promptly; the sweep catches matches whose
// timer was lost (or raced with a revive that later abandoned again).

// AbandonAllFor marks every non-terminal match containing the user as
// abandoned and schedules each for deletion after the grace window. It
// returns the affected matches.
func (w *World) AbandonAllFor(username string) []Match {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	var affected []Match
	for _, m := range w.allLocked() {
		if m.Status().Terminal() || !m.HasPlayer(username) {
			continue
		}
		m.abandon()
		m.bump()
		w.scheduleDeletionLocked(m.ID())
		affected = append(affected, m)
	}
	if len(affected) > 0 {
		log.Printf("Abandoned %d matches for departing player %s", len(affected), username)
	}
	return affected
}

// scheduleDeletionLocked arms (or re-arms) the deferred deletion for a
// match. The timer callback re-checks status before deleting, so a revived
// match survives a timer that was already in flight.
func (w *World) scheduleDeletionLocked(id string) {
	if t, ok := w.timers[id]; ok {
		t.Stop()
	}
	w.timers[id] = time.AfterFunc(w.grace, func() {
		w.deleteIfAbandoned(id)
	})
}

func (w *World) cancelDeletionLocked(id string) {
	if t, ok := w.timers[id]; ok {
		t.Stop()
		delete(w.timers, id)
	}
}

func (w *World) deleteIfAbandoned(id string) {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()
	m := w.findLocked(id)
	if m == nil {
		delete(w.timers, id)
		return
	}
	if m.Status() != StatusAbandoned {
		// The match came back to life before the grace window elapsed.
		delete(w.timers, id)
		return
	}
	w.deleteLocked(id)
	metrics.MatchesSwept.Inc()
	log.Printf("Deleted abandoned %s match %s after grace window", m.Kind(), id)
}

// Sweep deletes every abandoned match older than the grace window and
// returns how many were removed.
func (w *World) Sweep() int {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	removed := 0
	for _, m := range w.allLocked() {
		if m.Status() == StatusAbandoned && time.Since(m.CreatedAt()) > w.grace {
			w.deleteLocked(m.ID())
			metrics.MatchesSwept.Inc()
			removed++
		}
	}
	return removed
}

// StartSweeper launches the periodic safety-net sweep.
func (w *World) StartSweeper(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for range ticker.C {
			if n := w.Sweep(); n > 0 {
				log.Printf("Match sweep removed %d abandoned matches", n)
			}
		}
	}()
}
