// Package games hosts the four in-memory turn-based match engines (chess,
// four-piece race, 3x3 grid, shedding cards) behind a shared lifecycle:
// create -> join -> play -> finished/draw, with abandonment on disconnect.
// Nothing here is persisted; a process restart forfeits every match.
package games

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

type Kind string

const (
	KindChess Kind = "chess"
	KindRace  Kind = "race"
	KindGrid  Kind = "grid"
	KindCards Kind = "cards"
)

type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusPlaying   Status = "playing"
	StatusFinished  Status = "finished"
	StatusDraw      Status = "draw"
	StatusAbandoned Status = "abandoned"
)

// Terminal reports whether the status ends the match. Abandoned is terminal
// too, except that a timely rejoin may revive the match before it is swept.
func (s Status) Terminal() bool {
	return s == StatusFinished || s == StatusDraw || s == StatusAbandoned
}

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrNotParticipant   = errors.New("not a participant in this match")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrMatchFull        = errors.New("match is full")
	ErrNotJoinable      = errors.New("match can no longer be joined")
	ErrNotPlaying       = errors.New("match is not in play")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrIllegalMove      = errors.New("illegal move")
	ErrAlreadyRolled    = errors.New("dice already rolled this turn")
	ErrRollFirst        = errors.New("roll the dice first")
	ErrDeckExhausted    = errors.New("draw deck exhausted")
)

// Match is the lifecycle contract shared by all four variants.
type Match interface {
	ID() string
	Kind() Kind
	Status() Status
	CreatedAt() time.Time
	HasPlayer(username string) bool
	Snapshot() any

	abandon()
	revive()
	bump()
}

// matchBase carries the fields every variant shares.
type matchBase struct {
	MatchID     string    `json:"id"`
	MatchStatus Status    `json:"status"`
	Seq         uint64    `json:"seq"`
	Created     time.Time `json:"createdAt"`
	Winner      string    `json:"winner,omitempty"`
}

func newMatchBase(id string) matchBase {
	return matchBase{MatchID: id, MatchStatus: StatusWaiting, Created: time.Now()}
}

func (m *matchBase) ID() string           { return m.MatchID }
func (m *matchBase) Status() Status       { return m.MatchStatus }
func (m *matchBase) CreatedAt() time.Time { return m.Created }
func (m *matchBase) abandon()             { m.MatchStatus = StatusAbandoned }

// bump advances the match revision. Every accepted mutation increments it
// while the world mutex is held, so snapshots carry a total order even when
// their fan-out lands out of order; a subscriber keeps the highest revision
// it has seen and drops the rest.
func (m *matchBase) bump() { m.Seq++ }

// World owns every live match plus the deferred-deletion timers. All reads
// and writes go through its mutex; handlers re-validate match preconditions
// under the lock before mutating, so a match that changed hands between a
// lookup and an action is re-checked rather than trusted.
type World struct {
	Mutex sync.RWMutex

	Chess map[string]*ChessMatch
	Race  map[string]*RaceMatch
	Grid  map[string]*GridMatch
	Cards map[string]*CardsMatch

	timers map[string]*time.Timer
	grace  time.Duration
	rng    *rand.Rand
	dice   func() int
}

func NewWorld() *World {
	w := &World{
		Chess:  make(map[string]*ChessMatch),
		Race:   make(map[string]*RaceMatch),
		Grid:   make(map[string]*GridMatch),
		Cards:  make(map[string]*CardsMatch),
		timers: make(map[string]*time.Timer),
		grace:  5 * time.Minute,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	w.dice = func() int { return w.rng.Intn(6) + 1 }
	return w
}

// findLocked looks a match up across all four containers. Callers hold the
// world mutex.
func (w *World) findLocked(id string) Match {
	if m, ok := w.Chess[id]; ok {
		return m
	}
	if m, ok := w.Race[id]; ok {
		return m
	}
	if m, ok := w.Grid[id]; ok {
		return m
	}
	if m, ok := w.Cards[id]; ok {
		return m
	}
	return nil
}

func (w *World) deleteLocked(id string) {
	delete(w.Chess, id)
	delete(w.Race, id)
	delete(w.Grid, id)
	delete(w.Cards, id)
	if t, ok := w.timers[id]; ok {
		t.Stop()
		delete(w.timers, id)
	}
}

func (w *World) allLocked() []Match {
	all := make([]Match, 0, len(w.Chess)+len(w.Race)+len(w.Grid)+len(w.Cards))
	for _, m := range w.Chess {
		all = append(all, m)
	}
	for _, m := range w.Race {
		all = append(all, m)
	}
	for _, m := range w.Grid {
		all = append(all, m)
	}
	for _, m := range w.Cards {
		all = append(all, m)
	}
	return all
}

// Find returns the match with the given ID regardless of variant, or nil.
func (w *World) Find(id string) Match {
	w.Mutex.RLock()
	defer w.Mutex.RUnlock()
	return w.findLocked(id)
}

// reviveLocked undoes an abandonment when a participant rejoins within the
// grace window: the pending deletion is cancelled and the match resumes.
func (w *World) reviveLocked(m Match) {
	w.cancelDeletionLocked(m.ID())
	m.revive()
	m.bump()
}
