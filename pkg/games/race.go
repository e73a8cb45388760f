package games

import (
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/samber/lo"
)

// Race is the four-piece track game: each player owns four pieces that start
// at home (-1), enter the track on a roll of six, and race to position 56.
// Four pieces in goal wins. Matches hold 2 to 8 players; empty seats can be
// filled with computer players whose turns auto-advance.
const (
	racePieceHome = -1
	raceGoal      = 56
	raceMinSeats  = 2
	raceMaxSeats  = 8
)

type RacePlayer struct {
	Username     string `json:"username"`
	Pieces       [4]int `json:"pieces"`
	PiecesInGoal int    `json:"piecesInGoal"`
	Computer     bool   `json:"computer"`
	Difficulty   string `json:"difficulty,omitempty"`
}

type RaceMatch struct {
	matchBase
	Players       []RacePlayer `json:"players"`
	MaxPlayers    int          `json:"maxPlayers"`
	CurrentPlayer int          `json:"currentPlayer"`
	DiceRolled    bool         `json:"diceRolled"`
	LastRoll      int          `json:"lastDiceRoll"`
}

func (m *RaceMatch) Kind() Kind { return KindRace }

func (m *RaceMatch) HasPlayer(username string) bool {
	return lo.SomeBy(m.Players, func(p RacePlayer) bool { return p.Username == username && !p.Computer })
}

func (m *RaceMatch) revive() {
	if len(m.Players) >= raceMinSeats {
		m.MatchStatus = StatusPlaying
	} else {
		m.MatchStatus = StatusWaiting
	}
}

func (m *RaceMatch) Snapshot() any {
	snap := *m
	snap.Players = append([]RacePlayer(nil), m.Players...)
	return &snap
}

func newRacePlayer(username string) RacePlayer {
	return RacePlayer{Username: username, Pieces: [4]int{racePieceHome, racePieceHome, racePieceHome, racePieceHome}}
}

// CreateRace opens a race match. Computer seats are filled immediately so a
// single player can start against fillers.
func (w *World) CreateRace(username string, maxPlayers int, computers int, difficulty string) any {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	if maxPlayers < raceMinSeats {
		maxPlayers = raceMinSeats
	}
	if maxPlayers > raceMaxSeats {
		maxPlayers = raceMaxSeats
	}
	if computers < 0 {
		computers = 0
	}
	if computers > maxPlayers-1 {
		computers = maxPlayers - 1
	}
	if difficulty == "" {
		difficulty = "easy"
	}

	m := &RaceMatch{
		matchBase:  newMatchBase(ulid.Make().String()),
		Players:    []RacePlayer{newRacePlayer(username)},
		MaxPlayers: maxPlayers,
	}
	for i := 0; i < computers; i++ {
		cpu := newRacePlayer(fmt.Sprintf("cpu-%d", i+1))
		cpu.Computer = true
		cpu.Difficulty = difficulty
		m.Players = append(m.Players, cpu)
	}
	w.Race[m.MatchID] = m
	return m.Snapshot()
}

func (w *World) ListRace() []any {
	w.Mutex.RLock()
	defer w.Mutex.RUnlock()
	out := make([]any, 0, len(w.Race))
	for _, m := range w.Race {
		out = append(out, m.Snapshot())
	}
	return out
}

func (w *World) JoinRace(id string, username string) (any, error) {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	m, ok := w.Race[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	if m.HasPlayer(username) {
		if m.MatchStatus == StatusAbandoned {
			w.reviveLocked(m)
		}
		return m.Snapshot(), nil
	}
	if m.MatchStatus != StatusWaiting {
		return nil, ErrNotJoinable
	}
	if len(m.Players) >= m.MaxPlayers {
		return nil, ErrMatchFull
	}
	m.Players = append(m.Players, newRacePlayer(username))
	m.bump()
	return m.Snapshot(), nil
}

func (w *World) StartRace(id string, username string) (any, error) {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	m, ok := w.Race[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	if !m.HasPlayer(username) {
		return nil, ErrNotParticipant
	}
	if m.MatchStatus != StatusWaiting {
		return nil, ErrNotPlaying
	}
	if len(m.Players) < raceMinSeats {
		return nil, ErrNotEnoughPlayers
	}
	m.MatchStatus = StatusPlaying
	m.bump()
	return m.Snapshot(), nil
}

// RollRace rolls the dice for the acting player. When the roll leaves no
// movable piece the turn passes immediately; otherwise the player must move
// a piece before rolling again.
func (w *World) RollRace(id string, username string) (any, error) {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	m, ok := w.Race[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	if !m.HasPlayer(username) {
		return nil, ErrNotParticipant
	}
	if m.MatchStatus != StatusPlaying {
		return nil, ErrNotPlaying
	}
	idx := racePlayerIndex(m, username)
	if idx != m.CurrentPlayer {
		return nil, ErrNotYourTurn
	}
	if m.DiceRolled {
		return nil, ErrAlreadyRolled
	}

	m.LastRoll = w.dice()
	m.DiceRolled = true
	if !hasMovablePiece(&m.Players[idx], m.LastRoll) {
		m.DiceRolled = false
		m.CurrentPlayer = (m.CurrentPlayer + 1) % len(m.Players)
		w.autoplayRaceLocked(m)
	}
	m.bump()
	return m.Snapshot(), nil
}

// MoveRacePiece advances one of the roller's pieces by the last roll. A six
// may instead release a home piece onto the track and grants another roll.
func (w *World) MoveRacePiece(id string, username string, piece int) (any, error) {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	m, ok := w.Race[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	if !m.HasPlayer(username) {
		return nil, ErrNotParticipant
	}
	if m.MatchStatus != StatusPlaying {
		return nil, ErrNotPlaying
	}
	idx := racePlayerIndex(m, username)
	if idx != m.CurrentPlayer {
		return nil, ErrNotYourTurn
	}
	if !m.DiceRolled {
		return nil, ErrRollFirst
	}
	if err := applyRaceMove(m, idx, piece, m.LastRoll); err != nil {
		return nil, err
	}
	w.autoplayRaceLocked(m)
	m.bump()
	return m.Snapshot(), nil
}

// applyRaceMove mutates the match for one validated move: release from home
// on a six, advance capped at the goal, count goals, settle the win, and
// hand the turn on (a six keeps it).
func applyRaceMove(m *RaceMatch, idx int, piece int, roll int) error {
	if piece < 0 || piece >= len(m.Players[idx].Pieces) {
		return ErrIllegalMove
	}
	p := &m.Players[idx]
	pos := p.Pieces[piece]
	switch {
	case pos == racePieceHome:
		if roll != 6 {
			return ErrIllegalMove
		}
		p.Pieces[piece] = 0
	case pos >= raceGoal:
		return ErrIllegalMove
	default:
		next := pos + roll
		if next > raceGoal {
			next = raceGoal
		}
		p.Pieces[piece] = next
		if next == raceGoal {
			p.PiecesInGoal++
		}
	}

	if p.PiecesInGoal == len(p.Pieces) {
		m.MatchStatus = StatusFinished
		m.Winner = p.Username
		m.DiceRolled = false
		return nil
	}

	m.DiceRolled = false
	if roll != 6 {
		m.CurrentPlayer = (m.CurrentPlayer + 1) % len(m.Players)
	}
	return nil
}

// autoplayRaceLocked advances computer-held turns: roll, move the first
// movable piece, repeat while the turn stays with a filler. The difficulty
// tag only labels the filler; there is no deeper decision-making.
func (w *World) autoplayRaceLocked(m *RaceMatch) {
	for steps := 0; steps < 128; steps++ {
		if m.MatchStatus != StatusPlaying {
			return
		}
		cpu := &m.Players[m.CurrentPlayer]
		if !cpu.Computer {
			return
		}
		roll := w.dice()
		piece := -1
		for i, pos := range cpu.Pieces {
			if pos == racePieceHome && roll == 6 {
				piece = i
				break
			}
			if pos >= 0 && pos < raceGoal {
				piece = i
				break
			}
		}
		if piece == -1 {
			m.CurrentPlayer = (m.CurrentPlayer + 1) % len(m.Players)
			continue
		}
		idx := m.CurrentPlayer
		m.LastRoll = roll
		m.DiceRolled = true
		if err := applyRaceMove(m, idx, piece, roll); err != nil {
			// No legal move for the picked piece; pass the turn on.
			m.DiceRolled = false
			m.CurrentPlayer = (m.CurrentPlayer + 1) % len(m.Players)
		}
	}
}

func racePlayerIndex(m *RaceMatch, username string) int {
	_, idx, _ := lo.FindIndexOf(m.Players, func(p RacePlayer) bool {
		return p.Username == username && !p.Computer
	})
	return idx
}

func hasMovablePiece(p *RacePlayer, roll int) bool {
	for _, pos := range p.Pieces {
		if pos == racePieceHome && roll == 6 {
			return true
		}
		if pos >= 0 && pos < raceGoal {
			return true
		}
	}
	return false
}
