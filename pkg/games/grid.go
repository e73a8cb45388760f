package games

import (
	"github.com/oklog/ulid/v2"
	"github.com/samber/lo"
)

// Grid is the 3x3 symbol game. The creator plays X, the joiner plays O.
const (
	SymbolX = "X"
	SymbolO = "O"
)

// The eight winning triples: three rows, three columns, two diagonals.
var gridTriples = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

type GridPlayer struct {
	Username string `json:"username"`
	Symbol   string `json:"symbol"`
}

type GridMatch struct {
	matchBase
	Players       []GridPlayer `json:"players"`
	Board         [9]string    `json:"board"`
	CurrentPlayer string       `json:"currentPlayer"`
}

func (m *GridMatch) Kind() Kind { return KindGrid }

func (m *GridMatch) HasPlayer(username string) bool {
	return lo.SomeBy(m.Players, func(p GridPlayer) bool { return p.Username == username })
}

func (m *GridMatch) revive() {
	if len(m.Players) >= 2 {
		m.MatchStatus = StatusPlaying
	} else {
		m.MatchStatus = StatusWaiting
	}
}

func (m *GridMatch) Snapshot() any {
	snap := *m
	snap.Players = append([]GridPlayer(nil), m.Players...)
	return &snap
}

func (m *GridMatch) playerSymbol(username string) string {
	for _, p := range m.Players {
		if p.Username == username {
			return p.Symbol
		}
	}
	return ""
}

func (w *World) CreateGrid(username string) any {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	m := &GridMatch{
		matchBase:     newMatchBase(ulid.Make().String()),
		Players:       []GridPlayer{{Username: username, Symbol: SymbolX}},
		CurrentPlayer: SymbolX,
	}
	w.Grid[m.MatchID] = m
	return m.Snapshot()
}

func (w *World) ListGrid() []any {
	w.Mutex.RLock()
	defer w.Mutex.RUnlock()
	out := make([]any, 0, len(w.Grid))
	for _, m := range w.Grid {
		out = append(out, m.Snapshot())
	}
	return out
}

func (w *World) JoinGrid(id string, username string) (any, error) {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	m, ok := w.Grid[id]
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
	if len(m.Players) >= 2 {
		return nil, ErrMatchFull
	}
	m.Players = append(m.Players, GridPlayer{Username: username, Symbol: SymbolO})
	m.bump()
	return m.Snapshot(), nil
}

func (w *World) StartGrid(id string, username string) (any, error) {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	m, ok := w.Grid[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	if !m.HasPlayer(username) {
		return nil, ErrNotParticipant
	}
	if m.MatchStatus != StatusWaiting {
		return nil, ErrNotPlaying
	}
	if len(m.Players) < 2 {
		return nil, ErrNotEnoughPlayers
	}
	m.MatchStatus = StatusPlaying
	m.bump()
	return m.Snapshot(), nil
}

// MoveGrid places the actor's symbol on an empty cell, then settles win,
// draw, or turn change.
func (w *World) MoveGrid(id string, username string, cell int) (any, error) {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	m, ok := w.Grid[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	if !m.HasPlayer(username) {
		return nil, ErrNotParticipant
	}
	if m.MatchStatus != StatusPlaying {
		return nil, ErrNotPlaying
	}
	symbol := m.playerSymbol(username)
	if symbol != m.CurrentPlayer {
		return nil, ErrNotYourTurn
	}
	if cell < 0 || cell >= len(m.Board) {
		return nil, ErrIllegalMove
	}
	if m.Board[cell] != "" {
		return nil, ErrIllegalMove
	}

	m.Board[cell] = symbol
	switch {
	case gridWinner(m.Board) == symbol:
		m.MatchStatus = StatusFinished
		m.Winner = username
	case gridFull(m.Board):
		m.MatchStatus = StatusDraw
	case symbol == SymbolX:
		m.CurrentPlayer = SymbolO
	default:
		m.CurrentPlayer = SymbolX
	}
	m.bump()
	return m.Snapshot(), nil
}

func gridWinner(board [9]string) string {
	for _, t := range gridTriples {
		if board[t[0]] != "" && board[t[0]] == board[t[1]] && board[t[1]] == board[t[2]] {
			return board[t[0]]
		}
	}
	return ""
}

func gridFull(board [9]string) bool {
	for _, cell := range board {
		if cell == "" {
			return false
		}
	}
	return true
}
