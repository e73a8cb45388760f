package games

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/samber/lo"
)

// Piece codes are single letters, uppercase for white and lowercase for
// black. Move legality here is deliberately shallow: bounds, a non-empty
// origin, and piece ownership by letter case. Check, pins, castling,
// en passant and promotion are not enforced, and the checkmate/stalemate
// detectors below always report false, so in practice a chess match ends by
// resignation or abandonment.
const (
	ColorWhite = "white"
	ColorBlack = "black"
)

type ChessPlayer struct {
	Username string `json:"username"`
	Color    string `json:"color"`
}

type ChessMatch struct {
	matchBase
	Players []ChessPlayer `json:"players"`
	Board   [8][8]string  `json:"board"`
	Turn    string        `json:"turn"`
	Moves   []string      `json:"moves"`
}

func (m *ChessMatch) Kind() Kind { return KindChess }

func (m *ChessMatch) HasPlayer(username string) bool {
	return lo.SomeBy(m.Players, func(p ChessPlayer) bool { return p.Username == username })
}

func (m *ChessMatch) revive() {
	if len(m.Players) >= 2 {
		m.MatchStatus = StatusPlaying
	} else {
		m.MatchStatus = StatusWaiting
	}
}

func (m *ChessMatch) Snapshot() any {
	snap := *m
	snap.Players = append([]ChessPlayer(nil), m.Players...)
	snap.Moves = append([]string(nil), m.Moves...)
	return &snap
}

func (m *ChessMatch) playerColor(username string) string {
	for _, p := range m.Players {
		if p.Username == username {
			return p.Color
		}
	}
	return ""
}

func initialBoard() [8][8]string {
	var board [8][8]string
	back := [8]string{"r", "n", "b", "q", "k", "b", "n", "r"}
	for col := 0; col < 8; col++ {
		board[0][col] = back[col]
		board[1][col] = "p"
		board[6][col] = "P"
		board[7][col] = strings.ToUpper(back[col])
	}
	return board
}

func pieceColor(piece string) string {
	if piece == "" {
		return ""
	}
	if strings.ToUpper(piece) == piece {
		return ColorWhite
	}
	return ColorBlack
}

// squareName renders a board coordinate in file-rank form, row 0 being
// black's back rank.
func squareName(row int, col int) string {
	return fmt.Sprintf("%c%d", 'a'+col, 8-row)
}

func (w *World) CreateChess(username string) any {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	m := &ChessMatch{
		matchBase: newMatchBase(ulid.Make().String()),
		Players:   []ChessPlayer{{Username: username, Color: ColorWhite}},
		Board:     initialBoard(),
		Turn:      ColorWhite,
	}
	w.Chess[m.MatchID] = m
	return m.Snapshot()
}

func (w *World) ListChess() []any {
	w.Mutex.RLock()
	defer w.Mutex.RUnlock()
	out := make([]any, 0, len(w.Chess))
	for _, m := range w.Chess {
		out = append(out, m.Snapshot())
	}
	return out
}

func (w *World) JoinChess(id string, username string) (any, error) {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	m, ok := w.Chess[id]
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
	m.Players = append(m.Players, ChessPlayer{Username: username, Color: ColorBlack})
	m.bump()
	return m.Snapshot(), nil
}

func (w *World) StartChess(id string, username string) (any, error) {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	m, ok := w.Chess[id]
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

// MoveChess applies a move after the shallow legality check and flips the
// turn. One accepted move mutates the match exactly once.
func (w *World) MoveChess(id string, username string, fromRow, fromCol, toRow, toCol int) (any, error) {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	m, ok := w.Chess[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	if !m.HasPlayer(username) {
		return nil, ErrNotParticipant
	}
	if m.MatchStatus != StatusPlaying {
		return nil, ErrNotPlaying
	}
	color := m.playerColor(username)
	if color != m.Turn {
		return nil, ErrNotYourTurn
	}
	if !onBoard(fromRow, fromCol) || !onBoard(toRow, toCol) {
		return nil, ErrIllegalMove
	}
	piece := m.Board[fromRow][fromCol]
	if piece == "" {
		return nil, ErrIllegalMove
	}
	if pieceColor(piece) != color {
		return nil, ErrIllegalMove
	}
	if fromRow == toRow && fromCol == toCol {
		return nil, ErrIllegalMove
	}

	m.Board[toRow][toCol] = piece
	m.Board[fromRow][fromCol] = ""
	m.Moves = append(m.Moves, squareName(fromRow, fromCol)+squareName(toRow, toCol))

	if m.isCheckmate() {
		m.MatchStatus = StatusFinished
		m.Winner = username
	} else if m.isStalemate() {
		m.MatchStatus = StatusDraw
	} else if m.Turn == ColorWhite {
		m.Turn = ColorBlack
	} else {
		m.Turn = ColorWhite
	}
	m.bump()
	return m.Snapshot(), nil
}

// ResignChess ends the match in favour of the opponent.
func (w *World) ResignChess(id string, username string) (any, error) {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()

	m, ok := w.Chess[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	if !m.HasPlayer(username) {
		return nil, ErrNotParticipant
	}
	if m.MatchStatus != StatusPlaying {
		return nil, ErrNotPlaying
	}
	m.MatchStatus = StatusFinished
	for _, p := range m.Players {
		if p.Username != username {
			m.Winner = p.Username
		}
	}
	m.bump()
	return m.Snapshot(), nil
}

func onBoard(row int, col int) bool {
	return row >= 0 && row < 8 && col >= 0 && col < 8
}

// isCheckmate always reports false. Detecting mate needs full legality
// (check, pins, escapes), which this engine intentionally omits.
func (m *ChessMatch) isCheckmate() bool { return false }

// isStalemate always reports false, for the same reason as isCheckmate.
func (m *ChessMatch) isStalemate() bool { return false }
