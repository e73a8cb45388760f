package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedChess(t *testing.T, w *World) *ChessMatch {
	t.Helper()
	snap := w.CreateChess("alice").(*ChessMatch)
	_, err := w.JoinChess(snap.MatchID, "bob")
	require.NoError(t, err)
	_, err = w.StartChess(snap.MatchID, "alice")
	require.NoError(t, err)
	return w.Chess[snap.MatchID]
}

func TestChessInitialBoard(t *testing.T) {
	board := initialBoard()
	assert.Equal(t, "r", board[0][0])
	assert.Equal(t, "k", board[0][4])
	assert.Equal(t, "p", board[1][3])
	assert.Equal(t, "P", board[6][3])
	assert.Equal(t, "K", board[7][4])
	assert.Equal(t, "", board[4][4])
}

func TestChessMoveAlternatesTurns(t *testing.T) {
	w := NewWorld()
	m := startedChess(t, w)
	assert.Equal(t, ColorWhite, m.Turn)

	// White pawn e2-e4.
	_, err := w.MoveChess(m.MatchID, "alice", 6, 4, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, ColorBlack, m.Turn)
	assert.Equal(t, "P", m.Board[4][4])
	assert.Equal(t, "", m.Board[6][4])
	assert.Equal(t, []string{"e2e4"}, m.Moves)

	// Black pawn e7-e5.
	_, err = w.MoveChess(m.MatchID, "bob", 1, 4, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, ColorWhite, m.Turn)
	assert.Len(t, m.Moves, 2)
}

func TestChessMoveRejections(t *testing.T) {
	w := NewWorld()
	m := startedChess(t, w)

	cases := []struct {
		name string
		user string
		move [4]int
		want error
	}{
		{"black moves first", "bob", [4]int{1, 0, 2, 0}, ErrNotYourTurn},
		{"off board", "alice", [4]int{6, 0, 8, 0}, ErrIllegalMove},
		{"empty origin", "alice", [4]int{4, 4, 3, 4}, ErrIllegalMove},
		{"opponent piece", "alice", [4]int{1, 0, 2, 0}, ErrIllegalMove},
		{"no-op move", "alice", [4]int{6, 0, 6, 0}, ErrIllegalMove},
		{"outsider", "mallory", [4]int{6, 0, 5, 0}, ErrNotParticipant},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := w.MoveChess(m.MatchID, tc.user, tc.move[0], tc.move[1], tc.move[2], tc.move[3])
			assert.ErrorIs(t, err, tc.want)
		})
	}

	// Nothing mutated, still white to move.
	assert.Equal(t, ColorWhite, m.Turn)
	assert.Empty(t, m.Moves)
	assert.Equal(t, initialBoard(), m.Board)
}

func TestChessResign(t *testing.T) {
	w := NewWorld()
	m := startedChess(t, w)

	_, err := w.ResignChess(m.MatchID, "alice")
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, m.MatchStatus)
	assert.Equal(t, "bob", m.Winner)

	// Terminal matches reject further moves.
	_, err = w.MoveChess(m.MatchID, "bob", 1, 0, 2, 0)
	assert.ErrorIs(t, err, ErrNotPlaying)
}

func TestChessMateDetectionIsAStub(t *testing.T) {
	m := &ChessMatch{}
	assert.False(t, m.isCheckmate())
	assert.False(t, m.isStalemate())
}
