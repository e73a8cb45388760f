package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedGrid(t *testing.T, w *World) *GridMatch {
	t.Helper()
	snap := w.CreateGrid("alice").(*GridMatch)
	_, err := w.JoinGrid(snap.MatchID, "bob")
	require.NoError(t, err)
	_, err = w.StartGrid(snap.MatchID, "alice")
	require.NoError(t, err)
	return w.Grid[snap.MatchID]
}

func TestGridLifecycle(t *testing.T) {
	w := NewWorld()
	snap := w.CreateGrid("alice").(*GridMatch)
	assert.Equal(t, StatusWaiting, snap.MatchStatus)
	assert.Equal(t, SymbolX, snap.Players[0].Symbol)

	_, err := w.StartGrid(snap.MatchID, "alice")
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)

	_, err = w.JoinGrid(snap.MatchID, "bob")
	require.NoError(t, err)

	_, err = w.JoinGrid(snap.MatchID, "carol")
	assert.ErrorIs(t, err, ErrMatchFull)

	started, err := w.StartGrid(snap.MatchID, "bob")
	require.NoError(t, err)
	assert.Equal(t, StatusPlaying, started.(*GridMatch).MatchStatus)
}

func TestGridTopRowWinScenario(t *testing.T) {
	w := NewWorld()
	m := startedGrid(t, w)

	// X,O,X,O,X at cells 0,4,1,5,2 gives X the top row.
	moves := []struct {
		user string
		cell int
	}{
		{"alice", 0}, {"bob", 4}, {"alice", 1}, {"bob", 5}, {"alice", 2},
	}
	for _, mv := range moves {
		_, err := w.MoveGrid(m.MatchID, mv.user, mv.cell)
		require.NoError(t, err)
	}
	assert.Equal(t, StatusFinished, m.MatchStatus)
	assert.Equal(t, "alice", m.Winner)
}

func TestGridDiagonalAndColumnWins(t *testing.T) {
	for _, triple := range [][3]int{{0, 4, 8}, {2, 4, 6}, {0, 3, 6}} {
		w := NewWorld()
		m := startedGrid(t, w)
		m.Board = [9]string{}
		for _, cell := range triple {
			m.Board[cell] = SymbolX
		}
		assert.Equal(t, SymbolX, gridWinner(m.Board), "triple %v", triple)
	}
}

func TestGridDraw(t *testing.T) {
	w := NewWorld()
	m := startedGrid(t, w)

	// X X O / O O X / X X O has no winning triple.
	order := []struct {
		user string
		cell int
	}{
		{"alice", 0}, {"bob", 2}, {"alice", 1}, {"bob", 3}, {"alice", 5},
		{"bob", 4}, {"alice", 6}, {"bob", 8}, {"alice", 7},
	}
	for _, mv := range order {
		_, err := w.MoveGrid(m.MatchID, mv.user, mv.cell)
		require.NoError(t, err)
	}
	assert.Equal(t, StatusDraw, m.MatchStatus)
	assert.Empty(t, m.Winner)
}

func TestGridRejections(t *testing.T) {
	w := NewWorld()
	m := startedGrid(t, w)

	_, err := w.MoveGrid("missing", "alice", 0)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = w.MoveGrid(m.MatchID, "mallory", 0)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = w.MoveGrid(m.MatchID, "bob", 0)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = w.MoveGrid(m.MatchID, "alice", 9)
	assert.ErrorIs(t, err, ErrIllegalMove)

	_, err = w.MoveGrid(m.MatchID, "alice", 0)
	require.NoError(t, err)
	_, err = w.MoveGrid(m.MatchID, "bob", 0)
	assert.ErrorIs(t, err, ErrIllegalMove)

	// Rejections leave the board as the accepted moves left it.
	assert.Equal(t, SymbolX, m.Board[0])
	assert.Equal(t, SymbolO, m.CurrentPlayer)
}
