package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedDice makes the world roll a scripted sequence, repeating the last
// value once the script runs out.
func fixedDice(w *World, rolls ...int) {
	i := 0
	w.dice = func() int {
		r := rolls[i]
		if i < len(rolls)-1 {
			i++
		}
		return r
	}
}

func startedRace(t *testing.T, w *World) *RaceMatch {
	t.Helper()
	snap := w.CreateRace("alice", 4, 0, "").(*RaceMatch)
	_, err := w.JoinRace(snap.MatchID, "bob")
	require.NoError(t, err)
	_, err = w.StartRace(snap.MatchID, "alice")
	require.NoError(t, err)
	return w.Race[snap.MatchID]
}

func TestRacePieceLeavesHomeOnlyOnSix(t *testing.T) {
	w := NewWorld()
	m := startedRace(t, w)

	// A non-six with every piece home is unplayable: the turn passes.
	fixedDice(w, 3)
	_, err := w.RollRace(m.MatchID, "alice")
	require.NoError(t, err)
	assert.False(t, m.DiceRolled)
	assert.Equal(t, 1, m.CurrentPlayer)

	// Bob rolls a six and releases a piece onto the track.
	fixedDice(w, 6)
	_, err = w.RollRace(m.MatchID, "bob")
	require.NoError(t, err)
	assert.True(t, m.DiceRolled)

	_, err = w.MoveRacePiece(m.MatchID, "bob", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Players[1].Pieces[0])

	// A six keeps the turn.
	assert.Equal(t, 1, m.CurrentPlayer)
	assert.False(t, m.DiceRolled)
}

func TestRaceRollValidation(t *testing.T) {
	w := NewWorld()
	m := startedRace(t, w)
	fixedDice(w, 6)

	_, err := w.RollRace(m.MatchID, "bob")
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = w.MoveRacePiece(m.MatchID, "alice", 0)
	assert.ErrorIs(t, err, ErrRollFirst)

	_, err = w.RollRace(m.MatchID, "alice")
	require.NoError(t, err)
	_, err = w.RollRace(m.MatchID, "alice")
	assert.ErrorIs(t, err, ErrAlreadyRolled)

	_, err = w.MoveRacePiece(m.MatchID, "alice", 7)
	assert.ErrorIs(t, err, ErrIllegalMove)
}

func TestRaceAdvanceCapsAtGoal(t *testing.T) {
	w := NewWorld()
	m := startedRace(t, w)
	m.Players[0].Pieces = [4]int{54, 10, racePieceHome, racePieceHome}

	fixedDice(w, 5)
	_, err := w.RollRace(m.MatchID, "alice")
	require.NoError(t, err)
	_, err = w.MoveRacePiece(m.MatchID, "alice", 0)
	require.NoError(t, err)

	assert.Equal(t, raceGoal, m.Players[0].Pieces[0])
	assert.Equal(t, 1, m.Players[0].PiecesInGoal)
	assert.Equal(t, 1, m.CurrentPlayer)

	// A finished piece cannot move again.
	m.CurrentPlayer = 0
	fixedDice(w, 2)
	_, err = w.RollRace(m.MatchID, "alice")
	require.NoError(t, err)
	_, err = w.MoveRacePiece(m.MatchID, "alice", 0)
	assert.ErrorIs(t, err, ErrIllegalMove)
}

func TestRaceFourPiecesInGoalWins(t *testing.T) {
	w := NewWorld()
	m := startedRace(t, w)
	m.Players[0].Pieces = [4]int{raceGoal, raceGoal, raceGoal, 50}
	m.Players[0].PiecesInGoal = 3

	fixedDice(w, 6)
	_, err := w.RollRace(m.MatchID, "alice")
	require.NoError(t, err)
	_, err = w.MoveRacePiece(m.MatchID, "alice", 3)
	require.NoError(t, err)

	assert.Equal(t, StatusFinished, m.MatchStatus)
	assert.Equal(t, "alice", m.Winner)
}

func TestRaceComputerSeatsAutoAdvance(t *testing.T) {
	w := NewWorld()
	snap := w.CreateRace("alice", 2, 1, "easy").(*RaceMatch)
	m := w.Race[snap.MatchID]
	require.Len(t, m.Players, 2)
	assert.True(t, m.Players[1].Computer)
	assert.Equal(t, "easy", m.Players[1].Difficulty)

	_, err := w.StartRace(m.MatchID, "alice")
	require.NoError(t, err)

	// Alice passes with a non-six; the filler plays through and the turn
	// returns to her.
	fixedDice(w, 3)
	_, err = w.RollRace(m.MatchID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, m.CurrentPlayer)
	assert.False(t, m.DiceRolled)
}

func TestRaceSeatClamping(t *testing.T) {
	w := NewWorld()
	big := w.CreateRace("alice", 20, 19, "hard").(*RaceMatch)
	assert.Equal(t, raceMaxSeats, big.MaxPlayers)
	assert.Len(t, big.Players, raceMaxSeats)

	small := w.CreateRace("alice", 1, 0, "").(*RaceMatch)
	assert.Equal(t, raceMinSeats, small.MaxPlayers)
}
