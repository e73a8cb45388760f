package games

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbandonAllForMarksLiveMatches(t *testing.T) {
	w := NewWorld()
	grid := startedGrid(t, w)
	chess := w.CreateChess("alice").(*ChessMatch)
	finished := startedGrid(t, w)
	finished.MatchStatus = StatusFinished

	affected := w.AbandonAllFor("alice")
	require.Len(t, affected, 2)

	assert.Equal(t, StatusAbandoned, grid.MatchStatus)
	assert.Equal(t, StatusAbandoned, w.Chess[chess.MatchID].MatchStatus)
	// Terminal matches stay as they ended.
	assert.Equal(t, StatusFinished, finished.MatchStatus)

	assert.Empty(t, w.AbandonAllFor("nobody"))
}

func TestDeferredDeletionAfterGrace(t *testing.T) {
	w := NewWorld()
	w.grace = 20 * time.Millisecond
	m := startedGrid(t, w)

	w.AbandonAllFor("alice")
	require.NotNil(t, w.Find(m.MatchID))

	assert.Eventually(t, func() bool {
		return w.Find(m.MatchID) == nil
	}, time.Second, 5*time.Millisecond)
}

func TestRejoinCancelsDeferredDeletion(t *testing.T) {
	w := NewWorld()
	w.grace = 50 * time.Millisecond
	m := startedGrid(t, w)

	w.AbandonAllFor("alice")
	_, err := w.JoinGrid(m.MatchID, "alice")
	require.NoError(t, err)
	assert.Equal(t, StatusPlaying, m.MatchStatus)

	time.Sleep(150 * time.Millisecond)
	assert.NotNil(t, w.Find(m.MatchID), "revived match must survive the timer")
}

func TestTimerRechecksStatusBeforeDeleting(t *testing.T) {
	w := NewWorld()
	m := startedGrid(t, w)
	w.AbandonAllFor("alice")

	// Revive without going through JoinGrid, so the armed timer is still
	// in flight and has to notice the status change on its own.
	w.Mutex.Lock()
	m.MatchStatus = StatusPlaying
	w.Mutex.Unlock()

	w.deleteIfAbandoned(m.MatchID)
	assert.NotNil(t, w.Find(m.MatchID))
}

func TestSweepRemovesOnlyStaleAbandoned(t *testing.T) {
	w := NewWorld()
	w.grace = time.Minute

	stale := startedGrid(t, w)
	stale.MatchStatus = StatusAbandoned
	stale.Created = time.Now().Add(-2 * time.Minute)

	fresh := startedGrid(t, w)
	fresh.MatchStatus = StatusAbandoned

	live := startedGrid(t, w)

	removed := w.Sweep()
	assert.Equal(t, 1, removed)
	assert.Nil(t, w.Find(stale.MatchID))
	assert.NotNil(t, w.Find(fresh.MatchID))
	assert.NotNil(t, w.Find(live.MatchID))
}
