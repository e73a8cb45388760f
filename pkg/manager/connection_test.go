package manager

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashanksharma6338/register-live/pkg/structs"
)

func TestAddRemoveClientCounters(t *testing.T) {
	s := testServer()
	app := testClient("c1", structs.PageApp, "alice")
	anon := testClient("c2", structs.PageHomepage, "")

	total, err := AddClient(s, app)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, uint64(0), app.Seq)

	total, err = AddClient(s, anon)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, uint64(1), anon.Seq)

	_, err = AddClient(s, app)
	assert.Error(t, err, "double registration must be rejected")

	total, homepage, authed := CountClients(s)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, homepage)
	assert.Equal(t, 1, authed)

	RemoveClient(s, anon)
	RemoveClient(s, anon)
	total, homepage, authed = CountClients(s)
	assert.Equal(t, 1, total)
	assert.Equal(t, 0, homepage)
	assert.Equal(t, 1, authed)
}

func TestGetAndAllClients(t *testing.T) {
	s := testServer()
	a := testClient("c1", structs.PageApp, "alice")
	b := testClient("c2", structs.PageApp, "bob")
	_, err := AddClient(s, a)
	require.NoError(t, err)
	_, err = AddClient(s, b)
	require.NoError(t, err)

	assert.Same(t, a, GetClient(s, "c1"))
	assert.Nil(t, GetClient(s, "c9"))

	all := AllClients(s)
	assert.Len(t, all, 2)
	assert.Len(t, WithoutClient(all, a), 1)
	assert.Same(t, b, WithoutClient(all, a)[0])
}

func TestSequenceNumbersUniqueUnderContention(t *testing.T) {
	s := testServer()

	const n = 32
	clients := make([]*structs.Client, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		clients[i] = testClient(fmt.Sprintf("c%d", i), structs.PageApp, "alice")
		wg.Add(1)
		go func(c *structs.Client) {
			defer wg.Done()
			_, err := AddClient(s, c)
			assert.NoError(t, err)
		}(clients[i])
	}
	wg.Wait()

	seen := make(map[uint64]bool)
	for _, c := range clients {
		assert.False(t, seen[c.Seq], "duplicate sequence %d", c.Seq)
		seen[c.Seq] = true
		assert.Less(t, c.Seq, uint64(n))
	}
}
