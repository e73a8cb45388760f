package session

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashanksharma6338/register-live/pkg/games"
	"github.com/shashanksharma6338/register-live/pkg/manager"
	sessions "github.com/shashanksharma6338/register-live/pkg/session"
	"github.com/shashanksharma6338/register-live/pkg/structs"
)

func testServer() *structs.Server {
	return &structs.Server{
		Mux: &sync.RWMutex{},
		Connections: &structs.ConnectionStore{
			Clients: make(map[string]*structs.Client),
		},
		Rooms: &structs.RoomStore{
			Rooms: make(map[string]*structs.Room),
		},
		SessionStore:   sessions.NewStore(time.Hour, 100),
		Cookies:        sessions.NewCodec("test secret"),
		Roles:          sessions.DefaultRoles(),
		Games:          games.NewWorld(),
		MaxConnections: 300,
		RetryAfter:     30 * time.Second,
	}
}

// fakeSocket records what the server writes to a connection.
type fakeSocket struct {
	locals map[string]any
	writes [][]byte
	closed bool
}

func (f *fakeSocket) Locals(key string) interface{} { return f.locals[key] }

func (f *fakeSocket) ReadMessage() (int, []byte, error) { return 0, nil, io.EOF }

func (f *fakeSocket) WriteMessage(messageType int, data []byte) error {
	f.writes = append(f.writes, data)
	return nil
}

func (f *fakeSocket) Close() error {
	f.closed = true
	return nil
}

func appSocket(username string, role string) *fakeSocket {
	return &fakeSocket{locals: map[string]any{
		"page":     structs.PageApp,
		"username": username,
		"role":     role,
	}}
}

func TestAuthenticateResolvesSignedCookie(t *testing.T) {
	s := testServer()
	rec := s.SessionStore.Create("alice", "gamer")

	got, err := Authenticate(s, s.Cookies.Encode(rec.SessionID))
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "gamer", got.Role)
}

func TestAuthenticateRefusalReasons(t *testing.T) {
	s := testServer()
	rec := s.SessionStore.Create("alice", "gamer")
	expired := s.SessionStore.Create("bob", "gamer")
	expired.Expiry = time.Now().Add(-time.Minute)

	other := sessions.NewCodec("different secret")

	tests := []struct {
		name   string
		cookie string
		want   error
	}{
		{"missing", "", sessions.ErrMissingCookie},
		{"malformed", "not-a-signed-value", sessions.ErrMalformedCookie},
		{"forged", other.Encode(rec.SessionID), sessions.ErrBadSignature},
		{"unknown id", s.Cookies.Encode("never-issued"), ErrUnknownSession},
		{"expired", s.Cookies.Encode(expired.SessionID), ErrUnknownSession},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Authenticate(s, tc.cookie)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestClassify(t *testing.T) {
	homepage := []string{
		"",
		"http://localhost:3000/",
		"http://localhost:3000",
		"https://register.example.com/index.html",
		"https://register.example.com/home",
		"https://register.example.com/?utm=x",
		"/",
		"/home",
	}
	for _, ref := range homepage {
		assert.Equal(t, structs.PageHomepage, Classify(ref), "referer %q", ref)
	}

	app := []string{
		"https://register.example.com/dashboard",
		"https://register.example.com/games/chess",
		"/records",
		"/homebrew",
	}
	for _, ref := range app {
		assert.Equal(t, structs.PageApp, Classify(ref), "referer %q", ref)
	}
}

func TestOpenBuildsClientFromHandshakeIdentity(t *testing.T) {
	s := testServer()

	client := Open(s, appSocket("alice", "gamer"))
	require.NotNil(t, client)
	assert.Equal(t, "alice", client.Username)
	assert.Equal(t, "gamer", client.Role)
	assert.Equal(t, structs.PageApp, client.Page)
	assert.True(t, client.IsAuthenticated())

	total, _, authed := manager.CountClients(s)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, authed)
}

func TestOpenEnforcesCapacityCeiling(t *testing.T) {
	s := testServer()
	s.MaxConnections = 2

	for i := 0; i < 2; i++ {
		require.NotNil(t, Open(s, appSocket(fmt.Sprintf("user%d", i), "gamer")))
	}

	overflow := appSocket("late", "gamer")
	client := Open(s, overflow)
	assert.Nil(t, client)

	// The refused connection got the overload notice and was closed, and
	// the counters rolled back to the pre-admission value.
	require.Len(t, overflow.writes, 1)
	var notice struct {
		Event   string           `json:"event"`
		Payload structs.Overload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(overflow.writes[0], &notice))
	assert.Equal(t, "server-overload", notice.Event)
	assert.NotEmpty(t, notice.Payload.Message)
	assert.Equal(t, s.RetryAfter.Milliseconds(), notice.Payload.RetryAfterMs)
	assert.True(t, overflow.closed)

	total, _, _ := manager.CountClients(s)
	assert.Equal(t, 2, total)
}

func TestCloseAbandonsDepartingPlayersMatches(t *testing.T) {
	s := testServer()
	sock := appSocket("alice", "gamer")
	client := Open(s, sock)
	require.NotNil(t, client)

	m := s.Games.CreateGrid("alice").(*games.GridMatch)

	Close(s, client)
	assert.True(t, sock.closed)
	total, _, _ := manager.CountClients(s)
	assert.Equal(t, 0, total)
	assert.Equal(t, games.StatusAbandoned, s.Games.Grid[m.MatchID].MatchStatus)
}

func TestCloseLeavesAnonymousMatchesAlone(t *testing.T) {
	s := testServer()
	sock := &fakeSocket{locals: map[string]any{"page": structs.PageHomepage}}
	client := Open(s, sock)
	require.NotNil(t, client)

	m := s.Games.CreateGrid("alice").(*games.GridMatch)
	Close(s, client)
	assert.Equal(t, games.StatusWaiting, s.Games.Grid[m.MatchID].MatchStatus)
}
