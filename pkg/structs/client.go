package structs

import (
	"sync"
)

// Classification of a channel connection, decided at handshake time from
// the originating page.
const (
	PageHomepage = "homepage"
	PageApp      = "app"
)

// Socket is the slice of an upgraded connection the core touches. In
// production it is the contrib websocket conn; tests substitute a recording
// fake.
type Socket interface {
	Locals(key string) interface{}
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Client struct {
	Conn     Socket
	ID       string
	Seq      uint64
	Username string
	Role     string
	Page     string
	Rooms    []string       // weak back-reference; RoomStore holds the truth, its lock guards writes
	Mux      *sync.RWMutex  // To prevent concurrent writes to the websocket connection
}

// IsAuthenticated reports whether the connection passed the session bridge
// with a resolved user, as opposed to an anonymous homepage viewer.
func (c *Client) IsAuthenticated() bool {
	return c.Page != PageHomepage && c.Username != ""
}

func (c *Client) IsHomepage() bool {
	return c.Page == PageHomepage
}

func (c *Client) RememberRoom(room string) {
	for _, r := range c.Rooms {
		if r == room {
			return
		}
	}
	c.Rooms = append(c.Rooms, room)
}

func (c *Client) ForgetRoom(room string) {
	for i, r := range c.Rooms {
		if r == room {
			c.Rooms = append(c.Rooms[:i], c.Rooms[i+1:]...)
			return
		}
	}
}
