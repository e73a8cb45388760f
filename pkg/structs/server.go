package structs

import (
	"regexp"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shashanksharma6338/register-live/pkg/cache"
	"github.com/shashanksharma6338/register-live/pkg/games"
	"github.com/shashanksharma6338/register-live/pkg/session"
)

// Server is the shared state every handler operates on: the connection
// registry, the room registry, the two broadcast caches, the game world, and
// the session capabilities. It is built once at startup and passed around
// explicitly so tests can run isolated instances.
type Server struct {
	AuthorizedOriginsStorage []*regexp.Regexp
	Mux                      *sync.RWMutex

	Connections *ConnectionStore
	Rooms       *RoomStore

	SessionStore *session.Store
	Cookies      *session.Codec
	Roles        session.RoleProvider

	GeneralCache *cache.Cache
	PublicCache  *cache.Cache

	Games *games.World

	PacketValidator *validator.Validate

	MaxConnections int
	RetryAfter     time.Duration
	ConnCounter    uint64 // guarded by Connections.Mutex
}

// ConnectionStore tracks active channel connections and the classification
// counters the capacity ceiling is enforced against.
type ConnectionStore struct {
	Mutex         sync.RWMutex
	Clients       map[string]*Client
	Total         int
	Homepage      int
	Authenticated int
}

// Room is a named broadcast topic. Membership here is authoritative; the
// client's own room list is a weak back-reference.
type Room struct {
	Mutex   sync.RWMutex
	Clients []*Client
}

type RoomStore struct {
	Mutex sync.RWMutex
	Rooms map[string]*Room
}
