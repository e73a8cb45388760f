// Package realtime owns the channel transport: websocket upgrade, session
// admission, and the per-event dispatch loop.
package realtime

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/shashanksharma6338/register-live/pkg/cache"
	"github.com/shashanksharma6338/register-live/pkg/games"
	"github.com/shashanksharma6338/register-live/pkg/metrics"
	"github.com/shashanksharma6338/register-live/pkg/realtime/handlers"
	"github.com/shashanksharma6338/register-live/pkg/realtime/message"
	"github.com/shashanksharma6338/register-live/pkg/realtime/origin"
	rtsession "github.com/shashanksharma6338/register-live/pkg/realtime/session"
	sessions "github.com/shashanksharma6338/register-live/pkg/session"
	"github.com/shashanksharma6338/register-live/pkg/structs"
)

type Server structs.Server

// Options configures a server instance. Zero values fall back to the
// production defaults.
type Options struct {
	AllowedOrigins  []string
	CookieSecret    string
	Roles           sessions.RoleProvider
	SessionTTL      time.Duration
	SessionCapacity int
	GeneralTTL      time.Duration
	GeneralCapacity int
	PublicTTL       time.Duration
	PublicCapacity  int
	MaxConnections  int
	RetryAfter      time.Duration
}

func Initialize(opts Options) *Server {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.Roles == nil {
		opts.Roles = sessions.DefaultRoles()
	}
	if opts.SessionTTL == 0 {
		opts.SessionTTL = 12 * time.Hour
	}
	if opts.SessionCapacity == 0 {
		opts.SessionCapacity = 1000
	}
	if opts.GeneralTTL == 0 {
		opts.GeneralTTL = 5 * time.Minute
	}
	if opts.GeneralCapacity == 0 {
		opts.GeneralCapacity = 50
	}
	if opts.PublicTTL == 0 {
		opts.PublicTTL = time.Minute
	}
	if opts.PublicCapacity == 0 {
		opts.PublicCapacity = 20
	}
	if opts.MaxConnections == 0 {
		opts.MaxConnections = 300
	}
	if opts.RetryAfter == 0 {
		opts.RetryAfter = 30 * time.Second
	}

	return &Server{
		AuthorizedOriginsStorage: origin.CompilePatterns(opts.AllowedOrigins),
		Mux:                      &sync.RWMutex{},
		Connections:              &structs.ConnectionStore{Clients: make(map[string]*structs.Client)},
		Rooms:                    &structs.RoomStore{Rooms: make(map[string]*structs.Room)},
		SessionStore:             sessions.NewStore(opts.SessionTTL, opts.SessionCapacity),
		Cookies:                  sessions.NewCodec(opts.CookieSecret),
		Roles:                    opts.Roles,
		GeneralCache:             cache.New(opts.GeneralTTL, opts.GeneralCapacity),
		PublicCache:              cache.New(opts.PublicTTL, opts.PublicCapacity),
		Games:                    games.NewWorld(),
		PacketValidator:          validator.New(validator.WithRequiredStructEnabled()),
		MaxConnections:           opts.MaxConnections,
		RetryAfter:               opts.RetryAfter,
	}
}

// AuthorizedOrigins checks whether the handshake's origin is allowed to
// connect.
func (s *Server) AuthorizedOrigins(r *fasthttp.Request) bool {
	return origin.IsAllowed(string(r.Header.Peek("Origin")), s.AuthorizedOriginsStorage)
}

// Upgrader is the fiber middleware guarding the websocket route. Beyond the
// upgrade and origin checks it runs the session bridge: the cookie is
// decoded and resolved here, once, and the resulting identity travels to the
// connection handler through Locals. The transport layer itself never parses
// credentials again.
func (srv *Server) Upgrader(c *fiber.Ctx) error {
	s := (*structs.Server)(srv)

	if !srv.AuthorizedOrigins(c.Request()) {
		return fiber.ErrForbidden
	}
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	page := rtsession.Classify(c.Get(fiber.HeaderReferer))
	rec, err := rtsession.Authenticate(s, c.Cookies(sessions.CookieName))
	switch {
	case err == nil:
		c.Locals("page", page)
		c.Locals("username", rec.Username)
		c.Locals("role", rec.Role)
	case page == structs.PageHomepage && errors.Is(err, sessions.ErrMissingCookie):
		// Anonymous homepage viewers are admitted without a session; they
		// only ever receive the unscoped homepage events.
		c.Locals("page", structs.PageHomepage)
	default:
		metrics.AdmissionRejections.WithLabelValues(refusalReason(err)).Inc()
		log.Printf("Refused channel handshake: %s", err.Error())
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	c.Locals("allowed", true)
	return c.Next()
}

func refusalReason(err error) string {
	switch {
	case errors.Is(err, sessions.ErrMissingCookie):
		return "missing_cookie"
	case errors.Is(err, sessions.ErrMalformedCookie), errors.Is(err, sessions.ErrBadSignature):
		return "malformed_cookie"
	default:
		return "unknown_session"
	}
}

// Handler runs one admitted connection: open through the bridge, then read,
// decode, validate and dispatch packets until disconnect.
func (srv *Server) Handler(conn *websocket.Conn) {
	s := (*structs.Server)(srv)

	client := rtsession.Open(s, conn)
	if client == nil {
		return
	}

	defer rtsession.Close(s, client)
	for {
		_, rawpacket, err := conn.ReadMessage()
		if err != nil {
			if !(websocket.IsCloseError(err) || websocket.IsUnexpectedCloseError(err)) {
				log.Printf("WebSocket receive error on %s: %s", client.ID, err.Error())
			}
			return
		}

		var packet *structs.Packet
		if err := json.Unmarshal(rawpacket, &packet); err != nil {
			message.Event(client, "error", &structs.ErrorNotice{Message: "Packet decoding error"})
			return
		}

		if err := s.PacketValidator.Struct(packet); err != nil {
			message.Event(client, "error", &structs.ErrorNotice{Message: err.Error()})
			return
		}

		// Allow for concurrent packet processing
		go execute_packet(s, client, packet)
	}
}

func execute_packet(s *structs.Server, client *structs.Client, packet *structs.Packet) {
	switch packet.Event {

	case "join-room":
		handlers.JoinRoom(s, client, packet)

	case "leave-room":
		handlers.LeaveRoom(s, client, packet)

	case "join-gaming":
		handlers.JoinGaming(s, client)

	case "leave-gaming":
		handlers.LeaveGaming(s, client)

	case "chess-move":
		handlers.ChessMove(s, client, packet)

	case "chess-resign":
		handlers.ChessResign(s, client, packet)

	case "race-roll":
		handlers.RaceRoll(s, client, packet)

	case "race-move":
		handlers.RaceMove(s, client, packet)

	case "grid-move":
		handlers.GridMove(s, client, packet)

	case "cards-play":
		handlers.CardsPlay(s, client, packet)

	case "cards-draw":
		handlers.CardsDraw(s, client, packet)

	default:
		message.Event(client, "error", &structs.ErrorNotice{Message: "Unknown event"})
	}
}
