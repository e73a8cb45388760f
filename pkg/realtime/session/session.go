// Package session is the bridge between the HTTP login session and the
// channel transport: it is the sole authentication boundary for websocket
// admission, and it owns connection open/close bookkeeping.
package session

import (
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/shashanksharma6338/register-live/pkg/manager"
	"github.com/shashanksharma6338/register-live/pkg/metrics"
	"github.com/shashanksharma6338/register-live/pkg/realtime/message"
	sessions "github.com/shashanksharma6338/register-live/pkg/session"
	"github.com/shashanksharma6338/register-live/pkg/structs"
)

// ErrUnknownSession covers both a session ID the store never saw and one
// whose record expired. Store lookup failures collapse into this reason as
// well: admission fails closed.
var ErrUnknownSession = errors.New("session not found or expired")

// Authenticate resolves a raw cookie value into a session record. The
// returned error is one of the typed refusal reasons
// (sessions.ErrMissingCookie, sessions.ErrMalformedCookie,
// sessions.ErrBadSignature, ErrUnknownSession).
func Authenticate(s *structs.Server, rawCookie string) (*sessions.Record, error) {
	id, err := s.Cookies.Decode(rawCookie)
	if err != nil {
		return nil, err
	}
	rec := s.SessionStore.Resolve(id)
	if rec == nil || rec.Username == "" {
		return nil, ErrUnknownSession
	}
	return rec, nil
}

// Classify decides the connection classification from the originating page.
// Handshakes referred by the public homepage are anonymous viewers; anything
// else is treated as the authenticated application.
func Classify(referer string) string {
	path := referer
	if i := strings.Index(referer, "://"); i != -1 {
		rest := referer[i+3:]
		if j := strings.Index(rest, "/"); j != -1 {
			path = rest[j:]
		} else {
			path = "/"
		}
	}
	if k := strings.IndexAny(path, "?#"); k != -1 {
		path = path[:k]
	}
	switch path {
	case "", "/", "/index.html", "/home":
		return structs.PageHomepage
	}
	return structs.PageApp
}

// Open admits an upgraded connection: it builds the client from the identity
// the Upgrader stashed in Locals, registers it, and enforces the capacity
// ceiling. An over-capacity connection gets the overload notice and is
// closed immediately; Open returns nil in that case.
func Open(s *structs.Server, conn structs.Socket) *structs.Client {
	client := &structs.Client{
		Conn:  conn,
		ID:    ulid.Make().String(),
		Page:  structs.PageApp,
		Rooms: make([]string, 0),
		Mux:   &sync.RWMutex{},
	}

	if page, ok := conn.Locals("page").(string); ok {
		client.Page = page
	}
	if username, ok := conn.Locals("username").(string); ok {
		client.Username = username
	}
	if role, ok := conn.Locals("role").(string); ok {
		client.Role = role
	}

	total, err := manager.AddClient(s, client)
	if err != nil {
		log.Printf("Connection registration error: %s", err.Error())
		conn.Close()
		return nil
	}
	if total > s.MaxConnections {
		metrics.AdmissionRejections.WithLabelValues("overload").Inc()
		message.Event(client, "server-overload", &structs.Overload{
			Message:      "Server is at capacity, please retry shortly",
			RetryAfterMs: s.RetryAfter.Milliseconds(),
		})
		manager.RemoveClient(s, client)
		conn.Close()
		log.Printf("Refused connection %s: capacity ceiling of %d reached", client.ID, s.MaxConnections)
		return nil
	}

	log.Printf("Opened %s connection %s (user %q, counter %d)", client.Page, client.ID, client.Username, client.Seq)
	return client
}

// Close tears a connection down: room membership, counters, and - for
// authenticated connections only - abandonment of the departing player's
// matches.
func Close(s *structs.Server, client *structs.Client) {
	if client == nil {
		log.Printf("Warning: Attempted to close nil client")
		return
	}

	manager.LeaveAllRooms(s, client)
	manager.RemoveClient(s, client)

	if client.IsAuthenticated() {
		s.Games.AbandonAllFor(client.Username)
	}

	if err := client.Conn.Close(); err != nil {
		log.Printf("Connection close error for %s: %s", client.ID, err.Error())
	}
	log.Printf("Closed connection %s (user %q)", client.ID, client.Username)
}
