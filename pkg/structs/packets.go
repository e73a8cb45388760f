package structs

import "github.com/goccy/go-json"

// Packet is the envelope for every channel message in both directions.
// Inbound payloads stay raw until the matching handler decodes them.
type Packet struct {
	Event   string          `json:"event" validate:"required" label:"event"`
	Room    string          `json:"room,omitempty" validate:"omitempty" label:"room"`
	Payload json.RawMessage `json:"payload,omitempty" validate:"omitempty" label:"payload"`
}

// Outbound is the server-to-client envelope. Payload is marshalled in place.
type Outbound struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// DataChange is the room-scoped cache-invalidation event emitted after a
// register write commits.
type DataChange struct {
	Type      string `json:"type"`
	Action    string `json:"action"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// HomepageUpdate is the unscoped low-fidelity heads-up sent to every
// connection when register data changes.
type HomepageUpdate struct {
	Type          string `json:"type"`
	Action        string `json:"action"`
	FinancialYear string `json:"financial_year"`
	Timestamp     int64  `json:"timestamp"`
}

// Overload is delivered to a connection admitted past the capacity ceiling,
// immediately before the server closes it.
type Overload struct {
	Message      string `json:"message"`
	RetryAfterMs int64  `json:"retryAfterMs"`
}

// ErrorNotice carries a rejected channel action back to its sender.
type ErrorNotice struct {
	Message string `json:"message"`
}

// Inbound payloads.

type RoomRequest struct {
	Room string `json:"room"`
}

type ChessMoveRequest struct {
	MatchID string `json:"matchId"`
	FromRow int    `json:"fromRow"`
	FromCol int    `json:"fromCol"`
	ToRow   int    `json:"toRow"`
	ToCol   int    `json:"toCol"`
}

type MatchRequest struct {
	MatchID string `json:"matchId"`
}

type RacePieceRequest struct {
	MatchID string `json:"matchId"`
	Piece   int    `json:"piece"`
}

type GridMoveRequest struct {
	MatchID string `json:"matchId"`
	Cell    int    `json:"cell"`
}

type CardPlayRequest struct {
	MatchID string `json:"matchId"`
	Card    int    `json:"card"`
	Color   string `json:"color,omitempty"`
}
