package handlers

import (
	"github.com/goccy/go-json"

	"github.com/shashanksharma6338/register-live/pkg/realtime/broadcast"
	"github.com/shashanksharma6338/register-live/pkg/structs"
)

func ChessMove(s *structs.Server, client *structs.Client, packet *structs.Packet) {
	if !requireGamer(s, client) {
		return
	}
	var req structs.ChessMoveRequest
	if err := json.Unmarshal(packet.Payload, &req); err != nil {
		reject(client, "malformed chess move payload")
		return
	}
	game, err := s.Games.MoveChess(req.MatchID, client.Username, req.FromRow, req.FromCol, req.ToRow, req.ToCol)
	if err != nil {
		reject(client, err.Error())
		return
	}
	broadcast.Gaming(s, "chess-update", game)
}

func ChessResign(s *structs.Server, client *structs.Client, packet *structs.Packet) {
	if !requireGamer(s, client) {
		return
	}
	var req structs.MatchRequest
	if err := json.Unmarshal(packet.Payload, &req); err != nil {
		reject(client, "malformed resign payload")
		return
	}
	game, err := s.Games.ResignChess(req.MatchID, client.Username)
	if err != nil {
		reject(client, err.Error())
		return
	}
	broadcast.Gaming(s, "chess-update", game)
}
