package handlers

import (
	"github.com/goccy/go-json"

	"github.com/shashanksharma6338/register-live/pkg/realtime/broadcast"
	"github.com/shashanksharma6338/register-live/pkg/structs"
)

func RaceRoll(s *structs.Server, client *structs.Client, packet *structs.Packet) {
	if !requireGamer(s, client) {
		return
	}
	var req structs.MatchRequest
	if err := json.Unmarshal(packet.Payload, &req); err != nil {
		reject(client, "malformed roll payload")
		return
	}
	game, err := s.Games.RollRace(req.MatchID, client.Username)
	if err != nil {
		reject(client, err.Error())
		return
	}
	broadcast.Gaming(s, "race-update", game)
}

func RaceMove(s *structs.Server, client *structs.Client, packet *structs.Packet) {
	if !requireGamer(s, client) {
		return
	}
	var req structs.RacePieceRequest
	if err := json.Unmarshal(packet.Payload, &req); err != nil {
		reject(client, "malformed piece payload")
		return
	}
	game, err := s.Games.MoveRacePiece(req.MatchID, client.Username, req.Piece)
	if err != nil {
		reject(client, err.Error())
		return
	}
	broadcast.Gaming(s, "race-update", game)
}
