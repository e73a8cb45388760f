package handlers

import (
	"github.com/goccy/go-json"

	"github.com/shashanksharma6338/register-live/pkg/realtime/broadcast"
	"github.com/shashanksharma6338/register-live/pkg/structs"
)

func GridMove(s *structs.Server, client *structs.Client, packet *structs.Packet) {
	if !requireGamer(s, client) {
		return
	}
	var req structs.GridMoveRequest
	if err := json.Unmarshal(packet.Payload, &req); err != nil {
		reject(client, "malformed grid move payload")
		return
	}
	game, err := s.Games.MoveGrid(req.MatchID, client.Username, req.Cell)
	if err != nil {
		reject(client, err.Error())
		return
	}
	broadcast.Gaming(s, "grid-update", game)
}
