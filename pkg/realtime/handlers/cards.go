package handlers

import (
	"github.com/goccy/go-json"

	"github.com/shashanksharma6338/register-live/pkg/realtime/broadcast"
	"github.com/shashanksharma6338/register-live/pkg/structs"
)

func CardsPlay(s *structs.Server, client *structs.Client, packet *structs.Packet) {
	if !requireGamer(s, client) {
		return
	}
	var req structs.CardPlayRequest
	if err := json.Unmarshal(packet.Payload, &req); err != nil {
		reject(client, "malformed card play payload")
		return
	}
	game, err := s.Games.PlayCard(req.MatchID, client.Username, req.Card, req.Color)
	if err != nil {
		reject(client, err.Error())
		return
	}
	broadcast.Gaming(s, "cards-update", game)
}

func CardsDraw(s *structs.Server, client *structs.Client, packet *structs.Packet) {
	if !requireGamer(s, client) {
		return
	}
	var req structs.MatchRequest
	if err := json.Unmarshal(packet.Payload, &req); err != nil {
		reject(client, "malformed draw payload")
		return
	}
	game, err := s.Games.DrawCard(req.MatchID, client.Username)
	if err != nil {
		reject(client, err.Error())
		return
	}
	broadcast.Gaming(s, "cards-update", game)
}
