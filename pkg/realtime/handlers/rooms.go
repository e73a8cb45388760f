package handlers

import (
	"github.com/goccy/go-json"

	"github.com/shashanksharma6338/register-live/pkg/manager"
	"github.com/shashanksharma6338/register-live/pkg/structs"
)

// roomName accepts the room either in the packet's room field or in a
// {"room": ...} payload.
func roomName(packet *structs.Packet) string {
	if packet.Room != "" {
		return packet.Room
	}
	var req structs.RoomRequest
	if len(packet.Payload) > 0 {
		if err := json.Unmarshal(packet.Payload, &req); err == nil {
			return req.Room
		}
	}
	return ""
}

func JoinRoom(s *structs.Server, client *structs.Client, packet *structs.Packet) {
	name := roomName(packet)
	if name == "" {
		reject(client, "room name required")
		return
	}
	manager.JoinRoom(s, name, client)
}

func LeaveRoom(s *structs.Server, client *structs.Client, packet *structs.Packet) {
	name := roomName(packet)
	if name == "" {
		reject(client, "room name required")
		return
	}
	manager.LeaveRoom(s, name, client)
}

// JoinGaming subscribes the connection to the implicit shared room all match
// events flow through. Anonymous homepage connections are not admitted.
func JoinGaming(s *structs.Server, client *structs.Client) {
	if !requireGamer(s, client) {
		return
	}
	manager.JoinRoom(s, manager.RoomGaming, client)
}

func LeaveGaming(s *structs.Server, client *structs.Client) {
	manager.LeaveRoom(s, manager.RoomGaming, client)
}
