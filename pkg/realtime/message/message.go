package message

import (
	"log"

	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/websocket"
	"github.com/shashanksharma6338/register-live/pkg/structs"
)

// Send marshals a message and writes it to one connection. The client's
// write mutex serializes concurrent writers on the same socket.
func Send(client *structs.Client, message interface{}) error {
	if client == nil {
		log.Printf("Got a nil client when sending message: %v", message)
		return nil
	}

	bytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	client.Mux.Lock()
	defer client.Mux.Unlock()
	return client.Conn.WriteMessage(websocket.TextMessage, bytes)
}

// Event wraps a payload in the outbound envelope and sends it to one client.
func Event(client *structs.Client, event string, payload any) error {
	return Send(client, &structs.Outbound{Event: event, Payload: payload})
}

// Broadcast sends a message to every client in the slice. Send failures are
// per-connection and do not stop the fan-out.
func Broadcast(clients []*structs.Client, message interface{}) {
	for _, client := range clients {
		Send(client, message)
	}
}

// BroadcastEvent fans an enveloped event out to every client in the slice.
func BroadcastEvent(clients []*structs.Client, event string, payload any) {
	Broadcast(clients, &structs.Outbound{Event: event, Payload: payload})
}
