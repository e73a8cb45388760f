package handlers

import (
	"log"

	"github.com/shashanksharma6338/register-live/pkg/realtime/message"
	sessions "github.com/shashanksharma6338/register-live/pkg/session"
	"github.com/shashanksharma6338/register-live/pkg/structs"
)

// reject reports a refused channel action back to its sender. Rejections
// never mutate match state and never reach the gaming room.
func reject(client *structs.Client, msg string) {
	if err := message.Event(client, "error", &structs.ErrorNotice{Message: msg}); err != nil {
		log.Printf("Send error notice to %s failed: %s", client.ID, err.Error())
	}
}

// requireGamer gates every game action on the channel surface: the
// connection must be authenticated and its role must enable the games
// permission.
func requireGamer(s *structs.Server, client *structs.Client) bool {
	if !client.IsAuthenticated() {
		reject(client, "authentication required")
		return false
	}
	if !sessions.HasPermission(s.Roles, client.Role, sessions.PermissionGames) {
		reject(client, "games permission required")
		return false
	}
	return true
}
