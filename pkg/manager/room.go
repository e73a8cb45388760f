package manager

import (
	"slices"

	"github.com/shashanksharma6338/register-live/pkg/structs"
)

// RoomGaming is the implicit shared room that carries all game traffic.
const RoomGaming = "gaming"

// get_room is an internal helper that retrieves a room from the server,
// creating it if it doesn't exist. Callers hold the room store lock.
func get_room(s *structs.Server, name string) *structs.Room {
	if _, exists := s.Rooms.Rooms[name]; !exists {
		s.Rooms.Rooms[name] = &structs.Room{Clients: make([]*structs.Client, 0)}
	}
	return s.Rooms.Rooms[name]
}

// DoesRoomExist checks if a room with the given name exists on the server.
func DoesRoomExist(s *structs.Server, name string) bool {
	s.Rooms.Mutex.RLock()
	defer s.Rooms.Mutex.RUnlock()
	return s.Rooms.Rooms[name] != nil
}

// JoinRoom subscribes a client to a named room, creating the room on first
// join. It does nothing if the client is already a member.
func JoinRoom(s *structs.Server, name string, client *structs.Client) {
	s.Rooms.Mutex.Lock()
	defer s.Rooms.Mutex.Unlock()
	room := get_room(s, name)
	room.Mutex.Lock()
	defer room.Mutex.Unlock()
	if slices.Contains(room.Clients, client) {
		return
	}
	room.Clients = append(room.Clients, client)
	client.RememberRoom(name)
}

// LeaveRoom unsubscribes a client from a room; an emptied room is removed
// from the store.
func LeaveRoom(s *structs.Server, name string, client *structs.Client) {
	s.Rooms.Mutex.Lock()
	defer s.Rooms.Mutex.Unlock()
	room, exists := s.Rooms.Rooms[name]
	if !exists {
		return
	}
	empty := false
	func() {
		room.Mutex.Lock()
		defer room.Mutex.Unlock()
		i := slices.Index(room.Clients, client)
		if i == -1 {
			return
		}
		room.Clients = append(room.Clients[:i], room.Clients[i+1:]...)
		client.ForgetRoom(name)
		empty = len(room.Clients) == 0
	}()
	if empty {
		delete(s.Rooms.Rooms, name)
	}
}

// RoomMembers returns the members of a room as a copied slice; an unknown
// room yields an empty slice.
func RoomMembers(s *structs.Server, name string) []*structs.Client {
	s.Rooms.Mutex.RLock()
	defer s.Rooms.Mutex.RUnlock()
	room, exists := s.Rooms.Rooms[name]
	if !exists {
		return []*structs.Client{}
	}
	room.Mutex.RLock()
	defer room.Mutex.RUnlock()
	return append([]*structs.Client(nil), room.Clients...)
}

// IsClientInRoom checks membership of a client in a named room.
func IsClientInRoom(s *structs.Server, name string, client *structs.Client) bool {
	s.Rooms.Mutex.RLock()
	defer s.Rooms.Mutex.RUnlock()
	room, exists := s.Rooms.Rooms[name]
	if !exists {
		return false
	}
	room.Mutex.RLock()
	defer room.Mutex.RUnlock()
	return slices.Contains(room.Clients, client)
}

// LeaveAllRooms drops the client from every room it joined, pruning rooms
// that empty out. Called on disconnect. The client's room list is only
// written under the room store lock, so the snapshot is taken under it too;
// an in-flight join lands either in the snapshot or after it.
func LeaveAllRooms(s *structs.Server, client *structs.Client) {
	s.Rooms.Mutex.RLock()
	rooms := append([]string(nil), client.Rooms...)
	s.Rooms.Mutex.RUnlock()
	for _, name := range rooms {
		LeaveRoom(s, name, client)
	}
}
