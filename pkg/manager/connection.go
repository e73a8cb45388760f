package manager

import (
	"fmt"

	"github.com/shashanksharma6338/register-live/pkg/metrics"
	"github.com/shashanksharma6338/register-live/pkg/structs"
)

// AddClient registers an admitted connection, stamps its monotonic sequence
// number, and bumps the global and classification counters. It returns the
// global count after admission so the caller can enforce the capacity
// ceiling.
func AddClient(s *structs.Server, client *structs.Client) (int, error) {
	s.Connections.Mutex.Lock()
	defer s.Connections.Mutex.Unlock()
	if _, exists := s.Connections.Clients[client.ID]; exists {
		return s.Connections.Total, fmt.Errorf("connection already registered for %s", client.ID)
	}
	s.Connections.Clients[client.ID] = client
	client.Seq = s.ConnCounter
	s.ConnCounter++
	s.Connections.Total++
	if client.IsHomepage() {
		s.Connections.Homepage++
	} else {
		s.Connections.Authenticated++
	}
	metrics.TotalConnections.Inc()
	metrics.ActiveConnections.WithLabelValues(client.Page).Inc()
	return s.Connections.Total, nil
}

// RemoveClient rolls the counters back and drops the registry entry. It is
// safe to call for a client that was already removed.
func RemoveClient(s *structs.Server, client *structs.Client) {
	s.Connections.Mutex.Lock()
	defer s.Connections.Mutex.Unlock()
	if _, exists := s.Connections.Clients[client.ID]; !exists {
		return
	}
	delete(s.Connections.Clients, client.ID)
	s.Connections.Total--
	if client.IsHomepage() {
		s.Connections.Homepage--
	} else {
		s.Connections.Authenticated--
	}
	metrics.ActiveConnections.WithLabelValues(client.Page).Dec()
}

// CountClients reports the global, homepage and authenticated counters.
func CountClients(s *structs.Server) (int, int, int) {
	s.Connections.Mutex.RLock()
	defer s.Connections.Mutex.RUnlock()
	return s.Connections.Total, s.Connections.Homepage, s.Connections.Authenticated
}

// AllClients returns every registered connection. The returned slice is a
// copy and may be iterated without the registry lock.
func AllClients(s *structs.Server) []*structs.Client {
	s.Connections.Mutex.RLock()
	defer s.Connections.Mutex.RUnlock()
	clients := make([]*structs.Client, 0, len(s.Connections.Clients))
	for _, client := range s.Connections.Clients {
		clients = append(clients, client)
	}
	return clients
}

// GetClient returns the connection with the given ID, or nil.
func GetClient(s *structs.Server, id string) *structs.Client {
	s.Connections.Mutex.RLock()
	defer s.Connections.Mutex.RUnlock()
	return s.Connections.Clients[id]
}

// WithoutClient returns a new slice of all elements in clients that are not
// equal to the given client. Nil elements are also dropped.
func WithoutClient(clients []*structs.Client, client *structs.Client) []*structs.Client {
	var b []*structs.Client
	for _, x := range clients {
		if x != nil && x != client {
			b = append(b, x)
		}
	}
	return b
}
