package session

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is a single login session. Records are read-only to the realtime
// core; only the store mutates them.
type Record struct {
	SessionID string    `json:"sessionId"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Expiry    time.Time `json:"expiry"`
}

// Store is the process-wide session register. It keeps at most `capacity`
// records; inserting past the bound evicts the oldest-inserted record.
// Expired records are treated as absent on lookup and reclaimed by a
// periodic cleanup pass.
type Store struct {
	Mutex    sync.RWMutex
	Records  map[string]*Record
	order    []string
	ttl      time.Duration
	capacity int
}

func NewStore(ttl time.Duration, capacity int) *Store {
	return &Store{
		Records:  make(map[string]*Record),
		order:    make([]string, 0, capacity),
		ttl:      ttl,
		capacity: capacity,
	}
}

// Create registers a new session for the given user and returns its record.
func (st *Store) Create(username string, role string) *Record {
	st.Mutex.Lock()
	defer st.Mutex.Unlock()

	rec := &Record{
		SessionID: uuid.NewString(),
		Username:  username,
		Role:      role,
		Expiry:    time.Now().Add(st.ttl),
	}
	st.Records[rec.SessionID] = rec
	st.order = append(st.order, rec.SessionID)

	// Capacity bound: drop the oldest-inserted session.
	for len(st.Records) > st.capacity && len(st.order) > 0 {
		oldest := st.order[0]
		st.order = st.order[1:]
		delete(st.Records, oldest)
	}
	return rec
}

// Resolve returns the record for the given session ID, or nil if the session
// does not exist or has expired. Expired records are not removed here; the
// cleanup pass reclaims them.
func (st *Store) Resolve(id string) *Record {
	st.Mutex.RLock()
	defer st.Mutex.RUnlock()
	rec, ok := st.Records[id]
	if !ok {
		return nil
	}
	if time.Now().After(rec.Expiry) {
		return nil
	}
	return rec
}

// Destroy removes a session, if present.
func (st *Store) Destroy(id string) {
	st.Mutex.Lock()
	defer st.Mutex.Unlock()
	if _, ok := st.Records[id]; !ok {
		return
	}
	delete(st.Records, id)
	for i, key := range st.order {
		if key == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
}

// Len reports the number of stored records, expired ones included.
func (st *Store) Len() int {
	st.Mutex.RLock()
	defer st.Mutex.RUnlock()
	return len(st.Records)
}

// Cleanup removes expired records and returns how many were removed.
func (st *Store) Cleanup() int {
	st.Mutex.Lock()
	defer st.Mutex.Unlock()

	now := time.Now()
	removed := 0
	for id, rec := range st.Records {
		if now.After(rec.Expiry) {
			delete(st.Records, id)
			removed++
		}
	}
	if removed > 0 {
		kept := st.order[:0]
		for _, id := range st.order {
			if _, ok := st.Records[id]; ok {
				kept = append(kept, id)
			}
		}
		st.order = kept
	}
	return removed
}

// StartCleanup launches the periodic expiry pass.
func (st *Store) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for range ticker.C {
			if n := st.Cleanup(); n > 0 {
				log.Printf("Session cleanup removed %d expired sessions", n)
			}
		}
	}()
}
