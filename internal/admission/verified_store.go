package admission

import (
	"container/list"
	"sync"
	"time"

	"github.com/google/uuid"
)

// VerifiedEntry is one persisted (IP, UUID) pair, plus a username for
// observability/admin display.
type VerifiedEntry struct {
	IP       string
	UUID     uuid.UUID
	Username string
	At       time.Time
}

// Persister is the optional out-of-band persistence collaborator
// (spec.md §6). Either Postgres- or Redis-backed implementations live in
// internal/store; nil disables persistence entirely.
type Persister interface {
	Load() ([]VerifiedEntry, error)
	Put(e VerifiedEntry) error
	Remove(ip string) error
}

type verifiedKey struct {
	ip   string
	uuid uuid.UUID
}

// VerifiedStore is the authoritative bounded set of previously-verified
// (IP, UUID) pairs (spec.md §4.6). It is an LRU: insert evicts the oldest
// entry once MaxSize is reached, and membership also refreshes recency so
// a frequently-reconnecting legitimate client never ages out under load
// from one-off verifications elsewhere.
type VerifiedStore struct {
	mu        sync.Mutex
	maxSize   int
	ttl       time.Duration
	entries   map[verifiedKey]*list.Element
	order     *list.List // front = most recently used
	persister Persister
}

type verifiedListEntry struct {
	key   verifiedKey
	entry VerifiedEntry
}

func NewVerifiedStore(maxSize int, ttl time.Duration, persister Persister) *VerifiedStore {
	s := &VerifiedStore{
		maxSize:   maxSize,
		ttl:       ttl,
		entries:   make(map[verifiedKey]*list.Element),
		order:     list.New(),
		persister: persister,
	}
	if persister != nil {
		if loaded, err := persister.Load(); err == nil {
			for _, e := range loaded {
				s.insertLocked(e)
			}
		}
	}
	return s
}

// Contains reports whether (ip, id) has previously passed verification
// and refreshes its LRU recency.
func (s *VerifiedStore) Contains(ip string, id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := verifiedKey{ip: ip, uuid: id}
	el, ok := s.entries[key]
	if !ok {
		return false
	}
	entry := el.Value.(*verifiedListEntry).entry
	if s.ttl > 0 && time.Since(entry.At) > s.ttl {
		s.removeLocked(key, el)
		return false
	}
	s.order.MoveToFront(el)
	return true
}

// Insert records a newly-verified pair, evicting the least-recently-used
// entry if the store is at capacity.
func (s *VerifiedStore) Insert(ip string, id uuid.UUID, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := VerifiedEntry{IP: ip, UUID: id, Username: username, At: time.Now()}
	s.insertLocked(e)
	if s.persister != nil {
		go s.persister.Put(e)
	}
}

func (s *VerifiedStore) insertLocked(e VerifiedEntry) {
	key := verifiedKey{ip: e.IP, uuid: e.UUID}
	if el, ok := s.entries[key]; ok {
		el.Value.(*verifiedListEntry).entry = e
		s.order.MoveToFront(el)
		return
	}
	el := s.order.PushFront(&verifiedListEntry{key: key, entry: e})
	s.entries[key] = el
	if s.maxSize > 0 && s.order.Len() > s.maxSize {
		oldest := s.order.Back()
		if oldest != nil {
			s.removeLocked(oldest.Value.(*verifiedListEntry).key, oldest)
		}
	}
}

func (s *VerifiedStore) removeLocked(key verifiedKey, el *list.Element) {
	s.order.Remove(el)
	delete(s.entries, key)
}

// Size returns the current number of tracked pairs.
func (s *VerifiedStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}
