package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionStore keeps live wizards server-side, keyed by session id.
// Abandoned sessions are evicted after the TTL with no persisted side
// effects: closing the wizard before confirmation costs nothing.
type SessionStore struct {
	c *cache.Cache
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		c: cache.New(ttl, 2*ttl),
	}
}

// New stores the wizard under a fresh session id.
func (s *SessionStore) New(w *Wizard) string {
	id := uuid.New().String()
	s.c.SetDefault(id, w)
	return id
}

func (s *SessionStore) Get(id string) (*Wizard, bool) {
	v, ok := s.c.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Wizard), true
}

// Put refreshes the session's TTL along with its wizard.
func (s *SessionStore) Put(id string, w *Wizard) {
	s.c.SetDefault(id, w)
}

func (s *SessionStore) Delete(id string) {
	s.c.Delete(id)
}

func (s *SessionStore) Len() int {
	return s.c.ItemCount()
}
