package memory

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"security-training-be/pkg/store"
)

// SessionRepository keeps wizard sessions in process memory. Automatic
// cache expiration is disabled; stale sessions are removed by the explicit
// ExpireOlderThan sweep so a session never vanishes mid-message.
type SessionRepository struct {
	cache *cache.Cache
	locks sync.Map // session id -> *sync.Mutex
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.NoExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
	r.locks.Delete(sessionID)
}

// Lock serializes access to one session. It blocks until the session's
// mutex is held and returns the unlock function:
//
//	defer repo.Lock(id)()
func (r *SessionRepository) Lock(sessionID string) func() {
	m, _ := r.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// ExpireOlderThan removes every session whose dialogue has been idle longer
// than maxAge and returns how many were removed. It works on a snapshot, so
// sessions touched concurrently may survive until the next sweep.
func (r *SessionRepository) ExpireOlderThan(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	var expired []string
	for id, item := range r.cache.Items() {
		session, ok := item.Object.(*store.Session)
		if !ok {
			continue
		}
		if session.Dialogue.LastUpdated.Before(cutoff) {
			expired = append(expired, id)
		}
	}

	for _, id := range expired {
		r.Delete(id)
	}
	return len(expired)
}
