package workspace

import (
	"fmt"
	"sync"
	"time"
)

// Registry keeps per-user screen sessions alive between HTTP requests. A
// screen holds edit drafts and pre-save snapshots, so it must survive until
// the user saves or cancels. Entries expire after a period of inactivity.
type Registry struct {
	mu       sync.Mutex
	ttl      time.Duration
	entries  map[string]*entry
	creating map[string]chan struct{}
}

type entry struct {
	screen   any
	lastUsed time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		ttl:      ttl,
		entries:  make(map[string]*entry),
		creating: make(map[string]chan struct{}),
	}
}

// SessionKey identifies one screen instance for one user and document.
func SessionKey(userID, kind, documentID string) string {
	return fmt.Sprintf("%s:%s:%s", userID, kind, documentID)
}

// Fetch returns the session stored under key, creating it with create when
// absent or expired. The stored value must be of type S.
//
// create runs outside the registry lock. Concurrent fetches for the same key
// wait for the creator and share its result; fetches for other keys proceed
// unhindered, so one session's slow remote load never stalls another user.
func Fetch[S any](r *Registry, key string, create func() (S, error)) (S, error) {
	var done chan struct{}
	for {
		r.mu.Lock()
		now := time.Now()
		if e, ok := r.entries[key]; ok && now.Sub(e.lastUsed) < r.ttl {
			if screen, ok := e.screen.(S); ok {
				e.lastUsed = now
				r.mu.Unlock()
				return screen, nil
			}
		}
		inFlight, ok := r.creating[key]
		if !ok {
			done = make(chan struct{})
			r.creating[key] = done
			r.mu.Unlock()
			break
		}
		r.mu.Unlock()
		<-inFlight
	}

	screen, err := create()

	r.mu.Lock()
	delete(r.creating, key)
	if err == nil {
		r.entries[key] = &entry{screen: screen, lastUsed: time.Now()}
	}
	r.mu.Unlock()
	close(done)

	if err != nil {
		var zero S
		return zero, err
	}
	return screen, nil
}

// Drop removes the session stored under key, if any.
func (r *Registry) Drop(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
}

// Sweep evicts every entry idle longer than the registry TTL and returns the
// eviction count. Intended to be called from a background ticker.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-r.ttl)
	evicted := 0
	for key, e := range r.entries {
		if e.lastUsed.Before(cutoff) {
			delete(r.entries, key)
			evicted++
		}
	}
	return evicted
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
