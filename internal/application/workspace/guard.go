package workspace

import (
	"sync"

	"github.com/crm/workbench/internal/domain/document"
	"github.com/crm/workbench/internal/domain/shared"
)

// Guard tracks actions that are currently running against a single screen.
// Acquiring an action that is already in flight fails instead of queueing, so
// a double-clicked button cannot fire the same remote call twice.
type Guard struct {
	mu       sync.Mutex
	inFlight map[document.Action]struct{}
}

func NewGuard() *Guard {
	return &Guard{inFlight: make(map[document.Action]struct{})}
}

// Acquire marks the action as running. It returns ErrActionInFlight when the
// same action has been acquired and not yet released.
func (g *Guard) Acquire(action document.Action) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[action]; busy {
		return shared.ErrActionInFlight
	}
	g.inFlight[action] = struct{}{}
	return nil
}

// Release clears the in-flight mark. Releasing an action that was never
// acquired is a no-op.
func (g *Guard) Release(action document.Action) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, action)
}

// Busy reports whether the action is currently in flight.
func (g *Guard) Busy(action document.Action) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inFlight[action]
	return busy
}
