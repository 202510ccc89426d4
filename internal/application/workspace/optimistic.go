package workspace

import (
	"context"

	"github.com/crm/workbench/internal/domain/document"
)

// Optimistic runs a remote write with local rollback. The caller has already
// applied the change to its in-memory state; persist sends it to the backend
// and returns the authoritative record. On success commit installs that
// record; on failure rollback restores the pre-change snapshot and the error
// is returned unchanged so the caller can surface the backend's code.
func Optimistic[T any](
	ctx context.Context,
	persist func(ctx context.Context) (T, error),
	commit func(T),
	rollback func(),
) error {
	result, err := persist(ctx)
	if err != nil {
		rollback()
		return err
	}
	commit(result)
	return nil
}

// Guarded wraps fn with the screen's in-flight guard and observer
// notifications. It is the entry point every screen action goes through.
func Guarded(g *Guard, obs Observer, screen string, action document.Action, fn func() error) error {
	if err := g.Acquire(action); err != nil {
		return err
	}
	defer g.Release(action)

	obs.ActionStarted(screen, string(action))
	if err := fn(); err != nil {
		obs.ActionFailed(screen, string(action), err)
		return err
	}
	obs.ActionSucceeded(screen, string(action))
	return nil
}
