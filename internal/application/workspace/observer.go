package workspace

import "go.uber.org/zap"

// Observer receives screen action lifecycle events. The HTTP layer uses it
// for structured logging; tests substitute a recording implementation.
type Observer interface {
	ActionStarted(screen, action string)
	ActionSucceeded(screen, action string)
	ActionFailed(screen, action string, err error)
}

type zapObserver struct {
	log *zap.Logger
}

// NewZapObserver logs action lifecycle events through the given logger.
func NewZapObserver(log *zap.Logger) Observer {
	return &zapObserver{log: log}
}

func (o *zapObserver) ActionStarted(screen, action string) {
	o.log.Debug("screen action started",
		zap.String("screen", screen),
		zap.String("action", action))
}

func (o *zapObserver) ActionSucceeded(screen, action string) {
	o.log.Info("screen action succeeded",
		zap.String("screen", screen),
		zap.String("action", action))
}

func (o *zapObserver) ActionFailed(screen, action string, err error) {
	o.log.Warn("screen action failed",
		zap.String("screen", screen),
		zap.String("action", action),
		zap.Error(err))
}

type nopObserver struct{}

// NopObserver discards all events.
func NopObserver() Observer { return nopObserver{} }

func (nopObserver) ActionStarted(string, string)       {}
func (nopObserver) ActionSucceeded(string, string)     {}
func (nopObserver) ActionFailed(string, string, error) {}
