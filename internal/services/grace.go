package services

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// graceKey identifies a pending disconnect by room code and display name.
type graceKey struct {
	code string
	name string
}

// pendingRemoval is one scheduled deferred removal. connID captures the
// connection that disconnected so expiry can detect that the name was
// rebound in the meantime.
type pendingRemoval struct {
	timer  *time.Timer
	connID string
}

// GraceCoordinator tracks deferred-removal timers for dropped human
// participants. A dropped connection keeps its roster slot for the grace
// window; a matching rejoin cancels the pending removal, and expiry hands
// the stale entry back to the caller-supplied callback.
//
// Cancellation is store-based: the authoritative state is the pending map,
// and a fired timer that finds its entry gone (or replaced) does nothing.
type GraceCoordinator struct {
	mu      sync.Mutex
	pending map[graceKey]*pendingRemoval
	window  time.Duration
	logger  *zap.Logger
}

// NewGraceCoordinator creates a coordinator with the given grace window.
func NewGraceCoordinator(window time.Duration, logger *zap.Logger) *GraceCoordinator {
	return &GraceCoordinator{
		pending: make(map[graceKey]*pendingRemoval),
		window:  window,
		logger:  logger,
	}
}

// Schedule registers a deferred removal for (code, name). If a removal is
// already pending for the key it is cancelled and replaced, restarting
// the window. expire is called with the disconnected connection id after
// the window elapses, unless the entry is cancelled or replaced first.
func (g *GraceCoordinator) Schedule(code, name, connID string, expire func(code, name, connID string)) {
	key := graceKey{code: code, name: name}

	g.mu.Lock()
	defer g.mu.Unlock()

	if prev, ok := g.pending[key]; ok {
		prev.timer.Stop()
		g.logger.Debug("replacing pending disconnect",
			zap.String("room", code),
			zap.String("name", name))
	}

	entry := &pendingRemoval{connID: connID}
	entry.timer = time.AfterFunc(g.window, func() {
		if !g.claim(key, entry) {
			return
		}
		expire(code, name, connID)
	})
	g.pending[key] = entry
}

// claim removes the entry for key if it is still the one that fired.
// Returns false when the entry was cancelled or replaced after the timer
// was scheduled; a losing timer must not act.
func (g *GraceCoordinator) claim(key graceKey, entry *pendingRemoval) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	current, ok := g.pending[key]
	if !ok || current != entry {
		return false
	}
	delete(g.pending, key)
	return true
}

// Cancel removes any pending removal for (code, name) so its side effect
// never fires. Returns true if an entry was cancelled.
func (g *GraceCoordinator) Cancel(code, name string) bool {
	key := graceKey{code: code, name: name}

	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.pending[key]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(g.pending, key)
	return true
}

// PendingCount returns the number of scheduled removals.
func (g *GraceCoordinator) PendingCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.pending)
}
