package termsession

import (
	"context"

	"github.com/galleyhq/termsession/internal/seq"
)

// boundaryLookahead bounds the scan for a safe replay start when the history
// tail begins mid-line.
const boundaryLookahead = 256

// replaySnapshot restores the screen from the snapshot cache, if an entry
// exists for this session. The snapshot is written verbatim; it was
// serialized from a fully rendered screen and needs no sanitizing. Returns
// whether the fast path ran, in which case the history load is skipped
// entirely: exactly one replay path executes per session lifetime.
func (c *Controller) replaySnapshot() bool {
	if c.cfg.Snapshots == nil {
		return false
	}
	snap, ok := c.cfg.Snapshots.Get(c.cfg.SessionID)
	if !ok {
		return false
	}

	c.mu.Lock()
	if c.phase == phaseDisposed || c.engine == nil {
		c.mu.Unlock()
		return true
	}
	c.replaying = true
	fire := c.writeEngineLocked([]byte(snap.Screen))
	c.replaying = false
	c.restored = true
	c.historyLoaded = true
	c.mu.Unlock()

	if fire != nil {
		fire()
	}
	return true
}

// loadHistory asks the process host for a bounded tail of session output and
// replays it into the engine. Before writing, the data is sanitized: query
// sequences the remote side would otherwise answer twice are stripped, and a
// leading partial fragment is trimmed so replay starts at a safe boundary.
// historyLoaded is set only on success; a failed tail leaves it false so a
// later Activate can retry.
func (c *Controller) loadHistory(ctx context.Context) {
	c.mu.Lock()
	if c.phase == phaseDisposed || c.engine == nil || c.historyLoaded || c.replaying {
		c.mu.Unlock()
		return
	}
	c.replaying = true
	limit := c.tun.HistoryLimit
	c.mu.Unlock()

	data, err := c.cfg.Host.Tail(ctx, c.cfg.SessionID, limit)

	c.mu.Lock()
	c.replaying = false
	if c.phase == phaseDisposed || c.engine == nil {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.mu.Unlock()
		logger.Warn("history load failed", "session", c.cfg.SessionID, "err", err)
		return
	}

	var fire func()
	if len(data) > 0 {
		data = seq.StripQueries(data)
		data = seq.TrimToBoundary(data, boundaryLookahead)
		fire = c.writeEngineLocked(data)
	}
	c.historyLoaded = true
	c.mu.Unlock()

	if fire != nil {
		fire()
	}
}

// Activate brings a previously backgrounded session back to the foreground:
// it retries the history load if none has succeeded yet, refits, scrolls to
// the live screen and refocuses. Idempotent and safe to call repeatedly.
func (c *Controller) Activate(ctx context.Context) {
	c.mu.Lock()
	if c.phase == phaseConstructed || c.phase == phaseDisposed {
		c.mu.Unlock()
		return
	}
	loaded := c.historyLoaded
	c.mu.Unlock()

	if !loaded {
		c.loadHistory(ctx)
	}

	c.Fit()

	c.mu.Lock()
	if c.phase != phaseDisposed && c.engine != nil {
		c.engine.ScrollToBottom()
		c.engine.Focus()
	}
	c.mu.Unlock()
}
