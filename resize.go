package termsession

import "time"

// Fallback cell metrics for engines that have not measured their font yet.
const (
	fallbackCellWidth  = 8
	fallbackCellHeight = 16
)

// requestFit handles a container or window resize event. Local re-layout is
// cheap while reflowing a deep scrollback buffer is not, so small buffers
// fit immediately and large ones debounce.
func (c *Controller) requestFit() {
	c.mu.Lock()
	if c.phase == phaseDisposed || c.engine == nil {
		c.mu.Unlock()
		return
	}
	if c.engine.ScrollbackLen() < c.tun.ImmediateFitThreshold {
		c.mu.Unlock()
		c.Fit()
		return
	}
	if c.fitTimer != nil {
		c.fitTimer.Stop()
	}
	c.fitTimer = time.AfterFunc(c.tun.FitDebounce, c.Fit)
	c.mu.Unlock()
}

// Fit measures the container, proposes a column/row count from its pixel
// size and the engine's cell metrics, and applies the result. While the
// container has no measurable size (not laid out yet), Fit retries at the
// next paint up to a fixed ceiling and then gives up silently. Each call
// starts a new fit generation; retries from a superseded generation abort at
// their next step, so overlapping calls never run competing retry chains.
func (c *Controller) Fit() {
	c.mu.Lock()
	if c.phase == phaseDisposed || c.engine == nil {
		c.mu.Unlock()
		return
	}
	if c.fitTimer != nil {
		c.fitTimer.Stop()
		c.fitTimer = nil
	}
	c.fitEpoch++
	epoch := c.fitEpoch
	c.mu.Unlock()

	c.tryFit(epoch, 0)
}

// tryFit is one step of a fit generation. The generation counter is carried
// by value; a stale step observes a newer fitEpoch and stops.
func (c *Controller) tryFit(epoch uint64, attempt int) {
	c.mu.Lock()
	if c.phase == phaseDisposed || c.engine == nil || epoch != c.fitEpoch {
		c.mu.Unlock()
		return
	}

	widthPx, heightPx := c.cfg.Surface.Size()
	cellW, cellH := c.engine.CellSize()
	if cellW <= 0 {
		cellW = fallbackCellWidth
	}
	if cellH <= 0 {
		cellH = fallbackCellHeight
	}

	if widthPx < cellW || heightPx < cellH {
		c.mu.Unlock()
		if attempt >= c.tun.FitRetryLimit {
			return
		}
		c.cfg.Surface.RequestFrame(func() { c.tryFit(epoch, attempt+1) })
		return
	}

	c.applyFitLocked(widthPx/cellW, heightPx/cellH)
	c.mu.Unlock()
}

// applyFitLocked resizes the local engine immediately (cheap, synchronous)
// and schedules the expensive remote resize behind a debounce window so
// bursts of layout churn coalesce into one host call. Caller must hold c.mu.
func (c *Controller) applyFitLocked(cols, rows int) {
	cols = max(cols, 1)
	rows = max(rows, 1)
	if cols == c.lastCols && rows == c.lastRows {
		return
	}
	c.lastCols = cols
	c.lastRows = rows

	c.engine.Resize(cols, rows)

	if c.restored && c.phase == phaseInitializing {
		// The remote process already has this size from the previous
		// run of the session; resending would force a needless reflow.
		return
	}

	if c.resizeTimer != nil {
		c.resizeTimer.Stop()
	}
	c.resizeTimer = time.AfterFunc(c.tun.RemoteResizeDebounce, func() {
		c.pushRemoteSize(cols, rows)
	})
}

// pushRemoteSize propagates dimensions to the process host. Failure is
// logged, not retried and not surfaced: the next successful fit self-heals.
func (c *Controller) pushRemoteSize(cols, rows int) {
	c.mu.Lock()
	if c.phase == phaseDisposed || cols != c.lastCols || rows != c.lastRows {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	if err := c.cfg.Host.Resize(c.cfg.SessionID, cols, rows); err != nil {
		logger.Warn("remote resize failed",
			"session", c.cfg.SessionID, "cols", cols, "rows", rows, "err", err)
	}
}
