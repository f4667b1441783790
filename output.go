package termsession

import (
	"time"

	"github.com/galleyhq/termsession/internal/pool"
)

// handleHostData receives one chunk of remote output. Chunks are never
// written to the engine synchronously: they are appended to the pending
// buffer and flushed as one batch when the flush timer fires, amortizing
// per-write rendering cost under bursty producers while staying below
// perceptible latency. Output arriving during history or snapshot replay is
// dropped; it would race with and duplicate the ongoing replay.
func (c *Controller) handleHostData(p []byte) {
	if len(p) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == phaseDisposed || c.engine == nil || c.replaying {
		return
	}

	// The host owns p after this call returns.
	buf := make([]byte, len(p))
	copy(buf, p)
	c.pending = append(c.pending, buf)

	if c.flushTimer == nil {
		c.flushTimer = time.AfterFunc(c.tun.OutputFlush, c.flushOutput)
	}
}

// flushOutput writes all buffered chunks to the engine as a single batch.
func (c *Controller) flushOutput() {
	c.mu.Lock()
	c.flushTimer = nil
	fire := c.flushPendingLocked()
	c.mu.Unlock()

	if fire != nil {
		fire()
	}
}

// flushPendingLocked concatenates the pending chunks in strict arrival order
// and writes them as one engine write, reusing a pooled scratch buffer. The
// engine consumes the batch synchronously, so the buffer can go straight
// back to the pool. Caller must hold c.mu; the returned function, when
// non-nil, must be invoked after the lock is released.
func (c *Controller) flushPendingLocked() func() {
	if c.engine == nil || len(c.pending) == 0 {
		c.pending = nil
		return nil
	}

	chunks := c.pending
	c.pending = nil

	if len(chunks) == 1 {
		return c.writeEngineLocked(chunks[0])
	}

	bp := pool.GetByteSlice()
	defer pool.PutByteSlice(bp)

	buf := (*bp)[:0]
	for _, chunk := range chunks {
		buf = append(buf, chunk...)
	}
	return c.writeEngineLocked(buf)
}

// writeEngineLocked writes a batch into the engine and samples the active
// buffer type afterwards. The engine only exposes the alternate screen as a
// passive property, so transition detection runs as a hook after every write
// completion; the returned function, when non-nil, delivers the transition
// callback and must be invoked after c.mu is released. Fires once per
// transition, not once per write.
func (c *Controller) writeEngineLocked(p []byte) func() {
	if c.engine == nil || len(p) == 0 {
		return nil
	}

	if _, err := c.engine.Write(p); err != nil {
		logger.Debug("engine write failed", "session", c.cfg.SessionID, "err", err)
	}

	alt := c.engine.IsAltScreen()
	if alt == c.altActive {
		return nil
	}
	c.altActive = alt

	cb := c.cfg.Callbacks.OnAltBufferChange
	if cb == nil {
		return nil
	}
	return func() { cb(alt) }
}
