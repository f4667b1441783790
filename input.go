package termsession

// interruptByte is Ctrl+C. It must stay deliverable even while intervention
// lock is active, so a runaway process can always be cancelled.
const interruptByte = 0x03

// SendInput forwards locally typed input to the remote process, unbuffered:
// keystroke latency matters more than batching. Two suppressions apply:
// input during history or snapshot replay is dropped (it cannot be intended
// for a screen the user has not seen yet), and input is dropped while the
// intervention lock is engaged, except for the interrupt byte.
func (c *Controller) SendInput(p []byte) {
	if len(p) == 0 {
		return
	}

	c.mu.Lock()
	if c.phase == phaseConstructed || c.phase == phaseDisposed {
		c.mu.Unlock()
		return
	}
	if c.replaying {
		c.mu.Unlock()
		return
	}
	if c.locked && !isInterrupt(p) {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	// Fire and forget; write errors are not awaited for input forwarding.
	c.cfg.Host.Write(c.cfg.SessionID, p)
}

func isInterrupt(p []byte) bool {
	return len(p) == 1 && p[0] == interruptByte
}

// SetInterventionLocked engages or releases the input lock used while
// automated control of the session is active.
func (c *Controller) SetInterventionLocked(locked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == phaseDisposed {
		return
	}
	c.locked = locked
}
