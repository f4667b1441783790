package termsession

import "github.com/galleyhq/termsession/theme"

// Focus gives the terminal keyboard focus.
func (c *Controller) Focus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == phaseDisposed || c.engine == nil {
		return
	}
	c.engine.Focus()
}

// Refresh forces a full repaint of the terminal.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == phaseDisposed || c.engine == nil {
		return
	}
	c.engine.Refresh()
}

// SetTheme resolves a named theme and applies its colors to the engine.
// Before Initialize there is no engine yet; the name is recorded and the
// palette is applied when the engine is constructed.
func (c *Controller) SetTheme(name string) {
	pal := theme.Resolve(name)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == phaseDisposed {
		return
	}
	c.themeName = name
	if c.engine == nil {
		return
	}
	c.engine.SetThemeColors(pal.Fg, pal.Bg, pal.Cursor, pal.ANSI)
	c.engine.Refresh()
}

// GetThemeName returns the name of the currently applied theme.
func (c *Controller) GetThemeName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.themeName
}

// IsAltBufferActive reports whether a full-screen program currently owns the
// display via the alternate screen buffer.
func (c *Controller) IsAltBufferActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.altActive
}

// Search starts a scrollback search. Results are reported through the
// OnSearchResult callback. A no-op when the engine has no search capability.
func (c *Controller) Search(query string, opts SearchOptions) {
	c.searchOp(func(s Searcher) (int, int) {
		return s.Search(query, opts)
	})
}

// FindNext advances to the next search match.
func (c *Controller) FindNext() {
	c.searchOp(Searcher.FindNext)
}

// FindPrevious moves to the previous search match.
func (c *Controller) FindPrevious() {
	c.searchOp(Searcher.FindPrevious)
}

// ClearSearch clears the active search and its highlights.
func (c *Controller) ClearSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == phaseDisposed || c.engine == nil {
		return
	}
	if s, ok := c.engine.(Searcher); ok {
		s.ClearSearch()
	}
}

// searchOp runs one search operation against the engine's search capability
// and delivers the result callback outside the lock.
func (c *Controller) searchOp(op func(Searcher) (current, total int)) {
	c.mu.Lock()
	if c.phase == phaseDisposed || c.engine == nil {
		c.mu.Unlock()
		return
	}
	s, ok := c.engine.(Searcher)
	if !ok {
		c.mu.Unlock()
		return
	}
	current, total := op(s)
	cb := c.cfg.Callbacks.OnSearchResult
	c.mu.Unlock()

	if cb != nil {
		cb(current, total)
	}
}
