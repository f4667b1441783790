package termsession

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/galleyhq/termsession/theme"
)

// phase is the controller lifecycle state. Disposed is absorbing: it is
// reachable from any other phase and every public operation afterwards is a
// no-op, never an error.
type phase int

const (
	phaseConstructed phase = iota
	phaseInitializing
	phaseReady
	phaseDisposed
)

// Controller binds one terminal emulation engine to one remote shell session.
// It is valid between New and Dispose; Dispose is unconditionally safe to
// call at any time, from any phase, any number of times.
type Controller struct {
	cfg SessionConfig
	tun Tunables

	mu    sync.Mutex
	phase phase

	engine Engine
	gpu    Renderer

	themeName string

	// replay bookkeeping
	replaying     bool
	historyLoaded bool
	restored      bool
	hasExited     bool

	// resize bookkeeping
	lastCols    int
	lastRows    int
	fitEpoch    uint64
	fitTimer    *time.Timer
	resizeTimer *time.Timer
	settleTimer *time.Timer
	cancelFit   func() // removes the container resize observer

	// output bookkeeping
	pending    [][]byte
	flushTimer *time.Timer

	altActive bool
	locked    bool

	unsubscribe func()
}

// New creates a Controller for one terminal session. The controller does
// nothing until Initialize is called.
func New(cfg SessionConfig) (*Controller, error) {
	if cfg.SessionID == "" {
		return nil, errors.New("termsession: session id is required")
	}
	if cfg.Surface == nil {
		return nil, errors.New("termsession: surface is required")
	}
	if cfg.Host == nil {
		return nil, errors.New("termsession: process host is required")
	}
	if cfg.Engine == nil {
		return nil, errors.New("termsession: engine factory is required")
	}
	if cfg.Registry == nil {
		cfg.Registry = NewRendererRegistry()
	}

	return &Controller{
		cfg:       cfg,
		tun:       cfg.Tunables.withDefaults(),
		locked:    cfg.InterventionLocked,
		themeName: cfg.Theme,
	}, nil
}

// Initialize constructs the engine, attaches the rendering backend,
// subscribes to the process host, replays a cached snapshot or the host's
// history tail (exactly one of the two), and schedules the initial fit.
// Resize observation is installed only after replay completes: replaying
// buffered history while resize signals fire produces duplicate prompt
// redraws and visible flicker in full-screen programs.
//
// Initialize is a no-op if the controller was already initialized or
// disposed. It blocks until replay completes; the initial fit passes and the
// transition to the ready phase happen asynchronously afterwards.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != phaseConstructed {
		c.mu.Unlock()
		return nil
	}
	c.phase = phaseInitializing
	themeName := c.themeName
	c.mu.Unlock()

	pal := theme.Resolve(themeName)
	eng, err := c.cfg.Engine(EngineOptions{
		Cols:                 80,
		Rows:                 24,
		ScrollbackLines:      c.tun.ScrollbackLines,
		CursorStyle:          CursorBlock,
		CursorBlink:          true,
		FontFamily:           "monospace",
		FontSizePx:           14,
		LineHeight:           1.2,
		MinimumContrastRatio: 1,
		Theme:                pal,
	})
	if err != nil {
		c.Dispose()
		return err
	}

	c.mu.Lock()
	if c.phase == phaseDisposed {
		c.mu.Unlock()
		_ = eng.Close()
		return nil
	}
	c.engine = eng
	eng.Mount(c.cfg.Surface)
	c.attachRendererLocked()
	c.mu.Unlock()

	// Subscribe before replay so no output window is missed; the replaying
	// flag drops anything that races with the replay itself.
	unsub, err := c.cfg.Host.Subscribe(c.cfg.SessionID, HostHandler{
		OnData: c.handleHostData,
		OnExit: c.handleHostExit,
	})
	if err != nil {
		logger.Warn("event subscription failed",
			"session", c.cfg.SessionID, "err", err)
	} else {
		c.mu.Lock()
		if c.phase == phaseDisposed {
			c.mu.Unlock()
			unsub()
			return nil
		}
		c.unsubscribe = unsub
		c.mu.Unlock()
	}

	if !c.replaySnapshot() {
		c.loadHistory(ctx)
	}

	c.mu.Lock()
	if c.phase == phaseDisposed {
		c.mu.Unlock()
		return nil
	}
	c.cancelFit = c.cfg.Surface.OnResize(c.requestFit)
	c.settleTimer = time.AfterFunc(c.tun.SettleDelay, c.settle)
	c.mu.Unlock()

	// First fit pass at next paint; the settle timer runs the second.
	c.cfg.Surface.RequestFrame(c.Fit)

	return nil
}

// settle runs the second initial fit pass and moves the controller to the
// ready phase. Only from then on do fits propagate resizes for sessions
// restored from a snapshot.
func (c *Controller) settle() {
	c.Fit()
	c.mu.Lock()
	if c.phase == phaseInitializing {
		c.phase = phaseReady
	}
	c.settleTimer = nil
	c.mu.Unlock()
}

// attachRendererLocked attempts the GPU backend unless a previous session
// already recorded a failure. Caller must hold c.mu.
func (c *Controller) attachRendererLocked() {
	if c.cfg.Registry.Preferred() == RendererSoftware {
		return
	}
	gc, ok := c.engine.(GPUCapable)
	if !ok {
		return
	}
	r, err := gc.AttachGPU(c.onContextLoss)
	if err != nil {
		// Same treatment as a context loss: fall back to the baseline
		// renderer and stop attempting GPU for the rest of the process.
		c.cfg.Registry.MarkSoftware()
		logger.Warn("gpu backend attach failed, using software renderer",
			"session", c.cfg.SessionID, "err", err)
		return
	}
	c.cfg.Registry.MarkGPU()
	c.gpu = r
}

// onContextLoss tears down the GPU backend for this instance and records the
// failure so sibling and future sessions stop attempting GPU rendering.
// Subsequent frames fall back to the baseline renderer; no GPU retry happens
// for the lifetime of the process.
func (c *Controller) onContextLoss() {
	c.cfg.Registry.MarkSoftware()

	c.mu.Lock()
	gpu := c.gpu
	c.gpu = nil
	c.mu.Unlock()

	if gpu != nil {
		gpu.Dispose()
	}
	logger.Info("gpu context lost, falling back to software renderer",
		"session", c.cfg.SessionID)
}

// handleHostExit marks the session as exited and notifies the application.
func (c *Controller) handleHostExit() {
	c.mu.Lock()
	if c.phase == phaseDisposed || c.hasExited {
		c.mu.Unlock()
		return
	}
	c.hasExited = true
	cb := c.cfg.Callbacks.OnExit
	c.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// Dispose releases the controller: it cancels every pending timer, flushes
// buffered output so the most recent lines are not lost, stores a screen
// snapshot (only if history ever loaded), detaches the host subscription and
// resize observer, and closes the rendering backend and engine. Idempotent.
func (c *Controller) Dispose() {
	c.mu.Lock()
	if c.phase == phaseDisposed {
		c.mu.Unlock()
		return
	}
	c.phase = phaseDisposed
	c.fitEpoch++ // invalidate in-flight fit retries

	for _, t := range []*time.Timer{c.fitTimer, c.resizeTimer, c.settleTimer, c.flushTimer} {
		if t != nil {
			t.Stop()
		}
	}
	c.fitTimer, c.resizeTimer, c.settleTimer, c.flushTimer = nil, nil, nil, nil

	// Flush rather than discard so the most recent lines survive into the
	// snapshot. The alt-buffer callback is not delivered past disposal.
	_ = c.flushPendingLocked()

	if c.historyLoaded && c.cfg.Snapshots != nil && c.engine != nil {
		c.cfg.Snapshots.Set(c.cfg.SessionID, c.engine.Serialize())
	}

	unsub := c.unsubscribe
	cancelFit := c.cancelFit
	gpu := c.gpu
	eng := c.engine
	c.unsubscribe = nil
	c.cancelFit = nil
	c.gpu = nil
	c.engine = nil
	c.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	if cancelFit != nil {
		cancelFit()
	}
	if gpu != nil {
		gpu.Dispose()
	}
	if eng != nil {
		_ = eng.Close()
	}
}
