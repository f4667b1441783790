package termsession

import (
	"context"
	"testing"
	"time"
)

// initRig initializes the rig's controller and waits until it has settled
// into the ready phase, so tests start from a quiet state.
func initRig(t *testing.T, rig *testRig) {
	t.Helper()
	if err := rig.ctrl.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	waitFor(t, "ready phase", func() bool {
		rig.ctrl.mu.Lock()
		defer rig.ctrl.mu.Unlock()
		return rig.ctrl.phase == phaseReady
	})
}

func TestSmallScrollbackFitsImmediately(t *testing.T) {
	rig := newTestRig(t, nil)
	initRig(t, rig)
	rig.eng.setScrollback(199)

	before := rig.eng.resizeCount()
	rig.surf.setSize(1600, 960)
	rig.surf.triggerResize()

	// Below the threshold the fit happens synchronously, no debounce.
	if got := rig.eng.resizeCount(); got != before+1 {
		t.Fatalf("expected immediate fit, resize count %d -> %d", before, got)
	}
}

func TestLargeScrollbackDebouncesAndCoalesces(t *testing.T) {
	rig := newTestRig(t, nil)
	initRig(t, rig)
	rig.eng.setScrollback(201)

	before := rig.eng.resizeCount()
	rig.surf.setSize(1600, 960)
	for range 5 {
		rig.surf.triggerResize()
	}

	if got := rig.eng.resizeCount(); got != before {
		t.Fatalf("fit ran before the debounce window elapsed: %d -> %d", before, got)
	}

	waitFor(t, "debounced fit", func() bool {
		return rig.eng.resizeCount() > before
	})
	time.Sleep(50 * time.Millisecond)

	// Five triggers inside one window collapse to exactly one fit.
	if got := rig.eng.resizeCount(); got != before+1 {
		t.Errorf("expected one coalesced fit, resize count %d -> %d", before, got)
	}
}

func TestUnchangedDimensionsDoNotResize(t *testing.T) {
	rig := newTestRig(t, nil)
	initRig(t, rig)

	before := rig.eng.resizeCount()
	rig.ctrl.Fit()
	rig.ctrl.Fit()

	if got := rig.eng.resizeCount(); got != before {
		t.Errorf("fit with unchanged dimensions resized the engine: %d -> %d", before, got)
	}
}

func TestFitRetriesUntilMeasurableThenGivesUp(t *testing.T) {
	rig := newTestRig(t, func(cfg *SessionConfig) {
		cfg.Tunables.FitRetryLimit = 5
	})
	rig.surf.setSize(0, 0) // container not laid out
	initRig(t, rig)

	if got := rig.eng.resizeCount(); got != 0 {
		t.Fatalf("unmeasurable container produced a fit: %d resizes", got)
	}

	// Still unmeasurable: the retry chain must self-cancel after the
	// ceiling rather than loop forever. With synchronous frames the whole
	// chain runs inside this call.
	rig.ctrl.Fit()
	if got := rig.eng.resizeCount(); got != 0 {
		t.Fatalf("fit applied without a measurable container: %d", got)
	}

	rig.surf.setSize(800, 480)
	rig.ctrl.Fit()
	if got := rig.eng.resizeCount(); got != 1 {
		t.Errorf("expected one fit once measurable, got %d", got)
	}
}

func TestStaleFitRetriesAreInvalidated(t *testing.T) {
	rig := newTestRig(t, nil)
	initRig(t, rig)

	// Switch to queued frames so retry steps can be interleaved manually.
	rig.surf.mu.Lock()
	rig.surf.syncFrames = false
	rig.surf.width, rig.surf.height = 0, 0
	rig.surf.mu.Unlock()

	before := rig.eng.resizeCount()

	rig.ctrl.Fit() // generation 1: schedules a retry frame
	rig.ctrl.Fit() // generation 2: supersedes generation 1

	rig.surf.setSize(1600, 960)
	rig.surf.drainFrames()

	// Only the newest generation's retry may apply a fit.
	if got := rig.eng.resizeCount(); got != before+1 {
		t.Errorf("superseded retry chain still fit: %d -> %d", before, got)
	}
}

func TestFitClearsPendingDebounceTimer(t *testing.T) {
	rig := newTestRig(t, nil)
	initRig(t, rig)
	rig.eng.setScrollback(500)

	rig.surf.setSize(1600, 960)
	rig.surf.triggerResize()

	rig.ctrl.mu.Lock()
	armed := rig.ctrl.fitTimer != nil
	rig.ctrl.mu.Unlock()
	if !armed {
		t.Fatal("resize above the threshold did not arm the debounce timer")
	}

	// A direct fit supersedes the pending debounced one.
	rig.ctrl.Fit()

	rig.ctrl.mu.Lock()
	stale := rig.ctrl.fitTimer
	rig.ctrl.mu.Unlock()
	if stale != nil {
		t.Error("direct fit left the debounce timer armed")
	}

	// The debounced fit must not fire on top of the direct one.
	time.Sleep(50 * time.Millisecond)
	rig.ctrl.mu.Lock()
	leftover := rig.ctrl.fitTimer
	rig.ctrl.mu.Unlock()
	if leftover != nil {
		t.Error("debounce bookkeeping not cleared after firing window")
	}
}

func TestInitialFitPropagatesRemoteSize(t *testing.T) {
	rig := newTestRig(t, nil)
	initRig(t, rig)

	waitFor(t, "remote resize", func() bool { return rig.host.resizeCount() == 1 })

	rig.host.mu.Lock()
	defer rig.host.mu.Unlock()
	// 800x480 at 8x16 cells.
	if rig.host.resizes[0] != [2]int{100, 30} {
		t.Errorf("unexpected remote size %v", rig.host.resizes[0])
	}
}

func TestSnapshotRestoreSuppressesEarlyRemoteResize(t *testing.T) {
	rig := newTestRig(t, func(cfg *SessionConfig) {
		cfg.SessionID = "restored-tab"
		cfg.Tunables.SettleDelay = 60 * time.Millisecond
		cfg.Tunables.RemoteResizeDebounce = 10 * time.Millisecond
	})
	rig.cache.Set("restored-tab", "previous screen")

	if err := rig.ctrl.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	// The initial fit resized the local engine but, because the session
	// was restored while still initializing, the remote process keeps the
	// size it already had.
	if got := rig.eng.resizeCount(); got == 0 {
		t.Fatal("local engine not resized during init")
	}
	time.Sleep(30 * time.Millisecond)
	if got := rig.host.resizeCount(); got != 0 {
		t.Fatalf("suppressed remote resize was sent: %d calls", got)
	}

	// A second dimension-changing fit during initialization is still
	// suppressed.
	rig.surf.setSize(1200, 640)
	rig.ctrl.Fit()
	time.Sleep(30 * time.Millisecond)
	if got := rig.host.resizeCount(); got != 0 {
		t.Fatalf("remote resize sent while initializing: %d calls", got)
	}

	waitFor(t, "ready phase", func() bool {
		rig.ctrl.mu.Lock()
		defer rig.ctrl.mu.Unlock()
		return rig.ctrl.phase == phaseReady
	})

	// After initialization, a dimension-changing fit propagates exactly
	// once per distinct size.
	rig.surf.setSize(1600, 960)
	rig.ctrl.Fit()
	waitFor(t, "remote resize", func() bool { return rig.host.resizeCount() == 1 })

	rig.ctrl.Fit() // same size again
	time.Sleep(30 * time.Millisecond)
	if got := rig.host.resizeCount(); got != 1 {
		t.Errorf("remote resized more than once per distinct size: %d", got)
	}

	rig.host.mu.Lock()
	defer rig.host.mu.Unlock()
	if rig.host.resizes[0] != [2]int{200, 60} {
		t.Errorf("unexpected propagated size %v", rig.host.resizes[0])
	}
}
