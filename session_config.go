package termsession

import (
	"time"

	"github.com/galleyhq/termsession/config"
	"github.com/galleyhq/termsession/snapshot"
)

// Callbacks are optional notifications delivered to the surrounding
// application. All callbacks are invoked without internal locks held.
type Callbacks struct {
	// OnSearchResult reports the current match index and total match
	// count after a search operation.
	OnSearchResult func(current, total int)
	// OnExit fires once when the remote process ends. This is a normal
	// lifecycle event, not an error.
	OnExit func()
	// OnAltBufferChange fires once per alternate-screen transition, so
	// the application can adapt input handling while a full-screen
	// program owns the display.
	OnAltBufferChange func(active bool)
}

// SessionConfig is the immutable construction-time configuration of a
// Controller.
type SessionConfig struct {
	// SessionID identifies the session at the process host.
	SessionID string
	// Surface is the display container the engine renders into.
	Surface Surface
	// Host is the external process host collaborator.
	Host ProcessHost
	// Engine constructs the terminal emulation engine.
	Engine EngineFactory
	// Registry is the process-wide rendering backend registry. A private
	// registry is created when nil, which disables cross-session backend
	// memory.
	Registry *RendererRegistry
	// Snapshots caches serialized screen state across open/close cycles.
	// Optional; when nil every open replays history from the host.
	Snapshots *snapshot.Cache
	// Theme is the initial color theme name. Empty means default colors.
	Theme string
	// InterventionLocked sets the initial input-lock state.
	InterventionLocked bool
	// Tunables override timing and sizing knobs. Zero fields use defaults.
	Tunables Tunables
	// Callbacks are the application notification hooks.
	Callbacks Callbacks
}

// Tunables are the timing and sizing knobs of a Controller. The zero value
// of any field selects its default.
type Tunables struct {
	// ScrollbackLines is the emulator scrollback depth.
	ScrollbackLines int
	// ImmediateFitThreshold is the scrollback line count below which a
	// container resize fits immediately instead of debouncing. Reflowing
	// a small buffer is cheap enough that the delay would only add lag.
	ImmediateFitThreshold int
	// FitDebounce delays local refits for large scrollback buffers.
	FitDebounce time.Duration
	// RemoteResizeDebounce coalesces bursts of layout churn into one
	// resize call to the process host.
	RemoteResizeDebounce time.Duration
	// OutputFlush is the window within which remote output chunks are
	// batched into a single engine write.
	OutputFlush time.Duration
	// SettleDelay is the pause before the second initial fit pass,
	// absorbing layout settling from sidebar and animation transitions.
	SettleDelay time.Duration
	// FitRetryLimit caps next-frame retries while the container has no
	// measurable size.
	FitRetryLimit int
	// HistoryLimit bounds the history tail requested from the host.
	HistoryLimit int
}

// Default tunable values.
const (
	DefaultScrollbackLines       = 10000
	DefaultImmediateFitThreshold = 200
	DefaultFitDebounce           = 50 * time.Millisecond
	DefaultRemoteResizeDebounce  = 100 * time.Millisecond
	DefaultOutputFlush           = 8 * time.Millisecond
	DefaultSettleDelay           = 150 * time.Millisecond
	DefaultFitRetryLimit         = 30
	DefaultHistoryLimit          = 256 * 1024
)

// DefaultTunables returns the built-in tunable values.
func DefaultTunables() Tunables {
	return Tunables{
		ScrollbackLines:       DefaultScrollbackLines,
		ImmediateFitThreshold: DefaultImmediateFitThreshold,
		FitDebounce:           DefaultFitDebounce,
		RemoteResizeDebounce:  DefaultRemoteResizeDebounce,
		OutputFlush:           DefaultOutputFlush,
		SettleDelay:           DefaultSettleDelay,
		FitRetryLimit:         DefaultFitRetryLimit,
		HistoryLimit:          DefaultHistoryLimit,
	}
}

// TunablesFromSettings builds tunables from the console's settings file.
func TunablesFromSettings(t config.TerminalSettings) Tunables {
	return Tunables{
		ScrollbackLines:      t.ScrollbackLines,
		FitDebounce:          t.FitDebounce(),
		RemoteResizeDebounce: t.RemoteResizeDebounce(),
		OutputFlush:          t.OutputFlush(),
		HistoryLimit:         t.HistoryLimit(),
	}.withDefaults()
}

// withDefaults fills zero fields with their default values.
func (t Tunables) withDefaults() Tunables {
	if t.ScrollbackLines <= 0 {
		t.ScrollbackLines = DefaultScrollbackLines
	}
	if t.ImmediateFitThreshold <= 0 {
		t.ImmediateFitThreshold = DefaultImmediateFitThreshold
	}
	if t.FitDebounce <= 0 {
		t.FitDebounce = DefaultFitDebounce
	}
	if t.RemoteResizeDebounce <= 0 {
		t.RemoteResizeDebounce = DefaultRemoteResizeDebounce
	}
	if t.OutputFlush <= 0 {
		t.OutputFlush = DefaultOutputFlush
	}
	if t.SettleDelay <= 0 {
		t.SettleDelay = DefaultSettleDelay
	}
	if t.FitRetryLimit <= 0 {
		t.FitRetryLimit = DefaultFitRetryLimit
	}
	if t.HistoryLimit <= 0 {
		t.HistoryLimit = DefaultHistoryLimit
	}
	return t
}
