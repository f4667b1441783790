package termsession

import (
	"image/color"

	"github.com/galleyhq/termsession/theme"
)

// CursorStyle selects the cursor shape drawn by the emulation engine.
type CursorStyle int

const (
	// CursorBlock draws a full-cell cursor.
	CursorBlock CursorStyle = iota
	// CursorUnderline draws an underline cursor.
	CursorUnderline
	// CursorBar draws a thin vertical bar cursor.
	CursorBar
)

// EngineOptions are the base display options merged with the resolved theme
// when the Controller constructs its engine.
type EngineOptions struct {
	Cols int // initial grid width before the first fit
	Rows int // initial grid height before the first fit

	ScrollbackLines      int
	CursorStyle          CursorStyle
	CursorBlink          bool
	FontFamily           string
	FontSizePx           int
	LineHeight           float64
	MinimumContrastRatio float64

	Theme theme.Palette
}

// EngineFactory constructs a terminal emulation engine. The factory is
// responsible for attaching its capability addons; size measurement must be
// available before Mount is called because the initial fit depends on it.
type EngineFactory func(opts EngineOptions) (Engine, error)

// Engine is the terminal emulation engine driven by a Controller. It
// interprets a byte stream as terminal control sequences and renders a
// character grid; the Controller never parses escape sequences itself.
//
// Engines may additionally implement Searcher and GPUCapable; the Controller
// discovers those capabilities by type assertion.
type Engine interface {
	// Mount attaches the engine's output to the display surface.
	Mount(s Surface)
	// Write feeds raw terminal output into the engine.
	Write(p []byte) (n int, err error)
	// Resize changes the engine's character grid.
	Resize(cols, rows int)
	// CellSize reports the pixel size of one character cell. Zero values
	// mean the engine has not measured its font yet.
	CellSize() (width, height int)
	// IsAltScreen reports whether the alternate screen buffer is active.
	// The engine exposes this as a passive property only; the Controller
	// samples it after every write to detect transitions.
	IsAltScreen() bool
	// ScrollbackLen returns the number of lines in the scrollback buffer.
	ScrollbackLen() int
	// SetThemeColors applies terminal colors at runtime.
	SetThemeColors(fg, bg, cursor color.Color, palette [16]color.Color)
	// Serialize returns the current screen contents as replayable text.
	Serialize() string
	// ScrollToBottom scrolls the viewport to the live screen.
	ScrollToBottom()
	// Focus gives the engine keyboard focus.
	Focus()
	// Refresh forces a full repaint.
	Refresh()
	// Close releases the engine and its addons.
	Close() error
}

// SearchOptions configure a scrollback search.
type SearchOptions struct {
	CaseSensitive bool
	Regex         bool
	WholeWord     bool
}

// Searcher is the optional search capability of an engine.
type Searcher interface {
	Search(query string, opts SearchOptions) (current, total int)
	FindNext() (current, total int)
	FindPrevious() (current, total int)
	ClearSearch()
}

// Renderer is a handle to an attached rendering backend.
type Renderer interface {
	Dispose()
}

// GPUCapable is the optional GPU rendering capability of an engine. The
// onContextLoss callback is invoked asynchronously, after AttachGPU has
// returned, when the GPU context is lost at runtime.
type GPUCapable interface {
	AttachGPU(onContextLoss func()) (Renderer, error)
}

// Surface is the display container the engine is mounted into. Size reports
// zero (or sub-cell) dimensions while the container is not yet laid out.
type Surface interface {
	// Size returns the container's current pixel dimensions.
	Size() (widthPx, heightPx int)
	// RequestFrame schedules fn for the next paint.
	RequestFrame(fn func())
	// OnResize registers a container-resize observer and returns a
	// function that removes it.
	OnResize(fn func()) (cancel func())
}
