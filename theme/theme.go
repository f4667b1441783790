// Package theme resolves named color themes into the colors a terminal
// emulation engine needs: default foreground, background, cursor, and the
// 16-color ANSI palette.
package theme

import (
	"image/color"
	"sync"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

// Palette holds the resolved terminal colors for one theme.
type Palette struct {
	Name   string
	Fg     color.Color
	Bg     color.Color
	Cursor color.Color
	ANSI   [16]color.Color
}

var (
	mu           sync.Mutex
	registryOnce sync.Once
)

// Default returns the fallback palette used when no theme is configured or
// the requested theme is unknown. Colors match the stock xterm palette.
func Default() Palette {
	return Palette{
		Name:   "",
		Fg:     lipgloss.Color("#e5e5e5"),
		Bg:     lipgloss.Color("#000000"),
		Cursor: lipgloss.Color("#00ff00"),
		ANSI: [16]color.Color{
			lipgloss.Color("#000000"), lipgloss.Color("#cd0000"), lipgloss.Color("#00cd00"), lipgloss.Color("#cdcd00"),
			lipgloss.Color("#0000ee"), lipgloss.Color("#cd00cd"), lipgloss.Color("#00cdcd"), lipgloss.Color("#e5e5e5"),
			lipgloss.Color("#7f7f7f"), lipgloss.Color("#ff0000"), lipgloss.Color("#00ff00"), lipgloss.Color("#ffff00"),
			lipgloss.Color("#5c5cff"), lipgloss.Color("#ff00ff"), lipgloss.Color("#00ffff"), lipgloss.Color("#ffffff"),
		},
	}
}

// Resolve looks up a named theme in the bubbletint registry and returns its
// palette. An empty or unknown name returns the default palette.
func Resolve(name string) Palette {
	if name == "" {
		return Default()
	}

	mu.Lock()
	defer mu.Unlock()

	registryOnce.Do(tint.NewDefaultRegistry)

	if ok := tint.SetTintID(name); !ok {
		return Default()
	}

	t := tint.Current()
	if t == nil {
		return Default()
	}

	return Palette{
		Name:   name,
		Fg:     t.Fg,
		Bg:     t.Bg,
		Cursor: t.Cursor,
		ANSI: [16]color.Color{
			t.Black,        // 0
			t.Red,          // 1
			t.Green,        // 2
			t.Yellow,       // 3
			t.Blue,         // 4
			t.Purple,       // 5
			t.Cyan,         // 6
			t.White,        // 7
			t.BrightBlack,  // 8
			t.BrightRed,    // 9
			t.BrightGreen,  // 10
			t.BrightYellow, // 11
			t.BrightBlue,   // 12
			t.BrightPurple, // 13
			t.BrightCyan,   // 14
			t.BrightWhite,  // 15
		},
	}
}
