// Package theme defines the named color themes of the terminal UI.
//
// A Theme is a plain value chosen once at startup and handed to the app and
// every screen. There is no package-level palette to mutate.
package theme

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// Theme names.
const (
	Calm     = "calm"
	Contrast = "contrast"
	Light    = "light"
)

// Palette is the set of colors a theme is built from.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Warning   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	Bg        color.Color
	BgCard    color.Color
	Border    color.Color
}

// Theme is a palette plus the styles derived from it.
type Theme struct {
	Name    string
	Palette Palette

	// Typography
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Hint     lipgloss.Style

	// Layout
	Header lipgloss.Style
	Footer lipgloss.Style
	Card   lipgloss.Style

	// States
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Answered   lipgloss.Style
	Alert      lipgloss.Style
	Notice     lipgloss.Style

	// Components
	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style
	ButtonActive   lipgloss.Style
	ButtonInactive lipgloss.Style
}

var palettes = map[string]Palette{
	// Muted blues and greens, low saturation.
	Calm: {
		Primary:   lipgloss.Color("#7AA2C8"),
		Secondary: lipgloss.Color("#6FB3A6"),
		Accent:    lipgloss.Color("#C9B37E"),
		Success:   lipgloss.Color("#7FBF8E"),
		Warning:   lipgloss.Color("#D9A85B"),
		Error:     lipgloss.Color("#D9776F"),
		Text:      lipgloss.Color("#E6EAF0"),
		TextDim:   lipgloss.Color("#97A3B4"),
		Bg:        lipgloss.Color("#1B2230"),
		BgCard:    lipgloss.Color("#242D3D"),
		Border:    lipgloss.Color("#3A465A"),
	},
	Contrast: {
		Primary:   lipgloss.Color("#FFD400"),
		Secondary: lipgloss.Color("#00E5FF"),
		Accent:    lipgloss.Color("#FFFFFF"),
		Success:   lipgloss.Color("#00FF66"),
		Warning:   lipgloss.Color("#FFB000"),
		Error:     lipgloss.Color("#FF3B3B"),
		Text:      lipgloss.Color("#FFFFFF"),
		TextDim:   lipgloss.Color("#D0D0D0"),
		Bg:        lipgloss.Color("#000000"),
		BgCard:    lipgloss.Color("#000000"),
		Border:    lipgloss.Color("#FFFFFF"),
	},
	Light: {
		Primary:   lipgloss.Color("#2F5D8A"),
		Secondary: lipgloss.Color("#2E8B7A"),
		Accent:    lipgloss.Color("#9A6B1F"),
		Success:   lipgloss.Color("#2E7D32"),
		Warning:   lipgloss.Color("#B26A00"),
		Error:     lipgloss.Color("#B3261E"),
		Text:      lipgloss.Color("#1C232B"),
		TextDim:   lipgloss.Color("#5B6670"),
		Bg:        lipgloss.Color("#F7F8FA"),
		BgCard:    lipgloss.Color("#ECEFF3"),
		Border:    lipgloss.Color("#C3CAD3"),
	},
}

// names is the display order of the built-in themes.
var names = []string{Calm, Contrast, Light}

// Names returns the built-in theme names.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Default returns the calm theme.
func Default() Theme {
	t, _ := Lookup(Calm)
	return t
}

// Lookup returns the theme with the given name. Matching ignores case and
// surrounding space; an empty name selects the default.
func Lookup(name string) (Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = Calm
	}
	p, ok := palettes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(names, ", "))
	}
	return New(name, p), nil
}

// New builds a theme from a palette.
func New(name string, p Palette) Theme {
	return Theme{
		Name:    name,
		Palette: p,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary).
			Align(lipgloss.Center),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.TextDim).
			Align(lipgloss.Center),
		Body: lipgloss.NewStyle().
			Foreground(p.Text),
		Hint: lipgloss.NewStyle().
			Foreground(p.TextDim).
			Italic(true),

		Header: lipgloss.NewStyle().
			Background(p.BgCard).
			Padding(0, 2),
		Footer: lipgloss.NewStyle().
			Background(p.BgCard).
			Padding(0, 2),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(1, 2),

		Selected: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),
		Unselected: lipgloss.NewStyle().
			Foreground(p.Text),
		Answered: lipgloss.NewStyle().
			Foreground(p.Success),
		Alert: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),
		Notice: lipgloss.NewStyle().
			Foreground(p.Warning),

		ProgressFilled: lipgloss.NewStyle().
			Background(p.Secondary),
		ProgressEmpty: lipgloss.NewStyle().
			Background(p.Border),
		ButtonActive: lipgloss.NewStyle().
			Background(p.Primary).
			Foreground(p.Bg).
			Bold(true).
			Padding(0, 2),
		ButtonInactive: lipgloss.NewStyle().
			Foreground(p.Text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 2),
	}
}

// BandColor picks a color for a severity band by its position in the
// instrument's band table: the first band is success, the last is error.
func (t Theme) BandColor(index, count int) color.Color {
	switch {
	case count <= 1 || index <= 0:
		return t.Palette.Success
	case index >= count-1:
		return t.Palette.Error
	case index*2 < count:
		return t.Palette.Accent
	default:
		return t.Palette.Warning
	}
}
