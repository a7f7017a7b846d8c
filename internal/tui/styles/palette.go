package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names.
const (
	ThemeDefault ThemeName = "default" // Purple/green dark theme
	ThemeMono    ThemeName = "mono"    // No colors; reverse video marks events
	ThemeNord    ThemeName = "nord"    // Nord theme - cool blue-gray
	ThemeDracula ThemeName = "dracula" // Dracula theme colors
)

// BuiltinThemes returns all built-in theme names.
func BuiltinThemes() []string {
	return []string{
		string(ThemeDefault),
		string(ThemeMono),
		string(ThemeNord),
		string(ThemeDracula),
	}
}

// IsValidTheme checks if a theme name is a built-in theme.
func IsValidTheme(name string) bool {
	return slices.Contains(BuiltinThemes(), name)
}

// ColorPalette defines the color scheme for a theme.
type ColorPalette struct {
	// Primary accent color (headers, default event fill)
	Primary lipgloss.Color
	// Secondary accent color (help keys, saved status)
	Secondary lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	// Muted color (axis ticks, placeholders, empty row cells)
	Muted   lipgloss.Color
	Surface lipgloss.Color
	Text    lipgloss.Color
	Border  lipgloss.Color

	// Named event colors, selected by an event's color field
	Blue   lipgloss.Color
	Green  lipgloss.Color
	Yellow lipgloss.Color
	Purple lipgloss.Color
	Pink   lipgloss.Color
	Orange lipgloss.Color
	Red    lipgloss.Color
}

// DefaultPalette returns the default purple/green dark theme palette.
func DefaultPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#A78BFA"), // Purple (violet-400)
		Secondary: lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#F87171"), // Red (red-400)
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Surface:   lipgloss.Color("#1F2937"), // Dark surface
		Text:      lipgloss.Color("#F9FAFB"), // Light text
		Border:    lipgloss.Color("#6B7280"), // Gray-500

		Blue:   lipgloss.Color("#60A5FA"),
		Green:  lipgloss.Color("#22C55E"),
		Yellow: lipgloss.Color("#FBBF24"),
		Purple: lipgloss.Color("#A78BFA"),
		Pink:   lipgloss.Color("#F472B6"),
		Orange: lipgloss.Color("#FB923C"),
		Red:    lipgloss.Color("#F87171"),
	}
}

// MonoPalette returns an empty palette. Every color is the terminal
// default, so styles fall back to bold and reverse video.
func MonoPalette() *ColorPalette {
	return &ColorPalette{}
}

// NordPalette returns the Nord theme palette.
// Based on the arctic, north-bluish color scheme.
func NordPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#88C0D0"), // Nord frost (cyan)
		Secondary: lipgloss.Color("#A3BE8C"), // Nord aurora green
		Warning:   lipgloss.Color("#EBCB8B"), // Nord aurora yellow
		Error:     lipgloss.Color("#BF616A"), // Nord aurora red
		Muted:     lipgloss.Color("#4C566A"), // Nord polar night 3
		Surface:   lipgloss.Color("#2E3440"), // Nord polar night 0
		Text:      lipgloss.Color("#ECEFF4"), // Nord snow storm 2
		Border:    lipgloss.Color("#3B4252"), // Nord polar night 1

		Blue:   lipgloss.Color("#81A1C1"), // Frost blue
		Green:  lipgloss.Color("#A3BE8C"),
		Yellow: lipgloss.Color("#EBCB8B"),
		Purple: lipgloss.Color("#B48EAD"),
		Pink:   lipgloss.Color("#B48EAD"), // Nord doesn't have pink, use purple
		Orange: lipgloss.Color("#D08770"),
		Red:    lipgloss.Color("#BF616A"),
	}
}

// DraculaPalette returns the Dracula theme palette.
func DraculaPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#BD93F9"), // Dracula purple
		Secondary: lipgloss.Color("#50FA7B"), // Dracula green
		Warning:   lipgloss.Color("#F1FA8C"), // Dracula yellow
		Error:     lipgloss.Color("#FF5555"), // Dracula red
		Muted:     lipgloss.Color("#6272A4"), // Dracula comment
		Surface:   lipgloss.Color("#282A36"), // Dracula background
		Text:      lipgloss.Color("#F8F8F2"), // Dracula foreground
		Border:    lipgloss.Color("#44475A"), // Dracula selection

		Blue:   lipgloss.Color("#8BE9FD"), // Cyan
		Green:  lipgloss.Color("#50FA7B"),
		Yellow: lipgloss.Color("#F1FA8C"),
		Purple: lipgloss.Color("#BD93F9"),
		Pink:   lipgloss.Color("#FF79C6"),
		Orange: lipgloss.Color("#FFB86C"),
		Red:    lipgloss.Color("#FF5555"),
	}
}

// GetPalette returns the color palette for the given theme name.
// Returns the default palette for unknown theme names.
func GetPalette(name ThemeName) *ColorPalette {
	switch name {
	case ThemeMono:
		return MonoPalette()
	case ThemeNord:
		return NordPalette()
	case ThemeDracula:
		return DraculaPalette()
	default:
		return DefaultPalette()
	}
}

// Named returns the palette color for an event color name. Hex values
// ("#RRGGBB") and ANSI numbers pass through unchanged; an empty or unknown
// name yields Primary.
func (p *ColorPalette) Named(name string) lipgloss.Color {
	switch name {
	case "blue":
		return p.Blue
	case "green":
		return p.Green
	case "yellow":
		return p.Yellow
	case "purple":
		return p.Purple
	case "pink":
		return p.Pink
	case "orange":
		return p.Orange
	case "red":
		return p.Red
	case "":
		return p.Primary
	}
	if name[0] == '#' || (name[0] >= '0' && name[0] <= '9') {
		return lipgloss.Color(name)
	}
	return p.Primary
}
