// Package styles holds the lipgloss styles of the planboard TUI.
package styles

import "github.com/charmbracelet/lipgloss"

// Styles is the full style set for one theme.
type Styles struct {
	Palette *ColorPalette
	Mono    bool

	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	RowTitle    lipgloss.Style
	RowSelected lipgloss.Style
	Separator   lipgloss.Style
	Axis        lipgloss.Style
	Grid        lipgloss.Style
	Placeholder lipgloss.Style
	Milestone   lipgloss.Style
	Handle      lipgloss.Style

	StatusBar   lipgloss.Style
	StatusError lipgloss.Style
	StatusOK    lipgloss.Style

	Popover      lipgloss.Style
	Menu         lipgloss.Style
	MenuItem     lipgloss.Style
	MenuSelected lipgloss.Style
	Editor       lipgloss.Style
}

// New builds the styles for a theme. Unknown names get the default theme.
func New(name ThemeName) *Styles {
	p := GetPalette(name)
	s := &Styles{Palette: p, Mono: name == ThemeMono}

	s.Title = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	s.Subtitle = lipgloss.NewStyle().Foreground(p.Muted).Italic(true)
	s.RowTitle = lipgloss.NewStyle().Foreground(p.Text)
	s.RowSelected = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	s.Separator = lipgloss.NewStyle().Foreground(p.Border)
	s.Axis = lipgloss.NewStyle().Foreground(p.Muted)
	s.Grid = lipgloss.NewStyle().Foreground(p.Border)
	s.Placeholder = lipgloss.NewStyle().Foreground(p.Muted).Faint(true)
	s.Milestone = lipgloss.NewStyle().Bold(true).Foreground(p.Warning)
	s.Handle = lipgloss.NewStyle().Bold(true)

	s.StatusBar = lipgloss.NewStyle().
		Foreground(p.Text).
		Background(p.Surface).
		Padding(0, 1)
	s.StatusError = lipgloss.NewStyle().Foreground(p.Error).Bold(true)
	s.StatusOK = lipgloss.NewStyle().Foreground(p.Secondary)

	s.Popover = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)
	s.Menu = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(p.Primary)
	s.MenuItem = lipgloss.NewStyle().Padding(0, 1)
	s.MenuSelected = lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Foreground(p.Surface).
		Background(p.Primary)
	s.Editor = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Secondary).
		Padding(0, 1)

	if s.Mono {
		s.MenuSelected = lipgloss.NewStyle().Padding(0, 1).Reverse(true)
	}
	return s
}

// Event returns the fill style for an event bar.
func (s *Styles) Event(color string, selected, active bool) lipgloss.Style {
	st := lipgloss.NewStyle()
	if s.Mono {
		st = st.Reverse(true)
	} else {
		st = st.Foreground(s.Palette.Surface).Background(s.Palette.Named(color))
	}
	if selected {
		st = st.Bold(true).Underline(true)
	}
	if active {
		st = st.Italic(true)
	}
	return st
}
