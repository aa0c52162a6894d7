package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskpane/internal/sections"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps a screen's content area.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// TabStyle renders an inactive tab label.
var TabStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Padding(0, 2)

// ActiveTabStyle renders the selected tab label.
var ActiveTabStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue).
	Padding(0, 2).
	Border(lipgloss.NormalBorder(), false, false, true, false).
	BorderForeground(ColorBlue)

// TitleStyle is used for screen titles.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	MarginBottom(1)

// LabelStyle introduces an input field.
var LabelStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGray)

// SelectedItemStyle highlights the currently selected choice.
var SelectedItemStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorStyle renders a screen's error message.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Bold(true)

// ResultStyle frames an operation result.
var ResultStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorGreen)

// ContextStyle frames the analysis context shown on the compose screen.
var ContextStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Padding(0, 1).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorSubtle)

// BulletStyle colors the glyph in front of list items.
var BulletStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// categoryColors is the title color per analysis section category.
var categoryColors = map[sections.Category]lipgloss.AdaptiveColor{
	sections.CategoryContext:     ColorBlue,
	sections.CategoryKeyPoints:   ColorMagenta,
	sections.CategoryFigures:     ColorYellow,
	sections.CategoryActions:     ColorGreen,
	sections.CategoryAttachments: ColorOrange,
}

// SectionTitleStyle returns the title style for an analysis section.
func SectionTitleStyle(c sections.Category) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	if color, ok := categoryColors[c]; ok {
		return base.Foreground(color)
	}
	return base.Foreground(ColorWhite)
}
