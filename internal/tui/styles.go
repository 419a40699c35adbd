package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App          lipgloss.Style
	Pane         lipgloss.Style
	PaneActive   lipgloss.Style
	Modal        lipgloss.Style
	Title        lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	Group        lipgloss.Style
	Link         lipgloss.Style
	URL          lipgloss.Style
	Icon         lipgloss.Style
	Match        lipgloss.Style
	Empty        lipgloss.Style
	Saving       lipgloss.Style
	Message      lipgloss.Style
	HintKey      lipgloss.Style
	HintDesc     lipgloss.Style
	Breadcrumb   lipgloss.Style
}

// palette is the handful of colors the styles are built from.
type palette struct {
	primary  lipgloss.Color // main text
	subtle   lipgloss.Color // secondary text
	accent   lipgloss.Color // desaturated teal
	border   lipgloss.Color // inactive borders
	onAccent lipgloss.Color // text on accent background
}

var (
	lightPalette = palette{
		primary:  "#505050",
		subtle:   "#888888",
		accent:   "#4A7070",
		border:   "#888888",
		onAccent: "#F5F5F5",
	}
	darkPalette = palette{
		primary:  "#A0A0A0",
		subtle:   "#606060",
		accent:   "#5F8787",
		border:   "#505050",
		onAccent: "#1A1A1A",
	}
)

// NewStyles returns the style set for a light or dark terminal.
// Industrial design: grayscale with single desaturated teal accent.
func NewStyles(dark bool) Styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(p.border).
			Padding(0, 1),

		PaneActive: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(p.accent).
			Padding(0, 1),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(p.accent).
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.accent),

		Item: lipgloss.NewStyle().
			Foreground(p.primary).
			PaddingLeft(1),

		ItemSelected: lipgloss.NewStyle().
			PaddingLeft(1).
			Background(p.accent).
			Foreground(p.onAccent),

		Group: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true),

		Link: lipgloss.NewStyle().
			Foreground(p.primary),

		URL: lipgloss.NewStyle().
			Foreground(p.subtle),

		Icon: lipgloss.NewStyle().
			Foreground(p.accent),

		Match: lipgloss.NewStyle().
			Foreground(p.accent).
			Underline(true),

		Empty: lipgloss.NewStyle().
			Foreground(p.subtle),

		Saving: lipgloss.NewStyle().
			Foreground(p.accent).
			Italic(true),

		Message: lipgloss.NewStyle().
			Foreground(p.accent),

		HintKey: lipgloss.NewStyle().
			Foreground(p.subtle),

		HintDesc: lipgloss.NewStyle().
			Foreground(p.subtle),

		Breadcrumb: lipgloss.NewStyle().
			Foreground(p.subtle).
			PaddingLeft(1),
	}
}
