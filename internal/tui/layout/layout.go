// Package layout holds the size arithmetic of the terminal UI, kept free of
// rendering so it can be tested in isolation.
package layout

// Config holds all layout-related configuration values.
type Config struct {
	Pane  PaneConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// PaneConfig holds pane dimension configuration.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + header (1) + pane borders (2) + help bar (3) = 7
	HeightReduction int
	MinHeight       int

	// WidthOffset is subtracted before dividing by the pane count.
	// Accounts for borders and spacing between panes.
	WidthOffset int
	MinWidth    int

	// ContentPadding is subtracted from pane width for item rendering.
	ContentPadding int

	// HeaderLines is the number of lines a pane uses above its items.
	HeaderLines int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	WidthPercent int // modal width as percentage of terminal width
	MinWidth     int
	MaxWidth     int
	MaxVisible   int // max rows in modal lists (search results)
}

// InputConfig holds text input configuration.
type InputConfig struct {
	TitleCharLimit  int
	URLCharLimit    int
	IconCharLimit   int
	SearchCharLimit int
	Width           int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() Config {
	return Config{
		Pane: PaneConfig{
			HeightReduction: 7,
			MinHeight:       5,
			WidthOffset:     8,
			MinWidth:        20,
			ContentPadding:  4,
			HeaderLines:     2,
		},
		Modal: ModalConfig{
			WidthPercent: 50,
			MinWidth:     50,
			MaxWidth:     90,
			MaxVisible:   10,
		},
		Input: InputConfig{
			TitleCharLimit:  100,
			URLCharLimit:    500,
			IconCharLimit:   40,
			SearchCharLimit: 100,
			Width:           40,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}

// PaneCount is the number of Miller columns: parent | current | preview.
const PaneCount = 3

// PaneHeight computes the content height for panes, at least MinHeight.
func PaneHeight(terminalHeight int, cfg PaneConfig) int {
	height := terminalHeight - cfg.HeightReduction
	if height < cfg.MinHeight {
		return cfg.MinHeight
	}
	return height
}

// PaneWidth computes the width of each pane, at least MinWidth.
func PaneWidth(terminalWidth int, cfg PaneConfig) int {
	width := (terminalWidth - cfg.WidthOffset) / PaneCount
	if width < cfg.MinWidth {
		return cfg.MinWidth
	}
	return width
}

// ItemWidth computes the width available for item content in a pane.
func ItemWidth(paneWidth int, cfg PaneConfig) int {
	return paneWidth - cfg.ContentPadding
}

// VisibleRows computes how many items fit in a pane below its header.
func VisibleRows(paneHeight int, cfg PaneConfig) int {
	rows := paneHeight - cfg.HeaderLines
	if rows < 1 {
		return 1
	}
	return rows
}

// ViewportOffset returns the scroll offset that keeps the selected item
// visible, roughly centered.
func ViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	offset := selected - viewportHeight/2
	if offset < 0 {
		offset = 0
	}
	if maxOffset := total - viewportHeight; offset > maxOffset {
		offset = maxOffset
	}
	return offset
}

// ModalWidth computes the modal width from the terminal width, clamped to
// [MinWidth, MaxWidth] and never wider than the terminal.
func ModalWidth(terminalWidth int, cfg ModalConfig) int {
	width := terminalWidth * cfg.WidthPercent / 100
	if width < cfg.MinWidth {
		width = cfg.MinWidth
	}
	if width > cfg.MaxWidth {
		width = cfg.MaxWidth
	}
	if width > terminalWidth-4 {
		width = terminalWidth - 4
	}
	if width < 1 {
		return 1
	}
	return width
}

// VisibleWindow returns the [start, end) range of a list of total items
// that shows at most maxVisible rows and includes selected.
func VisibleWindow(maxVisible, selected, total int) (start, end int) {
	if total <= maxVisible {
		return 0, total
	}
	if selected >= maxVisible {
		start = selected - maxVisible + 1
	}
	end = start + maxVisible
	if end > total {
		end = total
	}
	return start, end
}
