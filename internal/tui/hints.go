package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "open")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint
	Edit   []Hint
	System []Hint
}

// All returns all hints flattened in display order.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Edit)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Edit...)
	result = append(result, h.System...)
	return result
}

// renderHints renders hints for the bottom bar: "j/k:move h:back l:open"
func (a App) renderHints(hints []Hint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints for modals: "Enter confirm  Esc cancel"
func (a App) renderHintsInline(hints []Hint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// normalHints returns the bottom bar hints for the current level and item.
func (a App) normalHints() HintSet {
	hs := HintSet{
		Nav:    []Hint{{"j/k", "move"}},
		System: []Hint{{"/", "search"}, {"t", "theme"}, {"?", "help"}, {"q", "quit"}},
	}
	if a.categoryID != "" {
		hs.Nav = append(hs.Nav, Hint{"h", "back"})
	}

	item, ok := a.current()
	switch {
	case !ok:
	case item.IsGroup():
		hs.Nav = append(hs.Nav, Hint{"l", "open"})
		hs.Edit = append(hs.Edit, Hint{"e", "rename"}, Hint{"i", "icon"})
	default:
		hs.Nav = append(hs.Nav, Hint{"l", "open"})
		hs.Edit = append(hs.Edit, Hint{"e", "edit"}, Hint{"Y", "yank"})
	}
	if ok {
		hs.Edit = append(hs.Edit, Hint{"J/K", "reorder"}, Hint{"d", "delete"})
	}

	switch {
	case a.categoryID == "":
		hs.Edit = append(hs.Edit, Hint{"a", "add category"})
	case a.subcategoryID == "":
		hs.Edit = append(hs.Edit, Hint{"a", "add link"}, Hint{"A", "add subcategory"})
	default:
		hs.Edit = append(hs.Edit, Hint{"a", "add link"})
	}
	return hs
}

// modalHints returns the inline hints for the current modal.
func (a App) modalHints() []Hint {
	switch a.mode {
	case ModeConfirmDelete:
		return []Hint{{"y", "delete"}, {"n", "cancel"}}
	case ModeSearch:
		return []Hint{{"↑/↓", "select"}, {"Enter", "go to"}, {"Esc", "cancel"}}
	case ModeHelp:
		return []Hint{{"any key", "close"}}
	case ModeAddLink, ModeEditLink:
		return []Hint{{"Tab", "next field"}, {"Enter", "save"}, {"Esc", "cancel"}}
	default:
		return []Hint{{"Enter", "save"}, {"Esc", "cancel"}}
	}
}
